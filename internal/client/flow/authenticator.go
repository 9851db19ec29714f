package flow

import (
	"context"
	"errors"
	"sync"

	"github.com/hireboard/hirectl/internal/client/api"
	"github.com/hireboard/hirectl/internal/client/models"
	"github.com/hireboard/hirectl/internal/client/services"
	"github.com/hireboard/hirectl/internal/client/session"
	"github.com/hireboard/hirectl/internal/logging"
)

// LoginOutcome classifies the result of a login attempt.
type LoginOutcome int

const (
	LoginFailed LoginOutcome = iota
	LoginAuthenticated
	// LoginNeedsVerification means the account exists but its email is
	// unconfirmed; the verifier has been handed the email already.
	LoginNeedsVerification
)

// RegisterOutcome classifies the result of a registration attempt.
type RegisterOutcome int

const (
	RegisterFailed RegisterOutcome = iota
	RegisterAuthenticated
	RegisterNeedsVerification
)

const (
	signInFailedTitle       = "Sign in failed"
	registrationFailedTitle = "Registration failed"

	noTokenMessage            = "No authentication token received"
	unexpectedResponseMessage = "Unexpected response from server"
	signInFallbackMessage     = "Unable to sign in. Please try again."
	registerFallbackMessage   = "Registration failed. Please try again."
	duplicateAccountMessage   = "An account with this email already exists."
	networkFailureMessage     = "Network error. Please check your connection and try again."
)

// Authenticator orchestrates login and registration. On success it splits
// the token out of the response into the session store, adopts the rest as
// the active profile, and leaves interpretation of verification handoffs
// to the Verifier it owns a reference to.
type Authenticator struct {
	mu       sync.Mutex
	svc      services.AuthService
	session  *session.Store
	verifier *Verifier
	log      logging.Logger

	profile    *models.UserProfile
	submitting bool
}

func NewAuthenticator(svc services.AuthService, sess *session.Store, verifier *Verifier, log logging.Logger) *Authenticator {
	return &Authenticator{svc: svc, session: sess, verifier: verifier, log: log}
}

// Profile returns the profile adopted by the most recent successful auth
// operation, or nil.
func (a *Authenticator) Profile() *models.UserProfile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile
}

// Login submits credentials. A failure whose classification is Unverified
// does not surface an error: the verifier takes over with the submitted
// email and the outcome is LoginNeedsVerification.
func (a *Authenticator) Login(ctx context.Context, email, password string) (LoginOutcome, *Failure) {
	if !a.begin() {
		return LoginFailed, nil
	}
	defer a.end()

	payload, err := a.svc.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Kind == api.KindUnverified {
			a.log.Info(ctx, "login requires email verification", "email", email)
			a.verifier.Begin(email)
			return LoginNeedsVerification, nil
		}
		return LoginFailed, &Failure{Title: signInFailedTitle, Message: failureMessage(err, signInFallbackMessage)}
	}

	token := payload.StringField("token")
	if token == "" {
		return LoginFailed, &Failure{Title: signInFailedTitle, Message: noTokenMessage}
	}

	a.session.SetToken(token)

	// The remainder of the response is the user profile.
	var profile models.UserProfile
	if err := payload.Decode(&profile); err != nil {
		a.log.Warn(ctx, "login response profile decode failed", "email", email)
	}
	a.setProfile(&profile)

	a.log.Info(ctx, "signed in", "email", email)
	return LoginAuthenticated, nil
}

// Register submits registration data. Three disjoint outcomes:
//   - the backend wants email verification → hand off to the verifier;
//   - the backend returned a token directly → same as a successful login;
//   - neither marker → failure.
func (a *Authenticator) Register(ctx context.Context, reg models.Registration) (RegisterOutcome, *Failure) {
	if !a.begin() {
		return RegisterFailed, nil
	}
	defer a.end()

	payload, err := a.svc.Register(ctx, reg)
	if err != nil {
		return RegisterFailed, &Failure{Title: registrationFailedTitle, Message: registerErrorMessage(err)}
	}

	if payload.BoolField("needsVerification") {
		a.log.Info(ctx, "registration requires email verification", "email", reg.Email)
		a.verifier.Begin(reg.Email)
		return RegisterNeedsVerification, nil
	}

	if token := payload.StringField("token"); token != "" {
		a.session.SetToken(token)

		var profile models.UserProfile
		if ok, err := payload.DecodeField("user", &profile); err != nil || !ok {
			a.log.Warn(ctx, "registration response user decode failed", "email", reg.Email)
		}
		a.setProfile(&profile)

		a.log.Info(ctx, "registered and signed in", "email", reg.Email)
		return RegisterAuthenticated, nil
	}

	return RegisterFailed, &Failure{Title: registrationFailedTitle, Message: unexpectedResponseMessage}
}

// Logout drops the session token and the active profile.
func (a *Authenticator) Logout() {
	a.session.Clear()
	a.setProfile(nil)
}

func (a *Authenticator) setProfile(p *models.UserProfile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profile = p
}

// begin rejects a second concurrent attempt on the same instance.
func (a *Authenticator) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitting {
		return false
	}
	a.submitting = true
	return true
}

func (a *Authenticator) end() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.submitting = false
}

// registerErrorMessage derives the user-facing registration failure text.
// Priority: duplicate account, network failure, structured validation
// details, generic response payload, raw message, final fallback.
func registerErrorMessage(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return registerFallbackMessage
	}

	switch apiErr.Kind {
	case api.KindDuplicateAccount:
		return duplicateAccountMessage
	case api.KindNetworkUnreachable:
		return networkFailureMessage
	case api.KindValidationFailed:
		if msg := flattenDetails(apiErr.Details); msg != "" {
			return msg
		}
	}

	if payload, ok := apiErr.Details.(map[string]any); ok {
		if msg, ok := payload["message"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := payload["error"].(string); ok && msg != "" {
			return msg
		}
	}

	if apiErr.Message != "" && apiErr.Message != "Request failed" {
		return apiErr.Message
	}
	return registerFallbackMessage
}
