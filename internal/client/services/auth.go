// Package services contains the typed credential operations of the hirectl
// client. Each operation pins one backend action's endpoint, method, and
// body shape, so flow controllers never construct requests themselves.
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hireboard/hirectl/internal/client/api"
	"github.com/hireboard/hirectl/internal/client/models"
)

// AuthService defines the credential operations of the client.
//
// Contract:
//   - Register/Login/VerifyEmail/ResendCode/ForgotPassword return exactly
//     what the transport returns: a parsed payload or a *api.Error. No
//     interpretation happens at this layer.
//   - Profile/UpdateProfile additionally decode the response into a
//     UserProfile, since their success shape is fixed.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, reg models.Registration) (*api.Payload, error)
	Login(ctx context.Context, creds models.Credentials) (*api.Payload, error)
	VerifyEmail(ctx context.Context, email, code string) (*api.Payload, error)
	ResendCode(ctx context.Context, email string) (*api.Payload, error)
	ForgotPassword(ctx context.Context, email string) (*api.Payload, error)
	Profile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error)
}

// authService is the concrete AuthService backed by the API transport.
type authService struct {
	client api.Client
}

// NewAuthService constructs an AuthService bound to the given transport.
func NewAuthService(client api.Client) AuthService {
	return &authService{client: client}
}

func (a *authService) Register(ctx context.Context, reg models.Registration) (*api.Payload, error) {
	return a.client.Send(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   reg,
	})
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) (*api.Payload, error) {
	return a.client.Send(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   creds,
	})
}

func (a *authService) VerifyEmail(ctx context.Context, email, code string) (*api.Payload, error) {
	return a.client.Send(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/verify-email",
		Body:   map[string]string{"email": email, "otp": code},
	})
}

func (a *authService) ResendCode(ctx context.Context, email string) (*api.Payload, error) {
	return a.client.Send(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/resend-otp",
		Body:   map[string]string{"email": email},
	})
}

func (a *authService) ForgotPassword(ctx context.Context, email string) (*api.Payload, error) {
	return a.client.Send(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/forgot-password",
		Body:   map[string]string{"email": email},
	})
}

func (a *authService) Profile(ctx context.Context) (*models.UserProfile, error) {
	payload, err := a.client.Send(ctx, api.Request{
		Method: http.MethodGet,
		Path:   "/users/me",
	})
	if err != nil {
		return nil, err
	}
	return decodeProfile(payload)
}

func (a *authService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error) {
	payload, err := a.client.Send(ctx, api.Request{
		Method: http.MethodPut,
		Path:   "/users/me",
		Body:   upd,
	})
	if err != nil {
		return nil, err
	}
	return decodeProfile(payload)
}

func decodeProfile(payload *api.Payload) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := payload.Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}
