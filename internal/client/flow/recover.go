package flow

import (
	"context"
	"sync"

	"github.com/hireboard/hirectl/internal/client/services"
	"github.com/hireboard/hirectl/internal/logging"
)

// RecoveryState is the state of the forgot-password flow.
type RecoveryState int

const (
	RecoveryEntering RecoveryState = iota
	RecoverySubmitting
	RecoverySent
)

const recoverFailedFallback = "Could not send the reset email. Please try again."

// Recovery is the password-recovery flow controller.
type Recovery struct {
	mu    sync.Mutex
	svc   services.AuthService
	log   logging.Logger
	state RecoveryState
	email string
	gen   uint64
}

func NewRecovery(svc services.AuthService, log logging.Logger) *Recovery {
	return &Recovery{svc: svc, log: log, state: RecoveryEntering}
}

func (r *Recovery) State() RecoveryState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recovery) Email() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.email
}

// Submit requests a password-reset email. A submit while one is already in
// flight is rejected. On failure the flow returns to Entering and the
// error's message is surfaced with a generic fallback.
func (r *Recovery) Submit(ctx context.Context, email string) *Failure {
	r.mu.Lock()
	if r.state == RecoverySubmitting {
		r.mu.Unlock()
		return nil
	}
	r.state = RecoverySubmitting
	r.email = email
	gen := r.gen
	r.mu.Unlock()

	_, err := r.svc.ForgotPassword(ctx, email)

	r.mu.Lock()
	if r.gen != gen {
		// The flow was closed while the request was in flight.
		r.mu.Unlock()
		return nil
	}
	if err != nil {
		r.state = RecoveryEntering
		r.mu.Unlock()
		return &Failure{Title: "Request failed", Message: failureMessage(err, recoverFailedFallback)}
	}
	r.state = RecoverySent
	r.mu.Unlock()

	r.log.Info(ctx, "password reset email requested", "email", email)
	return nil
}

// UseDifferentEmail returns from Sent to Entering with the email cleared,
// so the user can send the reset to another address.
func (r *Recovery) UseDifferentEmail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != RecoverySent {
		return
	}
	r.state = RecoveryEntering
	r.email = ""
}

// Close resets the flow fully regardless of the current state, so no stale
// success state is visible when it reopens.
func (r *Recovery) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.state = RecoveryEntering
	r.email = ""
}
