package flow

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hireboard/hirectl/internal/client/services"
	"github.com/hireboard/hirectl/internal/logging"
)

// VerifyState is the main state of the email-verification flow. The resend
// cooldown runs alongside AwaitingOTP and is exposed separately via
// CooldownRemaining, since the user keeps typing while it counts down.
type VerifyState int

const (
	StateLogin VerifyState = iota
	StateAwaitingOTP
	StateVerifyingOTP
	StateVerified
)

const (
	codeLength            = 6
	resendCooldownSeconds = 60
	verifyFailedFallback  = "Invalid or expired code. Please try again."
	resendFailedFallback  = "Could not resend the code. Please try again."
	malformedCodeMessage  = "Please enter the 6-digit code sent to your email."
)

var codePattern = regexp.MustCompile(`^\d{6}$`)

// VerifierEvents are optional hooks into the presentation layer. All of
// them may be nil. They are invoked outside the controller's lock.
type VerifierEvents struct {
	// Verified fires once verification succeeds; the presentation layer
	// should switch back to the login view.
	Verified func()
	// FocusCode fires when a verification attempt fails, so the code input
	// regains focus for correction.
	FocusCode func()
	// CooldownTick fires once per elapsed second with the remaining
	// cooldown, ending with 0 when resend becomes available again.
	CooldownTick func(remaining int)
}

// Verifier is the email-verification flow controller.
//
// It owns the OTP state: the accumulated code, the pending email, the
// resend cooldown, and the in-flight flags. At most one cooldown timer
// runs per instance, and Close cancels it deterministically. Results of
// calls that complete after Reset or Close are discarded.
type Verifier struct {
	mu     sync.Mutex
	svc    services.AuthService
	log    logging.Logger
	events VerifierEvents

	state        VerifyState
	code         string
	pendingEmail string
	cooldown     int
	submitting   bool
	resending    bool

	stopTimer chan struct{}
	tick      time.Duration
	gen       uint64
	closed    bool
}

// NewVerifier constructs a Verifier in the Login state. No timer is armed
// at construction; only a successful resend arms one.
func NewVerifier(svc services.AuthService, log logging.Logger, events VerifierEvents) *Verifier {
	return &Verifier{
		svc:    svc,
		log:    log,
		events: events,
		state:  StateLogin,
		tick:   time.Second,
	}
}

// Begin enters the verification flow for the given email, typically after
// a login attempt failed because the account is unverified.
func (v *Verifier) Begin(email string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.state = StateAwaitingOTP
	v.pendingEmail = email
	v.code = ""
}

func (v *Verifier) State() VerifyState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *Verifier) Code() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.code
}

func (v *Verifier) PendingEmail() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pendingEmail
}

func (v *Verifier) CooldownRemaining() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cooldown
}

// Input applies the current content of the code field: non-digits are
// silently dropped, the rest is truncated to six digits. The instant the
// code reaches exactly six digits, one verification attempt is triggered
// automatically.
func (v *Verifier) Input(ctx context.Context, value string) *Failure {
	v.mu.Lock()
	if v.closed || v.state != StateAwaitingOTP {
		v.mu.Unlock()
		return nil
	}
	v.code = sanitizeCode(value)
	full := len(v.code) == codeLength
	v.mu.Unlock()

	if full {
		return v.Submit(ctx)
	}
	return nil
}

// Submit runs one verification attempt. It is a no-op while another
// attempt is in flight. A code that is not exactly six digits fails
// without a network call and leaves the state in AwaitingOTP.
func (v *Verifier) Submit(ctx context.Context) *Failure {
	v.mu.Lock()
	if v.closed || v.submitting || v.state != StateAwaitingOTP {
		v.mu.Unlock()
		return nil
	}
	if !codePattern.MatchString(v.code) {
		v.mu.Unlock()
		v.fireFocusCode()
		return &Failure{Title: "Verification failed", Message: malformedCodeMessage}
	}
	v.state = StateVerifyingOTP
	v.submitting = true
	gen := v.gen
	email, code := v.pendingEmail, v.code
	v.mu.Unlock()

	_, err := v.svc.VerifyEmail(ctx, email, code)

	v.mu.Lock()
	if v.closed || v.gen != gen {
		v.mu.Unlock()
		return nil
	}
	v.submitting = false
	if err != nil {
		// Back to AwaitingOTP with the code left as typed for correction.
		v.state = StateAwaitingOTP
		v.mu.Unlock()
		v.log.Warn(ctx, "email verification failed", "email", email)
		v.fireFocusCode()
		return &Failure{Title: "Verification failed", Message: failureMessage(err, verifyFailedFallback)}
	}
	v.state = StateVerified
	v.stopCooldownLocked()
	v.mu.Unlock()

	v.log.Info(ctx, "email verified", "email", email)
	if v.events.Verified != nil {
		v.events.Verified()
	}
	return nil
}

// Resend asks the backend for a fresh code. While a resend is in flight or
// the cooldown is still counting down, the call is a silent no-op (the
// original product behavior: spam prevention, not an error). It reports
// whether a request was actually made.
func (v *Verifier) Resend(ctx context.Context) (bool, *Failure) {
	v.mu.Lock()
	if v.closed || v.resending || v.cooldown > 0 || v.state == StateLogin || v.state == StateVerified {
		v.mu.Unlock()
		return false, nil
	}
	v.resending = true
	gen := v.gen
	email := v.pendingEmail
	v.mu.Unlock()

	_, err := v.svc.ResendCode(ctx, email)

	v.mu.Lock()
	if v.closed || v.gen != gen {
		v.mu.Unlock()
		return false, nil
	}
	v.resending = false
	if err != nil {
		v.mu.Unlock()
		return false, &Failure{Title: "Resend failed", Message: failureMessage(err, resendFailedFallback)}
	}
	v.armCooldownLocked()
	v.mu.Unlock()

	v.log.Info(ctx, "verification code resent", "email", email)
	return true, nil
}

// Reset returns the controller to the Login state, discarding the code,
// the pending email, the cooldown, and the result of any in-flight call.
func (v *Verifier) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.gen++
	v.state = StateLogin
	v.code = ""
	v.pendingEmail = ""
	v.cooldown = 0
	v.submitting = false
	v.resending = false
	v.stopCooldownLocked()
}

// Close tears the controller down. The cooldown timer is canceled and any
// in-flight result is discarded; no state changes happen afterwards.
// Close is idempotent.
func (v *Verifier) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.gen++
	v.stopCooldownLocked()
}

// armCooldownLocked starts the 60-second countdown, replacing any timer
// that is still running. Callers must hold v.mu.
func (v *Verifier) armCooldownLocked() {
	v.stopCooldownLocked()
	v.cooldown = resendCooldownSeconds
	stop := make(chan struct{})
	v.stopTimer = stop
	go v.runCooldown(stop)
}

// stopCooldownLocked cancels the running timer, if any. Safe to call
// repeatedly. Callers must hold v.mu.
func (v *Verifier) stopCooldownLocked() {
	if v.stopTimer != nil {
		close(v.stopTimer)
		v.stopTimer = nil
	}
}

func (v *Verifier) runCooldown(stop chan struct{}) {
	ticker := time.NewTicker(v.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			v.mu.Lock()
			if v.stopTimer != stop {
				// Replaced or canceled between the tick and the lock.
				v.mu.Unlock()
				return
			}
			v.cooldown--
			remaining := v.cooldown
			if remaining <= 0 {
				remaining = 0
				v.cooldown = 0
				v.stopTimer = nil
			}
			tickFn := v.events.CooldownTick
			v.mu.Unlock()

			if tickFn != nil {
				tickFn(remaining)
			}
			if remaining == 0 {
				return
			}
		}
	}
}

func (v *Verifier) fireFocusCode() {
	if v.events.FocusCode != nil {
		v.events.FocusCode()
	}
}

// sanitizeCode keeps only digit characters, in order, truncated to the
// code length. Non-digit input is dropped silently.
func sanitizeCode(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == codeLength {
			break
		}
	}
	return b.String()
}
