package flow

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/hireboard/hirectl/internal/client/api"
	"github.com/hireboard/hirectl/internal/client/models"
	"github.com/hireboard/hirectl/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeAuth implements services.AuthService for controller tests. Setting
// Block makes every call wait until the channel is closed, which lets
// tests exercise in-flight and stale-result behavior.
type fakeAuth struct {
	mu sync.Mutex

	Block chan struct{}

	LoginPayload    *api.Payload
	LoginErr        error
	RegisterPayload *api.Payload
	RegisterErr     error
	VerifyErr       error
	ResendErr       error
	ForgotErr       error

	LoginCalls    int
	RegisterCalls int
	VerifyCalls   int
	ResendCalls   int
	ForgotCalls   int

	LastVerifyEmail string
	LastVerifyCode  string
	LastResendEmail string
	LastForgotEmail string
}

func (f *fakeAuth) wait() {
	f.mu.Lock()
	block := f.Block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
}

func (f *fakeAuth) Login(ctx context.Context, creds models.Credentials) (*api.Payload, error) {
	f.mu.Lock()
	f.LoginCalls++
	f.mu.Unlock()
	f.wait()
	return f.LoginPayload, f.LoginErr
}

func (f *fakeAuth) Register(ctx context.Context, reg models.Registration) (*api.Payload, error) {
	f.mu.Lock()
	f.RegisterCalls++
	f.mu.Unlock()
	f.wait()
	return f.RegisterPayload, f.RegisterErr
}

func (f *fakeAuth) VerifyEmail(ctx context.Context, email, code string) (*api.Payload, error) {
	f.mu.Lock()
	f.VerifyCalls++
	f.LastVerifyEmail = email
	f.LastVerifyCode = code
	f.mu.Unlock()
	f.wait()
	return api.ParsePayload([]byte(`{"success":true}`)), f.VerifyErr
}

func (f *fakeAuth) ResendCode(ctx context.Context, email string) (*api.Payload, error) {
	f.mu.Lock()
	f.ResendCalls++
	f.LastResendEmail = email
	f.mu.Unlock()
	f.wait()
	return api.ParsePayload([]byte(`{"success":true}`)), f.ResendErr
}

func (f *fakeAuth) ForgotPassword(ctx context.Context, email string) (*api.Payload, error) {
	f.mu.Lock()
	f.ForgotCalls++
	f.LastForgotEmail = email
	f.mu.Unlock()
	f.wait()
	return api.ParsePayload([]byte(`{"message":"sent"}`)), f.ForgotErr
}

func (f *fakeAuth) Profile(ctx context.Context) (*models.UserProfile, error) {
	return nil, nil
}

func (f *fakeAuth) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error) {
	return nil, nil
}

func (f *fakeAuth) verifyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.VerifyCalls
}

func (f *fakeAuth) resendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ResendCalls
}

func apiError(message string, status int, kind api.Kind) *api.Error {
	return &api.Error{Message: message, StatusCode: status, Kind: kind}
}
