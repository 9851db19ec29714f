package flow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hireboard/hirectl/internal/client/api"
)

func newVerifier(fa *fakeAuth, events VerifierEvents) *Verifier {
	return NewVerifier(fa, testLogger(), events)
}

func TestVerifier_Begin(t *testing.T) {
	v := newVerifier(&fakeAuth{}, VerifierEvents{})
	require.Equal(t, StateLogin, v.State())

	v.Begin("a@b.com")
	require.Equal(t, StateAwaitingOTP, v.State())
	require.Equal(t, "a@b.com", v.PendingEmail())
	require.Empty(t, v.Code())
	require.Zero(t, v.CooldownRemaining())
}

func TestVerifier_Input_DropsNonDigits(t *testing.T) {
	fa := &fakeAuth{}
	v := newVerifier(fa, VerifierEvents{})
	v.Begin("a@b.com")

	f := v.Input(context.Background(), "12a3bc45")
	require.Nil(t, f)
	require.Equal(t, "12345", v.Code())
	require.Zero(t, fa.verifyCount(), "five digits must not auto-submit")
}

func TestVerifier_Input_TruncatesToSixAndSubmitsOnce(t *testing.T) {
	fa := &fakeAuth{}
	v := newVerifier(fa, VerifierEvents{})
	v.Begin("a@b.com")

	f := v.Input(context.Background(), "12345678")
	require.Nil(t, f)
	require.Equal(t, 1, fa.verifyCount())
	require.Equal(t, "123456", fa.LastVerifyCode)
	require.Equal(t, "a@b.com", fa.LastVerifyEmail)
	require.Equal(t, StateVerified, v.State())
}

func TestVerifier_AutoSubmitExactlyOnceAtSixDigits(t *testing.T) {
	fa := &fakeAuth{VerifyErr: apiError("Invalid or expired code", 400, api.KindUnknown)}
	v := newVerifier(fa, VerifierEvents{})
	v.Begin("a@b.com")

	_ = v.Input(context.Background(), "12345")
	require.Zero(t, fa.verifyCount())

	_ = v.Input(context.Background(), "123456")
	require.Equal(t, 1, fa.verifyCount())
}

func TestVerifier_Input_IgnoredOutsideAwaitingOTP(t *testing.T) {
	fa := &fakeAuth{}
	v := newVerifier(fa, VerifierEvents{})

	require.Nil(t, v.Input(context.Background(), "123456"))
	require.Zero(t, fa.verifyCount())
	require.Empty(t, v.Code())
}

func TestVerifier_Submit_MalformedCodeFailsWithoutNetworkCall(t *testing.T) {
	fa := &fakeAuth{}
	focused := false
	v := newVerifier(fa, VerifierEvents{FocusCode: func() { focused = true }})
	v.Begin("a@b.com")
	_ = v.Input(context.Background(), "123")

	f := v.Submit(context.Background())
	require.NotNil(t, f)
	require.Equal(t, "Verification failed", f.Title)
	require.Zero(t, fa.verifyCount())
	require.True(t, focused)
	require.Equal(t, StateAwaitingOTP, v.State())
}

func TestVerifier_FailureKeepsCodeAndRefocuses(t *testing.T) {
	fa := &fakeAuth{VerifyErr: apiError("Invalid or expired code", 400, api.KindUnknown)}
	focused := false
	v := newVerifier(fa, VerifierEvents{FocusCode: func() { focused = true }})
	v.Begin("a@b.com")

	f := v.Input(context.Background(), "999999")
	require.NotNil(t, f)
	require.Equal(t, "Verification failed", f.Title)
	require.Equal(t, "Invalid or expired code", f.Message)
	require.Equal(t, StateAwaitingOTP, v.State())
	require.Equal(t, "999999", v.Code(), "code is left as typed for correction")
	require.True(t, focused)
}

func TestVerifier_FailureWithoutMessageUsesFallback(t *testing.T) {
	fa := &fakeAuth{VerifyErr: apiError("", 500, api.KindUnknown)}
	v := newVerifier(fa, VerifierEvents{})
	v.Begin("a@b.com")

	f := v.Input(context.Background(), "111111")
	require.NotNil(t, f)
	require.Equal(t, verifyFailedFallback, f.Message)
}

func TestVerifier_SuccessFiresVerified(t *testing.T) {
	fa := &fakeAuth{}
	verified := false
	v := newVerifier(fa, VerifierEvents{Verified: func() { verified = true }})
	v.Begin("a@b.com")

	require.Nil(t, v.Input(context.Background(), "123456"))
	require.Equal(t, StateVerified, v.State())
	require.True(t, verified)
}

func TestVerifier_Resend_ArmsCooldownAndCountsDown(t *testing.T) {
	fa := &fakeAuth{}
	var mu sync.Mutex
	var ticks []int
	v := newVerifier(fa, VerifierEvents{CooldownTick: func(remaining int) {
		mu.Lock()
		ticks = append(ticks, remaining)
		mu.Unlock()
	}})
	v.tick = time.Millisecond
	v.Begin("a@b.com")

	sent, f := v.Resend(context.Background())
	require.Nil(t, f)
	require.True(t, sent)
	require.Equal(t, 1, fa.resendCount())
	require.Equal(t, resendCooldownSeconds, v.CooldownRemaining())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return v.CooldownRemaining() == 0 && len(ticks) == resendCooldownSeconds
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ticks, resendCooldownSeconds)
	require.Equal(t, resendCooldownSeconds-1, ticks[0])
	require.Zero(t, ticks[len(ticks)-1])
	for i := 1; i < len(ticks); i++ {
		require.Equal(t, ticks[i-1]-1, ticks[i], "cooldown must strictly decrease by 1")
	}
}

func TestVerifier_Resend_NoOpDuringCooldown(t *testing.T) {
	fa := &fakeAuth{}
	v := newVerifier(fa, VerifierEvents{})
	v.tick = time.Hour // keep the cooldown from advancing during the test
	v.Begin("a@b.com")

	sent, _ := v.Resend(context.Background())
	require.True(t, sent)

	sent, f := v.Resend(context.Background())
	require.False(t, sent)
	require.Nil(t, f, "rejected resend is a no-op, not an error")
	require.Equal(t, 1, fa.resendCount())
}

func TestVerifier_Resend_NoOpWhileInFlight(t *testing.T) {
	fa := &fakeAuth{Block: make(chan struct{})}
	v := newVerifier(fa, VerifierEvents{})
	v.Begin("a@b.com")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = v.Resend(context.Background())
	}()

	require.Eventually(t, func() bool { return fa.resendCount() == 1 },
		time.Second, time.Millisecond)

	sent, f := v.Resend(context.Background())
	require.False(t, sent)
	require.Nil(t, f)

	close(fa.Block)
	<-done
	require.Equal(t, 1, fa.resendCount())
}

func TestVerifier_Resend_FailureDoesNotArmCooldown(t *testing.T) {
	fa := &fakeAuth{ResendErr: apiError("Too many requests", 429, api.KindUnknown)}
	v := newVerifier(fa, VerifierEvents{})
	v.Begin("a@b.com")

	sent, f := v.Resend(context.Background())
	require.False(t, sent)
	require.NotNil(t, f)
	require.Equal(t, "Too many requests", f.Message)
	require.Zero(t, v.CooldownRemaining())

	// A retry is allowed immediately after a failed resend.
	fa.ResendErr = nil
	sent, _ = v.Resend(context.Background())
	require.True(t, sent)
}

func TestVerifier_NewResendReplacesRunningTimer(t *testing.T) {
	fa := &fakeAuth{}
	v := newVerifier(fa, VerifierEvents{})
	v.tick = time.Hour
	v.Begin("a@b.com")

	_, _ = v.Resend(context.Background())
	v.mu.Lock()
	first := v.stopTimer
	v.mu.Unlock()
	require.NotNil(t, first)

	// Force the cooldown open and resend again: the old timer must be
	// replaced, never doubled.
	v.mu.Lock()
	v.cooldown = 0
	v.mu.Unlock()

	_, _ = v.Resend(context.Background())
	v.mu.Lock()
	second := v.stopTimer
	v.mu.Unlock()
	require.NotNil(t, second)
	require.NotEqual(t, first, second)
}

func TestVerifier_CloseCancelsTimerAndIsIdempotent(t *testing.T) {
	fa := &fakeAuth{}
	v := newVerifier(fa, VerifierEvents{})
	v.tick = time.Hour
	v.Begin("a@b.com")
	_, _ = v.Resend(context.Background())

	v.Close()
	v.mu.Lock()
	require.Nil(t, v.stopTimer)
	v.mu.Unlock()

	v.Close() // second close must not panic
}

func TestVerifier_StaleResultIgnoredAfterReset(t *testing.T) {
	fa := &fakeAuth{Block: make(chan struct{})}
	verified := false
	v := newVerifier(fa, VerifierEvents{Verified: func() { verified = true }})
	v.Begin("a@b.com")

	done := make(chan *Failure, 1)
	go func() {
		done <- v.Input(context.Background(), "123456")
	}()

	require.Eventually(t, func() bool { return fa.verifyCount() == 1 },
		time.Second, time.Millisecond)

	v.Reset()
	close(fa.Block)

	require.Nil(t, <-done)
	require.Equal(t, StateLogin, v.State())
	require.False(t, verified, "a result arriving after reset must be discarded")
}

func TestVerifier_NoOpAfterClose(t *testing.T) {
	fa := &fakeAuth{}
	v := newVerifier(fa, VerifierEvents{})
	v.Begin("a@b.com")
	v.Close()

	require.Nil(t, v.Input(context.Background(), "123456"))
	sent, f := v.Resend(context.Background())
	require.False(t, sent)
	require.Nil(t, f)
	require.Zero(t, fa.verifyCount())
	require.Zero(t, fa.resendCount())
}

func TestSanitizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12a3bc45", "12345"},
		{"abc", ""},
		{"1234567890", "123456"},
		{"  1 2 3 ", "123"},
		{"", ""},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, sanitizeCode(tc.in), "input %q", tc.in)
	}
}
