package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/hireboard/hirectl/internal/client/flow"
	"github.com/hireboard/hirectl/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and submits them. An account whose email
// is unverified is routed straight into the OTP prompt loop instead of
// surfacing an error.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	outcome, failure := a.auth.Login(ctx, email, password)
	switch outcome {
	case flow.LoginAuthenticated:
		profile := a.auth.Profile()
		printlnFn(fmt.Sprintf("Signed in as %s", profile.Email))
	case flow.LoginNeedsVerification:
		printlnFn("Your email is not verified yet. Check your inbox for a 6-digit code.")
		a.runVerifyLoop(ctx)
	case flow.LoginFailed:
		printFailure(failure)
	}
	return nil
}

// Register prompts for the registration fields and submits them. The
// backend decides whether the account needs email verification or is
// signed in directly.
func (a *App) Register(ctx context.Context) error {
	reg := models.Registration{}
	fields := []struct {
		prompt string
		target *string
	}{
		{"Enter email", &reg.Email},
		{"Enter first name", &reg.FirstName},
		{"Enter last name", &reg.LastName},
		{"Enter phone (optional)", &reg.Phone},
		{"Enter role (candidate/employer)", &reg.Role},
	}
	for _, f := range fields {
		value, err := getSimpleText(a.reader, f.prompt, os.Stdout)
		if err != nil {
			return err
		}
		*f.target = value
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	reg.Password = password

	outcome, failure := a.auth.Register(ctx, reg)
	switch outcome {
	case flow.RegisterAuthenticated:
		printlnFn("Account created. You are signed in.")
	case flow.RegisterNeedsVerification:
		printlnFn("Almost there! Enter the 6-digit code we sent to your email.")
		a.runVerifyLoop(ctx)
	case flow.RegisterFailed:
		printFailure(failure)
	}
	return nil
}

// Forgot runs the password-recovery flow.
func (a *App) Forgot(ctx context.Context) error {
	defer a.recovery.Close()

	email, err := getSimpleText(a.reader, "Enter the email to send a reset link to", os.Stdout)
	if err != nil {
		return err
	}

	if failure := a.recovery.Submit(ctx, email); failure != nil {
		printFailure(failure)
		return nil
	}
	if a.recovery.State() == flow.RecoverySent {
		printlnFn(fmt.Sprintf("Reset email sent to %s.", a.recovery.Email()))
	}
	return nil
}

// Logout drops the session token and the active profile.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout()
	printlnFn("Signed out.")
	return nil
}

func printFailure(f *flow.Failure) {
	if f == nil {
		return
	}
	printlnFn(fmt.Sprintf("%s: %s", f.Title, f.Message))
}
