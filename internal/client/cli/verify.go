package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/hireboard/hirectl/internal/client/flow"
)

// runVerifyLoop drives the OTP entry flow. Each line of input is fed into
// the verifier, which drops non-digits, truncates at six, and submits
// automatically once six digits are in. "resend" asks for a fresh code
// (a silent no-op while the cooldown runs) and "cancel" abandons the flow.
func (a *App) runVerifyLoop(ctx context.Context) {
	for a.verifier.State() == flow.StateAwaitingOTP {
		prompt := fmt.Sprintf("Enter the 6-digit code for %s (or 'resend' / 'cancel')", a.verifier.PendingEmail())
		line, err := getSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			a.verifier.Reset()
			return
		}

		switch line {
		case "cancel":
			a.verifier.Reset()
			return

		case "resend":
			sent, failure := a.verifier.Resend(ctx)
			switch {
			case failure != nil:
				printFailure(failure)
			case sent:
				printlnFn("A new code is on its way.")
			case a.verifier.CooldownRemaining() > 0:
				printlnFn(fmt.Sprintf("Please wait %ds before requesting another code.", a.verifier.CooldownRemaining()))
			}

		default:
			if failure := a.verifier.Input(ctx, line); failure != nil {
				printFailure(failure)
			}
		}
	}
}
