// Package cli is the interactive front end of hirectl. It owns no
// authentication logic: it passes plain events (submit credentials,
// request resend, close) into the flow controllers and renders the plain
// data (profile, loading state, failures) they hand back.
package cli

import (
	"bufio"
	"log/slog"
	"os"

	"github.com/hireboard/hirectl/internal/client/api"
	"github.com/hireboard/hirectl/internal/client/config"
	"github.com/hireboard/hirectl/internal/client/flow"
	"github.com/hireboard/hirectl/internal/client/services"
	"github.com/hireboard/hirectl/internal/client/session"
	"github.com/hireboard/hirectl/internal/logging"
)

type App struct {
	config   *config.Config
	session  *session.Store
	auth     *flow.Authenticator
	verifier *flow.Verifier
	recovery *flow.Recovery
	svc      services.AuthService
	log      logging.Logger
	reader   *bufio.Reader
}

func NewApp(c *config.Config) *App {
	log := logging.NewTextLogger(slog.LevelWarn)

	sess := session.NewStore()
	transport := api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, sess, log)
	svc := services.NewAuthService(transport)

	verifier := flow.NewVerifier(svc, log, flow.VerifierEvents{
		Verified: func() {
			printlnFn("Email verified! You can now sign in.")
		},
	})

	return &App{
		config:   c,
		session:  sess,
		auth:     flow.NewAuthenticator(svc, sess, verifier, log),
		verifier: verifier,
		recovery: flow.NewRecovery(svc, log),
		svc:      svc,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.HasToken()
}

func (a *App) Close() {
	a.verifier.Close()
	a.recovery.Close()
}
