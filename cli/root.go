package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-auth-client/authapi"
	"github.com/jrsteele09/go-auth-client/feed"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/metrics"
	"github.com/jrsteele09/go-auth-client/plan"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/token/jwt"
	"github.com/jrsteele09/go-auth-client/tokenstore/filestore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Exit codes shared by every command.
const (
	ExitOK              = 0
	ExitError           = 2
	ExitExpiredPlan     = 3
	ExitUnauthenticated = 4
)

// ExitCodeError carries a non-zero process exit code out of a command.
type ExitCodeError struct {
	Code int
	Err  error
}

func (e *ExitCodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

func exitWith(code int, err error) error {
	if code == ExitOK && err == nil {
		return nil
	}
	return &ExitCodeError{Code: code, Err: err}
}

type app struct {
	out     io.Writer
	errOut  io.Writer
	options []config.Option
	cfg     config.Config

	apiURL     string
	authURL    string
	feedURL    string
	storePath  string
	jsonOutput bool
	banner     bool
}

// NewRootCommand builds the command tree. Options are applied before the
// command-line overrides.
func NewRootCommand(out io.Writer, options ...config.Option) *cobra.Command {
	a := &app{out: out, options: options}

	root := &cobra.Command{
		Use:   "go-auth-client",
		Short: "Session and account client for the research feed service",
		Long: `go-auth-client signs users in, keeps their session on disk and reports which
part of the application the session may reach.

Exit codes:
  0 - authenticated (or the command succeeded)
  2 - error
  3 - signed in but the plan has expired
  4 - not signed in

Environment Variables:
  API_BASE_URL, AUTH_BASE_URL, FEED_BASE_URL, PLAN_CHECK_TIMEOUT, HTTP_TIMEOUT,
  TOKEN_STORE_PATH, TOKEN_STORE_KEY, OAUTH_CLIENT_ID, OAUTH_CLIENT_SECRET,
  OAUTH_SCOPE, LOG_LEVEL, LOG_FORMAT, APP_NAME`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.errOut = cmd.ErrOrStderr()
			a.cfg = config.New(append(a.options,
				config.WithAPIBaseURL(a.apiURL),
				config.WithAuthBaseURL(a.authURL),
				config.WithFeedBaseURL(a.feedURL),
				config.WithTokenStorePath(a.storePath),
			)...)
			if a.banner {
				figure.Write(cmd.ErrOrStderr(), figure.NewFigure(a.cfg.GetAppName(), "cybermedium", true))
			}
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api-url", "", "Plan API base URL (overrides API_BASE_URL)")
	flags.StringVar(&a.authURL, "auth-url", "", "Auth service base URL (overrides AUTH_BASE_URL)")
	flags.StringVar(&a.feedURL, "feed-url", "", "Feed base URL (overrides FEED_BASE_URL)")
	flags.StringVar(&a.storePath, "store", "", "Credentials file (overrides TOKEN_STORE_PATH)")
	flags.BoolVar(&a.jsonOutput, "json", false, "Output JSON instead of human-readable text")
	flags.BoolVar(&a.banner, "banner", false, "Print the application banner to stderr")

	root.AddCommand(
		a.statusCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.recheckCommand(),
		a.refreshCommand(),
		a.tokengenCommand(),
		a.accountCommand(),
		a.feedCommand(),
	)
	return root
}

// newController wires a session controller to the configured store and plan endpoint.
func (a *app) newController() (*session.Controller, error) {
	store, err := filestore.New(a.cfg.GetTokenStorePath(), filestore.WithPassphrase(a.cfg.GetTokenStoreKey()))
	if err != nil {
		return nil, err
	}
	checker := plan.NewHTTPChecker(a.cfg.GetAPIBaseURL(), plan.WithTimeout(a.cfg.GetPlanCheckTimeout()))
	return session.NewController(store, jwt.NewDecoder(), checker,
		session.WithMetrics(metrics.New(prometheus.NewRegistry())),
	), nil
}

// startController returns a started controller; the caller must Close it.
func (a *app) startController(ctx context.Context) (*session.Controller, error) {
	c, err := a.newController()
	if err != nil {
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (a *app) authClient() *authapi.Client {
	return authapi.New(a.cfg.GetAuthBaseURL(),
		authapi.WithHTTPClient(&http.Client{Timeout: a.cfg.GetHTTPTimeout()}),
		authapi.WithOAuthClient(a.cfg.GetClientID(), a.cfg.GetClientSecret(), a.cfg.GetScopes()...),
		authapi.WithTokenPath(a.cfg.GetTokenPath()),
	)
}

func (a *app) feedClient() *feed.Client {
	return feed.New(a.cfg.GetAuthBaseURL(), a.cfg.GetFeedBaseURL(),
		feed.WithHTTPClient(&http.Client{Timeout: a.cfg.GetHTTPTimeout()}),
	)
}

func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
