package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jrsteele09/go-auth-client/authapi"
	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/route"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/token/jwt"
	"github.com/spf13/cobra"
)

// statusReport is the machine-readable form of a settled session.
type statusReport struct {
	Route          string     `json:"route"`
	Authenticated  bool       `json:"authenticated"`
	Subject        string     `json:"subject,omitempty"`
	Name           *string    `json:"name,omitempty"`
	Role           *string    `json:"role,omitempty"`
	PhoneNumber    *string    `json:"phone_number,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	PlanActive     bool       `json:"plan_active"`
	PlanMessage    string     `json:"plan_message,omitempty"`
	PlanFailedOpen bool       `json:"plan_failed_open,omitempty"`
}

func newStatusReport(snap session.Snapshot) statusReport {
	report := statusReport{
		Route:          snap.Route().String(),
		Authenticated:  snap.Session.Authenticated,
		PlanActive:     snap.Plan.Active,
		PlanMessage:    snap.Plan.Message,
		PlanFailedOpen: snap.Plan.FailedOpen,
	}
	if claims := snap.Claims; claims != nil {
		report.Subject = claims.Subject
		report.Name = claims.Name
		report.Role = claims.Role
		report.PhoneNumber = claims.PhoneNumber
		if !claims.ExpiresAt.IsZero() {
			report.ExpiresAt = utils.Ptr(claims.ExpiresAt)
		}
	}
	return report
}

func routeExitCode(d route.Decision) int {
	switch d {
	case route.Authenticated:
		return ExitOK
	case route.ExpiredPlan:
		return ExitExpiredPlan
	case route.Unauthenticated:
		return ExitUnauthenticated
	}
	return ExitError
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// settle waits for the route gate and prints the session. The wait is bounded
// by the plan timeout plus a margin so a stuck check cannot hang the command.
func (a *app) settle(ctx context.Context, c *session.Controller) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.GetPlanCheckTimeout()+5*time.Second)
	defer cancel()

	d, err := c.WaitForRoute(ctx)
	if err != nil {
		return exitWith(ExitError, fmt.Errorf("waiting for session: %w", err))
	}
	if err := a.printStatus(c.Snapshot()); err != nil {
		return exitWith(ExitError, err)
	}
	return exitWith(routeExitCode(d), nil)
}

func (a *app) printStatus(snap session.Snapshot) error {
	report := newStatusReport(snap)
	if a.jsonOutput {
		return a.printJSON(report)
	}

	switch snap.Route() {
	case route.Unauthenticated:
		a.printf("Not signed in.\n")
		return nil
	case route.ExpiredPlan:
		a.printf("Signed in as %s, but the plan has expired.\n", displayName(report))
	default:
		a.printf("Signed in as %s.\n", displayName(report))
	}
	if report.PhoneNumber != nil {
		a.printf("Phone:   %s\n", *report.PhoneNumber)
	}
	if report.ExpiresAt != nil {
		a.printf("Expires: %s\n", report.ExpiresAt.Local().Format(time.RFC1123))
	}
	if report.PlanMessage != "" {
		a.printf("Plan:    %s\n", report.PlanMessage)
	}
	return nil
}

func displayName(r statusReport) string {
	switch {
	case r.Name != nil:
		return *r.Name
	case r.Subject != "":
		return r.Subject
	}
	return "unknown user"
}

func (a *app) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session and which route it may reach",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			c, err := a.newController()
			if err != nil {
				return exitWith(ExitError, err)
			}
			defer c.Close()

			if err := c.Start(ctx); err != nil {
				// the controller is already unauthenticated, report that
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
			return a.settle(ctx, c)
		},
	}
}

func (a *app) loginCommand() *cobra.Command {
	var (
		email         string
		password      string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin {
				pw, err := readLine(cmd.InOrStdin())
				if err != nil {
					return exitWith(ExitError, fmt.Errorf("reading password: %w", err))
				}
				password = pw
			}
			if err := authapi.NewValidator().ValidateLogin(email, password); err != nil {
				return exitWith(ExitError, err)
			}

			ctx, cancel := signalContext()
			defer cancel()

			tokens, err := a.authClient().Login(ctx, email, password)
			if err != nil {
				return exitWith(ExitError, fmt.Errorf("login failed: %w", err))
			}
			return a.applyTokens(ctx, tokens.AccessToken, tokens.RefreshToken)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

// applyTokens stores a fresh credential pair through the controller and reports the result.
func (a *app) applyTokens(ctx context.Context, accessToken, refreshToken string) error {
	c, err := a.newController()
	if err != nil {
		return exitWith(ExitError, err)
	}
	defer c.Close()

	if err := c.Start(ctx); err != nil {
		fmt.Fprintf(a.errOut, "Warning: %v\n", err)
	}
	if err := c.Login(ctx, accessToken, refreshToken); err != nil {
		return exitWith(ExitError, err)
	}
	return a.settle(ctx, c)
}

func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			c, err := a.newController()
			if err != nil {
				return exitWith(ExitError, err)
			}
			defer c.Close()

			_ = c.Start(ctx)
			if err := c.Logout(ctx); err != nil {
				return exitWith(ExitError, err)
			}
			if a.jsonOutput {
				return a.printJSON(newStatusReport(c.Snapshot()))
			}
			a.printf("Signed out.\n")
			return nil
		},
	}
}

func (a *app) recheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recheck",
		Short: "Check the subscription plan again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			c, err := a.startController(ctx)
			if err != nil {
				return exitWith(ExitError, err)
			}
			defer c.Close()

			waitCtx, waitCancel := context.WithTimeout(ctx, a.cfg.GetPlanCheckTimeout()+5*time.Second)
			defer waitCancel()
			if _, err := c.WaitForRoute(waitCtx); err != nil {
				return exitWith(ExitError, err)
			}
			if !c.RecheckPlan() {
				fmt.Fprintln(cmd.ErrOrStderr(), "No plan to check for this session.")
			}
			return a.settle(ctx, c)
		},
	}
}

func (a *app) refreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored refresh token for a new access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			c, err := a.startController(ctx)
			if err != nil {
				return exitWith(ExitError, err)
			}
			defer c.Close()

			refreshToken := c.RefreshToken()
			if refreshToken == "" {
				return exitWith(ExitUnauthenticated, fmt.Errorf("no refresh token stored, sign in again"))
			}
			tokens, err := a.authClient().Refresh(ctx, refreshToken)
			if err != nil {
				return exitWith(ExitError, fmt.Errorf("refresh failed: %w", err))
			}
			if err := c.Login(ctx, tokens.AccessToken, tokens.RefreshToken); err != nil {
				return exitWith(ExitError, err)
			}
			return a.settle(ctx, c)
		},
	}
}

func (a *app) tokengenCommand() *cobra.Command {
	var (
		secret   string
		identity jwt.Identity
		lifetime time.Duration
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "tokengen",
		Short: "Mint a development access token",
		Long: `Mint an HS256 access token with the claim shape the auth service issues.
The client never verifies signatures, so the token is accepted locally; with
--save it is stored as the current session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := jwt.NewCreator([]byte(secret), lifetime).CreateAccessToken(identity)
			if err != nil {
				return exitWith(ExitError, err)
			}
			if !save {
				a.printf("%s\n", *raw)
				return nil
			}

			ctx, cancel := signalContext()
			defer cancel()
			return a.applyTokens(ctx, *raw, "")
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "dev-secret", "HMAC signing secret")
	cmd.Flags().StringVar(&identity.Subject, "subject", "dev-user", "sub claim")
	cmd.Flags().StringVar(&identity.Name, "name", "", "name claim")
	cmd.Flags().StringVar(&identity.Role, "role", "", "role claim")
	cmd.Flags().StringVar(&identity.PhoneNumber, "phone", "", "phone_number claim")
	cmd.Flags().DurationVar(&lifetime, "ttl", time.Hour, "Token lifetime")
	cmd.Flags().BoolVar(&save, "save", false, "Store the token as the current session")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
