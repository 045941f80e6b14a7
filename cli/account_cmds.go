package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-auth-client/authapi"
	"github.com/spf13/cobra"
)

func (a *app) accountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Register, verify and recover accounts",
	}
	cmd.AddCommand(
		a.registerCommand(),
		a.verifyOTPCommand(),
		a.resendOTPCommand(),
		a.forgotPasswordCommand(),
		a.resetPasswordCommand(),
	)
	return cmd
}

// runAccountCall validates, sends and reports a single account request.
func (a *app) runAccountCall(validate func() error, call func(ctx context.Context, api *authapi.Client) error, done string) error {
	if err := validate(); err != nil {
		return exitWith(ExitError, err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := call(ctx, a.authClient()); err != nil {
		return exitWith(ExitError, err)
	}
	if a.jsonOutput {
		return a.printJSON(map[string]string{"result": done})
	}
	a.printf("%s\n", done)
	return nil
}

func (a *app) registerCommand() *cobra.Command {
	var reg authapi.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account; an OTP is sent to the phone number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAccountCall(
				func() error { return authapi.NewValidator().ValidateRegistration(reg) },
				func(ctx context.Context, api *authapi.Client) error { return api.Register(ctx, reg) },
				fmt.Sprintf("Verification code sent to %s-%s.", reg.CountryCode, reg.PhoneNumber),
			)
		},
	}
	cmd.Flags().StringVar(&reg.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&reg.CountryCode, "country-code", authapi.DefaultCountry, "Dialling code")
	cmd.Flags().StringVar(&reg.PhoneNumber, "phone", "", "10-digit mobile number")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Password (8+ characters with upper, lower and digit)")
	cmd.Flags().StringVar(&reg.Service, "service", "", "Service: "+strings.Join(authapi.Services, ", "))
	return cmd
}

func (a *app) verifyOTPCommand() *cobra.Command {
	var phone, otp string
	cmd := &cobra.Command{
		Use:   "verify-otp",
		Short: "Verify a new account with the code sent at registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := authapi.NewValidator()
			return a.runAccountCall(
				func() error {
					if err := v.ValidatePhone(phone); err != nil {
						return err
					}
					return v.ValidateSignupOTP(otp)
				},
				func(ctx context.Context, api *authapi.Client) error { return api.VerifyOTP(ctx, phone, otp) },
				"Account verified. You can now sign in.",
			)
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "10-digit mobile number")
	cmd.Flags().StringVar(&otp, "otp", "", "6-digit verification code")
	return cmd
}

func (a *app) resendOTPCommand() *cobra.Command {
	var phone string
	cmd := &cobra.Command{
		Use:   "resend-otp",
		Short: "Send the registration code again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAccountCall(
				func() error { return authapi.NewValidator().ValidatePhone(phone) },
				func(ctx context.Context, api *authapi.Client) error { return api.ResendOTP(ctx, phone) },
				"A new verification code has been sent.",
			)
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "10-digit mobile number")
	return cmd
}

func (a *app) forgotPasswordCommand() *cobra.Command {
	var phone string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Send a password reset code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAccountCall(
				func() error { return authapi.NewValidator().ValidatePhone(phone) },
				func(ctx context.Context, api *authapi.Client) error { return api.ForgotPassword(ctx, phone) },
				fmt.Sprintf("Reset code sent to %s-%s.", authapi.DefaultCountry, phone),
			)
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "10-digit mobile number")
	return cmd
}

func (a *app) resetPasswordCommand() *cobra.Command {
	var phone, otp, password, confirm string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := authapi.NewValidator()
			return a.runAccountCall(
				func() error {
					if err := v.ValidatePhone(phone); err != nil {
						return err
					}
					return v.ValidatePasswordReset(otp, password, confirm)
				},
				func(ctx context.Context, api *authapi.Client) error {
					return api.ResetPassword(ctx, phone, otp, password)
				},
				"Password reset. You can now sign in with your new password.",
			)
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "10-digit mobile number")
	cmd.Flags().StringVar(&otp, "otp", "", "4-digit reset code")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "New password again")
	return cmd
}
