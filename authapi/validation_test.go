package authapi_test

import (
	"testing"

	"github.com/jrsteele09/go-auth-client/authapi"
	"github.com/stretchr/testify/require"
)

func validRegistration() authapi.Registration {
	return authapi.Registration{
		Name:        "Asha",
		Service:     "equity_cash",
		PhoneNumber: "9876543210",
		Email:       "asha@example.com",
		Password:    "Secret123",
	}
}

func TestValidator_Login(t *testing.T) {
	v := authapi.NewValidator()

	require.NoError(t, v.ValidateLogin("user@example.com", "secret"))

	tests := []struct {
		name     string
		email    string
		password string
		fields   []string
	}{
		{name: "missing both", fields: []string{"email", "password"}},
		{name: "bad email", email: "user@example", password: "secret", fields: []string{"email"}},
		{name: "email with space", email: "us er@example.com", password: "secret", fields: []string{"email"}},
		{name: "short password", email: "user@example.com", password: "12345", fields: []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateLogin(tt.email, tt.password)
			require.ErrorIs(t, err, authapi.ErrValidation)

			var verrs authapi.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, len(tt.fields))
			for _, field := range tt.fields {
				require.NotNil(t, verrs.Field(field), field)
			}
		})
	}
}

func TestValidator_Registration(t *testing.T) {
	v := authapi.NewValidator()
	require.NoError(t, v.ValidateRegistration(validRegistration()))

	tests := []struct {
		name   string
		mutate func(r *authapi.Registration)
		field  string
	}{
		{name: "blank name", mutate: func(r *authapi.Registration) { r.Name = "   " }, field: "name"},
		{name: "short trimmed name", mutate: func(r *authapi.Registration) { r.Name = " A " }, field: "name"},
		{name: "phone starting with 5", mutate: func(r *authapi.Registration) { r.PhoneNumber = "5876543210" }, field: "phone_number"},
		{name: "phone too short", mutate: func(r *authapi.Registration) { r.PhoneNumber = "987654321" }, field: "phone_number"},
		{name: "password too short", mutate: func(r *authapi.Registration) { r.Password = "Abc123" }, field: "password"},
		{name: "password without upper", mutate: func(r *authapi.Registration) { r.Password = "secret123" }, field: "password"},
		{name: "password without digit", mutate: func(r *authapi.Registration) { r.Password = "SecretPass" }, field: "password"},
		{name: "missing service", mutate: func(r *authapi.Registration) { r.Service = "" }, field: "service"},
		{name: "unknown service", mutate: func(r *authapi.Registration) { r.Service = "crypto" }, field: "service"},
		{name: "bad email", mutate: func(r *authapi.Registration) { r.Email = "asha" }, field: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := validRegistration()
			tt.mutate(&reg)

			var verrs authapi.ValidationErrors
			require.ErrorAs(t, v.ValidateRegistration(reg), &verrs)
			require.Len(t, verrs, 1)
			require.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidator_OTPAndReset(t *testing.T) {
	v := authapi.NewValidator()

	require.NoError(t, v.ValidateSignupOTP("123456"))
	require.ErrorIs(t, v.ValidateSignupOTP("1234"), authapi.ErrValidation)
	require.ErrorIs(t, v.ValidateSignupOTP("12345a"), authapi.ErrValidation)
	require.ErrorIs(t, v.ValidateSignupOTP(""), authapi.ErrValidation)

	require.NoError(t, v.ValidatePhone("6000000000"))
	require.ErrorIs(t, v.ValidatePhone("+919876543210"), authapi.ErrValidation)

	require.NoError(t, v.ValidatePasswordReset("1234", "NewSecret1", "NewSecret1"))

	var verrs authapi.ValidationErrors
	require.ErrorAs(t, v.ValidatePasswordReset("123456", "weak", "other"), &verrs)
	require.NotNil(t, verrs.Field("otp"))
	require.NotNil(t, verrs.Field("new_password"))
	require.Equal(t, "Passwords do not match", verrs.Field("confirm_password").Message)
}
