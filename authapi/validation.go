package authapi

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Services lists the service values accepted at registration.
var Services = []string{
	"equity_cash",
	"stock_future",
	"index_future",
	"index_option",
	"stock_option",
	"mcx_bullion",
	"mcx_base_metal",
	"mcx_energy",
}

const (
	SignupOTPLength = 6
	ResetOTPLength  = 4
)

// FieldError describes why a single form field was rejected.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every rejected field of a form.
type ValidationErrors []*FieldError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fe.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (ve ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the error recorded for field, or nil.
func (ve ValidationErrors) Field(field string) *FieldError {
	for _, fe := range ve {
		if fe.Field == field {
			return fe
		}
	}
	return nil
}

// Validator checks account forms before they are sent, mirroring the rules the
// auth service applies so that users get field-level feedback without a round trip.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateLogin(email, password string) error {
	var errs ValidationErrors
	errs.add(v.checkEmail(email))
	switch {
	case password == "":
		errs.add(&FieldError{Field: "password", Message: "Password is required"})
	case len(password) < 6:
		errs.add(&FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	return errs.orNil()
}

func (v *Validator) ValidateRegistration(reg Registration) error {
	var errs ValidationErrors

	name := strings.TrimSpace(reg.Name)
	switch {
	case name == "":
		errs.add(&FieldError{Field: "name", Message: "Name is required"})
	case len([]rune(name)) < 2:
		errs.add(&FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	}

	errs.add(v.checkEmail(reg.Email))
	errs.add(v.checkPhone(reg.PhoneNumber))
	errs.add(v.checkStrongPassword("password", reg.Password))

	switch {
	case reg.Service == "":
		errs.add(&FieldError{Field: "service", Message: "Please select a service"})
	case !slices.Contains(Services, reg.Service):
		errs.add(&FieldError{Field: "service", Message: "Unknown service " + reg.Service})
	}
	return errs.orNil()
}

func (v *Validator) ValidatePhone(phoneNumber string) error {
	var errs ValidationErrors
	errs.add(v.checkPhone(phoneNumber))
	return errs.orNil()
}

// ValidateSignupOTP checks the code sent after registration.
func (v *Validator) ValidateSignupOTP(otp string) error {
	var errs ValidationErrors
	errs.add(checkOTP(otp, SignupOTPLength))
	return errs.orNil()
}

func (v *Validator) ValidatePasswordReset(otp, newPassword, confirmPassword string) error {
	var errs ValidationErrors
	errs.add(checkOTP(otp, ResetOTPLength))
	errs.add(v.checkStrongPassword("new_password", newPassword))
	switch {
	case confirmPassword == "":
		errs.add(&FieldError{Field: "confirm_password", Message: "Please confirm your password"})
	case confirmPassword != newPassword:
		errs.add(&FieldError{Field: "confirm_password", Message: "Passwords do not match"})
	}
	return errs.orNil()
}

func (v *Validator) checkEmail(email string) *FieldError {
	switch {
	case email == "":
		return &FieldError{Field: "email", Message: "Email is required"}
	case !emailPattern.MatchString(email):
		return &FieldError{Field: "email", Message: "Please enter a valid email address"}
	}
	return nil
}

func (v *Validator) checkPhone(phone string) *FieldError {
	switch {
	case phone == "":
		return &FieldError{Field: "phone_number", Message: "Phone number is required"}
	case !phonePattern.MatchString(phone):
		return &FieldError{Field: "phone_number", Message: "Please enter a valid 10-digit mobile number"}
	}
	return nil
}

func (v *Validator) checkStrongPassword(field, password string) *FieldError {
	switch {
	case password == "":
		return &FieldError{Field: field, Message: "Password is required"}
	case len(password) < 8:
		return &FieldError{Field: field, Message: "Password must be at least 8 characters"}
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return &FieldError{Field: field, Message: "Password must contain uppercase, lowercase, and number"}
	}
	return nil
}

func checkOTP(otp string, length int) *FieldError {
	if otp == "" {
		return &FieldError{Field: "otp", Message: "OTP is required"}
	}
	if len(otp) != length || strings.IndexFunc(otp, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return &FieldError{Field: "otp", Message: "OTP must be " + strconv.Itoa(length) + " digits"}
	}
	return nil
}

func (ve *ValidationErrors) add(fe *FieldError) {
	if fe != nil {
		*ve = append(*ve, fe)
	}
}

func (ve ValidationErrors) orNil() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}
