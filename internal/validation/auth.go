package validation

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/cardbinder/cardbinder/internal/types"
)

const (
	MinPasswordLength = 12
	MaxPasswordLength = 72
)

// Credentials is the validated register/login command.
type Credentials struct {
	Email    string
	Password string
}

// PasswordReset is the validated reset-request command.
type PasswordReset struct {
	Email string
}

// PasswordUpdate is the validated update-password command.
type PasswordUpdate struct {
	Token    string
	Password string
}

// ValidateRegister normalizes and checks a registration body. The password
// must satisfy the full complexity policy.
func ValidateRegister(email, password string) (*Credentials, *types.AppError) {
	fields := map[string]string{}

	email = normalizeEmail(email)
	if msg := checkEmail(email); msg != "" {
		fields["email"] = msg
	}
	if msg := CheckPasswordPolicy(password); msg != "" {
		fields["password"] = msg
	}

	if len(fields) > 0 {
		return nil, types.ValidationError("Invalid registration input", fields)
	}
	return &Credentials{Email: email, Password: password}, nil
}

// ValidateLogin normalizes and checks a login body. Password policy is not
// re-checked here; the provider decides whether credentials match.
func ValidateLogin(email, password string) (*Credentials, *types.AppError) {
	fields := map[string]string{}

	email = normalizeEmail(email)
	if msg := checkEmail(email); msg != "" {
		fields["email"] = msg
	}
	if password == "" {
		fields["password"] = "is required"
	}

	if len(fields) > 0 {
		return nil, types.ValidationError("Invalid login input", fields)
	}
	return &Credentials{Email: email, Password: password}, nil
}

// ValidatePasswordReset checks a reset-request body.
func ValidatePasswordReset(email string) (*PasswordReset, *types.AppError) {
	email = normalizeEmail(email)
	if msg := checkEmail(email); msg != "" {
		return nil, types.ValidationError("Invalid reset input", map[string]string{"email": msg})
	}
	return &PasswordReset{Email: email}, nil
}

// ValidatePasswordUpdate checks an update-password body. The token is opaque
// here; the provider verifies it.
func ValidatePasswordUpdate(token, password string) (*PasswordUpdate, *types.AppError) {
	fields := map[string]string{}

	token = strings.TrimSpace(token)
	if token == "" {
		fields["token"] = "is required"
	}
	if msg := CheckPasswordPolicy(password); msg != "" {
		fields["password"] = msg
	}

	if len(fields) > 0 {
		return nil, types.ValidationError("Invalid password update input", fields)
	}
	return &PasswordUpdate{Token: token, Password: password}, nil
}

// CheckPasswordPolicy returns an empty string when the password meets the
// policy: 12-72 chars with upper, lower, digit and symbol classes.
func CheckPasswordPolicy(password string) string {
	if len(password) < MinPasswordLength {
		return "must be at least 12 characters"
	}
	if len(password) > MaxPasswordLength {
		return "must be at most 72 characters"
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return "must contain upper, lower, digit and symbol characters"
	}
	return ""
}

// NormalizeEmail lowercases and trims an email for rate-limit keying and
// provider calls.
func NormalizeEmail(email string) string {
	return normalizeEmail(email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkEmail(email string) string {
	if email == "" {
		return "is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "must be a valid email address"
	}
	return ""
}
