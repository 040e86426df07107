package validation

import (
	"strings"
	"testing"
)

func TestCheckPasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Str0ng!passwd", true},
		{"valid long", "Aa1!" + strings.Repeat("x", 60), true},
		{"too short", "Sh0rt!pass", false},
		{"eleven chars", "Aa1!aaaaaaa", false},
		{"no symbol", "Str0ngpasswd1", false},
		{"no digit", "Strong!passwd", false},
		{"no upper", "str0ng!passwd", false},
		{"no lower", "STR0NG!PASSWD", false},
		{"too long", "Aa1!" + strings.Repeat("x", 69), false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := CheckPasswordPolicy(tc.password)
			if tc.ok && msg != "" {
				t.Errorf("Expected valid, got %q", msg)
			}
			if !tc.ok && msg == "" {
				t.Error("Expected policy rejection")
			}
		})
	}
}

func TestValidateRegister(t *testing.T) {
	cmd, appErr := ValidateRegister("  Holder@Example.COM ", "Str0ng!passwd")
	if appErr != nil {
		t.Fatalf("Unexpected error: %v", appErr)
	}
	if cmd.Email != "holder@example.com" {
		t.Errorf("Expected normalized email, got %q", cmd.Email)
	}

	_, appErr = ValidateRegister("not-an-email", "weak")
	if appErr == nil {
		t.Fatal("Expected validation error")
	}
	if appErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR, got %s", appErr.Code)
	}
	if fieldMsg(appErr, "email") == "" || fieldMsg(appErr, "password") == "" {
		t.Errorf("Expected messages on both fields, got %v", appErr.Details)
	}
}

func TestValidateLoginSkipsPolicy(t *testing.T) {
	// Legacy passwords predating the policy must still be able to log in
	cmd, appErr := ValidateLogin("holder@example.com", "old-weak-pw")
	if appErr != nil {
		t.Fatalf("Unexpected error: %v", appErr)
	}
	if cmd.Password != "old-weak-pw" {
		t.Errorf("Expected password passthrough, got %q", cmd.Password)
	}

	if _, appErr := ValidateLogin("holder@example.com", ""); appErr == nil {
		t.Error("Expected error for empty password")
	}
	if _, appErr := ValidateLogin("", "pw"); appErr == nil {
		t.Error("Expected error for missing email")
	}
}

func TestValidatePasswordUpdate(t *testing.T) {
	cmd, appErr := ValidatePasswordUpdate(" tok-123 ", "Str0ng!passwd")
	if appErr != nil {
		t.Fatalf("Unexpected error: %v", appErr)
	}
	if cmd.Token != "tok-123" {
		t.Errorf("Expected trimmed token, got %q", cmd.Token)
	}

	if _, appErr := ValidatePasswordUpdate("", "Str0ng!passwd"); appErr == nil {
		t.Error("Expected error for missing token")
	}
	if _, appErr := ValidatePasswordUpdate("tok", "weak"); appErr == nil {
		t.Error("Expected error for weak replacement password")
	}
}

func TestValidatePasswordReset(t *testing.T) {
	cmd, appErr := ValidatePasswordReset("Holder@Example.com")
	if appErr != nil {
		t.Fatalf("Unexpected error: %v", appErr)
	}
	if cmd.Email != "holder@example.com" {
		t.Errorf("Expected normalized email, got %q", cmd.Email)
	}

	if _, appErr := ValidatePasswordReset("nope"); appErr == nil {
		t.Error("Expected error for malformed email")
	}
}
