package identity

import (
	"fmt"
	"log"
	"strings"

	"github.com/authorizerdev/authorizer-go"
	"github.com/cardbinder/cardbinder/internal/config"
	"github.com/cardbinder/cardbinder/internal/types"
)

// AuthorizerProvider implements Provider against an Authorizer instance.
type AuthorizerProvider struct {
	client *authorizer.AuthorizerClient
}

// NewAuthorizerProvider creates the provider from configuration.
func NewAuthorizerProvider(cfg *config.Config) (*AuthorizerProvider, error) {
	client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, cfg.AuthzRedirectTo, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}
	return &AuthorizerProvider{client: client}, nil
}

// SignUp registers a new account with the provider.
func (p *AuthorizerProvider) SignUp(email, password string) (*AuthResult, error) {
	res, err := p.client.SignUp(&authorizer.SignUpInput{
		Email:           &email,
		Password:        password,
		ConfirmPassword: password,
	})
	if err != nil {
		return nil, translateError("signup", err)
	}
	return authResultFrom(res), nil
}

// SignIn authenticates with email/password.
func (p *AuthorizerProvider) SignIn(email, password string) (*AuthResult, error) {
	res, err := p.client.Login(&authorizer.LoginInput{
		Email:    &email,
		Password: password,
	})
	if err != nil {
		return nil, translateError("login", err)
	}
	return authResultFrom(res), nil
}

// SignOut revokes the session behind the bearer token.
func (p *AuthorizerProvider) SignOut(token string) error {
	_, err := p.client.Logout(authHeaders(token))
	if err != nil {
		return translateError("logout", err)
	}
	return nil
}

// GetUser resolves the bearer token to its subject.
func (p *AuthorizerProvider) GetUser(token string) (*User, error) {
	profile, err := p.client.GetProfile(authHeaders(token))
	if err != nil {
		return nil, translateError("get_user", err)
	}
	if profile == nil {
		return nil, types.NewAppError(types.CodeUnauthorized, "Invalid or expired token", 401)
	}
	u := userFrom(profile)
	return &u, nil
}

// UpdatePassword applies a new password using a recovery token.
func (p *AuthorizerProvider) UpdatePassword(token, newPassword string) error {
	_, err := p.client.ResetPassword(&authorizer.ResetPasswordInput{
		Token:           &token,
		Password:        newPassword,
		ConfirmPassword: newPassword,
	})
	if err != nil {
		return translateError("update_password", err)
	}
	return nil
}

// SendPasswordReset asks the provider to email a recovery link.
func (p *AuthorizerProvider) SendPasswordReset(email, redirectTo string) error {
	input := &authorizer.ForgotPasswordInput{Email: &email}
	if redirectTo != "" {
		input.RedirectURI = &redirectTo
	}
	_, err := p.client.ForgotPassword(input)
	if err != nil {
		return translateError("send_reset", err)
	}
	return nil
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func authResultFrom(res *authorizer.AuthTokenResponse) *AuthResult {
	result := &AuthResult{}
	if res == nil {
		return result
	}
	if res.User != nil {
		result.User = userFrom(res.User)
	}
	if res.AccessToken != nil {
		session := &Session{AccessToken: *res.AccessToken}
		if res.ExpiresIn != nil {
			session.ExpiresIn = *res.ExpiresIn
		}
		result.Session = session
	}
	return result
}

func userFrom(u *authorizer.User) User {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r != nil {
			roles = append(roles, *r)
		}
	}
	user := User{
		ID:    u.ID,
		Email: u.Email,
		Roles: roles,
	}
	if u.EmailVerified {
		user.EmailVerified = true
	}
	return user
}

// translateError is the only place provider error shapes are inspected. It
// maps the opaque SDK error to the internal taxonomy; everything
// unrecognized becomes the unavailable/internal family.
func translateError(op string, err error) *types.AppError {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "already") && strings.Contains(msg, "exist"),
		strings.Contains(msg, "already signed up"):
		return types.NewAppError(types.CodeEmailExists, "An account with this email already exists", 409)

	case strings.Contains(msg, "credential"),
		strings.Contains(msg, "password") && strings.Contains(msg, "invalid"),
		strings.Contains(msg, "user not found"):
		// One generic code regardless of which factor failed, so responses
		// never reveal whether the email exists.
		return types.NewAppError(types.CodeInvalidCredentials, "Invalid email or password", 401)

	case strings.Contains(msg, "token"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "expired"),
		strings.Contains(msg, "session"):
		return types.NewAppError(types.CodeUnauthorized, "Invalid or expired token", 401)

	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "no such host"):
		log.Printf("identity provider unreachable during %s: %v", op, err)
		return types.NewAppError(types.CodeStatusUnavailable, "Authentication service unavailable", 503)
	}

	log.Printf("unexpected identity provider error during %s: %v", op, err)
	return types.NewAppError(types.CodeInternal, "Unexpected authentication error", 500)
}
