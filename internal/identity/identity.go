package identity

// User is the subset of the provider's user record the service cares about.
type User struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	EmailVerified bool     `json:"emailVerified"`
	Roles         []string `json:"roles,omitempty"`
}

// Session carries the issued token pair for a signed-in user.
type Session struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn,omitempty"`
}

// AuthResult is the outcome of a successful sign-up or sign-in.
type AuthResult struct {
	User    User     `json:"user"`
	Session *Session `json:"session,omitempty"`
}

// Provider is the narrow interface over the external identity service.
// Implementations translate their own error shapes into *types.AppError via
// a single mapping function; callers never inspect provider error text.
type Provider interface {
	SignUp(email, password string) (*AuthResult, error)
	SignIn(email, password string) (*AuthResult, error)
	SignOut(token string) error
	GetUser(token string) (*User, error)
	UpdatePassword(token, newPassword string) error
	SendPasswordReset(email, redirectTo string) error
}
