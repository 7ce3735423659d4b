package identity

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// Credential errors are shown to end users as-is.
var (
	ErrEmailTaken         = errors.New("User already registered")
	ErrInvalidCredentials = errors.New("Invalid login credentials")
	ErrInvalidEmail       = errors.New("Unable to validate email address: invalid format")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrMissingCredentials = errors.New("email and password are required")
)

// Principal is an authenticated identity. Name is sign-up metadata; the
// profile holds the editable copy.
type Principal struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session backs one issued access token. The token's jti is the session ID.
type Session struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Active reports whether the session can still authenticate requests.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

type CreatePrincipalParams struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
}

type CreateSessionParams struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

type SignUpParams struct {
	Email    string
	Password string
	Name     string
}

func (p *SignUpParams) Validate() error {
	if p.Email == "" || p.Password == "" {
		return ErrMissingCredentials
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
