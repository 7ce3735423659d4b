package identity

import (
	"context"
	"time"

	"finclusion/internal/shared/auth"
)

type Repository interface {
	CreatePrincipal(ctx context.Context, params CreatePrincipalParams) (*Principal, error)
	GetPrincipalByEmail(ctx context.Context, email string) (*Principal, error)
	GetPrincipalByID(ctx context.Context, id string) (*Principal, error)
	DeletePrincipal(ctx context.Context, id string) error
	ListPrincipalIDs(ctx context.Context) ([]string, error)

	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	RevokeSession(ctx context.Context, id string) error
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Generate(userID, email, sessionID string) (string, time.Time, error)
	Validate(token string) (*auth.Claims, error)
}
