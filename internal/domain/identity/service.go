package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finclusion/internal/shared/auth"
)

// SignInResult is what a successful password sign-in hands back.
type SignInResult struct {
	Token     string
	ExpiresAt time.Time
	Principal *Principal
}

// Service is the auth subsystem: password principals plus revocable
// sessions behind JWT access tokens.
type Service struct {
	repo   Repository
	tokens TokenIssuer
	now    func() time.Time
	newID  func() string
}

func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens, now: time.Now, newID: uuid.NewString}
}

func (s *Service) SignUp(ctx context.Context, params SignUpParams) (*Principal, error) {
	params.Email = NormalizeEmail(params.Email)
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := auth.CheckPasswordPolicy(params.Password); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetPrincipalByEmail(ctx, params.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.CreatePrincipal(ctx, CreatePrincipalParams{
		ID:           s.newID(),
		Email:        params.Email,
		PasswordHash: hash,
		Name:         params.Name,
	})
}

// SignIn verifies the password and opens a new session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	p, err := s.repo.GetPrincipalByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(p.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	sessionID := s.newID()
	token, expiresAt, err := s.tokens.Generate(p.ID, p.Email, sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.CreateSession(ctx, CreateSessionParams{
		ID:        sessionID,
		UserID:    p.ID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SignInResult{Token: token, ExpiresAt: expiresAt, Principal: p}, nil
}

// GetSession returns the live session behind a token.
func (s *Service) GetSession(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	session, err := s.repo.GetSession(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != claims.UserID() || !session.Active(s.now()) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetUser resolves a token to its principal.
func (s *Service) GetUser(ctx context.Context, token string) (*Principal, error) {
	session, err := s.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetPrincipalByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPrincipalNotFound
	}
	return p, nil
}

// ResolveToken lets the HTTP auth middleware authenticate requests.
func (s *Service) ResolveToken(ctx context.Context, token string) (string, string, error) {
	p, err := s.GetUser(ctx, token)
	if err != nil {
		return "", "", err
	}
	return p.ID, p.Email, nil
}

// SignOut revokes the session behind a token. Signing out twice is not an
// error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil
		}
		return err
	}

	err = s.repo.RevokeSession(ctx, claims.SessionID())
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	return err
}

// DeleteUser removes a principal and its sessions.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeletePrincipal(ctx, id)
}

// ListUserIDs returns every principal ID, oldest first.
func (s *Service) ListUserIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListPrincipalIDs(ctx)
}
