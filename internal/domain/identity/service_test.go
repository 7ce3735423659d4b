package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"finclusion/internal/shared/auth"
)

// memoryRepository is an in-memory Repository for service tests
type memoryRepository struct {
	mu         sync.Mutex
	principals map[string]*Principal
	sessions   map[string]*Session

	CreatePrincipalErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		principals: make(map[string]*Principal),
		sessions:   make(map[string]*Session),
	}
}

func (m *memoryRepository) CreatePrincipal(ctx context.Context, params CreatePrincipalParams) (*Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreatePrincipalErr != nil {
		return nil, m.CreatePrincipalErr
	}
	p := &Principal{ID: params.ID, Email: params.Email, PasswordHash: params.PasswordHash, Name: params.Name}
	m.principals[p.ID] = p
	return p, nil
}

func (m *memoryRepository) GetPrincipalByEmail(ctx context.Context, email string) (*Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.principals {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memoryRepository) GetPrincipalByID(ctx context.Context, id string) (*Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.principals[id], nil
}

func (m *memoryRepository) DeletePrincipal(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.principals[id]; !ok {
		return ErrPrincipalNotFound
	}
	delete(m.principals, id)
	return nil
}

func (m *memoryRepository) ListPrincipalIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.principals))
	for id := range m.principals {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memoryRepository) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Session{ID: params.ID, UserID: params.UserID, ExpiresAt: params.ExpiresAt}
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memoryRepository) GetSession(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id], nil
}

func (m *memoryRepository) RevokeSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func newTestService() (*Service, *memoryRepository) {
	repo := newMemoryRepository()
	return NewService(repo, auth.NewJWT("test-secret", time.Hour)), repo
}

func TestService_SignUp(t *testing.T) {
	tests := []struct {
		name    string
		params  SignUpParams
		wantErr error
	}{
		{name: "valid", params: SignUpParams{Email: "Asha@Example.com", Password: "secret1", Name: "Asha"}},
		{name: "missing password", params: SignUpParams{Email: "asha@example.com"}, wantErr: ErrMissingCredentials},
		{name: "invalid email", params: SignUpParams{Email: "not-an-email", Password: "secret1"}, wantErr: ErrInvalidEmail},
		{name: "short password", params: SignUpParams{Email: "asha@example.com", Password: "123"}, wantErr: auth.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()

			p, err := svc.SignUp(context.Background(), tt.params)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("SignUp() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SignUp() unexpected error: %v", err)
			}
			if p.Email != "asha@example.com" {
				t.Errorf("Email = %q, want lower-cased", p.Email)
			}
			if p.PasswordHash == "" || p.PasswordHash == tt.params.Password {
				t.Error("password was not hashed")
			}
		})
	}
}

func TestService_SignUp_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, SignUpParams{Email: "asha@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("first SignUp() failed: %v", err)
	}

	_, err := svc.SignUp(ctx, SignUpParams{Email: "ASHA@example.com", Password: "secret2"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("SignUp() error = %v, want %v", err, ErrEmailTaken)
	}
}

func TestService_SignInAndResolve(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.SignUp(ctx, SignUpParams{Email: "asha@example.com", Password: "secret1", Name: "Asha"})
	if err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}

	if _, err := svc.SignIn(ctx, "asha@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SignIn() wrong password error = %v, want %v", err, ErrInvalidCredentials)
	}
	if _, err := svc.SignIn(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SignIn() unknown email error = %v, want %v", err, ErrInvalidCredentials)
	}

	res, err := svc.SignIn(ctx, " Asha@example.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}

	userID, email, err := svc.ResolveToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("ResolveToken() failed: %v", err)
	}
	if userID != created.ID || email != "asha@example.com" {
		t.Errorf("ResolveToken() = (%q, %q), want (%q, %q)", userID, email, created.ID, "asha@example.com")
	}
}

func TestService_SignOut_RevokesToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, SignUpParams{Email: "asha@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}
	res, err := svc.SignIn(ctx, "asha@example.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}

	if err := svc.SignOut(ctx, res.Token); err != nil {
		t.Fatalf("SignOut() failed: %v", err)
	}
	if _, err := svc.GetUser(ctx, res.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetUser() after sign-out error = %v, want %v", err, ErrSessionNotFound)
	}
	if err := svc.SignOut(ctx, res.Token); err != nil {
		t.Errorf("second SignOut() error = %v, want nil", err)
	}
}

func TestService_GetSession_Expired(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, SignUpParams{Email: "asha@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}
	res, err := svc.SignIn(ctx, "asha@example.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.GetSession(ctx, res.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetSession() error = %v, want %v", err, ErrSessionNotFound)
	}
}

func TestService_DeleteUser(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p, err := svc.SignUp(ctx, SignUpParams{Email: "asha@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}

	if err := svc.DeleteUser(ctx, p.ID); err != nil {
		t.Fatalf("DeleteUser() failed: %v", err)
	}
	if got, _ := repo.GetPrincipalByID(ctx, p.ID); got != nil {
		t.Error("principal still present after DeleteUser()")
	}
}
