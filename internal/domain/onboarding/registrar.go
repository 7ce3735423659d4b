package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log"

	"finclusion/internal/domain/identity"
	"finclusion/internal/domain/profile"
)

// ErrProfileSetup means the principal was created but its profile could not
// be, so the principal was removed again.
var ErrProfileSetup = errors.New("failed to create user profile")

// SignUpError wraps a rejection from the auth subsystem. Its message is
// safe to show to the user.
type SignUpError struct {
	Err error
}

func (e *SignUpError) Error() string { return e.Err.Error() }
func (e *SignUpError) Unwrap() error { return e.Err }

type Identity interface {
	SignUp(ctx context.Context, params identity.SignUpParams) (*identity.Principal, error)
	SignIn(ctx context.Context, email, password string) (*identity.SignInResult, error)
	SignOut(ctx context.Context, token string) error
	DeleteUser(ctx context.Context, id string) error
}

type Profiles interface {
	Create(ctx context.Context, params profile.CreateParams) (*profile.Profile, error)
	Get(ctx context.Context, userID string) (*profile.Profile, error)
}

type CategorySeeder interface {
	SeedDefaults(ctx context.Context, userID string) error
}

// User is the account summary returned by register and login.
type User struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	ProfileCompleted bool   `json:"profileCompleted"`
	PanID            string `json:"panId,omitempty"`
	DateOfBirth      string `json:"dateOfBirth,omitempty"`
}

type Result struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// Registrar runs the multi-step account flows: principal, profile, default
// categories, then a first session.
type Registrar struct {
	identity   Identity
	profiles   Profiles
	categories CategorySeeder
}

func NewRegistrar(identity Identity, profiles Profiles, categories CategorySeeder) *Registrar {
	return &Registrar{identity: identity, profiles: profiles, categories: categories}
}

// Register creates an account. A missing profile rolls the principal back;
// missing default categories do not.
func (r *Registrar) Register(ctx context.Context, params RegisterParams) (*Result, error) {
	principal, err := r.identity.SignUp(ctx, identity.SignUpParams{
		Email:    params.Email,
		Password: params.Password,
		Name:     params.Name,
	})
	if err != nil {
		return nil, &SignUpError{Err: err}
	}

	if _, err := r.profiles.Create(ctx, profile.CreateParams{
		ID:    principal.ID,
		Name:  params.Name,
		Email: principal.Email,
	}); err != nil {
		log.Printf("Error creating profile for %s: %v", principal.ID, err)
		if delErr := r.identity.DeleteUser(ctx, principal.ID); delErr != nil {
			log.Printf("Error rolling back user %s: %v", principal.ID, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrProfileSetup, err)
	}

	if err := r.categories.SeedDefaults(ctx, principal.ID); err != nil {
		log.Printf("Error creating default categories for %s: %v", principal.ID, err)
	}

	session, err := r.identity.SignIn(ctx, principal.Email, params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in new user: %w", err)
	}

	return &Result{
		Token: session.Token,
		User: User{
			ID:    principal.ID,
			Name:  params.Name,
			Email: principal.Email,
		},
	}, nil
}

// Login signs in and merges the stored profile into the user summary. The
// name falls back to the sign-up metadata when the profile has none.
func (r *Registrar) Login(ctx context.Context, email, password string) (*Result, error) {
	session, err := r.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	principal := session.Principal

	user := User{ID: principal.ID, Name: principal.Name, Email: principal.Email}

	p, err := r.profiles.Get(ctx, principal.ID)
	if err != nil && !errors.Is(err, profile.ErrProfileNotFound) {
		log.Printf("Error loading profile for %s: %v", principal.ID, err)
	}
	if p != nil {
		if p.Name != "" {
			user.Name = p.Name
		}
		user.ProfileCompleted = p.ProfileCompleted
		user.PanID = p.PanID
		user.DateOfBirth = p.DateOfBirth
	}

	return &Result{Token: session.Token, User: user}, nil
}

func (r *Registrar) Logout(ctx context.Context, token string) error {
	return r.identity.SignOut(ctx, token)
}
