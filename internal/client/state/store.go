package state

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"finclusion/internal/client/api"
	"finclusion/internal/domain/profile"
)

// ProfileRemote is the part of the API the store reconciles the profile with.
type ProfileRemote interface {
	GetProfile(ctx context.Context) (*api.Response[*profile.Profile], error)
	UpdateProfile(ctx context.Context, update api.ProfileUpdate) (*api.Response[*profile.Profile], error)
}

// Store owns the client-side state. It is meant to be driven from a single
// goroutine, like a UI loop.
type Store struct {
	local   Storage
	session Storage
	remote  ProfileRemote
	now     func() time.Time
	logger  *slog.Logger

	transactions     *Slice[[]Transaction]
	customCategories *Slice[[]CustomCategory]
	reminders        *Slice[[]Reminder]
	paidHistory      *Slice[[]PaidReminder]
	budget           *Slice[float64]
	cart             *Slice[[]CartItem]
	profile          *Slice[Profile]

	budgetInput string
	form        TransactionForm

	isNewUser      bool
	completionOpen bool
	// registered is set when this mount consumed a pending registration.
	registered bool

	// profileSeq is bumped for every remote profile call; older responses are dropped.
	profileSeq uint64
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func NewStore(local, session Storage, remote ProfileRemote, opts ...Option) *Store {
	s := &Store{
		local:       local,
		session:     session,
		remote:      remote,
		now:         time.Now,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		budgetInput: defaultBudgetInput,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.transactions = newJSONSlice(KeyTransactions, local, DefaultTransactions)
	s.customCategories = newJSONSlice(KeyCustomCategories, local, func() []CustomCategory { return []CustomCategory{} })
	s.reminders = newJSONSlice(KeyReminders, local, func() []Reminder { return []Reminder{} })
	s.paidHistory = newJSONSlice(KeyPaidHistory, local, func() []PaidReminder { return []PaidReminder{} })
	s.budget = newNumberSlice(KeyMonthlyBudget, local, DefaultBudget)
	s.cart = newJSONSlice(KeyCartItems, local, func() []CartItem { return []CartItem{} })
	s.profile = newJSONSlice(KeyUserProfile, local, func() Profile { return Profile{} })
	return s
}

type persistable interface {
	Seed(fresh bool) error
	Reset()
	Key() string
	persist() error
}

func (s *Store) slices() []persistable {
	return []persistable{s.transactions, s.customCategories, s.reminders, s.paidHistory, s.budget, s.cart}
}

// Mount seeds every slice and mirrors the seeded values back to storage.
func (s *Store) Mount() error {
	fresh, err := s.newRegistration()
	if err != nil {
		return err
	}

	for _, sl := range s.slices() {
		if err := sl.Seed(fresh); err != nil {
			return err
		}
	}

	if err := s.profile.Seed(fresh); err != nil {
		return err
	}
	if fresh {
		if err := s.completeRegistration(); err != nil {
			return err
		}
	}

	raw, ok, err := s.local.Get(KeyMonthlyBudget)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", KeyMonthlyBudget, err)
	}
	s.budgetInput = defaultBudgetInput
	if ok && raw != "" {
		s.budgetInput = raw
	}

	for _, sl := range s.slices() {
		if err := sl.persist(); err != nil {
			return err
		}
	}

	s.logger.Debug("store mounted", "fresh", fresh, "transactions", len(s.transactions.Get()))
	return nil
}

// completeRegistration consumes the session flags left by MarkRegistered.
// They are cleared on the first mount that sees them, so later mounts seed
// from storage again.
func (s *Store) completeRegistration() error {
	name, _, err := s.session.Get(KeyRegisteredName)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", KeyRegisteredName, err)
	}

	s.registered = true
	if name != "" {
		s.isNewUser = true
		s.completionOpen = true
	}
	if err := s.profile.Set(Profile{Name: name}); err != nil {
		return err
	}

	for _, key := range []string{KeyNewUserRegistration, KeyRegisteredName} {
		if err := s.session.Remove(key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) newRegistration() (bool, error) {
	v, _, err := s.session.Get(KeyNewUserRegistration)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", KeyNewUserRegistration, err)
	}
	return v == "true", nil
}

// ReconcileProfile decides where the profile comes from after mount: a
// registration consumed by Mount, the server, or nothing when logged out.
func (s *Store) ReconcileProfile(ctx context.Context) error {
	if s.registered {
		return nil
	}

	token, hasToken, err := s.local.Get(KeyToken)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", KeyToken, err)
	}
	if hasToken && token != "" {
		if err := s.fetchProfile(ctx); err != nil {
			s.logger.Error("failed to load profile", "error", err)
		}
		return nil
	}

	s.isNewUser = false
	return s.profile.Set(Profile{})
}

// MarkRegistered records a completed sign-up so the next mount starts from
// defaults and opens profile completion.
func (s *Store) MarkRegistered(name string) error {
	if err := s.session.Set(KeyNewUserRegistration, "true"); err != nil {
		return fmt.Errorf("failed to write %s: %w", KeyNewUserRegistration, err)
	}
	if err := s.session.Set(KeyRegisteredName, name); err != nil {
		return fmt.Errorf("failed to write %s: %w", KeyRegisteredName, err)
	}
	return s.removeKeys(sliceKeys)
}

// SignedIn stores the credentials of a fresh sign-in and drops the previous
// account's local data.
func (s *Store) SignedIn(token string, user any) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.local.Set(KeyToken, token); err != nil {
		return fmt.Errorf("failed to write %s: %w", KeyToken, err)
	}
	if err := s.local.Set(KeyUserData, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", KeyUserData, err)
	}
	return s.removeKeys(sliceKeys)
}

// Logout clears local and session storage and resets every slice.
func (s *Store) Logout() error {
	if err := s.removeKeys(logoutKeys); err != nil {
		return err
	}
	if err := s.session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	for _, sl := range s.slices() {
		sl.Reset()
	}
	s.profile.Reset()
	s.budgetInput = defaultBudgetInput
	s.form = TransactionForm{}
	s.isNewUser = false
	s.completionOpen = false
	s.registered = false
	return nil
}

// Token returns the stored bearer token, if any.
func (s *Store) Token() (string, bool, error) {
	return s.local.Get(KeyToken)
}

func (s *Store) removeKeys(keys []string) error {
	for _, key := range keys {
		if err := s.local.Remove(key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) IsNewUser() bool {
	return s.isNewUser
}

// CompletionOpen reports whether the profile completion flow should be shown.
func (s *Store) CompletionOpen() bool {
	return s.completionOpen
}

func (s *Store) CloseCompletion() {
	s.completionOpen = false
}

func (s *Store) nextProfileSeq() uint64 {
	s.profileSeq++
	return s.profileSeq
}

func (s *Store) stale(seq uint64) bool {
	return seq != s.profileSeq
}

// Now is the store's clock.
func (s *Store) Now() time.Time {
	return s.now()
}
