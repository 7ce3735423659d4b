package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"finclusion/internal/domain/category"
	"finclusion/internal/domain/profile"
	"finclusion/internal/domain/transaction"
	"finclusion/internal/shared/middleware"
)

// memDB backs the in-memory repositories the handler tests run services on
type memDB struct {
	mu         sync.Mutex
	seq        int
	categories map[string]*category.Category
	txs        map[string]*transaction.Transaction
	profiles   map[string]*profile.Profile

	DeleteByCategoryErr error
}

func newMemDB() *memDB {
	return &memDB{
		categories: make(map[string]*category.Category),
		txs:        make(map[string]*transaction.Transaction),
		profiles:   make(map[string]*profile.Profile),
	}
}

func (db *memDB) nextID() string {
	db.seq++
	return fmt.Sprintf("id-%d", db.seq)
}

// memCategories implements category.Repository and transaction.CategoryLookup
type memCategories struct{ *memDB }

func (m memCategories) Create(ctx context.Context, userID string, params category.CreateParams) (*category.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &category.Category{
		ID: m.nextID(), UserID: userID, Name: params.Name, Type: params.Type,
		Color: params.Color, Icon: params.Icon, Budget: params.Budget,
	}
	m.categories[c.ID] = c
	return c, nil
}

func (m memCategories) CreateBatch(ctx context.Context, userID string, params []category.CreateParams) error {
	for _, p := range params {
		if _, err := m.Create(ctx, userID, p); err != nil {
			return err
		}
	}
	return nil
}

func (m memCategories) GetByID(ctx context.Context, id string) (*category.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.categories[id], nil
}

func (m memCategories) FindByNameAndType(ctx context.Context, userID, name string, t category.Type) (*category.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.UserID == userID && c.Name == name && c.Type == t {
			return c, nil
		}
	}
	return nil, nil
}

func (m memCategories) ListByUserID(ctx context.Context, userID string) ([]*category.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*category.Category{}
	for _, c := range m.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memCategories) CountByUserID(ctx context.Context, userID string) (int, error) {
	list, _ := m.ListByUserID(ctx, userID)
	return len(list), nil
}

func (m memCategories) Update(ctx context.Context, id string, params category.UpdateParams) (*category.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	if params.Name != nil {
		c.Name = *params.Name
	}
	if params.Type != nil {
		c.Type = *params.Type
	}
	if params.Color != nil {
		c.Color = *params.Color
	}
	if params.Icon != nil {
		c.Icon = *params.Icon
	}
	if params.Budget != nil {
		c.Budget = params.Budget
	}
	return c, nil
}

func (m memCategories) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return category.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

// memTransactions implements transaction.Repository and category.Ledger
type memTransactions struct{ *memDB }

func (m memTransactions) ref(categoryID string) *transaction.CategoryRef {
	c, ok := m.categories[categoryID]
	if !ok {
		return nil
	}
	return &transaction.CategoryRef{Name: c.Name, Type: c.Type, Color: c.Color, Icon: c.Icon}
}

func (m memTransactions) Create(ctx context.Context, userID string, params transaction.CreateParams) (*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &transaction.Transaction{
		ID: m.nextID(), UserID: userID, CategoryID: params.CategoryID, Type: params.Type,
		Amount: params.Amount, Description: params.Description, Date: params.Date,
		Category: m.ref(params.CategoryID),
	}
	m.txs[tx.ID] = tx
	return tx, nil
}

func (m memTransactions) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.txs[id], nil
}

func (m memTransactions) ListByUserID(ctx context.Context, userID string) ([]*transaction.Transaction, error) {
	return m.ListByDateRange(ctx, userID, time.Time{}, time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (m memTransactions) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*transaction.Transaction{}
	for _, tx := range m.txs {
		if tx.UserID == userID && !tx.Date.Before(from) && tx.Date.Before(to) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m memTransactions) Update(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[id]
	if !ok {
		return nil, transaction.ErrTransactionNotFound
	}
	if params.Amount != nil {
		tx.Amount = *params.Amount
	}
	if params.CategoryID != nil {
		tx.CategoryID = *params.CategoryID
		tx.Category = m.ref(tx.CategoryID)
	}
	if params.Description != nil {
		tx.Description = *params.Description
	}
	return tx, nil
}

func (m memTransactions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txs[id]; !ok {
		return transaction.ErrTransactionNotFound
	}
	delete(m.txs, id)
	return nil
}

func (m memTransactions) DeleteByCategoryID(ctx context.Context, userID, categoryID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteByCategoryErr != nil {
		return 0, m.DeleteByCategoryErr
	}
	var n int64
	for id, tx := range m.txs {
		if tx.UserID == userID && tx.CategoryID == categoryID {
			delete(m.txs, id)
			n++
		}
	}
	return n, nil
}

func (m memTransactions) ListEntries(ctx context.Context, userID string, from, to time.Time) ([]category.Entry, error) {
	txs, _ := m.ListByDateRange(ctx, userID, from, to)
	entries := make([]category.Entry, 0, len(txs))
	for _, tx := range txs {
		entries = append(entries, category.Entry{CategoryID: tx.CategoryID, Amount: tx.Amount})
	}
	return entries, nil
}

// memProfiles implements profile.Repository
type memProfiles struct{ *memDB }

func (m memProfiles) Create(ctx context.Context, params profile.CreateParams) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &profile.Profile{ID: params.ID, Name: params.Name, Email: params.Email}
	m.profiles[p.ID] = p
	return p, nil
}

func (m memProfiles) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[id], nil
}

func (m memProfiles) Update(ctx context.Context, id string, params profile.UpdateParams) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Email != nil {
		p.Email = *params.Email
	}
	if params.DateOfBirth != nil {
		p.DateOfBirth = *params.DateOfBirth
	}
	if params.PanID != nil {
		p.PanID = *params.PanID
	}
	if params.ProfileImage != nil {
		p.ProfileImage = params.ProfileImage
	}
	if params.ProfileCompleted != nil {
		p.ProfileCompleted = *params.ProfileCompleted
	}
	return p, nil
}

// memImages implements profile.ImageStore
type memImages struct {
	objects map[string][]byte
}

func (m *memImages) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[name] = data
	return "https://storage.example.com/profile-images/" + name, nil
}

// newRequest builds an authenticated request for userID. An empty userID
// leaves the request unauthenticated.
func newRequest(method, target string, body any, userID string) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	return newRawRequest(method, target, reader, userID)
}

func newRawRequest(method, target string, body io.Reader, userID string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	}
	return req
}

// decodeEnvelope parses the response envelope, decoding data into v when set.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, v any) envelope {
	t.Helper()
	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode envelope %q: %v", rr.Body.String(), err)
	}
	if v != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, v); err != nil {
			t.Fatalf("failed to decode data %q: %v", raw.Data, err)
		}
	}
	return envelope{Success: raw.Success, Error: raw.Error}
}

func floatPtr(f float64) *float64 { return &f }
