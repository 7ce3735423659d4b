package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finclusion/internal/domain/category"
	"finclusion/internal/domain/transaction"
)

func newCategoryHandler(db *memDB) *CategoryHandler {
	return NewCategoryHandler(category.NewService(memCategories{db}, memTransactions{db}))
}

func seedCategory(t *testing.T, db *memDB, userID, name string, typ category.Type, budget *float64) *category.Category {
	t.Helper()
	c, err := memCategories{db}.Create(context.Background(), userID, category.CreateParams{Name: name, Type: typ, Budget: budget})
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return c
}

func seedTransaction(t *testing.T, db *memDB, userID, categoryID string, typ category.Type, amount float64, date time.Time) *transaction.Transaction {
	t.Helper()
	tx, err := memTransactions{db}.Create(context.Background(), userID, transaction.CreateParams{
		Type: typ, Amount: amount, CategoryID: categoryID, Date: date,
	})
	if err != nil {
		t.Fatalf("failed to seed transaction: %v", err)
	}
	return tx
}

func TestHandleCategories_List(t *testing.T) {
	db := newMemDB()
	seedCategory(t, db, "user-1", "Shopping", category.TypeExpense, nil)
	seedCategory(t, db, "user-1", "Food", category.TypeExpense, nil)
	seedCategory(t, db, "user-2", "Rent", category.TypeExpense, nil)

	rr := httptest.NewRecorder()
	newCategoryHandler(db).HandleCategories(rr, newRequest(http.MethodGet, "/api/categories", nil, "user-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var got []category.Category
	env := decodeEnvelope(t, rr, &got)
	if !env.Success {
		t.Error("success = false, want true")
	}
	if len(got) != 2 || got[0].Name != "Food" || got[1].Name != "Shopping" {
		t.Errorf("categories = %+v, want the caller's two ordered by name", got)
	}
}

func TestHandleCategories_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Success",
			body:           CreateCategoryRequest{Name: "Pets", Type: category.TypeExpense},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Duplicate name and type",
			body:           CreateCategoryRequest{Name: "Food", Type: category.TypeExpense},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Category already exists",
		},
		{
			name:           "Same name other type",
			body:           CreateCategoryRequest{Name: "Food", Type: category.TypeIncome},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Invalid type",
			body:           CreateCategoryRequest{Name: "Pets", Type: "transfer"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "type must be income or expense",
		},
		{
			name:           "Missing name",
			body:           CreateCategoryRequest{Type: category.TypeExpense},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newMemDB()
			seedCategory(t, db, "user-1", "Food", category.TypeExpense, nil)

			rr := httptest.NewRecorder()
			newCategoryHandler(db).HandleCategories(rr, newRequest(http.MethodPost, "/api/categories", tt.body, "user-1"))

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}

			var got category.Category
			env := decodeEnvelope(t, rr, &got)
			if env.Error != tt.expectedError {
				t.Errorf("error = %q, want %q", env.Error, tt.expectedError)
			}
			if tt.expectedStatus == http.StatusCreated {
				if got.Color != category.DefaultColor || got.Icon != category.DefaultIcon {
					t.Errorf("defaults not applied: %+v", got)
				}
				if got.UserID != "user-1" {
					t.Errorf("UserID = %q, want user-1", got.UserID)
				}
			}
		})
	}
}

func TestHandleCategoryByID_Update(t *testing.T) {
	db := newMemDB()
	mine := seedCategory(t, db, "user-1", "Food", category.TypeExpense, nil)
	theirs := seedCategory(t, db, "user-2", "Food", category.TypeExpense, nil)
	handler := newCategoryHandler(db)

	t.Run("Owner sets budget", func(t *testing.T) {
		req := newRequest(http.MethodPut, "/api/categories/"+mine.ID, UpdateCategoryRequest{Budget: floatPtr(500)}, "user-1")
		req.SetPathValue("id", mine.ID)
		rr := httptest.NewRecorder()
		handler.HandleCategoryByID(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}
		var got category.Category
		decodeEnvelope(t, rr, &got)
		if got.Budget == nil || *got.Budget != 500 {
			t.Errorf("Budget = %v, want 500", got.Budget)
		}
	})

	t.Run("Another principal gets 404", func(t *testing.T) {
		req := newRequest(http.MethodPut, "/api/categories/"+theirs.ID, UpdateCategoryRequest{Budget: floatPtr(1)}, "user-1")
		req.SetPathValue("id", theirs.ID)
		rr := httptest.NewRecorder()
		handler.HandleCategoryByID(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
		}
		if env := decodeEnvelope(t, rr, nil); env.Error != "Category not found" {
			t.Errorf("error = %q, want %q", env.Error, "Category not found")
		}
		if db.categories[theirs.ID].Budget != nil {
			t.Error("foreign category was modified")
		}
	})
}

func TestHandleCategoryByID_DeleteRemovesTransactionsFirst(t *testing.T) {
	db := newMemDB()
	food := seedCategory(t, db, "user-1", "Food", category.TypeExpense, nil)
	fun := seedCategory(t, db, "user-1", "Fun", category.TypeExpense, nil)
	now := time.Now().UTC()
	seedTransaction(t, db, "user-1", food.ID, category.TypeExpense, 10, now)
	seedTransaction(t, db, "user-1", food.ID, category.TypeExpense, 20, now)
	kept := seedTransaction(t, db, "user-1", fun.ID, category.TypeExpense, 30, now)

	req := newRequest(http.MethodDelete, "/api/categories/"+food.ID, nil, "user-1")
	req.SetPathValue("id", food.ID)
	rr := httptest.NewRecorder()
	newCategoryHandler(db).HandleCategoryByID(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var msg messageResponse
	decodeEnvelope(t, rr, &msg)
	if msg.Message != "Category deleted successfully" {
		t.Errorf("message = %q", msg.Message)
	}

	if _, ok := db.categories[food.ID]; ok {
		t.Error("category still present")
	}
	for _, tx := range db.txs {
		if tx.CategoryID == food.ID {
			t.Errorf("transaction %s still references the deleted category", tx.ID)
		}
	}
	if _, ok := db.txs[kept.ID]; !ok {
		t.Error("transaction of another category was deleted")
	}
}

func TestHandleCategoryByID_DeleteLedgerFailureKeepsCategory(t *testing.T) {
	db := newMemDB()
	food := seedCategory(t, db, "user-1", "Food", category.TypeExpense, nil)
	db.DeleteByCategoryErr = errors.New("connection reset")

	req := newRequest(http.MethodDelete, "/api/categories/"+food.ID, nil, "user-1")
	req.SetPathValue("id", food.ID)
	rr := httptest.NewRecorder()
	newCategoryHandler(db).HandleCategoryByID(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if _, ok := db.categories[food.ID]; !ok {
		t.Error("category deleted although its transactions could not be")
	}
}

func TestHandleCategoryStats(t *testing.T) {
	db := newMemDB()
	food := seedCategory(t, db, "user-1", "Food", category.TypeExpense, floatPtr(200))
	seedCategory(t, db, "user-1", "Fun", category.TypeExpense, nil)
	seedTransaction(t, db, "user-1", food.ID, category.TypeExpense, 50, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, db, "user-1", food.ID, category.TypeExpense, 100, time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC))
	seedTransaction(t, db, "user-1", food.ID, category.TypeExpense, 999, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	handler := newCategoryHandler(db)

	t.Run("Missing parameters", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.HandleCategoryStats(rr, newRequest(http.MethodGet, "/api/categories/stats?startDate=2024-03-01", nil, "user-1"))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
		}
		if env := decodeEnvelope(t, rr, nil); env.Error != "Missing required parameters" {
			t.Errorf("error = %q", env.Error)
		}
	})

	t.Run("Inclusive end date", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.HandleCategoryStats(rr, newRequest(http.MethodGet, "/api/categories/stats?startDate=2024-03-01&endDate=2024-03-31", nil, "user-1"))

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
		}

		var stats []category.Stat
		decodeEnvelope(t, rr, &stats)
		if len(stats) != 1 {
			t.Fatalf("len(stats) = %d, want 1 (Fun has no transactions in range)", len(stats))
		}
		s := stats[0]
		if s.Category != "Food" || s.Spent != 150 || s.TransactionCount != 2 {
			t.Errorf("Food = %+v, want spent 150 over 2 transactions", s)
		}
		if s.PercentageOfBudget == nil || *s.PercentageOfBudget != 75 {
			t.Errorf("Food percentage = %v, want 75", s.PercentageOfBudget)
		}
	})
}

func TestHandleCategories_MethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	newCategoryHandler(newMemDB()).HandleCategories(rr, newRequest(http.MethodPatch, "/api/categories", nil, "user-1"))

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleCategories_Unauthenticated(t *testing.T) {
	rr := httptest.NewRecorder()
	newCategoryHandler(newMemDB()).HandleCategories(rr, newRequest(http.MethodGet, "/api/categories", nil, ""))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
