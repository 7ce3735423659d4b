package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"finclusion/internal/domain/transaction"
)

type TransactionHandler struct {
	transactionService *transaction.Service
}

func NewTransactionHandler(transactionService *transaction.Service) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

type CreateTransactionRequest struct {
	Type        transaction.Type `json:"type"`
	Amount      float64          `json:"amount"`
	CategoryID  string           `json:"category_id"`
	Description string           `json:"description"`
	Date        string           `json:"date,omitempty"`
}

type UpdateTransactionRequest struct {
	Type        *transaction.Type `json:"type,omitempty"`
	Amount      *float64          `json:"amount,omitempty"`
	CategoryID  *string           `json:"category_id,omitempty"`
	Description *string           `json:"description,omitempty"`
	Date        *string           `json:"date,omitempty"`
}

// HandleTransactions routes requests to the appropriate handler based on method
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListTransactions(w, r)
	case http.MethodPost:
		h.handleCreateTransaction(w, r)
	default:
		methodNotAllowed(w)
	}
}

// HandleTransactionByID routes requests for a specific transaction
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.handleUpdateTransaction(w, r)
	case http.MethodDelete:
		h.handleDeleteTransaction(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *TransactionHandler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	txs, err := h.transactionService.List(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing transactions for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	writeSuccess(w, http.StatusOK, txs)
}

func (h *TransactionHandler) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := transaction.CreateParams{
		Type:        req.Type,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	if req.Date != "" {
		date, err := parseInstant(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be an ISO-8601 date or instant")
			return
		}
		params.Date = date
	}

	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.transactionService.Create(r.Context(), userID, params)
	if errors.Is(err, transaction.ErrInvalidCategory) {
		writeError(w, http.StatusBadRequest, "Invalid category")
		return
	}
	if err != nil {
		log.Printf("Error creating transaction for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	writeSuccess(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := transaction.UpdateParams{
		Type:        req.Type,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	if req.Date != nil {
		date, err := parseInstant(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be an ISO-8601 date or instant")
			return
		}
		params.Date = &date
	}

	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.transactionService.Update(r.Context(), userID, r.PathValue("id"), params)
	switch {
	case errors.Is(err, transaction.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, transaction.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "Invalid category")
	case err != nil:
		log.Printf("Error updating transaction for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update transaction")
	default:
		writeSuccess(w, http.StatusOK, tx)
	}
}

func (h *TransactionHandler) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	err := h.transactionService.Delete(r.Context(), userID, r.PathValue("id"))
	switch {
	case errors.Is(err, transaction.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, "Transaction not found")
	case err != nil:
		log.Printf("Error deleting transaction for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete transaction")
	default:
		writeSuccess(w, http.StatusOK, messageResponse{Message: "Transaction deleted successfully"})
	}
}

// HandleMonthly returns one calendar month of transactions with totals.
func (h *TransactionHandler) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	yearStr, monthStr := r.URL.Query().Get("year"), r.URL.Query().Get("month")
	if yearStr == "" || monthStr == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	year, yearErr := strconv.Atoi(yearStr)
	month, monthErr := strconv.Atoi(monthStr)
	if yearErr != nil || monthErr != nil {
		writeError(w, http.StatusBadRequest, "year and month must be numbers")
		return
	}

	report, err := h.transactionService.Monthly(r.Context(), userID, year, month)
	if errors.Is(err, transaction.ErrInvalidPeriod) {
		writeError(w, http.StatusBadRequest, "Invalid year or month")
		return
	}
	if err != nil {
		log.Printf("Error loading monthly transactions for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load monthly transactions")
		return
	}

	writeSuccess(w, http.StatusOK, report)
}

// HandleByCategory groups transactions between startDate and endDate
// (inclusive) by category.
func (h *TransactionHandler) HandleByCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	start, end := r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate")
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	from, to, err := dayRange(start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range")
		return
	}

	groups, err := h.transactionService.ByCategory(r.Context(), userID, from, to)
	if errors.Is(err, transaction.ErrInvalidPeriod) {
		writeError(w, http.StatusBadRequest, "Invalid date range")
		return
	}
	if err != nil {
		log.Printf("Error grouping transactions for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to group transactions")
		return
	}

	writeSuccess(w, http.StatusOK, groups)
}

// parseInstant accepts an RFC 3339 instant or a bare date.
func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, s)
}
