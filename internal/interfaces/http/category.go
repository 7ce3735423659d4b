package http

import (
	"errors"
	"log"
	"net/http"

	"finclusion/internal/domain/category"
)

type CategoryHandler struct {
	categoryService *category.Service
}

func NewCategoryHandler(categoryService *category.Service) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type CreateCategoryRequest struct {
	Name   string        `json:"name"`
	Type   category.Type `json:"type"`
	Color  string        `json:"color,omitempty"`
	Icon   string        `json:"icon,omitempty"`
	Budget *float64      `json:"budget,omitempty"`
}

type UpdateCategoryRequest struct {
	Name   *string        `json:"name,omitempty"`
	Type   *category.Type `json:"type,omitempty"`
	Color  *string        `json:"color,omitempty"`
	Icon   *string        `json:"icon,omitempty"`
	Budget *float64       `json:"budget,omitempty"`
}

// HandleCategories routes requests to the appropriate handler based on method
func (h *CategoryHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListCategories(w, r)
	case http.MethodPost:
		h.handleCreateCategory(w, r)
	default:
		methodNotAllowed(w)
	}
}

// HandleCategoryByID routes requests for a specific category
func (h *CategoryHandler) HandleCategoryByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.handleUpdateCategory(w, r)
	case http.MethodDelete:
		h.handleDeleteCategory(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *CategoryHandler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	categories, err := h.categoryService.List(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing categories for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	writeSuccess(w, http.StatusOK, categories)
}

func (h *CategoryHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := category.CreateParams{
		Name:   req.Name,
		Type:   req.Type,
		Color:  req.Color,
		Icon:   req.Icon,
		Budget: req.Budget,
	}

	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.categoryService.Create(r.Context(), userID, params)
	if errors.Is(err, category.ErrDuplicateCategory) {
		writeError(w, http.StatusBadRequest, "Category already exists")
		return
	}
	if err != nil {
		log.Printf("Error creating category for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	writeSuccess(w, http.StatusCreated, c)
}

func (h *CategoryHandler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := category.UpdateParams{
		Name:   req.Name,
		Type:   req.Type,
		Color:  req.Color,
		Icon:   req.Icon,
		Budget: req.Budget,
	}

	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.categoryService.Update(r.Context(), userID, r.PathValue("id"), params)
	switch {
	case errors.Is(err, category.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, "Category not found")
	case errors.Is(err, category.ErrDuplicateCategory):
		writeError(w, http.StatusBadRequest, "Category already exists")
	case err != nil:
		log.Printf("Error updating category for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update category")
	default:
		writeSuccess(w, http.StatusOK, c)
	}
}

func (h *CategoryHandler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	err := h.categoryService.Delete(r.Context(), userID, r.PathValue("id"))
	switch {
	case errors.Is(err, category.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, "Category not found")
	case err != nil:
		log.Printf("Error deleting category for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete category")
	default:
		writeSuccess(w, http.StatusOK, messageResponse{Message: "Category deleted successfully"})
	}
}

// HandleCategoryStats reports per-category spend between startDate and
// endDate, both inclusive.
func (h *CategoryHandler) HandleCategoryStats(w http.ResponseWriter, r *http.Request) {
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
	if err != nil || !to.After(from) {
		writeError(w, http.StatusBadRequest, "Invalid date range")
		return
	}

	stats, err := h.categoryService.Stats(r.Context(), userID, from, to)
	if err != nil {
		log.Printf("Error computing category stats for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to compute category stats")
		return
	}

	writeSuccess(w, http.StatusOK, stats)
}
