package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"finclusion/internal/domain/category"
	"finclusion/internal/domain/onboarding"
	"finclusion/internal/domain/profile"
	"finclusion/internal/domain/transaction"
)

type AuthResult = onboarding.Result

type Message struct {
	Message string `json:"message"`
}

type ProfileUpdate struct {
	Name             *string `json:"name,omitempty"`
	Email            *string `json:"email,omitempty"`
	DateOfBirth      *string `json:"dateOfBirth,omitempty"`
	PanID            *string `json:"panId,omitempty"`
	ProfileImage     *string `json:"profileImage,omitempty"`
	ProfileCompleted *bool   `json:"profileCompleted,omitempty"`
}

type UploadResult struct {
	ImageURL string           `json:"imageUrl"`
	Profile  *profile.Profile `json:"profile"`
}

type CategoryInput struct {
	Name   string        `json:"name"`
	Type   category.Type `json:"type"`
	Color  string        `json:"color,omitempty"`
	Icon   string        `json:"icon,omitempty"`
	Budget *float64      `json:"budget,omitempty"`
}

type CategoryUpdate struct {
	Name   *string        `json:"name,omitempty"`
	Type   *category.Type `json:"type,omitempty"`
	Color  *string        `json:"color,omitempty"`
	Icon   *string        `json:"icon,omitempty"`
	Budget *float64       `json:"budget,omitempty"`
}

type TransactionInput struct {
	Type        transaction.Type `json:"type"`
	Amount      float64          `json:"amount"`
	CategoryID  string           `json:"category_id"`
	Description string           `json:"description"`
	Date        string           `json:"date,omitempty"`
}

type TransactionUpdate struct {
	Type        *transaction.Type `json:"type,omitempty"`
	Amount      *float64          `json:"amount,omitempty"`
	CategoryID  *string           `json:"category_id,omitempty"`
	Description *string           `json:"description,omitempty"`
	Date        *string           `json:"date,omitempty"`
}

// Auth

func (c *Client) Register(ctx context.Context, name, email, password string) (*Response[AuthResult], error) {
	return doJSON[AuthResult](ctx, c, http.MethodPost, "/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
}

func (c *Client) Login(ctx context.Context, email, password string) (*Response[AuthResult], error) {
	return doJSON[AuthResult](ctx, c, http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": password,
	})
}

func (c *Client) Logout(ctx context.Context) (*Response[Message], error) {
	return doJSON[Message](ctx, c, http.MethodPost, "/auth/logout", nil)
}

// Profile

func (c *Client) GetProfile(ctx context.Context) (*Response[*profile.Profile], error) {
	return doJSON[*profile.Profile](ctx, c, http.MethodGet, "/profile", nil)
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Response[*profile.Profile], error) {
	return doJSON[*profile.Profile](ctx, c, http.MethodPut, "/profile", update)
}

// UploadProfileImage sends r as the multipart "image" field.
func (c *Client) UploadProfileImage(ctx context.Context, filename string, r io.Reader) (*Response[UploadResult], error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/profile/upload", &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return do[UploadResult](c, req)
}

// Categories

func (c *Client) ListCategories(ctx context.Context) (*Response[[]*category.Category], error) {
	return doJSON[[]*category.Category](ctx, c, http.MethodGet, "/categories", nil)
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Response[category.Category], error) {
	return doJSON[category.Category](ctx, c, http.MethodPost, "/categories", in)
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryUpdate) (*Response[category.Category], error) {
	return doJSON[category.Category](ctx, c, http.MethodPut, "/categories/"+url.PathEscape(id), in)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) (*Response[Message], error) {
	return doJSON[Message](ctx, c, http.MethodDelete, "/categories/"+url.PathEscape(id), nil)
}

// CategoryStats reports spend per category between two YYYY-MM-DD dates, both inclusive.
func (c *Client) CategoryStats(ctx context.Context, startDate, endDate string) (*Response[[]category.Stat], error) {
	q := url.Values{"startDate": {startDate}, "endDate": {endDate}}
	return doJSON[[]category.Stat](ctx, c, http.MethodGet, "/categories/stats?"+q.Encode(), nil)
}

// Transactions

func (c *Client) ListTransactions(ctx context.Context) (*Response[[]*transaction.Transaction], error) {
	return doJSON[[]*transaction.Transaction](ctx, c, http.MethodGet, "/transactions", nil)
}

func (c *Client) CreateTransaction(ctx context.Context, in TransactionInput) (*Response[transaction.Transaction], error) {
	return doJSON[transaction.Transaction](ctx, c, http.MethodPost, "/transactions", in)
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, in TransactionUpdate) (*Response[transaction.Transaction], error) {
	return doJSON[transaction.Transaction](ctx, c, http.MethodPut, "/transactions/"+url.PathEscape(id), in)
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) (*Response[Message], error) {
	return doJSON[Message](ctx, c, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil)
}

func (c *Client) MonthlyTransactions(ctx context.Context, year, month int) (*Response[transaction.MonthlyReport], error) {
	q := url.Values{"year": {strconv.Itoa(year)}, "month": {strconv.Itoa(month)}}
	return doJSON[transaction.MonthlyReport](ctx, c, http.MethodGet, "/transactions/monthly?"+q.Encode(), nil)
}

func (c *Client) TransactionsByCategory(ctx context.Context, startDate, endDate string) (*Response[[]transaction.CategoryGroup], error) {
	q := url.Values{"startDate": {startDate}, "endDate": {endDate}}
	return doJSON[[]transaction.CategoryGroup](ctx, c, http.MethodGet, "/transactions/by-category?"+q.Encode(), nil)
}
