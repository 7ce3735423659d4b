package profile

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrUnsupportedImage = errors.New("file must be an image")
	ErrInvalidEmail     = errors.New("email must be a valid address")
)

var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// Profile is the personal data attached to a principal. Its ID is the
// principal ID.
type Profile struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	DateOfBirth      string    `json:"dateOfBirth,omitempty"`
	PanID            string    `json:"panId,omitempty"`
	ProfileImage     *string   `json:"profileImage"`
	ProfileCompleted bool      `json:"profileCompleted"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type CreateParams struct {
	ID    string
	Name  string
	Email string
}

func (p *CreateParams) Validate() error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return errors.New("email is required")
	}
	if len(p.Name) > 100 {
		return errors.New("name must be 100 characters or less")
	}
	return nil
}

type UpdateParams struct {
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	DateOfBirth      *string `json:"dateOfBirth"`
	PanID            *string `json:"panId"`
	ProfileImage     *string `json:"profileImage"`
	ProfileCompleted *bool   `json:"profileCompleted"`
}

func (p *UpdateParams) Validate() error {
	if p.Name != nil && len(*p.Name) > 100 {
		return errors.New("name must be 100 characters or less")
	}
	if p.Email != nil {
		if _, err := mail.ParseAddress(*p.Email); err != nil {
			return ErrInvalidEmail
		}
	}
	if p.DateOfBirth != nil && *p.DateOfBirth != "" {
		if _, err := time.Parse(time.DateOnly, *p.DateOfBirth); err != nil {
			return errors.New("dateOfBirth must be in YYYY-MM-DD format")
		}
	}
	if p.PanID != nil && *p.PanID != "" && !panPattern.MatchString(*p.PanID) {
		return errors.New("panId must be 5 letters, 4 digits and a letter")
	}
	return nil
}
