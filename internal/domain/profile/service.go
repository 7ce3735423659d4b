package profile

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

type Service struct {
	repo   Repository
	images ImageStore
	now    func() time.Time
}

func NewService(repo Repository, images ImageStore) *Service {
	return &Service{repo: repo, images: images, now: time.Now}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Profile, error) {
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, userID string, params UpdateParams) (*Profile, error) {
	if params.PanID != nil {
		pan := strings.ToUpper(strings.TrimSpace(*params.PanID))
		params.PanID = &pan
	}
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		params.Name = &name
	}
	if params.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*params.Email))
		params.Email = &email
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, userID, params)
}

// UploadImage stores an image as <uid>-<unix ms><ext> and points the
// profile at it.
func (s *Service) UploadImage(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, *Profile, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, ErrUnsupportedImage
	}

	name := ImageName(userID, filename, s.now())
	url, err := s.images.Put(ctx, name, contentType, r)
	if err != nil {
		return "", nil, fmt.Errorf("failed to store profile image: %w", err)
	}

	p, err := s.repo.Update(ctx, userID, UpdateParams{ProfileImage: &url})
	if err != nil {
		return "", nil, err
	}
	return url, p, nil
}

// ImageName keeps the uploaded file's extension, lower-cased.
func ImageName(userID, filename string, at time.Time) string {
	return fmt.Sprintf("%s-%d%s", userID, at.UnixMilli(), strings.ToLower(filepath.Ext(filename)))
}
