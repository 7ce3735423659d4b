package profile

import (
	"context"
	"io"
)

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Profile, error)
	GetByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Profile, error)
}

// ImageStore persists uploaded profile images and returns their public URL.
type ImageStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}
