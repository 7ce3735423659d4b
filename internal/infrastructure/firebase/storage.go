package firebase

import (
	"context"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// writerFunc opens a writer for one object. Swapped out in tests.
type writerFunc func(ctx context.Context, name, contentType string) io.WriteCloser

// ImageStore implements profile.ImageStore on a Firebase Storage bucket.
type ImageStore struct {
	bucket    string
	newWriter writerFunc
}

// NewImageStore initializes a Firebase app scoped to one storage bucket.
func NewImageStore(ctx context.Context, credentialsFile, bucket string) (*ImageStore, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucket}, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase storage client: %w", err)
	}

	handle, err := client.Bucket(bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", bucket, err)
	}

	return &ImageStore{bucket: bucket, newWriter: bucketWriter(handle)}, nil
}

func bucketWriter(handle *gcs.BucketHandle) writerFunc {
	return func(ctx context.Context, name, contentType string) io.WriteCloser {
		w := handle.Object(name).NewWriter(ctx)
		w.ContentType = contentType
		w.CacheControl = "public, max-age=3600"
		return w
	}
}

// Put uploads the object and returns its public URL. The object only exists
// once the writer closes cleanly.
func (s *ImageStore) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	w := s.newWriter(ctx, name, contentType)

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize %s: %w", name, err)
	}

	return s.PublicURL(name), nil
}

func (s *ImageStore) PublicURL(name string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, url.PathEscape(name))
}
