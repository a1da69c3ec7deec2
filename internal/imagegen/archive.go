package imagegen

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resume-chat/internal/shared/storage/object"
)

const archivePrefix = "backgrounds"

// Archiver copies generated images into an object store.
type Archiver struct {
	Store object.ObjectStore
	Now   func() time.Time
	NewID func() string
}

// NewArchiver returns an archiver writing to store.
func NewArchiver(store object.ObjectStore) *Archiver {
	return &Archiver{
		Store: store,
		Now:   time.Now,
		NewID: func() string { return uuid.NewString() },
	}
}

// Key builds backgrounds/YYYY/MM/DD/<id><ext> for img.
func (a *Archiver) Key(img Image) string {
	now := a.Now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s", archivePrefix, now.Year(), int(now.Month()), now.Day(), a.NewID(), Extension(img))
}

// Save stores img and returns its key.
func (a *Archiver) Save(ctx context.Context, img Image) (string, error) {
	if a == nil || a.Store == nil {
		return "", fmt.Errorf("archiver not configured")
	}
	if len(img.Bytes) == 0 {
		return "", ErrNoImage
	}
	key := a.Key(img)
	if _, err := a.Store.Put(ctx, key, img.MIME(), bytes.NewReader(img.Bytes)); err != nil {
		return "", fmt.Errorf("archive image: %w", err)
	}
	return key, nil
}
