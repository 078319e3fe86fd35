package domain

import (
	"context"
	"errors"
)

// Slice keys of the persisted application state.
const (
	SliceHistory  = "history"
	SliceReviews  = "reviews"
	SliceSettings = "settings"

	customCategoriesPrefix = "custom_categories_"
)

// CustomCategoriesKey is the per-user slice holding custom category names.
func CustomCategoriesKey(userID string) string {
	return customCategoriesPrefix + userID
}

// ErrSliceNotFound is returned by Store.Load when nothing was saved under the key yet.
var ErrSliceNotFound = errors.New("store: slice not found")

// Store is the key-value port behind every persisted slice.
// Values are opaque serialized blobs; writes are last-write-wins.
type Store interface {
	// Load returns the stored value or ErrSliceNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save overwrites the value stored under key and notifies subscribers.
	Save(ctx context.Context, key string, value []byte) error

	// Subscribe calls fn with every value saved under key until ctx is done.
	Subscribe(ctx context.Context, key string, fn func(value []byte)) error

	// Ping checks the health of the backend.
	Ping(ctx context.Context) error

	Close() error
}
