package store

import "context"

// Store maps keys to datasets.
type Store interface {
	// Load returns the dataset saved under key, or ErrNotFound.
	Load(ctx context.Context, key Key) (*Dataset, error)
	// Save stores ds under key, replacing any previous dataset.
	Save(ctx context.Context, key Key, ds *Dataset) error
	// Delete removes the dataset under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key Key) error
}
