package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/internal/collision"
)

// MemoryStore keeps encoded datasets in memory. It is safe for concurrent use.
//
// Datasets are indexed by Key.ID; saving a key whose ID already belongs to a
// different key fails with ErrHashCollision instead of overwriting.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[uint64][]byte
	keys *collision.Tracker
	opts []EncodeOption
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store that encodes with opts.
func NewMemoryStore(opts ...EncodeOption) *MemoryStore {
	return &MemoryStore{data: make(map[uint64][]byte), keys: collision.NewTracker(), opts: opts}
}

// Load decodes the dataset saved under key.
func (s *MemoryStore) Load(ctx context.Context, key Key) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}

	id := key.ID()
	s.mu.RLock()
	data, ok := s.data[id]
	owned := s.keys.Owns(key.String(), id)
	s.mu.RUnlock()
	if !ok || !owned {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, key)
	}

	return Decode(data)
}

// Save encodes ds under key.
func (s *MemoryStore) Save(ctx context.Context, key Key, ds *Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := key.Validate(); err != nil {
		return err
	}

	data, err := Encode(ds, s.opts...)
	if err != nil {
		return err
	}

	id := key.ID()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.keys.Track(key.String(), id); err != nil {
		return err
	}
	s.data[id] = data

	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := key.ID()
	s.mu.Lock()
	if s.keys.Owns(key.String(), id) {
		delete(s.data, id)
		s.keys.Forget(id)
	}
	s.mu.Unlock()

	return nil
}

// Len returns the number of stored datasets.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}
