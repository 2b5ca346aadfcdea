// Package collision detects distinct names that hash to the same 64-bit ID.
package collision

import (
	"fmt"

	"github.com/arloliu/climode/errs"
)

// Tracker records the name behind every ID it has seen. It is not safe for
// concurrent use; callers hold their own lock.
type Tracker struct {
	names map[uint64]string // ID → name
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{names: make(map[uint64]string)}
}

// Track records name under id.
//
// Tracking the same name again is a no-op. Returns ErrInvalidKey for an empty
// name and ErrHashCollision if id already belongs to a different name; the
// tracker is unchanged in both cases.
func (t *Tracker) Track(name string, id uint64) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", errs.ErrInvalidKey)
	}

	if existing, ok := t.names[id]; ok && existing != name {
		return fmt.Errorf("%w: %q and %q share ID %016x", errs.ErrHashCollision, existing, name, id)
	}
	t.names[id] = name

	return nil
}

// Owns reports whether id is tracked for exactly name.
func (t *Tracker) Owns(name string, id uint64) bool {
	existing, ok := t.names[id]
	return ok && existing == name
}

// Name returns the name tracked under id.
func (t *Tracker) Name(id uint64) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}

// Forget drops id.
func (t *Tracker) Forget(id uint64) {
	delete(t.names, id)
}

// Count returns the number of tracked IDs.
func (t *Tracker) Count() int {
	return len(t.names)
}

// Reset clears the tracker, keeping its capacity.
func (t *Tracker) Reset() {
	clear(t.names)
}
