package store

import (
	"fmt"
	"strings"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/internal/hash"
)

// Key identifies a dataset.
type Key struct {
	Model    string
	Scenario string
	Run      string
	Variable string
	// Stage names the processing level, e.g. "annual", "anom", "eof", "pc".
	Stage string
}

// Validate checks that Variable and Stage are set and that no part contains
// the separator.
func (k Key) Validate() error {
	if k.Variable == "" || k.Stage == "" {
		return fmt.Errorf("%w: variable and stage are required: %s", errs.ErrInvalidKey, k)
	}
	for _, part := range k.parts() {
		if strings.Contains(part, "/") {
			return fmt.Errorf("%w: %q contains '/'", errs.ErrInvalidKey, part)
		}
	}

	return nil
}

func (k Key) parts() []string {
	return []string{k.Model, k.Scenario, k.Run, k.Variable, k.Stage}
}

// String returns the slash-joined key.
func (k Key) String() string {
	return strings.Join(k.parts(), "/")
}

// ID returns the xxHash64 of the key string.
func (k Key) ID() uint64 {
	return hash.ID(k.String())
}

// With returns a copy of k with the stage replaced.
func (k Key) With(stage string) Key {
	k.Stage = stage
	return k
}
