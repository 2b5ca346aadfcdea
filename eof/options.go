package eof

import (
	"fmt"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/internal/options"
)

type config struct {
	reference *grid.Slab
	name      string
}

func defaultConfig() config {
	return config{name: "eof"}
}

// Option configures Decompose.
type Option = options.Option[*config]

// WithReference orients every mode so that its inner product with ref, over
// the cells valid in both, is non-negative.
func WithReference(ref grid.Slab) Option {
	return options.New(func(cfg *config) error {
		if err := ref.Validate(); err != nil {
			return fmt.Errorf("invalid reference pattern: %w", err)
		}
		r := ref.Clone()
		cfg.reference = &r

		return nil
	})
}

// WithName sets the variable name given to the mode patterns.
func WithName(name string) Option {
	return options.New(func(cfg *config) error {
		if name == "" {
			return fmt.Errorf("%w: empty pattern name", errs.ErrInvalidKey)
		}
		cfg.name = name

		return nil
	})
}
