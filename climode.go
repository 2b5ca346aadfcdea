// Package climode extracts the dominant modes of variability from gridded
// climate fields.
//
// A field is a (time, lat, lon) array of float64 in which NaN marks a missing
// value. The subpackages cover the individual steps:
//
//   - transcode: flatten a field to a (time x valid cell) matrix and back
//   - eof: decompose a flattened field into empirical orthogonal functions
//   - projection: project field snapshots onto a spatial pattern
//   - regression: remove the linear dependence on an index series per cell
//   - prep: annual means, climatologies, anomalies and field means
//   - store: persist fields, modes and series
//
// This package chains them the way a typical analysis does.
//
// # Basic Usage
//
// Computing the leading North Pacific modes of an anomaly field and their
// principal component series:
//
//	res, err := climode.AnalyzeEOF(anom, grid.NorthPacific, 10)
//	if err != nil {
//	    return err
//	}
//	for k, m := range res.Modes.Modes {
//	    fmt.Printf("mode %d explains %.1f%%\n", k+1, 100*m.Fraction)
//	}
//
// Projecting another run onto the same modes:
//
//	pcs, err := climode.ProjectOnto(other, res.Modes, grid.NorthPacific)
package climode

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/climode/eof"
	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/internal/options"
	"github.com/arloliu/climode/projection"
	"github.com/arloliu/climode/regression"
	"github.com/arloliu/climode/transcode"
)

// EOFResult is the outcome of AnalyzeEOF.
type EOFResult struct {
	// Field is the analysed sub-domain of the input.
	Field *grid.Field
	// Modes holds the patterns restricted to the sub-domain.
	Modes *eof.ModeSet
	// PCs holds one projection series per mode, named "pc1", "pc2", ...
	PCs []grid.Series
}

type config struct {
	workers   int
	reference *grid.Slab
	name      string
}

// Option configures the pipeline helpers.
type Option = options.Option[*config]

// WithWorkers bounds the number of goroutines used for projection and
// regression. Zero keeps the default of GOMAXPROCS.
func WithWorkers(n int) Option {
	return options.New(func(cfg *config) error {
		if n < 0 {
			return fmt.Errorf("invalid worker count %d: must not be negative", n)
		}
		cfg.workers = n

		return nil
	})
}

// WithReference orients every mode so that it correlates positively with ref
// over their common valid cells. ref is subset with the same region as the
// field.
func WithReference(ref grid.Slab) Option {
	return options.New(func(cfg *config) error {
		if err := ref.Validate(); err != nil {
			return err
		}
		cfg.reference = &ref

		return nil
	})
}

// WithName sets the name stored in the pattern attributes.
func WithName(name string) Option {
	return options.NoError(func(cfg *config) {
		cfg.name = name
	})
}

func (cfg *config) projectionOptions() []projection.Option {
	if cfg.workers == 0 {
		return nil
	}

	return []projection.Option{projection.WithWorkers(cfg.workers)}
}

// AnalyzeEOF computes the leading nModes EOFs of f inside region and the
// principal component series of f on each of them.
//
// Parameters:
//   - f: Input field, usually anomalies
//   - region: Sub-domain to analyse; the zero Region keeps the whole grid
//   - nModes: Number of modes to compute
//   - opts: WithWorkers, WithReference, WithName
//
// Returns:
//   - *EOFResult: Modes and PCs
//   - error: Errors from grid.Field.Subset, transcode.Flatten, eof.Decompose
//     or projection.ProjectModes
func AnalyzeEOF(f *grid.Field, region grid.Region, nModes int, opts ...Option) (*EOFResult, error) {
	var cfg config
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	sub, err := f.Subset(region)
	if err != nil {
		return nil, fmt.Errorf("subset %s: %w", region, err)
	}

	m, err := transcode.Flatten(sub)
	if err != nil {
		return nil, err
	}

	var eofOpts []eof.Option
	if cfg.name != "" {
		eofOpts = append(eofOpts, eof.WithName(cfg.name))
	}
	if cfg.reference != nil {
		ref, err := cfg.reference.Subset(region)
		if err != nil {
			return nil, fmt.Errorf("reference: %w", err)
		}
		eofOpts = append(eofOpts, eof.WithReference(ref))
	}

	modes, err := eof.Decompose(m, nModes, eofOpts...)
	if err != nil {
		return nil, err
	}

	pcs, err := projectSeries(sub, modes.Patterns(), cfg)
	if err != nil {
		return nil, err
	}

	return &EOFResult{Field: sub, Modes: modes, PCs: pcs}, nil
}

// ProjectOnto projects f onto previously computed modes, for example the
// modes of one run applied to another run or scenario. Both f and the
// patterns are restricted to region before projecting.
//
// Returns:
//   - []grid.Series: One series per mode, named "pc1", "pc2", ...
//   - error: ErrInsufficientData for an empty mode set, or projection errors
func ProjectOnto(f *grid.Field, modes *eof.ModeSet, region grid.Region, opts ...Option) ([]grid.Series, error) {
	var cfg config
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if modes == nil || modes.Len() == 0 {
		return nil, fmt.Errorf("%w: no mode to project onto", errs.ErrInsufficientData)
	}

	sub, err := f.Subset(region)
	if err != nil {
		return nil, fmt.Errorf("subset %s: %w", region, err)
	}

	patterns := make([]grid.Slab, modes.Len())
	for k, p := range modes.Patterns() {
		if patterns[k], err = p.Subset(region); err != nil {
			return nil, fmt.Errorf("mode %d: %w", k+1, err)
		}
	}

	return projectSeries(sub, patterns, cfg)
}

func projectSeries(f *grid.Field, patterns []grid.Slab, cfg config) ([]grid.Series, error) {
	pcs, err := projection.ProjectModes(f, patterns, cfg.projectionOptions()...)
	if err != nil {
		return nil, err
	}

	units := f.Attrs.UnitsOr(grid.DefaultUnits)
	series := make([]grid.Series, len(patterns))
	for k := range patterns {
		s := grid.Series{
			Values: mat.Col(nil, k, pcs),
			Attrs: grid.Attrs{
				Name:     PCName(k),
				Units:    units,
				LongName: fmt.Sprintf("principal component %d", k+1),
			},
		}
		if f.Coords.Time != nil {
			s.Time = append([]float64(nil), f.Coords.Time...)
		}
		series[k] = s
	}

	return series, nil
}

// PCName returns the series name of the k-th (zero based) principal component.
func PCName(k int) string {
	return fmt.Sprintf("pc%d", k+1)
}

// RemoveTrend regresses every cell of f on index and returns the fitted
// coefficients and the residual field.
//
// Returns:
//   - *regression.Result: Per-cell intercept, slope, correlation and residual
//   - error: ErrLengthMismatch when index does not match f's time extent
func RemoveTrend(f *grid.Field, index grid.Series, opts ...Option) (*regression.Result, error) {
	var cfg config
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	var detrendOpts []regression.DetrendOption
	if cfg.workers > 0 {
		detrendOpts = append(detrendOpts, regression.WithWorkers(cfg.workers))
	}

	return regression.Detrend(f, index, detrendOpts...)
}
