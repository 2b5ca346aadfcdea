// Package projection reduces a field to a time series by projecting every time
// step onto a spatial pattern.
//
// The projection coefficient of a slice x onto a pattern e is
//
//	sum(x_i * e_i) / sqrt(sum(e_i^2))
//
// over the cells valid in both x and e. With a unit-norm EOF pattern this is
// the principal component value of x.
package projection

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/internal/options"
)

// Project returns the masked projection coefficient of slice onto pattern.
//
// Parameters:
//   - slice: One (lat, lon) level of a field
//   - pattern: Spatial pattern with the same extents
//
// Returns:
//   - float64: sum(x*e)/sqrt(sum(e*e)) over the common valid cells
//   - error: ErrShapeMismatch if extents differ, ErrEmptyOverlap if no cell
//     is valid in both, ErrZeroPattern if the pattern is zero on the common cells
func Project(slice, pattern grid.Slab) (float64, error) {
	if err := checkPattern(slice, pattern); err != nil {
		return 0, err
	}

	return project(slice.Data, pattern.Data)
}

func checkPattern(slice, pattern grid.Slab) error {
	if len(slice.Data) != slice.Cells() || len(pattern.Data) != pattern.Cells() {
		return fmt.Errorf("%w: slab data does not match its extent", errs.ErrShapeMismatch)
	}
	if !slice.SameExtent(pattern) {
		return fmt.Errorf("%w: slice %dx%d, pattern %dx%d",
			errs.ErrShapeMismatch, slice.NLat, slice.NLon, pattern.NLat, pattern.NLon)
	}

	return nil
}

func project(x, e []float64) (float64, error) {
	dot, norm2 := 0.0, 0.0
	n := 0
	for i, xi := range x {
		ei := e[i]
		if grid.IsMissing(xi) || grid.IsMissing(ei) {
			continue
		}
		dot += xi * ei
		norm2 += ei * ei
		n++
	}
	if n == 0 {
		return 0, errs.ErrEmptyOverlap
	}
	if norm2 == 0 {
		return 0, errs.ErrZeroPattern
	}

	return dot / math.Sqrt(norm2), nil
}

// ProjectSeries projects every time step of f onto pattern.
//
// Time steps are processed concurrently and independently. Any failing step
// fails the whole call and no partial series is returned.
//
// Returns:
//   - grid.Series: One coefficient per time step, with f's time coordinates
//     and units (dimensionless when f has none)
//   - error: ErrShapeMismatch, or ErrEmptyOverlap/ErrZeroPattern naming the step
func ProjectSeries(f *grid.Field, pattern grid.Slab, opts ...Option) (grid.Series, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return grid.Series{}, err
	}

	values, err := projectAll(f, pattern, cfg)
	if err != nil {
		return grid.Series{}, err
	}

	var time []float64
	if f.Coords.Time != nil {
		time = append([]float64(nil), f.Coords.Time...)
	}

	return grid.Series{
		Time:   time,
		Values: values,
		Attrs: grid.Attrs{
			Name:     pattern.Attrs.Name,
			Units:    f.Attrs.UnitsOr(grid.DefaultUnits),
			LongName: fmt.Sprintf("projection of %s onto %s", nameOr(f.Attrs.Name, "field"), nameOr(pattern.Attrs.Name, "pattern")),
		},
	}, nil
}

// ProjectModes projects f onto every pattern and returns a (time x mode)
// matrix whose column k is the series for patterns[k].
func ProjectModes(f *grid.Field, patterns []grid.Slab, opts ...Option) (*mat.Dense, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: no pattern to project onto", errs.ErrInsufficientData)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	out := mat.NewDense(f.Shape.T, len(patterns), nil)
	for k, p := range patterns {
		values, err := projectAll(f, p, cfg)
		if err != nil {
			return nil, fmt.Errorf("mode %d: %w", k+1, err)
		}
		out.SetCol(k, values)
	}

	return out, nil
}

func projectAll(f *grid.Field, pattern grid.Slab, cfg config) ([]float64, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := checkPattern(grid.Slab{NLat: f.Shape.Lat, NLon: f.Shape.Lon, Data: f.Step(0)}, pattern); err != nil {
		return nil, err
	}

	values := make([]float64, f.Shape.T)

	var g errgroup.Group
	g.SetLimit(cfg.workers)
	for t := range f.Shape.T {
		g.Go(func() error {
			v, err := project(f.Step(t), pattern.Data)
			if err != nil {
				return fmt.Errorf("time step %d: %w", t, err)
			}
			values[t] = v

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return values, nil
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}

	return name
}
