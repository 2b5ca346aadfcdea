package regression

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/internal/options"
	"github.com/arloliu/climode/internal/pool"
)

// Detrend regresses every grid cell of f on index.
//
// Parameters:
//   - f: Field to detrend, not modified
//   - index: Regressor with exactly one value per time step of f
//   - opts: Optional settings (WithWorkers, WithMinSamples)
//
// Returns:
//   - *Result: Intercept, slope, correlation and residual field
//   - error: ErrLengthMismatch if len(index.Values) != f.Shape.T,
//     ErrShapeMismatch if f is inconsistent
func Detrend(f *grid.Field, index grid.Series, opts ...DetrendOption) (*Result, error) {
	cfg := defaultDetrendConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if index.Len() != f.Shape.T {
		return nil, fmt.Errorf("%w: index has %d values, field has %d time steps",
			errs.ErrLengthMismatch, index.Len(), f.Shape.T)
	}

	res := newResult(f, index)

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for lat := range f.Shape.Lat {
		g.Go(func() error {
			detrendRow(f, index.Values, lat, cfg.MinSamples, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return res, nil
}

func newResult(f *grid.Field, index grid.Series) *Result {
	cells := f.Shape.Cells()
	units := f.Attrs.UnitsOr(grid.DefaultUnits)

	level := func(name, units string) grid.Slab {
		s := grid.NewMissingSlab(f.Shape.Lat, f.Shape.Lon)
		s.Lat = cloneCoords(f.Coords.Lat)
		s.Lon = cloneCoords(f.Coords.Lon)
		s.Attrs = grid.Attrs{Name: name, Units: units, LongName: fmt.Sprintf("%s of %s", name, nameOr(f.Attrs.Name, "field"))}

		return s
	}

	residual := &grid.Field{
		Shape: f.Shape,
		Data:  make([]float64, f.Shape.Len()),
		Coords: grid.Coords{
			Time: cloneCoords(f.Coords.Time),
			Lat:  cloneCoords(f.Coords.Lat),
			Lon:  cloneCoords(f.Coords.Lon),
		},
		Attrs: f.Attrs,
	}

	return &Result{
		Intercept:   level("intercept", units),
		Slope:       level("slope", fmt.Sprintf("%s / %s", units, index.Attrs.UnitsOr(grid.DefaultUnits))),
		Correlation: level("correlation", grid.DefaultUnits),
		Samples:     make([]int, cells),
		Residual:    residual,
	}
}

// detrendRow fits every cell of latitude row lat and writes only to that row.
func detrendRow(f *grid.Field, index []float64, lat, minSamples int, res *Result) {
	nt := f.Shape.T
	cells := f.Shape.Cells()
	missing := grid.Missing()

	xs, releaseX := pool.GetFloat64Slice(nt)
	defer releaseX()
	ys, releaseY := pool.GetFloat64Slice(nt)
	defer releaseY()

	for lon := range f.Shape.Lon {
		c := lat*f.Shape.Lon + lon

		n := 0
		for t := range nt {
			x, y := index[t], f.Data[t*cells+c]
			if grid.IsMissing(x) || grid.IsMissing(y) {
				continue
			}
			xs[n], ys[n] = x, y
			n++
		}
		res.Samples[c] = n

		line, ok := Line{}, false
		if n >= minSamples {
			line, ok = FitLine(xs[:n], ys[:n])
		}
		if !ok {
			for t := range nt {
				res.Residual.Data[t*cells+c] = missing
			}
			continue
		}

		res.Intercept.Data[c] = line.Intercept
		res.Slope.Data[c] = line.Slope
		res.Correlation.Data[c] = line.R
		for t := range nt {
			x, y := index[t], f.Data[t*cells+c]
			if grid.IsMissing(x) || grid.IsMissing(y) {
				res.Residual.Data[t*cells+c] = missing
				continue
			}
			res.Residual.Data[t*cells+c] = y - line.Estimate(x)
		}
	}
}

func cloneCoords(c []float64) []float64 {
	if c == nil {
		return nil
	}

	return append([]float64(nil), c...)
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}

	return name
}
