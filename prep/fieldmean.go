package prep

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/internal/options"
)

type fieldMeanConfig struct {
	latWeights bool
}

// FieldMeanOption configures FieldMean.
type FieldMeanOption = options.Option[*fieldMeanConfig]

// WithLatWeights weights every cell by the cosine of its latitude, which
// approximates the cell area on a regular grid.
func WithLatWeights() FieldMeanOption {
	return options.NoError(func(cfg *fieldMeanConfig) {
		cfg.latWeights = true
	})
}

// FieldMean returns the spatial mean of the valid cells at every time step.
//
// A time step with no valid cell yields a missing value.
//
// Returns:
//   - grid.Series: One mean per time step with f's time coordinates and attributes
//   - error: ErrShapeMismatch if latitude weighting is requested without
//     latitude coordinates
func FieldMean(f *grid.Field, opts ...FieldMeanOption) (grid.Series, error) {
	var cfg fieldMeanConfig
	if err := options.Apply(&cfg, opts...); err != nil {
		return grid.Series{}, err
	}
	if err := f.Validate(); err != nil {
		return grid.Series{}, err
	}

	var cellWeights []float64
	if cfg.latWeights {
		if f.Coords.Lat == nil {
			return grid.Series{}, fmt.Errorf("%w: latitude weighting needs lat coordinates", errs.ErrShapeMismatch)
		}
		cellWeights = make([]float64, f.Shape.Cells())
		for i, lat := range f.Coords.Lat {
			w := math.Cos(lat * math.Pi / 180)
			for j := range f.Shape.Lon {
				cellWeights[i*f.Shape.Lon+j] = w
			}
		}
	}

	values := make([]float64, f.Shape.T)
	vals := make([]float64, 0, f.Shape.Cells())
	var weights []float64
	if cellWeights != nil {
		weights = make([]float64, 0, f.Shape.Cells())
	}
	for t := range f.Shape.T {
		vals, weights = vals[:0], weights[:0]
		for c, v := range f.Step(t) {
			if grid.IsMissing(v) {
				continue
			}
			vals = append(vals, v)
			if cellWeights != nil {
				weights = append(weights, cellWeights[c])
			}
		}
		if len(vals) == 0 {
			values[t] = grid.Missing()
			continue
		}
		if cellWeights == nil {
			values[t] = stat.Mean(vals, nil)
		} else {
			values[t] = stat.Mean(vals, weights)
		}
	}

	return grid.Series{
		Time:   cloneFloats(f.Coords.Time),
		Values: values,
		Attrs:  f.Attrs,
	}, nil
}
