package prep

import (
	"fmt"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/grid"
)

// MonthsPerYear is the block length for monthly input.
const MonthsPerYear = 12

// AnnualMean averages consecutive blocks of stepsPerYear time steps.
//
// A trailing partial block is dropped. The time coordinate of each output
// step is the mean of its block's time coordinates.
//
// Returns:
//   - *grid.Field: One step per complete block
//   - error: ErrInsufficientData if f holds less than one complete block
func AnnualMean(f *grid.Field, stepsPerYear int) (*grid.Field, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if stepsPerYear < 1 {
		return nil, fmt.Errorf("invalid block length %d: must be positive", stepsPerYear)
	}

	years := f.Shape.T / stepsPerYear
	if years == 0 {
		return nil, fmt.Errorf("%w: %d time steps for blocks of %d",
			errs.ErrInsufficientData, f.Shape.T, stepsPerYear)
	}

	shape := grid.Shape{T: years, Lat: f.Shape.Lat, Lon: f.Shape.Lon}
	out, err := grid.NewMissingField(shape)
	if err != nil {
		return nil, err
	}

	cells := shape.Cells()
	sums := make([]float64, cells)
	counts := make([]int, cells)
	for y := range years {
		clear(sums)
		clear(counts)
		for k := range stepsPerYear {
			accumulate(f.Step(y*stepsPerYear+k), sums, counts)
		}
		dst := out.Data[y*cells : (y+1)*cells]
		for c := range cells {
			if counts[c] > 0 {
				dst[c] = sums[c] / float64(counts[c])
			}
		}
	}

	out.Coords.Lat = cloneFloats(f.Coords.Lat)
	out.Coords.Lon = cloneFloats(f.Coords.Lon)
	out.Attrs = f.Attrs
	if f.Coords.Time != nil {
		out.Coords.Time = make([]float64, years)
		for y := range years {
			block := f.Coords.Time[y*stepsPerYear : (y+1)*stepsPerYear]
			sum := 0.0
			for _, v := range block {
				sum += v
			}
			out.Coords.Time[y] = sum / float64(stepsPerYear)
		}
	}

	return out, nil
}

// Climatology returns the per-cell mean over the time steps whose time
// coordinate lies in [from, to].
//
// Returns:
//   - grid.Slab: The climatological mean, missing where a cell has no valid value
//   - error: ErrShapeMismatch if f has no time coordinates,
//     ErrInsufficientData if no time step is in range
func Climatology(f *grid.Field, from, to float64) (grid.Slab, error) {
	if err := f.Validate(); err != nil {
		return grid.Slab{}, err
	}
	if f.Coords.Time == nil {
		return grid.Slab{}, fmt.Errorf("%w: climatology needs time coordinates", errs.ErrShapeMismatch)
	}

	cells := f.Shape.Cells()
	sums := make([]float64, cells)
	counts := make([]int, cells)
	steps := 0
	for t, tv := range f.Coords.Time {
		if tv < from || tv > to {
			continue
		}
		accumulate(f.Step(t), sums, counts)
		steps++
	}
	if steps == 0 {
		return grid.Slab{}, fmt.Errorf("%w: no time step in [%g, %g]", errs.ErrInsufficientData, from, to)
	}

	clim := grid.NewMissingSlab(f.Shape.Lat, f.Shape.Lon)
	for c := range cells {
		if counts[c] > 0 {
			clim.Data[c] = sums[c] / float64(counts[c])
		}
	}
	clim.Lat = cloneFloats(f.Coords.Lat)
	clim.Lon = cloneFloats(f.Coords.Lon)
	clim.Attrs = f.Attrs

	return clim, nil
}

// Anomaly subtracts clim from every time step of f.
func Anomaly(f *grid.Field, clim grid.Slab) (*grid.Field, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := clim.Validate(); err != nil {
		return nil, err
	}
	if clim.NLat != f.Shape.Lat || clim.NLon != f.Shape.Lon {
		return nil, fmt.Errorf("%w: climatology %dx%d for field %s",
			errs.ErrShapeMismatch, clim.NLat, clim.NLon, f.Shape)
	}

	out := f.Clone()
	cells := f.Shape.Cells()
	for i, v := range out.Data {
		// NaN propagates through the subtraction.
		out.Data[i] = v - clim.Data[i%cells]
	}

	return out, nil
}

func accumulate(step, sums []float64, counts []int) {
	for c, v := range step {
		if grid.IsMissing(v) {
			continue
		}
		sums[c] += v
		counts[c]++
	}
}

func cloneFloats(s []float64) []float64 {
	if s == nil {
		return nil
	}

	return append([]float64(nil), s...)
}
