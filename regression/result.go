package regression

import (
	"fmt"

	"github.com/arloliu/climode/grid"
)

// Result holds the per-cell regression of a field on an index series.
//
// Intercept, Slope and Correlation have one value per grid cell and are
// missing where the cell could not be fitted. Residual has the shape of the
// input field: residual = value - (intercept + slope*index) wherever both the
// value and the index are valid, and missing elsewhere.
type Result struct {
	Intercept   grid.Slab
	Slope       grid.Slab
	Correlation grid.Slab
	// Samples is the number of valid pairs used for each cell, row-major.
	Samples  []int
	Residual *grid.Field
}

// Fitted returns the number of cells that received a fit.
func (r *Result) Fitted() int {
	return grid.CountValid(r.Slope.Data)
}

// Field stacks intercept, slope and correlation into a 3-level field, in that
// order, for persistence.
func (r *Result) Field() (*grid.Field, error) {
	f, err := grid.FieldFromSlabs([]grid.Slab{r.Intercept, r.Slope, r.Correlation})
	if err != nil {
		return nil, err
	}
	f.Coords.Time = []float64{0, 1, 2}

	return f, nil
}

// String returns a short summary of the result.
func (r *Result) String() string {
	return fmt.Sprintf("Result{Cells: %d, Fitted: %d}", r.Slope.Cells(), r.Fitted())
}
