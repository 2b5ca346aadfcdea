package grid

import (
	"fmt"

	"github.com/arloliu/climode/errs"
)

// Series is a 1-D array over time, such as a projection index or a global mean.
// Time is optional; when set it has the same length as Values.
type Series struct {
	Time   []float64
	Values []float64
	Attrs  Attrs
}

// NewSeries wraps values (and optional time coordinates) without copying.
func NewSeries(time, values []float64) (Series, error) {
	if time != nil && len(time) != len(values) {
		return Series{}, fmt.Errorf("%w: %d time coordinates for %d values",
			errs.ErrShapeMismatch, len(time), len(values))
	}

	return Series{Time: time, Values: values}, nil
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Values)
}

// Clone returns a deep copy of the series.
func (s Series) Clone() Series {
	return Series{
		Time:   cloneFloats(s.Time),
		Values: cloneFloats(s.Values),
		Attrs:  s.Attrs,
	}
}
