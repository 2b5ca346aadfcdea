package store

import (
	"fmt"
	"slices"

	"github.com/arloliu/climode/eof"
	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/format"
	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/regression"
	"github.com/arloliu/climode/transcode"
)

// Series names used by the mode and regression datasets.
const (
	SeriesFraction = "fraction"
	SeriesVariance = "variance"
	SeriesTotal    = "total_variance"
)

// Dataset is the unit of storage.
type Dataset struct {
	Kind   format.Kind
	Field  *grid.Field
	Series map[string]grid.Series
}

// SeriesNames returns the series names in sorted order.
func (ds *Dataset) SeriesNames() []string {
	names := make([]string, 0, len(ds.Series))
	for name := range ds.Series {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// FieldDataset wraps a 3-D field.
func FieldDataset(f *grid.Field) *Dataset {
	return &Dataset{Kind: format.KindField, Field: f}
}

// SeriesDataset wraps named series, such as an index or principal components.
func SeriesDataset(series map[string]grid.Series) *Dataset {
	return &Dataset{Kind: format.KindSeries, Series: series}
}

// ModesDataset stores the patterns of ms as a (mode, lat, lon) field with the
// explained variance as series indexed by mode number.
func ModesDataset(ms *eof.ModeSet) (*Dataset, error) {
	f, err := ms.Field()
	if err != nil {
		return nil, err
	}

	modeNumbers := slices.Clone(f.Coords.Time)
	variance := make([]float64, ms.Len())
	for i, m := range ms.Modes {
		variance[i] = m.Variance
	}

	return &Dataset{
		Kind:  format.KindModes,
		Field: f,
		Series: map[string]grid.Series{
			SeriesFraction: {Time: modeNumbers, Values: ms.Fractions(), Attrs: grid.Attrs{Name: SeriesFraction, Units: grid.DefaultUnits}},
			SeriesVariance: {Time: slices.Clone(modeNumbers), Values: variance, Attrs: grid.Attrs{Name: SeriesVariance}},
			SeriesTotal:    {Values: []float64{ms.TotalVariance}, Attrs: grid.Attrs{Name: SeriesTotal}},
		},
	}, nil
}

// ModeSet rebuilds a mode set from a KindModes dataset.
func (ds *Dataset) ModeSet() (*eof.ModeSet, error) {
	if ds.Kind != format.KindModes || ds.Field == nil || ds.Field.Shape.T == 0 {
		return nil, fmt.Errorf("%w: %s dataset holds no modes", errs.ErrInvalidKind, ds.Kind)
	}

	fraction, ok := ds.Series[SeriesFraction]
	if !ok || fraction.Len() != ds.Field.Shape.T {
		return nil, fmt.Errorf("%w: explained variance does not match %d modes", errs.ErrShapeMismatch, ds.Field.Shape.T)
	}
	variance := ds.Series[SeriesVariance]

	set := &eof.ModeSet{Modes: make([]eof.Mode, ds.Field.Shape.T)}
	for k := range set.Modes {
		set.Modes[k] = eof.Mode{Pattern: ds.Field.Slice(k), Fraction: fraction.Values[k]}
		if variance.Len() == len(set.Modes) {
			set.Modes[k].Variance = variance.Values[k]
		}
	}
	if total := ds.Series[SeriesTotal]; total.Len() == 1 {
		set.TotalVariance = total.Values[0]
	}

	first := set.Modes[0].Pattern
	for c, v := range first.Data {
		if !grid.IsMissing(v) {
			set.Index = append(set.Index, c)
		}
	}
	if set.Index == nil {
		set.Index = transcode.ValidityIndex{}
	}

	return set, nil
}

// RegressionDataset stores intercept, slope and correlation as a 3-level
// field. The residual is stored separately as a KindField dataset.
func RegressionDataset(res *regression.Result) (*Dataset, error) {
	f, err := res.Field()
	if err != nil {
		return nil, err
	}

	return &Dataset{Kind: format.KindRegression, Field: f}, nil
}
