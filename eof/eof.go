package eof

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/internal/options"
	"github.com/arloliu/climode/transcode"
)

// Mode is one EOF: a unit-norm spatial pattern and the variance it explains.
type Mode struct {
	// Pattern has missing values outside the decomposed cells.
	Pattern grid.Slab
	// Variance is the eigenvalue of the covariance matrix (s²/(T-1)).
	Variance float64
	// Fraction is Variance divided by the total variance, in [0, 1].
	Fraction float64
}

// ModeSet holds the leading modes in descending order of variance.
type ModeSet struct {
	Modes []Mode
	// TotalVariance is the sum of all covariance eigenvalues, not only the
	// returned ones.
	TotalVariance float64
	// Index is the ValidityIndex of the decomposed cells.
	Index transcode.ValidityIndex
}

// Len returns the number of modes.
func (ms *ModeSet) Len() int {
	return len(ms.Modes)
}

// Patterns returns the mode patterns in order.
func (ms *ModeSet) Patterns() []grid.Slab {
	out := make([]grid.Slab, len(ms.Modes))
	for i, m := range ms.Modes {
		out[i] = m.Pattern
	}

	return out
}

// Fractions returns the explained variance fraction of every mode.
func (ms *ModeSet) Fractions() []float64 {
	out := make([]float64, len(ms.Modes))
	for i, m := range ms.Modes {
		out[i] = m.Fraction
	}

	return out
}

// Field stacks the patterns into a (mode, lat, lon) field whose leading
// coordinate holds the mode numbers 1..n.
func (ms *ModeSet) Field() (*grid.Field, error) {
	f, err := grid.FieldFromSlabs(ms.Patterns())
	if err != nil {
		return nil, err
	}

	f.Coords.Time = make([]float64, len(ms.Modes))
	for i := range f.Coords.Time {
		f.Coords.Time[i] = float64(i + 1)
	}

	return f, nil
}

// Decompose computes the leading nModes EOFs of m.
//
// Columns are centred before factorization. Modes are pairwise orthogonal,
// unit-norm and ordered by descending variance; their sign is arbitrary
// unless WithReference is given.
//
// Parameters:
//   - m: Flattened field, typically from transcode.Flatten
//   - nModes: Number of modes to return
//   - opts: Optional settings (WithReference, WithName)
//
// Returns:
//   - *ModeSet: The modes with explained variance
//   - error: ErrInsufficientData if nModes is outside [1, min(T, cells)], if
//     fewer than two time steps exist, if m holds a non-finite value, or if
//     the factorization fails
func Decompose(m *transcode.Matrix, nModes int, opts ...Option) (*ModeSet, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if m == nil || m.Data == nil || m.Cols() == 0 {
		return nil, fmt.Errorf("%w: no valid cell to decompose", errs.ErrInsufficientData)
	}

	rows, cols := m.Data.Dims()
	if cols != m.Cols() {
		return nil, fmt.Errorf("%w: %d columns for %d index entries", errs.ErrShapeMismatch, cols, m.Cols())
	}
	if rows < 2 {
		return nil, fmt.Errorf("%w: %d time steps, need at least 2", errs.ErrInsufficientData, rows)
	}
	if nModes < 1 || nModes > cols || nModes > rows {
		return nil, fmt.Errorf("%w: %d modes requested from %d time steps x %d cells",
			errs.ErrInsufficientData, nModes, rows, cols)
	}

	centred, err := centre(m.Data)
	if err != nil {
		return nil, err
	}

	var svd mat.SVD
	if ok := svd.Factorize(centred, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: singular value decomposition did not converge", errs.ErrInsufficientData)
	}

	sv := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	sq := make([]float64, len(sv))
	for i, s := range sv {
		sq[i] = s * s
	}
	total := floats.Sum(sq)
	dof := float64(rows - 1)

	// Row k of vecs is the k-th right singular vector.
	vecs := mat.NewDense(nModes, cols, nil)
	for k := range nModes {
		for j := range cols {
			vecs.Set(k, j, v.At(j, k))
		}
	}

	pf, err := transcode.Unflatten(vecs, nModes, m.NLat, m.NLon, m.Index)
	if err != nil {
		return nil, err
	}

	set := &ModeSet{
		Modes:         make([]Mode, nModes),
		TotalVariance: total / dof,
		Index:         append(transcode.ValidityIndex(nil), m.Index...),
	}
	for k := range nModes {
		pattern := pf.Slice(k)
		pattern.Lat = copyCoords(m.Coords.Lat, m.NLat)
		pattern.Lon = copyCoords(m.Coords.Lon, m.NLon)
		pattern.Attrs = grid.Attrs{
			Name:     cfg.name,
			Units:    grid.DefaultUnits,
			LongName: fmt.Sprintf("EOF %d of %s", k+1, sourceName(m.Attrs)),
		}

		fraction := 0.0
		if total > 0 {
			fraction = sq[k] / total
		}
		set.Modes[k] = Mode{Pattern: pattern, Variance: sq[k] / dof, Fraction: fraction}
	}

	if cfg.reference != nil {
		if err := set.Orient(*cfg.reference); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// centre returns a copy of a with every column's mean removed.
func centre(a *mat.Dense) (*mat.Dense, error) {
	rows, cols := a.Dims()
	out := mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)

	for j := range cols {
		mat.Col(col, j, a)
		for i, x := range col {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("%w: non-finite value %v at row %d column %d",
					errs.ErrInsufficientData, x, i, j)
			}
		}
		mean := stat.Mean(col, nil)
		for i, x := range col {
			out.Set(i, j, x-mean)
		}
	}

	return out, nil
}

func sourceName(a grid.Attrs) string {
	if a.Name == "" {
		return "field"
	}

	return a.Name
}

func copyCoords(c []float64, n int) []float64 {
	if len(c) != n {
		return nil
	}

	return append([]float64(nil), c...)
}
