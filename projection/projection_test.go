package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/grid"
)

var nan = grid.Missing()

func slab(data ...float64) grid.Slab {
	return grid.Slab{NLat: 1, NLon: len(data), Data: data}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name    string
		slice   grid.Slab
		pattern grid.Slab
		want    float64
	}{
		{"unit pattern", slab(3, 4), slab(1, 0), 3},
		{"scaled pattern", slab(3, 4), slab(0, 2), 4},
		{"masked in slice", slab(nan, 4, 1), slab(5, 3, 4), 16.0 / 5},
		{"masked in pattern", slab(2, 4, 1), slab(3, nan, 4), 10.0 / 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Project(tt.slice, tt.pattern)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestProjectSelf(t *testing.T) {
	p := slab(1.5, nan, -2, 0.25, 3)

	got, err := Project(p, p)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(1.5*1.5+4+0.0625+9), got, 1e-12)
}

func TestProjectErrors(t *testing.T) {
	_, err := Project(slab(nan, 1), slab(1, nan))
	require.ErrorIs(t, err, errs.ErrEmptyOverlap)

	_, err = Project(slab(1, 2), slab(0, 0))
	require.ErrorIs(t, err, errs.ErrZeroPattern)

	_, err = Project(slab(1, 2), grid.Slab{NLat: 2, NLon: 1, Data: []float64{1, 1}})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func testField(t *testing.T) *grid.Field {
	t.Helper()

	f, err := grid.NewField(grid.Shape{T: 3, Lat: 1, Lon: 2}, []float64{
		1, 2,
		3, nan,
		-1, 5,
	})
	require.NoError(t, err)
	f.Coords.Time = []float64{2000, 2001, 2002}
	f.Attrs = grid.Attrs{Name: "tos", Units: "K"}

	return f
}

func TestProjectSeries(t *testing.T) {
	f := testField(t)
	p := slab(3, 4)
	p.Attrs.Name = "pdo"

	s, err := ProjectSeries(f, p, WithWorkers(2))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{11.0 / 5, 3, 17.0 / 5}, s.Values, 1e-12)
	assert.Equal(t, []float64{2000, 2001, 2002}, s.Time)
	assert.Equal(t, "K", s.Attrs.Units)
	assert.Equal(t, "pdo", s.Attrs.Name)

	f.Attrs.Units = ""
	s, err = ProjectSeries(f, p)
	require.NoError(t, err)
	assert.Equal(t, grid.DefaultUnits, s.Attrs.Units)
}

func TestProjectSeriesEmptyStep(t *testing.T) {
	f := testField(t)

	s, err := ProjectSeries(f, slab(nan, 1))
	require.ErrorIs(t, err, errs.ErrEmptyOverlap)
	assert.ErrorContains(t, err, "time step 1")
	assert.Nil(t, s.Values)
}

func TestProjectSeriesInvalidInput(t *testing.T) {
	f := testField(t)

	_, err := ProjectSeries(f, slab(1, 2, 3))
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	_, err = ProjectSeries(f, slab(1, 2), WithWorkers(0))
	require.Error(t, err)
}

func TestProjectModes(t *testing.T) {
	f := testField(t)

	m, err := ProjectModes(f, []grid.Slab{slab(1, 0), slab(1, 2)})
	require.NoError(t, err)
	r, c := m.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	assert.Equal(t, []float64{1, 3, -1}, mat.Col(nil, 0, m))

	_, err = ProjectModes(f, []grid.Slab{slab(1, 0), slab(1, 2, 3)})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	_, err = ProjectModes(f, nil)
	require.ErrorIs(t, err, errs.ErrInsufficientData)
}

func BenchmarkProjectSeries(b *testing.B) {
	shape := grid.Shape{T: 120, Lat: 90, Lon: 180}
	data := make([]float64, shape.Len())
	for i := range data {
		data[i] = math.Sin(float64(i))
	}
	f, err := grid.NewField(shape, data)
	require.NoError(b, err)
	p := f.Slice(0)

	for b.Loop() {
		_, _ = ProjectSeries(f, p)
	}
}
