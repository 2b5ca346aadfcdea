package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/format"
	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/internal/config"
	"github.com/arloliu/climode/store"
)

var (
	direction = []float64{2.0 / 3, 2.0 / 3, 1.0 / 3}
	amplitude = []float64{2, -1, 0.5, -1.5}
)

// writeCSV writes a 4-year field on a 2x2 grid whose last cell is absent.
func writeCSV(t *testing.T) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("time,lat,lon,value\n")
	for i, a := range amplitude {
		c := 0
		for _, lat := range []float64{30, 40} {
			for _, lon := range []float64{150, 160} {
				if c < len(direction) {
					fmt.Fprintf(&b, "%d,%g,%g,%.17g\n", 2001+i, lat, lon, 280+a*direction[c])
				}
				c++
			}
		}
	}

	path := filepath.Join(t.TempDir(), "tos.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args,
		"--config", filepath.Join(t.TempDir(), "absent.yaml"),
		"--model", "CESM2", "--scenario", "historical", "--run", "r1i1p1f1", "--var", "tos",
	))
	require.NoError(t, rootCmd.ExecuteContext(context.Background()), out.String())

	return out.String()
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvStoreDir, dir)
	t.Setenv(config.EnvCompression, "s2")

	execute(t, "import", writeCSV(t), "--stage", "annual", "--units", "K")
	execute(t, "fldmean")
	execute(t, "anomaly", "--clim-from", "2001", "--clim-to", "2004")
	execute(t, "pca", "--modes", "1")
	execute(t, "project")
	execute(t, "detrend")

	s, err := store.NewFileStore(dir)
	require.NoError(t, err)
	key := store.Key{Model: "CESM2", Scenario: "historical", Run: "r1i1p1f1", Variable: "tos"}
	ctx := context.Background()

	annual, err := s.Load(ctx, key.With("annual"))
	require.NoError(t, err)
	require.Equal(t, grid.Shape{T: 4, Lat: 2, Lon: 2}, annual.Field.Shape)
	require.Equal(t, "K", annual.Field.Attrs.Units)
	require.True(t, grid.IsMissing(annual.Field.At(0, 1, 1)))

	eofs, err := s.Load(ctx, key.With("eof"))
	require.NoError(t, err)
	require.Equal(t, format.KindModes, eofs.Kind)
	modes, err := eofs.ModeSet()
	require.NoError(t, err)
	require.Equal(t, 1, modes.Len())
	require.InDelta(t, 1.0, modes.Modes[0].Fraction, 1e-9)

	pcs, err := s.Load(ctx, key.With("pcs"))
	require.NoError(t, err)
	proj, err := s.Load(ctx, key.With("proj"))
	require.NoError(t, err)
	require.InDeltaSlice(t, pcs.Series["pc1"].Values, proj.Series["pc1"].Values, 1e-9)

	sign := 1.0
	if modes.Modes[0].Pattern.Data[0] < 0 {
		sign = -1
	}
	for i, a := range amplitude {
		require.InDelta(t, a, sign*pcs.Series["pc1"].Values[i], 1e-9)
	}

	resid, err := s.Load(ctx, key.With("resid"))
	require.NoError(t, err)
	for i, v := range resid.Field.Data {
		if !grid.IsMissing(v) {
			require.InDelta(t, 0.0, v, 1e-9, "residual %d", i)
		}
	}
	coef, err := s.Load(ctx, key.With("resid_coef"))
	require.NoError(t, err)
	require.Equal(t, format.KindRegression, coef.Kind)

	out := execute(t, "inspect", "--stage", "eof")
	require.Contains(t, out, "Modes dataset")
	require.Contains(t, out, "100.00%")

	out = execute(t, "inspect", "--stage", "annual")
	require.Contains(t, out, "12 valid, 4 missing")
}

func TestMissingDataset(t *testing.T) {
	t.Setenv(config.EnvStoreDir, t.TempDir())

	rootCmd.SetArgs([]string{"annual", "--config", "", "--var", "tos", "--from", "nothing"})
	err := rootCmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, errs.ErrNotFound)

	annualFrom = "monthly"
}

func TestReadFieldCSV(t *testing.T) {
	f, err := readFieldCSV(strings.NewReader("time,lat,lon,value\n2,10,5,1.5\n1,10,5,\n1,20,5,NaN\n2,20,5,4\n"))
	require.NoError(t, err)
	require.Equal(t, grid.Shape{T: 2, Lat: 2, Lon: 1}, f.Shape)
	require.Equal(t, []float64{1, 2}, f.Coords.Time)
	require.Equal(t, []float64{10, 20}, f.Coords.Lat)
	require.True(t, grid.IsMissing(f.At(0, 0, 0)))
	require.True(t, grid.IsMissing(f.At(0, 1, 0)))
	require.InDelta(t, 1.5, f.At(1, 0, 0), 0)
	require.InDelta(t, 4.0, f.At(1, 1, 0), 0)

	_, err = readFieldCSV(strings.NewReader("t,y,x,v\n"))
	require.Error(t, err)

	_, err = readFieldCSV(strings.NewReader("time,lat,lon,value\n"))
	require.Error(t, err)

	_, err = readFieldCSV(strings.NewReader("time,lat,lon,value\n1,north,5,1\n"))
	require.Error(t, err)
}
