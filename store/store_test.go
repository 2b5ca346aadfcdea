package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/climode/eof"
	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/format"
	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/regression"
	"github.com/arloliu/climode/transcode"
)

var testKey = Key{Model: "CESM2", Scenario: "historical", Run: "r1i1p1f1", Variable: "tos", Stage: "annual"}

func TestKey(t *testing.T) {
	require.NoError(t, testKey.Validate())
	require.Equal(t, "CESM2/historical/r1i1p1f1/tos/annual", testKey.String())
	require.Equal(t, testKey.ID(), testKey.ID())
	require.NotEqual(t, testKey.ID(), testKey.With("anom").ID())
	require.Equal(t, "annual", testKey.Stage, "With must not modify the receiver")

	require.ErrorIs(t, Key{Variable: "tos"}.Validate(), errs.ErrInvalidKey)
	require.ErrorIs(t, Key{Model: "a/b", Variable: "tos", Stage: "x"}.Validate(), errs.ErrInvalidKey)
}

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStore(filepath.Join(t.TempDir(), "data"), WithEncodeOptions(WithCompression(format.CompressionS2)))
	require.NoError(t, err)

	return map[string]Store{
		"file":   fs,
		"memory": NewMemoryStore(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := sampleField(t)

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx, testKey)
			require.ErrorIs(t, err, errs.ErrNotFound)

			require.NoError(t, s.Save(ctx, testKey, FieldDataset(f)))

			ds, err := s.Load(ctx, testKey)
			require.NoError(t, err)
			requireSameField(t, f, ds.Field)

			// Overwrite
			g := f.Clone()
			g.Data[0] = -1
			require.NoError(t, s.Save(ctx, testKey, FieldDataset(g)))
			ds, err = s.Load(ctx, testKey)
			require.NoError(t, err)
			require.InDelta(t, -1.0, ds.Field.Data[0], 0)

			require.NoError(t, s.Delete(ctx, testKey))
			require.NoError(t, s.Delete(ctx, testKey))
			_, err = s.Load(ctx, testKey)
			require.ErrorIs(t, err, errs.ErrNotFound)

			require.ErrorIs(t, s.Save(ctx, Key{}, FieldDataset(f)), errs.ErrInvalidKey)
		})
	}
}

func TestStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, s.Save(ctx, testKey, FieldDataset(sampleField(t))), context.Canceled)
			_, err := s.Load(ctx, testKey)
			require.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestFileStoreLogsAndCorruption(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.DebugLevel)

	s, err := NewFileStore(t.TempDir(), WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, testKey, FieldDataset(sampleField(t))))
	require.Equal(t, 1, logs.FilterMessage("saved dataset").Len())

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must be cleaned up")

	path := s.Path(testKey)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)/2] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = s.Load(ctx, testKey)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	require.Equal(t, 1, logs.FilterMessage("corrupt dataset").Len())

	_, err = NewFileStore("")
	require.Error(t, err)
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithCompression(format.CompressionLZ4))
	f := sampleField(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := testKey.With(string(rune('a' + i)))
			if err := s.Save(ctx, key, FieldDataset(f)); err != nil {
				t.Error(err)
				return
			}
			if _, err := s.Load(ctx, key); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 8, s.Len())
}

func TestModesDatasetRoundTrip(t *testing.T) {
	f, err := grid.NewField(grid.Shape{T: 4, Lat: 1, Lon: 3}, []float64{
		1, 2, grid.Missing(),
		2, 1, grid.Missing(),
		4, 0, grid.Missing(),
		3, 5, grid.Missing(),
	})
	require.NoError(t, err)
	m, err := transcode.Flatten(f)
	require.NoError(t, err)
	set, err := eof.Decompose(m, 2)
	require.NoError(t, err)

	ds, err := ModesDataset(set)
	require.NoError(t, err)

	s := NewMemoryStore()
	require.NoError(t, s.Save(context.Background(), testKey.With("eof"), ds))
	loaded, err := s.Load(context.Background(), testKey.With("eof"))
	require.NoError(t, err)

	got, err := loaded.ModeSet()
	require.NoError(t, err)
	require.Equal(t, set.Len(), got.Len())
	require.Equal(t, set.Index, got.Index)
	require.InDelta(t, set.TotalVariance, got.TotalVariance, 0)
	for k := range set.Modes {
		require.InDelta(t, set.Modes[k].Fraction, got.Modes[k].Fraction, 0)
		require.InDelta(t, set.Modes[k].Variance, got.Modes[k].Variance, 0)
		require.InDeltaSlice(t, set.Modes[k].Pattern.Data[:2], got.Modes[k].Pattern.Data[:2], 0)
		require.True(t, grid.IsMissing(got.Modes[k].Pattern.Data[2]))
	}

	_, err = FieldDataset(f).ModeSet()
	require.ErrorIs(t, err, errs.ErrInvalidKind)
}

func TestRegressionDataset(t *testing.T) {
	f, err := grid.NewField(grid.Shape{T: 3, Lat: 1, Lon: 2}, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	res, err := regression.Detrend(f, grid.Series{Values: []float64{0, 1, 2}})
	require.NoError(t, err)

	ds, err := RegressionDataset(res)
	require.NoError(t, err)
	require.Equal(t, format.KindRegression, ds.Kind)

	data, err := Encode(ds)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, grid.Shape{T: 3, Lat: 1, Lon: 2}, got.Field.Shape)
	require.InDeltaSlice(t, res.Slope.Data, got.Field.Slice(1).Data, 1e-12)
}

func TestMemoryStoreHashCollision(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// Claim the ID for a different key, as a colliding hash would.
	require.NoError(t, s.keys.Track("other/key", testKey.ID()))

	err := s.Save(ctx, testKey, FieldDataset(sampleField(t)))
	require.ErrorIs(t, err, errs.ErrHashCollision)
	require.Equal(t, 0, s.Len())

	_, err = s.Load(ctx, testKey)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, s.Delete(ctx, testKey))
	_, owned := s.keys.Name(testKey.ID())
	require.True(t, owned, "deleting a colliding key must not release the other key")
}
