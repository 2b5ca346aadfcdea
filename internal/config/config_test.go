package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/climode/format"
	"github.com/arloliu/climode/grid"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvStoreDir, EnvCompression, EnvModes, EnvWorkers} {
		t.Setenv(name, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.Equal(t, format.CompressionZstd, cfg.Compression())
	require.Equal(t, grid.NorthPacific, cfg.Region())
	require.Equal(t, 10, cfg.Analysis.Modes)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "climode.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  dir: /tmp/fields
  compression: lz4
analysis:
  modes: 3
  region:
    lon_w: 0
    lon_e: 360
    lat_s: -90
    lat_n: 90
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/fields", cfg.Store.Dir)
	require.Equal(t, format.CompressionLZ4, cfg.Compression())
	require.Equal(t, 3, cfg.Analysis.Modes)
	require.Equal(t, 12, cfg.Analysis.StepsPerYear, "unset keys keep their defaults")
	require.Equal(t, grid.Region{LonW: 0, LonE: 360, LatS: -90, LatN: 90}, cfg.Region())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvStoreDir, "/scratch")
	t.Setenv(EnvCompression, "s2")
	t.Setenv(EnvModes, "4")
	t.Setenv(EnvWorkers, "2")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/scratch", cfg.Store.Dir)
	require.Equal(t, format.CompressionS2, cfg.Compression())
	require.Equal(t, 4, cfg.Analysis.Modes)
	require.Equal(t, 2, cfg.Analysis.Workers)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv(EnvModes))
	require.NoError(t, os.WriteFile(".env", []byte(EnvModes+"=7\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Analysis.Modes)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "bad modes env", env: map[string]string{EnvModes: "ten"}},
		{name: "zero modes", env: map[string]string{EnvModes: "0"}},
		{name: "negative workers", env: map[string]string{EnvWorkers: "-1"}},
		{name: "unknown compression", env: map[string]string{EnvCompression: "gzip"}},
		{name: "bad yaml", file: "store: [unclosed"},
		{name: "reversed period", file: "analysis:\n  climatology:\n    from: 2005\n    to: 1975\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "climode.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o600))
			}

			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	clearEnv(t)

	cfg := DefaultConfig()
	cfg.Analysis.Modes = 5
	cfg.Store.BigEndian = true

	path := filepath.Join(t.TempDir(), "nested", "climode.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
