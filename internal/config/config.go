// Package config loads the climode command configuration from a YAML file,
// an optional .env file and CLIMODE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/climode/format"
	"github.com/arloliu/climode/grid"
)

// Environment variables that override the file settings.
const (
	EnvStoreDir    = "CLIMODE_STORE_DIR"
	EnvCompression = "CLIMODE_COMPRESSION"
	EnvModes       = "CLIMODE_MODES"
	EnvWorkers     = "CLIMODE_WORKERS"
)

// Config is the root configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// StoreConfig selects where and how datasets are persisted.
type StoreConfig struct {
	Dir         string `yaml:"dir"`
	Compression string `yaml:"compression"`
	BigEndian   bool   `yaml:"big_endian"`
}

// AnalysisConfig holds the defaults for the analysis commands.
type AnalysisConfig struct {
	Modes        int          `yaml:"modes"`
	Workers      int          `yaml:"workers"`
	StepsPerYear int          `yaml:"steps_per_year"`
	Climatology  PeriodConfig `yaml:"climatology"`
	Region       RegionConfig `yaml:"region"`
	LatWeights   bool         `yaml:"lat_weights"`
}

// PeriodConfig is an inclusive range of time coordinates.
type PeriodConfig struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
}

// RegionConfig is a lon/lat bounding box in degrees.
type RegionConfig struct {
	LonW float64 `yaml:"lon_w"`
	LonE float64 `yaml:"lon_e"`
	LatS float64 `yaml:"lat_s"`
	LatN float64 `yaml:"lat_n"`
}

// DefaultConfig returns the settings of the North Pacific analysis: ten
// modes of annual means against a 1975-2005 climatology.
func DefaultConfig() *Config {
	np := grid.NorthPacific

	return &Config{
		Store: StoreConfig{
			Dir:         "data",
			Compression: format.CompressionZstd.String(),
		},
		Analysis: AnalysisConfig{
			Modes:        10,
			StepsPerYear: 12,
			Climatology:  PeriodConfig{From: 1975, To: 2005},
			Region:       RegionConfig{LonW: np.LonW, LonE: np.LonE, LatS: np.LatS, LatN: np.LatN},
		},
	}
}

// Load reads path, falling back to the defaults when the file does not
// exist, then applies the .env file of the working directory and the
// CLIMODE_* environment variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// Variables already set in the environment win over .env.
	_ = godotenv.Load(".env")

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() error {
	if dir := strings.TrimSpace(os.Getenv(EnvStoreDir)); dir != "" {
		c.Store.Dir = dir
	}
	if ct := strings.TrimSpace(os.Getenv(EnvCompression)); ct != "" {
		c.Store.Compression = ct
	}

	for _, v := range []struct {
		name string
		dst  *int
	}{
		{EnvModes, &c.Analysis.Modes},
		{EnvWorkers, &c.Analysis.Workers},
	} {
		s := strings.TrimSpace(os.Getenv(v.name))
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", v.name, err)
		}
		*v.dst = n
	}

	return nil
}

// Validate checks the settings that the commands cannot recover from.
func (c *Config) Validate() error {
	if c.Store.Dir == "" {
		return fmt.Errorf("store directory not configured (set store.dir or %s)", EnvStoreDir)
	}
	if _, ok := format.ParseCompression(c.Store.Compression); !ok {
		return fmt.Errorf("invalid compression: %q (valid: none, zstd, s2, lz4)", c.Store.Compression)
	}
	if c.Analysis.Modes < 1 {
		return fmt.Errorf("invalid mode count: %d", c.Analysis.Modes)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d", c.Analysis.Workers)
	}
	if c.Analysis.StepsPerYear < 1 {
		return fmt.Errorf("invalid steps per year: %d", c.Analysis.StepsPerYear)
	}
	if c.Analysis.Climatology.From > c.Analysis.Climatology.To {
		return fmt.Errorf("invalid climatology period: %g > %g", c.Analysis.Climatology.From, c.Analysis.Climatology.To)
	}

	return nil
}

// Compression returns the parsed store compression.
func (c *Config) Compression() format.CompressionType {
	ct, _ := format.ParseCompression(c.Store.Compression)
	return ct
}

// Region returns the analysis sub-domain.
func (c *Config) Region() grid.Region {
	r := c.Analysis.Region
	return grid.Region{LonW: r.LonW, LonE: r.LonE, LatS: r.LatS, LatN: r.LatN}
}
