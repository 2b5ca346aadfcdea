package regression

import (
	"fmt"
	"runtime"

	"github.com/arloliu/climode/internal/options"
)

// DetrendConfig holds the Detrend settings.
type DetrendConfig struct {
	// Workers bounds the number of latitude rows fitted concurrently.
	Workers int
	// MinSamples is the minimum number of valid (index, value) pairs a cell
	// needs to be fitted.
	MinSamples int
}

func defaultDetrendConfig() DetrendConfig {
	return DetrendConfig{
		Workers:    runtime.GOMAXPROCS(0),
		MinSamples: 2,
	}
}

// DetrendOption is a functional option for DetrendConfig.
type DetrendOption = options.Option[*DetrendConfig]

// WithWorkers sets the number of concurrent workers.
func WithWorkers(n int) DetrendOption {
	return options.New(func(cfg *DetrendConfig) error {
		if n < 1 {
			return fmt.Errorf("invalid worker count %d: must be positive", n)
		}
		cfg.Workers = n

		return nil
	})
}

// WithMinSamples raises the number of valid pairs required per cell.
// Values below 2 are rejected since a line needs two points.
func WithMinSamples(n int) DetrendOption {
	return options.New(func(cfg *DetrendConfig) error {
		if n < 2 {
			return fmt.Errorf("invalid minimum sample count %d: must be at least 2", n)
		}
		cfg.MinSamples = n

		return nil
	})
}
