package projection

import (
	"fmt"
	"runtime"

	"github.com/arloliu/climode/internal/options"
)

type config struct {
	workers int
}

func defaultConfig() config {
	return config{workers: runtime.GOMAXPROCS(0)}
}

// Option configures ProjectSeries and ProjectModes.
type Option = options.Option[*config]

// WithWorkers bounds the number of time steps projected concurrently.
func WithWorkers(n int) Option {
	return options.New(func(cfg *config) error {
		if n < 1 {
			return fmt.Errorf("invalid worker count %d: must be positive", n)
		}
		cfg.workers = n

		return nil
	})
}
