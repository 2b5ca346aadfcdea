package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Workers int
	Name    string
}

func withWorkers(n int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if n < 1 {
			return errors.New("workers must be positive")
		}
		c.Workers = n

		return nil
	})
}

func withName(name string) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.Name = name
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withWorkers(4), withName("a"), withName("b"))
		require.NoError(t, err)
		require.Equal(t, 4, cfg.Workers)
		require.Equal(t, "b", cfg.Name)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withName("a"), withWorkers(0), withName("b"))
		require.Error(t, err)
		require.Equal(t, "a", cfg.Name)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		require.NoError(t, Apply(cfg, nil, withWorkers(2)))
		require.Equal(t, 2, cfg.Workers)
	})
}
