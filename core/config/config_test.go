package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bridgekit/core/config"
)

func TestLoad(t *testing.T) {
	t.Run("parses environment variables", func(t *testing.T) {
		type parseConfig struct {
			Limit int    `env:"TEST_BRIDGE_LIMIT" envDefault:"4"`
			Name  string `env:"TEST_BRIDGE_NAME,required"`
		}

		t.Setenv("TEST_BRIDGE_LIMIT", "8")
		t.Setenv("TEST_BRIDGE_NAME", "workers")

		var cfg parseConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 8, cfg.Limit)
		assert.Equal(t, "workers", cfg.Name)
	})

	t.Run("applies defaults", func(t *testing.T) {
		type defaultConfig struct {
			Limit int `env:"TEST_BRIDGE_UNSET_LIMIT" envDefault:"4"`
		}

		var cfg defaultConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 4, cfg.Limit)
	})

	t.Run("caches per type", func(t *testing.T) {
		type cachedConfig struct {
			Value string `env:"TEST_BRIDGE_CACHED" envDefault:"first"`
		}

		t.Setenv("TEST_BRIDGE_CACHED", "first")
		var first cachedConfig
		require.NoError(t, config.Load(&first))
		require.Equal(t, "first", first.Value)

		// Environment changes after the first load are not observed.
		t.Setenv("TEST_BRIDGE_CACHED", "second")
		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "first", second.Value)
	})

	t.Run("reports missing required variables", func(t *testing.T) {
		type requiredConfig struct {
			Token string `env:"TEST_BRIDGE_REQUIRED_TOKEN,required"`
		}

		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParseConfig)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		type mustConfig struct {
			Token string `env:"TEST_BRIDGE_MUST_TOKEN,required"`
		}

		assert.Panics(t, func() {
			var cfg mustConfig
			config.MustLoad(&cfg)
		})
	})
}
