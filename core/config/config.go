package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cache      sync.Map // reflect.Type -> *T
	dotenvOnce sync.Once
)

// Load parses environment variables into cfg. The first load of each
// type hits the environment; subsequent loads return the cached value.
// A .env file in the working directory is applied once per process,
// without overriding variables already set.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load() // missing .env is not an error
	})

	t := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(t); ok {
		*cfg = *cached.(*T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrParseConfig, err)
	}

	loaded := *cfg
	actual, _ := cache.LoadOrStore(t, &loaded)
	*cfg = *actual.(*T)
	return nil
}

// MustLoad is Load that panics on failure.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
