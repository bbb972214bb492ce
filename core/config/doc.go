// Package config provides type-safe environment variable loading with
// caching using Go generics. Each configuration type is loaded once and
// cached for subsequent calls.
//
// The package automatically loads .env files on first use and parses
// environment variables into struct fields via caarlos0/env.
//
// Basic usage:
//
//	import (
//		"github.com/dmitrymomot/bridgekit/core/config"
//		"github.com/dmitrymomot/bridgekit/core/pool"
//	)
//
//	var cfg pool.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure (useful for startup)
//	config.MustLoad(&cfg)
//
// Each configuration type is loaded only once per process; later Load
// calls for the same type return the cached value. Different types are
// cached independently.
package config
