package pool

import "time"

// Config holds pool settings loadable from the environment, e.g. via
// core/config:
//
//	var cfg pool.Config
//	config.MustLoad(&cfg)
//	p, err := pool.NewFromConfig(cfg, builder)
type Config struct {
	// Limit is the number of worker slots.
	Limit int `env:"BRIDGE_POOL_LIMIT" envDefault:"4"`

	// HandshakeTimeout bounds the wait for a worker's ready sentinel;
	// zero disables the bound.
	HandshakeTimeout time.Duration `env:"BRIDGE_HANDSHAKE_TIMEOUT" envDefault:"0"`
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.Limit < 1 {
		return ErrInvalidLimit
	}
	return nil
}
