package config

import "errors"

// ErrParseConfig is returned when environment variables cannot be
// parsed into the target struct.
var ErrParseConfig = errors.New("failed to parse config from environment")
