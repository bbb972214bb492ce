package ws

import "errors"

var (
	// ErrDialFailed is returned when the websocket connection cannot be
	// established.
	ErrDialFailed = errors.New("websocket dial failed")

	// ErrUpgradeFailed is returned when the HTTP request cannot be
	// upgraded to a websocket.
	ErrUpgradeFailed = errors.New("websocket upgrade failed")
)
