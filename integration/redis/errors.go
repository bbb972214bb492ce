package redis

import "errors"

var (
	// ErrClientNil is returned when connecting without a Redis client.
	ErrClientNil = errors.New("redis client is nil")

	// ErrEmptyLink is returned when the link name is empty.
	ErrEmptyLink = errors.New("link name is empty")

	// ErrSubscribeFailed is returned when the inbound channel
	// subscription cannot be confirmed.
	ErrSubscribeFailed = errors.New("redis subscribe failed")
)
