// Package logger provides slog attribute helpers for the bridge's
// diagnostic logging.
//
// Helpers use the empty-Attr pattern for nil safety, so call sites never
// need explicit nil checks:
//
//	log.Error("call failed",
//		logger.Component("pool"),
//		logger.RequestID(requestID),
//		logger.Error(err),
//	)
//
// Every long-lived component of the module accepts a *slog.Logger via a
// WithLogger option and defaults to a no-op logger.
package logger
