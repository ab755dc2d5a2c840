// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

// SLogger abstracts the [*slog.Logger] behavior.
//
// This package uses two log levels:
//   - Info for lifecycle and protocol events (listen, accept, connect,
//     close, Gopher request and Gopher exchange)
//   - Debug for per-I/O events (read, write)
//
// The [*slog.Logger] type satisfies this interface.
type SLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// DefaultSLogger returns the [SLogger] used when none is configured.
//
// The returned logger discards everything, so that a library never writes
// to stdout or stderr unless asked to. Pass a [*slog.Logger] to see logs.
func DefaultSLogger() SLogger {
	return discardSLogger{}
}

type discardSLogger struct{}

var _ SLogger = discardSLogger{}

// Debug implements [SLogger].
func (discardSLogger) Debug(msg string, args ...any) {}

// Info implements [SLogger].
func (discardSLogger) Info(msg string, args ...any) {}
