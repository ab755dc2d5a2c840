// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"net"
	"time"
)

// Config holds the dependencies shared by the client and server primitives.
//
// Pass this to constructor functions to pre-wire dependencies.
// All fields have sensible defaults set by [NewConfig].
type Config struct {
	// Dialer is used by [*ConnectFunc] to reach Gopher servers.
	//
	// Set by [NewConfig] to [*net.Dialer].
	Dialer Dialer

	// ErrClassifier maps errors to short labels in structured logs.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// ListenConfig is used by [*ListenFunc] to bind server sockets.
	//
	// Set by [NewConfig] to [*net.ListenConfig].
	ListenConfig ListenConfig

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Dialer:        &net.Dialer{},
		ErrClassifier: DefaultErrClassifier,
		ListenConfig:  &net.ListenConfig{},
		TimeNow:       time.Now,
	}
}
