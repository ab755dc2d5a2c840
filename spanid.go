// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewSpanID returns a UUIDv7 identifying a span.
//
// The server opens a span for each accepted connection, so that the
// spanID attribute ties together all the log events of one request.
//
// This function panics if the system random number generator fails.
func NewSpanID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}
