// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"context"
	"net"
)

// NewCancelWatchFunc returns a new [*CancelWatchFunc].
func NewCancelWatchFunc() *CancelWatchFunc {
	return &CancelWatchFunc{}
}

// CancelWatchFunc binds the lifetime of a [net.Conn] to a context.
//
// Gopher has no timeouts of its own: a client waits for the server to
// close and a server waits for the request line. Binding the conn to a
// context lets callers bound both with [context.WithTimeout] and lets
// SIGINT (via [signal.NotifyContext]) interrupt blocked I/O at once.
//
// When the context is done, the conn is closed. Closing the returned
// conn unregisters the watcher and closes the underlying conn, so no
// goroutine outlives the conn.
type CancelWatchFunc struct{}

var _ Func[net.Conn, net.Conn] = &CancelWatchFunc{}

// Call wraps conn. It never fails.
func (op *CancelWatchFunc) Call(ctx context.Context, conn net.Conn) (net.Conn, error) {
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	return &cancelWatchedConn{Conn: conn, stop: stop}, nil
}

type cancelWatchedConn struct {
	net.Conn
	stop func() bool
}

// Close unregisters the context watcher and closes the underlying conn.
func (c *cancelWatchedConn) Close() error {
	c.stop()
	return c.Conn.Close()
}
