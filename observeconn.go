// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/bassosimone/safeconn"
)

// NewObserveConnFunc returns a new [*ObserveConnFunc].
//
// The cfg argument contains the shared dependencies.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewObserveConnFunc(cfg *Config, logger SLogger) *ObserveConnFunc {
	return &ObserveConnFunc{
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

// ObserveConnFunc wraps a [net.Conn] to log its reads, writes and close.
//
// Both the client pipeline and the [*Server] use it, so that a Gopher
// exchange can be followed byte by byte on either side.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to [Call].
type ObserveConnFunc struct {
	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewObserveConnFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use.
	//
	// Set by [NewObserveConnFunc] to the user-provided logger.
	Logger SLogger

	// TimeNow returns the current time.
	//
	// Set by [NewObserveConnFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[net.Conn, net.Conn] = &ObserveConnFunc{}

// Call wraps conn. It never fails.
func (op *ObserveConnFunc) Call(ctx context.Context, conn net.Conn) (net.Conn, error) {
	observed := &observedConn{
		Conn: conn,
		op:   op,
		endpoint: []slog.Attr{
			slog.String("localAddr", safeconn.LocalAddr(conn)),
			slog.String("protocol", safeconn.Network(conn)),
			slog.String("remoteAddr", safeconn.RemoteAddr(conn)),
		},
	}
	return observed, nil
}

// observedConn is the [net.Conn] returned by [*ObserveConnFunc].
//
// Deadline setters are inherited from the embedded conn.
type observedConn struct {
	net.Conn
	closeonce sync.Once
	endpoint  []slog.Attr
	op        *ObserveConnFunc
}

// attrs returns the endpoint attributes followed by extra.
func (c *observedConn) attrs(extra ...slog.Attr) []any {
	out := make([]any, 0, len(c.endpoint)+len(extra))
	for _, attr := range c.endpoint {
		out = append(out, attr)
	}
	for _, attr := range extra {
		out = append(out, attr)
	}
	return out
}

// doneAttrs returns the attributes of a *Done event.
func (c *observedConn) doneAttrs(t0 time.Time, err error, extra ...slog.Attr) []any {
	extra = append(extra,
		slog.Any("err", err),
		slog.String("errClass", c.op.ErrClassifier.Classify(err)),
		slog.Time("t0", t0),
		slog.Time("t", c.op.TimeNow()),
	)
	return c.attrs(extra...)
}

// Read implements [net.Conn].
func (c *observedConn) Read(buf []byte) (int, error) {
	t0 := c.op.TimeNow()
	c.op.Logger.Debug("readStart", c.attrs(slog.Int("ioBufferSize", len(buf)), slog.Time("t", t0))...)
	count, err := c.Conn.Read(buf)
	c.op.Logger.Debug("readDone", c.doneAttrs(t0, err, slog.Int("ioBytesCount", count))...)
	return count, err
}

// Write implements [net.Conn].
func (c *observedConn) Write(data []byte) (int, error) {
	t0 := c.op.TimeNow()
	c.op.Logger.Debug("writeStart", c.attrs(slog.Int("ioBufferSize", len(data)), slog.Time("t", t0))...)
	count, err := c.Conn.Write(data)
	c.op.Logger.Debug("writeDone", c.doneAttrs(t0, err, slog.Int("ioBytesCount", count))...)
	return count, err
}

// Close implements [net.Conn].
//
// Only the first call closes the underlying conn; later calls
// return [net.ErrClosed] like the standard library does.
func (c *observedConn) Close() error {
	err := net.ErrClosed
	c.closeonce.Do(func() {
		t0 := c.op.TimeNow()
		c.op.Logger.Info("closeStart", c.attrs(slog.Time("t", t0))...)
		err = c.Conn.Close()
		c.op.Logger.Info("closeDone", c.doneAttrs(t0, err)...)
	})
	return err
}
