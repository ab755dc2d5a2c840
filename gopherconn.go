// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/bassosimone/safeconn"
)

// ErrConnAlreadyUsed is returned by [*GopherConn.Exchange] when
// the connection has already carried a request.
var ErrConnAlreadyUsed = errors.New("gopher: connection already used")

// GopherConn performs a single Gopher exchange over a connection.
//
// This type owns the underlying connection. The caller is responsible for
// calling Close() when done.
//
// All fields are safe to modify after construction but before first use of
// Exchange(). Fields must not be mutated concurrently with Exchange().
//
// Construct via [*GopherConnFunc].
type GopherConn struct {
	// conn is the owned connection.
	conn net.Conn

	// used becomes true on the first Exchange.
	used atomic.Bool

	// ErrClassifier classifies errors for structured logging.
	ErrClassifier ErrClassifier

	// Logger is the SLogger to use.
	Logger SLogger

	// TimeNow is the function to get the current time.
	TimeNow func() time.Time
}

// Close closes the underlying connection.
func (c *GopherConn) Close() error {
	return c.conn.Close()
}

// Conn returns the underlying [net.Conn].
func (c *GopherConn) Conn() net.Conn {
	return c.conn
}

// Exchange sends req and returns the parsed response.
//
// The request is written as soon as Exchange is called. The response is
// accumulated until the server closes the connection and only then parsed
// with [ParseResponse]: there is no partial delivery. Either the items or
// an error is returned, never both.
//
// Gopher carries one request per connection, hence a second call returns
// [ErrConnAlreadyUsed]. Use [context.WithTimeout] together with
// [*CancelWatchFunc] to bound slow servers.
func (c *GopherConn) Exchange(ctx context.Context, req Request) ([]Item, error) {
	if c.used.Swap(true) {
		return nil, ErrConnAlreadyUsed
	}

	t0 := c.TimeNow()
	deadline, _ := ctx.Deadline()
	c.logExchangeStart(t0, deadline, req)

	data, err := c.exchange(req)
	var items []Item
	if err == nil {
		items = ParseResponse(data)
	}

	c.logExchangeDone(t0, deadline, req, len(data), len(items), err)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c *GopherConn) exchange(req Request) ([]byte, error) {
	if _, err := io.WriteString(c.conn, FormatRequest(req)); err != nil {
		return nil, fmt.Errorf("gopher: sending request: %w", err)
	}
	data, err := io.ReadAll(c.conn)
	if err != nil {
		return nil, fmt.Errorf("gopher: reading response: %w", err)
	}
	return data, nil
}

func (c *GopherConn) logExchangeStart(t0, deadline time.Time, req Request) {
	c.Logger.Info(
		"gopherExchangeStart",
		slog.Time("deadline", deadline),
		slog.String("gopherQuery", req.Query),
		slog.String("gopherRequestKind", req.Kind.String()),
		slog.String("gopherSelector", req.Path),
		slog.String("localAddr", safeconn.LocalAddr(c.conn)),
		slog.String("protocol", safeconn.Network(c.conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(c.conn)),
		slog.Time("t", t0),
	)
}

func (c *GopherConn) logExchangeDone(
	t0, deadline time.Time, req Request, byteCount, itemCount int, err error) {
	c.Logger.Info(
		"gopherExchangeDone",
		slog.Time("deadline", deadline),
		slog.Any("err", err),
		slog.String("errClass", c.ErrClassifier.Classify(err)),
		slog.Int("gopherItemsCount", itemCount),
		slog.String("gopherQuery", req.Query),
		slog.String("gopherRequestKind", req.Kind.String()),
		slog.String("gopherSelector", req.Path),
		slog.Int("ioBytesCount", byteCount),
		slog.String("localAddr", safeconn.LocalAddr(c.conn)),
		slog.String("protocol", safeconn.Network(c.conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(c.conn)),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
}

// GopherConnFunc wraps a [net.Conn] into a [*GopherConn].
//
// This is a [Func] that can be composed into pipelines.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to [Call].
type GopherConnFunc struct {
	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewGopherConnFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use.
	//
	// Set by [NewGopherConnFunc] to the user-provided logger.
	Logger SLogger

	// TimeNow returns the current time.
	//
	// Set by [NewGopherConnFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

// NewGopherConnFunc returns a new [*GopherConnFunc].
//
// The cfg argument contains the shared dependencies.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewGopherConnFunc(cfg *Config, logger SLogger) *GopherConnFunc {
	return &GopherConnFunc{
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

var _ Func[net.Conn, *GopherConn] = &GopherConnFunc{}

// Call wraps conn into a [*GopherConn]. It never fails.
func (op *GopherConnFunc) Call(ctx context.Context, conn net.Conn) (*GopherConn, error) {
	return &GopherConn{
		conn:          conn,
		ErrClassifier: op.ErrClassifier,
		Logger:        op.Logger,
		TimeNow:       op.TimeNow,
	}, nil
}
