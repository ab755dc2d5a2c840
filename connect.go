// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/bassosimone/safeconn"
)

// Dialer abstracts the [*net.Dialer] behavior.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// NewConnectFunc returns a new [*ConnectFunc] dialing TCP.
//
// The cfg argument contains the shared dependencies.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewConnectFunc(cfg *Config, logger SLogger) *ConnectFunc {
	return &ConnectFunc{
		Dialer:        cfg.Dialer,
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		Network:       "tcp",
		TimeNow:       cfg.TimeNow,
	}
}

// ConnectFunc dials the "host:port" address of a Gopher server.
//
// Returns either a valid [net.Conn] or an error, never both.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to [Call].
type ConnectFunc struct {
	// Dialer is the [Dialer] to use.
	//
	// Set by [NewConnectFunc] from [Config.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConnectFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use.
	//
	// Set by [NewConnectFunc] to the user-provided logger.
	Logger SLogger

	// Network is the network to dial.
	//
	// Set by [NewConnectFunc] to "tcp".
	Network string

	// TimeNow returns the current time.
	//
	// Set by [NewConnectFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[string, net.Conn] = &ConnectFunc{}

// Call dials address, which is usually produced by [NewEndpointFunc].
func (op *ConnectFunc) Call(ctx context.Context, address string) (net.Conn, error) {
	t0 := op.TimeNow()
	deadline, _ := ctx.Deadline()
	op.Logger.Info(
		"connectStart",
		slog.Time("deadline", deadline),
		slog.String("protocol", op.Network),
		slog.String("remoteAddr", address),
		slog.Time("t", t0),
	)

	conn, err := op.Dialer.DialContext(ctx, op.Network, address)

	op.Logger.Info(
		"connectDone",
		slog.Time("deadline", deadline),
		slog.Any("err", err),
		slog.String("errClass", op.ErrClassifier.Classify(err)),
		slog.String("localAddr", safeconn.LocalAddr(conn)),
		slog.String("protocol", op.Network),
		slog.String("remoteAddr", address),
		slog.Time("t0", t0),
		slog.Time("t", op.TimeNow()),
	)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
