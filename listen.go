// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// ListenConfig abstracts the [*net.ListenConfig] behavior.
type ListenConfig interface {
	Listen(ctx context.Context, network, address string) (net.Listener, error)
}

// NewListenFunc returns a new [*ListenFunc] listening on TCP.
//
// The cfg argument contains the shared dependencies.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewListenFunc(cfg *Config, logger SLogger) *ListenFunc {
	return &ListenFunc{
		ErrClassifier: cfg.ErrClassifier,
		ListenConfig:  cfg.ListenConfig,
		Logger:        logger,
		Network:       "tcp",
		TimeNow:       cfg.TimeNow,
	}
}

// ListenFunc binds the "host:port" address a [*Server] accepts from.
//
// Returns either a valid [net.Listener] or an error, never both.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to [Call].
type ListenFunc struct {
	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewListenFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// ListenConfig is the [ListenConfig] to use.
	//
	// Set by [NewListenFunc] from [Config.ListenConfig].
	ListenConfig ListenConfig

	// Logger is the [SLogger] to use.
	//
	// Set by [NewListenFunc] to the user-provided logger.
	Logger SLogger

	// Network is the network to listen on.
	//
	// Set by [NewListenFunc] to "tcp".
	Network string

	// TimeNow returns the current time.
	//
	// Set by [NewListenFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[string, net.Listener] = &ListenFunc{}

// Call listens on address.
func (op *ListenFunc) Call(ctx context.Context, address string) (net.Listener, error) {
	t0 := op.TimeNow()
	op.Logger.Info(
		"listenStart",
		slog.String("localAddr", address),
		slog.String("protocol", op.Network),
		slog.Time("t", t0),
	)

	ln, err := op.ListenConfig.Listen(ctx, op.Network, address)

	boundAddr := ""
	if ln != nil {
		boundAddr = ln.Addr().String()
	}
	op.Logger.Info(
		"listenDone",
		slog.Any("err", err),
		slog.String("errClass", op.ErrClassifier.Classify(err)),
		slog.String("localAddr", boundAddr),
		slog.String("protocol", op.Network),
		slog.Time("t0", t0),
		slog.Time("t", op.TimeNow()),
	)
	if err != nil {
		return nil, err
	}
	return ln, nil
}
