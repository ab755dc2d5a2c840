// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/bassosimone/safeconn"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
)

// MaxRequestSize is the maximum size in bytes of a request line including its terminator.
const MaxRequestSize = 4096

// ErrRequestTooLarge is returned by [ReadRequestLine] for request
// lines longer than [MaxRequestSize].
var ErrRequestTooLarge = errors.New("gopher: request line too large")

// ReadRequestLine reads a request line from r.
//
// The line extends up to and including the first LF. A client closing
// its side before sending a LF ends the line as well. An empty read
// returns [io.EOF].
//
// Bytes after the LF may be consumed from r and are lost: Gopher
// carries a single request per connection.
func ReadRequestLine(r io.Reader) (string, error) {
	br := bufio.NewReader(io.LimitReader(r, MaxRequestSize+1))
	line, err := br.ReadString('\n')
	switch {
	case len(line) > MaxRequestSize:
		return "", ErrRequestTooLarge
	case err == nil:
		return line, nil
	case errors.Is(err, io.EOF) && line != "":
		return line, nil
	default:
		return "", err
	}
}

// NewServer returns a new [*Server] serving site.
//
// The cfg argument contains the shared dependencies.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewServer(cfg *Config, site *Site, logger SLogger) *Server {
	return &Server{
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		MaxConns:      0,
		Site:          site,
		TimeNow:       cfg.TimeNow,
	}
}

// Server serves a [*Site] to Gopher clients.
//
// Each connection carries exactly one request: the server reads the
// request line, writes the response and closes the connection. Each
// connection is served by its own goroutine and shares nothing but the
// read-only [*Site] with the others.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated once the server is serving.
type Server struct {
	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewServer] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use.
	//
	// Set by [NewServer] to the user-provided logger.
	Logger SLogger

	// MaxConns is the maximum number of connections served at the same
	// time. Zero or negative means no limit.
	//
	// Set by [NewServer] to zero.
	MaxConns int

	// Site is the [*Site] to serve.
	//
	// Set by [NewServer] to the user-provided value.
	Site *Site

	// TimeNow returns the current time.
	//
	// Set by [NewServer] from [Config.TimeNow].
	TimeNow func() time.Time
}

// Serve accepts connections from ln until ctx is done.
//
// When ctx is done, ln is closed and Serve returns nil after every
// in-flight connection has been served. Serve takes ownership of ln.
// Transient Accept failures (e.g., running out of file descriptors)
// are logged and retried after a pause growing from 5ms to 1s. A
// listener closed by someone else ends Serve with an error once the
// in-flight connections are done.
//
// Cancelling ctx also closes in-flight connections.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.MaxConns)
	}
	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()

	t0 := s.TimeNow()
	s.Logger.Info(
		"serveStart",
		slog.String("localAddr", ln.Addr().String()),
		slog.Int("maxConns", s.MaxConns),
		slog.String("protocol", ln.Addr().Network()),
		slog.Time("t", t0),
	)

	var group errgroup.Group
	err := s.acceptLoop(ctx, ln, &group)
	group.Wait()
	if ctx.Err() != nil {
		err = nil
	}

	s.Logger.Info(
		"serveDone",
		slog.Any("err", err),
		slog.String("errClass", s.ErrClassifier.Classify(err)),
		slog.String("localAddr", ln.Addr().String()),
		slog.String("protocol", ln.Addr().Network()),
		slog.Time("t0", t0),
		slog.Time("t", s.TimeNow()),
	)
	return err
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener, group *errgroup.Group) error {
	defer ln.Close()
	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("gopher: accepting connections: %w", err)
			}
			delay = nextAcceptDelay(delay)
			s.Logger.Info(
				"acceptRetry",
				slog.Duration("delay", delay),
				slog.Any("err", err),
				slog.String("errClass", s.ErrClassifier.Classify(err)),
				slog.String("localAddr", ln.Addr().String()),
				slog.String("protocol", ln.Addr().Network()),
				slog.Time("t", s.TimeNow()),
			)
			if !sleepContext(ctx, delay) {
				return fmt.Errorf("gopher: accepting connections: %w", ctx.Err())
			}
			continue
		}
		delay = 0
		group.Go(func() error {
			// failures are already logged by ServeConn
			_ = s.ServeConn(ctx, conn)
			return nil
		})
	}
}

const (
	// minAcceptDelay is the first pause after a failed Accept.
	minAcceptDelay = 5 * time.Millisecond

	// maxAcceptDelay caps the pause after repeated Accept failures.
	maxAcceptDelay = time.Second
)

// nextAcceptDelay doubles delay within [minAcceptDelay, maxAcceptDelay].
func nextAcceptDelay(delay time.Duration) time.Duration {
	if delay <= 0 {
		return minAcceptDelay
	}
	return min(2*delay, maxAcceptDelay)
}

// sleepContext waits for d and returns false if ctx is done first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// ServeConn serves the single request carried by conn and closes it.
//
// Protocol failures (missing files, disabled search, ...) are answered
// with [Error] lines and are not errors. The returned error reports
// transport failures only (e.g., [ErrRequestTooLarge] or a peer reset),
// in which case the connection is closed without a complete response.
//
// Cancelling ctx closes conn and interrupts any blocked I/O.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) error {
	spanID := NewSpanID()
	logger := &spanLogger{SLogger: s.Logger, spanID: spanID}
	wrap := Compose2[net.Conn, net.Conn, net.Conn](
		&ObserveConnFunc{ErrClassifier: s.ErrClassifier, Logger: logger, TimeNow: s.TimeNow},
		NewCancelWatchFunc(),
	)
	conn, _ = wrap.Call(ctx, conn) // never fails
	defer conn.Close()

	rc := &requestContext{
		localAddr:  safeconn.LocalAddr(conn),
		protocol:   safeconn.Network(conn),
		remoteAddr: safeconn.RemoteAddr(conn),
		t0:         s.TimeNow(),
	}
	rc.logStart(logger)

	err := s.serve(conn, rc)
	rc.logDone(logger, s.ErrClassifier, s.TimeNow(), err)
	return err
}

func (s *Server) serve(conn net.Conn, rc *requestContext) error {
	raw, err := ReadRequestLine(conn)
	if err != nil {
		return fmt.Errorf("gopher: reading request: %w", err)
	}
	rc.req = s.Site.Classify(raw)

	resp := s.Site.Respond(rc.req)
	rc.respKind = resp.Kind.String()

	count, err := conn.Write(resp.Body)
	rc.count = count
	if err != nil {
		return fmt.Errorf("gopher: writing response: %w", err)
	}
	return nil
}

// requestContext accumulates what [*Server.ServeConn] logs about a request.
type requestContext struct {
	count      int
	localAddr  string
	protocol   string
	remoteAddr string
	req        Request
	respKind   string
	t0         time.Time
}

func (rc *requestContext) logStart(logger SLogger) {
	logger.Info(
		"gopherRequestStart",
		slog.String("localAddr", rc.localAddr),
		slog.String("protocol", rc.protocol),
		slog.String("remoteAddr", rc.remoteAddr),
		slog.Time("t", rc.t0),
	)
}

func (rc *requestContext) logDone(logger SLogger, classifier ErrClassifier, t time.Time, err error) {
	logger.Info(
		"gopherRequestDone",
		slog.Any("err", err),
		slog.String("errClass", classifier.Classify(err)),
		slog.String("gopherQuery", rc.req.Query),
		slog.String("gopherRequestKind", rc.req.Kind.String()),
		slog.String("gopherResponseKind", rc.respKind),
		slog.String("gopherSelector", rc.req.Path),
		slog.Int("ioBytesCount", rc.count),
		slog.String("localAddr", rc.localAddr),
		slog.String("protocol", rc.protocol),
		slog.String("remoteAddr", rc.remoteAddr),
		slog.Time("t0", rc.t0),
		slog.Time("t", t),
	)
}

// spanLogger adds the spanID attribute to every event.
type spanLogger struct {
	SLogger
	spanID string
}

// Debug implements [SLogger].
func (l *spanLogger) Debug(msg string, args ...any) {
	l.SLogger.Debug(msg, append(args, slog.String("spanID", l.spanID))...)
}

// Info implements [SLogger].
func (l *spanLogger) Info(msg string, args ...any) {
	l.SLogger.Info(msg, append(args, slog.String("spanID", l.spanID))...)
}
