// SPDX-License-Identifier: GPL-3.0-or-later

// Package gopher implements the Gopher protocol: a server mapping a
// directory tree to Gopher menus and a client parsing server responses.
//
// # Protocol Engine
//
// The protocol engine is made of pure functions and methods on the
// read-only [*Site] describing what a server serves:
//
//   - [ClassifyRequest] and [ClassifyRequestLenient]: turn a request line
//     into a [Request] (root menu, selector or search)
//   - [SanitizeSelector]: neutralize path traversal in selectors
//   - [ParseGophermap]: parse the gophermap files overriding directory menus
//   - [*Site.Menu], [*Site.Search] and [*Site.Respond]: build responses
//   - [ParseResponse]: parse a complete server response into [Item] values
//
// Failures to serve a request never surface as Go errors: they become
// [Error] lines in the response, confined to the request that caused them.
//
// # Server
//
// [*Server] accepts connections and serves exactly one request per
// connection, each in its own goroutine. Build a [*Site] with [NewSite]
// or from YAML [Settings], then call [*Server.Serve] with a listener
// (see [ListenFunc]).
//
// # Client
//
// The client is a pipeline of [Func] primitives chained with [Compose5]:
//
//   - [NewEndpointFunc]: provides the "host:port" address
//   - [ConnectFunc]: dials the server
//   - [ObserveConnFunc]: logs reads, writes and close
//   - [CancelWatchFunc]: closes the connection when the context is done
//   - [GopherConnFunc]: wraps the connection into a [*GopherConn]
//
// [*GopherConn.Exchange] sends the request, waits for the server to close
// the connection and parses the response. Gopher has no timeouts: bound
// the exchange with [context.WithTimeout], which [CancelWatchFunc] binds
// to the connection.
//
// # Observability
//
// Primitives log through [SLogger], which [*slog.Logger] satisfies. By
// default, logs are discarded. Span events (*Start/*Done pairs) use
// [slog.LevelInfo] and per-I/O events use [slog.LevelDebug]. All events
// carry localAddr, remoteAddr, protocol and t; *Done events also carry t0,
// err and errClass, where errClass comes from the [ErrClassifier].
//
// The server opens a span per connection (see [NewSpanID]) and tags all
// the events of that connection with its spanID.
package gopher
