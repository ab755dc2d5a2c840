// SPDX-License-Identifier: GPL-3.0-or-later

package gopher_test

import (
	"context"
	"fmt"
	"net"
	"testing/fstest"
	"time"

	"github.com/bassosimone/gopher"
	"github.com/bassosimone/runtimex"
)

// This example serves an in-memory tree on a loopback port and fetches
// its root menu using a client pipeline.
func Example_serveAndFetch() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Describe what to serve. The advertised host and port appear in menus.
	fsys := fstest.MapFS{
		"about.txt":         {Data: []byte("A tiny gopherhole.\n")},
		"phlog/first.txt":   {Data: []byte("Hello, gopherspace!\n")},
		"images/gopher.png": {Data: []byte{0x89, 'P', 'N', 'G'}},
	}
	site := gopher.NewSite(fsys, "gopher.example.com", 70)
	site.SearchEnabled = false

	// Start the server.
	cfg := gopher.NewConfig()
	ln := runtimex.PanicOnError1(gopher.NewListenFunc(cfg, gopher.DefaultSLogger()).Call(ctx, "127.0.0.1:0"))
	srv := gopher.NewServer(cfg, site, gopher.DefaultSLogger())
	srvctx, stop := context.WithCancel(ctx)
	served := make(chan error, 1)
	go func() { served <- srv.Serve(srvctx, ln) }()

	// Create the client pipeline.
	logger := gopher.DefaultSLogger()
	addr := ln.Addr().(*net.TCPAddr)
	pipeline := gopher.Compose5(
		gopher.NewEndpointFunc(addr.IP.String(), addr.Port),
		gopher.NewConnectFunc(cfg, logger),
		gopher.NewObserveConnFunc(cfg, logger),
		gopher.NewCancelWatchFunc(),
		gopher.NewGopherConnFunc(cfg, logger),
	)
	conn := runtimex.PanicOnError1(pipeline.Call(ctx, gopher.Unit{}))
	defer conn.Close()

	// Fetch the root menu and print the entries pointing somewhere.
	items := runtimex.PanicOnError1(conn.Exchange(ctx, gopher.Request{Kind: gopher.RequestEmpty}))
	for _, item := range items {
		if item.Type != gopher.Info {
			fmt.Printf("%-9s %-8s %s %s:%d\n", item.Type, item.Message, item.Selector, item.Host, item.Port)
		}
	}

	// Shut down the server.
	stop()
	runtimex.Assert(<-served == nil)

	// Output:
	// text      about.txt /about.txt gopher.example.com:70
	// directory images   /images gopher.example.com:70
	// directory phlog    /phlog gopher.example.com:70
}

// This example parses a raw server response into items.
func ExampleParseResponse() {
	response := "iWelcome!\t\terror.host\t1\r\n" +
		"1Phlog\t/phlog\tgopher.example.com\t70\r\n" +
		"0About\t/about.txt\tgopher.example.com\t70\r\n"

	for _, item := range gopher.ParseResponse([]byte(response)) {
		fmt.Printf("%s %q %q\n", item.Type, item.Message, item.Selector)
	}

	// Output:
	// info "Welcome!" ""
	// directory "Phlog" "/phlog"
	// text "About" "/about.txt"
}

// This example shows how selectors are sanitized before being resolved.
func ExampleSanitizeSelector() {
	for _, selector := range []string{"/docs/notes.txt", "/../../etc/passwd", "//phlog//first.txt"} {
		fmt.Println(gopher.SanitizeSelector(selector))
	}

	// Output:
	// docs/notes.txt
	// etc/passwd
	// phlog/first.txt
}
