// SPDX-License-Identifier: GPL-3.0-or-later

// Command gopher fetches a resource from a Gopher server.
//
// Usage:
//
//	gopher [flags] <host> [selector]
//
// Without a selector, gopher fetches the root menu. With --query, gopher
// sends a search request to the given selector (default "/search").
// Each line of the response is printed as tab-separated type, message,
// selector, host and port. Use --raw to print the response verbatim.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bassosimone/gopher"
	"github.com/spf13/cobra"
)

func main() {
	if err := newCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// options contains the values bound to the command line flags.
type options struct {
	cfg     *gopher.Config
	port    int
	query   string
	raw     bool
	timeout time.Duration
	verbose bool
}

func newCommand() *cobra.Command {
	return newCommandWithOptions(&options{cfg: gopher.NewConfig()})
}

func newCommandWithOptions(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gopher <host> [selector]",
		Short:        "fetch a resource from a Gopher server",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			host, selector := args[0], ""
			if len(args) > 1 {
				selector = args[1]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, opts.timeout)
			defer cancel()

			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
			req := newRequest(selector, opts.query)
			items, err := fetch(ctx, opts.cfg, logger, host, opts.port, req)
			if err != nil {
				return err
			}
			return printItems(cmd.OutOrStdout(), items, opts.raw)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.port, "port", "p", gopher.DefaultPort, "server port")
	flags.StringVarP(&opts.query, "query", "q", "", "send a search request with this query")
	flags.BoolVar(&opts.raw, "raw", false, "print the response verbatim")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "give up after this time")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log the exchange to stderr")

	return cmd
}

// newRequest returns the request for the selector and query flags.
func newRequest(selector, query string) gopher.Request {
	switch {
	case query != "":
		if selector == "" {
			selector = "/search"
		}
		return gopher.NewSearchRequest(selector, query)
	case selector == "":
		return gopher.Request{Kind: gopher.RequestEmpty}
	default:
		return gopher.NewSelectorRequest(selector)
	}
}

// newLogger returns the logger writing to w.
//
// Without verbose, only errors would be interesting and the library
// returns them, so nothing is logged.
func newLogger(w io.Writer, verbose bool) gopher.SLogger {
	if !verbose {
		return gopher.DefaultSLogger()
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// fetch performs a single exchange with the server at host and port.
func fetch(ctx context.Context, cfg *gopher.Config,
	logger gopher.SLogger, host string, port int, req gopher.Request) ([]gopher.Item, error) {
	pipeline := gopher.Compose5(
		gopher.NewEndpointFunc(host, port),
		gopher.NewConnectFunc(cfg, logger),
		gopher.NewObserveConnFunc(cfg, logger),
		gopher.NewCancelWatchFunc(),
		gopher.NewGopherConnFunc(cfg, logger),
	)
	gc, err := pipeline.Call(ctx, gopher.Unit{})
	if err != nil {
		return nil, err
	}
	defer gc.Close()
	return gc.Exchange(ctx, req)
}

// printItems writes items to w, one per line.
func printItems(w io.Writer, items []gopher.Item, raw bool) error {
	if raw {
		if len(items) <= 0 {
			return nil
		}
		_, err := w.Write(items[0].RawPayload)
		return err
	}
	for _, item := range items {
		if !item.Valid {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
			continue
		}
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			item.Type, item.Message, item.Selector, item.Host, item.Port)
		if err != nil {
			return err
		}
	}
	return nil
}
