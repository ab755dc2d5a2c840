// SPDX-License-Identifier: GPL-3.0-or-later

// Command gopherd serves a directory tree over the Gopher protocol.
//
// Usage:
//
//	gopherd [flags]
//	gopherd version
//
// Settings come from the optional YAML file named by --config; flags
// explicitly set on the command line override the file.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/bassosimone/gopher"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	if err := newCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// options contains the values bound to the command line flags.
type options struct {
	configPath string
	settings   *gopher.Settings
	verbose    bool
}

func newCommand() *cobra.Command {
	return newCommandWithOptions(&options{settings: gopher.DefaultSettings()})
}

func newCommandWithOptions(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gopherd",
		Short:        "serve a directory over the Gopher protocol",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings(cmd.Flags(), opts.settings, opts.configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, settings, logger)
		},
	}
	cmd.AddCommand(versionCmd())

	s := opts.settings
	flags := cmd.Flags()
	flags.StringVarP(&s.Hostname, "gopher-host-name", "g", s.Hostname, "host name advertised in menus")
	flags.StringVar(&s.BindHost, "host", s.BindHost, "address to bind")
	flags.IntVarP(&s.Port, "port", "p", s.Port, "port to bind")
	flags.IntVar(&s.AdvertisedPort, "advertised-port", s.AdvertisedPort, "port advertised in menus (default: --port)")
	flags.StringVarP(&s.DataDir, "gopher-data-dir", "d", s.DataDir, "directory to serve")
	flags.BoolVar(&s.DisableSearch, "disable-search", s.DisableSearch, "disable full-text search")
	flags.BoolVar(&s.DisableGophermap, "disable-gophermap", s.DisableGophermap, "ignore gophermap files")
	flags.BoolVar(&s.StrictRequests, "strict-requests", s.StrictRequests, "do not tolerate requests terminated by a bare LF")
	flags.IntVar(&s.MaxConns, "max-conns", s.MaxConns, "maximum number of concurrent connections (0 means no limit)")
	flags.StringVar(&opts.configPath, "config", "", "YAML settings file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every read and write")

	return cmd
}

// flagFields maps each settings flag to the function copying its value.
var flagFields = map[string]func(dst, src *gopher.Settings){
	"gopher-host-name":  func(dst, src *gopher.Settings) { dst.Hostname = src.Hostname },
	"host":              func(dst, src *gopher.Settings) { dst.BindHost = src.BindHost },
	"port":              func(dst, src *gopher.Settings) { dst.Port = src.Port },
	"advertised-port":   func(dst, src *gopher.Settings) { dst.AdvertisedPort = src.AdvertisedPort },
	"gopher-data-dir":   func(dst, src *gopher.Settings) { dst.DataDir = src.DataDir },
	"disable-search":    func(dst, src *gopher.Settings) { dst.DisableSearch = src.DisableSearch },
	"disable-gophermap": func(dst, src *gopher.Settings) { dst.DisableGophermap = src.DisableGophermap },
	"strict-requests":   func(dst, src *gopher.Settings) { dst.StrictRequests = src.StrictRequests },
	"max-conns":         func(dst, src *gopher.Settings) { dst.MaxConns = src.MaxConns },
}

// resolveSettings merges the settings file, if any, with the flags.
//
// Without a settings file, the flag values are used as is. Otherwise,
// only flags explicitly set override the file.
func resolveSettings(flags *pflag.FlagSet, flagSettings *gopher.Settings, configPath string) (*gopher.Settings, error) {
	settings := new(gopher.Settings)
	*settings = *flagSettings
	if configPath != "" {
		loaded, err := gopher.LoadSettings(configPath)
		if err != nil {
			return nil, err
		}
		settings = loaded
		flags.Visit(func(flag *pflag.Flag) {
			if copyField, found := flagFields[flag.Name]; found {
				copyField(settings, flagSettings)
			}
		})
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// newLogger returns the logger writing to w.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// serve serves the data directory until ctx is done.
func serve(ctx context.Context, settings *gopher.Settings, logger gopher.SLogger) error {
	info, err := os.Stat(settings.DataDir)
	if err != nil {
		return fmt.Errorf("gopherd: data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("gopherd: data directory: %s is not a directory", settings.DataDir)
	}

	cfg := gopher.NewConfig()
	ln, err := gopher.NewListenFunc(cfg, logger).Call(ctx, settings.Address())
	if err != nil {
		return err
	}

	srv := gopher.NewServer(cfg, newSite(settings, ln), logger)
	srv.MaxConns = settings.MaxConns
	return srv.Serve(ctx, ln)
}

// newSite returns the site to serve on ln.
//
// Binding port 0 picks an ephemeral port, which menus must advertise
// unless an advertised port is configured.
func newSite(settings *gopher.Settings, ln net.Listener) *gopher.Site {
	site := settings.NewSite(os.DirFS(settings.DataDir))
	if addr, ok := ln.Addr().(*net.TCPAddr); ok && site.Port == 0 {
		site.Port = addr.Port
	}
	return site
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "report the version of gopherd",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "gopherd version %s\n", gopher.Version)
			return nil
		},
	}
}
