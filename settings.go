// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings is the configuration surface of a Gopher server.
//
// Settings are usually loaded from a YAML file using [LoadSettings] and
// then overridden by command line flags. Use [Settings.NewSite] to get
// the [*Site] to serve.
type Settings struct {
	// AdvertisedPort is the port advertised in menus when the server is
	// reachable on a port other than Port (e.g., behind a port forward).
	// Zero means Port.
	AdvertisedPort int `yaml:"advertised_port"`

	// BindHost is the address the server binds.
	BindHost string `yaml:"bind_host"`

	// DataDir is the directory served as the data root.
	DataDir string `yaml:"data_dir"`

	// DisableGophermap disables gophermap overrides.
	DisableGophermap bool `yaml:"disable_gophermap"`

	// DisableSearch disables search requests and the search menu line.
	DisableSearch bool `yaml:"disable_search"`

	// Hostname is the host advertised in menus.
	Hostname string `yaml:"hostname"`

	// MaxConns is the maximum number of connections served at
	// the same time. Zero means no limit.
	MaxConns int `yaml:"max_conns"`

	// Port is the port the server binds.
	Port int `yaml:"port"`

	// StrictRequests rejects the bare LF tolerance.
	StrictRequests bool `yaml:"strict_requests"`
}

// DefaultSettings returns the default [*Settings].
func DefaultSettings() *Settings {
	return &Settings{
		AdvertisedPort:   0,
		BindHost:         "0.0.0.0",
		DataDir:          "./example-gopherdata",
		DisableGophermap: false,
		DisableSearch:    false,
		Hostname:         "localhost",
		MaxConns:         0,
		Port:             8080,
		StrictRequests:   false,
	}
}

// LoadSettings reads the YAML settings file at path.
//
// Keys missing from the file keep their [DefaultSettings] value.
func LoadSettings(path string) (*Settings, error) {
	filep, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer filep.Close()
	settings, err := ParseSettings(filep)
	if err != nil {
		return nil, fmt.Errorf("gopher: parsing %s: %w", path, err)
	}
	return settings, nil
}

// ParseSettings is like [LoadSettings] but reads YAML from r.
//
// Unknown keys are an error, so that typos do not go unnoticed.
func ParseSettings(r io.Reader) (*Settings, error) {
	settings := DefaultSettings()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(settings); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate returns an error if the settings cannot be served.
func (s *Settings) Validate() error {
	if s.Hostname == "" {
		return errors.New("gopher: empty hostname")
	}
	if s.DataDir == "" {
		return errors.New("gopher: empty data directory")
	}
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("gopher: invalid port: %d", s.Port)
	}
	if s.AdvertisedPort < 0 || s.AdvertisedPort > 65535 {
		return fmt.Errorf("gopher: invalid advertised port: %d", s.AdvertisedPort)
	}
	if s.MaxConns < 0 {
		return fmt.Errorf("gopher: invalid max conns: %d", s.MaxConns)
	}
	return nil
}

// Address returns the "host:port" address to bind.
func (s *Settings) Address() string {
	return net.JoinHostPort(s.BindHost, strconv.Itoa(s.Port))
}

// MenuPort returns the port advertised in menus.
//
// Zero means the port picked when binding port 0.
func (s *Settings) MenuPort() int {
	if s.AdvertisedPort > 0 {
		return s.AdvertisedPort
	}
	return s.Port
}

// NewSite returns the [*Site] described by the settings serving fsys.
//
// Pass os.DirFS(s.DataDir) to serve the configured data directory.
func (s *Settings) NewSite(fsys fs.FS) *Site {
	site := NewSite(fsys, s.Hostname, s.MenuPort())
	site.GophermapEnabled = !s.DisableGophermap
	site.SearchEnabled = !s.DisableSearch
	site.StrictRequests = s.StrictRequests
	return site
}
