// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import "io/fs"

// Version is the version advertised in the footer of generated menus.
const Version = "0.1.0"

// NewSite returns a new [*Site] serving fsys.
//
// The hostname and port arguments are the host and port advertised in
// generated menus, which may differ from the address the server binds.
//
// Search and gophermap overrides are enabled by default.
func NewSite(fsys fs.FS, hostname string, port int) *Site {
	return &Site{
		FS:               fsys,
		GophermapEnabled: true,
		Hostname:         hostname,
		Port:             port,
		SearchEnabled:    true,
		StrictRequests:   false,
		Version:          Version,
	}
}

// Site is the immutable description of what a server serves.
//
// A Site is shared by all the connections handled by a [*Server].
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated once the Site is serving requests.
type Site struct {
	// FS is the data root.
	//
	// Set by [NewSite] to the user-provided value.
	FS fs.FS

	// GophermapEnabled controls whether a gophermap file overrides
	// the automatically generated menu of its directory.
	//
	// Set by [NewSite] to true.
	GophermapEnabled bool

	// Hostname is the host advertised in generated menus.
	//
	// Set by [NewSite] to the user-provided value.
	Hostname string

	// Port is the port advertised in generated menus.
	//
	// Set by [NewSite] to the user-provided value.
	Port int

	// SearchEnabled controls whether search requests are served.
	//
	// Set by [NewSite] to true.
	SearchEnabled bool

	// StrictRequests disables the tolerance for requests terminated
	// by bare line feeds (see [ClassifyRequestLenient]).
	//
	// Set by [NewSite] to false.
	StrictRequests bool

	// Version is the version shown in the menu footer.
	//
	// Set by [NewSite] to [Version].
	Version string
}

// Classify classifies a raw request line honoring [Site.StrictRequests].
func (s *Site) Classify(raw string) Request {
	if s.StrictRequests {
		return ClassifyRequest(raw)
	}
	return ClassifyRequestLenient(raw)
}

// footer returns the search line, if enabled, and the version footer.
func (s *Site) footer() []MenuLine {
	var lines []MenuLine
	if s.SearchEnabled {
		lines = append(lines, MenuLine{
			Type:     Search,
			Name:     "Search Server",
			Selector: "/search",
			Host:     s.Hostname,
			Port:     s.Port,
		})
	}
	return append(lines, VersionFooter(s.Version)...)
}
