// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteMenu(t *testing.T) {
	type testCase struct {
		// name is the name of the test case
		name string

		// configure optionally mutates the site before use
		configure func(site *Site)

		// dir is the directory to list
		dir string

		// expectCodes is the expected sequence of type codes
		expectCodes string
	}

	cases := []testCase{
		{
			name:        "root listing with search line and footer",
			dir:         ".",
			expectCodes: "0I101h1" + "7ii",
		},

		{
			name: "root listing without search",
			configure: func(site *Site) {
				site.SearchEnabled = false
			},
			dir:         ".",
			expectCodes: "0I101h1" + "ii",
		},

		{
			name:        "gophermap overrides the listing",
			dir:         "docs",
			expectCodes: "i1" + "7ii",
		},

		{
			name: "gophermap ignored when disabled",
			configure: func(site *Site) {
				site.GophermapEnabled = false
			},
			dir:         "docs",
			expectCodes: "90" + "7ii",
		},

		{
			name:        "empty directory",
			dir:         "sub",
			expectCodes: "7ii",
		},

		{
			name:        "missing directory",
			dir:         "missing",
			expectCodes: "3" + "7ii",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			site := newTestSite()
			if tc.configure != nil {
				tc.configure(site)
			}
			lines := site.Menu(tc.dir)
			assert.Equal(t, tc.expectCodes, menuCodes(lines))
		})
	}
}

func TestSiteMenuEntries(t *testing.T) {
	site := NewSite(fstest.MapFS{
		"a.txt":     {Data: []byte("a")},
		"b.PNG":     {Data: []byte("b")},
		"sub/c.txt": {Data: []byte("c")},
	}, "gopher.example.com", 7070)

	lines := site.Menu(".")
	require.Len(t, lines, 6)

	expect := []MenuLine{
		{Type: Text, Name: "a.txt", Selector: "/a.txt", Host: "gopher.example.com", Port: 7070},
		{Type: Image, Name: "b.PNG", Selector: "/b.PNG", Host: "gopher.example.com", Port: 7070},
		{Type: Directory, Name: "sub", Selector: "/sub", Host: "gopher.example.com", Port: 7070},
		{Type: Search, Name: "Search Server", Selector: "/search", Host: "gopher.example.com", Port: 7070},
	}
	assert.Equal(t, expect, lines[:4])
	assert.Equal(t, VersionFooter(Version), lines[4:])

	lines = site.Menu("sub")
	require.Len(t, lines, 4)
	assert.Equal(t, MenuLine{
		Type:     Text,
		Name:     "c.txt",
		Selector: "/sub/c.txt",
		Host:     "gopher.example.com",
		Port:     7070,
	}, lines[0])
}

func TestSiteMenuGophermap(t *testing.T) {
	lines := newTestSite().Menu("docs")
	require.Len(t, lines, 5)
	assert.Equal(t, NewInfoLine("Welcome to the docs"), lines[0])
	assert.Equal(t, MenuLine{
		Type:     Directory,
		Name:     "Subdir",
		Selector: "/sub",
		Host:     "localhost",
		Port:     70,
	}, lines[1])
}

func TestSiteMenuErrorLine(t *testing.T) {
	lines := newTestSite().Menu("missing")
	require.NotEmpty(t, lines)
	assert.Equal(t, "3Error reading directory...\t\terror.host\t1\r\n", lines[0].String())
}

func TestSiteMenuGophermapDirectoryIsNotAGophermap(t *testing.T) {
	site := NewSite(fstest.MapFS{
		"gophermap/x.txt": {Data: []byte("x")},
	}, "localhost", 70)
	lines := site.Menu(".")
	assert.Equal(t, "1"+"7ii", menuCodes(lines))
}
