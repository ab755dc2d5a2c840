// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"context"
	"io/fs"
	"log/slog"
	"net"
	"testing/fstest"

	"github.com/bassosimone/netstub"
	"github.com/bassosimone/slogstub"
)

// newCapturingLogger returns a logger that captures all log records into the
// returned slice. The caller can inspect the slice after exercising the code
// under test to verify which events were emitted.
func newCapturingLogger() (*slog.Logger, *[]slog.Record) {
	var records []slog.Record
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			records = append(records, record)
			return nil
		},
	}
	return slog.New(handler), &records
}

// recordMessages returns the messages of the captured records.
func recordMessages(records []slog.Record) []string {
	var messages []string
	for _, record := range records {
		messages = append(messages, record.Message)
	}
	return messages
}

// newMinimalConn returns a [*netstub.FuncConn] with only LocalAddrFunc and
// RemoteAddrFunc set. This is the minimum needed for code that calls
// [safeconn.LocalAddr], [safeconn.RemoteAddr], and [safeconn.Network]
// during construction.
func newMinimalConn() *netstub.FuncConn {
	return &netstub.FuncConn{
		LocalAddrFunc:  func() net.Addr { return &net.TCPAddr{} },
		RemoteAddrFunc: func() net.Addr { return &net.TCPAddr{} },
	}
}

// newTestFS returns the data root shared by the site tests.
//
//	.
//	├── a.txt
//	├── b.png
//	├── docs/
//	│   ├── gophermap
//	│   └── notes.txt
//	├── page.html
//	├── latin1.txt
//	├── music/
//	│   └── notes.txt
//	└── sub/
func newTestFS() fstest.MapFS {
	return fstest.MapFS{
		"a.txt":           {Data: []byte("alpha\n")},
		"b.png":           {Data: []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}},
		"docs/gophermap":  {Data: []byte("iWelcome to the docs\n1Subdir\t/sub\tlocalhost\t70\n")},
		"docs/notes.txt":  {Data: []byte("hello world\n")},
		"page.html":       {Data: []byte("<p>hi</p>\n")},
		"latin1.txt":      {Data: []byte{'c', 'a', 'f', 0xe9}},
		"music/notes.txt": {Data: []byte("do re mi\n")},
		"sub":             {Mode: fs.ModeDir | 0o755},
	}
}

// newTestSite returns a [*Site] serving [newTestFS].
func newTestSite() *Site {
	return NewSite(newTestFS(), "localhost", 70)
}

// menuCodes returns the type codes of lines.
func menuCodes(lines []MenuLine) string {
	var codes []byte
	for _, ml := range lines {
		codes = append(codes, ml.Type.Code())
	}
	return string(codes)
}
