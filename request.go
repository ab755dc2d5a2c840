// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import "strings"

// RequestKind is the kind of a [Request].
type RequestKind int

const (
	// RequestEmpty is a bare CRLF asking for the root menu.
	RequestEmpty RequestKind = iota

	// RequestSelector asks for the resource named by Path.
	RequestSelector

	// RequestSearch runs Query against the search engine.
	RequestSearch
)

// String implements [fmt.Stringer].
func (k RequestKind) String() string {
	switch k {
	case RequestEmpty:
		return "empty"
	case RequestSelector:
		return "selector"
	case RequestSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Request is a classified Gopher request line.
//
// Path is set for [RequestSelector] and [RequestSearch]; Query is only
// set for [RequestSearch]. Path is raw: sanitization happens when the
// request is resolved against the data root.
type Request struct {
	Kind  RequestKind
	Path  string
	Query string
}

// NewSelectorRequest returns a [RequestSelector] for the given path.
func NewSelectorRequest(path string) Request {
	return Request{Kind: RequestSelector, Path: path}
}

// NewSearchRequest returns a [RequestSearch] for the given path and query.
func NewSearchRequest(path, query string) Request {
	return Request{Kind: RequestSearch, Path: path, Query: query}
}

// ClassifyRequest parses a raw request line into a [Request].
//
// Exactly "\r\n" is [RequestEmpty]. A line containing a TAB is a
// [RequestSearch] whose path is the first segment and whose query is
// the second segment without CRLF. Anything else is a [RequestSelector]
// whose path is the line without CRLF.
func ClassifyRequest(raw string) Request {
	if raw == "\r\n" {
		return Request{Kind: RequestEmpty}
	}
	if strings.Contains(raw, "\t") {
		segments := strings.Split(raw, "\t")
		return NewSearchRequest(segments[0], strings.ReplaceAll(segments[1], "\r\n", ""))
	}
	return NewSelectorRequest(strings.ReplaceAll(raw, "\r\n", ""))
}

// ClassifyRequestLenient is like [ClassifyRequest] but tolerates clients
// terminating requests with bare line feeds.
//
// A request ending with two bare LFs loses one of them before the empty
// request check, and a single bare trailing LF is dropped after it. An
// LF belonging to a CRLF pair is never considered bare.
func ClassifyRequestLenient(raw string) Request {
	if hasBareLFSuffix(raw, "\n\n") {
		raw = raw[:len(raw)-1]
	}
	if raw == "\r\n" {
		return Request{Kind: RequestEmpty}
	}
	if hasBareLFSuffix(raw, "\n") {
		raw = raw[:len(raw)-1]
	}
	return ClassifyRequest(raw)
}

// hasBareLFSuffix returns whether s ends with suffix and suffix is not
// the tail of a CRLF pair.
func hasBareLFSuffix(s, suffix string) bool {
	if !strings.HasSuffix(s, suffix) {
		return false
	}
	head := s[:len(s)-len(suffix)]
	return !strings.HasSuffix(head, "\r")
}

// FormatRequest serializes a [Request] as a request line.
//
// This is the inverse of [ClassifyRequest] for paths and queries that
// contain neither TABs nor CRLFs.
func FormatRequest(req Request) string {
	switch req.Kind {
	case RequestSearch:
		return req.Path + "\t" + req.Query + "\r\n"
	case RequestSelector:
		return req.Path + "\r\n"
	default:
		return "\r\n"
	}
}
