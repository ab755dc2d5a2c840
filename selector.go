// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"path"
	"strings"
)

// SanitizeSelector normalizes a raw selector into a path relative to the data root.
//
// The steps run in order: strip every CRLF, remove ".." until none is
// left, collapse "//" until none is left, and drop one leading "/".
// Removal repeats to a fixed point because removing ".." may join two
// dots that were previously apart (e.g., "....") and removing ".." may
// also join a CR and a LF (e.g., "\r..\n").
//
// The result never contains ".." or "//". Note that this function does
// NOT decode percent-encoded sequences, so those are not neutralized.
func SanitizeSelector(raw string) string {
	s := raw
	for {
		prev := s
		s = strings.ReplaceAll(s, "\r\n", "")
		for strings.Contains(s, "..") {
			s = strings.ReplaceAll(s, "..", "")
		}
		for strings.Contains(s, "//") {
			s = strings.ReplaceAll(s, "//", "/")
		}
		if s == prev {
			break
		}
	}
	return strings.TrimPrefix(s, "/")
}

// selectorToName maps a sanitized selector to an [io/fs] name.
//
// [io/fs] names must not end with a slash nor contain "." elements,
// hence the additional clean step. The root maps to ".".
func selectorToName(sanitized string) string {
	name := path.Clean("/" + sanitized)
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "."
	}
	return name
}

// nameToSelector maps an [io/fs] name back to a selector.
func nameToSelector(name string) string {
	if name == "." || name == "" {
		return "/"
	}
	s := "/" + name
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}
	return s
}
