// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"io/fs"
	"path"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// ResponseKind tells how a [Response] body is transferred.
type ResponseKind int

const (
	// ResponseText is a body made of text, usually CRLF-terminated lines.
	ResponseText ResponseKind = iota

	// ResponseBinary is the raw content of a file.
	ResponseBinary
)

// String implements [fmt.Stringer].
func (k ResponseKind) String() string {
	if k == ResponseBinary {
		return "binary"
	}
	return "text"
}

// Response is the response to a single [Request].
//
// The connection close marks the end of the response: there is
// no trailing "." line and no length prefix.
type Response struct {
	Kind ResponseKind
	Body []byte
}

const (
	// errReadingFile is the message shown when a resource cannot be read.
	errReadingFile = "Error reading file..."

	// errSearchDisabled is the message shown for searches when search is disabled.
	errSearchDisabled = "Search is disabled on this server."

	// urlSelectorPrefix marks selectors pointing at external URLs.
	urlSelectorPrefix = "URL:"
)

// Respond computes the [Response] to req.
//
// Failures never escape as errors: they become a single [Error] line.
func (s *Site) Respond(req Request) Response {
	switch req.Kind {
	case RequestEmpty:
		return menuResponse(s.Menu("."))

	case RequestSearch:
		if !s.SearchEnabled {
			return menuResponse([]MenuLine{NewErrorLine(errSearchDisabled)})
		}
		return menuResponse(s.Search(req.Query))

	default:
		if target, found := strings.CutPrefix(req.Path, urlSelectorPrefix); found {
			return Response{Kind: ResponseText, Body: htmlRedirect(target)}
		}
		return s.resolve(selectorToName(SanitizeSelector(req.Path)))
	}
}

// resolve returns the response for the [io/fs] name.
func (s *Site) resolve(name string) Response {
	info, err := fs.Stat(s.FS, name)
	if err != nil {
		return menuResponse([]MenuLine{NewErrorLine(errReadingFile)})
	}
	if info.IsDir() {
		return menuResponse(s.Menu(name))
	}

	data, err := fs.ReadFile(s.FS, name)
	if err != nil {
		return menuResponse([]MenuLine{NewErrorLine(errReadingFile)})
	}
	if !ExtensionToType(path.Ext(name)).isTextual() {
		return Response{Kind: ResponseBinary, Body: data}
	}
	if !utf8.Valid(data) {
		return menuResponse([]MenuLine{NewErrorLine(errReadingFile)})
	}
	return Response{Kind: ResponseText, Body: data}
}

func menuResponse(lines []MenuLine) Response {
	return Response{Kind: ResponseText, Body: FormatMenu(lines)}
}

// htmlRedirect returns an HTML page redirecting the browser to target.
func htmlRedirect(target string) []byte {
	escaped := html.EscapeString(target)
	content := "<html>\n" +
		"<head>\n" +
		"<meta http-equiv=\"refresh\" content=\"1;URL=" + escaped + "\">\n" +
		"</head>\n" +
		"<body>\n" +
		"You are following an external link to a web site.\n" +
		"You will be automatically taken to the site shortly.\n" +
		"If you do not get sent there, please click <a href=\"" + escaped + "\">here</a>.\n" +
		"<p>\n" +
		"The URL linked is <a href=\"" + escaped + "\">" + escaped + "</a>\n" +
		"</body>\n" +
		"</html>\n"
	return []byte(content)
}
