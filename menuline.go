// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"bytes"
	"strconv"
	"strings"
)

const (
	// DefaultPort is the port assumed when a menu entry does not name one.
	DefaultPort = 70

	// placeholderHost is the host used by lines that do not point anywhere.
	placeholderHost = "error.host"

	// placeholderPort is the port used by lines that do not point anywhere.
	placeholderPort = 1

	// footerWidth is the width of the version footer.
	footerWidth = 72
)

// MenuLine is a single entry of a Gopher menu.
type MenuLine struct {
	// Code is the wire code, when it differs from the canonical
	// code of Type (e.g., 'p' for an [Image]). Zero means Type.Code().
	Code byte

	// Type is the item type.
	Type ItemType

	// Name is the display name.
	Name string

	// Selector is the selector to send to Host to fetch the item.
	Selector string

	// Host is the host serving the item.
	Host string

	// Port is the port serving the item.
	Port int
}

// NewInfoLine returns an [Info] line displaying message.
func NewInfoLine(message string) MenuLine {
	return MenuLine{Type: Info, Name: message, Host: placeholderHost, Port: placeholderPort}
}

// NewErrorLine returns an [Error] line displaying message.
func NewErrorLine(message string) MenuLine {
	return MenuLine{Type: Error, Name: message, Host: placeholderHost, Port: placeholderPort}
}

// String returns the wire representation of the line including the CRLF.
func (ml MenuLine) String() string {
	var sb strings.Builder
	ml.writeTo(&sb)
	return sb.String()
}

// Bytes is like [MenuLine.String] but returns a byte slice.
func (ml MenuLine) Bytes() []byte {
	var buf bytes.Buffer
	ml.writeTo(&buf)
	return buf.Bytes()
}

// code returns the code written on the wire.
func (ml MenuLine) code() byte {
	if ml.Code != 0 {
		return ml.Code
	}
	return ml.Type.Code()
}

type lineWriter interface {
	WriteByte(c byte) error
	WriteString(s string) (int, error)
}

func (ml MenuLine) writeTo(w lineWriter) {
	w.WriteByte(ml.code())
	w.WriteString(ml.Name)
	w.WriteByte('\t')
	w.WriteString(ml.Selector)
	w.WriteByte('\t')
	w.WriteString(ml.Host)
	w.WriteByte('\t')
	w.WriteString(strconv.Itoa(ml.Port))
	w.WriteString("\r\n")
}

// FormatMenu concatenates the wire representation of lines.
func FormatMenu(lines []MenuLine) []byte {
	var buf bytes.Buffer
	for _, ml := range lines {
		ml.writeTo(&buf)
	}
	return buf.Bytes()
}

// VersionFooter returns the two [Info] lines closing every generated menu.
//
// The first line is a separator and the second line right-aligns the
// banner naming the serving software and its version.
func VersionFooter(version string) []MenuLine {
	banner := "generated and served by gopherd/" + version
	pad := max(footerWidth-len(banner), 0)
	return []MenuLine{
		NewInfoLine(strings.Repeat("-", footerWidth)),
		NewInfoLine(strings.Repeat(" ", pad) + banner),
	}
}
