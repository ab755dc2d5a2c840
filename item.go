// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Item is a single line of a server response parsed by [ParseResponse].
type Item struct {
	// RawLine is the line without its terminator.
	RawLine string

	// Type is the item type derived from the first byte of the line.
	Type ItemType

	// Message is the display name without the leading type code.
	Message string

	// Selector is the selector of the item or empty.
	Selector string

	// Host is the host serving the item or "error.host".
	Host string

	// Port is the port serving the item or 1.
	Port int

	// Valid is false when the line is empty.
	Valid bool

	// RawPayload is the whole response as received.
	//
	// All the items of a response share the same slice, which
	// callers MUST treat as read-only.
	RawPayload []byte
}

// ParseResponse parses a complete server response into items.
//
// Lines are split on CRLF when the response contains at least one CRLF
// and on LF otherwise. The empty segment following the final terminator
// is not an item, but other empty lines yield invalid items, so the
// result preserves the line order. Fields beyond the fourth (e.g., the
// Gopher+ marker) are ignored. A missing or malformed port yields 1.
//
// Any byte sequence is accepted: use [Item.Type] and [Item.Valid] to
// decide how to interpret a line.
func ParseResponse(data []byte) []Item {
	if len(data) <= 0 {
		return []Item{}
	}
	text := string(data)
	sep := "\n"
	if strings.Contains(text, "\r\n") {
		sep = "\r\n"
	}
	lines := strings.Split(text, sep)
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, parseItem(line, data))
	}
	return items
}

func parseItem(line string, payload []byte) Item {
	item := Item{
		RawLine:    line,
		Type:       Info,
		Host:       placeholderHost,
		Port:       placeholderPort,
		RawPayload: payload,
	}
	if line == "" {
		return item
	}
	item.Valid = true
	item.Type = CodeToType(line[0])

	fields := strings.Split(line, "\t")
	_, size := utf8.DecodeRuneInString(fields[0])
	item.Message = fields[0][size:]
	if len(fields) > 1 {
		item.Selector = fields[1]
	}
	if len(fields) > 2 {
		item.Host = fields[2]
	}
	if len(fields) > 3 {
		if port, err := strconv.Atoi(fields[3]); err == nil {
			item.Port = port
		}
	}
	return item
}

// MenuLine returns the [MenuLine] equivalent to the item.
func (it Item) MenuLine() MenuLine {
	return MenuLine{
		Type:     it.Type,
		Name:     it.Message,
		Selector: it.Selector,
		Host:     it.Host,
		Port:     it.Port,
	}
}
