// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// GophermapFileName is the name of the file overriding a directory menu.
const GophermapFileName = "gophermap"

// gophermapTypeCodes are the codes starting a structured gophermap entry.
const gophermapTypeCodes = "0123456789+gIT:;<dhprsPXi"

// gophermapFieldSeparator splits the fields of a structured entry.
var gophermapFieldSeparator = regexp.MustCompile(`\t+| {2,}`)

// ParseGophermap parses a gophermap into menu lines, preserving file order.
//
// Each physical line is one of:
//
//   - free text: a line whose first byte is not a known type code or that
//     is at most one character long becomes an [Info] line verbatim;
//
//   - an info line: a line starting with 'i' becomes an [Info] line
//     showing the rest of the line verbatim;
//
//   - an entry: <code><name><sep><selector><sep><host>[<sep><port>] where
//     <sep> is one or more TABs or two or more spaces. The port defaults
//     to [DefaultPort] and may be surrounded by spaces. Entries with fewer
//     than three fields or with an invalid port are dropped.
//
// Entries keep the code written in the file, so a non-canonical code
// such as 'p' is served as is (see [MenuLine.Code]). Lines have no
// length limit.
//
// The returned error is non-nil only if reading from r fails.
func ParseGophermap(r io.Reader) ([]MenuLine, error) {
	var lines []MenuLine
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if ml, ok := parseGophermapLine(line); ok {
				lines = append(lines, ml)
			}
		}
		if err != nil {
			return lines, nil
		}
	}
}

func parseGophermapLine(line string) (MenuLine, bool) {
	if utf8.RuneCountInString(line) <= 1 || !strings.ContainsRune(gophermapTypeCodes, rune(line[0])) {
		return NewInfoLine(line), true
	}
	if line[0] == Info.Code() {
		return NewInfoLine(line[1:]), true
	}

	fields := gophermapFieldSeparator.Split(line, -1)
	if len(fields) < 3 {
		return MenuLine{}, false
	}
	port := DefaultPort
	if len(fields) > 3 {
		value, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			return MenuLine{}, false
		}
		port = value
	}
	ml := MenuLine{
		Type:     CodeToType(line[0]),
		Name:     fields[0][1:],
		Selector: fields[1],
		Host:     fields[2],
		Port:     port,
	}
	if line[0] != ml.Type.Code() {
		ml.Code = line[0]
	}
	return ml, true
}
