// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every declared type survives the code round trip.
func TestItemTypeCodeRoundTrip(t *testing.T) {
	for it := Text; it <= Info; it++ {
		t.Run(it.String(), func(t *testing.T) {
			assert.Equal(t, it, CodeToType(it.Code()))
		})
	}
}

func TestCodeToType(t *testing.T) {
	tests := []struct {
		// code is the wire code.
		code byte

		// want is the expected type.
		want ItemType
	}{
		{'0', Text},
		{'1', Directory},
		{'2', Nameserver},
		{'3', Error},
		{'4', BinHex},
		{'5', DosBinary},
		{'6', UUEncoded},
		{'7', Search},
		{'8', Telnet},
		{'9', Binary},
		{'+', Mirror},
		{'g', Gif},
		{'I', Image},
		{'T', Tn3270},
		{':', Bitmap},
		{';', Movie},
		{'<', Sound},
		{'d', Doc},
		{'r', Doc},
		{'s', Doc},
		{'P', Doc},
		{'X', Doc},
		{'p', Image},
		{'h', Html},
		{'i', Info},
		{'?', Info},
		{'z', Info},
		{' ', Info},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, CodeToType(tt.code))
		})
	}
}

func TestExtensionToType(t *testing.T) {
	tests := []struct {
		// ext is the extension to classify.
		ext string

		// want is the expected type.
		want ItemType
	}{
		{"txt", Text},
		{".md", Text},
		{"html", Html},
		{"pdf", Doc},
		{"rtf", Doc},
		{"xml", Doc},
		{"png", Image},
		{"JPG", Image},
		{".jpeg", Image},
		{"gif", Gif},
		{"mp3", Sound},
		{"wav", Sound},
		{"mp4", Movie},
		{"mov", Movie},
		{"avi", Movie},
		{"tar", Binary},
		{"", Binary},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtensionToType(tt.ext))
		})
	}
}

// Out-of-range values degrade to info instead of panicking.
func TestItemTypeOutOfRange(t *testing.T) {
	assert.Equal(t, byte('i'), ItemType(-1).Code())
	assert.Equal(t, byte('i'), ItemType(100).Code())
	assert.Equal(t, "unknown", ItemType(100).String())
}
