// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import "strings"

// ItemType classifies the content kind of a Gopher menu entry.
//
// The zero value is [Text]. Use [CodeToType] to map a wire code to an
// ItemType and [ItemType.Code] for the reverse mapping.
type ItemType int

// These are the supported item types.
const (
	Text ItemType = iota
	Directory
	Nameserver
	Error
	BinHex
	DosBinary
	UUEncoded
	Search
	Telnet
	Binary
	Mirror
	Gif
	Image
	Tn3270
	Bitmap
	Movie
	Sound
	Doc
	Html
	Info
)

// itemTypeInfo is the canonical code and the symbolic name of an [ItemType].
type itemTypeInfo struct {
	code byte
	name string
}

var itemTypes = [...]itemTypeInfo{
	Text:       {'0', "text"},
	Directory:  {'1', "directory"},
	Nameserver: {'2', "nameserver"},
	Error:      {'3', "error"},
	BinHex:     {'4', "binhex"},
	DosBinary:  {'5', "dosbinary"},
	UUEncoded:  {'6', "uuencoded"},
	Search:     {'7', "search"},
	Telnet:     {'8', "telnet"},
	Binary:     {'9', "binary"},
	Mirror:     {'+', "mirror"},
	Gif:        {'g', "gif"},
	Image:      {'I', "image"},
	Tn3270:     {'T', "tn3270"},
	Bitmap:     {':', "bitmap"},
	Movie:      {';', "movie"},
	Sound:      {'<', "sound"},
	Doc:        {'d', "doc"},
	Html:       {'h', "html"},
	Info:       {'i', "info"},
}

// codeTypes maps every accepted wire code to its [ItemType].
//
// Besides the canonical codes, this table accepts the non-canonical
// codes seen in the wild ('p' for PNG images and 'r', 's', 'P', 'X'
// for documents).
var codeTypes = map[byte]ItemType{
	'0': Text,
	'1': Directory,
	'2': Nameserver,
	'3': Error,
	'4': BinHex,
	'5': DosBinary,
	'6': UUEncoded,
	'7': Search,
	'8': Telnet,
	'9': Binary,
	'+': Mirror,
	'g': Gif,
	'I': Image,
	'T': Tn3270,
	':': Bitmap,
	';': Movie,
	'<': Sound,
	'd': Doc,
	'h': Html,
	'i': Info,
	'p': Image,
	'r': Doc,
	's': Doc,
	'P': Doc,
	'X': Doc,
}

// extensionTypes maps lower-case file extensions (without the dot) to [ItemType].
var extensionTypes = map[string]ItemType{
	"txt":  Text,
	"md":   Text,
	"html": Html,
	"pdf":  Doc,
	"rtf":  Doc,
	"xml":  Doc,
	"png":  Image,
	"jpg":  Image,
	"jpeg": Image,
	"gif":  Gif,
	"mp3":  Sound,
	"wav":  Sound,
	"mp4":  Movie,
	"mov":  Movie,
	"avi":  Movie,
}

// CodeToType returns the [ItemType] for the given wire code.
//
// Unrecognized codes map to [Info].
func CodeToType(code byte) ItemType {
	if t, found := codeTypes[code]; found {
		return t
	}
	return Info
}

// ExtensionToType returns the [ItemType] for a file extension.
//
// The extension is matched case-insensitively, with or without the
// leading dot. Unmapped extensions map to [Binary], unlike [CodeToType],
// because an unknown file is safest to transfer as opaque bytes.
func ExtensionToType(ext string) ItemType {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if t, found := extensionTypes[ext]; found {
		return t
	}
	return Binary
}

// Code returns the canonical wire code for the [ItemType].
//
// Values outside the declared range map to the [Info] code.
func (t ItemType) Code() byte {
	if t < 0 || int(t) >= len(itemTypes) {
		return itemTypes[Info].code
	}
	return itemTypes[t].code
}

// String implements [fmt.Stringer].
func (t ItemType) String() string {
	if t < 0 || int(t) >= len(itemTypes) {
		return "unknown"
	}
	return itemTypes[t].name
}

// isTextual returns whether files of this type are transferred as text.
func (t ItemType) isTextual() bool {
	return t == Text || t == Html
}
