// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"io/fs"
	"path"
)

// errReadingDirectory is the message shown when a directory cannot be listed.
const errReadingDirectory = "Error reading directory..."

// Menu returns the menu of the directory dir, an [io/fs] name ("." for the root).
//
// When gophermaps are enabled and dir contains a gophermap file, the
// parsed gophermap replaces the automatic listing. Otherwise, every
// immediate child of dir becomes an entry. A directory that cannot be
// listed yields a single [Error] line.
//
// The search line (when search is enabled) and the version footer
// always close the menu.
func (s *Site) Menu(dir string) []MenuLine {
	var lines []MenuLine
	if body, found := s.gophermap(dir); found {
		lines = body
	} else {
		lines = s.listing(dir)
	}
	return append(lines, s.footer()...)
}

// gophermap returns the parsed gophermap of dir and whether it exists.
func (s *Site) gophermap(dir string) ([]MenuLine, bool) {
	if !s.GophermapEnabled {
		return nil, false
	}
	name := path.Join(dir, GophermapFileName)
	info, err := fs.Stat(s.FS, name)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	filep, err := s.FS.Open(name)
	if err != nil {
		return []MenuLine{NewErrorLine(errReadingDirectory)}, true
	}
	defer filep.Close()
	lines, err := ParseGophermap(filep)
	if err != nil {
		return []MenuLine{NewErrorLine(errReadingDirectory)}, true
	}
	return lines, true
}

// listing enumerates the immediate children of dir.
func (s *Site) listing(dir string) []MenuLine {
	entries, err := fs.ReadDir(s.FS, dir)
	if err != nil {
		return []MenuLine{NewErrorLine(errReadingDirectory)}
	}
	lines := make([]MenuLine, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, s.entryLine(path.Join(dir, entry.Name()), entry.IsDir()))
	}
	return lines
}

// entryLine returns the line pointing at the [io/fs] name.
//
// The display name is the base name of the entry.
func (s *Site) entryLine(name string, isDir bool) MenuLine {
	itemType := Directory
	if !isDir {
		itemType = ExtensionToType(path.Ext(name))
	}
	return MenuLine{
		Type:     itemType,
		Name:     path.Base(name),
		Selector: nameToSelector(name),
		Host:     s.Hostname,
		Port:     s.Port,
	}
}
