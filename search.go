// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"io/fs"
	"path"
	"slices"
	"strings"
	"unicode/utf8"
)

// Search returns a menu listing the entries of the data root matching query.
//
// The whole data root is walked on every call. Matching ignores case. A
// directory matches when its name contains query. A file matches when
// its name contains query or when its contents are UTF-8 text containing
// query. Unreadable files and directories are skipped.
//
// Results are keyed by their path relative to the data root, so files
// sharing a base name in different directories are all listed. Results
// are sorted by path. Each result uses its selector as display name.
//
// The version footer always closes the menu.
func (s *Site) Search(query string) []MenuLine {
	needle := strings.ToLower(query)
	matches := make(map[string]bool) // name => isDir
	fs.WalkDir(s.FS, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil || name == "." {
			return nil
		}
		if s.searchMatches(name, entry, needle) {
			matches[name] = entry.IsDir()
		}
		return nil
	})

	names := make([]string, 0, len(matches))
	for name := range matches {
		names = append(names, name)
	}
	slices.Sort(names)

	lines := make([]MenuLine, 0, len(names)+3)
	for _, name := range names {
		ml := s.entryLine(name, matches[name])
		ml.Name = ml.Selector
		lines = append(lines, ml)
	}
	if len(lines) == 0 {
		lines = append(lines, NewInfoLine("No results found for the query "+query))
	}
	return append(lines, VersionFooter(s.Version)...)
}

func (s *Site) searchMatches(name string, entry fs.DirEntry, query string) bool {
	if strings.Contains(strings.ToLower(path.Base(name)), query) {
		return true
	}
	if entry.IsDir() {
		return false
	}
	data, err := fs.ReadFile(s.FS, name)
	if err != nil || !utf8.Valid(data) {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), query)
}
