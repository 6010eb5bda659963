// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"slices"
	"strings"
)

// Set sets the property to the given value, editing as few lines as
// possible. Section and key are matched by folded name.
//
// If the property exists, its line keeps its position and key text and only
// the value is replaced. If the section exists but the key does not, a new
// line is inserted at the end of the section, before the blank line that
// separates it from the next header, if there is exactly one such line to
// step over. Otherwise a new section is appended to the end of the file,
// separated from the previous content by a blank line. New text uses the
// casing of sectionName and key as given.
//
// The value is quoted if it contains a space or an equals sign.
func (f *File) Set(sectionName, key, value string) {
	name := normalize(sectionName)
	k := normalize(key)
	newLine := key + " = " + quoteValue(value)

	sec := f.sections[name]
	if sec == nil {
		if n := len(f.lines); n > 0 && trim(f.lines[n-1]) != "" {
			f.lines = append(f.lines, "")
		}
		anchor := len(f.lines)
		f.lines = append(f.lines, "["+sectionName+"]", newLine)
		sec = f.declareSection(name, anchor)
		sec.put(k, &property{line: anchor + 1, value: value})
		return
	}

	if prop := sec.properties[k]; prop != nil {
		lhs := f.lines[prop.line]
		if i := strings.IndexByte(lhs, '='); i >= 0 {
			lhs = lhs[:i]
		}
		f.lines[prop.line] = trim(lhs) + " = " + quoteValue(value)
		prop.value = value
		return
	}

	at := sec.anchor + 1
	for at < len(f.lines) && !isSectionHeader(trim(f.lines[at])) {
		at++
	}
	// Step back over a single blank separator, never onto the header.
	if at-1 > sec.anchor && trim(f.lines[at-1]) == "" {
		at--
	}
	f.insertLine(at, newLine)
	sec.put(k, &property{line: at, value: value})
}

// Delete removes the line holding the property. The section header stays,
// even if the section is left empty. Delete returns a *NotFoundError and
// leaves f unchanged if the section or key does not exist.
func (f *File) Delete(sectionName, key string) error {
	sec, prop, err := f.lookup(sectionName, key)
	if err != nil {
		return err
	}
	f.lines = slices.Delete(f.lines, prop.line, prop.line+1)
	delete(sec.properties, normalize(key))
	f.renumber(prop.line+1, -1)
	return nil
}

// insertLine inserts a line before index at and shifts the index to match.
func (f *File) insertLine(at int, line string) {
	f.lines = slices.Insert(f.lines, at, line)
	f.renumber(at, 1)
}

// renumber adds delta to every indexed line number at or after line from.
func (f *File) renumber(from, delta int) {
	for _, sec := range f.sections {
		if sec.anchor >= from {
			sec.anchor += delta
		}
		for _, prop := range sec.properties {
			if prop.line >= from {
				prop.line += delta
			}
		}
	}
}
