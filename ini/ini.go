// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// A File is an INI file held as its raw lines plus an index of the sections
// and properties found in them. The zero value is an empty file.
//
// Files can be read by multiple concurrent goroutines, but must not be
// modified concurrently.
type File struct {
	lines []string

	// sections is keyed by folded section name. Every line number stored
	// below is a valid index into lines.
	sections map[string]*section
}

type section struct {
	// anchor is the line of the last header parsed or written for the
	// section. New keys are inserted after it.
	anchor     int
	properties map[string]*property

	// keyed reports whether a key has ever been indexed for the section. It
	// stays true after the last key is deleted.
	keyed bool
}

func (sec *section) put(key string, prop *property) {
	sec.properties[key] = prop
	sec.keyed = true
}

type property struct {
	line  int
	value string
}

// Parse reads an INI file. Every line of r is kept verbatim, without its
// line terminator.
//
// See the Syntax section in the package documentation for the lines
// recognized by Parse. Parse only fails if r does.
func Parse(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	f := new(File)
	var curr *section
	for lineno := 0; ; lineno++ {
		line, err := br.ReadString('\n')
		if err == io.EOF && line == "" {
			break
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("parse ini file: line %d: %w", lineno+1, err)
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		f.lines = append(f.lines, line)
		t := trim(line)
		switch {
		case t == "" || t[0] == ';':
			// Blank or comment.
		case isSectionHeader(t):
			name := normalize(t[1 : len(t)-1])
			if name == "" {
				curr = nil
				continue
			}
			curr = f.declareSection(name, lineno)
		case curr != nil:
			i := strings.IndexByte(t, '=')
			if i == -1 {
				continue
			}
			// Later assignments replace earlier ones.
			curr.put(normalize(t[:i]), &property{
				line:  lineno,
				value: unquote(trim(t[i+1:])),
			})
		}
	}
	return f, nil
}

// ReadFile parses the INI file at the given path. Errors opening or reading
// the file are reported as a *FileAccessError.
func ReadFile(path string) (*File, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Op: "read", Path: path, Err: err}
	}
	defer fp.Close() // Close errors irrelevant for a read-only file.
	f, err := Parse(fp)
	if err != nil {
		return nil, &FileAccessError{Op: "read", Path: path, Err: err}
	}
	return f, nil
}

// declareSection records a header for the named section at the given line.
// A repeated header moves the anchor and keeps the properties seen so far.
func (f *File) declareSection(name string, line int) *section {
	if f.sections == nil {
		f.sections = make(map[string]*section)
	}
	sec := f.sections[name]
	if sec == nil {
		sec = &section{properties: make(map[string]*property)}
		f.sections[name] = sec
	}
	sec.anchor = line
	return sec
}

// lookup finds the property for the given section and key, comparing
// folded names. A section whose headers were never followed by a key is
// reported as not found.
func (f *File) lookup(sectionName, key string) (*section, *property, error) {
	if f == nil {
		return nil, nil, &NotFoundError{Kind: SectionNotFound, Section: sectionName, Key: key}
	}
	sec := f.sections[normalize(sectionName)]
	if sec == nil || !sec.keyed {
		return nil, nil, &NotFoundError{Kind: SectionNotFound, Section: sectionName, Key: key}
	}
	prop := sec.properties[normalize(key)]
	if prop == nil {
		return sec, nil, &NotFoundError{Kind: KeyNotFound, Section: sectionName, Key: key}
	}
	return sec, prop, nil
}

// Get returns the value of the given key in the given section. It returns a
// *NotFoundError if the file has no such section or the section has no such
// key.
func (f *File) Get(section, key string) (string, error) {
	_, prop, err := f.lookup(section, key)
	if err != nil {
		return "", err
	}
	return prop.value, nil
}

// Len returns the number of lines in the file.
func (f *File) Len() int {
	if f == nil {
		return 0
	}
	return len(f.lines)
}

// Sections returns the folded names of the sections in the file, ordered by
// the position of their last header.
func (f *File) Sections() []string {
	if f == nil || len(f.sections) == 0 {
		return nil
	}
	names := make([]string, 0, len(f.sections))
	for name := range f.sections {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return f.sections[names[i]].anchor < f.sections[names[j]].anchor
	})
	return names
}

// Section returns a copy of the properties in the named section, keyed by
// folded key. It returns nil if the section does not exist.
func (f *File) Section(name string) Section {
	if f == nil {
		return nil
	}
	sec := f.sections[normalize(name)]
	if sec == nil {
		return nil
	}
	result := make(Section, len(sec.properties))
	for k, prop := range sec.properties {
		result[k] = prop.value
	}
	return result
}

// MarshalText serializes the file, one line per entry, each terminated by a
// newline.
func (f *File) MarshalText() ([]byte, error) {
	if f == nil {
		return nil, nil
	}
	n := 0
	for _, line := range f.lines {
		n += len(line) + 1
	}
	buf := make([]byte, 0, n)
	for _, line := range f.lines {
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	return buf, nil
}

// UnmarshalText parses the INI data, replacing the contents of f.
func (f *File) UnmarshalText(data []byte) error {
	parsed, err := Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*f = *parsed
	return nil
}

// WriteTo writes the serialized file to w.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	text, err := f.MarshalText()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(text)
	return int64(n), err
}

// A Section maps folded keys to values.
type Section map[string]string

// Get returns the value associated with the given key, folding it first. If
// the key is not present, Get returns the empty string.
func (sect Section) Get(key string) string {
	return sect[normalize(key)]
}

const cutset = " \t\r\n"

func trim(s string) string {
	return strings.Trim(s, cutset)
}

// normalize returns the identity of a section name or key.
func normalize(name string) string {
	return cases.Lower(language.Und).String(trim(name))
}

func isSectionHeader(t string) bool {
	return len(t) >= 3 && t[0] == '[' && t[len(t)-1] == ']'
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

func shouldQuoteValue(v string) bool {
	return strings.ContainsAny(v, " =")
}

func quoteValue(v string) string {
	if shouldQuoteValue(v) {
		return `"` + v + `"`
	}
	return v
}
