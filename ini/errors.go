// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every *NotFoundError when used with errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundKind tells which part of a lookup failed.
type NotFoundKind int

// Kinds of *NotFoundError.
const (
	SectionNotFound NotFoundKind = 1 + iota
	KeyNotFound
)

// NotFoundError is returned when a section or key is absent from a File.
type NotFoundError struct {
	Kind    NotFoundKind
	Section string
	Key     string
}

func (e *NotFoundError) Error() string {
	if e.Kind == SectionNotFound {
		return fmt.Sprintf("section not found: [%s]", e.Section)
	}
	return fmt.Sprintf("key not found: [%s] %s", e.Section, e.Key)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FileAccessError is returned when an INI file cannot be opened, read or
// written. A failed write may have truncated the file.
type FileAccessError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return e.Op + " ini file: " + e.Err.Error()
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}
