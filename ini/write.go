// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bytes"
	"os"

	"github.com/natefinch/atomic"
)

// Options holds optional parameters for WriteFile and Open.
type Options struct {
	// Atomic writes the file to a temporary file in the same directory and
	// renames it over the destination, so readers never observe a partial
	// file. If false, the destination is truncated and rewritten in place.
	Atomic bool
}

// WriteFile replaces the contents of the file at path with f. Nil options are
// treated identically as passing the zero value.
//
// Errors are reported as a *FileAccessError. Unless opts.Atomic is set, a
// failure after the destination was opened can leave it empty or partially
// written.
func WriteFile(path string, f *File, opts *Options) error {
	text, err := f.MarshalText()
	if err != nil {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	if opts != nil && opts.Atomic {
		return writeAtomic(path, text)
	}
	// os.Create truncates, so a failed write loses the previous contents.
	fp, err := os.Create(path)
	if err != nil {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	_, err = fp.Write(text)
	if closeErr := fp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func writeAtomic(path string, text []byte) error {
	// atomic.WriteFile carries the destination's file mode over to the
	// replacement.
	if err := atomic.WriteFile(path, bytes.NewReader(text)); err != nil {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	return nil
}
