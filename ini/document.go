// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"context"

	"zombiezen.com/go/log"
)

// A Document is a File bound to the path it was read from. Mutations on a
// Document are written back to the path immediately.
type Document struct {
	file *File
	path string
	opts Options
}

// Open reads the INI file at path. Nil options are treated identically as
// passing the zero value.
func Open(ctx context.Context, path string, opts *Options) (*Document, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	d := &Document{file: f, path: path}
	if opts != nil {
		d.opts = *opts
	}
	log.Debugf(ctx, "Loaded %s: %d lines, %d sections", path, f.Len(), len(f.sections))
	return d, nil
}

// Path returns the path the document was read from.
func (d *Document) Path() string {
	return d.path
}

// File returns the document's in-memory file.
func (d *Document) File() *File {
	return d.file
}

// Get returns the value of the given key in the given section.
func (d *Document) Get(section, key string) (string, error) {
	return d.file.Get(section, key)
}

// Set sets the property and writes the document back to its path.
func (d *Document) Set(ctx context.Context, section, key, value string) error {
	d.file.Set(section, key, value)
	log.Debugf(ctx, "Set [%s] %s in %s", section, key, d.path)
	return d.Flush(ctx)
}

// Delete removes the property and writes the document back to its path. If
// the property does not exist, the file on disk is not touched.
func (d *Document) Delete(ctx context.Context, section, key string) error {
	if err := d.file.Delete(section, key); err != nil {
		return err
	}
	log.Debugf(ctx, "Deleted [%s] %s in %s", section, key, d.path)
	return d.Flush(ctx)
}

// Flush writes the document back to its path.
func (d *Document) Flush(ctx context.Context) error {
	log.Debugf(ctx, "Writing %d lines to %s (atomic=%t)", d.file.Len(), d.path, d.opts.Atomic)
	return WriteFile(d.path, d.file, &d.opts)
}
