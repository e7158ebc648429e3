// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Mibo5354
// Source: github.com/Mibo5354/android-external-zlib

package zipdir

import (
	"io"
	"time"
)

const (
	// copyBufferSize is the fixed chunk size for streaming entry payloads.
	copyBufferSize = 64 * 1024
)

// DirectoryEntry is one immediate child reported by FileAccessor.ListDirectory.
type DirectoryEntry struct {
	// Path is the absolute path of the child.
	Path string `json:"path" yaml:"path"`
	// IsDir reports whether the child is a directory.
	IsDir bool `json:"is_dir" yaml:"is_dir"`
}

// Destination selects where a packed archive is written: a file path or an
// already-open writer, exactly one of the two. The zero value is invalid.
type Destination struct {
	path string
	w    io.Writer
}

// DestinationPath selects a destination file path. The file is created or
// truncated when packing starts.
func DestinationPath(path string) Destination {
	return Destination{path: path}
}

// DestinationWriter selects an already-open destination writer.
// The writer is not closed by this package.
func DestinationWriter(w io.Writer) Destination {
	return Destination{w: w}
}

// validate checks the exactly-one-form invariant.
func (d Destination) validate() error {
	if d.path == "" && d.w == nil {
		return ErrDestinationMissing
	}

	if d.path != "" && d.w != nil {
		return ErrDestinationConflict
	}

	return nil
}

// ZipEntryProgress contains one completed entry write event from the pack flow.
type ZipEntryProgress struct {
	// Path is the entry path written to the archive, relative to SrcDir.
	Path string `json:"path" yaml:"path"`
	// IsDir reports whether the entry is a directory record.
	IsDir bool `json:"is_dir,omitempty" yaml:"is_dir,omitempty"`
	// Written is the payload size streamed for this entry, in bytes.
	Written int64 `json:"written,omitempty" yaml:"written,omitempty"`
}

// ZipParams configures one Zip call.
type ZipParams struct {
	// OnEntryDone is called after one entry is fully written to the archive.
	OnEntryDone func(entry ZipEntryProgress) `json:"-" yaml:"-"`
	// Accessor is the file access capability; nil means the real filesystem.
	Accessor FileAccessor `json:"-" yaml:"-"`
	// Filter decides per relative path whether an entry is included.
	// Rejecting a directory prunes its whole subtree. Ignored for FilesToZip.
	Filter Filter `json:"-" yaml:"-"`
	// SrcDir is the source directory whose content is packed.
	SrcDir string `json:"src_dir" yaml:"src_dir"`
	// FilesToZip is an explicit list of relative paths to pack. When
	// non-empty it bypasses traversal, the hidden-file rule, and Filter.
	FilesToZip []string `json:"files_to_zip,omitempty" yaml:"files_to_zip,omitempty"`
	// Dest selects the archive destination.
	Dest Destination `json:"-" yaml:"-"`
	// IncludeHidden disables the default hidden-file exclusion during traversal.
	IncludeHidden bool `json:"include_hidden,omitempty" yaml:"include_hidden,omitempty"`
}

// ZipResult contains pack output statistics.
type ZipResult struct {
	// WrittenEntries is the number of entries written to the archive.
	WrittenEntries int `json:"written_entries" yaml:"written_entries"`
	// DataSize is the total payload bytes streamed into the archive.
	DataSize int64 `json:"data_size" yaml:"data_size"`
	// Duration is the end-to-end pack core duration.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// UnzipOptions configures one UnzipWithOptions call.
type UnzipOptions struct {
	// Filter decides per entry path whether the entry is extracted.
	// Rejection skips the entry and is not an error. Nil includes everything.
	Filter Filter `json:"-" yaml:"-"`
	// OnEntrySkipped is called for each entry rejected by Filter.
	OnEntrySkipped func(path string) `json:"-" yaml:"-"`
	// OnEntryDone is called after one entry is fully written to disk.
	OnEntryDone func(path string, written int64) `json:"-" yaml:"-"`
}

// UnzipResult contains extraction output statistics.
type UnzipResult struct {
	// ExtractedEntries is the number of entries written to the destination.
	ExtractedEntries int `json:"extracted_entries" yaml:"extracted_entries"`
	// SkippedEntries is the number of entries rejected by the filter.
	SkippedEntries int `json:"skipped_entries,omitempty" yaml:"skipped_entries,omitempty"`
	// DataSize is the total payload bytes written to disk.
	DataSize int64 `json:"data_size" yaml:"data_size"`
	// Duration is the end-to-end extraction duration.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// applyDefaults fills zero-valued zip params with defaults.
func (params *ZipParams) applyDefaults() {
	if params.Accessor == nil {
		params.Accessor = DirectFileAccessor{}
	}
}

// applyDefaults fills zero-valued unzip options with defaults.
func (opts *UnzipOptions) applyDefaults() {
	if opts.Filter == nil {
		opts.Filter = IncludeAllFilter
	}
}
