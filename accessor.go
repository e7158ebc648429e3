// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Mibo5354
// Source: github.com/Mibo5354/android-external-zlib

package zipdir

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileAccessor abstracts the file reads the packer performs, so traversal can
// run against a fake in tests. Implementations carry no mutable state and may
// be shared across calls.
type FileAccessor interface {
	// OpenForReading opens the file at path for reading.
	OpenForReading(path string) (io.ReadCloser, error)
	// DirectoryExists reports whether path exists and is a directory.
	DirectoryExists(path string) bool
	// ListDirectory returns the immediate children of path, non-recursive.
	// Child order is unspecified; callers must not rely on it.
	ListDirectory(path string) ([]DirectoryEntry, error)
	// ModTime returns the last-modified time of path.
	ModTime(path string) (time.Time, error)
}

// DirectFileAccessor is the production FileAccessor backed by the real filesystem.
type DirectFileAccessor struct{}

// OpenForReading opens the file at path for reading.
func (DirectFileAccessor) OpenForReading(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// DirectoryExists reports whether path exists and is a directory.
func (DirectFileAccessor) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ListDirectory returns the immediate children of dir with directory flags.
func (DirectFileAccessor) ListDirectory(dir string) ([]DirectoryEntry, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list directory %s: %w", dir, err)
	}

	out := make([]DirectoryEntry, 0, len(children))
	for _, child := range children {
		out = append(out, DirectoryEntry{
			Path:  filepath.Join(dir, child.Name()),
			IsDir: child.IsDir(),
		})
	}

	return out, nil
}

// ModTime returns the last-modified time of path.
func (DirectFileAccessor) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}

	return info.ModTime(), nil
}
