// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Mibo5354
// Source: github.com/Mibo5354/android-external-zlib

package zipdir

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Unzip extracts every entry of the archive at srcFile into destDir.
func Unzip(ctx context.Context, srcFile, destDir string) error {
	_, err := UnzipWithOptions(ctx, srcFile, destDir, UnzipOptions{})
	return err
}

// UnzipWithFilter extracts entries of the archive at srcFile accepted by
// filter into destDir. Rejected entries are skipped, not errors.
func UnzipWithFilter(ctx context.Context, srcFile, destDir string, filter Filter) error {
	_, err := UnzipWithOptions(ctx, srcFile, destDir, UnzipOptions{Filter: filter})
	return err
}

// UnzipWithOptions runs the extraction core: it walks archive entries in
// stored order, fails the whole operation on the first unsafe entry path,
// skips entries rejected by the filter, and materializes accepted entries
// under destDir with intermediate directories created as needed. Entries
// extracted before a failure remain on disk.
func UnzipWithOptions(ctx context.Context, srcFile, destDir string, opts UnzipOptions) (*UnzipResult, error) {
	opts.applyDefaults()
	start := time.Now()

	// OpenReader flags traversal/absolute entry names with ErrInsecurePath
	// but still returns a usable reader; the per-entry check below turns
	// those into ErrUnsafeEntryPath before anything is extracted.
	zr, err := zip.OpenReader(srcFile)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("open archive %s: %w", srcFile, err)
	}
	defer func() { _ = zr.Close() }()

	destRoot, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("resolve destination dir: %w", err)
	}

	if err := os.MkdirAll(destRoot, 0o750); err != nil {
		return nil, fmt.Errorf("create destination dir: %w", err)
	}

	buf, release := acquireCopyBuffer()
	defer release()

	res := &UnzipResult{}
	for _, entry := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		relPath, err := normalizeEntryPath(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.Name, err)
		}

		if !opts.Filter(relPath) {
			res.SkippedEntries++
			if opts.OnEntrySkipped != nil {
				opts.OnEntrySkipped(relPath)
			}
			continue
		}

		written, err := extractEntry(destRoot, relPath, entry, buf)
		if err != nil {
			return nil, err
		}

		res.ExtractedEntries++
		res.DataSize += written

		if opts.OnEntryDone != nil {
			opts.OnEntryDone(relPath, written)
		}
	}

	res.Duration = time.Since(start)
	return res, nil
}

// extractEntry writes one accepted archive entry under destRoot. Directory
// entries create directories; file entries stream payload in fixed-size
// chunks. Entry mtime is restored best-effort.
func extractEntry(destRoot, relPath string, entry *zip.File, buf []byte) (int64, error) {
	outPath := filepath.Join(destRoot, filepath.FromSlash(relPath))

	if isDirectoryEntry(entry) {
		if err := os.MkdirAll(outPath, 0o750); err != nil {
			return 0, fmt.Errorf("create directory %s: %w", relPath, err)
		}

		restoreEntryModTime(outPath, entry)
		return 0, nil
	}

	if dir := filepath.Dir(outPath); dir != destRoot {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return 0, fmt.Errorf("create parent directory for %s: %w", relPath, err)
		}
	}

	rc, err := entry.Open()
	if err != nil {
		return 0, fmt.Errorf("open entry %s: %w", relPath, err)
	}
	defer func() { _ = rc.Close() }()

	file, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", relPath, err)
	}

	written, copyErr := copyChunked(file, rc, buf)
	closeErr := file.Close()
	if copyErr != nil {
		return written, fmt.Errorf("write %s: %w", relPath, copyErr)
	}

	if closeErr != nil {
		return written, fmt.Errorf("close %s: %w", relPath, closeErr)
	}

	restoreEntryModTime(outPath, entry)
	return written, nil
}

// isDirectoryEntry reports whether an archive entry is a directory record.
func isDirectoryEntry(entry *zip.File) bool {
	return strings.HasSuffix(entry.Name, "/") || entry.FileInfo().IsDir()
}

// restoreEntryModTime applies the stored entry mtime to path, best-effort.
func restoreEntryModTime(path string, entry *zip.File) {
	if entry.Modified.IsZero() {
		return
	}

	_ = os.Chtimes(path, entry.Modified, entry.Modified)
}
