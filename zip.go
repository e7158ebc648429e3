// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Mibo5354
// Source: github.com/Mibo5354/android-external-zlib

package zipdir

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	// copyBufferPool reuses payload copy buffers between Zip/Unzip calls.
	copyBufferPool = sync.Pool{
		New: func() any {
			return new([copyBufferSize]byte)
		},
	}
)

// acquireCopyBuffer returns a reusable payload copy buffer and release callback.
func acquireCopyBuffer() ([]byte, func()) {
	arr := copyBufferPool.Get().(*[copyBufferSize]byte) //nolint:forcetypeassert // pool contains only fixed-size buffers
	buf := arr[:]

	return buf, func() {
		copyBufferPool.Put(arr)
	}
}

// Zip packs params.SrcDir into the destination archive. With an empty
// FilesToZip it traverses the source tree breadth-first and applies the
// hidden-file rule and Filter; a non-empty FilesToZip is packed verbatim.
// Any per-entry failure aborts the whole operation; for a path destination
// the partially written archive file is removed on failure.
func Zip(ctx context.Context, params ZipParams) (*ZipResult, error) {
	params.applyDefaults()

	if err := params.Dest.validate(); err != nil {
		return nil, err
	}

	if !params.Accessor.DirectoryExists(params.SrcDir) {
		return nil, fmt.Errorf("%w: %s", ErrSourceDirMissing, params.SrcDir)
	}

	if params.Dest.w != nil {
		return writeArchive(ctx, params.Dest.w, params)
	}

	f, err := os.OpenFile(params.Dest.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create archive %s: %w", params.Dest.path, err)
	}

	res, err := writeArchive(ctx, f, params)
	closeErr := f.Close()
	if err == nil && closeErr != nil {
		err = fmt.Errorf("close archive %s: %w", params.Dest.path, closeErr)
	}

	if err != nil {
		_ = os.Remove(params.Dest.path)
		return nil, err
	}

	return res, nil
}

// ZipDirectory packs srcDir into a new archive at destPath.
// Hidden files are excluded unless includeHidden is set.
func ZipDirectory(ctx context.Context, srcDir, destPath string, includeHidden bool) error {
	_, err := Zip(ctx, ZipParams{
		SrcDir:        srcDir,
		Dest:          DestinationPath(destPath),
		IncludeHidden: includeHidden,
	})

	return err
}

// ZipWithFilter packs srcDir into a new archive at destPath, including only
// entries accepted by filter. Rejecting a directory prunes its whole subtree.
func ZipWithFilter(ctx context.Context, srcDir, destPath string, filter Filter) error {
	_, err := Zip(ctx, ZipParams{
		SrcDir: srcDir,
		Dest:   DestinationPath(destPath),
		Filter: filter,
	})

	return err
}

// ZipFiles packs the explicit relative paths from srcDir into the already-open
// writer w. The list bypasses traversal, the hidden-file rule, and filtering.
func ZipFiles(ctx context.Context, srcDir string, relPaths []string, w io.Writer) error {
	_, err := Zip(ctx, ZipParams{
		SrcDir:     srcDir,
		Dest:       DestinationWriter(w),
		FilesToZip: relPaths,
	})

	return err
}

// writeArchive runs the pack core against an open destination writer.
func writeArchive(ctx context.Context, out io.Writer, params ZipParams) (*ZipResult, error) {
	start := time.Now()

	files := params.FilesToZip
	if len(files) == 0 {
		listed, err := listDirectoryTree(
			params.Accessor,
			params.SrcDir,
			composeZipFilter(params.IncludeHidden, params.Filter),
		)
		if err != nil {
			return nil, err
		}

		files = listed
	}

	buf, release := acquireCopyBuffer()
	defer release()

	zw := zip.NewWriter(out)
	res := &ZipResult{}
	for _, relPath := range files {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			return nil, err
		}

		written, isDir, err := addEntry(zw, params.Accessor, params.SrcDir, relPath, buf)
		if err != nil {
			_ = zw.Close()
			return nil, err
		}

		res.WrittenEntries++
		res.DataSize += written

		if params.OnEntryDone != nil {
			params.OnEntryDone(ZipEntryProgress{
				Path:    relPath,
				IsDir:   isDir,
				Written: written,
			})
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive writer: %w", err)
	}

	res.Duration = time.Since(start)
	return res, nil
}

// listDirectoryTree enumerates srcDir breadth-first and returns the relative
// paths accepted by filter, in discovery order. The queue is an appendable
// slice walked by index; directories discovered during processing join the
// tail, so one pass covers arbitrarily deep trees without recursion. The
// seed entry (the root itself) is never filtered and never emitted, and a
// rejected directory is pruned before its children are ever listed.
func listDirectoryTree(accessor FileAccessor, srcDir string, filter Filter) ([]string, error) {
	queue := []DirectoryEntry{{Path: srcDir, IsDir: true}}

	var files []string
	for idx := 0; idx < len(queue); idx++ {
		entry := queue[idx]

		if idx > 0 {
			relPath, err := filepath.Rel(srcDir, entry.Path)
			if err != nil {
				return nil, fmt.Errorf("relativize %s against %s: %w", entry.Path, srcDir, err)
			}

			if !filter(relPath) {
				continue
			}

			files = append(files, relPath)
		}

		if entry.IsDir {
			children, err := accessor.ListDirectory(entry.Path)
			if err != nil {
				return nil, err
			}

			queue = append(queue, children...)
		}
	}

	return files, nil
}

// addEntry writes one entry named by relPath into the archive: header with
// "/" separators and accessor mtime, then the file payload in fixed-size
// chunks. Directory entries carry a trailing "/" and no payload.
func addEntry(zw *zip.Writer, accessor FileAccessor, srcDir, relPath string, buf []byte) (int64, bool, error) {
	absPath := filepath.Join(srcDir, relPath)
	isDir := accessor.DirectoryExists(absPath)

	hdr := &zip.FileHeader{
		Name:   zipEntryName(relPath, isDir),
		Method: zip.Deflate,
	}
	if isDir {
		hdr.Method = zip.Store
	}

	// Missing mtime is not fatal, the entry keeps a zero timestamp.
	if modTime, err := accessor.ModTime(absPath); err == nil {
		hdr.Modified = modTime
	}

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return 0, isDir, fmt.Errorf("create entry %s: %w", hdr.Name, err)
	}

	if isDir {
		return 0, true, nil
	}

	rc, err := accessor.OpenForReading(absPath)
	if err != nil {
		return 0, false, fmt.Errorf("open source file %s: %w", absPath, err)
	}

	written, copyErr := copyChunked(w, rc, buf)
	closeErr := rc.Close()
	if copyErr != nil {
		return written, false, fmt.Errorf("write entry %s: %w", hdr.Name, copyErr)
	}

	if closeErr != nil {
		return written, false, fmt.Errorf("close source file %s: %w", absPath, closeErr)
	}

	return written, false, nil
}

// copyChunked copies src to dst in fixed-size chunks using the given buffer.
func copyChunked(dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	if len(buf) == 0 {
		return 0, io.ErrShortBuffer
	}

	var total int64
	for {
		readN, readErr := src.Read(buf)
		if readN > 0 {
			writeN, writeErr := dst.Write(buf[:readN])
			total += int64(writeN)

			if writeErr != nil {
				return total, writeErr
			}

			if writeN != readN {
				return total, io.ErrShortWrite
			}
		}

		if readErr == nil {
			continue
		}

		if readErr == io.EOF {
			return total, nil
		}

		return total, readErr
	}
}
