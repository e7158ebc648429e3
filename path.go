// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Mibo5354
// Source: github.com/Mibo5354/android-external-zlib

package zipdir

import (
	"path"
	"path/filepath"
	"strings"
)

// NormalizePath converts an archive/internal path to normalized slash-separated form.
// It trims spaces, accepts both "/" and "\", removes leading "./" and "/", and cleans "." segments.
func NormalizePath(raw string) string {
	raw = normalizePathForMatching(raw)
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// normalizePathForMatching normalizes user/input paths for matcher use.
func normalizePathForMatching(pathValue string) string {
	pathValue = strings.TrimSpace(pathValue)
	pathValue = strings.ReplaceAll(pathValue, `\`, `/`)
	pathValue = strings.TrimPrefix(pathValue, "./")
	return pathValue
}

// zipEntryName encodes a relative path as an archive entry name: "/" separators
// regardless of host conventions, trailing "/" for directories.
func zipEntryName(relPath string, isDir bool) string {
	name := filepath.ToSlash(relPath)
	if isDir && !strings.HasSuffix(name, "/") {
		name += "/"
	}

	return name
}

// normalizeEntryPath normalizes an archive entry path for extraction and
// rejects absolute or traversal inputs that would escape the destination.
func normalizeEntryPath(entryPath string) (string, error) {
	raw := strings.TrimSpace(entryPath)
	if raw == "" {
		return "", ErrInvalidEntryPath
	}
	if strings.ContainsRune(raw, 0) {
		return "", ErrInvalidEntryPath
	}
	if strings.HasPrefix(raw, `/`) || strings.HasPrefix(raw, `\`) {
		return "", ErrUnsafeEntryPath
	}

	raw = strings.ReplaceAll(raw, `\`, `/`)
	if hasWindowsAbsDrivePrefix(raw) {
		return "", ErrUnsafeEntryPath
	}

	parts := strings.Split(raw, `/`)
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrUnsafeEntryPath
		default:
			cleanParts = append(cleanParts, part)
		}
	}
	if len(cleanParts) == 0 {
		return "", ErrInvalidEntryPath
	}

	return strings.Join(cleanParts, `/`), nil
}

// hasWindowsAbsDrivePrefix reports whether path starts with drive-root prefix like C:/.
func hasWindowsAbsDrivePrefix(path string) bool {
	if len(path) < 3 {
		return false
	}

	return isASCIIAlpha(path[0]) && path[1] == ':' && path[2] == '/'
}

// isASCIIAlpha reports whether byte is ASCII latin letter.
func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
