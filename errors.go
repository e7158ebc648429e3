// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Mibo5354
// Source: github.com/Mibo5354/android-external-zlib

package zipdir

import "errors"

// Sentinel errors for zip operations. Use errors.Is in callers.
var (
	// ErrSourceDirMissing means the source directory does not exist.
	ErrSourceDirMissing = errors.New("source directory does not exist")
	// ErrDestinationMissing means neither destination path nor writer is set.
	ErrDestinationMissing = errors.New("no destination set")
	// ErrDestinationConflict means both destination path and writer are set.
	ErrDestinationConflict = errors.New("destination path and writer are mutually exclusive")
	// ErrInvalidEntryPath means an entry path is empty or invalid after normalization.
	ErrInvalidEntryPath = errors.New("invalid entry path")
	// ErrUnsafeEntryPath means an archive entry path escapes the extraction directory.
	ErrUnsafeEntryPath = errors.New("entry path escapes destination directory")
	// ErrInvalidFilterRules means one or more filter rules are invalid.
	ErrInvalidFilterRules = errors.New("invalid filter rules")
)
