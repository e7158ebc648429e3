// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Mibo5354
// Source: github.com/Mibo5354/android-external-zlib

/*
Package zipdir packs a directory tree into a ZIP archive and extracts a ZIP
archive into a directory, with selective inclusion via caller-supplied
filters. The container format and DEFLATE codec are delegated to archive/zip;
this package owns the traversal, filtering, relative-path derivation, and
safe-path enforcement around it.

# Packing

Zip a whole directory (hidden files excluded by default):

	if err := zipdir.ZipDirectory(ctx, "src/", "out.zip", false); err != nil {
	    return err
	}

Zip with a custom filter; rejecting a directory prunes its whole subtree:

	err := zipdir.ZipWithFilter(ctx, "src/", "out.zip", func(path string) bool {
	    return !strings.HasSuffix(path, ".tmp")
	})

Zip an explicit list of relative paths into an already-open writer.
The list bypasses traversal, the hidden-file rule, and any filter:

	err := zipdir.ZipFiles(ctx, "src/", []string{"a.txt", "sub/b.txt"}, w)

For full control build ZipParams yourself. The destination is exactly one of
a file path or an open writer, enforced by construction:

	res, err := zipdir.Zip(ctx, zipdir.ZipParams{
	    SrcDir:        "src/",
	    Dest:          zipdir.DestinationPath("out.zip"),
	    IncludeHidden: true,
	    OnEntryDone: func(p zipdir.ZipEntryProgress) {
	        // progress callback per written entry
	    },
	})
	_ = res.WrittenEntries

Rule-based filters compile gitignore-like patterns via
github.com/woozymasta/pathrules:

	filter, err := zipdir.NewRuleFilter([]pathrules.Rule{
	    {Action: pathrules.ActionInclude, Pattern: "*.txt"},
	    {Action: pathrules.ActionInclude, Pattern: "docs/**"},
	}, pathrules.MatcherOptions{
	    CaseInsensitive: true,
	    DefaultAction:   pathrules.ActionExclude,
	})

# Extracting

Extract everything:

	if err := zipdir.Unzip(ctx, "in.zip", "out/"); err != nil {
	    return err
	}

Extract selectively; rejected entries are skipped, not errors. An entry whose
path would escape the destination fails the whole operation before anything
of that entry touches disk:

	res, err := zipdir.UnzipWithOptions(ctx, "in.zip", "out/", zipdir.UnzipOptions{
	    Filter:         filter,
	    OnEntrySkipped: func(path string) { log.Printf("skipped %s", path) },
	})
	_ = res.SkippedEntries
*/
package zipdir
