// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Mibo5354
// Source: github.com/Mibo5354/android-external-zlib

package zipdir

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// archiveNames reads back entry names from a packed archive buffer.
func archiveNames(t *testing.T, data []byte) []string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read packed archive: %v", err)
	}

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	return names
}

// archiveEntryContent reads one entry payload from a packed archive buffer.
func archiveEntryContent(t *testing.T, data []byte, name string) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read packed archive: %v", err)
	}

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", name, err)
		}
		defer func() { _ = rc.Close() }()

		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read entry %s: %v", name, err)
		}

		return string(content)
	}

	t.Fatalf("entry %s not found in archive", name)
	return ""
}

func TestListDirectoryTree_RootExcluded(t *testing.T) {
	t.Parallel()

	m := newMemAccessor("/src", map[string]string{
		"a.txt":     "A",
		"sub/b.txt": "B",
	})

	files, err := listDirectoryTree(m, "/src", composeZipFilter(false, nil))
	if err != nil {
		t.Fatalf("listDirectoryTree: %v", err)
	}

	want := []string{"a.txt", "sub", filepath.Join("sub", "b.txt")}
	if len(files) != len(want) {
		t.Fatalf("files=%v, want %v", files, want)
	}

	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files[%d]=%q, want %q", i, files[i], want[i])
		}
	}

	for _, rel := range files {
		if rel == "" || rel == "." {
			t.Fatalf("root leaked into output as %q", rel)
		}
	}
}

func TestListDirectoryTree_BreadthFirstOrder(t *testing.T) {
	t.Parallel()

	m := newMemAccessor("/src", map[string]string{
		"d1/f1.txt":    "1",
		"d1/d2/f2.txt": "2",
		"z.txt":        "Z",
	})

	files, err := listDirectoryTree(m, "/src", composeZipFilter(false, nil))
	if err != nil {
		t.Fatalf("listDirectoryTree: %v", err)
	}

	// Root children first, then grandchildren, then deeper levels.
	want := []string{
		"d1",
		"z.txt",
		filepath.Join("d1", "d2"),
		filepath.Join("d1", "f1.txt"),
		filepath.Join("d1", "d2", "f2.txt"),
	}
	if len(files) != len(want) {
		t.Fatalf("files=%v, want %v", files, want)
	}

	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files[%d]=%q, want %q", i, files[i], want[i])
		}
	}
}

func TestListDirectoryTree_HiddenExclusion(t *testing.T) {
	t.Parallel()

	tree := map[string]string{
		"a.txt":          "A",
		".secret":        "S",
		"sub/.hidden":    "H",
		"sub/ok.txt":     "O",
		".git/config":    "C",
		"deep/x/.secret": "D",
	}

	m := newMemAccessor("/src", tree)
	files, err := listDirectoryTree(m, "/src", composeZipFilter(false, nil))
	if err != nil {
		t.Fatalf("listDirectoryTree: %v", err)
	}

	for _, rel := range files {
		if strings.Contains(rel, ".secret") || strings.Contains(rel, ".hidden") || strings.Contains(rel, ".git") {
			t.Fatalf("hidden entry %q leaked into output", rel)
		}
	}

	found := false
	for _, rel := range files {
		if rel == filepath.Join("sub", "ok.txt") {
			found = true
		}
	}
	if !found {
		t.Fatal("sibling of a hidden file must still be packed")
	}

	m = newMemAccessor("/src", tree)
	files, err = listDirectoryTree(m, "/src", composeZipFilter(true, nil))
	if err != nil {
		t.Fatalf("listDirectoryTree include hidden: %v", err)
	}

	wantHidden := []string{
		".secret",
		filepath.Join("sub", ".hidden"),
		filepath.Join(".git", "config"),
		filepath.Join("deep", "x", ".secret"),
	}
	for _, want := range wantHidden {
		found := false
		for _, rel := range files {
			if rel == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("hidden entry %q missing with include_hidden=true, got %v", want, files)
		}
	}
}

func TestListDirectoryTree_SubtreePruning(t *testing.T) {
	t.Parallel()

	m := newMemAccessor("/src", map[string]string{
		"keep.txt":         "K",
		"foo/bar.txt":      "B",
		"foo/deep/baz.txt": "Z",
	})

	filter := composeZipFilter(false, func(path string) bool {
		return NormalizePath(path) != "foo"
	})

	files, err := listDirectoryTree(m, "/src", filter)
	if err != nil {
		t.Fatalf("listDirectoryTree: %v", err)
	}

	if len(files) != 1 || files[0] != "keep.txt" {
		t.Fatalf("files=%v, want [keep.txt]", files)
	}

	prunedDir := filepath.Join("/src", "foo")
	for _, listed := range m.listed {
		if listed == prunedDir {
			t.Fatal("rejected directory must not be listed at all")
		}
	}
}

func TestZip_TraversalEntryNames(t *testing.T) {
	t.Parallel()

	m := newMemAccessor("/src", map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "bravo",
		"empty/":    "",
	})

	var buf bytes.Buffer
	res, err := Zip(context.Background(), ZipParams{
		SrcDir:   "/src",
		Dest:     DestinationWriter(&buf),
		Accessor: m,
	})
	if err != nil {
		t.Fatalf("Zip: %v", err)
	}

	names := archiveNames(t, buf.Bytes())
	want := []string{"a.txt", "empty/", "sub/", "sub/b.txt"}
	if len(names) != len(want) {
		t.Fatalf("names=%v, want %v", names, want)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names[%d]=%q, want %q", i, names[i], want[i])
		}
	}

	for _, name := range names {
		if strings.ContainsRune(name, '\\') {
			t.Fatalf("entry name %q contains a backslash", name)
		}
	}

	if got := archiveEntryContent(t, buf.Bytes(), "sub/b.txt"); got != "bravo" {
		t.Fatalf("sub/b.txt content=%q, want %q", got, "bravo")
	}

	if res.WrittenEntries != 4 {
		t.Fatalf("WrittenEntries=%d, want 4", res.WrittenEntries)
	}

	if res.DataSize != int64(len("alpha")+len("bravo")) {
		t.Fatalf("DataSize=%d, want %d", res.DataSize, len("alpha")+len("bravo"))
	}
}

func TestZip_ExplicitFilesBypassFilters(t *testing.T) {
	t.Parallel()

	m := newMemAccessor("/src", map[string]string{
		"a.txt":     "A",
		"sub/b.txt": "B",
		".hidden":   "H",
		"other.txt": "O",
	})

	var buf bytes.Buffer
	_, err := Zip(context.Background(), ZipParams{
		SrcDir:     "/src",
		Dest:       DestinationWriter(&buf),
		Accessor:   m,
		FilesToZip: []string{"a.txt", filepath.Join("sub", "b.txt"), ".hidden"},
		Filter:     func(string) bool { return false },
	})
	if err != nil {
		t.Fatalf("Zip explicit: %v", err)
	}

	names := archiveNames(t, buf.Bytes())
	want := []string{"a.txt", "sub/b.txt", ".hidden"}
	if len(names) != len(want) {
		t.Fatalf("names=%v, want %v", names, want)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names[%d]=%q, want %q", i, names[i], want[i])
		}
	}

	if len(m.listed) != 0 {
		t.Fatalf("explicit list must bypass traversal, listed=%v", m.listed)
	}
}

func TestZip_DestinationPreconditions(t *testing.T) {
	t.Parallel()

	m := newMemAccessor("/src", map[string]string{"a.txt": "A"})

	_, err := Zip(context.Background(), ZipParams{SrcDir: "/src", Accessor: m})
	if !errors.Is(err, ErrDestinationMissing) {
		t.Fatalf("expected ErrDestinationMissing, got %v", err)
	}

	var buf bytes.Buffer
	_, err = Zip(context.Background(), ZipParams{
		SrcDir:   "/src",
		Accessor: m,
		Dest:     Destination{path: "out.zip", w: &buf},
	})
	if !errors.Is(err, ErrDestinationConflict) {
		t.Fatalf("expected ErrDestinationConflict, got %v", err)
	}
}

func TestZip_SourceDirMissing(t *testing.T) {
	t.Parallel()

	m := newMemAccessor("/src", nil)

	var buf bytes.Buffer
	_, err := Zip(context.Background(), ZipParams{
		SrcDir:   "/nowhere",
		Dest:     DestinationWriter(&buf),
		Accessor: m,
	})
	if !errors.Is(err, ErrSourceDirMissing) {
		t.Fatalf("expected ErrSourceDirMissing, got %v", err)
	}
}

func TestZip_RemovesPartialArchiveOnFailure(t *testing.T) {
	t.Parallel()

	m := newMemAccessor("/src", map[string]string{
		"a.txt": "A",
		"b.txt": "B",
	})
	m.failOpen[filepath.Join("/src", "b.txt")] = true

	destPath := filepath.Join(t.TempDir(), "out.zip")
	_, err := Zip(context.Background(), ZipParams{
		SrcDir:   "/src",
		Dest:     DestinationPath(destPath),
		Accessor: m,
	})
	if err == nil {
		t.Fatal("expected failure from injected open error")
	}

	if _, statErr := os.Stat(destPath); !os.IsNotExist(statErr) {
		t.Fatalf("partial archive must be removed, stat err=%v", statErr)
	}
}

func TestZip_ContextCanceled(t *testing.T) {
	t.Parallel()

	m := newMemAccessor("/src", map[string]string{"a.txt": "A"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := Zip(ctx, ZipParams{
		SrcDir:   "/src",
		Dest:     DestinationWriter(&buf),
		Accessor: m,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestZip_OnEntryDone(t *testing.T) {
	t.Parallel()

	m := newMemAccessor("/src", map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "bravo",
	})

	var events []ZipEntryProgress
	var buf bytes.Buffer
	_, err := Zip(context.Background(), ZipParams{
		SrcDir:   "/src",
		Dest:     DestinationWriter(&buf),
		Accessor: m,
		OnEntryDone: func(entry ZipEntryProgress) {
			events = append(events, entry)
		},
	})
	if err != nil {
		t.Fatalf("Zip: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("len(events)=%d, want 3", len(events))
	}

	if events[0].Path != "a.txt" || events[0].IsDir || events[0].Written != int64(len("alpha")) {
		t.Fatalf("events[0]=%+v, want a.txt file with %d bytes", events[0], len("alpha"))
	}

	if events[1].Path != "sub" || !events[1].IsDir || events[1].Written != 0 {
		t.Fatalf("events[1]=%+v, want sub directory", events[1])
	}
}

func TestZipFiles_WriterDestination(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(srcDir, "sub"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("A"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "sub", "b.txt"), []byte("B"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var buf bytes.Buffer
	err := ZipFiles(context.Background(), srcDir, []string{"a.txt", filepath.Join("sub", "b.txt")}, &buf)
	if err != nil {
		t.Fatalf("ZipFiles: %v", err)
	}

	names := archiveNames(t, buf.Bytes())
	want := []string{"a.txt", "sub/b.txt"}
	if len(names) != len(want) {
		t.Fatalf("names=%v, want %v", names, want)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names[%d]=%q, want %q", i, names[i], want[i])
		}
	}
}
