// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/robalobalubob/vulkanRenderer-sub000/asset"
	"github.com/robalobalubob/vulkanRenderer-sub000/gfx"
)

func TestLibraryUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "blob.bin")
	if err := os.WriteFile(name, []byte{0, 1, 2, 3}, 0644); err != nil {
		t.Fatal(err)
	}

	library := NewLibrary(nil, nil)
	if _, err := library.Load(name); !errors.Is(err, gfx.ErrInvalidUsage) {
		t.Fatalf("expected ErrInvalidUsage, got %v", err)
	}
}

func TestLibraryMissingFile(t *testing.T) {
	library := NewLibrary(nil, nil)
	if _, err := library.Load(filepath.Join(t.TempDir(), "absent.obj")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func testArchive(t *testing.T) *asset.Archive {
	t.Helper()
	builder, err := asset.NewBuilder(asset.Header{Author: "test", Version: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := builder.Add("present.bin", []byte("hello")); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := builder.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	archive, err := asset.Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	return archive
}

func TestLibraryArchiveMissingEntry(t *testing.T) {
	library := NewLibrary(nil, testArchive(t))
	if _, err := library.Load("absent.obj"); !errors.Is(err, asset.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestLibraryArchiveRead(t *testing.T) {
	// The entry is readable but has no importer for its extension,
	// so a successful archive read ends in ErrInvalidUsage.
	library := NewLibrary(nil, testArchive(t))
	if _, err := library.Load("present.bin"); !errors.Is(err, gfx.ErrInvalidUsage) {
		t.Fatalf("expected ErrInvalidUsage, got %v", err)
	}
}
