// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package asset_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/exp/mmap"

	"github.com/robalobalubob/vulkanRenderer-sub000/asset"
)

var (
	testString1 = "idunvovkjnreovmegihjbrqlkmfrjnb"
	testString2 = "idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"
)

func buildTestArchive(t *testing.T) []byte {
	t.Helper()
	builder, err := asset.NewBuilder(asset.Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := builder.Add("test/test1.txt", []byte(testString1)); err != nil {
		t.Fatal(err)
	}
	if err := builder.Add("test/test2.txt", []byte(testString2)); err != nil {
		t.Fatal(err)
	}

	buf := bytes.NewBuffer([]byte{})
	if written, err := builder.WriteTo(buf); err != nil {
		t.Fatal(err)
	} else if written != int64(buf.Len()) {
		t.Fatalf("reported %d written, buffer has %d", written, buf.Len())
	}
	return buf.Bytes()
}

func TestSingleEntryArchive(t *testing.T) {
	builder, err := asset.NewBuilder(asset.Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := builder.Add("present.txt", []byte("hello")); err != nil {
		t.Fatal(err)
	}

	buf := bytes.NewBuffer([]byte{})
	if _, err := builder.WriteTo(buf); err != nil {
		t.Fatal(err)
	}

	ar, err := asset.Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	data, err := ar.ReadAll("present.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("contents do not match up: %q", data)
	}
}

func TestCreateAndRead(t *testing.T) {
	ar, err := asset.Open(bytes.NewReader(buildTestArchive(t)))
	if err != nil {
		t.Fatal(err)
	}

	f, err := ar.Open("test/test1.txt")
	if err != nil {
		t.Fatal(err)
	}
	if f.Size() != int64(len(testString1)) {
		t.Fatalf("bad uncompressed size: %d", f.Size())
	}

	result, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(result) != testString1 {
		t.Error("test string does not match up")
	}
}

func TestCreateAndReadAll(t *testing.T) {
	ar, err := asset.Open(bytes.NewReader(buildTestArchive(t)))
	if err != nil {
		t.Fatal(err)
	}

	for name, expected := range map[string]string{
		"test/test1.txt": testString1,
		"test/test2.txt": testString2,
	} {
		data, err := ar.ReadAll(name)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != expected {
			t.Errorf("%s: contents do not match up", name)
		}
	}
}

func TestOpenFromFileAndMmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opentest.vpk")
	if err := os.WriteFile(path, buildTestArchive(t), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	ar, err := asset.Open(f)
	if err != nil {
		t.Fatal(err)
	}
	if data, err := ar.ReadAll("test/test1.txt"); err != nil {
		t.Fatal(err)
	} else if string(data) != testString1 {
		t.Error("contents do not match up")
	}

	m, err := mmap.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	mar, err := asset.Open(m)
	if err != nil {
		t.Fatal(err)
	}
	if data, err := mar.ReadAll("test/test2.txt"); err != nil {
		t.Fatal(err)
	} else if string(data) != testString2 {
		t.Error("contents do not match up")
	}
}

func TestIndexAndStat(t *testing.T) {
	ar, err := asset.Open(bytes.NewReader(buildTestArchive(t)))
	if err != nil {
		t.Fatal(err)
	}

	names := ar.Index()
	if len(names) != 2 || names[0] != "test/test1.txt" || names[1] != "test/test2.txt" {
		t.Fatalf("bad index: %v", names)
	}

	entry, err := ar.Stat("test/test2.txt")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Size != int64(len(testString2)) {
		t.Fatalf("bad entry: %+v", entry)
	}

	if _, err := ar.Stat("missing"); !errors.Is(err, asset.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	garbage := []byte("this is definitely not an archive, far too short on magic")
	if _, err := asset.Open(bytes.NewReader(garbage)); !errors.Is(err, asset.ErrFileFormat) {
		t.Fatalf("expected ErrFileFormat, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	ar, err := asset.Open(bytes.NewReader(buildTestArchive(t)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ar.Open("nope"); !errors.Is(err, asset.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}
