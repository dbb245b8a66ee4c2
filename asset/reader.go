// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package asset

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4"
)

// Open opens the archive from r. It checks the magic before
// parsing, a file that is not an archive fails with ErrFileFormat.
// The returned Archive only keeps offsets and reads on demand, it
// is safe for concurrent use as long as r is.
func Open(r io.ReaderAt) (*Archive, error) {
	magic := make([]byte, len(Magic))
	if num, err := r.ReadAt(magic, 0); err != nil {
		return nil, err
	} else if num < len(Magic) || !bytes.Equal(magic, Magic[:]) {
		return nil, ErrFileFormat
	}

	headerSizeBytes := make([]byte, 8)
	if num, err := r.ReadAt(headerSizeBytes, int64(len(Magic))); err != nil {
		return nil, err
	} else if num < 8 {
		return nil, ErrFileFormat
	}

	headerSize, err := binaryToInt64(headerSizeBytes)
	if err != nil || headerSize <= 0 {
		return nil, ErrFileFormat
	}

	headerBytes := make([]byte, headerSize)
	if num, err := r.ReadAt(headerBytes, fixedHeaderLength); err != nil {
		return nil, err
	} else if int64(num) < headerSize {
		return nil, ErrFileFormat
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, ErrFileFormat
	}

	index := make(map[string]IndexEntry, len(header.Index))
	for _, entry := range header.Index {
		index[entry.Name] = entry
	}

	return &Archive{
		reader: r,
		header: header,
		index:  index,
	}, nil
}

// Archive provides concurrent io for an archive file, and can
// provide an io.Reader for each file separately to perform
// actions on.
type Archive struct {
	reader io.ReaderAt
	header Header
	index  map[string]IndexEntry
}

// Header returns the decoded archive header.
func (a *Archive) Header() Header {
	return a.header
}

// Index returns the names of all files in the archive in index
// order.
func (a *Archive) Index() []string {
	names := make([]string, 0, len(a.header.Index))
	for _, entry := range a.header.Index {
		names = append(names, entry.Name)
	}
	return names
}

// Stat returns the index entry for a file.
func (a *Archive) Stat(name string) (IndexEntry, error) {
	entry, ok := a.index[name]
	if !ok {
		return IndexEntry{}, ErrFileNotFound
	}
	return entry, nil
}

// Open returns a Reader that decompresses the named file on the fly.
func (a *Archive) Open(name string) (*Reader, error) {
	entry, ok := a.index[name]
	if !ok {
		return nil, ErrFileNotFound
	}
	section := io.NewSectionReader(a.reader, entry.Offset, entry.CompressedSize)
	return &Reader{
		entry:        entry,
		decompressor: lz4.NewReader(section),
	}, nil
}

// ReadAll returns the entire decompressed contents of a file with a
// given name.
func (a *Archive) ReadAll(name string) ([]byte, error) {
	reader, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, reader.Size())
	buf := bytes.NewBuffer(data)
	if _, err := io.Copy(buf, reader); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Reader is a reader for a single file in an Archive.
// Abstracts away the location that needs to be known.
type Reader struct {
	entry        IndexEntry
	decompressor *lz4.Reader
}

// Size returns the uncompressed size of the file.
func (r *Reader) Size() int64 {
	return r.entry.Size
}

// Read reads already decompressed data
func (r *Reader) Read(p []byte) (int, error) {
	return r.decompressor.Read(p)
}
