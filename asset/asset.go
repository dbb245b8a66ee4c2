// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package asset implements the engine's lz4 backed archive format.
// The archive itself is not compressed, every file in it is
// compressed individually, so a file can be located through the
// index and decompressed on the fly without touching its neighbors.
// That trades some space for read speed, which is the point: the
// format exists to stream resources from disk into a usable state as
// fast as possible. Archives are safe for concurrent reads and are
// laid out to be memory mapped.
package asset

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
)

// package errors
var (
	ErrFileFormat   = errors.New("corrupted or not an archive")
	ErrFileNotFound = errors.New("file not present in archive")
	ErrTempFail     = errors.New("temporary folder or file operation failed")
)

// Magic identifies an archive file.
var Magic = [4]byte{'V', 'P', 'K', '\x00'}

// fixedHeaderLength is the byte length of the fixed prefix: the
// magic followed by the padded header size as a little endian int64.
const fixedHeaderLength = 12

// IndexEntry is info for one file in the file index.
type IndexEntry struct {
	Name           string
	Offset         int64
	Size           int64
	CompressedSize int64
}

// Header is the archive header. The index carries absolute file
// offsets, readers never need to scan the data section.
type Header struct {
	Author      string
	DateCreated int64
	Version     int64
	Index       []IndexEntry
}

// MaxExpectedSize calculates the amount of space the encoded header
// could take. The header is padded to this size before the data
// section, so offsets can be computed before the final encode.
func (h *Header) MaxExpectedSize() int64 {
	var size int64
	size += int64(len(h.Author))
	size += 16 // DateCreated + Version
	// The one-time gob type descriptors for Header and IndexEntry
	// take just over 200 bytes regardless of entry count.
	size += 320
	for _, e := range h.Index {
		size += int64(len(e.Name))
		size += 24 // numbers
		size += 60
	}
	return size
}

func int64ToBinary(num int64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(num))
	return buf
}

func binaryToInt64(bts []byte) (int64, error) {
	if len(bts) < 8 {
		return 0, ErrFileFormat
	}
	return int64(binary.LittleEndian.Uint64(bts)), nil
}

func gobEncode(data interface{}) ([]byte, error) {
	var encoded bytes.Buffer
	if err := gob.NewEncoder(&encoded).Encode(data); err != nil {
		return nil, err
	}
	return encoded.Bytes(), nil
}

func gobDecode(obj interface{}, bts []byte) error {
	return gob.NewDecoder(bytes.NewReader(bts)).Decode(obj)
}
