// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package asset

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pierrec/lz4"
)

// NewBuilder creates a new Builder. Do not fill the Index in
// the header, it will be overwritten anyway.
func NewBuilder(header Header) (*Builder, error) {
	temp, err := os.MkdirTemp("", "assetBuilder")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTempFail, err)
	}
	builder := &Builder{
		tempDir: temp,
		header:  header,
	}
	// TODO: Not sure if this is a good place to clean up.
	// Measure if GC will take a hit later.
	runtime.SetFinalizer(builder, func(builder *Builder) {
		os.RemoveAll(builder.tempDir)
	})
	return builder, nil
}

type tempFile struct {

	// Name is the actual name of the file
	Name string

	// TempName is the temporary name given by the Builder
	TempName string

	// Size uncompressed
	Size int64

	// Compressed size on disk
	Compressed int64
}

// Builder is the high level builder for the archive format.
// Archives are versioned and cannot be appended to, this Builder
// is the way to create one. Whenever Add is called the data is
// compressed into a temporary dir, WriteTo finally bundles the
// pieces together with a computed index.
type Builder struct {
	io.WriterTo

	tempDir string
	header  Header
	serial  uint64

	mutex sync.Mutex
	files []tempFile
}

// Add appends data to the builder with a given name.
// Will block until lz4 finishes compression. Is safe
// to use concurrently in different goroutines.
func (b *Builder) Add(name string, data []byte) error {
	tempName := fmt.Sprintf("blob-%d", atomic.AddUint64(&b.serial, 1))
	f, err := os.Create(filepath.Join(b.tempDir, tempName))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTempFail, err)
	}
	defer f.Close()

	writer := lz4.NewWriter(f)
	written, err := io.Copy(writer, bytes.NewReader(data))
	if err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: %v", ErrTempFail, err)
	}
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTempFail, err)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.files = append(b.files, tempFile{
		Name:       name,
		TempName:   tempName,
		Size:       written,
		Compressed: info.Size(),
	})
	return nil
}

// WriteTo bundles and writes all of the files added to the Builder
// into an archive that is ready to use. The header is padded to its
// maximum expected size so file offsets are known before encoding.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	header := b.header
	for _, v := range b.files {
		header.Index = append(header.Index, IndexEntry{
			Name:           v.Name,
			Size:           v.Size,
			CompressedSize: v.Compressed,
		})
	}

	headerSpace := header.MaxExpectedSize()
	offset := int64(fixedHeaderLength) + headerSpace
	for idx := range header.Index {
		header.Index[idx].Offset = offset
		offset += header.Index[idx].CompressedSize
	}

	rawHeader, err := gobEncode(header)
	if err != nil {
		return 0, err
	}
	if int64(len(rawHeader)) > headerSpace {
		return 0, fmt.Errorf("header estimate too small: %d > %d", len(rawHeader), headerSpace)
	}
	rawHeader = append(rawHeader, make([]byte, headerSpace-int64(len(rawHeader)))...)

	var total int64
	for _, chunk := range [][]byte{Magic[:], int64ToBinary(headerSpace), rawHeader} {
		num, err := w.Write(chunk)
		total += int64(num)
		if err != nil {
			return total, err
		}
	}

	for _, v := range b.files {
		f, err := os.Open(filepath.Join(b.tempDir, v.TempName))
		if err != nil {
			return total, fmt.Errorf("%w: %v", ErrTempFail, err)
		}
		num, err := io.Copy(w, f)
		f.Close()
		total += num
		if err != nil {
			return total, err
		}
	}

	b.files = b.files[:0]
	return total, nil
}
