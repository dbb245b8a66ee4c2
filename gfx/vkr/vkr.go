// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vkr implements the vulkan resource layer: the memory
// allocator facade, buffer and image wrappers and the synchronous
// staging transfer protocol. All allocation goes through Allocator,
// which is expected to be driven from the single rendering thread;
// only its statistics are safe to read concurrently.
package vkr

import (
	"fmt"
	"unsafe"

	vk "github.com/devblok/vulkan"

	"github.com/robalobalubob/vulkanRenderer-sub000/gfx"
)

// BufferUsage selects what a buffer created through the Allocator
// will be bound as.
type BufferUsage int

// Buffer usage kinds.
const (
	BufferUsageVertex BufferUsage = iota
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageStaging
)

// flags maps a usage kind to Vulkan usage bits. Device local buffers
// additionally get transfer-dst, they can only be filled through the
// staging path.
func (u BufferUsage) flags(hostVisible bool) vk.BufferUsageFlags {
	var usage vk.BufferUsageFlagBits
	switch u {
	case BufferUsageVertex:
		usage = vk.BufferUsageVertexBufferBit
	case BufferUsageIndex:
		usage = vk.BufferUsageIndexBufferBit
	case BufferUsageUniform:
		usage = vk.BufferUsageUniformBufferBit
	case BufferUsageStaging:
		return vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit)
	}
	if !hostVisible {
		usage |= vk.BufferUsageTransferDstBit
	}
	return vk.BufferUsageFlags(usage)
}

// Buffer wraps a vulkan buffer together with the memory backing it.
// Create through Allocator.CreateBuffer, free with Release.
type Buffer struct {
	alloc  *Allocator
	device vk.Device
	buffer vk.Buffer

	memory      Memory
	size        uint
	hostVisible bool
	mapped      unsafe.Pointer
}

// Get returns the vulkan Buffer handle.
func (b *Buffer) Get() vk.Buffer {
	return b.buffer
}

// Size returns the requested byte size of the buffer.
func (b *Buffer) Size() uint {
	return b.size
}

// HostVisible reports whether the buffer memory can be mapped.
func (b *Buffer) HostVisible() bool {
	return b.hostVisible
}

// Map returns a pointer to the mapped buffer memory. Only valid on
// host visible buffers. The mapping is created once and cached, all
// subsequent calls return the same pointer until Release.
func (b *Buffer) Map() (unsafe.Pointer, error) {
	if !b.hostVisible {
		return nil, fmt.Errorf("vkr: map of a non-host-visible buffer: %w", gfx.ErrInvalidUsage)
	}
	if b.mapped == nil {
		b.mapped = b.memory.Map()
	}
	return b.mapped, nil
}

// Bytes returns the mapped contents of a host visible buffer.
func (b *Buffer) Bytes() ([]byte, error) {
	ptr, err := b.Map()
	if err != nil {
		return nil, err
	}
	return *(*[]byte)(unsafe.Pointer(&sliceHeader{
		Data: uintptr(ptr),
		Len:  int(b.size),
		Cap:  int(b.size),
	})), nil
}

// Release destroys the buffer and the memory asociated with it,
// always both together. Unmaps first if a mapping is cached.
func (b *Buffer) Release() {
	if b.buffer == vk.NullBuffer {
		return
	}
	b.mapped = nil
	vk.DestroyBuffer(b.device, b.buffer, nil)
	b.memory.Release()
	b.buffer = vk.NullBuffer
	if b.alloc != nil {
		b.alloc.noteFree(uint64(b.memory.Len()), statBuffer)
	}
}

// Image wraps a vulkan image, its view and the memory backing them.
// The view is created as part of image creation, an Image without a
// valid view never escapes the Allocator.
type Image struct {
	alloc  *Allocator
	device vk.Device
	image  vk.Image
	view   vk.ImageView

	memory      Memory
	format      vk.Format
	width       uint32
	height      uint32
	hostVisible bool
	mapped      unsafe.Pointer
}

// Get returns the vulkan Image handle.
func (i *Image) Get() vk.Image {
	return i.image
}

// View returns the image view created alongside the image.
func (i *Image) View() vk.ImageView {
	return i.view
}

// Format returns the pixel format the image was created with.
func (i *Image) Format() vk.Format {
	return i.format
}

// Extent returns the image dimensions.
func (i *Image) Extent() gfx.Extent3D {
	return gfx.Extent3D{Width: uint(i.width), Height: uint(i.height), Depth: 1}
}

// HostVisible reports whether the image memory can be mapped.
func (i *Image) HostVisible() bool {
	return i.hostVisible
}

// Map returns a pointer to the mapped image memory. Only valid on
// host visible (linear tiling) images. Cached like Buffer.Map.
func (i *Image) Map() (unsafe.Pointer, error) {
	if !i.hostVisible {
		return nil, fmt.Errorf("vkr: map of a non-host-visible image: %w", gfx.ErrInvalidUsage)
	}
	if i.mapped == nil {
		i.mapped = i.memory.Map()
	}
	return i.mapped, nil
}

// Release destroys the view, the image and the memory asociated with
// them as one operation, never one without the other.
func (i *Image) Release() {
	if i.image == vk.NullImage {
		return
	}
	i.mapped = nil
	vk.DestroyImageView(i.device, i.view, nil)
	vk.DestroyImage(i.device, i.image, nil)
	i.memory.Release()
	i.image = vk.NullImage
	if i.alloc != nil {
		i.alloc.noteFree(uint64(i.memory.Len()), statImage)
	}
}

type sliceHeader struct {
	Data uintptr
	Len  int
	Cap  int
}

// memCopy copies src into the mapped region at dst.
func memCopy(dst unsafe.Pointer, src []byte) {
	out := *(*[]byte)(unsafe.Pointer(&sliceHeader{
		Data: uintptr(dst),
		Len:  len(src),
		Cap:  len(src),
	}))
	copy(out, src)
}
