// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"fmt"

	"github.com/robalobalubob/vulkanRenderer-sub000/gfx"
	"github.com/robalobalubob/vulkanRenderer-sub000/gfx/vkr"
)

// NewMesh uploads indexed geometry into device local vertex and
// index buffers. The upload is synchronous, the mesh is drawable
// when the call returns.
func NewMesh(alloc *vkr.Allocator, data *MeshData) (*Mesh, error) {
	if data == nil || len(data.Vertices) == 0 || len(data.Indices) == 0 {
		return nil, fmt.Errorf("model: empty mesh data: %w", gfx.ErrInvalidUsage)
	}

	vertexBytes := VertexBytes(data.Vertices)
	vertexBuffer, err := alloc.CreateBuffer(uint(len(vertexBytes)), vkr.BufferUsageVertex, false)
	if err != nil {
		return nil, fmt.Errorf("vertex buffer: %w", err)
	}
	if err := alloc.UploadToBuffer(vertexBuffer, vertexBytes, 0); err != nil {
		vertexBuffer.Release()
		return nil, fmt.Errorf("vertex upload: %w", err)
	}

	indexBytes := IndexBytes(data.Indices)
	indexBuffer, err := alloc.CreateBuffer(uint(len(indexBytes)), vkr.BufferUsageIndex, false)
	if err != nil {
		vertexBuffer.Release()
		return nil, fmt.Errorf("index buffer: %w", err)
	}
	if err := alloc.UploadToBuffer(indexBuffer, indexBytes, 0); err != nil {
		vertexBuffer.Release()
		indexBuffer.Release()
		return nil, fmt.Errorf("index upload: %w", err)
	}

	return &Mesh{
		vertexBuffer: vertexBuffer,
		indexBuffer:  indexBuffer,
		indexCount:   uint32(len(data.Indices)),
	}, nil
}

// Mesh is geometry resident on the device, ready to bind and draw.
type Mesh struct {
	id           string
	vertexBuffer *vkr.Buffer
	indexBuffer  *vkr.Buffer
	indexCount   uint32
}

// ID returns the identifier the mesh was loaded under, empty for
// meshes built directly from data.
func (m *Mesh) ID() string {
	return m.id
}

// VertexBuffer returns the bound vertex buffer.
func (m *Mesh) VertexBuffer() *vkr.Buffer {
	return m.vertexBuffer
}

// IndexBuffer returns the bound index buffer.
func (m *Mesh) IndexBuffer() *vkr.Buffer {
	return m.indexBuffer
}

// IndexCount returns the number of indices to draw.
func (m *Mesh) IndexCount() uint32 {
	return m.indexCount
}

// Release frees both device buffers.
func (m *Mesh) Release() {
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
}
