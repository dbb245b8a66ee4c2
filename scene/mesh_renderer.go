// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scene

import (
	"github.com/robalobalubob/vulkanRenderer-sub000/model"
)

// MeshRendererType identifies MeshRenderer components on a node.
var MeshRendererType = NextComponentType()

// NewMeshRenderer builds an enabled mesh renderer drawing mesh with
// the given texture. Either may be nil, the renderer skips incomplete
// entries during traversal.
func NewMeshRenderer(mesh *model.Mesh, texture *model.Texture) *MeshRenderer {
	return &MeshRenderer{
		mesh:    mesh,
		texture: texture,
		enabled: true,
	}
}

// MeshRenderer attaches drawable geometry to a node. It holds
// references only, the GPU resources belong to whoever created them.
type MeshRenderer struct {
	mesh    *model.Mesh
	texture *model.Texture
	enabled bool
}

// Type implements Component.
func (r *MeshRenderer) Type() ComponentType {
	return MeshRendererType
}

// Enabled implements Component.
func (r *MeshRenderer) Enabled() bool {
	return r.enabled
}

// SetEnabled toggles the component without detaching it.
func (r *MeshRenderer) SetEnabled(enabled bool) {
	r.enabled = enabled
}

// Update implements Component. Static geometry has nothing to tick.
func (r *MeshRenderer) Update(delta float64) {}

// Mesh returns the referenced mesh, may be nil.
func (r *MeshRenderer) Mesh() *model.Mesh {
	return r.mesh
}

// Texture returns the referenced texture, may be nil.
func (r *MeshRenderer) Texture() *model.Texture {
	return r.texture
}

// Destroy implements Component. References are dropped, not released,
// meshes and textures are typically shared across nodes.
func (r *MeshRenderer) Destroy() {
	r.mesh = nil
	r.texture = nil
}
