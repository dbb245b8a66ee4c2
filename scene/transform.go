// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package scene implements the hierarchical scene graph: TRS
// transforms with cached matrices, nodes owning components and
// child nodes, and the camera.
package scene

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// NewTransform returns an identity transform.
func NewTransform() Transform {
	return Transform{
		rotation: glm.QuatIdent(),
		scale:    glm.Vec3{1, 1, 1},
		dirty:    true,
		invDirty: true,
	}
}

// Transform is local TRS state with a lazily cached matrix. The
// parent reference is non-owning: whoever links transforms must
// guarantee the parent outlives every child referencing it. This is
// a deliberate simplification, nodes carry the owning hierarchy.
type Transform struct {
	position glm.Vec3
	rotation glm.Quat
	scale    glm.Vec3

	parent *Transform

	matrix   glm.Mat4
	inverse  glm.Mat4
	dirty    bool
	invDirty bool
}

// Position returns the local position.
func (t *Transform) Position() glm.Vec3 {
	return t.position
}

// Rotation returns the local rotation.
func (t *Transform) Rotation() glm.Quat {
	return t.rotation
}

// Scale returns the local scale.
func (t *Transform) Scale() glm.Vec3 {
	return t.scale
}

// SetPosition replaces the local position.
func (t *Transform) SetPosition(pos glm.Vec3) {
	t.position = pos
	t.markDirty()
}

// SetRotation replaces the local rotation.
func (t *Transform) SetRotation(rot glm.Quat) {
	t.rotation = rot
	t.markDirty()
}

// SetScale replaces the local scale.
func (t *Transform) SetScale(scale glm.Vec3) {
	t.scale = scale
	t.markDirty()
}

// Translate moves the transform by delta in local space.
func (t *Transform) Translate(delta glm.Vec3) {
	t.position = t.position.Add(delta)
	t.markDirty()
}

// Rotate applies rot on top of the current rotation.
func (t *Transform) Rotate(rot glm.Quat) {
	t.rotation = rot.Mul(t.rotation)
	t.markDirty()
}

// ScaleBy multiplies the current scale component-wise.
func (t *Transform) ScaleBy(factor glm.Vec3) {
	t.scale = glm.Vec3{
		t.scale.X() * factor.X(),
		t.scale.Y() * factor.Y(),
		t.scale.Z() * factor.Z(),
	}
	t.markDirty()
}

// markDirty invalidates the caches unconditionally. Mutators never
// compare against the previous value first.
func (t *Transform) markDirty() {
	t.dirty = true
	t.invDirty = true
}

// Dirty reports whether the cached matrix needs recomputation.
func (t *Transform) Dirty() bool {
	return t.dirty
}

// LookAt orients the transform so its forward axis points from the
// current position at target. When the view direction is parallel to
// up the world Z axis is substituted, and the X axis if the view
// direction is the Z axis itself.
func (t *Transform) LookAt(target, up glm.Vec3) {
	dir := target.Sub(t.position)
	if dir.Len() == 0 {
		return
	}
	dir = dir.Normalize()

	if dir.Cross(up).Len() < 1e-6 {
		up = glm.Vec3{0, 0, 1}
		if dir.Cross(up).Len() < 1e-6 {
			up = glm.Vec3{1, 0, 0}
		}
	}

	t.rotation = glm.QuatLookAtV(t.position, target, up).Inverse()
	t.markDirty()
}

// Matrix returns the local transformation matrix, recomputing it as
// Translate * Rotate * Scale only when a mutator ran since the last
// call.
func (t *Transform) Matrix() glm.Mat4 {
	if t.dirty {
		t.matrix = glm.Translate3D(t.position.X(), t.position.Y(), t.position.Z()).
			Mul4(t.rotation.Mat4()).
			Mul4(glm.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z()))
		t.dirty = false
	}
	return t.matrix
}

// Inverse returns the inverse of the local matrix, cached separately.
func (t *Transform) Inverse() glm.Mat4 {
	if t.invDirty {
		m := t.Matrix()
		t.inverse = m.Inv()
		t.invDirty = false
	}
	return t.inverse
}

// SetParent links a non-owning parent transform, nil unlinks.
func (t *Transform) SetParent(parent *Transform) {
	t.parent = parent
}

// Parent returns the linked parent transform, may be nil.
func (t *Transform) Parent() *Transform {
	return t.parent
}

// WorldMatrix composes the parent chain on top of the local matrix.
func (t *Transform) WorldMatrix() glm.Mat4 {
	if t.parent != nil {
		return t.parent.WorldMatrix().Mul4(t.Matrix())
	}
	return t.Matrix()
}
