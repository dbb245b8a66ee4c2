// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scene

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// NewCamera builds a perspective camera with sane defaults, 45 degree
// vertical field of view and a 0.1 to 100 depth range.
func NewCamera() *Camera {
	return &Camera{
		transform: NewTransform(),
		fov:       glm.DegToRad(45),
		near:      0.1,
		far:       100,
	}
}

// Camera produces the view and projection matrices for a render pass.
// It carries its own transform so it can be parented into the scene
// tree through a node if desired.
type Camera struct {
	transform Transform

	fov  float32
	near float32
	far  float32
}

// Transform returns the camera's mutable transform.
func (c *Camera) Transform() *Transform {
	return &c.transform
}

// SetPerspective sets the vertical field of view in radians and the
// near and far clip distances.
func (c *Camera) SetPerspective(fov, near, far float32) {
	c.fov = fov
	c.near = near
	c.far = far
}

// ViewMatrix is the inverse of the camera's world matrix.
func (c *Camera) ViewMatrix() glm.Mat4 {
	if c.transform.Parent() != nil {
		return c.transform.WorldMatrix().Inv()
	}
	return c.transform.Inverse()
}

// ProjectionMatrix builds the perspective projection for the given
// aspect ratio. The Y axis is flipped for Vulkan clip space, GLM style
// projections assume the OpenGL convention.
func (c *Camera) ProjectionMatrix(aspect float32) glm.Mat4 {
	proj := glm.Perspective(c.fov, aspect, c.near, c.far)
	proj[5] *= -1
	return proj
}

// LookAt orients the camera toward target.
func (c *Camera) LookAt(target, up glm.Vec3) {
	c.transform.LookAt(target, up)
}
