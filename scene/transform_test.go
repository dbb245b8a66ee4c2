// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scene

import (
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-5

func vecNear(c *qt.C, got, want glm.Vec3) {
	c.Helper()
	if got.Sub(want).Len() > epsilon {
		c.Fatalf("vectors differ: got %v, want %v", got, want)
	}
}

func matNear(c *qt.C, got, want glm.Mat4) {
	c.Helper()
	for idx := range got {
		if math.Abs(float64(got[idx]-want[idx])) > epsilon {
			c.Fatalf("matrices differ at %d: got %v, want %v", idx, got, want)
		}
	}
}

func TestNewTransformIsIdentity(t *testing.T) {
	c := qt.New(t)
	tr := NewTransform()
	matNear(c, tr.Matrix(), glm.Ident4())
	c.Assert(tr.Dirty(), qt.IsFalse)
}

func TestMutatorsMarkDirty(t *testing.T) {
	c := qt.New(t)
	tr := NewTransform()
	tr.Matrix()
	c.Assert(tr.Dirty(), qt.IsFalse)

	tr.SetPosition(glm.Vec3{1, 2, 3})
	c.Assert(tr.Dirty(), qt.IsTrue)
	tr.Matrix()
	c.Assert(tr.Dirty(), qt.IsFalse)

	// Setting the same value again still invalidates, mutators do
	// not compare against the previous state.
	tr.SetPosition(glm.Vec3{1, 2, 3})
	c.Assert(tr.Dirty(), qt.IsTrue)
}

func TestMatrixComposition(t *testing.T) {
	c := qt.New(t)
	tr := NewTransform()
	tr.SetPosition(glm.Vec3{2, 0, 0})
	tr.SetRotation(glm.QuatRotate(glm.DegToRad(90), glm.Vec3{0, 1, 0}))
	tr.SetScale(glm.Vec3{2, 2, 2})

	// Scale then rotate then translate: (1,0,0) scales to (2,0,0),
	// rotates about Y to (0,0,-2), translates to (2,0,-2).
	p := tr.Matrix().Mul4x1(glm.Vec4{1, 0, 0, 1})
	vecNear(c, p.Vec3(), glm.Vec3{2, 0, -2})
}

func TestInverseCachedSeparately(t *testing.T) {
	c := qt.New(t)
	tr := NewTransform()
	tr.SetPosition(glm.Vec3{3, -1, 5})
	tr.SetScale(glm.Vec3{2, 2, 2})

	matNear(c, tr.Matrix().Mul4(tr.Inverse()), glm.Ident4())

	tr.Translate(glm.Vec3{0, 1, 0})
	matNear(c, tr.Matrix().Mul4(tr.Inverse()), glm.Ident4())
}

func TestLookAtDegenerateDirections(t *testing.T) {
	c := qt.New(t)
	tr := NewTransform()

	// View direction parallel to the default up axis.
	tr.LookAt(glm.Vec3{0, 1, 0}, glm.Vec3{0, 1, 0})
	m := tr.Matrix()
	for idx := range m {
		c.Assert(math.IsNaN(float64(m[idx])), qt.IsFalse)
	}

	// Zero-length direction is a no-op.
	before := tr.Rotation()
	tr.LookAt(glm.Vec3{0, 0, 0}, glm.Vec3{0, 1, 0})
	c.Assert(tr.Rotation(), qt.Equals, before)
}

func TestWorldMatrixChainsParents(t *testing.T) {
	c := qt.New(t)
	parent := NewTransform()
	parent.SetPosition(glm.Vec3{10, 0, 0})

	child := NewTransform()
	child.SetPosition(glm.Vec3{0, 5, 0})
	child.SetParent(&parent)

	p := child.WorldMatrix().Mul4x1(glm.Vec4{0, 0, 0, 1})
	vecNear(c, p.Vec3(), glm.Vec3{10, 5, 0})
}
