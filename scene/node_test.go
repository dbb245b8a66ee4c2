// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scene

import (
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"
)

func TestAddChildOwnership(t *testing.T) {
	c := qt.New(t)
	root := NewNode("root")
	child := NewNode("child")

	c.Assert(root.AddChild(child), qt.IsTrue)
	c.Assert(child.Parent(), qt.Equals, root)
	c.Assert(root.Children(), qt.HasLen, 1)

	// Attaching again is a no-op.
	c.Assert(root.AddChild(child), qt.IsFalse)
	c.Assert(root.Children(), qt.HasLen, 1)
}

func TestAddChildRejectsCycles(t *testing.T) {
	c := qt.New(t)
	a := NewNode("a")
	b := NewNode("b")
	d := NewNode("d")
	c.Assert(a.AddChild(b), qt.IsTrue)
	c.Assert(b.AddChild(d), qt.IsTrue)

	c.Assert(a.AddChild(a), qt.IsFalse)
	c.Assert(d.AddChild(a), qt.IsFalse)
	c.Assert(b.AddChild(a), qt.IsFalse)
	c.Assert(root(a), qt.Equals, root(d))
}

func root(n *Node) *Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

func TestReparentDetachesFirst(t *testing.T) {
	c := qt.New(t)
	a := NewNode("a")
	b := NewNode("b")
	child := NewNode("child")

	c.Assert(a.AddChild(child), qt.IsTrue)
	c.Assert(b.AddChild(child), qt.IsTrue)

	c.Assert(child.Parent(), qt.Equals, b)
	c.Assert(a.Children(), qt.HasLen, 0)
	c.Assert(b.Children(), qt.HasLen, 1)
}

func TestRemoveChild(t *testing.T) {
	c := qt.New(t)
	a := NewNode("a")
	child := NewNode("child")
	a.AddChild(child)

	c.Assert(a.RemoveChild(child), qt.IsTrue)
	c.Assert(child.Parent(), qt.IsNil)
	c.Assert(a.Children(), qt.HasLen, 0)
	c.Assert(a.RemoveChild(child), qt.IsFalse)
}

func TestRotatedParentMovesChildren(t *testing.T) {
	c := qt.New(t)
	rootNode := NewNode("root")
	left := NewNode("left")
	right := NewNode("right")
	rootNode.AddChild(left)
	rootNode.AddChild(right)

	left.Transform().SetPosition(glm.Vec3{-1.5, 0, 0})
	right.Transform().SetPosition(glm.Vec3{1.5, 0, 0})

	vecNear(c, left.WorldPosition(), glm.Vec3{-1.5, 0, 0})
	vecNear(c, right.WorldPosition(), glm.Vec3{1.5, 0, 0})

	rootNode.Transform().SetRotation(glm.QuatRotate(glm.DegToRad(90), glm.Vec3{0, 1, 0}))

	vecNear(c, left.WorldPosition(), glm.Vec3{0, 0, 1.5})
	vecNear(c, right.WorldPosition(), glm.Vec3{0, 0, -1.5})
}

func TestWorldMatrixCacheInvalidation(t *testing.T) {
	c := qt.New(t)
	parent := NewNode("parent")
	child := NewNode("child")
	grandchild := NewNode("grandchild")
	parent.AddChild(child)
	child.AddChild(grandchild)

	grandchild.Transform().SetPosition(glm.Vec3{0, 0, 1})
	vecNear(c, grandchild.WorldPosition(), glm.Vec3{0, 0, 1})

	// Moving an ancestor must reach every descendant's cache.
	parent.Transform().SetPosition(glm.Vec3{5, 0, 0})
	vecNear(c, grandchild.WorldPosition(), glm.Vec3{5, 0, 1})
}

func TestReparentInvalidatesWorldMatrix(t *testing.T) {
	c := qt.New(t)
	a := NewNode("a")
	b := NewNode("b")
	child := NewNode("child")
	a.Transform().SetPosition(glm.Vec3{1, 0, 0})
	b.Transform().SetPosition(glm.Vec3{0, 2, 0})

	a.AddChild(child)
	vecNear(c, child.WorldPosition(), glm.Vec3{1, 0, 0})

	b.AddChild(child)
	vecNear(c, child.WorldPosition(), glm.Vec3{0, 2, 0})
}

func TestWorldRotationAndScaleChainParents(t *testing.T) {
	c := qt.New(t)
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)

	parent.Transform().SetRotation(glm.QuatRotate(glm.DegToRad(45), glm.Vec3{0, 1, 0}))
	child.Transform().SetRotation(glm.QuatRotate(glm.DegToRad(45), glm.Vec3{0, 1, 0}))
	parent.Transform().SetScale(glm.Vec3{2, 1, 1})
	child.Transform().SetScale(glm.Vec3{3, 1, 1})

	want := glm.QuatRotate(glm.DegToRad(90), glm.Vec3{0, 1, 0})
	got := child.WorldRotation()
	rotated := got.Rotate(glm.Vec3{1, 0, 0})
	vecNear(c, rotated, want.Rotate(glm.Vec3{1, 0, 0}))

	vecNear(c, child.WorldScale(), glm.Vec3{6, 1, 1})
}

type countingComponent struct {
	enabled  bool
	updates  int
	destroys int
	delta    float64
}

var countingType = NextComponentType()

func (cc *countingComponent) Type() ComponentType { return countingType }
func (cc *countingComponent) Enabled() bool       { return cc.enabled }
func (cc *countingComponent) Update(delta float64) {
	cc.updates++
	cc.delta = delta
}
func (cc *countingComponent) Destroy() { cc.destroys++ }

func TestComponentLifecycle(t *testing.T) {
	c := qt.New(t)
	n := NewNode("n")
	first := &countingComponent{enabled: true}
	second := &countingComponent{enabled: true}

	n.AddComponent(first)
	c.Assert(n.Component(countingType), qt.Equals, Component(first))

	// Replacement destroys the old instance before installing.
	n.AddComponent(second)
	c.Assert(first.destroys, qt.Equals, 1)
	c.Assert(n.Component(countingType), qt.Equals, Component(second))

	c.Assert(n.RemoveComponent(countingType), qt.IsTrue)
	c.Assert(second.destroys, qt.Equals, 1)
	c.Assert(n.RemoveComponent(countingType), qt.IsFalse)
}

func TestUpdateSkipsDisabledAndInactive(t *testing.T) {
	c := qt.New(t)
	rootNode := NewNode("root")
	child := NewNode("child")
	rootNode.AddChild(child)

	enabled := &countingComponent{enabled: true}
	rootNode.AddComponent(enabled)
	disabled := &countingComponent{enabled: false}
	child.AddComponent(disabled)

	rootNode.Update(0.016)
	c.Assert(enabled.updates, qt.Equals, 1)
	c.Assert(enabled.delta, qt.Equals, 0.016)
	c.Assert(disabled.updates, qt.Equals, 0)

	// An inactive node's whole subtree is skipped.
	disabled.enabled = true
	child.SetActive(false)
	rootNode.Update(0.016)
	c.Assert(disabled.updates, qt.Equals, 0)

	child.SetActive(true)
	rootNode.Update(0.016)
	c.Assert(disabled.updates, qt.Equals, 1)
}

func TestWalkOrderAndInactiveSubtrees(t *testing.T) {
	c := qt.New(t)
	rootNode := NewNode("root")
	first := NewNode("first")
	second := NewNode("second")
	hidden := NewNode("hidden")
	rootNode.AddChild(first)
	rootNode.AddChild(second)
	second.AddChild(hidden)
	second.SetActive(false)

	var visited []string
	rootNode.Walk(func(n *Node) {
		visited = append(visited, n.Name())
	})
	c.Assert(visited, qt.DeepEquals, []string{"root", "first"})
}

func TestDestroyTearsDownSubtree(t *testing.T) {
	c := qt.New(t)
	rootNode := NewNode("root")
	child := NewNode("child")
	rootNode.AddChild(child)

	rootComp := &countingComponent{enabled: true}
	childComp := &countingComponent{enabled: true}
	rootNode.AddComponent(rootComp)
	child.AddComponent(childComp)

	rootNode.Destroy()
	c.Assert(rootComp.destroys, qt.Equals, 1)
	c.Assert(childComp.destroys, qt.Equals, 1)
	c.Assert(rootNode.Children(), qt.HasLen, 0)
	c.Assert(child.Parent(), qt.IsNil)
}

func TestComponentTypesAreUnique(t *testing.T) {
	c := qt.New(t)
	a := NextComponentType()
	b := NextComponentType()
	c.Assert(a == b, qt.IsFalse)
}
