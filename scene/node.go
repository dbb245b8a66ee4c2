// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scene

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// NewNode creates a standalone active node with an identity
// transform. Attach it with AddChild or SetParent.
func NewNode(name string) *Node {
	return &Node{
		name:       name,
		active:     true,
		transform:  NewTransform(),
		components: make(map[ComponentType]Component),
		worldDirty: true,
	}
}

// Node is one element of the scene tree. A node owns its children
// and its components; the parent reference is a non-owning backlink.
type Node struct {
	name   string
	active bool

	parent   *Node
	children []*Node

	components map[ComponentType]Component

	transform   Transform
	worldMatrix glm.Mat4
	worldDirty  bool
}

// Name returns the node name given at creation.
func (n *Node) Name() string {
	return n.name
}

// Active reports whether the node participates in updates.
func (n *Node) Active() bool {
	return n.active
}

// SetActive toggles the node. An inactive node's whole subtree is
// skipped by Update and by renderer traversal.
func (n *Node) SetActive(active bool) {
	n.active = active
}

// Parent returns the owning parent node, nil for roots.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the ordered child list. The slice is shared,
// callers must not modify it.
func (n *Node) Children() []*Node {
	return n.children
}

// Transform returns a mutable reference to the local transform and
// conservatively marks the world matrix of this node and every
// descendant dirty, since the caller may mutate through it.
func (n *Node) Transform() *Transform {
	n.markWorldDirty()
	return &n.transform
}

// AddChild claims ownership of child and appends it to the child
// list. Returns false when child is nil, is this node, is already a
// child of this node, or is an ancestor of this node (which would
// close a cycle). If child is attached elsewhere it is detached from
// its old parent first, so a node always has exactly one parent.
func (n *Node) AddChild(child *Node) bool {
	if child == nil || child == n {
		return false
	}
	if child.parent == n {
		return false
	}
	if n.isDescendantOf(child) {
		return false
	}

	if child.parent != nil {
		child.parent.detach(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	child.forceWorldDirty()
	return true
}

// RemoveChild releases and detaches child without destroying it.
// Returns false if child is not a child of this node.
func (n *Node) RemoveChild(child *Node) bool {
	if child == nil || child.parent != n {
		return false
	}
	n.detach(child)
	child.parent = nil
	child.forceWorldDirty()
	return true
}

// SetParent reattaches the node under parent; nil detaches it into a
// standalone root. Reparenting always detaches first, the tree can
// never become a graph.
func (n *Node) SetParent(parent *Node) bool {
	if parent == nil {
		if n.parent == nil {
			return false
		}
		return n.parent.RemoveChild(n)
	}
	return parent.AddChild(n)
}

func (n *Node) detach(child *Node) {
	for idx, c := range n.children {
		if c == child {
			n.children = append(n.children[:idx], n.children[idx+1:]...)
			return
		}
	}
}

func (n *Node) isDescendantOf(other *Node) bool {
	for cur := n.parent; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// AddComponent installs a component, keyed by its type id. When one
// of the same type is already present it is fully decommissioned via
// Destroy before the new instance is installed, both may reference
// shared scene level resources.
func (n *Node) AddComponent(c Component) {
	if c == nil {
		return
	}
	if old, ok := n.components[c.Type()]; ok {
		old.Destroy()
	}
	n.components[c.Type()] = c
}

// Component returns the component with the given type id, or nil.
func (n *Node) Component(t ComponentType) Component {
	return n.components[t]
}

// RemoveComponent destroys and removes the component with the given
// type id. Returns false if the node has none.
func (n *Node) RemoveComponent(t ComponentType) bool {
	c, ok := n.components[t]
	if !ok {
		return false
	}
	c.Destroy()
	delete(n.components, t)
	return true
}

// Update advances every enabled component by delta seconds, then
// recurses depth-first into the children in child-list order. An
// inactive node is a no-op, its subtree is not visited.
func (n *Node) Update(delta float64) {
	if !n.active {
		return
	}
	for _, c := range n.components {
		if c.Enabled() {
			c.Update(delta)
		}
	}
	for _, child := range n.children {
		child.Update(delta)
	}
}

// Walk visits the node and its subtree depth-first in child-list
// order, skipping inactive subtrees. The renderer records draws
// through this.
func (n *Node) Walk(visit func(*Node)) {
	if !n.active {
		return
	}
	visit(n)
	for _, child := range n.children {
		child.Walk(visit)
	}
}

// markWorldDirty invalidates the cached world matrix of the node and
// all descendants. A node that is already dirty short-circuits, its
// subtree was already marked when it transitioned.
func (n *Node) markWorldDirty() {
	if n.worldDirty {
		return
	}
	n.forceWorldDirty()
}

// forceWorldDirty marks unconditionally. Needed on reparenting where
// the node may already be dirty but the children must still pick up
// the new ancestor chain.
func (n *Node) forceWorldDirty() {
	n.worldDirty = true
	for _, child := range n.children {
		child.forceWorldDirty()
	}
}

// WorldMatrix returns the cached world matrix, recomputing it from
// the parent chain when dirty.
func (n *Node) WorldMatrix() glm.Mat4 {
	if n.worldDirty || n.transform.Dirty() {
		if n.parent != nil {
			n.worldMatrix = n.parent.WorldMatrix().Mul4(n.transform.Matrix())
		} else {
			n.worldMatrix = n.transform.Matrix()
		}
		n.worldDirty = false
	}
	return n.worldMatrix
}

// WorldPosition returns the translation part of the world matrix.
func (n *Node) WorldPosition() glm.Vec3 {
	m := n.WorldMatrix()
	return glm.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}
}

// WorldRotation is the product of ancestor rotations applied to the
// local rotation. It is computed along the parent chain on purpose,
// decomposing the world matrix would skew under non-uniform scale.
func (n *Node) WorldRotation() glm.Quat {
	if n.parent != nil {
		return n.parent.WorldRotation().Mul(n.transform.Rotation())
	}
	return n.transform.Rotation()
}

// WorldScale is the component-wise product of scales along the
// parent chain, same separate-channel reasoning as WorldRotation.
func (n *Node) WorldScale() glm.Vec3 {
	local := n.transform.Scale()
	if n.parent == nil {
		return local
	}
	parent := n.parent.WorldScale()
	return glm.Vec3{
		parent.X() * local.X(),
		parent.Y() * local.Y(),
		parent.Z() * local.Z(),
	}
}

// Destroy detaches the node from its parent, destroys all components
// and recursively destroys the owned subtree.
func (n *Node) Destroy() {
	if n.parent != nil {
		n.parent.detach(n)
		n.parent = nil
	}
	for t, c := range n.components {
		c.Destroy()
		delete(n.components, t)
	}
	children := n.children
	n.children = nil
	for _, child := range children {
		child.parent = nil
		child.Destroy()
	}
}
