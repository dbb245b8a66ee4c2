// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scene

import (
	"sync/atomic"
)

// ComponentType identifies a concrete component implementation. A
// node stores at most one component per type.
type ComponentType uint32

var componentTypeCounter uint32

// NextComponentType hands out a process-unique component type id.
// Component implementations grab one in a package level variable.
func NextComponentType() ComponentType {
	return ComponentType(atomic.AddUint32(&componentTypeCounter, 1))
}

// Component is behaviour attached to a scene node.
type Component interface {

	// Type returns the registered type id of the implementation.
	Type() ComponentType

	// Enabled reports whether Update should run on this component.
	Enabled() bool

	// Update advances the component by delta seconds.
	Update(delta float64)

	// Destroy releases anything the component holds. The node calls
	// it when the component is replaced, removed or the node dies.
	Destroy()
}
