// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx defines rendering related contracts shared by the
// renderer, the memory subsystem and resource loaders.
package gfx

// Releasable defines any GPU-occupying item that can be freed.
// Once Release returns, both the API object and the memory that
// backed it are gone; the item must not be used afterwards.
type Releasable interface {

	// Release releases the API handle and the memory backing
	// the implementing structure, always together.
	Release()
}

// Resource describes a loaded rendering resource that can be
// uniquely identified, for example a mesh or a texture.
type Resource interface {
	Releasable

	// ID returns a resource id that uniquely identifies it,
	// usually the path or archive entry it was loaded from.
	ID() string
}

// Loader describes a resource loader mechanism.
type Loader interface {

	// Load tries to find and load the resource
	// asociated with the provided id.
	Load(id string) (Resource, error)
}

// Extent3D is an API-agnostic three dimensional size.
type Extent3D struct {
	Width  uint
	Height uint
	Depth  uint
}
