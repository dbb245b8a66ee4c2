// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core contains the engine bootstrap: the Vulkan instance,
// the renderer with its frame lifecycle, and the services that
// drive the main loop.
package core

import (
	"unsafe"

	vk "github.com/devblok/vulkan"

	"github.com/robalobalubob/vulkanRenderer-sub000/device"
	"github.com/robalobalubob/vulkanRenderer-sub000/scene"
)

// Destroyable is anything that needs explicit teardown.
type Destroyable interface {
	Destroy()
}

// Instance describes a Vulkan instance and supporting methods.
// Once created it is ready to use.
type Instance interface {
	// PhysicalDevicesInfo returns a struct for each Physical Device
	// along with info about those devices
	PhysicalDevicesInfo() []device.PhysicalDeviceInfo

	// AvailableDevices returns handles of Physical Devices
	// from the Vulkan API
	AvailableDevices() []vk.PhysicalDevice

	// SetSurface sets the window surface for rendering
	SetSurface(unsafe.Pointer)

	// Surface returns the window surface, if it's not set
	// it should return a valid but empty surface
	Surface() vk.Surface

	// Instance returns the inner handle of the underlying API
	Instance() interface{}

	// Extensions returns enabled instance extensions
	Extensions() []string

	// Destroy destroys internal members
	Destroy()
}

// Renderer describes the rendering machinery.
// It's created only with internal values set,
// it needs to be initialised with Initialise() before use.
type Renderer interface {
	// Initialise sets up the configured rendering pipeline
	Initialise() error

	// DeviceIsSuitable checks if the device given is suitable
	// for the rendering pipeline. If not suitable string contains the reason
	DeviceIsSuitable(vk.PhysicalDevice) (bool, string)

	// SetScene points the renderer at the scene tree to draw
	SetScene(*scene.Node)

	// SetCamera sets the camera the view and projection come from
	SetCamera(*scene.Camera)

	// Draw records and submits one frame
	Draw() error

	// Present hands the drawn frame to the presentation engine
	// and advances to the next frame slot
	Present() error

	// Destroy destroys internal members
	Destroy()
}

// ShaderType represents the type of shader thats loaded
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	UnknownShaderType
)

// Shader is a wrapper around a compiled shader module.
type Shader interface {
	Type() ShaderType
	Name() string
	ShaderModule() interface{}
	Destroy()
}
