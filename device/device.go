// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device collects information about the physical rendering
// devices present on the host and scores their suitability for the
// engine's pipeline.
package device

import (
	vk "github.com/devblok/vulkan"
)

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            int      `json:"id"`
	VendorID      int      `json:"vendorId"`
	DriverVersion int      `json:"driverVersion"`
	Name          string   `json:"name"`
	Discrete      bool     `json:"discrete"`
	Invalid       bool     `json:"invalid"`
	Extensions    []string `json:"extensions"`
	Layers        []string `json:"layers"`
	Memory        uint64   `json:"memoryBytes"`
}

// Collect gathers extension, layer, memory and identity info for one
// physical device. Enumeration failures mark the info Invalid
// instead of aborting, a partial report is still a report.
func Collect(phy vk.PhysicalDevice) PhysicalDeviceInfo {
	var pdi PhysicalDeviceInfo

	// Get extension info
	var numDeviceExtensions uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(phy, "", &numDeviceExtensions, nil)); err != nil {
		pdi.Invalid = true
	}
	deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(phy, "", &numDeviceExtensions, deviceExt)); err != nil {
		pdi.Invalid = true
	}
	for _, ext := range deviceExt {
		ext.Deref()
		pdi.Extensions = append(pdi.Extensions, vk.ToString(ext.ExtensionName[:]))
	}

	// Get layers info
	var numDeviceLayers uint32
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(phy, &numDeviceLayers, nil)); err != nil {
		pdi.Invalid = true
	}
	deviceLayers := make([]vk.LayerProperties, numDeviceLayers)
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(phy, &numDeviceLayers, deviceLayers)); err != nil {
		pdi.Invalid = true
	}
	for _, layer := range deviceLayers {
		layer.Deref()
		pdi.Layers = append(pdi.Layers, vk.ToString(layer.LayerName[:]))
	}

	// Get memory info
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(phy, &memoryProperties)
	memoryProperties.Deref()
	for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
		memoryProperties.MemoryHeaps[iMem].Deref()
		pdi.Memory += uint64(memoryProperties.MemoryHeaps[iMem].Size)
	}

	// Get general device info
	var physicalDeviceProperties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(phy, &physicalDeviceProperties)
	physicalDeviceProperties.Deref()
	pdi.ID = int(physicalDeviceProperties.DeviceID)
	pdi.VendorID = int(physicalDeviceProperties.VendorID)
	pdi.Name = vk.ToString(physicalDeviceProperties.DeviceName[:])
	pdi.DriverVersion = int(physicalDeviceProperties.DriverVersion)
	pdi.Discrete = physicalDeviceProperties.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu

	return pdi
}

// Score rates how suitable a device is for the rendering pipeline.
// A negative score means unusable: the info is invalid or a required
// extension is missing. Otherwise discrete GPUs rank above
// integrated ones and more device memory ranks higher.
func Score(pdi PhysicalDeviceInfo, requiredExtensions []string) int {
	if pdi.Invalid {
		return -1
	}
	for _, required := range requiredExtensions {
		if !hasExtension(pdi.Extensions, required) {
			return -1
		}
	}

	score := 0
	if pdi.Discrete {
		score += 1 << 20
	}
	// One point per 16 MiB keeps memory from outranking discreteness.
	score += int(pdi.Memory / (16 * 1024 * 1024))
	return score
}

// SelectBest returns the index of the highest scoring device, or -1
// when no device is usable.
func SelectBest(infos []PhysicalDeviceInfo, requiredExtensions []string) int {
	best, bestScore := -1, -1
	for idx, pdi := range infos {
		if score := Score(pdi, requiredExtensions); score > bestScore {
			best, bestScore = idx, score
		}
	}
	if bestScore < 0 {
		return -1
	}
	return best
}

func hasExtension(available []string, want string) bool {
	for _, ext := range available {
		if ext == want {
			return true
		}
	}
	return false
}
