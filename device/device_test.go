// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import "testing"

func TestScoreRejectsInvalidAndMissingExtensions(t *testing.T) {
	invalid := PhysicalDeviceInfo{Invalid: true}
	if Score(invalid, nil) >= 0 {
		t.Fatal("invalid device must score negative")
	}

	missing := PhysicalDeviceInfo{Extensions: []string{"VK_KHR_maintenance1"}}
	if Score(missing, []string{"VK_KHR_swapchain"}) >= 0 {
		t.Fatal("device without required extension must score negative")
	}
}

func TestScorePrefersDiscrete(t *testing.T) {
	integrated := PhysicalDeviceInfo{
		Extensions: []string{"VK_KHR_swapchain"},
		Memory:     16 * 1024 * 1024 * 1024,
	}
	discrete := PhysicalDeviceInfo{
		Extensions: []string{"VK_KHR_swapchain"},
		Discrete:   true,
		Memory:     2 * 1024 * 1024 * 1024,
	}

	required := []string{"VK_KHR_swapchain"}
	if Score(discrete, required) <= Score(integrated, required) {
		t.Fatal("discrete GPU with less memory should outrank integrated")
	}
}

func TestScoreRanksByMemory(t *testing.T) {
	small := PhysicalDeviceInfo{Discrete: true, Memory: 1 * 1024 * 1024 * 1024}
	large := PhysicalDeviceInfo{Discrete: true, Memory: 8 * 1024 * 1024 * 1024}
	if Score(large, nil) <= Score(small, nil) {
		t.Fatal("more memory should score higher")
	}
}

func TestSelectBest(t *testing.T) {
	infos := []PhysicalDeviceInfo{
		{Invalid: true},
		{Discrete: false, Memory: 4 * 1024 * 1024 * 1024},
		{Discrete: true, Memory: 4 * 1024 * 1024 * 1024},
	}
	if got := SelectBest(infos, nil); got != 2 {
		t.Fatalf("expected device 2, got %d", got)
	}

	if got := SelectBest([]PhysicalDeviceInfo{{Invalid: true}}, nil); got != -1 {
		t.Fatalf("expected -1 for no usable device, got %d", got)
	}

	if got := SelectBest(nil, nil); got != -1 {
		t.Fatalf("expected -1 for empty list, got %d", got)
	}
}
