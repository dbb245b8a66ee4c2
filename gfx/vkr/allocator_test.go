// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"errors"
	"testing"

	vk "github.com/devblok/vulkan"

	"github.com/robalobalubob/vulkanRenderer-sub000/gfx"
)

func TestZeroSizedBufferRequest(t *testing.T) {
	a := &Allocator{}
	if _, err := a.CreateBuffer(0, BufferUsageVertex, true); !errors.Is(err, gfx.ErrInvalidUsage) {
		t.Errorf("expected invalid usage, got %v", err)
	}
}

func TestZeroSizedImageRequest(t *testing.T) {
	a := &Allocator{}
	if _, err := a.CreateImage(0, 16, vk.FormatR8g8b8a8Unorm, vk.ImageUsageSampledBit, true); !errors.Is(err, gfx.ErrInvalidUsage) {
		t.Errorf("expected invalid usage, got %v", err)
	}
	if _, err := a.CreateImage(16, 0, vk.FormatR8g8b8a8Unorm, vk.ImageUsageSampledBit, true); !errors.Is(err, gfx.ErrInvalidUsage) {
		t.Errorf("expected invalid usage, got %v", err)
	}
}

func TestEmptyUploadRequest(t *testing.T) {
	a := &Allocator{}
	if err := a.UploadToBuffer(nil, nil, 0); !errors.Is(err, gfx.ErrInvalidUsage) {
		t.Errorf("expected invalid usage, got %v", err)
	}
	if err := a.UploadToImage(nil, nil); !errors.Is(err, gfx.ErrInvalidUsage) {
		t.Errorf("expected invalid usage, got %v", err)
	}
}

func TestUploadOverflowRejected(t *testing.T) {
	a := &Allocator{}
	buf := &Buffer{size: 16, hostVisible: true}
	if err := a.UploadToBuffer(buf, make([]byte, 8), 12); !errors.Is(err, gfx.ErrInvalidUsage) {
		t.Errorf("expected invalid usage, got %v", err)
	}
}

func TestMapNonHostVisible(t *testing.T) {
	buf := &Buffer{hostVisible: false}
	if _, err := buf.Map(); !errors.Is(err, gfx.ErrInvalidUsage) {
		t.Errorf("expected invalid usage, got %v", err)
	}

	img := &Image{hostVisible: false}
	if _, err := img.Map(); !errors.Is(err, gfx.ErrInvalidUsage) {
		t.Errorf("expected invalid usage, got %v", err)
	}
}

func TestAPIErrorClasses(t *testing.T) {
	cases := []struct {
		name   string
		result vk.Result
		class  error
	}{
		{"success", vk.Success, nil},
		{"host oom", vk.ErrorOutOfHostMemory, gfx.ErrAllocationFailed},
		{"device oom", vk.ErrorOutOfDeviceMemory, gfx.ErrAllocationFailed},
		{"pool oom", vk.ErrorOutOfPoolMemory, gfx.ErrAllocationFailed},
		{"device lost", vk.ErrorDeviceLost, gfx.ErrDeviceLost},
	}

	for _, c := range cases {
		err := apiError("vk.Test()", c.result)
		if c.class == nil {
			if err != nil {
				t.Errorf("%s: expected nil, got %v", c.name, err)
			}
			continue
		}
		if !errors.Is(err, c.class) {
			t.Errorf("%s: expected %v class, got %v", c.name, c.class, err)
		}
	}
}

func TestBufferUsageFlags(t *testing.T) {
	if flags := BufferUsageVertex.flags(true); flags&vk.BufferUsageFlags(vk.BufferUsageTransferDstBit) != 0 {
		t.Error("host visible vertex buffer should not request transfer-dst")
	}
	if flags := BufferUsageVertex.flags(false); flags&vk.BufferUsageFlags(vk.BufferUsageTransferDstBit) == 0 {
		t.Error("device local vertex buffer must be a transfer destination")
	}
	if flags := BufferUsageStaging.flags(true); flags != vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit) {
		t.Error("staging buffers are transfer sources only")
	}
}

func TestStatsAccounting(t *testing.T) {
	a := &Allocator{}

	a.noteAlloc(256, statBuffer)
	a.noteAlloc(1024, statImage)
	a.noteAlloc(64, statBuffer)

	stats := a.Stats()
	if stats.BufferCount != 2 || stats.ImageCount != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.BytesInUse != 1344 {
		t.Errorf("unexpected bytes in use: %d", stats.BytesInUse)
	}
	if stats.Allocations != 3 {
		t.Errorf("unexpected lifetime allocations: %d", stats.Allocations)
	}

	a.noteFree(64, statBuffer)
	stats = a.Stats()
	if stats.BufferCount != 1 || stats.BytesInUse != 1280 {
		t.Errorf("unexpected stats after free: %+v", stats)
	}
	if stats.Allocations != 3 {
		t.Error("releases must not decrement lifetime allocations")
	}
}

func TestImageAspectSelection(t *testing.T) {
	if imageAspect(vk.FormatD16Unorm) != vk.ImageAspectFlags(vk.ImageAspectDepthBit) {
		t.Error("depth format must select the depth aspect")
	}
	if imageAspect(vk.FormatR8g8b8a8Unorm) != vk.ImageAspectFlags(vk.ImageAspectColorBit) {
		t.Error("color format must select the color aspect")
	}
}
