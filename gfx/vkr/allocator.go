// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"fmt"
	"math"
	"sync"

	vk "github.com/devblok/vulkan"

	"github.com/robalobalubob/vulkanRenderer-sub000/gfx"
)

// Stats is a snapshot of allocator bookkeeping. BytesInUse counts the
// memory the driver actually assigned, which may exceed the requested
// sizes due to alignment.
type Stats struct {
	BufferCount int
	ImageCount  int
	BytesInUse  uint64

	// Allocations counts every successful allocation over the
	// allocator's lifetime, releases do not decrement it.
	Allocations uint64
}

type statKind int

const (
	statBuffer statKind = iota
	statImage
)

// NewAllocator creates the single point of GPU memory allocation.
// It owns a transfer command pool on the given queue family, used by
// the staging upload path. The queue must be transfer capable.
func NewAllocator(device vk.Device, phyDevice vk.PhysicalDevice, queue vk.Queue, queueFamilyIndex uint32) (*Allocator, error) {
	mem, err := NewMemoryAllocator(device, phyDevice)
	if err != nil {
		return nil, err
	}

	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: queueFamilyIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
	}

	var commandPool vk.CommandPool
	if ret := vk.CreateCommandPool(device, &cpci, nil, &commandPool); ret != vk.Success {
		return nil, apiError("vk.CreateCommandPool()", ret)
	}

	return &Allocator{
		device:      device,
		memory:      mem,
		queue:       queue,
		commandPool: commandPool,
	}, nil
}

// Allocator is the memory allocator facade. It creates buffers and
// images, tracks usage statistics and executes staged CPU to GPU
// transfers. Allocation calls are not reentrant, they belong to the
// rendering thread; Stats may be read from anywhere.
type Allocator struct {
	device      vk.Device
	memory      *MemoryAllocator
	queue       vk.Queue
	commandPool vk.CommandPool

	statLock sync.Mutex
	stats    Stats
}

// Stats returns a snapshot of the current allocation statistics.
func (a *Allocator) Stats() Stats {
	a.statLock.Lock()
	defer a.statLock.Unlock()
	return a.stats
}

func (a *Allocator) noteAlloc(bytes uint64, kind statKind) {
	a.statLock.Lock()
	defer a.statLock.Unlock()
	a.stats.BytesInUse += bytes
	a.stats.Allocations++
	if kind == statBuffer {
		a.stats.BufferCount++
	} else {
		a.stats.ImageCount++
	}
}

func (a *Allocator) noteFree(bytes uint64, kind statKind) {
	a.statLock.Lock()
	defer a.statLock.Unlock()
	a.stats.BytesInUse -= bytes
	if kind == statBuffer {
		a.stats.BufferCount--
	} else {
		a.stats.ImageCount--
	}
}

// CreateBuffer creates, allocates and binds a buffer of the given
// byte size. Host visible buffers land in host-coherent memory and
// can be mapped, device local ones are filled through UploadToBuffer.
func (a *Allocator) CreateBuffer(size uint, usage BufferUsage, hostVisible bool) (*Buffer, error) {
	if size == 0 {
		return nil, fmt.Errorf("vkr: zero sized buffer request: %w", gfx.ErrInvalidUsage)
	}

	bci := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage.flags(hostVisible),
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	if ret := vk.CreateBuffer(a.device, &bci, nil, &buffer); ret != vk.Success {
		return nil, apiError("vk.CreateBuffer()", ret)
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(a.device, buffer, &req)
	req.Deref()

	memory, err := a.memory.Malloc(req, memoryProperties(hostVisible))
	if err != nil {
		vk.DestroyBuffer(a.device, buffer, nil)
		return nil, err
	}

	if ret := vk.BindBufferMemory(a.device, buffer, memory.Get(), vk.DeviceSize(memory.Offset())); ret != vk.Success {
		vk.DestroyBuffer(a.device, buffer, nil)
		memory.Release()
		return nil, apiError("vk.BindBufferMemory()", ret)
	}

	a.noteAlloc(uint64(memory.Len()), statBuffer)
	return &Buffer{
		alloc:       a,
		device:      a.device,
		buffer:      buffer,
		memory:      memory,
		size:        size,
		hostVisible: hostVisible,
	}, nil
}

// CreateImage creates a 2D image, allocates and binds its memory and
// creates the matching view for shader access. View creation is an
// atomic part of the operation: if it fails the image and its memory
// are released and the whole call fails.
func (a *Allocator) CreateImage(width, height uint32, format vk.Format, usage vk.ImageUsageFlagBits, hostVisible bool) (*Image, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("vkr: zero sized image request: %w", gfx.ErrInvalidUsage)
	}

	tiling := vk.ImageTilingOptimal
	if hostVisible {
		tiling = vk.ImageTilingLinear
	}

	ici := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        tiling,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         vk.ImageUsageFlags(usage),
		SharingMode:   vk.SharingModeExclusive,
	}

	var image vk.Image
	if ret := vk.CreateImage(a.device, &ici, nil, &image); ret != vk.Success {
		return nil, apiError("vk.CreateImage()", ret)
	}

	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(a.device, image, &req)
	req.Deref()

	memory, err := a.memory.Malloc(req, memoryProperties(hostVisible))
	if err != nil {
		vk.DestroyImage(a.device, image, nil)
		return nil, err
	}

	if ret := vk.BindImageMemory(a.device, image, memory.Get(), vk.DeviceSize(memory.Offset())); ret != vk.Success {
		vk.DestroyImage(a.device, image, nil)
		memory.Release()
		return nil, apiError("vk.BindImageMemory()", ret)
	}

	ivci := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: imageAspect(format),
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	var view vk.ImageView
	if ret := vk.CreateImageView(a.device, &ivci, nil, &view); ret != vk.Success {
		vk.DestroyImage(a.device, image, nil)
		memory.Release()
		return nil, apiError("vk.CreateImageView()", ret)
	}

	a.noteAlloc(uint64(memory.Len()), statImage)
	return &Image{
		alloc:       a,
		device:      a.device,
		image:       image,
		view:        view,
		memory:      memory,
		format:      format,
		width:       width,
		height:      height,
		hostVisible: hostVisible,
	}, nil
}

// UploadToBuffer copies data into dst at the given byte offset. Host
// visible destinations are written through a cached mapping. Device
// local destinations go through a transient staging buffer and a
// transfer submission that is waited on before this call returns, so
// the data is observable by any subsequently submitted GPU work.
func (a *Allocator) UploadToBuffer(dst *Buffer, data []byte, offset uint) error {
	if dst == nil || len(data) == 0 {
		return fmt.Errorf("vkr: empty upload request: %w", gfx.ErrInvalidUsage)
	}
	if offset+uint(len(data)) > dst.size {
		return fmt.Errorf("vkr: upload of %d bytes at %d overflows buffer of %d: %w",
			len(data), offset, dst.size, gfx.ErrInvalidUsage)
	}

	if dst.hostVisible {
		region, err := dst.Bytes()
		if err != nil {
			return err
		}
		copy(region[offset:], data)
		return nil
	}

	staging, err := a.CreateBuffer(uint(len(data)), BufferUsageStaging, true)
	if err != nil {
		return err
	}
	defer staging.Release()

	if err := a.UploadToBuffer(staging, data, 0); err != nil {
		return err
	}

	return a.submitAndWait(func(cmd vk.CommandBuffer) {
		region := vk.BufferCopy{
			SrcOffset: 0,
			DstOffset: vk.DeviceSize(offset),
			Size:      vk.DeviceSize(len(data)),
		}
		vk.CmdCopyBuffer(cmd, staging.Get(), dst.Get(), 1, []vk.BufferCopy{region})
	})
}

// UploadToImage fills dst with tightly packed pixel data. The staging
// protocol matches UploadToBuffer; the image is additionally moved
// into shader-read-only layout as part of the same submission.
func (a *Allocator) UploadToImage(dst *Image, pixels []byte) error {
	if dst == nil || len(pixels) == 0 {
		return fmt.Errorf("vkr: empty upload request: %w", gfx.ErrInvalidUsage)
	}

	if dst.hostVisible {
		ptr, err := dst.Map()
		if err != nil {
			return err
		}
		memCopy(ptr, pixels)
		return nil
	}

	staging, err := a.CreateBuffer(uint(len(pixels)), BufferUsageStaging, true)
	if err != nil {
		return err
	}
	defer staging.Release()

	if err := a.UploadToBuffer(staging, pixels, 0); err != nil {
		return err
	}

	return a.submitAndWait(func(cmd vk.CommandBuffer) {
		recordImageBarrier(cmd, dst.Get(),
			vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)

		bic := vk.BufferImageCopy{
			ImageExtent: vk.Extent3D{
				Width:  dst.width,
				Height: dst.height,
				Depth:  1,
			},
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LayerCount: 1,
			},
		}
		vk.CmdCopyBufferToImage(cmd, staging.Get(), dst.Get(),
			vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{bic})

		recordImageBarrier(cmd, dst.Get(),
			vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	})
}

// submitAndWait runs record into a transient command buffer, submits
// it on the transfer queue and blocks on a fence until the GPU is
// done. The one-shot create, submit, wait, destroy shape is the whole
// staging protocol: transfers are synchronous from the caller's view.
func (a *Allocator) submitAndWait(record func(vk.CommandBuffer)) error {
	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		Level:              vk.CommandBufferLevelPrimary,
		CommandPool:        a.commandPool,
		CommandBufferCount: 1,
	}

	commandBuffers := make([]vk.CommandBuffer, 1)
	if ret := vk.AllocateCommandBuffers(a.device, &cbai, commandBuffers); ret != vk.Success {
		return apiError("vk.AllocateCommandBuffers()", ret)
	}
	cmd := commandBuffers[0]
	defer vk.FreeCommandBuffers(a.device, a.commandPool, 1, commandBuffers)

	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if ret := vk.BeginCommandBuffer(cmd, &cbbi); ret != vk.Success {
		return apiError("vk.BeginCommandBuffer()", ret)
	}

	record(cmd)

	if ret := vk.EndCommandBuffer(cmd); ret != vk.Success {
		return apiError("vk.EndCommandBuffer()", ret)
	}

	fci := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	var fence vk.Fence
	if ret := vk.CreateFence(a.device, &fci, nil, &fence); ret != vk.Success {
		return apiError("vk.CreateFence()", ret)
	}
	defer vk.DestroyFence(a.device, fence, nil)

	si := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmd},
	}
	if ret := vk.QueueSubmit(a.queue, 1, []vk.SubmitInfo{si}, fence); ret != vk.Success {
		return apiError("vk.QueueSubmit()", ret)
	}

	if ret := vk.WaitForFences(a.device, 1, []vk.Fence{fence}, vk.True, math.MaxUint64); ret != vk.Success {
		return apiError("vk.WaitForFences()", ret)
	}
	return nil
}

// Destroy releases the allocator owned command pool. Resources
// created through the allocator must be released before this.
func (a *Allocator) Destroy() {
	vk.DestroyCommandPool(a.device, a.commandPool, nil)
}

func memoryProperties(hostVisible bool) vk.MemoryPropertyFlagBits {
	if hostVisible {
		return vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit
	}
	return vk.MemoryPropertyDeviceLocalBit
}

func imageAspect(format vk.Format) vk.ImageAspectFlags {
	switch format {
	case vk.FormatD16Unorm, vk.FormatD32Sfloat, vk.FormatD16UnormS8Uint,
		vk.FormatD24UnormS8Uint, vk.FormatD32SfloatS8Uint:
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	default:
		return vk.ImageAspectFlags(vk.ImageAspectColorBit)
	}
}

func recordImageBarrier(cmd vk.CommandBuffer, img vk.Image, oldLayout, newLayout vk.ImageLayout) {
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	var srcStage, dstStage vk.PipelineStageFlags
	switch {
	case oldLayout == vk.ImageLayoutUndefined && newLayout == vk.ImageLayoutTransferDstOptimal:
		barrier.SrcAccessMask = 0
		barrier.DstAccessMask = vk.AccessFlags(vk.AccessTransferWriteBit)
		srcStage = vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)
		dstStage = vk.PipelineStageFlags(vk.PipelineStageTransferBit)
	case oldLayout == vk.ImageLayoutTransferDstOptimal && newLayout == vk.ImageLayoutShaderReadOnlyOptimal:
		barrier.SrcAccessMask = vk.AccessFlags(vk.AccessTransferWriteBit)
		barrier.DstAccessMask = vk.AccessFlags(vk.AccessShaderReadBit)
		srcStage = vk.PipelineStageFlags(vk.PipelineStageTransferBit)
		dstStage = vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit)
	default:
		srcStage = vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)
		dstStage = vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit)
	}

	vk.CmdPipelineBarrier(cmd, srcStage, dstStage, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
}
