// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	vk "github.com/devblok/vulkan"

	"github.com/robalobalubob/vulkanRenderer-sub000/device"
	"github.com/robalobalubob/vulkanRenderer-sub000/gfx"
	"github.com/robalobalubob/vulkanRenderer-sub000/gfx/vkr"
	"github.com/robalobalubob/vulkanRenderer-sub000/model"
	"github.com/robalobalubob/vulkanRenderer-sub000/scene"
)

// MaxFramesInFlight is the number of frames the CPU may record ahead
// of the GPU. Each in-flight frame owns a full set of sync objects,
// a command buffer and a uniform buffer, so the CPU never writes
// state the GPU is still reading.
const MaxFramesInFlight = 2

// maxTextureSets bounds the per-texture descriptor cache.
const maxTextureSets = 128

// frameSlot holds everything one in-flight frame owns.
type frameSlot struct {
	commandBuffer  vk.CommandBuffer
	imageAvailable vk.Semaphore
	renderFinished vk.Semaphore
	inFlight       vk.Fence

	uniformBuffer *vkr.Buffer
	descriptorSet vk.DescriptorSet
}

// NewVulkanRenderer creates a not yet initialised Vulkan API renderer
func NewVulkanRenderer(instance Instance, cfg RendererConfiguration) (*VulkanRenderer, error) {
	devices := instance.AvailableDevices()
	if len(devices) == 0 {
		return nil, errors.New("no physical devices available")
	}
	best := device.SelectBest(instance.PhysicalDevicesInfo(), cfg.DeviceExtensions)
	if best < 0 {
		return nil, errors.New("no physical device satisfies the required device extensions")
	}
	return &VulkanRenderer{
		configuration:        cfg,
		currentSurfaceHeight: cfg.ScreenHeight,
		currentSurfaceWidth:  cfg.ScreenWidth,
		surface:              instance.Surface(),
		physicalDevice:       devices[best],
	}, nil
}

// VulkanRenderer is a Vulkan API renderer
type VulkanRenderer struct {
	configuration RendererConfiguration

	surface              vk.Surface
	shaders              []Shader
	currentSurfaceHeight uint32
	currentSurfaceWidth  uint32

	swapchain           vk.Swapchain
	swapchainImages     []vk.Image
	swapchainImageViews []vk.ImageView
	framebuffers        []vk.Framebuffer

	logicalDevice  vk.Device
	physicalDevice vk.PhysicalDevice
	deviceQueue    vk.Queue

	imageFormat     vk.Format
	imageColorspace vk.ColorSpace

	viewport vk.Viewport
	scissor  vk.Rect2D

	pipelineLayout vk.PipelineLayout
	pipeline       vk.Pipeline
	pipelineCache  vk.PipelineCache

	frameSetLayout   vk.DescriptorSetLayout
	textureSetLayout vk.DescriptorSetLayout
	descriptorPool   vk.DescriptorPool
	renderPass       vk.RenderPass

	depthImage       vk.Image
	depthImageView   vk.ImageView
	depthImageFormat vk.Format
	depthImageMemory vk.DeviceMemory

	commandPool vk.CommandPool

	allocator      *vkr.Allocator
	sampler        vk.Sampler
	defaultTexture *vkr.Image
	textureSets    map[vk.ImageView]vk.DescriptorSet

	frames         [MaxFramesInFlight]frameSlot
	frameIndex     int
	imageIndex     uint32
	frameSubmitted bool

	root   *scene.Node
	camera *scene.Camera

	graphicsQueueIndex uint32
}

// SetScene implements interface
func (v *VulkanRenderer) SetScene(root *scene.Node) {
	v.root = root
}

// SetCamera implements interface
func (v *VulkanRenderer) SetCamera(camera *scene.Camera) {
	v.camera = camera
}

// Allocator exposes the resource allocator, valid after Initialise.
func (v *VulkanRenderer) Allocator() *vkr.Allocator {
	return v.allocator
}

// Initialise implements interface
func (v *VulkanRenderer) Initialise() error {
	if err := v.selectQueueFamily(); err != nil {
		return err
	}

	/* Logical device */
	if err := v.createLogicalDevice(); err != nil {
		return err
	}

	/* Surface format */
	if err := v.selectSurfaceFormat(); err != nil {
		return err
	}

	/* Swapchain */
	if err := v.createSwapchain(nil); err != nil {
		return err
	}

	/* Viewport and scissors */
	v.createViewport()

	/* Depth image */
	if err := v.prepareDepthImage(); err != nil {
		return err
	}

	/* Descriptor layouts and pipeline layout */
	if err := v.createPipelineLayout(); err != nil {
		return err
	}

	/* Render pass */
	if err := v.createRenderPass(); err != nil {
		return err
	}

	/* Shaders */
	if err := v.loadShaders(); err != nil {
		return err
	}

	/* Pipeline cache */
	if err := v.createPipelineCache(); err != nil {
		return err
	}

	/* Pipeline */
	if err := v.createPipeline(); err != nil {
		return err
	}

	if err := v.createImageViews(); err != nil {
		return err
	}

	if err := v.createFramebuffers(); err != nil {
		return err
	}

	if err := v.createCommandPool(); err != nil {
		return err
	}

	/* Resource allocator */
	allocator, err := vkr.NewAllocator(v.logicalDevice, v.physicalDevice, v.deviceQueue, v.graphicsQueueIndex)
	if err != nil {
		return err
	}
	v.allocator = allocator

	if err := v.createSampler(); err != nil {
		return err
	}

	if err := v.createDefaultTexture(); err != nil {
		return err
	}

	if err := v.prepareDescriptorPool(); err != nil {
		return err
	}

	/* Frame slots */
	if err := v.createFrameSlots(); err != nil {
		return err
	}

	return nil
}

func (v *VulkanRenderer) selectQueueFamily() error {
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(v.physicalDevice, &queueFamilyCount, nil)
	if queueFamilyCount == 0 {
		return errors.New("vk.GetPhysicalDeviceQueueFamilyProperties(): no queue families on GPU")
	}
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(v.physicalDevice, &queueFamilyCount, queueFamilies)

	/* A single family that can do graphics and present keeps the
	   submission path simple */
	for idx := uint32(0); idx < queueFamilyCount; idx++ {
		queueFamilies[idx].Deref()
		if queueFamilies[idx].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) == 0 {
			continue
		}
		var supportsPresent vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(v.physicalDevice, idx, v.surface, &supportsPresent)
		if supportsPresent.B() {
			v.graphicsQueueIndex = idx
			return nil
		}
	}
	return errors.New("vulkan error: could not find a queue family with graphics and present support")
}

func (v *VulkanRenderer) createLogicalDevice() error {
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: v.graphicsQueueIndex,
		QueueCount:       1,
		PQueuePriorities: []float32{1},
	}}

	extensions := safeStrings(v.configuration.DeviceExtensions)

	var vkDevice vk.Device
	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}
	if err := vk.Error(vk.CreateDevice(v.physicalDevice, &dci, nil, &vkDevice)); err != nil {
		return errors.New("vk.CreateDevice(): " + err.Error())
	}

	var deviceQueue vk.Queue
	vk.GetDeviceQueue(vkDevice, v.graphicsQueueIndex, 0, &deviceQueue)

	v.deviceQueue = deviceQueue
	v.logicalDevice = vkDevice
	return nil
}

func (v *VulkanRenderer) selectSurfaceFormat() error {
	var surfaceFormatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(v.physicalDevice, v.surface, &surfaceFormatCount, nil)); err != nil {
		return errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}
	if surfaceFormatCount == 0 {
		return errors.New("vk.GetPhysicalDeviceSurfaceFormats(): surface has no formats")
	}
	surfaceFormats := make([]vk.SurfaceFormat, surfaceFormatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(v.physicalDevice, v.surface, &surfaceFormatCount, surfaceFormats)); err != nil {
		return errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}

	/* Prefer BGRA8 sRGB, fall back to whatever comes first */
	chosen := surfaceFormats[0]
	chosen.Deref()
	for _, format := range surfaceFormats {
		format.Deref()
		if format.Format == vk.FormatB8g8r8a8Unorm {
			chosen = format
			break
		}
	}
	v.imageFormat = chosen.Format
	v.imageColorspace = chosen.ColorSpace
	return nil
}

func (v *VulkanRenderer) createSwapchain(oldSwapchain vk.Swapchain) error {
	var surfaceCapabilities vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(v.physicalDevice, v.surface, &surfaceCapabilities)); err != nil {
		return errors.New("vk.GetPhysicalDeviceSurfaceCapabilities(): " + err.Error())
	}
	surfaceCapabilities.Deref()

	// In case swapchain is being recreated
	if oldSwapchain != nil {
		surfaceCapabilities.CurrentExtent.Deref()
		v.currentSurfaceHeight = surfaceCapabilities.CurrentExtent.Height
		v.currentSurfaceWidth = surfaceCapabilities.CurrentExtent.Width
		v.createViewport()
	}

	imageCount := clampImageCount(v.configuration.SwapchainSize,
		surfaceCapabilities.MinImageCount, surfaceCapabilities.MaxImageCount)

	compositeAlpha := vk.CompositeAlphaOpaqueBit
	for _, alphaFlag := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if surfaceCapabilities.SupportedCompositeAlpha&vk.CompositeAlphaFlags(alphaFlag) != 0 {
			compositeAlpha = alphaFlag
			break
		}
	}

	var swapchain vk.Swapchain
	scci := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         v.surface,
		MinImageCount:   imageCount,
		ImageFormat:     v.imageFormat,
		ImageColorSpace: v.imageColorspace,
		ImageExtent: vk.Extent2D{
			Width:  v.currentSurfaceWidth,
			Height: v.currentSurfaceHeight,
		},
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     vk.SurfaceTransformIdentityBit,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
		OldSwapchain:     oldSwapchain,
	}

	if err := vk.Error(vk.CreateSwapchain(v.logicalDevice, &scci, nil, &swapchain)); err != nil {
		return errors.New("vk.CreateSwapchain(): " + err.Error())
	}
	if oldSwapchain != nil {
		vk.DestroySwapchain(v.logicalDevice, oldSwapchain, nil)
	}
	v.swapchain = swapchain

	var numImages uint32
	if err := vk.Error(vk.GetSwapchainImages(v.logicalDevice, v.swapchain, &numImages, nil)); err != nil {
		return errors.New("vk.GetSwapchainImages(num): " + err.Error())
	}
	v.swapchainImages = make([]vk.Image, numImages)
	if err := vk.Error(vk.GetSwapchainImages(v.logicalDevice, v.swapchain, &numImages, v.swapchainImages)); err != nil {
		return errors.New("vk.GetSwapchainImages(images): " + err.Error())
	}
	return nil
}

func (v *VulkanRenderer) createViewport() {
	v.viewport = vk.Viewport{
		Width:    float32(v.currentSurfaceWidth),
		Height:   float32(v.currentSurfaceHeight),
		MinDepth: 0,
		MaxDepth: 1,
	}
	v.scissor = vk.Rect2D{
		Extent: vk.Extent2D{
			Width:  v.currentSurfaceWidth,
			Height: v.currentSurfaceHeight,
		},
	}
}

func (v *VulkanRenderer) prepareDepthImage() error {
	depthFormat := vk.FormatD16Unorm
	ici := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    depthFormat,
		Extent: vk.Extent3D{
			Width:  v.currentSurfaceWidth,
			Height: v.currentSurfaceHeight,
			Depth:  1,
		},
		MipLevels:   1,
		ArrayLayers: 1,
		Samples:     vk.SampleCount1Bit,
		Tiling:      vk.ImageTilingOptimal,
		Usage:       vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
	}

	var image vk.Image
	if err := vk.Error(vk.CreateImage(v.logicalDevice, &ici, nil, &image)); err != nil {
		return errors.New("vk.CreateImage(): " + err.Error())
	}

	var memoryRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(v.logicalDevice, image, &memoryRequirements)
	memoryRequirements.Deref()

	memoryType, err := v.getMemoryType(memoryRequirements.MemoryTypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return err
	}

	mai := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memoryRequirements.Size,
		MemoryTypeIndex: memoryType,
	}

	var memory vk.DeviceMemory
	if err := vk.Error(vk.AllocateMemory(v.logicalDevice, &mai, nil, &memory)); err != nil {
		return errors.New("vk.AllocateMemory(): " + err.Error())
	}

	if err := vk.Error(vk.BindImageMemory(v.logicalDevice, image, memory, 0)); err != nil {
		return errors.New("vk.BindImageMemory(): " + err.Error())
	}

	ivci := vk.ImageViewCreateInfo{
		SType:  vk.StructureTypeImageViewCreateInfo,
		Format: depthFormat,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectDepthBit),
			LevelCount: 1,
			LayerCount: 1,
		},
		ViewType: vk.ImageViewType2d,
		Image:    image,
	}

	var view vk.ImageView
	if err := vk.Error(vk.CreateImageView(v.logicalDevice, &ivci, nil, &view)); err != nil {
		return errors.New("vk.CreateImageView(): " + err.Error())
	}

	v.depthImage = image
	v.depthImageView = view
	v.depthImageMemory = memory
	v.depthImageFormat = depthFormat
	return nil
}

func (v *VulkanRenderer) createPipelineLayout() error {
	/* Set 0: per-frame uniform buffer */
	frameLayoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings: []vk.DescriptorSetLayoutBinding{{
			Binding:         0,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		}},
	}
	var frameSetLayout vk.DescriptorSetLayout
	if err := vk.Error(vk.CreateDescriptorSetLayout(v.logicalDevice, &frameLayoutInfo, nil, &frameSetLayout)); err != nil {
		return errors.New("vk.CreateDescriptorSetLayout(): " + err.Error())
	}
	v.frameSetLayout = frameSetLayout

	/* Set 1: per-texture sampler */
	textureLayoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings: []vk.DescriptorSetLayoutBinding{{
			Binding:         0,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		}},
	}
	var textureSetLayout vk.DescriptorSetLayout
	if err := vk.Error(vk.CreateDescriptorSetLayout(v.logicalDevice, &textureLayoutInfo, nil, &textureSetLayout)); err != nil {
		return errors.New("vk.CreateDescriptorSetLayout(): " + err.Error())
	}
	v.textureSetLayout = textureSetLayout

	/* Model matrix travels as a push constant */
	plci := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 2,
		PSetLayouts: []vk.DescriptorSetLayout{
			v.frameSetLayout,
			v.textureSetLayout,
		},
		PushConstantRangeCount: 1,
		PPushConstantRanges: []vk.PushConstantRange{{
			StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit),
			Offset:     0,
			Size:       uint32(unsafe.Sizeof(model.PushConstant{})),
		}},
	}

	var pipelineLayout vk.PipelineLayout
	if err := vk.Error(vk.CreatePipelineLayout(v.logicalDevice, &plci, nil, &pipelineLayout)); err != nil {
		return errors.New("vk.CreatePipelineLayout(): " + err.Error())
	}
	v.pipelineLayout = pipelineLayout
	return nil
}

func (v *VulkanRenderer) createRenderPass() error {
	attachments := []vk.AttachmentDescription{
		{
			Format:         v.imageFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpStore,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutPresentSrc,
		},
		{
			Format:         v.depthImageFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		},
	}

	colorAttachmentRef := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}
	depthAttachmentRef := &vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}

	subpassDependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
	}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    uint32(len(colorAttachmentRef)),
		PColorAttachments:       colorAttachmentRef,
		PDepthStencilAttachment: depthAttachmentRef,
	}

	rpci := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{subpassDependency},
	}

	var renderPass vk.RenderPass
	if err := vk.Error(vk.CreateRenderPass(v.logicalDevice, &rpci, nil, &renderPass)); err != nil {
		return errors.New("vk.CreateRenderPass(): " + err.Error())
	}
	v.renderPass = renderPass
	return nil
}

func (v *VulkanRenderer) loadShaders() error {
	var shaders []Shader
	shaderFiles, shaderTypes, err := loadShaderFilesFromDirectory(v.configuration.ShaderDirectory)
	if err != nil {
		return err
	}

	for idx, val := range shaderFiles {
		shader, err := NewVulkanShader(val, shaderTypes[idx], v.logicalDevice)
		if err != nil {
			return err
		}
		shaders = append(shaders, shader)
	}
	v.shaders = shaders
	return nil
}

func (v *VulkanRenderer) createPipelineCache() error {
	pcci := vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}

	var pipelineCache vk.PipelineCache
	if err := vk.Error(vk.CreatePipelineCache(v.logicalDevice, &pcci, nil, &pipelineCache)); err != nil {
		return errors.New("vk.CreatePipelineCache(): " + err.Error())
	}
	v.pipelineCache = pipelineCache
	return nil
}

func (v *VulkanRenderer) createPipeline() error {
	pipelineShaderStagesInfo := make([]vk.PipelineShaderStageCreateInfo, len(v.shaders))
	for idx, shader := range v.shaders {
		var stage vk.ShaderStageFlagBits
		switch shader.Type() {
		case VertexShaderType:
			stage = vk.ShaderStageVertexBit
		case FragmentShaderType:
			stage = vk.ShaderStageFragmentBit
		default:
			return errors.New("unsupported shader type attempted creation")
		}

		shaderModule, ok := shader.ShaderModule().(vk.ShaderModule)
		if !ok {
			return errors.New("failed to assert shader module to it's original type")
		}

		pipelineShaderStagesInfo[idx].SType = vk.StructureTypePipelineShaderStageCreateInfo
		pipelineShaderStagesInfo[idx].Stage = stage
		pipelineShaderStagesInfo[idx].Module = shaderModule
		pipelineShaderStagesInfo[idx].PName = "main\x00"
	}

	bindings := model.VertexBindingDescriptions()
	attributes := model.VertexAttributeDescriptions()

	gpci := []vk.GraphicsPipelineCreateInfo{{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(pipelineShaderStagesInfo)),
		PStages:    pipelineShaderStagesInfo,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount:   uint32(len(bindings)),
			PVertexBindingDescriptions:      bindings,
			VertexAttributeDescriptionCount: uint32(len(attributes)),
			PVertexAttributeDescriptions:    attributes,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: vk.PrimitiveTopologyTriangleList,
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    vk.CullModeFlags(vk.CullModeBackBit),
			FrontFace:   vk.FrontFaceCounterClockwise,
			LineWidth:   1.0,
		},
		PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
			SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:       vk.True,
			DepthWriteEnable:      vk.True,
			DepthCompareOp:        vk.CompareOpLessOrEqual,
			DepthBoundsTestEnable: vk.False,
			Back: vk.StencilOpState{
				FailOp:    vk.StencilOpKeep,
				PassOp:    vk.StencilOpKeep,
				CompareOp: vk.CompareOpAlways,
			},
			StencilTestEnable: vk.False,
			Front: vk.StencilOpState{
				FailOp:    vk.StencilOpKeep,
				PassOp:    vk.StencilOpKeep,
				CompareOp: vk.CompareOpAlways,
			},
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			AttachmentCount: 1,
			PAttachments: []vk.PipelineColorBlendAttachmentState{{
				ColorWriteMask: 0xF,
				BlendEnable:    vk.False,
			}},
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: 2,
			PDynamicStates: []vk.DynamicState{
				vk.DynamicStateScissor,
				vk.DynamicStateViewport,
			},
		},
		Layout:     v.pipelineLayout,
		RenderPass: v.renderPass,
	}}

	pipelines := make([]vk.Pipeline, len(gpci))
	if err := vk.Error(vk.CreateGraphicsPipelines(v.logicalDevice, v.pipelineCache, uint32(len(gpci)), gpci, nil, pipelines)); err != nil {
		return errors.New("vk.CreateGraphicsPipelines(): " + err.Error())
	}
	v.pipeline = pipelines[0]
	return nil
}

func (v *VulkanRenderer) createImageViews() error {
	for idx := 0; idx < len(v.swapchainImages); idx++ {
		ivci := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    v.swapchainImages[idx],
			ViewType: vk.ImageViewType2d,
			Format:   v.imageFormat,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}

		var imageView vk.ImageView
		if err := vk.Error(vk.CreateImageView(v.logicalDevice, &ivci, nil, &imageView)); err != nil {
			return fmt.Errorf("vk.CreateImageView()[%d]: %s", idx, err.Error())
		}
		v.swapchainImageViews = append(v.swapchainImageViews, imageView)
	}
	return nil
}

func (v *VulkanRenderer) createFramebuffers() error {
	for _, image := range v.swapchainImageViews {
		attachments := []vk.ImageView{
			image,
			v.depthImageView,
		}
		fci := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      v.renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           v.currentSurfaceWidth,
			Height:          v.currentSurfaceHeight,
			Layers:          1,
		}

		var framebuffer vk.Framebuffer
		if err := vk.Error(vk.CreateFramebuffer(v.logicalDevice, &fci, nil, &framebuffer)); err != nil {
			return errors.New("vk.CreateFramebuffer(): " + err.Error())
		}
		v.framebuffers = append(v.framebuffers, framebuffer)
	}
	return nil
}

func (v *VulkanRenderer) createCommandPool() error {
	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: v.graphicsQueueIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}

	var commandPool vk.CommandPool
	if err := vk.Error(vk.CreateCommandPool(v.logicalDevice, &cpci, nil, &commandPool)); err != nil {
		return errors.New("vk.CreateCommandPool(): " + err.Error())
	}
	v.commandPool = commandPool
	return nil
}

func (v *VulkanRenderer) createSampler() error {
	sci := vk.SamplerCreateInfo{
		SType:         vk.StructureTypeSamplerCreateInfo,
		MagFilter:     vk.FilterLinear,
		MinFilter:     vk.FilterLinear,
		MipmapMode:    vk.SamplerMipmapModeLinear,
		AddressModeU:  vk.SamplerAddressModeRepeat,
		AddressModeV:  vk.SamplerAddressModeRepeat,
		AddressModeW:  vk.SamplerAddressModeRepeat,
		MaxAnisotropy: 1,
	}

	var sampler vk.Sampler
	if err := vk.Error(vk.CreateSampler(v.logicalDevice, &sci, nil, &sampler)); err != nil {
		return errors.New("vk.CreateSampler(): " + err.Error())
	}
	v.sampler = sampler
	return nil
}

// createDefaultTexture uploads a single white pixel. Nodes without a
// texture sample this, the shader then shows pure vertex color.
func (v *VulkanRenderer) createDefaultTexture() error {
	img, err := v.allocator.CreateImage(1, 1, vk.FormatR8g8b8a8Unorm,
		vk.ImageUsageSampledBit|vk.ImageUsageTransferDstBit, false)
	if err != nil {
		return err
	}
	if err := v.allocator.UploadToImage(img, []byte{0xff, 0xff, 0xff, 0xff}); err != nil {
		img.Release()
		return err
	}
	v.defaultTexture = img
	return nil
}

func (v *VulkanRenderer) prepareDescriptorPool() error {
	dpci := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       MaxFramesInFlight + maxTextureSets,
		PoolSizeCount: 2,
		PPoolSizes: []vk.DescriptorPoolSize{{
			Type:            vk.DescriptorTypeUniformBuffer,
			DescriptorCount: MaxFramesInFlight,
		}, {
			Type:            vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: maxTextureSets,
		}},
	}

	var descriptorPool vk.DescriptorPool
	if err := vk.Error(vk.CreateDescriptorPool(v.logicalDevice, &dpci, nil, &descriptorPool)); err != nil {
		return errors.New("vk.CreateDescriptorPool(): " + err.Error())
	}
	v.descriptorPool = descriptorPool
	v.textureSets = make(map[vk.ImageView]vk.DescriptorSet)
	return nil
}

// createFrameSlots builds the per-frame command buffer, sync objects,
// uniform buffer and descriptor set. Fences start signaled so the
// first Draw of each slot does not wait forever.
func (v *VulkanRenderer) createFrameSlots() error {
	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        v.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: MaxFramesInFlight,
	}
	commandBuffers := make([]vk.CommandBuffer, MaxFramesInFlight)
	if err := vk.Error(vk.AllocateCommandBuffers(v.logicalDevice, &cbai, commandBuffers)); err != nil {
		return errors.New("vk.AllocateCommandBuffers(): " + err.Error())
	}

	sci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	fci := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}

	uniformSize := uint(unsafe.Sizeof(model.Uniform{}))

	for idx := range v.frames {
		slot := &v.frames[idx]
		slot.commandBuffer = commandBuffers[idx]

		if err := vk.Error(vk.CreateSemaphore(v.logicalDevice, &sci, nil, &slot.imageAvailable)); err != nil {
			return errors.New("vk.CreateSemaphore(): " + err.Error())
		}
		if err := vk.Error(vk.CreateSemaphore(v.logicalDevice, &sci, nil, &slot.renderFinished)); err != nil {
			return errors.New("vk.CreateSemaphore(): " + err.Error())
		}
		if err := vk.Error(vk.CreateFence(v.logicalDevice, &fci, nil, &slot.inFlight)); err != nil {
			return errors.New("vk.CreateFence(): " + err.Error())
		}

		uniform, err := v.allocator.CreateBuffer(uniformSize, vkr.BufferUsageUniform, true)
		if err != nil {
			return err
		}
		slot.uniformBuffer = uniform

		dsai := vk.DescriptorSetAllocateInfo{
			SType:              vk.StructureTypeDescriptorSetAllocateInfo,
			DescriptorPool:     v.descriptorPool,
			DescriptorSetCount: 1,
			PSetLayouts:        []vk.DescriptorSetLayout{v.frameSetLayout},
		}
		var set vk.DescriptorSet
		if err := vk.Error(vk.AllocateDescriptorSets(v.logicalDevice, &dsai, &set)); err != nil {
			return errors.New("vk.AllocateDescriptorSets(): " + err.Error())
		}
		slot.descriptorSet = set

		vk.UpdateDescriptorSets(v.logicalDevice, 1, []vk.WriteDescriptorSet{{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      0,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			PBufferInfo: []vk.DescriptorBufferInfo{{
				Buffer: uniform.Get(),
				Offset: 0,
				Range:  vk.DeviceSize(uniformSize),
			}},
		}}, 0, nil)
	}
	return nil
}

// textureSet returns the cached descriptor set for a texture view,
// allocating and writing it on first use.
func (v *VulkanRenderer) textureSet(view vk.ImageView) (vk.DescriptorSet, error) {
	if set, ok := v.textureSets[view]; ok {
		return set, nil
	}
	if len(v.textureSets) >= maxTextureSets {
		return nil, fmt.Errorf("texture descriptor budget exhausted: %w", gfx.ErrAllocationFailed)
	}

	dsai := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     v.descriptorPool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{v.textureSetLayout},
	}
	var set vk.DescriptorSet
	if err := vk.Error(vk.AllocateDescriptorSets(v.logicalDevice, &dsai, &set)); err != nil {
		return nil, errors.New("vk.AllocateDescriptorSets(): " + err.Error())
	}

	vk.UpdateDescriptorSets(v.logicalDevice, 1, []vk.WriteDescriptorSet{{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set,
		DstBinding:      0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		PImageInfo: []vk.DescriptorImageInfo{{
			Sampler:     v.sampler,
			ImageView:   view,
			ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
		}},
	}}, 0, nil)

	v.textureSets[view] = set
	return set, nil
}

// updateUniform writes the camera matrices into the slot's host
// visible uniform buffer through its cached mapping.
func (v *VulkanRenderer) updateUniform(slot *frameSlot) error {
	aspect := float32(v.currentSurfaceWidth) / float32(v.currentSurfaceHeight)
	uniform := model.Uniform{
		View:       v.camera.ViewMatrix(),
		Projection: v.camera.ProjectionMatrix(aspect),
	}

	dst, err := slot.uniformBuffer.Bytes()
	if err != nil {
		return err
	}
	src := (*[unsafe.Sizeof(model.Uniform{})]byte)(unsafe.Pointer(&uniform))[:]
	copy(dst, src)
	return nil
}

// Draw implements interface. It waits for the current frame slot's
// fence, acquires a swapchain image, records the scene into the
// slot's command buffer and submits it. The matching Present hands
// the image to the presentation engine.
func (v *VulkanRenderer) Draw() error {
	if v.camera == nil {
		return fmt.Errorf("no camera set: %w", gfx.ErrInvalidUsage)
	}
	slot := &v.frames[v.frameIndex]

	vk.WaitForFences(v.logicalDevice, 1, []vk.Fence{slot.inFlight}, vk.True, math.MaxUint64)

	acquired := false
	for attempt := 0; attempt < 2 && !acquired; attempt++ {
		switch result := vk.AcquireNextImage(v.logicalDevice, v.swapchain, math.MaxUint64, slot.imageAvailable, nil, &v.imageIndex); result {
		case vk.Success, vk.Suboptimal:
			acquired = true
		case vk.ErrorOutOfDate:
			if err := v.recreateSwapchain(); err != nil {
				return err
			}
		case vk.ErrorDeviceLost:
			return fmt.Errorf("vk.AcquireNextImage(): %w", gfx.ErrDeviceLost)
		default:
			return errors.New("vk.AcquireNextImage(): " + vk.Error(result).Error())
		}
	}
	if !acquired {
		v.frameSubmitted = false
		return nil
	}

	if err := v.updateUniform(slot); err != nil {
		return err
	}

	if err := v.recordFrame(slot); err != nil {
		return err
	}

	vk.ResetFences(v.logicalDevice, 1, []vk.Fence{slot.inFlight})

	submit := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{slot.imageAvailable},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{slot.commandBuffer},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{slot.renderFinished},
	}}

	switch result := vk.QueueSubmit(v.deviceQueue, 1, submit, slot.inFlight); result {
	case vk.Success:
	case vk.ErrorDeviceLost:
		return fmt.Errorf("vk.QueueSubmit(): %w", gfx.ErrDeviceLost)
	default:
		return errors.New("vk.QueueSubmit(): " + vk.Error(result).Error())
	}

	v.frameSubmitted = true
	return nil
}

// recordFrame re-records the slot's command buffer: render pass,
// pipeline, per-frame descriptor set, then a depth-first walk of the
// scene pushing each node's world matrix as a push constant.
func (v *VulkanRenderer) recordFrame(slot *frameSlot) error {
	if err := vk.Error(vk.ResetCommandBuffer(slot.commandBuffer, 0)); err != nil {
		return errors.New("vk.ResetCommandBuffer(): " + err.Error())
	}

	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(vk.BeginCommandBuffer(slot.commandBuffer, &cbbi)); err != nil {
		return errors.New("vk.BeginCommandBuffer(): " + err.Error())
	}

	clearValues := make([]vk.ClearValue, 2)
	clearValues[0].SetColor([]float32{0.05, 0.05, 0.05, 1})
	clearValues[1].SetDepthStencil(1, 0)

	rpbi := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  v.renderPass,
		Framebuffer: v.framebuffers[v.imageIndex],
		RenderArea: vk.Rect2D{
			Extent: vk.Extent2D{
				Width:  v.currentSurfaceWidth,
				Height: v.currentSurfaceHeight,
			},
		},
		ClearValueCount: 2,
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(slot.commandBuffer, &rpbi, vk.SubpassContentsInline)
	vk.CmdBindPipeline(slot.commandBuffer, vk.PipelineBindPointGraphics, v.pipeline)
	vk.CmdSetViewport(slot.commandBuffer, 0, 1, []vk.Viewport{v.viewport})
	vk.CmdSetScissor(slot.commandBuffer, 0, 1, []vk.Rect2D{v.scissor})
	vk.CmdBindDescriptorSets(slot.commandBuffer, vk.PipelineBindPointGraphics,
		v.pipelineLayout, 0, 1, []vk.DescriptorSet{slot.descriptorSet}, 0, nil)

	var walkErr error
	if v.root != nil {
		v.root.Walk(func(node *scene.Node) {
			if walkErr != nil {
				return
			}
			walkErr = v.drawNode(slot, node)
		})
	}

	vk.CmdEndRenderPass(slot.commandBuffer)
	if err := vk.Error(vk.EndCommandBuffer(slot.commandBuffer)); err != nil {
		return errors.New("vk.EndCommandBuffer(): " + err.Error())
	}
	return walkErr
}

func (v *VulkanRenderer) drawNode(slot *frameSlot, node *scene.Node) error {
	component := node.Component(scene.MeshRendererType)
	if component == nil || !component.Enabled() {
		return nil
	}
	meshRenderer, ok := component.(*scene.MeshRenderer)
	if !ok || meshRenderer.Mesh() == nil {
		return nil
	}
	mesh := meshRenderer.Mesh()

	view := v.defaultTexture.View()
	if texture := meshRenderer.Texture(); texture != nil {
		view = texture.Image().View()
	}
	set, err := v.textureSet(view)
	if err != nil {
		return err
	}
	vk.CmdBindDescriptorSets(slot.commandBuffer, vk.PipelineBindPointGraphics,
		v.pipelineLayout, 1, 1, []vk.DescriptorSet{set}, 0, nil)

	pc := model.PushConstant{Model: node.WorldMatrix()}
	vk.CmdPushConstants(slot.commandBuffer, v.pipelineLayout,
		vk.ShaderStageFlags(vk.ShaderStageVertexBit), 0,
		uint32(unsafe.Sizeof(pc)), unsafe.Pointer(&pc))

	vk.CmdBindVertexBuffers(slot.commandBuffer, 0, 1,
		[]vk.Buffer{mesh.VertexBuffer().Get()}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(slot.commandBuffer, mesh.IndexBuffer().Get(), 0, vk.IndexTypeUint32)
	vk.CmdDrawIndexed(slot.commandBuffer, mesh.IndexCount(), 1, 0, 0, 0)
	return nil
}

// Present implements interface. Out-of-date at present time is not
// fatal, the swapchain is recreated and the frame simply dropped.
// The frame slot advances regardless.
func (v *VulkanRenderer) Present() error {
	if !v.frameSubmitted {
		return nil
	}
	slot := &v.frames[v.frameIndex]
	v.frameSubmitted = false
	v.frameIndex = (v.frameIndex + 1) % MaxFramesInFlight

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{slot.renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{v.swapchain},
		PImageIndices:      []uint32{v.imageIndex},
	}

	switch result := vk.QueuePresent(v.deviceQueue, &presentInfo); result {
	case vk.Success:
		return nil
	case vk.ErrorOutOfDate, vk.Suboptimal:
		return v.recreateSwapchain()
	case vk.ErrorDeviceLost:
		return fmt.Errorf("vk.QueuePresent(): %w", gfx.ErrDeviceLost)
	default:
		return errors.New("vk.QueuePresent(): " + vk.Error(result).Error())
	}
}

// recreateSwapchain rebuilds the resources that depend on the
// surface size: swapchain, image views, depth buffer, framebuffers.
// Sync objects, command buffers, pipeline and render pass survive.
func (v *VulkanRenderer) recreateSwapchain() error {
	vk.DeviceWaitIdle(v.logicalDevice)

	for _, framebuffer := range v.framebuffers {
		vk.DestroyFramebuffer(v.logicalDevice, framebuffer, nil)
	}
	v.framebuffers = nil

	for _, view := range v.swapchainImageViews {
		vk.DestroyImageView(v.logicalDevice, view, nil)
	}
	v.swapchainImageViews = nil

	vk.DestroyImageView(v.logicalDevice, v.depthImageView, nil)
	vk.DestroyImage(v.logicalDevice, v.depthImage, nil)
	vk.FreeMemory(v.logicalDevice, v.depthImageMemory, nil)

	if err := v.createSwapchain(v.swapchain); err != nil {
		return err
	}
	if err := v.prepareDepthImage(); err != nil {
		return err
	}
	if err := v.createImageViews(); err != nil {
		return err
	}
	return v.createFramebuffers()
}

// DeviceIsSuitable implements interface
func (v *VulkanRenderer) DeviceIsSuitable(phy vk.PhysicalDevice) (bool, string) {
	info := device.Collect(phy)
	if score := device.Score(info, v.configuration.DeviceExtensions); score < 0 {
		return false, fmt.Sprintf("device %s is missing requirements", info.Name)
	}
	return true, ""
}

func (v *VulkanRenderer) getMemoryType(typeBits uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(v.physicalDevice, &memoryProperties)
	memoryProperties.Deref()

	for idx := uint32(0); idx < memoryProperties.MemoryTypeCount; idx++ {
		if (typeBits & 1) == 1 {
			memoryProperties.MemoryTypes[idx].Deref()
			if (memoryProperties.MemoryTypes[idx].PropertyFlags & properties) == properties {
				return idx, nil
			}
		}
		typeBits >>= 1
	}
	return 0, fmt.Errorf("requested memory type not found: %w", gfx.ErrAllocationFailed)
}

// Destroy implements interface
func (v *VulkanRenderer) Destroy() {
	vk.DeviceWaitIdle(v.logicalDevice)

	for _, shader := range v.shaders {
		shader.Destroy()
	}

	for idx := range v.frames {
		slot := &v.frames[idx]
		vk.DestroySemaphore(v.logicalDevice, slot.imageAvailable, nil)
		vk.DestroySemaphore(v.logicalDevice, slot.renderFinished, nil)
		vk.DestroyFence(v.logicalDevice, slot.inFlight, nil)
		if slot.uniformBuffer != nil {
			slot.uniformBuffer.Release()
		}
	}

	if v.defaultTexture != nil {
		v.defaultTexture.Release()
	}
	vk.DestroySampler(v.logicalDevice, v.sampler, nil)

	if v.allocator != nil {
		v.allocator.Destroy()
	}

	vk.DestroyCommandPool(v.logicalDevice, v.commandPool, nil)

	for _, framebuffer := range v.framebuffers {
		vk.DestroyFramebuffer(v.logicalDevice, framebuffer, nil)
	}
	for _, view := range v.swapchainImageViews {
		vk.DestroyImageView(v.logicalDevice, view, nil)
	}

	vk.DestroyDescriptorPool(v.logicalDevice, v.descriptorPool, nil)
	vk.DestroyDescriptorSetLayout(v.logicalDevice, v.textureSetLayout, nil)
	vk.DestroyDescriptorSetLayout(v.logicalDevice, v.frameSetLayout, nil)

	vk.DestroyPipeline(v.logicalDevice, v.pipeline, nil)
	vk.DestroyPipelineCache(v.logicalDevice, v.pipelineCache, nil)
	vk.DestroyRenderPass(v.logicalDevice, v.renderPass, nil)
	vk.DestroyPipelineLayout(v.logicalDevice, v.pipelineLayout, nil)

	vk.FreeMemory(v.logicalDevice, v.depthImageMemory, nil)
	vk.DestroyImageView(v.logicalDevice, v.depthImageView, nil)
	vk.DestroyImage(v.logicalDevice, v.depthImage, nil)

	vk.DestroySwapchain(v.logicalDevice, v.swapchain, nil)
	vk.DestroyDevice(v.logicalDevice, nil)
}
