// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"bytes"
	"fmt"
	"image"

	// Register the decoders used for texture assets.
	_ "image/jpeg"
	_ "image/png"

	vk "github.com/devblok/vulkan"
	xdraw "golang.org/x/image/draw"

	"github.com/robalobalubob/vulkanRenderer-sub000/gfx/vkr"
)

// NewTexture decodes an image file, converts it to RGBA, downscales
// it when it exceeds maxDimension and uploads it into a device local
// sampled image. The upload is synchronous.
func NewTexture(alloc *vkr.Allocator, fileContents []byte, maxDimension uint32) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(fileContents))
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}

	rgba := toRGBA(img, maxDimension)
	bounds := rgba.Bounds()
	width, height := uint32(bounds.Dx()), uint32(bounds.Dy())

	gpuImage, err := alloc.CreateImage(
		width, height,
		vk.FormatR8g8b8a8Unorm,
		vk.ImageUsageSampledBit|vk.ImageUsageTransferDstBit,
		false,
	)
	if err != nil {
		return nil, err
	}
	if err := alloc.UploadToImage(gpuImage, rgba.Pix); err != nil {
		gpuImage.Release()
		return nil, fmt.Errorf("texture upload: %w", err)
	}

	return &Texture{image: gpuImage}, nil
}

// toRGBA redraws the decoded image onto an RGBA canvas so the pixel
// layout matches what the GPU expects, scaling down when a side
// exceeds the device limit.
func toRGBA(img image.Image, maxDimension uint32) *image.RGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	scale := 1.0
	if maxDimension > 0 {
		if width > int(maxDimension) {
			scale = float64(maxDimension) / float64(width)
		}
		if s := float64(maxDimension) / float64(height); height > int(maxDimension) && s < scale {
			scale = s
		}
	}

	if scale == 1.0 {
		rgba := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)
		return rgba
	}

	scaled := image.NewRGBA(image.Rect(0, 0, int(float64(width)*scale), int(float64(height)*scale)))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Src, nil)
	return scaled
}

// Texture is an RGBA image resident on the device in shader
// read-only layout.
type Texture struct {
	id    string
	image *vkr.Image
}

// ID returns the identifier the texture was loaded under, empty for
// textures built directly from bytes.
func (t *Texture) ID() string {
	return t.id
}

// Image returns the backing device image.
func (t *Texture) Image() *vkr.Image {
	return t.image
}

// Release frees the device image.
func (t *Texture) Release() {
	if t.image != nil {
		t.image.Release()
		t.image = nil
	}
}
