// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"image"
	"image/color"
	"testing"
)

func gradientImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	return img
}

func TestToRGBAKeepsSmallImages(t *testing.T) {
	rgba := toRGBA(gradientImage(64, 32), 256)
	if rgba.Bounds().Dx() != 64 || rgba.Bounds().Dy() != 32 {
		t.Fatalf("unexpected bounds: %v", rgba.Bounds())
	}
	if len(rgba.Pix) != 64*32*4 {
		t.Fatalf("unexpected pixel buffer size: %d", len(rgba.Pix))
	}
}

func TestToRGBAScalesDownOversized(t *testing.T) {
	rgba := toRGBA(gradientImage(512, 128), 256)
	if rgba.Bounds().Dx() != 256 || rgba.Bounds().Dy() != 64 {
		t.Fatalf("unexpected bounds: %v", rgba.Bounds())
	}
}

func TestToRGBAZeroLimitDisablesScaling(t *testing.T) {
	rgba := toRGBA(gradientImage(512, 512), 0)
	if rgba.Bounds().Dx() != 512 {
		t.Fatalf("unexpected bounds: %v", rgba.Bounds())
	}
}

func TestVertexByteWidth(t *testing.T) {
	vertices := []Vertex{{}, {}}
	if got := len(VertexBytes(vertices)); got != 2*(3+3+2)*4 {
		t.Fatalf("unexpected byte width: %d", got)
	}
	if VertexBytes(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}
