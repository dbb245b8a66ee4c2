// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func testImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 0x40, A: 0xff})
		}
	}
	return img
}

func TestClampImageCount(t *testing.T) {
	cases := []struct {
		name                string
		requested, min, max uint32
		expected            uint32
	}{
		{"inRange", 3, 2, 8, 3},
		{"belowMin", 1, 2, 8, 2},
		{"aboveMax", 16, 2, 8, 8},
		{"unboundedMax", 16, 2, 0, 16},
		{"exactMin", 2, 2, 8, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := clampImageCount(c.requested, c.min, c.max); got != c.expected {
				t.Fatalf("clampImageCount(%d, %d, %d) = %d, expected %d",
					c.requested, c.min, c.max, got, c.expected)
			}
		})
	}
}

func TestLoadShaderFilesFromDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"default.vert.spv": {0x03, 0x02, 0x23, 0x07},
		"default.frag.spv": {0x03, 0x02, 0x23, 0x07},
		"default.vert":     []byte("#version 450"),
		"notes.txt":        []byte("not a shader"),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0644); err != nil {
			t.Fatal(err)
		}
	}

	shaders, types, err := loadShaderFilesFromDirectory(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(shaders) != 2 || len(types) != 2 {
		t.Fatalf("expected 2 shaders, got %d", len(shaders))
	}
	for idx, path := range shaders {
		switch filepath.Base(path) {
		case "default.vert.spv":
			if types[idx] != VertexShaderType {
				t.Errorf("%s classified as %d", path, types[idx])
			}
		case "default.frag.spv":
			if types[idx] != FragmentShaderType {
				t.Errorf("%s classified as %d", path, types[idx])
			}
		default:
			t.Errorf("unexpected shader file %s", path)
		}
	}
}

func TestSliceUint32(t *testing.T) {
	words := SliceUint32([]byte{0x07, 0x23, 0x02, 0x03, 0xff, 0x00, 0x00, 0x00})
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0] != 0x03022307 {
		t.Errorf("expected 0x03022307, got %#x", words[0])
	}
	if words[1] != 0xff {
		t.Errorf("expected 0xff, got %#x", words[1])
	}
}

func TestGetPixelsSize(t *testing.T) {
	pixels, err := GetPixels(testImage(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if expected := 64 * 64 * 4; len(pixels) != expected {
		t.Fatalf("expected %d bytes, got %d", expected, len(pixels))
	}
}

func BenchmarkGetPixelsNoRowPitch(b *testing.B) {
	img := testImage()
	b.ResetTimer()
	for idx := 0; idx < b.N; idx++ {
		GetPixels(img, 0)
	}
}

func BenchmarkGetPixelsSmallRowPitch(b *testing.B) {
	img := testImage()
	b.ResetTimer()
	for idx := 0; idx < b.N; idx++ {
		GetPixels(img, 4)
	}
}

func BenchmarkGetPixelsBigRowPitch(b *testing.B) {
	img := testImage()
	b.ResetTimer()
	for idx := 0; idx < b.N; idx++ {
		GetPixels(img, 200)
	}
}
