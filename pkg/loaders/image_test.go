package loaders

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/material"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
	"golang.org/x/image/bmp"
)

// testImage is a 2x2 image:
//
//	white  red
//	green  half-transparent blue
func testImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.NRGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.NRGBA{R: 0, G: 0, B: 255, A: 128})
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func TestLoadImage(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.png")
	if err := os.WriteFile(testFile, encodePNG(t, testImage()), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	texture, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	if texture.Width != 2 || texture.Height != 2 {
		t.Fatalf("Expected 2x2 image, got %dx%d", texture.Width, texture.Height)
	}

	expected := []voxel.Color{
		{255, 255, 255, 255},
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 128},
	}
	for i, want := range expected {
		if texture.Pixels[i] != want {
			t.Errorf("Pixel %d: expected %v, got %v", i, want, texture.Pixels[i])
		}
	}
}

func TestDecodeImage_BMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(2, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode BMP: %v", err)
	}

	texture, err := DecodeImage(&buf)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if got := texture.Sample(core.NewVec2(0.99, 0)); got != (voxel.Color{10, 20, 30, 255}) {
		t.Errorf("Expected last pixel color, got %v", got)
	}
}

func TestDecodeTexture(t *testing.T) {
	data := encodePNG(t, testImage())
	path := filepath.Join(t.TempDir(), "albedo.png")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write texture: %v", err)
	}

	tests := []struct {
		name      string
		source    material.TextureSource
		wantErr   bool
		wantImage bool
	}{
		{"untextured", nil, false, false},
		{"raw bytes", material.RawTexture(data), false, true},
		{"path", material.PathTexture(path), false, true},
		{"corrupt raw bytes", material.RawTexture([]byte("not an image")), true, false},
		{"missing file", material.PathTexture(filepath.Join(t.TempDir(), "missing.png")), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, err := DecodeTexture(tt.source)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeTexture failed: %v", err)
			}

			_, isImage := source.(*material.ImageTexture)
			if isImage != tt.wantImage {
				t.Errorf("Expected image texture=%v, got %T", tt.wantImage, source)
			}
			if !tt.wantImage && material.Evaluate(source, core.Vec2{}) != voxel.White {
				t.Error("Expected untextured source to evaluate to white")
			}
		})
	}
}
