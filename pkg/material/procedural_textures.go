package material

import (
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

// NewCheckerboardTexture creates a procedural checkerboard pattern texture
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 voxel.Color) *ImageTexture {
	pixels := make([]voxel.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Determine which check we're in
			checkX := x / checkSize
			checkY := y / checkSize

			// Alternate colors based on check position
			color := color1
			if (checkX+checkY)%2 != 0 {
				color = color2
			}

			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewUVDebugTexture creates a texture showing UV coordinates as colors
// U maps to red channel, V maps to green channel
func NewUVDebugTexture(width, height int) *ImageTexture {
	pixels := make([]voxel.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = voxel.Color{ramp(x, width), ramp(y, height), 0, 255}
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewGradientTexture creates a vertical gradient from color1 (top) to color2 (bottom)
func NewGradientTexture(width, height int, color1, color2 voxel.Color) *ImageTexture {
	pixels := make([]voxel.Color, width*height)

	for y := 0; y < height; y++ {
		// Interpolate from top to bottom
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		var color voxel.Color
		for c := range color {
			color[c] = uint8(float64(color1[c])*(1-t) + float64(color2[c])*t + 0.5)
		}

		for x := 0; x < width; x++ {
			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}

// ramp maps i in [0, n) linearly onto [0, 255]
func ramp(i, n int) uint8 {
	if n <= 1 {
		return 0
	}
	return uint8(i * 255 / (n - 1))
}
