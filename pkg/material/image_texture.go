package material

import (
	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

// ImageTexture is a decoded RGBA raster
type ImageTexture struct {
	Width  int
	Height int
	Pixels []voxel.Color // Row-major: Pixels[y*Width + x], row 0 at the top
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []voxel.Color) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Sample returns the nearest pixel to a UV coordinate. No filtering and no
// wrapping: u=0,v=0 is the top-left pixel and coordinates past the edge clamp
// to the last row or column.
func (t *ImageTexture) Sample(uv core.Vec2) voxel.Color {
	x := clampIndex(uv.X*float64(t.Width), t.Width)
	y := clampIndex(uv.Y*float64(t.Height), t.Height)
	return t.Pixels[y*t.Width+x]
}

func clampIndex(f float64, size int) int {
	if !(f > 0) { // also catches NaN
		return 0
	}
	if f >= float64(size) {
		return size - 1
	}
	return int(f)
}

func (*ImageTexture) isColorSource() {}
