package material

import (
	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

// ColorSource decides the color of a surface hit. It is either a SolidColor
// or an *ImageTexture; Evaluate switches over both.
type ColorSource interface {
	isColorSource()
}

// SolidColor colors every hit the same
type SolidColor struct {
	Color voxel.Color
}

// Untextured is the color source of a mesh without a texture
var Untextured ColorSource = SolidColor{Color: voxel.White}

func (SolidColor) isColorSource() {}

// Evaluate returns the color for a hit with the given interpolated UV
func Evaluate(source ColorSource, uv core.Vec2) voxel.Color {
	switch s := source.(type) {
	case SolidColor:
		return s.Color
	case *ImageTexture:
		return s.Sample(uv)
	default:
		panic("material: unknown color source")
	}
}
