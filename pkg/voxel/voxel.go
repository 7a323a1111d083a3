// Package voxel holds the output side of voxelization: integer grid
// coordinates, RGBA colors, the last-write-wins voxel set, and the VOXELSRS
// file format.
package voxel

import (
	"fmt"
	"math"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
)

// Coord is an integer grid coordinate
type Coord struct {
	X, Y, Z int32
}

// Color is an 8-bit RGBA color
type Color [4]uint8

// White is the color of every hit on an untextured mesh
var White = Color{255, 255, 255, 255}

// Packed returns the color as a little-endian 32-bit value, red in the low byte
func (c Color) Packed() uint32 {
	return uint32(c[0]) | uint32(c[1])<<8 | uint32(c[2])<<16 | uint32(c[3])<<24
}

// UnpackColor reverses Color.Packed
func UnpackColor(packed uint32) Color {
	return Color{uint8(packed), uint8(packed >> 8), uint8(packed >> 16), uint8(packed >> 24)}
}

// Sample is one occupied cell produced by a voxelizer
type Sample struct {
	Coord Coord
	Color Color
}

func (s Sample) String() string {
	return fmt.Sprintf("(%d,%d,%d)#%02x%02x%02x%02x",
		s.Coord.X, s.Coord.Y, s.Coord.Z, s.Color[0], s.Color[1], s.Color[2], s.Color[3])
}

// Quantize maps a world position onto the grid: each component is divided by
// the resolution and rounded to the nearest integer, halves away from zero.
func Quantize(p core.Vec3, resolution float64) Coord {
	return Coord{
		X: roundToInt32(p.X / resolution),
		Y: roundToInt32(p.Y / resolution),
		Z: roundToInt32(p.Z / resolution),
	}
}

// roundToInt32 rounds half away from zero and saturates at the int32 range
func roundToInt32(x float64) int32 {
	r := math.Round(x)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt32:
		return math.MaxInt32
	case r <= math.MinInt32:
		return math.MinInt32
	}
	return int32(r)
}
