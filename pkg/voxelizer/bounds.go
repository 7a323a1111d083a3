package voxelizer

import (
	"math"

	"github.com/pkg/errors"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
)

// Axis identifies a principal axis
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "?"
	}
}

// rowAxes returns the axis that is fixed per scan row and the axis iterated
// inside the row for a pass along scan
func rowAxes(scan Axis) (outer, inner Axis) {
	switch scan {
	case AxisX:
		return AxisY, AxisZ
	case AxisY:
		return AxisX, AxisZ
	default:
		return AxisX, AxisY
	}
}

// ScanBounds is the integer grid range scanned for a mesh. Ranges are
// half-open: Min[a] <= coordinate < Max[a].
type ScanBounds struct {
	Min [3]int64
	Max [3]int64
}

// NewScanBounds pads the grid range of bbox by one cell on each side:
// floor(min/r)-1 to ceil(max/r)+1 per axis
func NewScanBounds(bbox core.AABB, resolution float64) (ScanBounds, error) {
	var bounds ScanBounds
	for axis := 0; axis < 3; axis++ {
		lo := math.Floor(bbox.Min.Axis(axis)/resolution) - 1
		hi := math.Ceil(bbox.Max.Axis(axis)/resolution) + 1
		if !(lo >= math.MinInt32 && hi <= math.MaxInt32) {
			return ScanBounds{}, errors.Errorf("%s extent [%g, %g] does not fit the voxel grid at resolution %g",
				Axis(axis), bbox.Min.Axis(axis), bbox.Max.Axis(axis), resolution)
		}
		bounds.Min[axis] = int64(lo)
		bounds.Max[axis] = int64(hi)
	}
	return bounds, nil
}

// Span returns the number of grid coordinates scanned along an axis
func (b ScanBounds) Span(axis Axis) int64 {
	return b.Max[axis] - b.Min[axis]
}

// Rows returns the number of scan rows over all three passes. Rows of the X
// pass are indexed by Y; rows of the Y and Z passes are indexed by X.
func (b ScanBounds) Rows() int64 {
	return b.Span(AxisY) + 2*b.Span(AxisX)
}
