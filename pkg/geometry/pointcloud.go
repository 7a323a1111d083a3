package geometry

import (
	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

// Point is a colored point cloud sample
type Point struct {
	Position core.Vec3
	Color    voxel.Color
}

// PointCloud is an ordered list of colored points
type PointCloud struct {
	Points []Point
}

// NewPointCloud creates a point cloud, silently dropping points with a NaN or
// infinite coordinate
func NewPointCloud(points []Point) *PointCloud {
	kept := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Position.IsFinite() {
			kept = append(kept, p)
		}
	}
	return &PointCloud{Points: kept}
}

// Len returns the number of points
func (pc *PointCloud) Len() int {
	return len(pc.Points)
}

// Rotate rotates every point by Euler angles in radians (X, then Y, then Z)
func (pc *PointCloud) Rotate(rotation core.Vec3) {
	for i := range pc.Points {
		pc.Points[i].Position = pc.Points[i].Position.Rotate(rotation)
	}
}

// BoundingBox returns the tight bounding box of all points
func (pc *PointCloud) BoundingBox() core.AABB {
	bbox := core.EmptyAABB()
	for _, p := range pc.Points {
		bbox = bbox.Extend(p.Position)
	}
	return bbox
}
