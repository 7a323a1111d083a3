package geometry

import (
	"math"
	"testing"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

func TestNewPointCloud_DropsNonFinite(t *testing.T) {
	pc := NewPointCloud([]Point{
		{Position: core.NewVec3(1, 2, 3), Color: voxel.Color{255, 0, 0, 255}},
		{Position: core.NewVec3(math.NaN(), 0, 0)},
		{Position: core.NewVec3(0, math.Inf(1), 0)},
		{Position: core.NewVec3(-1, 0, 5)},
	})

	if pc.Len() != 2 {
		t.Fatalf("Expected 2 points, got %d", pc.Len())
	}
	if pc.Points[0].Color != (voxel.Color{255, 0, 0, 255}) {
		t.Errorf("Expected first point to keep its color, got %v", pc.Points[0].Color)
	}
}

func TestPointCloud_BoundingBox(t *testing.T) {
	pc := NewPointCloud([]Point{
		{Position: core.NewVec3(1, 2, 3)},
		{Position: core.NewVec3(-1, 0, 5)},
		{Position: core.NewVec3(0, -4, 4)},
	})

	bbox := pc.BoundingBox()
	if bbox.Min != core.NewVec3(-1, -4, 3) || bbox.Max != core.NewVec3(1, 2, 5) {
		t.Errorf("Unexpected bounding box %+v", bbox)
	}
}

func TestPointCloud_Rotate(t *testing.T) {
	pc := NewPointCloud([]Point{{Position: core.NewVec3(1, 0, 0), Color: voxel.White}})

	pc.Rotate(core.Vec3{})
	if !pc.Points[0].Position.Equals(core.NewVec3(1, 0, 0)) {
		t.Errorf("Zero rotation moved point to %v", pc.Points[0].Position)
	}

	pc.Rotate(core.NewVec3(0, math.Pi/2, 0))
	if pc.Points[0].Position.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected (0,0,-1) after 90 degree Y rotation, got %v", pc.Points[0].Position)
	}
}
