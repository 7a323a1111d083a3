package voxelizer

import (
	"testing"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/geometry"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

func TestVoxelizePointCloud_NearbyPoints(t *testing.T) {
	red := voxel.Color{255, 0, 0, 255}
	green := voxel.Color{0, 255, 0, 255}
	blue := voxel.Color{0, 0, 255, 255}
	pc := geometry.NewPointCloud([]geometry.Point{
		{Position: core.NewVec3(0.4, 0, 0), Color: red},
		{Position: core.NewVec3(0.6, 0, 0), Color: green},
		{Position: core.NewVec3(-0.3, 0.2, 0), Color: blue},
	})
	progress := &countingProgress{}

	samples, err := VoxelizePointCloud(pc, 1.0, progress)
	if err != nil {
		t.Fatalf("VoxelizePointCloud failed: %v", err)
	}

	// 0.4 and -0.3 share the origin cell; 0.6 rounds up into the next one
	want := []voxel.Sample{
		{Coord: voxel.Coord{X: 0, Y: 0, Z: 0}, Color: blue},
		{Coord: voxel.Coord{X: 1, Y: 0, Z: 0}, Color: green},
	}
	if len(samples) != len(want) {
		t.Fatalf("Expected %d voxels, got %v", len(want), samples)
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("Voxel %d: expected %v, got %v", i, want[i], samples[i])
		}
	}

	if progress.total != 3 || progress.added != 3 {
		t.Errorf("Expected 3 of 3 points reported, got %d of %d", progress.added, progress.total)
	}
}

func TestVoxelizePointCloud_LastWriteWins(t *testing.T) {
	first := voxel.Color{1, 2, 3, 255}
	last := voxel.Color{9, 8, 7, 255}
	pc := geometry.NewPointCloud([]geometry.Point{
		{Position: core.NewVec3(0.1, 0.2, 0.3), Color: first},
		{Position: core.NewVec3(5, 5, 5), Color: voxel.White},
		{Position: core.NewVec3(-0.2, 0.4, -0.1), Color: last},
	})

	samples, err := VoxelizePointCloud(pc, 1.0, nil)
	if err != nil {
		t.Fatalf("VoxelizePointCloud failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("Expected 2 voxels, got %v", samples)
	}
	if samples[0].Coord != (voxel.Coord{}) || samples[0].Color != last {
		t.Errorf("Expected the last point to color the origin voxel, got %v", samples[0])
	}
}

func TestVoxelizePointCloud_Resolution(t *testing.T) {
	pc := geometry.NewPointCloud([]geometry.Point{
		{Position: core.NewVec3(0.25, -0.25, 1.0), Color: voxel.White},
	})

	samples, err := VoxelizePointCloud(pc, 0.5, nil)
	if err != nil {
		t.Fatalf("VoxelizePointCloud failed: %v", err)
	}
	want := voxel.Coord{X: 1, Y: -1, Z: 2}
	if len(samples) != 1 || samples[0].Coord != want {
		t.Errorf("Expected %v, got %v", want, samples)
	}

	for _, r := range []float64{0, -0.5} {
		if _, err := VoxelizePointCloud(pc, r, nil); err == nil {
			t.Errorf("Expected error for resolution %g", r)
		}
	}
}

func TestVoxelizePointCloud_Nil(t *testing.T) {
	progress := &countingProgress{}
	if _, err := VoxelizePointCloud(nil, 1, progress); err == nil {
		t.Error("Expected error for nil point cloud")
	}
	if progress.total != 0 || progress.added != 0 {
		t.Errorf("Expected no progress for a rejected input, got %d of %d", progress.added, progress.total)
	}
}
