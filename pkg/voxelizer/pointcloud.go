package voxelizer

import (
	"math"

	"github.com/pkg/errors"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/geometry"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

// VoxelizePointCloud quantizes every point onto the grid. Points are applied
// in order, so the last point of a cell decides its color. The result holds
// one sample per occupied coordinate. progress may be nil.
func VoxelizePointCloud(pc *geometry.PointCloud, resolution float64, progress core.Progress) ([]voxel.Sample, error) {
	if !(resolution > 0) || math.IsInf(resolution, 1) {
		return nil, errors.Errorf("resolution must be a positive finite number, got %g", resolution)
	}
	if pc == nil {
		return nil, errors.New("point cloud is nil")
	}
	if progress == nil {
		progress = core.NopProgress{}
	}

	progress.SetTotal(pc.Len())

	set := voxel.NewSet()
	for _, p := range pc.Points {
		set.Put(voxel.Quantize(p.Position, resolution), p.Color)
		progress.Add(1)
	}

	return set.Samples(), nil
}
