package voxelizer

import (
	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/geometry"
	"github.com/colon-crab-colon/voxelizer/pkg/material"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

// RowScanner casts the rays of scan rows against one mesh. It only reads the
// mesh, so one scanner serves every worker.
type RowScanner struct {
	mesh       *geometry.Mesh
	colors     material.ColorSource
	resolution float64
	bounds     ScanBounds
}

// NewRowScanner creates a scanner for a mesh whose texture is already decoded
// into colors
func NewRowScanner(mesh *geometry.Mesh, colors material.ColorSource, resolution float64, bounds ScanBounds) *RowScanner {
	return &RowScanner{
		mesh:       mesh,
		colors:     colors,
		resolution: resolution,
		bounds:     bounds,
	}
}

// scanRow casts one ray per inner coordinate of the row. Rays start on the
// grid at the low end of the scan axis and point along it; every accepted
// crossing becomes one sample.
func (s *RowScanner) scanRow(scan Axis, outer int64) ([]voxel.Sample, ScanStats) {
	outerAxis, innerAxis := rowAxes(scan)
	direction := core.UnitAxis(int(scan))
	stats := ScanStats{Rows: 1}

	var origin [3]float64
	origin[scan] = float64(s.bounds.Min[scan]) * s.resolution
	origin[outerAxis] = float64(outer) * s.resolution

	var samples []voxel.Sample
	bvh := s.mesh.BVH()

	for inner := s.bounds.Min[innerAxis]; inner < s.bounds.Max[innerAxis]; inner++ {
		origin[innerAxis] = float64(inner) * s.resolution
		ray := core.NewRay(core.NewVec3(origin[0], origin[1], origin[2]), direction)
		stats.Rays++

		bvh.Candidates(ray, func(id core.PrimitiveID) {
			stats.Candidates++
			tri := s.mesh.Triangle(id)
			hit, ok := tri.Intersect(ray)
			if !ok {
				return
			}
			stats.Hits++
			samples = append(samples, voxel.Sample{
				Coord: voxel.Quantize(ray.At(hit.T), s.resolution),
				Color: material.Evaluate(s.colors, tri.InterpolateUV(hit)),
			})
		})
	}

	return samples, stats
}
