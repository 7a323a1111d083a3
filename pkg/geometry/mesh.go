package geometry

import (
	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/material"
	"github.com/pkg/errors"
)

// Mesh is a triangle soup with a BVH over its padded triangle bounds, a
// cached bounding box and an optional texture. The bounding box and BVH are
// derived from triangle positions and are rebuilt together whenever those
// positions change.
type Mesh struct {
	triangles []Triangle
	bvh       *core.BVH
	bbox      core.AABB
	texture   material.TextureSource // nil when untextured
	workers   int                    // BVH build parallelism
}

// NewMesh creates a mesh from an indexed vertex buffer
// vertices: array of 3D points
// indices: array of triangle indices (each group of 3 indices forms a triangle)
// texCoords: per-vertex texture coordinates aligned with vertices, or nil
// texture: base color texture, or nil for an untextured mesh
func NewMesh(vertices []core.Vec3, indices []int, texCoords []core.Vec2, texture material.TextureSource) (*Mesh, error) {
	if len(indices)%3 != 0 {
		return nil, errors.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	if texCoords != nil && len(texCoords) != len(vertices) {
		return nil, errors.Errorf("got %d texture coordinates for %d vertices", len(texCoords), len(vertices))
	}
	if texture != nil && texCoords == nil {
		return nil, errors.New("textured mesh has no texture coordinates")
	}

	triangles := make([]Triangle, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		for _, idx := range [3]int{i0, i1, i2} {
			if idx < 0 || idx >= len(vertices) {
				return nil, errors.Errorf("triangle %d: vertex index %d out of range [0,%d)", i/3, idx, len(vertices))
			}
		}

		// Untextured meshes keep zero UVs; they are never sampled
		var uv0, uv1, uv2 core.Vec2
		if texCoords != nil {
			uv0, uv1, uv2 = texCoords[i0], texCoords[i1], texCoords[i2]
		}

		triangles = append(triangles, NewTriangle(vertices[i0], vertices[i1], vertices[i2], uv0, uv1, uv2))
	}

	return NewMeshFromTriangles(triangles, texture), nil
}

// NewMeshFromTriangles creates a mesh that takes ownership of triangles
func NewMeshFromTriangles(triangles []Triangle, texture material.TextureSource) *Mesh {
	m := &Mesh{
		triangles: triangles,
		texture:   texture,
	}
	m.rebuild()
	return m
}

// SetBuildWorkers limits the goroutines used for later BVH rebuilds
func (m *Mesh) SetBuildWorkers(workers int) {
	m.workers = workers
}

// rebuild recomputes the bounding box and the BVH from triangle positions
func (m *Mesh) rebuild() {
	bounds := make([]core.AABB, len(m.triangles))
	bbox := core.EmptyAABB()
	for i, tri := range m.triangles {
		bounds[i] = tri.Bounds()
		bbox = bbox.Extend(tri.A).Extend(tri.B).Extend(tri.C)
	}

	m.bbox = bbox
	m.bvh = core.NewBVH(bounds, m.workers)
}

// Rotate rotates every vertex by Euler angles in radians (X, then Y, then Z)
// and rebuilds the derived bounding box and BVH
func (m *Mesh) Rotate(rotation core.Vec3) {
	for i := range m.triangles {
		tri := &m.triangles[i]
		tri.A = tri.A.Rotate(rotation)
		tri.B = tri.B.Rotate(rotation)
		tri.C = tri.C.Rotate(rotation)
	}
	m.rebuild()
}

// Triangles returns the mesh triangles. Callers must not modify them.
func (m *Mesh) Triangles() []Triangle {
	return m.triangles
}

// Triangle returns the triangle behind a BVH handle
func (m *Mesh) Triangle(id core.PrimitiveID) Triangle {
	return m.triangles[id]
}

// TriangleCount returns the number of triangles in this mesh
func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

// BoundingBox returns the tight bounding box of all triangles. It is invalid
// (see core.AABB.IsValid) for an empty mesh.
func (m *Mesh) BoundingBox() core.AABB {
	return m.bbox
}

// BVH returns the spatial index over the triangles
func (m *Mesh) BVH() *core.BVH {
	return m.bvh
}

// Texture returns the texture source, nil when untextured
func (m *Mesh) Texture() material.TextureSource {
	return m.texture
}
