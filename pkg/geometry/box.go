package geometry

import (
	"github.com/colon-crab-colon/voxelizer/pkg/core"
)

// boxFaces lists the 12 outward-wound triangles of a box by corner index
var boxFaces = [...]int{
	4, 5, 6, 4, 6, 7, // Front face (Z+)
	1, 0, 3, 1, 3, 2, // Back face (Z-)
	5, 1, 2, 5, 2, 6, // Right face (X+)
	0, 4, 7, 0, 7, 3, // Left face (X-)
	7, 6, 2, 7, 2, 3, // Top face (Y+)
	0, 1, 5, 0, 5, 4, // Bottom face (Y-)
}

// NewBoxMesh creates an untextured axis-aligned box mesh spanning min to max
func NewBoxMesh(min, max core.Vec3) *Mesh {
	// Corners in the same order as a unit box centered at origin:
	// 0-3 at z=min (back), 4-7 at z=max (front)
	corners := [8]core.Vec3{
		core.NewVec3(min.X, min.Y, min.Z), // 0: left-bottom-back
		core.NewVec3(max.X, min.Y, min.Z), // 1: right-bottom-back
		core.NewVec3(max.X, max.Y, min.Z), // 2: right-top-back
		core.NewVec3(min.X, max.Y, min.Z), // 3: left-top-back
		core.NewVec3(min.X, min.Y, max.Z), // 4: left-bottom-front
		core.NewVec3(max.X, min.Y, max.Z), // 5: right-bottom-front
		core.NewVec3(max.X, max.Y, max.Z), // 6: right-top-front
		core.NewVec3(min.X, max.Y, max.Z), // 7: left-top-front
	}

	triangles := make([]Triangle, 0, len(boxFaces)/3)
	for i := 0; i < len(boxFaces); i += 3 {
		triangles = append(triangles, NewTriangle(
			corners[boxFaces[i]], corners[boxFaces[i+1]], corners[boxFaces[i+2]],
			core.Vec2{}, core.Vec2{}, core.Vec2{},
		))
	}

	return NewMeshFromTriangles(triangles, nil)
}
