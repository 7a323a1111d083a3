package geometry

import (
	"math"
	"strings"
	"testing"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/material"
)

func TestNewMesh_Basic(t *testing.T) {
	// A unit square made of two triangles
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(1, 1, 0),
		core.NewVec3(0, 1, 0),
	}
	indices := []int{0, 1, 2, 0, 2, 3}
	texCoords := []core.Vec2{
		core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(1, 1), core.NewVec2(0, 1),
	}

	mesh, err := NewMesh(vertices, indices, texCoords, material.RawTexture{0x89, 'P', 'N', 'G'})
	if err != nil {
		t.Fatalf("NewMesh failed: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}
	if mesh.BVH().Len() != 2 {
		t.Errorf("Expected 2 indexed triangles, got %d", mesh.BVH().Len())
	}

	bbox := mesh.BoundingBox()
	if !bbox.Min.Equals(core.NewVec3(0, 0, 0)) || !bbox.Max.Equals(core.NewVec3(1, 1, 0)) {
		t.Errorf("Unexpected bounding box %v", bbox)
	}

	second := mesh.Triangles()[1]
	if !second.C.Equals(vertices[3]) || second.UVC != texCoords[3] {
		t.Errorf("Second triangle does not match indices: %+v", second)
	}

	if _, ok := mesh.Texture().(material.RawTexture); !ok {
		t.Errorf("Expected raw texture source, got %T", mesh.Texture())
	}
}

func TestNewMesh_Errors(t *testing.T) {
	vertices := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}

	tests := []struct {
		name      string
		indices   []int
		texCoords []core.Vec2
		texture   material.TextureSource
		wantErr   string
	}{
		{"partial triangle", []int{0, 1}, nil, nil, "multiple of 3"},
		{"index out of range", []int{0, 1, 3}, nil, nil, "out of range"},
		{"negative index", []int{0, -1, 2}, nil, nil, "out of range"},
		{"misaligned texture coordinates", []int{0, 1, 2}, []core.Vec2{{}, {}}, nil, "texture coordinates"},
		{"texture without coordinates", []int{0, 1, 2}, nil, material.PathTexture("albedo.png"), "no texture coordinates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMesh(vertices, tt.indices, tt.texCoords, tt.texture)
			if err == nil {
				t.Fatal("Expected error, got none")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBoxMesh_BoundingBox(t *testing.T) {
	mesh := NewBoxMesh(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))

	if mesh.TriangleCount() != 12 {
		t.Fatalf("Expected 12 triangles, got %d", mesh.TriangleCount())
	}
	bbox := mesh.BoundingBox()
	if !bbox.Min.Equals(core.NewVec3(0, 0, 0)) || !bbox.Max.Equals(core.NewVec3(1, 1, 1)) {
		t.Errorf("Expected [0,0,0]-[1,1,1], got %v", bbox)
	}
	if mesh.Texture() != nil {
		t.Errorf("Expected untextured box, got %T", mesh.Texture())
	}
}

func TestMesh_RotateZeroIsIdentity(t *testing.T) {
	mesh := NewBoxMesh(core.NewVec3(-0.3, 0.2, 1.5), core.NewVec3(2.7, 1.1, 4))
	before := append([]Triangle(nil), mesh.Triangles()...)
	bboxBefore := mesh.BoundingBox()

	mesh.Rotate(core.Vec3{})

	for i, tri := range mesh.Triangles() {
		if tri != before[i] {
			t.Errorf("Triangle %d changed: %+v -> %+v", i, before[i], tri)
		}
	}
	if mesh.BoundingBox() != bboxBefore {
		t.Errorf("Bounding box changed: %v -> %v", bboxBefore, mesh.BoundingBox())
	}
}

func TestMesh_RotateRebuildsDerivedState(t *testing.T) {
	// A long thin box along X
	mesh := NewBoxMesh(core.NewVec3(0, 0, 0), core.NewVec3(4, 1, 1))

	// Ray along Z through x=3 hits the box before rotation
	ray := core.NewRay(core.NewVec3(3, 0.5, -5), core.NewVec3(0, 0, 1))
	if len(mesh.BVH().CandidateIDs(ray)) == 0 {
		t.Fatal("Expected candidates before rotation")
	}

	// 90 degrees about Z maps +X onto +Y
	mesh.Rotate(core.NewVec3(0, 0, math.Pi/2))

	bbox := mesh.BoundingBox()
	const tolerance = 1e-9
	if bbox.Min.Subtract(core.NewVec3(-1, 0, 0)).Length() > tolerance ||
		bbox.Max.Subtract(core.NewVec3(0, 4, 1)).Length() > tolerance {
		t.Errorf("Unexpected rotated bounding box %v", bbox)
	}

	if ids := mesh.BVH().CandidateIDs(ray); len(ids) != 0 {
		t.Errorf("Expected no candidates at old position after rotation, got %d", len(ids))
	}

	rotatedRay := core.NewRay(core.NewVec3(-0.5, 3, -5), core.NewVec3(0, 0, 1))
	hits := 0
	for _, id := range mesh.BVH().CandidateIDs(rotatedRay) {
		if _, ok := mesh.Triangle(id).Intersect(rotatedRay); ok {
			hits++
		}
	}
	if hits != 2 {
		t.Errorf("Expected the rotated box to be crossed twice, got %d hits", hits)
	}
}
