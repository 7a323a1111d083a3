package core

import (
	"math"
	"testing"
)

func TestVec3_Rotate(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		rotation Vec3
		expected Vec3
	}{
		{
			name:     "No rotation",
			vector:   NewVec3(1, 0, 0),
			rotation: NewVec3(0, 0, 0),
			expected: NewVec3(1, 0, 0),
		},
		{
			name:     "90 degree rotation around Z axis",
			vector:   NewVec3(1, 0, 0),
			rotation: NewVec3(0, 0, math.Pi/2),
			expected: NewVec3(0, 1, 0),
		},
		{
			name:     "90 degree rotation around Y axis",
			vector:   NewVec3(1, 0, 0),
			rotation: NewVec3(0, math.Pi/2, 0),
			expected: NewVec3(0, 0, -1),
		},
		{
			name:     "90 degree rotation around X axis",
			vector:   NewVec3(0, 1, 0),
			rotation: NewVec3(math.Pi/2, 0, 0),
			expected: NewVec3(0, 0, 1),
		},
		{
			name:     "180 degree rotation around Y axis",
			vector:   NewVec3(1, 0, 0),
			rotation: NewVec3(0, math.Pi, 0),
			expected: NewVec3(-1, 0, 0),
		},
		{
			name:     "Combined rotations",
			vector:   NewVec3(1, 0, 0),
			rotation: NewVec3(0, math.Pi/2, math.Pi/2), // 90° Y then 90° Z
			expected: NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.Rotate(tt.rotation)

			const tolerance = 1e-9
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_RotateZeroIsIdentity(t *testing.T) {
	points := []Vec3{
		NewVec3(0, 0, 0),
		NewVec3(1.25, -3.5, 7),
		NewVec3(-1e6, 2e-6, 0.5),
	}
	for _, p := range points {
		if got := p.Rotate(Vec3{}); !got.Equals(p) {
			t.Errorf("Rotate(0,0,0) changed %v to %v", p, got)
		}
	}
}

func TestVec3_IsFinite(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected bool
	}{
		{"finite", NewVec3(1, 2, 3), true},
		{"NaN", NewVec3(math.NaN(), 0, 0), false},
		{"+Inf", NewVec3(0, math.Inf(1), 0), false},
		{"-Inf", NewVec3(0, 0, math.Inf(-1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.expected {
				t.Errorf("IsFinite(%v) = %v, expected %v", tt.v, got, tt.expected)
			}
		})
	}
}

func TestAABB_FromPointsAndExpand(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(1, -2, 3), NewVec3(-1, 4, 0), NewVec3(0, 0, 5))
	if !box.Min.Equals(NewVec3(-1, -2, 0)) || !box.Max.Equals(NewVec3(1, 4, 5)) {
		t.Errorf("Unexpected bounds %v", box)
	}

	padded := box.Expand(0.5)
	if !padded.Min.Equals(NewVec3(-1.5, -2.5, -0.5)) || !padded.Max.Equals(NewVec3(1.5, 4.5, 5.5)) {
		t.Errorf("Unexpected expanded bounds %v", padded)
	}

	empty := EmptyAABB()
	if empty.IsValid() {
		t.Error("Expected empty AABB to be invalid")
	}
	if got := empty.Extend(NewVec3(2, 2, 2)); !got.Min.Equals(got.Max) {
		t.Errorf("Expected degenerate box after extending empty box, got %v", got)
	}
}

func TestAABB_HitAxisAlignedRays(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	tests := []struct {
		name     string
		ray      Ray
		expected bool
	}{
		{"through center", NewRay(NewVec3(-1, 0.5, 0.5), NewVec3(1, 0, 0)), true},
		{"along face plane", NewRay(NewVec3(-1, 0, 0.5), NewVec3(1, 0, 0)), true},
		{"along edge", NewRay(NewVec3(0, -1, 1), NewVec3(0, 1, 0)), true},
		{"miss beside", NewRay(NewVec3(-1, 1.5, 0.5), NewVec3(1, 0, 0)), false},
		{"pointing away", NewRay(NewVec3(2, 0.5, 0.5), NewVec3(1, 0, 0)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, 0, math.Inf(1)); got != tt.expected {
				t.Errorf("Hit = %v, expected %v", got, tt.expected)
			}
		})
	}
}
