package geometry

import (
	"math"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
)

// BoundsMargin pads every triangle's indexed bounds on each axis so that rays
// grazing a triangle are not pruned by round-off in the slab test.
const BoundsMargin = 0.001

const (
	// hitEpsilon is the slack allowed on distance and barycentrics
	hitEpsilon = 1e-5
	// determinantEpsilon rejects back faces and rays parallel to the plane
	determinantEpsilon = 1e-8
)

// Triangle is a world-space triangle with one texture coordinate per vertex
type Triangle struct {
	A, B, C       core.Vec3 // Vertex positions
	UVA, UVB, UVC core.Vec2 // Texture coordinates matching A, B, C
}

// NewTriangle creates a new triangle
func NewTriangle(a, b, c core.Vec3, uva, uvb, uvc core.Vec2) Triangle {
	return Triangle{A: a, B: b, C: c, UVA: uva, UVB: uvb, UVC: uvc}
}

// Intersection describes a ray hit: distance along the ray and barycentric
// weights u (vertex B) and v (vertex C)
type Intersection struct {
	T, U, V float64
}

// Bounds returns the triangle's bounding box padded by BoundsMargin
func (t Triangle) Bounds() core.AABB {
	return core.NewAABBFromPoints(t.A, t.B, t.C).Expand(BoundsMargin)
}

// Intersect tests the ray against both windings of the triangle, so hits on
// front and back faces are both reported. Near-boundary hits within hitEpsilon
// are accepted, then clamped: T to >= 0 and U, V to [0, 1].
func (t Triangle) Intersect(ray core.Ray) (Intersection, bool) {
	if hit, ok := accept(intersectWinding(ray, t.A, t.B, t.C)); ok {
		return hit, true
	}

	// Reversed winding swaps the roles of B and C
	if hit, ok := accept(intersectWinding(ray, t.A, t.C, t.B)); ok {
		hit.U, hit.V = hit.V, hit.U
		return hit, true
	}

	return Intersection{}, false
}

// InterpolateUV returns the texture coordinate at a hit using weights
// (1-u-v, u, v) for vertices A, B, C
func (t Triangle) InterpolateUV(hit Intersection) core.Vec2 {
	alpha := 1 - hit.U - hit.V
	beta := hit.U
	gamma := hit.V
	return core.Vec2{
		X: alpha*t.UVA.X + beta*t.UVB.X + gamma*t.UVC.X,
		Y: alpha*t.UVA.Y + beta*t.UVB.Y + gamma*t.UVC.Y,
	}
}

// intersectWinding is the Möller-Trumbore test for one winding. Back faces and
// parallel rays report an infinite distance; u and v are left unchecked.
func intersectWinding(ray core.Ray, a, b, c core.Vec3) Intersection {
	edge1 := b.Subtract(a)
	edge2 := c.Subtract(a)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if det < determinantEpsilon {
		return Intersection{T: math.Inf(1)}
	}

	f := 1.0 / det
	s := ray.Origin.Subtract(a)
	u := f * s.Dot(h)

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)

	return Intersection{T: f * edge2.Dot(q), U: u, V: v}
}

// accept applies the epsilon-tolerant acceptance predicate and clamps
func accept(hit Intersection) (Intersection, bool) {
	// Written as a positive test so NaN fails every comparison
	ok := !math.IsInf(hit.T, 0) &&
		hit.T >= -hitEpsilon &&
		hit.U >= -hitEpsilon && hit.U <= 1+hitEpsilon &&
		hit.V >= -hitEpsilon && hit.V <= 1+hitEpsilon &&
		hit.U+hit.V <= 1+hitEpsilon
	if !ok {
		return Intersection{}, false
	}

	if hit.T < 0 {
		hit.T = 0
	}
	hit.U = clamp01(hit.U)
	hit.V = clamp01(hit.V)
	return hit, true
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
