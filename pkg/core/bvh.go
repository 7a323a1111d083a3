package core

import (
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// PrimitiveID is an opaque handle to a primitive indexed by a BVH. It is the
// position of the primitive's bounds in the slice passed to NewBVH.
type PrimitiveID int32

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox AABB
	Left        *BVHNode
	Right       *BVHNode
	Primitives  []PrimitiveID // Primitives for leaf nodes (nil for internal nodes)
}

// BVH is a bounding volume hierarchy over primitive bounds. It keeps its own
// arena of bounds, so primitives never carry index bookkeeping themselves.
// A BVH is immutable once built and safe for concurrent queries.
type BVH struct {
	Root    *BVHNode
	bounds  []AABB
	centers []Vec3
}

// Leaf threshold: if we have this many or fewer primitives, store them in a leaf node
const leafThreshold = 8

// Subtrees with at least this many primitives are handed to another goroutine
const parallelBuildThreshold = 2048

// NewBVH builds a BVH over the given primitive bounds. Large subtrees are built
// concurrently by up to workers goroutines (runtime.NumCPU() when workers <= 0);
// the call returns once the whole tree is ready.
func NewBVH(bounds []AABB, workers int) *BVH {
	bvh := &BVH{
		bounds:  make([]AABB, len(bounds)),
		centers: make([]Vec3, len(bounds)),
	}
	if len(bounds) == 0 {
		return bvh
	}

	copy(bvh.bounds, bounds)
	ids := make([]PrimitiveID, len(bounds))
	for i, box := range bvh.bounds {
		ids[i] = PrimitiveID(i)
		bvh.centers[i] = box.Center()
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var group errgroup.Group
	group.SetLimit(workers)
	builder := &bvhBuilder{bvh: bvh, group: &group}
	bvh.Root = builder.build(ids)
	_ = group.Wait() // builders never fail; Wait only synchronizes

	return bvh
}

type bvhBuilder struct {
	bvh   *BVH
	group *errgroup.Group
}

// build recursively builds the BVH using a median split along the longest axis
func (b *bvhBuilder) build(ids []PrimitiveID) *BVHNode {
	boundingBox := b.bvh.bounds[ids[0]]
	for _, id := range ids[1:] {
		boundingBox = boundingBox.Union(b.bvh.bounds[id])
	}

	if len(ids) <= leafThreshold {
		return &BVHNode{
			BoundingBox: boundingBox,
			Primitives:  ids,
		}
	}

	axis := boundingBox.LongestAxis()
	b.sortByAxis(ids, axis)

	mid := len(ids) / 2
	left, right := ids[:mid], ids[mid:]
	node := &BVHNode{BoundingBox: boundingBox}

	// Halves are disjoint subslices, so they can be sorted concurrently.
	if len(ids) >= parallelBuildThreshold && b.group.TryGo(func() error {
		node.Left = b.build(left)
		return nil
	}) {
		node.Right = b.build(right)
		return node
	}

	node.Left = b.build(left)
	node.Right = b.build(right)
	return node
}

// sortByAxis sorts primitives by their bounding box center along the specified axis
func (b *bvhBuilder) sortByAxis(ids []PrimitiveID, axis int) {
	centers := b.bvh.centers
	sort.Slice(ids, func(i, j int) bool {
		return centers[ids[i]].Axis(axis) < centers[ids[j]].Axis(axis)
	})
}

// Len returns the number of indexed primitives
func (bvh *BVH) Len() int {
	return len(bvh.bounds)
}

// Bounds returns the indexed bounds of a primitive
func (bvh *BVH) Bounds(id PrimitiveID) AABB {
	return bvh.bounds[id]
}

// Candidates calls visit for every primitive whose bounds the ray crosses at
// t >= 0. This only prunes; callers run the exact intersection test.
func (bvh *BVH) Candidates(ray Ray, visit func(PrimitiveID)) {
	if bvh.Root == nil {
		return
	}
	bvh.visitNode(bvh.Root, ray, visit)
}

// CandidateIDs collects the result of Candidates into a slice
func (bvh *BVH) CandidateIDs(ray Ray) []PrimitiveID {
	var ids []PrimitiveID
	bvh.Candidates(ray, func(id PrimitiveID) {
		ids = append(ids, id)
	})
	return ids
}

func (bvh *BVH) visitNode(node *BVHNode, ray Ray, visit func(PrimitiveID)) {
	if !node.BoundingBox.Hit(ray, 0, math.Inf(1)) {
		return
	}

	if node.Primitives != nil {
		for _, id := range node.Primitives {
			if bvh.bounds[id].Hit(ray, 0, math.Inf(1)) {
				visit(id)
			}
		}
		return
	}

	if node.Left != nil {
		bvh.visitNode(node.Left, ray, visit)
	}
	if node.Right != nil {
		bvh.visitNode(node.Right, ray, visit)
	}
}

// Stats walks the tree and reports its shape
func (bvh *BVH) Stats() BVHStats {
	if bvh.Root == nil {
		return BVHStats{}
	}

	stats := BVHStats{}
	bvh.collectStats(bvh.Root, 0, &stats)

	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}

	return stats
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes      int
	LeafNodes       int
	MaxDepth        int
	AvgDepth        float64
	TotalPrimitives int
}

func (s BVHStats) String() string {
	return fmt.Sprintf("%d nodes, %d leaves, depth %d (avg %.1f)",
		s.TotalNodes, s.LeafNodes, s.MaxDepth, s.AvgDepth)
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++

	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.Primitives != nil {
		stats.LeafNodes++
		stats.TotalPrimitives += len(node.Primitives)
		stats.AvgDepth += float64(depth)
		return
	}

	if node.Left != nil {
		bvh.collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		bvh.collectStats(node.Right, depth+1, stats)
	}
}
