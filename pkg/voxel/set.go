package voxel

import (
	"sort"
	"sync"
)

// numShards must stay a power of two
const numShards = 64

type shard struct {
	mu     sync.Mutex
	voxels map[Coord]Color
}

// Set maps each grid coordinate to exactly one color. A later Put for a
// coordinate replaces the earlier color. Set is safe for concurrent use; the
// coordinate space is split across independently locked shards.
type Set struct {
	shards [numShards]shard
}

// NewSet creates an empty voxel set
func NewSet() *Set {
	s := &Set{}
	for i := range s.shards {
		s.shards[i].voxels = make(map[Coord]Color)
	}
	return s
}

func shardIndex(c Coord) int {
	h := uint32(c.X)*73856093 ^ uint32(c.Y)*19349663 ^ uint32(c.Z)*83492791
	h ^= h >> 16
	return int(h & (numShards - 1))
}

// Put stores the color for a coordinate, overwriting any previous color
func (s *Set) Put(c Coord, color Color) {
	sh := &s.shards[shardIndex(c)]
	sh.mu.Lock()
	sh.voxels[c] = color
	sh.mu.Unlock()
}

// PutAll stores every sample in order. Within one call, later samples win
// over earlier ones for the same coordinate.
func (s *Set) PutAll(samples []Sample) {
	var buckets [numShards][]Sample
	for _, sample := range samples {
		idx := shardIndex(sample.Coord)
		buckets[idx] = append(buckets[idx], sample)
	}

	for idx, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		sh := &s.shards[idx]
		sh.mu.Lock()
		for _, sample := range bucket {
			sh.voxels[sample.Coord] = sample.Color
		}
		sh.mu.Unlock()
	}
}

// Get returns the color stored for a coordinate
func (s *Set) Get(c Coord) (Color, bool) {
	sh := &s.shards[shardIndex(c)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	color, ok := sh.voxels[c]
	return color, ok
}

// Len returns the number of distinct coordinates
func (s *Set) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.voxels)
		sh.mu.Unlock()
	}
	return n
}

// Samples returns one sample per coordinate, ordered by Z, then Y, then X
func (s *Set) Samples() []Sample {
	samples := make([]Sample, 0, s.Len())
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for c, color := range sh.voxels {
			samples = append(samples, Sample{Coord: c, Color: color})
		}
		sh.mu.Unlock()
	}

	sort.Slice(samples, func(i, j int) bool {
		a, b := samples[i].Coord, samples[j].Coord
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return samples
}

// Dedup reduces a sample list to one sample per coordinate, the last sample
// for a coordinate winning
func Dedup(samples []Sample) []Sample {
	set := NewSet()
	set.PutAll(samples)
	return set.Samples()
}
