package voxelizer

import (
	"fmt"
	"time"
)

// ScanStats contains statistics about a shell scan
type ScanStats struct {
	Rows       int           // Scan rows processed
	Rays       int           // Rays cast
	Candidates int           // Triangles returned by the BVH
	Hits       int           // Accepted intersections, one sample each
	Duration   time.Duration // Wall time of the scan
}

// Merge accumulates the counters of another scan
func (s *ScanStats) Merge(other ScanStats) {
	s.Rows += other.Rows
	s.Rays += other.Rays
	s.Candidates += other.Candidates
	s.Hits += other.Hits
}

// HitRate returns the fraction of candidate tests that were accepted
func (s ScanStats) HitRate() float64 {
	if s.Candidates == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Candidates)
}

func (s ScanStats) String() string {
	return fmt.Sprintf("%d rows, %d rays, %d candidates, %d hits (%.1f%%) in %v",
		s.Rows, s.Rays, s.Candidates, s.Hits, 100*s.HitRate(), s.Duration.Round(time.Millisecond))
}
