package voxelizer

import (
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/geometry"
	"github.com/colon-crab-colon/voxelizer/pkg/loaders"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

// Number of meshes of a scene scanned at the same time; each scan runs its
// own worker pool
const sceneParallelism = 2

// ShellVoxelizer turns triangle meshes into surface voxels by casting grid
// aligned rays along all three principal axes
type ShellVoxelizer struct {
	Workers  int           // Row workers per mesh, runtime.NumCPU() when <= 0
	Progress core.Progress // Advanced once per scan row; may be nil
	Logger   core.Logger   // May be nil
}

// NewShellVoxelizer creates a shell voxelizer
func NewShellVoxelizer(workers int, progress core.Progress, logger core.Logger) *ShellVoxelizer {
	return &ShellVoxelizer{Workers: workers, Progress: progress, Logger: logger}
}

// ScanResult holds the raw output of a shell scan
type ScanResult struct {
	Samples []voxel.Sample // One per accepted crossing; duplicates included
	Bounds  ScanBounds
	Stats   ScanStats
}

// scanPlan is a validated mesh ready to be scanned
type scanPlan struct {
	mesh    *geometry.Mesh
	scanner *RowScanner
	bounds  ScanBounds
	empty   bool
}

func (p *scanPlan) rows() int64 {
	if p.empty {
		return 0
	}
	return p.bounds.Rows()
}

// tasks lists the rows of the X, Y and Z passes in that order
func (p *scanPlan) tasks() []RowTask {
	tasks := make([]RowTask, 0, p.rows())
	passes := []struct {
		scan  Axis
		outer Axis
	}{
		{AxisX, AxisY},
		{AxisY, AxisX},
		{AxisZ, AxisX},
	}
	for _, pass := range passes {
		for outer := p.bounds.Min[pass.outer]; outer < p.bounds.Max[pass.outer]; outer++ {
			tasks = append(tasks, RowTask{Axis: pass.scan, Outer: outer, TaskID: len(tasks)})
		}
	}
	return tasks
}

func (v *ShellVoxelizer) progress() core.Progress {
	if v.Progress == nil {
		return core.NopProgress{}
	}
	return v.Progress
}

func (v *ShellVoxelizer) logger() core.Logger {
	if v.Logger == nil {
		return core.NopLogger{}
	}
	return v.Logger
}

// Voxelize scans a mesh and returns every surface crossing as a sample. The
// result may hold several samples per coordinate; see voxel.Dedup.
func (v *ShellVoxelizer) Voxelize(mesh *geometry.Mesh, resolution float64) ([]voxel.Sample, error) {
	result, err := v.Scan(mesh, resolution)
	if err != nil {
		return nil, err
	}
	return result.Samples, nil
}

// Scan is Voxelize with the scan bounds and statistics
func (v *ShellVoxelizer) Scan(mesh *geometry.Mesh, resolution float64) (*ScanResult, error) {
	plan, err := v.plan(mesh, resolution)
	if err != nil {
		return nil, err
	}

	v.progress().SetTotal(int(plan.rows()))
	return v.run(plan), nil
}

// VoxelizeScene scans several meshes into one voxel set. Coordinates hit by
// more than one mesh keep the color of whichever write lands last.
func (v *ShellVoxelizer) VoxelizeScene(meshes []*geometry.Mesh, resolution float64) (*voxel.Set, ScanStats, error) {
	var total ScanStats

	// Decode every texture before scanning anything so a bad input aborts early
	plans := make([]*scanPlan, len(meshes))
	var rows int64
	for i, mesh := range meshes {
		plan, err := v.plan(mesh, resolution)
		if err != nil {
			return nil, total, errors.Wrapf(err, "mesh %d", i)
		}
		plans[i] = plan
		rows += plan.rows()
	}
	v.progress().SetTotal(int(rows))

	start := time.Now()
	set := voxel.NewSet()
	var mu sync.Mutex

	var group errgroup.Group
	group.SetLimit(sceneParallelism)
	for _, plan := range plans {
		group.Go(func() error {
			result := v.run(plan)
			set.PutAll(result.Samples)

			mu.Lock()
			total.Merge(result.Stats)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait() // scans do not fail once planned

	total.Duration = time.Since(start)
	return set, total, nil
}

// plan validates the inputs and decodes the texture of a mesh
func (v *ShellVoxelizer) plan(mesh *geometry.Mesh, resolution float64) (*scanPlan, error) {
	if !(resolution > 0) || math.IsInf(resolution, 1) {
		return nil, errors.Errorf("resolution must be a positive finite number, got %g", resolution)
	}
	if mesh == nil {
		return nil, errors.New("mesh is nil")
	}
	if mesh.TriangleCount() == 0 {
		return &scanPlan{mesh: mesh, empty: true}, nil
	}

	bounds, err := NewScanBounds(mesh.BoundingBox(), resolution)
	if err != nil {
		return nil, err
	}

	colors, err := loaders.DecodeTexture(mesh.Texture())
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode mesh texture")
	}

	return &scanPlan{
		mesh:    mesh,
		scanner: NewRowScanner(mesh, colors, resolution, bounds),
		bounds:  bounds,
	}, nil
}

// run scans every row of a plan on a worker pool
func (v *ShellVoxelizer) run(plan *scanPlan) *ScanResult {
	result := &ScanResult{Bounds: plan.bounds}
	if plan.empty {
		return result
	}

	start := time.Now()
	progress := v.progress()
	tasks := plan.tasks()

	pool := NewWorkerPool(plan.scanner, len(tasks), v.Workers)
	pool.Start()
	for _, task := range tasks {
		pool.SubmitTask(task)
	}

	for range tasks {
		rowResult, ok := pool.GetResult()
		if !ok {
			break
		}
		result.Samples = append(result.Samples, rowResult.Samples...)
		result.Stats.Merge(rowResult.Stats)
		progress.Add(1)
	}
	pool.Stop()

	result.Stats.Duration = time.Since(start)
	v.logger().Printf("Scanned %d triangles (BVH: %s) with %d workers: %s\n",
		plan.mesh.TriangleCount(), plan.mesh.BVH().Stats(), pool.GetNumWorkers(), result.Stats)

	return result
}
