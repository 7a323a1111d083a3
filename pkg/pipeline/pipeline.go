package pipeline

import (
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/geometry"
	"github.com/colon-crab-colon/voxelizer/pkg/loaders"
	"github.com/colon-crab-colon/voxelizer/pkg/scene"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
	"github.com/colon-crab-colon/voxelizer/pkg/voxelizer"
)

// Result summarizes a finished run
type Result struct {
	Kind    InputKind
	Samples int // Samples before deduplication
	Voxels  int // Voxels written
	Stats   voxelizer.ScanStats
}

// Pipeline loads an input, voxelizes it and writes the voxel file
type Pipeline struct {
	config   Config
	logger   core.Logger
	progress core.Progress
}

// New creates a pipeline. logger and progress may be nil.
func New(config Config, logger core.Logger, progress core.Progress) *Pipeline {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if progress == nil {
		progress = core.NopProgress{}
	}
	return &Pipeline{config: config, logger: logger, progress: progress}
}

// Run executes the pipeline. The output file is only written once
// voxelization succeeded.
func (p *Pipeline) Run() (*Result, error) {
	if err := p.config.Validate(); err != nil {
		return nil, err
	}

	p.logger.Printf("Using %g resolution\n", p.config.Resolution)

	var (
		samples []voxel.Sample
		result  *Result
		err     error
	)
	switch p.config.Kind() {
	case KindMesh:
		samples, result, err = p.runMesh()
	case KindPointCloud:
		samples, result, err = p.runPointCloud()
	}
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := voxel.WriteFile(p.config.Output, samples); err != nil {
		return nil, err
	}
	result.Voxels = len(samples)
	p.logger.Printf("Saved %d voxels in file '%s' in %.3fs!\n",
		len(samples), p.config.Output, time.Since(start).Seconds())

	return result, nil
}

func (p *Pipeline) inputName() string {
	if p.config.Builtin != "" {
		return "builtin:" + p.config.Builtin
	}
	return p.config.Input
}

func (p *Pipeline) loadMeshes() ([]*geometry.Mesh, error) {
	if p.config.Builtin != "" {
		return scene.NewBuiltinMeshes(p.config.Builtin, p.config.MeshCells)
	}
	return loaders.LoadGLTF(p.config.Input)
}

func (p *Pipeline) runMesh() ([]voxel.Sample, *Result, error) {
	start := time.Now()
	meshes, err := p.loadMeshes()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to load '%s'", p.inputName())
	}

	rotation := p.config.RotationRadians()
	for _, mesh := range meshes {
		mesh.SetBuildWorkers(p.config.Workers)
		if rotation != (core.Vec3{}) {
			mesh.Rotate(rotation)
		}
	}
	triangles := lo.SumBy(meshes, func(mesh *geometry.Mesh) int {
		return mesh.TriangleCount()
	})
	p.logger.Printf("Loaded '%s' (%d meshes, %d triangles) in %.3fs\n",
		p.inputName(), len(meshes), triangles, time.Since(start).Seconds())

	start = time.Now()
	shell := voxelizer.NewShellVoxelizer(p.config.Workers, p.progress, p.logger)
	set, stats, err := shell.VoxelizeScene(meshes, p.config.Resolution)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to voxelize scene")
	}
	p.logger.Printf("Voxelized scene in %.3fs\n", time.Since(start).Seconds())

	start = time.Now()
	samples := set.Samples()
	p.logger.Printf("Deduplicated %d samples into %d voxels in %.3fs\n",
		stats.Hits, len(samples), time.Since(start).Seconds())

	return samples, &Result{Kind: KindMesh, Samples: stats.Hits, Stats: stats}, nil
}

func (p *Pipeline) runPointCloud() ([]voxel.Sample, *Result, error) {
	start := time.Now()
	pc, err := loaders.LoadPointCloudPLY(p.config.Input)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to load '%s'", p.config.Input)
	}

	rotation := p.config.RotationRadians()
	if rotation != (core.Vec3{}) {
		pc.Rotate(rotation)
	}
	p.logger.Printf("Loaded '%s' (%d points) in %.3fs\n", p.config.Input, pc.Len(), time.Since(start).Seconds())

	start = time.Now()
	samples, err := voxelizer.VoxelizePointCloud(pc, p.config.Resolution, p.progress)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to voxelize point cloud")
	}
	p.logger.Printf("Voxelized point cloud in %.3fs\n", time.Since(start).Seconds())

	return samples, &Result{Kind: KindPointCloud, Samples: pc.Len()}, nil
}
