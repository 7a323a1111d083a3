package pipeline

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
)

// ErrUnrecognizedExtension is returned for inputs that are neither a mesh
// scene nor a point cloud
var ErrUnrecognizedExtension = errors.New("unrecognized extension")

// extensionError names the extension behind ErrUnrecognizedExtension
type extensionError struct {
	ext string
}

func (e extensionError) Error() string {
	return fmt.Sprintf("%v '%s'", ErrUnrecognizedExtension, e.ext)
}

func (e extensionError) Is(target error) bool {
	return target == ErrUnrecognizedExtension
}

// InputKind selects the voxelization path for an input
type InputKind int

const (
	KindUnknown InputKind = iota
	KindMesh
	KindPointCloud
)

func (k InputKind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindPointCloud:
		return "point cloud"
	default:
		return "unknown"
	}
}

// DetectKind maps a file extension onto an input kind: .gltf and .glb are
// mesh scenes, .ply is a point cloud. Matching ignores case.
func DetectKind(path string) InputKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return KindMesh
	case ".ply":
		return KindPointCloud
	default:
		return KindUnknown
	}
}

// Config contains the settings of one voxelization run
type Config struct {
	Input      string    // Scene or point cloud file; empty when Builtin is set
	Builtin    string    // Built-in scene name; empty when Input is set
	Output     string    // Voxel file to write
	Resolution float64   // Voxel edge length in scene units
	Rotation   core.Vec3 // Euler angles in degrees about X, then Y, then Z
	Workers    int       // Worker goroutines, runtime.NumCPU() when <= 0
	MeshCells  int       // Marching cubes cells for built-in scenes, default when <= 0
}

// Kind returns the voxelization path for the configured input
func (c Config) Kind() InputKind {
	if c.Builtin != "" {
		return KindMesh
	}
	return DetectKind(c.Input)
}

// Validate checks the configuration before any file is touched
func (c Config) Validate() error {
	switch {
	case c.Input == "" && c.Builtin == "":
		return errors.New("an input file or a built-in scene is required")
	case c.Input != "" && c.Builtin != "":
		return errors.New("input file and built-in scene are mutually exclusive")
	case c.Output == "":
		return errors.New("an output file is required")
	case !(c.Resolution > 0) || math.IsInf(c.Resolution, 1):
		return errors.Errorf("resolution must be a positive number, got %g", c.Resolution)
	case !c.Rotation.IsFinite():
		return errors.Errorf("rotation must be finite, got %v", c.Rotation)
	}

	if c.Kind() == KindUnknown {
		return extensionError{ext: filepath.Ext(c.Input)}
	}
	return nil
}

// RotationRadians returns the rotation converted to radians
func (c Config) RotationRadians() core.Vec3 {
	return c.Rotation.Multiply(math.Pi / 180)
}
