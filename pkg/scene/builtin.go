package scene

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"sort"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/geometry"
	"github.com/colon-crab-colon/voxelizer/pkg/material"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

// DefaultMeshCells controls marching cubes tessellation resolution
const DefaultMeshCells = 64

// BuiltinInfo describes a built-in scene
type BuiltinInfo struct {
	Name        string
	Description string
}

type builtin struct {
	info  BuiltinInfo
	build func(cells int) ([]*geometry.Mesh, error)
}

var builtins = map[string]builtin{
	"sphere": {
		info:  BuiltinInfo{"sphere", "unit sphere centered at the origin"},
		build: func(cells int) ([]*geometry.Mesh, error) { return single(newSphere(cells)) },
	},
	"box": {
		info:  BuiltinInfo{"box", "2x1x1 box with rounded edges"},
		build: func(cells int) ([]*geometry.Mesh, error) { return single(newBox(cells)) },
	},
	"cylinder": {
		info:  BuiltinInfo{"cylinder", "cylinder along Z, height 2 and radius 0.5, with a gradient along its axis"},
		build: func(cells int) ([]*geometry.Mesh, error) { return single(newCylinder(cells)) },
	},
	"globe": {
		info:  BuiltinInfo{"globe", "unit sphere with a checkerboard texture"},
		build: func(cells int) ([]*geometry.Mesh, error) { return single(newGlobe(cells)) },
	},
	"uvglobe": {
		info:  BuiltinInfo{"uvglobe", "unit sphere with U as red and V as green"},
		build: func(cells int) ([]*geometry.Mesh, error) { return single(newUVGlobe(cells)) },
	},
	"pair": {
		info: BuiltinInfo{"pair", "sphere and box as two overlapping meshes"},
		build: func(cells int) ([]*geometry.Mesh, error) {
			sphere, err := newSphere(cells)
			if err != nil {
				return nil, err
			}
			box, err := newBox(cells)
			if err != nil {
				return nil, err
			}
			return []*geometry.Mesh{sphere, box}, nil
		},
	},
}

// ListBuiltins returns the built-in scenes sorted by name
func ListBuiltins() []BuiltinInfo {
	infos := lo.MapToSlice(builtins, func(_ string, b builtin) BuiltinInfo {
		return b.info
	})
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// NewBuiltinMeshes tessellates a built-in scene with the given number of
// marching cubes cells along its longest side (DefaultMeshCells when <= 0)
func NewBuiltinMeshes(name string, cells int) ([]*geometry.Mesh, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, errors.Errorf("unknown built-in scene %q", name)
	}
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return b.build(cells)
}

func single(mesh *geometry.Mesh, err error) ([]*geometry.Mesh, error) {
	if err != nil {
		return nil, err
	}
	return []*geometry.Mesh{mesh}, nil
}

func newSphere(cells int) (*geometry.Mesh, error) {
	s, err := sdf.Sphere3D(1)
	if err != nil {
		return nil, errors.Wrap(err, "sphere")
	}
	return meshFromSDF(s, cells, nil, nil)
}

// newBox builds the box shifted along +X so it overlaps the unit sphere
func newBox(cells int) (*geometry.Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: 2, Y: 1, Z: 1}, 0.1)
	if err != nil {
		return nil, errors.Wrap(err, "box")
	}
	s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: 1}))
	return meshFromSDF(s, cells, nil, nil)
}

func newGlobe(cells int) (*geometry.Mesh, error) {
	s, err := sdf.Sphere3D(1)
	if err != nil {
		return nil, errors.Wrap(err, "globe")
	}

	checker := material.NewCheckerboardTexture(64, 32, 8,
		voxel.Color{230, 230, 230, 255}, voxel.Color{40, 90, 200, 255})
	texture, err := encodeTexture(checker)
	if err != nil {
		return nil, err
	}

	return meshFromSDF(s, cells, sphericalUV, texture)
}

func newUVGlobe(cells int) (*geometry.Mesh, error) {
	s, err := sdf.Sphere3D(1)
	if err != nil {
		return nil, errors.Wrap(err, "uvglobe")
	}

	texture, err := encodeTexture(material.NewUVDebugTexture(64, 32))
	if err != nil {
		return nil, err
	}
	return meshFromSDF(s, cells, sphericalUV, texture)
}

func newCylinder(cells int) (*geometry.Mesh, error) {
	s, err := sdf.Cylinder3D(2, 0.5, 0.05)
	if err != nil {
		return nil, errors.Wrap(err, "cylinder")
	}

	gradient := material.NewGradientTexture(4, 32,
		voxel.Color{250, 200, 60, 255}, voxel.Color{150, 30, 30, 255})
	texture, err := encodeTexture(gradient)
	if err != nil {
		return nil, err
	}
	return meshFromSDF(s, cells, cylindricalUV, texture)
}

// cylindricalUV maps a point on a Z-axis cylinder of height 2 to angle (u)
// and height (v), v=0 at the top cap
func cylindricalUV(p core.Vec3) core.Vec2 {
	u := 0.5 + math.Atan2(p.Y, p.X)/(2*math.Pi)
	v := math.Max(0, math.Min(1, (1-p.Z)/2))
	return core.NewVec2(u, v)
}

// sphericalUV maps a point to longitude (u) and latitude (v), v=0 at +Y
func sphericalUV(p core.Vec3) core.Vec2 {
	length := p.Length()
	if length == 0 {
		return core.Vec2{}
	}
	u := 0.5 + math.Atan2(p.Z, p.X)/(2*math.Pi)
	v := 0.5 - math.Asin(math.Max(-1, math.Min(1, p.Y/length)))/math.Pi
	return core.NewVec2(u, v)
}

// meshFromSDF tessellates s with marching cubes. uv assigns per-vertex
// texture coordinates and must be set when texture is.
func meshFromSDF(s sdf.SDF3, cells int, uv func(core.Vec3) core.Vec2, texture material.TextureSource) (*geometry.Mesh, error) {
	renderer := render.NewMarchingCubesUniform(cells)
	sdfTriangles := render.ToTriangles(s, renderer)
	if len(sdfTriangles) == 0 {
		return nil, errors.New("marching cubes produced no triangles")
	}

	triangles := make([]geometry.Triangle, 0, len(sdfTriangles))
	for _, tri := range sdfTriangles {
		var vertices [3]core.Vec3
		var uvs [3]core.Vec2
		for j := 0; j < 3; j++ {
			vertices[j] = core.NewVec3(tri[j].X, tri[j].Y, tri[j].Z)
			if uv != nil {
				uvs[j] = uv(vertices[j])
			}
		}
		triangles = append(triangles, geometry.NewTriangle(
			vertices[0], vertices[1], vertices[2],
			uvs[0], uvs[1], uvs[2],
		))
	}

	return geometry.NewMeshFromTriangles(triangles, texture), nil
}

// encodeTexture stores a raster as PNG bytes, the form meshes carry
// embedded textures in
func encodeTexture(texture *material.ImageTexture) (material.RawTexture, error) {
	img := image.NewNRGBA(image.Rect(0, 0, texture.Width, texture.Height))
	for i, c := range texture.Pixels {
		copy(img.Pix[i*4:i*4+4], c[:])
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "failed to encode texture")
	}
	return material.RawTexture(buf.Bytes()), nil
}
