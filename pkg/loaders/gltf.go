package loaders

import (
	"net/url"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/geometry"
	"github.com/colon-crab-colon/voxelizer/pkg/material"
)

// LoadGLTF loads every triangle primitive reachable from the scenes of a
// .gltf or .glb file as one mesh each. Node transforms are not applied.
func LoadGLTF(filename string) ([]*geometry.Mesh, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open glTF file")
	}

	return MeshesFromDocument(doc, filepath.Dir(filename))
}

// MeshesFromDocument converts a decoded glTF document into meshes. Relative
// image URIs are resolved against baseDir.
func MeshesFromDocument(doc *gltf.Document, baseDir string) ([]*geometry.Mesh, error) {
	var meshes []*geometry.Mesh

	for _, nodeIndex := range sceneNodes(doc) {
		node := doc.Nodes[nodeIndex]
		if node.Mesh == nil {
			continue
		}
		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return nil, errors.Errorf("node %d references missing mesh %d", nodeIndex, *node.Mesh)
		}

		gm := doc.Meshes[*node.Mesh]
		for p, prim := range gm.Primitives {
			mesh, err := primitiveMesh(doc, prim, baseDir)
			if err != nil {
				return nil, errors.Wrapf(err, "mesh %d (%q) primitive %d", *node.Mesh, gm.Name, p)
			}
			meshes = append(meshes, mesh)
		}
	}

	return meshes, nil
}

// sceneNodes returns the nodes of every scene, depth first
func sceneNodes(doc *gltf.Document) []int {
	var nodes []int
	for _, scene := range doc.Scenes {
		stack := append([]int(nil), scene.Nodes...)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if n < 0 || n >= len(doc.Nodes) {
				continue
			}
			nodes = append(nodes, n)
			stack = append(stack, doc.Nodes[n].Children...)
		}
	}
	return nodes
}

func primitiveMesh(doc *gltf.Document, prim *gltf.Primitive, baseDir string) (*geometry.Mesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, errors.Errorf("unsupported primitive mode %v, only triangles are supported", prim.Mode)
	}

	texture, err := baseColorTexture(doc, prim, baseDir)
	if err != nil {
		return nil, err
	}

	posIndex, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("primitive has no POSITION attribute")
	}
	acr, err := accessor(doc, posIndex)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read positions")
	}

	vertices := make([]core.Vec3, len(positions))
	for i, p := range positions {
		vertices[i] = core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2]))
	}

	var indices []int
	if prim.Indices != nil {
		acr, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, err
		}
		raw, err := modeler.ReadIndices(doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read indices")
		}
		indices = make([]int, len(raw))
		for i, idx := range raw {
			indices[i] = int(idx)
		}
	} else {
		// Non-indexed geometry: consecutive vertex triples
		indices = make([]int, len(vertices))
		for i := range indices {
			indices[i] = i
		}
	}

	var texCoords []core.Vec2
	if texture != nil {
		uvIndex, ok := prim.Attributes[gltf.TEXCOORD_0]
		if !ok {
			return nil, errors.New("primitive has a base color texture but no TEXCOORD_0")
		}
		acr, err := accessor(doc, uvIndex)
		if err != nil {
			return nil, err
		}
		uvs, err := modeler.ReadTextureCoord(doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read texture coordinates")
		}
		texCoords = make([]core.Vec2, len(uvs))
		for i, uv := range uvs {
			texCoords[i] = core.NewVec2(float64(uv[0]), float64(uv[1]))
		}
	}

	return geometry.NewMesh(vertices, indices, texCoords, texture)
}

func accessor(doc *gltf.Document, index int) (*gltf.Accessor, error) {
	if index < 0 || index >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor %d out of range", index)
	}
	return doc.Accessors[index], nil
}

// baseColorTexture resolves the image behind a primitive's base color
// texture, or returns nil when the primitive is untextured
func baseColorTexture(doc *gltf.Document, prim *gltf.Primitive, baseDir string) (material.TextureSource, error) {
	if prim.Material == nil || *prim.Material < 0 || *prim.Material >= len(doc.Materials) {
		return nil, nil
	}
	pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorTexture == nil {
		return nil, nil
	}

	texIndex := pbr.BaseColorTexture.Index
	if texIndex < 0 || texIndex >= len(doc.Textures) {
		return nil, errors.Errorf("base color texture %d out of range", texIndex)
	}
	source := doc.Textures[texIndex].Source
	if source == nil || *source < 0 || *source >= len(doc.Images) {
		return nil, errors.Errorf("texture %d has no image source", texIndex)
	}
	img := doc.Images[*source]

	switch {
	case img.BufferView != nil:
		if *img.BufferView < 0 || *img.BufferView >= len(doc.BufferViews) {
			return nil, errors.Errorf("image %d references missing buffer view %d", *source, *img.BufferView)
		}
		data, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read image %d", *source)
		}
		return material.RawTexture(append([]byte(nil), data...)), nil
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode embedded image %d", *source)
		}
		return material.RawTexture(data), nil
	case img.URI != "":
		uri := img.URI
		if unescaped, err := url.PathUnescape(uri); err == nil {
			uri = unescaped
		}
		return material.PathTexture(filepath.Join(baseDir, filepath.FromSlash(uri))), nil
	default:
		return nil, errors.Errorf("image %d has neither a buffer view nor a URI", *source)
	}
}
