package material

// TextureSource is where a mesh's base color image lives before decoding:
// either the encoded bytes themselves or a file path. A nil TextureSource
// means the mesh is untextured.
type TextureSource interface {
	isTextureSource()
}

// RawTexture holds an encoded image (PNG, JPEG, ...) embedded in the scene
type RawTexture []byte

// PathTexture references an image file on disk
type PathTexture string

func (RawTexture) isTextureSource()  {}
func (PathTexture) isTextureSource() {}
