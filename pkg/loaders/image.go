package loaders

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/colon-crab-colon/voxelizer/pkg/material"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

// LoadImage loads an image file and converts it to an RGBA8 raster
func LoadImage(filename string) (*material.ImageTexture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image file")
	}
	defer file.Close()

	return DecodeImage(file)
}

// DecodeImage decodes any registered image format (detected from its header)
// into an RGBA8 raster with straight, non-premultiplied alpha
func DecodeImage(r io.Reader) (*material.ImageTexture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, errors.Errorf("image has no pixels (%dx%d)", width, height)
	}
	pixels := make([]voxel.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			pixels[y*width+x] = voxel.Color{c.R, c.G, c.B, c.A}
		}
	}

	return material.NewImageTexture(width, height, pixels), nil
}

// DecodeTexture resolves a mesh texture source into the color source used
// while voxelizing. A nil source yields the untextured (white) color source.
func DecodeTexture(source material.TextureSource) (material.ColorSource, error) {
	switch s := source.(type) {
	case nil:
		return material.Untextured, nil
	case material.RawTexture:
		texture, err := DecodeImage(bytes.NewReader(s))
		if err != nil {
			return nil, errors.Wrap(err, "embedded texture")
		}
		return texture, nil
	case material.PathTexture:
		texture, err := LoadImage(string(s))
		if err != nil {
			return nil, errors.Wrapf(err, "texture %s", string(s))
		}
		return texture, nil
	default:
		return nil, errors.Errorf("unsupported texture source %T", source)
	}
}
