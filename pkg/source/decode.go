package source

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/webp"
)

// DecodeArtwork decodes PNG, JPEG, TGA or WebP artwork into NRGBA.
// Format detection follows the registered decoders.
func DecodeArtwork(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("source: decode artwork: %w", err)
	}
	return toNRGBA(img), nil
}

// LoadArtwork reads and decodes an artwork file.
func LoadArtwork(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := DecodeArtwork(f)
	if err != nil {
		return nil, fmt.Errorf("source: load %s: %w", path, err)
	}
	return img, nil
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
