// Package texture prepares decoded artwork for the viewer: power-of-two
// resizing with alpha-aware filtering, and WebP encoding for transport
// to the frontend.
package texture

import (
	"bytes"
	"fmt"
	"image"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// DefaultMaxDim caps texture dimensions at a safe size for webview GPUs.
const DefaultMaxDim = 2048

// FitPowerOfTwo snaps each image dimension down to the nearest power of
// two, capped at maxDim. Images already conforming are returned as-is.
// Aspect ratio is not preserved; mesh UVs absorb the stretch.
func FitPowerOfTwo(img *image.NRGBA, maxDim int) *image.NRGBA {
	if maxDim < 1 {
		maxDim = DefaultMaxDim
	}
	b := img.Bounds()
	w := floorPowerOfTwo(b.Dx(), maxDim)
	h := floorPowerOfTwo(b.Dy(), maxDim)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return Resize(img, w, h)
}

// Resize scales img to w x h with premultiplied-alpha CatmullRom
// filtering, which avoids dark fringes where opaque artwork meets
// transparent background.
func Resize(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()

	// Premultiply alpha
	premul := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := premul.PixOffset(x, y)
			a := float64(img.Pix[si+3]) / 255.0
			premul.Pix[di] = uint8(float64(img.Pix[si])*a + 0.5)
			premul.Pix[di+1] = uint8(float64(img.Pix[si+1])*a + 0.5)
			premul.Pix[di+2] = uint8(float64(img.Pix[si+2])*a + 0.5)
			premul.Pix[di+3] = img.Pix[si+3]
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	// Unpremultiply alpha
	result := image.NewNRGBA(dst.Bounds())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := dst.PixOffset(x, y)
			di := result.PixOffset(x, y)
			a := float64(dst.Pix[si+3])
			if a > 1 {
				inv := 255.0 / a
				result.Pix[di] = clamp8(float64(dst.Pix[si]) * inv)
				result.Pix[di+1] = clamp8(float64(dst.Pix[si+1]) * inv)
				result.Pix[di+2] = clamp8(float64(dst.Pix[si+2]) * inv)
			}
			result.Pix[di+3] = dst.Pix[si+3]
		}
	}

	return result
}

// EncodeWebP encodes the image losslessly for the viewer.
func EncodeWebP(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("texture: webp encode: %w", err)
	}
	return buf.Bytes(), nil
}

func floorPowerOfTwo(v, limit int) int {
	if v > limit {
		v = limit
	}
	p := 1
	for p*2 <= v {
		p *= 2
	}
	return p
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
