package source

import (
	"fmt"
	"image"

	"github.com/drapehq/drape/pkg/geometry"
)

// Banner defaults. Width is in scene units; height follows the artwork's
// aspect ratio unless given.
const (
	defaultBannerWidth    = 2.0
	defaultBannerSegments = 64
)

// BannerOptions controls FromImage.
type BannerOptions struct {
	// Width and Height of the banner in scene units. Zero means derive
	// from the artwork aspect ratio (and a default width of 2).
	Width  float64
	Height float64

	// SegmentsX subdivides the banner horizontally; vertical segments
	// follow the aspect ratio. Zero means 64.
	SegmentsX int

	// Emboss displaces vertices along +Z by pixel luminance times this
	// depth, so bright artwork regions stand proud of the banner. Zero
	// disables displacement.
	Emboss float64
}

// FromImage builds a banner mesh sized to the artwork. With a non-zero
// Emboss depth the banner is displaced by image luminance and its
// normals recomputed, which is what makes relief survive projection.
func FromImage(img image.Image, opts BannerOptions) (*geometry.Geometry, error) {
	if img == nil {
		return nil, fmt.Errorf("source: from image: nil image")
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("source: from image: empty %dx%d artwork", b.Dx(), b.Dy())
	}
	aspect := float64(b.Dx()) / float64(b.Dy())

	width, height := opts.Width, opts.Height
	switch {
	case width == 0 && height == 0:
		width = defaultBannerWidth
		height = width / aspect
	case width == 0:
		width = height * aspect
	case height == 0:
		height = width / aspect
	}

	segX := opts.SegmentsX
	if segX < 1 {
		segX = defaultBannerSegments
	}
	segY := int(float64(segX) / aspect)
	if segY < 1 {
		segY = 1
	}

	g := Plane(width, height, segX, segY)

	if opts.Emboss != 0 {
		nrgba := toNRGBA(img)
		for i := 0; i < g.VertexCount(); i++ {
			x, y, _ := g.Position(i)
			u, v := g.UV(i)
			g.SetPosition(i, x, y, lumaAt(nrgba, u, v)*opts.Emboss)
		}
		geometry.ComputeNormals(g)
	}

	return g, nil
}

// lumaAt samples relative luminance at (u,v) with bilinear filtering.
// v=0 is the bottom of the banner and maps to the artwork's last row.
func lumaAt(img *image.NRGBA, u, v float64) float64 {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	fx := u * float64(w-1)
	fy := (1 - v) * float64(h-1)
	x0, y0 := int(fx), int(fy)
	x1, y1 := x0+1, y0+1
	if x1 > w-1 {
		x1 = w - 1
	}
	if y1 > h-1 {
		y1 = h - 1
	}
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	l00 := lumaPixel(img, x0, y0)
	l10 := lumaPixel(img, x1, y0)
	l01 := lumaPixel(img, x0, y1)
	l11 := lumaPixel(img, x1, y1)

	top := l00*(1-tx) + l10*tx
	bottom := l01*(1-tx) + l11*tx
	return top*(1-ty) + bottom*ty
}

// lumaPixel returns Rec. 709 luminance in [0,1], with transparent pixels
// fading toward zero so empty artwork regions stay flat.
func lumaPixel(img *image.NRGBA, x, y int) float64 {
	i := img.PixOffset(x, y)
	r := float64(img.Pix[i]) / 255
	g := float64(img.Pix[i+1]) / 255
	b := float64(img.Pix[i+2]) / 255
	a := float64(img.Pix[i+3]) / 255
	return (0.2126*r + 0.7152*g + 0.0722*b) * a
}
