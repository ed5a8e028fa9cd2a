// Package texture decodes texture images and samples them as 2D color
// fields. A Texture is immutable after creation, so arbitrarily many
// shading goroutines may sample it concurrently.
package texture

import (
	"image"
	"image/draw"

	"github.com/scopview/scopview/pkg/math"
)

// FilterMode selects the sampling filter.
type FilterMode int

const (
	FilterBilinear FilterMode = iota
	FilterNearest
)

// Texture is a decoded RGBA image sampleable by UV coordinate.
type Texture struct {
	Width  int
	Height int
	Pix    []uint8 // NRGBA, 4 bytes per pixel, row-major
	Filter FilterMode
}

// New creates an empty texture of the given size.
func New(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// FromImage converts a decoded image into a Texture.
func FromImage(src image.Image) *Texture {
	b := src.Bounds()
	nrgba, ok := src.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
	}
	return &Texture{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    nrgba.Pix,
	}
}

// SetPixel writes a color at integer pixel coordinates.
func (t *Texture) SetPixel(x, y int, c math.Vec4) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	i := (y*t.Width + x) * 4
	t.Pix[i] = toByte(c.X)
	t.Pix[i+1] = toByte(c.Y)
	t.Pix[i+2] = toByte(c.Z)
	t.Pix[i+3] = toByte(c.W)
}

// GetPixel reads the color at integer pixel coordinates.
func (t *Texture) GetPixel(x, y int) math.Vec4 {
	i := (y*t.Width + x) * 4
	return math.Vec4{
		X: float32(t.Pix[i]) / 255,
		Y: float32(t.Pix[i+1]) / 255,
		Z: float32(t.Pix[i+2]) / 255,
		W: float32(t.Pix[i+3]) / 255,
	}
}

// Sample returns the color at UV coordinate (u, v) with repeat wrapping.
// V grows upward: v=0 is the bottom row of the image, matching OBJ and glTF
// texture-coordinate conventions.
func (t *Texture) Sample(u, v float32) math.Vec4 {
	if t.Width == 0 || t.Height == 0 {
		return math.Vec4{}
	}

	u = wrap(u)
	v = wrap(v)

	fx := u * float32(t.Width-1)
	fy := (1 - v) * float32(t.Height-1)

	if t.Filter == FilterNearest {
		return t.GetPixel(int(fx+0.5), int(fy+0.5))
	}

	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % t.Width
	y1 := (y0 + 1) % t.Height
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	c00 := t.GetPixel(x0, y0)
	c10 := t.GetPixel(x1, y0)
	c01 := t.GetPixel(x0, y1)
	c11 := t.GetPixel(x1, y1)

	top := c00.Scale(1 - dx).Add(c10.Scale(dx))
	bottom := c01.Scale(1 - dx).Add(c11.Scale(dx))
	return top.Scale(1 - dy).Add(bottom.Scale(dy))
}

func wrap(x float32) float32 {
	x -= float32(int(x))
	if x < 0 {
		x++
	}
	return x
}

func toByte(x float32) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}
