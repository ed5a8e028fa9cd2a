// Package raster is the CPU rasterizer: it projects triangle soup through a
// camera, walks covered pixels with a depth buffer, and hands each fragment
// to the shading stage.
package raster

import (
	"image"
	gomath "math"

	"github.com/scopview/scopview/pkg/math"
)

// Framebuffer holds the color and depth targets for one frame. Color is
// tightly packed RGBA, row-major from the top-left.
type Framebuffer struct {
	Width  int
	Height int
	Color  []uint8
	Depth  []float32
}

// NewFramebuffer allocates a framebuffer of the given size.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Color:  make([]uint8, width*height*4),
		Depth:  make([]float32, width*height),
	}
}

// Clear fills the color target with the background color and resets depth.
func (fb *Framebuffer) Clear(background math.Vec3) {
	r := floatToByte(background.X)
	g := floatToByte(background.Y)
	b := floatToByte(background.Z)

	// Fill the first row, then copy it down.
	stride := fb.Width * 4
	for x := 0; x < fb.Width; x++ {
		off := x * 4
		fb.Color[off] = r
		fb.Color[off+1] = g
		fb.Color[off+2] = b
		fb.Color[off+3] = 255
	}
	firstRow := fb.Color[:stride]
	for y := 1; y < fb.Height; y++ {
		copy(fb.Color[y*stride:(y+1)*stride], firstRow)
	}

	for i := range fb.Depth {
		fb.Depth[i] = gomath.MaxFloat32
	}
}

// SetPixel writes one RGBA pixel. Coordinates outside the buffer are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c math.Vec4) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	off := (y*fb.Width + x) * 4
	fb.Color[off] = floatToByte(c.X)
	fb.Color[off+1] = floatToByte(c.Y)
	fb.Color[off+2] = floatToByte(c.Z)
	fb.Color[off+3] = floatToByte(c.W)
}

// Image copies the color target into an NRGBA image, for encoding
// screenshots.
func (fb *Framebuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

func floatToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
