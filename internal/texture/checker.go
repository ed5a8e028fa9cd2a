package texture

import "github.com/scopview/scopview/pkg/math"

// NewChecker builds a procedural checkerboard, used as the fallback texture
// when a model ships without one.
func NewChecker(width, height, cellSize int, a, b math.Vec4) *Texture {
	t := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/cellSize)+(y/cellSize))%2 == 0 {
				t.SetPixel(x, y, a)
			} else {
				t.SetPixel(x, y, b)
			}
		}
	}
	return t
}
