package scene

import "github.com/scopview/scopview/pkg/math"

// faceBrightness maps a face index onto a repeating 11-step brightness ramp
// in [0.4, 1.0). The ramp makes adjacent faces distinguishable without
// lighting.
func faceBrightness(face int) float32 {
	return float32(face%11)/11*0.6 + 0.4
}

// applyFaceShading writes the per-face vertex colors: base color scaled by
// the face's brightness, clamped to the displayable range.
func applyFaceShading(vertices []Vertex, base math.Vec3) {
	for i := range vertices {
		b := faceBrightness(i / 3)
		vertices[i].Color = math.Vec3{
			X: math.Min(base.X*b, 1),
			Y: math.Min(base.Y*b, 1),
			Z: math.Min(base.Z*b, 1),
		}
	}
}
