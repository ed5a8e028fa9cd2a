package shading

import (
	"github.com/scopview/scopview/pkg/math"
)

// Axis identifies one of the three principal projection planes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// AxisSample is one candidate projection: the plane it came from and the
// texture coordinate the world position projects to on that plane.
type AxisSample struct {
	Axis Axis
	UV   math.Vec2
}

// AxisWeights holds the per-axis blend contributions, indexed by Axis.
// After Triplanar they sum to 1, or equal fallbackWeights when degenerate.
type AxisWeights [3]float32

// fallbackWeights treats the surface as axis-Y-aligned when the normal
// carries no usable direction.
var fallbackWeights = AxisWeights{0, 1, 0}

// Sum returns the total of the three weights.
func (w AxisWeights) Sum() float32 {
	return w[0] + w[1] + w[2]
}

// Triplanar projects a world-space position onto the three principal-axis
// planes and computes how strongly each plane should contribute for the
// given surface normal.
//
// The weight for an axis is the normal component along it raised to the 4th
// power, which sharpens the blend so each plane dominates near its own
// alignment and the cross-fade zones stay narrow. For any axis whose normal
// component is negative the projected U is negated, so the texture does not
// mirror when the same plane is seen from behind; the weight for that axis
// is exactly 0 at the sign crossing, which masks the flip.
func Triplanar(worldPos, normal math.Vec3, scale float32) ([3]AxisSample, AxisWeights) {
	samples := [3]AxisSample{
		{Axis: AxisX, UV: math.Vec2{X: worldPos.Z * scale, Y: worldPos.Y * scale}},
		{Axis: AxisY, UV: math.Vec2{X: worldPos.X * scale, Y: worldPos.Z * scale}},
		{Axis: AxisZ, UV: math.Vec2{X: worldPos.X * scale, Y: worldPos.Y * scale}},
	}

	// Flip U where the plane is viewed from its negative side.
	if normal.X < 0 {
		samples[AxisX].UV.X = -samples[AxisX].UV.X
	}
	if normal.Y < 0 {
		samples[AxisY].UV.X = -samples[AxisY].UV.X
	}
	if normal.Z < 0 {
		samples[AxisZ].UV.X = -samples[AxisZ].UV.X
	}

	weights := AxisWeights{
		pow4(normal.X),
		pow4(normal.Y),
		pow4(normal.Z),
	}

	sum := weights.Sum()
	if sum < degenerateEpsilon {
		// Upstream normal estimation already substitutes a unit fallback;
		// re-check here so a raw zero normal cannot divide by zero.
		return samples, fallbackWeights
	}

	inv := 1 / sum
	weights[0] *= inv
	weights[1] *= inv
	weights[2] *= inv
	return samples, weights
}

func pow4(x float32) float32 {
	x *= x
	return x * x
}
