// Package shading implements the per-fragment texturing stage: choosing a
// texture-coordinate source, projecting procedural coordinates for meshes
// without authored UVs, sampling, and compositing with the vertex color.
//
// Every function here is pure and safe to call from arbitrarily many
// goroutines at once; the only shared state a caller may pass in is the
// read-only texture behind the Sampler interface.
package shading

import (
	"github.com/scopview/scopview/pkg/math"
)

// Sampler returns an RGBA color for a 2D texture coordinate. Coordinates
// outside [0,1] wrap; filtering is the sampler's own policy.
type Sampler interface {
	Sample(u, v float32) math.Vec4
}

// ProjectionMode selects the texture-coordinate source for a draw call.
type ProjectionMode int

const (
	// ProjectionAuthored uses the mesh's own UV attribute.
	ProjectionAuthored ProjectionMode = iota
	// ProjectionGenerated derives coordinates from world position via
	// triplanar projection, for meshes with absent or degenerate UVs.
	ProjectionGenerated
)

func (m ProjectionMode) String() string {
	if m == ProjectionGenerated {
		return "generated"
	}
	return "authored"
}

// DrawConfig is the per-draw-call configuration tuple. It is fixed before
// the parallel fragment stage begins and never mutated during a draw.
type DrawConfig struct {
	Mode  ProjectionMode
	Scale float32 // texel density of generated projections, > 0
	Blend float32 // 0 = vertex color, 1 = texture color; not clamped here
}

// FragmentInput carries the rasterizer-interpolated values for one fragment.
type FragmentInput struct {
	WorldPos    math.Vec3
	VertexColor math.Vec3
	UV          math.Vec2 // meaningless when the mesh has no authored UVs
	DPDX        math.Vec3 // d(worldPos)/d(screenX)
	DPDY        math.Vec3 // d(worldPos)/d(screenY)
}

const degenerateEpsilon = 1e-5

// fallbackNormal substitutes for normals that cannot be reconstructed.
// Axis-Y-aligned so a degenerate surface still gets a stable projection.
var fallbackNormal = math.Vec3{X: 0, Y: 1, Z: 0}

// EstimateNormal reconstructs the tangent-plane normal of a surface from the
// two screen-space derivatives of its world position. Returns fallbackNormal
// when the derivatives are parallel or vanishing, so no NaN can propagate
// into the weight computation.
func EstimateNormal(dpdx, dpdy math.Vec3) math.Vec3 {
	n := dpdx.Cross(dpdy)
	if n.Length() < degenerateEpsilon {
		return fallbackNormal
	}
	return n.Normalize()
}

// ResolveColor produces the texture color for a fragment. Authored mode is a
// single sample at uv; generated mode blends three triplanar samples by
// normal-alignment weight. This is the only function that invokes the
// sampler, so generated mode costs three fetches per fragment.
func ResolveColor(mode ProjectionMode, uv math.Vec2, worldPos, normal math.Vec3, scale float32, sampler Sampler) math.Vec4 {
	if mode == ProjectionAuthored {
		return sampler.Sample(uv.X, uv.Y)
	}

	samples, weights := Triplanar(worldPos, normal, scale)
	var out math.Vec4
	for i, s := range samples {
		w := weights[i]
		if w == 0 {
			continue
		}
		out = out.Add(sampler.Sample(s.UV.X, s.UV.Y).Scale(w))
	}
	return out
}

// Composite mixes the interpolated vertex color with the sampled texture
// color. The vertex color is treated as fully opaque. Blend is applied as-is;
// keeping it inside [0,1] is the caller's contract.
func Composite(vertexColor math.Vec3, texColor math.Vec4, blend float32) math.Vec4 {
	inv := 1 - blend
	return math.Vec4{
		X: vertexColor.X*inv + texColor.X*blend,
		Y: vertexColor.Y*inv + texColor.Y*blend,
		Z: vertexColor.Z*inv + texColor.Z*blend,
		W: inv + texColor.W*blend,
	}
}

// ShadeFragment runs the full stage for one fragment: reconstruct the surface
// normal when needed, resolve the texture color, composite with the vertex
// color. Pure function of its inputs.
func ShadeFragment(cfg DrawConfig, frag FragmentInput, sampler Sampler) math.Vec4 {
	var normal math.Vec3
	if cfg.Mode == ProjectionGenerated {
		normal = EstimateNormal(frag.DPDX, frag.DPDY)
	}
	tex := ResolveColor(cfg.Mode, frag.UV, frag.WorldPos, normal, cfg.Scale, sampler)
	return Composite(frag.VertexColor, tex, cfg.Blend)
}
