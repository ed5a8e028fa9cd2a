package shading

import (
	gomath "math"
	"testing"

	"github.com/scopview/scopview/pkg/math"
)

// recordingSampler returns a fixed color and tracks every coordinate sampled.
type recordingSampler struct {
	color math.Vec4
	calls []math.Vec2
}

func (s *recordingSampler) Sample(u, v float32) math.Vec4 {
	s.calls = append(s.calls, math.Vec2{X: u, Y: v})
	return s.color
}

// planeSampler maps the sampled coordinate into the output color so tests
// can tell which projection was fetched.
type planeSampler struct{}

func (planeSampler) Sample(u, v float32) math.Vec4 {
	return math.Vec4{X: u, Y: v, Z: 0, W: 1}
}

func TestEstimateNormalUnitLength(t *testing.T) {
	pairs := [][2]math.Vec3{
		{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		{{X: 0.01, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0.02}},
		{{X: 1, Y: 2, Z: 3}, {X: -3, Y: 1, Z: 2}},
		{{X: 0.5, Y: 0.5, Z: 0}, {X: 0, Y: 0.5, Z: 0.5}},
	}
	for _, p := range pairs {
		n := EstimateNormal(p[0], p[1])
		l := n.Length()
		if gomath.Abs(float64(l-1)) > 1e-4 {
			t.Errorf("EstimateNormal(%v, %v).Length() = %v, want 1", p[0], p[1], l)
		}
	}
}

func TestEstimateNormalOrientation(t *testing.T) {
	n := EstimateNormal(math.Vec3{X: 1, Y: 0, Z: 0}, math.Vec3{X: 0, Y: 1, Z: 0})
	want := math.Vec3{X: 0, Y: 0, Z: 1}
	if n != want {
		t.Errorf("EstimateNormal(+X, +Y) = %v, want %v", n, want)
	}
}

func TestEstimateNormalDegenerateFallback(t *testing.T) {
	want := math.Vec3{X: 0, Y: 1, Z: 0}
	tests := []struct {
		name       string
		dpdx, dpdy math.Vec3
	}{
		{"both zero", math.Vec3{}, math.Vec3{}},
		{"parallel", math.Vec3{X: 1, Y: 1, Z: 0}, math.Vec3{X: 2, Y: 2, Z: 0}},
		{"tiny cross", math.Vec3{X: 1e-4, Y: 0, Z: 0}, math.Vec3{X: 0, Y: 1e-4, Z: 0}},
	}
	for _, tt := range tests {
		if got := EstimateNormal(tt.dpdx, tt.dpdy); got != want {
			t.Errorf("%s: EstimateNormal() = %v, want fallback %v", tt.name, got, want)
		}
	}
}

func TestResolveColorAuthoredPassthrough(t *testing.T) {
	s := &recordingSampler{color: math.Vec4{X: 0.2, Y: 0.4, Z: 0.6, W: 1}}
	uv := math.Vec2{X: 0.25, Y: 0.75}

	// World position, normal and scale must not influence authored mode.
	got := ResolveColor(ProjectionAuthored, uv, math.Vec3{X: 9, Y: 9, Z: 9}, math.Vec3{X: 1}, 42, s)

	if got != s.color {
		t.Errorf("authored ResolveColor = %v, want the raw sample %v", got, s.color)
	}
	if len(s.calls) != 1 {
		t.Fatalf("authored mode sampled %d times, want 1", len(s.calls))
	}
	if s.calls[0] != uv {
		t.Errorf("authored mode sampled at %v, want %v", s.calls[0], uv)
	}
}

func TestResolveColorGeneratedConservesEnergy(t *testing.T) {
	// With a constant-color texture, any normalized weighting must return
	// exactly that constant: weights summing to 1 mean no gain or loss.
	s := &recordingSampler{color: math.Vec4{X: 0.5, Y: 0.3, Z: 0.1, W: 1}}
	n := math.Vec3{X: 0.577350, Y: 0.577350, Z: 0.577350}

	got := ResolveColor(ProjectionGenerated, math.Vec2{}, math.Vec3{X: 1, Y: 2, Z: 3}, n, 1, s)

	const tol = 1e-4
	if gomath.Abs(float64(got.X-s.color.X)) > tol ||
		gomath.Abs(float64(got.Y-s.color.Y)) > tol ||
		gomath.Abs(float64(got.Z-s.color.Z)) > tol ||
		gomath.Abs(float64(got.W-s.color.W)) > tol {
		t.Errorf("generated ResolveColor = %v, want %v within %v", got, s.color, tol)
	}
	if len(s.calls) == 0 || len(s.calls) > 3 {
		t.Errorf("generated mode sampled %d times, want 1..3", len(s.calls))
	}
}

func TestResolveColorGeneratedAxisAligned(t *testing.T) {
	// A +Z-facing surface gives all weight to the Z plane, so the result
	// is the sample at (x, y) * scale.
	pos := math.Vec3{X: 0.25, Y: 0.5, Z: 7}
	got := ResolveColor(ProjectionGenerated, math.Vec2{}, pos, math.Vec3{X: 0, Y: 0, Z: 1}, 2, planeSampler{})
	want := math.Vec4{X: 0.5, Y: 1, Z: 0, W: 1}
	if got != want {
		t.Errorf("generated ResolveColor for +Z normal = %v, want %v", got, want)
	}
}

func TestCompositeBoundaries(t *testing.T) {
	vertex := math.Vec3{X: 1, Y: 0, Z: 0}
	tex := math.Vec4{X: 0, Y: 1, Z: 0, W: 1}

	tests := []struct {
		blend float32
		want  math.Vec4
	}{
		{0, math.Vec4{X: 1, Y: 0, Z: 0, W: 1}},
		{1, math.Vec4{X: 0, Y: 1, Z: 0, W: 1}},
		{0.5, math.Vec4{X: 0.5, Y: 0.5, Z: 0, W: 1}},
	}
	for _, tt := range tests {
		if got := Composite(vertex, tex, tt.blend); got != tt.want {
			t.Errorf("Composite(blend=%v) = %v, want %v", tt.blend, got, tt.want)
		}
	}
}

func TestCompositeAlphaFollowsBlend(t *testing.T) {
	// Vertex color is opaque; a half-transparent texture at full blend
	// passes its alpha through.
	tex := math.Vec4{X: 1, Y: 1, Z: 1, W: 0.5}
	got := Composite(math.Vec3{}, tex, 1)
	if got.W != 0.5 {
		t.Errorf("Composite alpha = %v, want 0.5", got.W)
	}
}

func TestShadeFragmentGeneratedDegenerate(t *testing.T) {
	// Flat derivatives trigger the fallback normal; shading still yields a
	// finite color with no NaN.
	cfg := DrawConfig{Mode: ProjectionGenerated, Scale: 2, Blend: 1}
	frag := FragmentInput{
		WorldPos:    math.Vec3{X: 1, Y: 2, Z: 3},
		VertexColor: math.Vec3{X: 0.6, Y: 0.6, Z: 0.6},
	}
	s := &recordingSampler{color: math.Vec4{X: 0.1, Y: 0.2, Z: 0.3, W: 1}}

	got := ShadeFragment(cfg, frag, s)

	for _, c := range []float32{got.X, got.Y, got.Z, got.W} {
		if gomath.IsNaN(float64(c)) {
			t.Fatalf("ShadeFragment produced NaN: %v", got)
		}
	}
	if got != s.color {
		t.Errorf("ShadeFragment at full blend = %v, want texture color %v", got, s.color)
	}
}

func TestShadeFragmentBlendZeroIgnoresTexture(t *testing.T) {
	cfg := DrawConfig{Mode: ProjectionAuthored, Scale: 1, Blend: 0}
	frag := FragmentInput{
		VertexColor: math.Vec3{X: 0.3, Y: 0.6, Z: 0.9},
		UV:          math.Vec2{X: 0.5, Y: 0.5},
	}
	s := &recordingSampler{color: math.Vec4{X: 1, Y: 1, Z: 1, W: 1}}

	got := ShadeFragment(cfg, frag, s)
	want := math.Vec4{X: 0.3, Y: 0.6, Z: 0.9, W: 1}
	if got != want {
		t.Errorf("ShadeFragment(blend=0) = %v, want vertex color %v", got, want)
	}
}
