package scene

import (
	gomath "math"
	"math/rand/v2"
	"testing"

	"github.com/scopview/scopview/pkg/math"
)

func soupMesh(positions ...math.Vec3) Mesh {
	vs := make([]Vertex, len(positions))
	for i, p := range positions {
		vs[i] = Vertex{Position: p}
	}
	return Mesh{Vertices: vs}
}

func TestBoundsCenter(t *testing.T) {
	m := soupMesh(
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 2, Y: 1, Z: 4},
		math.Vec3{X: 1, Y: -1, Z: 2},
	)
	got := computeBounds([]Mesh{m}).Center()
	want := math.Vec3{X: 1.0, Y: 0.0, Z: 2.0}
	if got != want {
		t.Errorf("center = %v, want %v", got, want)
	}
}

func TestBoundsEmptyCentersAtOrigin(t *testing.T) {
	got := computeBounds(nil).Center()
	if got != (math.Vec3{}) {
		t.Errorf("center of empty bounds = %v, want origin", got)
	}
}

func TestBoundsSpanMultipleMeshes(t *testing.T) {
	a := soupMesh(math.Vec3{X: -1, Y: 0, Z: 0}, math.Vec3{X: 0, Y: 0, Z: 0}, math.Vec3{X: 0, Y: 1, Z: 0})
	b := soupMesh(math.Vec3{X: 3, Y: 0, Z: 0}, math.Vec3{X: 3, Y: 2, Z: 0}, math.Vec3{X: 3, Y: 0, Z: 5})
	bounds := computeBounds([]Mesh{a, b})
	if bounds.Min != (math.Vec3{X: -1, Y: 0, Z: 0}) {
		t.Errorf("min = %v", bounds.Min)
	}
	if bounds.Max != (math.Vec3{X: 3, Y: 2, Z: 5}) {
		t.Errorf("max = %v", bounds.Max)
	}
}

func TestFaceBrightnessRamp(t *testing.T) {
	if got := faceBrightness(0); gomath.Abs(float64(got-0.4)) > 1e-6 {
		t.Errorf("brightness(0) = %v, want 0.4", got)
	}
	// The ramp repeats every 11 faces.
	if faceBrightness(3) != faceBrightness(14) {
		t.Errorf("ramp does not repeat: %v vs %v", faceBrightness(3), faceBrightness(14))
	}
	for face := 0; face < 22; face++ {
		b := faceBrightness(face)
		if b < 0.4 || b >= 1.0 {
			t.Errorf("brightness(%d) = %v, outside [0.4, 1.0)", face, b)
		}
	}
}

func TestApplyFaceShadingPerFace(t *testing.T) {
	m := soupMesh(
		math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Y: 1},
		math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Z: 1},
	)
	applyFaceShading(m.Vertices, math.Vec3{X: 1, Y: 1, Z: 1})

	// All three corners of a face share its color.
	if m.Vertices[0].Color != m.Vertices[1].Color || m.Vertices[1].Color != m.Vertices[2].Color {
		t.Error("corners of face 0 differ in color")
	}
	if m.Vertices[0].Color == m.Vertices[3].Color {
		t.Error("adjacent faces share the same brightness step")
	}
}

func TestApplyFaceShadingClamps(t *testing.T) {
	m := soupMesh(math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Y: 1})
	// Brightness can be close to 1; an overbright base must not exceed 1.
	applyFaceShading(m.Vertices, math.Vec3{X: 1.1, Y: 1.1, Z: 1.1})
	for i, v := range m.Vertices {
		if v.Color.X > 1 || v.Color.Y > 1 || v.Color.Z > 1 {
			t.Errorf("vertex %d color %v exceeds 1", i, v.Color)
		}
	}
}

func TestRecolorReappliesPattern(t *testing.T) {
	m := NewModel([]Mesh{soupMesh(math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Y: 1})}, DefaultBaseColor)
	before := m.Meshes[0].Vertices[0].Color

	m.Recolor(math.Vec3{X: 1, Y: 0, Z: 0})
	after := m.Meshes[0].Vertices[0].Color
	if before == after {
		t.Error("recolor left vertex colors unchanged")
	}
	if after.Y != 0 || after.Z != 0 {
		t.Errorf("recolor to red produced %v", after)
	}
}

func TestRandomColorRange(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		c := RandomColor(r)
		for _, ch := range []float32{c.X, c.Y, c.Z} {
			if ch < 0 || ch >= 1.1 {
				t.Fatalf("channel %v outside [0, 1.1)", ch)
			}
		}
	}
}

func TestApplyPlanarUVsSpansUnitSquare(t *testing.T) {
	m := soupMesh(
		math.Vec3{X: -1, Y: 0, Z: 5},
		math.Vec3{X: 3, Y: 0, Z: -2},
		math.Vec3{X: 1, Y: 2, Z: 0},
	)
	meshes := []Mesh{m}
	ApplyPlanarUVs(meshes)

	// Corner vertices land on the unit square edges; Z is ignored.
	if got := meshes[0].Vertices[0].UV; got != (math.Vec2{X: 0, Y: 0}) {
		t.Errorf("uv[0] = %v, want (0,0)", got)
	}
	if got := meshes[0].Vertices[1].UV; got != (math.Vec2{X: 1, Y: 0}) {
		t.Errorf("uv[1] = %v, want (1,0)", got)
	}
	if got := meshes[0].Vertices[2].UV; got != (math.Vec2{X: 0.5, Y: 1}) {
		t.Errorf("uv[2] = %v, want (0.5,1)", got)
	}
}

func TestApplyPlanarUVsFlatModel(t *testing.T) {
	// All vertices on a vertical line: degenerate X extent must not divide
	// by zero.
	m := soupMesh(
		math.Vec3{X: 2, Y: 0, Z: 0},
		math.Vec3{X: 2, Y: 1, Z: 0},
		math.Vec3{X: 2, Y: 2, Z: 1},
	)
	meshes := []Mesh{m}
	ApplyPlanarUVs(meshes)
	for i, v := range meshes[0].Vertices {
		if v.UV.X != v.UV.X || v.UV.Y != v.UV.Y {
			t.Errorf("uv[%d] = %v, contains NaN", i, v.UV)
		}
	}
}

func TestModelTriangleCount(t *testing.T) {
	m := NewModel([]Mesh{
		soupMesh(math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Y: 1}),
		soupMesh(math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Y: 1}, math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Z: 1}),
	}, DefaultBaseColor)
	if got := m.TriangleCount(); got != 3 {
		t.Errorf("TriangleCount() = %d, want 3", got)
	}
}
