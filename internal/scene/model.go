// Package scene holds the renderable model: colored triangle meshes with
// optional authored texture coordinates.
package scene

import (
	"math/rand/v2"

	"github.com/scopview/scopview/pkg/math"
)

// Vertex is one corner of a renderable triangle.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
	Color    math.Vec3
}

// Mesh is a triangle soup: three consecutive vertices per face. Keeping the
// faces unshared lets the per-face shading pattern color each face
// independently.
type Mesh struct {
	Vertices []Vertex

	// TexturePath is the diffuse texture resolved during loading, empty when
	// the model carries none.
	TexturePath string

	// HasUV reports whether the UVs were authored in the model file. When
	// false the viewer defaults to generated (triplanar) projection.
	HasUV bool
}

// TriangleCount returns the number of faces in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Model is a loaded scene: its meshes, the base color driving the face
// shading pattern, and the precomputed AABB center used as spin pivot.
type Model struct {
	Meshes    []Mesh
	BaseColor math.Vec3

	bounds Bounds
}

// DefaultBaseColor is the neutral gray a model starts with.
var DefaultBaseColor = math.Vec3{X: 0.6, Y: 0.6, Z: 0.6}

// NewModel builds a model from loaded meshes, applying the per-face shading
// pattern and computing bounds.
func NewModel(meshes []Mesh, baseColor math.Vec3) *Model {
	m := &Model{
		Meshes:    meshes,
		BaseColor: baseColor,
		bounds:    computeBounds(meshes),
	}
	for i := range m.Meshes {
		applyFaceShading(m.Meshes[i].Vertices, baseColor)
	}
	return m
}

// Center returns the midpoint of the model's bounding box on all axes.
func (m *Model) Center() math.Vec3 {
	return m.bounds.Center()
}

// Bounds returns the model's axis-aligned bounding box.
func (m *Model) Bounds() Bounds {
	return m.bounds
}

// TriangleCount returns the face count over all meshes.
func (m *Model) TriangleCount() int {
	n := 0
	for i := range m.Meshes {
		n += m.Meshes[i].TriangleCount()
	}
	return n
}

// Recolor replaces the base color and reapplies the face shading pattern.
func (m *Model) Recolor(c math.Vec3) {
	m.BaseColor = c
	for i := range m.Meshes {
		applyFaceShading(m.Meshes[i].Vertices, c)
	}
}

// RandomColor draws a color for the recolor operation. Channels range up to
// 1.1 so saturated faces stay fully bright after the brightness clamp.
func RandomColor(r *rand.Rand) math.Vec3 {
	return math.Vec3{
		X: r.Float32() * 1.1,
		Y: r.Float32() * 1.1,
		Z: r.Float32() * 1.1,
	}
}
