package scene

import "github.com/scopview/scopview/pkg/math"

// Bounds is an axis-aligned bounding box over model vertices.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the midpoint of the box. The viewer spins the model around
// this point so off-origin models rotate in place.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extents per axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

func computeBounds(meshes []Mesh) Bounds {
	var b Bounds
	first := true
	for i := range meshes {
		for _, v := range meshes[i].Vertices {
			if first {
				b.Min, b.Max = v.Position, v.Position
				first = false
				continue
			}
			b.Min.X = math.Min(b.Min.X, v.Position.X)
			b.Min.Y = math.Min(b.Min.Y, v.Position.Y)
			b.Min.Z = math.Min(b.Min.Z, v.Position.Z)
			b.Max.X = math.Max(b.Max.X, v.Position.X)
			b.Max.Y = math.Max(b.Max.Y, v.Position.Y)
			b.Max.Z = math.Max(b.Max.Z, v.Position.Z)
		}
	}
	return b
}
