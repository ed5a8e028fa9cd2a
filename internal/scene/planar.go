package scene

// ApplyPlanarUVs fills in texture coordinates for meshes that were authored
// without any, by projecting each vertex onto the XY face of the combined
// bounding box. The result maps the texture once across the model's front,
// which gives authored-mode sampling something reasonable to work with.
func ApplyPlanarUVs(meshes []Mesh) {
	b := computeBounds(meshes)
	size := b.Size()
	if size.X == 0 {
		size.X = 1
	}
	if size.Y == 0 {
		size.Y = 1
	}
	for i := range meshes {
		for j := range meshes[i].Vertices {
			p := meshes[i].Vertices[j].Position
			meshes[i].Vertices[j].UV.X = (p.X - b.Min.X) / size.X
			meshes[i].Vertices[j].UV.Y = (p.Y - b.Min.Y) / size.Y
		}
	}
}
