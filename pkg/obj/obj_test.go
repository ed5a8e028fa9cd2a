package obj

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scopview/scopview/pkg/math"
)

func TestParseTriangle(t *testing.T) {
	data := `
# simple triangle
v 0 0 0
v 1 0 0
v 0.5 1 0
f 1 2 3
`
	mesh, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(mesh.Vertices) != 3 {
		t.Errorf("got %d vertices, want 3", len(mesh.Vertices))
	}
	if len(mesh.Indices) != 3 {
		t.Errorf("got %d indices, want 3", len(mesh.Indices))
	}
	if mesh.HasUV {
		t.Error("HasUV = true for a mesh without vt records")
	}
	if mesh.HasNormals {
		t.Error("HasNormals = true for a mesh without vn records")
	}
}

func TestParseQuadTriangulates(t *testing.T) {
	data := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	mesh, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(mesh.Indices) != 6 {
		t.Errorf("quad produced %d indices, want 6 (two triangles)", len(mesh.Indices))
	}
}

func TestParseFullVertexSpec(t *testing.T) {
	data := `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`
	mesh, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !mesh.HasUV || !mesh.HasNormals {
		t.Errorf("HasUV=%v HasNormals=%v, want both true", mesh.HasUV, mesh.HasNormals)
	}
	wantUV := math.Vec2{X: 1, Y: 0}
	if mesh.Vertices[1].UV != wantUV {
		t.Errorf("vertex 1 UV = %v, want %v", mesh.Vertices[1].UV, wantUV)
	}
	wantN := math.Vec3{X: 0, Y: 0, Z: 1}
	if mesh.Vertices[0].Normal != wantN {
		t.Errorf("vertex 0 normal = %v, want %v", mesh.Vertices[0].Normal, wantN)
	}
}

func TestParseNegativeIndices(t *testing.T) {
	data := `
v 0 0 0
v 1 0 0
v 0.5 1 0
f -3 -2 -1
`
	mesh, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := mesh.Vertices[mesh.Indices[2]].Position; got != (math.Vec3{X: 0.5, Y: 1, Z: 0}) {
		t.Errorf("last face vertex = %v, want (0.5,1,0)", got)
	}
}

func TestParseDeduplicatesVertices(t *testing.T) {
	data := `
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
f 1 2 3
f 2 4 3
`
	mesh, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(mesh.Vertices) != 4 {
		t.Errorf("got %d vertices, want 4 (shared edge deduplicated)", len(mesh.Vertices))
	}
}

func TestParseNoFaces(t *testing.T) {
	if _, err := Parse(strings.NewReader("v 0 0 0\n")); err == nil {
		t.Error("Parse() of face-less file succeeded, want error")
	}
}

func TestLoadWithMaterial(t *testing.T) {
	dir := t.TempDir()

	mtlPath := filepath.Join(dir, "cube.mtl")
	mtlData := `
newmtl painted
Kd 0.8 0.8 0.8
map_Kd bricks.bmp
`
	if err := os.WriteFile(mtlPath, []byte(mtlData), 0644); err != nil {
		t.Fatal(err)
	}

	objPath := filepath.Join(dir, "cube.obj")
	objData := `
mtllib cube.mtl
v 0 0 0
v 1 0 0
v 0.5 1 0
usemtl painted
f 1 2 3
`
	if err := os.WriteFile(objPath, []byte(objData), 0644); err != nil {
		t.Fatal(err)
	}

	mesh, err := Load(objPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := filepath.Join(dir, "bricks.bmp")
	if mesh.DiffuseTexture != want {
		t.Errorf("DiffuseTexture = %q, want %q", mesh.DiffuseTexture, want)
	}
}
