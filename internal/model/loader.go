// Package model loads mesh files into renderable scenes. OBJ goes through
// pkg/obj, glTF and GLB through qmuntal/gltf.
package model

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/scopview/scopview/internal/logger"
	"github.com/scopview/scopview/internal/scene"
	"github.com/scopview/scopview/pkg/math"
	"github.com/scopview/scopview/pkg/obj"
)

// Result is a loaded model plus whatever texture the file itself carried:
// a path for OBJ material maps, a decoded image for glTF embedded textures.
type Result struct {
	Model *scene.Model

	// TexturePath is the diffuse map referenced by the model's material,
	// empty when none.
	TexturePath string

	// Embedded is the texture stored inside the file (GLB), nil when none.
	Embedded image.Image
}

// SupportedExtensions lists the model formats Load accepts.
var SupportedExtensions = []string{".obj", ".gltf", ".glb"}

// Supported reports whether path has a loadable model extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads the model file at path and builds the scene model, with face
// shading applied and fallback UVs generated when the file has none.
func Load(path string) (*Result, error) {
	var (
		meshes   []scene.Mesh
		embedded image.Image
		err      error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		meshes, err = loadOBJ(path)
	case ".gltf", ".glb":
		meshes, embedded, err = loadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	hasUV := false
	texPath := ""
	for i := range meshes {
		if meshes[i].HasUV {
			hasUV = true
		}
		if meshes[i].TexturePath != "" && texPath == "" {
			texPath = meshes[i].TexturePath
		}
	}
	if !hasUV {
		scene.ApplyPlanarUVs(meshes)
	}

	m := scene.NewModel(meshes, scene.DefaultBaseColor)
	logger.Info("model loaded",
		zap.String("path", path),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("triangles", m.TriangleCount()),
		zap.Bool("authored_uvs", hasUV))

	return &Result{Model: m, TexturePath: texPath, Embedded: embedded}, nil
}

// loadOBJ reads an OBJ file and expands its indexed mesh into triangle soup
// so every face can be colored independently.
func loadOBJ(path string) ([]scene.Mesh, error) {
	src, err := obj.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load obj: %w", err)
	}

	out := scene.Mesh{
		Vertices:    make([]scene.Vertex, 0, len(src.Indices)),
		TexturePath: src.DiffuseTexture,
		HasUV:       src.HasUV,
	}
	for _, idx := range src.Indices {
		v := src.Vertices[idx]
		out.Vertices = append(out.Vertices, scene.Vertex{
			Position: v.Position,
			Normal:   v.Normal,
			UV:       v.UV,
		})
	}
	return []scene.Mesh{out}, nil
}

// deindex expands an indexed vertex list into triangle soup.
func deindex(positions []math.Vec3, normals []math.Vec3, uvs []math.Vec2, indices []int) []scene.Vertex {
	out := make([]scene.Vertex, 0, len(indices))
	for _, idx := range indices {
		v := scene.Vertex{Position: positions[idx]}
		if idx < len(normals) {
			v.Normal = normals[idx]
		}
		if idx < len(uvs) {
			v.UV = uvs[idx]
		}
		out = append(out, v)
	}
	return out
}
