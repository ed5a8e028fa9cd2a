// Package obj parses Wavefront OBJ models and their MTL material files.
package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/scopview/scopview/pkg/math"
)

// Vertex is one unified OBJ vertex (position/uv/normal triplet resolved).
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// Mesh is a parsed OBJ model flattened to a single indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32

	// HasUV reports whether the file carried any vt records. When false the
	// UV fields are zero and the viewer falls back to generated projections.
	HasUV      bool
	HasNormals bool

	// DiffuseTexture is the map_Kd path of the active material, resolved
	// relative to the OBJ file. Empty when the model has no material or the
	// material has no diffuse map.
	DiffuseTexture string
}

// Load reads and parses an OBJ file, following mtllib references relative to
// the file's directory.
func Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("obj: open %s: %w", path, err)
	}
	defer f.Close()

	mesh, err := parse(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("obj: parse %s: %w", path, err)
	}
	return mesh, nil
}

// Parse parses OBJ data from a reader. mtllib references are ignored since
// there is no base directory to resolve them against.
func Parse(r io.Reader) (*Mesh, error) {
	return parse(r, "")
}

func parse(r io.Reader, baseDir string) (*Mesh, error) {
	mesh := &Mesh{}

	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2

	// OBJ faces may combine position/uv/normal indices freely; identical
	// triplets collapse to one output vertex.
	type key struct{ pos, uv, normal int }
	seen := make(map[key]uint32)

	materials := make(map[string]string) // material name -> diffuse map path

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseVec3(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNum, err)
			}
			positions = append(positions, p)

		case "vn":
			n, err := parseVec3(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNum, err)
			}
			normals = append(normals, n.Normalize())

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: texcoord needs u v", lineNum)
			}
			u, err1 := parseFloat(fields[1])
			v, err2 := parseFloat(fields[2])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: bad texcoord %q", lineNum, line)
			}
			uvs = append(uvs, math.Vec2{X: u, Y: v})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			face := make([]uint32, 0, len(fields)-1)
			for _, spec := range fields[1:] {
				pi, ti, ni, err := parseFaceVertex(spec)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				pi = resolveIndex(pi, len(positions))
				ti = resolveIndex(ti, len(uvs))
				ni = resolveIndex(ni, len(normals))
				if pi < 0 || pi >= len(positions) {
					return nil, fmt.Errorf("line %d: position index out of range", lineNum)
				}

				k := key{pi, ti, ni}
				idx, ok := seen[k]
				if !ok {
					vert := Vertex{Position: positions[pi]}
					if ti >= 0 && ti < len(uvs) {
						vert.UV = uvs[ti]
						mesh.HasUV = true
					}
					if ni >= 0 && ni < len(normals) {
						vert.Normal = normals[ni]
						mesh.HasNormals = true
					}
					idx = uint32(len(mesh.Vertices))
					mesh.Vertices = append(mesh.Vertices, vert)
					seen[k] = idx
				}
				face = append(face, idx)
			}
			// Fan triangulation for polygons beyond triangles.
			for i := 1; i < len(face)-1; i++ {
				mesh.Indices = append(mesh.Indices, face[0], face[i], face[i+1])
			}

		case "mtllib":
			if baseDir == "" || len(fields) < 2 {
				continue
			}
			// The rest of the line may contain spaces in the filename.
			name := strings.TrimSpace(strings.TrimPrefix(line, "mtllib"))
			if err := parseMTL(filepath.Join(baseDir, name), materials); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}

		case "usemtl":
			if len(fields) < 2 {
				continue
			}
			if diffuse, ok := materials[fields[1]]; ok && diffuse != "" {
				mesh.DiffuseTexture = filepath.Join(baseDir, diffuse)
			}

		case "o", "g", "s":
			// Grouping and smoothing directives do not affect geometry here.

		default:
			// Unknown directives are ignored.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	if len(mesh.Indices) == 0 {
		return nil, fmt.Errorf("no faces found")
	}
	return mesh, nil
}

// parseFaceVertex parses "v", "v/vt", "v/vt/vn" or "v//vn".
// Returned indices are the raw OBJ values; 0 means absent.
func parseFaceVertex(s string) (pos, uv, normal int, err error) {
	parts := strings.Split(s, "/")

	pos, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad vertex index %q", parts[0])
	}
	if len(parts) > 1 && parts[1] != "" {
		if uv, err = strconv.Atoi(parts[1]); err != nil {
			return 0, 0, 0, fmt.Errorf("bad texcoord index %q", parts[1])
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if normal, err = strconv.Atoi(parts[2]); err != nil {
			return 0, 0, 0, fmt.Errorf("bad normal index %q", parts[2])
		}
	}
	return pos, uv, normal, nil
}

// resolveIndex converts an OBJ 1-based or negative index to 0-based.
// Returns -1 when the index was absent.
func resolveIndex(idx, count int) int {
	switch {
	case idx == 0:
		return -1
	case idx < 0:
		return count + idx
	default:
		return idx - 1
	}
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 4 {
		return math.Vec3{}, fmt.Errorf("need x y z")
	}
	x, err1 := parseFloat(fields[1])
	y, err2 := parseFloat(fields[2])
	z, err3 := parseFloat(fields[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return math.Vec3{}, fmt.Errorf("bad coordinates %v", fields[1:4])
	}
	return math.Vec3{X: x, Y: y, Z: z}, nil
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}
