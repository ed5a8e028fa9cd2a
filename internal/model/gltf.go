package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	gomath "math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/scopview/scopview/internal/scene"
	"github.com/scopview/scopview/pkg/math"
)

// loadGLTF reads a glTF or GLB file, flattens the node hierarchy into
// world-space triangle soup, and extracts the first base-color texture.
func loadGLTF(path string) ([]scene.Mesh, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	b := &gltfBuilder{doc: doc, path: path}

	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = *doc.Scene
		}
		for _, nodeIdx := range doc.Scenes[sceneIdx].Nodes {
			if err := b.node(nodeIdx, math.Identity()); err != nil {
				return nil, nil, err
			}
		}
	} else {
		for i := range doc.Nodes {
			if err := b.node(i, math.Identity()); err != nil {
				return nil, nil, err
			}
		}
	}

	if len(b.meshes) == 0 {
		return nil, nil, fmt.Errorf("gltf %s: no triangle geometry", path)
	}

	return b.meshes, b.texture, nil
}

type gltfBuilder struct {
	doc     *gltf.Document
	path    string
	meshes  []scene.Mesh
	texture image.Image
}

// node walks the hierarchy, accumulating transforms so geometry lands in
// world space.
func (b *gltfBuilder) node(idx int, parent math.Mat4) error {
	node := b.doc.Nodes[idx]
	world := parent.Mul(nodeTransform(node))

	if node.Mesh != nil {
		if err := b.mesh(b.doc.Meshes[*node.Mesh], world); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := b.node(child, world); err != nil {
			return err
		}
	}
	return nil
}

func nodeTransform(node *gltf.Node) math.Mat4 {
	if node.Matrix != [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1} {
		var cols [16]float32
		for i, v := range node.Matrix {
			cols[i] = float32(v)
		}
		return math.FromColumns(cols)
	}

	m := math.Identity()
	if node.Translation != [3]float64{} {
		m = m.Mul(math.Translate(
			float32(node.Translation[0]),
			float32(node.Translation[1]),
			float32(node.Translation[2])))
	}
	if node.Rotation != [4]float64{0, 0, 0, 1} {
		m = m.Mul(math.FromQuat(
			float32(node.Rotation[0]),
			float32(node.Rotation[1]),
			float32(node.Rotation[2]),
			float32(node.Rotation[3])))
	}
	if node.Scale != [3]float64{1, 1, 1} && node.Scale != [3]float64{} {
		m = m.Mul(math.Scale(
			float32(node.Scale[0]),
			float32(node.Scale[1]),
			float32(node.Scale[2])))
	}
	return m
}

func (b *gltfBuilder) mesh(m *gltf.Mesh, transform math.Mat4) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := b.readVec3(posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = b.readVec3(normIdx); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = b.readVec2(uvIdx); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
			// glTF V runs top-down; samplers here expect bottom-up.
			for i := range uvs {
				uvs[i].Y = 1 - uvs[i].Y
			}
		}

		for i := range positions {
			positions[i] = transform.TransformPoint(positions[i])
		}
		for i := range normals {
			normals[i] = transform.TransformDirection(normals[i]).Normalize()
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = b.readIndices(*prim.Indices); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		b.meshes = append(b.meshes, scene.Mesh{
			Vertices: deindex(positions, normals, uvs, indices),
			HasUV:    len(uvs) > 0,
		})

		if b.texture == nil && prim.Material != nil {
			b.texture = b.baseColorTexture(*prim.Material)
		}
	}
	return nil
}

// baseColorTexture resolves and decodes the material's base-color image,
// whether embedded in a buffer view or referenced as an external file.
func (b *gltfBuilder) baseColorTexture(materialIdx int) image.Image {
	mat := b.doc.Materials[materialIdx]
	if mat.PBRMetallicRoughness == nil || mat.PBRMetallicRoughness.BaseColorTexture == nil {
		return nil
	}
	texIdx := int(mat.PBRMetallicRoughness.BaseColorTexture.Index)
	if texIdx >= len(b.doc.Textures) {
		return nil
	}
	tex := b.doc.Textures[texIdx]
	if tex.Source == nil || *tex.Source >= len(b.doc.Images) {
		return nil
	}
	img := b.doc.Images[*tex.Source]

	var data []byte
	if img.BufferView != nil {
		bv := b.doc.BufferViews[*img.BufferView]
		buf := b.doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil
		}
		data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	} else if img.URI != "" {
		raw, err := os.ReadFile(filepath.Join(filepath.Dir(b.path), img.URI))
		if err != nil {
			return nil
		}
		data = raw
	} else {
		return nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return decoded
}

func (b *gltfBuilder) readVec3(accessorIdx int) ([]math.Vec3, error) {
	accessor := b.doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("accessor %d: want float VEC3, got %v/%v",
			accessorIdx, accessor.Type, accessor.ComponentType)
	}
	data, stride, err := b.accessorBytes(accessor, 12)
	if err != nil {
		return nil, err
	}

	out := make([]math.Vec3, accessor.Count)
	for i := range out {
		off := i * stride
		out[i] = math.Vec3{
			X: readFloat32(data[off:]),
			Y: readFloat32(data[off+4:]),
			Z: readFloat32(data[off+8:]),
		}
	}
	return out, nil
}

func (b *gltfBuilder) readVec2(accessorIdx int) ([]math.Vec2, error) {
	accessor := b.doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("accessor %d: want float VEC2, got %v/%v",
			accessorIdx, accessor.Type, accessor.ComponentType)
	}
	data, stride, err := b.accessorBytes(accessor, 8)
	if err != nil {
		return nil, err
	}

	out := make([]math.Vec2, accessor.Count)
	for i := range out {
		off := i * stride
		out[i] = math.Vec2{
			X: readFloat32(data[off:]),
			Y: readFloat32(data[off+4:]),
		}
	}
	return out, nil
}

func (b *gltfBuilder) readIndices(accessorIdx int) ([]int, error) {
	accessor := b.doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("accessor %d: want SCALAR indices, got %v", accessorIdx, accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("accessor %d: unsupported index component %v", accessorIdx, accessor.ComponentType)
	}

	data, stride, err := b.accessorBytes(accessor, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, accessor.Count)
	for i := range out {
		off := i * stride
		switch size {
		case 1:
			out[i] = int(data[off])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			out[i] = int(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return out, nil
}

// accessorBytes returns the raw bytes behind an accessor and the stride to
// step elements with. elemSize is the packed element size, used when the
// buffer view is tightly packed.
func (b *gltfBuilder) accessorBytes(accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor without buffer view")
	}
	bv := b.doc.BufferViews[*accessor.BufferView]
	buf := b.doc.Buffers[bv.Buffer]
	if buf.Data == nil {
		return nil, 0, fmt.Errorf("buffer %d has no data", bv.Buffer)
	}

	stride := bv.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bv.ByteOffset + accessor.ByteOffset
	end := start + (accessor.Count-1)*stride + elemSize
	if end > len(buf.Data) {
		return nil, 0, fmt.Errorf("accessor range [%d:%d] exceeds buffer size %d", start, end, len(buf.Data))
	}
	return buf.Data[start:end], stride, nil
}

func readFloat32(b []byte) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(b))
}
