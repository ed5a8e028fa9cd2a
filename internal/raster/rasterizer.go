package raster

import (
	"runtime"
	"sync"

	"github.com/scopview/scopview/internal/scene"
	"github.com/scopview/scopview/internal/shading"
	"github.com/scopview/scopview/pkg/math"
)

// nearEpsilon rejects triangles touching the camera plane, where the
// perspective divide stops being meaningful.
const nearEpsilon = 1e-6

// Rasterizer fills framebuffers from triangle soup. One instance can be
// reused across frames; Draw itself fans work out over row bands so
// concurrent calls on the same framebuffer are not allowed.
type Rasterizer struct {
	workers int
}

// New creates a rasterizer with the given worker count. Zero or negative
// means one worker per available CPU.
func New(workers int) *Rasterizer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Rasterizer{workers: workers}
}

// DrawCall carries everything one mesh draw needs besides the geometry.
// Config and Sampler are fixed for the whole call, so every fragment of the
// mesh shades under the same settings no matter which band runs it.
type DrawCall struct {
	ModelMatrix math.Mat4
	Config      shading.DrawConfig
	Sampler     shading.Sampler
}

// DrawModel draws every mesh of the model with the same call settings.
func (r *Rasterizer) DrawModel(fb *Framebuffer, m *scene.Model, viewProj math.Mat4, call DrawCall) {
	for i := range m.Meshes {
		r.DrawMesh(fb, m.Meshes[i].Vertices, viewProj, call)
	}
}

// DrawMesh projects the triangle soup and rasterizes it into fb. Vertices
// are consumed in threes; a trailing partial triangle is ignored.
func (r *Rasterizer) DrawMesh(fb *Framebuffer, vertices []scene.Vertex, viewProj math.Mat4, call DrawCall) {
	tris := r.project(fb, vertices, viewProj, call.ModelMatrix)
	if len(tris) == 0 {
		return
	}

	workers := r.workers
	if workers > fb.Height {
		workers = fb.Height
	}
	if workers <= 1 {
		fillBand(fb, tris, 0, fb.Height, call)
		return
	}

	// Horizontal bands: each worker owns a contiguous slab of rows, so no
	// two goroutines ever touch the same pixel or depth cell.
	rows := (fb.Height + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < fb.Height; y0 += rows {
		y1 := y0 + rows
		if y1 > fb.Height {
			y1 = fb.Height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fillBand(fb, tris, y0, y1, call)
		}(y0, y1)
	}
	wg.Wait()
}

// screenVertex is a projected vertex: screen position, depth, and the
// attributes to interpolate.
type screenVertex struct {
	x, y float32 // screen pixels
	z    float32 // NDC depth
	invW float32

	worldPos math.Vec3
	color    math.Vec3
	uv       math.Vec2
}

// screenTri is one projected triangle plus the per-triangle constants the
// pixel loop needs.
type screenTri struct {
	v [3]screenVertex

	// Screen-space derivatives of world position, constant over the
	// triangle. Feed the normal reconstruction in generated mode.
	dpdx, dpdy math.Vec3

	minX, minY, maxX, maxY int

	// Barycentric edge constants, relative to vertex 2.
	dy12, dx21, dy20, dx02, invDet float32
}

// project transforms vertices to screen space and sets up per-triangle
// constants. Triangles touching the near plane or degenerate on screen are
// dropped here.
func (r *Rasterizer) project(fb *Framebuffer, vertices []scene.Vertex, viewProj, model math.Mat4) []screenTri {
	tris := make([]screenTri, 0, len(vertices)/3)

	halfW := float32(fb.Width) * 0.5
	halfH := float32(fb.Height) * 0.5

	for i := 0; i+2 < len(vertices); i += 3 {
		var tri screenTri
		behind := false

		for j := 0; j < 3; j++ {
			src := vertices[i+j]
			world := model.TransformPoint(src.Position)
			clip := viewProj.MulVec4(math.V4FromV3(world, 1))
			if clip.W <= nearEpsilon {
				behind = true
				break
			}

			invW := 1 / clip.W
			sv := &tri.v[j]
			sv.invW = invW
			sv.z = clip.Z * invW
			sv.x = (clip.X*invW + 1) * halfW
			sv.y = (1 - clip.Y*invW) * halfH // screen Y grows downward
			sv.worldPos = world
			sv.color = src.Color
			sv.uv = src.UV
		}
		if behind {
			continue
		}

		if !tri.setup(fb.Width, fb.Height) {
			continue
		}
		tris = append(tris, tri)
	}
	return tris
}

// setup computes the bounding box, barycentric constants, and world-position
// derivatives. Reports false when the triangle covers no pixels.
func (t *screenTri) setup(width, height int) bool {
	v0, v1, v2 := &t.v[0], &t.v[1], &t.v[2]

	t.minX = int(math.Min(math.Min(v0.x, v1.x), v2.x))
	t.maxX = int(math.Max(math.Max(v0.x, v1.x), v2.x)) + 1
	t.minY = int(math.Min(math.Min(v0.y, v1.y), v2.y))
	t.maxY = int(math.Max(math.Max(v0.y, v1.y), v2.y)) + 1

	if t.minX < 0 {
		t.minX = 0
	}
	if t.maxX > width-1 {
		t.maxX = width - 1
	}
	if t.minY < 0 {
		t.minY = 0
	}
	if t.maxY > height-1 {
		t.maxY = height - 1
	}
	if t.minX > t.maxX || t.minY > t.maxY {
		return false
	}

	// No backface rejection: the determinant's sign folds into invDet, so
	// both windings rasterize and the model reads as double-sided.
	det := (v1.y-v2.y)*(v0.x-v2.x) + (v2.x-v1.x)*(v0.y-v2.y)
	if det > -1e-8 && det < 1e-8 {
		return false
	}
	t.invDet = 1 / det
	t.dy12 = v1.y - v2.y
	t.dx21 = v2.x - v1.x
	t.dy20 = v2.y - v0.y
	t.dx02 = v0.x - v2.x

	// World-position gradient over the screen plane, from the inverse of
	// the 2x2 screen-edge matrix. Zero on degenerate screen footprints,
	// which downstream normal reconstruction treats as "no direction".
	e1x, e1y := v1.x-v0.x, v1.y-v0.y
	e2x, e2y := v2.x-v0.x, v2.y-v0.y
	d := e1x*e2y - e1y*e2x
	if math.Abs(d) > 1e-8 {
		p10 := v1.worldPos.Sub(v0.worldPos)
		p20 := v2.worldPos.Sub(v0.worldPos)
		inv := 1 / d
		t.dpdx = p10.Scale(e2y * inv).Sub(p20.Scale(e1y * inv))
		t.dpdy = p20.Scale(e1x * inv).Sub(p10.Scale(e2x * inv))
	}

	return true
}

// fillBand rasterizes every triangle's intersection with rows [y0, y1).
// This is the hot path: no allocation inside the loops.
func fillBand(fb *Framebuffer, tris []screenTri, y0, y1 int, call DrawCall) {
	for ti := range tris {
		t := &tris[ti]

		minY := t.minY
		if minY < y0 {
			minY = y0
		}
		maxY := t.maxY
		if maxY > y1-1 {
			maxY = y1 - 1
		}
		if minY > maxY {
			continue
		}

		v0, v1, v2 := &t.v[0], &t.v[1], &t.v[2]

		for sy := minY; sy <= maxY; sy++ {
			dsy := float32(sy) + 0.5 - v2.y
			rowOff := sy * fb.Width
			for sx := t.minX; sx <= t.maxX; sx++ {
				dsx := float32(sx) + 0.5 - v2.x
				b0 := (t.dy12*dsx + t.dx21*dsy) * t.invDet
				b1 := (t.dy20*dsx + t.dx02*dsy) * t.invDet
				b2 := 1 - b0 - b1
				if b0 < 0 || b1 < 0 || b2 < 0 {
					continue
				}

				z := b0*v0.z + b1*v1.z + b2*v2.z
				zIdx := rowOff + sx
				if z >= fb.Depth[zIdx] {
					continue
				}

				// Perspective-correct attribute interpolation: weight each
				// vertex by bary/w, then renormalize.
				w0 := b0 * v0.invW
				w1 := b1 * v1.invW
				w2 := b2 * v2.invW
				oneOverW := w0 + w1 + w2
				if oneOverW <= 0 {
					continue
				}
				inv := 1 / oneOverW
				w0 *= inv
				w1 *= inv
				w2 *= inv

				frag := shading.FragmentInput{
					WorldPos: v0.worldPos.Scale(w0).
						Add(v1.worldPos.Scale(w1)).
						Add(v2.worldPos.Scale(w2)),
					VertexColor: v0.color.Scale(w0).
						Add(v1.color.Scale(w1)).
						Add(v2.color.Scale(w2)),
					UV: math.Vec2{
						X: w0*v0.uv.X + w1*v1.uv.X + w2*v2.uv.X,
						Y: w0*v0.uv.Y + w1*v1.uv.Y + w2*v2.uv.Y,
					},
					DPDX: t.dpdx,
					DPDY: t.dpdy,
				}

				out := shading.ShadeFragment(call.Config, frag, call.Sampler)

				fb.Depth[zIdx] = z
				off := zIdx * 4
				fb.Color[off] = floatToByte(out.X)
				fb.Color[off+1] = floatToByte(out.Y)
				fb.Color[off+2] = floatToByte(out.Z)
				fb.Color[off+3] = floatToByte(out.W)
			}
		}
	}
}
