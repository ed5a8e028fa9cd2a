package raster

import (
	"bytes"
	gomath "math"
	"testing"

	"github.com/scopview/scopview/internal/scene"
	"github.com/scopview/scopview/internal/shading"
	"github.com/scopview/scopview/pkg/math"
)

type solidSampler struct {
	c math.Vec4
}

func (s solidSampler) Sample(u, v float32) math.Vec4 { return s.c }

// fullscreenTri covers the whole viewport under an identity camera.
func fullscreenTri(z float32, color math.Vec3) []scene.Vertex {
	return []scene.Vertex{
		{Position: math.Vec3{X: -1, Y: -3, Z: z}, Color: color},
		{Position: math.Vec3{X: 3, Y: 1, Z: z}, Color: color},
		{Position: math.Vec3{X: -1, Y: 1, Z: z}, Color: color},
	}
}

func opaqueCall() DrawCall {
	return DrawCall{
		ModelMatrix: math.Identity(),
		Config:      shading.DrawConfig{Mode: shading.ProjectionAuthored, Scale: 1, Blend: 0},
		Sampler:     solidSampler{c: math.Vec4{X: 1, Y: 1, Z: 1, W: 1}},
	}
}

func pixelAt(fb *Framebuffer, x, y int) [4]uint8 {
	off := (y*fb.Width + x) * 4
	return [4]uint8{fb.Color[off], fb.Color[off+1], fb.Color[off+2], fb.Color[off+3]}
}

func TestClearFillsColorAndDepth(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.Clear(math.Vec3{X: 0.1, Y: 0.1, Z: 0.1})

	want := floatToByte(0.1)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := pixelAt(fb, x, y)
			if p[0] != want || p[1] != want || p[2] != want || p[3] != 255 {
				t.Fatalf("pixel (%d,%d) = %v after clear", x, y, p)
			}
		}
	}
	for i, d := range fb.Depth {
		if d != gomath.MaxFloat32 {
			t.Fatalf("depth[%d] = %v, want max", i, d)
		}
	}
}

func TestDrawMeshFillsCenter(t *testing.T) {
	fb := NewFramebuffer(32, 32)
	fb.Clear(math.Vec3{})

	r := New(1)
	r.DrawMesh(fb, fullscreenTri(0, math.Vec3{X: 1, Y: 0, Z: 0}), math.Identity(), opaqueCall())

	p := pixelAt(fb, 16, 16)
	if p[0] != 255 || p[1] != 0 || p[2] != 0 {
		t.Errorf("center pixel = %v, want red", p)
	}
}

func TestDrawMeshDepthTest(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	fb.Clear(math.Vec3{})
	r := New(1)

	// Far green first, near red second: red must win.
	r.DrawMesh(fb, fullscreenTri(0.5, math.Vec3{Y: 1}), math.Identity(), opaqueCall())
	r.DrawMesh(fb, fullscreenTri(-0.5, math.Vec3{X: 1}), math.Identity(), opaqueCall())
	if p := pixelAt(fb, 8, 8); p[0] != 255 || p[1] != 0 {
		t.Errorf("after far-then-near: pixel = %v, want red", p)
	}

	// Near red first, far green second: red must survive.
	fb.Clear(math.Vec3{})
	r.DrawMesh(fb, fullscreenTri(-0.5, math.Vec3{X: 1}), math.Identity(), opaqueCall())
	r.DrawMesh(fb, fullscreenTri(0.5, math.Vec3{Y: 1}), math.Identity(), opaqueCall())
	if p := pixelAt(fb, 8, 8); p[0] != 255 || p[1] != 0 {
		t.Errorf("after near-then-far: pixel = %v, want red", p)
	}
}

func TestDrawMeshBothWindings(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	fb.Clear(math.Vec3{})
	r := New(1)

	// Reverse the vertex order; the triangle must still draw.
	tri := fullscreenTri(0, math.Vec3{X: 1})
	tri[0], tri[2] = tri[2], tri[0]
	r.DrawMesh(fb, tri, math.Identity(), opaqueCall())

	if p := pixelAt(fb, 8, 8); p[0] != 255 {
		t.Errorf("reversed winding not drawn: pixel = %v", p)
	}
}

func TestDrawMeshSkipsTriangleBehindCamera(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	fb.Clear(math.Vec3{})
	r := New(1)

	proj := math.Perspective(math.Radians(45), 1, 0.1, 100)
	behind := []scene.Vertex{
		{Position: math.Vec3{X: -1, Y: -1, Z: 1}, Color: math.Vec3{X: 1}},
		{Position: math.Vec3{X: 1, Y: -1, Z: 1}, Color: math.Vec3{X: 1}},
		{Position: math.Vec3{X: 0, Y: 1, Z: 1}, Color: math.Vec3{X: 1}},
	}
	r.DrawMesh(fb, behind, proj, opaqueCall())

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if p := pixelAt(fb, x, y); p[0] != 0 {
				t.Fatalf("pixel (%d,%d) = %v, want untouched", x, y, p)
			}
		}
	}
}

func TestDrawMeshGeneratedModeUsesSampler(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	fb.Clear(math.Vec3{})
	r := New(1)

	call := DrawCall{
		ModelMatrix: math.Identity(),
		Config:      shading.DrawConfig{Mode: shading.ProjectionGenerated, Scale: 1, Blend: 1},
		Sampler:     solidSampler{c: math.Vec4{X: 0, Y: 0, Z: 1, W: 1}},
	}
	r.DrawMesh(fb, fullscreenTri(0, math.Vec3{X: 1}), math.Identity(), call)

	if p := pixelAt(fb, 8, 8); p[2] != 255 || p[0] != 0 {
		t.Errorf("generated mode at blend 1: pixel = %v, want blue", p)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	mesh := []scene.Vertex{}
	mesh = append(mesh, fullscreenTri(0.2, math.Vec3{X: 0.8, Y: 0.2, Z: 0.1})...)
	mesh = append(mesh,
		scene.Vertex{Position: math.Vec3{X: -0.5, Y: -0.5, Z: -0.1}, Color: math.Vec3{Y: 1}},
		scene.Vertex{Position: math.Vec3{X: 0.5, Y: -0.5, Z: -0.1}, Color: math.Vec3{Y: 1}},
		scene.Vertex{Position: math.Vec3{X: 0, Y: 0.6, Z: -0.1}, Color: math.Vec3{Y: 1}},
	)

	render := func(workers int) *Framebuffer {
		fb := NewFramebuffer(64, 48)
		fb.Clear(math.Vec3{X: 0.1, Y: 0.1, Z: 0.1})
		New(workers).DrawMesh(fb, mesh, math.Identity(), opaqueCall())
		return fb
	}

	serial := render(1)
	parallel := render(8)
	if !bytes.Equal(serial.Color, parallel.Color) {
		t.Error("parallel render differs from serial render")
	}
}

func TestDrawMeshIgnoresPartialTriangle(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.Clear(math.Vec3{})
	r := New(1)

	// Two stray vertices after the full triangle must not draw or panic.
	mesh := append(fullscreenTri(0, math.Vec3{X: 1}),
		scene.Vertex{Position: math.Vec3{X: 0, Y: 0, Z: 0}},
		scene.Vertex{Position: math.Vec3{X: 1, Y: 0, Z: 0}},
	)
	r.DrawMesh(fb, mesh, math.Identity(), opaqueCall())
	if p := pixelAt(fb, 4, 4); p[0] != 255 {
		t.Errorf("full triangle not drawn: %v", p)
	}
}

func TestFramebufferImage(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Clear(math.Vec3{X: 1, Y: 0, Z: 0})
	img := fb.Image()
	if got := img.Bounds().Dx(); got != 4 {
		t.Fatalf("image width = %d, want 4", got)
	}
	r, _, _, a := img.At(2, 2).RGBA()
	if r>>8 != 255 || a>>8 != 255 {
		t.Errorf("image pixel = %v", img.At(2, 2))
	}
}
