// Package present blits a CPU-rendered frame to the screen: one streaming
// texture on a fullscreen quad, drawn with a passthrough shader.
package present

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/scopview/scopview/internal/engine/shader"
	"github.com/scopview/scopview/internal/logger"
	"github.com/scopview/scopview/internal/raster"
)

const vertexShaderSource = `#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;
out vec2 vUV;
void main() {
	vUV = aUV;
	gl_Position = vec4(aPos, 0.0, 1.0);
}
`

const fragmentShaderSource = `#version 410 core
in vec2 vUV;
out vec4 fragColor;
uniform sampler2D uFrame;
void main() {
	fragColor = texture(uFrame, vUV);
}
`

// Presenter owns the GL objects for the frame blit.
// Must be created after the OpenGL context, on the main thread.
type Presenter struct {
	program uint32
	vao     uint32
	vbo     uint32
	texture uint32

	texWidth  int
	texHeight int
}

// New initializes OpenGL and builds the blit pipeline for frames of the
// given size.
func New(frameWidth, frameHeight int) (*Presenter, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	p := &Presenter{texWidth: frameWidth, texHeight: frameHeight}

	var err error
	p.program, err = shader.CompileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}

	p.createQuad()
	p.createTexture(frameWidth, frameHeight)

	// Depth is resolved CPU-side; the quad is the only GL geometry.
	gl.Disable(gl.DEPTH_TEST)

	return p, nil
}

// createQuad builds the fullscreen triangle pair: clip-space XY plus UV.
func (p *Presenter) createQuad() {
	vertices := []float32{
		// x, y, u, v — framebuffer row 0 is the top of the image
		-1, -1, 0, 1,
		1, -1, 1, 1,
		1, 1, 1, 0,
		-1, -1, 0, 1,
		1, 1, 1, 0,
		-1, 1, 0, 0,
	}

	gl.GenVertexArrays(1, &p.vao)
	gl.GenBuffers(1, &p.vbo)

	gl.BindVertexArray(p.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(4 * 4)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, uintptr(2*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

func (p *Presenter) createTexture(width, height int) {
	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Resize adapts the GL viewport and reallocates the frame texture when the
// CPU framebuffer changes size.
func (p *Presenter) Resize(viewportWidth, viewportHeight, frameWidth, frameHeight int) {
	gl.Viewport(0, 0, int32(viewportWidth), int32(viewportHeight))
	if frameWidth != p.texWidth || frameHeight != p.texHeight {
		gl.DeleteTextures(1, &p.texture)
		p.createTexture(frameWidth, frameHeight)
		p.texWidth = frameWidth
		p.texHeight = frameHeight
		logger.Debug("frame texture reallocated",
			zap.Int("width", frameWidth),
			zap.Int("height", frameHeight),
		)
	}
}

// Present uploads the framebuffer and draws it across the viewport.
func (p *Presenter) Present(fb *raster.Framebuffer) {
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0,
		int32(fb.Width), int32(fb.Height),
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&fb.Color[0]))

	gl.UseProgram(p.program)
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Close releases the GL objects.
func (p *Presenter) Close() {
	logger.Info("closing presenter")
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
	}
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
	}
	if p.texture != 0 {
		gl.DeleteTextures(1, &p.texture)
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
	}
}
