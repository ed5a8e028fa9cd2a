// Package viewer runs the interactive loop: input, animation, CPU raster
// pass, and the GL blit to screen.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/scopview/scopview/internal/config"
	"github.com/scopview/scopview/internal/engine/camera"
	"github.com/scopview/scopview/internal/engine/input"
	"github.com/scopview/scopview/internal/engine/present"
	"github.com/scopview/scopview/internal/engine/window"
	"github.com/scopview/scopview/internal/logger"
	"github.com/scopview/scopview/internal/raster"
	"github.com/scopview/scopview/internal/scene"
	"github.com/scopview/scopview/internal/shading"
	"github.com/scopview/scopview/pkg/math"
)

// Viewer owns the window, the CPU render pipeline, and the loaded scene.
type Viewer struct {
	cfg *config.Config

	win       *window.Window
	presenter *present.Presenter
	input     *input.Input

	cam        *camera.FlyCamera
	rasterizer *raster.Rasterizer
	fb         *raster.Framebuffer

	model   *scene.Model
	sampler shading.Sampler
	state   *State

	background math.Vec3
	mouseLook  bool
}

// New creates the viewer window and pipeline for an already loaded scene.
func New(cfg *config.Config, m *scene.Model, sampler shading.Sampler) (*Viewer, error) {
	hasUV := false
	for i := range m.Meshes {
		if m.Meshes[i].HasUV {
			hasUV = true
			break
		}
	}

	win, err := window.New(window.Config{
		Title:      "scopview",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	dw, dh := win.GetDrawableSize()
	presenter, err := present.New(dw, dh)
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("create presenter: %w", err)
	}
	presenter.Resize(dw, dh, dw, dh)

	bg := math.Vec3{
		X: cfg.Viewer.Background[0],
		Y: cfg.Viewer.Background[1],
		Z: cfg.Viewer.Background[2],
	}

	v := &Viewer{
		cfg:        cfg,
		win:        win,
		presenter:  presenter,
		input:      input.New(),
		cam:        camera.NewFlyCamera(initialEye(m)),
		rasterizer: raster.New(cfg.Viewer.Workers),
		fb:         raster.NewFramebuffer(dw, dh),
		model:      m,
		sampler:    sampler,
		state:      NewState(cfg.Viewer, hasUV),
		background: bg,
	}
	return v, nil
}

// initialEye places the camera in front of the model, far enough back that
// the whole bounding box fits the default field of view.
func initialEye(m *scene.Model) math.Vec3 {
	b := m.Bounds()
	size := b.Size()
	radius := math.Max(math.Max(size.X, size.Y), size.Z) * 0.5
	if radius == 0 {
		radius = 1
	}
	c := b.Center()
	return math.Vec3{X: c.X, Y: c.Y, Z: c.Z + radius*3}
}

// Run drives the frame loop until quit. Must be called on the main thread.
func (v *Viewer) Run() error {
	logger.Info("viewer running",
		zap.Int("triangles", v.model.TriangleCount()),
		zap.Stringer("mode", v.state.Mode))

	last := time.Now()
	for {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now
		// Clamp pauses (window drag, debugger) so the model does not leap.
		if dt > 0.1 {
			dt = 0.1
		}

		if quit := v.input.Update(); quit {
			break
		}
		if v.handleEvents() {
			break
		}
		v.handleHeldKeys(dt)

		v.state.Advance(dt)
		v.renderFrame()
		v.win.SwapBuffers()
	}

	v.Close()
	return nil
}

// handleEvents processes the one-shot events for this frame. Returns true
// to quit.
func (v *Viewer) handleEvents() bool {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventKeyDown:
			if v.handleKey(e.Key) {
				return true
			}

		case input.EventWindowResize:
			v.resize()

		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_RIGHT {
				v.mouseLook = true
				v.win.SetRelativeMouseMode(true)
			}

		case input.EventMouseUp:
			if e.Button == sdl.BUTTON_RIGHT {
				v.mouseLook = false
				v.win.SetRelativeMouseMode(false)
			}

		case input.EventMouseMove:
			if v.mouseLook {
				v.cam.HandleLook(float32(e.RelX), float32(e.RelY))
			}

		case input.EventMouseWheel:
			v.cam.HandleZoom(e.WheelY)
		}
	}
	return false
}

// handleKey runs one-shot key actions. Returns true to quit.
func (v *Viewer) handleKey(key sdl.Scancode) bool {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		return true
	case sdl.SCANCODE_RETURN, sdl.SCANCODE_T:
		v.state.Blend.Toggle()
	case sdl.SCANCODE_G:
		v.state.ToggleMode()
	case sdl.SCANCODE_UP:
		v.state.StepScale(+1)
	case sdl.SCANCODE_DOWN:
		v.state.StepScale(-1)
	case sdl.SCANCODE_K:
		v.state.Recolor(v.model)
	case sdl.SCANCODE_F12:
		if _, err := saveScreenshot(v.fb); err != nil {
			logger.Error("screenshot failed", zap.Error(err))
		}
	}
	return false
}

// handleHeldKeys applies continuous model translation while keys are down.
func (v *Viewer) handleHeldKeys(dt float32) {
	if v.input.IsKeyHeld(sdl.SCANCODE_W) {
		v.state.Move(0, 0, -1, dt)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_S) {
		v.state.Move(0, 0, 1, dt)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_A) {
		v.state.Move(-1, 0, 0, dt)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_D) {
		v.state.Move(1, 0, 0, dt)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_Q) {
		v.state.Move(0, -1, 0, dt)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_E) {
		v.state.Move(0, 1, 0, dt)
	}
}

// resize reallocates the CPU framebuffer to the new drawable size.
func (v *Viewer) resize() {
	dw, dh := v.win.GetDrawableSize()
	if dw == v.fb.Width && dh == v.fb.Height {
		return
	}
	v.fb = raster.NewFramebuffer(dw, dh)
	v.presenter.Resize(dw, dh, dw, dh)
	logger.Debug("framebuffer resized", zap.Int("width", dw), zap.Int("height", dh))
}

// renderFrame runs the CPU raster pass and blits it.
func (v *Viewer) renderFrame() {
	v.fb.Clear(v.background)

	aspect := float32(v.fb.Width) / float32(v.fb.Height)
	proj := math.Perspective(math.Radians(v.cam.Zoom), aspect, 0.1, 1000)
	viewProj := proj.Mul(v.cam.ViewMatrix())

	v.rasterizer.DrawModel(v.fb, v.model, viewProj, raster.DrawCall{
		ModelMatrix: v.state.ModelMatrix(v.model.Center()),
		Config:      v.state.DrawConfig(),
		Sampler:     v.sampler,
	})

	v.presenter.Present(v.fb)
}

// Close tears the window and GL objects down.
func (v *Viewer) Close() {
	v.presenter.Close()
	v.win.Close()
}
