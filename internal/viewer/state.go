package viewer

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/scopview/scopview/internal/config"
	"github.com/scopview/scopview/internal/logger"
	"github.com/scopview/scopview/internal/scene"
	"github.com/scopview/scopview/internal/shading"
	"github.com/scopview/scopview/pkg/math"
)

// State is the interactive viewer state that the frame loop mutates between
// draws. It is deliberately free of SDL and GL so the key-driven behavior
// can be tested headless.
type State struct {
	Mode      shading.ProjectionMode
	Scale     float32
	Blend     *BlendAnimator
	SpinAngle float32 // degrees around Y
	Offset    math.Vec3

	scaleStep float32
	scaleMin  float32
	scaleMax  float32
	spinSpeed float32
	moveSpeed float32

	rng *rand.Rand
}

// NewState builds viewer state from config. Meshes with authored UVs start
// in authored mode, everything else in generated.
func NewState(cfg config.ViewerConfig, hasAuthoredUV bool) *State {
	mode := shading.ProjectionGenerated
	if hasAuthoredUV {
		mode = shading.ProjectionAuthored
	}
	return &State{
		Mode:      mode,
		Scale:     cfg.ProjectionScale,
		Blend:     NewBlendAnimator(cfg.BlendSpeed),
		scaleStep: cfg.ScaleStep,
		scaleMin:  cfg.ScaleMin,
		scaleMax:  cfg.ScaleMax,
		spinSpeed: cfg.SpinSpeed,
		moveSpeed: 2.5,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// StepScale nudges the generated-projection density one step up or down.
func (s *State) StepScale(dir int) {
	s.Scale = math.Clamp(s.Scale+float32(dir)*s.scaleStep, s.scaleMin, s.scaleMax)
	logger.Debug("projection scale changed", zap.Float32("scale", s.Scale))
}

// ToggleMode switches between authored and generated projection.
func (s *State) ToggleMode() {
	if s.Mode == shading.ProjectionAuthored {
		s.Mode = shading.ProjectionGenerated
	} else {
		s.Mode = shading.ProjectionAuthored
	}
	logger.Info("projection mode", zap.Stringer("mode", s.Mode))
}

// Recolor rolls a fresh base color for the model.
func (s *State) Recolor(m *scene.Model) {
	c := scene.RandomColor(s.rng)
	m.Recolor(c)
	logger.Debug("model recolored",
		zap.Float32("r", c.X), zap.Float32("g", c.Y), zap.Float32("b", c.Z))
}

// Move translates the model along one axis. dx/dy/dz are -1, 0 or 1.
func (s *State) Move(dx, dy, dz float32, deltaTime float32) {
	v := s.moveSpeed * deltaTime
	s.Offset.X += dx * v
	s.Offset.Y += dy * v
	s.Offset.Z += dz * v
}

// Advance steps the time-driven state: model spin and blend animation.
func (s *State) Advance(deltaTime float32) {
	s.SpinAngle += s.spinSpeed * deltaTime
	for s.SpinAngle >= 360 {
		s.SpinAngle -= 360
	}
	s.Blend.Update()
}

// DrawConfig snapshots the state into the immutable per-draw tuple.
func (s *State) DrawConfig() shading.DrawConfig {
	return shading.DrawConfig{
		Mode:  s.Mode,
		Scale: s.Scale,
		Blend: s.Blend.Value(),
	}
}

// ModelMatrix builds the model transform: spin around the model's own
// center, then apply the user translation.
func (s *State) ModelMatrix(center math.Vec3) math.Mat4 {
	return math.Translate(s.Offset.X, s.Offset.Y, s.Offset.Z).
		Mul(math.Translate(center.X, center.Y, center.Z)).
		Mul(math.RotateY(math.Radians(s.SpinAngle))).
		Mul(math.Translate(-center.X, -center.Y, -center.Z))
}
