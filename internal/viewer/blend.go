package viewer

import (
	"github.com/charmbracelet/harmonica"

	"github.com/scopview/scopview/pkg/math"
)

// blendFPS is the spring's internal timestep. Update is called once per
// rendered frame; the spring is tuned against this nominal rate.
const blendFPS = 60

// BlendAnimator eases the texture blend factor toward 0 or 1 when toggled,
// with a critically damped spring so the transition settles without
// overshoot.
type BlendAnimator struct {
	spring   harmonica.Spring
	value    float64
	velocity float64
	target   float64
}

// NewBlendAnimator creates an animator starting at fully textured off.
// speed scales how quickly the spring converges.
func NewBlendAnimator(speed float32) *BlendAnimator {
	return &BlendAnimator{
		spring: harmonica.NewSpring(harmonica.FPS(blendFPS), float64(speed)*2, 1.0),
	}
}

// Toggle flips the target between vertex color and full texture.
func (b *BlendAnimator) Toggle() {
	if b.target == 0 {
		b.target = 1
	} else {
		b.target = 0
	}
}

// Update advances the spring one frame.
func (b *BlendAnimator) Update() {
	b.value, b.velocity = b.spring.Update(b.value, b.velocity, b.target)
}

// Value returns the current blend factor, clamped to [0,1] as the draw
// config contract requires.
func (b *BlendAnimator) Value() float32 {
	return math.Clamp(float32(b.value), 0, 1)
}

// Target returns where the factor is heading, 0 or 1.
func (b *BlendAnimator) Target() float32 {
	return float32(b.target)
}
