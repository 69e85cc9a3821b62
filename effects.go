package scratchcard

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"

	"github.com/gogpu/scratchcard/internal/pixel"
)

// Particle spawn ranges.
const (
	particleMaxLife   = 50
	particleMinLife   = 25
	particleLifeRange = 25
	particleMinRadius = 2.0
	particleRadiusVar = 2.5
	particleSpreadX   = 2.5
	particleLiftMin   = 0.8
	particleLiftVar   = 2.5
)

// Particle glow gradient.
var (
	particleCore = gg.Hex("#FD4800")
	particleMid  = gg.Hex("#FF7133")
	particleRim  = gg.Hex("#C53C00")
)

// Particle is a short-lived glowing spark. Coordinates are logical pixels;
// Life counts remaining ticks.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Life    int
	MaxLife int
	Radius  float64
}

// alpha is the opacity implied by the remaining life.
func (p Particle) alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return clamp01(float64(p.Life) / float64(p.MaxLife))
}

// EffectsLayer owns the live particle set. Nothing outside the layer holds a
// reference to a particle.
type EffectsLayer struct {
	particles []Particle
	cap       int
	gravity   float64
}

// NewEffectsLayer creates an empty layer holding at most limit particles.
func NewEffectsLayer(limit int, gravity float64) *EffectsLayer {
	return &EffectsLayer{cap: limit, gravity: gravity}
}

// Len returns the number of live particles.
func (l *EffectsLayer) Len() int { return len(l.particles) }

// Particles returns a copy of the live set, oldest first.
func (l *EffectsLayer) Particles() []Particle {
	return append([]Particle(nil), l.particles...)
}

// Spawn appends count particles at p with upward-biased random velocities.
// When the live set grows past the cap the oldest particles are dropped.
func (l *EffectsLayer) Spawn(p gg.Point, count int, rng *rand.Rand) {
	for range count {
		l.particles = append(l.particles, Particle{
			X:       p.X,
			Y:       p.Y,
			VX:      (rng.Float64() - 0.5) * particleSpreadX,
			VY:      -rng.Float64()*particleLiftVar - particleLiftMin,
			Life:    particleMinLife + rng.IntN(particleLifeRange),
			MaxLife: particleMaxLife,
			Radius:  particleMinRadius + rng.Float64()*particleRadiusVar,
		})
	}
	l.enforceCap()
}

func (l *EffectsLayer) enforceCap() {
	if over := len(l.particles) - l.cap; over > 0 {
		l.particles = append(l.particles[:0], l.particles[over:]...)
	}
}

// Tick advances every particle one step, drops the expired ones, redraws the
// effects buffer and reports whether any particle is still alive. Without a
// ready RenderContext the simulation still advances but nothing is drawn.
func (l *EffectsLayer) Tick(rc *RenderContext) bool {
	live := l.particles[:0]
	for _, p := range l.particles {
		p.X += p.VX
		p.Y += p.VY
		p.VY += l.gravity
		p.Life--
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	clear(l.particles[len(live):])
	l.particles = live

	l.render(rc)
	return len(l.particles) > 0
}

// Clear removes every particle and blanks the effects buffer.
func (l *EffectsLayer) Clear(rc *RenderContext) {
	l.particles = l.particles[:0]
	if dc := rc.effectsCtx(); dc != nil {
		dc.Clear()
	}
}

func (l *EffectsLayer) render(rc *RenderContext) {
	dc := rc.effectsCtx()
	if dc == nil {
		return
	}
	dc.Clear()
	buf := buffer(dc.ResizeTarget())
	s := rc.Surface()
	for _, p := range l.particles {
		drawParticle(buf, s, p)
	}
}

// drawParticle adds a radial glow whose opacity follows the remaining life.
func drawParticle(buf pixel.Buffer, s Surface, p Particle) {
	a := p.alpha()
	r := p.Radius * s.Scale
	if a <= 0 || r <= 0 {
		return
	}
	cx, cy := s.ToPixel(gg.Pt(p.X, p.Y))
	glow := gg.NewRadialGradientBrush(cx, cy, 0, r).
		AddColorStop(0, withAlpha(particleCore, a)).
		AddColorStop(0.5, withAlpha(particleMid, a*0.6)).
		AddColorStop(1, withAlpha(particleRim, 0))

	area := buf.Clip(pixel.Rect{
		MinX: int(math.Floor(cx - r)),
		MinY: int(math.Floor(cy - r)),
		MaxX: int(math.Ceil(cx + r)),
		MaxY: int(math.Ceil(cy + r)),
	})
	r2 := r * r
	for y := area.MinY; y < area.MaxY; y++ {
		fy := float64(y) + 0.5
		for x := area.MinX; x < area.MaxX; x++ {
			fx := float64(x) + 0.5
			if (fx-cx)*(fx-cx)+(fy-cy)*(fy-cy) > r2 {
				continue
			}
			c := glow.ColorAt(fx, fy)
			buf.BlendPlus(x, y, pixel.Color{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
}
