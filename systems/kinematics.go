package systems

import (
	"math"

	"github.com/emberfield/sparks/components"
)

// MotionParams holds the per-frame tuning for AdvanceSpark. The engine
// fills it from config once per frame so sparks never read ambient state.
type MotionParams struct {
	MaxSpeed      float32
	DriftStrength float32
	Damping       float32 // per-frame factor at 60fps
	DecayPerSec   float32
	EnergyMin     float32 // hard energy floor, config floor * 0.5
	RingDecay     float32 // per-frame factor at 60fps
	Width         float32
	Height        float32
}

// Drift phase frequencies in rad/s. Two incommensurate values keep the
// wander path from closing into a visible loop.
const (
	driftFreqX = 0.8
	driftFreqY = 0.6
)

// FadeInTime is how long a freshly spawned spark takes to reach full
// visibility, in seconds.
const FadeInTime = 0.5

// AdvanceSpark advances one spark by dt seconds: age, drift, damping,
// speed clamp, position integration with toroidal wrap, energy and ring
// decay, and the composite fade factor. Returns false once the spark has
// outlived its lifetime; the caller culls it.
func AdvanceSpark(sp *components.Spark, pos *components.Position, vel *components.Velocity, en *components.Energy, p MotionParams, simTime, dt float32) bool {
	sp.Age += dt
	if sp.Age >= sp.Lifetime {
		sp.Alive = false
		return false
	}

	// Seed-phase-offset sinusoidal drift keeps motion smooth and
	// distinct per spark.
	phase := sp.Seed * 2 * math.Pi
	vel.X += p.DriftStrength * dt * fastSin(simTime*driftFreqX+phase)
	vel.Y += p.DriftStrength * dt * fastCos(simTime*driftFreqY+2*phase)

	// Exponential damping, frame-rate independent.
	damp := float32(math.Pow(float64(p.Damping), float64(dt*60)))
	vel.X *= damp
	vel.Y *= damp

	// Clamp speed, preserving direction.
	speedSq := vel.X*vel.X + vel.Y*vel.Y
	if maxSq := p.MaxSpeed * p.MaxSpeed; speedSq > maxSq {
		scale := p.MaxSpeed / fastSqrt(speedSq)
		vel.X *= scale
		vel.Y *= scale
	}

	pos.X = wrapCoord(pos.X+vel.X*dt, p.Width)
	pos.Y = wrapCoord(pos.Y+vel.Y*dt, p.Height)

	// Multiplicative energy decay, floored at the hard minimum.
	en.Value *= float32(math.Pow(float64(1-p.DecayPerSec), float64(dt)))
	if en.Value < p.EnergyMin {
		en.Value = p.EnergyMin
	} else if en.Value > 1 {
		en.Value = 1
	}

	// Ring feedback decays on the same frame-rate-independent schedule
	// as damping.
	en.RingAlpha *= float32(math.Pow(float64(p.RingDecay), float64(dt*60)))
	if en.RingAlpha < 0.001 {
		en.RingAlpha = 0
	}

	sp.Fade = FadeFactor(sp.Age, sp.Lifetime)
	return true
}

// FadeFactor combines the fade-in ramp over the first half second of life
// with the fade-out ramp over the final quarter of lifetime.
func FadeFactor(age, lifetime float32) float32 {
	fadeIn := clamp01(age / FadeInTime)

	quarter := lifetime * 0.25
	if quarter <= 0 {
		return fadeIn
	}
	fadeOut := clamp01((lifetime - age) / quarter)

	return fadeIn * fadeOut
}

// ViewAlpha is the spark's render opacity: the fade envelope scaled so a
// drained spark still shows at a quarter brightness.
func ViewAlpha(sp *components.Spark, en *components.Energy) float32 {
	return sp.Fade * (0.25 + 0.75*en.Value)
}

// ViewRadius is the spark's render radius, swelling with stored energy.
func ViewRadius(body *components.Body, en *components.Energy) float32 {
	return body.Radius * (0.75 + 0.5*en.Value)
}
