package systems

import (
	"math"

	"github.com/emberfield/sparks/components"
)

const (
	gamma    = 2.2
	invGamma = 1.0 / 2.2
)

// MixTint blends two tints in linear-light space: channels are decoded
// with the inverse gamma curve, interpolated, darkened slightly at
// mid-blend to read like pigment rather than light, and re-encoded.
// t=0 returns a unchanged; the darkening term vanishes at both ends.
func MixTint(a, b components.Tint, t float32) components.Tint {
	if t <= 0 {
		return a
	}
	if t > 1 {
		t = 1
	}
	darken := 1 - t*(1-t)*0.15
	return components.Tint{
		R: mixChannel(a.R, b.R, t, darken),
		G: mixChannel(a.G, b.G, t, darken),
		B: mixChannel(a.B, b.B, t, darken),
	}
}

func mixChannel(a, b, t, darken float32) float32 {
	la := toLinear(a)
	lb := toLinear(b)
	lm := (la + (lb-la)*t) * darken
	return fromLinear(lm)
}

// toLinear decodes a gamma-encoded 0-255 channel to linear [0,1].
func toLinear(c float32) float32 {
	if c <= 0 {
		return 0
	}
	if c >= 255 {
		return 1
	}
	return float32(math.Pow(float64(c)/255, gamma))
}

// fromLinear encodes a linear [0,1] value back to a 0-255 channel.
func fromLinear(l float32) float32 {
	if l <= 0 {
		return 0
	}
	if l >= 1 {
		return 255
	}
	return float32(math.Pow(float64(l), invGamma) * 255)
}

// ColorStep is the receiver-side blend amount for one resolved pair this
// frame: quadratic in strength so weak connections barely tint, capped at
// 0.2 so one frame can never recolor a spark outright.
func ColorStep(strength, ratePerSec, dt float32) float32 {
	step := strength * strength * ratePerSec * dt
	if step > 0.2 {
		return 0.2
	}
	if step < 0 {
		return 0
	}
	return step
}

// ExchangeColor tints the receiver toward the giver by step and applies
// the reciprocal quarter-step tint to the giver.
func ExchangeColor(giver, receiver *components.Tint, step float32) {
	if step <= 0 {
		return
	}
	g := *giver
	*receiver = MixTint(*receiver, g, step)
	*giver = MixTint(g, *receiver, step*0.25)
}
