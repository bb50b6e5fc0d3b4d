package systems

import (
	"math"
	"testing"

	"github.com/emberfield/sparks/components"
)

func TestMixTintIdentityAtZero(t *testing.T) {
	a := components.Tint{R: 231, G: 111, B: 42}
	b := components.Tint{R: 10, G: 200, B: 250}

	got := MixTint(a, b, 0)
	if got != a {
		t.Errorf("MixTint(a, b, 0) = %v, want a = %v exactly", got, a)
	}
}

func TestMixTintConvergesAtOne(t *testing.T) {
	a := components.Tint{R: 231, G: 111, B: 42}
	b := components.Tint{R: 10, G: 200, B: 250}

	// The darkening term t(1-t)*0.15 vanishes at t=1, so the blend lands
	// on b up to gamma round-trip error.
	got := MixTint(a, b, 1)
	if math.Abs(float64(got.R-b.R)) > 1 || math.Abs(float64(got.G-b.G)) > 1 || math.Abs(float64(got.B-b.B)) > 1 {
		t.Errorf("MixTint(a, b, 1) = %v, want ~%v", got, b)
	}
}

func TestMixTintDarkensMidBlend(t *testing.T) {
	white := components.Tint{R: 255, G: 255, B: 255}

	got := MixTint(white, white, 0.5)
	if got.R >= 255 || got.G >= 255 || got.B >= 255 {
		t.Errorf("mid-blend of white with itself should darken, got %v", got)
	}
	// Darkening is slight: 1 - 0.25*0.15 in linear space.
	if got.R < 240 {
		t.Errorf("mid-blend darkened too much: %v", got.R)
	}
}

func TestMixTintClampsInputs(t *testing.T) {
	a := components.Tint{R: -40, G: 300, B: 128}
	b := components.Tint{R: 260, G: -5, B: 128}

	got := MixTint(a, b, 0.5)
	for _, c := range []float32{got.R, got.G, got.B} {
		if c < 0 || c > 255 {
			t.Errorf("channel %v escaped [0,255]", c)
		}
	}
}

func TestMixTintMovesTowardTarget(t *testing.T) {
	a := components.Tint{R: 50, G: 50, B: 50}
	b := components.Tint{R: 200, G: 200, B: 200}

	got := MixTint(a, b, 0.3)
	if got.R <= a.R || got.R >= b.R {
		t.Errorf("partial blend %v not between endpoints %v and %v", got.R, a.R, b.R)
	}
}

func TestColorStep(t *testing.T) {
	// Quadratic in strength: half strength gives a quarter of the rate.
	full := ColorStep(1.0, 0.6, 0.1)
	half := ColorStep(0.5, 0.6, 0.1)
	if math.Abs(float64(half-full/4)) > 1e-6 {
		t.Errorf("ColorStep not quadratic: full %v, half %v", full, half)
	}

	if got := ColorStep(1.0, 0.6, 10); got != 0.2 {
		t.Errorf("oversized step = %v, want cap 0.2", got)
	}
	if got := ColorStep(0, 0.6, 0.1); got != 0 {
		t.Errorf("zero strength step = %v, want 0", got)
	}
}

func TestExchangeColor(t *testing.T) {
	giver := &components.Tint{R: 255, G: 100, B: 0}
	receiver := &components.Tint{R: 0, G: 100, B: 255}
	g0, r0 := *giver, *receiver

	ExchangeColor(giver, receiver, 0.2)

	// Receiver warms toward the giver.
	if receiver.R <= r0.R || receiver.B >= r0.B {
		t.Errorf("receiver %v did not move toward giver %v", *receiver, g0)
	}
	// Giver picks up a smaller reciprocal tint.
	if giver.B <= g0.B {
		t.Errorf("giver %v did not pick up reciprocal tint", *giver)
	}
	recvShift := absf(receiver.R - r0.R)
	giveShift := absf(giver.R - g0.R)
	if giveShift >= recvShift {
		t.Errorf("giver shift %v should be smaller than receiver shift %v", giveShift, recvShift)
	}
}

func TestExchangeColorZeroStep(t *testing.T) {
	giver := &components.Tint{R: 255, G: 100, B: 0}
	receiver := &components.Tint{R: 0, G: 100, B: 255}
	g0, r0 := *giver, *receiver

	ExchangeColor(giver, receiver, 0)
	if *giver != g0 || *receiver != r0 {
		t.Error("zero step mutated tints")
	}
}
