package systems

import "math"

// Fast math functions for hot-path simulation passes.
// These avoid float32->float64 conversions that Go's math package requires.

// fastSin approximates sin(x) using a polynomial. Accurate to ~0.001 for
// all x; the input is fully range-reduced, so unbounded drift phases are safe.
func fastSin(x float32) float32 {
	x = wrapPi(x)
	const pi = math.Pi
	const pi2 = pi * pi
	ax := x
	if ax < 0 {
		ax = -ax
	}
	y := 4 * x * (pi - ax) / pi2
	// Correction: improves accuracy
	return 0.225*(y*absf(y)-y) + y
}

// fastCos approximates cos(x) using fastSin.
func fastCos(x float32) float32 {
	return fastSin(x + math.Pi/2)
}

// fastSqrt approximates sqrt(x) using fast inverse sqrt.
func fastSqrt(x float32) float32 {
	if x <= 0 {
		return 0
	}
	i := math.Float32bits(x)
	i = 0x5f375a86 - (i >> 1)
	y := math.Float32frombits(i)
	y = y * (1.5 - 0.5*x*y*y)
	return x * y
}

// wrapPi reduces x to [-pi, pi].
func wrapPi(x float32) float32 {
	const twoPi = 2 * math.Pi
	x = float32(math.Mod(float64(x), twoPi))
	if x > math.Pi {
		x -= twoPi
	} else if x < -math.Pi {
		x += twoPi
	}
	return x
}

// wrapCoord wraps a coordinate into [0, extent). Valid for any x > -extent,
// which holds because a spark moves at most a fraction of the field per frame.
func wrapCoord(x, extent float32) float32 {
	if x >= 0 && x < extent {
		return x
	}
	return float32(math.Mod(float64(x)+float64(extent), float64(extent)))
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp01(x float32) float32 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return x
}
