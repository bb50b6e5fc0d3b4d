package systems

import (
	"github.com/emberfield/sparks/components"
)

// PairKey returns the canonical key for an unordered spark pair:
// smaller ID in the high word. PairKey(a,b) == PairKey(b,a).
func PairKey(a, b uint32) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

// ClosenessWeight maps a pair distance to a target connection weight:
// 1 at distance 0, smoothstep falloff to 0 at the interaction radius,
// 0 beyond it. The smooth curve avoids a visible pop when a pair crosses
// the radius.
func ClosenessWeight(dist, radius float32) float32 {
	if radius <= 0 {
		return 0
	}
	t := dist / radius
	if t >= 1 {
		return 0
	}
	if t < 0 {
		t = 0
	}
	return 1 - t*t*(3-2*t)
}

// ApproachStrength moves a connection strength toward target with a
// first-order filter. The step fraction caps at 1, so the result lands
// between current and target and never overshoots. Output clamped [0,1].
func ApproachStrength(current, target, ratePerSec, dt float32) float32 {
	step := ratePerSec * dt
	if step > 1 {
		step = 1
	} else if step < 0 {
		step = 0
	}
	return clamp01(current + (target-current)*step)
}

// DecayStrength reduces the strength of a connection that went unresolved
// this frame. Linear in time: a full-strength connection dies in
// 1/decayPerSec seconds.
func DecayStrength(current, decayPerSec, dt float32) float32 {
	s := current - decayPerSec*dt
	if s < 0 {
		return 0
	}
	return s
}

// TransferEnergy moves energy from giver to receiver for one resolved
// pair and lights the giver's feedback ring. The transferable fraction is
// strength * rate * dt capped at 1; the amount moved is that fraction of
// the giver's energy above floor, further limited by the receiver's
// headroom so the add and the subtract match exactly. Returns the amount
// moved.
func TransferEnergy(giver, receiver *components.Energy, strength, ratePerSec, floor, dt float32) float32 {
	frac := strength * ratePerSec * dt
	if frac > 1 {
		frac = 1
	} else if frac < 0 {
		frac = 0
	}

	avail := giver.Value - floor
	if avail < 0 {
		avail = 0
	}
	moved := frac * avail
	if headroom := 1 - receiver.Value; moved > headroom {
		moved = headroom
	}
	if moved < 0 {
		moved = 0
	}

	giver.Value -= moved
	receiver.Value += moved

	if ring := strength * 0.5; ring > giver.RingAlpha {
		giver.RingAlpha = ring
	}

	return moved
}
