package systems

import (
	"math"
	"testing"

	"github.com/emberfield/sparks/components"
)

func TestPairKey(t *testing.T) {
	if PairKey(3, 7) != PairKey(7, 3) {
		t.Error("PairKey not symmetric")
	}
	if PairKey(3, 7) == PairKey(3, 8) {
		t.Error("distinct pairs collided")
	}
	if PairKey(1, 2) != uint64(1)<<32|2 {
		t.Errorf("PairKey(1,2) = %x, want smaller ID in high word", PairKey(1, 2))
	}
}

func TestClosenessWeight(t *testing.T) {
	tests := []struct {
		name   string
		dist   float32
		radius float32
		want   float32
	}{
		{"touching", 0, 120, 1},
		{"half radius", 60, 120, 0.5},
		{"at radius", 120, 120, 0},
		{"beyond radius", 200, 120, 0},
		{"quarter radius", 30, 120, 0.84375}, // 1 - (1/16)(3 - 1/2)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosenessWeight(tt.dist, tt.radius)
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("ClosenessWeight(%v, %v) = %v, want %v", tt.dist, tt.radius, got, tt.want)
			}
		})
	}
}

func TestClosenessWeightMonotone(t *testing.T) {
	prev := float32(1.1)
	for d := float32(0); d <= 130; d += 1 {
		w := ClosenessWeight(d, 120)
		if w > prev {
			t.Fatalf("weight rose from %v to %v at dist %v", prev, w, d)
		}
		if w < 0 || w > 1 {
			t.Fatalf("weight %v outside [0,1] at dist %v", w, d)
		}
		prev = w
	}
}

func TestApproachStrengthNoOvershoot(t *testing.T) {
	// Small steps converge toward the target from below, never past it.
	s := float32(0)
	target := float32(0.8)
	for i := 0; i < 200; i++ {
		next := ApproachStrength(s, target, 6.0, 1.0/60)
		if next < s {
			t.Fatalf("strength moved away from target: %v -> %v", s, next)
		}
		if next > target {
			t.Fatalf("strength overshot target: %v > %v", next, target)
		}
		s = next
	}
	if target-s > 0.01 {
		t.Errorf("strength %v failed to converge toward %v", s, target)
	}

	// A step fraction beyond 1 snaps exactly to the target.
	if got := ApproachStrength(0, 0.8, 6.0, 1.0); got != 0.8 {
		t.Errorf("oversized step = %v, want exact target 0.8", got)
	}
}

func TestApproachStrengthFromAbove(t *testing.T) {
	s := ApproachStrength(0.9, 0.3, 6.0, 1.0/60)
	if s >= 0.9 || s < 0.3 {
		t.Errorf("descending approach = %v, want in [0.3, 0.9)", s)
	}
}

func TestDecayStrength(t *testing.T) {
	// Full strength with 4/s decay dies within a quarter second.
	s := float32(1.0)
	elapsed := float32(0)
	for s > 0 {
		s = DecayStrength(s, 4.0, 1.0/60)
		elapsed += 1.0 / 60
		if elapsed > 0.3 {
			t.Fatalf("strength still %v after %vs", s, elapsed)
		}
	}
	if elapsed > 0.26 {
		t.Errorf("decay took %vs, want <= 1/4s plus one frame", elapsed)
	}

	if DecayStrength(0.01, 4.0, 1.0) != 0 {
		t.Error("decay below zero not clamped")
	}
}

func TestTransferEnergyConservative(t *testing.T) {
	giver := &components.Energy{Value: 0.9}
	receiver := &components.Energy{Value: 0.4}

	moved := TransferEnergy(giver, receiver, 0.6, 0.9, 0.35, 0.1)

	if moved <= 0 {
		t.Fatal("expected energy to move")
	}
	lost := 0.9 - giver.Value
	gained := receiver.Value - 0.4
	if math.Abs(float64(lost-moved)) > 1e-6 {
		t.Errorf("giver lost %v, reported moved %v", lost, moved)
	}
	if math.Abs(float64(gained-moved)) > 1e-6 {
		t.Errorf("receiver gained %v, reported moved %v", gained, moved)
	}
}

func TestTransferEnergyRespectsFloor(t *testing.T) {
	giver := &components.Energy{Value: 0.35}
	receiver := &components.Energy{Value: 0.4}

	if moved := TransferEnergy(giver, receiver, 1.0, 0.9, 0.35, 0.1); moved != 0 {
		t.Errorf("giver at floor moved %v, want 0", moved)
	}
	if giver.Value != 0.35 {
		t.Errorf("giver dipped below floor: %v", giver.Value)
	}

	// A huge step takes the giver exactly to the floor, not past it.
	giver.Value = 1.0
	TransferEnergy(giver, receiver, 1.0, 0.9, 0.35, 100)
	if giver.Value < 0.35-1e-6 {
		t.Errorf("giver ended below floor: %v", giver.Value)
	}
}

func TestTransferEnergyHeadroom(t *testing.T) {
	giver := &components.Energy{Value: 1.0}
	receiver := &components.Energy{Value: 0.98}

	moved := TransferEnergy(giver, receiver, 1.0, 0.9, 0.35, 10)

	if receiver.Value > 1+1e-6 {
		t.Errorf("receiver exceeded 1: %v", receiver.Value)
	}
	lost := 1.0 - giver.Value
	if math.Abs(float64(float32(lost)-moved)) > 1e-6 {
		t.Errorf("headroom-limited transfer not conservative: lost %v, moved %v", lost, moved)
	}
}

func TestTransferEnergyRing(t *testing.T) {
	giver := &components.Energy{Value: 0.9}
	receiver := &components.Energy{Value: 0.4}

	TransferEnergy(giver, receiver, 0.6, 0.9, 0.35, 0.1)
	if giver.RingAlpha < 0.3 {
		t.Errorf("ring = %v, want at least strength*0.5 = 0.3", giver.RingAlpha)
	}

	// An already brighter ring is not dimmed.
	giver.RingAlpha = 0.9
	TransferEnergy(giver, receiver, 0.6, 0.9, 0.35, 0.1)
	if giver.RingAlpha != 0.9 {
		t.Errorf("brighter ring overwritten: %v", giver.RingAlpha)
	}
}
