package neural

import (
	"math"
	"testing"
)

func TestNewPolarityNet(t *testing.T) {
	nn := NewPolarityNet(42)

	if nn == nil {
		t.Fatal("NewPolarityNet returned nil")
	}

	// Weights and biases should respect the Glorot bounds for each layer.
	limit1 := float32(math.Sqrt(6.0 / float64(NumInputs+NumHidden)))
	for i := range nn.W1 {
		for j := range nn.W1[i] {
			if w := nn.W1[i][j]; w < -limit1 || w > limit1 {
				t.Errorf("W1[%d][%d] = %v outside [-%v, %v]", i, j, w, limit1, limit1)
			}
		}
		if b := nn.B1[i]; b < -limit1 || b > limit1 {
			t.Errorf("B1[%d] = %v outside [-%v, %v]", i, b, limit1, limit1)
		}
	}
	limit2 := float32(math.Sqrt(6.0 / float64(NumHidden+1)))
	for i := range nn.W2 {
		if w := nn.W2[i]; w < -limit2 || w > limit2 {
			t.Errorf("W2[%d] = %v outside [-%v, %v]", i, w, limit2, limit2)
		}
	}
	if b := nn.B2; b < -limit2 || b > limit2 {
		t.Errorf("B2 = %v outside [-%v, %v]", b, limit2, limit2)
	}
}

func TestEvaluateRange(t *testing.T) {
	nn := NewPolarityNet(42)

	// Sweep a grid of normalized positions and seeds; every output must
	// land in [0,1].
	for xi := -2; xi <= 2; xi++ {
		for yi := -2; yi <= 2; yi++ {
			for si := -1; si <= 1; si++ {
				p := nn.Evaluate(float32(xi)/2, float32(yi)/2, 0, float32(si))
				if p < 0 || p > 1 {
					t.Fatalf("Evaluate(%d/2, %d/2, 0, %d) = %v, out of [0,1]", xi, yi, si, p)
				}
			}
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	a := NewPolarityNet(7)
	b := NewPolarityNet(7)

	p1 := a.Evaluate(0.3, -0.7, 0, 0.5)
	p2 := b.Evaluate(0.3, -0.7, 0, 0.5)
	if p1 != p2 {
		t.Errorf("same seed produced different polarity: %v vs %v", p1, p2)
	}

	p3 := a.Evaluate(0.3, -0.7, 0, 0.5)
	if p1 != p3 {
		t.Error("Evaluate is not deterministic for a fixed net")
	}
}

func TestSeedsDiffer(t *testing.T) {
	a := NewPolarityNet(1)
	b := NewPolarityNet(2)

	// Two seeds should give materially different nets somewhere.
	same := true
	for i := range a.W1 {
		for j := range a.W1[i] {
			if a.W1[i][j] != b.W1[i][j] {
				same = false
			}
		}
	}
	if same {
		t.Error("different seeds produced identical W1 weights")
	}
}

func TestPolaritySpread(t *testing.T) {
	nn := NewPolarityNet(42)

	// Over a spread of spawn positions the field should contain both
	// giver-leaning and receiver-leaning sparks, not a constant output.
	var min, max float32 = 1, 0
	for xi := 0; xi < 16; xi++ {
		for yi := 0; yi < 16; yi++ {
			nx := float32(xi)/7.5 - 1
			ny := float32(yi)/7.5 - 1
			p := nn.Evaluate(nx, ny, 0, nx*ny)
			if p < min {
				min = p
			}
			if p > max {
				max = p
			}
		}
	}
	if max-min < 0.01 {
		t.Errorf("polarity nearly constant across spawn grid: min %v max %v", min, max)
	}
}
