// Package neural provides the fixed feedforward network that assigns
// spark polarity at spawn.
package neural

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Network dimensions (compile-time constants for array sizing).
// Inputs are spawn position x/y normalized to [-1,1], age (0 at spawn),
// and the spark's seed mapped to [-1,1].
const (
	NumInputs = 4
	NumHidden = 6
)

// PolarityNet is a tiny two-layer feedforward network shared by every
// spark in a run. Weights are fixed at construction; the net is evaluated
// once per spark at spawn time.
type PolarityNet struct {
	W1 [NumHidden][NumInputs]float32 // input -> hidden weights
	B1 [NumHidden]float32            // hidden biases
	W2 [NumHidden]float32            // hidden -> output weights
	B2 float32                       // output bias
}

// NewPolarityNet creates a network with Glorot-uniform weights and biases
// drawn from a PCG stream keyed on seed, so a run seed reproduces the same
// field of givers and receivers.
func NewPolarityNet(seed uint64) *PolarityNet {
	src := rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)

	limit1 := glorotLimit(NumInputs, NumHidden)
	u1 := distuv.Uniform{Min: -limit1, Max: limit1, Src: src}
	limit2 := glorotLimit(NumHidden, 1)
	u2 := distuv.Uniform{Min: -limit2, Max: limit2, Src: src}

	nn := &PolarityNet{}
	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] = float32(u1.Rand())
		}
		nn.B1[i] = float32(u1.Rand())
	}
	for i := range nn.W2 {
		nn.W2[i] = float32(u2.Rand())
	}
	nn.B2 = float32(u2.Rand())

	return nn
}

// glorotLimit returns the Glorot/Xavier uniform bound sqrt(6/(fanIn+fanOut)).
func glorotLimit(fanIn, fanOut int) float64 {
	return math.Sqrt(6.0 / float64(fanIn+fanOut))
}

// Evaluate computes polarity in [0,1] for a spark spawning at normalized
// position (nx, ny) with the given age and seed inputs. Values above 0.5
// make the spark tend to give energy in transfers.
func (nn *PolarityNet) Evaluate(nx, ny, age, seed float32) float32 {
	inputs := [NumInputs]float32{nx, ny, age, seed}

	// Hidden layer with fast tanh activation
	var hidden [NumHidden]float32
	for i := 0; i < NumHidden; i++ {
		sum := nn.B1[i]
		for j := 0; j < NumInputs; j++ {
			sum += nn.W1[i][j] * inputs[j]
		}
		hidden[i] = tanh(sum)
	}

	// Single sigmoid output
	out := nn.B2
	for i := 0; i < NumHidden; i++ {
		out += nn.W2[i] * hidden[i]
	}
	return sigmoid(out)
}

// tanh uses a fast rational approximation avoiding float64 conversion.
func tanh(x float32) float32 {
	if x > 4 {
		return 1
	}
	if x < -4 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// sigmoid is the standard logistic function. Only called at spawn, so the
// float64 round-trip through math.Exp is fine here.
func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(-float64(x))))
}
