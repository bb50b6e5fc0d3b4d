package telemetry

import (
	"math"
	"testing"
)

func TestDistribution(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	mean, std, p10, p50, p90 := Distribution(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	// Sample std dev of the deciles: sqrt(0.825/9)
	if math.Abs(std-0.302765) > 0.001 {
		t.Errorf("std = %v, want ~0.302765", std)
	}
	if math.Abs(p10-0.1) > 0.001 {
		t.Errorf("p10 = %v, want 0.1", p10)
	}
	if math.Abs(p50-0.5) > 0.001 {
		t.Errorf("p50 = %v, want 0.5", p50)
	}
	if math.Abs(p90-0.9) > 0.001 {
		t.Errorf("p90 = %v, want 0.9", p90)
	}
}

func TestDistributionEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := Distribution(nil)

	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Errorf("empty input should yield zeros, got %v %v %v %v %v",
			mean, std, p10, p50, p90)
	}
}

func TestDistributionSingle(t *testing.T) {
	mean, std, p10, p50, p90 := Distribution([]float64{0.42})

	if math.Abs(mean-0.42) > 0.001 {
		t.Errorf("mean = %v, want 0.42", mean)
	}
	if std != 0 {
		t.Errorf("std = %v, want 0 for single sample", std)
	}
	for name, got := range map[string]float64{"p10": p10, "p50": p50, "p90": p90} {
		if math.Abs(got-0.42) > 0.001 {
			t.Errorf("%s = %v, want 0.42", name, got)
		}
	}
}

func TestDistributionUnsortedInput(t *testing.T) {
	shuffled := []float64{0.7, 0.1, 1.0, 0.4, 0.9, 0.2, 0.6, 0.3, 0.8, 0.5}
	_, _, p10, p50, p90 := Distribution(shuffled)

	if math.Abs(p10-0.1) > 0.001 || math.Abs(p50-0.5) > 0.001 || math.Abs(p90-0.9) > 0.001 {
		t.Errorf("percentiles of shuffled input = %v %v %v, want 0.1 0.5 0.9", p10, p50, p90)
	}

	// Input slice must be left untouched.
	if shuffled[0] != 0.7 || shuffled[1] != 0.1 {
		t.Error("Distribution mutated its input slice")
	}
}

func TestDistributionOrdering(t *testing.T) {
	values := []float64{0.05, 0.3, 0.31, 0.32, 0.33, 0.6, 0.61, 0.62, 0.95, 0.99}
	_, _, p10, p50, p90 := Distribution(values)

	if !(p10 <= p50 && p50 <= p90) {
		t.Errorf("percentiles out of order: p10=%v p50=%v p90=%v", p10, p50, p90)
	}
}
