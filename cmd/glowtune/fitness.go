package main

import (
	"math"
	"sync"

	"github.com/emberfield/sparks/components"
	"github.com/emberfield/sparks/config"
	"github.com/emberfield/sparks/engine"
	"github.com/emberfield/sparks/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 5.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative field quality averaged across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.runSimulation(x, s)
			results[idx] = fe.computeQuality(windows)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, q := range results {
		total += q
	}
	avgQuality := total / float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = avgQuality
	fe.mu.Unlock()

	return -avgQuality
}

// runSimulation executes one headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	eng := engine.New(cfg, components.Capabilities{}, seed, nil)

	var windows []telemetry.WindowStats
	eng.SetStatsHook(func(stats telemetry.WindowStats) {
		windows = append(windows, stats)
	})

	dt := float32(1.0 / float64(cfg.Screen.TargetFPS))
	for tick := 0; tick < fe.maxTicks; tick++ {
		eng.Step(dt)
	}
	return windows
}

// copyConfig returns a private copy of the base config. Config holds only
// value fields, so a struct copy is a deep copy.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cp := *fe.baseConfig
	cp.Telemetry.StatsWindow = fe.statsWindow
	return &cp
}

// Quality component weights.
const (
	qualityWeightCoverage  = 0.30
	qualityWeightEnergy    = 0.25
	qualityWeightFlow      = 0.20
	qualityWeightStability = 0.15
	qualityWeightHeadroom  = 0.10

	qualityWarmupWindows = 2 // skip first N windows (field still filling in)
)

// computeQuality scores a run in [0, 1]: well-connected, energetic fields
// with steady flow traffic and no interaction-cap starvation score high.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var coverageSum, energySum, flowSum float64
	var capFreeCount int
	connCounts := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.Sparks == 0 {
			continue
		}
		connCounts = append(connCounts, float64(w.Connections))

		// 1. Connection coverage: about one connection per spark reads
		// as a living web without washing out to a solid mesh.
		cover := float64(w.Connections) / float64(w.Sparks)
		coverageSum += math.Exp(-math.Pow((cover-1.0)/0.6, 2))

		// 2. Energy health: window mean held in the upper-middle band.
		energySum += math.Exp(-math.Pow((w.EnergyMean-0.6)/0.2, 2))

		// 3. Flow traffic: saturating score in flows spawned per window.
		flowSum += 1.0 - math.Exp(-float64(w.FlowsSpawned)/15.0)

		if w.CapHits == 0 {
			capFreeCount++
		}
	}

	n := float64(len(connCounts))
	if n == 0 {
		return 0
	}

	// 4. Connection-count stability across windows.
	stability := 0.0
	if len(connCounts) >= 2 {
		c := cv(connCounts)
		stability = math.Exp(-c * c)
	}

	quality := qualityWeightCoverage*coverageSum/n +
		qualityWeightEnergy*energySum/n +
		qualityWeightFlow*flowSum/n +
		qualityWeightStability*stability +
		qualityWeightHeadroom*float64(capFreeCount)/n

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff/n) / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
