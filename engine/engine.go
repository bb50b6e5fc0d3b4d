// Package engine runs the spark field simulation: spawning, per-frame
// advance, interaction resolution against the spatial grid and connection
// ledger, flow-particle lifecycle, and snapshot production for the renderer.
package engine

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/emberfield/sparks/components"
	"github.com/emberfield/sparks/config"
	"github.com/emberfield/sparks/neural"
	"github.com/emberfield/sparks/systems"
	"github.com/emberfield/sparks/telemetry"
)

// Population targets scale with viewport area relative to this reference.
const (
	refWidth  = 1920.0
	refHeight = 1080.0
)

// Engine owns the complete simulation state. One Tick or Step runs to
// completion before anything else touches the world; there is no locking
// and no goroutine spawns anywhere below here.
type Engine struct {
	world *ecs.World
	rng   *rand.Rand
	cfg   *config.Config
	caps  components.Capabilities

	sparkMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Body,
		components.Energy,
		components.Tint,
		components.Spark,
	]
	sparkFilter *ecs.Filter6[
		components.Position,
		components.Velocity,
		components.Body,
		components.Energy,
		components.Tint,
		components.Spark,
	]

	// Individual component mappers for lookups outside the main query.
	posMap    *ecs.Map1[components.Position]
	energyMap *ecs.Map1[components.Energy]
	tintMap   *ecs.Map1[components.Tint]
	sparkMap  *ecs.Map1[components.Spark]

	polarity *neural.PolarityNet
	grid     *systems.SparkGrid
	flows    *systems.FlowSystem

	// Connection ledger, keyed by canonical pair key.
	connections map[uint64]*connection

	// Live entity handles by spark ID, for flow endpoint lookups.
	byID map[uint32]ecs.Entity

	// Viewport state
	width, height float32
	dpr           float32

	// Population state
	popTarget   int
	aliveCount  int
	spawnBudget float32
	nextID      uint32

	// Clock state
	simTime float64
	frame   uint64
	lastNow float64
	started bool

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	statsHook func(telemetry.WindowStats)

	// Scratch buffers reused across frames
	refs      []sparkRef
	neighbors []systems.Neighbor
	deadIDs   []uint32

	statEnergies   []float64
	statPolarities []float64
	statStrengths  []float64
}

// New creates an engine in the seeded state: the initial population is
// pre-spawned to the computed target. cfg must already carry its derived
// values (config.Load does this). output may be nil to disable CSV output.
func New(cfg *config.Config, caps components.Capabilities, seed int64, output *telemetry.OutputManager) *Engine {
	world := ecs.NewWorld()

	e := &Engine{
		rng:    rand.New(rand.NewSource(seed)),
		cfg:    cfg,
		caps:   caps,
		width:  cfg.Derived.ScreenW32,
		height: cfg.Derived.ScreenH32,
		dpr:    1,

		connections: make(map[uint64]*connection),
		byID:        make(map[uint32]ecs.Entity),

		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:    output,
	}
	e.world = world

	e.sparkMapper = ecs.NewMap6[
		components.Position,
		components.Velocity,
		components.Body,
		components.Energy,
		components.Tint,
		components.Spark,
	](e.world)
	e.sparkFilter = ecs.NewFilter6[
		components.Position,
		components.Velocity,
		components.Body,
		components.Energy,
		components.Tint,
		components.Spark,
	](e.world)
	e.posMap = ecs.NewMap1[components.Position](e.world)
	e.energyMap = ecs.NewMap1[components.Energy](e.world)
	e.tintMap = ecs.NewMap1[components.Tint](e.world)
	e.sparkMap = ecs.NewMap1[components.Spark](e.world)

	e.polarity = neural.NewPolarityNet(uint64(seed))
	e.grid = systems.NewSparkGrid(e.width, e.height, float32(cfg.Interaction.Radius))

	flowCap := cfg.Flow.MaxParticles
	if caps.LowPower {
		flowCap /= 2
	}
	e.flows = systems.NewFlowSystem(flowCap, float32(cfg.Flow.Speed))

	e.popTarget = e.computePopTarget()
	for i := 0; i < e.popTarget; i++ {
		e.spawnSpark()
	}

	slog.Info("spark_field_seeded",
		"seed", seed,
		"width", int(e.width),
		"height", int(e.height),
		"population_target", e.popTarget,
		"population", e.aliveCount,
		"flow_cap", flowCap,
		"low_power", caps.LowPower,
	)

	return e
}

// Tick advances the simulation using a monotonic host timestamp in seconds.
// Elapsed time beyond the configured clamp is discarded, so a long stall
// produces one bounded step instead of a catastrophic jump.
func (e *Engine) Tick(now float64) {
	if !e.started {
		e.started = true
		e.lastNow = now
	}

	elapsed := now - e.lastNow
	e.lastNow = now

	if elapsed > e.cfg.Sim.MaxFrameDT {
		elapsed = e.cfg.Sim.MaxFrameDT
	}
	if elapsed <= 0 {
		return
	}
	e.Step(float32(elapsed))
}

// Step advances the simulation by a fixed dt in seconds. Headless runs and
// tests call it directly; Tick wraps it with the elapsed-time clamp.
func (e *Engine) Step(dt float32) {
	if dt <= 0 {
		return
	}

	e.perf.StartPhase(telemetry.PhaseSpawn)
	e.updateSpawns(dt)

	e.perf.StartPhase(telemetry.PhaseAdvance)
	e.advanceSparks(dt)

	e.perf.StartPhase(telemetry.PhaseSpatialGrid)
	e.rebuildGrid()

	e.perf.StartPhase(telemetry.PhaseInteractions)
	e.resolveInteractions(dt)

	e.perf.StartPhase(telemetry.PhaseFlows)
	e.updateFlows(dt)

	e.perf.StartPhase(telemetry.PhaseTelemetry)
	e.simTime += float64(dt)
	e.frame++
	e.flushTelemetry()
}

// Resize recomputes the population target for a new viewport and rebuilds
// the grid bounds. Live sparks are never culled by a shrink; a lower target
// only gates future spawning, and out-of-bounds positions wrap back in on
// the next advance. Must be called between frames.
func (e *Engine) Resize(width, height int, dpr float64) {
	e.width = float32(width)
	e.height = float32(height)

	if dpr < 1 {
		dpr = 1
	}
	if dpr > e.cfg.Screen.MaxDPR {
		dpr = e.cfg.Screen.MaxDPR
	}
	e.dpr = float32(dpr)

	e.grid.Resize(e.width, e.height)
	e.popTarget = e.computePopTarget()

	slog.Info("viewport_resized",
		"width", width,
		"height", height,
		"dpr", dpr,
		"population_target", e.popTarget,
	)
}

// computePopTarget derives the spawn-target population from viewport area
// relative to the 1920x1080 reference, scaled by the capability hint and
// clamped to the configured band.
func (e *Engine) computePopTarget() int {
	base := float64(e.cfg.Population.DesktopCount)
	if e.caps.LowPower {
		base = float64(e.cfg.Population.MobileCount)
	}

	hint := e.caps.DensityHint
	if hint <= 0 {
		hint = 1
	}

	area := float64(e.width) * float64(e.height)
	target := int(math.Round(base * area / (refWidth * refHeight) * hint))

	if target < e.cfg.Population.MinCount {
		target = e.cfg.Population.MinCount
	}
	if target > e.cfg.Population.MaxCount {
		target = e.cfg.Population.MaxCount
	}
	return target
}

// flushTelemetry emits window stats once a full stats window of sim time
// has passed, sampling the live population for distribution stats.
func (e *Engine) flushTelemetry() {
	if !e.collector.ShouldFlush(e.simTime) {
		return
	}

	energies := e.statEnergies[:0]
	polarities := e.statPolarities[:0]
	query := e.sparkFilter.Query()
	for query.Next() {
		_, _, _, en, _, sp := query.Get()
		energies = append(energies, float64(en.Value))
		polarities = append(polarities, float64(sp.Polarity))
	}
	e.statEnergies = energies
	e.statPolarities = polarities

	strengths := e.statStrengths[:0]
	for _, conn := range e.connections {
		strengths = append(strengths, float64(conn.strength))
	}
	e.statStrengths = strengths

	stats := e.collector.Flush(e.simTime,
		e.aliveCount, len(e.connections), e.flows.Count(),
		energies, polarities, strengths)
	stats.LogStats()

	if e.statsHook != nil {
		e.statsHook(stats)
	}

	if err := e.output.WriteTelemetry(stats); err != nil {
		slog.Warn("telemetry_write_failed", "error", err)
	}

	perfStats := e.perf.Stats()
	perfStats.LogStats()
	if err := e.output.WritePerf(perfStats, e.simTime); err != nil {
		slog.Warn("perf_write_failed", "error", err)
	}
}

// Perf exposes the frame-timing collector so the host loop can bracket
// whole frames (StartFrame/EndFrame) around Step and Snapshot.
func (e *Engine) Perf() *telemetry.PerfCollector {
	return e.perf
}

// SetStatsHook registers fn to receive each flushed stats window. Headless
// tools use this to score runs without going through CSV output.
func (e *Engine) SetStatsHook(fn func(telemetry.WindowStats)) {
	e.statsHook = fn
}

// PopulationTarget returns the current spawn-target population.
func (e *Engine) PopulationTarget() int {
	return e.popTarget
}

// SimTime returns the accumulated simulation time in seconds.
func (e *Engine) SimTime() float64 {
	return e.simTime
}
