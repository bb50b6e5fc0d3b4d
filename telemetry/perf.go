package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the per-frame simulation pass.
const (
	PhaseSpawn        = "spawn"
	PhaseAdvance      = "advance"
	PhaseSpatialGrid  = "spatial_grid"
	PhaseInteractions = "interactions"
	PhaseFlows        = "flows"
	PhaseSnapshot     = "snapshot"
	PhaseTelemetry    = "telemetry"
)

// PerfSample holds timing data for a single frame pass.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks frame timing over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a performance collector averaging over
// windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame pass.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, closing the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated frame-timing statistics.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total frame time
	PhasePct map[string]float64

	FramesPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var totalFrame time.Duration
	var minFrame, maxFrame time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalFrame += s.FrameDuration

		if i == 0 || s.FrameDuration < minFrame {
			minFrame = s.FrameDuration
		}
		if s.FrameDuration > maxFrame {
			maxFrame = s.FrameDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgFrame := totalFrame / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgFrame > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgFrame) * 100
		}
	}

	var fps float64
	if avgFrame > 0 {
		fps = float64(time.Second) / float64(avgFrame)
	}

	return PerfStats{
		AvgFrameDuration: avgFrame,
		MinFrameDuration: minFrame,
		MaxFrameDuration: maxFrame,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		FramesPerSecond:  fps,
	}
}

// LogStats logs frame-timing statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameDuration.Microseconds(),
		"min_frame_us", s.MinFrameDuration.Microseconds(),
		"max_frame_us", s.MaxFrameDuration.Microseconds(),
		"fps", int(s.FramesPerSecond),
	}

	phases := []string{
		PhaseSpawn, PhaseAdvance, PhaseSpatialGrid,
		PhaseInteractions, PhaseFlows, PhaseSnapshot, PhaseTelemetry,
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of frame-timing stats.
type PerfStatsCSV struct {
	SimTime         float64 `csv:"sim_time"`
	AvgFrameUS      int64   `csv:"avg_frame_us"`
	MinFrameUS      int64   `csv:"min_frame_us"`
	MaxFrameUS      int64   `csv:"max_frame_us"`
	FPS             float64 `csv:"fps"`
	SpawnPct        float64 `csv:"spawn_pct"`
	AdvancePct      float64 `csv:"advance_pct"`
	SpatialGridPct  float64 `csv:"spatial_grid_pct"`
	InteractionsPct float64 `csv:"interactions_pct"`
	FlowsPct        float64 `csv:"flows_pct"`
	SnapshotPct     float64 `csv:"snapshot_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly record stamped with the
// sim time at window end.
func (s PerfStats) ToCSV(simTime float64) PerfStatsCSV {
	return PerfStatsCSV{
		SimTime:         simTime,
		AvgFrameUS:      s.AvgFrameDuration.Microseconds(),
		MinFrameUS:      s.MinFrameDuration.Microseconds(),
		MaxFrameUS:      s.MaxFrameDuration.Microseconds(),
		FPS:             s.FramesPerSecond,
		SpawnPct:        s.PhasePct[PhaseSpawn],
		AdvancePct:      s.PhasePct[PhaseAdvance],
		SpatialGridPct:  s.PhasePct[PhaseSpatialGrid],
		InteractionsPct: s.PhasePct[PhaseInteractions],
		FlowsPct:        s.PhasePct[PhaseFlows],
		SnapshotPct:     s.PhasePct[PhaseSnapshot],
		TelemetryPct:    s.PhasePct[PhaseTelemetry],
	}
}
