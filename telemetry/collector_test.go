package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindowFlush(t *testing.T) {
	c := NewCollector(5.0)

	if c.ShouldFlush(0) {
		t.Error("fresh collector should not flush at sim time 0")
	}
	if c.ShouldFlush(4.99) {
		t.Error("should not flush before a full window elapsed")
	}
	if !c.ShouldFlush(5.0) {
		t.Error("should flush once a full window elapsed")
	}

	c.RecordSpawn()
	c.RecordSpawn()
	c.RecordDeath()
	c.RecordPairResolved()
	c.RecordPairResolved()
	c.RecordPairResolved()
	c.RecordCapHit()
	c.RecordTransfer(0.05)
	c.RecordTransfer(0.10)
	c.RecordFlowSpawned()
	c.RecordConnectionFormed()
	c.RecordConnectionDropped()

	stats := c.Flush(5.0, 140, 32, 8, nil, nil, nil)

	if stats.WindowStart != 0 {
		t.Errorf("WindowStart = %v, want 0", stats.WindowStart)
	}
	if stats.SimTime != 5.0 {
		t.Errorf("SimTime = %v, want 5.0", stats.SimTime)
	}
	if stats.Sparks != 140 || stats.Connections != 32 || stats.Flows != 8 {
		t.Errorf("population counts = %d/%d/%d, want 140/32/8",
			stats.Sparks, stats.Connections, stats.Flows)
	}
	if stats.Spawns != 2 {
		t.Errorf("Spawns = %d, want 2", stats.Spawns)
	}
	if stats.Deaths != 1 {
		t.Errorf("Deaths = %d, want 1", stats.Deaths)
	}
	if stats.PairsResolved != 3 {
		t.Errorf("PairsResolved = %d, want 3", stats.PairsResolved)
	}
	if stats.CapHits != 1 {
		t.Errorf("CapHits = %d, want 1", stats.CapHits)
	}
	if stats.Transfers != 2 {
		t.Errorf("Transfers = %d, want 2", stats.Transfers)
	}
	if math.Abs(stats.EnergyMoved-0.15) > 1e-9 {
		t.Errorf("EnergyMoved = %v, want 0.15", stats.EnergyMoved)
	}
	if stats.FlowsSpawned != 1 || stats.ConnectionsFormed != 1 || stats.ConnectionsDropped != 1 {
		t.Errorf("flow/conn events = %d/%d/%d, want 1/1/1",
			stats.FlowsSpawned, stats.ConnectionsFormed, stats.ConnectionsDropped)
	}
}

func TestCollectorResetsAfterFlush(t *testing.T) {
	c := NewCollector(5.0)

	c.RecordSpawn()
	c.RecordTransfer(0.5)
	c.Flush(5.0, 10, 0, 0, nil, nil, nil)

	// Counters start over; the window start advances to the flush time.
	if c.ShouldFlush(9.99) {
		t.Error("should not flush again before the next full window")
	}
	if !c.ShouldFlush(10.0) {
		t.Error("should flush at the next window boundary")
	}

	stats := c.Flush(10.0, 10, 0, 0, nil, nil, nil)
	if stats.Spawns != 0 || stats.Transfers != 0 || stats.EnergyMoved != 0 {
		t.Errorf("counters survived flush: spawns=%d transfers=%d moved=%v",
			stats.Spawns, stats.Transfers, stats.EnergyMoved)
	}
	if stats.WindowStart != 5.0 {
		t.Errorf("WindowStart = %v, want 5.0", stats.WindowStart)
	}
}

func TestCollectorDistributions(t *testing.T) {
	c := NewCollector(5.0)

	energies := []float64{0.4, 0.5, 0.6}
	polarities := []float64{0.2, 0.8}
	strengths := []float64{0.1, 0.9}

	stats := c.Flush(5.0, 3, 2, 0, energies, polarities, strengths)

	if math.Abs(stats.EnergyMean-0.5) > 0.001 {
		t.Errorf("EnergyMean = %v, want 0.5", stats.EnergyMean)
	}
	if math.Abs(stats.PolarityMean-0.5) > 0.001 {
		t.Errorf("PolarityMean = %v, want 0.5", stats.PolarityMean)
	}
	if math.Abs(stats.StrengthMean-0.5) > 0.001 {
		t.Errorf("StrengthMean = %v, want 0.5", stats.StrengthMean)
	}
	if stats.StrengthP90 < stats.StrengthMean {
		t.Errorf("StrengthP90 = %v should be >= mean %v", stats.StrengthP90, stats.StrengthMean)
	}
}

func TestCollectorDefaultWindow(t *testing.T) {
	c := NewCollector(0)
	if c.WindowSec() != 5 {
		t.Errorf("WindowSec = %v, want default 5", c.WindowSec())
	}

	c = NewCollector(-3)
	if c.WindowSec() != 5 {
		t.Errorf("WindowSec = %v, want default 5 for negative input", c.WindowSec())
	}
}
