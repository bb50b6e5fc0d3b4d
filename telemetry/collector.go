package telemetry

// Collector accumulates simulation events within sim-time windows and
// produces WindowStats. The engine drives it; nothing here is goroutine-safe.
type Collector struct {
	windowSec   float64
	windowStart float64

	// Event counters for current window
	spawns             int
	deaths             int
	pairsResolved      int
	capHits            int
	transfers          int
	energyMoved        float64
	flowsSpawned       int
	connectionsFormed  int
	connectionsDropped int
}

// NewCollector creates a stats collector that flushes every windowSec
// seconds of simulated time.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 5
	}
	return &Collector{windowSec: windowSec}
}

// RecordSpawn records a spark spawn.
func (c *Collector) RecordSpawn() {
	c.spawns++
}

// RecordDeath records a spark death.
func (c *Collector) RecordDeath() {
	c.deaths++
}

// RecordPairResolved records one resolved interaction pair.
func (c *Collector) RecordPairResolved() {
	c.pairsResolved++
}

// RecordCapHit records a frame whose interaction budget ran out.
func (c *Collector) RecordCapHit() {
	c.capHits++
}

// RecordTransfer records one energy transfer and the amount moved.
func (c *Collector) RecordTransfer(moved float64) {
	c.transfers++
	c.energyMoved += moved
}

// RecordFlowSpawned records a flow-particle spawn.
func (c *Collector) RecordFlowSpawned() {
	c.flowsSpawned++
}

// RecordConnectionFormed records a new ledger entry.
func (c *Collector) RecordConnectionFormed() {
	c.connectionsFormed++
}

// RecordConnectionDropped records a ledger entry removed by decay or
// endpoint death.
func (c *Collector) RecordConnectionDropped() {
	c.connectionsDropped++
}

// ShouldFlush returns true once a full window of simulated time has passed.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStart >= c.windowSec
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller supplies current population counts plus the per-spark energy
// and polarity samples and per-connection strength samples for
// distribution stats.
func (c *Collector) Flush(
	simTime float64,
	sparkCount, connectionCount, flowCount int,
	energies, polarities, strengths []float64,
) WindowStats {
	energyMean, energyStd, energyP10, energyP50, energyP90 := Distribution(energies)
	polarityMean, polarityStd, _, _, _ := Distribution(polarities)
	strengthMean, _, _, _, strengthP90 := Distribution(strengths)

	stats := WindowStats{
		WindowStart: c.windowStart,
		SimTime:     simTime,

		Sparks:      sparkCount,
		Connections: connectionCount,
		Flows:       flowCount,

		Spawns:             c.spawns,
		Deaths:             c.deaths,
		PairsResolved:      c.pairsResolved,
		CapHits:            c.capHits,
		Transfers:          c.transfers,
		EnergyMoved:        c.energyMoved,
		FlowsSpawned:       c.flowsSpawned,
		ConnectionsFormed:  c.connectionsFormed,
		ConnectionsDropped: c.connectionsDropped,

		EnergyMean: energyMean,
		EnergyStd:  energyStd,
		EnergyP10:  energyP10,
		EnergyP50:  energyP50,
		EnergyP90:  energyP90,

		PolarityMean: polarityMean,
		PolarityStd:  polarityStd,

		StrengthMean: strengthMean,
		StrengthP90:  strengthP90,
	}

	// Reset for next window
	c.windowStart = simTime
	c.spawns = 0
	c.deaths = 0
	c.pairsResolved = 0
	c.capHits = 0
	c.transfers = 0
	c.energyMoved = 0
	c.flowsSpawned = 0
	c.connectionsFormed = 0
	c.connectionsDropped = 0

	return stats
}

// WindowSec returns the configured window duration.
func (c *Collector) WindowSec() float64 {
	return c.windowSec
}
