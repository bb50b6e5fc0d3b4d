package engine

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/emberfield/sparks/systems"
)

// sparkRef is a flat per-frame view of one live spark, collected in
// population order alongside the grid rebuild so the pair loop never
// touches the ECS query mid-iteration.
type sparkRef struct {
	entity   ecs.Entity
	id       uint32
	x, y     float32
	polarity float32
}

// connection is one ledger entry: a smoothed interaction strength for an
// unordered spark pair, persisted across frames to avoid flicker.
type connection struct {
	a, b     ecs.Entity
	aID, bID uint32
	strength float32

	// Frame stamp of the last resolution; unstamped entries decay.
	lastActive uint64
}

// rebuildGrid clears and refills the spatial index and the flat ref list
// in a single query pass.
func (e *Engine) rebuildGrid() {
	e.grid.Clear()
	e.refs = e.refs[:0]

	query := e.sparkFilter.Query()
	for query.Next() {
		pos, _, _, _, _, sp := query.Get()
		if !sp.Alive {
			continue
		}
		e.grid.Insert(int32(len(e.refs)), pos.X, pos.Y)
		e.refs = append(e.refs, sparkRef{
			entity:   query.Entity(),
			id:       sp.ID,
			x:        pos.X,
			y:        pos.Y,
			polarity: sp.Polarity,
		})
	}
}

// resolveInteractions walks every in-radius spark pair once, updates the
// connection ledger, and applies energy, color, and flow effects for pairs
// above the activation threshold. Pairs beyond the per-frame cap are
// deferred; their entries decay via the inactive path below.
func (e *Engine) resolveInteractions(dt float32) {
	cfg := e.cfg
	radius := float32(cfg.Interaction.Radius)
	maxPairs := cfg.Interaction.MaxPerFrame
	activation := float32(cfg.Interaction.ActivationThreshold)
	connRate := float32(cfg.Interaction.ConnectionRatePerSec)
	connDecay := float32(cfg.Interaction.ConnectionDecayPerSec)
	colorRate := float32(cfg.Interaction.ColorRatePerSec)
	transferRate := float32(cfg.Energy.TransferRatePerSec)
	floor := float32(cfg.Energy.Floor)
	flowRate := float32(cfg.Flow.SpawnRate)
	flowVisibility := float32(cfg.Flow.VisibilityThreshold)

	resolved := 0

sweep:
	for i := range e.refs {
		a := &e.refs[i]

		// Neighbors with index > i only, so each unordered pair is
		// resolved exactly once per frame.
		e.neighbors = e.grid.AppendNeighbors(e.neighbors[:0], a.x, a.y, radius, int32(i))

		for _, n := range e.neighbors {
			// Coincident sparks have no transfer direction; they do
			// not count against the cap.
			if n.DistSq <= 0 {
				continue
			}
			if resolved >= maxPairs {
				e.collector.RecordCapHit()
				break sweep
			}
			resolved++
			e.collector.RecordPairResolved()

			b := &e.refs[n.Index]
			dist := float32(math.Sqrt(float64(n.DistSq)))

			key := systems.PairKey(a.id, b.id)
			conn, ok := e.connections[key]
			if !ok {
				conn = &connection{a: a.entity, b: b.entity, aID: a.id, bID: b.id}
				e.connections[key] = conn
				e.collector.RecordConnectionFormed()
			}

			target := systems.ClosenessWeight(dist, radius)
			conn.strength = systems.ApproachStrength(conn.strength, target, connRate, dt)
			conn.lastActive = e.frame

			if conn.strength <= activation {
				continue
			}

			// The strictly greater polarity gives; on a tie the
			// second spark of the pair gives.
			giver, receiver := b, a
			if a.polarity > b.polarity {
				giver, receiver = a, b
			}

			gEnergy := e.energyMap.Get(giver.entity)
			rEnergy := e.energyMap.Get(receiver.entity)
			if gEnergy == nil || rEnergy == nil {
				continue
			}
			moved := systems.TransferEnergy(gEnergy, rEnergy, conn.strength, transferRate, floor, dt)
			if moved > 0 {
				e.collector.RecordTransfer(float64(moved))
			}

			gTint := e.tintMap.Get(giver.entity)
			rTint := e.tintMap.Get(receiver.entity)
			if gTint == nil || rTint == nil {
				continue
			}
			systems.ExchangeColor(gTint, rTint, systems.ColorStep(conn.strength, colorRate, dt))

			// Flow particles ride strong connections, budget permitting.
			if conn.strength > flowVisibility && !e.flows.AtCap() {
				p := conn.strength * flowRate * dt * 60
				if e.rng.Float32() < p {
					tint := systems.MixTint(*gTint, *rTint, 0.3)
					size := 1.2 + e.rng.Float32()*1.3
					if e.flows.Spawn(giver.id, receiver.id, tint, size) {
						e.collector.RecordFlowSpawned()
					}
				}
			}
		}
	}

	// Entries not stamped this frame fade out; empty ones leave the ledger.
	for key, conn := range e.connections {
		if conn.lastActive == e.frame {
			continue
		}
		conn.strength = systems.DecayStrength(conn.strength, connDecay, dt)
		if conn.strength <= 0 {
			delete(e.connections, key)
			e.collector.RecordConnectionDropped()
		}
	}
}

// updateFlows advances flow particles against live endpoint positions.
func (e *Engine) updateFlows(dt float32) {
	e.flows.Update(dt, e.sparkPosition)
}

// sparkPosition reports the live position of a spark by ID. Used as the
// flow system's endpoint lookup; a missing ID retires the particle.
func (e *Engine) sparkPosition(id uint32) (float32, float32, bool) {
	entity, ok := e.byID[id]
	if !ok {
		return 0, 0, false
	}
	pos := e.posMap.Get(entity)
	if pos == nil {
		return 0, 0, false
	}
	return pos.X, pos.Y, true
}
