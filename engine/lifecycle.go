package engine

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mlange-42/ark/ecs"

	"github.com/emberfield/sparks/components"
	"github.com/emberfield/sparks/systems"
)

// updateSpawns accumulates the spawn budget and spawns whole sparks while
// it holds at least one. The budget drains even when the population is at
// its target, so a shrunken viewport does not bank a spawn burst.
func (e *Engine) updateSpawns(dt float32) {
	e.spawnBudget += float32(e.cfg.Population.SpawnRatePerSec) * dt
	for e.spawnBudget >= 1 {
		e.spawnBudget--
		if e.aliveCount >= e.popTarget {
			continue
		}
		e.spawnSpark()
	}
}

// spawnSpark creates one spark at a random padded position with a fresh
// polarity drawn from the network.
func (e *Engine) spawnSpark() ecs.Entity {
	pad := float32(e.cfg.Spark.SpawnPadding)
	x := paddedCoord(e.rng, pad, e.width)
	y := paddedCoord(e.rng, pad, e.height)
	seed := e.rng.Float32()

	nx := x/e.width*2 - 1
	ny := y/e.height*2 - 1
	polarity := e.polarity.Evaluate(nx, ny, 0, seed*2-1)

	return e.spawnSparkAt(x, y, seed, polarity)
}

// spawnSparkAt creates one spark with fixed position, drift seed, and
// polarity. Radius, lifetime, velocity, energy, and tint are drawn from the
// configured ranges.
func (e *Engine) spawnSparkAt(x, y, seed, polarity float32) ecs.Entity {
	cfg := e.cfg

	id := e.nextID
	e.nextID++

	pos := components.Position{X: x, Y: y}

	// Gentle random push; drift takes over within a second or two.
	angle := e.rng.Float64() * 2 * math.Pi
	speed := e.rng.Float32() * 0.25 * float32(cfg.Motion.MaxSpeed)
	vel := components.Velocity{
		X: speed * float32(math.Cos(angle)),
		Y: speed * float32(math.Sin(angle)),
	}

	body := components.Body{Radius: rangeF32(e.rng, cfg.Spark.RadiusMin, cfg.Spark.RadiusMax)}

	energy := components.Energy{Value: 0.5 + e.rng.Float32()*0.5}

	hue := cfg.Spark.PaletteHueMin + e.rng.Float64()*(cfg.Spark.PaletteHueMax-cfg.Spark.PaletteHueMin)
	c := colorful.Hsv(hue, cfg.Spark.PaletteSaturation, cfg.Spark.PaletteValue)
	tint := components.Tint{
		R: float32(c.R * 255),
		G: float32(c.G * 255),
		B: float32(c.B * 255),
	}

	spark := components.Spark{
		ID:       id,
		Seed:     seed,
		Polarity: polarity,
		Lifetime: rangeF32(e.rng, cfg.Spark.LifetimeMin, cfg.Spark.LifetimeMax),
		Alive:    true,
	}

	entity := e.sparkMapper.NewEntity(&pos, &vel, &body, &energy, &tint, &spark)
	e.byID[id] = entity
	e.aliveCount++
	e.collector.RecordSpawn()

	return entity
}

// advanceSparks runs the per-spark advance pass and culls sparks whose age
// exceeded their lifetime. Removal happens after the query completes;
// connections and flow particles referencing the culled are purged in the
// same pass.
func (e *Engine) advanceSparks(dt float32) {
	cfg := e.cfg
	params := systems.MotionParams{
		MaxSpeed:      float32(cfg.Motion.MaxSpeed),
		DriftStrength: float32(cfg.Motion.DriftStrength),
		Damping:       float32(cfg.Motion.Damping),
		DecayPerSec:   float32(cfg.Energy.DecayPerSec),
		EnergyMin:     float32(cfg.Derived.HalfFloor),
		RingDecay:     float32(cfg.Render.RingDecay),
		Width:         e.width,
		Height:        e.height,
	}
	simT := float32(e.simTime)

	type deadSpark struct {
		entity ecs.Entity
		id     uint32
	}
	var toRemove []deadSpark

	query := e.sparkFilter.Query()
	for query.Next() {
		pos, vel, _, en, _, sp := query.Get()
		if !systems.AdvanceSpark(sp, pos, vel, en, params, simT, dt) {
			toRemove = append(toRemove, deadSpark{entity: query.Entity(), id: sp.ID})
		}
	}

	if len(toRemove) == 0 {
		return
	}

	e.deadIDs = e.deadIDs[:0]
	for _, dead := range toRemove {
		e.deadIDs = append(e.deadIDs, dead.id)
		e.removeSpark(dead.entity, dead.id)
	}
	e.flows.PurgeEndpoints(e.deadIDs)
}

// removeSpark deletes one spark and every ledger entry referencing it.
func (e *Engine) removeSpark(entity ecs.Entity, id uint32) {
	for key, conn := range e.connections {
		if conn.aID == id || conn.bID == id {
			delete(e.connections, key)
			e.collector.RecordConnectionDropped()
		}
	}

	delete(e.byID, id)
	e.world.RemoveEntity(entity)
	e.aliveCount--
	e.collector.RecordDeath()
}

// paddedCoord draws a coordinate inside the viewport inset by pad on both
// sides, falling back to the center when the viewport is narrower than the
// padding allows.
func paddedCoord(rng *rand.Rand, pad, extent float32) float32 {
	span := extent - 2*pad
	if span < 1 {
		return extent * 0.5
	}
	return pad + rng.Float32()*span
}

// rangeF32 draws uniformly from [min, max].
func rangeF32(rng *rand.Rand, min, max float64) float32 {
	return float32(min + rng.Float64()*(max-min))
}
