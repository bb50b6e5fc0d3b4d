package systems

import (
	"github.com/emberfield/sparks/components"
)

// FlowParticle is a short-lived token tracing one energy transfer from
// giver to receiver. It holds spark IDs, not positions: the path tracks
// the live endpoints each frame.
type FlowParticle struct {
	GiverID    uint32
	ReceiverID uint32
	Progress   float32 // 0 at the giver, 1 at the receiver
	Size       float32
	Tint       components.Tint
}

// Alpha fades linearly with remaining travel.
func (p *FlowParticle) Alpha() float32 {
	return clamp01(1 - p.Progress)
}

// EndpointLookup resolves a spark ID to its current position. ok is false
// once the spark has been culled.
type EndpointLookup func(id uint32) (x, y float32, ok bool)

// FlowSystem manages the transfer-particle population. Spawning is gated
// by a hard cap; particles whose endpoints die are retired here rather
// than left to dangle.
type FlowSystem struct {
	Particles    []FlowParticle
	maxParticles int
	speed        float32 // base traversal speed in viewport units/s
}

// NewFlowSystem creates a flow system with the given population cap and
// base speed.
func NewFlowSystem(maxParticles int, speed float32) *FlowSystem {
	if maxParticles < 0 {
		maxParticles = 0
	}
	return &FlowSystem{
		Particles:    make([]FlowParticle, 0, maxParticles),
		maxParticles: maxParticles,
		speed:        speed,
	}
}

// Spawn adds a particle at the giver end of a transfer. Returns false
// when the population is at its cap.
func (s *FlowSystem) Spawn(giverID, receiverID uint32, tint components.Tint, size float32) bool {
	if len(s.Particles) >= s.maxParticles {
		return false
	}
	s.Particles = append(s.Particles, FlowParticle{
		GiverID:    giverID,
		ReceiverID: receiverID,
		Size:       size,
		Tint:       tint,
	})
	return true
}

// Update advances all particles by dt. Progress speed is inversely
// proportional to the live endpoint distance (floored at 1), so a trip
// takes roughly constant wall time regardless of length. Particles are
// removed when progress reaches 1 or either endpoint has died.
func (s *FlowSystem) Update(dt float32, lookup EndpointLookup) {
	alive := 0
	for i := range s.Particles {
		p := &s.Particles[i]

		gx, gy, ok := lookup(p.GiverID)
		if !ok {
			continue
		}
		rx, ry, ok := lookup(p.ReceiverID)
		if !ok {
			continue
		}

		dx := rx - gx
		dy := ry - gy
		dist := fastSqrt(dx*dx + dy*dy)
		if dist < 1 {
			dist = 1
		}

		p.Progress += s.speed / dist * dt
		if p.Progress >= 1 {
			continue
		}

		s.Particles[alive] = s.Particles[i]
		alive++
	}
	s.Particles = s.Particles[:alive]
}

// PurgeEndpoints retires every particle referencing one of the given spark
// IDs. The engine calls it in the same pass that culls the sparks, so a
// dead endpoint never survives into the next snapshot.
func (s *FlowSystem) PurgeEndpoints(dead []uint32) {
	if len(dead) == 0 || len(s.Particles) == 0 {
		return
	}
	isDead := func(id uint32) bool {
		for _, d := range dead {
			if d == id {
				return true
			}
		}
		return false
	}

	alive := 0
	for i := range s.Particles {
		if isDead(s.Particles[i].GiverID) || isDead(s.Particles[i].ReceiverID) {
			continue
		}
		s.Particles[alive] = s.Particles[i]
		alive++
	}
	s.Particles = s.Particles[:alive]
}

// Count returns the current number of live particles.
func (s *FlowSystem) Count() int {
	return len(s.Particles)
}

// AtCap reports whether spawning is currently blocked by the cap.
func (s *FlowSystem) AtCap() bool {
	return len(s.Particles) >= s.maxParticles
}
