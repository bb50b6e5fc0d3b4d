// Package components defines ECS components for the simulation.
package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Velocity represents an entity's velocity in units per second.
type Velocity struct {
	X, Y float32
}

// Body holds a spark's physical draw size. The renderer derives the glow
// halo and connection endpoints from it.
type Body struct {
	Radius float32
}

// Energy holds a spark's transferable charge and the feedback ring
// brightness left behind by recent transfers.
type Energy struct {
	Value     float32 // 0..1, decays over time, moved between sparks by transfers
	RingAlpha float32 // 0..1, lit by active connections, decays per frame
}

// Tint is a spark's display color on a 0-255 scale per channel.
// Channels stay float32 so color mixing can move in sub-unit steps.
type Tint struct {
	R, G, B float32
}

// Spark holds per-spark identity and lifecycle state.
type Spark struct {
	ID       uint32  // stable identity for pair keys and telemetry
	Seed     float32 // fixed per-spark phase offset for drift, in [0,1)
	Polarity float32 // 0..1 net output, >0.5 tends to give energy
	Age      float32 // seconds alive
	Lifetime float32 // seconds until natural death
	Fade     float32 // 0..1 composite fade-in/fade-out factor, updated each frame
	Alive    bool
}

// Remaining returns the seconds left before natural death.
func (s *Spark) Remaining() float32 {
	r := s.Lifetime - s.Age
	if r < 0 {
		return 0
	}
	return r
}

// Expired reports whether the spark has outlived its lifetime.
func (s *Spark) Expired() bool {
	return s.Age >= s.Lifetime
}

// Capabilities describes the host platform as reported at startup.
// The engine reads it once to choose population targets and flow caps.
type Capabilities struct {
	LowPower    bool    // mobile-class host: smaller population, fewer flow particles
	DensityHint float64 // extra scale on the population target, 1.0 = neutral
}
