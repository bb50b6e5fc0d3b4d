// Package renderer draws engine snapshots with raylib. It holds no
// simulation state: every frame it consumes one read-only snapshot.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/emberfield/sparks/config"
	"github.com/emberfield/sparks/engine"
)

// GlowRenderer draws one snapshot as an additive glow field: connection
// lines, spark glows and cores, transfer rings, and flow dots, over the
// ambient background wash.
type GlowRenderer struct {
	background *BackgroundRenderer

	glowMultiplier float32
	lineAlphaMax   float32
}

// NewGlowRenderer creates the full render pass for a run.
func NewGlowRenderer(cfg *config.Config, seed int64) *GlowRenderer {
	return &GlowRenderer{
		background:     NewBackgroundRenderer(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, seed),
		glowMultiplier: float32(cfg.Render.GlowMultiplier),
		lineAlphaMax:   float32(cfg.Render.LineAlphaMax),
	}
}

// Draw renders a full frame from the snapshot. simTime drives the
// background drift; the snapshot is never mutated.
func (r *GlowRenderer) Draw(snap *engine.Snapshot, simTime float32) {
	r.background.Resize(snap.Width, snap.Height)
	r.background.Draw(simTime)

	rl.BeginBlendMode(rl.BlendAdditive)

	// Connection lines go under the sparks. Weight tracks strength; the
	// DPR scale keeps hairlines visible on dense displays.
	for i := range snap.Connections {
		c := &snap.Connections[i]
		alpha := c.Strength * r.lineAlphaMax * c.Fade
		if alpha <= 0.002 {
			continue
		}
		col := rl.Color{
			R: uint8((uint16(c.R1) + uint16(c.R2)) / 2),
			G: uint8((uint16(c.G1) + uint16(c.G2)) / 2),
			B: uint8((uint16(c.B1) + uint16(c.B2)) / 2),
			A: alphaByte(alpha),
		}
		rl.DrawLineEx(
			rl.Vector2{X: c.X1, Y: c.Y1},
			rl.Vector2{X: c.X2, Y: c.Y2},
			(0.5+c.Strength*1.5)*snap.DPR,
			col,
		)
	}

	// Glow halos, then solid cores on top.
	for i := range snap.Sparks {
		s := &snap.Sparks[i]
		inner := rl.Color{R: s.R, G: s.G, B: s.B, A: alphaByte(s.Alpha * 0.35)}
		outer := rl.Color{R: s.R, G: s.G, B: s.B, A: 0}
		rl.DrawCircleGradient(int32(s.X), int32(s.Y), s.Radius*r.glowMultiplier, inner, outer)
	}
	for i := range snap.Sparks {
		s := &snap.Sparks[i]
		col := rl.Color{R: s.R, G: s.G, B: s.B, A: alphaByte(s.Alpha)}
		rl.DrawCircleV(rl.Vector2{X: s.X, Y: s.Y}, s.Radius, col)
	}

	// Transfer rings expand as they fade.
	for i := range snap.Sparks {
		s := &snap.Sparks[i]
		if s.RingAlpha <= 0.01 {
			continue
		}
		ringR := s.Radius * (1.6 + (1-s.RingAlpha)*1.8)
		col := rl.Color{R: s.R, G: s.G, B: s.B, A: alphaByte(s.RingAlpha * 0.6)}
		rl.DrawRing(rl.Vector2{X: s.X, Y: s.Y}, ringR, ringR+1.5*snap.DPR, 0, 360, 32, col)
	}

	for i := range snap.Flows {
		f := &snap.Flows[i]
		col := rl.Color{R: f.R, G: f.G, B: f.B, A: alphaByte(f.Alpha * 0.9)}
		rl.DrawCircleV(rl.Vector2{X: f.X, Y: f.Y}, f.Size, col)
	}

	rl.EndBlendMode()
}

// Unload frees GPU resources.
func (r *GlowRenderer) Unload() {
	r.background.Unload()
}

func alphaByte(a float32) uint8 {
	if a <= 0 {
		return 0
	}
	if a >= 1 {
		return 255
	}
	return uint8(a * 255)
}
