package engine

import (
	"math"

	"github.com/emberfield/sparks/systems"
)

// SparkView is the render view of one live spark. Radius and Alpha are the
// energy-weighted draw values, not the raw component fields.
type SparkView struct {
	X, Y      float32
	Radius    float32
	Alpha     float32
	RingAlpha float32
	R, G, B   uint8
}

// ConnectionView is the render view of one ledger entry: live endpoint
// positions and colors, the smoothed strength, and a fade combining the
// distance falloff with both endpoints' fade envelopes.
type ConnectionView struct {
	X1, Y1, X2, Y2 float32
	Strength       float32
	Fade           float32
	R1, G1, B1     uint8
	R2, G2, B2     uint8
}

// FlowView is the render view of one flow particle at its interpolated
// position between live endpoints.
type FlowView struct {
	X, Y    float32
	Alpha   float32
	Size    float32
	R, G, B uint8
}

// Snapshot is the read-only world view handed to the renderer each frame.
// The engine fills the caller's slices in place so a host can reuse one
// Snapshot across frames without reallocating.
type Snapshot struct {
	Width, Height float32
	DPR           float32

	Sparks      []SparkView
	Connections []ConnectionView
	Flows       []FlowView
}

// Snapshot fills s with the current world state. The renderer is a pure
// consumer: nothing here mutates simulation state.
func (e *Engine) Snapshot(s *Snapshot) {
	s.Width = e.width
	s.Height = e.height
	s.DPR = e.dpr

	s.Sparks = s.Sparks[:0]
	query := e.sparkFilter.Query()
	for query.Next() {
		pos, _, body, en, tint, sp := query.Get()
		s.Sparks = append(s.Sparks, SparkView{
			X:         pos.X,
			Y:         pos.Y,
			Radius:    systems.ViewRadius(body, en),
			Alpha:     systems.ViewAlpha(sp, en),
			RingAlpha: en.RingAlpha,
			R:         colorByte(tint.R),
			G:         colorByte(tint.G),
			B:         colorByte(tint.B),
		})
	}

	radius := float32(e.cfg.Interaction.Radius)
	s.Connections = s.Connections[:0]
	for _, conn := range e.connections {
		aPos := e.posMap.Get(conn.a)
		bPos := e.posMap.Get(conn.b)
		aTint := e.tintMap.Get(conn.a)
		bTint := e.tintMap.Get(conn.b)
		aSpark := e.sparkMap.Get(conn.a)
		bSpark := e.sparkMap.Get(conn.b)
		if aPos == nil || bPos == nil || aTint == nil || bTint == nil || aSpark == nil || bSpark == nil {
			continue
		}

		dx := bPos.X - aPos.X
		dy := bPos.Y - aPos.Y
		dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))

		fade := 1 - dist/radius
		if fade < 0 {
			fade = 0
		} else if fade > 1 {
			fade = 1
		}
		fade *= aSpark.Fade * bSpark.Fade

		s.Connections = append(s.Connections, ConnectionView{
			X1:       aPos.X,
			Y1:       aPos.Y,
			X2:       bPos.X,
			Y2:       bPos.Y,
			Strength: conn.strength,
			Fade:     fade,
			R1:       colorByte(aTint.R),
			G1:       colorByte(aTint.G),
			B1:       colorByte(aTint.B),
			R2:       colorByte(bTint.R),
			G2:       colorByte(bTint.G),
			B2:       colorByte(bTint.B),
		})
	}

	s.Flows = s.Flows[:0]
	for i := range e.flows.Particles {
		p := &e.flows.Particles[i]
		gx, gy, ok := e.sparkPosition(p.GiverID)
		if !ok {
			continue
		}
		rx, ry, ok := e.sparkPosition(p.ReceiverID)
		if !ok {
			continue
		}
		s.Flows = append(s.Flows, FlowView{
			X:     gx + (rx-gx)*p.Progress,
			Y:     gy + (ry-gy)*p.Progress,
			Alpha: p.Alpha(),
			Size:  p.Size,
			R:     colorByte(p.Tint.R),
			G:     colorByte(p.Tint.G),
			B:     colorByte(p.Tint.B),
		})
	}
}

func colorByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
