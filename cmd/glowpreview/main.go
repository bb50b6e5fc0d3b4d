// Connection tuning preview tool - interactive visualization with sliders.
//
// The left pane plots the closeness falloff curve and a simulated
// two-spark contact episode driven by the same transfer code the engine
// runs, so slider values map directly onto live behavior.
//
// Usage: go run ./cmd/glowpreview
package main

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/emberfield/sparks/components"
	"github.com/emberfield/sparks/config"
	"github.com/emberfield/sparks/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	plotWidth    = 512
	panelWidth   = windowWidth - plotWidth - 30

	episodeFrames = 6 * 60 // six seconds at 60fps
	contactFrames = 4 * 60 // pair separates after four seconds
	episodeDT     = float32(1.0 / 60.0)
)

// PreviewParams holds the connection and transfer knobs under tuning.
type PreviewParams struct {
	Radius         float32
	Activation     float32
	ApproachRate   float32
	DecayRate      float32
	TransferRate   float32
	PairDistFrac   float32 // contact distance as a fraction of Radius
	GiverEnergy    float32
	ReceiverEnergy float32
}

type traceSample struct {
	strength float32
	giver    float32
	receiver float32
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Connection Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cfg := config.MustLoad("")
	floor := float32(cfg.Energy.Floor)
	params := defaultParams(cfg)

	samples := make([]traceSample, 0, episodeFrames)
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			samples = runEpisode(params, floor, samples[:0])
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Falloff curve
		rl.DrawText("Closeness falloff (weight vs distance)", 10, 10, 16, rl.DarkGray)
		falloffArea := rl.Rectangle{X: 10, Y: 32, Width: plotWidth, Height: 230}
		drawFalloff(falloffArea, params)

		// Contact episode trace
		rl.DrawText("Two-spark contact episode (6s, separation at 4s)", 10, 280, 16, rl.DarkGray)
		traceArea := rl.Rectangle{X: 10, Y: 302, Width: plotWidth, Height: 230}
		drawTrace(traceArea, samples)

		rl.DrawText("strength", 10, 540, 14, rl.Blue)
		rl.DrawText("giver energy", 90, 540, 14, rl.Orange)
		rl.DrawText("receiver energy", 200, 540, 14, rl.DarkGreen)

		if n := len(samples); n > 0 {
			last := samples[n-1]
			moved := params.GiverEnergy - last.giver
			rl.DrawText(fmt.Sprintf("Final: strength %.3f  giver %.3f  receiver %.3f", last.strength, last.giver, last.receiver), 10, 565, 14, rl.DarkGray)
			rl.DrawText(fmt.Sprintf("Moved: %.3f  (floor %.2f)", moved, floor), 10, 585, 14, rl.DarkGray)
		}

		// Control panel
		panelX := float32(plotWidth + 20)
		panelY := float32(10)

		rl.DrawText("Connection Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Radius slider
		rl.DrawText("Radius (connection range, px)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRadius := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"40", "240",
			params.Radius, 40, 240,
		)
		rl.DrawText(fmt.Sprintf("%.0f", params.Radius), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newRadius != params.Radius {
			params.Radius = newRadius
			needsRegen = true
		}
		panelY += 35

		// Activation slider
		rl.DrawText("Activation threshold (strength gate)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newActivation := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "0.5",
			params.Activation, 0, 0.5,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Activation), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newActivation != params.Activation {
			params.Activation = newActivation
			needsRegen = true
		}
		panelY += 35

		// Approach rate slider
		rl.DrawText("Connection rate (strength rise /s)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newApproach := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "12",
			params.ApproachRate, 1, 12,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.ApproachRate), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newApproach != params.ApproachRate {
			params.ApproachRate = newApproach
			needsRegen = true
		}
		panelY += 35

		// Decay rate slider
		rl.DrawText("Connection decay (strength loss /s)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newDecay := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.5", "8",
			params.DecayRate, 0.5, 8,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.DecayRate), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newDecay != params.DecayRate {
			params.DecayRate = newDecay
			needsRegen = true
		}
		panelY += 35

		// Transfer rate slider
		rl.DrawText("Transfer rate (energy fraction /s)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newTransfer := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.1", "2.0",
			params.TransferRate, 0.1, 2.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.TransferRate), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newTransfer != params.TransferRate {
			params.TransferRate = newTransfer
			needsRegen = true
		}
		panelY += 35

		// Pair distance slider
		rl.DrawText("Pair distance (fraction of radius)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newDist := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.05", "1.0",
			params.PairDistFrac, 0.05, 1.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.PairDistFrac), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newDist != params.PairDistFrac {
			params.PairDistFrac = newDist
			needsRegen = true
		}
		panelY += 35

		// Giver energy slider
		rl.DrawText("Giver energy (start)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newGiver := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1",
			params.GiverEnergy, 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.GiverEnergy), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newGiver != params.GiverEnergy {
			params.GiverEnergy = newGiver
			needsRegen = true
		}
		panelY += 35

		// Receiver energy slider
		rl.DrawText("Receiver energy (start)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newReceiver := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1",
			params.ReceiverEnergy, 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.ReceiverEnergy), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newReceiver != params.ReceiverEnergy {
			params.ReceiverEnergy = newReceiver
			needsRegen = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams(cfg)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Swap Energies") {
			params.GiverEnergy, params.ReceiverEnergy = params.ReceiverEnergy, params.GiverEnergy
			needsRegen = true
		}
		panelY += 50

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yamlLines := []string{
			"interaction:",
			fmt.Sprintf("  radius: %.0f", params.Radius),
			fmt.Sprintf("  activation_threshold: %.2f", params.Activation),
			fmt.Sprintf("  connection_rate_per_sec: %.1f", params.ApproachRate),
			fmt.Sprintf("  connection_decay_per_sec: %.1f", params.DecayRate),
			"energy:",
			fmt.Sprintf("  transfer_rate_per_sec: %.2f", params.TransferRate),
		}
		for _, line := range yamlLines {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		if rl.IsKeyPressed(rl.KeyC) {
			yaml := fmt.Sprintf(`interaction:
  radius: %.0f
  activation_threshold: %.2f
  connection_rate_per_sec: %.1f
  connection_decay_per_sec: %.1f
energy:
  transfer_rate_per_sec: %.2f`,
				params.Radius, params.Activation, params.ApproachRate,
				params.DecayRate, params.TransferRate)
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func defaultParams(cfg *config.Config) PreviewParams {
	return PreviewParams{
		Radius:         float32(cfg.Interaction.Radius),
		Activation:     float32(cfg.Interaction.ActivationThreshold),
		ApproachRate:   float32(cfg.Interaction.ConnectionRatePerSec),
		DecayRate:      float32(cfg.Interaction.ConnectionDecayPerSec),
		TransferRate:   float32(cfg.Energy.TransferRatePerSec),
		PairDistFrac:   0.5,
		GiverEnergy:    0.9,
		ReceiverEnergy: 0.45,
	}
}

// runEpisode simulates one contact: the pair sits at the chosen distance
// for four seconds, then separates and the connection decays out.
func runEpisode(p PreviewParams, floor float32, dst []traceSample) []traceSample {
	giver := components.Energy{Value: p.GiverEnergy}
	receiver := components.Energy{Value: p.ReceiverEnergy}
	target := systems.ClosenessWeight(p.PairDistFrac*p.Radius, p.Radius)

	var strength float32
	for i := 0; i < episodeFrames; i++ {
		if i < contactFrames {
			strength = systems.ApproachStrength(strength, target, p.ApproachRate, episodeDT)
			if strength > p.Activation {
				systems.TransferEnergy(&giver, &receiver, strength, p.TransferRate, floor, episodeDT)
			}
		} else {
			strength = systems.DecayStrength(strength, p.DecayRate, episodeDT)
		}
		dst = append(dst, traceSample{strength: strength, giver: giver.Value, receiver: receiver.Value})
	}
	return dst
}

// drawFalloff plots the smoothstep weight over [0, radius], plus the
// activation threshold and the current pair distance.
func drawFalloff(area rl.Rectangle, p PreviewParams) {
	rl.DrawRectangleLines(int32(area.X), int32(area.Y), int32(area.Width), int32(area.Height), rl.DarkGray)

	steps := int(area.Width)
	prev := rl.Vector2{}
	for i := 0; i <= steps; i++ {
		d := float32(i) / float32(steps) * p.Radius
		w := systems.ClosenessWeight(d, p.Radius)
		pt := rl.Vector2{X: area.X + float32(i), Y: area.Y + area.Height*(1-w)}
		if i > 0 {
			rl.DrawLineV(prev, pt, rl.Blue)
		}
		prev = pt
	}

	ay := area.Y + area.Height*(1-p.Activation)
	rl.DrawLineV(rl.Vector2{X: area.X, Y: ay}, rl.Vector2{X: area.X + area.Width, Y: ay}, rl.Red)
	rl.DrawText("activation", int32(area.X+area.Width)-70, int32(ay)-16, 12, rl.Red)

	px := area.X + area.Width*p.PairDistFrac
	rl.DrawLineV(rl.Vector2{X: px, Y: area.Y}, rl.Vector2{X: px, Y: area.Y + area.Height}, rl.LightGray)
	rl.DrawText("pair", int32(px)+4, int32(area.Y)+4, 12, rl.Gray)
}

func drawTrace(area rl.Rectangle, samples []traceSample) {
	rl.DrawRectangleLines(int32(area.X), int32(area.Y), int32(area.Width), int32(area.Height), rl.DarkGray)

	sx := area.X + area.Width*float32(contactFrames)/float32(episodeFrames)
	rl.DrawLineV(rl.Vector2{X: sx, Y: area.Y}, rl.Vector2{X: sx, Y: area.Y + area.Height}, rl.LightGray)

	plotSeries(area, samples, func(s traceSample) float32 { return s.strength }, rl.Blue)
	plotSeries(area, samples, func(s traceSample) float32 { return s.giver }, rl.Orange)
	plotSeries(area, samples, func(s traceSample) float32 { return s.receiver }, rl.DarkGreen)
}

func plotSeries(area rl.Rectangle, samples []traceSample, pick func(traceSample) float32, col rl.Color) {
	if len(samples) < 2 {
		return
	}
	prev := rl.Vector2{}
	for i, s := range samples {
		v := pick(s)
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		pt := rl.Vector2{
			X: area.X + area.Width*float32(i)/float32(len(samples)-1),
			Y: area.Y + area.Height*(1-v),
		}
		if i > 0 {
			rl.DrawLineV(prev, pt, col)
		}
		prev = pt
	}
}
