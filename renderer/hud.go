package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds the values the overlay displays for one frame.
type HUDData struct {
	Population  int
	Target      int
	Connections int
	Flows       int
	SimTime     float64
	Seed        int64
	FPS         int32
}

// HUD renders the diagnostic overlay. The host toggles it with a key and
// skips the call entirely while hidden.
type HUD struct{}

// NewHUD creates the overlay renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the overlay lines in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText("spark field", 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("sparks: %d / %d | connections: %d | flows: %d",
			data.Population, data.Target, data.Connections, data.Flows),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("t: %.1fs | seed: %d | fps: %d", data.SimTime, data.Seed, data.FPS),
		10, 55, 16, rl.LightGray,
	)
}

// DrawControls renders the key legend along the bottom edge.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText("H: toggle hud | ESC: quit", 10, screenHeight-25, 14, rl.Gray)
}
