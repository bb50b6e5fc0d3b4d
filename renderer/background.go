package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Background texture resolution. The noise field is sampled on this
// coarse grid and stretched to the window with bilinear filtering.
const (
	bgCols = 96
	bgRows = 60
)

// BackgroundRenderer draws a slow-drifting noise wash behind the spark
// field: CPU-sampled opensimplex noise uploaded to a small texture each
// frame. No shader assets are involved.
type BackgroundRenderer struct {
	noise  opensimplex.Noise
	tex    rl.Texture2D
	pixels []color.RGBA

	screenW, screenH float32
	initialized      bool
}

// NewBackgroundRenderer creates a background renderer seeded to match the
// run, so the wash is reproducible alongside the simulation.
func NewBackgroundRenderer(screenW, screenH float32, seed int64) *BackgroundRenderer {
	return &BackgroundRenderer{
		noise:   opensimplex.NewNormalized(seed),
		pixels:  make([]color.RGBA, bgCols*bgRows),
		screenW: screenW,
		screenH: screenH,
	}
}

// Init creates the texture. Must run after the raylib window exists.
func (b *BackgroundRenderer) Init() {
	if b.initialized {
		return
	}

	img := rl.GenImageColor(bgCols, bgRows, rl.Black)
	b.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(b.tex, rl.FilterBilinear)

	b.initialized = true
}

// Resize updates the stretch target. The noise grid itself is fixed.
func (b *BackgroundRenderer) Resize(screenW, screenH float32) {
	b.screenW = screenW
	b.screenH = screenH
}

// Draw samples the drifting field and paints it across the window.
func (b *BackgroundRenderer) Draw(simTime float32) {
	if !b.initialized {
		b.Init()
	}

	t := float64(simTime) * 0.03
	for row := 0; row < bgRows; row++ {
		for col := 0; col < bgCols; col++ {
			v := float32(b.noise.Eval3(float64(col)*0.045, float64(row)*0.045, t))
			b.pixels[row*bgCols+col] = washColor(v)
		}
	}
	rl.UpdateTexture(b.tex, b.pixels)

	src := rl.Rectangle{Width: bgCols, Height: bgRows}
	dst := rl.Rectangle{Width: b.screenW, Height: b.screenH}
	rl.DrawTexturePro(b.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// washColor maps normalized noise to a dim blue-violet gradient that the
// additive spark light reads well against.
func washColor(v float32) color.RGBA {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return color.RGBA{
		R: uint8(6 + v*22),
		G: uint8(5 + v*12),
		B: uint8(14 + v*38),
		A: 255,
	}
}

// Unload frees the texture.
func (b *BackgroundRenderer) Unload() {
	if b.initialized {
		rl.UnloadTexture(b.tex)
		b.initialized = false
	}
}
