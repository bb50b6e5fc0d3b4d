package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/emberfield/sparks/components"
	"github.com/emberfield/sparks/config"
	"github.com/emberfield/sparks/engine"
	"github.com/emberfield/sparks/renderer"
	"github.com/emberfield/sparks/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = embedded defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Log window stats via slog")
	outputDir := flag.String("output-dir", "", "Directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	lowPower := flag.Bool("low-power", false, "Mobile-class targets: smaller population, fewer flows")
	flag.Parse()

	// JSON logs; window stats stay at info level and are only visible
	// when asked for.
	level := slog.LevelWarn
	if *logStats {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config_load_failed", "path", *configPath, "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("output_dir_failed", "dir", *outputDir, "error", err)
		os.Exit(1)
	}
	if output != nil {
		defer output.Close()
		if err := output.WriteConfig(cfg); err != nil {
			slog.Warn("config_snapshot_failed", "error", err)
		}
	}

	caps := components.Capabilities{LowPower: *lowPower}
	eng := engine.New(cfg, caps, rngSeed, output)

	if *headless {
		runHeadless(eng, cfg, *maxTicks)
		return
	}
	runWindowed(eng, cfg, rngSeed, *maxTicks)
}

// runHeadless drives the engine at a fixed dt with no window. Used for
// soak runs and telemetry capture.
func runHeadless(eng *engine.Engine, cfg *config.Config, maxTicks int) {
	slog.Info("headless_start", "max_ticks", maxTicks, "target_fps", cfg.Screen.TargetFPS)

	fixedDT := float32(1.0 / float64(cfg.Screen.TargetFPS))
	perf := eng.Perf()

	for tick := 0; maxTicks == 0 || tick < maxTicks; tick++ {
		perf.StartFrame()
		eng.Step(fixedDT)
		perf.EndFrame()
	}

	slog.Info("headless_done", "sim_time", eng.SimTime())
}

// runWindowed opens the raylib window and drives the engine off the
// host clock, drawing one snapshot per frame.
func runWindowed(eng *engine.Engine, cfg *config.Config, seed int64, maxTicks int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Spark Field")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	// Pick up the real DPI scale once the window exists.
	eng.Resize(rl.GetScreenWidth(), rl.GetScreenHeight(), float64(rl.GetWindowScaleDPI().X))

	rend := renderer.NewGlowRenderer(cfg, seed)
	defer rend.Unload()
	hud := renderer.NewHUD()
	showHUD := false

	perf := eng.Perf()
	var snap engine.Snapshot
	ticks := 0

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			eng.Resize(rl.GetScreenWidth(), rl.GetScreenHeight(), float64(rl.GetWindowScaleDPI().X))
		}
		if rl.IsKeyPressed(rl.KeyH) {
			showHUD = !showHUD
		}

		perf.StartFrame()
		eng.Tick(rl.GetTime())
		perf.StartPhase(telemetry.PhaseSnapshot)
		eng.Snapshot(&snap)
		perf.EndFrame()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		rend.Draw(&snap, float32(eng.SimTime()))
		if showHUD {
			hud.Draw(renderer.HUDData{
				Population:  len(snap.Sparks),
				Target:      eng.PopulationTarget(),
				Connections: len(snap.Connections),
				Flows:       len(snap.Flows),
				SimTime:     eng.SimTime(),
				Seed:        seed,
				FPS:         rl.GetFPS(),
			})
			hud.DrawControls(int32(rl.GetScreenHeight()))
		}
		rl.EndDrawing()

		ticks++
		if maxTicks > 0 && ticks >= maxTicks {
			break
		}
	}
}
