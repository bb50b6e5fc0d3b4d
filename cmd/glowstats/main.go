// Telemetry chart tool - renders run CSV logs to PNG charts.
//
// Reads the telemetry.csv (and perf.csv when present) written by a
// -output-dir run and produces population, energy, transfer and perf
// charts next to them.
//
// Usage: go run ./cmd/glowstats -dir out/run1
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/emberfield/sparks/telemetry"
)

const (
	chartWidth  = 1024
	chartHeight = 400
)

func main() {
	dir := flag.String("dir", "", "Run directory containing telemetry.csv (and optionally perf.csv)")
	out := flag.String("out", "", "Output directory for charts (default: same as -dir)")
	flag.Parse()

	if *dir == "" {
		log.Fatal("-dir is required")
	}
	outDir := *out
	if outDir == "" {
		outDir = *dir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	rows, err := readWindows(filepath.Join(*dir, "telemetry.csv"))
	if err != nil {
		log.Fatalf("failed to read telemetry: %v", err)
	}
	if len(rows) < 2 {
		log.Fatalf("need at least 2 stats windows to chart, got %d", len(rows))
	}

	times := make([]float64, len(rows))
	for i, r := range rows {
		times[i] = r.SimTime
	}

	charts := []struct {
		name  string
		graph chart.Chart
	}{
		{"population.png", populationChart(times, rows)},
		{"energy.png", energyChart(times, rows)},
		{"transfer.png", transferChart(times, rows)},
	}
	for _, c := range charts {
		path := filepath.Join(outDir, c.name)
		if err := renderPNG(c.graph, path); err != nil {
			log.Fatalf("failed to render %s: %v", c.name, err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	// Perf chart only when the run recorded one.
	perfPath := filepath.Join(*dir, "perf.csv")
	if _, err := os.Stat(perfPath); err == nil {
		perfRows, err := readPerf(perfPath)
		if err != nil {
			log.Fatalf("failed to read perf: %v", err)
		}
		if len(perfRows) >= 2 {
			path := filepath.Join(outDir, "perf.png")
			if err := renderPNG(perfChart(perfRows), path); err != nil {
				log.Fatalf("failed to render perf.png: %v", err)
			}
			fmt.Printf("wrote %s\n", path)
		}
	}
}

func readWindows(path string) ([]*telemetry.WindowStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []*telemetry.WindowStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, nil
}

func readPerf(path string) ([]*telemetry.PerfStatsCSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []*telemetry.PerfStatsCSV
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, nil
}

func populationChart(times []float64, rows []*telemetry.WindowStats) chart.Chart {
	sparks := make([]float64, len(rows))
	conns := make([]float64, len(rows))
	flows := make([]float64, len(rows))
	for i, r := range rows {
		sparks[i] = float64(r.Sparks)
		conns[i] = float64(r.Connections)
		flows[i] = float64(r.Flows)
	}

	graph := chart.Chart{
		Title:  "Population",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  timeAxis(),
		YAxis:  chart.YAxis{Name: "count", Style: chart.Style{FontSize: 10}},
		Series: []chart.Series{
			line("sparks", times, sparks, chart.ColorBlue),
			line("connections", times, conns, chart.ColorOrange),
			line("flows", times, flows, chart.ColorGreen),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

func energyChart(times []float64, rows []*telemetry.WindowStats) chart.Chart {
	mean := make([]float64, len(rows))
	p10 := make([]float64, len(rows))
	p90 := make([]float64, len(rows))
	strength := make([]float64, len(rows))
	for i, r := range rows {
		mean[i] = r.EnergyMean
		p10[i] = r.EnergyP10
		p90[i] = r.EnergyP90
		strength[i] = r.StrengthMean
	}

	band := drawing.Color{R: 160, G: 160, B: 160, A: 255}
	graph := chart.Chart{
		Title:  "Energy",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  timeAxis(),
		YAxis: chart.YAxis{
			Name:  "energy",
			Style: chart.Style{FontSize: 10},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []chart.Series{
			line("energy p10", times, p10, band),
			line("energy p90", times, p90, band),
			line("energy mean", times, mean, chart.ColorBlue),
			line("strength mean", times, strength, chart.ColorRed),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

func transferChart(times []float64, rows []*telemetry.WindowStats) chart.Chart {
	moved := make([]float64, len(rows))
	transfers := make([]float64, len(rows))
	for i, r := range rows {
		moved[i] = r.EnergyMoved
		transfers[i] = float64(r.Transfers)
	}

	transferSeries := line("transfers / window", times, transfers, chart.ColorOrange)
	transferSeries.YAxis = chart.YAxisSecondary

	graph := chart.Chart{
		Title:  "Transfer activity",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  timeAxis(),
		YAxis: chart.YAxis{
			Name:  "energy moved / window",
			Style: chart.Style{FontSize: 10},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "transfers / window",
			Style: chart.Style{FontSize: 10},
		},
		Series: []chart.Series{
			line("energy moved / window", times, moved, chart.ColorBlue),
			transferSeries,
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

func perfChart(rows []*telemetry.PerfStatsCSV) chart.Chart {
	times := make([]float64, len(rows))
	fps := make([]float64, len(rows))
	frameMS := make([]float64, len(rows))
	for i, r := range rows {
		times[i] = r.SimTime
		fps[i] = r.FPS
		frameMS[i] = float64(r.AvgFrameUS) / 1000.0
	}

	frameSeries := line("avg frame (ms)", times, frameMS, chart.ColorOrange)
	frameSeries.YAxis = chart.YAxisSecondary

	graph := chart.Chart{
		Title:  "Perf",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  timeAxis(),
		YAxis: chart.YAxis{
			Name:  "fps",
			Style: chart.Style{FontSize: 10},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "frame (ms)",
			Style: chart.Style{FontSize: 10},
		},
		Series: []chart.Series{
			line("fps", times, fps, chart.ColorBlue),
			frameSeries,
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

func timeAxis() chart.XAxis {
	return chart.XAxis{
		Name:  "sim time (s)",
		Style: chart.Style{FontSize: 10},
		ValueFormatter: func(v interface{}) string {
			return fmt.Sprintf("%.0fs", v.(float64))
		},
	}
}

func line(name string, xs, ys []float64, col drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style:   chart.Style{StrokeColor: col, StrokeWidth: 2.0},
	}
}

func renderPNG(graph chart.Chart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
