package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one sim-time window.
type WindowStats struct {
	WindowStart float64 `csv:"-"`
	SimTime     float64 `csv:"sim_time"`

	// Population counts at window end
	Sparks      int `csv:"sparks"`
	Connections int `csv:"connections"`
	Flows       int `csv:"flows"`

	// Events during window
	Spawns             int     `csv:"spawns"`
	Deaths             int     `csv:"deaths"`
	PairsResolved      int     `csv:"pairs_resolved"`
	CapHits            int     `csv:"cap_hits"`
	Transfers          int     `csv:"transfers"`
	EnergyMoved        float64 `csv:"energy_moved"`
	FlowsSpawned       int     `csv:"flows_spawned"`
	ConnectionsFormed  int     `csv:"connections_formed"`
	ConnectionsDropped int     `csv:"connections_dropped"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Polarity distribution across the live population
	PolarityMean float64 `csv:"polarity_mean"`
	PolarityStd  float64 `csv:"polarity_std"`

	// Connection strength distribution
	StrengthMean float64 `csv:"strength_mean"`
	StrengthP90  float64 `csv:"strength_p90"`
}

// Distribution computes mean, standard deviation, and the 10/50/90th
// percentiles of values. Returns all zeros for an empty slice.
func Distribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	p50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	p90 = stat.Quantile(0.90, stat.LinInterp, sorted, nil)

	return mean, std, p10, p50, p90
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"sim_time", s.SimTime,
		"sparks", s.Sparks,
		"connections", s.Connections,
		"flows", s.Flows,
		"spawns", s.Spawns,
		"deaths", s.Deaths,
		"pairs_resolved", s.PairsResolved,
		"cap_hits", s.CapHits,
		"transfers", s.Transfers,
		"energy_moved", s.EnergyMoved,
		"flows_spawned", s.FlowsSpawned,
		"connections_formed", s.ConnectionsFormed,
		"connections_dropped", s.ConnectionsDropped,
		"energy_mean", s.EnergyMean,
		"energy_std", s.EnergyStd,
		"energy_p10", s.EnergyP10,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
		"polarity_mean", s.PolarityMean,
		"polarity_std", s.PolarityStd,
		"strength_mean", s.StrengthMean,
		"strength_p90", s.StrengthP90,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("sim_time", s.SimTime),
		slog.Int("sparks", s.Sparks),
		slog.Int("connections", s.Connections),
		slog.Int("flows", s.Flows),
		slog.Int("spawns", s.Spawns),
		slog.Int("deaths", s.Deaths),
		slog.Int("pairs_resolved", s.PairsResolved),
		slog.Int("cap_hits", s.CapHits),
		slog.Int("transfers", s.Transfers),
		slog.Float64("energy_moved", s.EnergyMoved),
		slog.Int("flows_spawned", s.FlowsSpawned),
		slog.Int("connections_formed", s.ConnectionsFormed),
		slog.Int("connections_dropped", s.ConnectionsDropped),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("polarity_mean", s.PolarityMean),
		slog.Float64("polarity_std", s.PolarityStd),
		slog.Float64("strength_mean", s.StrengthMean),
		slog.Float64("strength_p90", s.StrengthP90),
	)
}
