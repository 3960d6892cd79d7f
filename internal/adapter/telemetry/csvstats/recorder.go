// Package csvstats appends one telemetry row per completed turn, for
// offline analysis of a run.
package csvstats

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/creature"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// TurnStats is one telemetry.csv row.
type TurnStats struct {
	Turn        uint64 `csv:"turn"`
	AgentCount  int    `csv:"agents"`
	Players     int    `csv:"players"`
	Prey        int    `csv:"prey"`
	Predators   int    `csv:"predators"`
	Workers     int    `csv:"workers"`
	Moves       int    `csv:"moves"`
	Conflicts   int    `csv:"conflicts"`
	Kills       int    `csv:"kills"`
	Starvations int    `csv:"starvations"`
	Deposits    int    `csv:"deposits"`

	PreyHungerMean     float64 `csv:"prey_hunger_mean"`
	PreyHungerStd      float64 `csv:"prey_hunger_std"`
	PredatorHungerMean float64 `csv:"predator_hunger_mean"`
	PredatorHungerStd  float64 `csv:"predator_hunger_std"`
	WorkerHungerMean   float64 `csv:"worker_hunger_mean"`
	WorkerHungerStd    float64 `csv:"worker_hunger_std"`
}

// Recorder writes telemetry.csv under dir. A nil Recorder is a valid
// disabled recorder; every method is a no-op on it.
type Recorder struct {
	logger *slog.Logger

	mu            sync.Mutex
	file          *os.File
	headerWritten bool
}

// NewRecorder opens dir/telemetry.csv for the run. An empty dir
// disables telemetry and returns a nil recorder.
func NewRecorder(dir string, logger *slog.Logger) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	return &Recorder{logger: logger, file: f}, nil
}

func (r *Recorder) TurnCompleted(summary ports.TurnSummary) {
	if r == nil {
		return
	}
	records := []TurnStats{buildRow(summary)}

	r.mu.Lock()
	defer r.mu.Unlock()
	var err error
	if !r.headerWritten {
		err = gocsv.Marshal(records, r.file)
		r.headerWritten = err == nil
	} else {
		err = gocsv.MarshalWithoutHeaders(records, r.file)
	}
	if err != nil {
		r.warn("telemetry row write failed", slog.Uint64("turn", summary.Turn), slog.Any("err", err))
	}
}

func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}

func buildRow(summary ports.TurnSummary) TurnStats {
	row := TurnStats{
		Turn:        summary.Turn,
		Players:     summary.Population[creature.ClassPlayer],
		Prey:        summary.Population[creature.ClassPrey],
		Predators:   summary.Population[creature.ClassPredator],
		Workers:     summary.Population[creature.ClassWorker],
		Moves:       summary.Counters.Moves,
		Conflicts:   summary.Counters.Conflicts,
		Kills:       summary.Counters.Kills,
		Starvations: summary.Counters.Starvations,
		Deposits:    summary.Counters.Deposits,
	}
	for _, n := range summary.Population {
		row.AgentCount += n
	}
	row.PreyHungerMean, row.PreyHungerStd = hungerStats(summary.Hunger[creature.ClassPrey])
	row.PredatorHungerMean, row.PredatorHungerStd = hungerStats(summary.Hunger[creature.ClassPredator])
	row.WorkerHungerMean, row.WorkerHungerStd = hungerStats(summary.Hunger[creature.ClassWorker])
	return row
}

func hungerStats(samples []int) (mean, std float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	vals := make([]float64, len(samples))
	for i, s := range samples {
		vals[i] = float64(s)
	}
	mean = stat.Mean(vals, nil)
	// Sample stddev needs two samples; one sample reads as zero spread.
	if len(vals) > 1 {
		std = stat.StdDev(vals, nil)
	}
	return mean, std
}

func (r *Recorder) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
