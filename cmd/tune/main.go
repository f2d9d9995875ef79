// Command tune searches an emitter's birth rate, life expectancy and life
// variance with CMA-ES so that its pool settles at a target occupancy.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/pointsfx/config"
)

// EvalRecord is one row of tune_log.csv.
type EvalRecord struct {
	Eval           int     `csv:"eval"`
	Fitness        float64 `csv:"fitness"`
	BirthRate      float64 `csv:"birth_rate"`
	LifeExpectancy float64 `csv:"life_expectancy"`
	LifeVariance   float64 `csv:"life_variance"`
	OccupancyMean  float64 `csv:"occupancy_mean"`
	OccupancyP90   float64 `csv:"occupancy_p90"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	emitter := flag.String("emitter", "", "Name of the emitter to tune")
	occupancy := flag.Float64("occupancy", 0.75, "Target mean alive/capacity")
	peak := flag.Float64("peak", 0.95, "Penalize p90 alive/capacity above this")
	seconds := flag.Float64("seconds", 20, "Simulated seconds sampled per run, after warm-up")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 120, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(*configPath, *emitter, *outputDir, Target{Occupancy: *occupancy, Peak: *peak},
		*seconds, *seeds, *maxEvals, *population); err != nil {
		slog.Error("tune failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, emitter, outputDir string, target Target, seconds float64, nSeeds, maxEvals, population int) error {
	if outputDir == "" {
		return fmt.Errorf("--output is required")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	idx, ok := cfg.Derived.EmitterIndex[emitter]
	if !ok {
		return fmt.Errorf("unknown emitter %q", emitter)
	}

	params := NewParamVector(&cfg.Emitters[idx])

	evalSeeds := make([]int64, nSeeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, cfg, emitter, seconds, evalSeeds, target)

	logFile, err := os.Create(filepath.Join(outputDir, "tune_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	dim := params.Dim()
	popSize := population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			mean, p90 := evaluator.LastOccupancy()
			rec := []EvalRecord{{
				Eval:           evalCount,
				Fitness:        fitness,
				BirthRate:      raw[0],
				LifeExpectancy: raw[1],
				LifeVariance:   raw[2],
				OccupancyMean:  mean,
				OccupancyP90:   p90,
			}}
			var werr error
			if evalCount == 1 {
				werr = gocsv.Marshal(rec, logFile)
			} else {
				werr = gocsv.MarshalWithoutHeaders(rec, logFile)
			}
			if werr != nil {
				slog.Error("failed to write eval log", "error", werr)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			fmt.Printf("Eval %d/%d: rate=%.1f life=%.2f var=%.2f occ=%.3f p90=%.3f (best=%.5f) | elapsed: %s, ETA: %s\n",
				evalCount, maxEvals, raw[0], raw[1], raw[2], mean, p90, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // seeds already run in parallel
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	fmt.Printf("Tuning %q toward occupancy %.2f (peak %.2f), population=%d, max_evals=%d\n",
		emitter, target.Occupancy, target.Peak, popSize, maxEvals)

	initX := params.Normalize(params.DefaultVector())
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Info("optimization ended", "reason", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return fmt.Errorf("no evaluation completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.6f\n", bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.4f\n", spec.Name, bestParams[i])
	}

	bestCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToEmitter(&bestCfg.Emitters[idx], bestParams)

	outPath := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(outPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", outPath)
	return nil
}
