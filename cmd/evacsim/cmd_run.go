// Package main implements the run command: execute one scenario and
// report its summary statistics.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"evacsim/internal/config"
	"evacsim/internal/sim"
	"evacsim/internal/stats"
	"evacsim/internal/store"
)

var (
	runTrials    int
	runEngine    string
	runExits     []int
	runOccupancy float64
	runEmergency float64
	runElderly   float64
	runWorkers   int
	runNoStore   bool
	runHistBins  int
)

// runCmd executes a single scenario
var runCmd = &cobra.Command{
	Use:   "run [scenario.yaml]",
	Short: "Run a scenario and print summary statistics",
	Long: `Runs the Monte Carlo trials for one scenario and prints the summary.

Without an argument the built-in baseline scenario is used (30 rows, 6
seats per row, exits at rows 0, 15 and 29, full occupancy). Flags override
individual scenario fields for quick what-if runs:

  evacsim run scenario.yaml --exits 0,29 --occupancy 0.8
  evacsim run --engine aisle --trials 500`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScenario,
}

func init() {
	runCmd.Flags().IntVar(&runTrials, "trials", 0, "number of trials (overrides scenario)")
	runCmd.Flags().StringVar(&runEngine, "engine", "", "engine: queue or aisle (overrides scenario)")
	runCmd.Flags().IntSliceVar(&runExits, "exits", nil, "usable exit rows (overrides scenario)")
	runCmd.Flags().Float64Var(&runOccupancy, "occupancy", 0, "occupancy rate in (0,1] (overrides scenario)")
	runCmd.Flags().Float64Var(&runEmergency, "emergency", -1, "emergency level in [0,1] (overrides scenario)")
	runCmd.Flags().Float64Var(&runElderly, "proportion-elderly", -1, "proportion of elderly passengers (overrides scenario)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "parallel trial workers (overrides scenario)")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "do not record the run in the history database")
	runCmd.Flags().IntVar(&runHistBins, "histogram", 0, "print a textual histogram with this many bins")
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := loadScenario(args)
	if err != nil {
		return err
	}
	applyRunOverrides(scenario)
	if err := scenario.Validate(); err != nil {
		return err
	}

	summary, times, elapsed, err := executeScenario(cmd, scenario)
	if err != nil {
		return err
	}

	printSummary(scenario, summary, elapsed)

	if runHistBins > 0 {
		buckets, err := stats.Histogram(times, runHistBins)
		if err != nil {
			return err
		}
		printHistogram(buckets)
	}

	if !runNoStore {
		id, err := persistRun(scenario, summary)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		fmt.Printf("recorded run %s\n", shortID(id))
	}
	return nil
}

// loadScenario reads the scenario file named in args, or the default
// scenario when none is given.
func loadScenario(args []string) (*config.Scenario, error) {
	if len(args) == 0 {
		return config.DefaultScenario(), nil
	}
	return config.Load(args[0])
}

// applyRunOverrides applies run-command flags on top of the scenario.
func applyRunOverrides(s *config.Scenario) {
	if runTrials > 0 {
		s.Trials = runTrials
	}
	if runEngine != "" {
		s.Engine = runEngine
	}
	if len(runExits) > 0 {
		s.Layout.Exits = runExits
	}
	if runOccupancy > 0 {
		s.Params.OccupancyRate = runOccupancy
	}
	if runEmergency >= 0 {
		s.Params.EmergencyLevel = runEmergency
	}
	if runElderly >= 0 {
		s.Params.ProportionElderly = runElderly
	}
	if runWorkers > 0 {
		s.Runtime.Workers = runWorkers
	}
	applyGlobalOverrides(s)
}

// applyGlobalOverrides applies root-level flags shared by run and sweep.
func applyGlobalOverrides(s *config.Scenario) {
	if seedFlag != 0 {
		s.Seed = seedFlag
	}
	if dbPath != "" {
		s.Runtime.DBPath = dbPath
	}
}

// executeScenario runs the Monte Carlo trials for a validated scenario.
func executeScenario(cmd *cobra.Command, s *config.Scenario) (stats.Summary, []float64, time.Duration, error) {
	runner, err := sim.NewRunner(sim.Spec{
		Layout:  s.CabinLayout(),
		Params:  s.CabinParams(),
		Engine:  s.Engine,
		Trials:  s.Trials,
		Seed:    s.Seed,
		Workers: s.Runtime.Workers,
		TickCap: s.Runtime.TickCap,
	})
	if err != nil {
		return stats.Summary{}, nil, 0, err
	}

	logger.Debug("starting trials",
		zap.String("scenario", s.Name),
		zap.String("engine", s.Engine),
		zap.Int("trials", s.Trials),
		zap.Int64("seed", s.Seed))

	start := time.Now()
	times, err := runner.Run(cmd.Context())
	if err != nil {
		return stats.Summary{}, nil, 0, err
	}
	elapsed := time.Since(start)

	summary, err := stats.Summarize(times)
	if err != nil {
		return stats.Summary{}, nil, 0, err
	}
	logger.Debug("trials finished",
		zap.Duration("elapsed", elapsed),
		zap.Float64("mean", summary.Mean))
	return summary, times, elapsed, nil
}

func persistRun(s *config.Scenario, summary stats.Summary) (string, error) {
	doc, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal scenario: %w", err)
	}

	st, err := store.Open(s.Runtime.DBPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	return st.SaveRun(&store.RunRecord{
		Scenario:     s.Name,
		Engine:       s.Engine,
		ScenarioYAML: string(doc),
		Trials:       summary.Trials,
		Seed:         s.Seed,
		Mean:         summary.Mean,
		StdDev:       summary.StdDev,
		Min:          summary.Min,
		Max:          summary.Max,
		P50:          summary.P50,
		P90:          summary.P90,
		P95:          summary.P95,
		P99:          summary.P99,
	})
}

func printSummary(s *config.Scenario, sum stats.Summary, elapsed time.Duration) {
	unit := "s/passenger"
	if s.Engine == "aisle" {
		unit = "s total"
	}

	fmt.Printf("Scenario: %s (engine=%s, trials=%d, seed=%d)\n", s.Name, s.Engine, sum.Trials, s.Seed)
	fmt.Printf("Layout: %d rows x %d seats, exits at %v, occupancy %.0f%%\n",
		s.Layout.Rows, s.Layout.SeatsPerRow, s.Layout.Exits, s.Params.OccupancyRate*100)
	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("  mean    %8.2f %s\n", sum.Mean, unit)
	fmt.Printf("  stddev  %8.2f\n", sum.StdDev)
	fmt.Printf("  min/max %8.2f / %.2f\n", sum.Min, sum.Max)
	fmt.Printf("  p50     %8.2f\n", sum.P50)
	fmt.Printf("  p90     %8.2f\n", sum.P90)
	fmt.Printf("  p95     %8.2f\n", sum.P95)
	fmt.Printf("  p99     %8.2f\n", sum.P99)
	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("completed in %s\n", elapsed.Round(time.Millisecond))
}

func printHistogram(buckets []stats.Bucket) {
	maxCount := 0
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	for _, b := range buckets {
		bar := 0
		if maxCount > 0 {
			bar = b.Count * 40 / maxCount
		}
		fmt.Printf("  %7.2f-%7.2f %6d %s\n", b.Lo, b.Hi, b.Count, strings.Repeat("#", bar))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
