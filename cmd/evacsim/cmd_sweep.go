// Package main implements the sweep command: rerun a scenario across a
// range of one parameter to compare evacuation outcomes.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"evacsim/internal/config"
)

var (
	sweepScenarioPath string
	sweepNoStore      bool
)

// exitPresets are named exit configurations for availability experiments.
// Rows refer to the default 30-row layout unless the swept scenario
// overrides the preset with explicit rows.
var exitPresets = map[string]func(rows int) []int{
	"all":        func(rows int) []int { return []int{0, rows / 2, rows - 1} },
	"no-middle":  func(rows int) []int { return []int{0, rows - 1} },
	"front-only": func(rows int) []int { return []int{0} },
	"rear-only":  func(rows int) []int { return []int{rows - 1} },
	"front-rear": func(rows int) []int { return []int{0, rows - 1} },
}

// sweepCmd reruns a scenario across values of one parameter
var sweepCmd = &cobra.Command{
	Use:   "sweep <parameter> <value>...",
	Short: "Run a scenario across a range of one parameter",
	Long: `Reruns the scenario once per value, printing one summary line per
point. Parameters:

  occupancy           occupancy rate, values in (0,1]
  emergency           emergency level, values in [0,1]
  proportion-elderly  elderly share, values in [0,1]
  trials              trial counts (convergence check)
  exits               named presets: all, no-middle, front-only,
                      rear-only, front-rear

Examples:
  evacsim sweep occupancy 0.5 0.8 1.0
  evacsim sweep exits all no-middle front-only
  evacsim sweep emergency 0.2 0.5 0.9 --scenario cabin.yaml`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().StringVar(&sweepScenarioPath, "scenario", "", "scenario file to sweep (default: built-in baseline)")
	sweepCmd.Flags().BoolVar(&sweepNoStore, "no-store", false, "do not record sweep points in the history database")
}

func runSweep(cmd *cobra.Command, args []string) error {
	param, values := args[0], args[1:]

	base, err := loadSweepScenario()
	if err != nil {
		return err
	}

	fmt.Printf("Sweep %s over %v (scenario %s, %d trials each)\n",
		param, values, base.Name, base.Trials)
	fmt.Println(strings.Repeat("─", 72))
	fmt.Printf("%-14s %10s %10s %10s %10s\n", param, "mean", "stddev", "p50", "p95")

	for _, raw := range values {
		point := *base // shallow copy; slices replaced below where mutated
		point.Layout.Exits = append([]int(nil), base.Layout.Exits...)

		if err := applySweepValue(&point, param, raw); err != nil {
			return err
		}
		point.Name = fmt.Sprintf("%s/%s=%s", base.Name, param, raw)
		if err := point.Validate(); err != nil {
			return fmt.Errorf("sweep point %s=%s: %w", param, raw, err)
		}

		summary, _, _, err := executeScenario(cmd, &point)
		if err != nil {
			return fmt.Errorf("sweep point %s=%s: %w", param, raw, err)
		}
		fmt.Printf("%-14s %10.2f %10.2f %10.2f %10.2f\n",
			raw, summary.Mean, summary.StdDev, summary.P50, summary.P95)

		if !sweepNoStore {
			if _, err := persistRun(&point, summary); err != nil {
				return fmt.Errorf("failed to record sweep point: %w", err)
			}
		}
	}
	fmt.Println(strings.Repeat("─", 72))
	return nil
}

func loadSweepScenario() (*config.Scenario, error) {
	var s *config.Scenario
	var err error
	if sweepScenarioPath == "" {
		s = config.DefaultScenario()
	} else if s, err = config.Load(sweepScenarioPath); err != nil {
		return nil, err
	}
	applyGlobalOverrides(s)
	return s, nil
}

func applySweepValue(s *config.Scenario, param, raw string) error {
	parse := func() (float64, error) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("sweep: %s value %q is not a number", param, raw)
		}
		return v, nil
	}

	switch param {
	case "occupancy":
		v, err := parse()
		if err != nil {
			return err
		}
		s.Params.OccupancyRate = v
	case "emergency":
		v, err := parse()
		if err != nil {
			return err
		}
		s.Params.EmergencyLevel = v
	case "proportion-elderly":
		v, err := parse()
		if err != nil {
			return err
		}
		s.Params.ProportionElderly = v
	case "trials":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("sweep: trials value %q is not an integer", raw)
		}
		s.Trials = n
	case "exits":
		preset, ok := exitPresets[raw]
		if !ok {
			return fmt.Errorf("sweep: unknown exit preset %q (want all, no-middle, front-only, rear-only or front-rear)", raw)
		}
		s.Layout.Exits = preset(s.Layout.Rows)
	default:
		return fmt.Errorf("sweep: unknown parameter %q (want occupancy, emergency, proportion-elderly, trials or exits)", param)
	}
	return nil
}
