// evacsim is a Monte Carlo simulator for aircraft cabin evacuation.
// It estimates evacuation times under varying exit availability, passenger
// mobility, baggage delay, panic and occupancy, and keeps a history of
// runs for comparison.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	// Global flags
	verbose  bool
	dbPath   string
	seedFlag int64

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "evacsim",
	Short: "Monte Carlo aircraft evacuation simulator",
	Long: `evacsim estimates aircraft evacuation times by running repeated
stochastic trials over a modeled cabin.

A scenario describes the cabin layout (rows, seats per row, exit rows) and
the passenger population (occupancy, proportion of elderly passengers,
emergency level). Two engines are available:

  queue  - per-exit queues with an exit throughput bottleneck
           (reports mean seconds per passenger)
  aisle  - spatial step simulation of passengers walking the aisle
           (reports total seconds until the cabin is empty)

Start with "evacsim scenario init" to write a baseline scenario file,
then "evacsim run scenario.yaml".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the evacsim version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("evacsim %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "run history database path (overrides scenario)")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "base RNG seed (overrides scenario when nonzero)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
