// Package main implements scenario file helpers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"evacsim/internal/config"
)

var scenarioForce bool

// scenarioCmd groups scenario file helpers
var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Manage scenario files",
}

// scenarioInitCmd writes the baseline scenario file
var scenarioInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the baseline scenario file",
	Long: `Writes the built-in baseline scenario (30 rows, 6 seats per row,
exits at rows 0, 15 and 29) to the given path, default scenario.yaml.
Edit the file and run it with "evacsim run <path>".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScenarioInit,
}

// scenarioCheckCmd validates a scenario file without running it
var scenarioCheckCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Validate a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: ok (%s, engine=%s, %d trials)\n", args[0], s.Name, s.Engine, s.Trials)
		return nil
	},
}

func init() {
	scenarioInitCmd.Flags().BoolVarP(&scenarioForce, "force", "f", false, "overwrite an existing file")
	scenarioCmd.AddCommand(scenarioInitCmd)
	scenarioCmd.AddCommand(scenarioCheckCmd)
}

func runScenarioInit(cmd *cobra.Command, args []string) error {
	path := "scenario.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if !scenarioForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	if err := config.DefaultScenario().Save(path); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
