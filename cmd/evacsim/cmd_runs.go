// Package main implements run history commands backed by the SQLite store.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"evacsim/internal/config"
	"evacsim/internal/store"
)

var runsListLimit int

// runsCmd manages recorded runs
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded simulation runs",
	Long: `List and inspect runs recorded in the history database.

Subcommands:
  list    - list recorded runs, newest first
  show    - show one run, including its scenario document
  delete  - remove a run`,
	RunE: runRunsList,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsListCmd.Flags().IntVar(&runsListLimit, "limit", 20, "maximum runs to list (0 = all)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
}

func openRunStore() (*store.RunStore, error) {
	path := dbPath
	if path == "" {
		path = config.DefaultScenario().Runtime.DBPath
	}
	return store.Open(path)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	st, err := openRunStore()
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.ListRuns(runsListLimit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	fmt.Printf("%-8s %-16s %-22s %-6s %7s %10s %10s\n",
		"ID", "WHEN", "SCENARIO", "ENGINE", "TRIALS", "MEAN", "P95")
	fmt.Println(strings.Repeat("─", 86))
	for _, r := range recs {
		name := r.Scenario
		if len(name) > 22 {
			name = name[:19] + "..."
		}
		fmt.Printf("%-8s %-16s %-22s %-6s %7d %10.2f %10.2f\n",
			shortID(r.ID), r.CreatedAt.Format("2006-01-02 15:04"), name,
			r.Engine, r.Trials, r.Mean, r.P95)
	}
	fmt.Printf("Total: %d runs\n", len(recs))
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	st, err := openRunStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.GetRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Run %s\n", rec.ID)
	fmt.Printf("  recorded  %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("  scenario  %s\n", rec.Scenario)
	fmt.Printf("  engine    %s, %d trials, seed %d\n", rec.Engine, rec.Trials, rec.Seed)
	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("  mean    %8.2f\n", rec.Mean)
	fmt.Printf("  stddev  %8.2f\n", rec.StdDev)
	fmt.Printf("  min/max %8.2f / %.2f\n", rec.Min, rec.Max)
	fmt.Printf("  p50     %8.2f\n", rec.P50)
	fmt.Printf("  p90     %8.2f\n", rec.P90)
	fmt.Printf("  p95     %8.2f\n", rec.P95)
	fmt.Printf("  p99     %8.2f\n", rec.P99)
	fmt.Println(strings.Repeat("─", 50))
	fmt.Println("Scenario document:")
	fmt.Println(indent(rec.ScenarioYAML, "  "))
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	st, err := openRunStore()
	if err != nil {
		return err
	}
	defer st.Close()

	// Resolve prefixes so short ids from `runs list` can be deleted.
	rec, err := st.GetRun(args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteRun(rec.ID); err != nil {
		return err
	}
	fmt.Printf("deleted run %s\n", shortID(rec.ID))
	return nil
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
