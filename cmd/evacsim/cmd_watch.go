// Package main implements the watch command: rerun a scenario whenever
// its file changes.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"evacsim/internal/config"
)

// watchDebounce collapses the burst of events editors emit on save.
const watchDebounce = 500 * time.Millisecond

// watchCmd reruns a scenario on every file change
var watchCmd = &cobra.Command{
	Use:   "watch <scenario.yaml>",
	Short: "Rerun a scenario whenever the file changes",
	Long: `Watches the scenario file and reruns it after each save, printing a
fresh summary. Useful while tuning scenario parameters. Runs are not
recorded in the history database; use "evacsim run" for runs worth keeping.

Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save,
	// which would otherwise drop the watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if err := watchRunOnce(cmd, path); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	fmt.Printf("watching %s\n", path)

	ctx := cmd.Context()
	var lastRun time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if time.Since(lastRun) < watchDebounce {
				continue
			}
			lastRun = time.Now()

			logger.Debug("scenario changed", zap.String("path", path))
			fmt.Printf("\n%s changed, rerunning\n", path)
			if err := watchRunOnce(cmd, path); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

func watchRunOnce(cmd *cobra.Command, path string) error {
	s, err := config.Load(path)
	if err != nil {
		return err
	}
	applyGlobalOverrides(s)

	summary, _, elapsed, err := executeScenario(cmd, s)
	if err != nil {
		return err
	}
	printSummary(s, summary, elapsed)
	return nil
}
