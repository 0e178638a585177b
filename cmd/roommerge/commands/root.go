// Package commands implements the roommerge CLI's cobra command tree.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hanjaya/roommerge/internal/config"
	"github.com/hanjaya/roommerge/internal/dispatcher"
	"github.com/hanjaya/roommerge/internal/model"
	"github.com/hanjaya/roommerge/internal/optimizer"
	"github.com/hanjaya/roommerge/internal/rlog"
)

// Exit codes distinguish why a run failed; 0 always means success.
const (
	exitOK            = 0
	exitGeneric       = 1
	exitInvalidInput  = 2
	exitInternalError = 3
	exitCanceled      = 4
)

var flags struct {
	input        string
	output       string
	threshold    int
	timeLimitSec int
	verbose      bool
	configPath   string
}

var rootCmd = &cobra.Command{
	Use:   "roommerge",
	Short: "Merge under-booked exam rooms while respecting capacity and subject constraints",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&flags.input, "input", "i", "", "path to the input JSON row file (required)")
	rootCmd.Flags().StringVarP(&flags.output, "output", "o", "-", "path to write the JSON report to (\"-\" for stdout)")
	rootCmd.Flags().IntVar(&flags.threshold, "threshold", 0, "partition-size cutoff routed to the exact solver; 0 forces greedy for every partition (unset = use config/default)")
	rootCmd.Flags().IntVar(&flags.timeLimitSec, "time-limit", 0, "per-partition ILP wall-clock budget in seconds (unset = use config/default)")
	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.Flags().StringVar(&flags.configPath, "config", "", "path to a YAML config file (flags still take precedence)")

	rootCmd.MarkFlagRequired("input")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return exitOK
}

func run(cmd *cobra.Command, args []string) error {
	logger := rlog.New(flags.verbose)

	cfg := config.Defaults()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return &model.InvalidInputError{RoomID: flags.configPath, Reason: err.Error()}
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = flags.threshold
	}
	if cmd.Flags().Changed("time-limit") {
		cfg.TimeLimitSeconds = flags.timeLimitSec
	}

	rows, err := readRows(flags.input)
	if err != nil {
		return err
	}

	result, err := optimizer.Optimize(context.Background(), rows, cfg, logger)
	if err != nil {
		return err
	}

	return writeReport(flags.output, result)
}

func readRows(path string) ([]model.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.InvalidInputError{RoomID: path, Reason: err.Error()}
	}

	var rows []model.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &model.InvalidInputError{RoomID: path, Reason: fmt.Sprintf("parsing JSON: %v", err)}
	}
	return rows, nil
}

func writeReport(path string, result interface{}) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return &dispatcher.InternalError{Context: "marshaling report", Err: err}
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func exitCodeFor(err error) int {
	var invalidErr *model.InvalidInputError
	var internalErr *dispatcher.InternalError
	var canceledErr *dispatcher.Canceled

	switch {
	case errors.As(err, &invalidErr):
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidInput
	case errors.As(err, &internalErr):
		fmt.Fprintln(os.Stderr, err)
		return exitInternalError
	case errors.As(err, &canceledErr):
		fmt.Fprintln(os.Stderr, err)
		return exitCanceled
	default:
		fmt.Fprintln(os.Stderr, err)
		return exitGeneric
	}
}
