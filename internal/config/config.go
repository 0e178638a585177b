// Package config holds the core's tunable defaults (spec.md §6): the
// size threshold that routes a partition to the exact or greedy packer,
// the ILP engine's wall-clock budget, and the dispatcher's worker pool
// size.
package config

import "runtime"

// Config is passed into internal/optimizer.Optimize and internal/dispatcher.Run.
// Precedence when loaded by cmd/roommerge is flags > YAML file > Defaults().
type Config struct {
	// Threshold is the partition-size cutoff for routing to the exact
	// solver. A partition with more than Threshold rooms goes straight
	// to the greedy packer. Threshold = 0 forces greedy for everything;
	// a very large value forces the exact solver everywhere.
	Threshold int `yaml:"threshold"`

	// TimeLimitSeconds bounds each partition's ILP solve.
	TimeLimitSeconds int `yaml:"time_limit_seconds"`

	// WorkerCount bounds how many partitions are solved concurrently.
	WorkerCount int `yaml:"worker_count"`
}

// Defaults returns the built-in configuration spec.md §6 specifies.
func Defaults() Config {
	return Config{
		Threshold:        80,
		TimeLimitSeconds: 30,
		WorkerCount:      runtime.NumCPU(),
	}
}
