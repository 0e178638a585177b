// Package optimizer is the core's single public entry point, gluing
// partitioning, dispatch, and report assembly into one call.
package optimizer

import (
	"context"
	"log/slog"

	"github.com/hanjaya/roommerge/internal/config"
	"github.com/hanjaya/roommerge/internal/dispatcher"
	"github.com/hanjaya/roommerge/internal/model"
	"github.com/hanjaya/roommerge/internal/report"
	"github.com/hanjaya/roommerge/internal/rlog"
)

// Optimize partitions rows by (slot, campus), solves every partition
// concurrently under cfg, and assembles the aggregate report. logger may
// be nil, in which case a default non-verbose logger is used.
func Optimize(ctx context.Context, rows []model.Row, cfg config.Config, logger *slog.Logger) (report.Result, error) {
	if logger == nil {
		logger = rlog.New(false)
	}

	groups := model.Partition(rows)

	details, err := dispatcher.Run(ctx, groups, cfg, logger)
	if err != nil {
		return report.Result{}, err
	}

	return report.Assemble(details), nil
}
