// Package dispatcher fans a run out across partitions (spec.md §4.4/§5):
// one goroutine per partition, bounded by a worker pool, each routing to
// the exact solver or the greedy packer and falling back on solver
// failure.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hanjaya/roommerge/internal/config"
	"github.com/hanjaya/roommerge/internal/greedy"
	"github.com/hanjaya/roommerge/internal/model"
	"github.com/hanjaya/roommerge/internal/report"
	"github.com/hanjaya/roommerge/internal/rlog"
	"github.com/hanjaya/roommerge/internal/roomilp"
)

// Run solves every group concurrently and returns their PartitionDetails
// in deterministic (slot, campus) order. A panic in any worker, or an
// error from BuildInstance/the exact solver that isn't a recoverable
// *model.SolverError, aborts the whole run.
func Run(ctx context.Context, groups []model.RowGroup, cfg config.Config, logger *slog.Logger) ([]report.PartitionDetail, error) {
	model.SortKeys(groups)

	details := make([]report.PartitionDetail, len(groups))

	workers := cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for idx, group := range groups {
		idx, group := idx, group
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &InternalError{
						Context: partitionLabel(group.Key),
						Err:     fmt.Errorf("panic: %v", r),
					}
				}
			}()

			detail, solveErr := solveOne(gctx, group, cfg, logger)
			if solveErr != nil {
				return solveErr
			}
			details[idx] = detail
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var internalErr *InternalError
		var invalidErr *model.InvalidInputError
		var canceledErr *Canceled
		if errors.As(err, &internalErr) || errors.As(err, &invalidErr) || errors.As(err, &canceledErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, &Canceled{Err: ctx.Err()}
		}
		return nil, err
	}

	return details, nil
}

// solveOne routes one partition to the exact solver when its size is
// within cfg.Threshold, falling back to the greedy packer on a
// *model.SolverError whose kind recoverableByGreedy accepts; any other
// solver failure aborts the run as an InternalError. Partitions of size 0
// or 1 never reach a solver at all: the identity assignment is already
// optimal.
func solveOne(ctx context.Context, group model.RowGroup, cfg config.Config, logger *slog.Logger) (report.PartitionDetail, error) {
	inst, err := model.BuildInstance(group.Rows)
	if err != nil {
		return report.PartitionDetail{}, err
	}

	n := inst.N()
	if n <= 1 {
		return report.BuildDetail(group.Key, inst, model.Identity(n)), nil
	}

	if n <= cfg.Threshold {
		timeLimit := time.Duration(cfg.TimeLimitSeconds) * time.Second
		assign, err := roomilp.Pack(ctx, inst, timeLimit, logger)
		if err == nil {
			return report.BuildDetail(group.Key, inst, assign), nil
		}

		// roomilp.Pack's time-limit outcome conflates the per-partition
		// timeLimit deadline with the caller's own ctx being canceled
		// (both surface through context.Canceled/DeadlineExceeded as the
		// same Outcome). Check the outer ctx here, before treating the
		// failure as solver-local and falling back to greedy: a caller
		// cancellation must propagate (spec.md §7), not silently degrade
		// into a "successful" greedy-packed partition.
		if ctx.Err() != nil {
			return report.PartitionDetail{}, &Canceled{Err: ctx.Err()}
		}

		var solverErr *model.SolverError
		if !errors.As(err, &solverErr) {
			return report.PartitionDetail{}, &InternalError{Context: partitionLabel(group.Key), Err: err}
		}

		if !recoverableByGreedy(solverErr.Kind) {
			return report.PartitionDetail{}, &InternalError{Context: partitionLabel(group.Key), Err: solverErr.WithPartition(partitionLabel(group.Key))}
		}

		rlog.SolverFallback(logger, group.Key.SlotKey, group.Key.Campus, solverErr.WithPartition(partitionLabel(group.Key)))
	}

	return report.BuildDetail(group.Key, inst, greedy.Pack(inst)), nil
}

func partitionLabel(key model.PartitionKey) string {
	return fmt.Sprintf("%s/%s", key.SlotKey, key.Campus)
}

// recoverableByGreedy reports whether a *model.SolverError of kind is one
// the dispatcher should paper over with the greedy packer. spec.md §4.4
// lists exactly three triggers for the fallback: an exception (engine
// error), a timeout without incumbent, or a decoded assignment that fails
// validation. SolverInfeasible is deliberately excluded — spec.md §4.3
// says infeasibility "must not occur" since the identity assignment is
// always feasible, so the engine reporting it means the formulation or
// the engine itself is broken, not something greedy can work around.
func recoverableByGreedy(kind model.SolverKind) bool {
	switch kind {
	case model.SolverTimeLimit, model.SolverEngineError, model.SolverInvalidSolution:
		return true
	default:
		return false
	}
}
