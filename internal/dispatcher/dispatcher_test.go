package dispatcher_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanjaya/roommerge/internal/config"
	"github.com/hanjaya/roommerge/internal/dispatcher"
	"github.com/hanjaya/roommerge/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func row(id, slot, campus, subject string, students, capacity int) model.Row {
	return model.Row{RoomID: id, RoomName: id, SlotKey: slot, Campus: campus, Subject: subject, Students: students, Capacity: capacity}
}

// Scenario E — two disjoint partitions are solved independently and come
// back in deterministic (slot, campus) order regardless of input order.
func TestRun_DisjointPartitionsSolveIndependently(t *testing.T) {
	rows := []model.Row{
		row("B1", "slot2", "campusB", "HIST", 10, 50),
		row("B2", "slot2", "campusB", "HIST", 10, 50), // same subject: must not merge
		row("A1", "slot1", "campusA", "MATH", 10, 50),
		row("A2", "slot1", "campusA", "PHYS", 20, 50), // different subject: can merge
	}
	groups := model.Partition(rows)
	cfg := config.Config{Threshold: 80, TimeLimitSeconds: 5, WorkerCount: 2}

	details, err := dispatcher.Run(context.Background(), groups, cfg, discardLogger())
	require.NoError(t, err)
	require.Len(t, details, 2)

	assert.Equal(t, "slot1", details[0].SlotKey)
	assert.Equal(t, "campusA", details[0].Campus)
	assert.Equal(t, 1, details[0].Final)

	assert.Equal(t, "slot2", details[1].SlotKey)
	assert.Equal(t, "campusB", details[1].Campus)
	assert.Equal(t, 2, details[1].Final)
}

// Scenario F — a zero time limit forces the exact solver to fail, and the
// dispatcher must recover by falling back to the greedy packer rather
// than returning an error.
func TestRun_FallsBackToGreedyOnSolverFailure(t *testing.T) {
	rows := []model.Row{
		row("R1", "slot1", "", "A", 10, 100),
		row("R2", "slot1", "", "B", 60, 100),
		row("R3", "slot1", "", "C", 30, 40),
	}
	groups := model.Partition(rows)
	cfg := config.Config{Threshold: 80, TimeLimitSeconds: 0, WorkerCount: 1}

	details, err := dispatcher.Run(context.Background(), groups, cfg, discardLogger())
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.LessOrEqual(t, details[0].Final, details[0].Initial)
}

// A partition above Threshold always goes straight to the greedy packer.
func TestRun_AboveThresholdUsesGreedy(t *testing.T) {
	rows := []model.Row{
		row("R1", "slot1", "", "MATH", 10, 50),
		row("R2", "slot1", "", "PHYS", 20, 50),
	}
	groups := model.Partition(rows)
	cfg := config.Config{Threshold: 0, TimeLimitSeconds: 5, WorkerCount: 1}

	details, err := dispatcher.Run(context.Background(), groups, cfg, discardLogger())
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, 1, details[0].Final)
}

// A malformed row aborts the whole run with the original InvalidInputError.
func TestRun_InvalidInputAbortsRun(t *testing.T) {
	rows := []model.Row{row("R1", "slot1", "", "MATH", -1, 50)}
	groups := model.Partition(rows)
	cfg := config.Defaults()

	_, err := dispatcher.Run(context.Background(), groups, cfg, discardLogger())
	require.Error(t, err)

	var invalidErr *model.InvalidInputError
	require.ErrorAs(t, err, &invalidErr)
}

func TestRun_EmptyInput(t *testing.T) {
	cfg := config.Defaults()
	details, err := dispatcher.Run(context.Background(), nil, cfg, discardLogger())
	require.NoError(t, err)
	assert.Empty(t, details)
}

// A context canceled before (or during) a partition's solve must
// propagate as *dispatcher.Canceled rather than silently degrade into a
// greedy-packed "success" (spec.md §7: "Canceled: ... Propagates.").
func TestRun_RespectsContextCancellation(t *testing.T) {
	rows := []model.Row{
		row("R1", "slot1", "", "A", 10, 100),
		row("R2", "slot1", "", "B", 60, 100),
		row("R3", "slot1", "", "C", 30, 40),
	}
	groups := model.Partition(rows)
	cfg := config.Config{Threshold: 80, TimeLimitSeconds: 5, WorkerCount: 1}

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := dispatcher.Run(ctx, groups, cfg, discardLogger())
	require.Error(t, err)

	var canceledErr *dispatcher.Canceled
	require.ErrorAs(t, err, &canceledErr)
}
