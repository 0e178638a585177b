package greedy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanjaya/roommerge/internal/greedy"
	"github.com/hanjaya/roommerge/internal/model"
)

func build(t *testing.T, rows []model.Row) *model.Instance {
	t.Helper()
	inst, err := model.BuildInstance(rows)
	require.NoError(t, err)
	return inst
}

func row(id, subject string, students, capacity int) model.Row {
	return model.Row{RoomID: id, RoomName: id, Subject: subject, Students: students, Capacity: capacity}
}

// Scenario A — trivial merge.
func TestPack_TrivialMerge(t *testing.T) {
	inst := build(t, []model.Row{
		row("R1", "MATH", 10, 50),
		row("R2", "PHYS", 20, 50),
	})

	a := greedy.Pack(inst)
	require.NoError(t, model.Validate(inst, a))
	assert.Len(t, a.OpenRooms(), 1)
}

// Scenario B — subject collision blocks merge.
func TestPack_SubjectCollisionBlocks(t *testing.T) {
	inst := build(t, []model.Row{
		row("R1", "MATH", 10, 50),
		row("R2", "MATH", 20, 50),
	})

	a := greedy.Pack(inst)
	require.NoError(t, model.Validate(inst, a))
	assert.Len(t, a.OpenRooms(), 2)
}

// Scenario C — capacity blocks merge.
func TestPack_CapacityBlocks(t *testing.T) {
	inst := build(t, []model.Row{
		row("R1", "MATH", 40, 50),
		row("R2", "PHYS", 40, 50),
	})

	a := greedy.Pack(inst)
	require.NoError(t, model.Validate(inst, a))
	assert.Len(t, a.OpenRooms(), 2)
}

// Scenario D — all three rooms fit into one.
func TestPack_AllThreeMerge(t *testing.T) {
	inst := build(t, []model.Row{
		row("R1", "A", 10, 100),
		row("R2", "B", 60, 100),
		row("R3", "C", 30, 40),
	})

	a := greedy.Pack(inst)
	require.NoError(t, model.Validate(inst, a))
	assert.Len(t, a.OpenRooms(), 1)
}

// Invariant 11: all rows share one subject, no merge is legal.
func TestPack_AllSameSubjectNoMerge(t *testing.T) {
	inst := build(t, []model.Row{
		row("R1", "MATH", 5, 50),
		row("R2", "MATH", 5, 50),
		row("R3", "MATH", 5, 50),
	})

	a := greedy.Pack(inst)
	require.NoError(t, model.Validate(inst, a))
	assert.Len(t, a.OpenRooms(), 3)
}

// Invariant 12: an overfull row stays self-hosted, others may still merge.
func TestPack_OverfullRowStaysSelfHosted(t *testing.T) {
	inst := build(t, []model.Row{
		row("R1", "MATH", 100, 50), // overfull
		row("R2", "PHYS", 10, 50),
		row("R3", "CHEM", 10, 50),
	})

	a := greedy.Pack(inst)
	require.NoError(t, model.Validate(inst, a))
	assert.Equal(t, 0, a[0])
	assert.Len(t, a.OpenRooms(), 2)
}

// Invariants 9/10 boundary behaviors.
func TestPack_DegenerateSizes(t *testing.T) {
	assert.Equal(t, model.Assignment{}, greedy.Pack(build(t, nil)))
	assert.Equal(t, model.Assignment{0}, greedy.Pack(build(t, []model.Row{row("R1", "A", 5, 10)})))
}

// Invariant 8: determinism across repeated runs on the same instance.
func TestPack_Deterministic(t *testing.T) {
	inst := build(t, []model.Row{
		row("R1", "A", 12, 30),
		row("R2", "B", 18, 30),
		row("R3", "C", 9, 20),
		row("R4", "D", 21, 25),
		row("R5", "E", 3, 15),
	})

	first := greedy.Pack(inst)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, greedy.Pack(inst))
	}
}

// Invariant 7: re-running on the kept-room structure (merged sources
// removed) yields no further consolidation.
func TestPack_RoundTripNoFurtherSavings(t *testing.T) {
	inst := build(t, []model.Row{
		row("R1", "A", 10, 100),
		row("R2", "B", 60, 100),
		row("R3", "C", 30, 40),
	})

	a := greedy.Pack(inst)
	open := a.OpenRooms()

	var reducedRows []model.Row
	for _, j := range open {
		reducedRows = append(reducedRows, row(inst.Rooms[j], inst.Subject[j], studentsHosted(inst, a, j), inst.Capacity[j]))
	}

	reduced := build(t, reducedRows)
	a2 := greedy.Pack(reduced)
	assert.Len(t, a2.OpenRooms(), len(reduced.Rooms))
}

func studentsHosted(inst *model.Instance, a model.Assignment, j int) int {
	total := 0
	for i, dest := range a {
		if dest == j {
			total += inst.Students[i]
		}
	}
	return total
}
