// Package roomilp formulates one partition's room-merging instance as the
// binary program of spec.md §4.3 and solves it with internal/ilp's
// branch-and-bound engine. It knows about rooms, students, and subjects;
// internal/ilp knows about none of that.
package roomilp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hanjaya/roommerge/internal/ilp"
	"github.com/hanjaya/roommerge/internal/model"
)

// workers bounds how many goroutines traverse the branch-and-bound
// enumeration tree concurrently for a single partition's solve. Partition
// parallelism is handled one level up, in internal/dispatcher, so this
// stays modest.
const workers = 4

func xName(i, j int) string { return fmt.Sprintf("x_%d_%d", i, j) }
func yName(j int) string    { return fmt.Sprintf("y_%d", j) }

// feasiblePair reports whether x_{i,j} is worth modeling at all: self-
// assignment is always allowed, and any other pair is only reachable if
// room j has room for i's students and hosts a different subject.
func feasiblePair(inst *model.Instance, i, j int) bool {
	if i == j {
		return true
	}
	return inst.Students[i] <= inst.Capacity[j] && !inst.SameSubject(i, j)
}

// Pack solves inst exactly under timeLimit. Degenerate instances (N ≤ 1)
// are resolved without building a model at all. Any solver failure —
// timeout without an incumbent, infeasibility, an engine error, or a
// decoded assignment that fails model.Validate — comes back as a
// *model.SolverError so the caller can fall back to the greedy packer.
//
// When logger has debug logging enabled (cmd/roommerge's --verbose), Pack
// attaches an ilp.TreeLogger to the model and emits a one-line summary of
// how many enumeration-tree nodes branch-and-bound explored; a nil logger
// skips this entirely, so the common path pays no instrumentation cost.
func Pack(ctx context.Context, inst *model.Instance, timeLimit time.Duration, logger *slog.Logger) (model.Assignment, error) {
	n := inst.N()
	if n == 0 {
		return model.Assignment{}, nil
	}
	if n == 1 {
		return model.Identity(1), nil
	}

	prob := ilp.NewProblem(workers)
	prob.Minimize()

	var tree *ilp.TreeLogger
	if logger != nil && logger.Enabled(ctx, slog.LevelDebug) {
		tree = ilp.NewTreeLogger()
		prob.Instrument(tree)
	}

	y := make([]*ilp.Variable, n)
	for j := 0; j < n; j++ {
		y[j] = prob.AddVariable(yName(j)).IsInteger().UpperBound(1)
		y[j].SetCoeff(1)
	}

	x := make(map[[2]int]*ilp.Variable)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !feasiblePair(inst, i, j) {
				continue
			}
			x[[2]int{i, j}] = prob.AddVariable(xName(i, j)).IsInteger().UpperBound(1)
		}
	}

	addAssignmentConstraints(prob, n, x)
	addOpenRoomConstraints(prob, n, x, y)
	addSelfHostingConstraints(prob, n, x, y)
	addCapacityConstraints(prob, inst, n, x, y)
	addSubjectDisjointnessConstraints(prob, inst, n, x)

	outcome, soln, err := prob.Solve(ctx, timeLimit)

	if tree != nil {
		logger.Debug("branch-and-bound search finished",
			slog.Int("rooms", n),
			slog.String("outcome", outcome.String()),
			slog.Int("nodes_explored", tree.NodeCount()),
		)
	}

	switch outcome {
	case ilp.Optimal, ilp.FeasibleWithinTimeLimit:
	case ilp.Infeasible:
		return nil, &model.SolverError{Kind: model.SolverInfeasible, Err: err}
	case ilp.TimeLimit:
		return nil, &model.SolverError{Kind: model.SolverTimeLimit, Err: err}
	default:
		return nil, &model.SolverError{Kind: model.SolverEngineError, Err: err}
	}

	assign, err := decode(inst, n, x, soln)
	if err != nil {
		return nil, &model.SolverError{Kind: model.SolverInvalidSolution, Err: err}
	}

	if err := model.Validate(inst, assign); err != nil {
		return nil, &model.SolverError{Kind: model.SolverInvalidSolution, Err: err}
	}

	return assign, nil
}

// C1: every source is assigned to exactly one destination.
func addAssignmentConstraints(prob *ilp.Problem, n int, x map[[2]int]*ilp.Variable) {
	for i := 0; i < n; i++ {
		c := prob.AddConstraint()
		for j := 0; j < n; j++ {
			if v, ok := x[[2]int{i, j}]; ok {
				c.AddExpression(1, v)
			}
		}
		c.EqualTo(1)
	}
}

// C2: an assignment into j is only legal if j is open.
func addOpenRoomConstraints(prob *ilp.Problem, n int, x map[[2]int]*ilp.Variable, y []*ilp.Variable) {
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v, ok := x[[2]int{i, j}]
			if !ok {
				continue
			}
			prob.AddConstraint().AddExpression(1, v).AddExpression(-1, y[j]).SmallerThanOrEqualTo(0)
		}
	}
}

// C3: a room is open exactly when it hosts itself.
func addSelfHostingConstraints(prob *ilp.Problem, n int, x map[[2]int]*ilp.Variable, y []*ilp.Variable) {
	for j := 0; j < n; j++ {
		xjj := x[[2]int{j, j}]
		prob.AddConstraint().AddExpression(1, y[j]).AddExpression(-1, xjj).EqualTo(0)
	}
}

// C4: a room's hosted students may not exceed its capacity while open. An
// overfull room is bounded by its own head count instead, so it can stay
// open hosting itself but cannot take in any source with students.
func addCapacityConstraints(prob *ilp.Problem, inst *model.Instance, n int, x map[[2]int]*ilp.Variable, y []*ilp.Variable) {
	for j := 0; j < n; j++ {
		capJ := inst.Capacity[j]
		if inst.Students[j] > capJ {
			capJ = inst.Students[j]
		}
		c := prob.AddConstraint()
		for i := 0; i < n; i++ {
			if v, ok := x[[2]int{i, j}]; ok {
				c.AddExpression(float64(inst.Students[i]), v)
			}
		}
		c.AddExpression(float64(-capJ), y[j])
		c.SmallerThanOrEqualTo(0)
	}
}

// C5: no destination may host the same subject twice.
func addSubjectDisjointnessConstraints(prob *ilp.Problem, inst *model.Instance, n int, x map[[2]int]*ilp.Variable) {
	bySubject := make(map[string][]int)
	for i := 0; i < n; i++ {
		s := inst.CanonSubject(i)
		bySubject[s] = append(bySubject[s], i)
	}

	for j := 0; j < n; j++ {
		for _, rows := range bySubject {
			var vars []*ilp.Variable
			for _, i := range rows {
				if v, ok := x[[2]int{i, j}]; ok {
					vars = append(vars, v)
				}
			}
			if len(vars) == 0 {
				continue
			}
			c := prob.AddConstraint()
			for _, v := range vars {
				c.AddExpression(1, v)
			}
			c.SmallerThanOrEqualTo(1)
		}
	}
}

// decode reads off, for each source i, the unique destination j with
// x_{i,j} == 1.
func decode(inst *model.Instance, n int, x map[[2]int]*ilp.Variable, soln *ilp.Solution) (model.Assignment, error) {
	assign := make(model.Assignment, n)
	for i := 0; i < n; i++ {
		chosen := -1
		for j := 0; j < n; j++ {
			if _, ok := x[[2]int{i, j}]; !ok {
				continue
			}
			val, err := soln.GetValueFor(xName(i, j))
			if err != nil {
				return nil, err
			}
			if val > 0.5 {
				chosen = j
				break
			}
		}
		if chosen < 0 {
			return nil, fmt.Errorf("room %s (index %d) has no assigned destination in the decoded solution", inst.Rooms[i], i)
		}
		assign[i] = chosen
	}
	return assign, nil
}
