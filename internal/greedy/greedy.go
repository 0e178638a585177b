// Package greedy implements the multi-strategy constructive bin-packer
// (spec §4.2): five placement heuristics run independently, the best by
// open-room count wins. No strategy shares mutable state with another —
// each gets its own remaining-capacity and hosted-subject bookkeeping and
// returns its own assignment.
package greedy

import (
	"sort"

	"github.com/hanjaya/roommerge/internal/model"
)

// order picks the sequence in which source rooms are offered to a
// strategy.
type order func(inst *model.Instance) []int

type strategy struct {
	order order
	mode  fitMode
}

// The five strategies from spec §4.2, in the order listed there.
var strategies = []strategy{
	{order: byStudentsAsc, mode: fitBest},
	{order: byStudentsDesc, mode: fitBest},
	{order: byStudentsDesc, mode: fitFirst},
	{order: byStudentsDesc, mode: fitWorst},
	{order: byCapacityDesc, mode: fitBest},
}

// Pack runs all five strategies and returns the best resulting
// assignment. It never fails: the identity assignment is always a legal
// candidate, so the result is never worse than identity.
func Pack(inst *model.Instance) model.Assignment {
	n := inst.N()
	if n <= 1 {
		return model.Identity(n)
	}

	best := model.Identity(n)
	bestOpen := len(best)
	bestSlack := totalSlack(inst, best)

	for _, s := range strategies {
		candidate := run(inst, s.order(inst), s.mode)

		open := len(candidate.OpenRooms())
		slack := totalSlack(inst, candidate)

		if better(open, slack, candidate, bestOpen, bestSlack, best) {
			best = candidate
			bestOpen = open
			bestSlack = slack
		}
	}

	return best
}

// better implements the tie-break order from spec §4.2: fewer open rooms
// wins; ties broken by lower total remaining capacity, then by
// lexicographic order of the assignment vector for determinism.
func better(open, slack int, a model.Assignment, bestOpen, bestSlack int, best model.Assignment) bool {
	if open != bestOpen {
		return open < bestOpen
	}
	if slack != bestSlack {
		return slack < bestSlack
	}
	return lexLess(a, best)
}

func lexLess(a, b model.Assignment) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func totalSlack(inst *model.Instance, a model.Assignment) int {
	remaining := make([]int, inst.N())
	for j, cap := range inst.Capacity {
		remaining[j] = cap
	}
	for i, dest := range a {
		remaining[dest] -= inst.Students[i]
	}
	total := 0
	for _, dest := range a.OpenRooms() {
		total += remaining[dest]
	}
	return total
}

func byStudentsAsc(inst *model.Instance) []int {
	idx := identityOrder(inst.N())
	sort.SliceStable(idx, func(a, b int) bool {
		return inst.Students[idx[a]] < inst.Students[idx[b]]
	})
	return idx
}

func byStudentsDesc(inst *model.Instance) []int {
	idx := identityOrder(inst.N())
	sort.SliceStable(idx, func(a, b int) bool {
		return inst.Students[idx[a]] > inst.Students[idx[b]]
	})
	return idx
}

func byCapacityDesc(inst *model.Instance) []int {
	idx := identityOrder(inst.N())
	sort.SliceStable(idx, func(a, b int) bool {
		return inst.Capacity[idx[a]] > inst.Capacity[idx[b]]
	})
	return idx
}

func identityOrder(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
