package greedy

import "github.com/hanjaya/roommerge/internal/model"

// fitMode selects how a strategy scores and picks among feasible
// destinations for one source room.
type fitMode int

const (
	fitBest fitMode = iota
	fitFirst
	fitWorst
)

// state is one strategy's private bookkeeping; nothing here is shared
// across strategies or across runs.
type state struct {
	assign    model.Assignment
	remaining []int
	hosted    []map[string]bool
	// hostCount tracks how many sources currently name j as destination,
	// including j itself. Once a room has absorbed another source it no
	// longer attempts to move itself: it has become a consolidation
	// target, not a candidate for relocation.
	hostCount []int
}

func newState(inst *model.Instance) *state {
	n := inst.N()
	s := &state{
		assign:    model.Identity(n),
		remaining: make([]int, n),
		hosted:    make([]map[string]bool, n),
		hostCount: make([]int, n),
	}
	for j := 0; j < n; j++ {
		s.remaining[j] = inst.Capacity[j] - inst.Students[j]
		s.hosted[j] = map[string]bool{inst.CanonSubject(j): true}
		s.hostCount[j] = 1
	}
	return s
}

func (s *state) isOpen(j int) bool {
	return s.hostCount[j] > 0
}

func (s *state) place(inst *model.Instance, i, j int) {
	s.assign[i] = j
	s.remaining[j] -= inst.Students[i]
	s.hosted[j][inst.CanonSubject(i)] = true
	s.hostCount[j]++
	s.hostCount[i]--
}

// candidates returns the feasible destinations for source i under the
// current state, per spec §4.2 step 1.
func (s *state) candidates(inst *model.Instance, i int) []int {
	var out []int
	for j := 0; j < inst.N(); j++ {
		if j == i || !s.isOpen(j) {
			continue
		}
		if inst.Students[i] > s.remaining[j] {
			continue
		}
		if s.hosted[j][inst.CanonSubject(i)] {
			continue
		}
		out = append(out, j)
	}
	return out
}

func run(inst *model.Instance, ord []int, mode fitMode) model.Assignment {
	s := newState(inst)

	for _, i := range ord {
		if s.assign[i] != i || s.hostCount[i] != 1 {
			// already moved, or already absorbed another source and so
			// has become a consolidation target rather than a mover
			continue
		}

		cands := s.candidates(inst, i)
		if len(cands) == 0 {
			continue
		}

		// candidates() yields ascending room indices, so cands[0] is
		// already the first-fit pick and the lowest-index tie-break.
		best := cands[0]
		if mode != fitFirst {
			bestSlack := s.remaining[best] - inst.Students[i]
			for _, j := range cands[1:] {
				slack := s.remaining[j] - inst.Students[i]
				if mode == fitBest && slack < bestSlack {
					best, bestSlack = j, slack
				} else if mode == fitWorst && slack > bestSlack {
					best, bestSlack = j, slack
				}
			}
		}

		s.place(inst, i, best)
	}

	return s.assign
}

func runBestFit(inst *model.Instance, ord []int) model.Assignment  { return run(inst, ord, fitBest) }
func runFirstFit(inst *model.Instance, ord []int) model.Assignment { return run(inst, ord, fitFirst) }
func runWorstFit(inst *model.Instance, ord []int) model.Assignment { return run(inst, ord, fitWorst) }
