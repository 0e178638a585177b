package ilp

import "math"

// BranchHeuristic selects which fractional variable branching.go picks
// next when a room-merge relaxation (y_j/x_{i,j} in internal/roomilp)
// isn't integral. The teacher's engine offered a naive round-robin
// heuristic and a most-fractional heuristic alongside this one; neither
// is reachable from internal/roomilp.Pack, which never configures a
// Problem's heuristic and so always runs maxFun, so they were trimmed
// rather than carried as unreachable surface.
type BranchHeuristic int

const (
	BRANCH_MAXFUN BranchHeuristic = 0
)

// maxFunBranchPoint picks the integer-constrained variable with the
// largest absolute objective coefficient, on the premise that branching
// on the variable that moves the objective the most tightens the bound
// fastest.
func maxFunBranchPoint(c []float64, integralityConstraints []bool) int {
	if len(c) != len(integralityConstraints) {
		panic("number of variables not equal to number of integrality constraints")
	}

	var candidateValue float64
	currentCandidate := 0

	for i, v := range c {
		if integralityConstraints[i] {
			// we use greater-than-or-equal-to to ensure an integer-constrained variable is selected if one is present, even if its coefficient is 0.
			if math.Abs(v) >= candidateValue {
				currentCandidate = i
				candidateValue = math.Abs(v)
			}
		}
	}

	return currentCandidate
}
