package ilp

// TODO: see Andersen 1995 for a nice enumeration of simple presolving operations.

// preprocessor implements the one presolve pass currently wired in:
// eliminating variables whose bounds have collapsed to a single point
// (lower == upper). internal/roomilp declares every y_j/x_i,j variable
// with bounds [0, 1], so this pass leaves its model unchanged.
type preprocessor struct{}

func newPreprocessor() *preprocessor {
	return &preprocessor{}
}

// preSolve returns a reduced Problem with fixed variables removed from
// both the variable list and every constraint's expressions (adjusting
// each constraint's RHS to account for the fixed contribution), plus a
// map from each eliminated variable to its fixed value so the caller can
// reinstate it in the final solution. If nothing is fixed, p itself is
// returned unchanged.
func (pp *preprocessor) preSolve(p *Problem) (*Problem, map[*Variable]float64) {
	fixed := make(map[*Variable]float64)

	var keptVars []*Variable
	for _, v := range p.variables {
		if isFixed(v) {
			fixed[v] = v.lower
			continue
		}
		keptVars = append(keptVars, v)
	}

	if len(fixed) == 0 {
		return p, fixed
	}

	reduced := &Problem{
		maximize:        p.maximize,
		variables:       keptVars,
		workers:         p.workers,
		instrumentation: p.instrumentation,
	}

	for _, c := range p.constraints {
		nc := &Constraint{
			rhs:        c.rhs,
			inequality: c.inequality,
			problem:    reduced,
		}
		for _, e := range c.expressions {
			if val, ok := fixed[e.variable]; ok {
				// bi := bi - aij * xj for the now-constant variable
				nc.rhs -= e.coef * val
				continue
			}
			nc.expressions = append(nc.expressions, e)
		}
		reduced.constraints = append(reduced.constraints, nc)
	}

	return reduced, fixed
}

// isFixed reports whether the variable's bounds have collapsed to a
// single value.
func isFixed(v *Variable) bool {
	return v.lower == v.upper
}
