package ilp

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// TODO: variable bounds are always treated as nonnegative; there is no
// support for variables unrestricted in sign.
// TODO: branch-and-bound parallelism only splits work across the subproblem
// queue; there is no pseudo-cost-based variable selection.

// Problem is the abstract MILP problem representation: a builder for
// variables, linear constraints, and an objective, independent of how it
// is eventually solved.
type Problem struct {
	// minimizes by default
	maximize bool

	// the problem structure
	variables   []*Variable
	constraints []*Constraint

	// number of workers to traverse the enumeration tree with
	workers int

	instrumentation BnbMiddleware
}

// A variable of the MILP problem.
type Variable struct {
	// variable name for human reference
	name string

	// coefficient of the variable in the objective function
	coefficient float64

	// integrality constraint
	integer bool

	// bounds
	upper float64
	lower float64
}

// an expression of a variable and an arbitrary float for use in defining constraints
// e.g. "-1 * x1"
type expression struct {
	coef     float64
	variable *Variable
}

type Constraint struct {
	// these expressions will be summed together to form the left-hand-side of the constraint
	expressions []expression

	// right-hand-side of the constraint
	rhs float64

	// an equality constraint by default
	inequality bool

	// store a reference to the problem
	problem *Problem
}

// NewProblem initiates a new MILP problem abstraction. workers controls
// how many goroutines traverse the branch-and-bound enumeration tree
// concurrently; 1 means sequential search.
func NewProblem(workers int) *Problem {
	if workers <= 0 {
		workers = 1
	}
	return &Problem{
		workers:         workers,
		instrumentation: dummyMiddleware{},
	}
}

// Instrument attaches a BnbMiddleware to observe branch-and-bound
// decisions as the search proceeds (e.g. a TreeLogger for --verbose
// diagnostics). The default is a no-op.
func (p *Problem) Instrument(m BnbMiddleware) {
	p.instrumentation = m
}

// add a variable and return a reference to that variable.
// Defaults to no integrality constraint and an objective function coefficient of 0
func (p *Problem) AddVariable(name string) *Variable {

	v := Variable{
		name:        name,
		coefficient: 0,
		integer:     false,
		upper:       math.Inf(1),
		lower:       0,
	}

	p.variables = append(p.variables, &v)

	return &v
}

// SetCoeff sets the value of the variable in the objective function
func (v *Variable) SetCoeff(coef float64) *Variable {
	v.coefficient = coef
	return v
}

func (v *Variable) IsInteger() *Variable {
	v.integer = true
	return v
}

// UpperBound sets the inclusive upper bound of this variable. Input must be positive.
func (v *Variable) UpperBound(bound float64) *Variable {
	v.upper = bound
	return v
}

// LowerBound sets the inclusive lower bound of this variable. Input must be positive.
func (v *Variable) LowerBound(bound float64) *Variable {
	v.lower = bound
	return v
}

func (p *Problem) AddConstraint() *Constraint {
	c := &Constraint{
		problem: p,
	}
	p.constraints = append(p.constraints, c)

	return c
}

func (c *Constraint) EqualTo(val float64) *Constraint {
	c.inequality = false
	c.rhs = val
	return c
}

func (c *Constraint) SmallerThanOrEqualTo(val float64) *Constraint {
	c.inequality = true
	c.rhs = val
	return c
}

func (c *Constraint) AddExpression(coef float64, v *Variable) *Constraint {
	// check if the provided variable has been declared in this problem. If not, this call will panic
	c.problem.getVariableIndex(v)

	exp := expression{coef: coef, variable: v}

	c.expressions = append(c.expressions, exp)
	return c
}

func (p *Problem) Maximize() {
	p.maximize = true
}

func (p *Problem) Minimize() {
	p.maximize = false
}

// Check whether the expression is legal considering the variables currently present in the problem
func (p *Problem) checkExpression(e expression) bool {

	// check whether the pointer to the variable provided is currently included in the Problem
	for _, v := range p.variables {
		if v == e.variable {
			return true
		}
	}

	return false

}

// get the index of the variable pointer in the variable pointer slice of the Problem struct using a linear search
func (p *Problem) getVariableIndex(v *Variable) int {
	for i, va := range p.variables {
		if v == va {
			return i
		}
	}
	panic("variable pointer not found in Problem struct")
}

// Convert the abstract problem representation to its concrete numerical representation.
func (p *Problem) toSolveable() *milpProblem {

	// get the c vector containing the coefficients of the variables in the objective function
	// simultaneously parse the integrality constraints
	var c []float64
	var integrality []bool
	for _, v := range p.variables {

		// if the Problem is set to be maximized, we assume that all variable coefficients reflect that.
		// To turn this maximization problem into a minimization one, we multiply all coefficients with -1.
		k := v.coefficient
		if p.maximize {
			k = k * -1
		}

		c = append(c, k)
		integrality = append(integrality, v.integer)
	}

	/// parse the constraints
	var b []float64
	var Adata []float64
	var h []float64
	var Gdata []float64
	for _, constraint := range p.constraints {

		// build the matrix row for the equality
		indexRow := make([]float64, len(p.variables))

		for _, exp := range constraint.expressions {
			i := p.getVariableIndex(exp.variable)
			indexRow[i] = exp.coef
		}

		if constraint.inequality {
			Gdata = append(Gdata, indexRow...)

			// add the RHS of the inequality to the h vector
			h = append(h, constraint.rhs)
		} else {
			Adata = append(Adata, indexRow...)
			// add the RHS of the equality to the b vector
			b = append(b, constraint.rhs)
		}

	}

	// combine the Adata vector into a matrix
	var A *mat.Dense
	if len(b) > 0 {
		A = mat.NewDense(len(b), len(p.variables), Adata)
	}

	// add the variable bounds as inequality constraints
	for _, v := range p.variables {

		// convert the upper bound to a row in the constraint matrix
		if !math.IsInf(v.upper, 1) {
			uRow := make([]float64, len(p.variables))
			i := p.getVariableIndex(v)
			uRow[i] = 1

			Gdata = append(Gdata, uRow...)

			// add the RHS of the inequality to the h vector
			h = append(h, v.upper)
		}

		// convert the lower bound to a row in the constraint matrix
		if !(v.lower <= 0) {
			uRow := make([]float64, len(p.variables))
			i := p.getVariableIndex(v)
			uRow[i] = -1

			Gdata = append(Gdata, uRow...)

			// add the RHS of the inequality to the h vector
			h = append(h, -v.lower)
		}

	}

	// combine the Gdata vector into a matrix
	var G *mat.Dense
	if len(h) > 0 {
		G = mat.NewDense(len(h), len(p.variables), Gdata)
	}

	return &milpProblem{
		c: c,
		A: A,
		b: b,
		G: G,
		h: h,
		integralityConstraints: integrality,
	}
}

// Outcome reports how a Solve call terminated.
type Outcome int

const (
	// Optimal means branch-and-bound proved the incumbent optimal before
	// the time limit elapsed.
	Optimal Outcome = iota
	// FeasibleWithinTimeLimit means the time limit was hit but an
	// integer-feasible incumbent had already been found.
	FeasibleWithinTimeLimit
	// TimeLimit means the time limit was hit with no feasible incumbent.
	TimeLimit
	// Infeasible means branch-and-bound proved no integer-feasible
	// solution exists.
	Infeasible
	// Error means the solve failed for a reason other than timeout or
	// infeasibility.
	Error
)

func (o Outcome) String() string {
	switch o {
	case Optimal:
		return "optimal"
	case FeasibleWithinTimeLimit:
		return "feasible-within-time-limit"
	case TimeLimit:
		return "time-limit"
	case Infeasible:
		return "infeasible"
	default:
		return "error"
	}
}

// Solve converts the abstract Problem to a MILPproblem, presolves it, and
// runs branch-and-bound under the given wall-clock budget. It never
// returns a gonum- or branch-and-bound-internal type: callers see only
// Outcome, Solution, and error.
func (p *Problem) Solve(ctx context.Context, timeLimit time.Duration) (Outcome, *Solution, error) {
	prepper := newPreprocessor()
	reduced, fixed := prepper.preSolve(p)

	milp := reduced.toSolveable()

	solveCtx, cancel := context.WithTimeout(ctx, timeLimit)
	defer cancel()

	soln, err := milp.solve(solveCtx, reduced.workers, reduced.instrumentation)

	if err != nil {
		switch {
		case err == context.DeadlineExceeded || err == context.Canceled:
			if len(soln.x) == 0 {
				return TimeLimit, nil, fmt.Errorf("ilp: no feasible incumbent within time limit: %w", err)
			}
			// fall through below to decode the best-effort incumbent
		case err == INITIAL_RELAXATION_NOT_FEASIBLE || err == NO_INTEGER_FEASIBLE_SOLUTION:
			return Infeasible, nil, err
		default:
			return Error, nil, err
		}
	}

	full := reinstateFixed(p.variables, reduced.variables, soln.x, fixed)
	solution := decodeSolution(p, full)

	outcome := Optimal
	if err != nil {
		outcome = FeasibleWithinTimeLimit
	}
	return outcome, solution, nil
}

// reinstateFixed rebuilds the full decision vector in the original
// problem's variable order: fixed variables (eliminated by presolve) get
// their constant value back, everything else reads off the reduced
// problem's solved position.
func reinstateFixed(original, reduced []*Variable, reducedX []float64, fixed map[*Variable]float64) []float64 {
	pos := make(map[*Variable]int, len(reduced))
	for i, v := range reduced {
		pos[v] = i
	}

	full := make([]float64, len(original))
	for i, v := range original {
		if val, ok := fixed[v]; ok {
			full[i] = val
			continue
		}
		full[i] = reducedX[pos[v]]
	}
	return full
}

// decodeSolution builds a Solution over the ORIGINAL (pre-presolve)
// problem's variable order, recomputing the objective directly from each
// variable's coefficient so presolve's variable elimination can never
// desync the reported objective from the reported values.
func decodeSolution(p *Problem, x []float64) *Solution {
	solution := &Solution{
		byName: make(map[string]float64, len(p.variables)),
	}

	for i, v := range p.variables {
		val := x[i]
		solution.Coefficients = append(solution.Coefficients, NamedValue{Name: v.name, Value: val})
		solution.byName[v.name] = val
		solution.Objective += v.coefficient * val
	}

	return solution
}

// Solution contains the results of a solved Problem.
type Solution struct {
	Objective float64

	// the variables and their optimal values in the order they were originally specified
	Coefficients []NamedValue

	// keyed by name
	byName map[string]float64
}

// NamedValue is one decision variable's name and optimal value.
type NamedValue struct {
	Name  string
	Value float64
}

// GetValueFor retrieves the value for a decision variable by its name.
func (s *Solution) GetValueFor(varName string) (float64, error) {
	val, ok := s.byName[varName]
	if !ok {
		return 0, fmt.Errorf("variable name %v not found in solution", varName)
	}
	return val, nil
}
