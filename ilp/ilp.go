// Package ilp is a pure-Go mixed-integer linear programming solver
// implementing the mip.Solver contract.
//
// Each LP relaxation is solved with the gonum simplex implementation; the
// integrality constraints are enforced by a concurrent branch-and-bound
// search over subproblems. The simplex backend works on the standard form
// min c'x s.t. Ax = b, x >= 0, so compiled problems are first converted:
// inequality rows and finite variable bounds become slack-extended
// equality rows, and maximization is expressed by negating the objective.
package ilp

import (
	"context"
	"errors"
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/milplab/mip"
)

// ErrUnsupportedBounds is returned for problems with a negative variable
// lower bound. The simplex backend restricts every variable to the
// nonnegative axis, which covers binary and the usual integer models.
var ErrUnsupportedBounds = errors.New("ilp: negative lower bounds are not supported")

// milpProblem is the solver-internal canonical form: equality constraints
// (A, b), inequality constraints (G, h, as Gx <= h) and an integrality
// mask over the variables of c.
type milpProblem struct {
	c []float64
	A *mat.Dense
	b []float64
	G *mat.Dense
	h []float64

	// which variables to apply the integrality constraint to. Same order
	// as c.
	integrality []bool
}

// Solver runs branch-and-bound over gonum simplex relaxations.
type Solver struct {
	workers   int
	heuristic BranchHeuristic
	tolerance float64
	mw        Middleware
}

// Option configures a Solver.
type Option func(*Solver)

// WithWorkers sets the number of concurrent relaxation solvers.
func WithWorkers(n int) Option {
	return func(s *Solver) { s.workers = n }
}

// WithBranchHeuristic selects the variable-selection heuristic.
func WithBranchHeuristic(h BranchHeuristic) Option {
	return func(s *Solver) { s.heuristic = h }
}

// WithTolerance sets the integrality tolerance used when checking whether
// a relaxation solution is integer-feasible.
func WithTolerance(tol float64) Option {
	return func(s *Solver) { s.tolerance = tol }
}

// WithMiddleware installs a hook receiving every branch-and-bound
// decision.
func WithMiddleware(mw Middleware) Option {
	return func(s *Solver) { s.mw = mw }
}

// New returns a solver with default settings: one worker per CPU, naive
// branching and an integrality tolerance of 1e-9.
func New(opts ...Option) *Solver {
	s := &Solver{
		workers:   runtime.NumCPU(),
		heuristic: BranchNaive,
		tolerance: 1e-9,
		mw:        nopMiddleware{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve runs the search until optimality, proven infeasibility or context
// cancellation. Cancellation yields StatusTimeLimit together with the
// best incumbent found so far, if any.
func (s *Solver) Solve(ctx context.Context, p *mip.Problem) (mip.Solution, error) {
	prob, err := fromCanonical(p)
	if err != nil {
		return mip.Solution{Status: mip.StatusError}, err
	}

	// a model can compile to zero constraint rows and no finite bounds.
	// The simplex backend cannot represent an empty constraint system, but
	// the answer is immediate: every variable lives on [0, +inf), so the
	// minimum sits at the origin unless some objective coefficient rewards
	// growth. fromCanonical has already negated c for maximization.
	if prob.A == nil && prob.G == nil {
		for _, ci := range prob.c {
			if ci < 0 {
				return mip.Solution{Status: mip.StatusUnbounded}, nil
			}
		}
		return mip.Solution{
			Status:    mip.StatusOptimal,
			X:         make([]float64, len(prob.c)),
			Objective: p.Offset(),
		}, nil
	}

	prepper := newPreprocessor()
	prepped, err := prepper.preSolve(prob)
	if err != nil {
		if errors.Is(err, errPresolveInfeasible) {
			return mip.Solution{Status: mip.StatusInfeasible}, nil
		}
		return mip.Solution{Status: mip.StatusError}, err
	}

	tree := newEnumerationTree(prepped.toInitialSubproblem(s.heuristic, s.tolerance), s.mw)
	soln, timedOut, err := tree.startSearch(ctx, s.workers)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return mip.Solution{Status: mip.StatusInfeasible}, nil
		case errors.Is(err, lp.ErrUnbounded):
			return mip.Solution{Status: mip.StatusUnbounded}, nil
		}
		return mip.Solution{Status: mip.StatusError}, err
	}

	soln = prepper.postSolve(soln)

	z := soln.z
	if p.IsMaximize() {
		z = -z
	}

	status := mip.StatusOptimal
	if timedOut {
		status = mip.StatusTimeLimit
	}
	return mip.Solution{
		Status:    status,
		X:         soln.x,
		Objective: z + p.Offset(),
	}, nil
}

// fromCanonical lowers a compiled problem into the solver-internal form.
// Equality rows land in (A, b); <= rows land in (G, h); >= rows are
// negated into <= rows. Finite upper bounds and strictly positive lower
// bounds become additional inequality rows.
func fromCanonical(p *mip.Problem) (milpProblem, error) {
	n := p.NumSlots()

	c := make([]float64, n)
	copy(c, p.Objective())
	if p.IsMaximize() {
		for i := range c {
			c[i] = -c[i]
		}
	}

	var (
		aData, gData []float64
		b, h         []float64
	)
	for _, row := range p.Rows() {
		dense := make([]float64, n)
		for k, col := range row.Cols {
			dense[col] = row.Vals[k]
		}
		switch row.Rel {
		case mip.Equal:
			aData = append(aData, dense...)
			b = append(b, row.RHS)
		case mip.LessEq:
			gData = append(gData, dense...)
			h = append(h, row.RHS)
		case mip.GreaterEq:
			for i := range dense {
				dense[i] = -dense[i]
			}
			gData = append(gData, dense...)
			h = append(h, -row.RHS)
		}
	}

	lower := p.LowerBounds()
	upper := p.UpperBounds()
	for i := 0; i < n; i++ {
		if lower[i] < 0 {
			return milpProblem{}, ErrUnsupportedBounds
		}
		if lower[i] > 0 {
			dense := make([]float64, n)
			dense[i] = -1
			gData = append(gData, dense...)
			h = append(h, -lower[i])
		}
		if !math.IsInf(upper[i], 1) {
			dense := make([]float64, n)
			dense[i] = 1
			gData = append(gData, dense...)
			h = append(h, upper[i])
		}
	}

	out := milpProblem{c: c}
	if len(b) > 0 {
		out.A = mat.NewDense(len(b), n, aData)
		out.b = b
	}
	if len(h) > 0 {
		out.G = mat.NewDense(len(h), n, gData)
		out.h = h
	}
	out.integrality = make([]bool, n)
	copy(out.integrality, p.Integrality())
	return out, nil
}
