package ilp

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

type subProblem struct {

	// unique identifier for the subproblem
	id int64

	// id of the parent problem
	parent int64

	// shared with the root problem; must not be modified.
	c []float64
	A *mat.Dense
	b []float64
	G *mat.Dense
	h []float64

	// integrality constraints, inherited from the root problem.
	integrality []bool

	// variable-selection heuristic, inherited from the root problem.
	heuristic BranchHeuristic

	// integrality tolerance, inherited from the root problem.
	tolerance float64

	// additional inequality constraints accumulated by branching. Each
	// step down the search tree adds one.
	branches []branchConstraint
}

// branchConstraint is one bound cut added by a branching step, stored as a
// row gsharp with right-hand side hsharp of a Gx <= h system.
type branchConstraint struct {
	// the index of the variable that was branched on
	variable int

	hsharp float64
	gsharp []float64
}

type solution struct {
	problem *subProblem
	x       []float64
	z       float64
	err     error
}

// combineInequalities stacks the root problem's inequality rows with the
// rows accumulated by branching into a single G matrix and h vector. The
// branch rows occupy the higher row indices.
func (p subProblem) combineInequalities() (*mat.Dense, []float64) {

	if len(p.branches) > 0 {
		h := make([]float64, len(p.h), len(p.h)+len(p.branches))
		copy(h, p.h)

		var data []float64
		for _, constr := range p.branches {
			data = append(data, constr.gsharp...)
			h = append(h, constr.hsharp)
		}
		branchG := mat.NewDense(len(p.branches), len(p.c), data)

		if p.G == nil {
			return branchG, h
		}

		origRows, _ := p.G.Dims()
		stacked := mat.NewDense(origRows+len(p.branches), len(p.c), nil)
		stacked.Stack(p.G, branchG)
		return stacked, h
	}

	if p.G != nil {
		return mat.DenseCopyOf(p.G), p.h
	}
	return nil, nil
}

// convertToEqualities rewrites a problem with inequalities (G, h) as one
// with only equalities by introducing one slack variable per inequality
// row.
func convertToEqualities(c []float64, A *mat.Dense, b []float64, G *mat.Dense, h []float64) (cNew []float64, aNew *mat.Dense, bNew []float64) {

	// A may be nil, but as this function's explicit purpose is converting
	// inequalities, G may not be.
	if G == nil {
		panic("ilp: G matrix is nil")
	}
	if insane := sanityCheckDimensions(c, A, b, G, h); insane != nil {
		panic(insane)
	}

	nVar := len(c)
	nCons := len(b)
	nIneq := len(h)
	nNewVar := nVar + nIneq
	nNewCons := nCons + nIneq

	// the slack variables enter the objective with zero cost
	cNew = make([]float64, nNewVar)
	copy(cNew, c)

	bNew = make([]float64, nNewCons)
	copy(bNew, b)
	copy(bNew[nCons:], h)

	aNew = mat.NewDense(nNewCons, nNewVar, nil)

	// embed the original A matrix in the top left, if there is one
	if A != nil {
		aNew.Slice(0, nCons, 0, nVar).(*mat.Dense).Copy(A)
	}

	// embed G below it
	aNew.Slice(nCons, nNewCons, 0, nVar).(*mat.Dense).Copy(G)

	// identity block marking the slack variables
	slacks := aNew.Slice(nCons, nNewCons, nVar, nNewVar).(*mat.Dense)
	for i := 0; i < nIneq; i++ {
		slacks.Set(i, i, 1)
	}

	return
}

// solve runs the simplex method on the LP relaxation of the subproblem.
func (p subProblem) solve() solution {

	G, h := p.combineInequalities()

	var (
		z   float64
		x   []float64
		err error
	)

	if G != nil {
		c, A, b := convertToEqualities(p.c, p.A, p.b, G, h)

		z, x, err = lp.Simplex(c, A, b, 0, nil)

		// take only the non-slack variables from the result
		if err == nil && len(x) != len(p.c) {
			x = x[:len(p.c)]
		}
	} else {
		z, x, err = lp.Simplex(p.c, p.A, p.b, 0, nil)
	}

	return solution{
		problem: &p,
		x:       x,
		z:       z,
		err:     err,
	}
}

// branch splits the solution into two subproblems constraining the
// selected variable to lie below or above its current fractional value.
func (s solution) branch() (p1, p2 subProblem) {

	candidates := fractionalVars(s.x, s.problem.integrality, s.problem.tolerance)
	if len(candidates) == 0 {
		panic("ilp: branching on an integral solution")
	}

	var branchOn int
	switch s.problem.heuristic {
	case BranchMaxFun:
		branchOn = maxFunBranchPoint(s.problem.c, candidates)

	case BranchMostInfeasible:
		branchOn = mostInfeasibleBranchPoint(s.x, candidates)

	case BranchNaive:
		branchOn = s.naiveBranchPoint(candidates)

	default:
		panic("ilp: unknown branching heuristic")
	}

	current := s.x[branchOn]

	// the 'smaller or equal than' branch
	p1 = s.problem.getChild(branchOn, 1, math.Floor(current))

	// the 'larger than' branch, expressed as <= by inverting the sign
	p2 = s.problem.getChild(branchOn, -1, -(math.Floor(current) + 1))

	p1.id++
	p2.id += 2

	return
}

// getChild inherits everything from the parent and appends one branch
// constraint bounding the given variable. The factor argument flips the
// sign so both branch directions can be written as <= rows.
func (p subProblem) getChild(branchOn int, factor float64, smallerOrEqualThan float64) subProblem {

	child := p.copy()
	constr := branchConstraint{
		variable: branchOn,
		hsharp:   smallerOrEqualThan,
		gsharp:   make([]float64, len(p.c)),
	}
	constr.gsharp[branchOn] = factor

	child.branches = append(child.branches, constr)
	return child
}

// copy duplicates the subproblem. The matrices and vectors are shared with
// the parent; only the branch constraint slice is copied, as it is the one
// field a child modifies.
func (p *subProblem) copy() subProblem {
	child := subProblem{
		id:          p.id,
		parent:      p.id,
		c:           p.c,
		A:           p.A,
		b:           p.b,
		G:           p.G,
		h:           p.h,
		integrality: p.integrality,
		heuristic:   p.heuristic,
		tolerance:   p.tolerance,
		branches:    make([]branchConstraint, len(p.branches)),
	}
	copy(child.branches, p.branches)
	return child
}

// sanityCheckDimensions verifies that the problem matrices and vectors
// agree on their dimensions.
func sanityCheckDimensions(c []float64, A *mat.Dense, b []float64, G *mat.Dense, h []float64) error {
	if G == nil && A == nil {
		return errors.New("ilp: no constraint matrices provided")
	}

	if G != nil {
		if h == nil {
			return errors.New("ilp: h vector is nil while G matrix is provided")
		}

		rG, cG := G.Dims()
		if rG != len(h) {
			return errors.New("ilp: number of rows in G is not equal to length of h")
		}
		if cG != len(c) {
			return errors.New("ilp: number of columns in G is not equal to number of variables")
		}
	}

	if h != nil && G == nil {
		return errors.New("ilp: G matrix is nil while h vector is provided")
	}

	if A != nil {
		rA, cA := A.Dims()
		if rA != len(b) {
			return errors.New("ilp: number of rows in A is not equal to length of b")
		}
		if cA != len(c) {
			return errors.New("ilp: number of columns in A is not equal to number of variables")
		}
	}

	if b != nil && A == nil {
		return errors.New("ilp: A matrix is nil while b vector is provided")
	}

	return nil
}
