package ilp

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// errPresolveInfeasible marks a problem proven infeasible before any
// simplex call, e.g. an all-zero row with a nonzero right-hand side.
var errPresolveInfeasible = errors.New("ilp: problem proven infeasible during presolve")

// preProcessedProblem is the standard-form problem fed to the enumeration
// tree: min c'x s.t. Ax = b, x >= 0.
type preProcessedProblem struct {
	c []float64
	A *mat.Dense
	b []float64

	// same order as c
	integrality []bool
}

func (p preProcessedProblem) toInitialSubproblem(h BranchHeuristic, tol float64) subProblem {
	return subProblem{
		// the initial subproblem has 0 as identifier
		id: 0,

		c:           p.c,
		A:           p.A,
		b:           p.b,
		integrality: p.integrality,
		heuristic:   h,
		tolerance:   tol,

		branches: []branchConstraint{},
	}
}

// preProcessor converts a problem to standard form and records the
// operations needed to map a solution of the converted problem back onto
// the original variables.
type preProcessor struct {
	undoers []undoer
}

type undoer func(solution) solution

func newPreprocessor() *preProcessor {
	return &preProcessor{}
}

func (prepper *preProcessor) addUndoer(u undoer) {
	prepper.undoers = append(prepper.undoers, u)
}

// toStandardForm converts the inequalities (if any) to equalities with
// slack variables and records the undoer trimming the slacks off the
// solution vector.
func (prepper *preProcessor) toStandardForm(p milpProblem) (cNew []float64, aNew *mat.Dense, bNew []float64, intNew []bool) {

	cNew = p.c
	aNew = p.A
	bNew = p.b
	intNew = p.integrality

	if p.G != nil {
		cNew, aNew, bNew = convertToEqualities(p.c, p.A, p.b, p.G, p.h)

		// the created slack variables carry no integrality constraint
		intNew = make([]bool, len(cNew))
		copy(intNew, p.integrality)

		prepper.addUndoer(func(s solution) solution {
			if len(s.x) > len(p.c) {
				s.x = s.x[:len(p.c)]
			}
			return s
		})
	}

	return
}

// removeEmptyRows drops all-zero rows of the equality system. An all-zero
// row with a right-hand side that is not zero proves the problem
// infeasible.
func removeEmptyRows(A *mat.Dense, b []float64) (*mat.Dense, []float64, error) {

	aRows, aCols := A.Dims()
	var keep []int
	for i := 0; i < aRows; i++ {
		nonzero := false
		for j := 0; j < aCols; j++ {
			if A.At(i, j) != 0 {
				nonzero = true
				break
			}
		}

		if nonzero {
			keep = append(keep, i)
		} else if math.Abs(b[i]) > 0 {
			return nil, nil, errPresolveInfeasible
		}
	}

	if len(keep) == aRows {
		bNew := make([]float64, aRows)
		copy(bNew, b)
		return mat.DenseCopyOf(A), bNew, nil
	}
	if len(keep) == 0 {
		return nil, nil, errors.New("ilp: all rows of A are empty")
	}

	var data []float64
	var bNew []float64
	for _, r := range keep {
		// RawRowView returns a slice backed by the receiver; append copies
		// it out.
		data = append(data, A.RawRowView(r)...)
		bNew = append(bNew, b[r])
	}

	return mat.NewDense(len(keep), aCols, data), bNew, nil
}

func (prepper *preProcessor) preSolve(p milpProblem) (preProcessedProblem, error) {

	c, A, b, integrality := prepper.toStandardForm(p)

	if A != nil {
		var err error
		A, b, err = removeEmptyRows(A, b)
		if err != nil {
			return preProcessedProblem{}, err
		}
	}

	return preProcessedProblem{
		c:           c,
		A:           A,
		b:           b,
		integrality: integrality,
	}, nil
}

// postSolve walks the undo stack last-to-first, restoring the solution to
// the shape of the original problem.
func (prepper *preProcessor) postSolve(s solution) solution {
	sol := s
	for i := len(prepper.undoers) - 1; i >= 0; i-- {
		sol = prepper.undoers[i](sol)
	}
	return sol
}
