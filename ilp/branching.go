package ilp

import "math"

// BranchHeuristic selects the variable to branch on when a relaxation
// solution violates an integrality constraint. All heuristics consider
// only variables whose relaxation value is fractional: branching on an
// already-integral variable produces a child with the same relaxation and
// stalls the search.
type BranchHeuristic int

const (
	// BranchNaive cycles through the fractional variables in round-robin
	// order, starting after the variable branched on most recently.
	BranchNaive BranchHeuristic = iota

	// BranchMaxFun picks the fractional variable with the largest
	// absolute objective coefficient.
	BranchMaxFun

	// BranchMostInfeasible picks the fractional variable whose fractional
	// part is closest to 1/2.
	BranchMostInfeasible
)

// fractionalVars lists the integrality-constrained variables whose value
// in x is not integral within tol, in index order.
func fractionalVars(x []float64, integrality []bool, tol float64) []int {
	if len(x) != len(integrality) {
		panic("ilp: number of variables not equal to number of integrality constraints")
	}
	var out []int
	for i, v := range x {
		if integrality[i] && !isInteger(v, tol) {
			out = append(out, i)
		}
	}
	return out
}

// naiveBranchPoint returns the first fractional variable after the one
// branched on most recently, wrapping around the variable vector.
func (s solution) naiveBranchPoint(candidates []int) int {
	last := -1
	if n := len(s.problem.branches); n > 0 {
		last = s.problem.branches[n-1].variable
	}

	for _, i := range candidates {
		if i > last {
			return i
		}
	}
	return candidates[0]
}

// maxFunBranchPoint chooses the fractional variable with the highest
// absolute objective coefficient.
func maxFunBranchPoint(c []float64, candidates []int) int {
	best := math.Inf(-1)
	pick := candidates[0]
	for _, i := range candidates {
		if math.Abs(c[i]) > best {
			best = math.Abs(c[i])
			pick = i
		}
	}
	return pick
}

// mostInfeasibleBranchPoint chooses the fractional variable whose value
// has the fractional part closest to 1/2.
func mostInfeasibleBranchPoint(x []float64, candidates []int) int {
	best := math.Inf(1)
	pick := candidates[0]
	for _, i := range candidates {
		_, f := math.Modf(x[i])
		d := math.Abs(0.5 - math.Abs(f))
		if d < best {
			best = d
			pick = i
		}
	}
	return pick
}
