package ilp

import (
	"context"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Decision labels what the branch-and-bound procedure did with one
// candidate solution. Every decision is reported to the installed
// Middleware.
type Decision string

const (
	DecisionDegenerate      Decision = "subproblem contains a degenerate (singular) matrix"
	DecisionNotFeasible     Decision = "subproblem has no feasible solution"
	DecisionUnbounded       Decision = "subproblem relaxation is unbounded"
	DecisionWorse           Decision = "worse than incumbent"
	DecisionBranched        Decision = "better than incumbent but not integer feasible, so branching"
	DecisionNewIncumbent    Decision = "better than incumbent and integer feasible, so replacing incumbent"
	DecisionTimeLimit       Decision = "deadline exceeded, not branching"
	DecisionInitialFeasible Decision = "initial relaxation is feasible for the integer problem"
	DecisionInitialRelaxed  Decision = "initial relaxation set as initial incumbent"
)

// expectedFailures are the simplex outcomes that prune a subproblem
// instead of aborting the search.
var expectedFailures = map[error]Decision{
	lp.ErrInfeasible: DecisionNotFeasible,
	lp.ErrSingular:   DecisionDegenerate,
	lp.ErrBland:      DecisionDegenerate,
	lp.ErrZeroRow:    DecisionDegenerate,
	lp.ErrZeroColumn: DecisionDegenerate,
	lp.ErrUnbounded:  DecisionUnbounded,
}

// enumerationTree coordinates the branch-and-bound search: a pool of
// workers solving relaxations, a single checker goroutine deciding what to
// do with each candidate, and a buffer pump decoupling the two so neither
// ever blocks the other.
type enumerationTree struct {
	active     chan subProblem
	toSolve    chan subProblem
	candidates chan solution

	incumbent *solution

	// tracks the number of jobs (solving + checking) in progress
	inProgress sync.WaitGroup

	rootProblem subProblem
	mw          Middleware

	ctx      context.Context
	timedOut bool
}

func newEnumerationTree(rootProblem subProblem, mw Middleware) *enumerationTree {
	return &enumerationTree{
		// deliberately unbuffered: buffering is managed by the pump
		// goroutine.
		active:     make(chan subProblem),
		toSolve:    make(chan subProblem),
		candidates: make(chan solution),

		rootProblem: rootProblem,
		mw:          mw,
	}
}

// startSearch solves the initial relaxation and, if it violates any
// integrality constraint, runs the full enumeration with nworkers
// relaxation solvers. The timedOut return is set when the context expired
// before the search was exhausted; the returned solution is then the best
// incumbent found so far.
func (p *enumerationTree) startSearch(ctx context.Context, nworkers int) (solution, bool, error) {
	p.ctx = ctx

	initial := p.rootProblem.solve()
	if initial.err != nil {
		return initial, false, initial.err
	}

	// if the relaxation already satisfies every integrality constraint,
	// it is the optimum of the integer problem as well.
	if feasibleForIP(p.rootProblem.integrality, initial.x, p.rootProblem.tolerance) {
		p.mw.ProcessDecision(newNode(initial), DecisionInitialFeasible)
		return initial, false, nil
	}
	p.mw.ProcessDecision(newNode(initial), DecisionInitialRelaxed)

	// the pump moves subproblems from the buffer to the worker pool
	go p.bufferPump()

	// single checker goroutine; it is the only writer of incumbent and
	// timedOut.
	go p.solutionChecker()

	for j := 0; j < nworkers; j++ {
		go p.solveWorker()
	}

	// seed the search with the initial relaxation
	p.postCandidate(initial)

	// wait until no jobs are active anywhere
	p.inProgress.Wait()

	// closing the buffer feed shuts down the remaining goroutines
	close(p.toSolve)

	if p.incumbent == nil {
		if p.timedOut {
			return solution{}, true, nil
		}
		return solution{}, false, lp.ErrInfeasible
	}
	return *p.incumbent, p.timedOut, nil
}

func (p *enumerationTree) postCandidate(s solution) {
	p.inProgress.Add(1)
	p.candidates <- s
}

func (p *enumerationTree) enqueueProblems(probs ...subProblem) {
	for _, s := range probs {
		p.inProgress.Add(1)
		p.toSolve <- s
	}
}

// bufferPump runs in its own goroutine so the checker never blocks on a
// full worker pool. It exploits nil channels: select skips over a nil
// output case, so nothing is sent while the buffer is empty.
func (p *enumerationTree) bufferPump() {
	var buffer []subProblem
	var next subProblem
	var output chan subProblem

loopy:
	for {
		select {

		case msg, open := <-p.toSolve:
			if !open {
				break loopy
			}
			buffer = append(buffer, msg)

		case output <- next:
			if len(buffer) > 1 {
				buffer = buffer[1:]
			} else {
				buffer = nil
			}
		}

		if len(buffer) > 0 {
			next = buffer[0]
			output = p.active
		} else {
			output = nil
		}
	}
	close(p.active)
	close(p.candidates)
}

func (p *enumerationTree) solveWorker() {
	for prob := range p.active {
		candidate := prob.solve()
		p.postCandidate(candidate)
		p.inProgress.Done()
	}
}

// solutionChecker is the sequential heart of the search: it compares every
// candidate against the incumbent and decides whether to prune, branch or
// replace.
func (p *enumerationTree) solutionChecker() {

	for candidate := range p.candidates {

		var decision Decision

		// objective value of the incumbent, +Inf when none is set. The
		// objective is always minimization at this level.
		incumbentZ := math.Inf(1)
		if p.incumbent != nil {
			incumbentZ = p.incumbent.z
		}

		switch {

		case candidate.err != nil:
			decision = translateSolverFailure(candidate.err)

		case incumbentZ <= candidate.z:
			decision = DecisionWorse

		default:
			if feasibleForIP(p.rootProblem.integrality, candidate.x, p.rootProblem.tolerance) {
				// take a value copy before indirecting: candidate is the
				// iteration variable.
				inc := candidate
				p.incumbent = &inc
				decision = DecisionNewIncumbent

			} else if p.ctx.Err() != nil {
				// out of time: stop growing the tree, keep draining
				p.timedOut = true
				decision = DecisionTimeLimit

			} else {
				p1, p2 := candidate.branch()
				p.enqueueProblems(p1, p2)
				decision = DecisionBranched
			}
		}

		p.mw.ProcessDecision(newNode(candidate), decision)

		p.inProgress.Done()
	}
}

// translateSolverFailure maps a simplex failure to a pruning decision,
// panicking on anything unexpected so that a genuinely broken subproblem
// never fails silently.
func translateSolverFailure(err error) Decision {
	for failure, decision := range expectedFailures {
		if failure == err {
			return decision
		}
	}
	panic(err)
}

// feasibleForIP checks the solution vector against the integrality
// constraints, tolerating deviations up to tol.
func feasibleForIP(constraints []bool, x []float64, tol float64) bool {
	if len(constraints) != len(x) {
		panic(fmt.Sprint("ilp: constraint vector and solution vector not of equal size: ", constraints, x))
	}
	for i := range x {
		if constraints[i] && !isInteger(x[i], tol) {
			return false
		}
	}
	return true
}

func isInteger(v, tol float64) bool {
	return math.Abs(v-math.Round(v)) <= tol
}
