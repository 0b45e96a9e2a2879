package mip

import (
	"context"
	"fmt"
)

// Status is the outcome reported by a solver. Non-optimal outcomes are
// values, not errors: the caller inspects the status and the solution
// mapper refuses to read values from anything but an optimal solution.
type Status int

const (
	StatusError Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
	StatusTimeLimit
)

func (s Status) String() string {
	switch s {
	case StatusError:
		return "error"
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimeLimit:
		return "time limit reached"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Solution is the flat result of one solver run: a value per slot, the
// objective value (including the problem's offset) and a status.
type Solution struct {
	Status    Status
	X         []float64
	Objective float64
}

// IsOptimal reports whether the solver proved optimality.
func (s Solution) IsOptimal() bool { return s.Status == StatusOptimal }

// Solver is the contract between the modeling layer and a MILP backend.
// Solve is a single synchronous call; time limits and cancellation travel
// through the context.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (Solution, error)
}
