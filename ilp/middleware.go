package ilp

import (
	"github.com/rs/zerolog"

	"github.com/milplab/mip/logger"
)

// Node is a summary of one subproblem solution presented to middleware.
// It deliberately carries no reference to the subproblem itself, which
// would keep large matrices alive for the lifetime of the hook.
type Node struct {
	ID     int64
	Parent int64

	// objective function value of the relaxation
	Z float64

	// relaxation solution vector
	X []float64
}

func newNode(s solution) Node {
	n := Node{
		Z: s.z,
		X: s.x,
	}
	if s.problem != nil {
		n.ID = s.problem.id
		n.Parent = s.problem.parent
	}
	return n
}

// Middleware receives every branch-and-bound decision together with the
// node it was made for. Hooks are called from the single checker
// goroutine, so implementations need no internal locking.
type Middleware interface {
	ProcessDecision(Node, Decision)
}

type nopMiddleware struct{}

func (nopMiddleware) ProcessDecision(Node, Decision) {}

// NewLogMiddleware returns a middleware writing the search trace at debug
// level through the shared logger.
func NewLogMiddleware() Middleware {
	return logMiddleware{log: logger.With("ilp")}
}

type logMiddleware struct {
	log zerolog.Logger
}

func (m logMiddleware) ProcessDecision(n Node, d Decision) {
	m.log.Debug().
		Int64("node", n.ID).
		Int64("parent", n.Parent).
		Float64("z", n.Z).
		Str("decision", string(d)).
		Msg("branch and bound")
}
