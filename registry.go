package mip

import (
	"fmt"
	"math"
)

// VarType is the domain of a variable family.
type VarType int

const (
	Continuous VarType = iota
	Integer
	Binary
)

func (v VarType) String() string {
	switch v {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("VarType(%d)", int(v))
}

// BoundFunc computes a bound for one member of a variable family. Constant
// bounds are the common case; use Const.
type BoundFunc func(Tuple) float64

// Const returns a BoundFunc that ignores the tuple.
func Const(v float64) BoundFunc {
	return func(Tuple) float64 { return v }
}

// Family is a declared variable family: a name, the index set it is defined
// over, its type and bounds, and a contiguous block of slots in the
// eventual solution vector, one per tuple, in enumeration order.
type Family struct {
	name string
	typ  VarType

	base   int            // first slot of the block
	tuples []Tuple        // offset -> tuple
	slots  map[string]int // tuple key -> offset

	lower []float64 // per offset
	upper []float64
}

// Name returns the family name.
func (f *Family) Name() string { return f.name }

// Type returns the variable type.
func (f *Family) Type() VarType { return f.typ }

// Size returns the number of variables in the family.
func (f *Family) Size() int { return len(f.tuples) }

// Slot returns the global slot of the family member at t.
func (f *Family) Slot(t Tuple) (int, error) {
	off, ok := f.slots[t.key()]
	if !ok {
		return 0, fmt.Errorf("%w: %s%s is outside the family's index set", ErrUnknownVariable, f.name, t)
	}
	return f.base + off, nil
}

// registry owns the variable families of one model and hands out dense,
// non-overlapping slot blocks. Slot assignment is injective and total over
// the declared (name, tuple) pairs.
type registry struct {
	families map[string]*Family
	order    []*Family
	nslots   int
}

func newRegistry() *registry {
	return &registry{families: make(map[string]*Family)}
}

func (r *registry) declare(name string, set Set, typ VarType, lb, ub BoundFunc) (*Family, error) {
	if _, taken := r.families[name]; taken {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateVariable, name)
	}

	// binary forces [0,1] regardless of the caller-supplied bounds
	if typ == Binary {
		lb = Const(0)
		ub = Const(1)
	}
	if lb == nil {
		// the default domain is the nonnegative axis
		lb = Const(0)
	}
	if ub == nil {
		ub = Const(math.Inf(1))
	}

	f := &Family{
		name:  name,
		typ:   typ,
		base:  r.nslots,
		slots: make(map[string]int),
	}
	set.Each(func(t Tuple) bool {
		f.slots[t.key()] = len(f.tuples)
		f.tuples = append(f.tuples, t)
		f.lower = append(f.lower, lb(t))
		f.upper = append(f.upper, ub(t))
		return true
	})

	r.families[name] = f
	r.order = append(r.order, f)
	r.nslots += f.Size()
	return f, nil
}

// slot resolves (name, tuple) to a global slot, failing eagerly on unknown
// names or tuples outside the family's index set.
func (r *registry) slot(name string, t Tuple) (int, error) {
	f, ok := r.families[name]
	if !ok {
		return 0, fmt.Errorf("%w: no family named %q", ErrUnknownVariable, name)
	}
	return f.Slot(t)
}
