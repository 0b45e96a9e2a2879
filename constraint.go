package mip

// Relation is the comparison between a constraint's left-hand expression
// and its right-hand side.
type Relation int

const (
	LessEq Relation = iota
	Equal
	GreaterEq
)

func (r Relation) String() string {
	switch r {
	case LessEq:
		return "<="
	case Equal:
		return "="
	case GreaterEq:
		return ">="
	}
	return "?"
}

// Constraint is one linear constraint relating an expression to a
// right-hand side.
type Constraint struct {
	Expr Expr
	Rel  Relation
	RHS  float64
}

// C builds a constraint.
func C(e Expr, rel Relation, rhs float64) Constraint {
	return Constraint{Expr: e, Rel: rel, RHS: rhs}
}

// ConstraintSet is an ordered family of constraints, one per element of an
// index set. Rows keep the enumeration order of the set they were
// generated from, which keeps the compiled matrix layout reproducible.
type ConstraintSet struct {
	rows []Constraint
}

// ForEach applies fn to every tuple of the set and collects the resulting
// rows. A set whose filters exclude every tuple yields an empty
// ConstraintSet, which compiles to zero rows.
func ForEach(s Set, fn func(Tuple) Constraint) ConstraintSet {
	var cs ConstraintSet
	s.Each(func(t Tuple) bool {
		cs.rows = append(cs.rows, fn(t))
		return true
	})
	return cs
}

// Len returns the number of rows.
func (cs ConstraintSet) Len() int { return len(cs.rows) }
