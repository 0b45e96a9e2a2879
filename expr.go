package mip

// ref names one member of a variable family symbolically. Expressions are
// resolved to slots at compile time, so they can be built without access
// to a registry.
type ref struct {
	name string
	key  string
}

type exprTerm struct {
	tuple Tuple
	coef  float64
}

// Expr is an affine combination of indexed variables plus a constant term.
// The zero value is the zero expression. All builder operations are pure:
// they never mutate their operands, and composing the same terms in any
// order yields the same expression. Coefficients referencing the same
// variable are summed, never replaced.
type Expr struct {
	terms    map[ref]exprTerm
	constant float64
}

// Term returns the single-term expression coef * name[t].
func Term(coef float64, name string, t Tuple) Expr {
	e := Expr{terms: make(map[ref]exprTerm, 1)}
	e.terms[ref{name: name, key: t.key()}] = exprTerm{tuple: t, coef: coef}
	return e
}

// Constant returns the constant expression v.
func Constant(v float64) Expr {
	return Expr{constant: v}
}

// Plus returns e + o.
func (e Expr) Plus(o Expr) Expr {
	out := Expr{
		terms:    make(map[ref]exprTerm, len(e.terms)+len(o.terms)),
		constant: e.constant + o.constant,
	}
	for r, t := range e.terms {
		out.terms[r] = t
	}
	for r, t := range o.terms {
		if prev, ok := out.terms[r]; ok {
			t.coef += prev.coef
		}
		out.terms[r] = t
	}
	return out
}

// Scale returns k * e.
func (e Expr) Scale(k float64) Expr {
	out := Expr{
		terms:    make(map[ref]exprTerm, len(e.terms)),
		constant: k * e.constant,
	}
	for r, t := range e.terms {
		t.coef *= k
		out.terms[r] = t
	}
	return out
}

// Sum returns the sum of the given expressions.
func Sum(exprs ...Expr) Expr {
	out := Expr{}
	for _, e := range exprs {
		out = out.Plus(e)
	}
	return out
}

// SumOver sums fn over every tuple of the set. A variable referenced from
// several iterations accumulates its coefficients.
func SumOver(s Set, fn func(Tuple) Expr) Expr {
	out := Expr{}
	s.Each(func(t Tuple) bool {
		out = out.Plus(fn(t))
		return true
	})
	return out
}

// NumTerms returns the number of distinct variable references.
func (e Expr) NumTerms() int { return len(e.terms) }
