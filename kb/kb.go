// Package kb is the relational store around a formula.Store: per-formula
// edge sets (implications, declared equivalences, parent/child
// containment, initial facts). Edges are added only, never removed, and
// are always finished being added before the first call into package
// solve — a knowledge base is built once from a parsed file, then
// queried, never mutated mid-query.
package kb

import "github.com/vmonteco/expertsys-go/formula"

// Base is the knowledge base: a formula.Store plus the edges recorded
// over it. The zero value is not usable; use New.
type Base struct {
	Store *formula.Store

	implies    map[formula.ID]map[formula.ID]bool // A => B: implies[A][B]
	impliedBy  map[formula.ID]map[formula.ID]bool // inverse of implies
	definedEq  map[formula.ID]map[formula.ID]bool // A <=> B, both directions
	containedBy map[formula.ID]map[formula.ID]bool // immediate parents of a formula
	initial    map[formula.ID]bool                 // asserted True on the "=" line

	// Queries, in file order, is the ordered list of atoms the parser
	// found on the "?" line. Package parse populates this; solve and the
	// CLI only read it.
	Queries []*formula.Atom
}

// New returns an empty knowledge base over a fresh formula.Store.
func New() *Base {
	return &Base{
		Store:       formula.NewStore(),
		implies:     make(map[formula.ID]map[formula.ID]bool),
		impliedBy:   make(map[formula.ID]map[formula.ID]bool),
		definedEq:   make(map[formula.ID]map[formula.ID]bool),
		containedBy: make(map[formula.ID]map[formula.ID]bool),
		initial:     make(map[formula.ID]bool),
	}
}

// AddImplication records "lhs => rhs": rhs joins lhs's Implies set, lhs
// joins rhs's ImpliedBy set. Implication is one-directional — the
// contrapositive is a solver candidate derived at query time, not a
// mirrored edge stored here.
func (b *Base) AddImplication(lhs, rhs formula.Formula) {
	addEdge(b.implies, formula.Of(lhs), formula.Of(rhs))
	addEdge(b.impliedBy, formula.Of(rhs), formula.Of(lhs))
	b.registerContainment(lhs)
	b.registerContainment(rhs)
}

// AddEquivalence records "lhs <=> rhs": merges their equivalence classes
// in the Store and adds each to the other's DefinedEquivalences set.
func (b *Base) AddEquivalence(lhs, rhs formula.Formula) {
	b.Store.Union(formula.Of(lhs), formula.Of(rhs))
	addEdge(b.definedEq, formula.Of(lhs), formula.Of(rhs))
	addEdge(b.definedEq, formula.Of(rhs), formula.Of(lhs))
	b.registerContainment(lhs)
	b.registerContainment(rhs)
}

// SetInitialFact asserts a to be True, per the "=XYZ" initial-facts line.
// Absence of a letter from that line means no initial fact, which
// resolves to False only via the solver's Default rule, never by
// asserting False here.
func (b *Base) SetInitialFact(a *formula.Atom) {
	b.initial[formula.Of(a)] = true
}

// InitialFact reports whether f has an asserted initial value, and if
// so, that value (always True — the grammar only ever asserts membership
// in the True set).
func (b *Base) InitialFact(f formula.Formula) bool {
	return b.initial[formula.Of(f)]
}

// Implies returns every formula f directly implies (the RHS of "f =>
// ...") rules), in ascending id order.
func (b *Base) Implies(f formula.Formula) []formula.ID { return sortedKeys(b.implies[formula.Of(f)]) }

// ImpliedBy returns every formula that directly implies f (the LHS of
// "... => f" rules).
func (b *Base) ImpliedBy(f formula.Formula) []formula.ID { return sortedKeys(b.impliedBy[formula.Of(f)]) }

// DefinedEquivalences returns every formula declared equivalent to f via
// an explicit "<=>" rule.
func (b *Base) DefinedEquivalences(f formula.Formula) []formula.ID {
	return sortedKeys(b.definedEq[formula.Of(f)])
}

// ContainedBy returns the immediate parent formulas of f — every BinOp
// or Not that has f as a direct child and that has been mentioned in a
// rule or equivalence. The edges are added when AddImplication or
// AddEquivalence records the rule, not when the formula is interned, so
// a formula used in no rule has no recorded parents.
func (b *Base) ContainedBy(f formula.Formula) []formula.ID {
	return sortedKeys(b.containedBy[formula.Of(f)])
}

// DeducedEquivalences returns every formula in f's equivalence class
// that was not declared equivalent to f itself via an explicit "<=>":
// members merged by the tautology check, and members joined to f's class
// only through other formulas' declarations.
func (b *Base) DeducedEquivalences(f formula.Formula) []formula.ID {
	declared := b.definedEq[formula.Of(f)]
	var out []formula.ID
	for _, id := range b.Store.ClassMembers(formula.Of(f)) {
		if !declared[id] {
			out = append(out, id)
		}
	}
	return out
}

// registerContainment records f as the parent of each of its immediate
// children, then recurses into those children so every node in f's
// subtree is registered as contained by its own immediate parent, not
// just f itself. A rule side like "Z|(A+B)" must give the solver's
// parent-structural candidate a way back from A and B individually, not
// only from the Or node that happens to be the rule's direct argument.
// Atoms have no children and stop the recursion.
func (b *Base) registerContainment(f formula.Formula) {
	switch n := f.(type) {
	case *formula.Not:
		addEdge(b.containedBy, formula.Of(n.Child), formula.Of(f))
		b.registerContainment(n.Child)
	case *formula.BinOp:
		addEdge(b.containedBy, formula.Of(n.Left), formula.Of(f))
		addEdge(b.containedBy, formula.Of(n.Right), formula.Of(f))
		b.registerContainment(n.Left)
		b.registerContainment(n.Right)
	}
}

func addEdge(set map[formula.ID]map[formula.ID]bool, from, to formula.ID) {
	m, ok := set[from]
	if !ok {
		m = make(map[formula.ID]bool)
		set[from] = m
	}
	m[to] = true
}

func sortedKeys(m map[formula.ID]bool) []formula.ID {
	if len(m) == 0 {
		return nil
	}
	out := make([]formula.ID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	// Ascending id order gives a stable, deterministic enumeration order
	// for the solver's candidate list, independent of Go's randomized map
	// iteration — the selection rule breaks ties by enumeration order, so
	// that order has to be reproducible.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
