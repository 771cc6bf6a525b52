// Package solve implements a backward-chaining, cycle-guarded resolution
// procedure: starting from a queried formula, it enumerates candidate
// justifications, recursively resolves each candidate's premises, and
// selects the strongest, shortest one.
package solve

import (
	"fmt"

	"github.com/vmonteco/expertsys-go/formula"
	"github.com/vmonteco/expertsys-go/justify"
	"github.com/vmonteco/expertsys-go/kb"
	"github.com/vmonteco/expertsys-go/truth"
)

// errCycle is an internal-only sentinel: a formula reached while already
// on the resolution stack. It never escapes this package.
var errCycle = fmt.Errorf("solve: cycle")

// IncoherenceError reports that the selector saw mutually contradictory
// definite values for one formula, either because two candidates
// disagreed (True vs. False is ever present), or because a
// parent-structural inversion hit an impossible (parent, sibling) pair.
type IncoherenceError struct {
	Formula formula.Formula
	Reason  string
	True    *justify.Justification
	False   *justify.Justification
}

func (e *IncoherenceError) Error() string {
	return fmt.Sprintf("incoherence on %s: %s", e.Formula, e.Reason)
}

// Solver answers queries against a fixed knowledge base. It holds no
// state across calls to Solve other than the optional trace hooks — the
// resolution stack is reset at the start of every Solve call, since
// cycle detection is scoped to a single query and a justification is
// never cached across queries (which formulas are cyclic can change
// from one query to the next, since it depends on the path taken to
// reach them).
type Solver struct {
	KB *kb.Base

	// OnCandidate, if set, is called for every surviving (non-cyclic,
	// non-dropped) candidate considered for any formula touched during a
	// Solve call, in enumeration order — the basis for --debug output.
	// Never consulted by the solver itself.
	OnCandidate func(f formula.Formula, j *justify.Justification)

	// OnWinner, if set, is called each time a formula is resolved with the
	// justification selected for it, including Default winners; a formula
	// reached along several paths in one Solve call is reported each time.
	OnWinner func(f formula.Formula, j *justify.Justification)

	stack map[formula.ID]bool
}

// New returns a Solver bound to base.
func New(base *kb.Base) *Solver {
	return &Solver{KB: base}
}

// Solve answers one query: it returns the justification whose Value is
// the final answer. Solve always returns — a cycle never aborts it — but
// an IncoherenceError aborts this call without aborting the Solver
// itself, so the caller may still Solve other queries.
func (s *Solver) Solve(f formula.Formula) (*justify.Justification, error) {
	s.stack = make(map[formula.ID]bool)
	return s.resolve(f)
}

// resolve is the recursive core of the solver.
func (s *Solver) resolve(f formula.Formula) (*justify.Justification, error) {
	id := formula.Of(f)
	if s.stack[id] {
		return nil, errCycle
	}
	s.stack[id] = true
	defer delete(s.stack, id)

	var results []*justify.Justification
	emit := func(j *justify.Justification) {
		results = append(results, j)
		if s.OnCandidate != nil {
			s.OnCandidate(f, j)
		}
	}

	if s.KB.InitialFact(f) {
		emit(justify.Fact(truth.True))
	}

	for _, qid := range s.KB.DefinedEquivalences(f) {
		j, err := s.candidateFromPremise(qid, func(p *justify.Justification) *justify.Justification {
			return justify.Equivalence(false, s.KB.Store.Lookup(qid).String(), p)
		})
		if err != nil {
			return nil, err
		}
		if j != nil {
			emit(j)
		}
	}
	for _, qid := range s.KB.DeducedEquivalences(f) {
		j, err := s.candidateFromPremise(qid, func(p *justify.Justification) *justify.Justification {
			return justify.Equivalence(true, s.KB.Store.Lookup(qid).String(), p)
		})
		if err != nil {
			return nil, err
		}
		if j != nil {
			emit(j)
		}
	}

	for _, qid := range s.KB.ImpliedBy(f) {
		j, err := s.forwardImplication(qid)
		if err != nil {
			return nil, err
		}
		if j != nil {
			emit(j)
		}
	}
	for _, qid := range s.KB.Implies(f) {
		j, err := s.indirectImplication(qid)
		if err != nil {
			return nil, err
		}
		if j != nil {
			emit(j)
		}
	}

	for _, parID := range s.KB.ContainedBy(f) {
		j, err := s.parentStructural(f, parID)
		if err != nil {
			return nil, err
		}
		if j != nil {
			emit(j)
		}
	}

	if j, err := s.childStructural(f); err != nil {
		return nil, err
	} else if j != nil {
		emit(j)
	}

	winner, err := s.selectWinner(f, results)
	if err != nil {
		return nil, err
	}
	if s.OnWinner != nil {
		s.OnWinner(f, winner)
	}
	return winner, nil
}

// usable reports whether a premise's justification may itself serve as
// the premise for another candidate. A Default-valued justification —
// the "we have no information" leaf — is never reused this way: letting
// an absence-of-information answer seed further derivations would let a
// self-referential knowledge base manufacture facts from nothing (see
// DESIGN.md, "Default is terminal") — e.g. "A+!A=>B" with no facts must
// leave B at Default(False), never derive a value for A from Not(A)'s
// own Default answer.
func usable(j *justify.Justification) bool {
	return j != nil && j.Kind != justify.Default
}

// candidateFromPremise resolves qid and, if its justification is usable,
// builds a candidate via build. Returns (nil, nil) if the premise was
// cyclic or Default (candidate silently dropped), or (nil, err) if
// resolving the premise raised an Incoherence that must abort the whole
// Solve call.
func (s *Solver) candidateFromPremise(qid formula.ID, build func(*justify.Justification) *justify.Justification) (*justify.Justification, error) {
	q := s.KB.Store.Lookup(qid)
	premise, err := s.resolve(q)
	if err == errCycle {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !usable(premise) {
		return nil, nil
	}
	return build(premise), nil
}

// forwardImplication builds the candidate for Q in implied_by(P):
// Q=>P, so True(Q) => True(P); Undetermined(Q) => Undetermined(P);
// False(Q) is inert and, per the Default-is-terminal rule, is only
// eligible to contribute an Undetermined candidate when Q itself
// resolved to a non-Default False.
func (s *Solver) forwardImplication(qid formula.ID) (*justify.Justification, error) {
	q := s.KB.Store.Lookup(qid)
	premise, err := s.resolve(q)
	if err == errCycle {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !usable(premise) {
		return nil, nil
	}
	var v truth.Value
	switch premise.Value {
	case truth.True:
		v = truth.True
	case truth.Undetermined:
		v = truth.Undetermined
	default: // False: inert
		v = truth.Undetermined
	}
	return justify.Implication(false, v, q.String(), premise), nil
}

// indirectImplication builds the candidate for Q in implies(P): P=>Q, so
// the contrapositive reads False(Q) => False(P); Undetermined(Q) =>
// Undetermined(P); True(Q) is inert (yields Undetermined).
func (s *Solver) indirectImplication(qid formula.ID) (*justify.Justification, error) {
	q := s.KB.Store.Lookup(qid)
	premise, err := s.resolve(q)
	if err == errCycle {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !usable(premise) {
		return nil, nil
	}
	var v truth.Value
	switch premise.Value {
	case truth.False:
		v = truth.False
	case truth.Undetermined:
		v = truth.Undetermined
	default: // True: inert
		v = truth.Undetermined
	}
	return justify.Implication(true, v, q.String(), premise), nil
}

// parentStructural builds the candidate that derives f's value from its
// parent parID (and, for a binary parent, f's sibling under it), by
// inverting the operator's forward truth table.
func (s *Solver) parentStructural(f formula.Formula, parID formula.ID) (*justify.Justification, error) {
	par := s.KB.Store.Lookup(parID)
	parJust, err := s.resolve(par)
	if err == errCycle {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !usable(parJust) {
		return nil, nil
	}

	switch p := par.(type) {
	case *formula.Not:
		v := truth.Not(parJust.Value)
		return justify.Parent(v, par.String(), parJust, nil), nil

	case *formula.BinOp:
		sibling := p.Sibling(f)
		sibJust, err := s.resolve(sibling)
		if err == errCycle {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if !usable(sibJust) {
			return nil, nil
		}
		v, ok, incoherent := invertBinOp(p.Operator, parJust.Value, sibJust.Value)
		if incoherent {
			return nil, &IncoherenceError{
				Formula: f,
				Reason:  fmt.Sprintf("impossible (parent=%v, sibling=%v) pair under %s", parJust.Value, sibJust.Value, par),
			}
		}
		if !ok {
			return nil, nil
		}
		return justify.Parent(v, par.String(), parJust, sibJust), nil

	default:
		return nil, nil
	}
}

// invertBinOp inverts op's forward truth table given the parent's value
// s and the sibling's value t, producing self's value. ok is false when
// (s, t) simply doesn't constrain self (never the case in these tables,
// but kept for symmetry/future operators); incoherent is true for the
// documented impossible pairs — e.g. an AND parent valued True can never
// have a sibling valued False.
func invertBinOp(op formula.Op, s, t truth.Value) (self truth.Value, ok bool, incoherent bool) {
	U := truth.Undetermined
	switch op {
	case formula.And:
		switch {
		case s == truth.True && t == truth.False:
			return 0, false, true
		case s == truth.True && t == truth.True:
			return truth.True, true, false
		case s == truth.True && t == U:
			return truth.True, true, false
		case s == truth.False && t == truth.True:
			return truth.False, true, false
		case s == truth.False && t == U:
			return U, true, false
		case s == truth.False && t == truth.False:
			return U, true, false
		default: // s == U
			return U, true, false
		}
	case formula.Or:
		switch {
		case s == truth.False && t == truth.True:
			return 0, false, true
		case s == truth.True && t == truth.False:
			return truth.True, true, false
		case s == truth.True && t == U:
			return U, true, false
		case s == truth.True && t == truth.True:
			return U, true, false
		case s == truth.False && t == truth.False:
			return truth.False, true, false
		case s == truth.False && t == U:
			return truth.False, true, false
		default: // s == U
			return U, true, false
		}
	case formula.Xor:
		switch {
		case s == truth.True && t == truth.False:
			return truth.True, true, false
		case s == truth.True && t == truth.True:
			return truth.False, true, false
		case s == truth.False && t == truth.False:
			return truth.False, true, false
		case s == truth.False && t == truth.True:
			return truth.True, true, false
		default:
			return U, true, false
		}
	}
	return U, true, false
}

// childStructural builds the candidate for a compound formula's own
// value from its operands, by the three-valued forward truth tables.
// Not applicable to atoms. AND/OR short-circuit on a non-Default
// determining operand (False for AND, True for OR) without needing the
// other operand at all — the usual lazy-evaluation reading of the
// forward table, and how an OR premise satisfied by only one known
// disjunct answers without ever having to decide whether the other,
// fact-less disjunct's Default value is trustworthy.
func (s *Solver) childStructural(f formula.Formula) (*justify.Justification, error) {
	switch n := f.(type) {
	case *formula.Atom:
		return nil, nil

	case *formula.Not:
		childJust, err := s.resolve(n.Child)
		if err == errCycle {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if !usable(childJust) {
			return nil, nil
		}
		return justify.Child(truth.Not(childJust.Value), []*justify.Justification{childJust}), nil

	case *formula.BinOp:
		return s.childStructuralBinOp(n)

	default:
		return nil, nil
	}
}

func (s *Solver) childStructuralBinOp(n *formula.BinOp) (*justify.Justification, error) {
	leftJust, err := s.resolve(n.Left)
	if err != nil && err != errCycle {
		return nil, err
	}
	leftOK := err == nil
	if leftOK && usable(leftJust) {
		if v, short := shortCircuits(n.Operator, leftJust.Value); short {
			return justify.Child(v, []*justify.Justification{leftJust}), nil
		}
	}

	rightJust, err := s.resolve(n.Right)
	if err != nil && err != errCycle {
		return nil, err
	}
	rightOK := err == nil
	if rightOK && usable(rightJust) {
		if v, short := shortCircuits(n.Operator, rightJust.Value); short {
			return justify.Child(v, []*justify.Justification{rightJust}), nil
		}
	}

	if !leftOK || !usable(leftJust) || !rightOK || !usable(rightJust) {
		return nil, nil
	}
	var v truth.Value
	switch n.Operator {
	case formula.And:
		v = truth.And(leftJust.Value, rightJust.Value)
	case formula.Or:
		v = truth.Or(leftJust.Value, rightJust.Value)
	case formula.Xor:
		v = truth.Xor(leftJust.Value, rightJust.Value)
	}
	return justify.Child(v, []*justify.Justification{leftJust, rightJust}), nil
}

// shortCircuits reports whether operand alone (independent of the other
// operand) already determines op's result: False for AND, True for OR.
// XOR never short-circuits — either operand alone always leaves both
// outcomes open.
func shortCircuits(op formula.Op, operand truth.Value) (truth.Value, bool) {
	switch op {
	case formula.And:
		if operand == truth.False {
			return truth.False, true
		}
	case formula.Or:
		if operand == truth.True {
			return truth.True, true
		}
	}
	return truth.Unknown, false
}

// selectWinner picks the strongest candidate among results: True or
// False beats Undetermined, shorter derivations beat longer ones, and a
// True candidate surviving alongside a False candidate is incoherent
// rather than an arbitrary tiebreak.
func (s *Solver) selectWinner(f formula.Formula, results []*justify.Justification) (*justify.Justification, error) {
	if len(results) == 0 {
		return justify.DefaultJustification(), nil
	}

	var bestTrue, bestFalse, bestUndet *justify.Justification
	for _, r := range results {
		switch r.Value {
		case truth.True:
			if bestTrue == nil || r.Length < bestTrue.Length {
				bestTrue = r
			}
		case truth.False:
			if bestFalse == nil || r.Length < bestFalse.Length {
				bestFalse = r
			}
		case truth.Undetermined:
			if bestUndet == nil || r.Length < bestUndet.Length {
				bestUndet = r
			}
		}
	}

	if bestTrue != nil && bestFalse != nil {
		return nil, &IncoherenceError{
			Formula: f,
			Reason:  "both True and False candidates survive selection",
			True:    bestTrue,
			False:   bestFalse,
		}
	}
	if bestTrue != nil {
		return bestTrue, nil
	}
	if bestFalse != nil {
		return bestFalse, nil
	}
	if bestUndet != nil {
		return bestUndet, nil
	}
	return justify.DefaultJustification(), nil
}
