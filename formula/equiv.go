package formula

import "github.com/vmonteco/expertsys-go/truth"

// isTautologicallyEquivalent reports whether f and g agree under every
// assignment of {True, False, Undetermined} to each of names, evaluating
// both by the three-valued truth tables (truth.And/Or/Xor/Not).
//
// Evaluation reads f and g's existing tree directly with a hypothetical
// assignment rather than building literal "fresh detached atom" copies:
// since evaluation never writes through Store (no class lookups, no
// allocation), a real KB formula can be probed exactly as if a
// disposable copy had been made, leaving the real knowledge base
// undisturbed.
func isTautologicallyEquivalent(f, g Formula, names []string) bool {
	n := len(names)
	assign := make(map[string]truth.Value, n)
	values := []truth.Value{truth.True, truth.False, truth.Undetermined}

	var enumerate func(i int) bool
	enumerate = func(i int) bool {
		if i == n {
			return evaluate(f, assign) == evaluate(g, assign)
		}
		for _, v := range values {
			assign[names[i]] = v
			if !enumerate(i + 1) {
				return false
			}
		}
		return true
	}
	return enumerate(0)
}

// evaluate computes f's value under assign using the three-valued truth
// tables. Atoms missing from assign evaluate to Undetermined, which is
// harmless here since names always covers every atom appearing in
// either formula under test.
func evaluate(f Formula, assign map[string]truth.Value) truth.Value {
	switch n := f.(type) {
	case *Atom:
		if v, ok := assign[n.Name]; ok {
			return v
		}
		return truth.Undetermined
	case *Not:
		return truth.Not(evaluate(n.Child, assign))
	case *BinOp:
		l := evaluate(n.Left, assign)
		r := evaluate(n.Right, assign)
		switch n.Operator {
		case And:
			return truth.And(l, r)
		case Or:
			return truth.Or(l, r)
		case Xor:
			return truth.Xor(l, r)
		}
	}
	return truth.Undetermined
}
