// Package justify defines the tagged justification tree the solver
// produces: the structured reason a formula holds a value. A
// Justification is allocated fresh per solve call, never cached on a
// formula node, since the winning justification can depend on which
// cycles exist in the *enclosing* solve.
package justify

import "github.com/vmonteco/expertsys-go/truth"

// Kind tags which derivation shape a Justification is.
type Kind int

const (
	DefinedFact Kind = iota
	Default
	DefinedEquivalence
	DeducedEquivalence
	ForwardImplication
	IndirectImplication
	ParentStructural
	ChildStructural
)

func (k Kind) String() string {
	switch k {
	case DefinedFact:
		return "defined fact"
	case Default:
		return "default"
	case DefinedEquivalence:
		return "defined equivalence"
	case DeducedEquivalence:
		return "deduced equivalence"
	case ForwardImplication:
		return "forward implication"
	case IndirectImplication:
		return "indirect (contrapositive) implication"
	case ParentStructural:
		return "structural, from parent"
	case ChildStructural:
		return "structural, from operands"
	default:
		return "unknown"
	}
}

// Justification is one reason a formula holds Value, with Length equal
// to the depth of the derivation tree rooted at it (leaves — initial
// facts and defaults — have length 0).
type Justification struct {
	Kind   Kind
	Value  truth.Value
	Length int

	// Source names the other formula this justification's reasoning
	// pivots on (the equivalence partner, the implication premise, the
	// structural parent), rendered via its String() method. Unset for
	// DefinedFact, Default and ChildStructural (whose "source" is a list,
	// see Children).
	Source string

	// Premise is the solved justification of Source, when there is a
	// single one (equivalence and implication variants, and the parent
	// half of ParentStructural). Nil for DefinedFact/Default.
	Premise *Justification

	// Sibling is set only for ParentStructural, holding the solved
	// justification of the formula's sibling under the same parent, when
	// the parent's operator needed it to invert its truth table.
	Sibling *Justification

	// Children holds every operand's justification for ChildStructural.
	Children []*Justification
}

// Fact builds the length-0 "defined fact" leaf.
func Fact(v truth.Value) *Justification {
	return &Justification{Kind: DefinedFact, Value: v, Length: 0}
}

// DefaultJustification builds the length-0 last-resort leaf, always
// valued False: the closed-world "no rule concludes anything" answer.
func DefaultJustification() *Justification {
	return &Justification{Kind: Default, Value: truth.False, Length: 0}
}

// Equivalence builds a DefinedEquivalence or DeducedEquivalence node:
// length = source's length + 1.
func Equivalence(deduced bool, source string, premise *Justification) *Justification {
	k := DefinedEquivalence
	if deduced {
		k = DeducedEquivalence
	}
	return &Justification{Kind: k, Value: premise.Value, Length: premise.Length + 1, Source: source, Premise: premise}
}

// Implication builds a ForwardImplication or IndirectImplication node.
// value is supplied by the caller (solve package) because the mapping
// from the premise's value to this formula's value is direction-
// dependent: a forward read and a contrapositive read of the same
// premise value disagree.
func Implication(indirect bool, value truth.Value, source string, premise *Justification) *Justification {
	k := ForwardImplication
	if indirect {
		k = IndirectImplication
	}
	return &Justification{Kind: k, Value: value, Length: premise.Length + 1, Source: source, Premise: premise}
}

// Parent builds a ParentStructural node. sibling may be nil when the
// operator is unary (Not) and there is no sibling to justify.
func Parent(value truth.Value, parentName string, parentJust, siblingJust *Justification) *Justification {
	length := parentJust.Length
	if siblingJust != nil && siblingJust.Length > length {
		length = siblingJust.Length
	}
	return &Justification{
		Kind: ParentStructural, Value: value, Length: length + 1,
		Source: parentName, Premise: parentJust, Sibling: siblingJust,
	}
}

// Child builds a ChildStructural node: length = max over children's
// length, + 1.
func Child(value truth.Value, children []*Justification) *Justification {
	length := 0
	for _, c := range children {
		if c.Length > length {
			length = c.Length
		}
	}
	return &Justification{Kind: ChildStructural, Value: value, Length: length + 1, Children: children}
}
