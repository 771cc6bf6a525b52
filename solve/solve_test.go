package solve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmonteco/expertsys-go/justify"
	"github.com/vmonteco/expertsys-go/kb"
	"github.com/vmonteco/expertsys-go/truth"
)

// Scenario 1: A=>B; facts=A; query B => True, length 1.
func TestForwardImplicationFromFact(t *testing.T) {
	b := kb.New()
	a, bb := b.Store.Atom("A"), b.Store.Atom("B")
	b.AddImplication(a, bb)
	b.SetInitialFact(a)

	j, err := New(b).Solve(bb)
	require.NoError(t, err)
	assert.Equal(t, truth.True, j.Value)
	assert.Equal(t, 1, j.Length)
	assert.Equal(t, justify.ForwardImplication, j.Kind)
}

// Scenario 2: A=>B; no facts; query B => False via Default.
func TestNoFactFallsBackToDefault(t *testing.T) {
	b := kb.New()
	a, bb := b.Store.Atom("A"), b.Store.Atom("B")
	b.AddImplication(a, bb)

	j, err := New(b).Solve(bb)
	require.NoError(t, err)
	assert.Equal(t, truth.False, j.Value)
	assert.Equal(t, justify.Default, j.Kind)
	assert.Equal(t, 0, j.Length)
}

// Scenario 3: A+B=>C; facts=AB; query C => True, length 2.
func TestChildStructuralFeedsForwardImplication(t *testing.T) {
	b := kb.New()
	a, bb, c := b.Store.Atom("A"), b.Store.Atom("B"), b.Store.Atom("C")
	b.AddImplication(b.Store.And(a, bb), c)
	b.SetInitialFact(a)
	b.SetInitialFact(bb)

	j, err := New(b).Solve(c)
	require.NoError(t, err)
	assert.Equal(t, truth.True, j.Value)
	assert.Equal(t, 2, j.Length)
}

// Scenario 4: A|B=>C; facts=A (only); query C => True, via OR short-circuit
// on the one known disjunct, never needing B's (fact-less) value.
func TestOrShortCircuitsOnKnownDisjunct(t *testing.T) {
	b := kb.New()
	a, bb, c := b.Store.Atom("A"), b.Store.Atom("B"), b.Store.Atom("C")
	b.AddImplication(b.Store.Or(a, bb), c)
	b.SetInitialFact(a)

	j, err := New(b).Solve(c)
	require.NoError(t, err)
	assert.Equal(t, truth.True, j.Value)
}

// Scenario 5: A<=>B; facts=A; query B => True, length 1, DefinedEquivalence.
func TestDefinedEquivalencePropagatesFact(t *testing.T) {
	b := kb.New()
	a, bb := b.Store.Atom("A"), b.Store.Atom("B")
	b.AddEquivalence(a, bb)
	b.SetInitialFact(a)

	j, err := New(b).Solve(bb)
	require.NoError(t, err)
	assert.Equal(t, truth.True, j.Value)
	assert.Equal(t, 1, j.Length)
	assert.Equal(t, justify.DefinedEquivalence, j.Kind)
}

// Scenario 6: A+!A=>B; no facts; query B => False. The self-contradictory
// premise never becomes a usable (non-Default) True/False answer, so B's
// forward-implication candidate is never built and B falls back to Default.
func TestSelfContradictoryPremiseNeverLaundersIntoAFact(t *testing.T) {
	b := kb.New()
	a, bb := b.Store.Atom("A"), b.Store.Atom("B")
	b.AddImplication(b.Store.And(a, b.Store.Not(a)), bb)

	j, err := New(b).Solve(bb)
	require.NoError(t, err)
	assert.Equal(t, truth.False, j.Value)
	assert.Equal(t, justify.Default, j.Kind)
}

func TestIncoherenceWhenBothTrueAndFalseSurvive(t *testing.T) {
	b := kb.New()
	a, x, y := b.Store.Atom("A"), b.Store.Atom("X"), b.Store.Atom("Y")
	b.AddImplication(x, a)
	b.AddImplication(y, b.Store.Not(a))
	b.SetInitialFact(x)
	b.SetInitialFact(y)

	_, err := New(b).Solve(a)
	require.Error(t, err)
	var incoherent *IncoherenceError
	require.ErrorAs(t, err, &incoherent)
}

func TestIndirectImplicationIsContrapositive(t *testing.T) {
	b := kb.New()
	a, bb := b.Store.Atom("A"), b.Store.Atom("B")
	b.AddImplication(a, bb)
	b.AddImplication(b.Store.Atom("X"), b.Store.Not(bb))
	b.SetInitialFact(b.Store.Atom("X"))

	j, err := New(b).Solve(a)
	require.NoError(t, err)
	assert.Equal(t, truth.False, j.Value, "B must be False (from !B fact), so A is False by contrapositive")
}

func TestParentStructuralInvertsAndFromSiblingAndParent(t *testing.T) {
	b := kb.New()
	a, bb, c := b.Store.Atom("A"), b.Store.Atom("B"), b.Store.Atom("C")
	and := b.Store.And(a, bb)
	b.AddImplication(b.Store.Atom("X"), and) // gives `and` a forward-derivable value
	b.SetInitialFact(b.Store.Atom("X"))
	b.SetInitialFact(a)
	_ = c

	j, err := New(b).Solve(bb)
	require.NoError(t, err)
	assert.Equal(t, truth.True, j.Value, "A+B known True and A True forces B True via parent-structural inversion")
}

// A+B is forced True via a fact on X, while B's other parent !B is forced
// True via a fact on Y (so B itself is forced False by negation). For A
// this is the parent=True, sibling=False pairing invertBinOp calls
// impossible; the contradiction already surfaces while A+B itself is
// resolved (its forward implication from X says True, its operand
// candidate short-circuits on B's False), so Solve must report an
// IncoherenceError rather than silently picking a winner.
func TestParentStructuralImpossiblePairIsIncoherent(t *testing.T) {
	b := kb.New()
	a, bb, x, y := b.Store.Atom("A"), b.Store.Atom("B"), b.Store.Atom("X"), b.Store.Atom("Y")
	and := b.Store.And(a, bb)
	b.AddImplication(x, and)
	b.AddImplication(y, b.Store.Not(bb))
	b.SetInitialFact(x)
	b.SetInitialFact(y)

	_, err := New(b).Solve(a)
	require.Error(t, err)
	var incoherent *IncoherenceError
	require.ErrorAs(t, err, &incoherent)
}

func TestCycleIsAbsorbedNotErrored(t *testing.T) {
	b := kb.New()
	a, bb := b.Store.Atom("A"), b.Store.Atom("B")
	b.AddImplication(a, bb)
	b.AddImplication(bb, a)

	j, err := New(b).Solve(a)
	require.NoError(t, err)
	assert.Equal(t, truth.False, j.Value)
	assert.Equal(t, justify.Default, j.Kind)
}
