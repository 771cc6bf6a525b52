package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmonteco/expertsys-go/formula"
)

func mustParse(t *testing.T, src string) string {
	t.Helper()
	s := formula.NewStore()
	f, err := createPredicate(s, src)
	require.NoError(t, err)
	return f.String()
}

func TestSameOperatorChainIsRightLeaning(t *testing.T) {
	// Ties keep the leftmost '+' at depth zero: "A+B+C" splits at the
	// first '+' into "A" and "B+C", not "A+B" and "C".
	assert.Equal(t, "A+(B+C)", mustParse(t, "A+B+C"))
}

func TestHighestRankOperatorSplitsFirst(t *testing.T) {
	// '^' outranks '+' and '|', so it is the split point regardless of
	// position, making XOR the loosest-binding connective.
	assert.Equal(t, "(A+B)^C", mustParse(t, "A+B^C"))
	assert.Equal(t, "A^(B+C)", mustParse(t, "A^B+C"))
}

func TestParenthesesOverrideSplitPoint(t *testing.T) {
	assert.Equal(t, "(A+B)^C", mustParse(t, "(A+B)^C"))
}

func TestNegationBindsToTheImmediateOperand(t *testing.T) {
	assert.Equal(t, "!A", mustParse(t, "!A"))
	assert.Equal(t, "!(A+B)", mustParse(t, "!(A+B)"))
}

func TestUnbalancedParensIsASyntaxError(t *testing.T) {
	s := formula.NewStore()
	_, err := createPredicate(s, "(A+B")
	require.Error(t, err)
}

func TestCleanLineStripsCommentsAndWhitespace(t *testing.T) {
	assert.Equal(t, "A+B=>C", cleanLine("A + B => C   # a comment"))
	assert.Equal(t, "", cleanLine("   # just a comment"))
}

func TestParseFullFile(t *testing.T) {
	src := `A+B=>C
A<=>D

=AB

?CD
`
	base, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, base.Queries, 2)
	assert.Equal(t, "C", base.Queries[0].Name)
	assert.Equal(t, "D", base.Queries[1].Name)
}

func TestTrailingContentAfterQueriesIsRejected(t *testing.T) {
	src := "A=>B\n\n=A\n\n?B\ngarbage\n"
	_, err := Parse(strings.NewReader(src))
	require.Error(t, err)
}

func TestMalformedRuleLinesAreAggregated(t *testing.T) {
	src := "A+=>B\nC<=>\n\n=A\n\n?B\n"
	_, err := Parse(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
	assert.Contains(t, err.Error(), "line 2")
}
