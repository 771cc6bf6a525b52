// Package parse reads the line-oriented rule file format into a
// *kb.Base: comment/whitespace stripping, the rules/facts/queries
// section state machine, and a recursive-descent expression splitter
// faithfully reproducing original_source/src/parsing.py's
// precedence-by-depth-zero-scan algorithm, so that ambiguous or
// repeated-operator expressions parse into exactly the same trees the
// original top-down split produces.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"

	"github.com/vmonteco/expertsys-go/formula"
	"github.com/vmonteco/expertsys-go/kb"
)

// SyntaxError reports one malformed line, tagged with its 1-based
// position in the source file.
type SyntaxError struct {
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// operatorRank gives each connective its split precedence (higher wins a
// depth-zero scan, ties keep the earliest-seen operator), mirroring
// parsing.py's `operators` table exactly: '+' is tightest, '^' is
// loosest. createPredicate picks the formula.Store constructor itself.
var operatorRank = map[byte]int{'+': 2, '|': 3, '^': 4}

type section int

const (
	sectionBeforeRules section = iota
	sectionRules
	sectionAfterRules
	sectionFacts
	sectionAfterFacts
	sectionBeforeQueries
	sectionQueries
	sectionDone
)

// Parse reads a complete rule file from r and returns the knowledge base
// it describes. Every malformed rule line is collected (via
// go.uber.org/multierr) rather than aborting at the first one, so a
// caller can report every syntax error in one pass; a malformed section
// transition (facts/queries out of place, trailing content) still aborts
// immediately, since recovering a coherent position to resume from isn't
// possible there.
func Parse(r io.Reader) (*kb.Base, error) {
	base := kb.New()
	scanner := bufio.NewScanner(r)
	state := sectionBeforeRules
	lineNo := 0
	var errs error

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := cleanLine(raw)

		switch state {
		case sectionBeforeRules:
			if !isEmpty(line) {
				state = sectionRules
			}
			fallthrough
		case sectionRules:
			if state == sectionRules {
				switch {
				case strings.HasPrefix(line, "?"):
					parseQueries(base, line)
					state = sectionDone
					continue
				case strings.HasPrefix(line, "="):
					parseInitialFacts(base, line)
					state = sectionAfterFacts
					continue
				case isEmpty(line):
					state = sectionAfterRules
				default:
					if err := parseRule(base, line, lineNo); err != nil {
						errs = multierr.Append(errs, err)
					}
				}
			}
		case sectionAfterRules:
			switch {
			case strings.HasPrefix(line, "="):
				parseInitialFacts(base, line)
				state = sectionAfterFacts
			case strings.HasPrefix(line, "?"):
				parseQueries(base, line)
				state = sectionDone
			case !isEmpty(line):
				return nil, multierr.Append(errs, &SyntaxError{lineNo, "expected the initial facts line"})
			}
		case sectionFacts:
			parseInitialFacts(base, line)
			state = sectionAfterFacts
		case sectionAfterFacts:
			if !isEmpty(line) {
				return nil, multierr.Append(errs, &SyntaxError{lineNo, "expected a blank line after initial facts"})
			}
			state = sectionBeforeQueries
		case sectionBeforeQueries:
			if !isEmpty(line) {
				if !strings.HasPrefix(line, "?") {
					return nil, multierr.Append(errs, &SyntaxError{lineNo, "expected the query line"})
				}
				state = sectionQueries
				parseQueries(base, line)
				state = sectionDone
			}
		case sectionDone:
			if !isEmpty(line) {
				return nil, multierr.Append(errs, &SyntaxError{lineNo, "unexpected content after the query line"})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, multierr.Append(errs, err)
	}
	if errs != nil {
		return nil, errs
	}
	return base, nil
}

// cleanLine drops a trailing "#" comment and every space/tab, matching
// parsing.py's clean_line (regex.sub over ' |\t|\n' after splitting on
// '#'). Newlines are already stripped by bufio.Scanner.
func cleanLine(l string) string {
	if i := strings.IndexByte(l, '#'); i != -1 {
		l = l[:i]
	}
	var b strings.Builder
	for i := 0; i < len(l); i++ {
		if l[i] != ' ' && l[i] != '\t' {
			b.WriteByte(l[i])
		}
	}
	return b.String()
}

func isEmpty(l string) bool { return l == "" }

func parseRule(base *kb.Base, line string, lineNo int) error {
	if idx := strings.Index(line, "<=>"); idx != -1 {
		if strings.Count(line, "<=>") != 1 {
			return &SyntaxError{lineNo, "a rule may contain only one '<=>'"}
		}
		lhs, rhs := line[:idx], line[idx+3:]
		p1, err := createPredicate(base.Store, lhs)
		if err != nil {
			return lineErr(lineNo, err)
		}
		p2, err := createPredicate(base.Store, rhs)
		if err != nil {
			return lineErr(lineNo, err)
		}
		base.AddEquivalence(p1, p2)
		return nil
	}
	if idx := strings.Index(line, "=>"); idx != -1 {
		if strings.Count(line, "=>") != 1 {
			return &SyntaxError{lineNo, "a rule may contain only one '=>'"}
		}
		lhs, rhs := line[:idx], line[idx+2:]
		p1, err := createPredicate(base.Store, lhs)
		if err != nil {
			return lineErr(lineNo, err)
		}
		p2, err := createPredicate(base.Store, rhs)
		if err != nil {
			return lineErr(lineNo, err)
		}
		base.AddImplication(p1, p2)
		return nil
	}
	return &SyntaxError{lineNo, "rule is missing '=>' or '<=>'"}
}

func lineErr(lineNo int, err error) error {
	if se, ok := err.(*SyntaxError); ok {
		se.Line = lineNo
		return se
	}
	return &SyntaxError{lineNo, err.Error()}
}

// createPredicate is parsing.py's create_predicate: scan s left to
// right, tracking paren depth, and remember the highest-ranked operator
// seen at depth zero (strictly higher than the one currently
// remembered, so the first occurrence of the top rank wins ties); that
// position is the split point. With no split point, s must be a negation,
// a fully parenthesized expression, or a single uppercase letter.
func createPredicate(store *formula.Store, s string) (formula.Formula, error) {
	depth := 0
	opIndex := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				return nil, &SyntaxError{Message: fmt.Sprintf("unbalanced ')' in %q", s)}
			}
			depth--
		case depth == 0:
			if rank, ok := operatorRank[c]; ok {
				if opIndex == -1 || rank > operatorRank[s[opIndex]] {
					opIndex = i
				}
			}
		}
	}
	if depth > 0 {
		return nil, &SyntaxError{Message: fmt.Sprintf("unbalanced '(' in %q", s)}
	}

	if opIndex == -1 {
		switch {
		case len(s) > 0 && s[0] == '!':
			child, err := createPredicate(store, s[1:])
			if err != nil {
				return nil, err
			}
			return store.Not(child), nil
		case len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')':
			return createPredicate(store, s[1:len(s)-1])
		case len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z':
			return store.Atom(s), nil
		default:
			return nil, &SyntaxError{Message: fmt.Sprintf("not a valid expression: %q", s)}
		}
	}

	left, err := createPredicate(store, s[:opIndex])
	if err != nil {
		return nil, err
	}
	right, err := createPredicate(store, s[opIndex+1:])
	if err != nil {
		return nil, err
	}
	switch s[opIndex] {
	case '+':
		return store.And(left, right), nil
	case '|':
		return store.Or(left, right), nil
	case '^':
		return store.Xor(left, right), nil
	}
	panic("unreachable")
}

func parseInitialFacts(base *kb.Base, line string) {
	for i := 1; i < len(line); i++ {
		c := line[i]
		if c < 'A' || c > 'Z' {
			continue
		}
		base.SetInitialFact(base.Store.Atom(string(c)))
	}
}

func parseQueries(base *kb.Base, line string) {
	seen := map[string]bool{}
	for i := 1; i < len(line); i++ {
		c := line[i]
		if c < 'A' || c > 'Z' {
			continue
		}
		name := string(c)
		if seen[name] {
			continue
		}
		seen[name] = true
		base.Queries = append(base.Queries, base.Store.Atom(name))
	}
}
