// The test subcommand: an end-to-end harness over the fixtures embedded
// from testdata/, run as CLI surface rather than only a `go test` entry
// point, since the fixtures are meant to be runnable without a Go
// toolchain on hand.
package main

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmonteco/expertsys-go/parse"
	"github.com/vmonteco/expertsys-go/solve"
	"github.com/vmonteco/expertsys-go/truth"
)

//go:embed testdata/*.kb
var fixtures embed.FS

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the embedded rule-file fixtures and report pass/fail",
	RunE:  runTest,
}

// expectation pairs a query's atom name with the value a fixture's
// trailing "# expect: <name>=<value>" comment line asserts for it.
type expectation struct {
	name  string
	value truth.Value
}

func runTest(cmd *cobra.Command, args []string) error {
	names, err := fixtureNames()
	if err != nil {
		return err
	}

	failures := 0
	for _, name := range names {
		data, err := fixtures.ReadFile("testdata/" + name)
		if err != nil {
			return fmt.Errorf("reading embedded fixture %s: %w", name, err)
		}
		expectations, err := parseExpectations(string(data))
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", name, err)
			failures++
			continue
		}
		if err := runFixture(name, string(data), expectations, cmd); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", name, err)
			failures++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", name)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d fixture(s), %d failure(s)\n", len(names), failures)
	if failures > 0 {
		return fmt.Errorf("%d fixture(s) failed", failures)
	}
	return nil
}

func fixtureNames() ([]string, error) {
	entries, err := fs.ReadDir(fixtures, "testdata")
	if err != nil {
		return nil, fmt.Errorf("listing embedded fixtures: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".kb") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// parseExpectations scans a fixture's raw text (before comment
// stripping) for "# expect: <NAME>=<VALUE>" lines, one per query, in the
// order they appear in the file.
func parseExpectations(src string) ([]expectation, error) {
	const marker = "# expect:"
	var out []expectation
	scanner := bufio.NewScanner(strings.NewReader(src))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, marker) {
			continue
		}
		body := strings.TrimSpace(line[len(marker):])
		parts := strings.SplitN(body, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed expectation comment %q", line)
		}
		value, err := parseExpectedValue(parts[1])
		if err != nil {
			return nil, err
		}
		out = append(out, expectation{name: parts[0], value: value})
	}
	return out, scanner.Err()
}

func parseExpectedValue(s string) (truth.Value, error) {
	switch s {
	case "True":
		return truth.True, nil
	case "False":
		return truth.False, nil
	case "Undetermined":
		return truth.Undetermined, nil
	default:
		return truth.Unknown, fmt.Errorf("unrecognized expected value %q", s)
	}
}

func runFixture(name, src string, expectations []expectation, cmd *cobra.Command) error {
	base, err := parse.Parse(strings.NewReader(src))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if len(base.Queries) != len(expectations) {
		return fmt.Errorf("%d quer(y/ies) but %d expectation(s)", len(base.Queries), len(expectations))
	}

	s := solve.New(base)
	for i, q := range base.Queries {
		want := expectations[i]
		if q.Name != want.name {
			return fmt.Errorf("query %d is %s, expected an assertion for %s", i, q.Name, want.name)
		}
		j, err := s.Solve(q)
		if err != nil {
			return fmt.Errorf("query %s: solve failed: %w", q.Name, err)
		}
		if j.Value != want.value {
			return fmt.Errorf("query %s: got %s, want %s", q.Name, j.Value, want.value)
		}
	}
	return nil
}
