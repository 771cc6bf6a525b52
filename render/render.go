// Package render turns a solved justify.Justification into the CLI's
// output text: a one-line answer, an optional indented derivation tree
// under --verbose, and colored True/False/Undetermined values via
// github.com/fatih/color (auto-disabled when stdout isn't a terminal, or
// under --no-color).
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/vmonteco/expertsys-go/formula"
	"github.com/vmonteco/expertsys-go/justify"
	"github.com/vmonteco/expertsys-go/truth"
)

// Renderer writes query answers to an output stream.
type Renderer struct {
	Out     io.Writer
	Verbose bool

	trueC  *color.Color
	falseC *color.Color
	undetC *color.Color
}

// New returns a Renderer. If noColor is true, coloring is disabled
// regardless of whether out is a terminal (the CLI's --no-color flag);
// otherwise github.com/fatih/color's own terminal detection applies.
func New(out io.Writer, verbose, noColor bool) *Renderer {
	r := &Renderer{
		Out:     out,
		Verbose: verbose,
		trueC:   color.New(color.FgGreen, color.Bold),
		falseC:  color.New(color.FgRed, color.Bold),
		undetC:  color.New(color.FgYellow, color.Bold),
	}
	if noColor {
		r.trueC.DisableColor()
		r.falseC.DisableColor()
		r.undetC.DisableColor()
	}
	return r
}

func (r *Renderer) colorFor(v truth.Value) *color.Color {
	switch v {
	case truth.True:
		return r.trueC
	case truth.False:
		return r.falseC
	default:
		return r.undetC
	}
}

// Answer writes "<expr> is <VALUE>." for a solved query, followed by the
// indented justification tree when Verbose is set.
func (r *Renderer) Answer(f formula.Formula, j *justify.Justification) {
	valueText := r.colorFor(j.Value).Sprint(j.Value)
	fmt.Fprintf(r.Out, "%s is %s.\n", f, valueText)
	if r.Verbose {
		fmt.Fprintf(r.Out, "  (%s)\n", formula.KindOf(f))
		r.tree(j, 1)
	}
}

// Failure writes the one-line report for a query that raised an
// IncoherenceError, naming the offending formula.
func (r *Renderer) Failure(f formula.Formula, err error) {
	fmt.Fprintf(r.Out, "%s is %s: %s\n", f, r.falseC.Sprint("INCOHERENT"), err)
}

func (r *Renderer) tree(j *justify.Justification, depth int) {
	indent := strings.Repeat("  ", depth)
	switch j.Kind {
	case justify.DefinedFact:
		fmt.Fprintf(r.Out, "%sasserted as an initial fact\n", indent)
	case justify.Default:
		fmt.Fprintf(r.Out, "%sno rule concludes a value; defaulted to False\n", indent)
	case justify.DefinedEquivalence, justify.DeducedEquivalence:
		fmt.Fprintf(r.Out, "%s%s, via %s\n", indent, j.Kind, j.Source)
		r.tree(j.Premise, depth+1)
	case justify.ForwardImplication, justify.IndirectImplication:
		fmt.Fprintf(r.Out, "%s%s, from %s\n", indent, j.Kind, j.Source)
		r.tree(j.Premise, depth+1)
	case justify.ParentStructural:
		fmt.Fprintf(r.Out, "%s%s, via parent %s\n", indent, j.Kind, j.Source)
		r.tree(j.Premise, depth+1)
		if j.Sibling != nil {
			r.tree(j.Sibling, depth+1)
		}
	case justify.ChildStructural:
		fmt.Fprintf(r.Out, "%s%s\n", indent, j.Kind)
		for _, c := range j.Children {
			r.tree(c, depth+1)
		}
	}
}

// Candidate writes one --debug trace line: every candidate considered
// for a formula, winning or not, in enumeration order.
func (r *Renderer) Candidate(f formula.Formula, j *justify.Justification) {
	fmt.Fprintf(r.Out, "  candidate for %s: %s => %s (length %d)\n", f, j.Kind, j.Value, j.Length)
}

// Winner writes the --debug line announcing the value selected for a
// formula, once its candidates have all been considered.
func (r *Renderer) Winner(f formula.Formula, j *justify.Justification) {
	fmt.Fprintf(r.Out, "  selected for %s: %s (%s, length %d)\n", f, j.Value, j.Kind, j.Length)
}
