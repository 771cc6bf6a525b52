// The run subcommand: parse a rule file, solve every query it lists, in
// file order, and print one answer line per query. --debug and
// --verbose thread the solver's trace hooks and the justification tree
// through to package render; an incoherent query is reported but does
// not abort the remaining queries.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vmonteco/expertsys-go/formula"
	"github.com/vmonteco/expertsys-go/internal/logx"
	"github.com/vmonteco/expertsys-go/justify"
	"github.com/vmonteco/expertsys-go/parse"
	"github.com/vmonteco/expertsys-go/render"
	"github.com/vmonteco/expertsys-go/solve"
)

var errIncoherentRun = errors.New("one or more queries were incoherent")

var runCmd = &cobra.Command{
	Use:   "run <filename>",
	Short: "Parse a rule file and answer every query it lists",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	correlationID := logx.NewCorrelationID()
	base, err := parse.Parse(f)
	if err != nil {
		logger.Error("parse failed",
			zap.String("correlation_id", correlationID),
			zap.String("file", path),
			zap.Error(err),
		)
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	r := render.New(os.Stdout, flagVerbose, flagNoColor)
	s := solve.New(base)
	if flagDebug {
		s.OnCandidate = func(f formula.Formula, j *justify.Justification) {
			r.Candidate(f, j)
			logx.Audit(logger, logx.AuditCandidate, correlationID,
				zap.String("formula", f.String()),
				zap.String("kind", j.Kind.String()),
				zap.String("value", j.Value.String()),
				zap.Int("length", j.Length),
			)
		}
		s.OnWinner = func(f formula.Formula, j *justify.Justification) {
			r.Winner(f, j)
			logx.Audit(logger, logx.AuditWinner, correlationID,
				zap.String("formula", f.String()),
				zap.String("kind", j.Kind.String()),
				zap.String("value", j.Value.String()),
				zap.Int("length", j.Length),
			)
		}
	}

	incoherent := false
	for _, q := range base.Queries {
		j, err := s.Solve(q)
		if err != nil {
			incoherent = true
			logger.Error("query incoherent",
				zap.String("correlation_id", correlationID),
				zap.String("query", q.String()),
				zap.Error(err),
			)
			r.Failure(q, err)
			continue
		}
		logger.Debug("query solved",
			zap.String("correlation_id", correlationID),
			zap.String("query", q.String()),
			zap.String("value", j.Value.String()),
		)
		r.Answer(q, j)
	}
	if incoherent {
		return errIncoherentRun
	}
	return nil
}
