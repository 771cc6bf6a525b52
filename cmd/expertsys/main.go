// Command expertsys is the CLI front end for the backward-chaining
// propositional expert system: it parses a rule file, solves its
// queries, and prints the answers. Flag layout and the
// PersistentPreRunE logger bring-up follow codeNERD's cmd/nerd/main.go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vmonteco/expertsys-go/internal/logx"
)

var (
	flagVerbose  bool
	flagDebug    bool
	flagNoColor  bool
	flagLogFormat string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "expertsys",
	Short: "A backward-chaining propositional expert system over three-valued logic",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format := logx.Text
		if flagLogFormat == "json" {
			format = logx.JSON
		}
		var err error
		logger, err = logx.New(format, flagDebug)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "print each query's full justification tree")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "trace every candidate the solver considers")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "log encoding: text or json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(testCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
