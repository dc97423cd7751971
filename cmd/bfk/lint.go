package main

import (
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/bfk/buffer"
	"github.com/deepnoodle-ai/bfk/compiler"
)

// lintError carries the problems found by the lint command.
type lintError struct {
	err error
}

func (e *lintError) Error() string { return e.err.Error() }
func (e *lintError) Unwrap() error { return e.err }

func (a *app) lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file>",
		Short: "Report every unmatched bracket in a source file",
		Args:  a.fileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.lint(args[0])
		},
	}
}

func (a *app) lint(path string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	src, err := buffer.ReadFileWithLimit(path, cfg.MaxSourceSize)
	if err != nil {
		return err
	}
	if err := compiler.Lint(src.Bytes()); err != nil {
		return &lintError{err: err}
	}
	logger := a.logger()
	logger.Debug().Str("file", path).Msg("no problems found")
	return nil
}
