package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/bfk"
	"github.com/deepnoodle-ai/bfk/bytecode"
	"github.com/deepnoodle-ai/bfk/errors"
)

// CompiledExt is the file extension of compiled programs.
const CompiledExt = ".bfc"

func (a *app) compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a source file to a bytecode file",
		Args:  a.fileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return a.compile(args[0], output)
		},
	}
	cmd.Flags().StringP("output", "o", "", "output path (default is the input path with a .bfc extension)")
	return cmd
}

func (a *app) compile(path, output string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	logger := a.logger()
	program, err := bfk.CompileFile(path, bfk.WithConfig(cfg), bfk.WithLogger(logger))
	if err != nil {
		return err
	}
	data, err := bytecode.Encode(program)
	if err != nil {
		return errors.NewIOError("compile", "failed to encode program", err)
	}
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + CompiledExt
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.NewIOError("compile", "failed to write output file", err)
	}
	logger.Debug().
		Str("output", output).
		Int("bytes", len(data)).
		Float64("fold_ratio", program.Stats().FoldRatio()).
		Msg("wrote program")
	return nil
}
