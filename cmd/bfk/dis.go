package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/bfk"
	"github.com/deepnoodle-ai/bfk/dis"
)

var outputFormatsCompletion = []string{"json", "text"}

func (a *app) disCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis <file>",
		Short: "Disassemble a source or compiled program file",
		Args:  a.fileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			return a.dis(args[0], format)
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format (text or json)")
	cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (a *app) dis(path, format string) error {
	switch strings.ToLower(format) {
	case "text", "json":
	default:
		return &usageError{err: fmt.Errorf("unknown output format: %s", format)}
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	program, err := bfk.LoadFile(path, bfk.WithConfig(cfg), bfk.WithLogger(a.logger()))
	if err != nil {
		return err
	}
	if strings.ToLower(format) == "json" {
		doc, err := dis.NewDocument(program)
		if err != nil {
			return err
		}
		return dis.PrintJSON(doc, a.stdout, a.useColor(a.stdout))
	}
	instructions, err := dis.Disassemble(program)
	if err != nil {
		return err
	}
	dis.Print(instructions, a.stdout)
	return nil
}
