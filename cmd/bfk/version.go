package main

import (
	"fmt"
	"strings"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

func (a *app) versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{err: fmt.Errorf("unexpected argument %q", args[0])}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			return a.version(format)
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format (text or json)")
	return cmd
}

func (a *app) version(format string) error {
	if strings.ToLower(format) != "json" {
		fmt.Fprintln(a.stdout, version)
		return nil
	}
	formatter := prettyjson.NewFormatter()
	formatter.DisabledColor = !a.useColor(a.stdout)
	info, err := formatter.Marshal(map[string]any{
		"version": version,
		"commit":  commit,
		"date":    date,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, string(info))
	return nil
}
