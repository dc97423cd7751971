package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	bfkerrors "github.com/deepnoodle-ai/bfk/errors"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// app holds the state shared by every command of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	v      *viper.Viper
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix("bfk")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &app{stdin: stdin, stdout: stdout, stderr: stderr, v: v}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bfk [file]",
		Short: "Compile and run programs for an eight-instruction tape machine",
		Long: `bfk compiles source made of the characters <>+-.,[] into bytecode,
folding runs of identical instructions, and runs it on a tape of 8-bit cells.
Every other character in a source file is a comment.

Exit status is 0 on success, 1 on a usage error, 2 when the source cannot
be read or compiled, and the opcode of the failing instruction when the
program halts abnormally: 1 move right, 2 move left, 5 write, 6 read. The
bounds codes overlap with the usage and compile codes; the message on
stderr tells them apart.`,
		Args:          a.fileArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.processGlobalFlags()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(args[0])
		},
	}
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.bfk.toml)")
	flags.Bool("no-color", false, "disable colored output")
	flags.BoolP("verbose", "v", false, "log compilation and run details to stderr")
	a.v.BindPFlag("config", flags.Lookup("config"))
	a.v.BindPFlag("no-color", flags.Lookup("no-color"))
	a.v.BindPFlag("verbose", flags.Lookup("verbose"))

	addRunFlags(cmd)
	cmd.PreRun = func(cmd *cobra.Command, args []string) { a.bindRunFlags(cmd) }

	cmd.AddCommand(
		a.runCmd(),
		a.compileCmd(),
		a.disCmd(),
		a.lintCmd(),
		a.versionCmd(),
	)
	return cmd
}

// usageError marks errors caused by bad command line arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// fileArgs requires exactly one source file argument.
func (a *app) fileArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &usageError{err: fmt.Errorf("expected exactly one file argument, got %d", len(args))}
	}
	return nil
}

// execute runs the command line and returns the process exit code.
func (a *app) execute(args []string) int {
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	executed, err := cmd.ExecuteC()
	if err == nil {
		return 0
	}
	formatter := bfkerrors.NewFormatter(a.useColor(a.stderr))
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(a.stderr, formatter.Format(err))
		fmt.Fprintf(a.stderr, "Usage: %s\n", executed.UseLine())
		return bfkerrors.ExitUsage
	}
	var le *lintError
	if errors.As(err, &le) {
		fmt.Fprintln(a.stderr, formatter.Format(le.err))
		return bfkerrors.ExitFailure
	}
	fmt.Fprintln(a.stderr, formatter.Format(err))
	return bfkerrors.ExitCode(err)
}

func main() {
	os.Exit(newApp(os.Stdin, os.Stdout, os.Stderr).execute(os.Args[1:]))
}
