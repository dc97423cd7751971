package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/bfk"
	"github.com/deepnoodle-ai/bfk/errors"
	"github.com/deepnoodle-ai/bfk/internal/table"
	"github.com/deepnoodle-ai/bfk/op"
	"github.com/deepnoodle-ai/bfk/vm"
)

func addRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int("tape-size", 0, "number of cells on the tape (default 64000)")
	flags.Bool("no-input", false, "do not connect stdin to Read instructions")
	flags.Bool("trace", false, "log every executed instruction to stderr")
	flags.Bool("stats", false, "print executed instruction counts to stderr")
	flags.Int64("max-steps", 0, "stop after executing this many instructions")
}

// bindRunFlags binds the run flags of the command being executed. Both the
// root command and "run" define them, and viper keeps one binding per key.
func (a *app) bindRunFlags(cmd *cobra.Command) {
	for _, name := range []string{"tape-size", "no-input", "trace", "stats", "max-steps"} {
		a.v.BindPFlag(name, cmd.Flags().Lookup(name))
	}
}

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Compile and run a source or compiled program file",
		Args:  a.fileArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			a.bindRunFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(args[0])
		},
	}
	addRunFlags(cmd)
	return cmd
}

func (a *app) run(path string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	logger := a.logger()
	program, err := bfk.LoadFile(path, bfk.WithConfig(cfg), bfk.WithLogger(logger))
	if err != nil {
		return err
	}

	out := bufio.NewWriter(a.stdout)
	opts := []bfk.Option{
		bfk.WithConfig(cfg),
		bfk.WithLogger(logger),
		bfk.WithOutput(out),
		bfk.WithMaxSteps(a.v.GetInt64("max-steps")),
	}
	if a.stdin != nil {
		opts = append(opts, bfk.WithInput(bufio.NewReader(a.stdin)))
	}

	var counts *vm.CountingObserver
	var observers []vm.Observer
	if a.v.GetBool("trace") {
		observers = append(observers, vm.NewLogObserver(a.traceLogger()))
	}
	if a.v.GetBool("stats") {
		counts = vm.NewCountingObserver()
		observers = append(observers, counts)
	}
	if len(observers) > 0 {
		opts = append(opts, bfk.WithObserver(vm.Observers(observers...)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	machine, err := bfk.Run(ctx, program, opts...)
	if flushErr := out.Flush(); flushErr != nil && err == nil {
		// Output still buffered when the program ended could not be written.
		pc := 0
		if machine != nil {
			pc = machine.PC()
		}
		err = errors.NewRuntimeError(vm.MsgWriteFailed, int(op.Write), pc, flushErr)
	}
	if counts != nil && machine != nil {
		printCounts(a.stderr, counts, machine.Steps())
	}
	return err
}

func printCounts(w io.Writer, counts *vm.CountingObserver, steps int64) {
	codes := make([]op.Code, 0, len(counts.Counts))
	for code := range counts.Counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	var rows [][]string
	for _, code := range codes {
		rows = append(rows, []string{code.String(), fmt.Sprintf("%d", counts.Counts[code])})
	}
	rows = append(rows, []string{"TOTAL", fmt.Sprintf("%d", steps)})
	table.NewTable(w).
		WithHeader([]string{"OPCODE", "EXECUTED"}).
		WithColumnAlignment([]table.Alignment{table.AlignLeft, table.AlignRight}).
		WithHeaderAlignment([]table.Alignment{table.AlignCenter, table.AlignCenter}).
		WithRows(rows).
		Render()
}
