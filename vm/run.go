package vm

import (
	"context"

	"github.com/deepnoodle-ai/bfk/bytecode"
)

// Run executes the given program in a new Virtual Machine and returns the
// machine so callers can inspect its final state.
func Run(ctx context.Context, program *bytecode.Program, options ...Option) (*VirtualMachine, error) {
	machine := New(program, options...)
	if err := machine.Run(ctx); err != nil {
		return machine, err
	}
	return machine, nil
}
