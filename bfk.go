// Package bfk compiles and runs programs written in an eight-instruction
// tape language.
//
// Source text is read into a growable buffer, reduced to the instruction
// alphabet, tokenized and compiled into a bytecode.Program in which runs of
// identical instructions are folded and brackets carry resolved jump
// targets. The program then executes on a vm.VirtualMachine.
//
//	program, err := bfk.Compile([]byte("++>+++++[<+>-]<."))
//	if err != nil {
//		return err
//	}
//	_, err = bfk.Run(ctx, program, bfk.WithOutput(os.Stdout))
package bfk

import (
	"context"

	"github.com/deepnoodle-ai/bfk/buffer"
	"github.com/deepnoodle-ai/bfk/bytecode"
	"github.com/deepnoodle-ai/bfk/compiler"
	"github.com/deepnoodle-ai/bfk/errors"
	"github.com/deepnoodle-ai/bfk/token"
	"github.com/deepnoodle-ai/bfk/vm"
)

// Compile filters and compiles source. The returned Program is immutable
// and safe for concurrent use.
func Compile(source []byte, opts ...Option) (*bytecode.Program, error) {
	o := collectOptions(opts...)
	raw := buffer.NewWithLimit(o.cfg.MaxSourceSize)
	if err := raw.Append(source); err != nil {
		return nil, err
	}
	return compileBuffer(raw, o)
}

// CompileFile reads and compiles the source file at path.
func CompileFile(path string, opts ...Option) (*bytecode.Program, error) {
	o := collectOptions(opts...)
	if o.name == "" {
		o.name = path
	}
	raw, err := buffer.ReadFileWithLimit(path, o.cfg.MaxSourceSize)
	if err != nil {
		return nil, err
	}
	return compileBuffer(raw, o)
}

// LoadFile returns the program stored at path. Files written by
// bytecode.Encode are decoded; anything else is compiled as source.
func LoadFile(path string, opts ...Option) (*bytecode.Program, error) {
	o := collectOptions(opts...)
	if o.name == "" {
		o.name = path
	}
	raw, err := buffer.ReadFileWithLimit(path, o.cfg.MaxSourceSize)
	if err != nil {
		return nil, err
	}
	if bytecode.IsEncoded(raw.Bytes()) {
		program, err := bytecode.Decode(raw.Bytes())
		if err != nil {
			return nil, errors.NewIOError("load", "failed to decode program", err)
		}
		return program, nil
	}
	return compileBuffer(raw, o)
}

func compileBuffer(raw *buffer.Buffer, o *options) (*bytecode.Program, error) {
	filtered, err := raw.FilterIncluding(o.cfg.Alphabet)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(token.FromBuffer(filtered), &compiler.Config{
		Name:   o.name,
		Logger: o.logger,
	})
}

// Run executes program on a fresh VirtualMachine. The machine is returned
// even when err is non-nil so its final state can be inspected.
func Run(ctx context.Context, program *bytecode.Program, opts ...Option) (*vm.VirtualMachine, error) {
	o := collectOptions(opts...)
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	return vm.Run(ctx, program, o.vmOpts()...)
}

// Eval compiles and runs source. It is equivalent to Compile followed by
// Run.
func Eval(ctx context.Context, source []byte, opts ...Option) (*vm.VirtualMachine, error) {
	program, err := Compile(source, opts...)
	if err != nil {
		return nil, err
	}
	return Run(ctx, program, opts...)
}
