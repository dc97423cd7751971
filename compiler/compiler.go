// Package compiler turns a token stream into a bytecode.Program.
//
// # Single-Pass Compilation
//
// The compiler makes one left-to-right pass over the tokens. Two things
// happen in that pass:
//
// Folding: a run of identical movement, arithmetic or I/O tokens becomes a
// single instruction whose operand is the run length. Lookahead is limited
// to one token (Tokenizer.Peek).
//
// Jump resolution: each `[` pushes the index it is emitted at onto a jump
// stack and is emitted with a placeholder operand. Each `]` pops the index of
// its opener, patches the opener's operand to the closer's own index, and is
// emitted with the opener's index as its operand. The stack must be empty
// when the input ends.
//
// Program capacity is fixed before compilation starts at the number of
// remaining tokens plus one for the trailing EndOfProgram. Folding only
// ever reduces the instruction count, so the capacity is never exceeded.
package compiler

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/bfk/bytecode"
	"github.com/deepnoodle-ai/bfk/errors"
	"github.com/deepnoodle-ai/bfk/op"
	"github.com/deepnoodle-ai/bfk/token"
)

const stage = "compiler"

// Placeholder is the operand written to a JumpIfZero until its closer is
// found.
const Placeholder = 0

// Config holds compiler configuration options.
type Config struct {
	// Name identifies the source, usually a file path. It is recorded on the
	// compiled program.
	Name string

	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Compiler compiles one token stream. A Compiler is not reusable.
type Compiler struct {
	tok          *token.Tokenizer
	name         string
	log          zerolog.Logger
	sourceChars  int
	instructions []bytecode.Instruction
	jumps        []int
}

// Compile compiles the tokens remaining in tok. Pass nil for cfg to use
// default settings.
func Compile(tok *token.Tokenizer, cfg *Config) (*bytecode.Program, error) {
	return New(tok, cfg).Compile()
}

// New creates and returns a new Compiler. Pass nil for cfg to use defaults.
func New(tok *token.Tokenizer, cfg *Config) *Compiler {
	if cfg == nil {
		cfg = &Config{}
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	capacity := tok.Remaining() + 1
	return &Compiler{
		tok:          tok,
		name:         cfg.Name,
		log:          log,
		sourceChars:  tok.Remaining(),
		instructions: make([]bytecode.Instruction, 0, capacity),
		jumps:        make([]int, 0, capacity),
	}
}

// Compile runs the compilation and returns the resulting program.
func (c *Compiler) Compile() (*bytecode.Program, error) {
	for {
		kind := c.tok.Next()
		if kind == op.EndOfInput {
			if err := c.tok.Err(); err != nil {
				return nil, err
			}
			if len(c.jumps) > 0 {
				opener := c.jumps[len(c.jumps)-1]
				return nil, errors.NewParseError(stage, "unmatched opening bracket at instruction "+strconv.Itoa(opener))
			}
			if err := c.emit(op.EndOfProgram, 0); err != nil {
				return nil, err
			}
			break
		}
		var err error
		switch {
		case kind.Foldable():
			err = c.emit(kind, c.fold(kind))
		case kind == op.JumpIfZero:
			err = c.compileJumpIfZero()
		case kind == op.JumpIfNotZero:
			err = c.compileJumpIfNotZero()
		default:
			err = errors.NewParseError(stage, "unexpected token "+kind.String())
		}
		if err != nil {
			return nil, err
		}
	}
	program := bytecode.NewProgram(bytecode.ProgramParams{
		Name:         c.name,
		Instructions: c.instructions,
		SourceChars:  c.sourceChars,
	})
	c.log.Debug().
		Str("name", c.name).
		Int("source_chars", c.sourceChars).
		Int("instructions", program.InstructionCount()).
		Msg("compiled program")
	return program, nil
}

// fold consumes every token immediately following the current one that has
// the same kind and returns the length of the run.
func (c *Compiler) fold(kind op.Code) int {
	count := 1
	for c.tok.Peek() == kind {
		c.tok.Next()
		count++
	}
	return count
}

func (c *Compiler) compileJumpIfZero() error {
	if len(c.jumps) >= cap(c.jumps) {
		return errors.ParseErrorAt(stage, "jump stack overflow", c.tok.Position()-1)
	}
	c.jumps = append(c.jumps, c.currentPosition())
	return c.emit(op.JumpIfZero, Placeholder)
}

func (c *Compiler) compileJumpIfNotZero() error {
	if len(c.jumps) == 0 {
		return errors.ParseErrorAt(stage, "unmatched closing bracket", c.tok.Position()-1)
	}
	opener := c.jumps[len(c.jumps)-1]
	c.jumps = c.jumps[:len(c.jumps)-1]
	c.instructions[opener].Operand = c.currentPosition()
	return c.emit(op.JumpIfNotZero, opener)
}

func (c *Compiler) currentPosition() int {
	return len(c.instructions)
}

func (c *Compiler) emit(kind op.Code, operand int) error {
	if len(c.instructions) >= cap(c.instructions) {
		return errors.NewParseError(stage, "attempt to emit beyond program capacity")
	}
	c.instructions = append(c.instructions, bytecode.Instruction{Code: kind, Operand: operand})
	return nil
}
