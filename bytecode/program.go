package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/bfk/op"
)

// Instruction is a single compiled operation.
type Instruction struct {
	Code    op.Code `json:"op" cbor:"1,keyasint"`
	Operand int     `json:"operand" cbor:"2,keyasint"`
}

// String returns a compact representation such as "INCREMENT 3".
func (i Instruction) String() string {
	if i.Code == op.EndOfProgram {
		return i.Code.String()
	}
	return fmt.Sprintf("%s %d", i.Code, i.Operand)
}

// Program is an immutable compiled program. It is safe for concurrent use.
type Program struct {
	name         string
	instructions []Instruction
	sourceChars  int
}

// ProgramParams contains parameters for creating a new Program.
type ProgramParams struct {
	// Name identifies where the program came from, usually a file path.
	Name string

	// Instructions must end with an EndOfProgram instruction.
	Instructions []Instruction

	// SourceChars is the number of instruction characters in the source
	// after comments were removed.
	SourceChars int
}

// NewProgram creates a new immutable Program from the given parameters.
// The instruction slice is copied.
func NewProgram(params ProgramParams) *Program {
	instructions := make([]Instruction, len(params.Instructions))
	copy(instructions, params.Instructions)
	return &Program{
		name:         params.Name,
		instructions: instructions,
		sourceChars:  params.SourceChars,
	}
}

// Name returns the name the program was compiled with.
func (p *Program) Name() string {
	return p.name
}

// InstructionCount returns the number of instructions, including the
// trailing EndOfProgram.
func (p *Program) InstructionCount() int {
	return len(p.instructions)
}

// InstructionAt returns the instruction at the given index.
func (p *Program) InstructionAt(index int) Instruction {
	return p.instructions[index]
}

// SourceChars returns the number of instruction characters the program was
// compiled from.
func (p *Program) SourceChars() int {
	return p.sourceChars
}

// UnfoldedCount returns the number of source characters the instructions
// represent: the sum of repeat counts for folded kinds plus one per jump.
// For a compiled program this always equals SourceChars.
func (p *Program) UnfoldedCount() int {
	var total int
	for _, instr := range p.instructions {
		switch {
		case instr.Code.Foldable():
			total += instr.Operand
		case instr.Code.IsJump():
			total++
		}
	}
	return total
}

// Validate checks the structural invariants of the program: it is
// terminated by EndOfProgram, every folded instruction has a positive
// repeat count, and every jump is paired with its partner. Programs produced
// by the compiler always validate; this exists for programs decoded from
// files.
func (p *Program) Validate() error {
	n := len(p.instructions)
	if n == 0 || p.instructions[n-1].Code != op.EndOfProgram {
		return fmt.Errorf("program is not terminated by %s", op.EndOfProgram)
	}
	for i, instr := range p.instructions[:n-1] {
		switch {
		case instr.Code.Foldable():
			if instr.Operand < 1 {
				return fmt.Errorf("instruction %d: invalid repeat count %d", i, instr.Operand)
			}
		case instr.Code == op.JumpIfZero:
			t := instr.Operand
			if t <= i || t >= n-1 {
				return fmt.Errorf("instruction %d: jump target %d out of range", i, t)
			}
			if closer := p.instructions[t]; closer.Code != op.JumpIfNotZero || closer.Operand != i {
				return fmt.Errorf("instruction %d: unpaired jump", i)
			}
		case instr.Code == op.JumpIfNotZero:
			t := instr.Operand
			if t < 0 || t >= i {
				return fmt.Errorf("instruction %d: jump target %d out of range", i, t)
			}
			if opener := p.instructions[t]; opener.Code != op.JumpIfZero || opener.Operand != i {
				return fmt.Errorf("instruction %d: unpaired jump", i)
			}
		default:
			return fmt.Errorf("instruction %d: unexpected %s", i, instr.Code)
		}
	}
	return nil
}

// Stats summarizes the program.
func (p *Program) Stats() Stats {
	stats := Stats{
		InstructionCount: len(p.instructions),
		SourceChars:      p.sourceChars,
		ByKind:           map[string]int{},
	}
	depth := 0
	for _, instr := range p.instructions {
		if instr.Code == op.EndOfProgram {
			continue
		}
		stats.ByKind[instr.Code.String()]++
		switch instr.Code {
		case op.JumpIfZero:
			depth++
			if depth > stats.MaxLoopDepth {
				stats.MaxLoopDepth = depth
			}
		case op.JumpIfNotZero:
			depth--
		}
	}
	return stats
}
