// Package op defines the instruction kinds used by the bfk compiler and
// virtual machine.
package op

// Code is an integer opcode that indicates an operation to execute.
//
// The numeric values are stable: the VM reports the code of the instruction
// that caused a halt as the process exit code.
type Code uint8

const (
	// EndOfProgram terminates every compiled program.
	EndOfProgram Code = 0

	// Tape movement
	MoveRight Code = 1
	MoveLeft  Code = 2

	// Cell arithmetic
	Increment Code = 3
	Decrement Code = 4

	// I/O
	Write Code = 5
	Read  Code = 6

	// Jump
	JumpIfZero    Code = 7
	JumpIfNotZero Code = 8
)

// EndOfInput is returned by the tokenizer once the source is exhausted. It
// shares its value with EndOfProgram.
const EndOfInput = EndOfProgram

// Alphabet is the set of source characters that map to instructions. Every
// other byte in a source file is treated as a comment.
const Alphabet = "<>+-.,[]"

// Info contains information about an opcode.
type Info struct {
	Code     Code
	Name     string
	Char     byte
	Foldable bool
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op       Code
		name     string
		char     byte
		foldable bool
	}
	ops := []opInfo{
		{EndOfProgram, "END", 0, false},
		{MoveRight, "MOVE_RIGHT", '>', true},
		{MoveLeft, "MOVE_LEFT", '<', true},
		{Increment, "INCREMENT", '+', true},
		{Decrement, "DECREMENT", '-', true},
		{Write, "WRITE", '.', true},
		{Read, "READ", ',', true},
		{JumpIfZero, "JUMP_IF_ZERO", '[', false},
		{JumpIfNotZero, "JUMP_IF_NOT_ZERO", ']', false},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:     o.op,
			Name:     o.name,
			Char:     o.char,
			Foldable: o.foldable,
		}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(c Code) Info {
	return infos[c]
}

// String returns the opcode name, e.g. "MOVE_RIGHT".
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "UNKNOWN"
}

// Foldable reports whether consecutive instructions of this kind are
// collapsed into one instruction carrying a repeat count.
func (c Code) Foldable() bool {
	return infos[c].Foldable
}

// IsJump reports whether c is one of the two bracket instructions.
func (c Code) IsJump() bool {
	return c == JumpIfZero || c == JumpIfNotZero
}

// FromChar maps a source character to its opcode. The second return value
// is false for characters outside the Alphabet.
func FromChar(ch byte) (Code, bool) {
	switch ch {
	case '>':
		return MoveRight, true
	case '<':
		return MoveLeft, true
	case '+':
		return Increment, true
	case '-':
		return Decrement, true
	case '.':
		return Write, true
	case ',':
		return Read, true
	case '[':
		return JumpIfZero, true
	case ']':
		return JumpIfNotZero, true
	default:
		return EndOfInput, false
	}
}
