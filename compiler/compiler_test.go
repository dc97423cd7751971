package compiler

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/bfk/buffer"
	"github.com/deepnoodle-ai/bfk/bytecode"
	"github.com/deepnoodle-ai/bfk/errors"
	"github.com/deepnoodle-ai/bfk/op"
	"github.com/deepnoodle-ai/bfk/token"
)

func compileSource(t *testing.T, src string) (*bytecode.Program, error) {
	t.Helper()
	raw, err := buffer.FromBytes([]byte(src))
	require.Nil(t, err)
	filtered, err := raw.FilterIncluding(op.Alphabet)
	require.Nil(t, err)
	return Compile(token.FromBuffer(filtered), &Config{Name: "t.b"})
}

func instructions(p *bytecode.Program) []bytecode.Instruction {
	out := make([]bytecode.Instruction, p.InstructionCount())
	for i := range out {
		out[i] = p.InstructionAt(i)
	}
	return out
}

func TestCompileAddition(t *testing.T) {
	p, err := compileSource(t, "++>+++++[<+>-]<.")
	require.Nil(t, err)
	require.Equal(t, "t.b", p.Name())
	require.Equal(t, []bytecode.Instruction{
		{Code: op.Increment, Operand: 2},
		{Code: op.MoveRight, Operand: 1},
		{Code: op.Increment, Operand: 5},
		{Code: op.JumpIfZero, Operand: 8},
		{Code: op.MoveLeft, Operand: 1},
		{Code: op.Increment, Operand: 1},
		{Code: op.MoveRight, Operand: 1},
		{Code: op.Decrement, Operand: 1},
		{Code: op.JumpIfNotZero, Operand: 3},
		{Code: op.MoveLeft, Operand: 1},
		{Code: op.Write, Operand: 1},
		{Code: op.EndOfProgram, Operand: 0},
	}, instructions(p))
	require.Nil(t, p.Validate())
}

func TestCompileEmpty(t *testing.T) {
	p, err := compileSource(t, "")
	require.Nil(t, err)
	require.Equal(t, []bytecode.Instruction{{Code: op.EndOfProgram}}, instructions(p))
}

func TestCompileCommentsOnly(t *testing.T) {
	p, err := compileSource(t, "this file has no instructions\n")
	require.Nil(t, err)
	require.Equal(t, 1, p.InstructionCount())
	require.Equal(t, 0, p.SourceChars())
}

func TestCompileStripsComments(t *testing.T) {
	p, err := compileSource(t, "ab+c+")
	require.Nil(t, err)
	require.Equal(t, []bytecode.Instruction{
		{Code: op.Increment, Operand: 2},
		{Code: op.EndOfProgram},
	}, instructions(p))
}

func TestFoldingEachKind(t *testing.T) {
	p, err := compileSource(t, ">>><<++++---..,,,,,")
	require.Nil(t, err)
	require.Equal(t, []bytecode.Instruction{
		{Code: op.MoveRight, Operand: 3},
		{Code: op.MoveLeft, Operand: 2},
		{Code: op.Increment, Operand: 4},
		{Code: op.Decrement, Operand: 3},
		{Code: op.Write, Operand: 2},
		{Code: op.Read, Operand: 5},
		{Code: op.EndOfProgram},
	}, instructions(p))
}

func TestJumpsAreNotFolded(t *testing.T) {
	p, err := compileSource(t, "[[]]")
	require.Nil(t, err)
	require.Equal(t, []bytecode.Instruction{
		{Code: op.JumpIfZero, Operand: 3},
		{Code: op.JumpIfZero, Operand: 2},
		{Code: op.JumpIfNotZero, Operand: 1},
		{Code: op.JumpIfNotZero, Operand: 0},
		{Code: op.EndOfProgram},
	}, instructions(p))
}

func TestFoldingStopsAtComment(t *testing.T) {
	// Comments are removed before tokenizing, so runs span them.
	p, err := compileSource(t, "++ more ++")
	require.Nil(t, err)
	require.Equal(t, bytecode.Instruction{Code: op.Increment, Operand: 4}, p.InstructionAt(0))
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{
			name:   "unmatched opening bracket",
			input:  "[+",
			errMsg: "compiler: unmatched opening bracket at instruction 0",
		},
		{
			name:   "innermost unmatched opener is reported",
			input:  "+[[-]",
			errMsg: "compiler: unmatched opening bracket at instruction 1",
		},
		{
			name:   "unmatched closing bracket",
			input:  "+]",
			errMsg: "compiler: unmatched closing bracket (offset 1)",
		},
		{
			name:   "closer before opener",
			input:  "][",
			errMsg: "compiler: unmatched closing bracket (offset 0)",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compileSource(t, tc.input)
			require.NotNil(t, err)
			require.Equal(t, tc.errMsg, err.Error())
			require.True(t, errors.IsKind(err, errors.KindParse))
			require.Equal(t, errors.ExitFailure, errors.ExitCode(err))
		})
	}
}

func TestCompileUnfilteredInput(t *testing.T) {
	_, err := Compile(token.New([]byte("+ +")), nil)
	require.NotNil(t, err)
	require.Equal(t, "tokenizer: unexpected end of file (offset 1)", err.Error())
}

func TestCapacityBound(t *testing.T) {
	// A program with no foldable runs uses every slot.
	src := strings.Repeat("[]", 50)
	tok := token.New([]byte(src))
	c := New(tok, nil)
	require.Equal(t, len(src)+1, cap(c.instructions))
	p, err := c.Compile()
	require.Nil(t, err)
	require.Equal(t, len(src)+1, p.InstructionCount())
}

func TestCompileLogsStats(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(&out).Level(zerolog.DebugLevel)
	_, err := Compile(token.New([]byte("+++")), &Config{Name: "log.b", Logger: &logger})
	require.Nil(t, err)
	require.Contains(t, out.String(), `"message":"compiled program"`)
	require.Contains(t, out.String(), `"instructions":2`)
}

// randomProgram returns a source string over the full alphabet with
// balanced brackets.
func randomProgram(r *rand.Rand, n int) string {
	var sb strings.Builder
	depth := 0
	for i := 0; i < n; i++ {
		switch c := "<>+-.,[]"[r.Intn(8)]; {
		case c == '[':
			depth++
			sb.WriteByte(c)
		case c == ']':
			if depth == 0 {
				continue
			}
			depth--
			sb.WriteByte(c)
		default:
			// Runs make folding interesting.
			sb.WriteString(strings.Repeat(string(c), 1+r.Intn(4)))
		}
	}
	sb.WriteString(strings.Repeat("]", depth))
	return sb.String()
}

func TestFoldingPreservesCount(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		src := randomProgram(r, 1+r.Intn(60))
		p, err := compileSource(t, src)
		require.Nil(t, err, src)
		require.Equal(t, len(src), p.UnfoldedCount(), src)
		require.Equal(t, len(src), p.SourceChars(), src)
	}
}

func TestJumpPairing(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		src := randomProgram(r, 1+r.Intn(60))
		p, err := compileSource(t, src)
		require.Nil(t, err, src)
		for pc := 0; pc < p.InstructionCount(); pc++ {
			instr := p.InstructionAt(pc)
			if instr.Code != op.JumpIfNotZero {
				continue
			}
			opener := p.InstructionAt(instr.Operand)
			require.Equal(t, op.JumpIfZero, opener.Code, src)
			require.Less(t, instr.Operand, pc, src)
			require.Equal(t, pc, opener.Operand, src)
		}
		require.Nil(t, p.Validate(), src)
	}
}

func TestLint(t *testing.T) {
	require.Nil(t, Lint([]byte("++[>[-]<] comment ]? no")[:9]))
	require.Nil(t, Lint(nil))

	err := Lint([]byte("]a[[b]"))
	require.NotNil(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 2)
	require.Equal(t, "lint: unmatched closing bracket (offset 0)", merr.Errors[0].Error())
	require.Equal(t, "lint: unmatched opening bracket (offset 2)", merr.Errors[1].Error())
}
