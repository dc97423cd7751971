// Package dis supports analysis of bfk programs by disassembling them into
// a readable table or JSON document.
package dis

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"

	"github.com/deepnoodle-ai/bfk/bytecode"
	"github.com/deepnoodle-ai/bfk/internal/table"
	"github.com/deepnoodle-ai/bfk/op"
)

// Instruction represents a single program instruction and its annotation.
type Instruction struct {
	Offset     int     `json:"offset"`
	Name       string  `json:"name"`
	Opcode     op.Code `json:"opcode"`
	Operand    int     `json:"operand"`
	Source     string  `json:"source,omitempty"`
	Annotation string  `json:"annotation,omitempty"`
	Depth      int     `json:"depth"`
}

// Disassemble returns a parsed representation of the given program. The
// program is validated first so that jump annotations are meaningful.
func Disassemble(program *bytecode.Program) ([]Instruction, error) {
	if err := program.Validate(); err != nil {
		return nil, err
	}
	count := program.InstructionCount()
	instructions := make([]Instruction, 0, count)
	depth := 0
	for i := 0; i < count; i++ {
		instr := program.InstructionAt(i)
		info := op.GetInfo(instr.Code)
		if instr.Code == op.JumpIfNotZero {
			depth--
		}
		var source, annotation string
		switch {
		case instr.Code.Foldable():
			source = strings.Repeat(string(info.Char), min(instr.Operand, 8))
			if instr.Operand > 8 {
				source += "..."
			}
			annotation = annotate(instr)
		case instr.Code.IsJump():
			source = string(info.Char)
			annotation = fmt.Sprintf("-> %d", instr.Operand)
		}
		instructions = append(instructions, Instruction{
			Offset:     i,
			Name:       info.Name,
			Opcode:     instr.Code,
			Operand:    instr.Operand,
			Source:     source,
			Annotation: annotation,
			Depth:      depth,
		})
		if instr.Code == op.JumpIfZero {
			depth++
		}
	}
	return instructions, nil
}

func annotate(instr bytecode.Instruction) string {
	n := instr.Operand
	switch instr.Code {
	case op.MoveRight:
		return fmt.Sprintf("ptr += %d", n)
	case op.MoveLeft:
		return fmt.Sprintf("ptr -= %d", n)
	case op.Increment:
		return fmt.Sprintf("cell += %d", n%256)
	case op.Decrement:
		return fmt.Sprintf("cell -= %d", n%256)
	case op.Write:
		if n == 1 {
			return "write cell"
		}
		return fmt.Sprintf("write cell x%d", n)
	case op.Read:
		if n == 1 {
			return "read cell"
		}
		return fmt.Sprintf("read cell x%d", n)
	}
	return ""
}

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgHiCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// Print a string representation of the given instructions to the given
// writer. Colour follows fatih/color's global NoColor setting.
func Print(instructions []Instruction, writer io.Writer) {
	var lines [][]string
	for _, instr := range instructions {
		var values []string
		values = append(values, fmt.Sprintf("%d", instr.Offset))
		values = append(values, strings.Repeat("  ", instr.Depth)+bold(instr.Name))
		if instr.Opcode == op.EndOfProgram {
			values = append(values, "")
		} else {
			values = append(values, fmt.Sprintf("%d", instr.Operand))
		}
		values = append(values, yellow(instr.Source))
		values = append(values, cyan(instr.Annotation))
		lines = append(lines, values)
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERAND", "SOURCE", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

// Document is the JSON form of a disassembled program.
type Document struct {
	Name         string         `json:"name,omitempty"`
	Stats        bytecode.Stats `json:"stats"`
	Instructions []Instruction  `json:"instructions"`
}

// NewDocument disassembles program into a Document.
func NewDocument(program *bytecode.Program) (*Document, error) {
	instructions, err := Disassemble(program)
	if err != nil {
		return nil, err
	}
	return &Document{
		Name:         program.Name(),
		Stats:        program.Stats(),
		Instructions: instructions,
	}, nil
}

// PrintJSON writes doc as indented JSON. When colorize is set the output is
// syntax highlighted.
func PrintJSON(doc *Document, writer io.Writer, colorize bool) error {
	var data []byte
	var err error
	if colorize {
		data, err = prettyjson.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = writer.Write(data)
	return err
}
