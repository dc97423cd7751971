package bytecode

// Stats contains statistics about a compiled program.
type Stats struct {
	// InstructionCount is the total number of instructions, including the
	// trailing EndOfProgram.
	InstructionCount int `json:"instruction_count"`

	// SourceChars is the number of instruction characters in the source.
	SourceChars int `json:"source_chars"`

	// MaxLoopDepth is the deepest bracket nesting in the program.
	MaxLoopDepth int `json:"max_loop_depth"`

	// ByKind counts instructions per opcode name.
	ByKind map[string]int `json:"by_kind"`
}

// FoldRatio returns how many source characters each instruction stands for
// on average. It is 0 for an empty program.
func (s Stats) FoldRatio() float64 {
	if s.InstructionCount <= 1 {
		return 0
	}
	return float64(s.SourceChars) / float64(s.InstructionCount-1)
}
