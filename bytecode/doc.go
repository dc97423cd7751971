// Package bytecode provides the immutable representation of a compiled bfk
// program.
//
// A Program is a flat array of instructions terminated by an EndOfProgram
// instruction. Each instruction is a (kind, operand) pair:
//
//   - MoveRight, MoveLeft, Increment, Decrement, Write, Read: the operand is
//     the number of consecutive source characters folded into the
//     instruction.
//   - JumpIfZero: the operand is the index of the matching JumpIfNotZero.
//   - JumpIfNotZero: the operand is the index of the matching JumpIfZero.
//
// The virtual machine advances the program counter after every
// instruction, including taken jumps, so a taken JumpIfZero resumes just past
// its closer and a taken JumpIfNotZero resumes just past its opener.
//
// # Immutability Guarantees
//
// Programs are created once by the compiler (or decoded from a file) and
// never modified. Constructors copy their input and accessors return values,
// so a single Program can be shared by any number of VMs:
//
//	program, err := compiler.Compile(token.New(src))
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Instructions: %d\n", program.InstructionCount())
//	err = vm.Run(ctx, program, vm.WithOutput(os.Stdout))
package bytecode
