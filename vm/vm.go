// Package vm provides a VirtualMachine that executes compiled bfk programs.
//
// The machine owns a tape of 8-bit cells and an address pointer that starts
// in the middle of the tape. Arithmetic on cells wraps modulo 256. Moving the
// pointer off either end of the tape halts execution without moving it.
package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/bfk/bytecode"
	bfkerrors "github.com/deepnoodle-ai/bfk/errors"
	"github.com/deepnoodle-ai/bfk/op"
)

const (
	// DefaultTapeSize is the number of cells on the tape.
	DefaultTapeSize = 64000

	// DefaultContextCheckInterval is the number of instructions between
	// deterministic checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// Messages attached to runtime halts.
const (
	MsgMoveRightOutOfBounds = "move right out of bounds"
	MsgMoveLeftOutOfBounds  = "move left out of bounds"
	MsgWriteFailed          = "write to output failed"
	MsgReadFailed           = "read from input failed"
)

var (
	// ErrStepLimitReached is returned when a run executes more instructions
	// than allowed by WithMaxSteps.
	ErrStepLimitReached = errors.New("instruction execution count limit reached")

	// ErrHaltedByObserver is returned when an observer stops execution.
	ErrHaltedByObserver = errors.New("execution halted by observer")
)

// VirtualMachine executes a single Program. Each call to Run starts from a
// fresh tape; the final state of the most recent run remains readable
// through the accessor methods until the next Run.
type VirtualMachine struct {
	program  *bytecode.Program
	pc       int // program counter
	pointer  int // address pointer into tape
	tape     []uint8
	halted   bool
	exitCode int
	steps    int64

	tapeSize int
	input    io.Reader
	output   io.Writer
	maxSteps int64
	log      zerolog.Logger

	running  bool
	runMutex sync.Mutex
	ioBuf    [1]byte

	// contextCheckInterval is the number of instructions between
	// deterministic checks of ctx.Done(). A value of 0 disables checking.
	contextCheckInterval int

	// observer receives a callback before every instruction. If nil, no
	// callbacks are made.
	observer Observer
}

// New creates a new Virtual Machine for the given program.
func New(program *bytecode.Program, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		program:              program,
		tapeSize:             DefaultTapeSize,
		output:               io.Discard,
		log:                  zerolog.Nop(),
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.tapeSize < 1 {
		vm.tapeSize = 1
	}
	return vm
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	vm.running = true
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

// reset allocates a zeroed tape and centers the address pointer.
func (vm *VirtualMachine) reset() {
	vm.tape = make([]uint8, vm.tapeSize)
	vm.pointer = vm.tapeSize / 2
	vm.pc = 0
	vm.halted = false
	vm.exitCode = 0
	vm.steps = 0
}

// Run executes the program until it reaches EndOfProgram or halts. A normal
// halt returns nil. An out-of-bounds move or failed I/O returns a
// *errors.RuntimeError whose Code is the opcode of the failing instruction.
func (vm *VirtualMachine) Run(ctx context.Context) (err error) {
	if vm.program == nil {
		return fmt.Errorf("no program available")
	}
	if err := vm.start(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		vm.stop()
	}()
	vm.reset()
	vm.log.Debug().
		Str("program", vm.program.Name()).
		Int("tape_size", vm.tapeSize).
		Int("instructions", vm.program.InstructionCount()).
		Msg("starting run")
	err = vm.eval(ctx)
	vm.log.Debug().
		Int64("steps", vm.steps).
		Int("exit_code", vm.exitCode).
		Msg("run finished")
	return err
}

func (vm *VirtualMachine) eval(ctx context.Context) error {
	var instructionCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()

	for !vm.halted {
		// Deterministic check of ctx.Done() every N instructions.
		if checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					return ctx.Err()
				default:
				}
			}
		}
		if vm.maxSteps > 0 && vm.steps >= vm.maxSteps {
			return ErrStepLimitReached
		}

		instr := vm.program.InstructionAt(vm.pc)

		if vm.observer != nil {
			event := StepEvent{
				PC:         vm.pc,
				Opcode:     instr.Code,
				OpcodeName: instr.Code.String(),
				Operand:    instr.Operand,
				Pointer:    vm.pointer,
				Cell:       vm.tape[vm.pointer],
			}
			if !vm.observer.OnStep(event) {
				return ErrHaltedByObserver
			}
		}
		vm.steps++

		if err := vm.step(instr); err != nil {
			vm.halted = true
			vm.exitCode = err.Code
			return err
		}
		if !vm.halted {
			vm.pc++
		}
	}
	return nil
}

// step executes one instruction. It returns a RuntimeError if the machine
// must halt with a non-zero exit code.
func (vm *VirtualMachine) step(instr bytecode.Instruction) *bfkerrors.RuntimeError {
	n := instr.Operand
	switch instr.Code {
	case op.MoveRight:
		if n >= vm.tapeSize-vm.pointer {
			return vm.fault(instr, MsgMoveRightOutOfBounds, nil)
		}
		vm.pointer += n
	case op.MoveLeft:
		// The pointer is never negative; check before subtracting.
		if n > vm.pointer {
			return vm.fault(instr, MsgMoveLeftOutOfBounds, nil)
		}
		vm.pointer -= n
	case op.Increment:
		vm.tape[vm.pointer] += uint8(n)
	case op.Decrement:
		vm.tape[vm.pointer] -= uint8(n)
	case op.Write:
		vm.ioBuf[0] = vm.tape[vm.pointer]
		for i := 0; i < n; i++ {
			if _, err := vm.output.Write(vm.ioBuf[:]); err != nil {
				return vm.fault(instr, MsgWriteFailed, err)
			}
		}
	case op.Read:
		if vm.input == nil {
			break
		}
		for i := 0; i < n; i++ {
			_, err := io.ReadFull(vm.input, vm.ioBuf[:])
			if err == io.EOF {
				// End of input leaves the cell unchanged.
				break
			}
			if err != nil {
				return vm.fault(instr, MsgReadFailed, err)
			}
			vm.tape[vm.pointer] = vm.ioBuf[0]
		}
	case op.JumpIfZero:
		if vm.tape[vm.pointer] == 0 {
			vm.pc = n
		}
	case op.JumpIfNotZero:
		if vm.tape[vm.pointer] != 0 {
			vm.pc = n
		}
	default:
		vm.halted = true
	}
	return nil
}

func (vm *VirtualMachine) fault(instr bytecode.Instruction, msg string, cause error) *bfkerrors.RuntimeError {
	err := bfkerrors.NewRuntimeError(msg, int(instr.Code), vm.pc, cause)
	if vm.observer != nil {
		vm.observer.OnHalt(HaltEvent{PC: vm.pc, Opcode: instr.Code, ExitCode: err.Code, Message: msg})
	}
	return err
}

// Program returns the program the VM executes.
func (vm *VirtualMachine) Program() *bytecode.Program {
	return vm.program
}

// PC returns the program counter. After a run it indexes the instruction
// that halted the machine.
func (vm *VirtualMachine) PC() int {
	return vm.pc
}

// Pointer returns the address pointer.
func (vm *VirtualMachine) Pointer() int {
	return vm.pointer
}

// TapeSize returns the number of cells on the tape.
func (vm *VirtualMachine) TapeSize() int {
	return vm.tapeSize
}

// Cell returns the value of the cell at index i, or false if i is not on
// the tape or no run has started.
func (vm *VirtualMachine) Cell(i int) (uint8, bool) {
	if i < 0 || i >= len(vm.tape) {
		return 0, false
	}
	return vm.tape[i], true
}

// Tape returns a copy of the tape.
func (vm *VirtualMachine) Tape() []uint8 {
	tape := make([]uint8, len(vm.tape))
	copy(tape, vm.tape)
	return tape
}

// ExitCode returns the exit code of the most recent run: 0 on a normal halt,
// otherwise the opcode of the instruction that halted the machine.
func (vm *VirtualMachine) ExitCode() int {
	return vm.exitCode
}

// Steps returns the number of instructions executed by the most recent run.
func (vm *VirtualMachine) Steps() int64 {
	return vm.steps
}
