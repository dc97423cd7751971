package vm

import (
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/bfk/op"
)

// Observer is an interface for observing VM execution events.
// Implementations can be used for tracing, profiling or debugging.
//
// Implementations can embed NoOpObserver to provide default no-op
// implementations for methods they don't need.
type Observer interface {
	// OnStep is called before each instruction executes.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool

	// OnHalt is called when the machine halts with a non-zero exit code.
	OnHalt(event HaltEvent)
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// PC is the program counter (index into the program).
	PC int

	// Opcode is the operation being executed.
	Opcode op.Code

	// OpcodeName is the human-readable name of the opcode.
	OpcodeName string

	// Operand is the repeat count or jump target.
	Operand int

	// Pointer is the address pointer before the instruction executes.
	Pointer int

	// Cell is the value of the current cell before the instruction executes.
	Cell uint8
}

// HaltEvent describes an abnormal halt.
type HaltEvent struct {
	PC       int
	Opcode   op.Code
	ExitCode int
	Message  string
}

// NoOpObserver is an Observer implementation that does nothing.
type NoOpObserver struct{}

// OnStep does nothing and returns true to continue execution.
func (NoOpObserver) OnStep(StepEvent) bool { return true }

// OnHalt does nothing.
func (NoOpObserver) OnHalt(HaltEvent) {}

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}

// LogObserver writes every step and halt to a zerolog logger at trace
// level.
type LogObserver struct {
	Logger zerolog.Logger
}

// NewLogObserver returns a LogObserver writing to logger.
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{Logger: logger}
}

// OnStep logs the instruction about to execute. It never halts execution.
func (o *LogObserver) OnStep(event StepEvent) bool {
	o.Logger.Trace().
		Int("pc", event.PC).
		Str("op", event.OpcodeName).
		Int("operand", event.Operand).
		Int("ptr", event.Pointer).
		Uint8("cell", event.Cell).
		Msg("step")
	return true
}

// OnHalt logs the halt message at warn level.
func (o *LogObserver) OnHalt(event HaltEvent) {
	o.Logger.Warn().
		Int("pc", event.PC).
		Str("op", event.Opcode.String()).
		Int("exit_code", event.ExitCode).
		Msg(event.Message)
}

// CountingObserver counts executed instructions per opcode. It is used by
// the CLI to print a profile after a run.
type CountingObserver struct {
	NoOpObserver
	Counts map[op.Code]int64
}

// NewCountingObserver returns an empty CountingObserver.
func NewCountingObserver() *CountingObserver {
	return &CountingObserver{Counts: map[op.Code]int64{}}
}

// OnStep increments the count for the event's opcode.
func (o *CountingObserver) OnStep(event StepEvent) bool {
	o.Counts[event.Opcode]++
	return true
}

type multiObserver []Observer

// Observers combines several observers into one. Steps are delivered in
// order and execution halts as soon as any observer returns false.
func Observers(observers ...Observer) Observer {
	var m multiObserver
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multiObserver) OnStep(event StepEvent) bool {
	for _, o := range m {
		if !o.OnStep(event) {
			return false
		}
	}
	return true
}

func (m multiObserver) OnHalt(event HaltEvent) {
	for _, o := range m {
		o.OnHalt(event)
	}
}
