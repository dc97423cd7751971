package vm

import (
	"io"

	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithTapeSize sets the number of cells on the tape. The address pointer
// starts at size/2. Values below 1 are treated as 1.
func WithTapeSize(size int) Option {
	return func(vm *VirtualMachine) {
		vm.tapeSize = size
	}
}

// WithInput sets the reader consumed by Read instructions. Each repetition
// of a Read consumes one byte. When the reader is exhausted the current cell
// is left unchanged. Without an input, Read is a no-op.
func WithInput(r io.Reader) Option {
	return func(vm *VirtualMachine) {
		vm.input = r
	}
}

// WithOutput sets the writer that receives one byte per Write repetition.
// The default discards output.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		if w == nil {
			w = io.Discard
		}
		vm.output = w
	}
}

// WithMaxSteps limits the number of instructions a run may execute. A run
// that reaches the limit returns ErrStepLimitReached. Zero means no limit.
func WithMaxSteps(n int64) Option {
	return func(vm *VirtualMachine) {
		vm.maxSteps = n
	}
}

// WithLogger sets the logger used for run lifecycle messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.log = logger
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of instructions. A value of
// 0 disables checking. The default is DefaultContextCheckInterval (1000).
//
// Lower values provide more responsive cancellation but may slightly impact
// performance due to more frequent checks.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events.
// The observer is called before every instruction and when the machine
// halts with a non-zero code. This enables tracers and debuggers without
// modifying the interpreter loop.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast to avoid impacting performance.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
