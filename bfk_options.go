package bfk

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/bfk/config"
	"github.com/deepnoodle-ai/bfk/vm"
)

// Option configures a compilation or execution.
type Option func(*options)

type options struct {
	cfg      *config.Config
	name     string
	logger   *zerolog.Logger
	input    io.Reader
	output   io.Writer
	observer vm.Observer
	maxSteps int64
}

func collectOptions(opts ...Option) *options {
	o := &options{cfg: config.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{vm.WithTapeSize(o.cfg.TapeSize)}
	if o.input != nil && !o.cfg.NoInput {
		opts = append(opts, vm.WithInput(o.input))
	}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	if o.logger != nil {
		opts = append(opts, vm.WithLogger(*o.logger))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.maxSteps > 0 {
		opts = append(opts, vm.WithMaxSteps(o.maxSteps))
	}
	return opts
}

// WithConfig replaces the default configuration. The Config is copied, so
// options applied after it do not modify the caller's value.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg != nil {
			c := *cfg
			o.cfg = &c
		}
	}
}

// WithName sets the name recorded on compiled programs. CompileFile and
// LoadFile default to the file path.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithTapeSize sets the number of cells on the tape.
func WithTapeSize(size int) Option {
	return func(o *options) {
		o.cfg.TapeSize = size
	}
}

// WithMaxSourceSize caps the size of the source buffer. Larger sources fail
// with an AllocationError.
func WithMaxSourceSize(n int) Option {
	return func(o *options) {
		o.cfg.MaxSourceSize = n
	}
}

// WithInput sets the reader consumed by Read instructions.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
	}
}

// WithOutput sets the writer that receives Write output.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithLogger sets the logger used by the compiler and VM.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithMaxSteps limits the number of instructions a run may execute.
func WithMaxSteps(n int64) Option {
	return func(o *options) {
		o.maxSteps = n
	}
}
