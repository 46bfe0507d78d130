package vm

import (
	"io"

	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithOutput sets the writer that PRNT writes to. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.out = w
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of instructions. A value of
// 0 disables checking after the run has started. The default is
// DefaultContextCheckInterval (1000).
//
// Lower values provide more responsive cancellation but may slightly impact
// performance due to more frequent checks.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast to avoid impacting performance.
// Returning false from OnStep halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}

// WithLogger sets the logger that receives one trace level event per
// executed instruction.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}

// WithMaxStackDepth limits the number of words the auxiliary stack can hold.
// The default is MaxStackDepth.
func WithMaxStackDepth(depth int) Option {
	return func(vm *VirtualMachine) {
		vm.maxStackDepth = depth
	}
}
