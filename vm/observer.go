package vm

import (
	"github.com/chaos-lang/chaos/bytecode"
	"github.com/chaos-lang/chaos/op"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	// Use for: detailed tracing, instruction-level debugging.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	StepNone

	// StepSampled calls OnStep every N instructions.
	// Use for: statistical profiling.
	StepSampled

	// StepOnLine calls OnStep when the source line changes.
	// Use for: coverage tools, line-level debugging.
	StepOnLine
)

// ObserverConfig specifies what events an observer wants to receive.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	// Ignored for other modes.
	SampleInterval int
}

// NewObserverConfig creates a config for the given mode.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer is an interface for observing VM execution. Implementations can
// be used for profiling, debugging, coverage or tracing.
//
// Observer methods are called synchronously during VM execution.
// Implementations should be fast to avoid impacting performance.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once when a run starts.
	Config() ObserverConfig

	// OnStep is called before an instruction executes, based on the
	// StepMode in the observer's config. Returns false to halt execution
	// immediately.
	OnStep(event StepEvent) bool
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// IC is the offset of the instruction about to execute.
	IC int64

	// Opcode is the operation being executed.
	Opcode op.Code

	// OpcodeName is the mnemonic of the opcode.
	OpcodeName string

	// Operands holds the instruction's operand words.
	Operands []int64

	// Location is the source location of the instruction.
	Location bytecode.SourceLocation

	// StackDepth is the current depth of the auxiliary stack.
	StackDepth int
}

// NoOpObserver is an Observer implementation that does nothing.
// Embed this in your observer to provide default implementations.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool { return true }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}

// stepper decides which instructions are reported to an observer.
type stepper struct {
	observer Observer
	config   ObserverConfig
	count    int
	lastLine int
}

func newStepper(observer Observer) *stepper {
	if observer == nil {
		return nil
	}
	return &stepper{
		observer: observer,
		config:   NormalizeConfig(observer.Config()),
		lastLine: -1,
	}
}

// wants reports whether the step at loc should be passed to OnStep.
func (s *stepper) wants(loc bytecode.SourceLocation) bool {
	switch s.config.StepMode {
	case StepAll:
		return true
	case StepSampled:
		s.count++
		if s.count >= s.config.SampleInterval {
			s.count = 0
			return true
		}
		return false
	case StepOnLine:
		if loc.Line != s.lastLine {
			s.lastLine = loc.Line
			return true
		}
		return false
	default:
		return false
	}
}
