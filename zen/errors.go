package zen

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies runtime failures.
type ErrorType string

const (
	ErrName      ErrorType = "NameError"
	ErrType      ErrorType = "TypeError"
	ErrLookup    ErrorType = "LookupError"
	ErrAccess    ErrorType = "AccessError"
	ErrImport    ErrorType = "ImportError"
	ErrIndex     ErrorType = "IndexError"
	ErrRecursion ErrorType = "RecursionError"
	ErrRuntime   ErrorType = "RuntimeError"
)

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

// ErrStepQuota is returned, wrapped, when a run exceeds Config.StepQuota.
var ErrStepQuota = errors.New("step quota exceeded")

// ExitError asks the host to end the process with Code. Built-ins return it
// to stop a run; it travels through the evaluator unwrapped.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError is the single diagnostic produced when evaluation fails.
type RuntimeError struct {
	Type      ErrorType
	Message   string
	CodeFrame string
	Frames    []StackFrame
}

func (re *RuntimeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", re.Type, re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
			return
		}
		fmt.Fprintf(&b, "\n  at %s", frame.Function)
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}
	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

// classifiedError carries an ErrorType from code that has no source
// position, such as the class runtime and host built-ins. The evaluator
// turns it into a RuntimeError at the call site.
type classifiedError struct {
	kind ErrorType
	msg  string
}

func (e *classifiedError) Error() string { return e.msg }

// NewError builds an error of the given type for built-ins to return.
func NewError(kind ErrorType, format string, args ...any) error {
	return &classifiedError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Errorf is NewError with ErrRuntime.
func Errorf(format string, args ...any) error {
	return NewError(ErrRuntime, format, args...)
}

// IsInterrupt reports whether err is a host cancellation rather than a
// language error.
func IsInterrupt(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func isHostControlSignal(err error) bool {
	var exit *ExitError
	return IsInterrupt(err) || errors.Is(err, ErrStepQuota) || errors.As(err, &exit)
}

func (in *Interpreter) errorAt(kind ErrorType, pos Position, format string, args ...any) error {
	return in.newRuntimeError(kind, fmt.Sprintf(format, args...), pos)
}

func (in *Interpreter) newRuntimeError(kind ErrorType, message string, pos Position) error {
	frames := make([]StackFrame, 0, len(in.callStack)+1)
	if len(in.callStack) > 0 {
		current := in.callStack[len(in.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: pos})
		for i := len(in.callStack) - 1; i >= 0; i-- {
			frames = append(frames, StackFrame(in.callStack[i]))
		}
	} else {
		frames = append(frames, StackFrame{Function: "<script>", Pos: pos})
	}
	return &RuntimeError{
		Type:      kind,
		Message:   message,
		CodeFrame: formatCodeFrame(in.source, pos),
		Frames:    frames,
	}
}

// wrapError attaches position and stack to errors coming out of the class
// runtime or host built-ins. RuntimeErrors and host signals pass through.
func (in *Interpreter) wrapError(err error, pos Position) error {
	if err == nil || isHostControlSignal(err) {
		return err
	}
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		return err
	}
	var lexErr *LexError
	var parseErr *ParseError
	if errors.As(err, &lexErr) || errors.As(err, &parseErr) {
		return err
	}
	kind := ErrRuntime
	var classified *classifiedError
	if errors.As(err, &classified) {
		kind = classified.kind
	}
	return in.newRuntimeError(kind, err.Error(), pos)
}
