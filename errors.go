package eightebed

import "fmt"

// ErrorKind identifies which phase of the pipeline raised a
// CompileError, per the taxonomy of spec section 7.
type ErrorKind int

const (
	LexError ErrorKind = iota
	ParseError
	NameError
	TypeError
	SafetyError
	IOError
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case NameError:
		return "NameError"
	case TypeError:
		return "TypeError"
	case SafetyError:
		return "SafetyError"
	case IOError:
		return "IOError"
	default:
		return "Error"
	}
}

// CompileError is the single error type raised by every phase of the
// compiler. Every phase-specific helper (newLexError, newParseError,
// ...) just fills in Kind and Span.
type CompileError struct {
	Kind    ErrorKind
	File    string
	Span    Span
	Message string
}

// Error formats as "<file>:<line>:<col>: <kind>: <message>", the
// user-visible shape fixed by spec section 7.
func (e *CompileError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", file, e.Span.Start.Line, e.Span.Start.Column, e.Kind, e.Message)
}

func newLexError(file string, at Location, format string, args ...any) *CompileError {
	return &CompileError{Kind: LexError, File: file, Span: Span{Start: at, End: at}, Message: fmt.Sprintf(format, args...)}
}

func newParseError(file string, span Span, format string, args ...any) *CompileError {
	return &CompileError{Kind: ParseError, File: file, Span: span, Message: fmt.Sprintf(format, args...)}
}

func newNameError(file string, span Span, format string, args ...any) *CompileError {
	return &CompileError{Kind: NameError, File: file, Span: span, Message: fmt.Sprintf(format, args...)}
}

func newTypeError(file string, span Span, format string, args ...any) *CompileError {
	return &CompileError{Kind: TypeError, File: file, Span: span, Message: fmt.Sprintf(format, args...)}
}

func newSafetyError(file string, span Span, format string, args ...any) *CompileError {
	return &CompileError{Kind: SafetyError, File: file, Span: span, Message: fmt.Sprintf(format, args...)}
}

// NewIOError wraps an I/O or subprocess failure. Unlike the other
// constructors it's exported: cmd/eightebed raises IOError from
// outside this package.
func NewIOError(format string, args ...any) *CompileError {
	return &CompileError{Kind: IOError, Message: fmt.Sprintf(format, args...)}
}
