package errors

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"
)

const defaultStackDepth = 48

var (
	_ error         = &StackError{}
	_ fmt.Formatter = &StackError{}
	_ fmt.Formatter = stacktrace(nil)
)

// stacktrace stores raw program counters; frames are resolved lazily.
type stacktrace []uintptr

func (st stacktrace) Format(s fmt.State, verb rune) {
	frames := runtime.CallersFrames(st)
	for {
		fr, more := frames.Next()
		io.WriteString(s, "\n")
		formatFrame(s, fr, verb)
		if !more {
			break
		}
	}
}

func formatFrame(s fmt.State, fr runtime.Frame, verb rune) {
	fn := fr.Function
	if fn == "" {
		fn = "unknown"
	}
	switch verb {
	case 'v', 's':
		io.WriteString(s, fn)
		io.WriteString(s, "\n\t")
		io.WriteString(s, fr.File)
		if s.Flag('+') {
			io.WriteString(s, ":")
			formatFrame(s, fr, 'd')
		}
	case 'd':
		io.WriteString(s, strconv.Itoa(fr.Line))
	case 'n':
		i := strings.LastIndex(fn, "/")
		fn = fn[i+1:]
		i = strings.Index(fn, ".")
		io.WriteString(s, fn[i+1:])
	}
}

// StackError wraps an error with the call stack captured at WithStack time.
type StackError struct {
	err   error
	trace stacktrace
}

// WithStack captures the current stack and attaches it to err.
// WithStack(nil) returns nil.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	return WithStackDepth(err, defaultStackDepth)
}

// WithStackDepth is like WithStack but captures at most depth frames.
func WithStackDepth(err error, depth int) error {
	if err == nil {
		return nil
	}
	e := &StackError{err: err, trace: make(stacktrace, depth)}
	n := runtime.Callers(3, e.trace)
	e.trace = e.trace[:n]
	return e
}

func (e *StackError) Format(st fmt.State, verb rune) {
	switch verb {
	case 'v':
		if st.Flag('+') {
			fmt.Fprintf(st, "%+v", e.err)
			e.trace.Format(st, 'v')
		} else {
			fmt.Fprintf(st, "%v", e.err)
		}
	case 's':
		if st.Flag('+') {
			fmt.Fprintf(st, "%+s", e.err)
			e.trace.Format(st, 's')
		} else {
			fmt.Fprintf(st, "%s", e.err)
		}
	}
}

func (e *StackError) Error() string {
	return fmt.Sprintf("%s", e)
}

func (e *StackError) Is(target error) bool {
	return Is(e.err, target)
}

func (e *StackError) As(target interface{}) bool {
	return As(e.err, target)
}

// Unwrap returns the wrapped error's own cause, skipping both this wrapper
// and the wrapped error; Is and As above still match the wrapped error.
func (e *StackError) Unwrap() error {
	return Unwrap(e.err)
}
