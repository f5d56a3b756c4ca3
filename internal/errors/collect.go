package errors

import (
	"errors"
	"fmt"
)

var _ error = &CollectedError{}

// CollectedError groups several independent errors (e.g. from closing
// multiple connections) under one sentinel. Unwrap is intentionally a
// no-op; use Is(err, sentinel) or Cause() to inspect members.
type CollectedError struct {
	sentinel error
	causes   []error
}

func (e *CollectedError) Format(st fmt.State, verb rune) {
	switch verb {
	case 'v':
		if st.Flag('+') {
			fmt.Fprintf(st, "%+v:\n", e.sentinel)
			for _, c := range e.causes {
				fmt.Fprintf(st, "\t%+v", c)
			}
		} else {
			fmt.Fprintf(st, "%v:\n", e.sentinel)
			for _, c := range e.causes {
				fmt.Fprintf(st, "\t%v", c)
			}
		}
	case 's':
		fmt.Fprintf(st, "%s:\n", e.sentinel)
		for _, c := range e.causes {
			fmt.Fprintf(st, "\t%s", c)
		}
	}
}

func (e *CollectedError) Error() string {
	return fmt.Sprintf("%s", e)
}

func (e *CollectedError) Is(target error) bool {
	if errors.Is(e.sentinel, target) {
		return true
	}
	for _, c := range e.causes {
		if errors.Is(c, target) {
			return true
		}
	}
	return false
}

// Cause returns the non-nil errors that were collected.
func (e *CollectedError) Cause() []error {
	return e.causes
}

// Collect drops nil errors from uerr and, if anything remains, returns a
// *CollectedError tagged with sentinel. It returns nil if uerr is empty
// or entirely nil.
func Collect(sentinel error, uerr ...error) error {
	causes := uerr[:0]
	for _, e := range uerr {
		if e != nil {
			causes = append(causes, e)
		}
	}
	if len(causes) == 0 {
		return nil
	}
	return &CollectedError{sentinel: sentinel, causes: causes}
}
