package errors

import (
	"errors"
	"fmt"
)

var _ error = &WError{}

// WError attaches a sentinel (cerr) to an underlying cause (uerr), so
// callers can `errors.Is(err, SentinelX)` while still seeing the real
// cause in the message and via Unwrap.
type WError struct {
	uerr error
	cerr error
}

// Wrap associates cerr (usually a package sentinel) with uerr (the real
// cause). Wrap(nil, uerr) returns nil.
func Wrap(cerr, uerr error) error {
	if cerr == nil {
		return nil
	}
	return &WError{cerr: cerr, uerr: uerr}
}

// Wrapf is Wrap with the cause built from a format string.
func Wrapf(cerr error, msg string, args ...interface{}) error {
	if cerr == nil {
		return nil
	}
	return &WError{cerr: cerr, uerr: fmt.Errorf(msg, args...)}
}

func (e *WError) Format(st fmt.State, verb rune) {
	switch verb {
	case 'v':
		if st.Flag('+') {
			fmt.Fprintf(st, "%+v: %+v", e.cerr, e.uerr)
		} else {
			fmt.Fprintf(st, "%v: %v", e.cerr, e.uerr)
		}
	case 's':
		if st.Flag('+') {
			fmt.Fprintf(st, "%+s: %+s", e.cerr, e.uerr)
		} else {
			fmt.Fprintf(st, "%s: %s", e.cerr, e.uerr)
		}
	}
}

func (e *WError) Error() string {
	return fmt.Sprintf("%s", e)
}

func (e *WError) Is(target error) bool {
	return errors.Is(e.cerr, target)
}

func (e *WError) Unwrap() error {
	return e.uerr
}
