package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no error or only nil values were provided, nil is returned. If only a
// single error was provided, it is returned as it is. Otherwise a multi
// error instance is returned that groups all of them. Appending multi
// errors flattens them.
func Append(errs ...error) error {
	var flat []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(*multiErr); ok {
			flat = append(flat, m.errs...)
		} else {
			flat = append(flat, e)
		}
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &multiErr{errs: flat}
	}
}

type multiErr struct {
	errs []error
}

func (e *multiErr) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = "* " + err.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(e.errs), strings.Join(msgs, "\n\t"))
}

// Unpack returns all errors that this multi error groups.
func (e *multiErr) Unpack() []error {
	return e.errs
}

// ABCICode returns the code of the first error, consistent with a
// fail-fast approach.
func (e *multiErr) ABCICode() uint32 {
	return abciCode(e.errs[0])
}

type unpacker interface {
	Unpack() []error
}
