package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
// If no error is left, nil is returned. A single error is returned as it
// is, without wrapping.
func Append(errs ...error) error {
	var flat []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(*multiErr); ok {
			flat = append(flat, m.errs...)
			continue
		}
		flat = append(flat, e)
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return &multiErr{errs: flat}
}

// unpacker is implemented by errors that group together more than one
// error instance.
type unpacker interface {
	Unpack() []error
}

type multiErr struct {
	errs []error
}

var (
	_ unpacker = (*multiErr)(nil)
	_ causer   = (*multiErr)(nil)
)

func (e *multiErr) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = "* " + err.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(e.errs), strings.Join(msgs, "\n\t"))
}

// Unpack returns all grouped errors.
func (e *multiErr) Unpack() []error {
	return e.errs
}

// Cause returns the first error, consistent with the fail fast approach
// used when extracting the error code.
func (e *multiErr) Cause() error {
	return e.errs[0]
}
