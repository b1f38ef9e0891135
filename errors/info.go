package errors

import (
	"fmt"
)

const (
	// SuccessCode is used when the processing was successful and no
	// error is returned.
	SuccessCode uint32 = 0

	// All unclassified errors that do not provide a code are clubbed
	// under an internal error code and a generic message instead of
	// detailed error string.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Info returns the code and the log message that should be exposed to a
// client for the given error.
//
// Any error that does not provide a code is categorized as an internal
// error. When not running in a debug mode, messages of internal errors are
// replaced with a generic "internal error" text.
func Info(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessCode, ""
	}

	// Only non-internal errors information can be exposed. Any error
	// that does not explicitly expose its state by providing a code must
	// be silenced.
	if code := codeOf(err); code != internalCode {
		if debug {
			return code, fmt.Sprintf("%+v", err)
		}
		return code, err.Error()
	}

	if debug {
		return internalCode, fmt.Sprintf("%+v", err)
	}
	return internalCode, internalLog
}

type coder interface {
	Code() uint32
}

// codeOf tests if given error contains a code and returns the value of it
// if available. The causer chain is followed.
func codeOf(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalCode
		}
	}
}

// Redact replaces all errors that do not initialize with a registered error
// with a generic internal error instance. Panics are always redacted.
//
// This is a no-operation function when running in a debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) {
		return usedCodes[internalCode]
	}
	if codeOf(err) == internalCode {
		return usedCodes[internalCode]
	}
	return err
}
