package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrModel,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"successful comparison to a field error": {
			a:      ErrAmount,
			b:      Field("Amount", ErrAmount, "must be positive"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"multi error matches any member": {
			a:      ErrEmpty,
			b:      Append(ErrAmount, Wrap(ErrEmpty, "no name")),
			wantIs: true,
		},
		"multi error without a matching member": {
			a:      ErrState,
			b:      Append(ErrAmount, ErrEmpty),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is not an error": {
			a:      nil,
			b:      ErrNotFound,
			wantIs: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

func TestRegisterPanicsOnDuplicatedCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	Register(ErrNotFound.Code(), "second not found")
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "nothing happened"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}

func TestWrappedErrorMessage(t *testing.T) {
	err := Wrapf(ErrNotFound, "escrow %d", 7)
	if got, want := err.Error(), "escrow 7: not found"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if s := fmt.Sprintf("%+v", err); !strings.Contains(s, "errors_test.go") {
		t.Fatalf("stack trace not printed: %s", s)
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	if err := run(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Append(nil, ErrEmpty, nil); err != ErrEmpty {
		t.Fatalf("single error must not be wrapped: %v", err)
	}

	err := Append(Append(ErrEmpty, ErrAmount), ErrState)
	u, ok := err.(unpacker)
	if !ok {
		t.Fatalf("want a multi error, got %T", err)
	}
	if n := len(u.Unpack()); n != 3 {
		t.Fatalf("want flattened errors, got %d", n)
	}
	if !strings.HasPrefix(err.Error(), "3 errors occurred") {
		t.Fatalf("unexpected message: %s", err)
	}
}

func TestInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil error": {
			err:      nil,
			wantCode: SuccessCode,
			wantLog:  "",
		},
		"registered error": {
			err:      Wrap(ErrUnauthorized, "maker"),
			wantCode: ErrUnauthorized.Code(),
			wantLog:  "maker: unauthorized",
		},
		"stdlib error is redacted": {
			err:      stdlib.New("disk on fire"),
			wantCode: internalCode,
			wantLog:  internalLog,
		},
		"stdlib error in debug mode": {
			err:      stdlib.New("disk on fire"),
			debug:    true,
			wantCode: internalCode,
			wantLog:  "disk on fire",
		},
		"multi error reports the first code": {
			err:      Append(ErrAmount, ErrEmpty),
			wantCode: ErrAmount.Code(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := Info(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if tc.wantLog != "" && log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(Wrap(ErrPanic, "secret"), false); err.Error() != "internal" {
		t.Fatalf("panic not redacted: %v", err)
	}
	if err := Redact(Wrap(ErrPanic, "secret"), true); !ErrPanic.Is(err) {
		t.Fatalf("debug mode must not redact: %v", err)
	}
	if err := Redact(ErrNotFound, false); err != ErrNotFound {
		t.Fatalf("registered error must be kept: %v", err)
	}
}
