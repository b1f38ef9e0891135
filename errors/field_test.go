package errors

import (
	"reflect"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	// Declared upfront so that DeepEqual can be used for comparison.
	var (
		emptyMakerErr   = Field("Maker", ErrEmpty, "a")
		invalidMakerErr = Field("Maker", ErrInput, "b")
		amountErr       = Field("Amount", ErrAmount, "must be positive")
		offerErr        = Field("Offer", Append(
			invalidMakerErr,
			Append(amountErr, ErrState),
		), "offer invalid")
	)

	cases := map[string]struct {
		Err   error
		Field string
		Want  []error
	}{
		"a single error found by the name": {
			Err:   emptyMakerErr,
			Field: "Maker",
			Want:  []error{emptyMakerErr},
		},
		"two errors found by the name": {
			Err:   Append(emptyMakerErr, invalidMakerErr),
			Field: "Maker",
			Want:  []error{emptyMakerErr, invalidMakerErr},
		},
		"field can contain a multierror": {
			Err:   offerErr,
			Field: "Offer",
			Want:  []error{offerErr},
		},
		"field can inspect errors tree to find a match": {
			Err:   Wrap(Append(ErrHuman, offerErr), "outer"),
			Field: "Amount",
			Want:  []error{amountErr},
		},
		"nil error returns nothing": {
			Err:   nil,
			Field: "Maker",
			Want:  nil,
		},
		"no match": {
			Err:   offerErr,
			Field: "Nonce",
			Want:  nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.Err, tc.Field)
			if !reflect.DeepEqual(tc.Want, got) {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

func TestAppendField(t *testing.T) {
	var errs error
	errs = AppendField(errs, "Maker", nil)
	if errs != nil {
		t.Fatalf("nil field error must be dropped: %v", errs)
	}
	errs = AppendField(errs, "Nonce", ErrEmpty)
	if !ErrEmpty.Is(errs) {
		t.Fatalf("want empty error, got %v", errs)
	}
	if got := errs.Error(); got != `field "Nonce": value is empty` {
		t.Fatalf("unexpected message: %s", got)
	}
}
