package errors

import (
	"reflect"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	var (
		emptyNameErr   = Field("Name", ErrEmpty, "required")
		humanNameErr   = Field("Name", ErrHuman, "b")
		amountErr      = Field("Amount", ErrAmount, "must be positive")
		nestedErr      = Field("Msg", Append(humanNameErr, amountErr), "message invalid")
		wrappedNameErr = Wrap(emptyNameErr, "outer")
	)

	cases := map[string]struct {
		Err   error
		Field string
		Want  []error
	}{
		"a single error found by the name": {
			Err:   emptyNameErr,
			Field: "Name",
			Want:  []error{emptyNameErr},
		},
		"two errors found by the name": {
			Err:   Append(emptyNameErr, humanNameErr),
			Field: "Name",
			Want:  []error{emptyNameErr, humanNameErr},
		},
		"nested field is found": {
			Err:   nestedErr,
			Field: "Amount",
			Want:  []error{amountErr},
		},
		"wrapped field is found": {
			Err:   wrappedNameErr,
			Field: "Name",
			Want:  []error{emptyNameErr},
		},
		"nil error returns nothing": {
			Err:   nil,
			Field: "Name",
			Want:  nil,
		},
		"no match": {
			Err:   amountErr,
			Field: "Name",
			Want:  nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.Err, tc.Field)
			if !reflect.DeepEqual(got, tc.Want) {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

func TestFieldNil(t *testing.T) {
	if err := Field("Name", nil, "ignored"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := AppendField(nil, "Name", nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}
