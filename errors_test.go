package clap

import (
	"errors"
	"testing"

	. "github.com/arikkfir/justest"
)

func Test_SchemaError(t *testing.T) {
	t.Parallel()
	err := &SchemaError{
		Cause:   ErrContradictorySpec,
		Command: "tool",
		Field:   "Level",
		Type:    "*string",
		Detail:  "drop the pointer",
	}
	With(t).Verify(err.Error()).Will(EqualTo(
		"contradictory argument spec: command 'tool': field 'Level' (*string): drop the pointer",
	)).OrFail()
	With(t).Verify(errors.Is(err, ErrContradictorySpec)).Will(EqualTo(true)).OrFail()
	With(t).Verify(errors.Is(err, ErrInvalidSchema)).Will(EqualTo(false)).OrFail()
}

func Test_InputError(t *testing.T) {
	t.Parallel()
	type testCase struct {
		err      *InputError
		expected string
	}
	testCases := map[string]testCase{
		"flag wins over field": {
			err:      &InputError{Cause: ErrInvalidValue, Field: "Port", Flag: "--port", Token: "x"},
			expected: "invalid value: --port: 'x'",
		},
		"field alone": {
			err:      &InputError{Cause: ErrMissingRequired, Field: "Name"},
			expected: "required argument is missing: Name",
		},
		"detail is appended": {
			err:      &InputError{Cause: ErrUnknownSubcommand, Token: "Z", Detail: "expected one of: A, B"},
			expected: "unknown subcommand: 'Z': expected one of: A, B",
		},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			With(t).Verify(tc.err.Error()).Will(EqualTo(tc.expected)).OrFail()
			With(t).Verify(errors.Is(tc.err, tc.err.Cause)).Will(EqualTo(true)).OrFail()
		})
	}
}
