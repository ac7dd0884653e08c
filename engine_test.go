package clap

import (
	"errors"
	"testing"

	. "github.com/arikkfir/justest"
)

func Test_Match_bindings(t *testing.T) {
	t.Parallel()
	type testCase struct {
		schema           func() *Schema
		argv             []string
		expectedBindings []Binding
	}
	testCases := map[string]testCase{
		"flags and a positional": {
			schema: greetSchema,
			argv:   []string{"-v", "alice"},
			expectedBindings: []Binding{
				{Field: "Verbose", Value: true},
				{Field: "Name", Value: "alice"},
			},
		},
		"defaults fill absent flags": {
			schema: greetSchema,
			argv:   []string{"alice"},
			expectedBindings: []Binding{
				{Field: "Verbose", Value: false},
				{Field: "Name", Value: "alice"},
			},
		},
		"separator forces positionals": {
			schema: greetSchema,
			argv:   []string{"--", "--verbose"},
			expectedBindings: []Binding{
				{Field: "Verbose", Value: false},
				{Field: "Name", Value: "--verbose"},
			},
		},
		"subcommand dispatch": {
			schema: outerSchema,
			argv:   []string{"-v", "A", "5"},
			expectedBindings: []Binding{
				{Field: "Verbose", Value: true},
				{Field: "Inner", Value: "A"},
				{Path: []string{"A"}, Field: "X", Value: 5},
			},
		},
		"subcommand alias dispatch": {
			schema: outerSchema,
			argv:   []string{"rm", "stale"},
			expectedBindings: []Binding{
				{Field: "Verbose", Value: false},
				{Field: "Inner", Value: "rm"},
				{Path: []string{"B"}, Field: "Y", Value: "stale"},
			},
		},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cmd := MustCompile(tc.schema())
			bindings, err := NewEngine().Match(cmd, tc.argv)
			With(t).Verify(err).Will(BeNil()).OrFail()
			With(t).Verify(bindings).Will(EqualTo(tc.expectedBindings)).OrFail()
		})
	}
}

func Test_Match_inputErrors(t *testing.T) {
	t.Parallel()
	type testCase struct {
		schema        func() *Schema
		argv          []string
		expectedCause error
		expectedError string
	}
	testCases := map[string]testCase{
		"unknown flag": {
			schema:        greetSchema,
			argv:          []string{"-x", "alice"},
			expectedCause: ErrUnknownFlag,
			expectedError: `^unknown flag: -x$`,
		},
		"missing positional": {
			schema:        greetSchema,
			argv:          []string{"-v"},
			expectedCause: ErrMissingRequired,
			expectedError: `^required argument is missing: Name$`,
		},
		"extra positional": {
			schema:        greetSchema,
			argv:          []string{"alice", "bob"},
			expectedCause: ErrUnexpectedArgument,
			expectedError: `^unexpected argument: 'bob'$`,
		},
		"inline value on a presence flag": {
			schema:        greetSchema,
			argv:          []string{"--verbose=yes", "alice"},
			expectedCause: ErrWrongArity,
			expectedError: `flag takes no value$`,
		},
		"missing subcommand": {
			schema:        outerSchema,
			argv:          []string{},
			expectedCause: ErrMissingRequired,
			expectedError: `expected one of: A, B$`,
		},
		"unknown subcommand": {
			schema:        outerSchema,
			argv:          []string{"Z"},
			expectedCause: ErrUnknownSubcommand,
			expectedError: `^unknown subcommand: Inner: 'Z': expected one of: A, B$`,
		},
		"error inside a subcommand": {
			schema:        outerSchema,
			argv:          []string{"A", "five"},
			expectedCause: ErrInvalidValue,
			expectedError: `^invalid value: X: 'five'`,
		},
		"tuple flag short of values": {
			schema: func() *Schema {
				return &Schema{Name: "cut", Config: &struct{ Range [2]int }{}, Args: Args{"Range": NewArg().Long()}}
			},
			argv:          []string{"--range", "1"},
			expectedCause: ErrWrongArity,
			expectedError: `^wrong number of values: --range: expected 2 value\(s\), got 1$`,
		},
		"one-or-more flag with none": {
			schema: func() *Schema {
				return &Schema{Name: "tag", Config: &struct{ Tags []string }{}, Args: Args{
					"Tags": NewArg().Long().Action(ActionExtend).NumArgs(OneOrMore),
				}}
			},
			argv:          []string{"--tags"},
			expectedCause: ErrWrongArity,
			expectedError: `^wrong number of values: --tags: expected \+ value\(s\), got 0$`,
		},
		"both mutex flags": {
			schema:        func() *Schema { return formatSchema(&MutexGroup{Required: true}) },
			argv:          []string{"--json", "--yaml"},
			expectedCause: ErrMutexViolation,
			expectedError: `--json and --yaml cannot be combined$`,
		},
		"required mutex unsatisfied": {
			schema:        func() *Schema { return formatSchema(&MutexGroup{Required: true}) },
			argv:          []string{},
			expectedCause: ErrMutexViolation,
			expectedError: `one of --json, --yaml is required$`,
		},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cmd := MustCompile(tc.schema())
			_, err := NewEngine().Match(cmd, tc.argv)
			With(t).Verify(err).Will(Fail(tc.expectedError)).OrFail()
			With(t).Verify(errors.Is(err, tc.expectedCause)).Will(EqualTo(true)).OrFail()
			var input *InputError
			With(t).Verify(errors.As(err, &input)).Will(EqualTo(true)).OrFail()
		})
	}
}

func Test_Match_helpAndVersion(t *testing.T) {
	t.Parallel()

	root := MustCompile(&Schema{
		Name:    "tool",
		Version: "1.2.3",
		Config:  &outerConfig{},
		Args: Args{
			"Verbose": NewArg().Short().Long(),
			"Inner":   NewArg().Subcommands(addSchema(), removeSchema()),
		},
	})

	_, err := NewEngine().Match(root, []string{"--help"})
	var help *HelpRequested
	With(t).Verify(errors.As(err, &help)).Will(EqualTo(true)).OrFail()
	With(t).Verify(help.Command.Name()).Will(EqualTo("tool")).OrFail()

	_, err = NewEngine().Match(root, []string{"A", "-h"})
	help = nil
	With(t).Verify(errors.As(err, &help)).Will(EqualTo(true)).OrFail()
	With(t).Verify(help.Command.Name()).Will(EqualTo("A")).OrFail()

	_, err = NewEngine().Match(root, []string{"-V"})
	var version *VersionRequested
	With(t).Verify(errors.As(err, &version)).Will(EqualTo(true)).OrFail()

	// The version flag lives on the root only.
	_, err = NewEngine().Match(root, []string{"A", "5", "--version"})
	With(t).Verify(errors.Is(err, ErrUnknownFlag)).Will(EqualTo(true)).OrFail()
}

func Test_Match_greedyPositionalThenDispatch(t *testing.T) {
	t.Parallel()
	type bundleConfig struct {
		Files []string
		Inner innerCommand
	}
	cmd := MustCompile(&Schema{
		Name:   "bundle",
		Config: &bundleConfig{},
		Args:   Args{"Inner": NewArg().Subcommands(addSchema(), removeSchema())},
	})

	bindings, err := NewEngine().Match(cmd, []string{"f1", "f2", "A", "5"})
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(bindings).Will(EqualTo([]Binding{
		{Field: "Files", Value: []any{"f1", "f2"}},
		{Field: "Inner", Value: "A"},
		{Path: []string{"A"}, Field: "X", Value: 5},
	})).OrFail()
}

func Test_isFlagToken(t *testing.T) {
	t.Parallel()
	testCases := map[string]struct {
		token    string
		expected bool
	}{
		"short flag":       {token: "-v", expected: true},
		"long flag":        {token: "--verbose", expected: true},
		"negative integer": {token: "-5", expected: false},
		"negative decimal": {token: "-.5", expected: false},
		"bare dash":        {token: "-", expected: false},
		"plain word":       {token: "word", expected: false},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			With(t).Verify(isFlagToken(tc.token)).Will(EqualTo(tc.expected)).OrFail()
		})
	}
}
