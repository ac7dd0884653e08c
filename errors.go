package clap

import (
	"errors"
	"fmt"
	"strings"
)

// Schema compilation error categories. A SchemaError always unwraps to one of
// these.
var (
	ErrInvalidSchema           = errors.New("invalid schema")
	ErrUnsupportedType         = errors.New("unsupported field type")
	ErrAmbiguousChoice         = errors.New("enum choices are not unique")
	ErrContradictorySpec       = errors.New("contradictory argument spec")
	ErrDuplicateSubcommandSlot = errors.New("command already has a subcommand slot")
	ErrDuplicateGroupTitle     = errors.New("duplicate group title")
	ErrMutexParentMismatch     = errors.New("mutex group parent differs from the argument's group")
)

// Parse error categories. An InputError always unwraps to one of these.
var (
	ErrUnknownFlag        = errors.New("unknown flag")
	ErrInvalidValue       = errors.New("invalid value")
	ErrWrongArity         = errors.New("wrong number of values")
	ErrMissingRequired    = errors.New("required argument is missing")
	ErrMutexViolation     = errors.New("mutually exclusive arguments")
	ErrInvalidChoice      = errors.New("value is not one of the allowed choices")
	ErrUnknownSubcommand  = errors.New("unknown subcommand")
	ErrUnexpectedArgument = errors.New("unexpected argument")
)

// SchemaError reports a structural problem in a schema. It is deterministic
// for a given schema and raised before any argv is examined; no partial
// Command tree is ever returned alongside it.
type SchemaError struct {
	Cause   error
	Command string
	Field   string
	Type    string
	Detail  string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString(e.Cause.Error())
	if e.Command != "" {
		_, _ = fmt.Fprintf(&b, ": command '%s'", e.Command)
	}
	if e.Field != "" {
		_, _ = fmt.Fprintf(&b, ": field '%s'", e.Field)
	}
	if e.Type != "" {
		_, _ = fmt.Fprintf(&b, " (%s)", e.Type)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// InputError reports a problem with the given argv, produced by the matching
// engine and propagated unchanged by the rest of the library.
type InputError struct {
	Cause  error
	Field  string
	Flag   string
	Token  string
	Detail string
}

func (e *InputError) Error() string {
	var b strings.Builder
	b.WriteString(e.Cause.Error())
	switch {
	case e.Flag != "":
		_, _ = fmt.Fprintf(&b, ": %s", e.Flag)
	case e.Field != "":
		_, _ = fmt.Fprintf(&b, ": %s", e.Field)
	}
	if e.Token != "" {
		_, _ = fmt.Fprintf(&b, ": '%s'", e.Token)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// HelpRequested is returned by the matching engine when a help flag is
// encountered. It aborts the match before any values are produced; the caller
// decides how (and whether) to render help for Command.
type HelpRequested struct {
	Command *Command
}

func (e *HelpRequested) Error() string {
	return "help requested"
}

// VersionRequested is returned by the matching engine when the version flag
// is encountered.
type VersionRequested struct {
	Command *Command
}

func (e *VersionRequested) Error() string {
	return "version requested"
}
