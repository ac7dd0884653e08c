package clap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"reflect"
	"syscall"
)

type ExitCode int

const (
	ExitCodeSuccess          ExitCode = 0
	ExitCodeError            ExitCode = 1
	ExitCodeMisconfiguration ExitCode = 2
)

// Parser hands a compiled Command tree to a matching engine and decodes the
// flat result back into a typed instance tree. A Parser holds no per-parse
// state: the same Parser can serve many argv vectors, concurrently if the
// engine allows it (the default engine does).
type Parser struct {
	root   *Command
	engine Engine
}

type ParserOption func(*Parser)

// WithEngine substitutes another matching engine implementation.
func WithEngine(e Engine) ParserOption {
	return func(p *Parser) {
		p.engine = e
	}
}

// NewParser returns a Parser over the compiled command tree, using the
// default matching engine unless overridden.
func NewParser(root *Command, opts ...ParserOption) *Parser {
	p := &Parser{root: root, engine: NewEngine()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Command returns the compiled root command, read-only.
func (p *Parser) Command() *Command {
	return p.root
}

// Parse matches argv (without the program name) and returns a pointer to a
// freshly built instance of the root schema's Config type. Engine failures
// propagate unchanged; no partially constructed instance is ever returned.
func (p *Parser) Parse(argv []string) (any, error) {
	bindings, err := p.engine.Match(p.root, argv)
	if err != nil {
		return nil, err
	}
	return decode(p.root, bindings)
}

// ParseAs is a typed wrapper over [Parser.Parse] for the root Config type.
func ParseAs[T any](p *Parser, argv []string) (*T, error) {
	want := reflect.TypeOf((*T)(nil)).Elem()
	if p.root.configType != want {
		return nil, fmt.Errorf("%w: root config is %s, not %s", ErrInvalidSchema, p.root.configType, want)
	}
	inst, err := p.Parse(argv)
	if err != nil {
		return nil, err
	}
	return inst.(*T), nil
}

// Run parses argv, rendering help, version and input errors onto w. It
// returns the built instance (nil unless the exit code is success and no
// help/version flag was hit) and the process exit code.
func (p *Parser) Run(w io.Writer, argv []string) (any, ExitCode) {
	inst, err := p.Parse(argv)
	if err == nil {
		return inst, ExitCodeSuccess
	}

	var help *HelpRequested
	if errors.As(err, &help) {
		if err := help.Command.PrintHelp(w, getTerminalWidth()); err != nil {
			_, _ = fmt.Fprintln(w, err)
			return nil, ExitCodeError
		}
		return nil, ExitCodeSuccess
	}
	var version *VersionRequested
	if errors.As(err, &version) {
		_, _ = fmt.Fprintf(w, "%s %s\n", p.root.name, p.root.version)
		return nil, ExitCodeSuccess
	}
	var input *InputError
	if errors.As(err, &input) {
		_, _ = fmt.Fprintln(w, err)
		if err := p.root.PrintUsageLine(w, getTerminalWidth()); err != nil {
			_, _ = fmt.Fprintln(w, err)
		}
		return nil, ExitCodeMisconfiguration
	}
	_, _ = fmt.Fprintln(w, err)
	return nil, ExitCodeError
}

// RunWithSignals parses argv like [Parser.Run] and, on success, invokes fn
// with the decoded instance under a context that is cancelled when SIGINT or
// SIGTERM is received. An error from fn is rendered onto w.
func (p *Parser) RunWithSignals(w io.Writer, argv []string, fn func(ctx context.Context, instance any) error) ExitCode {
	inst, code := p.Run(w, argv)
	if inst == nil || code != ExitCodeSuccess {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := fn(ctx, inst); err != nil {
		_, _ = fmt.Fprintln(w, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}
