package clap

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Binding is one entry of the flat result produced by a matching engine.
// Path carries the namespace segments explicitly: it is empty for the owning
// command's own fields, and one leading segment is stripped per recursion
// level by the codec.
type Binding struct {
	Path  []string
	Field string
	Value any
}

// Engine matches argv tokens against a compiled Command and returns either a
// flat binding list with every declared field present (defaults filled in) or
// an InputError. The compiled tree is never mutated by a match.
type Engine interface {
	Match(cmd *Command, argv []string) ([]Binding, error)
}

// NewEngine returns the default matching engine. argv must not include the
// program name.
func NewEngine() Engine {
	return defaultEngine{}
}

type defaultEngine struct{}

func (defaultEngine) Match(cmd *Command, argv []string) ([]Binding, error) {
	return matchCommand(cmd, argv)
}

func isFlagToken(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	// A leading dash followed by a digit or dot is a negative number, not a
	// flag.
	return !(tok[1] >= '0' && tok[1] <= '9') && tok[1] != '.'
}

type matcher struct {
	cmd    *Command
	flags  map[string]*argSpec
	values map[string]any
	seen   map[string]bool

	positionals []*argSpec
	posIdx      int
	posBuf      []any

	selector   string
	child      []Binding
	dispatched bool
}

func matchCommand(cmd *Command, argv []string) ([]Binding, error) {
	m := &matcher{
		cmd:         cmd,
		flags:       map[string]*argSpec{},
		values:      map[string]any{},
		seen:        map[string]bool{},
		positionals: cmd.positionals(),
	}
	for _, spec := range cmd.specs {
		for _, flag := range spec.flags() {
			m.flags[flag] = spec
		}
	}
	if err := m.scan(argv); err != nil {
		return nil, err
	}
	if err := m.finalize(); err != nil {
		return nil, err
	}
	return m.emit(), nil
}

func (m *matcher) scan(argv []string) error {
	onlyPositionals := false
	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		if !onlyPositionals && tok == "--" {
			onlyPositionals = true
			continue
		}
		if !onlyPositionals && isFlagToken(tok) {
			next, err := m.matchFlag(tok, argv, i)
			if err != nil {
				return err
			}
			i = next
			continue
		}

		// A surplus positional selects a subcommand when this command has a
		// slot and every prior positional is satisfied.
		if m.cmd.slotField != "" && m.positionalsSatisfied() {
			child := m.cmd.resolveChild(tok)
			if child == nil && m.posIdx >= len(m.positionals) {
				return &InputError{Cause: ErrUnknownSubcommand, Field: m.cmd.slotField, Token: tok, Detail: availableSubcommands(m.cmd)}
			}
			if child != nil {
				return m.dispatch(child, tok, argv[i+1:])
			}
		}
		if err := m.feedPositional(tok); err != nil {
			return err
		}
	}
	return nil
}

func (m *matcher) dispatch(child *Command, selector string, rest []string) error {
	bindings, err := matchCommand(child, rest)
	if err != nil {
		return err
	}
	for i := range bindings {
		bindings[i].Path = append([]string{child.name}, bindings[i].Path...)
	}
	m.selector = selector
	m.child = bindings
	m.dispatched = true
	return nil
}

func (m *matcher) matchFlag(tok string, argv []string, i int) (int, error) {
	name, inline, hasInline := tok, "", false
	if strings.HasPrefix(tok, "--") {
		if eq := strings.IndexByte(tok, '='); eq >= 0 {
			name, inline, hasInline = tok[:eq], tok[eq+1:], true
		}
	}
	spec, ok := m.flags[name]
	if !ok {
		return 0, &InputError{Cause: ErrUnknownFlag, Flag: name}
	}

	switch spec.action {
	case ActionHelp:
		return 0, &HelpRequested{Command: m.cmd}
	case ActionVersion:
		return 0, &VersionRequested{Command: m.cmd}
	}

	if !spec.action.takesValue() {
		if hasInline {
			return 0, &InputError{Cause: ErrWrongArity, Flag: name, Token: inline, Detail: "flag takes no value"}
		}
		m.applyPresence(spec)
		return i, nil
	}

	var raws []string
	next := i
	if hasInline {
		raws = []string{inline}
	} else {
		raws, next = gatherTokens(spec.arity, argv, i)
	}
	if len(raws) < spec.arity.min() {
		return 0, &InputError{Cause: ErrWrongArity, Flag: name, Detail: fmt.Sprintf("expected %s value(s), got %d", spec.arity, len(raws))}
	}
	if spec.arity.kind == arityFixed && len(raws) != spec.arity.n {
		return 0, &InputError{Cause: ErrWrongArity, Flag: name, Detail: fmt.Sprintf("expected %d value(s), got %d", spec.arity.n, len(raws))}
	}

	values := make([]any, 0, len(raws))
	for _, raw := range raws {
		v, err := convertToken(spec, raw)
		if err != nil {
			return 0, err
		}
		values = append(values, v)
	}
	m.applyValues(spec, values)
	return next, nil
}

// gatherTokens consumes the run of value tokens the arity allows, never
// crossing a flag-like token or the bare "--" separator.
func gatherTokens(arity Arity, argv []string, i int) ([]string, int) {
	limit := len(argv) - 1 - i
	switch arity.kind {
	case arityFixed:
		if limit > arity.n {
			limit = arity.n
		}
	case arityZeroOrOne:
		if limit > 1 {
			limit = 1
		}
	}
	var raws []string
	for n := 0; n < limit; n++ {
		tok := argv[i+1+n]
		if isFlagToken(tok) || tok == "--" {
			break
		}
		raws = append(raws, tok)
	}
	return raws, i + len(raws)
}

// applyPresence handles the actions that consume no tokens.
func (m *matcher) applyPresence(spec *argSpec) {
	switch spec.action {
	case ActionSetTrue:
		m.values[spec.field] = true
	case ActionSetFalse:
		m.values[spec.field] = false
	case ActionCount:
		n := 0
		if m.seen[spec.field] {
			n = m.values[spec.field].(int)
		} else if spec.def != nil {
			n = int(reflect.ValueOf(spec.def).Convert(reflect.TypeOf(0)).Int())
		}
		m.values[spec.field] = n + 1
	case actionSetConst:
		m.values[spec.field] = spec.defConst
	case actionAppendConst:
		m.appendValues(spec, []any{spec.defConst})
	}
	m.seen[spec.field] = true
}

func (m *matcher) applyValues(spec *argSpec, values []any) {
	switch spec.action {
	case ActionSet:
		switch spec.arity.kind {
		case arityFixed:
			if spec.arity.n == 1 {
				m.values[spec.field] = values[0]
			} else {
				m.values[spec.field] = values
			}
		case arityZeroOrOne:
			if len(values) == 0 {
				m.values[spec.field] = spec.defConst
			} else {
				m.values[spec.field] = values[0]
			}
		default:
			m.values[spec.field] = values
		}
	case ActionAppend, ActionExtend:
		m.appendValues(spec, values)
	}
	m.seen[spec.field] = true
}

func (m *matcher) appendValues(spec *argSpec, values []any) {
	var acc []any
	if m.seen[spec.field] {
		acc = m.values[spec.field].([]any)
	}
	m.values[spec.field] = append(acc, values...)
	m.seen[spec.field] = true
}

// positionalsSatisfied reports whether every positional's minimum arity is
// already met, which is the precondition for subcommand dispatch.
func (m *matcher) positionalsSatisfied() bool {
	for idx := m.posIdx; idx < len(m.positionals); idx++ {
		need := m.positionals[idx].arity.min()
		if idx == m.posIdx {
			need -= len(m.posBuf)
		}
		if need > 0 {
			return false
		}
	}
	return true
}

func (m *matcher) feedPositional(tok string) error {
	if m.posIdx >= len(m.positionals) {
		if m.cmd.slotField != "" {
			return &InputError{Cause: ErrUnknownSubcommand, Field: m.cmd.slotField, Token: tok, Detail: availableSubcommands(m.cmd)}
		}
		return &InputError{Cause: ErrUnexpectedArgument, Token: tok}
	}
	spec := m.positionals[m.posIdx]
	v, err := convertToken(spec, tok)
	if err != nil {
		return err
	}
	switch spec.arity.kind {
	case arityFixed:
		m.posBuf = append(m.posBuf, v)
		if len(m.posBuf) == spec.arity.n {
			m.flushPositional(spec)
		}
	case arityZeroOrOne:
		m.posBuf = append(m.posBuf, v)
		m.flushPositional(spec)
	default:
		// Greedy: a zero-or-many or one-or-more positional owns every
		// remaining positional token.
		m.posBuf = append(m.posBuf, v)
	}
	return nil
}

func (m *matcher) flushPositional(spec *argSpec) {
	switch {
	case spec.arity.kind == arityFixed && spec.arity.n == 1, spec.arity.kind == arityZeroOrOne:
		m.values[spec.field] = m.posBuf[0]
	default:
		m.values[spec.field] = m.posBuf
	}
	m.seen[spec.field] = true
	m.posBuf = nil
	m.posIdx++
}

func (m *matcher) finalize() error {
	// Close out a trailing greedy positional.
	if m.posIdx < len(m.positionals) && len(m.posBuf) > 0 {
		spec := m.positionals[m.posIdx]
		switch spec.arity.kind {
		case arityFixed:
			return &InputError{Cause: ErrWrongArity, Field: spec.field, Detail: fmt.Sprintf("expected %d value(s), got %d", spec.arity.n, len(m.posBuf))}
		default:
			m.flushPositional(spec)
		}
	}
	for idx := m.posIdx; idx < len(m.positionals); idx++ {
		if m.positionals[idx].arity.min() > 0 {
			return &InputError{Cause: ErrMissingRequired, Field: m.positionals[idx].field}
		}
	}

	for _, spec := range m.cmd.specs {
		if spec.required && !spec.positional && !m.seen[spec.field] {
			return &InputError{Cause: ErrMissingRequired, Flag: spec.displayFlag()}
		}
	}

	for _, p := range m.cmd.registry.mutexes {
		var supplied []string
		for _, spec := range p.specs {
			if m.seen[spec.field] {
				supplied = append(supplied, spec.displayFlag())
			}
		}
		if len(supplied) > 1 {
			return &InputError{Cause: ErrMutexViolation, Detail: fmt.Sprintf("%s cannot be combined", strings.Join(supplied, " and "))}
		}
		if p.mutex.Required && len(supplied) == 0 {
			var all []string
			for _, spec := range p.specs {
				all = append(all, spec.displayFlag())
			}
			return &InputError{Cause: ErrMutexViolation, Detail: fmt.Sprintf("one of %s is required", strings.Join(all, ", "))}
		}
	}

	if m.cmd.slotField != "" && !m.dispatched && m.cmd.slotRequired {
		return &InputError{Cause: ErrMissingRequired, Field: m.cmd.slotField, Detail: availableSubcommands(m.cmd)}
	}
	return nil
}

// emit produces the flat binding list: every declared field, defaults filled,
// then the slot selector, then the dispatched child's bindings.
func (m *matcher) emit() []Binding {
	var bindings []Binding
	for _, spec := range m.cmd.specs {
		switch spec.action {
		case ActionHelp, ActionVersion:
			continue
		}
		value, ok := m.values[spec.field]
		if !ok {
			value = spec.def
		}
		bindings = append(bindings, Binding{Field: spec.field, Value: value})
	}
	if m.cmd.slotField != "" {
		var selector any
		if m.dispatched {
			selector = m.selector
		}
		bindings = append(bindings, Binding{Field: m.cmd.slotField, Value: selector})
	}
	return append(bindings, m.child...)
}

func availableSubcommands(cmd *Command) string {
	return "expected one of: " + strings.Join(cmd.childOrder, ", ")
}

func elemOf(k kind) kind {
	switch kk := k.(type) {
	case kindList:
		return kk.elem
	case kindTuple:
		return kk.elem
	default:
		return k
	}
}

// convertToken converts one raw token to the argument's element type. Enum
// tokens are validated against the choice table but stay display text; the
// codec maps them back to members.
func convertToken(spec *argSpec, tok string) (any, error) {
	switch ek := elemOf(spec.kind).(type) {
	case kindEnum:
		if _, ok := ek.members[tok]; !ok {
			return nil, &InputError{Cause: ErrInvalidChoice, Flag: spec.displayFlag(), Token: tok, Detail: "choose from " + strings.Join(ek.choices, ", ")}
		}
		return tok, nil
	case kindScalar:
		return convertScalar(spec, ek.elem, tok)
	default:
		return tok, nil
	}
}

func convertScalar(spec *argSpec, t reflect.Type, tok string) (any, error) {
	fail := func(err error) error {
		return &InputError{Cause: ErrInvalidValue, Flag: spec.displayFlag(), Token: tok, Detail: err.Error()}
	}
	switch t.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(tok)
		if err != nil {
			return nil, fail(err)
		}
		return reflect.ValueOf(b).Convert(t).Interface(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(tok, 10, t.Bits())
		if err != nil {
			return nil, fail(err)
		}
		return reflect.ValueOf(i).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(tok, 10, t.Bits())
		if err != nil {
			return nil, fail(err)
		}
		return reflect.ValueOf(u).Convert(t).Interface(), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(tok, t.Bits())
		if err != nil {
			return nil, fail(err)
		}
		return reflect.ValueOf(f).Convert(t).Interface(), nil
	default:
		return reflect.ValueOf(tok).Convert(t).Interface(), nil
	}
}
