package clap

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// argSpec is the normalized, immutable description of one argument. It is
// owned exclusively by the Command it was compiled into.
type argSpec struct {
	field      string
	fieldIndex int
	fieldType  reflect.Type // declared type, including an optional pointer
	kind       kind
	optional   bool

	short      string
	long       string
	aliases    []string
	positional bool

	action   Action
	arity    Arity
	def      any
	defConst any // value produced by a zero-arity flag on presence
	choices  []string
	required bool
	group    *Group
	mutex    *MutexGroup

	about     string
	valueName string
}

// flags returns every flag text under which the argument is recognized.
func (s *argSpec) flags() []string {
	var flags []string
	if s.short != "" {
		flags = append(flags, s.short)
	}
	if s.long != "" {
		flags = append(flags, s.long)
	}
	return append(flags, s.aliases...)
}

// displayFlag returns the flag text used to name the argument in messages.
func (s *argSpec) displayFlag() string {
	if s.long != "" {
		return s.long
	}
	if s.short != "" {
		return s.short
	}
	return s.field
}

const flagPrefix = "-"

// synthesizeFlags resolves the short and long flag requests against the field
// name: short is the prefix plus the lowercased first character, long is the
// doubled prefix plus the kebab-cased field name. Explicit flag text is taken
// as is after validation.
func synthesizeFlags(spec *argSpec, arg *Arg, fieldName string) error {
	if arg.short != nil {
		if *arg.short == "" {
			first := []rune(fieldName)[0]
			spec.short = flagPrefix + string(unicode.ToLower(first))
		} else if !strings.HasPrefix(*arg.short, flagPrefix) || len(*arg.short) < 2 {
			return fmt.Errorf("%w: short flag '%s' must start with '%s'", ErrInvalidSchema, *arg.short, flagPrefix)
		} else {
			spec.short = *arg.short
		}
	}
	if arg.long != nil {
		if *arg.long == "" {
			spec.long = flagPrefix + flagPrefix + toKebabCase(fieldName)
		} else if !strings.HasPrefix(*arg.long, flagPrefix+flagPrefix) || len(*arg.long) < 3 {
			return fmt.Errorf("%w: long flag '%s' must start with '%s'", ErrInvalidSchema, *arg.long, flagPrefix+flagPrefix)
		} else {
			spec.long = *arg.long
		}
	}
	for _, alias := range arg.aliases {
		if !strings.HasPrefix(alias, flagPrefix) || len(alias) < 2 {
			return fmt.Errorf("%w: alias '%s' must start with '%s'", ErrInvalidSchema, alias, flagPrefix)
		}
	}
	spec.aliases = append([]string(nil), arg.aliases...)
	spec.positional = spec.short == "" && spec.long == ""
	if spec.positional && len(spec.aliases) > 0 {
		return fmt.Errorf("%w: a positional argument cannot have aliases", ErrInvalidSchema)
	}
	return nil
}

// buildArgSpec combines the field's kind, optionality and Arg overrides into
// the final argSpec. Every contradiction surfaces here, at compile time.
func buildArgSpec(cmdName string, sf reflect.StructField, idx int, k kind, optional bool, arg *Arg, protoField reflect.Value) (*argSpec, error) {
	spec := &argSpec{
		field:      sf.Name,
		fieldIndex: idx,
		fieldType:  sf.Type,
		kind:       k,
		optional:   optional,
		about:      arg.about,
		group:      arg.group,
		mutex:      arg.mutex,
		def:        arg.defaultValue,
		defConst:   arg.defaultMissing,
	}
	fail := func(cause error, detail string, args ...any) error {
		return &SchemaError{
			Cause:   cause,
			Command: cmdName,
			Field:   sf.Name,
			Type:    sf.Type.String(),
			Detail:  fmt.Sprintf(detail, args...),
		}
	}

	if err := synthesizeFlags(spec, arg, sf.Name); err != nil {
		return nil, fail(err, "")
	}

	// Fall back to the prototype's field value as the default.
	if spec.def == nil && protoField.IsValid() && !protoField.IsZero() && sf.Type.Kind() != reflect.Ptr {
		spec.def = protoField.Interface()
	}

	action, arity, err := resolveAction(spec, arg)
	if err != nil {
		return nil, fail(err, "")
	}
	spec.action = action
	spec.arity = arity

	if err := resolveDefaultAndRequired(spec, arg); err != nil {
		return nil, fail(err, "")
	}

	if spec.positional {
		// Presence of a positional is encoded purely by arity.
		spec.required = false
		if spec.optional || (arg.required != nil && !*arg.required) {
			switch spec.kind.(type) {
			case kindList:
				if spec.optional {
					return nil, fail(ErrContradictorySpec, "a list positional is already empty when absent; drop the pointer")
				}
				if spec.arity.min() > 0 {
					return nil, fail(ErrContradictorySpec, "a non-required list positional cannot demand %s value(s)", spec.arity)
				}
			case kindTuple:
				return nil, fail(ErrContradictorySpec, "a tuple positional consumes a fixed run of values and cannot be optional")
			default:
				if arg.numArgs != nil && arg.numArgs.kind != arityZeroOrOne {
					return nil, fail(ErrContradictorySpec, "an optional positional argument must have zero-or-one arity, not %s", arg.numArgs)
				}
				spec.arity = ZeroOrOne
			}
		}
		if !spec.action.takesValue() {
			return nil, fail(ErrContradictorySpec, "the '%s' action requires a flag, not a positional", spec.action)
		}
	}

	resolveValueName(spec, arg, sf.Name)
	return spec, nil
}

// resolveAction applies the action defaults per kind, validates action/kind
// compatibility, and resolves the final arity including the zero-arity
// store-constant and append-constant downgrades. The rules are total: any
// combination outside the table is an error, never a silent fallthrough.
func resolveAction(spec *argSpec, arg *Arg) (Action, Arity, error) {
	action, explicitAction := Action(0), false
	if arg.action != nil {
		action, explicitAction = *arg.action, true
	}

	switch k := spec.kind.(type) {
	case kindScalar:
		if k.elem.Kind() == reflect.Bool && spec.optional {
			return 0, Arity{}, fmt.Errorf("%w: an optional bool can never be absent and present at once; drop the pointer", ErrContradictorySpec)
		}
		if !explicitAction {
			if k.elem.Kind() == reflect.Bool {
				action = ActionSetTrue
			} else {
				action = ActionSet
			}
		}
	case kindEnum:
		if !explicitAction {
			action = ActionSet
		}
		spec.choices = k.choices
		convertEnumDefault(spec, k)
	case kindList:
		if !explicitAction {
			if spec.positional {
				action = ActionSet
			} else {
				action = ActionAppend
			}
		}
		if arg.numArgs == nil && (action == ActionSet || action == ActionExtend) {
			arg = arg.clone()
			arg.numArgs = ptrOf(ZeroOrMore)
		}
		if elem, ok := k.elem.(kindEnum); ok {
			spec.choices = elem.choices
		}
	case kindTuple:
		if !explicitAction {
			action = ActionSet
		}
		if arg.numArgs != nil {
			if arg.numArgs.kind != arityFixed || arg.numArgs.n != k.n {
				return 0, Arity{}, fmt.Errorf("%w: the tuple has %d values but the arity override is %s", ErrContradictorySpec, k.n, arg.numArgs)
			}
		}
		arg = arg.clone()
		arg.numArgs = ptrOf(Exactly(k.n))
		if elem, ok := k.elem.(kindEnum); ok {
			spec.choices = elem.choices
		}
	}

	if err := checkActionKind(action, spec.kind); err != nil {
		return 0, Arity{}, err
	}

	if !action.takesValue() {
		if arg.numArgs != nil {
			return 0, Arity{}, fmt.Errorf("%w: the '%s' action consumes no tokens; an arity override is meaningless", ErrContradictorySpec, action)
		}
		return action, Exactly(0), nil
	}

	arity := Exactly(1)
	if arg.numArgs != nil {
		arity = *arg.numArgs
	}
	if arity.kind == arityFixed && arity.n == 0 {
		// Explicit zero arity downgrades the action to its constant variant:
		// the flag consumes no token and yields the default-on-presence value.
		switch action {
		case ActionSet:
			action = actionSetConst
		case ActionAppend:
			action = actionAppendConst
		default:
			return 0, Arity{}, fmt.Errorf("%w: zero arity is only meaningful with the set or append actions, not '%s'", ErrContradictorySpec, action)
		}
		if spec.defConst == nil {
			return 0, Arity{}, fmt.Errorf("%w: a zero-arity flag needs a default-on-presence value", ErrContradictorySpec)
		}
	}
	return action, arity, nil
}

func checkActionKind(action Action, k kind) error {
	switch action {
	case ActionSetTrue, ActionSetFalse:
		if s, ok := k.(kindScalar); !ok || s.elem.Kind() != reflect.Bool {
			return fmt.Errorf("%w: the '%s' action requires a bool field", ErrContradictorySpec, action)
		}
	case ActionCount:
		s, ok := k.(kindScalar)
		if !ok {
			return fmt.Errorf("%w: the 'count' action requires an integer field", ErrContradictorySpec)
		}
		switch s.elem.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return fmt.Errorf("%w: the 'count' action requires an integer field", ErrContradictorySpec)
		}
	case ActionAppend, ActionExtend:
		if _, ok := k.(kindList); !ok {
			return fmt.Errorf("%w: the '%s' action requires a slice field", ErrContradictorySpec, action)
		}
	}
	return nil
}

// resolveDefaultAndRequired fills defaults and the required flag per action.
func resolveDefaultAndRequired(spec *argSpec, arg *Arg) error {
	switch spec.action {
	case ActionAppend, ActionExtend, actionAppendConst:
		if !spec.optional && spec.def == nil {
			spec.def = []any{}
		}
		spec.required = defaultIfNil(arg.required, false)
	case ActionCount:
		if spec.optional {
			return fmt.Errorf("%w: a counted argument is 0 when absent, never nil; drop the pointer", ErrContradictorySpec)
		}
		if spec.def == nil {
			spec.def = 0
		}
		spec.required = defaultIfNil(arg.required, false)
	case ActionSet, actionSetConst:
		if spec.def != nil && spec.optional {
			return fmt.Errorf("%w: an argument with a default can never be absent; drop the pointer", ErrContradictorySpec)
		}
		if arg.required != nil {
			if *arg.required && spec.optional {
				return fmt.Errorf("%w: a required argument can never be absent; drop the pointer", ErrContradictorySpec)
			}
			spec.required = *arg.required
			return nil
		}
		if spec.def == nil {
			spec.required = !spec.optional
		}
	case ActionSetFalse:
		if spec.optional {
			return fmt.Errorf("%w: a set-false argument is true when absent, never nil; drop the pointer", ErrContradictorySpec)
		}
		if spec.def == nil {
			spec.def = true
		}
	case ActionSetTrue:
		if spec.optional {
			return fmt.Errorf("%w: a set-true argument is false when absent, never nil; drop the pointer", ErrContradictorySpec)
		}
		if spec.def == nil {
			spec.def = false
		}
	}
	return nil
}

// convertEnumDefault replaces an enum-member default with its display text so
// the default reads naturally in help output; the member mapping is retained
// for coercion.
func convertEnumDefault(spec *argSpec, k kindEnum) {
	if spec.def == nil {
		return
	}
	dt := reflect.TypeOf(spec.def)
	if dt == nil || !dt.AssignableTo(k.elem) {
		return
	}
	for _, choice := range k.choices {
		if reflect.DeepEqual(k.members[choice], spec.def) {
			spec.def = choice
			return
		}
	}
}

// resolveValueName derives the display value name from the uppercased field
// name and the final arity.
func resolveValueName(spec *argSpec, arg *Arg, fieldName string) {
	name := defaultIfNil(arg.valueName, fieldNameToValueName(fieldName))
	switch spec.arity.kind {
	case arityZeroOrOne:
		spec.valueName = "[" + name + "]"
	case arityZeroOrMany:
		spec.valueName = "[<" + name + ">...]"
	case arityOneOrMore:
		spec.valueName = "<" + name + ">..."
	case arityFixed:
		if spec.arity.n == 0 {
			spec.valueName = ""
			return
		}
		parts := make([]string, spec.arity.n)
		for i := range parts {
			parts[i] = "<" + name + ">"
		}
		spec.valueName = strings.Join(parts, " ")
	}
}
