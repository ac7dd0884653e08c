package clap

import (
	"fmt"
	"reflect"
)

// kind is the classified shape of a declared field type. It is a closed set:
// computed once per field at compile time and never re-derived.
type kind interface {
	isKind()
}

// kindScalar is a single plain value (bool, integer, float or string).
type kindScalar struct {
	elem reflect.Type
}

// kindEnum is a value restricted to the kebab-cased member names of an
// enumerated type.
type kindEnum struct {
	elem    reflect.Type
	choices []string       // declaration order
	members map[string]any // choice text to member value
}

// kindList is a homogeneous sequence of scalar or enum elements.
type kindList struct {
	elem kind
}

// kindTuple is a fixed-size homogeneous sequence of scalar or enum elements.
type kindTuple struct {
	elem kind
	n    int
}

// kindSlot selects among candidate subcommand schemas.
type kindSlot struct {
	schemas []*Schema
}

func (kindScalar) isKind() {}
func (kindEnum) isKind()   {}
func (kindList) isKind()   {}
func (kindTuple) isKind()  {}
func (kindSlot) isKind()   {}

var enumType = reflect.TypeOf((*Enum)(nil)).Elem()

func isScalarType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// classifyType maps a declared field type to its kind plus an optionality
// flag. Pointer types, and only pointer types, mark a field optional.
func classifyType(t reflect.Type, arg *Arg) (kind, bool, error) {
	if t.Kind() == reflect.Ptr {
		if t.Elem().Kind() == reflect.Ptr {
			return nil, false, fmt.Errorf("%w: %s: pointer to pointer", ErrUnsupportedType, t)
		}
		k, _, err := classifyType(t.Elem(), arg)
		return k, true, err
	}

	if len(arg.subcommands) > 0 {
		if t.Kind() != reflect.Interface {
			return nil, false, fmt.Errorf("%w: %s: a subcommand slot must be an interface-typed field", ErrUnsupportedType, t)
		}
		for _, sub := range arg.subcommands {
			ct := reflect.TypeOf(sub.Config)
			if ct == nil || !ct.AssignableTo(t) {
				return nil, false, fmt.Errorf("%w: %s: subcommand '%s' config %T is not assignable to the slot", ErrUnsupportedType, t, sub.Name, sub.Config)
			}
		}
		return kindSlot{schemas: arg.subcommands}, false, nil
	}

	if t.Implements(enumType) || reflect.PtrTo(t).Implements(enumType) {
		return classifyEnum(t)
	}

	switch {
	case isScalarType(t):
		return kindScalar{elem: t}, false, nil
	case t.Kind() == reflect.Slice:
		elem, _, err := classifyType(t.Elem(), NewArg())
		if err != nil {
			return nil, false, err
		}
		if !isElemKind(elem) {
			return nil, false, fmt.Errorf("%w: %s: list elements must be scalars or enums", ErrUnsupportedType, t)
		}
		return kindList{elem: elem}, false, nil
	case t.Kind() == reflect.Array:
		elem, _, err := classifyType(t.Elem(), NewArg())
		if err != nil {
			return nil, false, err
		}
		if !isElemKind(elem) {
			return nil, false, fmt.Errorf("%w: %s: tuple elements must be scalars or enums", ErrUnsupportedType, t)
		}
		return kindTuple{elem: elem, n: t.Len()}, false, nil
	case t.Kind() == reflect.Interface:
		return nil, false, fmt.Errorf("%w: %s: interface fields require subcommand candidates", ErrUnsupportedType, t)
	default:
		return nil, false, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

func isElemKind(k kind) bool {
	switch k.(type) {
	case kindScalar, kindEnum:
		return true
	default:
		return false
	}
}

func classifyEnum(t reflect.Type) (kind, bool, error) {
	var e Enum
	if t.Implements(enumType) {
		e = reflect.Zero(t).Interface().(Enum)
	} else {
		e = reflect.New(t).Interface().(Enum)
	}
	members := e.EnumMembers()
	if len(members) == 0 {
		return nil, false, fmt.Errorf("%w: %s: enum has no members", ErrUnsupportedType, t)
	}
	k := kindEnum{
		elem:    t,
		choices: make([]string, 0, len(members)),
		members: make(map[string]any, len(members)),
	}
	memberNames := make(map[string]string, len(members))
	for _, m := range members {
		mt := reflect.TypeOf(m.Value)
		if mt == nil || !mt.AssignableTo(t) {
			return nil, false, fmt.Errorf("%w: %s: member '%s' value is not assignable to the enum type", ErrUnsupportedType, t, m.Name)
		}
		choice := toKebabCase(m.Name)
		if first, dup := memberNames[choice]; dup {
			return nil, false, fmt.Errorf("%w: %s: members '%s' and '%s' both map to choice '%s'", ErrAmbiguousChoice, t, first, m.Name, choice)
		}
		memberNames[choice] = m.Name
		k.choices = append(k.choices, choice)
		k.members[choice] = m.Value
	}
	return k, false, nil
}
