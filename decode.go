package clap

import (
	"errors"
	"fmt"
	"reflect"
)

// errMalformedResult flags a flat result that violates the engine contract.
// The codec consumes already-validated maps and generates no InputErrors of
// its own; a malformed result is a programming error in the engine, not bad
// argv.
var errMalformedResult = errors.New("malformed parse result")

// decode reconstructs a typed instance tree from the engine's flat bindings,
// starting at cmd. It returns a pointer to a freshly allocated Config struct;
// on error nothing partially constructed escapes.
func decode(cmd *Command, bindings []Binding) (any, error) {
	inst := reflect.New(cmd.configType)
	if err := applyBindings(cmd, inst.Elem(), bindings); err != nil {
		return nil, err
	}
	return inst.Interface(), nil
}

func applyBindings(cmd *Command, inst reflect.Value, bindings []Binding) error {
	var mine []Binding
	var theirs []Binding
	childSeg := ""
	for _, b := range bindings {
		if len(b.Path) == 0 {
			mine = append(mine, b)
			continue
		}
		if childSeg == "" {
			childSeg = b.Path[0]
		} else if b.Path[0] != childSeg {
			return fmt.Errorf("%w: conflicting subcommand paths '%s' and '%s'", errMalformedResult, childSeg, b.Path[0])
		}
		theirs = append(theirs, Binding{Path: b.Path[1:], Field: b.Field, Value: b.Value})
	}

	var selector any
	selectorSet := false
	for _, b := range mine {
		if b.Field == cmd.slotField && cmd.slotField != "" {
			if selectorSet {
				return fmt.Errorf("%w: two selector values for slot '%s'", errMalformedResult, cmd.slotField)
			}
			selector, selectorSet = b.Value, true
			continue
		}
		spec, ok := cmd.byField[b.Field]
		if !ok {
			return fmt.Errorf("%w: no argument named '%s' in command '%s'", errMalformedResult, b.Field, cmd.name)
		}
		if err := assignField(inst, spec, b.Value); err != nil {
			return err
		}
	}

	if cmd.slotField == "" {
		return nil
	}

	name, ok := selector.(string)
	if !ok || name == "" {
		// Slot absent: legal only for an optional slot, which the engine has
		// already ensured. The interface field stays nil.
		return nil
	}
	child := cmd.resolveChild(name)
	if child == nil {
		return fmt.Errorf("%w: selector '%s' names no subcommand of '%s'", errMalformedResult, name, cmd.name)
	}
	childInst, err := decode(child, theirs)
	if err != nil {
		return err
	}
	slot, _ := cmd.configType.FieldByName(cmd.slotField)
	fv := inst.FieldByIndex(slot.Index)
	if fv.Kind() == reflect.Ptr {
		p := reflect.New(fv.Type().Elem())
		p.Elem().Set(reflect.ValueOf(childInst))
		fv.Set(p)
	} else {
		fv.Set(reflect.ValueOf(childInst))
	}
	return nil
}

// assignField coerces one flat value by kind and assigns it onto the instance
// under construction.
func assignField(inst reflect.Value, spec *argSpec, value any) error {
	if spec.fieldIndex < 0 {
		return nil
	}
	fv := inst.Field(spec.fieldIndex)
	if value == nil {
		// Absent optional: the pointer stays nil, everything else stays its
		// zero value.
		return nil
	}
	if spec.optional {
		p := reflect.New(fv.Type().Elem())
		coerced, err := coerceValue(spec, spec.kind, p.Elem().Type(), value)
		if err != nil {
			return err
		}
		p.Elem().Set(coerced)
		fv.Set(p)
		return nil
	}

	coerced, err := coerceValue(spec, spec.kind, fv.Type(), value)
	if err != nil {
		return err
	}
	fv.Set(coerced)
	return nil
}

// coerceValue turns an engine value into a reflect.Value of the target type:
// tuples pack into fixed arrays, enum display text maps back through the
// choice table to the member, lists rebuild typed slices, scalars convert.
func coerceValue(spec *argSpec, k kind, target reflect.Type, value any) (reflect.Value, error) {
	switch kk := k.(type) {
	case kindEnum:
		choice, ok := value.(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: field '%s': enum value %T is not display text", errMalformedResult, spec.field, value)
		}
		member, ok := kk.members[choice]
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: field '%s': '%s' is not in the choice table", errMalformedResult, spec.field, choice)
		}
		return reflect.ValueOf(member), nil
	case kindTuple:
		if rv := reflect.ValueOf(value); rv.Type() == target {
			// A typed default straight from the prototype.
			return rv, nil
		}
		elems, ok := value.([]any)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: field '%s': tuple value %T is not a value list", errMalformedResult, spec.field, value)
		}
		if len(elems) != kk.n {
			return reflect.Value{}, fmt.Errorf("%w: field '%s': tuple needs %d values, got %d", errMalformedResult, spec.field, kk.n, len(elems))
		}
		arr := reflect.New(target).Elem()
		for i, e := range elems {
			ev, err := coerceValue(spec, kk.elem, target.Elem(), e)
			if err != nil {
				return reflect.Value{}, err
			}
			arr.Index(i).Set(ev)
		}
		return arr, nil
	case kindList:
		if rv := reflect.ValueOf(value); rv.Type() == target {
			// A typed default straight from the prototype.
			return rv, nil
		}
		elems, ok := value.([]any)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: field '%s': list value %T is not a value list", errMalformedResult, spec.field, value)
		}
		slice := reflect.MakeSlice(target, len(elems), len(elems))
		for i, e := range elems {
			ev, err := coerceValue(spec, kk.elem, target.Elem(), e)
			if err != nil {
				return reflect.Value{}, err
			}
			slice.Index(i).Set(ev)
		}
		return slice, nil
	default:
		rv := reflect.ValueOf(value)
		if rv.Type() == target {
			return rv, nil
		}
		if rv.Type().ConvertibleTo(target) {
			return rv.Convert(target), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: field '%s': cannot assign %T", errMalformedResult, spec.field, value)
	}
}
