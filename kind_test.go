package clap

import (
	"reflect"
	"testing"

	. "github.com/arikkfir/justest"
)

func Test_classifyType(t *testing.T) {
	t.Parallel()
	type testCase struct {
		fieldType        reflect.Type
		arg              *Arg
		expectedKind     kind
		expectedOptional bool
		expectedError    string
	}
	testCases := map[string]testCase{
		"bool is a scalar": {
			fieldType:    reflect.TypeOf(false),
			expectedKind: kindScalar{elem: reflect.TypeOf(false)},
		},
		"string is a scalar": {
			fieldType:    reflect.TypeOf(""),
			expectedKind: kindScalar{elem: reflect.TypeOf("")},
		},
		"float is a scalar": {
			fieldType:    reflect.TypeOf(1.5),
			expectedKind: kindScalar{elem: reflect.TypeOf(1.5)},
		},
		"pointer marks optional": {
			fieldType:        reflect.TypeOf((*string)(nil)),
			expectedKind:     kindScalar{elem: reflect.TypeOf("")},
			expectedOptional: true,
		},
		"pointer to pointer is unsupported": {
			fieldType:     reflect.TypeOf((**string)(nil)),
			expectedError: `^unsupported field type: \*\*string: pointer to pointer$`,
		},
		"slice of scalars is a list": {
			fieldType:    reflect.TypeOf([]int{}),
			expectedKind: kindList{elem: kindScalar{elem: reflect.TypeOf(0)}},
		},
		"slice of slices is unsupported": {
			fieldType:     reflect.TypeOf([][]int{}),
			expectedError: `list elements must be scalars or enums$`,
		},
		"array is a tuple": {
			fieldType:    reflect.TypeOf([3]float64{}),
			expectedKind: kindTuple{elem: kindScalar{elem: reflect.TypeOf(1.5)}, n: 3},
		},
		"enum by value receiver": {
			fieldType: reflect.TypeOf(colorRed),
			expectedKind: kindEnum{
				elem:    reflect.TypeOf(colorRed),
				choices: []string{"red", "green", "light-blue"},
				members: map[string]any{
					"red":        colorRed,
					"green":      colorGreen,
					"light-blue": colorLightBlue,
				},
			},
		},
		"optional enum": {
			fieldType: reflect.TypeOf((*color)(nil)),
			expectedKind: kindEnum{
				elem:    reflect.TypeOf(colorRed),
				choices: []string{"red", "green", "light-blue"},
				members: map[string]any{
					"red":        colorRed,
					"green":      colorGreen,
					"light-blue": colorLightBlue,
				},
			},
			expectedOptional: true,
		},
		"slice of enums": {
			fieldType: reflect.TypeOf([]color{}),
			expectedKind: kindList{elem: kindEnum{
				elem:    reflect.TypeOf(colorRed),
				choices: []string{"red", "green", "light-blue"},
				members: map[string]any{
					"red":        colorRed,
					"green":      colorGreen,
					"light-blue": colorLightBlue,
				},
			}},
		},
		"colliding enum choices": {
			fieldType:     reflect.TypeOf(clashingEnum(0)),
			expectedError: `^enum choices are not unique: clap\.clashingEnum: members 'FooBar' and 'Foo_Bar' both map to choice 'foo-bar'$`,
		},
		"map is unsupported": {
			fieldType:     reflect.TypeOf(map[string]string{}),
			expectedError: `^unsupported field type: map\[string\]string$`,
		},
		"interface without candidates": {
			fieldType:     reflect.TypeOf((*innerCommand)(nil)).Elem(),
			expectedError: `interface fields require subcommand candidates$`,
		},
		"interface with candidates is a slot": {
			fieldType:    reflect.TypeOf((*innerCommand)(nil)).Elem(),
			arg:          NewArg().Subcommands(addSchema()),
			expectedKind: kindSlot{},
		},
		"slot on a non-interface field": {
			fieldType:     reflect.TypeOf(""),
			arg:           NewArg().Subcommands(addSchema()),
			expectedError: `a subcommand slot must be an interface-typed field$`,
		},
		"slot candidate config not assignable": {
			fieldType:     reflect.TypeOf((*innerCommand)(nil)).Elem(),
			arg:           NewArg().Subcommands(&Schema{Name: "x", Config: &struct{}{}}),
			expectedError: `is not assignable to the slot$`,
		},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			arg := tc.arg
			if arg == nil {
				arg = NewArg()
			}
			k, optional, err := classifyType(tc.fieldType, arg)
			if tc.expectedError != "" {
				With(t).Verify(err).Will(Fail(tc.expectedError)).OrFail()
				return
			}
			With(t).Verify(err).Will(BeNil()).OrFail()
			With(t).Verify(optional).Will(EqualTo(tc.expectedOptional)).OrFail()
			if _, isSlot := tc.expectedKind.(kindSlot); isSlot {
				_, gotSlot := k.(kindSlot)
				With(t).Verify(gotSlot).Will(EqualTo(true)).OrFail()
				return
			}
			With(t).Verify(reflect.DeepEqual(k, tc.expectedKind)).Will(EqualTo(true)).OrFail()
		})
	}
}
