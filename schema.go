package clap

import "fmt"

// Schema is the declarative description of one command: its identity, the
// struct whose fields are its arguments, and per-field metadata. A Schema is
// compiled once by [Compile] into an immutable [Command] tree.
type Schema struct {
	// Name is the command name. Required.
	Name string

	// Aliases are alternative names under which this command can be selected
	// when it is a subcommand candidate.
	Aliases []string

	// About is a one-line description shown in help output.
	About string

	// Version, when non-empty on the root schema, enables the automatic
	// -V/--version flag.
	Version string

	// Config is a pointer to the struct prototype whose exported fields
	// declare the command's arguments. Non-zero field values act as argument
	// defaults, as do struct field values on the prototype.
	Config any

	// Args attaches an [Arg] builder to selected fields, keyed by the Go
	// field name. Fields without an entry get a fresh default Arg and are
	// therefore positional.
	Args Args

	// DisableHelp suppresses the automatic -h/--help flag.
	DisableHelp bool
}

// Args maps Go field names to their argument metadata.
type Args map[string]*Arg

// Group is a named display collection of arguments. Declare Group values at
// schema-definition scope and reference the same value from each member's
// [Arg]; two distinct Groups with the same title under one command is a
// compile-time error.
type Group struct {
	Title       string
	Description string
}

// MutexGroup is a collection of arguments of which at most one may be
// supplied (exactly one when Required). When Parent is set, it must be the
// same *Group declared on every member argument.
type MutexGroup struct {
	Parent   *Group
	Required bool
}

// EnumMember is one named variant of an enumerated field type.
type EnumMember struct {
	Name  string
	Value any
}

// Enum marks a field type as enumerated. The declared members form the
// argument's choice table: each member name is kebab-cased into its display
// text, and parsed display text maps back to the member value.
type Enum interface {
	EnumMembers() []EnumMember
}

// Action determines what supplying an argument does to its value.
type Action int

const (
	// ActionSet stores the (converted) value, last occurrence winning.
	ActionSet Action = iota
	// ActionAppend appends one value per occurrence.
	ActionAppend
	// ActionExtend appends every gathered value per occurrence.
	ActionExtend
	// ActionCount increments an integer per occurrence; consumes no value.
	ActionCount
	// ActionSetTrue stores true on presence; consumes no value.
	ActionSetTrue
	// ActionSetFalse stores false on presence; consumes no value.
	ActionSetFalse
	// ActionHelp aborts matching with a HelpRequested error.
	ActionHelp
	// ActionVersion aborts matching with a VersionRequested error.
	ActionVersion

	// Downgraded variants for explicit zero arity; never set directly.
	actionSetConst
	actionAppendConst
)

func (a Action) String() string {
	switch a {
	case ActionSet:
		return "set"
	case ActionAppend:
		return "append"
	case ActionExtend:
		return "extend"
	case ActionCount:
		return "count"
	case ActionSetTrue:
		return "set-true"
	case ActionSetFalse:
		return "set-false"
	case ActionHelp:
		return "help"
	case ActionVersion:
		return "version"
	case actionSetConst:
		return "set-const"
	case actionAppendConst:
		return "append-const"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// takesValue reports whether the action consumes tokens from argv.
func (a Action) takesValue() bool {
	switch a {
	case ActionSet, ActionAppend, ActionExtend:
		return true
	default:
		return false
	}
}

type arityKind int

const (
	arityFixed arityKind = iota
	arityZeroOrOne
	arityZeroOrMany
	arityOneOrMore
)

// Arity describes how many tokens an argument consumes per occurrence.
type Arity struct {
	kind arityKind
	n    int
}

// Exactly returns a fixed arity of n tokens per occurrence.
func Exactly(n int) Arity {
	return Arity{kind: arityFixed, n: n}
}

var (
	// ZeroOrOne consumes at most one token per occurrence.
	ZeroOrOne = Arity{kind: arityZeroOrOne}
	// ZeroOrMore consumes any run of tokens, possibly none.
	ZeroOrMore = Arity{kind: arityZeroOrMany}
	// OneOrMore consumes a non-empty run of tokens.
	OneOrMore = Arity{kind: arityOneOrMore}
)

func (a Arity) String() string {
	switch a.kind {
	case arityZeroOrOne:
		return "?"
	case arityZeroOrMany:
		return "*"
	case arityOneOrMore:
		return "+"
	default:
		return fmt.Sprintf("%d", a.n)
	}
}

// min returns the smallest number of tokens that satisfies the arity.
func (a Arity) min() int {
	switch a.kind {
	case arityFixed:
		return a.n
	case arityOneOrMore:
		return 1
	default:
		return 0
	}
}

// Arg accumulates per-field metadata through a chainable builder. Arg values
// are copied, never aliased, into the compiled tree, so a single Arg may be
// shared between schema definitions.
type Arg struct {
	short          *string // nil: absent; "": derive from field name
	long           *string
	aliases        []string
	about          string
	valueName      *string
	group          *Group
	mutex          *MutexGroup
	action         *Action
	numArgs        *Arity
	defaultValue   any
	defaultMissing any
	required       *bool
	subcommands    []*Schema
}

// NewArg returns an empty argument builder. A field whose Arg never receives
// a short or long flag is positional.
func NewArg() *Arg {
	return &Arg{}
}

// Short enables the short flag. With no argument the flag is derived from the
// first character of the field name; an explicit flag must include its prefix
// ("-x").
func (a *Arg) Short(flag ...string) *Arg {
	if len(flag) > 0 {
		a.short = ptrOf(flag[0])
	} else {
		a.short = ptrOf("")
	}
	return a
}

// Long enables the long flag. With no argument the flag is derived from the
// kebab-cased field name; an explicit flag must include its prefix
// ("--exact").
func (a *Arg) Long(flag ...string) *Arg {
	if len(flag) > 0 {
		a.long = ptrOf(flag[0])
	} else {
		a.long = ptrOf("")
	}
	return a
}

// Aliases adds flags recognized in addition to the short and long flags.
func (a *Arg) Aliases(flags ...string) *Arg {
	a.aliases = append(a.aliases, flags...)
	return a
}

// About sets the one-line description shown in help output.
func (a *Arg) About(text string) *Arg {
	a.about = text
	return a
}

// ValueName overrides the display name of the argument's value.
func (a *Arg) ValueName(name string) *Arg {
	a.valueName = ptrOf(name)
	return a
}

// Group places the argument in a display group.
func (a *Arg) Group(g *Group) *Arg {
	a.group = g
	return a
}

// Mutex places the argument in a mutually exclusive group.
func (a *Arg) Mutex(m *MutexGroup) *Arg {
	a.mutex = m
	return a
}

// Action overrides the argument's action.
func (a *Arg) Action(action Action) *Arg {
	a.action = ptrOf(action)
	return a
}

// NumArgs overrides the argument's arity.
func (a *Arg) NumArgs(arity Arity) *Arg {
	a.numArgs = ptrOf(arity)
	return a
}

// Default sets the value used when the argument is absent from argv.
func (a *Arg) Default(v any) *Arg {
	a.defaultValue = v
	return a
}

// DefaultMissing sets the value produced when a zero-arity flag is present.
func (a *Arg) DefaultMissing(v any) *Arg {
	a.defaultMissing = v
	return a
}

// Required overrides whether the argument must be supplied.
func (a *Arg) Required(v bool) *Arg {
	a.required = ptrOf(v)
	return a
}

// Subcommands marks the field as the command's subcommand slot and declares
// the candidate schemas.
func (a *Arg) Subcommands(schemas ...*Schema) *Arg {
	a.subcommands = append(a.subcommands, schemas...)
	return a
}

// clone returns a copy so that a shared Arg value is never aliased into a
// compiled tree.
func (a *Arg) clone() *Arg {
	if a == nil {
		return NewArg()
	}
	c := *a
	c.aliases = append([]string(nil), a.aliases...)
	c.subcommands = append([]*Schema(nil), a.subcommands...)
	return &c
}
