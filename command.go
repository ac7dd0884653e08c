package clap

import (
	"fmt"
	"reflect"
	"strings"
)

// Reserved binding fields for the automatic flags. A leading dot keeps them
// from ever colliding with a Go field identifier.
const (
	helpDest    = ".help"
	versionDest = ".version"
)

// Command is one node of a compiled schema tree. It exclusively owns its
// argument specs and child Commands; Groups and MutexGroups are owned by the
// declaring schema and only referenced from member specs. A Command is
// immutable after compilation and safe to share across repeated parses.
type Command struct {
	name    string
	aliases []string
	about   string
	version string
	prefix  []string

	configType reflect.Type // the Config struct type, pointer stripped
	specs      []*argSpec
	byField    map[string]*argSpec
	registry   *groupRegistry

	slotField    string
	slotRequired bool
	slotType     reflect.Type

	children     map[string]*Command
	childOrder   []string
	childAliases map[string]string

	usage string
}

// Name returns the command's name.
func (c *Command) Name() string { return c.name }

// Aliases returns the command's alternative names.
func (c *Command) Aliases() []string { return append([]string(nil), c.aliases...) }

// About returns the command's one-line description.
func (c *Command) About() string { return c.about }

// Version returns the root schema's version text, if any.
func (c *Command) Version() string { return c.version }

// Prefix returns the namespace path segments leading to this command; the
// root has none.
func (c *Command) Prefix() []string { return append([]string(nil), c.prefix...) }

// Usage returns the generated single-line usage text.
func (c *Command) Usage() string { return c.usage }

// Subcommands returns the child commands in declaration order.
func (c *Command) Subcommands() []*Command {
	out := make([]*Command, 0, len(c.childOrder))
	for _, name := range c.childOrder {
		out = append(out, c.children[name])
	}
	return out
}

// fullName joins the namespace prefix and the command's own name.
func (c *Command) fullName() string {
	return strings.Join(append(c.Prefix(), c.name), " ")
}

// resolveChild maps a subcommand name or alias to the child command.
func (c *Command) resolveChild(name string) *Command {
	if child, ok := c.children[name]; ok {
		return child
	}
	if canonical, ok := c.childAliases[name]; ok {
		return c.children[canonical]
	}
	return nil
}

// positionals returns the positional specs in declaration order.
func (c *Command) positionals() []*argSpec {
	var out []*argSpec
	for _, spec := range c.specs {
		if spec.positional {
			out = append(out, spec)
		}
	}
	return out
}

// Compile turns a schema into an immutable Command tree. It never returns a
// partial tree: the first structural problem aborts compilation.
func Compile(schema *Schema) (*Command, error) {
	return compileCommand(schema, nil, true)
}

// MustCompile compiles the schema and panics on a SchemaError.
func MustCompile(schema *Schema) *Command {
	cmd, err := Compile(schema)
	if err != nil {
		panic(err)
	}
	return cmd
}

func compileCommand(schema *Schema, prefix []string, root bool) (*Command, error) {
	if schema.Name == "" {
		return nil, &SchemaError{Cause: ErrInvalidSchema, Detail: "empty command name"}
	}
	ct := reflect.TypeOf(schema.Config)
	if ct == nil || ct.Kind() != reflect.Ptr || ct.Elem().Kind() != reflect.Struct {
		return nil, &SchemaError{Cause: ErrInvalidSchema, Command: schema.Name, Detail: "Config must be a pointer to a struct"}
	}
	proto := reflect.ValueOf(schema.Config).Elem()

	cmd := &Command{
		name:         schema.Name,
		aliases:      append([]string(nil), schema.Aliases...),
		about:        schema.About,
		prefix:       append([]string(nil), prefix...),
		configType:   ct.Elem(),
		byField:      map[string]*argSpec{},
		registry:     newGroupRegistry(),
		children:     map[string]*Command{},
		childAliases: map[string]string{},
	}
	if root {
		cmd.version = schema.Version
	}

	for name := range schema.Args {
		if sf, ok := cmd.configType.FieldByName(name); !ok || !sf.IsExported() {
			return nil, &SchemaError{Cause: ErrInvalidSchema, Command: schema.Name, Field: name, Detail: "Args refers to a field the Config struct does not export"}
		}
	}

	flagsSeen := map[string]string{}
	for i := 0; i < cmd.configType.NumField(); i++ {
		sf := cmd.configType.Field(i)
		if !sf.IsExported() {
			continue
		}
		arg := schema.Args[sf.Name].clone()

		k, optional, err := classifyType(sf.Type, arg)
		if err != nil {
			return nil, &SchemaError{Cause: err, Command: schema.Name, Field: sf.Name, Type: sf.Type.String()}
		}

		if slot, ok := k.(kindSlot); ok {
			if err := cmd.configureSlot(slot, sf, optional); err != nil {
				return nil, err
			}
			continue
		}

		spec, err := buildArgSpec(schema.Name, sf, i, k, optional, arg, proto.Field(i))
		if err != nil {
			return nil, err
		}
		for _, flag := range spec.flags() {
			if other, dup := flagsSeen[flag]; dup {
				return nil, &SchemaError{Cause: ErrInvalidSchema, Command: schema.Name, Field: sf.Name, Detail: fmt.Sprintf("flag '%s' is already used by field '%s'", flag, other)}
			}
			flagsSeen[flag] = sf.Name
		}
		if err := cmd.registry.file(spec); err != nil {
			return nil, &SchemaError{Cause: err, Command: schema.Name, Field: sf.Name}
		}
		cmd.addSpec(spec)
	}

	if !schema.DisableHelp {
		for _, flag := range []string{"-h", "--help"} {
			if other, dup := flagsSeen[flag]; dup {
				return nil, &SchemaError{Cause: ErrInvalidSchema, Command: schema.Name, Field: other, Detail: fmt.Sprintf("flag '%s' is reserved for help; set DisableHelp to reclaim it", flag)}
			}
		}
		cmd.addSpec(&argSpec{
			field:      helpDest,
			fieldIndex: -1,
			short:      "-h",
			long:       "--help",
			action:     ActionHelp,
			arity:      Exactly(0),
			about:      "Print help",
		})
	}
	if root && schema.Version != "" {
		for _, flag := range []string{"-V", "--version"} {
			if other, dup := flagsSeen[flag]; dup {
				return nil, &SchemaError{Cause: ErrInvalidSchema, Command: schema.Name, Field: other, Detail: fmt.Sprintf("flag '%s' is reserved for version", flag)}
			}
		}
		cmd.addSpec(&argSpec{
			field:      versionDest,
			fieldIndex: -1,
			short:      "-V",
			long:       "--version",
			action:     ActionVersion,
			arity:      Exactly(0),
			about:      "Print version",
		})
	}

	if err := cmd.registry.validate(); err != nil {
		return nil, &SchemaError{Cause: err, Command: schema.Name}
	}

	cmd.usage = cmd.generateUsage()
	return cmd, nil
}

func (c *Command) addSpec(spec *argSpec) {
	c.specs = append(c.specs, spec)
	c.byField[spec.field] = spec
}

// configureSlot records the subcommand slot and compiles every candidate
// schema into a child command.
func (c *Command) configureSlot(slot kindSlot, sf reflect.StructField, optional bool) error {
	if c.slotField != "" {
		return &SchemaError{Cause: ErrDuplicateSubcommandSlot, Command: c.name, Field: sf.Name, Detail: fmt.Sprintf("'%s' is already the subcommand slot", c.slotField)}
	}
	c.slotField = sf.Name
	c.slotRequired = !optional
	c.slotType = sf.Type

	childPrefix := append(c.Prefix(), c.name)
	for _, sub := range slot.schemas {
		child, err := compileCommand(sub, childPrefix, false)
		if err != nil {
			return err
		}
		if _, dup := c.children[child.name]; dup {
			return &SchemaError{Cause: ErrInvalidSchema, Command: c.name, Field: sf.Name, Detail: fmt.Sprintf("duplicate subcommand name '%s'", child.name)}
		}
		c.children[child.name] = child
		c.childOrder = append(c.childOrder, child.name)
		for _, alias := range child.aliases {
			if _, dup := c.children[alias]; dup {
				return &SchemaError{Cause: ErrInvalidSchema, Command: c.name, Field: sf.Name, Detail: fmt.Sprintf("alias '%s' collides with a subcommand name", alias)}
			}
			if _, dup := c.childAliases[alias]; dup {
				return &SchemaError{Cause: ErrInvalidSchema, Command: c.name, Field: sf.Name, Detail: fmt.Sprintf("duplicate subcommand alias '%s'", alias)}
			}
			c.childAliases[alias] = child.name
		}
	}
	return nil
}

// generateUsage assembles the single-line usage text for this node.
func (c *Command) generateUsage() string {
	var b strings.Builder
	b.WriteString(c.fullName())

	hasOptions := false
	for _, spec := range c.specs {
		if !spec.positional && !spec.required && spec.mutex == nil {
			hasOptions = true
			break
		}
	}
	if hasOptions {
		b.WriteString(" [OPTIONS]")
	}
	for _, spec := range c.specs {
		if spec.required && !spec.positional && spec.mutex == nil {
			b.WriteString(" " + spec.displayFlag())
			if spec.valueName != "" {
				b.WriteString(" " + spec.valueName)
			}
		}
	}
	for _, p := range c.registry.mutexes {
		var alts []string
		for _, spec := range p.specs {
			alt := spec.displayFlag()
			if spec.valueName != "" {
				alt += " " + spec.valueName
			}
			alts = append(alts, alt)
		}
		if p.mutex.Required {
			b.WriteString(" <" + strings.Join(alts, " | ") + ">")
		} else {
			b.WriteString(" [" + strings.Join(alts, " | ") + "]")
		}
	}
	for _, spec := range c.positionals() {
		b.WriteString(" " + spec.valueName)
	}
	if c.slotField != "" {
		if c.slotRequired {
			b.WriteString(" <COMMAND>")
		} else {
			b.WriteString(" [COMMAND]")
		}
	}
	return b.String()
}
