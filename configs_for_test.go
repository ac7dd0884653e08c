package clap

// Shared schema fixtures for tests.

type color string

const (
	colorRed       color = "red"
	colorGreen     color = "green"
	colorLightBlue color = "light-blue"
)

func (color) EnumMembers() []EnumMember {
	return []EnumMember{
		{Name: "Red", Value: colorRed},
		{Name: "Green", Value: colorGreen},
		{Name: "LightBlue", Value: colorLightBlue},
	}
}

// clashingEnum has two member names that kebab-case to the same choice text.
type clashingEnum int

func (clashingEnum) EnumMembers() []EnumMember {
	return []EnumMember{
		{Name: "FooBar", Value: clashingEnum(0)},
		{Name: "Foo_Bar", Value: clashingEnum(1)},
	}
}

type innerCommand interface {
	isInnerCommand()
}

type addConfig struct {
	X int
}

func (*addConfig) isInnerCommand() {}

type removeConfig struct {
	Y string
}

func (*removeConfig) isInnerCommand() {}

func addSchema() *Schema {
	return &Schema{
		Name:   "A",
		About:  "Add a thing",
		Config: &addConfig{},
	}
}

func removeSchema() *Schema {
	return &Schema{
		Name:    "B",
		Aliases: []string{"rm"},
		About:   "Remove a thing",
		Config:  &removeConfig{},
	}
}

type outerConfig struct {
	Verbose bool
	Inner   innerCommand
}

func outerSchema() *Schema {
	return &Schema{
		Name:   "outer",
		About:  "Outer command",
		Config: &outerConfig{},
		Args: Args{
			"Verbose": NewArg().Short().Long(),
			"Inner":   NewArg().Subcommands(addSchema(), removeSchema()),
		},
	}
}

type greetConfig struct {
	Verbose bool
	Name    string
}

func greetSchema() *Schema {
	return &Schema{
		Name:   "greet",
		About:  "Greet someone",
		Config: &greetConfig{},
		Args: Args{
			"Verbose": NewArg().Short().Long(),
		},
	}
}

type formatConfig struct {
	JSON bool
	YAML bool
}

func formatSchema(mutex *MutexGroup) *Schema {
	return &Schema{
		Name:   "export",
		Config: &formatConfig{},
		Args: Args{
			"JSON": NewArg().Long().Mutex(mutex),
			"YAML": NewArg().Long().Mutex(mutex),
		},
	}
}
