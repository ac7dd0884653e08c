package clap

import (
	"fmt"
	"io"
	"strings"
)

// The help printer is a collaborator over the compiled tree: it only reads.

const helpIndent = "    "

// flagColumnText returns the left-column text for one argument.
func flagColumnText(spec *argSpec) string {
	if spec.positional {
		return spec.valueName
	}
	var parts []string
	if spec.short != "" {
		parts = append(parts, spec.short)
	}
	if spec.long != "" {
		parts = append(parts, spec.long)
	}
	text := strings.Join(parts, ", ")
	if spec.valueName != "" {
		text += " " + spec.valueName
	}
	return text
}

// effectiveGroup returns the display group an argument belongs to, following
// a mutex to its parent group when the argument declares no group itself.
func effectiveGroup(spec *argSpec) *Group {
	if spec.group != nil {
		return spec.group
	}
	if spec.mutex != nil {
		return spec.mutex.Parent
	}
	return nil
}

// PrintUsageLine writes the single-line usage text, wrapped to width.
func (c *Command) PrintUsageLine(w io.Writer, width int) error {
	ww, err := newWrapWriter(width)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(ww, "Usage: ")
	_ = ww.SetPrefix(helpIndent)
	_, _ = fmt.Fprintln(ww, c.usage)
	_, err = io.WriteString(w, ww.String())
	return err
}

// PrintHelp writes a plain-text help screen for the command, wrapped to
// width: name and description, usage, arguments by display group, and
// subcommands.
func (c *Command) PrintHelp(w io.Writer, width int) error {
	ww, err := newWrapWriter(width)
	if err != nil {
		return err
	}

	if c.about != "" {
		_, _ = fmt.Fprint(ww, c.fullName(), ": ")
		_ = ww.SetPrefix(helpIndent)
		_, _ = fmt.Fprintln(ww, c.about)
		_ = ww.SetPrefix("")
	} else {
		_, _ = fmt.Fprintln(ww, c.fullName())
	}
	_, _ = fmt.Fprintln(ww)

	_, _ = fmt.Fprintln(ww, "Usage:")
	_ = ww.SetPrefix(helpIndent)
	_, _ = fmt.Fprintln(ww, c.usage)
	_ = ww.SetPrefix("")
	_, _ = fmt.Fprintln(ww)

	positionals := c.positionals()
	if len(positionals) > 0 {
		_, _ = fmt.Fprintln(ww, "Arguments:")
		c.printSpecs(ww, positionals)
		_, _ = fmt.Fprintln(ww)
	}

	var ungrouped []*argSpec
	for _, spec := range c.specs {
		if !spec.positional && effectiveGroup(spec) == nil {
			ungrouped = append(ungrouped, spec)
		}
	}
	if len(ungrouped) > 0 {
		_, _ = fmt.Fprintln(ww, "Flags:")
		c.printSpecs(ww, ungrouped)
		_, _ = fmt.Fprintln(ww)
	}

	for _, p := range c.registry.groups {
		var members []*argSpec
		for _, spec := range c.specs {
			if effectiveGroup(spec) == p.group {
				members = append(members, spec)
			}
		}
		if len(members) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(ww, "%s:\n", p.group.Title)
		if p.group.Description != "" {
			_ = ww.SetPrefix(helpIndent)
			_, _ = fmt.Fprintln(ww, p.group.Description)
			_ = ww.SetPrefix("")
		}
		c.printSpecs(ww, members)
		_, _ = fmt.Fprintln(ww)
	}

	if len(c.childOrder) > 0 {
		_, _ = fmt.Fprintln(ww, "Commands:")
		longest := 0
		for _, name := range c.childOrder {
			if len(name) > longest {
				longest = len(name)
			}
		}
		descCol := longest + (10 - longest%10)
		for _, name := range c.childOrder {
			child := c.children[name]
			_ = ww.SetPrefix(helpIndent)
			_, _ = fmt.Fprint(ww, name)
			_, _ = fmt.Fprint(ww, strings.Repeat(" ", descCol-len(name)))
			_ = ww.SetPrefix(helpIndent + strings.Repeat(" ", descCol))
			_, _ = fmt.Fprintln(ww, child.about)
		}
		_ = ww.SetPrefix("")
		_, _ = fmt.Fprintln(ww)
	}

	_, err = io.WriteString(w, ww.String())
	return err
}

// printSpecs renders one section of arguments in two columns.
func (c *Command) printSpecs(ww *wrapWriter, specs []*argSpec) {
	colWidth := 0
	for _, spec := range specs {
		if l := len(flagColumnText(spec)); l > colWidth {
			colWidth = l
		}
	}
	descCol := colWidth + (10 - colWidth%10)

	for _, spec := range specs {
		text := flagColumnText(spec)
		_ = ww.SetPrefix(helpIndent)
		_, _ = fmt.Fprint(ww, text)
		_, _ = fmt.Fprint(ww, strings.Repeat(" ", descCol-len(text)))
		_ = ww.SetPrefix(helpIndent + strings.Repeat(" ", descCol))

		var notes []string
		if spec.required && !spec.positional {
			notes = append(notes, "required")
		}
		if len(spec.choices) > 0 {
			notes = append(notes, "one of: "+strings.Join(spec.choices, ", "))
		}
		if def, ok := spec.def.(string); ok && def != "" {
			notes = append(notes, "default: "+def)
		} else if spec.def != nil && spec.action == ActionSet {
			notes = append(notes, fmt.Sprintf("default: %v", spec.def))
		}

		_, _ = fmt.Fprint(ww, spec.about)
		if len(notes) > 0 {
			if spec.about != "" {
				_, _ = fmt.Fprint(ww, " ")
			}
			_, _ = fmt.Fprintf(ww, "(%s)", strings.Join(notes, ", "))
		}
		_, _ = fmt.Fprintln(ww)
	}
	_ = ww.SetPrefix("")
}
