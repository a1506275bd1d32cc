package core

import (
	"fmt"
	"strings"
)

// plainUsage is the uncoloured usage text used when no renderer is set.
func plainUsage(r *Registry) string {
	var b strings.Builder
	b.WriteString("Usage: " + UsageLine(r) + "\n")
	if r.description != "" {
		b.WriteString("\n" + r.description + "\n")
	}

	if cmds := r.Commands(); len(cmds) > 0 {
		b.WriteString("\nSubcommands:\n")
		for _, c := range cmds {
			if !c.hidden {
				fmt.Fprintf(&b, "  %-20s %s\n", c.name, c.usage)
			}
		}
	}
	if len(r.positionals) > 0 {
		b.WriteString("\nArguments:\n")
		for _, p := range r.positionals {
			if !p.hidden {
				fmt.Fprintf(&b, "  %-20s %s\n", strings.ToUpper(p.name), p.usage)
			}
		}
	}
	if opts := r.Options(); len(opts) > 0 {
		b.WriteString("\nOptions:\n")
		for _, d := range opts {
			if d.hidden {
				continue
			}
			keys := strings.Join(d.Keys(), ", ")
			if ph := d.Placeholder(); ph != "" {
				keys += " " + ph
			}
			fmt.Fprintf(&b, "  %-20s %s\n", keys, d.usage)
		}
	}
	return b.String()
}

// UsageLine renders "prog [OPTIONS] <COMMAND> NAME..." for r.
func UsageLine(r *Registry) string {
	parts := []string{r.name}
	if len(r.Options()) > 0 {
		parts = append(parts, "[OPTIONS]")
	}
	if len(r.commands) > 0 {
		parts = append(parts, "<COMMAND>")
	}
	for _, p := range r.positionals {
		name := strings.ToUpper(p.name)
		if p.card.IsUnbounded() {
			name += "..."
		}
		if !p.mandatory {
			name = "[" + name + "]"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " ")
}
