// Package display renders usage text, version lines and error reports for
// registries built with the core package.
package display

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"github.com/chriso345/argot/core"
)

var (
	headingColor = color.New(color.Bold, color.Underline)
	nameColor    = color.New(color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	hintColor    = color.New(color.FgYellow)
)

// paint colours s unless colour is switched off. fatih/color also drops the
// escape codes by itself when stdout is not a terminal.
func paint(c *color.Color, on bool, s string) string {
	if !on {
		return s
	}
	return c.Sprint(s)
}

// BuildHelp generates the usage text for a CLI tool defined by the given
// struct pointer.
func BuildHelp(target any) (string, error) {
	r, err := core.FromStruct(target)
	if err != nil {
		return "", err
	}
	return Usage(r), nil
}

// Usage renders the usage text of r: the usage line, the description, and
// the sub-command, argument, option and constraint sections that apply.
func Usage(r *core.Registry) string {
	on := r.Config().Color

	var builder strings.Builder
	builder.WriteString(paint(headingColor, on, "Usage:") + " ")
	builder.WriteString(paint(nameColor, on, core.UsageLine(r)) + "\n")

	if desc := r.Description(); desc != "" {
		builder.WriteString("\n" + desc + "\n")
	}

	if cmds := visible(r.Commands()); len(cmds) > 0 {
		builder.WriteString("\n" + paint(headingColor, on, "Subcommands:") + "\n")
		builder.WriteString(subcommandsHelp(cmds))
	}

	if args := visible(r.PositionalSlots()); len(args) > 0 {
		builder.WriteString("\n" + paint(headingColor, on, "Arguments:") + "\n")
		builder.WriteString(argsHelp(args))
	}

	if opts := visible(r.Options()); len(opts) > 0 {
		builder.WriteString("\n" + paint(headingColor, on, "Options:") + "\n")
		builder.WriteString(optionsHelp(opts))
	}

	if cons := r.ConstraintDescriptions(); len(cons) > 0 {
		builder.WriteString("\n" + paint(headingColor, on, "Constraints:") + "\n")
		for _, c := range cons {
			builder.WriteString("  " + c + "\n")
		}
	}

	return builder.String()
}

// === HELPERS ===

func visible(defs []*core.Definition) []*core.Definition {
	return lo.Filter(defs, func(d *core.Definition, _ int) bool { return !d.Hidden() })
}

// argsHelp generates help rows for positional arguments.
func argsHelp(args []*core.Definition) string {
	rows := lo.Map(args, func(d *core.Definition, _ int) table.Row {
		name := strings.ToUpper(d.Name())
		if d.Cardinality().IsUnbounded() {
			name += "..."
		}
		return table.Row{"[" + name + "]", details(d)}
	})
	return renderRows(rows)
}

// optionsHelp generates help rows for keyed arguments. The members of a
// group follow their introducing key, indented.
func optionsHelp(opts []*core.Definition) string {
	var rows []table.Row
	var add func(defs []*core.Definition, indent string)
	add = func(defs []*core.Definition, indent string) {
		for _, d := range defs {
			flag := indent + strings.Join(d.Keys(), ", ")
			if ph := d.Placeholder(); ph != "" {
				flag += " " + ph
			}
			rows = append(rows, table.Row{flag, details(d)})
			if sub := d.SubRegistry(); sub != nil {
				add(visible(sub.Options()), indent+"  ")
			}
		}
	}
	add(opts, "")
	return renderRows(rows)
}

// details joins the usage text with the annotations a reader needs.
func details(d *core.Definition) string {
	parts := []string{}
	if u := d.Usage(); u != "" {
		parts = append(parts, u)
	}
	switch {
	case d.Mandatory():
		parts = append(parts, "(required)")
	case d.Deprecated():
		parts = append(parts, "(deprecated)")
	case d.ReplacedBy() != "":
		parts = append(parts, "(replaced by "+d.ReplacedBy()+")")
	}
	if d.ShowDefault() && d.DefaultText() != "" {
		parts = append(parts, fmt.Sprintf("(default: %s)", d.DefaultText()))
	}
	if checks := d.CheckDescriptions(); len(checks) > 0 {
		parts = append(parts, "("+strings.Join(checks, ", ")+")")
	}
	if fs := d.FormatterDescriptions(); len(fs) > 0 {
		parts = append(parts, "["+strings.Join(fs, ", ")+"]")
	}
	if d.Inverts() {
		parts = append(parts, "(negatable with !)")
	}
	for _, c := range d.ConstraintDescriptions() {
		parts = append(parts, "("+c+")")
	}
	return strings.Join(parts, " ")
}

// renderRows lays rows out as two borderless aligned columns.
func renderRows(rows []table.Row) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleDefault)
	style := t.Style()
	style.Options.DrawBorder = false
	style.Options.SeparateColumns = false
	style.Options.SeparateHeader = false
	style.Options.SeparateRows = false
	style.Box.PaddingLeft = "  "
	style.Box.PaddingRight = ""
	t.AppendRows(rows)

	lines := strings.Split(t.Render(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n") + "\n"
}
