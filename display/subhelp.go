package display

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"github.com/chriso345/argot/core"
	clierr "github.com/chriso345/argot/errors"
	"github.com/chriso345/argot/internal/common"
)

// subcommandsHelp returns formatted subcommand rows.
func subcommandsHelp(cmds []*core.Definition) string {
	rows := lo.Map(cmds, func(d *core.Definition, _ int) table.Row {
		return table.Row{d.Name(), d.Usage()}
	})
	return renderRows(rows)
}

// SubcommandUsage renders the usage of the sub-command reached from r by
// following path (e.g. "remote", "add"). The usage line shows the parent
// names together with the sub-command ("app remote add [OPTIONS]").
func SubcommandUsage(r *core.Registry, path ...string) (string, error) {
	cur := r
	for _, name := range path {
		cmds := cur.Commands()
		match, ok := lo.Find(cmds, func(d *core.Definition) bool { return d.Name() == name })
		if !ok {
			names := lo.Map(cmds, func(d *core.Definition, _ int) string { return d.Name() })
			return "", clierr.NewUnknownArgument(name, common.ClosestMatch(name, names))
		}
		cur = match.SubRegistry()
	}
	return Usage(cur), nil
}
