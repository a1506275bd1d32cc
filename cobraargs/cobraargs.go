// Package cobraargs lets a cobra command hand its raw arguments to a
// registry instead of cobra's own flag parsing.
package cobraargs

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chriso345/argot/core"
)

// RunFunc is called after the arguments were bound successfully.
type RunFunc func(cmd *cobra.Command, st *core.State) error

// Command returns a cobra command named after r whose arguments are
// evaluated by r. Help output comes from the registry's usage renderer.
func Command(r *core.Registry, run RunFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:                r.Name(),
		Short:              r.Description(),
		DisableFlagParsing: true,
		SilenceUsage:       true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		st, err := r.Evaluate(append([]string{cmd.Name()}, args...))
		if err != nil {
			return err
		}
		if run == nil {
			return nil
		}
		return run(cmd, st)
	}
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		fmt.Fprint(c.OutOrStdout(), r.Usage())
	})
	return cmd
}

// Mount adds a command for each registry to parent.
func Mount(parent *cobra.Command, run RunFunc, registries ...*core.Registry) {
	for _, r := range registries {
		parent.AddCommand(Command(r, run))
	}
}
