package create

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdpkg "github.com/havenhq/havenctl/internal/cmd"
	"github.com/havenhq/havenctl/internal/cmd/listing"
	"github.com/havenhq/havenctl/internal/util/i18n"
)

var createViewShort = i18n.T("root.verbs.create.viewShort",
	"Save the current listing configuration as a named view")

type createViewCmd struct {
	*cobra.Command
	flags listing.Flags
}

func newCreateViewCmd() *cobra.Command {
	rv := &createViewCmd{
		Command: &cobra.Command{
			Use:     "view <name>",
			Short:   createViewShort,
			Aliases: []string{"views"},
			Args:    cobra.ExactArgs(1),
		},
	}
	rv.RunE = rv.runE
	rv.flags.Register(rv.Command)
	return rv.Command
}

func (c *createViewCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)

	mgr, store, err := listing.OpenViews(helper)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	if _, err := c.flags.Resolve(mgr); err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}

	v, err := mgr.Create(args[0])
	if err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}

	if err := store.Save(mgr.CustomViews(), mgr.BuiltInFlagOverrides()); err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	fmt.Fprintf(helper.GetStreams().Out, "created view %q (%s)\n", v.Name, v.ID)
	return nil
}
