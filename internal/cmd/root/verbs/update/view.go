package update

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdpkg "github.com/havenhq/havenctl/internal/cmd"
	"github.com/havenhq/havenctl/internal/cmd/listing"
	"github.com/havenhq/havenctl/internal/portfolio/views"
	"github.com/havenhq/havenctl/internal/util/i18n"
)

var updateViewShort = i18n.T("root.verbs.update.viewShort",
	"Overwrite or rename a saved view")

type updateViewCmd struct {
	*cobra.Command
	flags       listing.Flags
	rename      string
	pin         bool
	unpin       bool
	makeDefault bool
}

func newUpdateViewCmd() *cobra.Command {
	rv := &updateViewCmd{
		Command: &cobra.Command{
			Use:     "view <name-or-id>",
			Short:   updateViewShort,
			Aliases: []string{"views"},
			Args:    cobra.ExactArgs(1),
		},
	}
	rv.RunE = rv.runE
	rv.flags.Register(rv.Command)
	rv.Flags().StringVar(&rv.rename, "rename", "", "New name for the view")
	rv.Flags().BoolVar(&rv.pin, "pin", false, "Pin the view")
	rv.Flags().BoolVar(&rv.unpin, "unpin", false, "Unpin the view")
	rv.Flags().BoolVar(&rv.makeDefault, "default", false,
		"Make this the fallback view applied when the active view is deleted")
	return rv.Command
}

func (c *updateViewCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)

	mgr, store, err := listing.OpenViews(helper)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	ref := args[0]

	if c.pin || c.unpin || c.makeDefault {
		return c.runMetadata(helper, mgr, store, ref)
	}

	if c.rename != "" {
		v, err := mgr.Rename(ref, c.rename)
		if err != nil {
			return &cmdpkg.ConfigurationError{Err: err}
		}
		if err := store.Save(mgr.CustomViews(), mgr.BuiltInFlagOverrides()); err != nil {
			return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
		}
		fmt.Fprintf(helper.GetStreams().Out, "renamed view %s to %q\n", v.ID, v.Name)
		return nil
	}

	// Seed the working state from the target view so unset flags keep
	// its existing configuration, then overlay the listing flags.
	if err := mgr.Apply(ref); err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}
	if _, err := c.flags.Resolve(mgr); err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}

	v, err := mgr.Update(ref)
	if err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}

	if err := store.Save(mgr.CustomViews(), mgr.BuiltInFlagOverrides()); err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	fmt.Fprintf(helper.GetStreams().Out, "updated view %q (%s)\n", v.Name, v.ID)
	return nil
}

func (c *updateViewCmd) runMetadata(
	helper cmdpkg.Helper, mgr *views.Manager, store *views.Store, ref string,
) error {
	if c.pin && c.unpin {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--pin and --unpin are mutually exclusive"),
		}
	}

	var v views.SavedView
	var err error
	if c.pin || c.unpin {
		v, err = mgr.Pin(ref, c.pin)
		if err != nil {
			return &cmdpkg.ConfigurationError{Err: err}
		}
	}
	if c.makeDefault {
		v, err = mgr.SetDefault(ref)
		if err != nil {
			return &cmdpkg.ConfigurationError{Err: err}
		}
	}

	if err := store.Save(mgr.CustomViews(), mgr.BuiltInFlagOverrides()); err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	fmt.Fprintf(helper.GetStreams().Out, "updated view %q (%s)\n", v.Name, v.ID)
	return nil
}
