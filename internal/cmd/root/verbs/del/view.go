package del

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdpkg "github.com/havenhq/havenctl/internal/cmd"
	"github.com/havenhq/havenctl/internal/cmd/listing"
	"github.com/havenhq/havenctl/internal/util/i18n"
)

var deleteViewShort = i18n.T("root.verbs.del.viewShort", "Delete a saved view")

func newDeleteViewCmd() *cobra.Command {
	var autoApprove bool

	rv := &cobra.Command{
		Use:     "view <name-or-id>",
		Short:   deleteViewShort,
		Aliases: []string{"views"},
		Args:    cobra.ExactArgs(1),
		PreRun: func(cobraCmd *cobra.Command, _ []string) {
			cmdpkg.SetAutoApprove(cobraCmd, autoApprove)
		},
		RunE: runDeleteView,
	}
	rv.Flags().BoolVar(&autoApprove, "yes", false,
		"Skip the confirmation prompt")
	return rv
}

func runDeleteView(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)

	mgr, store, err := listing.OpenViews(helper)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	v, ok := mgr.Find(args[0])
	if !ok {
		return cmdpkg.PrepareExecutionErrorMsg(helper,
			fmt.Sprintf("no view matching %q", args[0]))
	}

	if err := cmdpkg.ConfirmDestructive(helper,
		fmt.Sprintf("delete view %q", v.Name)); err != nil {
		return err
	}

	if err := mgr.Delete(v.ID); err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}

	if err := store.Save(mgr.CustomViews(), mgr.BuiltInFlagOverrides()); err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	fmt.Fprintf(helper.GetStreams().Out, "deleted view %q (%s)\n", v.Name, v.ID)
	return nil
}
