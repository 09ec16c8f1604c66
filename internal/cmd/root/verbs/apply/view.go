package apply

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	cmdpkg "github.com/havenhq/havenctl/internal/cmd"
	cmdCommon "github.com/havenhq/havenctl/internal/cmd/common"
	"github.com/havenhq/havenctl/internal/cmd/listing"
	"github.com/havenhq/havenctl/internal/portfolio/views"
	"github.com/havenhq/havenctl/internal/util/i18n"
)

var applyViewShort = i18n.T("root.verbs.apply.viewShort",
	"Make a saved view the active listing configuration")

func newApplyViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "view <name-or-id>",
		Short:   applyViewShort,
		Aliases: []string{"views"},
		Args:    cobra.ExactArgs(1),
		RunE:    runApplyView,
	}
}

func runApplyView(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)

	mgr, _, err := listing.OpenViews(helper)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	v, ok := mgr.Find(args[0])
	if !ok {
		return cmdpkg.PrepareExecutionErrorMsg(helper,
			fmt.Sprintf("no view matching %q", args[0]))
	}
	if err := mgr.Apply(v.ID); err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	cfg.SetString(cmdCommon.ActiveViewConfigPath, v.ID)
	if err := cfg.Save(); err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	printAppliedView(helper.GetStreams().Out, v)
	return nil
}

func printAppliedView(out io.Writer, v views.SavedView) {
	fmt.Fprintf(out, "applied view %q (%s)\n", v.Name, v.ID)
	if len(v.State.Conditions) > 0 {
		fmt.Fprintf(out, "  filters: %d\n", len(v.State.Conditions))
	}
	if v.State.GroupBy != "" {
		fmt.Fprintf(out, "  group by: %s\n", v.State.GroupBy)
	}
	if v.State.Sort.ColumnID != "" {
		fmt.Fprintf(out, "  sort: %s:%s\n", v.State.Sort.ColumnID, v.State.Sort.Direction)
	}
}
