package list

import (
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	cmdpkg "github.com/havenhq/havenctl/internal/cmd"
	"github.com/havenhq/havenctl/internal/cmd/listing"
	jqoutput "github.com/havenhq/havenctl/internal/cmd/output/jq"
	"github.com/havenhq/havenctl/internal/cmd/output/tableview"
	"github.com/havenhq/havenctl/internal/util/i18n"
)

var listViewsShort = i18n.T("root.verbs.list.viewsShort", "List saved views")

type viewRow struct {
	Name    string `table:"Name"`
	ID      string `table:"ID"`
	BuiltIn string `table:"Built-in"`
	Active  string `table:"Active"`
	Filters int    `table:"Filters"`
	GroupBy string `table:"Group By"`
}

func newListViewsCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     "views",
		Short:   listViewsShort,
		Aliases: []string{"view"},
		Args:    cobra.NoArgs,
		RunE:    runListViews,
	}
	jqoutput.AddFlags(rv.Flags())
	return rv
}

func runListViews(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)

	mgr, _, err := listing.OpenViews(helper)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}

	printer, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer printer.Flush()

	all := mgr.Views()
	rows := make([]viewRow, 0, len(all))
	for _, v := range all {
		rows = append(rows, viewRow{
			Name:    v.Name,
			ID:      v.ID,
			BuiltIn: yesNo(v.BuiltIn),
			Active:  yesNo(v.ID == mgr.ActiveID()),
			Filters: len(v.State.Conditions),
			GroupBy: v.State.GroupBy,
		})
	}

	return tableview.RenderForFormat(helper, false, outType, printer,
		helper.GetStreams(), nil, rows, all)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
