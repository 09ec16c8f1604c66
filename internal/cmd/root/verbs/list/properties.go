package list

import (
	"fmt"
	"time"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	cmdpkg "github.com/havenhq/havenctl/internal/cmd"
	"github.com/havenhq/havenctl/internal/cmd/listing"
	jqoutput "github.com/havenhq/havenctl/internal/cmd/output/jq"
	"github.com/havenhq/havenctl/internal/cmd/output/tableview"
	"github.com/havenhq/havenctl/internal/meta"
	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/query"
	"github.com/havenhq/havenctl/internal/util/i18n"
	"github.com/havenhq/havenctl/internal/util/normalizers"
)

var (
	listPropertiesShort = i18n.T("root.verbs.list.propertiesShort",
		"List properties in the portfolio")
	listPropertiesLong = normalizers.LongDesc(i18n.T("root.verbs.list.propertiesLong",
		`List properties after applying the active (or named) saved view and
any listing flags. Interactive text output opens the property browser.`))
	listPropertiesExamples = normalizers.Examples(i18n.T("root.verbs.list.propertiesExamples",
		fmt.Sprintf(`
		# Browse interactively
		%[1]s list properties --interactive
		# Properties with an inspection due in the next 30 days
		%[1]s list properties --filter nextInspection:isDueWithin:30
		# JSON output piped through jq
		%[1]s list properties -o json --jq '.properties[].address'
		`, meta.CLIName)))
)

// propertiesPayload is the raw shape emitted for json and yaml output.
type propertiesPayload struct {
	Stats      query.Stats                `json:"stats"`
	Properties []*portfolio.PropertyAsset `json:"properties"`
}

type listPropertiesCmd struct {
	*cobra.Command
	flags listing.Flags
}

func newListPropertiesCmd() *cobra.Command {
	rv := &listPropertiesCmd{
		Command: &cobra.Command{
			Use:     "properties",
			Short:   listPropertiesShort,
			Long:    listPropertiesLong,
			Example: listPropertiesExamples,
			Aliases: []string{"props", "property"},
			Args:    cobra.NoArgs,
		},
	}
	rv.RunE = rv.runE
	rv.flags.Register(rv.Command)
	jqoutput.AddFlags(rv.Flags())
	return rv.Command
}

func (c *listPropertiesCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)

	col, err := helper.GetPortfolio()
	if err != nil {
		return err
	}

	mgr, _, err := listing.OpenViews(helper)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	state, err := c.flags.Resolve(mgr)
	if err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}

	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	interactive, err := helper.IsInteractive()
	if err != nil {
		return err
	}

	printer, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer printer.Flush()

	res := listing.Run(col, state, time.Now())

	title := "Properties"
	if v, ok := mgr.Find(mgr.ActiveID()); ok {
		title = fmt.Sprintf("Properties · %s", v.Name)
	}

	browser := &tableview.Browser{
		Collection: col,
		Manager:    mgr,
		Title:      title,
	}
	raw := propertiesPayload{Stats: res.Stats, Properties: res.Masters}

	return tableview.RenderForFormat(helper, interactive, outType, printer,
		helper.GetStreams(), browser, nil, raw)
}
