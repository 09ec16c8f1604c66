package get

import (
	"fmt"
	"strings"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	cmdpkg "github.com/havenhq/havenctl/internal/cmd"
	cmdCommon "github.com/havenhq/havenctl/internal/cmd/common"
	jqoutput "github.com/havenhq/havenctl/internal/cmd/output/jq"
	"github.com/havenhq/havenctl/internal/cmd/output/tableview"
	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/columns"
	"github.com/havenhq/havenctl/internal/util/i18n"
)

var getPropertyShort = i18n.T("root.verbs.get.propertyShort",
	"Show one property and its units")

// propertyDetail is the raw payload for a single property.
type propertyDetail struct {
	Property *portfolio.PropertyAsset   `json:"property"`
	Units    []*portfolio.PropertyAsset `json:"units,omitempty"`
}

func newGetPropertyCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     "property <id>",
		Short:   getPropertyShort,
		Aliases: []string{"properties", "prop"},
		Args:    cobra.ExactArgs(1),
		RunE:    runGetProperty,
	}
	jqoutput.AddFlags(rv.Flags())
	return rv
}

func runGetProperty(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)

	col, err := helper.GetPortfolio()
	if err != nil {
		return err
	}

	id := strings.TrimSpace(args[0])
	asset, ok := col.Lookup(id)
	if !ok {
		return cmdpkg.PrepareExecutionErrorMsg(helper, fmt.Sprintf("no property with id %q", id))
	}

	detail := propertyDetail{Property: asset}
	if asset.IsMaster() {
		detail.Units = col.UnitsOf(asset.ID)
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

	if outType == cmdCommon.TEXT {
		return printPropertyText(helper, detail)
	}
	return tableview.RenderForFormat(helper, false, outType, printer,
		helper.GetStreams(), nil, detail, detail)
}

func printPropertyText(helper cmdpkg.Helper, detail propertyDetail) error {
	out := helper.GetStreams().Out
	a := detail.Property

	fmt.Fprintf(out, "%s (%s)\n", a.Address, a.ID)
	for _, c := range columns.All() {
		if c.ID == "address" {
			continue
		}
		if v := c.Accessor(a); v != nil {
			if s := fmt.Sprintf("%v", v); s != "" && s != "0" && s != "<nil>" {
				fmt.Fprintf(out, "  %-18s %v\n", c.Label+":", v)
			}
		}
	}

	if len(detail.Units) > 0 {
		fmt.Fprintf(out, "  Units (%d):\n", len(detail.Units))
		for _, u := range detail.Units {
			status := u.Status
			if status == "" {
				status = "unknown"
			}
			fmt.Fprintf(out, "    %s  %s  [%s]\n", u.ID, u.Address, status)
		}
	}
	return nil
}
