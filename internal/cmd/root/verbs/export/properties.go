package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	cmdpkg "github.com/havenhq/havenctl/internal/cmd"
	"github.com/havenhq/havenctl/internal/cmd/listing"
	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/export"
	"github.com/havenhq/havenctl/internal/portfolio/selection"
	"github.com/havenhq/havenctl/internal/util/i18n"
)

var exportPropertiesShort = i18n.T("root.verbs.export.propertiesShort",
	"Write properties to a csv, tsv, json, or print file")

type exportPropertiesCmd struct {
	*cobra.Command
	flags  listing.Flags
	format string
	out    string
	ids    []string
}

func newExportPropertiesCmd() *cobra.Command {
	rv := &exportPropertiesCmd{
		Command: &cobra.Command{
			Use:     "properties",
			Short:   exportPropertiesShort,
			Aliases: []string{"props", "property"},
			Args:    cobra.NoArgs,
		},
	}
	rv.RunE = rv.runE
	rv.flags.Register(rv.Command)
	rv.Flags().StringVar(&rv.format, "format", "csv",
		"Export format (csv, tsv, json, print)")
	rv.Flags().StringVar(&rv.out, "out", "",
		"Output file path (defaults to properties_<date>.<ext> in the working directory)")
	rv.Flags().StringSliceVar(&rv.ids, "ids", nil,
		"Export only these property ids instead of the filtered listing")
	return rv.Command
}

func (c *exportPropertiesCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)

	format, err := export.ParseFormat(c.format)
	if err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}

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

	now := time.Now()

	var assets []*portfolio.PropertyAsset
	if len(c.ids) > 0 {
		sel := selection.NewSet(col)
		for _, id := range c.ids {
			if !sel.Select(id) {
				return cmdpkg.PrepareExecutionErrorMsg(helper,
					fmt.Sprintf("no property with id %q", id))
			}
		}
		assets = sel.Assets()
	} else {
		assets = listing.Run(col, state, now).Masters
	}

	title := "Property Portfolio"
	if v, ok := mgr.Find(mgr.ActiveID()); ok {
		title = v.Name
	}

	path := c.out
	if path == "" {
		path = export.DefaultFilename(format, now)
	}

	if err := writeExportFile(path, format, export.Request{
		Assets:  assets,
		Columns: state.VisibleColumns,
		Title:   title,
	}); err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	fmt.Fprintf(helper.GetStreams().Out, "exported %d properties to %s\n",
		len(assets), path)
	return nil
}

// writeExportFile writes through a temp file in the target directory so
// a failed export never leaves a truncated artifact behind.
func writeExportFile(path string, format export.Format, req export.Request) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := export.Write(tmp, format, req); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
