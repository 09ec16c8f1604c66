package bulk

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	cmdpkg "github.com/havenhq/havenctl/internal/cmd"
	cmdCommon "github.com/havenhq/havenctl/internal/cmd/common"
	"github.com/havenhq/havenctl/internal/cmd/root/verbs"
	"github.com/havenhq/havenctl/internal/meta"
	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/columns"
	"github.com/havenhq/havenctl/internal/portfolio/export"
	"github.com/havenhq/havenctl/internal/portfolio/selection"
	"github.com/havenhq/havenctl/internal/util/i18n"
	"github.com/havenhq/havenctl/internal/util/normalizers"
)

const (
	Verb = verbs.Bulk
)

var (
	bulkShort = i18n.T("root.verbs.bulk.bulkShort",
		"Run an action over a selection of properties")

	bulkLong = normalizers.LongDesc(i18n.T("root.verbs.bulk.bulkLong",
		`Use bulk to run one action (export, tag, assign, archive, delete)
over a set of properties named by --ids. Unit ids resolve to their
parent property. Delete prompts for confirmation unless --yes is given.`))

	bulkExamples = normalizers.Examples(i18n.T("root.verbs.bulk.bulkExamples",
		fmt.Sprintf(`
		# Tag two properties for the winter maintenance round
		%[1]s bulk tag --ids prop-1,prop-2 --tag winter-maintenance
		# Reassign properties to a housing manager
		%[1]s bulk assign --ids prop-1,prop-2 --to "Priya Shah"
		# Delete properties (their units go with them)
		%[1]s bulk delete --ids prop-9 --yes
		`, meta.CLIName)))
)

type bulkCmd struct {
	*cobra.Command
	ids         []string
	autoApprove bool
	tag         string
	assignee    string
	format      string
	out         string
}

func NewBulkCmd() (*cobra.Command, error) {
	rv := &bulkCmd{
		Command: &cobra.Command{
			Use:       "bulk <action>",
			Short:     bulkShort,
			Long:      bulkLong,
			Example:   bulkExamples,
			Aliases:   []string{"b"},
			Args:      cobra.ExactArgs(1),
			ValidArgs: actionNames(),
			PersistentPreRun: func(cmd *cobra.Command, _ []string) {
				cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
			},
		},
	}
	rv.PreRun = func(cobraCmd *cobra.Command, _ []string) {
		cmdpkg.SetAutoApprove(cobraCmd, rv.autoApprove)
	}
	rv.RunE = rv.runE

	rv.Flags().StringSliceVar(&rv.ids, "ids", nil,
		"Property or unit ids to act on (units resolve to their parent)")
	rv.Flags().BoolVar(&rv.autoApprove, "yes", false,
		"Skip the confirmation prompt on destructive actions")
	rv.Flags().StringVar(&rv.tag, "tag", "",
		"Tag to add (tag action)")
	rv.Flags().StringVar(&rv.assignee, "to", "",
		"Housing manager to assign (assign action)")
	rv.Flags().StringVar(&rv.format, "format", "csv",
		"Export format (export action)")
	rv.Flags().StringVar(&rv.out, "out", "",
		"Export file path (export action)")

	return rv.Command, nil
}

func actionNames() []string {
	return []string{
		string(selection.ActionExport),
		string(selection.ActionTag),
		string(selection.ActionAssign),
		string(selection.ActionArchive),
		string(selection.ActionDelete),
	}
}

func (c *bulkCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)

	action, ok := selection.ParseAction(args[0])
	if !ok {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("unknown bulk action %q (one of %s)",
				args[0], strings.Join(actionNames(), ", ")),
		}
	}

	col, err := helper.GetPortfolio()
	if err != nil {
		return err
	}

	sel := selection.NewSet(col)
	for _, id := range c.ids {
		if !sel.Select(id) {
			return cmdpkg.PrepareExecutionErrorMsg(helper,
				fmt.Sprintf("no property with id %q", id))
		}
	}

	confirmed := true
	if action.Destructive() {
		if err := cmdpkg.ConfirmDestructive(helper,
			fmt.Sprintf("delete %d properties and their units", sel.Len())); err != nil {
			return err
		}
	}

	d := selection.NewDispatcher()
	d.Register(selection.ActionExport, c.exportHandler(helper))
	d.Register(selection.ActionTag, c.tagHandler(helper, col))
	d.Register(selection.ActionAssign, c.assignHandler(helper, col))
	d.Register(selection.ActionArchive, c.archiveHandler(helper, col))
	d.Register(selection.ActionDelete, c.deleteHandler(helper, col))

	if err := d.Dispatch(action, sel, confirmed); err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}
	return nil
}

func (c *bulkCmd) exportHandler(helper cmdpkg.Helper) selection.Handler {
	return func(assets []*portfolio.PropertyAsset) error {
		format, err := export.ParseFormat(c.format)
		if err != nil {
			return err
		}
		path := c.out
		if path == "" {
			path = export.DefaultFilename(format, time.Now())
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.Write(f, format, export.Request{
			Assets:  assets,
			Columns: columns.DefaultVisible(),
			Title:   "Property Portfolio",
		}); err != nil {
			return err
		}
		fmt.Fprintf(helper.GetStreams().Out, "exported %d properties to %s\n",
			len(assets), path)
		return nil
	}
}

func (c *bulkCmd) tagHandler(helper cmdpkg.Helper, col *portfolio.Collection) selection.Handler {
	return func(assets []*portfolio.PropertyAsset) error {
		if strings.TrimSpace(c.tag) == "" {
			return fmt.Errorf("the tag action requires --tag")
		}
		for _, a := range assets {
			a.AddTag(c.tag)
		}
		if err := c.save(helper, col); err != nil {
			return err
		}
		fmt.Fprintf(helper.GetStreams().Out, "tagged %d properties with %q\n",
			len(assets), c.tag)
		return nil
	}
}

func (c *bulkCmd) assignHandler(helper cmdpkg.Helper, col *portfolio.Collection) selection.Handler {
	return func(assets []*portfolio.PropertyAsset) error {
		if strings.TrimSpace(c.assignee) == "" {
			return fmt.Errorf("the assign action requires --to")
		}
		for _, a := range assets {
			a.HousingManager = c.assignee
		}
		if err := c.save(helper, col); err != nil {
			return err
		}
		fmt.Fprintf(helper.GetStreams().Out, "assigned %d properties to %s\n",
			len(assets), c.assignee)
		return nil
	}
}

func (c *bulkCmd) archiveHandler(helper cmdpkg.Helper, col *portfolio.Collection) selection.Handler {
	return func(assets []*portfolio.PropertyAsset) error {
		for _, a := range assets {
			a.Archived = true
		}
		if err := c.save(helper, col); err != nil {
			return err
		}
		fmt.Fprintf(helper.GetStreams().Out, "archived %d properties\n", len(assets))
		return nil
	}
}

func (c *bulkCmd) deleteHandler(helper cmdpkg.Helper, col *portfolio.Collection) selection.Handler {
	return func(assets []*portfolio.PropertyAsset) error {
		removed := 0
		for _, a := range assets {
			removed += col.Remove(a.ID)
		}
		if err := c.save(helper, col); err != nil {
			return err
		}
		fmt.Fprintf(helper.GetStreams().Out, "deleted %d records\n", removed)
		return nil
	}
}

func (c *bulkCmd) save(helper cmdpkg.Helper, col *portfolio.Collection) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	path := strings.TrimSpace(cfg.GetString(cmdCommon.PortfolioConfigPath))
	if path == "" {
		return fmt.Errorf("no portfolio file configured")
	}
	return col.SaveFile(path)
}
