package list

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/havenhq/havenctl/internal/cmd/root/verbs"
	"github.com/havenhq/havenctl/internal/meta"
	"github.com/havenhq/havenctl/internal/util/i18n"
	"github.com/havenhq/havenctl/internal/util/normalizers"
)

const (
	Verb = verbs.List
)

var (
	listUse = Verb.String()

	listShort = i18n.T("root.verbs.list.listShort", "List portfolio objects")

	listLong = normalizers.LongDesc(i18n.T("root.verbs.list.listLong",
		`Use list to retrieve properties or saved views.

The properties listing runs the full pipeline: free-text search, column
filters, sorting, and grouping, seeded from the active saved view.
Output can be formatted in multiple ways to aid in further processing.`))

	listExamples = normalizers.Examples(i18n.T("root.verbs.list.listExamples",
		fmt.Sprintf(`
		# List properties using the active view
		%[1]s list properties
		# List void properties in the North West, highest rent first
		%[1]s list properties --filter status:equals:Void --filter region:equals:"North West" --sort monthlyRent:desc
		# Group by provider
		%[1]s list properties --group-by provider
		# List saved views
		%[1]s list views
		`, meta.CLIName)))
)

func NewListCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     listUse,
		Short:   listShort,
		Long:    listLong,
		Example: listExamples,
		Aliases: []string{"ls", "l"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cmd.AddCommand(newListPropertiesCmd())
	cmd.AddCommand(newListViewsCmd())

	return cmd, nil
}
