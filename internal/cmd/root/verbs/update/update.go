package update

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
	Verb = verbs.Update
)

var (
	updateUse = Verb.String()

	updateShort = i18n.T("root.verbs.update.updateShort", "Update an existing object")

	updateLong = normalizers.LongDesc(i18n.T("root.verbs.update.updateLong",
		`Use update to modify saved objects in place.`))

	updateExamples = normalizers.Examples(i18n.T("root.verbs.update.updateExamples",
		fmt.Sprintf(`
		# Overwrite a saved view with the given listing configuration
		%[1]s update view "Overdue Inspections" --filter nextInspection:isOverdue --group-by provider
		# Rename a saved view
		%[1]s update view "Overdue Inspections" --rename "Inspections Due"
		`, meta.CLIName)))
)

func NewUpdateCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     updateUse,
		Short:   updateShort,
		Long:    updateLong,
		Example: updateExamples,
		Aliases: []string{"u"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cmd.AddCommand(newUpdateViewCmd())

	return cmd, nil
}
