package del

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/havenhq/havenctl/internal/cmd/root/profile"
	"github.com/havenhq/havenctl/internal/cmd/root/verbs"
	"github.com/havenhq/havenctl/internal/meta"
	"github.com/havenhq/havenctl/internal/util/i18n"
	"github.com/havenhq/havenctl/internal/util/normalizers"
)

const (
	Verb = verbs.Delete
)

var (
	deleteUse = Verb.String()

	deleteShort = i18n.T("root.verbs.del.deleteShort", "Delete objects")

	deleteLong = normalizers.LongDesc(i18n.T("root.verbs.del.deleteLong",
		`Use delete to remove saved objects. Deletions prompt for
confirmation unless --yes is given.`))

	deleteExamples = normalizers.Examples(i18n.T("root.verbs.del.deleteExamples",
		fmt.Sprintf(`
		# Delete a saved view by name
		%[1]s delete view "Overdue Inspections"
		# Delete without the confirmation prompt
		%[1]s delete view "Overdue Inspections" --yes
		`, meta.CLIName)))
)

func NewDeleteCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     deleteUse,
		Short:   deleteShort,
		Long:    deleteLong,
		Example: deleteExamples,
		Aliases: []string{"del", "d", "rm"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cmd.AddCommand(newDeleteViewCmd())
	cmd.AddCommand(profile.NewProfileCmd())

	return cmd, nil
}
