package create

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
	Verb = verbs.Create
)

var (
	createUse = Verb.String()

	createShort = i18n.T("root.verbs.create.createShort", "Create a new object")

	createLong = normalizers.LongDesc(i18n.T("root.verbs.create.createLong",
		`Use create to save new objects, such as named views capturing the
current listing configuration.`))

	createExamples = normalizers.Examples(i18n.T("root.verbs.create.createExamples",
		fmt.Sprintf(`
		# Save the overdue-inspection listing as a view
		%[1]s create view "Overdue Inspections" --filter nextInspection:isOverdue --sort nextInspection:asc
		`, meta.CLIName)))
)

func NewCreateCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     createUse,
		Short:   createShort,
		Long:    createLong,
		Example: createExamples,
		Aliases: []string{"c"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cmd.AddCommand(newCreateViewCmd())
	cmd.AddCommand(profile.NewProfileCmd())

	return cmd, nil
}
