package apply

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
	Verb = verbs.Apply
)

var (
	applyUse = Verb.String()

	applyShort = i18n.T("root.verbs.apply.applyShort", "Activate a saved object")

	applyLong = normalizers.LongDesc(i18n.T("root.verbs.apply.applyLong",
		`Use apply to activate a saved view. The view becomes the default
listing configuration for subsequent commands.`))

	applyExamples = normalizers.Examples(i18n.T("root.verbs.apply.applyExamples",
		fmt.Sprintf(`
		# Make the built-in void listing the active view
		%[1]s apply view "Void Units"
		`, meta.CLIName)))
)

func NewApplyCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     applyUse,
		Short:   applyShort,
		Long:    applyLong,
		Example: applyExamples,
		Aliases: []string{"a"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cmd.AddCommand(newApplyViewCmd())

	return cmd, nil
}
