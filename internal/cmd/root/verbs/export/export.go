package export

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
	Verb = verbs.Export
)

var (
	exportUse = Verb.String()

	exportShort = i18n.T("root.verbs.export.exportShort",
		"Export portfolio data to a file")

	exportLong = normalizers.LongDesc(i18n.T("root.verbs.export.exportLong",
		`Use export to write the filtered listing, or an explicit selection,
to a csv, tsv, json, or print-ready html file.`))

	exportExamples = normalizers.Examples(i18n.T("root.verbs.export.exportExamples",
		fmt.Sprintf(`
		# Export the active view as csv
		%[1]s export properties
		# Export two specific properties as a print-ready page
		%[1]s export properties --ids prop-1,prop-2 --format print --out report.html
		`, meta.CLIName)))
)

func NewExportCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     exportUse,
		Short:   exportShort,
		Long:    exportLong,
		Example: exportExamples,
		Aliases: []string{"e"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cmd.AddCommand(newExportPropertiesCmd())

	return cmd, nil
}
