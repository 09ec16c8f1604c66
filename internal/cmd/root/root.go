package root

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	"github.com/havenhq/havenctl/internal/build"
	"github.com/havenhq/havenctl/internal/cmd"
	"github.com/havenhq/havenctl/internal/cmd/common"
	"github.com/havenhq/havenctl/internal/cmd/root/verbs/apply"
	"github.com/havenhq/havenctl/internal/cmd/root/verbs/bulk"
	"github.com/havenhq/havenctl/internal/cmd/root/verbs/create"
	"github.com/havenhq/havenctl/internal/cmd/root/verbs/del"
	"github.com/havenhq/havenctl/internal/cmd/root/verbs/export"
	"github.com/havenhq/havenctl/internal/cmd/root/verbs/get"
	"github.com/havenhq/havenctl/internal/cmd/root/verbs/list"
	"github.com/havenhq/havenctl/internal/cmd/root/verbs/update"
	"github.com/havenhq/havenctl/internal/cmd/root/version"
	"github.com/havenhq/havenctl/internal/config"
	"github.com/havenhq/havenctl/internal/iostreams"
	"github.com/havenhq/havenctl/internal/log"
	"github.com/havenhq/havenctl/internal/meta"
	"github.com/havenhq/havenctl/internal/profile"
	"github.com/havenhq/havenctl/internal/theme"
	"github.com/havenhq/havenctl/internal/util"
	"github.com/havenhq/havenctl/internal/util/i18n"
	"github.com/havenhq/havenctl/internal/util/normalizers"
)

var (
	rootLong = normalizers.LongDesc(i18n.T("root.rootLong", `
  havenctl manages supported-housing property portfolios from the command line.

  Browse, filter, and group properties, save listing configurations as
  views, and export or bulk-edit selections.`))

	rootShort = i18n.T("root/rootShort",
		fmt.Sprintf("%s controls your property portfolio", meta.CLIName))

	rootCmd *cobra.Command

	// Stores the global runtime value for the Configuration file path,
	configFilePath = config.ExpandDefaultConfigFilePath()
	currProfile    = profile.DefaultProfile

	currConfig   config.Hook
	streams      *iostreams.IOStreams
	pMgr         profile.Manager
	outputFormat = cmd.NewEnum([]string{"json", "yaml", "text"}, "text")
	logLevel     = cmd.NewEnum([]string{"trace", "debug", "info", "warn", "error"},
		common.DefaultLogLevel)

	interactive   bool
	portfolioPath string

	buildInfo *build.Info
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   meta.CLIName,
		Short: rootShort,
		Long:  rootLong,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctx := context.WithValue(cmd.Context(), config.ConfigKey, currConfig)
			ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
			ctx = context.WithValue(ctx, profile.ProfileManagerKey, pMgr)
			ctx = context.WithValue(ctx, build.InfoKey, buildInfo)
			ctx = context.WithValue(ctx, log.LoggerKey, buildLogger())
			cmd.SetContext(ctx)

			name := strings.TrimSpace(currConfig.GetString(common.ColorThemeConfigPath))
			if name == "" {
				name = theme.DetectDefault()
			} else {
				theme.SetConfiguredExplicitly(true)
			}
			// an unknown theme name falls back to the default palette
			_ = theme.SetCurrent(name)
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	rootCmd.PersistentFlags().StringVar(&configFilePath, common.ConfigFilePathFlagName,
		config.ExpandDefaultConfigFilePath(),
		i18n.T("root."+common.ConfigFilePathFlagName, "Path to the configuration file to load."))

	rootCmd.PersistentFlags().StringVarP(&currProfile, common.ProfileFlagName, common.ProfileFlagShort,
		profile.DefaultProfile,
		"Specify the profile to use for this command.")

	// -------------------------------------------------------------------------
	// Add the output flag, which defines the text output format.
	// This requires some extra gymnastics to ensure that the output flag is
	// from a valid set of values. There may be a way to do this more elegantly
	// in the pFlag library
	rootCmd.PersistentFlags().VarP(outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(outputFormat.Allowed, "|")))
	// -------------------------------------------------------------------------

	rootCmd.PersistentFlags().Var(logLevel, common.LogLevelFlagName,
		fmt.Sprintf(`Configures the logging level.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.LogLevelConfigPath, strings.Join(logLevel.Allowed, "|")))

	rootCmd.PersistentFlags().String(common.ColorThemeFlagName, "",
		fmt.Sprintf(`Configures the color theme for rendered output.
- Config path: [ %s ]`,
			common.ColorThemeConfigPath))

	rootCmd.PersistentFlags().BoolVar(&interactive, common.InteractiveFlagName, false,
		"Open the interactive browser for commands that support it.")

	rootCmd.PersistentFlags().StringVar(&portfolioPath, common.PortfolioFlagName, "",
		fmt.Sprintf(`Path to the portfolio data file.
- Config path: [ %s ]`,
			common.PortfolioConfigPath))

	return rootCmd
}

// buildLogger constructs the logger for this invocation from the
// configured level. Logs go to stderr so they never mix with command
// output on stdout. Error records route through the mirroring gate so
// interactive commands can pause them while the alt screen is up.
func buildLogger() *slog.Logger {
	level := log.ConfigLevelStringToSlogLevel(
		currConfig.GetString(common.LogLevelConfigPath))
	diagnostics := slog.NewTextHandler(streams.ErrOut, &slog.HandlerOptions{
		Level: level,
	})
	errOut := slog.NewTextHandler(streams.ErrOut, &slog.HandlerOptions{
		Level: slog.LevelError,
	})
	return slog.New(log.NewDualHandler(diagnostics, errOut))
}

// addCommands adds the root subcommands to the command.
func addCommands() error {
	rootCmd.AddCommand(version.NewVersionCmd())

	builders := []func() (*cobra.Command, error){
		get.NewGetCmd,
		list.NewListCmd,
		create.NewCreateCmd,
		update.NewUpdateCmd,
		del.NewDeleteCmd,
		apply.NewApplyCmd,
		export.NewExportCmd,
		bulk.NewBulkCmd,
	}
	for _, build := range builders {
		c, e := build()
		if e != nil {
			return e
		}
		rootCmd.AddCommand(c)
	}

	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	err := addCommands()
	util.CheckError(err)

	// Because the profile is not part of the configuration, we can't use viper
	// to read it following it's built in priorities.  So here we look for a well known
	// profile variable and set our package level variable if it's set before
	// continuing to process the command run.  This creates a ENV_VAR < CLI_FLAG priority
	profileEnvVar, found := os.LookupEnv(fmt.Sprintf("%s_PROFILE", strings.ToUpper(meta.CLIName)))
	if found {
		currProfile = profileEnvVar
	}
}

func initConfig() {
	cfg, e1 := config.GetConfig(configFilePath, currProfile, config.ExpandDefaultConfigFilePath())
	util.CheckError(e1)
	currConfig = cfg

	pMgr = profile.NewManager(cfg.Viper)

	flags := rootCmd.Flags()
	util.CheckError(cfg.BindFlag(common.OutputConfigPath, flags.Lookup(common.OutputFlagName)))
	util.CheckError(cfg.BindFlag(common.LogLevelConfigPath, flags.Lookup(common.LogLevelFlagName)))
	util.CheckError(cfg.BindFlag(common.ColorThemeConfigPath, flags.Lookup(common.ColorThemeFlagName)))
	util.CheckError(cfg.BindFlag(common.PortfolioConfigPath, flags.Lookup(common.PortfolioFlagName)))
}

func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	buildInfo = bi
	cobra.EnableTraverseRunHooks = true
	streams = s
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		var executionError *cmd.ExecutionError
		if errors.As(err, &executionError) {
			printer, _ := cli.Format(outputFormat.String(), s.ErrOut)
			// what if the printer build fails here?
			printer.Print(err)
			os.Exit(1)
		}
	}
}
