package profile

import (
	"fmt"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	"github.com/havenhq/havenctl/internal/cmd"
	"github.com/havenhq/havenctl/internal/cmd/root/verbs"
	"github.com/havenhq/havenctl/internal/profile"
	"github.com/havenhq/havenctl/internal/util/i18n"
	"github.com/havenhq/havenctl/internal/util/normalizers"
)

var (
	profileUse   = "profile"
	profileShort = i18n.T("root.profile.profileShort", "Manage CLI profiles")
	profileLong  = normalizers.LongDesc(i18n.T("root.profile.profileLong",
		`The profile command allows you to get, create, and delete profiles for the CLI.`))

	profileManager profile.Manager
)

func NewProfileCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     profileUse,
		Short:   profileShort,
		Long:    profileLong,
		Aliases: []string{"profiles"},
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)

			profileManager = c.Context().Value(profile.ProfileManagerKey).(profile.Manager)

			return run(helper)
		},
	}
	return rv
}

func run(helper cmd.Helper) error {
	v, err := helper.GetVerb()
	if err != nil {
		return err
	}

	switch v {
	case verbs.Get, verbs.List:
		return runGet(helper)
	case verbs.Create:
		return runCreate(helper)
	case verbs.Delete:
		return runDelete(helper)
	default:
		return fmt.Errorf("command %s does not support %s", profileUse, v)
	}
}

func runGet(helper cmd.Helper) error {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return &cmd.ExecutionError{
			Err: err,
		}
	}
	p, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer p.Flush()

	args := helper.GetArgs()
	if len(args) > 0 {
		prof, err := profileManager.GetProfile(args[0])
		if err != nil {
			return cmd.PrepareExecutionErrorFromErr(helper, err)
		}
		p.Print(prof)
		return nil
	}

	p.Print(profileManager.GetProfiles())
	return nil
}

func runCreate(helper cmd.Helper) error {
	args := helper.GetArgs()
	if len(args) != 1 {
		return &cmd.ConfigurationError{
			Err: fmt.Errorf("create profile requires a profile name"),
		}
	}
	if err := profileManager.CreateProfile(args[0]); err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}

	fmt.Fprintf(helper.GetStreams().Out, "created profile %q\n", args[0])
	return nil
}

func runDelete(helper cmd.Helper) error {
	args := helper.GetArgs()
	if len(args) != 1 {
		return &cmd.ConfigurationError{
			Err: fmt.Errorf("delete profile requires a profile name"),
		}
	}
	if err := profileManager.DeleteProfile(args[0]); err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}

	fmt.Fprintf(helper.GetStreams().Out, "deleted profile %q\n", args[0])
	return nil
}
