package version

import (
	"io"
	"log/slog"
	"testing"

	"github.com/havenhq/havenctl/internal/build"
	"github.com/havenhq/havenctl/internal/cmd/common"
	"github.com/havenhq/havenctl/internal/config"
	"github.com/havenhq/havenctl/internal/iostreams"
	"github.com/havenhq/havenctl/test/cmd"
	testConfig "github.com/havenhq/havenctl/test/config"
)

func Test_VersionCmd(t *testing.T) {
	all, _, out, _ := iostreams.NewTestIOStreams()

	helper := cmd.MockHelper{
		GetOutputFormatMock: func() (common.OutputFormat, error) {
			return common.TEXT, nil
		},
		GetConfigMock: func() (config.Hook, error) {
			return &testConfig.MockConfigHook{
				GetBoolMock: func(_ string) bool {
					return false
				},
			}, nil
		},
		GetStreamsMock: func() *iostreams.IOStreams {
			return &all
		},
		GetLoggerMock: func() (*slog.Logger, error) {
			return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
		},
		GetBuildInfoMock: func() (*build.Info, error) {
			return &build.Info{
				Version: "dev",
				Commit:  "unknown",
				Date:    "unknown",
			}, nil
		},
	}

	if err := validate(&helper); err != nil {
		t.Errorf("Error validating context: %v", err)
	}

	if err := run(&helper); err != nil {
		t.Errorf("Error running context: %v", err)
	}

	expectedOutput := "dev\n"
	if output := out.String(); output != expectedOutput {
		t.Errorf("Unexpected output: %s", output)
	}
}

func Test_VersionCmdShowCommit(t *testing.T) {
	all, _, out, _ := iostreams.NewTestIOStreams()

	helper := cmd.MockHelper{
		GetOutputFormatMock: func() (common.OutputFormat, error) {
			return common.TEXT, nil
		},
		GetConfigMock: func() (config.Hook, error) {
			return &testConfig.MockConfigHook{
				GetBoolMock: func(_ string) bool {
					return true
				},
			}, nil
		},
		GetStreamsMock: func() *iostreams.IOStreams {
			return &all
		},
		GetBuildInfoMock: func() (*build.Info, error) {
			return &build.Info{
				Version: "1.2.3",
				Commit:  "abc1234",
				Date:    "unknown",
			}, nil
		},
	}

	if err := run(&helper); err != nil {
		t.Errorf("Error running context: %v", err)
	}

	expectedOutput := "1.2.3 (abc1234)\n"
	if output := out.String(); output != expectedOutput {
		t.Errorf("Unexpected output: %s", output)
	}
}
