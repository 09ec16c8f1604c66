package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/havenhq/havenctl/internal/build"
	"github.com/havenhq/havenctl/internal/cmd/common"
	"github.com/havenhq/havenctl/internal/cmd/root/verbs"
	"github.com/havenhq/havenctl/internal/config"
	"github.com/havenhq/havenctl/internal/iostreams"
	"github.com/havenhq/havenctl/internal/portfolio"
)

type MockHelper struct {
	GetCmdMock          func() *cobra.Command
	GetArgsMock         func() []string
	GetVerbMock         func() (verbs.VerbValue, error)
	GetStreamsMock      func() *iostreams.IOStreams
	GetConfigMock       func() (config.Hook, error)
	GetOutputFormatMock func() (common.OutputFormat, error)
	IsInteractiveMock   func() (bool, error)
	GetLoggerMock       func() (*slog.Logger, error)
	GetBuildInfoMock    func() (*build.Info, error)
	GetContextMock      func() context.Context
	GetPortfolioMock    func() (*portfolio.Collection, error)
}

func (m *MockHelper) GetCmd() *cobra.Command {
	return m.GetCmdMock()
}

func (m *MockHelper) GetArgs() []string {
	return m.GetArgsMock()
}

func (m *MockHelper) GetVerb() (verbs.VerbValue, error) {
	return m.GetVerbMock()
}

func (m *MockHelper) GetStreams() *iostreams.IOStreams {
	return m.GetStreamsMock()
}

func (m *MockHelper) GetConfig() (config.Hook, error) {
	return m.GetConfigMock()
}

func (m *MockHelper) GetOutputFormat() (common.OutputFormat, error) {
	return m.GetOutputFormatMock()
}

func (m *MockHelper) IsInteractive() (bool, error) {
	if m.IsInteractiveMock != nil {
		return m.IsInteractiveMock()
	}
	return false, nil
}

func (m *MockHelper) GetLogger() (*slog.Logger, error) {
	return m.GetLoggerMock()
}

func (m *MockHelper) GetBuildInfo() (*build.Info, error) {
	return m.GetBuildInfoMock()
}

func (m *MockHelper) GetContext() context.Context {
	if m.GetContextMock != nil {
		return m.GetContextMock()
	}
	return context.Background()
}

func (m *MockHelper) GetPortfolio() (*portfolio.Collection, error) {
	return m.GetPortfolioMock()
}
