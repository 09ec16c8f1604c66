package viper

import (
	"strings"

	"github.com/havenhq/havenctl/internal/meta"
	"github.com/havenhq/havenctl/internal/util"
	v "github.com/spf13/viper"
)

// InitializeDefaultViper initializes a viper instance with default values and a path to a file.
// If the file does not exist, it will be created with the default values.
func InitializeDefaultViper(defaultValues map[string]any, path string) (*v.Viper, error) {
	if err := util.InitDir(path, 0o755); err != nil {
		return nil, err
	}

	rv := NewViper(path)

	if len(rv.AllSettings()) == 0 {
		// the 'loaded' viper is empty, so we assume it's uninitialized and
		// set the defaults and write them back to the file
		if err := rv.MergeConfigMap(defaultValues); err != nil {
			return nil, err
		}
		if err := rv.WriteConfig(); err != nil {
			return nil, err
		}
	}

	return rv, nil
}

func NewViperE(path string) (*v.Viper, error) {
	rv := v.New()
	rv.SetConfigFile(path)
	ConfigureEnvVars(rv, strings.ToUpper(meta.CLIName))
	if err := rv.ReadInConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

func NewViper(path string) *v.Viper {
	rv := v.New()
	rv.SetConfigFile(path)
	ConfigureEnvVars(rv, strings.ToUpper(meta.CLIName))
	_ = rv.ReadInConfig()
	return rv
}

// ConfigureEnvVars wires environment variable resolution for a viper instance
// using the provided prefix, replacing separators so that keys like
// portfolio-file resolve from <PREFIX>_PORTFOLIO_FILE.
func ConfigureEnvVars(rv *v.Viper, prefix string) {
	rv.AutomaticEnv()
	rv.SetEnvPrefix(prefix)
	rv.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}
