package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"

	"github.com/An00bRektn/htb-cli/api"
	"github.com/An00bRektn/htb-cli/internal/paths"
)

const EnvPrefix = "HTBCLI"

// Keys shared by the config file, the environment and the flags.
const (
	KeyAPIURL            = "api_url"
	KeyCache             = "cache"
	KeyInlineCredentials = "inline_credentials"
	KeyTimeout           = "timeout"
	KeyUserAgent         = "user_agent"
	KeyVerbose           = "verbose"
)

type Config struct {
	APIURL            string        `mapstructure:"api_url"`
	Cache             string        `mapstructure:"cache"`
	InlineCredentials bool          `mapstructure:"inline_credentials"`
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	Verbose           bool          `mapstructure:"verbose"`
}

// New returns a viper instance that reads config.yaml from the htbcli
// config directory and HTBCLI_* variables from the environment.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAPIURL, api.DefaultBaseURL)
	v.SetDefault(KeyCache, "")
	v.SetDefault(KeyInlineCredentials, false)
	v.SetDefault(KeyTimeout, api.DefaultTimeout)
	v.SetDefault(KeyUserAgent, api.DefaultUserAgent)
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.AddConfigPath(paths.ConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	return v
}

// Load reads the config file if there is one and decodes everything.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// APIOptions maps the config onto client options.
func (c *Config) APIOptions() api.Options {
	return api.Options{
		BaseURL:   c.APIURL,
		UserAgent: c.UserAgent,
		Timeout:   c.Timeout,
	}
}
