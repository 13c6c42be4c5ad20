package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("crm-oauth version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Server        ServerConfig              `mapstructure:"server"`
	Logging       LoggingConfig             `mapstructure:"logging"`
	Providers     map[string]ProviderConfig `mapstructure:"providers"`
	ProvidersFile string                    `mapstructure:"providers_file"`
}

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Timeout string `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// ProviderConfig overrides the built-in endpoint catalog for a single CRM
// provider. Empty fields fall back to the provider defaults.
type ProviderConfig struct {
	TokenURL string   `mapstructure:"token_url" yaml:"token_url"`
	AuthURL  string   `mapstructure:"auth_url" yaml:"auth_url"`
	Scopes   []string `mapstructure:"scopes" yaml:"scopes"`
}

// DefaultProviders lists the CRM providers the service knows how to talk to.
var DefaultProviders = []string{"hubspot", "salesforce", "zoho"}

// InitFlags initializes command line flags (without parsing)
func InitFlags() {
	pflag.Int("port", 0, "Server port")
	pflag.String("providers-file", "", "Path to a YAML provider catalog override file")
	// Note: no pflag.Parse() here, cobra parses the shared flag set
}

func Load() (*Config, error) {
	viper.Reset() // Ensure clean state

	viper.SetEnvPrefix("CRM_OAUTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeout", "30s")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/crm-oauth")

	if err := viper.ReadInConfig(); err != nil {
		// Running on defaults plus environment alone is supported
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Set server port from flag
	if port := viper.GetInt("port"); port != 0 {
		config.Server.Port = port
	}

	// Set providers file from flag or environment
	if providersFile := viper.GetString("providers-file"); providersFile != "" {
		config.ProvidersFile = providersFile
	}

	// With no explicit provider block, enable the full built-in catalog
	if len(config.Providers) == 0 {
		config.Providers = make(map[string]ProviderConfig, len(DefaultProviders))
		for _, name := range DefaultProviders {
			config.Providers[name] = ProviderConfig{}
		}
	}

	if config.ProvidersFile != "" {
		if err := mergeProvidersFile(&config); err != nil {
			return nil, err
		}
	}

	return &config, nil
}

// mergeProvidersFile overlays endpoint overrides from a standalone YAML
// catalog onto the configured providers. Entries for providers not already
// enabled add them.
func mergeProvidersFile(config *Config) error {
	data, err := os.ReadFile(config.ProvidersFile)
	if err != nil {
		return fmt.Errorf("failed to read providers file %s: %w", config.ProvidersFile, err)
	}

	overrides := map[string]ProviderConfig{}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse providers file %s: %w", config.ProvidersFile, err)
	}

	for name, override := range overrides {
		merged := config.Providers[name]
		if override.TokenURL != "" {
			merged.TokenURL = override.TokenURL
		}
		if override.AuthURL != "" {
			merged.AuthURL = override.AuthURL
		}
		if len(override.Scopes) > 0 {
			merged.Scopes = override.Scopes
		}
		config.Providers[name] = merged
	}

	return nil
}
