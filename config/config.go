// Package config loads runtime configuration from the environment, with an
// optional config file for local development.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported model providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAzure     = "azure"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Config is the resolved runtime configuration.
type Config struct {
	HTTPAddr  string `mapstructure:"http_addr"`
	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`

	ModelProvider string `mapstructure:"model_provider"`

	OpenAIAPIKey string `mapstructure:"openai_api_key"`

	AzureOpenAIEndpoint   string `mapstructure:"azure_openai_endpoint"`
	AzureOpenAIAPIKey     string `mapstructure:"azure_openai_api_key"`
	AzureOpenAIDeployment string `mapstructure:"azure_openai_deployment"`

	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`

	DirectoryTimeout time.Duration `mapstructure:"directory_timeout"`
	MaxModelCalls    int           `mapstructure:"max_model_calls"`
}

// Load reads configuration from environment variables (e.g. HTTP_ADDR,
// MODEL_PROVIDER, OPENAI_API_KEY) and, when present, a config.yaml in the
// working directory. Environment variables win over file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("model_provider", ProviderMock)
	v.SetDefault("directory_timeout", 2*time.Second)
	v.SetDefault("max_model_calls", 10)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.AutomaticEnv()
	// Bind explicitly so env vars apply even without a config file entry.
	for _, key := range []string{
		"http_addr", "log_level", "log_pretty", "model_provider",
		"openai_api_key",
		"azure_openai_endpoint", "azure_openai_api_key", "azure_openai_deployment",
		"anthropic_api_key",
		"directory_timeout", "max_model_calls",
	} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.ModelProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when MODEL_PROVIDER=openai")
		}
	case ProviderAzure:
		if c.AzureOpenAIEndpoint == "" || c.AzureOpenAIAPIKey == "" || c.AzureOpenAIDeployment == "" {
			return fmt.Errorf("AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY and AZURE_OPENAI_DEPLOYMENT are required when MODEL_PROVIDER=azure")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when MODEL_PROVIDER=anthropic")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown MODEL_PROVIDER %q", c.ModelProvider)
	}
	return nil
}
