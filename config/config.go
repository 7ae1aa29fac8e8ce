package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Provider names for the supported remote model backends.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config represents the scribe configuration
type Config struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	OpenAIKey     string `json:"openai_api_key"`
	AnthropicKey  string `json:"anthropic_api_key"`
	BaseURL       string `json:"base_url"` // Base URL override for the provider (optional)
	AutoApply     bool   `json:"auto_apply"`
	SkipExisting  bool   `json:"skip_existing"` // createFile skips existing files instead of overwriting
	MaxIndexFiles int    `json:"max_index_files"`
	MaxSymbols    int    `json:"max_symbols_per_file"`
	MaxFileSize   int64  `json:"max_file_size"` // Maximum file size to index in bytes
	MaxHistory    int    `json:"max_history"`
	Debug         bool   `json:"debug"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Provider:      ProviderOpenAI,
		Model:         "gpt-4o",
		MaxIndexFiles: 10,
		MaxSymbols:    15,
		MaxFileSize:   500 * 1024, // 500 KB default
		MaxHistory:    50,
	}
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.AnthropicKey
	default:
		return c.OpenAIKey
	}
}

// Load loads configuration from global and workspace sources.
// Workspace config takes precedence over global config.
func Load(workspacePath string) (*Config, error) {
	cfg := DefaultConfig()

	globalCfg, err := loadGlobalConfig()
	if err == nil {
		mergeCfg(cfg, globalCfg)
	}

	localCfg, err := loadLocalConfig(workspacePath)
	if err == nil {
		mergeCfg(cfg, localCfg)
	}

	return cfg, nil
}

// Get retrieves a configuration value by key
func (c *Config) Get(key string) (interface{}, error) {
	switch key {
	case "provider":
		return c.Provider, nil
	case "model":
		return c.Model, nil
	case "openai_api_key":
		return c.OpenAIKey, nil
	case "anthropic_api_key":
		return c.AnthropicKey, nil
	case "base_url":
		return c.BaseURL, nil
	case "auto_apply":
		return c.AutoApply, nil
	case "skip_existing":
		return c.SkipExisting, nil
	case "max_index_files":
		return c.MaxIndexFiles, nil
	case "max_symbols_per_file":
		return c.MaxSymbols, nil
	case "max_file_size":
		return c.MaxFileSize, nil
	case "max_history":
		return c.MaxHistory, nil
	case "debug":
		return c.Debug, nil
	default:
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
}

// Set updates a configuration value by key
func (c *Config) Set(key string, value string) error {
	switch key {
	case "provider":
		if value != ProviderOpenAI && value != ProviderAnthropic {
			return fmt.Errorf("unknown provider: %s", value)
		}
		c.Provider = value
	case "model":
		c.Model = value
	case "openai_api_key":
		c.OpenAIKey = value
	case "anthropic_api_key":
		c.AnthropicKey = value
	case "base_url":
		c.BaseURL = value
	case "auto_apply":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.AutoApply = b
	case "skip_existing":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.SkipExisting = b
	case "debug":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Debug = b
	case "max_index_files":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		c.MaxIndexFiles = int(n)
	case "max_symbols_per_file":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		c.MaxSymbols = int(n)
	case "max_file_size":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		c.MaxFileSize = n
	case "max_history":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		c.MaxHistory = int(n)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("expected 'true' or 'false' for %s, got: %s", key, value)
	}
}

func parseInt(key, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected numeric value for %s, got: %s", key, value)
	}
	return n, nil
}

// loadGlobalConfig loads configuration from ~/.scribe/config.json
func loadGlobalConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return loadConfigFromFile(filepath.Join(homeDir, ".scribe", "config.json"))
}

// loadLocalConfig loads configuration from <workspace>/.scribe/config.json
func loadLocalConfig(workspacePath string) (*Config, error) {
	return loadConfigFromFile(filepath.Join(workspacePath, ".scribe", "config.json"))
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveLocal saves configuration to <workspace>/.scribe/config.json
func SaveLocal(workspacePath string, cfg *Config) error {
	configPath := filepath.Join(workspacePath, ".scribe", "config.json")
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// mergeCfg merges source config into destination config
func mergeCfg(dst, src *Config) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.OpenAIKey != "" {
		dst.OpenAIKey = src.OpenAIKey
	}
	if src.AnthropicKey != "" {
		dst.AnthropicKey = src.AnthropicKey
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.MaxIndexFiles > 0 {
		dst.MaxIndexFiles = src.MaxIndexFiles
	}
	if src.MaxSymbols > 0 {
		dst.MaxSymbols = src.MaxSymbols
	}
	if src.MaxFileSize > 0 {
		dst.MaxFileSize = src.MaxFileSize
	}
	if src.MaxHistory > 0 {
		dst.MaxHistory = src.MaxHistory
	}
	// Booleans take the source value whenever a source config exists.
	dst.AutoApply = src.AutoApply
	dst.SkipExisting = src.SkipExisting
	dst.Debug = src.Debug
}
