/*
Package config manages TOML config for the wordtrie services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Index  IndexConfig  `toml:"index"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// IndexConfig holds the query layer options.
type IndexConfig struct {
	MinWordLength     int `toml:"min_word_length"`
	MinPrefixLength   int `toml:"min_prefix_length"`
	ShortPrefixMinLen int `toml:"short_prefix_min_len"`
	UnboundedWindow   int `toml:"unbounded_window"`
	CacheSize         int `toml:"cache_size"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit  int    `toml:"max_limit"`
	MaxPrefix int    `toml:"max_prefix"`
	HTTPAddr  string `toml:"http_addr"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultWindow int `toml:"default_window"`
	DefaultLimit  int `toml:"default_limit"`
}

// SuggestOptions converts the index section into query layer options.
func (c IndexConfig) SuggestOptions() suggest.Options {
	return suggest.Options{
		MinWordLength:     c.MinWordLength,
		MinPrefixLength:   c.MinPrefixLength,
		ShortPrefixMinLen: c.ShortPrefixMinLen,
		UnboundedWindow:   c.UnboundedWindow,
		CacheSize:         c.CacheSize,
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordtrie")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordtrie/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	opts := suggest.DefaultOptions()
	return &Config{
		Index: IndexConfig{
			MinWordLength:     opts.MinWordLength,
			MinPrefixLength:   opts.MinPrefixLength,
			ShortPrefixMinLen: opts.ShortPrefixMinLen,
			UnboundedWindow:   opts.UnboundedWindow,
			CacheSize:         opts.CacheSize,
		},
		Server: ServerConfig{
			MaxLimit:  64,
			MaxPrefix: 60,
			HTTPAddr:  "127.0.0.1:7878",
		},
		CLI: CliConfig{
			DefaultWindow: 0,
			DefaultLimit:  24,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well typed key of a file that failed strict decoding
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if indexSection, ok := utils.ExtractSection(tempConfig, "index"); ok {
		extractIndexConfig(indexSection, &config.Index)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

func extractIndexConfig(data map[string]any, index *IndexConfig) {
	if val, ok := utils.ExtractInt64(data, "min_word_length"); ok {
		index.MinWordLength = val
	}
	if val, ok := utils.ExtractInt64(data, "min_prefix_length"); ok {
		index.MinPrefixLength = val
	}
	if val, ok := utils.ExtractInt64(data, "short_prefix_min_len"); ok {
		index.ShortPrefixMinLen = val
	}
	if val, ok := utils.ExtractInt64(data, "unbounded_window"); ok {
		index.UnboundedWindow = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		index.CacheSize = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractString(data, "http_addr"); ok {
		server.HTTPAddr = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_window"); ok {
		cli.DefaultWindow = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server values and saves to file
func (c *Config) Update(configPath string, maxLimit, maxPrefix *int, httpAddr *string) error {
	server := &c.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if maxPrefix != nil {
		server.MaxPrefix = *maxPrefix
	}
	if httpAddr != nil {
		server.HTTPAddr = *httpAddr
	}
	return SaveConfig(c, configPath)
}
