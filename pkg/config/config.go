// Package config manages TOML config for subtrie's build, search, and
// server defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/dictx/subtrie/internal/utils"
)

// Config holds the entire config structure.
type Config struct {
	Build  BuildConfig  `toml:"build"`
	Search SearchConfig `toml:"search"`
	Server ServerConfig `toml:"server"`
}

// BuildConfig controls indexbuild.Options and the search char table.
type BuildConfig struct {
	SuffixRatio float64 `toml:"suffix_ratio"`
	MinSuffix   int     `toml:"min_suffix"`
	CharTable   string  `toml:"char_table"`
}

// SearchConfig holds default search.Query field values, applied whenever
// a caller doesn't override them explicitly.
type SearchConfig struct {
	MinCommonLen     int  `toml:"min_common_len"`
	MinDwordLen      int  `toml:"min_dword_len"`
	MaxDwordLen      int  `toml:"max_dword_len"`
	Limit            int  `toml:"limit"`
	DepthFirstSearch bool `toml:"depth_first_search"`
	ComPrefixOnly    bool `toml:"com_prefix_only"`
	AverageLimit     bool `toml:"average_limit"`
}

// ServerConfig has IPC server tuning options.
type ServerConfig struct {
	CacheSize int `toml:"cache_size"`
	MaxLimit  int `toml:"max_limit"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/subtrie
// 2. ~/Library/Application Support/subtrie (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "subtrie")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "subtrie")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/subtrie/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
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

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values. An empty
// Build.CharTable means "use search.DefaultCharTable()".
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			SuffixRatio: 0.5,
			MinSuffix:   2,
			CharTable:   "",
		},
		Search: SearchConfig{
			MinCommonLen:     3,
			MinDwordLen:      1,
			MaxDwordLen:      64,
			Limit:            20,
			DepthFirstSearch: false,
			ComPrefixOnly:    false,
			AverageLimit:     false,
		},
		Server: ServerConfig{
			CacheSize: 256,
			MaxLimit:  100,
		},
	}
}

// InitConfig loads config from file or creates default if missing.
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

// LoadConfig loads from a TOML file.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to salvage a partially-valid TOML file.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if buildSection, ok := utils.ExtractSection(tempConfig, "build"); ok {
		extractBuildConfig(buildSection, &config.Build)
	}
	if searchSection, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(searchSection, &config.Search)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	return config, nil
}

func extractBuildConfig(data map[string]any, build *BuildConfig) {
	if val, ok := utils.ExtractFloat64(data, "suffix_ratio"); ok {
		build.SuffixRatio = val
	}
	if val, ok := utils.ExtractInt64(data, "min_suffix"); ok {
		build.MinSuffix = val
	}
	if val, ok := utils.ExtractString(data, "char_table"); ok {
		build.CharTable = val
	}
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractInt64(data, "min_common_len"); ok {
		search.MinCommonLen = val
	}
	if val, ok := utils.ExtractInt64(data, "min_dword_len"); ok {
		search.MinDwordLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_dword_len"); ok {
		search.MaxDwordLen = val
	}
	if val, ok := utils.ExtractInt64(data, "limit"); ok {
		search.Limit = val
	}
	if val, ok := utils.ExtractBool(data, "depth_first_search"); ok {
		search.DepthFirstSearch = val
	}
	if val, ok := utils.ExtractBool(data, "com_prefix_only"); ok {
		search.ComPrefixOnly = val
	}
	if val, ok := utils.ExtractBool(data, "average_limit"); ok {
		search.AverageLimit = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		server.CacheSize = val
	}
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
}

// RebuildConfigFile force creates a new config.toml at the default path.
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file.
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
