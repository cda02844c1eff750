/*
Package config manages the TOML config for spelldict.

The file holds the spell-check preferences the host engine reads, where the
dictionaries live, and which bundled dictionaries were already installed so a
dictionary the user deleted is not seeded again.
*/
package config

import (
	"path/filepath"
	"sort"

	"github.com/bastiangx/spelldict/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config dir.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Spell     SpellConfig     `toml:"spell"`
	Dict      DictConfig      `toml:"dict"`
	Server    ServerConfig    `toml:"server"`
	Installed map[string]bool `toml:"installed"`
}

// SpellConfig holds the preferences handed to the host spell-check engine.
type SpellConfig struct {
	CheckDuringReview bool `toml:"check_during_review"`
	AutoStartup       bool `toml:"auto_startup"`
	DuckMode          bool `toml:"duck_mode"`
	BoldText          bool `toml:"bold_text"`
}

// DictConfig holds dictionary locations.
type DictConfig struct {
	Dir        string `toml:"dir"`
	BundledDir string `toml:"bundled_dir"`
	CustomName string `toml:"custom_name"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	Watch bool `toml:"watch"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Spell: SpellConfig{
			CheckDuringReview: false,
			AutoStartup:       false,
			DuckMode:          false,
			BoldText:          true,
		},
		Dict: DictConfig{
			Dir:        "~/.config/spelldict/dictionaries",
			BundledDir: "",
			CustomName: "custom",
		},
		Server: ServerConfig{
			Watch: true,
		},
		Installed: map[string]bool{},
	}
}

// DictDir returns the dictionary directory with "~" expanded. An empty dir
// falls back to "dictionaries" under the config dir.
func (c *Config) DictDir() string {
	if c.Dict.Dir != "" {
		return utils.ExpandPath(c.Dict.Dir)
	}
	pr, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Cannot resolve dictionary dir: %v", err)
		return utils.ExpandPath(".")
	}
	return pr.GetDictDir("")
}

// BundledDir returns the bundled dictionary directory, or "" when none is
// configured and none is found next to the binary.
func (c *Config) BundledDir() string {
	pr, err := utils.NewPathResolver()
	if err != nil {
		if c.Dict.BundledDir == "" {
			return ""
		}
		return utils.ExpandPath(c.Dict.BundledDir)
	}
	return pr.GetBundledDir(c.Dict.BundledDir)
}

// InstalledNames returns the names recorded as installed, sorted.
func (c *Config) InstalledNames() []string {
	names := make([]string, 0, len(c.Installed))
	for name, ok := range c.Installed {
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath(FileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/spelldict/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		customConfigPath = utils.ExpandPath(customConfigPath)
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
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
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Keys that fail to decode keep their
// defaults; the rest of the file is still applied.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	if config.Installed == nil {
		config.Installed = map[string]bool{}
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "spell"); ok {
		extractSpellConfig(section, &config.Spell)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		if val, ok := utils.ExtractBool(section, "watch"); ok {
			config.Server.Watch = val
		}
	}
	for name, val := range utils.ExtractBoolTable(tempConfig, "installed") {
		config.Installed[name] = val
	}
	return config, nil
}

func extractSpellConfig(data map[string]any, spell *SpellConfig) {
	if val, ok := utils.ExtractBool(data, "check_during_review"); ok {
		spell.CheckDuringReview = val
	}
	if val, ok := utils.ExtractBool(data, "auto_startup"); ok {
		spell.AutoStartup = val
	}
	if val, ok := utils.ExtractBool(data, "duck_mode"); ok {
		spell.DuckMode = val
	}
	if val, ok := utils.ExtractBool(data, "bold_text"); ok {
		spell.BoldText = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "dir"); ok {
		dict.Dir = val
	}
	if val, ok := utils.ExtractString(data, "bundled_dir"); ok {
		dict.BundledDir = val
	}
	if val, ok := utils.ExtractString(data, "custom_name"); ok && val != "" {
		dict.CustomName = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// MarkInstalled records names as installed and saves the file. An empty
// configPath only updates the in-memory config.
func (c *Config) MarkInstalled(configPath string, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	if c.Installed == nil {
		c.Installed = map[string]bool{}
	}
	for _, name := range names {
		c.Installed[name] = true
	}
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
