/*
Package config manages TOML config for KeyServe services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/keyserve/internal/utils"
	"github.com/bastiangx/keyserve/pkg/flags"
	"github.com/bastiangx/keyserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// EngineConfig mirrors suggest.Options plus the default request flags.
type EngineConfig struct {
	MaxWords              int  `toml:"max_words"`
	MaxWordLength         int  `toml:"max_word_length"`
	MaxProximityChars     int  `toml:"max_proximity_chars"`
	MaxErrors             int  `toml:"max_errors"`
	MaxErrorsForTwoWords  int  `toml:"max_errors_two_words"`
	MaxUmlautSearchDepth  int  `toml:"max_umlaut_search_depth"`
	TypedLetterMultiplier int  `toml:"typed_letter_multiplier"`
	FullWordMultiplier    int  `toml:"full_word_multiplier"`
	SuggestMissingSpace   bool `toml:"suggest_missing_space"`
	SuggestSpaceProximity bool `toml:"suggest_space_proximity"`
	MinSplitInputLength   int  `toml:"min_split_input_length"`
	MinSplitWordLength    int  `toml:"min_split_word_length"`
	FullEditDistance      bool `toml:"full_edit_distance"`
	UmlautDigraphs        bool `toml:"umlaut_digraphs"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit     int  `toml:"max_limit"`
	MaxInput     int  `toml:"max_input"`
	EnableFilter bool `toml:"enable_filter"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Path         string `toml:"path"`
	GermanUmlaut bool   `toml:"german_umlaut"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	UseLayout       bool `toml:"use_layout"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// Options converts the engine section for suggest.New.
func (e EngineConfig) Options() suggest.Options {
	return suggest.Options{
		TypedLetterMultiplier: e.TypedLetterMultiplier,
		FullWordMultiplier:    e.FullWordMultiplier,
		MaxWordLength:         e.MaxWordLength,
		MaxWords:              e.MaxWords,
		MaxProximityChars:     e.MaxProximityChars,
		MaxErrors:             e.MaxErrors,
		MaxErrorsForTwoWords:  e.MaxErrorsForTwoWords,
		MaxUmlautSearchDepth:  e.MaxUmlautSearchDepth,
		SuggestMissingSpace:   e.SuggestMissingSpace,
		SuggestSpaceProximity: e.SuggestSpaceProximity,
		MinSplitInputLength:   e.MinSplitInputLength,
		MinSplitWordLength:    e.MinSplitWordLength,
	}
}

// Flags returns the request flags the engine section asks for on top of the
// dictionary's own defaults.
func (e EngineConfig) Flags() flags.Flags {
	var f flags.Flags
	if e.FullEditDistance {
		f |= flags.UseFullEditDistance
	}
	if e.UmlautDigraphs {
		f |= flags.RequiresGermanUmlautProcessing
	}
	return f
}

// GetConfigDir returns the first writable config directory:
// 1. $XDG_CONFIG_HOME/keyserve or ~/.config/keyserve
// 2. ~/Library/Application Support/keyserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		log.Errorf("Failed to resolve paths: %v", err)
		return "", err
	}
	return pr.WritableConfigDir()
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
// 1. Custom path from -config flag
// 2. Default path: ~/.config/keyserve/config.toml
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
		Engine: EngineConfig{
			MaxWords:              opts.MaxWords,
			MaxWordLength:         opts.MaxWordLength,
			MaxProximityChars:     opts.MaxProximityChars,
			MaxErrors:             opts.MaxErrors,
			MaxErrorsForTwoWords:  opts.MaxErrorsForTwoWords,
			MaxUmlautSearchDepth:  opts.MaxUmlautSearchDepth,
			TypedLetterMultiplier: opts.TypedLetterMultiplier,
			FullWordMultiplier:    opts.FullWordMultiplier,
			SuggestMissingSpace:   opts.SuggestMissingSpace,
			SuggestSpaceProximity: opts.SuggestSpaceProximity,
			MinSplitInputLength:   opts.MinSplitInputLength,
			MinSplitWordLength:    opts.MinSplitWordLength,
		},
		Server: ServerConfig{
			MaxLimit:     opts.MaxWords,
			MaxInput:     opts.MaxWordLength,
			EnableFilter: true,
		},
		Dict: DictConfig{
			Path: "data/words.dict",
		},
		CLI: CliConfig{
			DefaultLimit: 10,
			UseLayout:    true,
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
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well typed value of a file the struct decoder rejected.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()
	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}
	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	ints := map[string]*int{
		"max_words":               &engine.MaxWords,
		"max_word_length":         &engine.MaxWordLength,
		"max_proximity_chars":     &engine.MaxProximityChars,
		"max_errors":              &engine.MaxErrors,
		"max_errors_two_words":    &engine.MaxErrorsForTwoWords,
		"max_umlaut_search_depth": &engine.MaxUmlautSearchDepth,
		"typed_letter_multiplier": &engine.TypedLetterMultiplier,
		"full_word_multiplier":    &engine.FullWordMultiplier,
		"min_split_input_length":  &engine.MinSplitInputLength,
		"min_split_word_length":   &engine.MinSplitWordLength,
	}
	for key, dst := range ints {
		if val, ok := utils.ExtractInt64(data, key); ok {
			*dst = val
		}
	}
	bools := map[string]*bool{
		"suggest_missing_space":   &engine.SuggestMissingSpace,
		"suggest_space_proximity": &engine.SuggestSpaceProximity,
		"full_edit_distance":      &engine.FullEditDistance,
		"umlaut_digraphs":         &engine.UmlautDigraphs,
	}
	for key, dst := range bools {
		if val, ok := utils.ExtractBool(data, key); ok {
			*dst = val
		}
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_input"); ok {
		server.MaxInput = val
	}
	if val, ok := utils.ExtractBool(data, "enable_filter"); ok {
		server.EnableFilter = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractBool(data, "german_umlaut"); ok {
		dict.GermanUmlaut = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "use_layout"); ok {
		cli.UseLayout = val
	}
	if val, ok := utils.ExtractBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server limits and saves to file
func (c *Config) Update(configPath string, maxLimit, maxInput *int, enableFilter *bool) error {
	server := &c.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if maxInput != nil {
		server.MaxInput = *maxInput
	}
	if enableFilter != nil {
		server.EnableFilter = *enableFilter
	}
	return SaveConfig(c, configPath)
}
