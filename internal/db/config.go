package db

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"taskpaper/pkg/outline"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	Database string                           `json:"database"`
	Formats  map[string]outline.FormatOptions `json:"formats,omitempty"`
	Aliases  map[string]string                `json:"aliases,omitempty"`
	Search   SearchConfig                     `json:"search,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	DatabaseAbs  string `json:"-"` // Absolute path to the database directory

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// SearchConfig holds search-specific options.
type SearchConfig struct {
	// ExcludedFiles lists file names skipped by database-wide searches.
	ExcludedFiles []string `json:"excluded_files,omitempty"`
}

// Excluded reports whether a file name is excluded from searches.
func (s SearchConfig) Excluded(name string) bool {
	for _, excluded := range s.ExcludedFiles {
		if excluded == name {
			return true
		}
	}

	return false
}

// Format returns the format options registered under name, falling back to
// the defaults when the name is not configured.
func (c Config) Format(name string) outline.FormatOptions {
	if options, ok := c.Formats[name]; ok {
		return options
	}

	return outline.DefaultFormatOptions()
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Database: "~/tasks",
	}
}

// ConfigFileName is the default config file name.
const ConfigFileName = ".tp.json"

// getGlobalConfigPath returns the path to the global config file.
// $TP_CONFIG wins, then $XDG_CONFIG_HOME/tp/config.json, then
// ~/.config/tp/config.json.
// Returns empty string if home directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if explicit := env["TP_CONFIG"]; explicit != "" {
		return explicit
	}

	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "tp", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "tp", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride  string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath       string            // -c/--config flag value
	DatabaseOverride string            // --database flag value; empty means no override
	Env              map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($TP_CONFIG, $XDG_CONFIG_HOME/tp/config.json, or ~/.config/tp/config.json)
// 3. Project config file at default location (.tp.json, if exists)
// 4. Explicit config file via configPath (if non-empty)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func LoadConfig(input LoadConfigInput) (Config, error) {
	// Resolve effective working directory
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	// Load global config if it exists
	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	// Load project/explicit config file
	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	// Apply CLI overrides
	if input.DatabaseOverride != "" {
		cfg.Database = input.DatabaseOverride
	}

	if cfg.Database == "" {
		return Config{}, ErrDatabaseDirEmpty
	}

	// Resolve all paths to absolute
	cfg.EffectiveCwd = workDir

	database := ExpandTilde(cfg.Database, input.Env)
	if filepath.IsAbs(database) {
		cfg.DatabaseAbs = database
	} else {
		cfg.DatabaseAbs = filepath.Join(workDir, database)
	}

	return cfg, nil
}

// loadGlobalConfig loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobalConfig(env map[string]string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return globalCfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.tp.json) or an explicit config file.
// Returns the config, the path if loaded, and any error.
func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		// Explicit config file - must exist
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		// Check existence first to provide a clear "not found" error
		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		// Default project config file - optional
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	fileCfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files return zero config.
// Returns the config, whether the file was loaded, and any error.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.Database != "" {
		base.Database = overlay.Database
	}

	if overlay.Formats != nil {
		if base.Formats == nil {
			base.Formats = make(map[string]outline.FormatOptions, len(overlay.Formats))
		}

		for name, options := range overlay.Formats {
			base.Formats[name] = options
		}
	}

	if overlay.Aliases != nil {
		if base.Aliases == nil {
			base.Aliases = make(map[string]string, len(overlay.Aliases))
		}

		for alias, expansion := range overlay.Aliases {
			base.Aliases[alias] = expansion
		}
	}

	if overlay.Search.ExcludedFiles != nil {
		base.Search.ExcludedFiles = overlay.Search.ExcludedFiles
	}

	return base
}

// aliasExpansionLimit caps the alias fixed-point loop so mutually recursive
// aliases cannot spin forever.
const aliasExpansionLimit = 50

// ApplyAliases rewrites every occurrence of an alias in query with its
// expansion, repeating until the query stops changing. Expansions may
// themselves contain aliases.
func (c Config) ApplyAliases(query string) string {
	for i := 0; i < aliasExpansionLimit; i++ {
		expanded := query

		for alias, expansion := range c.Aliases {
			expanded = strings.ReplaceAll(expanded, alias, expansion)
		}

		if expanded == query {
			return expanded
		}

		query = expanded
	}

	return query
}
