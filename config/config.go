// Package config resolves the filetag config directory and loads the yaml
// configuration stored inside it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mzalewski/filetag/storage"
)

// DirEnv overrides the default config directory location.
const DirEnv = "FILETAG_CONFIG_DIR"

const (
	dirName      = ".filetag"
	configName   = "config.yaml"
	snapshotName = "files.json"
	tagsName     = "tags.json"
	logName      = "filetag.log"
)

// Config holds the settings for one monitored root.
type Config struct {
	// Root is the directory to monitor. Required for scan and watch.
	Root string `yaml:"root"`

	// Patterns are the raw rule tokens: includes, `!` excludes, `!!`
	// reincludes. Normalized at intake.
	Patterns []string `yaml:"patterns"`

	// Recursive monitors the whole tree instead of the root's direct entries.
	Recursive bool `yaml:"recursive"`

	// PollInterval is the watcher polling cadence.
	PollInterval time.Duration `yaml:"poll_interval"`

	// PersistDebounce coalesces snapshot writes during watch; 0 keeps the
	// write-through behavior.
	PersistDebounce time.Duration `yaml:"persist_debounce"`

	// UseGitignore adds the root's .gitignore as an extra exclusion stage.
	UseGitignore bool `yaml:"use_gitignore"`

	// LogLevel sets the logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogFile receives log output; empty logs to stderr.
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock values.
func Default() *Config {
	return &Config{
		Patterns:        []string{"*"},
		Recursive:       true,
		PollInterval:    500 * time.Millisecond,
		PersistDebounce: 0,
		UseGitignore:    false,
		LogLevel:        "info",
		LogFile:         "",
	}
}

// Dir resolves the config directory: the flag value when non-empty, then the
// FILETAG_CONFIG_DIR environment variable, then ~/.filetag.
func Dir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(DirEnv); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// EnsureDir creates the config directory when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir %s: %w", dir, err)
	}
	return nil
}

// Path returns the config.yaml location inside dir.
func Path(dir string) string { return filepath.Join(dir, configName) }

// SnapshotPath returns the inventory snapshot location inside dir.
func SnapshotPath(dir string) string { return filepath.Join(dir, snapshotName) }

// TagsPath returns the tag store location inside dir.
func TagsPath(dir string) string { return filepath.Join(dir, tagsName) }

// LogPath returns the log file location inside dir.
func LogPath(dir string) string { return filepath.Join(dir, logName) }

// yamlConfig mirrors Config with string durations for parsing.
type yamlConfig struct {
	Root            string   `yaml:"root"`
	Patterns        []string `yaml:"patterns"`
	Recursive       bool     `yaml:"recursive"`
	PollInterval    string   `yaml:"poll_interval"`
	PersistDebounce string   `yaml:"persist_debounce"`
	UseGitignore    bool     `yaml:"use_gitignore"`
	LogLevel        string   `yaml:"log_level"`
	LogFile         string   `yaml:"log_file"`
}

// Load reads config.yaml from dir. A missing file returns defaults without
// error; malformed yaml or an invalid duration is an error.
func Load(dir string) (*Config, error) {
	cfg := Default()
	path := Path(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Bool fields need key presence to distinguish an explicit false from an
	// absent key; a raw map gives us that.
	var rawMap map[string]any
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if yamlCfg.Root != "" {
		cfg.Root = yamlCfg.Root
	}
	if _, exists := rawMap["patterns"]; exists {
		cfg.Patterns = yamlCfg.Patterns
	}
	if _, exists := rawMap["recursive"]; exists {
		cfg.Recursive = yamlCfg.Recursive
	}
	if yamlCfg.PollInterval != "" {
		interval, err := time.ParseDuration(yamlCfg.PollInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid poll_interval %q: %w", yamlCfg.PollInterval, err)
		}
		cfg.PollInterval = interval
	}
	if yamlCfg.PersistDebounce != "" {
		debounce, err := time.ParseDuration(yamlCfg.PersistDebounce)
		if err != nil {
			return nil, fmt.Errorf("invalid persist_debounce %q: %w", yamlCfg.PersistDebounce, err)
		}
		cfg.PersistDebounce = debounce
	}
	if _, exists := rawMap["use_gitignore"]; exists {
		cfg.UseGitignore = yamlCfg.UseGitignore
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogFile != "" {
		cfg.LogFile = yamlCfg.LogFile
	}

	return cfg, nil
}

// Save writes cfg as config.yaml inside dir, creating dir when missing. The
// write goes through the atomic replace path so a watch-mode reload never
// sees a partial file.
func Save(cfg *Config, dir string) error {
	if err := EnsureDir(dir); err != nil {
		return err
	}
	out := yamlConfig{
		Root:            cfg.Root,
		Patterns:        cfg.Patterns,
		Recursive:       cfg.Recursive,
		PollInterval:    cfg.PollInterval.String(),
		PersistDebounce: cfg.PersistDebounce.String(),
		UseGitignore:    cfg.UseGitignore,
		LogLevel:        cfg.LogLevel,
		LogFile:         cfg.LogFile,
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := storage.AtomicWrite(Path(dir), data); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks field values for consistency.
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be > 0, got %v", c.PollInterval)
	}
	if c.PersistDebounce < 0 {
		return fmt.Errorf("persist_debounce must be >= 0, got %v", c.PersistDebounce)
	}
	return nil
}
