package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"blastview/internal/eventbus"
)

// FileName is the name of the config file inside the config directory
const FileName = "blastview.toml"

// Config represents the application configuration
type Config struct {
	Version   int               `toml:"version"`
	UI        UISettings        `toml:"ui"`
	Selection SelectionSettings `toml:"selection"`
	Filter    FilterSettings    `toml:"filter"`
	Log       LogSettings       `toml:"log"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ScrollToSelection bool `toml:"scroll_to_selection"`
	Pager             bool `toml:"pager"`
	AutosaveOnExit    bool `toml:"autosave_on_exit"`
}

// SelectionSettings controls how views take part in selection sync
type SelectionSettings struct {
	DetailSingleValued bool `toml:"detail_single_valued"`
	SyncTree           bool `toml:"sync_tree"`
	SyncMSA            bool `toml:"sync_msa"`
}

// FilterSettings controls the hit filter
type FilterSettings struct {
	MaxDistance int `toml:"max_distance"` // levenshtein distance for fuzzy accession matches
}

// LogSettings controls where and how much is logged
type LogSettings struct {
	File  string `toml:"file"`
	Level string `toml:"level"` // debug, info, warn, error
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service using the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "blastview", FileName),
	}
}

// NewConfigServiceAt creates a config service for an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// WithBus returns a copy of cs that publishes ConfigSaved events on bus
func WithBus(cs ConfigService, bus eventbus.EventBus) ConfigService {
	if c, ok := cs.(*configService); ok {
		cp := *c
		cp.bus = bus
		return &cp
	}
	return cs
}

// Path returns the file the service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, returning defaults if the file does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path.
// Keys missing from the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Filter.MaxDistance < 0 {
		return fmt.Errorf("filter.max_distance must be >= 0, got %d", c.Filter.MaxDistance)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		UI: UISettings{
			ScrollToSelection: true,
			Pager:             true,
			AutosaveOnExit:    false,
		},
		Selection: SelectionSettings{
			DetailSingleValued: true,
			SyncTree:           true,
			SyncMSA:            true,
		},
		Filter: FilterSettings{
			MaxDistance: 1,
		},
		Log: LogSettings{
			File:  "blastview.log",
			Level: "info",
		},
	}
}
