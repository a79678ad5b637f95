package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"shelf/internal/domain"
	"shelf/internal/eventbus"
)

// EnvConfigDir overrides the configuration directory (used by tests and e2e runs)
const EnvConfigDir = "SHELF_CONFIG_DIR"

// DefaultEndpoint is the public Google Books volumes endpoint
const DefaultEndpoint = "https://www.googleapis.com/books/v1/volumes"

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	Search  SearchSettings  `toml:"search"`
	Catalog CatalogSettings `toml:"catalog"`
	UI      UISettings      `toml:"ui"`
}

// SearchSettings controls where suggestions come from and how often we ask
type SearchSettings struct {
	Source     domain.SearchSource `toml:"source"`
	Endpoint   string              `toml:"endpoint"`
	Limit      int                 `toml:"limit"`
	DebounceMs int                 `toml:"debounce_ms"`
	TimeoutMs  int                 `toml:"timeout_ms"`
}

// CatalogSettings locates the local SQLite catalog
type CatalogSettings struct {
	Path string `toml:"path"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	MaxVisible int    `toml:"max_visible"`
	Width      int    `toml:"width"`
	LogFile    string `toml:"log_file"`
}

// Debounce returns the quiet period before a search is dispatched
func (s SearchSettings) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

// Timeout returns the per-request timeout for the search source
func (s SearchSettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
	Dir() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	dir      string
	filePath string
}

// Dir returns the directory holding config.toml, the catalog and the log file
func Dir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "shelf")
}

// NewConfigService creates a new config service rooted at Dir()
func NewConfigService() ConfigService {
	dir := Dir()
	return &configService{
		dir:      dir,
		filePath: filepath.Join(dir, "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// NewConfigServiceAt creates a config service for an explicit config file
func NewConfigServiceAt(path string, bus eventbus.EventBus) ConfigService {
	return &configService{
		bus:      bus,
		dir:      filepath.Dir(path),
		filePath: path,
	}
}

func (cs *configService) Path() string { return cs.filePath }
func (cs *configService) Dir() string  { return cs.dir }

// Load loads the configuration from file, falling back to defaults when missing
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfigIn(cs.dir)
	} else {
		loaded, err := cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:   cs.filePath,
			Source: cfg.Search.Source,
		})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so partial files keep sane values
	cfg := DefaultConfigIn(filepath.Dir(path))
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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

// Validate checks values that would make the combobox misbehave
func (c *Config) Validate() error {
	switch c.Search.Source {
	case domain.SourceGoogle, domain.SourceLocal:
	default:
		return fmt.Errorf("unknown search source %q", c.Search.Source)
	}
	if c.Search.Limit < 1 || c.Search.Limit > 40 {
		return fmt.Errorf("search.limit must be between 1 and 40, got %d", c.Search.Limit)
	}
	if c.Search.DebounceMs < 0 {
		return fmt.Errorf("search.debounce_ms must not be negative")
	}
	if c.UI.MaxVisible < 1 {
		return fmt.Errorf("ui.max_visible must be positive")
	}
	return nil
}

// DefaultConfig returns the default configuration rooted at Dir()
func DefaultConfig() *Config {
	return DefaultConfigIn(Dir())
}

// DefaultConfigIn returns the default configuration with files placed in dir
func DefaultConfigIn(dir string) *Config {
	return &Config{
		Version: 1,
		Search: SearchSettings{
			Source:     domain.SourceGoogle,
			Endpoint:   DefaultEndpoint,
			Limit:      10,
			DebounceMs: 500,
			TimeoutMs:  8000,
		},
		Catalog: CatalogSettings{
			Path: filepath.Join(dir, "catalog.db"),
		},
		UI: UISettings{
			MaxVisible: 8,
			Width:      64,
			LogFile:    filepath.Join(dir, "shelf.log"),
		},
	}
}
