package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Card      map[string]any  `mapstructure:"card"` // Raw card options; coerced by gallery.ResolveOptions
	HTTP      HTTPConfig      `mapstructure:"http"`
	Display   DisplayConfig   `mapstructure:"display"`
	Downloads DownloadsConfig `mapstructure:"downloads"`
	Viewer    ViewerConfig    `mapstructure:"viewer"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds Home Assistant connection settings
type ServerConfig struct {
	URL   string `mapstructure:"url"`   // e.g. http://homeassistant.local:8123
	Token string `mapstructure:"token"` // Long-lived access token
}

// HTTPConfig holds the gallery web server settings
type HTTPConfig struct {
	Listen string `mapstructure:"listen"`
}

// DisplayConfig holds presentation settings
type DisplayConfig struct {
	Timezone string `mapstructure:"timezone"` // IANA name; empty for local time
}

// DownloadsConfig controls where the terminal UI saves images
type DownloadsConfig struct {
	Dir string `mapstructure:"dir"`
}

// ViewerConfig selects the external image viewer
type ViewerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// CacheConfig holds the download-history database location
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // Empty keeps history in memory only
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json (default) or text
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Card: map[string]any{},
		HTTP: HTTPConfig{
			Listen: ":8099",
		},
		Downloads: DownloadsConfig{
			Dir: defaultDownloadPath(),
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// IsConfigured returns true if the server URL and token are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != ""
}

// Location returns the configured display time zone, or local time
func (c *Config) Location() *time.Location {
	if c.Display.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "hagallery")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "hagallery")
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "hagallery", "hagallery.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "hagallery", "hagallery.log")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "hagallery", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "hagallery", "cache")
	}
}

// defaultDownloadPath returns the default directory for saved images
func defaultDownloadPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Pictures", "detection_shots")
}

// Loader reads, watches and writes the configuration file
type Loader struct {
	v    *viper.Viper
	file string // Explicit file from -config, empty to search defaults
}

// NewLoader creates a loader. file may be empty to search the default
// locations (~/.config/hagallery/config.yaml, ./config.yaml).
func NewLoader(file string) *Loader {
	return &Loader{v: viper.New(), file: file}
}

// Load reads configuration from file and environment
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	v := l.v

	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Register every key so environment overrides reach Unmarshal
	v.SetDefault("server.url", "")
	v.SetDefault("server.token", "")
	v.SetDefault("card.path", "")
	v.SetDefault("card.limit", 0)
	v.SetDefault("card.refresh", 0)
	v.SetDefault("http.listen", cfg.HTTP.Listen)
	v.SetDefault("display.timezone", "")
	v.SetDefault("downloads.dir", cfg.Downloads.Dir)
	v.SetDefault("viewer.command", "")
	v.SetDefault("viewer.args", []string{})
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", "json")

	// Environment variable overrides: HAGALLERY_SERVER_TOKEN etc.
	v.SetEnvPrefix("HAGALLERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(l.file != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if cfg.Card == nil {
		cfg.Card = map[string]any{}
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// expandPaths resolves ~ in the directory settings
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Downloads.Dir, &c.Cache.Dir} {
		expanded, err := ExpandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// Watch reloads the configuration whenever the file changes and hands the
// result to onChange. It is a no-op when no file was read.
func (l *Loader) Watch(onChange func(*Config, error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(fsnotify.Event) {
		cfg := DefaultConfig()
		if err := l.v.Unmarshal(cfg); err != nil {
			onChange(nil, fmt.Errorf("error parsing config: %w", err))
			return
		}
		if err := cfg.expandPaths(); err != nil {
			onChange(nil, err)
			return
		}
		onChange(cfg, nil)
	})
	l.v.WatchConfig()
}

// ConfigFileUsed returns the file the configuration was read from
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Save writes cfg to the loaded file, the explicit file, or the default location
func (l *Loader) Save(cfg *Config) error {
	configFile := l.v.ConfigFileUsed()
	if configFile == "" {
		configFile = l.file
	}
	if configFile == "" {
		configFile = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	l.v.Set("server.url", cfg.Server.URL)
	l.v.Set("server.token", cfg.Server.Token)
	for k, val := range cfg.Card {
		l.v.Set("card."+k, val)
	}
	l.v.Set("http.listen", cfg.HTTP.Listen)
	l.v.Set("display.timezone", cfg.Display.Timezone)
	l.v.Set("downloads.dir", cfg.Downloads.Dir)
	l.v.Set("viewer.command", cfg.Viewer.Command)
	l.v.Set("viewer.args", cfg.Viewer.Args)
	l.v.Set("cache.dir", cfg.Cache.Dir)
	l.v.Set("logging.file", cfg.Logging.File)
	l.v.Set("logging.level", cfg.Logging.Level)
	l.v.Set("logging.format", cfg.Logging.Format)

	if err := l.v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClearCache removes the download-history database
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
