// Package config loads station settings from the config file, INTAKEFORGE_*
// environment variables and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. INTAKEFORGE_CAMERA_DEVICE.
const EnvPrefix = "INTAKEFORGE"

// Snapshot backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	DataDir  string         `mapstructure:"data_dir"`
	Offline  bool           `mapstructure:"offline"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Camera   CameraConfig   `mapstructure:"camera"`
	Image    ImageConfig    `mapstructure:"image"`
	Gallery  GalleryConfig  `mapstructure:"gallery"`
	Packet   PacketConfig   `mapstructure:"packet"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type SnapshotConfig struct {
	Backend string `mapstructure:"backend"`
	// Path is a directory for the file backend and a database file for sqlite.
	Path string `mapstructure:"path"`
}

type CameraConfig struct {
	Device        string        `mapstructure:"device"`
	Command       []string      `mapstructure:"command"`
	ReleaseSettle time.Duration `mapstructure:"release_settle"`
	AttachSettle  time.Duration `mapstructure:"attach_settle"`
}

type ImageConfig struct {
	MaxWidth int `mapstructure:"max_width"`
	Quality  int `mapstructure:"quality"`
}

type GalleryConfig struct {
	Dir    string        `mapstructure:"dir"`
	Settle time.Duration `mapstructure:"settle"`
}

type PacketConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	DICOM     bool   `mapstructure:"dicom"`
	// Opener is the program used to show a rendered packet; empty uses the platform default.
	Opener []string `mapstructure:"opener"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File receives the log while the wizard owns the terminal.
	File string `mapstructure:"file"`
}

// DefaultDataDir returns ~/.local/share/intakeforge, or a relative directory
// when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".intakeforge"
	}
	return filepath.Join(home, ".local", "share", "intakeforge")
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("offline", false)
	v.SetDefault("snapshot.backend", BackendFile)
	v.SetDefault("snapshot.path", "")
	v.SetDefault("camera.device", "/dev/video0")
	v.SetDefault("camera.command", []string{})
	v.SetDefault("camera.release_settle", 300*time.Millisecond)
	v.SetDefault("camera.attach_settle", 100*time.Millisecond)
	v.SetDefault("image.max_width", 600)
	v.SetDefault("image.quality", 80)
	v.SetDefault("gallery.dir", "")
	v.SetDefault("gallery.settle", 500*time.Millisecond)
	v.SetDefault("packet.output_dir", "")
	v.SetDefault("packet.dicom", false)
	v.SetDefault("packet.opener", []string{})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
}

// Load reads the configuration. cfgFile overrides the search path
// ($HOME/.config/intakeforge/config.yaml, then ./config.yaml); a missing
// file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "intakeforge"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePaths fills the locations derived from the data directory.
func (c *Config) resolvePaths() {
	if c.Snapshot.Path == "" {
		c.Snapshot.Path = c.DataDir
		if c.Snapshot.Backend == BackendSQLite {
			c.Snapshot.Path = filepath.Join(c.DataDir, "intake.db")
		}
	}
	if c.Gallery.Dir == "" {
		c.Gallery.Dir = filepath.Join(c.DataDir, "gallery")
	}
	if c.Packet.OutputDir == "" {
		c.Packet.OutputDir = filepath.Join(c.DataDir, "packets")
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(c.DataDir, "intakeforge.log")
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	switch c.Snapshot.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("snapshot.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Snapshot.Backend)
	}

	if c.Camera.ReleaseSettle < 0 || c.Camera.AttachSettle < 0 {
		return fmt.Errorf("camera settle delays must not be negative")
	}

	if c.Image.MaxWidth < 1 {
		return fmt.Errorf("image.max_width must be positive, got %d", c.Image.MaxWidth)
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		return fmt.Errorf("image.quality must be between 1 and 100, got %d", c.Image.Quality)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// Online reports the connectivity shown in the status bar.
func (c *Config) Online() bool {
	return !c.Offline
}
