package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ImageExt        []string      `mapstructure:"image_extensions"`
	VideoExt        []string      `mapstructure:"video_extensions"`
	Reader          string        `mapstructure:"reader"`
	ExifToolPath    string        `mapstructure:"exiftool_path"`
	MetadataTimeout time.Duration `mapstructure:"metadata_timeout"`
	Workers         int           `mapstructure:"workers"`
	Dedup           string        `mapstructure:"dedup"`
	WriteRetries    uint          `mapstructure:"write_retries"`
	LogFile         string        `mapstructure:"log_file"`
	LogLevel        string        `mapstructure:"log_level"`
	StateDir        string        `mapstructure:"state_dir"`
	Sessions        bool          `mapstructure:"sessions"`
}

// Reader backends.
const (
	ReaderAuto     = "auto"
	ReaderExifTool = "exiftool"
	ReaderNative   = "native"
)

// LoadConfig reads exfix.toml from the user config dir, falling back to
// defaults when the file does not exist.
func LoadConfig() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to find user config dir: %w", err)
	}
	return LoadConfigFrom(filepath.Join(configDir, "exfix"))
}

// LoadConfigFrom reads exfix.toml from dir. EXFIX_* environment variables
// override file values.
func LoadConfigFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("exfix")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("EXFIX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("image_extensions", []string{
		".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp", ".gif", ".webp",
		".heic", ".raw", ".cr2", ".nef", ".orf", ".arw",
	})
	v.SetDefault("video_extensions", []string{".mp4", ".mov", ".m4v", ".3gp", ".avi", ".mkv"})
	v.SetDefault("reader", ReaderAuto)
	v.SetDefault("exiftool_path", "")
	v.SetDefault("metadata_timeout", 30*time.Second)
	v.SetDefault("workers", 4)
	v.SetDefault("dedup", "first-seen")
	v.SetDefault("write_retries", 3)
	v.SetDefault("log_file", filepath.Join(dir, "exfix.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("state_dir", dir)
	v.SetDefault("sessions", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values a typo could break.
func (c *Config) Validate() error {
	switch c.Reader {
	case ReaderAuto, ReaderExifTool, ReaderNative:
	default:
		return fmt.Errorf("invalid reader %q: want auto, exiftool or native", c.Reader)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers %d: must be at least 1", c.Workers)
	}
	return nil
}

// IsImage reports whether path has a configured image extension.
func (c *Config) IsImage(path string) bool {
	return hasExt(path, c.ImageExt)
}

// IsVideo reports whether path has a configured video extension.
func (c *Config) IsVideo(path string) bool {
	return hasExt(path, c.VideoExt)
}

// IsMedia reports whether path is an image or a video.
func (c *Config) IsMedia(path string) bool {
	return c.IsImage(path) || c.IsVideo(path)
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
