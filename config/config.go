// Package config loads application settings from a TOML file over built-in
// defaults. The engine itself takes only in-memory configuration; this layer
// exists for the CLI and other hosting surfaces.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultConfigFilename is used when no path is supplied.
const DefaultConfigFilename = "deckgen.toml"

// Config is the top-level application configuration.
type Config struct {
	App          AppSettings          `toml:"app"`
	Images       ImageSettings        `toml:"images"`
	Presentation PresentationSettings `toml:"presentation"`
	Logging      LogSettings          `toml:"logging"`
}

// AppSettings holds application-level guardrails.
type AppSettings struct {
	Name            string `toml:"name"`
	MaxUploadSizeMB int64  `toml:"max_upload_size_mb"`
	MaxRows         int    `toml:"max_rows"`
}

// MaxUploadSizeBytes returns the upload cap in bytes.
func (a AppSettings) MaxUploadSizeBytes() int64 {
	return a.MaxUploadSizeMB * 1024 * 1024
}

// ImageSettings bound image loading.
type ImageSettings struct {
	MaxSizeMB       int64 `toml:"max_size_mb"`
	CacheTTLSeconds int   `toml:"cache_ttl_seconds"`
	CacheMaxEntries int   `toml:"cache_max_entries"`
}

// MaxSizeBytes returns the image size cap in bytes.
func (i ImageSettings) MaxSizeBytes() int64 {
	return i.MaxSizeMB * 1024 * 1024
}

// CacheTTL returns the cache lifetime as a duration.
func (i ImageSettings) CacheTTL() time.Duration {
	return time.Duration(i.CacheTTLSeconds) * time.Second
}

// PresentationSettings hold deck layout defaults.
type PresentationSettings struct {
	Orientation           string  `toml:"orientation"`
	PortraitWidthInches   float64 `toml:"portrait_width_inches"`
	PortraitHeightInches  float64 `toml:"portrait_height_inches"`
	LandscapeWidthInches  float64 `toml:"landscape_width_inches"`
	LandscapeHeightInches float64 `toml:"landscape_height_inches"`
	FontSize              float64 `toml:"font_size"`
	ImgWidth              float64 `toml:"img_width"`
	ImgHeight             float64 `toml:"img_height"`
	ImgSizeMode           string  `toml:"img_size_mode"`
	ImgTop                float64 `toml:"img_top"`
	TextTop               float64 `toml:"text_top"`
}

// LogSettings configure slog output.
type LogSettings struct {
	Level  string `toml:"level"`  // debug | info | warn | error
	Format string `toml:"format"` // text | json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		App: AppSettings{
			Name:            "deckgen",
			MaxUploadSizeMB: 200,
			MaxRows:         5000,
		},
		Images: ImageSettings{
			MaxSizeMB:       10,
			CacheTTLSeconds: 3600,
			CacheMaxEntries: 100,
		},
		Presentation: PresentationSettings{
			Orientation:           "portrait",
			PortraitWidthInches:   7.5,
			PortraitHeightInches:  10.0,
			LandscapeWidthInches:  10.0,
			LandscapeHeightInches: 7.5,
			FontSize:              14,
			ImgWidth:              5.5,
			ImgHeight:             4.0,
			ImgSizeMode:           "fit_box",
			ImgTop:                0.5,
			TextTop:               5.0,
		},
		Logging: LogSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads TOML from filePath over the defaults. A missing file with an
// explicitly empty path is not an error; a named file must exist.
func Load(filePath string) (*Config, error) {
	cfg := Default()

	if filePath == "" {
		if _, err := os.Stat(DefaultConfigFilename); err != nil {
			return cfg, nil
		}
		filePath = DefaultConfigFilename
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", filePath, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", filePath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", filePath, err)
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.App.MaxUploadSizeMB <= 0 {
		return errors.New("app.max_upload_size_mb must be positive")
	}
	if c.Images.MaxSizeMB <= 0 {
		return errors.New("images.max_size_mb must be positive")
	}
	if c.Presentation.Orientation != "portrait" && c.Presentation.Orientation != "landscape" {
		return fmt.Errorf("presentation.orientation must be portrait or landscape, got %q", c.Presentation.Orientation)
	}
	switch c.Presentation.ImgSizeMode {
	case "fit_box", "fit_width", "fit_height", "stretch":
	default:
		return fmt.Errorf("presentation.img_size_mode %q is not valid", c.Presentation.ImgSizeMode)
	}
	return nil
}
