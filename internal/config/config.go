package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted as YAML in the user
// config directory. Environment variables are read-only overrides.
type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	Model         ModelConfig    `yaml:"model"`
	Logging       LoggingConfig  `yaml:"logging"`
	Window        WindowConfig   `yaml:"window"`
	Viewport      ViewportConfig `yaml:"viewport"`
}

type ModelConfig struct {
	Path    string `yaml:"path"`
	Scale   int    `yaml:"scale"`
	Backend string `yaml:"backend"` // "default" | "opencv"
	Target  string `yaml:"target"`  // "cpu" | "opencl"
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ViewportConfig struct {
	// WheelUnitsPerDelta converts one unit of toolkit scroll delta into
	// 1/120-notch wheel units.
	WheelUnitsPerDelta float64 `yaml:"wheel_units_per_delta"`
}

const (
	EnvConfigPath = "DEPIXEL_CONFIG"
	EnvModelPath  = "DEPIXEL_MODEL_PATH"
	EnvModelScale = "DEPIXEL_MODEL_SCALE"
	EnvLogLevel   = "DEPIXEL_LOG_LEVEL"
	EnvLogFormat  = "DEPIXEL_LOG_FORMAT"
	EnvLogFile    = "DEPIXEL_LOG_FILE"
)

func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Model:         ModelConfig{Path: "BSRGAN.onnx", Scale: 4, Backend: "default", Target: "cpu"},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
		Window:        WindowConfig{Width: 1200, Height: 800},
		Viewport:      ViewportConfig{WheelUnitsPerDelta: 12},
	}
}

// Path returns the config file location, honouring DEPIXEL_CONFIG.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "depixel", "config.yaml"), nil
}

// Load reads the config file if present, applies defaults and then the
// environment overrides. A missing file is not an error; a malformed one is.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	if err := LoadFile(path, &cfg); err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// LoadFile merges the YAML file at path into cfg.
func LoadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fileCfg AppConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	mergeInto(cfg, &fileCfg)
	return nil
}

// SaveWindow records the window size in the config file. Other values in
// the file are kept as written; environment overrides are never persisted.
func SaveWindow(window WindowConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}

	cfg := Defaults()
	if err := LoadFile(path, &cfg); err != nil {
		return err
	}
	cfg.Window = window
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.TrimSpace(src.Model.Path); v != "" {
		dst.Model.Path = v
	}
	if src.Model.Scale > 0 {
		dst.Model.Scale = src.Model.Scale
	}
	if v := strings.TrimSpace(src.Model.Backend); v != "" {
		dst.Model.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Model.Target); v != "" {
		dst.Model.Target = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
	if src.Window.Width > 0 {
		dst.Window.Width = src.Window.Width
	}
	if src.Window.Height > 0 {
		dst.Window.Height = src.Window.Height
	}
	if src.Viewport.WheelUnitsPerDelta > 0 {
		dst.Viewport.WheelUnitsPerDelta = src.Viewport.WheelUnitsPerDelta
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvModelPath)); v != "" {
		cfg.Model.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvModelScale)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Model.Scale = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
