package engine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config drives Context construction. Hand-built configs should start from
// DefaultConfig; LoadConfig overlays a YAML document onto those defaults.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Physics PhysicsConfig `yaml:"physics"`
	Log     LogConfig     `yaml:"log"`
	Scene   string        `yaml:"scene,omitempty"`
}

// WindowConfig sizes the host window. Headless hosts ignore it.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// PhysicsConfig tunes the default physics world. FixedStep and MaxSubSteps
// fall back to the dynamics defaults when zero.
type PhysicsConfig struct {
	Gravity     [3]float64 `yaml:"gravity,flow"`
	FixedStep   float64    `yaml:"fixedStep,omitempty"`
	MaxSubSteps int        `yaml:"maxSubSteps,omitempty"`
}

// LogConfig selects the logger build
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration an empty document yields
func DefaultConfig() Config {
	return Config{
		Window:  WindowConfig{Title: "vane", Width: 1280, Height: 720},
		Physics: PhysicsConfig{Gravity: [3]float64{0, -9.81, 0}},
		Log:     LogConfig{Level: "info"},
	}
}

// Validate reports the first problem with the configuration
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window %dx%d is not a size", c.Window.Width, c.Window.Height)
	}
	if c.Physics.FixedStep < 0 {
		return fmt.Errorf("config: negative fixed step %v", c.Physics.FixedStep)
	}
	if c.Physics.MaxSubSteps < 0 {
		return fmt.Errorf("config: negative sub-step bound %d", c.Physics.MaxSubSteps)
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("config: log level: %w", err)
		}
	}
	return nil
}

// LoadConfig decodes a YAML configuration over the defaults, so a partial
// document only overrides what it names. An empty document yields the
// defaults unchanged.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads the YAML configuration at path
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}
