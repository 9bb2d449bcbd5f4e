package krasue

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes the window and frame pacing of an Invocation.
type Config struct {
	Title    string         `yaml:"title"`
	Width    int            `yaml:"width"`
	Height   int            `yaml:"height"`
	Behavior RenderBehavior `yaml:"behavior"`
	// Interval is the minimum time between draws in conservative mode.
	Interval time.Duration `yaml:"interval"`
	// ClearColor is an 8-bit RGB triple; channels are clamped to [0, 255].
	ClearColor [3]int `yaml:"clear_color"`
	// TPS is the update rate. Zero keeps Ebitengine's default of 60.
	TPS   int  `yaml:"tps"`
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns a 640x480 window drawing every frame.
func DefaultConfig() Config {
	return Config{
		Title:    "A spooky window",
		Width:    640,
		Height:   480,
		Behavior: RenderEachFrame,
		Interval: time.Second / 30,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("krasue: config: window size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Behavior != RenderEachFrame && c.Behavior != RenderConservative {
		return fmt.Errorf("krasue: config: %v", c.Behavior)
	}
	if c.Behavior == RenderConservative && c.Interval <= 0 {
		return errors.New("krasue: config: conservative rendering needs a positive interval")
	}
	if c.TPS < 0 {
		return fmt.Errorf("krasue: config: tps %d must not be negative", c.TPS)
	}
	return nil
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("krasue: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("krasue: load config: %w", err)
	}
	return ParseConfig(data)
}
