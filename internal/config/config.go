// Package config holds the persistent settings of fbpong.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rkoesters/xdg/basedir"
	"gopkg.in/yaml.v3"

	"github.com/srlehn/fbpong/internal/consts"
	"github.com/srlehn/fbpong/internal/errors"
	"github.com/srlehn/fbpong/keyboard"
	"github.com/srlehn/fbpong/pong"
)

// Config is read from config.yaml, command line flags take precedence.
type Config struct {
	// Framebuffer device, $FRAMEBUFFER or /dev/fb0 if empty.
	Framebuffer string `yaml:"framebuffer"`
	// Input event device.
	Input       string `yaml:"input"`
	// Keys for p1-up, p1-down, p2-up, p2-down, or "auto".
	Keys        string `yaml:"keys"`
	Grab        bool   `yaml:"grab"`

	Points      int           `yaml:"points"`
	Interval    time.Duration `yaml:"interval"`
	SpeedFactor float64       `yaml:"speed_factor"`
	PaddleStep  int           `yaml:"paddle_step"` // 0: height/30
	Linger      time.Duration `yaml:"linger"`

	PageFlip bool          `yaml:"page_flip"`
	Console  ConsoleConfig `yaml:"console"`
}

type ConsoleConfig struct {
	TTY      string `yaml:"tty"`
	Raw      bool   `yaml:"raw"`
	Graphics bool   `yaml:"graphics"` // KD_GRAPHICS while playing
}

func Default() *Config {
	return &Config{
		Input:       consts.DefaultInput,
		Keys:        keyboard.DefaultKeyMap().String(),
		Points:      pong.DefaultPoints,
		Interval:    pong.DefaultInterval,
		SpeedFactor: pong.DefaultSpeedFactor,
		Linger:      pong.DefaultLinger,
		PageFlip:    true,
		Console: ConsoleConfig{
			TTY: consts.DefaultTTY,
			Raw: true,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/fbpong/config.yaml.
func DefaultPath() string {
	return filepath.Join(basedir.ConfigHome, consts.ProgramName, `config.yaml`)
}

// Load reads the configuration at path over the defaults. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if len(path) == 0 {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, errors.WrapPrefix(err, `failed to read config`, 0)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapPrefix(err, `failed to parse config `+path, 0)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapPrefix(err, path, 0)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if c == nil {
		return errors.NilReceiver()
	}
	if len(path) == 0 {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapPrefix(err, `failed to create config directory`, 0)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.WrapPrefix(err, `failed to marshal config`, 0)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapPrefix(err, `failed to write config`, 0)
	}
	return nil
}

// Validate checks the values against the limits of the game options.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NilReceiver()
	}
	if _, err := c.KeyMap(); err != nil {
		return err
	}
	return pong.CheckOptions(c.GameOptions()...)
}

// KeyMap parses Keys, nil stands for the automatic assignment.
func (c *Config) KeyMap() (keyboard.KeyMap, error) {
	return keyboard.ParseKeyMap(c.Keys)
}

// GameOptions returns the options for [pong.New].
func (c *Config) GameOptions() []pong.Option {
	return []pong.Option{
		pong.SetPoints(c.Points),
		pong.SetInterval(c.Interval),
		pong.SetSpeedFactor(c.SpeedFactor),
		pong.SetPaddleStep(c.PaddleStep),
		pong.SetLinger(c.Linger),
	}
}
