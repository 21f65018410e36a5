package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// SpinMode selects how a settled spin becomes assignments.
type SpinMode string

const (
	SpinModeWheel   SpinMode = "wheel"
	SpinModeShuffle SpinMode = "shuffle"
)

type Config struct {
	Spin    SpinConfig    `toml:"spin"`
	Wheel   WheelConfig   `toml:"wheel"`
	Roster  RosterConfig  `toml:"roster"`
	Logging LoggingConfig `toml:"logging"`
	Keys    KeyConfig     `toml:"keys"`
}

type SpinConfig struct {
	Delay         string   `toml:"delay"`
	MinTurns      int      `toml:"min_turns"`
	Mode          SpinMode `toml:"mode"`
	FrameInterval string   `toml:"frame_interval"`
}

type WheelConfig struct {
	Size       float64 `toml:"size"`
	Saturation float64 `toml:"saturation"`
	Lightness  float64 `toml:"lightness"`
}

// RosterConfig seeds a new session. Nothing is written back.
type RosterConfig struct {
	Members []string `toml:"members"`
	Tasks   []string `toml:"tasks"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type KeyConfig struct {
	Spin  string `toml:"spin"`
	Reset string `toml:"reset"`
	Copy  string `toml:"copy"`
}

func Default() Config {
	return Config{
		Spin: SpinConfig{
			Delay:         "3s",
			MinTurns:      2,
			Mode:          SpinModeWheel,
			FrameInterval: "50ms",
		},
		Wheel: WheelConfig{
			Size:       400,
			Saturation: 0.65,
			Lightness:  0.6,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
			},
		},
		Keys: KeyConfig{
			Spin:  "s",
			Reset: "R",
			Copy:  "y",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := parsePositiveDuration(c.Spin.Delay, true); err != nil {
		return fmt.Errorf("invalid spin.delay: %w", err)
	}
	if _, err := parsePositiveDuration(c.Spin.FrameInterval, false); err != nil {
		return fmt.Errorf("invalid spin.frame_interval: %w", err)
	}
	if c.Spin.MinTurns < 0 {
		return fmt.Errorf("spin.min_turns must be >= 0, got %d", c.Spin.MinTurns)
	}
	switch SpinMode(strings.TrimSpace(strings.ToLower(string(c.Spin.Mode)))) {
	case "", SpinModeWheel, SpinModeShuffle:
	default:
		return fmt.Errorf("invalid spin.mode: %q", c.Spin.Mode)
	}

	if c.Wheel.Size <= 0 {
		return fmt.Errorf("wheel.size must be > 0, got %v", c.Wheel.Size)
	}
	if c.Wheel.Saturation < 0 || c.Wheel.Saturation > 1 {
		return fmt.Errorf("wheel.saturation must be within [0,1], got %v", c.Wheel.Saturation)
	}
	if c.Wheel.Lightness < 0 || c.Wheel.Lightness > 1 {
		return fmt.Errorf("wheel.lightness must be within [0,1], got %v", c.Wheel.Lightness)
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	for field, raw := range map[string]string{"keys.spin": c.Keys.Spin, "keys.reset": c.Keys.Reset, "keys.copy": c.Keys.Copy} {
		if strings.ContainsAny(raw, "\t\n") {
			return fmt.Errorf("invalid %s: %q", field, raw)
		}
	}
	return nil
}

// SpinDelay returns the parsed spin delay, falling back to 3s.
func (c Config) SpinDelay() time.Duration {
	d, err := parsePositiveDuration(c.Spin.Delay, true)
	if err != nil || strings.TrimSpace(c.Spin.Delay) == "" {
		return 3 * time.Second
	}
	return d
}

// FrameInterval returns the parsed animation frame interval, falling back to 50ms.
func (c Config) FrameInterval() time.Duration {
	d, err := parsePositiveDuration(c.Spin.FrameInterval, false)
	if err != nil || d == 0 {
		return 50 * time.Millisecond
	}
	return d
}

// parsePositiveDuration parses raw; empty input yields zero.
func parsePositiveDuration(raw string, allowZero bool) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 || (!allowZero && d == 0) {
		return 0, fmt.Errorf("duration must be positive, got %s", raw)
	}
	return d, nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// WriteDefault writes defaults as TOML to path. An existing file is kept
// unless overwrite is set.
func WriteDefault(path string, defaults Config, overwrite bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("config path is required")
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config: %w", err)
		}
	}
	content, err := toml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
