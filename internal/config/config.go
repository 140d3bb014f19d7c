package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds user-wide editor settings loaded from ~/.kilo/config.json.
type Config struct {
	TabStop           int    `json:"tab_stop,omitempty"`            // display width of a tab
	QuitTimes         int    `json:"quit_times,omitempty"`          // Ctrl-Q presses to discard changes
	MessageTimeoutSec int    `json:"message_timeout_sec,omitempty"` // status message lifetime
	ReadTimeoutMs     int    `json:"read_timeout_ms,omitempty"`     // raw-mode read timeout
	DebugLog          string `json:"debug_log,omitempty"`           // path of the debug log, "" = off
}

// configFileName is the configuration file path relative to the home directory.
const configFileName = ".kilo/config.json"

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		TabStop:           8,
		QuitTimes:         3,
		MessageTimeoutSec: 5,
		ReadTimeoutMs:     100,
	}
}

// Load reads ~/.kilo/config.json under home on top of the defaults, then
// applies KILO_TAB_STOP, KILO_QUIT_TIMES and KILO_DEBUG_LOG. A missing file
// is not an error.
func Load(home string) (*Config, error) {
	cfg := Default()

	if home != "" {
		path := filepath.Join(home, configFileName)
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", configFileName, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("KILO_TAB_STOP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("KILO_TAB_STOP: %w", err)
		}
		c.TabStop = n
	}
	if v := os.Getenv("KILO_QUIT_TIMES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("KILO_QUIT_TIMES: %w", err)
		}
		c.QuitTimes = n
	}
	if v := os.Getenv("KILO_DEBUG_LOG"); v != "" {
		c.DebugLog = v
	}
	return nil
}

// Validate rejects settings the editor cannot work with.
func (c *Config) Validate() error {
	if c.TabStop < 1 || c.TabStop > 16 {
		return fmt.Errorf("tab_stop %d out of range 1..16", c.TabStop)
	}
	if c.QuitTimes < 1 {
		return fmt.Errorf("quit_times must be at least 1, got %d", c.QuitTimes)
	}
	if c.MessageTimeoutSec < 0 {
		return fmt.Errorf("message_timeout_sec must not be negative, got %d", c.MessageTimeoutSec)
	}
	if c.ReadTimeoutMs < 0 {
		return fmt.Errorf("read_timeout_ms must not be negative, got %d", c.ReadTimeoutMs)
	}
	return nil
}

// MessageTimeout returns how long a status message stays on screen.
func (c *Config) MessageTimeout() time.Duration {
	return time.Duration(c.MessageTimeoutSec) * time.Second
}

// ReadTimeout returns the raw-mode read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}
