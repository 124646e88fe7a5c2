package inline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds render loop settings.
type Config struct {
	// Upper bound on frames per second; 0 disables throttling
	MaxFPS int `toml:"max_fps"`

	// Interval between tick events in milliseconds; 0 disables ticks
	TickMillis int `toml:"tick_ms"`

	// Capacity of the async message queue
	MessageBuffer int `toml:"message_buffer"`

	// Whether the quit keys end the loop
	ExitOnCtrlC bool `toml:"exit_on_ctrl_c"`

	// Keys that end the loop, in bubbles key notation ("ctrl+c", "q", "esc")
	QuitKeys []string `toml:"quit_keys"`

	// Wrap frames in synchronized output mode
	SynchronizedOutput bool `toml:"synchronized_output"`

	// Hide the cursor while mounted
	HideCursor bool `toml:"hide_cursor"`

	// Write debug logs to this file (empty = disabled)
	DebugLog string `toml:"debug_log"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxFPS:             60,
		TickMillis:         100,
		MessageBuffer:      32,
		ExitOnCtrlC:        true,
		QuitKeys:           []string{"ctrl+c"},
		SynchronizedOutput: true,
		HideCursor:         true,
	}
}

// TickInterval returns TickMillis as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

// DefaultConfigPath returns $INLINE_CONFIG or the per-user config file.
func DefaultConfigPath() (string, error) {
	if p := os.Getenv("INLINE_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "inline", "config.toml"), nil
}

// LoadConfig reads path over the defaults. A missing file yields defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config as TOML, creating parent directories.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	if c.MaxFPS < 0 {
		c.MaxFPS = 0
	}
	if c.TickMillis < 0 {
		c.TickMillis = 0
	}
	if c.MessageBuffer < 0 {
		c.MessageBuffer = 0
	}
	if len(c.QuitKeys) == 0 {
		c.QuitKeys = []string{"ctrl+c"}
	}
}
