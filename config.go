package treelight

import (
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config is the configuration for the treelight daemon.
type Config struct {
	// Device is the path to the serial device for the strip controller.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
	// NumLEDs is the number of LEDs on the strip.
	NumLEDs int `toml:"num_leds"`
	// Pattern optionally pins every scene to one pattern index. When unset,
	// each scene picks a pattern at random.
	Pattern *int `toml:"pattern,omitempty"`
	// WaitSeconds is how long each scene plays before the next transition
	// starts. Negative values are treated as zero.
	WaitSeconds int `toml:"wait_seconds"`
	// ReportFPS enables a frame count report once per second.
	ReportFPS bool `toml:"report_fps"`
	// Verbose enables debug logging, including scene announcements.
	Verbose bool `toml:"verbose"`
	// ClearOnExit blanks the strip when the daemon shuts down.
	ClearOnExit bool `toml:"clear_on_exit"`
	// Preview renders the strip on the terminal instead of real hardware.
	Preview bool `toml:"preview"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Device:      "/dev/ttyACM0",
		Baud:        115200,
		NumLEDs:     100,
		WaitSeconds: 20,
	}
}

// Validate validates the configuration. It also clamps a negative wait to
// zero, so a validated config always has a usable wait duration.
func (c *Config) Validate() error {
	if c.NumLEDs <= 0 {
		return errors.New("no LEDs configured")
	}
	if !c.Preview && c.Device == "" {
		return errors.New("no serial device configured")
	}
	if c.Pattern != nil && (*c.Pattern < 0 || *c.Pattern >= NumKinds) {
		return fmt.Errorf("pattern index %d out of range 0..%d", *c.Pattern, NumKinds-1)
	}
	if c.WaitSeconds < 0 {
		c.WaitSeconds = 0
	}
	return nil
}

// Wait returns the scene duration.
func (c *Config) Wait() time.Duration {
	return time.Duration(c.WaitSeconds) * time.Second
}

// FixedKind returns the pinned pattern kind, or nil when scenes are random.
func (c *Config) FixedKind() *Kind {
	if c.Pattern == nil {
		return nil
	}
	k := Kind(*c.Pattern)
	return &k
}

// ParseConfig parses a configuration from a reader, on top of the defaults.
func ParseConfig(r io.Reader) (*Config, error) {
	config := DefaultConfig()
	if err := toml.NewDecoder(r).Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}
