package treelight

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(`
device = "/dev/ttyUSB0"
num_leds = 60
pattern = 4
wait_seconds = 5
clear_on_exit = true
`))
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Device)
	assert.Equal(t, 60, cfg.NumLEDs)
	require.NotNil(t, cfg.Pattern)
	assert.Equal(t, 4, *cfg.Pattern)
	assert.Equal(t, 5, cfg.WaitSeconds)
	assert.True(t, cfg.ClearOnExit)

	// Unset fields keep their defaults.
	assert.Equal(t, 115200, cfg.Baud)
	assert.False(t, cfg.ReportFPS)
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("no LEDs", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.NumLEDs = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("no device", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Device = ""
		assert.Error(t, cfg.Validate())

		// Preview mode needs no device.
		cfg.Preview = true
		assert.NoError(t, cfg.Validate())
	})

	t.Run("pattern out of range", func(t *testing.T) {
		cfg := DefaultConfig()
		bad := NumKinds
		cfg.Pattern = &bad
		assert.Error(t, cfg.Validate())

		ok := NumKinds - 1
		cfg.Pattern = &ok
		assert.NoError(t, cfg.Validate())
	})

	t.Run("negative wait clamps to zero", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.WaitSeconds = -3
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 0, cfg.WaitSeconds)
		assert.Equal(t, time.Duration(0), cfg.Wait())
	})
}

func TestConfigFixedKind(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.FixedKind())

	idx := 2
	cfg.Pattern = &idx
	k := cfg.FixedKind()
	require.NotNil(t, k)
	assert.Equal(t, KindHarmonicDots, *k)
}
