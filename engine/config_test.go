package engine_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/plus3/vane/engine"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, engine.DefaultConfig().Validate())
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	doc := `
window:
  width: 640
physics:
  gravity: [0, -3.71, 0]
log:
  level: debug
`
	cfg, err := engine.LoadConfig(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "untouched fields keep their defaults")
	assert.Equal(t, "vane", cfg.Window.Title)
	assert.Equal(t, [3]float64{0, -3.71, 0}, cfg.Physics.Gravity)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigEmptyDocument(t *testing.T) {
	cfg, err := engine.LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultConfig(), cfg)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	_, err := engine.LoadConfig(strings.NewReader("window: ["))
	assert.Error(t, err)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := engine.LoadConfigFile("does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*engine.Config)
		ok     bool
	}{
		{"defaults", func(*engine.Config) {}, true},
		{"zero width", func(c *engine.Config) { c.Window.Width = 0 }, false},
		{"negative height", func(c *engine.Config) { c.Window.Height = -1 }, false},
		{"negative fixed step", func(c *engine.Config) { c.Physics.FixedStep = -0.1 }, false},
		{"negative sub-step bound", func(c *engine.Config) { c.Physics.MaxSubSteps = -1 }, false},
		{"bad log level", func(c *engine.Config) { c.Log.Level = "chatty" }, false},
		{"empty log level", func(c *engine.Config) { c.Log.Level = "" }, true},
		{"custom step tuning", func(c *engine.Config) {
			c.Physics.FixedStep = 1.0 / 240.0
			c.Physics.MaxSubSteps = 4
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := engine.DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	log, err := engine.NewLogger(engine.LogConfig{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = engine.NewLogger(engine.LogConfig{})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))

	_, err = engine.NewLogger(engine.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}
