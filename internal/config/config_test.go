package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/fbpong/internal/config"
	"github.com/srlehn/fbpong/internal/consts"
	"github.com/srlehn/fbpong/keyboard"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.Points)
	assert.Equal(t, 100*time.Millisecond, cfg.Interval)
	assert.Equal(t, `w,s,up,down`, cfg.Keys)
	assert.Equal(t, consts.DefaultInput, cfg.Input)
	assert.True(t, cfg.PageFlip)
	assert.True(t, cfg.Console.Raw)
	assert.False(t, cfg.Console.Graphics)

	km, err := cfg.KeyMap()
	require.NoError(t, err)
	assert.Equal(t, keyboard.DefaultKeyMap(), km)
}

func TestDefaultPath(t *testing.T) {
	assert.True(t, strings.HasSuffix(config.DefaultPath(), filepath.Join(`fbpong`, `config.yaml`)), config.DefaultPath())
}

func TestLoadMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), `nope.yaml`))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), `config.yaml`)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
framebuffer: /dev/fb1
keys: auto
grab: true
points: 3
interval: 40ms
linger: 2s
console:
  graphics: true
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, `/dev/fb1`, cfg.Framebuffer)
	assert.True(t, cfg.Grab)
	assert.Equal(t, 3, cfg.Points)
	assert.Equal(t, 40*time.Millisecond, cfg.Interval)
	assert.Equal(t, 2*time.Second, cfg.Linger)
	assert.True(t, cfg.Console.Graphics)
	// untouched defaults
	assert.True(t, cfg.Console.Raw)
	assert.Equal(t, consts.DefaultTTY, cfg.Console.TTY)
	assert.Equal(t, 0.02, cfg.SpeedFactor)

	km, err := cfg.KeyMap()
	require.NoError(t, err)
	assert.Nil(t, km)
}

func TestLoadInvalid(t *testing.T) {
	for _, content := range []string{
		`points: 0`,
		`interval: -1s`,
		`speed_factor: 2`,
		`keys: w,s`,
		`interval: soon`,
		`points: [1`,
	} {
		_, err := config.Load(writeConfig(t, content))
		assert.Error(t, err, content)
	}
}

func TestSave(t *testing.T) {
	cfg := config.Default()
	cfg.Points = 9
	cfg.Interval = 33 * time.Millisecond
	path := filepath.Join(t.TempDir(), `sub`, `config.yaml`)
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `interval: 33ms`)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
