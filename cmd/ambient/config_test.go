package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/phanxgames/ambient"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDecodeDefaults(t *testing.T) {
	v, err := newViper("")
	require.NoError(t, err)
	cfg, err := decodeConfig(v)
	require.NoError(t, err)
	if diff := cmp.Diff(ambient.DefaultConfig(), cfg); diff != "" {
		t.Errorf("decoded defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigFileOverrides(t *testing.T) {
	path := writeFile(t, "ambient.yaml", `
burst_count: 40
burst:
  decay: 0.05
  palette: ["#ff0000", "#00ff0080"]
reveal:
  duration: 250ms
  easing: easeInOutCubic
camera:
  fog:
    color: "#112233"
network:
  graph:
    nodes: 8
`)
	v, err := newViper(path)
	require.NoError(t, err)
	cfg, err := decodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.BurstCount)
	assert.Equal(t, 0.05, cfg.Burst.Decay)
	assert.Equal(t, []ambient.Color{
		ambient.ColorHex(0xff0000),
		ambient.ColorHex(0x00ff00).WithAlpha(0x80 / 255.0),
	}, cfg.Burst.Palette)
	assert.Equal(t, 250*time.Millisecond, cfg.Reveal.Duration)
	assert.Equal(t, ambient.EaseInOutCubic, cfg.Reveal.Easing)
	assert.Equal(t, ambient.ColorHex(0x112233), cfg.Camera.Fog.Color)
	assert.Equal(t, 8, cfg.Network.Graph.NodeCount)

	// Untouched keys keep their defaults.
	def := ambient.DefaultConfig()
	assert.Equal(t, def.Network.Graph.EdgeCount, cfg.Network.Graph.EdgeCount)
	assert.Equal(t, def.Burst.Speed, cfg.Burst.Speed)
	assert.Equal(t, def.Camera.Fog.Far, cfg.Camera.Fog.Far)
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("AMBIENT_BURST_COUNT", "7")
	t.Setenv("AMBIENT_BURST_DECAY", "0.5")
	t.Setenv("AMBIENT_BURST_PALETTE", "#ff0000,#0000ff")
	t.Setenv("AMBIENT_CAMERA_FOG_COLOR", "#000000")
	t.Setenv("AMBIENT_REVEAL_DURATION", "2s")

	v, err := newViper("")
	require.NoError(t, err)
	cfg, err := decodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.BurstCount)
	assert.Equal(t, 0.5, cfg.Burst.Decay)
	assert.Equal(t, []ambient.Color{ambient.ColorHex(0xff0000), ambient.ColorHex(0x0000ff)}, cfg.Burst.Palette)
	assert.Equal(t, ambient.ColorHex(0), cfg.Camera.Fog.Color)
	assert.Equal(t, 2*time.Second, cfg.Reveal.Duration)
}

func TestConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero decay", "burst:\n  decay: 0\n"},
		{"bad color", "camera:\n  fog:\n    color: \"#zz0000\"\n"},
		{"bad duration", "reveal:\n  duration: soon\n"},
		{"unknown easing", "reveal:\n  easing: wobble\n"},
		{"one node", "network:\n  graph:\n    nodes: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := newViper(writeFile(t, "bad.yaml", tt.body))
			require.NoError(t, err)
			_, err = decodeConfig(v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ambient.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestConfigMissingFile(t *testing.T) {
	_, err := newViper(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func newReloadEngine(t *testing.T) *ambient.Engine {
	t.Helper()
	e, err := ambient.NewEngine(ambient.NewLayer(), ambient.NewLayer(), ambient.DefaultConfig(),
		ambient.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestReloaderAppliesOnNextFrame(t *testing.T) {
	v, err := newViper("")
	require.NoError(t, err)
	r := &reloader{v: v, log: zaptest.NewLogger(t)}
	e := newReloadEngine(t)

	v.Set("burst.decay", 0.08)
	v.Set("burst_count", 12)
	r.onChange(fsnotify.Event{Name: "ambient.yaml", Op: fsnotify.Write})
	assert.Equal(t, 0.02, e.Config().Burst.Decay, "nothing applies until the frame loop asks")

	r.apply(e)
	assert.Equal(t, 0.08, e.Config().Burst.Decay)
	assert.Equal(t, 12, e.Config().BurstCount)

	r.mu.Lock()
	assert.Nil(t, r.pending)
	r.mu.Unlock()
}

func TestReloaderRejectsInvalidChange(t *testing.T) {
	v, err := newViper("")
	require.NoError(t, err)
	r := &reloader{v: v, log: zap.NewNop()}
	e := newReloadEngine(t)

	v.Set("burst.decay", 0)
	r.onChange(fsnotify.Event{Name: "ambient.yaml", Op: fsnotify.Write})
	r.apply(e)
	assert.Equal(t, 0.02, e.Config().Burst.Decay)
}

func TestNilReloaderApply(t *testing.T) {
	var r *reloader
	assert.NotPanics(t, func() { r.apply(newReloadEngine(t)) })
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(false, false, "", true)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.ErrorLevel), "terminal without a log file logs nowhere")

	path := filepath.Join(t.TempDir(), "ambient.log")
	log, err = newLogger(true, true, path, true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
	log.Info("hello")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
