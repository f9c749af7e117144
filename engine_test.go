package ambient

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *Layer, *Layer) {
	t.Helper()
	world, overlay := NewLayer(), NewLayer()
	opts = append([]Option{WithRand(seeded(99)), WithLogger(zaptest.NewLogger(t))}, opts...)
	e, err := NewEngine(world, overlay, DefaultConfig(), opts...)
	require.NoError(t, err)
	return e, world, overlay
}

func TestEngineBuildsWorld(t *testing.T) {
	e, world, overlay := newTestEngine(t)
	defer e.Close()

	assert.Equal(t, 20, world.CountKind(ShapeSphere))
	assert.Equal(t, 10, world.CountKind(ShapeBox))
	assert.Equal(t, len(e.Network().Graph().Edges()), world.CountKind(ShapeLine))
	assert.Equal(t, 0, overlay.Len())
	assert.NotNil(t, e.Camera())
	assert.NotNil(t, e.Scheduler())
}

func TestEngineSpawnLifecycle(t *testing.T) {
	e, _, overlay := newTestEngine(t)
	defer e.Close()

	b, err := e.Spawn(400, 300, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, overlay.CountKind(ShapeDot))
	assert.Equal(t, 1, e.Stats().Bursts)

	e.Update(frame)
	assert.Equal(t, 20, e.Stats().LiveParticles)

	for range 60 {
		e.Update(frame)
	}

	assert.Equal(t, 0, b.Alive())
	assert.Equal(t, 0, overlay.Len())
	stats := e.Stats()
	assert.Equal(t, 0, stats.Bursts)
	assert.Equal(t, 0, stats.LiveParticles)
	assert.Equal(t, 0, stats.Scheduled)
}

func TestEngineSpawnRejected(t *testing.T) {
	e, _, overlay := newTestEngine(t)
	defer e.Close()

	b, err := e.Spawn(0, 0, 0)
	assert.Nil(t, b)
	assert.True(t, errors.Is(err, ErrInvalidCount))
	assert.Equal(t, 0, overlay.Len())
	assert.Equal(t, 0, e.Scheduler().Len())
}

func TestEngineRevealFlow(t *testing.T) {
	e, _, _ := newTestEngine(t)
	defer e.Close()

	el := NewElement("about", "About", Rect{Width: 100, Height: 100})
	e.Observe(el)
	e.Update(frame)
	assert.Equal(t, 1, e.Stats().PendingReveals)

	el.SetIntersectionRatio(1)
	e.Update(frame)
	assert.Equal(t, 0, e.Stats().PendingReveals)
	assert.Less(t, el.Get(PropOpacity), 0.1, "entrance just started")

	for range 70 {
		e.Update(frame)
	}
	assert.Equal(t, 1.0, el.Get(PropOpacity))
	assert.Equal(t, 0.0, el.Get(PropTranslateY))
	assert.Equal(t, 1, e.Stats().Revealed)
}

func TestEngineUpdateMovesAgents(t *testing.T) {
	e, _, _ := newTestEngine(t)
	defer e.Close()

	before := e.Network().AgentShape(0).Position
	for range 10 {
		e.Update(frame)
	}
	assert.NotEqual(t, before, e.Network().AgentShape(0).Position)
	assert.Equal(t, uint64(10), e.Stats().Frame)
	assert.Equal(t, 10*frame, e.Stats().Now)
}

func TestEngineCameraTracksPointer(t *testing.T) {
	e, _, _ := newTestEngine(t)
	defer e.Close()

	e.Camera().SetPointerScreen(0, 0)
	e.Update(frame)

	assert.Less(t, e.Camera().Position.X, 0.0)
	assert.Greater(t, e.Camera().Position.Y, 0.0)
}

func TestEngineMetrics(t *testing.T) {
	m := NewMetrics()
	e, _, _ := newTestEngine(t, WithMetrics(m))
	defer e.Close()

	_, err := e.Spawn(10, 10, 5)
	require.NoError(t, err)
	for range 5 {
		e.Update(frame)
	}

	assert.Equal(t, 5.0, testutil.ToFloat64(m.Frames))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.Agents))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BurstsSpawned))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.LiveParticles))
}

func TestEngineClose(t *testing.T) {
	e, world, overlay := newTestEngine(t)

	completed := false
	_, err := e.Tween(0, 1, time.Second, EaseLinear, nil, func() { completed = true })
	require.NoError(t, err)
	_, err = e.Spawn(0, 0, 10)
	require.NoError(t, err)
	_, err = e.Ripple(5, 5, 40)
	require.NoError(t, err)
	e.Update(frame)

	e.Close()
	e.Close()

	assert.True(t, e.Closed())
	assert.Equal(t, 0, world.Len())
	assert.Equal(t, 0, overlay.Len())

	frameBefore := e.Stats().Frame
	for range 100 {
		e.Update(frame)
	}
	assert.Equal(t, frameBefore, e.Stats().Frame)
	assert.False(t, completed, "in-flight tween never resumes")

	_, err = e.Spawn(0, 0, 10)
	assert.True(t, errors.Is(err, ErrClosed))
	_, err = e.Tween(0, 1, time.Second, EaseLinear, nil, nil)
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestEngineTextEffectsAfterClose(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Close()

	el := NewElement("title", "Hello", Rect{Width: 10, Height: 10})
	scramble := e.Scramble(el, "World")
	glitch := e.Glitch(el, time.Second)
	e.Update(frame)

	assert.True(t, scramble.Cancelled())
	assert.True(t, glitch.Cancelled())
	assert.False(t, scramble.Done())
	assert.Equal(t, "Hello", el.Text())
	assert.NotPanics(t, scramble.Cancel)
}

func TestEngineReload(t *testing.T) {
	e, _, _ := newTestEngine(t)
	defer e.Close()

	cfg := DefaultConfig()
	cfg.Burst.Decay = 0.5
	require.NoError(t, e.Reload(cfg))

	b, err := e.Spawn(0, 0, 3)
	require.NoError(t, err)
	e.Update(frame)
	e.Update(frame)
	assert.Equal(t, 0, b.Alive(), "reloaded decay applies to new bursts")

	bad := DefaultConfig()
	bad.Burst.Decay = 0
	assert.True(t, errors.Is(e.Reload(bad), ErrInvalidConfig))
	assert.Equal(t, 0.5, e.Config().Burst.Decay)
}

func TestNewEngineErrors(t *testing.T) {
	_, err := NewEngine(nil, NewLayer(), DefaultConfig())
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	cfg := DefaultConfig()
	cfg.Network.Graph.NodeCount = 1
	_, err = NewEngine(NewLayer(), NewLayer(), cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}
