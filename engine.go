package ambient

import (
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// debugEvery is how many frames pass between debug stat lines.
const debugEvery = 60

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetrics reports engine activity to m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithRand sets the random source for the graph, agents, bursts and text
// effects. Pass a seeded generator for reproducible runs.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// Stats is a snapshot of engine activity.
type Stats struct {
	Frame          uint64
	Now            time.Duration
	Scheduled      int
	Bursts         int
	LiveParticles  int
	Agents         int
	Rebinds        int
	PendingReveals int
	Revealed       int
}

// Engine wires the scheduler, traffic network, bursts, reveal observer and
// camera into one per-frame update. The world scene receives the network;
// the overlay scene receives bursts and ripples.
type Engine struct {
	cfg     Config
	world   Scene
	overlay *trackedScene

	sched   *Scheduler
	network *Network
	reveal  *RevealObserver
	camera  *Camera
	bursts  []*Burst
	rebinds int

	rng     *rand.Rand
	log     *zap.Logger
	metrics *Metrics
	closed  bool
}

// NewEngine validates cfg and builds every subsystem. Nothing runs until the
// first Update.
func NewEngine(world, overlay Scene, cfg Config, opts ...Option) (*Engine, error) {
	if world == nil || overlay == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "engine needs a world and an overlay scene")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		world:   world,
		overlay: &trackedScene{Scene: overlay, shapes: make(map[*Shape]struct{})},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = newRand()
	}

	e.sched = NewScheduler(e.log, e.metrics)
	network, err := NewNetwork(world, cfg.Network, e.rng, e.log)
	if err != nil {
		return nil, errors.Wrap(err, "build network")
	}
	e.network = network
	e.reveal, err = NewRevealObserver(e.sched, cfg.Reveal, e.log)
	if err != nil {
		network.Close()
		return nil, errors.Wrap(err, "build reveal observer")
	}
	e.camera = NewCamera(cfg.Camera, float64(cfg.Width), float64(cfg.Height))
	e.metrics.setAgents(network.Swarm().Len())

	e.log.Info("engine started",
		zap.Int("nodes", len(network.Graph().Nodes())),
		zap.Int("edges", len(network.Graph().Edges())),
		zap.Int("agents", network.Swarm().Len()),
	)
	return e, nil
}

// Update advances one frame by dt: reveal polling, every scheduled callback,
// the network, then the camera. No-op after Close.
func (e *Engine) Update(dt time.Duration) {
	if e.closed {
		return
	}
	e.reveal.Update()
	e.sched.Tick(dt)

	n := e.network.Update(e.sched.Now())
	e.rebinds += n
	e.metrics.agentsRebound(n)
	e.camera.Update()

	e.metrics.setLiveParticles(e.liveParticles())
	if e.cfg.Debug && e.sched.Frame()%debugEvery == 0 {
		s := e.Stats()
		e.log.Debug("frame",
			zap.Uint64("frame", s.Frame),
			zap.Duration("now", s.Now),
			zap.Int("scheduled", s.Scheduled),
			zap.Int("bursts", s.Bursts),
			zap.Int("particles", s.LiveParticles),
			zap.Int("rebinds", s.Rebinds),
			zap.Int("pending_reveals", s.PendingReveals),
		)
	}
}

// Spawn starts a particle burst of count particles at (x, y) on the overlay
// using the configured burst settings. On error nothing is added or scheduled.
func (e *Engine) Spawn(x, y float64, count int) (*Burst, error) {
	if e.closed {
		return nil, ErrClosed
	}
	b, err := NewBurst(e.overlay, x, y, count, e.cfg.Burst, e.rng)
	if err != nil {
		return nil, err
	}
	e.bursts = append(e.bursts, b)
	e.sched.Schedule(func(now time.Duration) bool {
		if b.frame(now) {
			return true
		}
		e.dropBurst(b)
		return false
	})
	e.metrics.burstSpawned()
	return b, nil
}

func (e *Engine) dropBurst(b *Burst) {
	for i, cur := range e.bursts {
		if cur == b {
			e.bursts = append(e.bursts[:i], e.bursts[i+1:]...)
			return
		}
	}
}

func (e *Engine) liveParticles() int {
	n := 0
	for _, b := range e.bursts {
		n += b.Alive()
	}
	return n
}

// Tween starts a scalar tween on the engine scheduler.
func (e *Engine) Tween(from, to float64, duration time.Duration, easing string, onUpdate func(value, progress float64), onComplete func()) (*Tween, error) {
	if e.closed {
		return nil, ErrClosed
	}
	return e.sched.Tween(from, to, duration, easing, onUpdate, onComplete)
}

// TweenProperties starts a property tween on the engine scheduler.
func (e *Engine) TweenProperties(pt PropertyTween) (*Tween, error) {
	if e.closed {
		return nil, ErrClosed
	}
	return e.sched.TweenProperties(pt)
}

// Observe registers el with the reveal observer.
func (e *Engine) Observe(el Revealable) {
	if e.closed {
		return
	}
	e.reveal.Observe(el)
}

// Scramble runs a scramble effect using the engine's random source. After
// Close the returned Effect is already cancelled and sink is left alone.
func (e *Engine) Scramble(sink TextSink, final string) *Effect {
	if e.closed {
		return &Effect{cancelled: true}
	}
	return Scramble(e.sched, sink, final, e.rng)
}

// Glitch runs a glitch effect using the engine's random source. After Close
// the returned Effect is already cancelled.
func (e *Engine) Glitch(sink TextSink, duration time.Duration) *Effect {
	if e.closed {
		return &Effect{cancelled: true}
	}
	return Glitch(e.sched, sink, duration, e.rng)
}

// Ripple adds a ripple ring to the overlay.
func (e *Engine) Ripple(x, y, size float64) (*Tween, error) {
	if e.closed {
		return nil, ErrClosed
	}
	return Ripple(e.sched, e.overlay, x, y, size, ColorWhite.WithAlpha(0.5))
}

// Reload applies the burst and reveal sections of cfg to future bursts and
// reveals. The network and camera keep their build-time settings. An invalid
// cfg is rejected and nothing changes.
func (e *Engine) Reload(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := e.reveal.SetConfig(cfg.Reveal); err != nil {
		return err
	}
	e.cfg.Burst = cfg.Burst
	e.cfg.Reveal = cfg.Reveal
	e.cfg.BurstCount = cfg.BurstCount
	e.cfg.Debug = cfg.Debug
	e.log.Info("config reloaded",
		zap.Float64("burst_decay", cfg.Burst.Decay),
		zap.Duration("reveal_duration", cfg.Reveal.Duration),
	)
	return nil
}

// Config returns the active configuration.
func (e *Engine) Config() Config { return e.cfg }

// Scheduler returns the engine's frame scheduler.
func (e *Engine) Scheduler() *Scheduler { return e.sched }

// Network returns the traffic network.
func (e *Engine) Network() *Network { return e.network }

// Camera returns the camera.
func (e *Engine) Camera() *Camera { return e.camera }

// Reveal returns the reveal observer.
func (e *Engine) Reveal() *RevealObserver { return e.reveal }

// Rand returns the engine's random source.
func (e *Engine) Rand() *rand.Rand { return e.rng }

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool { return e.closed }

// Stats returns a snapshot of engine activity.
func (e *Engine) Stats() Stats {
	return Stats{
		Frame:          e.sched.Frame(),
		Now:            e.sched.Now(),
		Scheduled:      e.sched.Len(),
		Bursts:         len(e.bursts),
		LiveParticles:  e.liveParticles(),
		Agents:         e.network.Swarm().Len(),
		Rebinds:        e.rebinds,
		PendingReveals: e.reveal.Pending(),
		Revealed:       e.reveal.Revealed(),
	}
}

// Close stops the engine: every scheduled callback is dropped, in-flight
// tweens never complete, and every shape the engine added is removed from
// both scenes. Safe to call more than once.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.sched.Close()
	for _, b := range e.bursts {
		b.Release()
	}
	e.bursts = nil
	e.overlay.clear()
	e.network.Close()
	e.metrics.setLiveParticles(0)
	e.log.Info("engine closed", zap.Uint64("frames", e.sched.Frame()))
}

// trackedScene remembers the overlay shapes the engine added so Close can
// take back the ones whose owners never finished.
type trackedScene struct {
	Scene
	shapes map[*Shape]struct{}
}

func (t *trackedScene) Add(s *Shape) {
	if s == nil {
		return
	}
	t.shapes[s] = struct{}{}
	t.Scene.Add(s)
}

func (t *trackedScene) Remove(s *Shape) {
	delete(t.shapes, s)
	t.Scene.Remove(s)
}

func (t *trackedScene) clear() {
	for s := range t.shapes {
		t.Scene.Remove(s)
	}
	clear(t.shapes)
}
