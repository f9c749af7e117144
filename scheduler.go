package ambient

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// FrameFunc is called once per frame with the scheduler clock. Returning
// false unschedules it; it is never called again.
type FrameFunc func(now time.Duration) bool

// Scheduler is the single frame-callback stream every tween, burst and effect
// is driven by. It owns a simulated clock that only moves when Tick is called,
// so everything scheduled on it runs on the caller's goroutine, in
// registration order, with no reentrancy inside a tick.
//
// Callbacks scheduled while a tick is running first run on the next tick,
// matching requestAnimationFrame.
type Scheduler struct {
	now     time.Duration
	frame   uint64
	active  []FrameFunc
	pending []FrameFunc
	closed  bool

	log     *zap.Logger
	metrics *Metrics
}

// NewScheduler creates a scheduler with its clock at zero. log and metrics may
// be nil.
func NewScheduler(log *zap.Logger, metrics *Metrics) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		log:     log.Named("scheduler"),
		metrics: metrics,
	}
}

// Now returns the simulated clock.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Frame returns the number of ticks run so far.
func (s *Scheduler) Frame() uint64 {
	return s.frame
}

// Len returns the number of scheduled callbacks, including ones that have not
// run their first frame yet.
func (s *Scheduler) Len() int {
	return len(s.active) + len(s.pending)
}

// Closed reports whether Close has been called.
func (s *Scheduler) Closed() bool {
	return s.closed
}

// Schedule registers fn to run once per tick, starting with the next one.
// No-op after Close.
func (s *Scheduler) Schedule(fn FrameFunc) {
	if s.closed || fn == nil {
		return
	}
	s.pending = append(s.pending, fn)
}

// After runs fn once, on the first tick at or after delay from now.
func (s *Scheduler) After(delay time.Duration, fn func()) {
	due := s.now + delay
	s.Schedule(func(now time.Duration) bool {
		if now < due {
			return true
		}
		fn()
		return false
	})
}

// Every calls fn on the first tick at or after each interval boundary until fn
// returns false. Missed intervals are not replayed: a long frame fires once.
func (s *Scheduler) Every(interval time.Duration, fn func() bool) {
	next := s.now + interval
	s.Schedule(func(now time.Duration) bool {
		if now < next {
			return true
		}
		next += interval
		if next <= now {
			next = now + interval
		}
		return fn()
	})
}

// Tick advances the clock by dt and runs every scheduled callback once.
// Negative dt is treated as zero. A callback that panics is logged and
// unscheduled; the rest of the frame still runs.
func (s *Scheduler) Tick(dt time.Duration) {
	if s.closed {
		return
	}
	if dt < 0 {
		dt = 0
	}
	s.now += dt
	s.frame++
	s.metrics.frameTicked()

	s.active = append(s.active, s.pending...)
	clear(s.pending)
	s.pending = s.pending[:0]

	kept := s.active[:0]
	for _, fn := range s.active {
		if s.closed {
			break
		}
		if s.run(fn) {
			kept = append(kept, fn)
		}
	}
	if s.closed {
		s.active = nil
		return
	}
	clear(s.active[len(kept):])
	s.active = kept
	s.metrics.setScheduled(s.Len())
}

// run invokes fn, converting a panic into an unschedule.
func (s *Scheduler) run(fn FrameFunc) (keep bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("frame callback panicked, unscheduling",
				zap.Any("panic", r),
				zap.Uint64("frame", s.frame),
			)
			s.metrics.callbackPanicked()
			keep = false
		}
	}()
	return fn(s.now)
}

// Close detaches the scheduler. Every callback is dropped without a final
// call; in-flight tweens stay suspended forever and their completion
// callbacks never fire. Further Schedule and Tick calls are no-ops.
func (s *Scheduler) Close() {
	s.closed = true
	s.active = nil
	s.pending = nil
	s.metrics.setScheduled(0)
}

// Run drives frames from a wall-clock ticker on the calling goroutine until
// ctx is cancelled, then returns ctx.Err(). Each frame calls step with the
// measured delta; a nil step ticks the scheduler directly.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration, step func(dt time.Duration)) error {
	if interval <= 0 {
		return errors.Wrapf(ErrInvalidDuration, "frame interval %v", interval)
	}
	if step == nil {
		step = s.Tick
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			dt := t.Sub(last)
			last = t
			step(dt)
		}
	}
}
