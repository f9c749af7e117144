package ambient

import (
	"slices"
	"time"

	"github.com/cockroachdb/errors"
)

// Property names understood by the built-in effects. Hosts may support more.
const (
	PropOpacity    = "opacity"
	PropTranslateX = "translateX"
	PropTranslateY = "translateY"
	PropScale      = "scale"
)

// Animatable is anything whose named numeric properties a tween can read and
// write. Get returns 0 for properties the target does not track.
type Animatable interface {
	Get(name string) float64
	Set(name string, value float64)
}

// channel is one interpolated property of a Tween.
type channel struct {
	name     string
	from, to float64
	value    float64
}

// Tween is one in-flight interpolation driven by a Scheduler. Progress is
// derived from the scheduler clock on every frame, never accumulated, so the
// final frame always lands exactly on the end values.
//
// Starting a second tween on the same property does not stop the first; use
// Cancel or a Slot when only one may run.
type Tween struct {
	channels   []channel
	easing     string
	start      time.Duration
	duration   time.Duration
	apply      func(t *Tween, progress float64)
	onComplete func()

	sched     *Scheduler
	done      bool
	cancelled bool
}

// Tween starts a scalar tween from from to to over duration. onUpdate receives
// the eased value and the raw progress in [0, 1] every frame; at progress 1 the
// value is exactly to. onComplete fires once after that final update. Either
// callback may be nil. Unknown easing names fall back to linear.
func (s *Scheduler) Tween(from, to float64, duration time.Duration, easing string, onUpdate func(value, progress float64), onComplete func()) (*Tween, error) {
	if duration <= 0 {
		return nil, errors.WithHint(
			errors.Wrapf(ErrInvalidDuration, "tween %v -> %v over %v", from, to, duration),
			"pass a positive duration such as 300*time.Millisecond")
	}
	t := s.newTween(duration, easing, []channel{{from: from, to: to}}, onComplete)
	t.apply = func(t *Tween, progress float64) {
		if onUpdate != nil {
			onUpdate(t.channels[0].value, progress)
		}
	}
	s.Schedule(t.frame)
	return t, nil
}

// PropertyTween describes a multi-property tween over an Animatable.
type PropertyTween struct {
	// Target receives every interpolated value.
	Target Animatable
	// From holds explicit start values. Properties in To that are missing
	// here are sampled from Target when the tween starts.
	From map[string]float64
	// To holds the end value of every animated property.
	To map[string]float64
	// Duration must be positive.
	Duration time.Duration
	// Easing names a curve; unknown names fall back to linear.
	Easing string
	// OnUpdate, if set, runs after the properties are written each frame.
	OnUpdate func(progress float64)
	// OnComplete, if set, runs once after the final frame.
	OnComplete func()
}

// TweenProperties starts a multi-property tween. Properties are written in
// name order each frame.
func (s *Scheduler) TweenProperties(pt PropertyTween) (*Tween, error) {
	if pt.Target == nil || len(pt.To) == 0 {
		return nil, errors.Wrapf(ErrInvalidTween, "property tween needs a target and at least one property (got %d)", len(pt.To))
	}
	if pt.Duration <= 0 {
		return nil, errors.Wrapf(ErrInvalidDuration, "property tween over %v", pt.Duration)
	}

	names := make([]string, 0, len(pt.To))
	for name := range pt.To {
		names = append(names, name)
	}
	slices.Sort(names)

	channels := make([]channel, len(names))
	for i, name := range names {
		from, ok := pt.From[name]
		if !ok {
			from = pt.Target.Get(name)
		}
		channels[i] = channel{name: name, from: from, to: pt.To[name]}
	}

	t := s.newTween(pt.Duration, pt.Easing, channels, pt.OnComplete)
	target, onUpdate := pt.Target, pt.OnUpdate
	t.apply = func(t *Tween, progress float64) {
		for i := range t.channels {
			target.Set(t.channels[i].name, t.channels[i].value)
		}
		if onUpdate != nil {
			onUpdate(progress)
		}
	}
	s.Schedule(t.frame)
	return t, nil
}

func (s *Scheduler) newTween(duration time.Duration, easing string, channels []channel, onComplete func()) *Tween {
	for i := range channels {
		channels[i].value = channels[i].from
	}
	s.metrics.tweenStarted()
	return &Tween{
		channels:   channels,
		easing:     easing,
		start:      s.now,
		duration:   duration,
		onComplete: onComplete,
		sched:      s,
	}
}

// frame is the FrameFunc registered for the tween.
func (t *Tween) frame(now time.Duration) bool {
	if t.done || t.cancelled {
		return false
	}
	elapsed := now - t.start
	progress := min(float64(elapsed)/float64(t.duration), 1)
	if progress < 0 {
		progress = 0
	}
	final := progress >= 1

	// The curve yields a fraction; endpoints stay in float64 so large values
	// interpolate without float32 rounding.
	eased := Ease(t.easing, progress)
	for i := range t.channels {
		ch := &t.channels[i]
		if final {
			ch.value = ch.to
			continue
		}
		ch.value = lerp(ch.from, ch.to, eased)
	}
	t.apply(t, progress)

	if t.cancelled {
		return false
	}
	if !final {
		return true
	}
	t.done = true
	t.sched.metrics.tweenCompleted()
	if t.onComplete != nil {
		t.onComplete()
	}
	return false
}

// Cancel stops the tween before its next frame. No further update or
// completion callback fires. Cancelling a finished tween is a no-op.
func (t *Tween) Cancel() {
	if t == nil || t.done || t.cancelled {
		return
	}
	t.cancelled = true
	t.sched.metrics.tweenCancelled()
}

// Done reports whether the completion callback has fired.
func (t *Tween) Done() bool { return t.done }

// Cancelled reports whether Cancel stopped the tween first.
func (t *Tween) Cancelled() bool { return t.cancelled }

// Duration returns the configured duration.
func (t *Tween) Duration() time.Duration { return t.duration }

// Progress returns the raw progress in [0, 1] at the scheduler's current time.
func (t *Tween) Progress() float64 {
	if t.done {
		return 1
	}
	p := float64(t.sched.Now()-t.start) / float64(t.duration)
	return max(0, min(p, 1))
}

// Value returns the most recently written value of the named property, or of
// the single property of a scalar tween when name is empty.
func (t *Tween) Value(name string) float64 {
	for i := range t.channels {
		if t.channels[i].name == name {
			return t.channels[i].value
		}
	}
	return 0
}

// Slot holds at most one live tween. Replace cancels the previous occupant, so
// a stale tween can never write after a newer one started.
type Slot struct {
	cur *Tween
}

// Replace cancels the current tween, if any, and stores t.
func (s *Slot) Replace(t *Tween) *Tween {
	s.cur.Cancel()
	s.cur = t
	return t
}

// Current returns the stored tween, which may be finished or nil.
func (s *Slot) Current() *Tween { return s.cur }

// Cancel cancels and clears the stored tween.
func (s *Slot) Cancel() {
	s.cur.Cancel()
	s.cur = nil
}
