package ambient

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
)

// Defaults for the page effects.
const (
	DefaultStaggerStep     = 100 * time.Millisecond
	DefaultCountUpDuration = 2 * time.Second
	DefaultScrollDuration  = time.Second
	DefaultRippleDuration  = 600 * time.Millisecond
	MagneticRadius         = 150.0
	DefaultMagneticPull    = 30.0
)

// Stagger starts one property tween per target, the i-th delayed by i*step.
// All targets share to, duration and easing. A step <= 0 uses
// DefaultStaggerStep. The returned Effect completes when the last tween does;
// cancelling it cancels every started tween and skips any not yet started.
func Stagger(sched *Scheduler, targets []Animatable, to map[string]float64, duration, step time.Duration, easing string) (*Effect, error) {
	if duration <= 0 {
		return nil, errors.Wrapf(ErrInvalidDuration, "stagger duration %v", duration)
	}
	if len(to) == 0 {
		return nil, errors.Wrap(ErrInvalidTween, "stagger with no properties")
	}
	if step <= 0 {
		step = DefaultStaggerStep
	}

	e := &Effect{}
	if len(targets) == 0 {
		e.finish()
		return e, nil
	}
	tweens := make([]*Tween, 0, len(targets))
	e.onCancel = func() {
		for _, t := range tweens {
			t.Cancel()
		}
	}
	remaining := len(targets)
	for i, target := range targets {
		sched.After(time.Duration(i)*step, func() {
			if !e.live() {
				return
			}
			t, err := sched.TweenProperties(PropertyTween{
				Target:   target,
				To:       to,
				Duration: duration,
				Easing:   easing,
				OnComplete: func() {
					remaining--
					if remaining == 0 {
						e.finish()
					}
				},
			})
			if err != nil {
				// Only a nil target gets here; count it as finished.
				remaining--
				if remaining == 0 {
					e.finish()
				}
				return
			}
			tweens = append(tweens, t)
		})
	}
	return e, nil
}

// CountUp counts from 0 to target over duration with easeOutQuad, calling set
// with the floored value every frame. The final call is exactly target. A
// duration <= 0 uses DefaultCountUpDuration.
func CountUp(sched *Scheduler, target int, duration time.Duration, set func(int)) (*Tween, error) {
	if duration <= 0 {
		duration = DefaultCountUpDuration
	}
	return sched.Tween(0, float64(target), duration, EaseOutQuad, func(v, progress float64) {
		if progress >= 1 {
			set(target)
			return
		}
		set(int(math.Floor(v)))
	}, nil)
}

// ParallaxOffset returns the translateY for a layer scrolled to scrollY that
// moves at speed relative to the page.
func ParallaxOffset(scrollY, speed float64) float64 {
	return -scrollY * speed
}

// Parallax binds a set of targets to per-target scroll speeds.
type Parallax struct {
	targets []Animatable
	speeds  []float64
}

// Add registers target to move at speed.
func (p *Parallax) Add(target Animatable, speed float64) {
	p.targets = append(p.targets, target)
	p.speeds = append(p.speeds, speed)
}

// Len returns the number of registered targets.
func (p *Parallax) Len() int { return len(p.targets) }

// Apply writes translateY for every target at scroll position scrollY.
func (p *Parallax) Apply(scrollY float64) {
	for i, t := range p.targets {
		t.Set(PropTranslateY, ParallaxOffset(scrollY, p.speeds[i]))
	}
}

// MagneticOffset returns the translate an element centered at center takes
// when the pointer is at pointer. Within MagneticRadius the element leans
// toward the pointer by min(strength, dist/5); outside it, and exactly on the
// center, the offset is zero.
func MagneticOffset(pointer, center Vec2, strength float64) Vec2 {
	dx := pointer.X - center.X
	dy := pointer.Y - center.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 || dist >= MagneticRadius {
		return Vec2{}
	}
	pull := math.Min(strength, dist/5)
	return Vec2{X: dx / dist * pull, Y: dy / dist * pull}
}

// Magnet applies MagneticOffset to an element's translate properties.
type Magnet struct {
	Target   Animatable
	Center   Vec2
	Strength float64
}

// Move updates the target for a pointer position.
func (m Magnet) Move(pointer Vec2) {
	off := MagneticOffset(pointer, m.Center, m.Strength)
	m.Target.Set(PropTranslateX, off.X)
	m.Target.Set(PropTranslateY, off.Y)
}

// Leave resets the target's translate.
func (m Magnet) Leave() {
	m.Target.Set(PropTranslateX, 0)
	m.Target.Set(PropTranslateY, 0)
}

// Scroller is a vertically scrollable viewport.
type Scroller interface {
	ScrollY() float64
	SetScrollY(y float64)
}

// SmoothScroll animates s from its current position to targetY with
// easeInOutCubic. Starting a new scroll on the same slot cancels the previous
// one, so two scrolls never fight over the position. A duration <= 0 uses
// DefaultScrollDuration.
func SmoothScroll(sched *Scheduler, slot *Slot, s Scroller, targetY float64, duration time.Duration) (*Tween, error) {
	if duration <= 0 {
		duration = DefaultScrollDuration
	}
	start := s.ScrollY()
	distance := targetY - start
	t, err := sched.Tween(0, 1, duration, EaseInOutCubic, func(p, _ float64) {
		s.SetScrollY(start + distance*p)
	}, nil)
	if err != nil {
		return nil, err
	}
	if slot != nil {
		slot.Replace(t)
	}
	return t, nil
}

// Ripple adds a ring at (x, y) to layer that grows from scale 0 to 1 while
// fading out over DefaultRippleDuration, then removes it.
func Ripple(sched *Scheduler, layer Scene, x, y, size float64, color Color) (*Tween, error) {
	ring := NewShape("ripple", ShapeRing)
	ring.Position = Vec3{X: x, Y: y}
	ring.Size = size
	ring.Color = color
	ring.Scale = 0
	layer.Add(ring)

	t, err := sched.Tween(0, 1, DefaultRippleDuration, EaseOutQuad, func(v, _ float64) {
		ring.Scale = v
		ring.Opacity = 1 - v
	}, func() {
		layer.Remove(ring)
	})
	if err != nil {
		layer.Remove(ring)
		return nil, err
	}
	return t, nil
}
