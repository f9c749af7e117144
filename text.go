package ambient

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Defaults for the text effects.
const (
	DefaultTypeInterval    = 50 * time.Millisecond
	DefaultScrambleTick    = 30 * time.Millisecond
	DefaultGlitchTick      = 50 * time.Millisecond
	DefaultGlitchDuration  = 200 * time.Millisecond
	scrambleRevealPerTick  = 1.0 / 3
	glitchReplaceThreshold = 0.8
)

// glyphs are the stand-in characters used by Scramble and Glitch.
var glyphs = []rune(`!<>-_\/[]{}—=+*^?#________`)

// Effect is a handle to a running text or page effect.
type Effect struct {
	done      bool
	cancelled bool
	onCancel  func()
}

// Cancel stops the effect before its next frame. Effects that rewrite text
// restore or finish it as documented on their constructor. No-op once done.
func (e *Effect) Cancel() {
	if e == nil || e.done || e.cancelled {
		return
	}
	e.cancelled = true
	if e.onCancel != nil {
		e.onCancel()
	}
}

// Done reports whether the effect ran to completion.
func (e *Effect) Done() bool { return e.done }

// Cancelled reports whether Cancel stopped the effect.
func (e *Effect) Cancelled() bool { return e.cancelled }

// live reports whether the effect may still write.
func (e *Effect) live() bool { return !e.done && !e.cancelled }

func (e *Effect) finish() {
	e.done = true
}

// Typewriter clears sink and types text into it one rune at a time. The first
// rune appears immediately and each further rune one interval later;
// onComplete runs one interval after the last rune. An interval <= 0 uses
// DefaultTypeInterval. Cancel leaves the partially typed text in place.
func Typewriter(sched *Scheduler, sink TextSink, text string, interval time.Duration, onComplete func()) *Effect {
	if interval <= 0 {
		interval = DefaultTypeInterval
	}
	e := &Effect{}
	runes := []rune(text)
	var b strings.Builder
	i := 0

	typeNext := func() bool {
		if !e.live() {
			return false
		}
		if i < len(runes) {
			b.WriteRune(runes[i])
			i++
			sink.SetText(b.String())
			return true
		}
		e.finish()
		if onComplete != nil {
			onComplete()
		}
		return false
	}

	sink.SetText("")
	if typeNext() {
		sched.Every(interval, typeNext)
	}
	return e
}

// Scramble decodes final into sink. Every DefaultScrambleTick the text is
// redrawn with the first n runes of final in place and random glyphs after
// them, where n grows by a third of a rune per tick. The last frame writes
// final exactly. Cancel writes final immediately.
func Scramble(sched *Scheduler, sink TextSink, final string, rng *rand.Rand) *Effect {
	if rng == nil {
		rng = newRand()
	}
	e := &Effect{onCancel: func() { sink.SetText(final) }}
	target := []rune(final)
	buf := make([]rune, len(target))
	iteration := 0.0

	sched.Every(DefaultScrambleTick, func() bool {
		if !e.live() {
			return false
		}
		for i, r := range target {
			if float64(i) < iteration {
				buf[i] = r
			} else {
				buf[i] = glyphs[rng.IntN(len(glyphs))]
			}
		}
		if iteration >= float64(len(target)) {
			sink.SetText(final)
			e.finish()
			return false
		}
		sink.SetText(string(buf))
		iteration += scrambleRevealPerTick
		return true
	})
	return e
}

// Glitch corrupts roughly a fifth of sink's runes every DefaultGlitchTick and
// restores the original text once duration has passed. A duration <= 0 uses
// DefaultGlitchDuration. Cancel restores the original text immediately.
func Glitch(sched *Scheduler, sink TextSink, duration time.Duration, rng *rand.Rand) *Effect {
	if duration <= 0 {
		duration = DefaultGlitchDuration
	}
	if rng == nil {
		rng = newRand()
	}
	original := sink.Text()
	e := &Effect{onCancel: func() { sink.SetText(original) }}
	src := []rune(original)
	buf := make([]rune, len(src))

	sched.Every(DefaultGlitchTick, func() bool {
		if !e.live() {
			return false
		}
		for i, r := range src {
			if rng.Float64() > glitchReplaceThreshold {
				r = glyphs[rng.IntN(len(glyphs))]
			}
			buf[i] = r
		}
		sink.SetText(string(buf))
		return true
	})
	sched.After(duration, func() {
		if !e.live() {
			return
		}
		sink.SetText(original)
		e.finish()
	})
	return e
}
