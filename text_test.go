package ambient

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypewriter(t *testing.T) {
	s := NewScheduler(nil, nil)
	el := NewElement("title", "old text", Rect{})
	completed := 0

	e := Typewriter(s, el, "héy", 50*time.Millisecond, func() { completed++ })

	assert.Equal(t, "h", el.Text(), "first rune is typed immediately")
	s.Tick(50 * time.Millisecond)
	assert.Equal(t, "hé", el.Text())
	s.Tick(50 * time.Millisecond)
	assert.Equal(t, "héy", el.Text())
	assert.False(t, e.Done())
	assert.Equal(t, 0, completed)

	s.Tick(50 * time.Millisecond)
	assert.True(t, e.Done())
	assert.Equal(t, 1, completed)

	tickN(s, 5, 50*time.Millisecond)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 0, s.Len())
}

func TestTypewriterEmpty(t *testing.T) {
	s := NewScheduler(nil, nil)
	el := NewElement("title", "old", Rect{})
	completed := false

	e := Typewriter(s, el, "", 0, func() { completed = true })

	assert.Equal(t, "", el.Text())
	assert.True(t, e.Done())
	assert.True(t, completed)
	assert.Equal(t, 0, s.Len())
}

func TestTypewriterCancel(t *testing.T) {
	s := NewScheduler(nil, nil)
	el := NewElement("title", "", Rect{})
	e := Typewriter(s, el, "hello", 0, nil)

	s.Tick(DefaultTypeInterval)
	e.Cancel()
	tickN(s, 10, DefaultTypeInterval)

	assert.Equal(t, "he", el.Text())
	assert.True(t, e.Cancelled())
	assert.False(t, e.Done())
}

func TestScrambleEndsOnExactText(t *testing.T) {
	s := NewScheduler(nil, nil)
	el := NewElement("title", "", Rect{})
	const final = "Hello, 世界"

	e := Scramble(s, el, final, seeded(3))

	s.Tick(DefaultScrambleTick)
	first := []rune(el.Text())
	require.Len(t, first, len([]rune(final)))
	for _, r := range first {
		assert.True(t, slices.Contains(glyphs, r), "rune %q is not a glyph", r)
	}

	for i := 0; !e.Done(); i++ {
		require.Less(t, i, 200, "scramble never finished")
		s.Tick(DefaultScrambleTick)
		got := []rune(el.Text())
		require.Len(t, got, len([]rune(final)))
	}
	assert.Equal(t, final, el.Text())
	assert.Equal(t, 0, s.Len())
}

func TestScrambleRevealsPrefix(t *testing.T) {
	s := NewScheduler(nil, nil)
	el := NewElement("title", "", Rect{})
	const final = "abcdefghij"
	Scramble(s, el, final, seeded(8))

	// The eleventh tick draws with 10/3 runes revealed: indices 0 through 3.
	tickN(s, 11, DefaultScrambleTick)
	assert.Equal(t, "abcd", el.Text()[:4])
}

func TestScrambleCancelWritesFinal(t *testing.T) {
	s := NewScheduler(nil, nil)
	el := NewElement("title", "", Rect{})
	e := Scramble(s, el, "done", seeded(1))
	s.Tick(DefaultScrambleTick)

	e.Cancel()

	assert.Equal(t, "done", el.Text())
	tickN(s, 3, DefaultScrambleTick)
	assert.Equal(t, "done", el.Text())
}

func TestGlitchRestoresOriginal(t *testing.T) {
	s := NewScheduler(nil, nil)
	const original = "The quick brown fox jumps over the lazy dog"
	el := NewElement("title", original, Rect{})

	e := Glitch(s, el, 0, seeded(12))

	changed := false
	for range 3 {
		s.Tick(DefaultGlitchTick)
		got := el.Text()
		assert.Len(t, []rune(got), len([]rune(original)))
		if got != original {
			changed = true
		}
	}
	assert.True(t, changed, "glitch never altered the text")
	assert.False(t, e.Done())

	s.Tick(DefaultGlitchTick)
	assert.Equal(t, original, el.Text())
	assert.True(t, e.Done())

	tickN(s, 3, DefaultGlitchTick)
	assert.Equal(t, original, el.Text())
	assert.Equal(t, 0, s.Len())
}

func TestGlitchCancelRestores(t *testing.T) {
	s := NewScheduler(nil, nil)
	el := NewElement("title", "glitchy", Rect{})
	e := Glitch(s, el, time.Second, seeded(2))
	tickN(s, 3, DefaultGlitchTick)

	e.Cancel()

	assert.Equal(t, "glitchy", el.Text())
	tickN(s, 30, DefaultGlitchTick)
	assert.Equal(t, "glitchy", el.Text())
	assert.Equal(t, 0, s.Len())
}

func TestEffectCancelNilSafe(t *testing.T) {
	var e *Effect
	assert.NotPanics(t, e.Cancel)
}
