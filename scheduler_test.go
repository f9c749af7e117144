package ambient

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSchedulerRunsInRegistrationOrder(t *testing.T) {
	s := NewScheduler(nil, nil)
	var b strings.Builder
	for _, name := range []string{"a", "b", "c"} {
		s.Schedule(func(time.Duration) bool {
			b.WriteString(name)
			return true
		})
	}

	s.Tick(frame)
	s.Tick(frame)

	assert.Equal(t, "abcabc", b.String())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, uint64(2), s.Frame())
	assert.Equal(t, 2*frame, s.Now())
}

func TestSchedulerReturnFalseUnschedules(t *testing.T) {
	s := NewScheduler(nil, nil)
	calls := 0
	s.Schedule(func(time.Duration) bool {
		calls++
		return calls < 3
	})

	tickN(s, 10, frame)

	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, s.Len())
}

func TestSchedulerScheduleDuringTickRunsNextTick(t *testing.T) {
	s := NewScheduler(nil, nil)
	var order []string
	s.Schedule(func(time.Duration) bool {
		order = append(order, "outer")
		s.Schedule(func(time.Duration) bool {
			order = append(order, "inner")
			return false
		})
		return false
	})

	s.Tick(frame)
	require.Equal(t, []string{"outer"}, order)

	s.Tick(frame)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestSchedulerClockPassedToCallbacks(t *testing.T) {
	s := NewScheduler(nil, nil)
	var seen []time.Duration
	s.Schedule(func(now time.Duration) bool {
		seen = append(seen, now)
		return true
	})

	s.Tick(10 * time.Millisecond)
	s.Tick(-5 * time.Millisecond) // clamped to zero
	s.Tick(20 * time.Millisecond)

	assert.Equal(t, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond, 30 * time.Millisecond}, seen)
}

func TestSchedulerPanicIsContained(t *testing.T) {
	m := NewMetrics()
	s := NewScheduler(nil, m)
	after := 0
	s.Schedule(func(time.Duration) bool { panic("boom") })
	s.Schedule(func(time.Duration) bool {
		after++
		return true
	})

	require.NotPanics(t, func() { s.Tick(frame) })
	s.Tick(frame)

	assert.Equal(t, 2, after, "callbacks after the panicking one still run")
	assert.Equal(t, 1, s.Len(), "panicking callback is unscheduled")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallbackPanics))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Frames))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Scheduled))
}

func TestSchedulerAfter(t *testing.T) {
	s := NewScheduler(nil, nil)
	fired := 0
	s.After(50*time.Millisecond, func() { fired++ })

	tickN(s, 4, 10*time.Millisecond)
	assert.Equal(t, 0, fired)

	tickN(s, 10, 10*time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, s.Len())
}

func TestSchedulerEveryDoesNotCatchUp(t *testing.T) {
	s := NewScheduler(nil, nil)
	fired := 0
	s.Every(10*time.Millisecond, func() bool {
		fired++
		return true
	})

	s.Tick(10 * time.Millisecond)
	require.Equal(t, 1, fired)

	// One long frame spanning several intervals fires once.
	s.Tick(100 * time.Millisecond)
	require.Equal(t, 2, fired)

	s.Tick(5 * time.Millisecond)
	assert.Equal(t, 2, fired)
	s.Tick(5 * time.Millisecond)
	assert.Equal(t, 3, fired)
}

func TestSchedulerEveryStopsOnFalse(t *testing.T) {
	s := NewScheduler(nil, nil)
	fired := 0
	s.Every(frame, func() bool {
		fired++
		return fired < 2
	})
	tickN(s, 10, frame)
	assert.Equal(t, 2, fired)
	assert.Equal(t, 0, s.Len())
}

func TestSchedulerClose(t *testing.T) {
	s := NewScheduler(nil, nil)
	calls := 0
	s.Schedule(func(time.Duration) bool {
		calls++
		return true
	})
	s.Tick(frame)
	s.Close()

	s.Tick(frame)
	s.Schedule(func(time.Duration) bool {
		calls++
		return true
	})
	s.Tick(frame)

	assert.Equal(t, 1, calls)
	assert.True(t, s.Closed())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(1), s.Frame(), "ticks after Close do not advance")
}

func TestSchedulerCloseMidTick(t *testing.T) {
	s := NewScheduler(nil, nil)
	second := false
	s.Schedule(func(time.Duration) bool {
		s.Close()
		return true
	})
	s.Schedule(func(time.Duration) bool {
		second = true
		return true
	})

	s.Tick(frame)

	assert.False(t, second)
	assert.Equal(t, 0, s.Len())
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewScheduler(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := 0
	s.Schedule(func(time.Duration) bool {
		frames++
		if frames == 3 {
			cancel()
		}
		return true
	})

	err := s.Run(ctx, time.Millisecond, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, frames, 3)
	assert.Greater(t, s.Now(), time.Duration(0))
}

func TestSchedulerRunCustomStep(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewScheduler(nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	steps := 0
	err := s.Run(ctx, time.Millisecond, func(dt time.Duration) {
		steps++
		s.Tick(dt)
	})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, steps)
	assert.Equal(t, uint64(steps), s.Frame())
}

func TestSchedulerRunRejectsZeroInterval(t *testing.T) {
	s := NewScheduler(nil, nil)
	err := s.Run(context.Background(), 0, nil)
	assert.True(t, errors.Is(err, ErrInvalidDuration))
}
