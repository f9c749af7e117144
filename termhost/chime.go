package termhost

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	chimeRate     = beep.SampleRate(44100)
	chimeFreq     = 880
	chimeDuration = 50 * time.Millisecond
)

// Chime plays a short sound when a burst spawns.
type Chime interface {
	Play()
	Close()
}

// NopChime is a silent Chime.
type NopChime struct{}

func (NopChime) Play()  {}
func (NopChime) Close() {}

// BeepChime plays a short sine tone through the system speaker.
type BeepChime struct {
	mu     sync.Mutex
	closed bool
}

// NewBeepChime initializes the speaker. Callers that can run silently should
// fall back to NopChime on error.
func NewBeepChime() (*BeepChime, error) {
	if err := speaker.Init(chimeRate, chimeRate.N(time.Second/10)); err != nil {
		return nil, errors.Wrap(err, "init speaker")
	}
	return &BeepChime{}, nil
}

// Play queues one tone. It does not block.
func (c *BeepChime) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	sine, err := generators.SineTone(chimeRate, chimeFreq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(chimeRate.N(chimeDuration), sine))
}

// Close releases the speaker. Play is a no-op afterwards.
func (c *BeepChime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	speaker.Close()
}
