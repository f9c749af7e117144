package ebitenhost

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/ambient"
)

const fpsRefresh = 500 * time.Millisecond

// fpsCounter rebuilds the stats overlay text about twice a second.
type fpsCounter struct {
	elapsed time.Duration
	text    string
}

func (f *fpsCounter) update(dt time.Duration, s ambient.Stats) {
	f.elapsed += dt
	if f.text != "" && f.elapsed < fpsRefresh {
		return
	}
	f.elapsed = 0
	f.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\n%s",
		ebiten.ActualFPS(), ebiten.ActualTPS(), statsText(s))
}

// statsText formats the engine counters shown under the frame rates.
func statsText(s ambient.Stats) string {
	return fmt.Sprintf("particles: %d\nagents: %d\nrebinds: %d\nscheduled: %d",
		s.LiveParticles, s.Agents, s.Rebinds, s.Scheduled)
}
