// Package termhost renders an ambient.Engine in a terminal with tcell.
//
// The engine works in pixels; each terminal cell stands for a CellWidth by
// CellHeight block, so bursts and ripples keep their window proportions.
// Clicking a cell spawns a burst there. Esc, Ctrl-C or q quits.
package termhost

import (
	"context"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/phanxgames/ambient"
)

const (
	// CellWidth and CellHeight are the pixel block one terminal cell covers.
	CellWidth  = 8
	CellHeight = 16

	// DefaultInterval is the frame interval Run uses when none is given.
	DefaultInterval = 16 * time.Millisecond
)

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger.
func WithLogger(log *zap.Logger) Option {
	return func(h *Host) {
		if log != nil {
			h.log = log
		}
	}
}

// WithChime sets the sound played on each burst.
func WithChime(c Chime) Option {
	return func(h *Host) {
		if c != nil {
			h.chime = c
		}
	}
}

// Host drives an engine from a tcell screen.
type Host struct {
	// OnUpdate, if set, runs at the start of every frame on the loop
	// goroutine.
	OnUpdate func()

	screen  tcell.Screen
	engine  *ambient.Engine
	world   *ambient.Layer
	overlay *ambient.Layer
	chime   Chime

	cols, rows int
	mouseDown  bool
	quit       bool
	finalized  bool
	events     chan tcell.Event

	log *zap.Logger
}

// New wraps an initialized screen. The engine viewport is resized to the
// screen's pixel equivalent and mouse reporting is enabled.
func New(screen tcell.Screen, engine *ambient.Engine, world, overlay *ambient.Layer, opts ...Option) *Host {
	h := &Host{
		screen:  screen,
		engine:  engine,
		world:   world,
		overlay: overlay,
		chime:   NopChime{},
		events:  make(chan tcell.Event, 64),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.Named("term")
	screen.EnableMouse()
	screen.HideCursor()
	h.resize()
	return h
}

// Run polls input and draws frames every interval until ctx is cancelled or
// the user quits. The screen is finalized on return; quitting returns nil.
func (h *Host) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	polled := make(chan struct{})
	go h.poll(ctx, polled)
	defer func() {
		cancel()
		h.screen.Fini()
		h.finalized = true
		<-polled
	}()

	h.log.Info("terminal loop started", zap.Int("cols", h.cols), zap.Int("rows", h.rows))
	err := h.engine.Scheduler().Run(ctx, interval, func(dt time.Duration) {
		if h.OnUpdate != nil {
			h.OnUpdate()
		}
		h.drain()
		h.frame(dt)
		if h.quit {
			cancel()
		}
	})
	if h.quit {
		return nil
	}
	return err
}

// poll forwards screen events until the screen is finalized.
func (h *Host) poll(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case h.events <- ev:
		case <-ctx.Done():
		}
	}
}

// drain handles every queued event without blocking.
func (h *Host) drain() {
	for {
		select {
		case ev := <-h.events:
			h.handleEvent(ev)
		default:
			return
		}
	}
}

// handleEvent applies one input event. Clicks fire on button release.
func (h *Host) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			h.quit = true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			h.quit = true
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			h.click(h.cols/2, h.rows/2)
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		px, py := cellCenter(x, y)
		h.engine.Camera().SetPointerScreen(px, py)
		pressed := ev.Buttons()&tcell.Button1 != 0
		if h.mouseDown && !pressed {
			h.click(x, y)
		}
		h.mouseDown = pressed
	case *tcell.EventResize:
		h.resize()
		h.screen.Sync()
	}
}

// click spawns a burst centred on cell (x, y).
func (h *Host) click(x, y int) {
	px, py := cellCenter(x, y)
	if _, err := h.engine.Spawn(px, py, h.engine.Config().BurstCount); err != nil {
		h.log.Warn("burst rejected", zap.Error(err))
		return
	}
	h.chime.Play()
}

// frame advances the engine by dt and redraws.
func (h *Host) frame(dt time.Duration) {
	h.engine.Update(dt)
	h.screen.Clear()
	h.draw(h.screen)
	h.screen.Show()
}

func (h *Host) resize() {
	h.cols, h.rows = h.screen.Size()
	h.engine.Camera().Resize(float64(h.cols*CellWidth), float64(h.rows*CellHeight))
}

// Close releases the chime and the engine, and finalizes the screen if Run
// has not already.
func (h *Host) Close() {
	if !h.finalized {
		h.screen.Fini()
		h.finalized = true
	}
	h.chime.Close()
	h.engine.Close()
}

// cellCenter returns the pixel centre of cell (x, y).
func cellCenter(x, y int) (float64, float64) {
	return float64(x*CellWidth) + CellWidth/2, float64(y*CellHeight) + CellHeight/2
}

// pixelCell returns the cell containing pixel (x, y).
func pixelCell(x, y float64) (int, int) {
	return int(math.Floor(x / CellWidth)), int(math.Floor(y / CellHeight))
}
