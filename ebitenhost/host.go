// Package ebitenhost renders an ambient.Engine in an Ebitengine window.
//
// The host owns two ambient.Layer values: the world layer, drawn through the
// engine camera, and the overlay layer, drawn in screen pixels on top. Page
// panels scroll over both. Clicks spawn particle bursts, the wheel scrolls the
// page, and the cursor steers the camera.
package ebitenhost

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/phanxgames/ambient"
)

const (
	panelMargin = 48.0
	panelGap    = 160.0
	panelHeight = 220.0
	wheelStep   = 120.0

	// The world drifts up slower than the page as it scrolls.
	worldParallax = 0.1
)

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger. The host logs under the "host" name.
func WithLogger(log *zap.Logger) Option {
	return func(h *Host) {
		if log != nil {
			h.log = log
		}
	}
}

// WithSession overrides the random session id stamped on screenshots.
func WithSession(id string) Option {
	return func(h *Host) { h.session = id }
}

func withInput(in inputSource) Option {
	return func(h *Host) { h.input = in }
}

// Panel is a page block drawn over the scene. Its body is an ambient.Element;
// the panel itself is the TextSink for its heading so text effects can run on
// the heading alone.
type Panel struct {
	Element *ambient.Element

	heading string
	final   string
	shown   bool
	hover   bool
	magnet  ambient.Magnet
}

// Text returns the heading as currently displayed.
func (p *Panel) Text() string { return p.heading }

// SetText replaces the displayed heading.
func (p *Panel) SetText(text string) { p.heading = text }

// Heading returns the heading the panel settles on.
func (p *Panel) Heading() string { return p.final }

// Host implements ebiten.Game around an ambient.Engine.
type Host struct {
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string
	// ShowFPS enables the FPS and stats overlay.
	ShowFPS bool
	// OnUpdate, if set, runs at the start of every Update on the game
	// goroutine.
	OnUpdate func()

	engine  *ambient.Engine
	world   *ambient.Layer
	overlay *ambient.Layer

	panels       []*Panel
	pageHeight   float64
	scrollY      float64
	scrollTarget float64
	scrollSlot   ambient.Slot

	width, height int

	input       inputSource
	injectQueue []pointerEvent
	pointerDown bool
	runner      *TestRunner
	quit        bool

	screenshotQueue []string
	fps             fpsCounter

	session string
	log     *zap.Logger
}

// New creates a host that draws world and overlay, the layers engine was
// built on.
func New(engine *ambient.Engine, world, overlay *ambient.Layer, opts ...Option) *Host {
	cfg := engine.Config()
	h := &Host{
		ScreenshotDir: "screenshots",
		engine:        engine,
		world:         world,
		overlay:       overlay,
		width:         cfg.Width,
		height:        cfg.Height,
		input:         ebitenInput{},
		pageHeight:    float64(cfg.Height) * 0.5,
		session:       uuid.NewString(),
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.Named("host").With(zap.String("session", h.session))
	return h
}

// Engine returns the engine the host drives.
func (h *Host) Engine() *ambient.Engine { return h.engine }

// Session returns the id stamped on this host's screenshots.
func (h *Host) Session() string { return h.session }

// AddPanel appends a panel below the existing ones and registers it with the
// reveal observer. The heading is scrambled into place the first time the
// panel scrolls into view.
func (h *Host) AddPanel(heading, body string) *Panel {
	bounds := ambient.Rect{
		X:      panelMargin,
		Y:      h.pageHeight + panelGap,
		Width:  float64(h.width) - 2*panelMargin,
		Height: panelHeight,
	}
	p := &Panel{
		Element: ambient.NewElement(fmt.Sprintf("panel-%d", len(h.panels)), body, bounds),
		final:   heading,
	}
	// Hidden until the reveal observer fades it in.
	p.Element.Set(ambient.PropOpacity, 0)
	p.magnet = ambient.Magnet{Target: p.Element, Strength: ambient.DefaultMagneticPull}
	h.panels = append(h.panels, p)
	h.pageHeight = bounds.Y + bounds.Height
	h.engine.Observe(p.Element)
	return p
}

// Panels returns the panels in page order.
func (h *Host) Panels() []*Panel { return h.panels }

// Type writes text into p's heading one rune at a time.
func (h *Host) Type(p *Panel, text string) *ambient.Effect {
	p.final = text
	p.shown = true
	return ambient.Typewriter(h.engine.Scheduler(), p, text, ambient.DefaultTypeInterval, nil)
}

// ScrollY returns the page scroll offset in pixels.
func (h *Host) ScrollY() float64 { return h.scrollY }

// SetScrollY sets the page scroll offset directly.
func (h *Host) SetScrollY(y float64) { h.scrollY = y }

// ScrollTo smoothly scrolls the page to y, clamped to the page extent.
// A scroll already in flight is replaced.
func (h *Host) ScrollTo(y float64) {
	h.scrollTarget = max(0, min(y, h.maxScroll()))
	if _, err := ambient.SmoothScroll(h.engine.Scheduler(), &h.scrollSlot, h, h.scrollTarget, ambient.DefaultScrollDuration); err != nil {
		h.log.Warn("scroll rejected", zap.Error(err))
	}
}

func (h *Host) maxScroll() float64 {
	return max(0, h.pageHeight+panelGap-float64(h.height))
}

// Quit makes the next Update end the game loop.
func (h *Host) Quit() { h.quit = true }

// Update advances input, the attached test runner and the engine by one tick.
func (h *Host) Update() error {
	return h.step(tickDuration(ebiten.TPS()))
}

// tickDuration converts a ticks-per-second rate into a frame step. Rates
// that are not positive, such as ebiten.SyncWithFPS, use ebiten.DefaultTPS.
func tickDuration(tps int) time.Duration {
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return time.Second / time.Duration(tps)
}

func (h *Host) step(dt time.Duration) error {
	if h.quit || h.engine.Closed() {
		return ebiten.Termination
	}
	if h.OnUpdate != nil {
		h.OnUpdate()
	}
	if h.runner != nil {
		h.runner.step(h)
	}
	h.processInput()
	h.updatePanels()
	h.engine.Update(dt)
	h.fps.update(dt, h.engine.Stats())
	return nil
}

// Layout tracks the window size and resizes the camera to match.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != h.width || outsideHeight != h.height {
		h.width, h.height = outsideWidth, outsideHeight
		h.engine.Camera().Resize(float64(outsideWidth), float64(outsideHeight))
		for _, p := range h.panels {
			p.Element.Bounds.Width = float64(outsideWidth) - 2*panelMargin
		}
	}
	return outsideWidth, outsideHeight
}

// updatePanels recomputes each panel's visible fraction against the scrolled
// viewport and starts the heading scramble on first sight.
func (h *Host) updatePanels() {
	view := ambient.Rect{Y: h.scrollY, Width: float64(h.width), Height: float64(h.height)}
	for _, p := range h.panels {
		p.Element.UpdateVisibility(view)
		if !p.shown && p.Element.IntersectionRatio() > 0 {
			p.shown = true
			h.engine.Scramble(p, p.final)
		}
	}
}

// screenBounds returns a panel's drawn rectangle in screen pixels.
func (h *Host) screenBounds(p *Panel) ambient.Rect {
	b := p.Element.DrawBounds()
	b.Y -= h.scrollY
	return b
}

// panelAt returns the panel under screen point (x, y), or nil.
func (h *Host) panelAt(x, y float64) *Panel {
	for _, p := range h.panels {
		if h.screenBounds(p).Contains(x, y) {
			return p
		}
	}
	return nil
}
