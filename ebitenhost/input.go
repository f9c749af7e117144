package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/phanxgames/ambient"
)

// pointerEvent is one frame of pointer state in screen pixels.
type pointerEvent struct {
	x, y    float64
	pressed bool
}

// inputSource is where the host reads real input each frame.
type inputSource interface {
	pointer() pointerEvent
	wheel() float64
	justPressed(key ebiten.Key) bool
}

// ebitenInput reads the mouse and keyboard through Ebitengine.
type ebitenInput struct{}

func (ebitenInput) pointer() pointerEvent {
	mx, my := ebiten.CursorPosition()
	return pointerEvent{
		x:       float64(mx),
		y:       float64(my),
		pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	}
}

func (ebitenInput) wheel() float64 {
	_, dy := ebiten.Wheel()
	return dy
}

func (ebitenInput) justPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// processInput feeds one pointer event to the engine, preferring an injected
// event over the real mouse, then handles the wheel and keys.
func (h *Host) processInput() {
	evt, ok := h.nextInjected()
	if !ok {
		evt = h.input.pointer()
	}
	h.processPointer(evt)

	if dy := h.input.wheel(); dy != 0 {
		h.ScrollTo(h.scrollTarget - dy*wheelStep)
	}

	switch {
	case h.input.justPressed(ebiten.KeyEscape):
		h.Quit()
	case h.input.justPressed(ebiten.KeyF12):
		h.Screenshot("manual")
	case h.input.justPressed(ebiten.KeyF3):
		h.ShowFPS = !h.ShowFPS
	case h.input.justPressed(ebiten.KeySpace):
		h.click(float64(h.width)/2, float64(h.height)/2)
	}
}

// processPointer steers the camera, pulls hovered panels toward the cursor,
// and fires a click on release.
func (h *Host) processPointer(evt pointerEvent) {
	h.engine.Camera().SetPointerScreen(evt.x, evt.y)

	cursor := ambient.Vec2{X: evt.x, Y: evt.y}
	for _, p := range h.panels {
		settled := p.Element.Get(ambient.PropOpacity) >= 1
		if settled && p.Element.Bounds.Contains(evt.x, evt.y+h.scrollY) {
			p.magnet.Center = ambient.Vec2{
				X: p.Element.Bounds.X + p.Element.Bounds.Width/2,
				Y: p.Element.Bounds.Y - h.scrollY + p.Element.Bounds.Height/2,
			}
			p.magnet.Move(cursor)
			p.hover = true
		} else if p.hover {
			p.magnet.Leave()
			p.hover = false
		}
	}

	if h.pointerDown && !evt.pressed {
		h.click(evt.x, evt.y)
	}
	h.pointerDown = evt.pressed
}

// click spawns a burst at the point. A click on a panel also ripples it and
// glitches its heading.
func (h *Host) click(x, y float64) {
	h.spawn(x, y, h.engine.Config().BurstCount)
	p := h.panelAt(x, y)
	if p == nil {
		return
	}
	if _, err := h.engine.Ripple(x, y, p.Element.Bounds.Width/2); err != nil {
		h.log.Warn("ripple rejected", zap.Error(err))
	}
	h.engine.Glitch(p, ambient.DefaultGlitchDuration)
}

func (h *Host) spawn(x, y float64, count int) {
	if _, err := h.engine.Spawn(x, y, count); err != nil {
		h.log.Warn("burst rejected", zap.Error(err), zap.Float64("x", x), zap.Float64("y", y))
	}
}
