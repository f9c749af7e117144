package ebitenhost

import (
	"cmp"
	"image/color"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/ambient"
)

const (
	// DebugPrint glyph cell size.
	glyphW = 6
	glyphH = 16

	panelPadding = 16.0
)

var panelFill = ambient.ColorHex(0x12121a)

// drawItem is a projected world shape ready to draw.
type drawItem struct {
	shape  *ambient.Shape
	x, y   float32
	x1, y1 float32 // line end
	radius float32
	depth  float64
	fog    float64
}

// Draw renders the world through the camera, then panels, then the overlay.
func (h *Host) Draw(screen *ebiten.Image) {
	cam := h.engine.Camera()
	fog := cam.Fog()
	screen.Fill(toNRGBA(fog.Color, 1))

	h.drawWorld(screen, cam)
	h.drawPanels(screen)
	h.drawOverlay(screen)

	if h.ShowFPS && h.fps.text != "" {
		vector.DrawFilledRect(screen, 0, 0, 120, 100, color.NRGBA{0, 0, 0, 128}, false)
		ebitenutil.DebugPrintAt(screen, h.fps.text, 4, 2)
	}
	h.flushScreenshots(screen)
}

// project collects the visible world shapes, sorted far to near.
func (h *Host) project(cam *ambient.Camera) []drawItem {
	shift := ambient.ParallaxOffset(h.scrollY, worldParallax)
	fog := cam.Fog()
	items := make([]drawItem, 0, h.world.Len())
	for _, s := range h.world.Shapes() {
		if !s.Visible || s.Opacity <= 0 {
			continue
		}
		p, scale, depth, ok := cam.Project(s.DrawPosition())
		if !ok {
			continue
		}
		it := drawItem{
			shape:  s,
			x:      float32(p.X),
			y:      float32(p.Y + shift),
			radius: float32(s.Size * s.Scale * scale),
			depth:  depth,
			fog:    fog.Factor(depth),
		}
		if s.Kind == ambient.ShapeLine {
			end, _, endDepth, ok := cam.Project(s.End)
			if !ok {
				continue
			}
			it.x1, it.y1 = float32(end.X), float32(end.Y+shift)
			it.fog = fog.Factor((depth + endDepth) / 2)
		}
		items = append(items, it)
	}
	slices.SortStableFunc(items, func(a, b drawItem) int {
		return cmp.Compare(b.depth, a.depth)
	})
	return items
}

func (h *Host) drawWorld(screen *ebiten.Image, cam *ambient.Camera) {
	fog := cam.Fog()
	for _, it := range h.project(cam) {
		s := it.shape
		c := fogMix(glow(s.Color, s.Emissive), fog.Color, it.fog)
		col := toNRGBA(c, s.Opacity)
		switch s.Kind {
		case ambient.ShapeLine:
			vector.StrokeLine(screen, it.x, it.y, it.x1, it.y1, 1, col, true)
		case ambient.ShapeSphere:
			vector.DrawFilledCircle(screen, it.x, it.y, max(it.radius, 1), col, true)
		case ambient.ShapeBox:
			side := max(it.radius, 1)
			vector.DrawFilledRect(screen, it.x-side/2, it.y-side/2, side, side, col, true)
		}
	}
}

func (h *Host) drawOverlay(screen *ebiten.Image) {
	for _, s := range h.overlay.Shapes() {
		if !s.Visible || s.Opacity <= 0 {
			continue
		}
		x, y := float32(s.Position.X), float32(s.Position.Y)
		r := float32(s.Size * s.Scale / 2)
		col := toNRGBA(s.Color, s.Opacity)
		switch s.Kind {
		case ambient.ShapeDot:
			vector.DrawFilledCircle(screen, x, y, max(r, 0.5), col, true)
		case ambient.ShapeRing:
			if r > 0 {
				vector.StrokeCircle(screen, x, y, r, 2, col, true)
			}
		}
	}
}

func (h *Host) drawPanels(screen *ebiten.Image) {
	for _, p := range h.panels {
		op := p.Element.Get(ambient.PropOpacity)
		if op <= 0 {
			continue
		}
		b := h.screenBounds(p)
		if b.Y > float64(h.height) || b.Y+b.Height < 0 {
			continue
		}
		x, y, w, ht := float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height)
		vector.DrawFilledRect(screen, x, y, w, ht, toNRGBA(panelFill, 0.75*op), false)
		vector.StrokeRect(screen, x, y, w, ht, 1, toNRGBA(ambient.ColorPrimary, 0.5*op), false)

		// DebugPrint has no alpha; text appears once the panel is mostly in.
		if op < 0.5 {
			continue
		}
		tx, ty := int(b.X+panelPadding), int(b.Y+panelPadding)
		ebitenutil.DebugPrintAt(screen, p.Text(), tx, ty)
		cols := int((b.Width - 2*panelPadding) / glyphW)
		for i, line := range wrapText(p.Element.Text(), cols) {
			ly := ty + (i+2)*glyphH
			if float64(ly) > b.Y+b.Height-panelPadding {
				break
			}
			ebitenutil.DebugPrintAt(screen, line, tx, ly)
		}
	}
}

// toNRGBA converts c to a straight-alpha color with its alpha scaled by
// opacity.
func toNRGBA(c ambient.Color, opacity float64) color.NRGBA {
	return color.NRGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(c.A * opacity),
	}
}

func unit8(v float64) uint8 {
	return uint8(max(0, min(v, 1))*255 + 0.5)
}

// fogMix blends c toward the fog color by f in [0, 1]. Alpha is kept.
func fogMix(c, fog ambient.Color, f float64) ambient.Color {
	return ambient.Color{
		R: c.R + (fog.R-c.R)*f,
		G: c.G + (fog.G-c.G)*f,
		B: c.B + (fog.B-c.B)*f,
		A: c.A,
	}
}

// glow brightens c toward white by a fraction of its emissive strength.
func glow(c ambient.Color, emissive float64) ambient.Color {
	if emissive <= 0 {
		return c
	}
	return fogMix(c, ambient.ColorWhite, min(emissive, 1)*0.3)
}

// wrapText breaks text into lines of at most cols runes on word boundaries.
// Newlines start a new line. Words longer than cols get a line of their own.
func wrapText(text string, cols int) []string {
	if cols <= 0 {
		return nil
	}
	var lines []string
	var line strings.Builder
	for _, para := range strings.Split(text, "\n") {
		n := 0
		for _, word := range strings.Fields(para) {
			wn := len([]rune(word))
			if n > 0 && n+1+wn > cols {
				lines = append(lines, line.String())
				line.Reset()
				n = 0
			}
			if n > 0 {
				line.WriteByte(' ')
				n++
			}
			line.WriteString(word)
			n += wn
		}
		if n > 0 {
			lines = append(lines, line.String())
			line.Reset()
		}
	}
	return lines
}
