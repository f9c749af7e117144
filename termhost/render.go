package termhost

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/ambient"
)

// canvas is the part of tcell.Screen the renderer writes to.
type canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
}

const (
	runeSphere = '●'
	runeBox    = '■'
	runeLine   = '·'
	runeDot    = '*'
	runeRing   = '°'
)

// draw renders the world, then the overlay, then the status line.
func (h *Host) draw(c canvas) {
	h.drawWorld(c)
	h.drawOverlay(c)
	h.drawStatus(c)
}

type cellItem struct {
	shape  *ambient.Shape
	x, y   int
	x1, y1 int
	depth  float64
	fog    float64
}

func (h *Host) drawWorld(c canvas) {
	cam := h.engine.Camera()
	fog := cam.Fog()
	items := make([]cellItem, 0, h.world.Len())
	for _, s := range h.world.Shapes() {
		if !s.Visible || s.Opacity <= 0 {
			continue
		}
		p, _, depth, ok := cam.Project(s.DrawPosition())
		if !ok {
			continue
		}
		it := cellItem{shape: s, depth: depth, fog: fog.Factor(depth)}
		it.x, it.y = pixelCell(p.X, p.Y)
		if s.Kind == ambient.ShapeLine {
			end, _, _, ok := cam.Project(s.End)
			if !ok {
				continue
			}
			it.x1, it.y1 = pixelCell(end.X, end.Y)
		}
		items = append(items, it)
	}
	// Far to near so nodes overwrite the edges behind them.
	slices.SortStableFunc(items, func(a, b cellItem) int {
		return cmp.Compare(b.depth, a.depth)
	})

	for _, it := range items {
		s := it.shape
		style := tcell.StyleDefault.Foreground(rgb(fade(s.Color, fog.Color, it.fog, s.Opacity)))
		switch s.Kind {
		case ambient.ShapeLine:
			line(it.x, it.y, it.x1, it.y1, func(x, y int) {
				setCell(c, x, y, runeLine, style)
			})
		case ambient.ShapeSphere:
			setCell(c, it.x, it.y, runeSphere, style)
		case ambient.ShapeBox:
			setCell(c, it.x, it.y, runeBox, style)
		}
	}
}

func (h *Host) drawOverlay(c canvas) {
	bg := h.engine.Camera().Fog().Color
	for _, s := range h.overlay.Shapes() {
		if !s.Visible || s.Opacity <= 0 {
			continue
		}
		style := tcell.StyleDefault.Foreground(rgb(fade(s.Color, bg, 0, s.Opacity)))
		switch s.Kind {
		case ambient.ShapeDot:
			x, y := pixelCell(s.Position.X, s.Position.Y)
			setCell(c, x, y, runeDot, style)
		case ambient.ShapeRing:
			r := s.Size * s.Scale / 2
			if r <= 0 {
				continue
			}
			ring(s.Position.X, s.Position.Y, r, func(x, y int) {
				setCell(c, x, y, runeRing, style)
			})
		}
	}
}

func (h *Host) drawStatus(c canvas) {
	_, rows := c.Size()
	st := h.engine.Stats()
	text := fmt.Sprintf(" particles %d  agents %d  rebinds %d  click or space to burst, q to quit ",
		st.LiveParticles, st.Agents, st.Rebinds)
	style := tcell.StyleDefault.Foreground(rgb(ambient.ColorPrimary)).Reverse(true)
	x := 0
	for _, r := range text {
		setCell(c, x, rows-1, r, style)
		x++
	}
}

// setCell writes r at (x, y) if the cell is on the canvas.
func setCell(c canvas, x, y int, r rune, style tcell.Style) {
	w, h := c.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.SetContent(x, y, r, nil, style)
}

// fade blends c toward the background by the fog factor and then by the
// missing opacity, since terminal cells have no alpha.
func fade(c, bg ambient.Color, fog, opacity float64) ambient.Color {
	t := 1 - (1-fog)*max(0, min(opacity*c.A, 1))
	return ambient.Color{
		R: c.R + (bg.R-c.R)*t,
		G: c.G + (bg.G-c.G)*t,
		B: c.B + (bg.B-c.B)*t,
		A: 1,
	}
}

func rgb(c ambient.Color) tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int32 {
	return int32(max(0, min(v, 1))*255 + 0.5)
}

// line visits every cell on the Bresenham line from (x0, y0) to (x1, y1).
func line(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		visit(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// ring visits the cells on a circle of pixel radius r centred at (cx, cy).
// Cells may be visited more than once.
func ring(cx, cy, r float64, visit func(x, y int)) {
	steps := max(8, int(2*math.Pi*r/CellWidth)*2)
	for i := range steps {
		a := 2 * math.Pi * float64(i) / float64(steps)
		visit(pixelCell(cx+r*math.Cos(a), cy+r*math.Sin(a)))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
