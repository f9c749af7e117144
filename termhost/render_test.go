package termhost

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/phanxgames/ambient"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           [][2]int
	}{
		{"point", 2, 2, 2, 2, [][2]int{{2, 2}}},
		{"horizontal", 0, 0, 3, 0, [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"diagonal", 0, 0, 2, 2, [][2]int{{0, 0}, {1, 1}, {2, 2}}},
		{"reversed", 0, 2, 0, 0, [][2]int{{0, 2}, {0, 1}, {0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got [][2]int
			line(tt.x0, tt.y0, tt.x1, tt.y1, func(x, y int) {
				got = append(got, [2]int{x, y})
			})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("line mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRingStaysOnRadius(t *testing.T) {
	const cx, cy, r = 400.0, 200.0, 80.0
	visited := 0
	ring(cx, cy, r, func(x, y int) {
		visited++
		px, py := cellCenter(x, y)
		// Within one cell of the circle.
		assert.InDelta(t, r, math.Hypot(px-cx, py-cy), CellHeight, "cell (%d, %d)", x, y)
	})
	assert.GreaterOrEqual(t, visited, 8)
}

func TestFade(t *testing.T) {
	c := ambient.Color{R: 1, G: 1, B: 1, A: 1}
	bg := ambient.Color{R: 0, G: 0, B: 0, A: 1}

	assert.Equal(t, c, fade(c, bg, 0, 1))
	assert.Equal(t, bg, fade(c, bg, 0, 0))
	assert.Equal(t, bg, fade(c, bg, 1, 1), "full fog")
	assert.Equal(t, ambient.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}, fade(c, bg, 0, 0.5))
	assert.Equal(t, ambient.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}, fade(c.WithAlpha(0.5), bg, 0, 1))
}
