package ebitenhost

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/phanxgames/ambient"
)

func TestToNRGBA(t *testing.T) {
	tests := []struct {
		name    string
		c       ambient.Color
		opacity float64
		want    color.NRGBA
	}{
		{"primary", ambient.ColorPrimary, 1, color.NRGBA{0, 255, 136, 255}},
		{"half opacity", ambient.ColorWhite, 0.5, color.NRGBA{255, 255, 255, 128}},
		{"clamped", ambient.Color{R: 2, G: -1, B: 0.5, A: 1}, 3, color.NRGBA{255, 0, 128, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toNRGBA(tt.c, tt.opacity))
		})
	}
}

func TestFogMix(t *testing.T) {
	c := ambient.Color{R: 1, G: 0, B: 0, A: 0.5}
	fog := ambient.Color{R: 0, G: 0, B: 1, A: 1}

	assert.Equal(t, c, fogMix(c, fog, 0))
	assert.Equal(t, ambient.Color{R: 0, G: 0, B: 1, A: 0.5}, fogMix(c, fog, 1))
	assert.Equal(t, ambient.Color{R: 0.5, G: 0, B: 0.5, A: 0.5}, fogMix(c, fog, 0.5))
}

func TestGlow(t *testing.T) {
	c := ambient.Color{R: 0, G: 0, B: 0, A: 1}
	assert.Equal(t, c, glow(c, 0))
	assert.InDelta(t, 0.3, glow(c, 1).R, 1e-9)
	assert.InDelta(t, 0.3, glow(c, 5).G, 1e-9, "emissive capped at 1")
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name string
		text string
		cols int
		want []string
	}{
		{"empty", "", 10, nil},
		{"fits", "hello world", 11, []string{"hello world"}},
		{"wraps", "hello big world", 9, []string{"hello big", "world"}},
		{"long word", "a incomprehensibly b", 5, []string{"a", "incomprehensibly", "b"}},
		{"collapses spaces", "  a   b  ", 10, []string{"a b"}},
		{"no room", "a", 0, nil},
		{"newlines", "one two\n\nthree", 20, []string{"one two", "three"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, wrapText(tt.text, tt.cols)); diff != "" {
				t.Errorf("wrapText mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProjectSortsFarToNear(t *testing.T) {
	h, _ := newTestHost(t)
	items := h.project(h.Engine().Camera())
	if len(items) == 0 {
		t.Fatal("nothing projected")
	}
	for i := 1; i < len(items); i++ {
		if items[i].depth > items[i-1].depth {
			t.Fatalf("item %d depth %v after %v", i, items[i].depth, items[i-1].depth)
		}
	}
}

func TestStatsText(t *testing.T) {
	got := statsText(ambient.Stats{LiveParticles: 12, Agents: 10, Rebinds: 3, Scheduled: 4})
	assert.Equal(t, "particles: 12\nagents: 10\nrebinds: 3\nscheduled: 4", got)
}
