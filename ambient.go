package ambient

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// ColorHex builds an opaque Color from a 0xRRGGBB value.
func ColorHex(hex uint32) Color {
	return Color{
		R: float64(hex>>16&0xff) / 255,
		G: float64(hex>>8&0xff) / 255,
		B: float64(hex&0xff) / 255,
		A: 1,
	}
}

// WithAlpha returns a copy of c with A replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// ParseColor reads "#rrggbb" or "#rrggbbaa". The "#" may also be "0x" or
// left off.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimSpace(s)
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "#"), "0x")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, errors.Wrapf(ErrInvalidConfig, "color %q: want 6 or 8 hex digits", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, errors.Wrapf(ErrInvalidConfig, "color %q: not hex", s)
	}
	if len(hex) == 6 {
		return ColorHex(uint32(n)), nil
	}
	return ColorHex(uint32(n >> 8)).WithAlpha(float64(n&0xff) / 255), nil
}

// String formats c as "#rrggbb", with an alpha byte appended unless c is
// opaque.
func (c Color) String() string {
	s := fmt.Sprintf("#%02x%02x%02x", byte8(c.R), byte8(c.G), byte8(c.B))
	if byte8(c.A) != 0xff {
		s += fmt.Sprintf("%02x", byte8(c.A))
	}
	return s
}

// MarshalYAML writes c as a hex string.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML reads a hex string.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "color at line %d: want a hex string", node.Line)
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func byte8(v float64) uint8 {
	return uint8(max(0, min(v, 1))*255 + 0.5)
}

// Vec2 is a 2D vector used for screen-space positions and offsets.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector used for world-space positions and rotations.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. The zero vector is returned as-is.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// LerpVec3 linearly interpolates between a and b by t.
func LerpVec3(a, b Vec3, t float64) Vec3 {
	return Vec3{
		lerp(a.X, b.X, t),
		lerp(a.Y, b.Y, t),
		lerp(a.Z, b.Z, t),
	}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// VisibleRatio returns the fraction of r's area that lies inside view,
// in [0, 1]. A zero-area r yields 0.
func (r Rect) VisibleRatio(view Rect) float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	w := math.Min(r.X+r.Width, view.X+view.Width) - math.Max(r.X, view.X)
	h := math.Min(r.Y+r.Height, view.Y+view.Height) - math.Max(r.Y, view.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return (w * h) / (r.Width * r.Height)
}

// Range is a general-purpose min/max range sampled uniformly.
type Range struct {
	Min float64 `mapstructure:"min" yaml:"min"`
	Max float64 `mapstructure:"max" yaml:"max"`
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// valid reports whether Min <= Max.
func (r Range) valid() bool {
	return r.Min <= r.Max
}

// newRand returns a generator seeded from ambient randomness.
func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
