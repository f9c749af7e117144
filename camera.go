package ambient

import "math"

// CameraConfig sets up the perspective camera.
type CameraConfig struct {
	// FOV is the vertical field of view in degrees.
	FOV  float64 `mapstructure:"fov" yaml:"fov" validate:"gt=0,lt=180"`
	Near float64 `mapstructure:"near" yaml:"near" validate:"gt=0"`
	Far  float64 `mapstructure:"far" yaml:"far" validate:"gtfield=Near"`
	// Distance is how far in front of the origin the camera rests.
	Distance float64 `mapstructure:"distance" yaml:"distance" validate:"gt=0"`
	// Sway is how far, in world units, the pointer can pull the camera off
	// axis; Lerp is the fraction of the remaining gap closed per frame.
	Sway float64 `mapstructure:"sway" yaml:"sway"`
	Lerp float64 `mapstructure:"lerp" yaml:"lerp" validate:"gte=0,lte=1"`
	Fog  Fog     `mapstructure:"fog" yaml:"fog"`
}

// Fog is linear distance fog: fully clear at Near, fully Color at Far.
type Fog struct {
	Color Color   `mapstructure:"color" yaml:"color"`
	Near  float64 `mapstructure:"near" yaml:"near"`
	Far   float64 `mapstructure:"far" yaml:"far"`
}

// Factor returns how much of the fog color covers something at depth, in
// [0, 1].
func (f Fog) Factor(depth float64) float64 {
	if f.Far <= f.Near {
		return 0
	}
	return max(0, min((depth-f.Near)/(f.Far-f.Near), 1))
}

// Camera is a perspective camera that always looks at the world origin and
// drifts toward the pointer.
type Camera struct {
	// Position is the eye position in world space.
	Position Vec3

	cfg      CameraConfig
	width    float64
	height   float64
	pointerX float64
	pointerY float64

	forward, right, up Vec3
	tanHalf            float64
}

// NewCamera creates a camera for a viewport of width×height pixels, placed
// cfg.Distance along +Z.
func NewCamera(cfg CameraConfig, width, height float64) *Camera {
	c := &Camera{
		Position: Vec3{Z: cfg.Distance},
		cfg:      cfg,
	}
	c.tanHalf = math.Tan(cfg.FOV * math.Pi / 360)
	c.Resize(width, height)
	c.lookAtOrigin()
	return c
}

// Resize updates the viewport size and so the aspect ratio.
func (c *Camera) Resize(width, height float64) {
	c.width = max(width, 1)
	c.height = max(height, 1)
}

// Viewport returns the viewport size in pixels.
func (c *Camera) Viewport() (width, height float64) {
	return c.width, c.height
}

// Aspect returns width / height.
func (c *Camera) Aspect() float64 {
	return c.width / c.height
}

// Fog returns the configured fog.
func (c *Camera) Fog() Fog {
	return c.cfg.Fog
}

// SetPointerScreen records the pointer position in screen pixels. It is
// mapped to [-1, 1] on both axes with +Y up.
func (c *Camera) SetPointerScreen(x, y float64) {
	c.pointerX = x/c.width*2 - 1
	c.pointerY = -(y/c.height)*2 + 1
}

// Pointer returns the normalized pointer position.
func (c *Camera) Pointer() (x, y float64) {
	return c.pointerX, c.pointerY
}

// Update eases the camera toward the pointer-driven position and re-aims it
// at the origin. Called once per frame.
func (c *Camera) Update() {
	targetX := c.pointerX * c.cfg.Sway
	targetY := c.pointerY * c.cfg.Sway
	c.Position.X += (targetX - c.Position.X) * c.cfg.Lerp
	c.Position.Y += (targetY - c.Position.Y) * c.cfg.Lerp
	c.lookAtOrigin()
}

func (c *Camera) lookAtOrigin() {
	c.forward = Vec3{}.Sub(c.Position).Normalize()
	c.right = c.forward.Cross(Vec3{Y: 1}).Normalize()
	c.up = c.right.Cross(c.forward)
}

// Project maps a world point to screen pixels. scale is the number of pixels
// one world unit spans at that depth; depth is the distance along the view
// axis. ok is false when the point lies outside the near/far range.
func (c *Camera) Project(p Vec3) (screen Vec2, scale, depth float64, ok bool) {
	d := p.Sub(c.Position)
	depth = d.Dot(c.forward)
	if depth < c.cfg.Near || depth > c.cfg.Far {
		return Vec2{}, 0, depth, false
	}
	halfH := depth * c.tanHalf
	halfW := halfH * c.Aspect()
	ndcX := d.Dot(c.right) / halfW
	ndcY := d.Dot(c.up) / halfH

	screen = Vec2{
		X: (ndcX + 1) / 2 * c.width,
		Y: (1 - ndcY) / 2 * c.height,
	}
	scale = c.height / 2 / halfH
	return screen, scale, depth, true
}
