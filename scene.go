package ambient

// ShapeKind selects how a host draws a Shape.
type ShapeKind uint8

const (
	ShapeSphere ShapeKind = iota // network node; Size is the radius
	ShapeLine                    // network edge from Position to End
	ShapeBox                     // agent cube; Size is the edge length
	ShapeDot                     // overlay particle; screen-space, Size is the diameter in pixels
	ShapeRing                    // overlay ripple; screen-space, Size*Scale is the diameter
)

// String returns the lower-case kind name.
func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeLine:
		return "line"
	case ShapeBox:
		return "box"
	case ShapeDot:
		return "dot"
	case ShapeRing:
		return "ring"
	default:
		return "unknown"
	}
}

// shapeIDCounter is a plain counter (no atomic, the engine is single-threaded).
var shapeIDCounter uint32

func nextShapeID() uint32 {
	shapeIDCounter++
	return shapeIDCounter
}

// Shape is the visual handle the engine hands to a host scene. A single flat
// struct serves every kind; the engine mutates the fields each frame and the
// host reads them when drawing. World kinds use world units, overlay kinds use
// screen pixels in Position.X/Position.Y.
type Shape struct {
	ID   uint32
	Name string
	Kind ShapeKind

	Position Vec3
	End      Vec3 // ShapeLine only
	Offset   Vec3 // cosmetic offset added at draw time
	Rotation Vec3 // radians per axis

	Size     float64
	Scale    float64
	Color    Color
	Emissive float64
	Opacity  float64
	Visible  bool

	disposed bool
}

// NewShape creates a visible, opaque, white shape of the given kind.
func NewShape(name string, kind ShapeKind) *Shape {
	return &Shape{
		ID:      nextShapeID(),
		Name:    name,
		Kind:    kind,
		Size:    1,
		Scale:   1,
		Color:   ColorWhite,
		Opacity: 1,
		Visible: true,
	}
}

// DrawPosition returns Position plus the cosmetic Offset.
func (s *Shape) DrawPosition() Vec3 {
	return s.Position.Add(s.Offset)
}

// Dispose marks the shape released. Layers refuse disposed shapes.
func (s *Shape) Dispose() {
	s.disposed = true
}

// IsDisposed reports whether Dispose has been called.
func (s *Shape) IsDisposed() bool {
	return s.disposed
}

// Scene is the host container the engine adds its shapes to. The engine never
// draws; hosts render whatever their scene holds.
type Scene interface {
	Add(s *Shape)
	Remove(s *Shape)
}

// Layer is an insertion-ordered in-memory Scene. Hosts keep one per render
// pass (world, overlay) and iterate Shapes when drawing.
type Layer struct {
	shapes []*Shape
}

// NewLayer creates an empty layer.
func NewLayer() *Layer {
	return &Layer{}
}

// Add appends s. Nil, disposed and already-present shapes are ignored.
func (l *Layer) Add(s *Shape) {
	if s == nil || s.disposed || l.index(s) >= 0 {
		return
	}
	l.shapes = append(l.shapes, s)
}

// Remove drops s from the layer and disposes it.
func (l *Layer) Remove(s *Shape) {
	if s == nil {
		return
	}
	s.Dispose()
	if i := l.index(s); i >= 0 {
		copy(l.shapes[i:], l.shapes[i+1:])
		l.shapes[len(l.shapes)-1] = nil
		l.shapes = l.shapes[:len(l.shapes)-1]
	}
}

// Shapes returns the layer contents in insertion order. The returned slice
// MUST NOT be mutated.
func (l *Layer) Shapes() []*Shape {
	return l.shapes
}

// Len returns the number of shapes held.
func (l *Layer) Len() int {
	return len(l.shapes)
}

// CountKind returns the number of shapes of the given kind.
func (l *Layer) CountKind(kind ShapeKind) int {
	n := 0
	for _, s := range l.shapes {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func (l *Layer) index(s *Shape) int {
	for i, c := range l.shapes {
		if c == s {
			return i
		}
	}
	return -1
}
