package ambient

// TextSink is a text-bearing element the text effects write into.
type TextSink interface {
	Text() string
	SetText(text string)
}

// Revealable is an element the reveal observer can watch. IntersectionRatio
// reports the visible fraction of the element, in [0, 1], as of the current
// frame.
type Revealable interface {
	Animatable
	IntersectionRatio() float64
}

// Element is a minimal page block: a laid-out rectangle with animatable
// properties and text. Hosts render elements as panels; it satisfies
// Animatable, TextSink and Revealable.
type Element struct {
	ID     string
	Bounds Rect

	props map[string]float64
	text  string
	ratio float64
}

// NewElement creates an element at bounds with opacity and scale 1.
func NewElement(id, text string, bounds Rect) *Element {
	return &Element{
		ID:     id,
		Bounds: bounds,
		text:   text,
		props: map[string]float64{
			PropOpacity: 1,
			PropScale:   1,
		},
	}
}

// Get returns a property value, or 0 if it was never set.
func (e *Element) Get(name string) float64 {
	return e.props[name]
}

// Set stores a property value. A zero Element allocates its map on first use.
func (e *Element) Set(name string, value float64) {
	if e.props == nil {
		e.props = make(map[string]float64)
	}
	e.props[name] = value
}

// Text returns the current text.
func (e *Element) Text() string {
	return e.text
}

// SetText replaces the text.
func (e *Element) SetText(text string) {
	e.text = text
}

// IntersectionRatio returns the ratio recorded by the last UpdateVisibility or
// SetIntersectionRatio call.
func (e *Element) IntersectionRatio() float64 {
	return e.ratio
}

// SetIntersectionRatio records the visible fraction directly.
func (e *Element) SetIntersectionRatio(r float64) {
	e.ratio = max(0, min(r, 1))
}

// DrawBounds returns Bounds shifted by the translate properties.
func (e *Element) DrawBounds() Rect {
	b := e.Bounds
	b.X += e.props[PropTranslateX]
	b.Y += e.props[PropTranslateY]
	return b
}

// UpdateVisibility recomputes the intersection ratio of the element's layout
// bounds against view, where view is the scrolled viewport in page
// coordinates. Translate offsets are ignored so an entrance animation cannot
// change its own trigger.
func (e *Element) UpdateVisibility(view Rect) {
	e.ratio = e.Bounds.VisibleRatio(view)
}
