package ambient

import (
	"slices"

	"github.com/tanema/gween/ease"
)

// Curve names accepted by Ease, Lookup and every tween constructor.
const (
	EaseLinear       = "linear"
	EaseInQuad       = "easeInQuad"
	EaseOutQuad      = "easeOutQuad"
	EaseInOutQuad    = "easeInOutQuad"
	EaseInCubic      = "easeInCubic"
	EaseOutCubic     = "easeOutCubic"
	EaseInOutCubic   = "easeInOutCubic"
	EaseInQuart      = "easeInQuart"
	EaseOutQuart     = "easeOutQuart"
	EaseInOutQuart   = "easeInOutQuart"
	EaseInQuint      = "easeInQuint"
	EaseOutQuint     = "easeOutQuint"
	EaseInOutQuint   = "easeInOutQuint"
	EaseInElastic    = "easeInElastic"
	EaseOutElastic   = "easeOutElastic"
	EaseInOutElastic = "easeInOutElastic"
	EaseInBounce     = "easeInBounce"
	EaseOutBounce    = "easeOutBounce"
	EaseInOutBounce  = "easeInOutBounce"
	EaseInSine       = "easeInSine"
	EaseOutSine      = "easeOutSine"
	EaseInOutSine    = "easeInOutSine"
	EaseInExpo       = "easeInExpo"
	EaseOutExpo      = "easeOutExpo"
	EaseInOutExpo    = "easeInOutExpo"
	EaseInCirc       = "easeInCirc"
	EaseOutCirc      = "easeOutCirc"
	EaseInOutCirc    = "easeInOutCirc"
	EaseInBack       = "easeInBack"
	EaseOutBack      = "easeOutBack"
	EaseInOutBack    = "easeInOutBack"
)

// curves is read-only after package init, so lookups are safe from any goroutine.
var curves = map[string]ease.TweenFunc{
	EaseLinear:       ease.Linear,
	EaseInQuad:       ease.InQuad,
	EaseOutQuad:      ease.OutQuad,
	EaseInOutQuad:    ease.InOutQuad,
	EaseInCubic:      ease.InCubic,
	EaseOutCubic:     ease.OutCubic,
	EaseInOutCubic:   ease.InOutCubic,
	EaseInQuart:      ease.InQuart,
	EaseOutQuart:     ease.OutQuart,
	EaseInOutQuart:   ease.InOutQuart,
	EaseInQuint:      ease.InQuint,
	EaseOutQuint:     ease.OutQuint,
	EaseInOutQuint:   ease.InOutQuint,
	EaseInElastic:    ease.InElastic,
	EaseOutElastic:   ease.OutElastic,
	EaseInOutElastic: ease.InOutElastic,
	EaseInBounce:     ease.InBounce,
	EaseOutBounce:    ease.OutBounce,
	EaseInOutBounce:  ease.InOutBounce,
	EaseInSine:       ease.InSine,
	EaseOutSine:      ease.OutSine,
	EaseInOutSine:    ease.InOutSine,
	EaseInExpo:       ease.InExpo,
	EaseOutExpo:      ease.OutExpo,
	EaseInOutExpo:    ease.InOutExpo,
	EaseInCirc:       ease.InCirc,
	EaseOutCirc:      ease.OutCirc,
	EaseInOutCirc:    ease.InOutCirc,
	EaseInBack:       ease.InBack,
	EaseOutBack:      ease.OutBack,
	EaseInOutBack:    ease.InOutBack,
}

// Lookup returns the gween curve registered under name. Unknown names fall
// back to linear; ok reports whether name was known.
func Lookup(name string) (fn ease.TweenFunc, ok bool) {
	fn, ok = curves[name]
	if !ok {
		return ease.Linear, false
	}
	return fn, true
}

// Ease maps normalized progress t through the named curve. Elastic, back and
// bounce curves may leave [0, 1] in between, but every curve returns exactly
// 0 for t <= 0 and exactly 1 for t >= 1. Linear, and unknown names, return t
// unchanged.
func Ease(name string, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	fn, ok := Lookup(name)
	if !ok || name == EaseLinear {
		return t
	}
	return float64(fn(float32(t), 0, 1, 1))
}

// EasingNames returns every registered curve name, sorted.
func EasingNames() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
