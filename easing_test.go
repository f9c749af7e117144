package ambient

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestEaseEndpointsExact(t *testing.T) {
	for _, name := range EasingNames() {
		t.Run(name, func(t *testing.T) {
			if got := Ease(name, 0); got != 0 {
				t.Errorf("Ease(0) = %v, want exactly 0", got)
			}
			if got := Ease(name, 1); got != 1 {
				t.Errorf("Ease(1) = %v, want exactly 1", got)
			}
			if got := Ease(name, -0.5); got != 0 {
				t.Errorf("Ease(-0.5) = %v, want 0", got)
			}
			if got := Ease(name, 1.5); got != 1 {
				t.Errorf("Ease(1.5) = %v, want 1", got)
			}
		})
	}
}

func TestEaseMidpoints(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{EaseLinear, 0.5, 0.5},
		{EaseLinear, 0.25, 0.25},
		{EaseInQuad, 0.5, 0.25},
		{EaseOutQuad, 0.5, 0.75},
		{EaseInOutQuad, 0.25, 0.125},
		{EaseInCubic, 0.5, 0.125},
		{EaseOutCubic, 0.5, 0.875},
		{EaseInOutCubic, 0.5, 0.5},
	}
	for _, tt := range tests {
		got := Ease(tt.name, tt.t)
		if !approxEqual(got, tt.want, 1e-5) {
			t.Errorf("Ease(%s, %v) = %v, want %v", tt.name, tt.t, got, tt.want)
		}
	}
}

func TestEaseLinearIsIdentity(t *testing.T) {
	for _, x := range []float64{0.1, 1.0 / 3, 0.7, 1 - 1e-12} {
		if got := Ease(EaseLinear, x); got != x {
			t.Errorf("Ease(linear, %v) = %v", x, got)
		}
		if got := Ease("bogus", x); got != x {
			t.Errorf("Ease(bogus, %v) = %v", x, got)
		}
	}
}

func TestLookupUnknownFallsBackToLinear(t *testing.T) {
	if _, ok := Lookup("bogus"); ok {
		t.Error("Lookup(bogus) ok = true")
	}
	if _, ok := Lookup(EaseOutQuad); !ok {
		t.Error("Lookup(easeOutQuad) ok = false")
	}
	got := Ease("bogus", 0.3)
	if !approxEqual(got, 0.3, 1e-6) {
		t.Errorf("Ease(bogus, 0.3) = %v, want linear 0.3", got)
	}
}

func TestEasingNamesSorted(t *testing.T) {
	names := EasingNames()
	if len(names) < 10 {
		t.Fatalf("only %d curves registered", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
}

func TestEaseMonotoneProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	for _, name := range []string{EaseLinear, EaseInQuad, EaseOutQuad, EaseInOutQuad, EaseInOutCubic, EaseOutSine} {
		properties.Property(name+" is non-decreasing", prop.ForAll(
			func(a, b float64) bool {
				if a > b {
					a, b = b, a
				}
				return Ease(name, a) <= Ease(name, b)+1e-6
			},
			gen.Float64Range(0, 1),
			gen.Float64Range(0, 1),
		))
		properties.Property(name+" stays in [0, 1]", prop.ForAll(
			func(x float64) bool {
				v := Ease(name, x)
				return v >= -1e-6 && v <= 1+1e-6
			},
			gen.Float64Range(-1, 2),
		))
	}

	properties.TestingRun(t)
}
