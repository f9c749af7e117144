package ambient

import (
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// RevealConfig controls the scroll-reveal entrance.
type RevealConfig struct {
	// Threshold is the visible ratio at which a pending element reveals.
	Threshold float64 `mapstructure:"threshold" yaml:"threshold" validate:"gte=0,lte=1"`
	// FadeDistance is the translateY offset the element rises from.
	FadeDistance float64 `mapstructure:"fade_distance" yaml:"fade_distance"`
	// Duration of the entrance tween.
	Duration time.Duration `mapstructure:"duration" yaml:"duration" validate:"gt=0"`
	// Easing names the entrance curve.
	Easing string `mapstructure:"easing" yaml:"easing"`
	// OnReveal, if set, is called once per element as its entrance starts.
	OnReveal func(el Revealable) `mapstructure:"-" yaml:"-"`
}

// RevealObserver watches elements and gives each a one-shot entrance the
// first frame its visible ratio reaches the threshold. A revealed element is
// dropped from observation immediately; leaving the viewport never hides it
// again.
type RevealObserver struct {
	sched   *Scheduler
	cfg     RevealConfig
	pending []Revealable
	done    int

	log     *zap.Logger
	metrics *Metrics
}

// NewRevealObserver creates an observer whose entrance tweens run on sched.
func NewRevealObserver(sched *Scheduler, cfg RevealConfig, log *zap.Logger) (*RevealObserver, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RevealObserver{
		sched:   sched,
		cfg:     cfg,
		log:     log.Named("reveal"),
		metrics: sched.metrics,
	}, nil
}

func (c RevealConfig) check() error {
	if c.Duration <= 0 {
		return errors.Wrapf(ErrInvalidDuration, "reveal duration %v", c.Duration)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return errors.Wrapf(ErrInvalidConfig, "reveal threshold %v outside [0, 1]", c.Threshold)
	}
	return nil
}

// Observe registers el. Registering an element twice is a no-op.
func (o *RevealObserver) Observe(el Revealable) {
	if el == nil || o.index(el) >= 0 {
		return
	}
	o.pending = append(o.pending, el)
}

// Unobserve stops watching el without revealing it.
func (o *RevealObserver) Unobserve(el Revealable) {
	if i := o.index(el); i >= 0 {
		o.pending = append(o.pending[:i], o.pending[i+1:]...)
	}
}

// Pending returns the number of elements still waiting to reveal.
func (o *RevealObserver) Pending() int {
	return len(o.pending)
}

// Revealed returns the number of elements revealed so far.
func (o *RevealObserver) Revealed() int {
	return o.done
}

// SetConfig swaps the entrance settings used by future reveals. An invalid
// config is rejected and the old one kept.
func (o *RevealObserver) SetConfig(cfg RevealConfig) error {
	if err := cfg.check(); err != nil {
		return err
	}
	if cfg.OnReveal == nil {
		cfg.OnReveal = o.cfg.OnReveal
	}
	o.cfg = cfg
	return nil
}

// Update polls every pending element once. Call it once per frame. Elements
// that enter are removed before any OnReveal runs, so callbacks may Observe
// or Unobserve freely; elements observed during Update are polled next frame.
func (o *RevealObserver) Update() {
	var entered []Revealable
	kept := o.pending[:0]
	for _, el := range o.pending {
		if o.entered(el.IntersectionRatio()) {
			entered = append(entered, el)
			continue
		}
		kept = append(kept, el)
	}
	clear(o.pending[len(kept):])
	o.pending = kept

	for _, el := range entered {
		o.reveal(el)
	}
}

func (o *RevealObserver) entered(ratio float64) bool {
	return ratio > 0 && ratio >= o.cfg.Threshold
}

// reveal stages el at its hidden pose and starts the entrance tween.
func (o *RevealObserver) reveal(el Revealable) {
	el.Set(PropOpacity, 0)
	el.Set(PropTranslateY, o.cfg.FadeDistance)

	_, err := o.sched.TweenProperties(PropertyTween{
		Target:   el,
		From:     map[string]float64{PropOpacity: 0, PropTranslateY: o.cfg.FadeDistance},
		To:       map[string]float64{PropOpacity: 1, PropTranslateY: 0},
		Duration: o.cfg.Duration,
		Easing:   o.cfg.Easing,
	})
	if err != nil {
		// The config was validated, so this only happens after a bad
		// SetConfig slipped through; show the element rather than leave it hidden.
		o.log.Warn("reveal tween rejected", zap.Error(err))
		el.Set(PropOpacity, 1)
		el.Set(PropTranslateY, 0)
	}

	o.done++
	o.metrics.revealed()
	if o.cfg.OnReveal != nil {
		o.cfg.OnReveal(el)
	}
}

func (o *RevealObserver) index(el Revealable) int {
	for i, p := range o.pending {
		if p == el {
			return i
		}
	}
	return -1
}
