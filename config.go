package ambient

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata per type.
var validate = validator.New()

// Config is the complete engine configuration. Field tags let hosts load it
// with viper (mapstructure) or directly from YAML.
type Config struct {
	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	Burst   BurstConfig   `mapstructure:"burst" yaml:"burst"`
	Reveal  RevealConfig  `mapstructure:"reveal" yaml:"reveal"`
	Camera  CameraConfig  `mapstructure:"camera" yaml:"camera"`

	// BurstCount is the particle count used for pointer clicks.
	BurstCount int `mapstructure:"burst_count" yaml:"burst_count" validate:"gt=0"`
	// Width and Height are the initial viewport size in pixels.
	Width  int `mapstructure:"width" yaml:"width" validate:"gt=0"`
	Height int `mapstructure:"height" yaml:"height" validate:"gt=0"`
	// Debug logs per-frame stats at debug level.
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// Brand colors.
var (
	ColorPrimary   = ColorHex(0x00ff88)
	ColorSecondary = ColorHex(0x0088ff)
	ColorAccent    = ColorHex(0xff0088)
	ColorFog       = ColorHex(0x0a0a0f)
)

// DefaultConfig returns the stock look: a 20-node, 30-edge network with 10
// agents, 20-particle bursts and a 1s easeOutQuad reveal.
func DefaultConfig() Config {
	return Config{
		Network: NetworkConfig{
			Graph:        GraphConfig{NodeCount: 20, EdgeCount: 30, Extent: 100},
			Agents:       SwarmConfig{Count: 10, Speed: Range{Min: 0.002, Max: 0.005}},
			NodeRadius:   0.5,
			NodeColor:    ColorPrimary,
			EdgeColor:    ColorSecondary,
			EdgeOpacity:  0.3,
			AgentSize:    0.3,
			AgentColor:   ColorAccent,
			NodeSpin:     0.01,
			AgentSpin:    0.05,
			BobAmplitude: 0.6,
			BobFrequency: 1,
		},
		Burst: BurstConfig{
			Speed:   Range{Min: 2, Max: 5},
			Gravity: 0.1,
			Decay:   0.02,
			Size:    Range{Min: 4, Max: 8},
			Palette: []Color{ColorPrimary, ColorSecondary, ColorAccent},
		},
		Reveal: RevealConfig{
			Threshold:    0.1,
			FadeDistance: 30,
			Duration:     time.Second,
			Easing:       EaseOutQuad,
		},
		Camera: CameraConfig{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Distance: 50,
			Sway:     10,
			Lerp:     0.05,
			Fog:      Fog{Color: ColorFog, Near: 100, Far: 1000},
		},
		BurstCount: 20,
		Width:      1280,
		Height:     720,
	}
}

// Validate checks struct tags and the cross-field rules tags cannot express.
// Every failure wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Network.Agents.Speed.Min <= 0 || !c.Network.Agents.Speed.valid() {
		return errors.Wrapf(ErrInvalidConfig, "network.agents.speed: need 0 < min <= max, got %+v", c.Network.Agents.Speed)
	}
	if !c.Burst.Speed.valid() || !c.Burst.Size.valid() {
		return errors.Wrapf(ErrInvalidConfig, "burst: speed %+v size %+v must have min <= max", c.Burst.Speed, c.Burst.Size)
	}
	if c.Network.Agents.Count > 0 && c.Network.Graph.EdgeCount == 0 {
		return errors.WithHint(
			errors.Wrap(ErrInvalidConfig, "network: agents need at least one edge"),
			"set network.graph.edges above zero")
	}
	if _, ok := Lookup(c.Reveal.Easing); !ok && c.Reveal.Easing != "" {
		return errors.Wrapf(ErrInvalidConfig, "reveal.easing: unknown curve %q (have %s)",
			c.Reveal.Easing, strings.Join(EasingNames(), ", "))
	}
	return nil
}

// formatValidationError folds validator field errors into one readable error.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Namespace()+": failed "+fe.Tag()+" "+fe.Param())
	}
	return errors.Wrap(ErrInvalidConfig, strings.Join(msgs, "; "))
}
