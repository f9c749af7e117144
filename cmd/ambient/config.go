package main

import (
	"bytes"
	"reflect"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/ambient"
)

const envPrefix = "AMBIENT"

// newViper returns a viper instance seeded with every default key, reading
// AMBIENT_* environment variables and, if cfgFile is set, the YAML file.
func newViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	if err := setDefaults(v, ambient.DefaultConfig()); err != nil {
		return nil, err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithHint(
				errors.Wrapf(err, "read config %s", cfgFile),
				"config files are YAML; see DefaultConfig for the keys",
			)
		}
	}
	return v, nil
}

// setDefaults registers cfg, flattened, as viper defaults so every nested key
// is known to AutomaticEnv and survives file reloads.
func setDefaults(v *viper.Viper, cfg ambient.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode default config")
	}
	tmp := viper.New()
	tmp.SetConfigType("yaml")
	if err := tmp.ReadConfig(bytes.NewReader(raw)); err != nil {
		return errors.Wrap(err, "load default config")
	}
	for _, key := range tmp.AllKeys() {
		v.SetDefault(key, tmp.Get(key))
	}
	return nil
}

// decodeConfig unmarshals and validates v. Every key has a viper default, so
// decoding starts from a zero Config.
func decodeConfig(v *viper.Viper) (ambient.Config, error) {
	var cfg ambient.Config
	hook := mapstructure.ComposeDecodeHookFunc(
		colorHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return ambient.Config{}, errors.Mark(errors.Wrap(err, "decode config"), ambient.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return ambient.Config{}, err
	}
	return cfg, nil
}

var colorType = reflect.TypeOf(ambient.Color{})

// colorHook decodes hex strings such as "#00ff88" or "#00ff8880" into
// colors, so file, env and default values all share one form.
func colorHook(from, to reflect.Type, data any) (any, error) {
	if to != colorType || from.Kind() != reflect.String {
		return data, nil
	}
	return ambient.ParseColor(data.(string))
}

// reloader hands config changes from viper's watcher goroutine to the frame
// loop, which applies them between frames.
type reloader struct {
	v   *viper.Viper
	log *zap.Logger

	mu      sync.Mutex
	pending *ambient.Config
}

func watchConfig(v *viper.Viper, log *zap.Logger) *reloader {
	r := &reloader{v: v, log: log.Named("config")}
	v.OnConfigChange(r.onChange)
	v.WatchConfig()
	r.log.Info("watching config", zap.String("file", v.ConfigFileUsed()))
	return r
}

func (r *reloader) onChange(e fsnotify.Event) {
	cfg, err := decodeConfig(r.v)
	if err != nil {
		r.log.Warn("config change rejected", zap.String("file", e.Name), zap.Error(err))
		return
	}
	r.mu.Lock()
	r.pending = &cfg
	r.mu.Unlock()
	r.log.Info("config changed", zap.String("file", e.Name), zap.Stringer("op", e.Op))
}

// apply reloads the engine with the latest accepted change, if any. Safe on a
// nil reloader.
func (r *reloader) apply(e *ambient.Engine) {
	if r == nil {
		return
	}
	r.mu.Lock()
	cfg := r.pending
	r.pending = nil
	r.mu.Unlock()
	if cfg == nil {
		return
	}
	if err := e.Reload(*cfg); err != nil {
		r.log.Warn("reload failed", zap.Error(err))
	}
}
