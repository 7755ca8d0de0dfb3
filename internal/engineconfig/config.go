// Package engineconfig loads engine.EngineConfig from layered sources:
// built-in defaults, an optional YAML file, then environment variables, each
// overriding the last.
package engineconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/anthropics/audioengine/pkg/engine"
	"github.com/anthropics/audioengine/pkg/spatial"
)

// fileConfig mirrors engine.EngineConfig's fields for viper/mapstructure
// unmarshaling. Rolloff is a string in config (`"linear"`/`"inverse_square"`)
// since RolloffMode has no natural text encoding of its own.
type fileConfig struct {
	SampleRate          int     `mapstructure:"SampleRate"`
	Channels            int     `mapstructure:"Channels"`
	TrackCapacity       int     `mapstructure:"TrackCapacity"`
	SoundCapacity       int     `mapstructure:"SoundCapacity"`
	ClockCapacity       int     `mapstructure:"ClockCapacity"`
	ModulatorCapacity   int     `mapstructure:"ModulatorCapacity"`
	EmitterCapacity     int     `mapstructure:"EmitterCapacity"`
	ListenerCapacity    int     `mapstructure:"ListenerCapacity"`
	CommandRingCapacity int     `mapstructure:"CommandRingCapacity"`
	InternalBufferSize  int     `mapstructure:"InternalBufferSize"`
	MaxSpatialDistance  float64 `mapstructure:"MaxSpatialDistance"`
	SpatialRolloff      string  `mapstructure:"SpatialRolloff"`
}

func defaultsFromEngine() fileConfig {
	d := engine.DefaultConfig()
	return fileConfig{
		SampleRate:          d.SampleRate,
		Channels:            d.Channels,
		TrackCapacity:       d.TrackCapacity,
		SoundCapacity:       d.SoundCapacity,
		ClockCapacity:       d.ClockCapacity,
		ModulatorCapacity:   d.ModulatorCapacity,
		EmitterCapacity:     d.EmitterCapacity,
		ListenerCapacity:    d.ListenerCapacity,
		CommandRingCapacity: d.CommandRingCapacity,
		InternalBufferSize:  d.InternalBufferSize,
		MaxSpatialDistance:  d.MaxSpatialDistance,
		SpatialRolloff:      rolloffToString(d.SpatialRolloff),
	}
}

func rolloffToString(r spatial.RolloffMode) string {
	if r == spatial.RolloffInverseSquare {
		return "inverse_square"
	}
	return "linear"
}

func rolloffFromString(s string) (spatial.RolloffMode, error) {
	switch strings.ToLower(s) {
	case "", "linear":
		return spatial.RolloffLinear, nil
	case "inverse_square":
		return spatial.RolloffInverseSquare, nil
	default:
		return 0, fmt.Errorf("engineconfig: unknown SpatialRolloff %q", s)
	}
}

func (f fileConfig) toEngineConfig() (engine.EngineConfig, error) {
	rolloff, err := rolloffFromString(f.SpatialRolloff)
	if err != nil {
		return engine.EngineConfig{}, err
	}
	return engine.EngineConfig{
		SampleRate:          f.SampleRate,
		Channels:            f.Channels,
		TrackCapacity:       f.TrackCapacity,
		SoundCapacity:       f.SoundCapacity,
		ClockCapacity:       f.ClockCapacity,
		ModulatorCapacity:   f.ModulatorCapacity,
		EmitterCapacity:     f.EmitterCapacity,
		ListenerCapacity:    f.ListenerCapacity,
		CommandRingCapacity: f.CommandRingCapacity,
		InternalBufferSize:  f.InternalBufferSize,
		MaxSpatialDistance:  f.MaxSpatialDistance,
		SpatialRolloff:      rolloff,
	}, nil
}

// toSnakeUpper converts a CamelCase mapstructure key (e.g. "SampleRate") to
// its documented env var suffix ("SAMPLE_RATE").
func toSnakeUpper(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("audioengine")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.audioengine")
	}

	d := defaultsFromEngine()
	v.SetDefault("SampleRate", d.SampleRate)
	v.SetDefault("Channels", d.Channels)
	v.SetDefault("TrackCapacity", d.TrackCapacity)
	v.SetDefault("SoundCapacity", d.SoundCapacity)
	v.SetDefault("ClockCapacity", d.ClockCapacity)
	v.SetDefault("ModulatorCapacity", d.ModulatorCapacity)
	v.SetDefault("EmitterCapacity", d.EmitterCapacity)
	v.SetDefault("ListenerCapacity", d.ListenerCapacity)
	v.SetDefault("CommandRingCapacity", d.CommandRingCapacity)
	v.SetDefault("InternalBufferSize", d.InternalBufferSize)
	v.SetDefault("MaxSpatialDistance", d.MaxSpatialDistance)
	v.SetDefault("SpatialRolloff", d.SpatialRolloff)

	// Matches the documented ENGINE_<FIELD> convention (e.g. ENGINE_SAMPLE_RATE).
	v.SetEnvPrefix("ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{
		"SampleRate", "Channels", "TrackCapacity", "SoundCapacity", "ClockCapacity",
		"ModulatorCapacity", "EmitterCapacity", "ListenerCapacity", "CommandRingCapacity",
		"InternalBufferSize", "MaxSpatialDistance", "SpatialRolloff",
	} {
		_ = v.BindEnv(key, "ENGINE_"+toSnakeUpper(key))
	}
	v.AutomaticEnv()

	return v
}

// Load builds an EngineConfig from defaults, an optional YAML file, and
// ENGINE_-prefixed environment variables, in that precedence order. An empty
// path searches for audioengine.yaml in "." and "$HOME/.audioengine"; a
// non-empty path that does not exist is skipped, falling back to defaults.
func Load(path string) (engine.EngineConfig, error) {
	v := newViper(path)

	if path == "" || fileExists(path) {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return engine.EngineConfig{}, fmt.Errorf("engineconfig: %w", err)
			}
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return engine.EngineConfig{}, fmt.Errorf("engineconfig: %w", err)
	}
	return fc.toEngineConfig()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Watcher reloads an EngineConfig from disk when the backing file changes and
// passes every field, capacities included, to its callback; it applies
// nothing to a running engine itself. Capacities are immutable
// post-construction per the engine's arena-sizing invariant, so only fields a
// running engine can pick up live (MaxSpatialDistance, SpatialRolloff) are
// meaningful after startup.
type Watcher struct {
	v        *viper.Viper
	onChange func(engine.EngineConfig)
}

// WatchFile starts watching path for changes, invoking onChange with a freshly
// unmarshaled config (built on the same defaults as Load) on every write.
// Capacity fields in the callback's result should be ignored by callers; only
// the live-reloadable fields are meaningful after the engine has started.
func WatchFile(path string, onChange func(engine.EngineConfig)) (*Watcher, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("engineconfig: %w", err)
	}

	w := &Watcher{v: v, onChange: onChange}
	v.OnConfigChange(func(fsnotify.Event) {
		var fc fileConfig
		if err := v.Unmarshal(&fc); err != nil {
			return
		}
		cfg, err := fc.toEngineConfig()
		if err != nil {
			return
		}
		w.onChange(cfg)
	})
	v.WatchConfig()

	return w, nil
}
