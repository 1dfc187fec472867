// Package config loads stackfold options from TOML files.
//
// Every field has a default, so an empty or missing file yields [Default].
// Durations are written as Go duration strings:
//
//	auto_layout = true
//
//	[layout]
//	algorithm = "neato"
//	spacing = 24.0
//	padding = 10.0
//	fit = true
//	animate = "250ms"
//	max_passes = 10
//	overlap_padding = 2.0
//	debounce = "100ms"
package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackfold/pkg/errors"
	"github.com/matzehuels/stackfold/pkg/layout"
)

// Defaults for Layout fields.
const (
	DefaultAlgorithm      = layout.DefaultAlgorithm
	DefaultSpacing        = 20.0
	DefaultPadding        = 10.0
	DefaultAnimate        = 250 * time.Millisecond
	DefaultMaxPasses      = layout.DefaultMaxPasses
	DefaultOverlapPadding = 2.0
	DefaultDebounce       = layout.DefaultDebounce
)

// Duration is a time.Duration that reads and writes as a string such as
// "250ms" in TOML.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Layout holds layout and overlap resolution settings.
type Layout struct {
	Algorithm      string   `toml:"algorithm"`
	Spacing        float64  `toml:"spacing"`
	Padding        float64  `toml:"padding"`
	Fit            bool     `toml:"fit"`
	Animate        Duration `toml:"animate"`
	MaxPasses      int      `toml:"max_passes"`
	OverlapPadding float64  `toml:"overlap_padding"`
	Debounce       Duration `toml:"debounce"`
}

// Config is the top-level configuration.
type Config struct {
	AutoLayout bool   `toml:"auto_layout"`
	Layout     Layout `toml:"layout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AutoLayout: false,
		Layout: Layout{
			Algorithm:      DefaultAlgorithm,
			Spacing:        DefaultSpacing,
			Padding:        DefaultPadding,
			Fit:            false,
			Animate:        Duration(DefaultAnimate),
			MaxPasses:      DefaultMaxPasses,
			OverlapPadding: DefaultOverlapPadding,
			Debounce:       Duration(DefaultDebounce),
		},
	}
}

// Load reads a TOML file on top of Default and validates the result. An
// empty path returns Default. Unknown keys are rejected so typos surface.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML data on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	l := c.Layout
	switch {
	case !layout.ValidAlgorithm(l.Algorithm):
		return errors.New(errors.ErrCodeInvalidAlgorithm, "unknown layout algorithm %q (want one of %s)",
			l.Algorithm, strings.Join(layout.Algorithms, ", "))
	case l.Spacing < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.spacing must not be negative")
	case l.Padding < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.padding must not be negative")
	case l.Animate < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.animate must not be negative")
	case l.MaxPasses < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.max_passes must be at least 1")
	case l.OverlapPadding < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.overlap_padding must not be negative")
	case l.Debounce < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.debounce must not be negative")
	}
	return nil
}

// LayoutOptions converts the layout section into coordinator options.
func (l Layout) LayoutOptions() layout.Options {
	return layout.Options{
		Algorithm: l.Algorithm,
		Spacing:   l.Spacing,
		Padding:   l.Padding,
		Fit:       l.Fit,
		Animate:   l.Animate.Std(),
	}
}

// Encode writes c as TOML.
func (c Config) Encode() ([]byte, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return []byte(b.String()), nil
}
