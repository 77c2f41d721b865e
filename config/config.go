// Package config loads analyzer configuration from boundscheck.conf
// files, walking up from a starting directory and merging each file
// found with its ancestors, the way honnef.co/go/tools/config loads
// staticcheck.conf. Every knob here is non-semantic: it gates which
// diagnostic categories are reported and bounds the fixpoint engine's
// defensive iteration cap. None of it changes what the analysis itself
// concludes is sound.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/valuerange/boundscheck/diag"
)

// Config holds the knobs a host may set. The zero Config is valid and
// behaves like Default().
type Config struct {
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Engine      EngineConfig      `toml:"engine"`
	Report      ReportConfig      `toml:"report"`
}

// DiagnosticsConfig gates which categories the verifier's findings are
// reported under. Category is the only one the core verifier produces
// today, but the set is named explicitly rather than left implicit.
type DiagnosticsConfig struct {
	EnabledCategories []string `toml:"enabled_categories"`
}

// Enabled reports whether c is configured to report category.
func (c DiagnosticsConfig) Enabled(category diag.Category) bool {
	for _, want := range c.EnabledCategories {
		if want == "all" || want == string(category) {
			return true
		}
	}
	return false
}

// EngineConfig controls the fixpoint engine's defensive backstop.
type EngineConfig struct {
	// MaxIterations caps block visits before the engine aborts with a
	// structural-assumption error rather than looping forever. This is a
	// backstop against a broken widening rule, not part of the
	// analysis's own termination argument. Zero means use the engine's
	// built-in default.
	MaxIterations int `toml:"max_iterations"`
}

// ReportConfig controls rendering, not analysis.
type ReportConfig struct {
	Color bool `toml:"color"`
}

type config struct {
	cfg  Config
	meta toml.MetaData
}

var defaultConfig = Config{
	Diagnostics: DiagnosticsConfig{
		EnabledCategories: []string{"all"},
	},
	Engine: EngineConfig{
		MaxIterations: 0,
	},
	Report: ReportConfig{
		Color: false,
	},
}

// Default returns the configuration used when no boundscheck.conf is
// found anywhere above the starting directory.
func Default() Config { return defaultConfig }

const configName = "boundscheck.conf"

func parseConfigs(dir string) ([]config, error) {
	var out []config

	for dir != "" {
		f, err := os.Open(filepath.Join(dir, configName))
		if os.IsNotExist(err) {
			ndir := filepath.Dir(dir)
			if ndir == dir {
				break
			}
			dir = ndir
			continue
		}
		if err != nil {
			return nil, err
		}
		var cfg Config
		meta, err := toml.DecodeReader(f, &cfg)
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, config{cfg: cfg, meta: meta})
		ndir := filepath.Dir(dir)
		if ndir == dir {
			break
		}
		dir = ndir
	}
	out = append(out, config{cfg: defaultConfig})

	// reverse so the most distant ancestor (the default config) merges
	// first and the starting directory's own file wins last.
	for i := 0; i < len(out)/2; i++ {
		out[i], out[len(out)-1-i] = out[len(out)-1-i], out[i]
	}
	return out, nil
}

func (c config) merge(o config) config {
	if o.meta.IsDefined("diagnostics", "enabled_categories") {
		c.cfg.Diagnostics.EnabledCategories = o.cfg.Diagnostics.EnabledCategories
	}
	if o.meta.IsDefined("engine", "max_iterations") {
		c.cfg.Engine.MaxIterations = o.cfg.Engine.MaxIterations
	}
	if o.meta.IsDefined("report", "color") {
		c.cfg.Report.Color = o.cfg.Report.Color
	}
	return c
}

func mergeConfigs(confs []config) Config {
	conf := confs[0]
	for _, other := range confs[1:] {
		conf = conf.merge(other)
	}
	return conf.cfg
}

// Load walks up from dir, merging every boundscheck.conf found along the
// way (closer to dir wins), falling back to Default() for anything no
// file set.
func Load(dir string) (Config, error) {
	confs, err := parseConfigs(dir)
	if err != nil {
		return Config{}, err
	}
	return mergeConfigs(confs), nil
}
