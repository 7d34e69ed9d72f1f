package orrery

import (
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ConfigEnv is the environment variable holding the directory of conf.toml.
const ConfigEnv = "ORRERY_CONFIG"

// Config is the configuration of the sampling, frames, catalog and logging.
type Config struct {
	Curve struct {
		Points      int     `mapstructure:"points"`
		MaxDistance float64 `mapstructure:"max_distance"`
		Window      float64 `mapstructure:"window"`
	} `mapstructure:"curve"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Catalog struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"catalog"`
	Batch struct {
		Workers int `mapstructure:"workers"`
	} `mapstructure:"batch"`
	Frames struct {
		Tilts   map[string]float64 `mapstructure:"tilts"`
		Recipes []RecipeConfig     `mapstructure:"recipes"`
	} `mapstructure:"frames"`
}

// RecipeConfig is a frame correction recipe as written in the configuration file.
type RecipeConfig struct {
	Parent    string          `mapstructure:"parent"`
	Satellite string          `mapstructure:"satellite"`
	Strategy  string          `mapstructure:"strategy"`
	Steps     []FrameRotation `mapstructure:"steps"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("curve.points", DefaultCurvePoints)
	v.SetDefault("curve.max_distance", 50.0)
	v.SetDefault("curve.window", defaultWindow)
	v.SetDefault("log.level", "info")
	v.SetDefault("catalog.path", "")
	v.SetDefault("batch.workers", 4)
}

// DefaultConfig returns the configuration used when no conf.toml is found.
func DefaultConfig() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(err)
	}
	return c
}

// LoadConfig reads conf.toml from dir, or from the directory in ORRERY_CONFIG if dir is
// empty. Keys may be overridden by ORRERY_* environment variables (e.g. ORRERY_LOG_LEVEL).
// Without any directory the defaults are returned.
func LoadConfig(dir string) (Config, error) {
	if dir == "" {
		dir = os.Getenv(ConfigEnv)
	}
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("orrery")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if dir != "" {
		v.SetConfigName("conf")
		v.SetConfigType("toml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "%s/conf.toml", dir)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "could not decode configuration")
	}
	return c, nil
}

// SampleOptions returns the curve sampling options.
func (c Config) SampleOptions() SampleOptions {
	return SampleOptions{Points: c.Curve.Points, MaxDistance: c.Curve.MaxDistance, Window: c.Curve.Window}
}

// Corrections returns the default frame corrections extended by the configured ones.
func (c Config) Corrections() (*CorrectionTable, error) {
	recipes := make([]FrameCorrection, 0, len(c.Frames.Recipes))
	for _, r := range c.Frames.Recipes {
		s, err := ParseCorrectionStrategy(r.Strategy)
		if err != nil {
			return nil, errors.Wrapf(err, "recipe for %s", r.Parent)
		}
		steps := make([]FrameRotation, len(r.Steps))
		for i, step := range r.Steps {
			if step.Axis, err = ParseAxis(string(step.Axis)); err != nil {
				return nil, errors.Wrapf(err, "recipe for %s, step %d", r.Parent, i)
			}
			steps[i] = step
		}
		recipes = append(recipes, FrameCorrection{Parent: r.Parent, Satellite: r.Satellite, Strategy: s, Steps: steps})
	}
	return DefaultCorrections().With(c.Frames.Tilts, recipes)
}

// LoadCatalog returns the configured catalog, or the default one.
func (c Config) LoadCatalog() (*Catalog, error) {
	if c.Catalog.Path == "" {
		return DefaultCatalog(), nil
	}
	return LoadCatalog(c.Catalog.Path)
}

// Logger returns the configured logger writing to w.
func (c Config) Logger(w io.Writer) log.Logger {
	return NewLogger(w, c.Log.Level)
}
