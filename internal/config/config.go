package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/planbiir/gpx2garmin/internal/stamp"
)

// Profile is the on-disk shape of a conversion profile:
//
//	strategy: fixed        # speed | fixed
//	speed_kmh: 12
//	interval_seconds: 10
type Profile struct {
	Strategy        string  `mapstructure:"strategy"`
	SpeedKmh        float64 `mapstructure:"speed_kmh"`
	IntervalSeconds int     `mapstructure:"interval_seconds"`
}

// Load returns the timestamp settings for a run. An empty path means the
// built-in defaults; otherwise the YAML file at path overrides them key by key.
func Load(path string) (stamp.Config, error) {
	defaults := stamp.DefaultConfig()
	if path == "" {
		return defaults, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("strategy", defaults.Strategy.String())
	v.SetDefault("speed_kmh", defaults.SpeedKmh)
	v.SetDefault("interval_seconds", int(defaults.Interval/time.Second))

	if err := v.ReadInConfig(); err != nil {
		return stamp.Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return stamp.Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg, err := p.StampConfig()
	if err != nil {
		return stamp.Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// StampConfig converts the profile and validates the result
func (p Profile) StampConfig() (stamp.Config, error) {
	strategy, err := stamp.ParseStrategy(p.Strategy)
	if err != nil {
		return stamp.Config{}, err
	}

	cfg := stamp.Config{
		Strategy: strategy,
		SpeedKmh: p.SpeedKmh,
		Interval: time.Duration(p.IntervalSeconds) * time.Second,
	}
	if err := cfg.Validate(); err != nil {
		return stamp.Config{}, err
	}
	return cfg, nil
}
