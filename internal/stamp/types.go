package stamp

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Strategy selects how elapsed time between points is estimated
type Strategy int

const (
	// SpeedBased derives each step from the distance to the previous point
	// at a constant average speed.
	SpeedBased Strategy = iota
	// FixedInterval advances the clock by the same amount for every point.
	FixedInterval
)

func (s Strategy) String() string {
	switch s {
	case SpeedBased:
		return "speed"
	case FixedInterval:
		return "fixed"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts the names printed by Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "speed":
		return SpeedBased, nil
	case "fixed", "interval":
		return FixedInterval, nil
	}
	return 0, fmt.Errorf("unknown timestamp strategy %q", name)
}

// Speed bounds in km/h. At MinSpeedKmh even a half-circumference step is
// about 7.2e10 s, well inside int64 seconds.
const (
	MinSpeedKmh = 0.001
	MaxSpeedKmh = 1e9
)

var (
	ErrInvalidSpeed    = fmt.Errorf("speed must be between %v and %v km/h", MinSpeedKmh, MaxSpeedKmh)
	ErrInvalidInterval = errors.New("interval must be at least one second")
)

// Config holds timestamp synthesis parameters
type Config struct {
	Strategy Strategy

	SpeedKmh float64       // average speed for SpeedBased
	Interval time.Duration // per-point step for FixedInterval, whole seconds
}

// DefaultConfig returns the settings Garmin Connect imports have always used
func DefaultConfig() Config {
	return Config{
		Strategy: SpeedBased,
		SpeedKmh: 35.0,             // brisk cycling pace
		Interval: 25 * time.Second, // one point every 25 s
	}
}

// Validate checks the parameters the selected strategy depends on
func (c Config) Validate() error {
	switch c.Strategy {
	case SpeedBased:
		// NaN fails these comparisons too
		if !(c.SpeedKmh >= MinSpeedKmh && c.SpeedKmh <= MaxSpeedKmh) {
			return fmt.Errorf("%w: got %v", ErrInvalidSpeed, c.SpeedKmh)
		}
	case FixedInterval:
		if c.Interval < time.Second {
			return fmt.Errorf("%w: got %v", ErrInvalidInterval, c.Interval)
		}
	default:
		return fmt.Errorf("unknown timestamp strategy %d", int(c.Strategy))
	}
	return nil
}
