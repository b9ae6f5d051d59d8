package stamp

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/planbiir/gpx2garmin/internal/geo"
)

// Layout is the UTC timestamp format Garmin Connect expects
const Layout = "2006-01-02T15:04:05Z"

// Format renders t in UTC with whole-second precision.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Synthesizer hands out one timestamp per track point, anchored at the run
// start time. Call BeginSegment before the first point of every segment.
type Synthesizer struct {
	cfg   Config
	start time.Time

	// whole seconds past start
	offset int64

	prev    orb.Point
	hasPrev bool
}

// New validates cfg and returns a synthesizer anchored at start.
func New(cfg Config, start time.Time) (*Synthesizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Synthesizer{
		cfg:   cfg,
		start: start.UTC().Truncate(time.Second),
	}, nil
}

// Start returns the anchor every timestamp is offset from.
func (s *Synthesizer) Start() time.Time {
	return s.start
}

// BeginSegment marks a segment boundary. The speed-based strategy starts
// over from the anchor; the fixed interval keeps counting across segments.
func (s *Synthesizer) BeginSegment() {
	if s.cfg.Strategy == SpeedBased {
		s.offset = 0
		s.hasPrev = false
	}
}

// Next returns the timestamp for p, the next point in document order.
func (s *Synthesizer) Next(p orb.Point) time.Time {
	if s.cfg.Strategy == FixedInterval {
		t := s.at()
		s.offset += int64(s.cfg.Interval / time.Second)
		return t
	}

	if s.hasPrev {
		s.offset += s.speedStep(s.prev, p)
	}
	s.prev = p
	s.hasPrev = true

	return s.at()
}

// speedStep is the travel time from a to b in whole seconds. Anything
// under a second still counts as one so timestamps strictly increase.
func (s *Synthesizer) speedStep(a, b orb.Point) int64 {
	speed := s.cfg.SpeedKmh / 3600.0 // km/s
	tv := geo.DistanceKm(a, b) / speed
	if tv < 1 {
		return 1
	}
	if tv >= maxStep {
		return maxStep
	}
	return int64(tv)
}

// maxStep caps a single step; Validate keeps real steps far below it.
const maxStep = 1 << 40

func (s *Synthesizer) at() time.Time {
	// time.Duration overflows past ~292 years of offset, Unix seconds do not
	return time.Unix(s.start.Unix()+s.offset, 0).UTC()
}
