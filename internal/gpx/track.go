package gpx

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/planbiir/gpx2garmin/internal/geo"
)

// GPX element names
const (
	RootElement    = "gpx"
	TrackElement   = "trk"
	SegmentElement = "trkseg"
	PointElement   = "trkpt"
	TimeElement    = "time"
	NameElement    = "name"
)

// IsGPX reports whether the document root is a <gpx> element
func (d *Document) IsGPX() bool {
	return d != nil && d.Root != nil && d.Root.Kind == ElementNode && d.Root.Name == RootElement
}

// Coordinates reads the lat/lon attributes of a track point. A missing or
// non-numeric attribute counts as 0.
func Coordinates(trkpt *Node) orb.Point {
	return geo.Point(floatAttr(trkpt, "lat"), floatAttr(trkpt, "lon"))
}

func floatAttr(n *Node, name string) float64 {
	v, ok := n.Attr(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// Stats summarizes the track hierarchy of a document
type Stats struct {
	Tracks     int     `json:"tracks"`
	Segments   int     `json:"segments"`
	Points     int     `json:"points"`
	DistanceKm float64 `json:"distance_km"`
}

// Stats counts tracks, segments and points and sums the great-circle path
// length of every segment.
func (d *Document) Stats() Stats {
	var stats Stats
	if !d.IsGPX() {
		return stats
	}

	for _, trk := range d.Root.Elements(TrackElement) {
		stats.Tracks++
		for _, seg := range trk.Elements(SegmentElement) {
			stats.Segments++

			points := seg.Elements(PointElement)
			stats.Points += len(points)

			line := make(orb.LineString, 0, len(points))
			for _, pt := range points {
				line = append(line, Coordinates(pt))
			}
			stats.DistanceKm += geo.PathKm(line)
		}
	}

	return stats
}
