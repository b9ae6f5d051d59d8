// Package garmin turns an untimed GPX document into one Garmin Connect
// accepts: the Garmin namespace/metadata boilerplate around deep copies of
// the input segments, with a synthesized <time> on every track point.
package garmin

import (
	"errors"
	"time"

	"github.com/planbiir/gpx2garmin/internal/gpx"
	"github.com/planbiir/gpx2garmin/internal/stamp"
)

// Fixed root decoration Garmin Connect looks for on import
const (
	Creator        = "Garmin Connect"
	SchemaLocation = "http://www.topografix.com/GPX/1/1 http://www.topografix.com/GPX/1/1/gpx.xsd " +
		"http://www.garmin.com/xmlschemas/GpxExtensions/v3 http://www.garmin.com/xmlschemas/GpxExtensionsv3.xsd " +
		"http://www.garmin.com/xmlschemas/TrackPointExtension/v1 http://www.garmin.com/xmlschemas/TrackPointExtensionv1.xsd"

	NamespaceGPX    = "http://www.topografix.com/GPX/1/1"
	NamespaceGPXTPX = "http://www.garmin.com/xmlschemas/TrackPointExtension/v1"
	NamespaceGPXX   = "http://www.garmin.com/xmlschemas/GpxExtensions/v3"
	NamespaceXSI    = "http://www.w3.org/2001/XMLSchema-instance"

	LinkHref = "connect.garmin.com"
	LinkText = "Garmin Connect"
)

// ErrNotGPX is returned when the input root element is not <gpx>
var ErrNotGPX = errors.New("not a gpx file")

// Options controls a single conversion
type Options struct {
	// TrackName is written into every output <trk><name>
	TrackName string

	// Created is the run start time: the metadata timestamp and the anchor
	// for every point timestamp.
	Created time.Time

	Stamp stamp.Config

	// OnPoint, if set, is called after each point is stamped
	OnPoint func()
}

// Summary describes the document Build produced
type Summary struct {
	Tracks   int
	Segments int
	Points   int

	// First and Last are the earliest and latest point timestamps
	First time.Time
	Last  time.Time
}

// Duration is the span between the earliest and latest point timestamp
func (s Summary) Duration() time.Duration {
	return s.Last.Sub(s.First)
}

// Build assembles the Garmin Connect document for in. The input tree is
// only read; every output node is freshly allocated or cloned.
func Build(in *gpx.Document, opts Options) (*gpx.Document, Summary, error) {
	if !in.IsGPX() {
		return nil, Summary{}, ErrNotGPX
	}

	synth, err := stamp.New(opts.Stamp, opts.Created)
	if err != nil {
		return nil, Summary{}, err
	}

	root := newRoot(synth.Start())
	summary := Summary{}

	for _, trkIn := range in.Root.Elements(gpx.TrackElement) {
		trkOut := gpx.NewElement(gpx.TrackElement).
			AppendChild(gpx.NewTextElement(gpx.NameElement, opts.TrackName))
		summary.Tracks++

		for _, segIn := range trkIn.Elements(gpx.SegmentElement) {
			segOut := segIn.Clone()
			summary.Segments++

			synth.BeginSegment()
			for _, pt := range segOut.Elements(gpx.PointElement) {
				ts := synth.Next(gpx.Coordinates(pt))

				pt.RemoveElements(gpx.TimeElement)
				pt.AppendChild(gpx.NewTextElement(gpx.TimeElement, stamp.Format(ts)))

				summary.observe(ts)
				if opts.OnPoint != nil {
					opts.OnPoint()
				}
			}

			trkOut.AppendChild(segOut)
		}

		root.AppendChild(trkOut)
	}

	return gpx.NewDocument(root), summary, nil
}

func (s *Summary) observe(ts time.Time) {
	if s.Points == 0 || ts.Before(s.First) {
		s.First = ts
	}
	if s.Points == 0 || ts.After(s.Last) {
		s.Last = ts
	}
	s.Points++
}

// newRoot builds <gpx> with the Garmin attributes and the metadata block.
func newRoot(created time.Time) *gpx.Node {
	root := gpx.NewElement(gpx.RootElement,
		gpx.Attr{Name: "version", Value: "1.1"},
		gpx.Attr{Name: "creator", Value: Creator},
		gpx.Attr{Name: "xsi:schemaLocation", Value: SchemaLocation},
		gpx.Attr{Name: "xmlns", Value: NamespaceGPX},
		gpx.Attr{Name: "xmlns:gpxtpx", Value: NamespaceGPXTPX},
		gpx.Attr{Name: "xmlns:gpxx", Value: NamespaceGPXX},
		gpx.Attr{Name: "xmlns:xsi", Value: NamespaceXSI},
	)

	link := gpx.NewElement("link", gpx.Attr{Name: "href", Value: LinkHref}).
		AppendChild(gpx.NewTextElement("text", LinkText))

	metadata := gpx.NewElement("metadata").AppendChild(
		link,
		gpx.NewTextElement(gpx.TimeElement, stamp.Format(created)),
	)

	return root.AppendChild(metadata)
}
