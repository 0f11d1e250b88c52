package output

import (
	"fmt"
	"io"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"gpsparser/internal/nmea"
)

// GPXWriter collects position records into a single GPX 1.1 track and
// writes the document on Flush. Only GGA, RMC and GGK carry positions;
// other records are rejected.
type GPXWriter struct {
	w      io.Writer
	name   string
	points []gpx.GPXPoint
}

func NewGPXWriter(w io.Writer, trackName string) *GPXWriter {
	return &GPXWriter{w: w, name: trackName}
}

func (gw *GPXWriter) Write(rec nmea.Record, pc time.Time) error {
	var (
		pt  gpx.GPXPoint
		ts  nmea.Timestamp
		ele *float64
	)
	switch r := rec.(type) {
	case *nmea.GGA:
		pt.Latitude, pt.Longitude = r.Latitude.InexactFloat64(), r.Longitude.InexactFloat64()
		ts = r.Time
		if r.AntennaHeight.Valid {
			h := r.AntennaHeight.Decimal.InexactFloat64()
			ele = &h
		}
	case *nmea.RMC:
		pt.Latitude, pt.Longitude = r.Latitude.InexactFloat64(), r.Longitude.InexactFloat64()
		ts = r.Time
	case *nmea.GGK:
		pt.Latitude, pt.Longitude = r.Latitude.InexactFloat64(), r.Longitude.InexactFloat64()
		ts = r.Time
		h := r.EllipsoidalHeight.InexactFloat64()
		ele = &h
	default:
		return fmt.Errorf("gpx output does not support %T", rec)
	}

	if ele != nil {
		pt.Elevation = *gpx.NewNullableFloat64(*ele)
	}
	switch {
	case ts.HasDate():
		pt.Timestamp = ts.Time()
	case !pc.IsZero():
		pt.Timestamp = pc.UTC()
	}
	gw.points = append(gw.points, pt)
	return nil
}

// Flush writes the collected track. An empty track still produces a valid
// document.
func (gw *GPXWriter) Flush() error {
	doc := &gpx.GPX{
		Version: "1.1",
		Creator: "gpsparser",
		Tracks: []gpx.GPXTrack{{
			Name:     gw.name,
			Segments: []gpx.GPXTrackSegment{{Points: gw.points}},
		}},
	}
	b, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return err
	}
	_, err = gw.w.Write(b)
	return err
}
