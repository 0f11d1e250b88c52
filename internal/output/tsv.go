// Package output serializes decoded records for the batch driver.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gpsparser/internal/nmea"
)

// Sink receives decoded records. pc is the line's PC timestamp, or the zero
// time when the line had none.
type Sink interface {
	Write(rec nmea.Record, pc time.Time) error
	Flush() error
}

// Datetimes are written as six tab separated columns
// (year, month, day, hour, minute, seconds) so the files load straight into
// MATLAB/Octave and datevec() can rebuild them.
const nanVector = "NaN\tNaN\tNaN\tNaN\tNaN\tNaN"

// DatetimeVector formats t as YYYY MM DD HH MN SS.ssssss.
func DatetimeVector(t time.Time) string {
	sec := float64(t.Second()) + float64(t.Nanosecond()/1000)/1e6
	return fmt.Sprintf("%d\t%d\t%d\t%d\t%d\t%.6f", t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), sec)
}

func timestampVector(ts nmea.Timestamp) string {
	return DatetimeVector(ts.Time())
}

func num(d decimal.Decimal) string { return d.String() }

// coord writes latitude and longitude with a fixed ten decimal places.
func coord(d decimal.Decimal) string { return d.StringFixed(10) }

func optNum(d decimal.NullDecimal) string {
	if !d.Valid {
		return "NaN"
	}
	return d.Decimal.String()
}

func list(ds []decimal.Decimal) string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return strings.Join(out, ",")
}

func optList(ds []decimal.NullDecimal) string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = optNum(d)
	}
	return strings.Join(out, ",")
}

// Columns returns the fields of rec in output order, excluding the PC
// timestamp. Types without their own time (GSV, VTG, HDT) start directly
// with their values.
func Columns(rec nmea.Record) []string {
	switch r := rec.(type) {
	case *nmea.GGA:
		return []string{timestampVector(r.Time), coord(r.Latitude), coord(r.Longitude), num(r.Quality),
			num(r.Satellites), num(r.HDOP), optNum(r.AntennaHeight), optNum(r.GeoidSeparation)}
	case *nmea.ZDA:
		return []string{timestampVector(r.Time)}
	case *nmea.RMC:
		return []string{timestampVector(r.Time), fmt.Sprint(r.FixStatus), coord(r.Latitude), coord(r.Longitude),
			num(r.Knots), num(r.Course)}
	case *nmea.GST:
		return []string{timestampVector(r.Time), num(r.ResidualRMS), num(r.SemiMajor), num(r.SemiMinor),
			num(r.Orientation), num(r.Lat1Sigma), num(r.Lon1Sigma), num(r.Height1Sigma)}
	case *nmea.GSV:
		return []string{list(r.PRN), list(r.Elevation), optList(r.Azimuth), optList(r.SNR)}
	case *nmea.VTG:
		return []string{num(r.Course), num(r.Knots), num(r.Kmph)}
	case *nmea.HDT:
		return []string{num(r.Heading)}
	case *nmea.PASHR:
		return []string{timestampVector(r.Time), num(r.Heading), num(r.Roll), num(r.Pitch), num(r.Heave),
			num(r.RollAccuracy), num(r.PitchAccuracy), num(r.HeadingAccuracy), num(r.HeadingAlgorithm), num(r.IMUStatus)}
	case *nmea.GGK:
		return []string{timestampVector(r.Time), coord(r.Latitude), coord(r.Longitude), num(r.Quality),
			num(r.Satellites), num(r.DOP), num(r.EllipsoidalHeight)}
	}
	return nil
}

// hasOwnTime reports whether rec carries a sentence time.
func hasOwnTime(rec nmea.Record) bool {
	switch rec.Type() {
	case nmea.TypeGSV, nmea.TypeVTG, nmea.TypeHDT:
		return false
	}
	return true
}

// FormatRow renders one tab separated output line without the newline.
// The PC timestamp vector leads when present. Types without their own
// time always get a leading vector, NaN filled when pc is zero.
func FormatRow(rec nmea.Record, pc time.Time) string {
	cols := Columns(rec)
	switch {
	case !pc.IsZero():
		cols = append([]string{DatetimeVector(pc)}, cols...)
	case !hasOwnTime(rec):
		cols = append([]string{nanVector}, cols...)
	}
	return strings.Join(cols, "\t")
}

// TSVWriter writes one FormatRow line per record.
type TSVWriter struct {
	w *bufio.Writer
}

func NewTSVWriter(w io.Writer) *TSVWriter {
	return &TSVWriter{w: bufio.NewWriterSize(w, 64*1024)}
}

func (tw *TSVWriter) Write(rec nmea.Record, pc time.Time) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}
	if _, err := tw.w.WriteString(FormatRow(rec, pc)); err != nil {
		return err
	}
	return tw.w.WriteByte('\n')
}

func (tw *TSVWriter) Flush() error {
	return tw.w.Flush()
}
