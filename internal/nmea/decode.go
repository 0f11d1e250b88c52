package nmea

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Logger receives diagnostics. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// Options controls a Decoder. The zero value is silent and uses
// DefaultCenturyBase.
type Options struct {
	// Logger receives fatal-field context and, with Debug, degraded field
	// notices. Nil disables output.
	Logger Logger
	// Debug reports every optional field that degraded to NaN.
	Debug bool
	// CenturyBase is added to two-digit years. Zero means
	// DefaultCenturyBase.
	CenturyBase int
}

// Decoder turns raw lines into records. It holds no per-line state and is
// safe for concurrent use.
type Decoder struct {
	opts Options
}

func NewDecoder(opts Options) *Decoder {
	if opts.CenturyBase == 0 {
		opts.CenturyBase = DefaultCenturyBase
	}
	return &Decoder{opts: opts}
}

var defaultDecoder = NewDecoder(Options{})

// Decode decodes line with a silent default Decoder.
func Decode(line string, date Date) (Record, error) {
	return defaultDecoder.Decode(line, date)
}

// Decode locates, verifies, classifies and decodes the sentence in line.
// date is the ContextDate for sentences that carry only a time of day; the
// zero Date leaves such times bare.
func (d *Decoder) Decode(line string, date Date) (Record, error) {
	s, err := Verify(line)
	if err != nil {
		return nil, err
	}
	t, err := Classify(s.Text())
	if err != nil {
		return nil, err
	}
	return d.DecodeSentence(s, t, date)
}

// DecodeSentence decodes an already verified sentence as type t.
func (d *Decoder) DecodeSentence(s Sentence, t MessageType, date Date) (Record, error) {
	g := GrammarFor(t)
	if g == nil {
		return nil, fmt.Errorf("%w: no grammar for %s", ErrUnrecognizedSentence, t)
	}
	m := g.shape.FindStringSubmatch(s.Raw)
	if m == nil {
		return nil, fmt.Errorf("%w: %s shape mismatch: %q", ErrMalformedSentence, t, s.Raw)
	}
	r := &fieldReader{
		d:      d,
		g:      g,
		raw:    s.Raw,
		fields: strings.Split(m[1], ","),
	}

	var rec Record
	switch t {
	case TypeGGA:
		rec = r.gga(date)
	case TypeZDA:
		rec = r.zda()
	case TypeRMC:
		rec = r.rmc()
	case TypeGST:
		rec = r.gst(date)
	case TypeGSV:
		rec = r.gsv()
	case TypeVTG:
		rec = r.vtg()
	case TypeHDT:
		rec = r.hdt()
	case TypePASHR:
		rec = r.pashr(date)
	case TypeGGK:
		rec = r.ggk()
	}
	if r.err != nil {
		return nil, r.err
	}
	return rec, nil
}

func (d *Decoder) logf(format string, v ...any) {
	if d.opts.Logger != nil {
		d.opts.Logger.Printf(format, v...)
	}
}

// fieldReader applies a Grammar to the split payload. The first required
// field failure is kept in err; later reads return zero values.
type fieldReader struct {
	d        *Decoder
	g        *Grammar
	raw      string
	fields   []string
	degraded []string
	err      error
}

func (r *fieldReader) at(idx int) (string, bool) {
	if idx < 0 || idx >= len(r.fields) {
		return "", false
	}
	return r.fields[idx], true
}

var errMissing = errors.New("field missing")

func (r *fieldReader) fail(f FieldSpec, idx int, err error) {
	if r.err != nil {
		return
	}
	raw, _ := r.at(idx)
	r.err = &FieldError{Type: r.g.Type, Field: f.Name, Index: idx, Raw: raw, Err: err}
}

// value reads f (at idx) as a decimal, honouring f.Required.
func (r *fieldReader) value(f FieldSpec, idx int) decimal.NullDecimal {
	if r.err != nil {
		return decimal.NullDecimal{}
	}
	s, ok := r.at(idx)
	var v decimal.Decimal
	err := errMissing
	if ok {
		v, err = parseDecimal(s)
	}
	if err == nil {
		return decimal.NullDecimal{Decimal: v, Valid: true}
	}
	if f.Required {
		r.fail(f, idx, err)
		return decimal.NullDecimal{}
	}
	r.degraded = append(r.degraded, f.Name)
	if r.d.opts.Debug {
		r.d.logf("nmea: %s field %s may not be present (%q): %s", r.g.Type, f.Name, s, r.raw)
	}
	return decimal.NullDecimal{}
}

func (r *fieldReader) required(name string) decimal.Decimal {
	f := r.g.field(name)
	return r.value(f, f.Index).Decimal
}

func (r *fieldReader) optional(name string) decimal.NullDecimal {
	f := r.g.field(name)
	return r.value(f, f.Index)
}

func (r *fieldReader) text(name string) string {
	f := r.g.field(name)
	s, ok := r.at(f.Index)
	if !ok && r.err == nil {
		r.fail(f, f.Index, errMissing)
	}
	return strings.TrimSpace(s)
}

func (r *fieldReader) integer(name string) int {
	f := r.g.field(name)
	if r.err != nil {
		return 0
	}
	s, _ := r.at(f.Index)
	n, err := parseDigits(strings.TrimSpace(s))
	if err != nil {
		r.fail(f, f.Index, err)
	}
	return n
}

func (r *fieldReader) time(date Date) Timestamp {
	f := r.g.field("time")
	if r.err != nil {
		return Timestamp{}
	}
	s, ok := r.at(f.Index)
	if !ok {
		r.fail(f, f.Index, errMissing)
		return Timestamp{}
	}
	ts, err := DecodeTime(s, date)
	if err != nil {
		var me minuteError
		if errors.As(err, &me) {
			r.d.logf("nmea: %s time %q minute %q unparsable: %s", r.g.Type, s, me.raw, r.raw)
		}
		r.fail(f, f.Index, err)
	}
	return ts
}

func (r *fieldReader) coordinate(name string, decode func(v, hemi string) (decimal.Decimal, error)) decimal.Decimal {
	f := r.g.field(name)
	if r.err != nil {
		return decimal.Decimal{}
	}
	v, ok := r.at(f.Index)
	hemi, okHemi := r.at(f.Index + 1)
	if !ok || !okHemi {
		r.fail(f, f.Index, errMissing)
		return decimal.Decimal{}
	}
	out, err := decode(v, hemi)
	if err != nil {
		r.fail(f, f.Index, err)
	}
	return out
}

func (r *fieldReader) shortDate(dayFirst bool) Date {
	f := r.g.field("date")
	if r.err != nil {
		return Date{}
	}
	s, _ := r.at(f.Index)
	d, err := decodeShortDate(s, dayFirst, r.d.opts.CenturyBase)
	if err != nil {
		r.fail(f, f.Index, err)
	}
	return d
}

func (r *fieldReader) gga(date Date) *GGA {
	rec := &GGA{
		Time:            r.time(date),
		Latitude:        r.coordinate("latitude", DecodeLatitude),
		Longitude:       r.coordinate("longitude", DecodeLongitude),
		Quality:         r.required("quality"),
		Satellites:      r.required("satellites"),
		HDOP:            r.required("hdop"),
		AntennaHeight:   r.optional("antenna_height"),
		GeoidSeparation: r.optional("geoid_separation"),
		DGPSAge:         r.optional("dgps_age"),
		StationID:       r.optional("station_id"),
	}
	rec.Degraded = r.degraded
	return rec
}

func (r *fieldReader) zda() *ZDA {
	day := r.integer("day")
	month := r.integer("month")
	year := r.integer("year")
	var date Date
	if r.err == nil {
		var err error
		if date, err = NewDate(year, month, day); err != nil {
			r.fail(r.g.field("day"), r.g.field("day").Index, err)
		}
	}
	rec := &ZDA{
		Time:            r.time(date),
		TZOffsetHours:   r.optional("tz_offset_hours"),
		TZOffsetMinutes: r.optional("tz_offset_minutes"),
	}
	rec.Degraded = r.degraded
	return rec
}

// RMC carries its own ddmmyy date, which takes precedence over the
// context date.
func (r *fieldReader) rmc() *RMC {
	date := r.shortDate(true)
	rec := &RMC{Time: r.time(date)}
	if r.text("fix_status") == "A" {
		rec.FixStatus = 1
	}
	rec.Latitude = r.coordinate("latitude", DecodeLatitude)
	rec.Longitude = r.coordinate("longitude", DecodeLongitude)
	rec.Knots = r.required("knots")
	rec.Course = r.required("course")
	rec.Degraded = r.degraded
	return rec
}

func (r *fieldReader) gst(date Date) *GST {
	rec := &GST{
		Time:         r.time(date),
		ResidualRMS:  r.required("residual_rms"),
		SemiMajor:    r.required("semi_major"),
		SemiMinor:    r.required("semi_minor"),
		Orientation:  r.required("orientation"),
		Lat1Sigma:    r.required("lat_1sigma"),
		Lon1Sigma:    r.required("lon_1sigma"),
		Height1Sigma: r.required("height_1sigma"),
	}
	rec.Degraded = r.degraded
	return rec
}

func (r *fieldReader) gsv() *GSV {
	rec := &GSV{
		Messages:   r.required("messages"),
		MessageNum: r.required("message_num"),
		VisibleSVs: r.required("visible_svs"),
	}
	prn, elev := r.g.groupField("prn"), r.g.groupField("elevation")
	az, snr := r.g.groupField("azimuth"), r.g.groupField("snr")
	stride := len(r.g.Group)
	for idx := r.g.GroupStart; idx+stride <= len(r.fields); idx += stride {
		rec.PRN = append(rec.PRN, r.value(prn, idx+prn.Index).Decimal)
		rec.Elevation = append(rec.Elevation, r.value(elev, idx+elev.Index).Decimal)
		rec.Azimuth = append(rec.Azimuth, r.value(az, idx+az.Index))
		rec.SNR = append(rec.SNR, r.value(snr, idx+snr.Index))
	}
	rec.Degraded = r.degraded
	return rec
}

func (r *fieldReader) vtg() *VTG {
	rec := &VTG{
		Course: r.required("course"),
		Knots:  r.required("knots"),
		Kmph:   r.required("kmph"),
	}
	rec.Degraded = r.degraded
	return rec
}

func (r *fieldReader) hdt() *HDT {
	rec := &HDT{Heading: r.required("heading")}
	rec.Degraded = r.degraded
	return rec
}

func (r *fieldReader) pashr(date Date) *PASHR {
	rec := &PASHR{
		Time:             r.time(date),
		Heading:          r.required("heading"),
		Roll:             r.required("roll"),
		Pitch:            r.required("pitch"),
		Heave:            r.required("heave"),
		RollAccuracy:     r.required("roll_accuracy"),
		PitchAccuracy:    r.required("pitch_accuracy"),
		HeadingAccuracy:  r.required("heading_accuracy"),
		HeadingAlgorithm: r.required("heading_algorithm"),
		IMUStatus:        r.required("imu_status"),
	}
	rec.Degraded = r.degraded
	return rec
}

// GGK dates are Trimble mmddyy. The ellipsoidal height field is prefixed
// with an "EHT" marker.
func (r *fieldReader) ggk() *GGK {
	date := r.shortDate(false)
	rec := &GGK{
		Time:       r.time(date),
		Latitude:   r.coordinate("latitude", DecodeLatitude),
		Longitude:  r.coordinate("longitude", DecodeLongitude),
		Quality:    r.required("quality"),
		Satellites: r.required("satellites"),
		DOP:        r.required("dop"),
	}
	f := r.g.field("ellipsoidal_height")
	if s, ok := r.at(f.Index); ok && r.err == nil {
		s = strings.TrimLeft(strings.TrimSpace(s), "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
		v, err := parseDecimal(s)
		if err != nil {
			r.fail(f, f.Index, err)
		}
		rec.EllipsoidalHeight = v
	} else {
		r.fail(f, f.Index, errMissing)
	}
	rec.Degraded = r.degraded
	return rec
}
