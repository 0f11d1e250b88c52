package nmea

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCenturyBase is added to two-digit years (RMC and GGK dates), so
// "16" becomes 2016. Data logged before 2000 or after 2099 needs
// Options.CenturyBase set to the right century.
const DefaultCenturyBase = 2000

// Coordinates are rounded to this many fractional digits.
const coordPlaces = 10

var (
	sixty   = decimal.NewFromInt(60)
	million = decimal.NewFromInt(1_000_000)
)

// Date is a calendar date. The zero Date means "no date known".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the UTC calendar date of t.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// NewDate validates y-m-d and returns it as a Date.
func NewDate(year int, month int, day int) (Date, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, month, day)
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Clock is a time of day with microsecond resolution.
type Clock struct {
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%06d", c.Hour, c.Minute, c.Second, c.Microsecond)
}

// Timestamp is a decoded sentence time. Without a Date it is a bare time
// of day.
type Timestamp struct {
	Date  Date
	Clock Clock
}

func (t Timestamp) HasDate() bool { return !t.Date.IsZero() }

// Time converts to a UTC time.Time. A bare time of day lands on year 0,
// January 1.
func (t Timestamp) Time() time.Time {
	y, m, d := 0, time.January, 1
	if t.HasDate() {
		y, m, d = t.Date.Year, t.Date.Month, t.Date.Day
	}
	return time.Date(y, m, d, t.Clock.Hour, t.Clock.Minute, t.Clock.Second, t.Clock.Microsecond*1000, time.UTC)
}

func (t Timestamp) String() string {
	if !t.HasDate() {
		return t.Clock.String()
	}
	return t.Date.String() + "T" + t.Clock.String()
}

var errEmpty = errors.New("empty field")

// NMEA numbers are plain fixed-point; exponent forms such as "1e9" are
// rejected.
var (
	fixedRE    = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)$`)
	unsignedRE = regexp.MustCompile(`^(?:\d+\.?\d*|\.\d+)$`)
)

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errEmpty
	}
	if !fixedRE.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("not a fixed-point number: %q", s)
	}
	return decimal.NewFromString(s)
}

func parseUnsigned(s string) (decimal.Decimal, error) {
	if !unsignedRE.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("not an unsigned fixed-point number: %q", s)
	}
	return decimal.NewFromString(s)
}

func parseDigits(s string) (int, error) {
	if s == "" {
		return 0, errEmpty
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("non-digit in %q", s)
		}
	}
	return strconv.Atoi(s)
}

type minuteError struct{ raw string }

func (e minuteError) Error() string { return fmt.Sprintf("unparsable minute %q", e.raw) }

// decodeClock parses HHMMSS[.fff]. Fractional seconds are truncated to
// microseconds.
func decodeClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if len(s) < 6 {
		return Clock{}, fmt.Errorf("time %q too short", s)
	}
	hour, err := parseDigits(s[0:2])
	if err != nil {
		return Clock{}, fmt.Errorf("hour: %w", err)
	}
	minute, err := parseDigits(s[2:4])
	if err != nil {
		return Clock{}, minuteError{raw: s[2:4]}
	}
	secs, err := parseUnsigned(s[4:])
	if err != nil {
		return Clock{}, fmt.Errorf("seconds %q", s[4:])
	}
	whole := secs.Truncate(0)
	micros := secs.Sub(whole).Mul(million).Truncate(0)

	c := Clock{
		Hour:        hour,
		Minute:      minute,
		Second:      int(whole.IntPart()),
		Microsecond: int(micros.IntPart()),
	}
	if c.Hour > 23 || c.Minute > 59 || c.Second > 59 {
		return Clock{}, fmt.Errorf("time %q out of range", s)
	}
	return c, nil
}

// DecodeTime parses an NMEA time field and promotes it to a full timestamp
// when date is non-zero.
func DecodeTime(s string, date Date) (Timestamp, error) {
	c, err := decodeClock(s)
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp{Date: date, Clock: c}, nil
}

// DecodeLatitude converts DDMM.MMMM plus N|S to signed decimal degrees.
func DecodeLatitude(v, hemi string) (decimal.Decimal, error) {
	return decodeCoordinate(v, hemi, 2, 90, "N", "S")
}

// DecodeLongitude converts DDDMM.MMMM plus E|W to signed decimal degrees.
func DecodeLongitude(v, hemi string) (decimal.Decimal, error) {
	return decodeCoordinate(v, hemi, 3, 180, "E", "W")
}

// decodeCoordinate requires 0 <= minutes < 60 and a result within maxDeg.
func decodeCoordinate(v, hemi string, degDigits, maxDeg int, pos, neg string) (decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	hemi = strings.TrimSpace(hemi)
	if hemi != pos && hemi != neg {
		return decimal.Decimal{}, fmt.Errorf("hemisphere %q not %s|%s", hemi, pos, neg)
	}
	if len(v) <= degDigits {
		return decimal.Decimal{}, fmt.Errorf("coordinate %q too short", v)
	}
	deg, err := parseDigits(v[:degDigits])
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("degrees: %w", err)
	}
	mins, err := parseUnsigned(v[degDigits:])
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("minutes %q: %w", v[degDigits:], err)
	}
	if mins.GreaterThanOrEqual(sixty) {
		return decimal.Decimal{}, fmt.Errorf("minutes %q out of range", v[degDigits:])
	}
	out := decimal.NewFromInt(int64(deg)).Add(mins.Div(sixty)).Round(coordPlaces)
	if out.GreaterThan(decimal.NewFromInt(int64(maxDeg))) {
		return decimal.Decimal{}, fmt.Errorf("coordinate %q beyond %d degrees", v, maxDeg)
	}
	if hemi == neg {
		out = out.Neg()
	}
	return out, nil
}

// decodeShortDate parses a six-digit date whose two-digit year is the last
// pair. dayFirst selects ddmmyy (RMC) over mmddyy (Trimble GGK).
func decodeShortDate(s string, dayFirst bool, centuryBase int) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) != 6 {
		return Date{}, fmt.Errorf("date %q is not 6 digits", s)
	}
	a, err := parseDigits(s[0:2])
	if err != nil {
		return Date{}, err
	}
	b, err := parseDigits(s[2:4])
	if err != nil {
		return Date{}, err
	}
	yy, err := parseDigits(s[4:6])
	if err != nil {
		return Date{}, err
	}
	day, month := a, b
	if !dayFirst {
		day, month = b, a
	}
	return NewDate(centuryBase+yy, month, day)
}
