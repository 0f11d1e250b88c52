package nmea

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Logging computers often stamp each line before the sentence, e.g.
//
//	RTK1_GPS  DATA  2008-11-21T15:48:10.510017  $GPGGA,...
//	1473622989.451 $GNGGA,...
//
// Only the text before the first '$' is searched so numbers inside the
// sentence are never mistaken for a stamp.

var (
	isoRE = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2}(?:\.\d+)?)`)
	// At least nine integer digits keeps clock fragments such as "46.666"
	// in "04:01:46.666" from reading as 1970 epochs.
	epochRE = regexp.MustCompile(`(?:^|[^\d.])(\d{9,}\.\d+)`)
)

func prefix(line string) string {
	if i := strings.IndexByte(line, '$'); i >= 0 {
		return line[:i]
	}
	return line
}

// ExtractISOTime returns the ISO-8601 PC timestamp preceding the sentence.
func ExtractISOTime(line string) (time.Time, bool) {
	m := isoRE.FindStringSubmatch(prefix(line))
	if m == nil {
		return time.Time{}, false
	}
	var n [5]int
	for i := range n {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, false
		}
		n[i] = v
	}
	secs, err := decimal.NewFromString(m[6])
	if err != nil {
		return time.Time{}, false
	}
	whole := secs.Truncate(0)
	micros := secs.Sub(whole).Mul(million).Truncate(0)
	t := time.Date(n[0], time.Month(n[1]), n[2], n[3], n[4], int(whole.IntPart()), int(micros.IntPart())*1000, time.UTC)
	if t.Month() != time.Month(n[1]) || t.Day() != n[2] || t.Hour() != n[3] || t.Minute() != n[4] {
		return time.Time{}, false
	}
	return t, true
}

// ExtractEpochTime returns the Unix epoch PC timestamp preceding the
// sentence, truncated to microseconds, in UTC.
func ExtractEpochTime(line string) (time.Time, bool) {
	m := epochRE.FindStringSubmatch(prefix(line))
	if m == nil {
		return time.Time{}, false
	}
	secs, err := decimal.NewFromString(m[1])
	if err != nil {
		return time.Time{}, false
	}
	whole := secs.Truncate(0)
	micros := secs.Sub(whole).Mul(million).Truncate(0)
	return time.Unix(whole.IntPart(), micros.IntPart()*1000).UTC(), true
}

// ExtractPCTime tries the ISO-8601 form first, then the epoch form.
func ExtractPCTime(line string) (time.Time, bool) {
	if t, ok := ExtractISOTime(line); ok {
		return t, true
	}
	return ExtractEpochTime(line)
}

// ContextDateFor returns the date of the line's PC timestamp, or fallback
// when the line has none.
func ContextDateFor(line string, fallback Date) Date {
	if t, ok := ExtractPCTime(line); ok {
		return DateOf(t)
	}
	return fallback
}
