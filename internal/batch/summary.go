package batch

import (
	"context"
	"fmt"
	"io"

	"gpsparser/internal/metrics"
	"gpsparser/internal/nmea"
	"gpsparser/internal/source"
)

// Summary tallies every line of one input regardless of the type filter.
type Summary struct {
	Path           string
	Lines          int
	Decoded        map[nmea.MessageType]int
	ChecksumFailed int
	Malformed      int
	Unrecognized   int
	// PCStamped counts lines carrying an ISO or epoch PC timestamp.
	PCStamped int
}

// Summarize decodes every line of name with all types accepted. It is
// best-effort: per-line failures are counted, not returned.
func (p *Processor) Summarize(ctx context.Context, name string) (Summary, error) {
	s := Summary{Path: name, Decoded: map[nmea.MessageType]int{}}
	f, err := source.Open(name)
	if err != nil {
		return s, err
	}
	defer f.Close()

	all := *p
	all.opts.Type = nmea.TypeUnknown
	date := p.fallbackDate()
	err = source.ForEachLine(f, func(_ int, line string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, ok := all.Line(line, date)
		if !ok {
			return nil
		}
		s.Lines++
		if !res.PC.IsZero() {
			s.PCStamped++
			date = nmea.DateOf(res.PC)
		}
		switch res.Outcome {
		case metrics.Decoded:
			s.Decoded[res.Type]++
		case metrics.ChecksumFailed:
			s.ChecksumFailed++
		case metrics.Malformed:
			s.Malformed++
		case metrics.Unrecognized:
			s.Unrecognized++
		}
		return nil
	})
	if err != nil {
		return s, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// Print writes s in the same key: value layout for every input.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "path: %s\n", s.Path)
	fmt.Fprintf(w, "lines: %d\n", s.Lines)
	fmt.Fprintf(w, "pc_stamped: %d\n", s.PCStamped)
	fmt.Fprintf(w, "checksum_failed: %d\n", s.ChecksumFailed)
	fmt.Fprintf(w, "malformed: %d\n", s.Malformed)
	fmt.Fprintf(w, "unrecognized: %d\n", s.Unrecognized)
	fmt.Fprintf(w, "decoded:\n")
	for _, t := range nmea.MessageTypes() {
		if n := s.Decoded[t]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", t, n)
		}
	}
}
