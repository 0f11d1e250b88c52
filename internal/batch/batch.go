// Package batch drives the decoder over whole log files: it seeds each
// line's context date, filters by message type, accounts for failures and
// hands records to an output sink.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gpsparser/internal/config"
	"gpsparser/internal/metrics"
	"gpsparser/internal/nmea"
	"gpsparser/internal/output"
	"gpsparser/internal/source"
)

type Options struct {
	// Type selects the records to emit. TypeUnknown accepts every type.
	Type    nmea.MessageType
	Format  string
	Decoder *nmea.Decoder
	// DefaultDate seeds the context date until a line carries a PC
	// timestamp. Zero means today's UTC date.
	DefaultDate nmea.Date
	Metrics     *metrics.Recorder
	// Logger receives progress and per-line failures. Nil is silent.
	Logger  nmea.Logger
	Verbose int
	Workers int
	// Stdout is where output goes when no output path is configured.
	Stdout io.Writer
	Now    func() time.Time
}

// Processor runs decode passes with fixed options. It is safe for
// concurrent use; per-file state lives in the call.
type Processor struct {
	opts Options
}

func New(opts Options) *Processor {
	if opts.Decoder == nil {
		opts.Decoder = nmea.NewDecoder(nmea.Options{Logger: opts.Logger})
	}
	if opts.Format == "" {
		opts.Format = config.FormatTSV
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Processor{opts: opts}
}

func (p *Processor) logf(level int, format string, v ...any) {
	if p.opts.Logger == nil || p.opts.Verbose < level {
		return
	}
	p.opts.Logger.Printf(format, v...)
}

func (p *Processor) fallbackDate() nmea.Date {
	if !p.opts.DefaultDate.IsZero() {
		return p.opts.DefaultDate
	}
	return nmea.DateOf(p.opts.Now().UTC())
}

// Result is the fate of one line.
type Result struct {
	Type    nmea.MessageType
	Outcome metrics.Outcome
	// Record is set only when Outcome is Decoded.
	Record nmea.Record
	// PC is the line's PC timestamp, zero when absent.
	PC  time.Time
	Err error
}

// Line decodes one line against date. Blank lines return ok=false and are
// not counted.
func (p *Processor) Line(line string, date nmea.Date) (res Result, ok bool) {
	if strings.TrimSpace(line) == "" {
		return Result{}, false
	}
	res = p.line(line, date)
	p.opts.Metrics.Line(res.Type, res.Outcome)
	if res.Record != nil {
		p.opts.Metrics.Degraded(res.Type, res.Record.DegradedFields())
	}
	return res, true
}

func (p *Processor) line(line string, date nmea.Date) Result {
	var res Result
	if pc, ok := nmea.ExtractPCTime(line); ok {
		res.PC = pc
		date = nmea.DateOf(pc)
	}

	s, err := nmea.Locate(line)
	if err == nil {
		res.Type, err = nmea.Classify(s.Text())
	}
	if err != nil {
		res.Outcome, res.Err = metrics.Unrecognized, err
		p.logf(1, "Unrecognized NMEA string: %s", line)
		return res
	}
	if p.opts.Type != nmea.TypeUnknown && res.Type != p.opts.Type {
		res.Outcome = metrics.Skipped
		return res
	}

	if err := s.Verify(); err != nil {
		res.Outcome, res.Err = metrics.ChecksumFailed, err
		p.logf(1, "Failed Checksum: %v :: %s", err, s.Raw)
		return res
	}
	rec, err := p.opts.Decoder.DecodeSentence(s, res.Type, date)
	if err != nil {
		res.Outcome, res.Err = metrics.Malformed, err
		p.logf(1, "Failed Parsing Line: %s: %v", line, err)
		return res
	}
	res.Outcome, res.Record = metrics.Decoded, rec
	return res
}

// File streams name through Line and writes decoded records to sink. The
// context date starts at the fallback and follows the most recent PC
// timestamp, so unstamped lines inherit the last stamped line's date.
// Sink is not flushed.
func (p *Processor) File(ctx context.Context, name string, sink output.Sink) error {
	f, err := source.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	p.opts.Metrics.File()

	date := p.fallbackDate()
	err = source.ForEachLine(f, func(n int, line string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, ok := p.Line(line, date)
		if !ok {
			return nil
		}
		if !res.PC.IsZero() {
			date = nmea.DateOf(res.PC)
		}
		if res.Record == nil {
			return nil
		}
		if err := sink.Write(res.Record, res.PC); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
