package batch

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"gpsparser/internal/metrics"
	"gpsparser/internal/nmea"
)

func TestSummarize(t *testing.T) {
	in := writeInput(t, t.TempDir(), "mixed.log",
		"2016-09-27T15:48:10.510017 "+sentence(ggaPayload),
		sentence(ggaPayload),
		sentence("GPHDT,274.07,T"),
		"$"+ggaPayload+"*00",
		sentence("PGRMZ,GGA,1"),
		"boot banner",
		"",
	)

	rec := metrics.New()
	// The summary ignores the parse filter.
	p := New(Options{Type: nmea.TypeRMC, Metrics: rec, Now: fixedNow})
	s, err := p.Summarize(context.Background(), in)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if s.Lines != 6 {
		t.Fatalf("lines=%d want %d", s.Lines, 6)
	}
	if s.Decoded[nmea.TypeGGA] != 2 || s.Decoded[nmea.TypeHDT] != 1 {
		t.Fatalf("decoded=%v", s.Decoded)
	}
	if s.ChecksumFailed != 1 || s.Malformed != 1 || s.Unrecognized != 1 {
		t.Fatalf("checksum=%d malformed=%d unrecognized=%d", s.ChecksumFailed, s.Malformed, s.Unrecognized)
	}
	if s.PCStamped != 1 {
		t.Fatalf("pc_stamped=%d want %d", s.PCStamped, 1)
	}

	counts, err := rec.Counts()
	if err != nil {
		t.Fatalf("Counts() error: %v", err)
	}
	if counts["GGA"][metrics.Decoded] != 2 {
		t.Fatalf("counts=%v", counts)
	}

	var buf bytes.Buffer
	s.Print(&buf)
	out := buf.String()
	for _, want := range []string{"path: " + in, "lines: 6", "checksum_failed: 1", "  GGA: 2", "  HDT: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "  RMC:") {
		t.Fatalf("summary lists zero count type:\n%s", out)
	}
}
