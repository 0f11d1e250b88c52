// Package metrics counts decode outcomes for a run and can export them in
// the Prometheus text format for node_exporter's textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"gpsparser/internal/nmea"
)

// Outcome labels the fate of one input line.
type Outcome string

const (
	Decoded        Outcome = "decoded"
	ChecksumFailed Outcome = "checksum_failed"
	Malformed      Outcome = "malformed"
	Unrecognized   Outcome = "unrecognized"
	// Skipped lines decoded fine as a type other than the one requested.
	Skipped Outcome = "skipped"
)

// Recorder holds one run's counters on a private registry so parallel tests
// and repeated runs never collide on the global one. A nil *Recorder is a
// valid no-op.
type Recorder struct {
	reg      *prometheus.Registry
	lines    *prometheus.CounterVec
	degraded *prometheus.CounterVec
	files    prometheus.Counter
}

func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gpsparser",
			Subsystem: "decode",
			Name:      "lines_total",
			Help:      "Input lines by message type and outcome",
		}, []string{"type", "outcome"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gpsparser",
			Subsystem: "decode",
			Name:      "degraded_fields_total",
			Help:      "Optional fields that decoded to NaN",
		}, []string{"type", "field"}),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gpsparser",
			Subsystem: "input",
			Name:      "files_total",
			Help:      "Input files processed",
		}),
	}
	r.reg.MustRegister(r.lines, r.degraded, r.files)
	return r
}

// Registry exposes the private registry, e.g. for promhttp or tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

func (r *Recorder) Line(t nmea.MessageType, o Outcome) {
	if r == nil {
		return
	}
	r.lines.WithLabelValues(t.String(), string(o)).Inc()
}

func (r *Recorder) Degraded(t nmea.MessageType, fields []string) {
	if r == nil {
		return
	}
	for _, f := range fields {
		r.degraded.WithLabelValues(t.String(), f).Inc()
	}
}

func (r *Recorder) File() {
	if r == nil {
		return
	}
	r.files.Inc()
}

const linesName = "gpsparser_decode_lines_total"

// Counts gathers lines_total into type code -> outcome -> count.
func (r *Recorder) Counts() (map[string]map[Outcome]float64, error) {
	out := map[string]map[Outcome]float64{}
	if r == nil {
		return out, nil
	}
	mfs, err := r.reg.Gather()
	if err != nil {
		return nil, err
	}
	for _, mf := range mfs {
		if mf.GetName() != linesName {
			continue
		}
		for _, m := range mf.GetMetric() {
			var typ string
			var o Outcome
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "type":
					typ = lp.GetValue()
				case "outcome":
					o = Outcome(lp.GetValue())
				}
			}
			if out[typ] == nil {
				out[typ] = map[Outcome]float64{}
			}
			out[typ][o] += m.GetCounter().GetValue()
		}
	}
	return out, nil
}

// WriteTextfile atomically writes every counter to path.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
