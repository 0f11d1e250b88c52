package main

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"gpsparser/internal/batch"
	"gpsparser/internal/config"
	"gpsparser/internal/metrics"
	"gpsparser/internal/nmea"
)

// rootFlags are shared by every subcommand. Values given on the command
// line override the config file.
type rootFlags struct {
	configPath  string
	verbose     int
	workers     int
	date        string
	centuryBase int
	debug       bool
	textfile    string
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "gpsparser",
		Short: "NMEA-0183 log parser",
		Long: `gpsparser - extract one NMEA-0183 sentence type from GPS logs.

Lines may carry a PC timestamp before the sentence, either ISO-8601
(2016-09-27T15:48:10.510017) or a Unix epoch (1473622989.451). Its date
completes sentences that only carry a time of day.

Supported types: GGA, ZDA, RMC, GST, GSV, VTG, HDT, PASHR, GGK.`,
		Version:      "1.0.0",
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Path to YAML config")
	pf.CountVarP(&f.verbose, "verbose", "v", "Verbosity (-v progress and line failures, -vvv field debug)")
	pf.IntVar(&f.workers, "workers", 0, "Files decoded in parallel")
	pf.StringVar(&f.date, "date", "", "Date (YYYY-MM-DD) for lines without a PC timestamp (default today UTC)")
	pf.IntVar(&f.centuryBase, "century-base", 0, "Century added to two-digit years (default 2000)")
	pf.BoolVar(&f.debug, "debug", false, "Log every optional field that decodes to NaN")
	pf.StringVar(&f.textfile, "metrics-textfile", "", "Write run counters to this Prometheus textfile")

	cmd.AddCommand(newParseCmd(f), newSummaryCmd(f), newChecksumCmd())
	return cmd
}

// load reads the config file, if any, and applies flag overrides. The
// result is normalized but not validated.
func (f *rootFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Read(f.configPath); err != nil {
			return config.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("date") {
		cfg.Decode.DefaultDate = f.date
	}
	if flags.Changed("century-base") {
		cfg.Decode.CenturyBase = f.centuryBase
	}
	if flags.Changed("debug") {
		cfg.Decode.Debug = f.debug
	}
	if flags.Changed("metrics-textfile") {
		cfg.Metrics.Textfile = f.textfile
	}
	cfg.Normalize()
	return cfg, nil
}

// newProcessor wires a batch processor from a validated config.
func newProcessor(cfg config.Config, stdout, stderr io.Writer, rec *metrics.Recorder) (*batch.Processor, error) {
	var date nmea.Date
	if cfg.Decode.DefaultDate != "" {
		var err error
		if date, err = nmea.ParseDate(cfg.Decode.DefaultDate); err != nil {
			return nil, err
		}
	}

	logger := log.New(stderr, "gpsparser: ", 0)
	dec := nmea.NewDecoder(nmea.Options{
		Logger:      logger,
		Debug:       cfg.Decode.Debug || cfg.Verbose >= 3,
		CenturyBase: cfg.Decode.CenturyBase,
	})
	return batch.New(batch.Options{
		Type:        cfg.MessageType(),
		Format:      cfg.Output.Format,
		Decoder:     dec,
		DefaultDate: date,
		Metrics:     rec,
		Logger:      logger,
		Verbose:     cfg.Verbose,
		Workers:     cfg.Workers,
		Stdout:      stdout,
	}), nil
}
