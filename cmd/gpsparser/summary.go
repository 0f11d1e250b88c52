package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gpsparser/internal/metrics"
	"gpsparser/internal/nmea"
	"gpsparser/internal/source"
)

func newSummaryCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [files...]",
		Short: "Count sentence types and failures in logs",
		Long: `Decode every line of each file with all sentence types accepted and
print per-type counts, checksum failures, malformed and unrecognized lines.
Without arguments the config's input (or stdin) is summarized.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, root, args)
		},
	}
}

func runSummary(cmd *cobra.Command, root *rootFlags, args []string) error {
	cfg, err := root.load(cmd)
	if err != nil {
		return err
	}
	if cfg.Decode.DefaultDate != "" {
		if _, err := nmea.ParseDate(cfg.Decode.DefaultDate); err != nil {
			return fmt.Errorf("decode.default_date must be YYYY-MM-DD")
		}
	}

	inputs := args
	if len(inputs) == 0 {
		if inputs, err = source.Discover(cfg.Input.File, cfg.Input.Directory, cfg.Input.Suffix); err != nil {
			return err
		}
	}

	// The summary counts every type; the configured filter does not apply.
	cfg.StringType = ""
	rec := metrics.New()
	p, err := newProcessor(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), rec)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var errs []error
	for i, in := range inputs {
		s, err := p.Summarize(cmd.Context(), in)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		s.Print(out)
	}
	if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
	}
	return errors.Join(errs...)
}
