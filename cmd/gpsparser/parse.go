package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"gpsparser/internal/batch"
	"gpsparser/internal/metrics"
	"gpsparser/internal/source"
)

type parseFlags struct {
	stringType string
	file       string
	directory  string
	output     string
	format     string
}

func newParseCmd(root *rootFlags) *cobra.Command {
	f := &parseFlags{}
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Extract one sentence type as tab separated rows or GPX",
		Long: `Decode every line of the input, keep the requested sentence type and
write one row per sentence.

Output (-o):
  (none)        stdout
  DIR           one <input>_parsed_<TYPE>.txt per input in DIR
  i             same, next to the input files
  DIR/NAME      every input appended to one file, in input order

Lines that fail their checksum or cannot be decoded are counted and
skipped; -v reports each one.`,
		Example: `  gpsparser parse -s GGA -f cruise.log
  gpsparser parse -s RMC -g /data/cruise::.gps -o i
  gpsparser parse -s GGK -f rtk.log --format gpx -o /tmp/track.gpx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, root, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.stringType, "string-type", "s", "", "Sentence type to extract (GGA, ZDA, RMC, GST, GSV, VTG, HDT, PASHR, GGK)")
	fl.StringVarP(&f.file, "file", "f", "", "Input file (default stdin)")
	fl.StringVarP(&f.directory, "directory", "g", "", "Input directory and suffix as DIR::SUFFIX, searched recursively")
	fl.StringVarP(&f.output, "output", "o", "", "Output: directory, 'i', or file name (default stdout)")
	fl.StringVar(&f.format, "format", "", "Output format: tsv or gpx")
	cmd.MarkFlagsMutuallyExclusive("file", "directory")
	return cmd
}

func runParse(cmd *cobra.Command, root *rootFlags, f *parseFlags) error {
	cfg, err := root.load(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("string-type") {
		cfg.StringType = f.stringType
	}
	if flags.Changed("file") {
		cfg.Input.File, cfg.Input.Directory, cfg.Input.Suffix = f.file, "", ""
	}
	if flags.Changed("directory") {
		dir, suffix, err := source.ParseDirSpec(f.directory)
		if err != nil {
			return err
		}
		cfg.Input.File, cfg.Input.Directory, cfg.Input.Suffix = "", dir, suffix
	}
	if flags.Changed("output") {
		cfg.Output.Path = f.output
	}
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputs, err := source.Discover(cfg.Input.File, cfg.Input.Directory, cfg.Input.Suffix)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no files found to process")
	}
	target, err := batch.ResolveTarget(cfg.Output.Path, inputs, cfg.Input.Directory)
	if err != nil {
		return err
	}

	if cfg.Verbose >= 1 {
		l := log.New(cmd.ErrOrStderr(), "gpsparser: ", 0)
		l.Printf("string_type=%s format=%s workers=%d inputs=%d", cfg.StringType, cfg.Output.Format, cfg.Workers, len(inputs))
		if cfg.Verbose >= 3 {
			l.Printf("inputs: %s", strings.Join(inputs, ", "))
		}
	}

	rec := metrics.New()
	p, err := newProcessor(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), rec)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runErr := p.Run(ctx, inputs, target)
	if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("metrics textfile: %w", err))
	}
	return runErr
}
