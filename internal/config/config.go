package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"gpsparser/internal/nmea"
)

type Config struct {
	// StringType is the sentence code to extract (GGA, RMC, ...).
	StringType string        `yaml:"string_type"`
	Input      InputConfig   `yaml:"input"`
	Output     OutputConfig  `yaml:"output"`
	Decode     DecodeConfig  `yaml:"decode"`
	Metrics    MetricsConfig `yaml:"metrics"`
	Workers    int           `yaml:"workers"`
	Verbose    int           `yaml:"verbose"`
}

type InputConfig struct {
	// File is a single input path; "-" or empty reads stdin.
	File string `yaml:"file"`
	// Directory is searched recursively for files ending in Suffix.
	Directory string `yaml:"directory"`
	Suffix    string `yaml:"suffix"`
}

type OutputConfig struct {
	// Path is empty for stdout, an existing directory for one output file
	// per input, "i" for the input's own directory, or a file name.
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

type DecodeConfig struct {
	Debug       bool `yaml:"debug"`
	CenturyBase int  `yaml:"century_base"`
	// DefaultDate (YYYY-MM-DD) dates lines without a PC timestamp. When
	// empty, today's UTC date is used.
	DefaultDate string `yaml:"default_date"`
}

type MetricsConfig struct {
	// Textfile, when set, receives run counters in Prometheus text format.
	Textfile string `yaml:"textfile"`
}

const (
	FormatTSV = "tsv"
	FormatGPX = "gpx"
)

// Default returns a configuration with every default applied. The
// StringType still has to be set before Validate passes.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// Load reads a YAML config file, applies defaults and validates it.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that override values
// before calling Validate.
func Read(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		var te *yaml.TypeError
		if errors.As(err, &te) {
			return Config{}, fmt.Errorf("config contains unknown fields: %s", stripLines(te.Errors))
		}
		return Config{}, err
	}

	applyDefaults(&cfg)
	return cfg, nil
}

var linePrefix = regexp.MustCompile(`^line \d+: `)

func stripLines(errs []string) string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, linePrefix.ReplaceAllString(e, ""))
	}
	return strings.Join(out, "; ")
}

// Normalize re-applies defaults and canonical casing, e.g. after flag
// overrides.
func (cfg *Config) Normalize() {
	applyDefaults(cfg)
}

func applyDefaults(cfg *Config) {
	cfg.StringType = strings.ToUpper(strings.TrimSpace(cfg.StringType))
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatTSV
	}
	if cfg.Decode.CenturyBase == 0 {
		cfg.Decode.CenturyBase = nmea.DefaultCenturyBase
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Verbose < 0 {
		cfg.Verbose = 0
	}
}

// Validate checks a config after defaults and flag overrides are applied.
func (cfg Config) Validate() error {
	if cfg.StringType == "" {
		return fmt.Errorf("string_type is required")
	}
	mt, err := nmea.ParseMessageType(cfg.StringType)
	if err != nil {
		return fmt.Errorf("string_type %q is not supported", cfg.StringType)
	}

	if cfg.Input.File != "" && cfg.Input.Directory != "" {
		return fmt.Errorf("input.file and input.directory cannot both be set")
	}
	if cfg.Input.Directory != "" && cfg.Input.Suffix == "" {
		return fmt.Errorf("input.suffix is required when input.directory is set")
	}

	switch cfg.Output.Format {
	case FormatTSV:
	case FormatGPX:
		if mt != nmea.TypeGGA && mt != nmea.TypeRMC && mt != nmea.TypeGGK {
			return fmt.Errorf("output.format gpx requires string_type GGA, RMC or GGK")
		}
	default:
		return fmt.Errorf("output.format must be 'tsv' or 'gpx'")
	}

	if cfg.Decode.CenturyBase%100 != 0 || cfg.Decode.CenturyBase < 0 {
		return fmt.Errorf("decode.century_base must be a non-negative multiple of 100")
	}
	if cfg.Decode.DefaultDate != "" {
		if _, err := nmea.ParseDate(cfg.Decode.DefaultDate); err != nil {
			return fmt.Errorf("decode.default_date must be YYYY-MM-DD")
		}
	}
	return nil
}

// MessageType returns the parsed StringType. Call after Validate.
func (cfg Config) MessageType() nmea.MessageType {
	mt, _ := nmea.ParseMessageType(cfg.StringType)
	return mt
}
