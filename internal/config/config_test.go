package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gpsparser/internal/nmea"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_RequiresStringType(t *testing.T) {
	path := writeTempConfig(t, "workers: 2\n")
	_, err := Load(path)
	requireErrEq(t, err, "string_type is required")
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeTempConfig(t, "")
	_, err := Load(path)
	requireErrEq(t, err, "string_type is required")
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "string_type: gga\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.StringType != "GGA" {
		t.Fatalf("string_type=%q want GGA", cfg.StringType)
	}
	if cfg.MessageType() != nmea.TypeGGA {
		t.Fatalf("type=%s want GGA", cfg.MessageType())
	}
	if cfg.Output.Format != FormatTSV {
		t.Fatalf("format=%q want tsv", cfg.Output.Format)
	}
	if cfg.Decode.CenturyBase != nmea.DefaultCenturyBase {
		t.Fatalf("century_base=%d want %d", cfg.Decode.CenturyBase, nmea.DefaultCenturyBase)
	}
	if cfg.Workers != 4 {
		t.Fatalf("workers=%d want 4", cfg.Workers)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	body := strings.Join([]string{
		"string_type: RMC",
		"input:",
		"  directory: /data/cruise",
		"  suffix: .gps",
		"output:",
		"  path: i",
		"  format: GPX",
		"decode:",
		"  debug: true",
		"  century_base: 1900",
		"  default_date: '1999-12-31'",
		"metrics:",
		"  textfile: /tmp/gpsparser.prom",
		"workers: 8",
		"verbose: 2",
		"",
	}, "\n")
	cfg, err := Load(writeTempConfig(t, body))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Input.Directory != "/data/cruise" || cfg.Input.Suffix != ".gps" {
		t.Fatalf("input=%+v", cfg.Input)
	}
	if cfg.Output.Format != FormatGPX || cfg.Output.Path != "i" {
		t.Fatalf("output=%+v", cfg.Output)
	}
	if !cfg.Decode.Debug || cfg.Decode.CenturyBase != 1900 || cfg.Decode.DefaultDate != "1999-12-31" {
		t.Fatalf("decode=%+v", cfg.Decode)
	}
	if cfg.Metrics.Textfile != "/tmp/gpsparser.prom" || cfg.Workers != 8 || cfg.Verbose != 2 {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "UnsupportedType",
			body: "string_type: GSA\n",
			want: "string_type \"GSA\" is not supported",
		},
		{
			name: "FileAndDirectory",
			body: "string_type: GGA\ninput:\n  file: a.txt\n  directory: /x\n  suffix: .gps\n",
			want: "input.file and input.directory cannot both be set",
		},
		{
			name: "DirectoryRequiresSuffix",
			body: "string_type: GGA\ninput:\n  directory: /x\n",
			want: "input.suffix is required when input.directory is set",
		},
		{
			name: "BadFormat",
			body: "string_type: GGA\noutput:\n  format: mat\n",
			want: "output.format must be 'tsv' or 'gpx'",
		},
		{
			name: "GPXNeedsPosition",
			body: "string_type: HDT\noutput:\n  format: gpx\n",
			want: "output.format gpx requires string_type GGA, RMC or GGK",
		},
		{
			name: "CenturyBase",
			body: "string_type: GGA\ndecode:\n  century_base: 1950\n",
			want: "decode.century_base must be a non-negative multiple of 100",
		},
		{
			name: "DefaultDate",
			body: "string_type: GGA\ndecode:\n  default_date: 27/09/2016\n",
			want: "decode.default_date must be YYYY-MM-DD",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tc.body))
			requireErrEq(t, err, tc.want)
		})
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	path := writeTempConfig(t, "string_type: GGA\noutput:\n  mode: tsv\n")
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.HasPrefix(err.Error(), "config contains unknown fields:") || !strings.Contains(err.Error(), "field mode not found") {
		t.Fatalf("error=%q", err.Error())
	}
}

func TestDefault_RequiresStringTypeOnly(t *testing.T) {
	cfg := Default()
	requireErrEq(t, cfg.Validate(), "string_type is required")
	cfg.StringType = "VTG"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
}

func TestRead_DefersValidation(t *testing.T) {
	path := writeTempConfig(t, "output:\n  format: TSV\n")
	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	requireErrEq(t, cfg.Validate(), "string_type is required")

	cfg.StringType = " gga "
	cfg.Output.Format = "GPX"
	cfg.Normalize()
	if cfg.StringType != "GGA" || cfg.Output.Format != FormatGPX {
		t.Fatalf("string_type=%q format=%q", cfg.StringType, cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
}
