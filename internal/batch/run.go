package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gpsparser/internal/config"
	"gpsparser/internal/nmea"
	"gpsparser/internal/output"
	"gpsparser/internal/source"
)

// TargetKind says where parsed rows go.
type TargetKind int

const (
	ToStdout TargetKind = iota
	// ToDir writes one <input>_parsed_<TYPE> file per input into Path.
	ToDir
	// ToFile appends every input's rows to Path in input order.
	ToFile
)

type Target struct {
	Kind TargetKind
	Path string
	// Root is the walked input directory. ToDir names for inputs sharing
	// a base name are prefixed with their directory relative to Root.
	Root string
}

// InputDir is the -o value meaning "next to the inputs".
const InputDir = "i"

// ResolveTarget interprets an output argument: empty means stdout, an
// existing directory gets per-input files, "i" means the input directory,
// and a path inside an existing directory is a single output file.
func ResolveTarget(out string, inputs []string, directory string) (Target, error) {
	if out == "" {
		return Target{Kind: ToStdout}, nil
	}
	if isDir(out) {
		return Target{Kind: ToDir, Path: out, Root: directory}, nil
	}
	if out == InputDir {
		if directory != "" {
			return Target{Kind: ToDir, Path: directory, Root: directory}, nil
		}
		if len(inputs) == 0 || inputs[0] == source.Stdin {
			return Target{}, fmt.Errorf("output %q needs an input file or directory", out)
		}
		return Target{Kind: ToDir, Path: filepath.Dir(inputs[0])}, nil
	}
	if isDir(filepath.Dir(out)) {
		return Target{Kind: ToFile, Path: out}, nil
	}
	return Target{}, fmt.Errorf("output %q is not 'i', an existing directory or a file in one", out)
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// OutputName is the per-input file name used for ToDir targets.
func OutputName(input string, t nmea.MessageType, format string) string {
	base := filepath.Base(input)
	if input == source.Stdin {
		base = "stdin"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	ext := ".txt"
	if format == config.FormatGPX {
		ext = ".gpx"
	}
	return base + "_parsed_" + t.String() + ext
}

func (p *Processor) newSink(w io.Writer, trackName string) output.Sink {
	if p.opts.Format == config.FormatGPX {
		return output.NewGPXWriter(w, trackName)
	}
	return output.NewTSVWriter(w)
}

type entry struct {
	rec nmea.Record
	pc  time.Time
}

// collector buffers one file's records so shared outputs can be written
// in input order after parallel decoding.
type collector struct {
	entries []entry
}

func (c *collector) Write(rec nmea.Record, pc time.Time) error {
	c.entries = append(c.entries, entry{rec: rec, pc: pc})
	return nil
}

func (c *collector) Flush() error { return nil }

// outputPaths maps each input to its ToDir output file. Inputs whose
// OutputName collides are prefixed with their directory relative to
// t.Root; a collision that remains is an error.
func (p *Processor) outputPaths(inputs []string, t Target) ([]string, error) {
	names := make([]string, len(inputs))
	seen := make(map[string]int, len(inputs))
	for i, in := range inputs {
		names[i] = OutputName(in, p.opts.Type, p.opts.Format)
		seen[names[i]]++
	}
	for i, in := range inputs {
		if seen[names[i]] < 2 {
			continue
		}
		dir := filepath.Dir(in)
		if t.Root != "" {
			if rel, err := filepath.Rel(t.Root, dir); err == nil {
				dir = rel
			}
		}
		var parts []string
		for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
			if part != "" && part != "." && part != ".." {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			names[i] = strings.Join(parts, "_") + "_" + names[i]
		}
	}

	paths := make([]string, len(inputs))
	owner := make(map[string]string, len(inputs))
	for i, in := range inputs {
		paths[i] = filepath.Join(t.Path, names[i])
		if prev, ok := owner[paths[i]]; ok {
			return nil, fmt.Errorf("inputs %s and %s both write %s", prev, in, paths[i])
		}
		owner[paths[i]] = in
	}
	return paths, nil
}

// Run decodes inputs in parallel, at most Workers at a time. A failing
// input does not stop the others; all failures are joined in the result.
// Shared outputs are streamed directly when only one input is decoded at
// a time.
func (p *Processor) Run(ctx context.Context, inputs []string, target Target) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no files found to process")
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	errs := make([]error, len(inputs))
	if target.Kind == ToDir {
		paths, err := p.outputPaths(inputs, target)
		if err != nil {
			return err
		}
		for i, in := range inputs {
			i, in := i, in
			g.Go(func() error {
				errs[i] = p.toFile(ctx, in, paths[i])
				return nil
			})
		}
		_ = g.Wait()
		return errors.Join(errs...)
	}

	w := p.opts.Stdout
	if target.Kind == ToFile {
		p.logf(1, "Writing to %s", target.Path)
		f, err := os.Create(target.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	sink := p.newSink(w, p.opts.Type.String())

	if len(inputs) == 1 || p.opts.Workers == 1 {
		for i, in := range inputs {
			p.logf(1, "Processing %s", in)
			errs[i] = p.File(ctx, in, sink)
		}
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	}

	results := make([]*collector, len(inputs))
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			p.logf(1, "Processing %s", in)
			c := &collector{}
			errs[i] = p.File(ctx, in, c)
			results[i] = c
			return nil
		})
	}
	_ = g.Wait()

	if err := writeInOrder(sink, results); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
func writeInOrder(sink output.Sink, results []*collector) error {
	for _, c := range results {
		for _, e := range c.entries {
			if err := sink.Write(e.rec, e.pc); err != nil {
				return err
			}
		}
	}
	return sink.Flush()
}

func (p *Processor) toFile(ctx context.Context, in, path string) error {
	p.logf(1, "Processing %s", in)
	p.logf(1, "Writing to %s", path)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	sink := p.newSink(f, strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)))
	if err := p.File(ctx, in, sink); err != nil {
		_ = f.Close()
		return err
	}
	if err := sink.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
