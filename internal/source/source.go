// Package source finds the text logs to decode and streams their lines.
package source

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Stdin is the input name used for standard input.
const Stdin = "-"

// ParseDirSpec splits the "directory::suffix" form accepted on the command
// line.
func ParseDirSpec(spec string) (dir, suffix string, err error) {
	dir, suffix, ok := strings.Cut(spec, "::")
	if !ok || strings.TrimSpace(dir) == "" || suffix == "" {
		return "", "", fmt.Errorf("directory spec %q must look like /path::.suffix", spec)
	}
	return strings.TrimSpace(dir), suffix, nil
}

// Discover returns the inputs to process. With a directory it walks the
// tree and returns every regular file whose name ends in suffix, sorted.
// Otherwise it returns file, or Stdin when file is empty.
func Discover(file, directory, suffix string) ([]string, error) {
	if directory == "" {
		if file == "" {
			file = Stdin
		}
		return []string{file}, nil
	}

	var out []string
	err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), suffix) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// Open opens name for reading. Stdin is wrapped so closing it is a no-op.
func Open(name string) (io.ReadCloser, error) {
	if name == Stdin {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// MaxLineLength bounds the text handed to the decoder for one line. Longer
// lines are truncated and the rest, up to the next newline, is dropped.
const MaxLineLength = 1024 * 1024

// ForEachLine calls fn for each line of r with its 1-based line number.
// Trailing CR/LF is removed; other surrounding text is left for the
// decoder. A non-nil error from fn stops the scan and is returned.
func ForEachLine(r io.Reader, fn func(n int, line string) error) error {
	br := bufio.NewReaderSize(r, 64*1024)
	buf := make([]byte, 0, 4096)

	n := 0
	for {
		chunk, err := br.ReadSlice('\n')
		if room := MaxLineLength - len(buf); room > 0 {
			buf = append(buf, chunk[:min(len(chunk), room)]...)
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == nil || len(buf) > 0 {
			n++
			line := strings.TrimRight(string(buf), "\r\n")
			buf = buf[:0]
			if ferr := fn(n, line); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
