// Package rewrite emits cracked copies of the input files: every occurrence
// of a cracked digest's hex string is substituted with its preimage and the
// result lands in a `<name>.cracked` sibling.
//
// Substitution is literal, not regex: lines are gated by the same
// word-bounded scanner the ingestion uses, then every cracked hex string on
// the line is replaced in any casing. Multi-pattern matching runs on an
// Aho-Corasick automaton over a lower-cased shadow of the line, so mixed
// casings cost one pass regardless of how many digests were cracked.
package rewrite

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coregx/ahocorasick"
	"golang.org/x/sync/errgroup"

	"github.com/coregx/hashcrack/digest"
	"github.com/coregx/hashcrack/engine"
	"github.com/coregx/hashcrack/internal/hexscan"
)

// maxNameAttempts bounds the `<name>.cracked.N` collision probe.
const maxNameAttempts = 100

// ErrTooManyCollisions is returned when `<name>.cracked` and all hundred
// numbered fallbacks already exist.
var ErrTooManyCollisions = errors.New("too many output name collisions")

// Report is the outcome for one input file. Output is empty when no file was
// left behind (nothing substituted, or the write failed).
type Report struct {
	Input         string
	Output        string
	Substitutions int
	Err           error
}

// Rewriter substitutes one run's cracked results into files.
type Rewriter struct {
	scanner      *hexscan.Scanner
	automaton    *ahocorasick.Automaton
	replacements map[string]string
}

// New builds a rewriter for the given cracked results. An empty result set
// yields a rewriter that never substitutes.
func New(alg digest.Algorithm, results []engine.Result) (*Rewriter, error) {
	rw := &Rewriter{
		scanner:      hexscan.New(alg.HexLen()),
		replacements: make(map[string]string, len(results)),
	}
	if len(results) == 0 {
		return rw, nil
	}

	builder := ahocorasick.NewBuilder()
	for _, r := range results {
		hex := strings.ToLower(r.Digest.Hex())
		builder.AddPattern([]byte(hex))
		rw.replacements[hex] = r.Plain
	}
	automaton, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("could not build substitution automaton: %w", err)
	}
	rw.automaton = automaton
	return rw, nil
}

// RewriteAll processes every file concurrently and returns one report per
// input, in input order. Per-file failures land in the report; they never
// abort the other files.
func (rw *Rewriter) RewriteAll(paths []string) []Report {
	reports := make([]Report, len(paths))

	var g errgroup.Group
	g.SetLimit(4)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			reports[i] = rw.RewriteFile(path)
			return nil
		})
	}
	g.Wait()
	return reports
}

// RewriteFile streams one input into its `<name>.cracked[.N]` sibling.
// The output is deleted again when nothing was substituted or when any
// write fails partway through; the input is never touched.
func (rw *Rewriter) RewriteFile(path string) Report {
	report := Report{Input: path}

	in, err := os.Open(path)
	if err != nil {
		report.Err = fmt.Errorf("could not open %s for rewriting: %w", path, err)
		return report
	}
	defer in.Close()

	outPath, out, err := createOutput(path)
	if err != nil {
		report.Err = err
		return report
	}

	count, err := rw.rewrite(in, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outPath)
		report.Err = fmt.Errorf("rewriting %s: %w", path, err)
		return report
	}

	report.Substitutions = count
	if count == 0 {
		os.Remove(outPath)
		return report
	}
	report.Output = outPath
	return report
}

// createOutput picks the first free sibling name and creates it exclusively.
func createOutput(path string) (string, *os.File, error) {
	candidate := path + ".cracked"
	for i := 0; ; i++ {
		if _, err := os.Stat(candidate); err == nil {
			if i == maxNameAttempts {
				return "", nil, fmt.Errorf("could not create output for %s: %w", path, ErrTooManyCollisions)
			}
			candidate = fmt.Sprintf("%s.cracked.%d", path, i)
			continue
		}
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return "", nil, fmt.Errorf("could not create output %s: %w", candidate, err)
		}
		return candidate, f, nil
	}
}

// rewrite copies in to out line by line, substituting gated lines, and
// returns the substitution count.
func (rw *Rewriter) rewrite(in io.Reader, out io.Writer) (int, error) {
	reader := newLineReader(in)
	w := newErrWriter(out)

	count := 0
	for {
		line, err := reader.next()
		if len(line) > 0 {
			if rw.scanner.Match(line) {
				replaced, n := rw.substitute(line)
				count += n
				w.write(replaced)
			} else {
				w.write(line)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
	}
	return count, w.err
}

// substitute replaces every cracked hex string on the line, in any casing.
// It returns the original slice untouched when nothing matched.
func (rw *Rewriter) substitute(line []byte) ([]byte, int) {
	if rw.automaton == nil {
		return line, 0
	}

	// ASCII-only lowering keeps every offset in lower valid for line.
	lower := make([]byte, len(line))
	for i, c := range line {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		lower[i] = c
	}
	var out []byte
	last, count := 0, 0

	for at := 0; at < len(lower); {
		m := rw.automaton.Find(lower, at)
		if m == nil {
			break
		}
		plain := rw.replacements[string(lower[m.Start:m.End])]
		out = append(out, line[last:m.Start]...)
		out = append(out, plain...)
		last = m.End
		at = m.End
		count++
	}
	if count == 0 {
		return line, 0
	}
	return append(out, line[last:]...), count
}
