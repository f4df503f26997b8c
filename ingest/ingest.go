// Package ingest collects target digests from the three input sources:
// positional arguments, listed files and a piped stdin.
//
// Arguments are parsed strictly: one malformed digest aborts the run with
// the offending value named. Files and stdin are free text: every
// word-bounded hex run of the algorithm's width is extracted and anything
// else on the line is ignored, so logs and config dumps can be fed in
// unfiltered. Duplicates across all sources collapse into one target.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/coregx/hashcrack/digest"
	"github.com/coregx/hashcrack/internal/hexscan"
)

// maxLineBytes bounds a single scanned line. A longer line ends the scan of
// its source with bufio.ErrTooLong: digests found before it are kept, the
// rest of that source is not read, and the error is reported (in the file's
// report, or as a failed Read for stdin).
const maxLineBytes = 1 << 20

// FileReport records what a single listed file contributed. Err is set when
// the file could not be opened or read; per spec that is not fatal as long
// as other sources provided targets.
type FileReport struct {
	Path    string
	Digests []digest.Digest
	Err     error
}

// Input is the merged, deduplicated target set plus the per-file breakdown
// the rewriter needs.
type Input struct {
	Targets []digest.Digest
	Files   []FileReport
}

// Read gathers targets for alg from positional args, the listed files, and
// stdin (pass nil when stdin is a terminal). Argument order is preserved in
// Targets up to deduplication.
func Read(alg digest.Algorithm, args []string, files []string, stdin io.Reader) (*Input, error) {
	in := &Input{}
	seen := make(map[digest.Digest]bool)
	add := func(d digest.Digest) bool {
		if seen[d] {
			return false
		}
		seen[d] = true
		in.Targets = append(in.Targets, d)
		return true
	}

	for _, arg := range args {
		d, err := digest.Parse(alg, arg)
		if err != nil {
			return nil, err
		}
		add(d)
	}

	for _, path := range files {
		report := FileReport{Path: path}
		f, err := os.Open(path)
		if err != nil {
			report.Err = fmt.Errorf("could not open %s: %w", path, err)
			logrus.WithField("file", path).WithError(err).Warn("skipping unreadable file")
			in.Files = append(in.Files, report)
			continue
		}

		found, err := scan(alg, f)
		f.Close()
		if err != nil {
			report.Err = fmt.Errorf("could not read %s: %w", path, err)
			logrus.WithField("file", path).WithError(err).Warn("skipping unreadable file")
		}
		report.Digests = found
		for _, d := range found {
			add(d)
		}
		in.Files = append(in.Files, report)
	}

	if stdin != nil {
		found, err := scan(alg, stdin)
		if err != nil {
			return nil, fmt.Errorf("could not read stdin: %w", err)
		}
		for _, d := range found {
			add(d)
		}
	}

	return in, nil
}

// scan extracts every digest-shaped hex run from r, line by line. Lines
// without a match are silently skipped by design; input files may contain
// arbitrary non-hash text.
func scan(alg digest.Algorithm, r io.Reader) ([]digest.Digest, error) {
	scanner := hexscan.New(alg.HexLen())
	var found []digest.Digest

	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 64*1024), maxLineBytes)
	for lines.Scan() {
		line := lines.Bytes()
		for _, span := range scanner.FindAll(line) {
			d, err := digest.Parse(alg, string(line[span.Start:span.End]))
			if err != nil {
				continue
			}
			found = append(found, d)
		}
	}
	return found, lines.Err()
}
