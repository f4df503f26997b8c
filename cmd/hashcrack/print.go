package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/coregx/hashcrack"
	"github.com/coregx/hashcrack/engine"
	"github.com/coregx/hashcrack/ingest"
	"github.com/coregx/hashcrack/rewrite"
)

// printer renders the verbose stderr sections. Verbosity 0 keeps stderr
// silent apart from warnings; 1 adds the files/output/summary sections and
// the per-file loading and writing lines; 2 adds the full options dump.
type printer struct {
	verbose int
}

func newPrinter(verbose int) *printer {
	return &printer{verbose: verbose}
}

var (
	sectionColor = color.New(color.FgYellow)
	labelColor   = color.New(color.FgBlue)
	errorColor   = color.New(color.FgRed, color.Bold)
	doneColor    = color.New(color.FgGreen)
)

func (p *printer) section(title string) {
	if p.verbose < 1 {
		return
	}
	fmt.Fprintln(os.Stderr)
	sectionColor.Fprintln(os.Stderr, title)
	fmt.Fprintln(os.Stderr, "----------")
}

func (p *printer) line(label string, value interface{}) {
	fmt.Fprintf(os.Stderr, "%s%v\n", labelColor.Sprintf("%-15s", label+":"), value)
}

// options dumps the run configuration, then opens the Output section that
// the stdout results visually belong to.
func (p *printer) options(cfg hashcrack.Config, targetCount int) {
	if p.verbose >= 2 {
		p.section("Options")
		p.line("Algorithm", cfg.Algorithm)
		p.line("Device", cfg.Device)
		if cfg.Salt != "" {
			p.line("Salt", cfg.Salt)
		}
		if cfg.Threads == 0 {
			p.line("Threads", "auto")
		} else {
			p.line("Threads", cfg.Threads)
		}
		if cfg.Prefix != "" {
			p.line("Prefix", cfg.Prefix)
		}
		p.line("Length", cfg.Length)
		if variable := int(cfg.Length) - len(cfg.Prefix); variable >= 0 {
			p.line("Possibilities", formatCount(engine.Pow10(variable)))
		}
		p.line("Targets", targetCount)
	}
	p.section("Output")
}

func (p *printer) summary(s *hashcrack.Summary) {
	if p.verbose < 1 {
		return
	}
	p.section("Summary")
	p.line("Device", s.Device)
	if s.Device == hashcrack.DeviceGPU {
		p.line("Lanes", humanize.Comma(int64(s.Lanes)))
	} else {
		p.line("Threads", s.Threads)
	}
	p.line("Time elapsed", formatDuration(s.Duration))
	p.line("Hashes", formatCount(s.HashCount))
	if rate := s.HashesPerMilli(); !math.IsNaN(rate) {
		p.line("Hash rate", fmt.Sprintf("%.2f hashes/ms", rate))
	}
	pct := 100.0
	if s.TargetCount > 0 {
		pct = float64(s.CrackedCount()) * 100 / float64(s.TargetCount)
	}
	p.line("Cracked", fmt.Sprintf("%d/%d (%.1f%%)", s.CrackedCount(), s.TargetCount, pct))
}

func (p *printer) fileReports(reports []ingest.FileReport) {
	if p.verbose < 1 {
		return
	}
	for _, r := range reports {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s %s: %s %s\n",
				labelColor.Sprint("Loading"), r.Path, errorColor.Sprint("Error:"), r.Err)
			continue
		}
		fmt.Fprintf(os.Stderr, "%s %s: %d digests\n",
			labelColor.Sprint("Loading"), r.Path, len(r.Digests))
	}
}

func (p *printer) writeReport(r rewrite.Report) {
	if p.verbose < 1 {
		return
	}
	switch {
	case r.Err != nil:
		fmt.Fprintf(os.Stderr, "%s %s: %s %s\n",
			labelColor.Sprint("Writing"), r.Input, errorColor.Sprint("Error:"), r.Err)
	case r.Output == "":
		fmt.Fprintf(os.Stderr, "%s %s: nothing to substitute\n",
			labelColor.Sprint("Writing"), r.Input)
	default:
		fmt.Fprintf(os.Stderr, "%s %s: %s\n",
			labelColor.Sprint("Writing"), r.Output, doneColor.Sprint("Done"))
	}
}

// printError writes the single top-level failure line.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorColor.Sprint("Error:"), err)
}

// formatCount renders a possibly 64-bit-wide count with separators.
// The 19-digit space just exceeds int64, which humanize.Comma takes.
func formatCount(n uint64) string {
	if n > math.MaxInt64 {
		return fmt.Sprintf("%d", n)
	}
	return humanize.Comma(int64(n))
}

// formatDuration renders like "1m 2.34s (62340ms)".
func formatDuration(d time.Duration) string {
	millis := d.Milliseconds()
	seconds := float64(millis%60_000) / 1000
	if minutes := millis / 60_000; minutes > 0 {
		return fmt.Sprintf("%dm %.2fs (%dms)", minutes, seconds, millis)
	}
	return fmt.Sprintf("%.2fs (%dms)", seconds, millis)
}
