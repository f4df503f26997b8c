package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coregx/hashcrack"
	"github.com/coregx/hashcrack/digest"
	"github.com/coregx/hashcrack/ingest"
	"github.com/coregx/hashcrack/rewrite"
)

var (
	flagFiles   []string
	flagPrefix  string
	flagThreads uint8
	flagDevice  string
	flagLength  uint8
)

var crackCmd = &cobra.Command{
	Use:   "crack [digests...]",
	Short: "Recover the numeric preimages of the given digests",
	Long: "crack enumerates every decimal preimage of the configured length and " +
		"reports the ones hashing to a target digest. Targets come from the " +
		"positional arguments, from --files and from a piped stdin.",
	RunE: runCrack,
}

func init() {
	f := crackCmd.Flags()
	f.StringSliceVarP(&flagFiles, "files", "f", nil, "files to scan for target digests (rewritten on success)")
	f.StringVarP(&flagPrefix, "prefix", "p", "", "known prefix of the preimages")
	f.Uint8VarP(&flagThreads, "threads", "t", 0, "CPU worker count (0 for auto)")
	f.StringVarP(&flagDevice, "device", "d", "", "device to run on (cpu, gpu; default: auto)")
	f.Uint8VarP(&flagLength, "length", "l", 12, "total preimage length, prefix included")
}

func runCrack(cmd *cobra.Command, args []string) error {
	alg, err := resolveAlgorithm()
	if err != nil {
		return err
	}
	device, err := hashcrack.ParseDevice(flagDevice)
	if err != nil {
		return err
	}
	salt := resolveSalt(cmd)

	var stdin io.Reader
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		stdin = os.Stdin
	}

	pr := newPrinter(flagVerbose)
	if len(flagFiles) > 0 {
		pr.section("Files")
	}
	input, err := ingest.Read(alg, args, flagFiles, stdin)
	if err != nil {
		return err
	}
	pr.fileReports(input.Files)
	if len(input.Targets) == 0 {
		return fmt.Errorf("no target digests provided")
	}

	cfg := hashcrack.Config{
		Algorithm:   alg,
		Salt:        salt,
		Prefix:      flagPrefix,
		Length:      flagLength,
		Threads:     flagThreads,
		Device:      device,
		GPUProgress: gpuProgress(flagVerbose),
	}

	pr.options(cfg, len(input.Targets))

	summary, err := cfg.Crack(input.Targets)
	if err != nil {
		return err
	}

	printResults(input.Targets, summary)
	rewriteFiles(pr, alg, input, summary)
	pr.summary(summary)

	if !summary.AllCracked() {
		unsolved = true
	}
	return nil
}

// gpuProgress renders the host-iteration progress bar at high verbosity.
func gpuProgress(verbose int) func(done, total uint64) {
	if verbose < 2 {
		return nil
	}
	var bar *progressbar.ProgressBar
	return func(done, total uint64) {
		if bar == nil {
			bar = progressbar.NewOptions64(int64(total),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("dispatching"),
				progressbar.OptionClearOnFinish(),
			)
		}
		bar.Set64(int64(done))
	}
}

// printResults writes the cracked pairs to stdout: a single target prints
// only its preimage, several print digest:preimage lines.
func printResults(targets []digest.Digest, summary *hashcrack.Summary) {
	if len(targets) == 1 {
		if len(summary.Results) == 1 {
			fmt.Println(summary.Results[0].Plain)
		}
		return
	}
	for _, r := range summary.Results {
		fmt.Printf("%s:%s\n", r.Digest.Hex(), r.Plain)
	}
}

// rewriteFiles substitutes cracked values into every input file that
// contributed at least one cracked digest.
func rewriteFiles(p *printer, alg digest.Algorithm, input *ingest.Input, summary *hashcrack.Summary) {
	if summary.CrackedCount() == 0 {
		return
	}

	cracked := make(map[digest.Digest]bool, len(summary.Results))
	for _, r := range summary.Results {
		cracked[r.Digest] = true
	}

	var paths []string
	for _, report := range input.Files {
		if report.Err != nil {
			continue
		}
		for _, d := range report.Digests {
			if cracked[d] {
				paths = append(paths, report.Path)
				break
			}
		}
	}
	if len(paths) == 0 {
		return
	}

	rw, err := rewrite.New(alg, summary.Results)
	if err != nil {
		logrus.WithError(err).Error("skipping file rewriting")
		return
	}

	p.section("Files")
	for _, report := range rw.RewriteAll(paths) {
		p.writeReport(report)
	}
}
