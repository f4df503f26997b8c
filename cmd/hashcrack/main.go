// Command hashcrack hashes values and cracks short numeric preimages of
// salted MD5/SHA-256 digests on the CPU or an OpenCL device.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/coregx/hashcrack/digest"
	"github.com/coregx/hashcrack/internal/secrets"
)

var (
	flagSalt      string
	flagAlgorithm string
	flagVerbose   int
	flagNoColor   bool

	// unsolved flips the exit status when a crack run leaves targets
	// open without any hard error occurring.
	unsolved bool
)

var rootCmd = &cobra.Command{
	Use:           "hashcrack",
	Short:         "MD5 and SHA-256 hasher and cracker",
	Long:          "hashcrack hashes input values, or recovers short numeric preimages of salted MD5/SHA-256 digests by exhaustive search on the CPU or an OpenCL device.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			color.NoColor = true
		}
		setupLogging(flagVerbose)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagSalt, "salt", "s", "", "salt prepended to every hashed value (default: HASHER_SALT or the embedded secret)")
	pf.StringVarP(&flagAlgorithm, "algorithm", "a", "sha256", "hashing algorithm (sha256, md5)")
	pf.CountVarP(&flagVerbose, "verbose", "v", "increase stderr verbosity (repeatable)")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	viper.SetEnvPrefix("HASHER")
	viper.BindEnv("salt")

	rootCmd.AddCommand(hashCmd, crackCmd)
}

// setupLogging maps the -v count onto logrus levels.
func setupLogging(verbose int) {
	logrus.SetOutput(os.Stderr)
	switch {
	case verbose <= 0:
		logrus.SetLevel(logrus.WarnLevel)
	case verbose == 1:
		logrus.SetLevel(logrus.InfoLevel)
	default:
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{DisableColors: color.NoColor})
}

// resolveSalt applies the default chain: flag > HASHER_SALT > embedded.
func resolveSalt(cmd *cobra.Command) string {
	if cmd.Flags().Changed("salt") {
		return flagSalt
	}
	if env := viper.GetString("salt"); env != "" {
		return env
	}
	return secrets.Salt()
}

func resolveAlgorithm() (digest.Algorithm, error) {
	return digest.ParseAlgorithm(flagAlgorithm)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
	if unsolved {
		os.Exit(1)
	}
}
