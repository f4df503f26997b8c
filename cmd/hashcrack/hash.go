package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/coregx/hashcrack"
)

var hashCmd = &cobra.Command{
	Use:   "hash [values...]",
	Short: "Hash the input values with the configured salt",
	RunE: func(cmd *cobra.Command, args []string) error {
		alg, err := resolveAlgorithm()
		if err != nil {
			return err
		}
		salt := resolveSalt(cmd)

		values := args
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			piped, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("could not read stdin: %w", err)
			}
			if len(piped) > 0 {
				values = append(values, string(piped))
			}
		}
		if len(values) == 0 {
			return fmt.Errorf("no input values to hash")
		}

		digests := hashcrack.HashValues(alg, salt, values)
		if len(values) == 1 {
			fmt.Println(digests[0].Hex())
			return nil
		}
		for i, v := range values {
			fmt.Printf("%s:%s\n", v, digests[i].Hex())
		}
		return nil
	},
}
