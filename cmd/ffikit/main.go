// ffikit - native codec binding benchmarks and cross-language comparison.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/ffikit/ffikit/pkg/logging"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ffikit",
		Short: "Benchmark the native codec across language bindings",
		Long: `ffikit measures decode/encode performance of the native message codec
through its C ABI, persists per-run results, and compares implementations
against a baseline and the protobuf reference system.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logging.SetLevel(zapcore.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newFixtureCmd())
	root.AddCommand(newBenchCmd())
	root.AddCommand(newReferenceCmd())
	root.AddCommand(newCompareCmd())
	return root
}

func main() {
	defer logging.Sync()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
