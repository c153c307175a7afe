package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ffikit/ffikit/internal/ffi"
	"github.com/ffikit/ffikit/pkg/bench"
	"github.com/ffikit/ffikit/pkg/logging"
	"github.com/ffikit/ffikit/pkg/results"
)

func newBenchCmd() *cobra.Command {
	var (
		fixturePath string
		libPath     string
		impl        string
		iterations  int
		warmup      int
		trim        bool
		resultsDir  string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the decode/encode benchmark against a codec implementation",
		Long: `Runs warmup plus timed decode and encode phases against either a native
codec shared library (--lib) or the in-process Go codec, and emits one
result record. With --results the record is appended to a results store
for later comparison.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(fixturePath)
			if err != nil {
				return fmt.Errorf("read fixture: %w", err)
			}

			var boundary ffi.ABI
			if libPath != "" {
				lib, err := ffi.Open(libPath)
				if err != nil {
					return err
				}
				defer lib.Close()
				boundary = lib
			} else {
				logging.Debug("no --lib given, using in-process codec")
				boundary = ffi.NewInProc()
			}

			agg := bench.MeanAll
			if trim {
				agg = bench.TrimmedMean
			}
			res, err := bench.Run(boundary, bench.Config{
				Implementation: impl,
				Payload:        payload,
				Iterations:     iterations,
				Warmup:         warmup,
				Aggregation:    agg,
			})
			if err != nil {
				return err
			}

			if resultsDir != "" {
				path, err := results.Save(resultsDir, res)
				if err != nil {
					return err
				}
				logging.Info("result persisted", zap.String("path", path))
			}

			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(res)
			}
			fmt.Printf("Implementation: %s\n", res.Language)
			fmt.Printf("Iterations:     %d\n", res.Iterations)
			fmt.Printf("Decode:         %d ns/op\n", res.DecodeNs)
			fmt.Printf("Encode:         %d ns/op\n", res.EncodeNs)
			fmt.Printf("Wire size:      %d bytes\n", res.SizeBytes)
			return nil
		},
	}

	cmd.Flags().StringVar(&fixturePath, "fixture", "", "pre-encoded fixture binary (required)")
	cmd.Flags().StringVar(&libPath, "lib", "", "native codec shared library; omit for the in-process Go codec")
	cmd.Flags().StringVar(&impl, "impl", "go", "implementation identifier recorded with the result")
	cmd.Flags().IntVar(&iterations, "iterations", 100000, "measured iteration count")
	cmd.Flags().IntVar(&warmup, "warmup", 0, "warmup cycle count (default iterations/10)")
	cmd.Flags().BoolVar(&trim, "trim", false, "aggregate with the trimmed mean instead of the plain mean")
	cmd.Flags().StringVar(&resultsDir, "results", "", "results store directory to append the record to")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the result record as JSON on stdout")
	cmd.MarkFlagRequired("fixture")
	return cmd
}
