package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ffikit/ffikit/pkg/reference"
)

func newReferenceCmd() *cobra.Command {
	var (
		iterations int
		baselineNs int64
	)

	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Benchmark the protobuf reference system",
		Long: `Measures protobuf parsing and serialization of a synthetic descriptor
payload with the trimmed-mean policy. Supplying --baseline-ns (the mature
baseline implementation's parse time) also prints the reference ratio to
feed into 'compare --reference-ratio'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parse, err := reference.BenchmarkParse(iterations)
			if err != nil {
				return err
			}
			serialize, err := reference.BenchmarkSerialize(iterations)
			if err != nil {
				return err
			}

			fmt.Printf("Protobuf reference (trimmed mean, %d samples kept)\n", parse.Samples)
			fmt.Printf("Parse:     avg %d ns  min %d ns  max %d ns\n", parse.AvgNs, parse.MinNs, parse.MaxNs)
			fmt.Printf("Serialize: avg %d ns  min %d ns  max %d ns\n", serialize.AvgNs, serialize.MinNs, serialize.MaxNs)

			if baselineNs > 0 {
				fmt.Printf("Reference ratio vs baseline %d ns: %.2fx\n", baselineNs, parse.Ratio(baselineNs))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&iterations, "iterations", 1000, "sample count before trimming")
	cmd.Flags().Int64Var(&baselineNs, "baseline-ns", 0, "baseline implementation parse time in nanoseconds")
	return cmd
}
