package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ffikit/ffikit/pkg/compare"
	"github.com/ffikit/ffikit/pkg/results"
)

func newCompareCmd() *cobra.Command {
	var (
		resultsDir     string
		baseline       string
		referenceRatio float64
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compute cross-implementation ratios from a results store",
		Long: `Loads every result record in the store, groups by language, and prints
each implementation's decode-time ratio against the baseline. With
--reference-ratio (a reference system's slowdown for the same language
pair) each non-baseline implementation is also classified as comparable,
acceptable, or regressed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := results.Load(resultsDir)
			if err != nil {
				return err
			}

			means := compare.GroupMeans(records)
			ratios, err := compare.Ratios(means, baseline)
			if err != nil {
				return err
			}

			languages := make([]string, 0, len(ratios))
			for lang := range ratios {
				languages = append(languages, lang)
			}
			sort.Strings(languages)

			policy := compare.DefaultPolicy()
			fmt.Printf("%-12s %12s %8s", "language", "decode_ns", "ratio")
			if referenceRatio > 0 {
				fmt.Printf("  %s", "maturity")
			}
			fmt.Println()
			for _, lang := range languages {
				fmt.Printf("%-12s %12.0f %7.2fx", lang, means[lang], ratios[lang])
				if referenceRatio > 0 && ratios[lang] != 1.0 {
					fmt.Printf("  %s", policy.Classify(referenceRatio, ratios[lang]))
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results", "", "results store directory (required)")
	cmd.Flags().StringVar(&baseline, "baseline", "", "baseline language (default: probe cpp, Cpp, C++, go)")
	cmd.Flags().Float64Var(&referenceRatio, "reference-ratio", 0, "reference system's ratio for maturity classification")
	cmd.MarkFlagRequired("results")
	return cmd
}
