package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ffikit/ffikit/internal/wire"
)

func newFixtureCmd() *cobra.Command {
	var (
		output string
		size   int
	)

	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Generate a deterministic benchmark fixture binary",
		Long: `Generates the pre-encoded benchmark message every binding decodes and
encodes. The fixture is deterministic so results from different languages,
machines, and runs measure the same payload.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := wire.Encode(wire.Fixture(size))
			if err != nil {
				return fmt.Errorf("encode fixture: %w", err)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write fixture: %w", err)
			}
			fmt.Printf("Wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "fixture.bin", "output file path")
	cmd.Flags().IntVar(&size, "size", 7500, "approximate encoded size in bytes")
	return cmd
}
