package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gpsparser/internal/nmea"
)

func newChecksumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksum SENTENCE...",
		Short: "Show computed and transmitted checksums",
		Long: `Locate the $...*hh sentence in each argument and print the checksum
computed over the bytes between '$' and '*' next to the transmitted one.
Exits non-zero when any sentence is missing or fails its check.`,
		Example: `  gpsparser checksum '$GPHDT,274.07,T*03'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, arg := range args {
				s, err := nmea.Locate(arg)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s\tnot found\n", arg)
					continue
				}
				got := nmea.FormatChecksum(nmea.Checksum(s.Body))
				status := "ok"
				if s.Verify() != nil {
					failed++
					status = "MISMATCH"
				}
				fmt.Fprintf(out, "%s\tcomputed=%s\ttransmitted=%s\t%s\n", s.Raw, got, s.Checksum, status)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d sentences failed: %w", failed, len(args), nmea.ErrChecksumFailed)
			}
			return nil
		},
	}
}
