package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <file>",
		Short: "Open a file and report its line count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBuffer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer b.Close()

			st := b.Stat()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d lines, %d bytes\n", st.Path, st.LineCount, st.Size)
			return nil
		},
	}
}
