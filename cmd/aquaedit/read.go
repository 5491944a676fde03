package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReadCmd() *cobra.Command {
	var start, count int
	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Print a range of lines from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBuffer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer b.Close()

			for i, text := range b.VisibleLines(start, count) {
				fmt.Fprintf(cmd.OutOrStdout(), "%6d: %s\n", i, text)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "first line to print")
	cmd.Flags().IntVar(&count, "count", 50, "number of lines to print")
	return cmd
}
