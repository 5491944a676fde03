package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <file> <out>",
		Short: "Open a file and save its effective contents to a new path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBuffer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.Save(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", args[1])
			return nil
		},
	}
}
