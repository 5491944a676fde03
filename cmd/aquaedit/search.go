package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jansteyn/aquaedit/internal/search"
)

func newSearchCmd() *cobra.Command {
	var caseSensitive, useRegex bool
	cmd := &cobra.Command{
		Use:   "search <file> <term>",
		Short: "Search a file line by line for a literal string or regex",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBuffer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer b.Close()

			ch := search.Search(cmd.Context(), b, search.Options{
				Term:          args[1],
				CaseSensitive: caseSensitive,
				UseRegex:      useRegex,
			}, nil)

			for r := range ch {
				if r.Err != nil {
					return r.Err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d:%d: %s\n", r.Hit.LineIndex, r.Hit.CharIndex, r.Hit.LineText)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match case exactly")
	cmd.Flags().BoolVar(&useRegex, "regex", false, "treat term as a regular expression")
	return cmd
}
