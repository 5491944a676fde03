// Command aquaedit is a thin CLI harness over the file engine core: it
// exercises open/index/read/search/save without containing any editing
// logic of its own, the way dh-cli's cmd package is a thin dispatcher
// over its own internal/config and internal/discovery.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	logFile    string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "aquaedit",
		Short:         "Open, index, read, search, and save large text files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "path to a log file (stderr if empty)")

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newReadCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSaveCmd())
	return cmd
}

// Execute runs the root command and returns its error; main prints it
// to stderr.
func Execute() error {
	return newRootCmd().Execute()
}

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
