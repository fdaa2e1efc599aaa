package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootFlags are shared by every subcommand.
type rootFlags struct {
	env string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "linkfinder",
		Short:         "Find monitoring documents by month and tags",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.env, "env", "", "config environment (default: $ENV or local)")

	root.AddCommand(
		newServeCmd(flags),
		newSearchCmd(flags),
		newMonthsCmd(flags),
		newVersionCmd(),
	)
	return root
}
