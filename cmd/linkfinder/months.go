package main

import (
	"fmt"

	"github.com/spf13/cobra"

	logpkg "github.com/imwes/linkfinder/internal/logger"
)

func newMonthsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List the month sub-databases",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := logpkg.ContextWithLogger(cmd.Context(), a.logger)
			catalog, err := a.search.Catalog(ctx)
			if err != nil {
				return fmt.Errorf("no months available: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, m := range catalog.Months() {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", m, catalog[m]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
