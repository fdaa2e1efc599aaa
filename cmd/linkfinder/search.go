package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/reference"
	"github.com/imwes/linkfinder/internal/domain/selection"
	logpkg "github.com/imwes/linkfinder/internal/logger"
)

type searchFlags struct {
	months []string
	tags   []string
	json   bool
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	sf := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search documents once and print the links",
		Example: `  linkfinder search --month "Январь" --tag "Тема=Безопасность"
  linkfinder search --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := sf.selection()
			if err != nil {
				return err
			}

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

			refs := a.search.Search(ctx, catalog, sel)
			a.logger.Debug("Search finished", zap.Int("references", len(refs)))
			return printReferences(cmd.OutOrStdout(), refs, sf.json)
		},
	}
	cmd.Flags().StringArrayVar(&sf.months, "month", nil, "month to search (repeatable, default: all months)")
	cmd.Flags().StringArrayVar(&sf.tags, "tag", nil, `tag as "category=label" (repeatable)`)
	cmd.Flags().BoolVar(&sf.json, "json", false, "print JSON instead of markdown lines")
	return cmd
}

// selection builds the filter from --month and --tag flags.
func (f *searchFlags) selection() (*selection.State, error) {
	sel := selection.New()
	for _, m := range f.months {
		sel.Set(domain.MonthCategory, m)
	}
	for _, t := range f.tags {
		category, label, ok := strings.Cut(t, "=")
		if !ok || category == "" {
			return nil, fmt.Errorf("invalid --tag %q, want category=label", t)
		}
		if category == domain.MonthCategory {
			return nil, fmt.Errorf("use --month instead of --tag %s=...", domain.MonthCategory)
		}
		sel.Set(category, label)
	}
	return sel, nil
}

func printReferences(w io.Writer, refs []reference.Reference, asJSON bool) error {
	if asJSON {
		if refs == nil {
			refs = []reference.Reference{}
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(refs)
	}

	if _, err := fmt.Fprintf(w, "Найдено статей: %d\n", len(refs)); err != nil {
		return err
	}
	for _, r := range refs {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}

