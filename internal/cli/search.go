package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shelf/internal/bookapi"
	"shelf/internal/combobox"
)

// NewSearchCommand creates the one-shot search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search once and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, rootOpts, strings.Join(args, " "), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (default from config)")
	return cmd
}

func runSearch(cmd *cobra.Command, opts *RootOptions, query string, limit int) error {
	cfg := opts.Config()
	query = strings.TrimSpace(query)
	if !combobox.Searchable(query) {
		return fmt.Errorf("query %q is too short: type at least %d characters", query, combobox.MinQueryLength)
	}
	if limit <= 0 {
		limit = cfg.Search.Limit
	}
	if limit > bookapi.MaxResults {
		limit = bookapi.MaxResults
	}

	searcher, closer, err := openSearcher(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := cfg.Search.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	books, err := searcher.Search(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}
	if len(books) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No books match %q\n", query)
		return nil
	}
	renderBooks(cmd.OutOrStdout(), books)
	return nil
}
