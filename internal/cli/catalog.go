package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"shelf/internal/catalog"
	"shelf/internal/eventbus"
)

// NewCatalogCommand groups the local catalog commands.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local book catalog",
		Long: `The local catalog is a SQLite database used when search.source is "local"
and served over HTTP by "shelf serve".`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import books from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := catalog.Open(rootOpts.Config().Catalog.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := importCatalog(commandContext(cmd), store, rootOpts.Bus(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d books into %s\n", n, rootOpts.Config().Catalog.Path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every book in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := catalog.Open(rootOpts.Config().Catalog.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			books, err := store.List(commandContext(cmd))
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "The catalog is empty")
				return nil
			}
			renderBooks(cmd.OutOrStdout(), books)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := catalog.Open(rootOpts.Config().Catalog.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(commandContext(cmd), args[0]); err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					return fmt.Errorf("no book with id %q in the catalog", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	})

	return cmd
}

// importCatalog loads path into store and announces it on bus
func importCatalog(ctx context.Context, store *catalog.Store, bus eventbus.EventBus, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	n, err := store.Import(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}
	log.Printf("Imported %d books from %s", n, path)

	if bus != nil {
		bus.Publish(eventbus.CatalogImportedEvent{Source: path, Count: n})
	}
	return n, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
