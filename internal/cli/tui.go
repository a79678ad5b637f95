package cli

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"shelf/internal/catalog"
	"shelf/internal/eventbus"
	"shelf/internal/shelf"
	"shelf/internal/ui"
)

type tuiOptions struct {
	Seed string
}

// runTUI starts the interactive search UI
func runTUI(cmd *cobra.Command, opts *RootOptions, tui *tuiOptions) error {
	cfg := opts.Config()
	bus := opts.Bus()

	searcher, closer, err := openSearcher(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	store := shelf.NewMemoryStore(bus)

	log.Printf("Creating UI model...")
	m := ui.NewModel(bus, cfg, searcher, store)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())

	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventBookCommitted,
		eventbus.EventBookRemoved,
		eventbus.EventCatalogImported,
	} {
		unsubscribe := bus.Subscribe(t, forward)
		defer unsubscribe()
	}

	// imported before the UI starts; the status line reports it once running
	if tui.Seed != "" {
		if err := seedCatalog(cmd, opts, tui.Seed); err != nil {
			return err
		}
	}

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	log.Printf("UI exited normally (%d books on shelf)", store.Len())

	for _, b := range store.All() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", b.ID, b.Title)
	}
	return nil
}

func seedCatalog(cmd *cobra.Command, opts *RootOptions, path string) error {
	store, err := catalog.Open(opts.Config().Catalog.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = importCatalog(commandContext(cmd), store, opts.Bus(), path)
	return err
}
