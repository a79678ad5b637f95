package cli

import (
	"fmt"
	"io"
	"log"

	"shelf/internal/bookapi"
	"shelf/internal/catalog"
	"shelf/internal/combobox"
	"shelf/internal/config"
	"shelf/internal/credentials"
	"shelf/internal/domain"
)

// newCredentialStore is replaced in tests
var newCredentialStore = func() credentials.Store {
	return credentials.NewKeyringStore()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openSearcher returns the search source named in cfg. The closer releases
// whatever the source holds open.
func openSearcher(cfg *config.Config) (combobox.Searcher, io.Closer, error) {
	switch cfg.Search.Source {
	case domain.SourceLocal:
		store, err := catalog.Open(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Searching local catalog %s", cfg.Catalog.Path)
		return store, store, nil

	case domain.SourceGoogle:
		key, err := credentials.ResolveAPIKey(newCredentialStore())
		if err != nil {
			// an unreadable keyring should not stop anonymous searches
			log.Printf("Could not read API key: %v", err)
		}
		var opts []bookapi.Option
		if key != "" {
			opts = append(opts, bookapi.WithAPIKey(key))
		}
		client, err := bookapi.NewClient(cfg.Search.Endpoint, opts...)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Searching %s (api key: %t)", cfg.Search.Endpoint, key != "")
		return client, nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown search source %q", cfg.Search.Source)
}
