package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"shelf/internal/catalog"
	"shelf/internal/server"
)

// DefaultAddr is where "shelf serve" listens unless told otherwise
const DefaultAddr = "127.0.0.1:8089"

// ServeOptions holds flags for the serve command
type ServeOptions struct {
	Addr string
	Seed string
}

// NewServeCommand creates the command that serves the catalog over HTTP.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local catalog with the Google Books volumes API shape",
		Long: `Serve the local catalog over HTTP. Point search.endpoint at
http://<addr>/books/v1/volumes to search it from another machine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "import a YAML book list while starting")
	return cmd
}

func runServe(ctx context.Context, rootOpts *RootOptions, opts *ServeOptions) error {
	store, err := catalog.Open(rootOpts.Config().Catalog.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.New(store).ListenAndServe(ctx, opts.Addr)
	})

	if opts.Seed != "" {
		g.Go(func() error {
			_, err := importCatalog(ctx, store, rootOpts.Bus(), opts.Seed)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Printf("serve: done")
	return nil
}

// NewDaemonCommand is "shelf serve" as a standalone root command for shelfd.
func NewDaemonCommand() *cobra.Command {
	rootOpts := &RootOptions{}
	serve := NewServeCommand(rootOpts)

	serve.Use = "shelfd"
	serve.SilenceUsage = true
	serve.SilenceErrors = true
	serve.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rootOpts.setup()
	}
	serve.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		rootOpts.teardown()
	}
	serve.Flags().StringVar(&rootOpts.ConfigPath, "config", "", "config file (default $SHELF_CONFIG_DIR/config.toml)")
	serve.Flags().BoolVar(&rootOpts.Debug, "debug", false, "log to stderr instead of the log file")
	return serve
}
