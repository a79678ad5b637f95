package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"shelf/internal/config"
	"shelf/internal/eventbus"
)

// RootOptions holds global flags and the state every command shares.
type RootOptions struct {
	ConfigPath string
	Debug      bool

	cfg     *config.Config
	bus     eventbus.EventBus
	logFile io.Closer
}

// Config returns the configuration loaded before the command ran
func (o *RootOptions) Config() *config.Config { return o.cfg }

// Bus returns the event bus shared by the command's services
func (o *RootOptions) Bus() eventbus.EventBus { return o.bus }

// NewRootCommand creates the root command. Without a subcommand it runs the TUI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	tui := &tuiOptions{}

	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Look up books as you type and collect them on a shelf",
		Long: `shelf searches Google Books (or a local catalog) while you type and
lets you pick results with the keyboard or mouse.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			opts.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, tui)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $SHELF_CONFIG_DIR/config.toml)")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "log to stderr instead of the log file")
	cmd.Flags().StringVar(&tui.Seed, "seed", "", "import a YAML book list into the catalog before starting")

	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewAuthCommand(opts))

	return cmd
}

// Execute runs the root command with os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

// setup loads configuration and points the log at the right place
func (o *RootOptions) setup() error {
	o.bus = eventbus.New()

	var svc config.ConfigService
	if o.ConfigPath != "" {
		svc = config.NewConfigServiceAt(o.ConfigPath, o.bus)
	} else {
		svc = config.NewConfigServiceWithBus(o.bus)
	}

	cfg, err := svc.Load()
	if err != nil {
		o.bus.Close()
		return fmt.Errorf("load config: %w", err)
	}
	o.cfg = cfg

	switch {
	case o.Debug:
		log.SetOutput(os.Stderr)
	case cfg.UI.LogFile != "":
		f, err := openLogFile(cfg.UI.LogFile)
		if err != nil {
			// keep going without a log file
			log.SetOutput(io.Discard)
			fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
			break
		}
		o.logFile = f
		log.SetOutput(f)
	default:
		log.SetOutput(io.Discard)
	}

	log.Printf("Loaded config from %s (source %s)", svc.Path(), cfg.Search.Source)
	return nil
}

func (o *RootOptions) teardown() {
	if o.bus != nil {
		o.bus.Close()
	}
	if o.logFile != nil {
		o.logFile.Close()
		o.logFile = nil
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
