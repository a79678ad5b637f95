package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shelf/internal/credentials"
)

// NewAuthCommand groups the API key commands.
func NewAuthCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Google Books API key",
		Long: fmt.Sprintf(`The key is kept in the system keyring. %s overrides it when set.
Searches work without a key at a lower quota.`, credentials.EnvAPIKey),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-key [key]",
		Short: "Store the API key (reads stdin when no key is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read api key: %w", err)
				}
				key = line
			}
			if err := newCredentialStore().SetAPIKey(strings.TrimSpace(key)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key stored")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-key",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := newCredentialStore().DeleteAPIKey()
			if errors.Is(err, credentials.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No API key stored")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key deleted")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the API key comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if strings.TrimSpace(os.Getenv(credentials.EnvAPIKey)) != "" {
				fmt.Fprintf(out, "Using %s\n", credentials.EnvAPIKey)
				return nil
			}
			_, err := newCredentialStore().APIKey()
			switch {
			case errors.Is(err, credentials.ErrNotFound):
				fmt.Fprintln(out, "No API key; searching anonymously")
			case err != nil:
				return err
			default:
				fmt.Fprintln(out, "Using the key stored in the system keyring")
			}
			return nil
		},
	})

	return cmd
}
