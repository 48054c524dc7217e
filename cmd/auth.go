package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/oauthstate"
	"github.com/teemow/workspace-mcp/internal/server"
)

func newAuthCmd() *cobra.Command {
	var (
		account    string
		listenAddr string
		stateFile  string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google account from the terminal",
		Long: `Run the OAuth authorization flow for a Google account.

Starts a local callback listener, prints the Google consent URL, and waits
for the browser redirect. The resulting token is stored on disk and picked
up by the serve command.

Requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET to be set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logger := newLogger(false)

			statePath, err := resolveStateFile(stateFile)
			if err != nil {
				return err
			}
			states := oauthstate.New(statePath, logger)

			flow := server.NewAuthFlow(states, nil, logger)
			err = flow.Authorize(ctx, account, listenAddr, func(authURL string) {
				fmt.Println("Open this URL in your browser to authorize:")
				fmt.Println()
				fmt.Printf("  %s\n", authURL)
				fmt.Println()
				fmt.Println("Waiting for the browser callback...")
			})
			if err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}

			if account == "" {
				account = google.DefaultAccount
			}
			fmt.Printf("Account %q is now authenticated.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", google.DefaultAccount, "Google account name to authorize")
	cmd.Flags().StringVar(&listenAddr, "listen-addr", server.DefaultCallbackAddr, "Loopback address for the OAuth callback listener")
	cmd.Flags().StringVar(&stateFile, "state-file", "", "Path to the OAuth state file (default: <credentials dir>/"+oauthstate.StateFileName+")")

	return cmd
}
