package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *ClientConfig
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultClientConfig()
	v := newViper()

	rootCmd := &cobra.Command{
		Use:   "tetrisparty",
		Short: "Party Tetris server and API client",
		Long: `tetrisparty runs a shared Tetris table: one player at a time plays from a
phone, the rest wait in a queue, and big screens watch the live game or a
replay of the last one.

Use "serve" to run the server; the other commands talk to a running server's
JSON API.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyEnv(v, cmd.Flags()); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	fs := rootCmd.PersistentFlags()
	normalizeFlags(fs)
	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL for API commands (env: TETRIS_SERVER)")
	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: TETRIS_OUTPUT)")

	// Add subcommands
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newHealthCmd())

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
