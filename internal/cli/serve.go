package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/tetrisparty/internal/api"
	"github.com/mcoot/tetrisparty/internal/factory"
)

func newServeCmd() *cobra.Command {
	serveCfg := DefaultServeConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := serveCfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), serveCfg.LogFormat, serveCfg.Verbose)
			return Serve(cmd.Context(), serveCfg, logger)
		},
	}

	fs := cmd.Flags()
	normalizeFlags(fs)

	fs.StringVarP(&serveCfg.Bind, "bind", "b", serveCfg.Bind, "address to bind to (env: TETRIS_BIND)")
	fs.IntVarP(&serveCfg.Port, "port", "p", serveCfg.Port, "port to listen on (env: TETRIS_PORT)")
	fs.IntVar(&serveCfg.Rows, "rows", serveCfg.Rows, "board height (env: TETRIS_ROWS)")
	fs.IntVar(&serveCfg.Cols, "cols", serveCfg.Cols, "board width (env: TETRIS_COLS)")
	fs.StringVar(&serveCfg.Storage, "storage", serveCfg.Storage, "score storage: file, memory, redis (env: TETRIS_STORAGE)")
	fs.StringVar(&serveCfg.ScoresFile, "scores-file", serveCfg.ScoresFile, "score log path for file storage (env: TETRIS_SCORES_FILE)")
	fs.StringVar(&serveCfg.RedisURL, "redis-url", serveCfg.RedisURL, "redis URL for redis storage (env: TETRIS_REDIS_URL)")
	fs.DurationVar(&serveCfg.InactivityTimeout, "inactivity-timeout", serveCfg.InactivityTimeout, "time before silent queue members are kicked (env: TETRIS_INACTIVITY_TIMEOUT)")
	fs.DurationVar(&serveCfg.SweepInterval, "sweep-interval", serveCfg.SweepInterval, "how often to check for inactive players (env: TETRIS_SWEEP_INTERVAL)")
	fs.DurationVar(&serveCfg.ReplayInterval, "replay-interval", serveCfg.ReplayInterval, "delay between replay frames (env: TETRIS_REPLAY_INTERVAL)")
	fs.DurationVar(&serveCfg.ReplayCooldown, "replay-cooldown", serveCfg.ReplayCooldown, "pause before a replay starts or restarts (env: TETRIS_REPLAY_COOLDOWN)")
	fs.DurationVar(&serveCfg.ScoreSaveTimeout, "score-save-timeout", serveCfg.ScoreSaveTimeout, "bound on each score write (env: TETRIS_SCORE_SAVE_TIMEOUT)")
	fs.StringVar(&serveCfg.PublicURL, "public-url", serveCfg.PublicURL, "externally reachable base URL for the join QR code (env: TETRIS_PUBLIC_URL)")
	fs.StringVar(&serveCfg.LogFormat, "log-format", serveCfg.LogFormat, "log format: json, text (env: TETRIS_LOG_FORMAT)")
	fs.BoolVarP(&serveCfg.Verbose, "verbose", "v", serveCfg.Verbose, "log at debug level (env: TETRIS_VERBOSE)")

	return cmd
}

func newLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Serve runs the arcade and the HTTP server until ctx is cancelled or a
// termination signal arrives
func Serve(ctx context.Context, serveCfg *ServeConfig, logger *slog.Logger) error {
	factoryCfg := serveCfg.factoryConfig()
	factoryCfg.Logger = logger

	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	arcadeDone := make(chan error, 1)
	go func() {
		arcadeDone <- app.Arcade.Run(ctx)
	}()

	server := api.NewServer(app.Router, serveCfg.serverConfig(), logger)
	// Shutdown does not touch hijacked websocket connections
	server.RegisterOnShutdown(app.Hub.Close)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", serveCfg.Storage))

	select {
	case err := <-errCh:
		cancel()
		<-arcadeDone
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownErr := server.Shutdown(context.Background())
	<-arcadeDone
	if shutdownErr != nil {
		return shutdownErr
	}

	logger.Info("server stopped")
	return nil
}
