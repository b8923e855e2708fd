package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/tetrisparty/internal/api"
	"github.com/mcoot/tetrisparty/internal/dependencies/clock"
	"github.com/mcoot/tetrisparty/internal/dependencies/random"
	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/services/arcade"
	"github.com/mcoot/tetrisparty/internal/services/game"
	"github.com/mcoot/tetrisparty/internal/services/pieces"
	"github.com/mcoot/tetrisparty/internal/services/queue"
	"github.com/mcoot/tetrisparty/internal/services/scores"
	"github.com/mcoot/tetrisparty/internal/storage"
	filestorage "github.com/mcoot/tetrisparty/internal/storage/file"
	"github.com/mcoot/tetrisparty/internal/storage/memory"
	redisstorage "github.com/mcoot/tetrisparty/internal/storage/redis"
	"github.com/mcoot/tetrisparty/internal/web/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeFile   = "file"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	PieceService *pieces.Service
	GameService  *game.Service
	Queue        *queue.Service
	ScoreService *scores.Service
	Arcade       *arcade.Controller

	// Transport
	Hub    *ws.Hub
	Router http.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the score backend ("file", "memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// ScoresFile is the JSON file used by the file backend
	ScoresFile string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config

	// Arcade holds board size and replay/sweep timing; zero fields use defaults
	Arcade arcade.Config
	// Socket holds websocket limits; zero fields use defaults
	Socket ws.Config
	// InactivityTimeout evicts silent queue members
	InactivityTimeout time.Duration
	// ScoreSaveTimeout bounds each score write
	ScoreSaveTimeout time.Duration
	// PublicURL is the externally reachable base URL used in the join QR code
	PublicURL string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg, logger), nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeFile:
		return filestorage.New(cfg.ScoresFile)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	default:
		return nil, fmt.Errorf("%w: %q (must be 'file', 'memory' or 'redis')", model.ErrUnknownStorageType, storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	pieceService := pieces.New(rnd)
	gameService := game.New(pieceService, logger)
	turnQueue := queue.New(clk, cfg.InactivityTimeout, logger)
	scoreService := scores.New(store, clk, cfg.ScoreSaveTimeout, logger)

	// The hub and the arcade point at each other: the arcade emits through
	// the hub and the hub posts inbound frames to the arcade.
	hub := ws.NewHub(nil, cfg.Socket, logger)
	controller := arcade.New(cfg.Arcade, gameService, turnQueue, scoreService, hub, clk, logger)
	hub.SetSink(controller)

	router := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		Scores:    scoreService,
		Arcade:    controller,
		Socket:    hub.ServeWS,
		PublicURL: cfg.PublicURL,
	})

	return &App{
		Storage:      store,
		Clock:        clk,
		Random:       rnd,
		PieceService: pieceService,
		GameService:  gameService,
		Queue:        turnQueue,
		ScoreService: scoreService,
		Arcade:       controller,
		Hub:          hub,
		Router:       router,
	}
}

// Close disconnects every socket and releases storage
func (a *App) Close() error {
	a.Hub.Close()
	return a.Storage.Close()
}
