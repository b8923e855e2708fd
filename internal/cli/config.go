package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/mcoot/tetrisparty/internal/api"
	"github.com/mcoot/tetrisparty/internal/factory"
	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/services/arcade"
	"github.com/mcoot/tetrisparty/internal/services/queue"
	"github.com/mcoot/tetrisparty/internal/services/scores"
	filestorage "github.com/mcoot/tetrisparty/internal/storage/file"
	redisstorage "github.com/mcoot/tetrisparty/internal/storage/redis"
)

// minBoardSide matches the smallest board the game service accepts
const minBoardSide = 4

// ClientConfig holds configuration for the API client commands
type ClientConfig struct {
	ServerURL string
	Output    string
}

// DefaultClientConfig returns a ClientConfig with default values
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		ServerURL: "http://localhost:3000",
		Output:    "text",
	}
}

// ServeConfig holds everything the serve command needs
type ServeConfig struct {
	Bind string
	Port int

	Rows int
	Cols int

	Storage    string
	ScoresFile string
	RedisURL   string

	InactivityTimeout time.Duration
	SweepInterval     time.Duration
	ReplayInterval    time.Duration
	ReplayCooldown    time.Duration
	ScoreSaveTimeout  time.Duration

	PublicURL string
	LogFormat string
	Verbose   bool
}

// DefaultServeConfig returns a ServeConfig with default values
func DefaultServeConfig() *ServeConfig {
	game := arcade.DefaultConfig()
	return &ServeConfig{
		Bind:              "0.0.0.0",
		Port:              api.DefaultServerConfig().Port,
		Rows:              game.Rows,
		Cols:              game.Cols,
		Storage:           factory.StorageTypeFile,
		ScoresFile:        filestorage.DefaultPath,
		InactivityTimeout: queue.DefaultInactivityTimeout,
		SweepInterval:     game.SweepInterval,
		ReplayInterval:    game.ReplayInterval,
		ReplayCooldown:    game.ReplayCooldown,
		ScoreSaveTimeout:  scores.DefaultSaveTimeout,
		LogFormat:         "json",
	}
}

// Validate reports the first invalid setting
func (c *ServeConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.Rows < minBoardSide || c.Cols < minBoardSide {
		return fmt.Errorf("%w: %dx%d (minimum %dx%d)", model.ErrInvalidBoardSize, c.Rows, c.Cols, minBoardSide, minBoardSide)
	}

	durations := []struct {
		flag  string
		value time.Duration
	}{
		{"inactivity-timeout", c.InactivityTimeout},
		{"sweep-interval", c.SweepInterval},
		{"replay-interval", c.ReplayInterval},
		{"replay-cooldown", c.ReplayCooldown},
		{"score-save-timeout", c.ScoreSaveTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("--%s must be positive, got %s", d.flag, d.value)
		}
	}

	switch c.Storage {
	case factory.StorageTypeMemory:
	case factory.StorageTypeFile:
		if c.ScoresFile == "" {
			return errors.New("--scores-file is required for file storage")
		}
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			return errors.New("--redis-url is required for redis storage")
		}
	default:
		return fmt.Errorf("%w: %q", model.ErrUnknownStorageType, c.Storage)
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid log format %q (must be json or text)", c.LogFormat)
	}
	return nil
}

func (c *ServeConfig) serverConfig() api.ServerConfig {
	cfg := api.DefaultServerConfig()
	cfg.Host = c.Bind
	cfg.Port = c.Port
	return cfg
}

func (c *ServeConfig) factoryConfig() factory.Config {
	cfg := factory.Config{
		StorageType: c.Storage,
		ScoresFile:  c.ScoresFile,
		Arcade: arcade.Config{
			Rows:           c.Rows,
			Cols:           c.Cols,
			SweepInterval:  c.SweepInterval,
			ReplayInterval: c.ReplayInterval,
			ReplayCooldown: c.ReplayCooldown,
		},
		InactivityTimeout: c.InactivityTimeout,
		ScoreSaveTimeout:  c.ScoreSaveTimeout,
		PublicURL:         c.PublicURL,
	}

	if c.Storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}
