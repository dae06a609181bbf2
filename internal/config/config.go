package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/layout"
)

// Config holds all configuration for the application
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Server  ServerConfig  `mapstructure:"server"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Demo    DemoConfig    `mapstructure:"demo"`
}

// GameConfig holds the rules new matches are created with
type GameConfig struct {
	Board           BoardConfig           `mapstructure:"board"`
	StartingPieces  int                   `mapstructure:"starting_pieces"`
	Layout          string                `mapstructure:"layout"`
	Priority        PriorityConfig        `mapstructure:"priority"`
	MovesCanPush    bool                  `mapstructure:"moves_can_push"`
	PushBackward    bool                  `mapstructure:"push_backward"`
	OutOfBoundsMode string                `mapstructure:"out_of_bounds_mode"`
	PushRestriction PushRestrictionConfig `mapstructure:"push_restriction"`
	ScoreToWin      int                   `mapstructure:"score_to_win"`
}

type BoardConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// PriorityConfig selects how orders are interleaved and which priorities
// pieces draw from
type PriorityConfig struct {
	Mode            string `mapstructure:"mode"`
	Pool            []int  `mapstructure:"pool"`
	AllowDuplicates bool   `mapstructure:"allow_duplicates"`
}

type PushRestrictionConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Comparator string `mapstructure:"comparator"`
	Multiply   int    `mapstructure:"multiply"`
	Add        int    `mapstructure:"add"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	MatchServer MatchServerConfig `mapstructure:"match_server"`
	Spectator   SpectatorConfig   `mapstructure:"spectator"`
}

// MatchServerConfig holds gRPC match server configuration
type MatchServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	LogFormat             string `mapstructure:"log_format"`
	MaxMatches            int    `mapstructure:"max_matches"`
	IdleTimeout           int    `mapstructure:"idle_timeout"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// SpectatorConfig holds the websocket spectator feed settings
type SpectatorConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

// ArchiveConfig controls where finished turns are recorded
type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// DemoConfig holds settings for the self-play demo
type DemoConfig struct {
	MaxTurns int   `mapstructure:"max_turns"`
	Seed     int64 `mapstructure:"seed"`
	Color    bool  `mapstructure:"color"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	rules := core.DefaultMatchConfig()

	// Game defaults
	v.SetDefault("game.board.width", rules.Board.X)
	v.SetDefault("game.board.height", rules.Board.Y)
	v.SetDefault("game.starting_pieces", rules.StartingPieces)
	v.SetDefault("game.layout", "centered")
	v.SetDefault("game.priority.mode", string(rules.PriorityMode))
	v.SetDefault("game.priority.pool", rules.PriorityPool)
	v.SetDefault("game.priority.allow_duplicates", rules.AllowDuplicatePriorities)
	v.SetDefault("game.moves_can_push", rules.MovesCanPush)
	v.SetDefault("game.push_backward", rules.PushBackward)
	v.SetDefault("game.out_of_bounds_mode", string(rules.OutOfBoundsMode))
	v.SetDefault("game.push_restriction.enabled", rules.PushRestriction.Enabled)
	v.SetDefault("game.push_restriction.comparator", rules.PushRestriction.Comparator)
	v.SetDefault("game.push_restriction.multiply", rules.PushRestriction.Multiply)
	v.SetDefault("game.push_restriction.add", rules.PushRestriction.Add)
	v.SetDefault("game.score_to_win", rules.ScoreToWin)

	// Match server defaults
	v.SetDefault("server.match_server.host", "0.0.0.0")
	v.SetDefault("server.match_server.port", 50051)
	v.SetDefault("server.match_server.log_level", "info")
	v.SetDefault("server.match_server.log_format", "console")
	v.SetDefault("server.match_server.max_matches", 100)
	v.SetDefault("server.match_server.idle_timeout", 1800)
	v.SetDefault("server.match_server.enable_reflection", true)
	v.SetDefault("server.match_server.graceful_shutdown_delay", 5)

	v.SetDefault("server.spectator.addr", ":8080")
	v.SetDefault("server.spectator.enabled", true)

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.dir", "replays")

	v.SetDefault("demo.max_turns", 40)
	v.SetDefault("demo.seed", 0)
	v.SetDefault("demo.color", true)
}

// Init initializes the configuration. An explicit configPath that does not
// exist falls back to defaults.
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/zugzwang")
	}

	v.SetEnvPrefix("ZUG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case configPath != "" && errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(next); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	cfg = next
	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml from the working
// directory over the loaded configuration
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)
	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	return reload()
}

// Set allows runtime config updates
func Set(key string, value interface{}) error {
	v.Set(key, value)
	return reload()
}

func GetString(key string) string { return v.GetString(key) }

func GetInt(key string) int { return v.GetInt(key) }

func GetBool(key string) bool { return v.GetBool(key) }

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. Only matches
// created after a reload see the new rules. A reload that fails
// validation keeps the previous configuration.
func WatchConfig(onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if err := reload(); err != nil {
			log.Error().Err(err).Str("file", e.Name).Msg("Ignoring invalid config change")
			return
		}
		log.Info().Str("file", e.Name).Msg("Config reloaded")
		if onChange != nil {
			onChange(cfg)
		}
	})
	v.WatchConfig()
}

func reload() error {
	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(next); err != nil {
		return err
	}
	cfg = next
	return nil
}

// MatchConfig converts the game section into the rules the engine uses
func (c *Config) MatchConfig() core.MatchConfig {
	g := c.Game
	return core.MatchConfig{
		Board:                    core.Coordinate{X: g.Board.Width, Y: g.Board.Height},
		PriorityMode:             core.PriorityMode(g.Priority.Mode),
		PriorityPool:             append([]int(nil), g.Priority.Pool...),
		AllowDuplicatePriorities: g.Priority.AllowDuplicates,
		MovesCanPush:             g.MovesCanPush,
		PushBackward:             g.PushBackward,
		OutOfBoundsMode:          core.OutOfBoundsMode(g.OutOfBoundsMode),
		PushRestriction: core.PushRestriction{
			Enabled:    g.PushRestriction.Enabled,
			Comparator: g.PushRestriction.Comparator,
			Multiply:   g.PushRestriction.Multiply,
			Add:        g.PushRestriction.Add,
		},
		ScoreToWin:     g.ScoreToWin,
		StartingPieces: g.StartingPieces,
	}
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if err := c.MatchConfig().Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if c.Game.ScoreToWin <= 0 {
		return fmt.Errorf("game.score_to_win must be positive")
	}
	if _, err := layout.ByName(c.Game.Layout); err != nil {
		return fmt.Errorf("game.layout: %w", err)
	}

	ms := c.Server.MatchServer
	if ms.Port <= 0 || ms.Port > 65535 {
		return fmt.Errorf("server.match_server.port must be between 1 and 65535")
	}
	if ms.MaxMatches <= 0 {
		return fmt.Errorf("server.match_server.max_matches must be positive")
	}
	if ms.IdleTimeout < 0 {
		return fmt.Errorf("server.match_server.idle_timeout must be non-negative")
	}
	if ms.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.match_server.graceful_shutdown_delay must be non-negative")
	}
	if ms.LogFormat != "console" && ms.LogFormat != "json" {
		return fmt.Errorf("server.match_server.log_format must be console or json")
	}
	if c.Server.Spectator.Enabled && c.Server.Spectator.Addr == "" {
		return fmt.Errorf("server.spectator.addr is required when the spectator feed is enabled")
	}

	if c.Archive.Enabled && c.Archive.Dir == "" {
		return fmt.Errorf("archive.dir is required when archiving is enabled")
	}
	if c.Demo.MaxTurns <= 0 {
		return fmt.Errorf("demo.max_turns must be positive")
	}
	return nil
}
