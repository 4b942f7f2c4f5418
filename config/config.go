package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	Discord struct {
		AppID    string `koanf:"app_id" yaml:"app_id"`
		BotToken string `koanf:"bot_token" yaml:"bot_token"`
		// GuildID scopes command registration and the presence count to one server.
		GuildID string `koanf:"guild_id" yaml:"guild_id"`
	} `koanf:"discord" yaml:"discord"`

	Community struct {
		// Name is shown in welcome and goodbye titles.
		Name string `koanf:"name" yaml:"name"`
	} `koanf:"community" yaml:"community"`

	Presence struct {
		Schedule string `koanf:"schedule" yaml:"schedule"`
	} `koanf:"presence" yaml:"presence"`

	HTTP struct {
		// Port of the keep-alive endpoint. Zero disables it.
		Port int `koanf:"port" yaml:"port"`
	} `koanf:"http" yaml:"http"`

	Database struct {
		Enabled   bool   `koanf:"enabled" yaml:"enabled"`
		Directory string `koanf:"directory" yaml:"directory"`
	} `koanf:"database" yaml:"database"`

	Log struct {
		Level string `koanf:"level" yaml:"level"`
	} `koanf:"log" yaml:"log"`
}

// DefaultLocations are the config file paths tried in order; the first one found is used.
var DefaultLocations = []string{
	"/etc/app/config.yaml",            // Standard system location
	"/config/config.yaml",             // Docker mounted volume location
	filepath.Join(".", "config.yaml"), // Local file in current directory
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"community.name":     "REDEMPTION",
		"presence.schedule":  "@every 1m",
		"http.port":          3000,
		"database.enabled":   true,
		"database.directory": "./dbfiles",
		"log.level":          "info",
	}
}

// Defaults returns the configuration with only the built-in defaults applied.
func Defaults() (*AppConfig, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}
	return unmarshal(k)
}

// Load reads configuration with increasing precedence: defaults, the first
// existing file in locations, a .env file in the working directory, and
// APP_* environment variables (APP_DISCORD_BOT_TOKEN -> discord.bot_token).
func Load(locations ...string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	configLoaded := false
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			slog.Info("Loading configuration file", "path", loc)
			if err := k.Load(file.Provider(loc), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config file %s: %w", loc, err)
			}
			configLoaded = true
			break
		}
	}

	if !configLoaded {
		slog.Warn("No config file found in any of the expected locations",
			"searched_locations", locations)
	}

	// .env never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	if err := k.Load(env.Provider("APP_", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}

	// TOKEN is what hosted deployments of the bot have always been given.
	if cfg.Discord.BotToken == "" {
		cfg.Discord.BotToken = os.Getenv("TOKEN")
	}

	slog.Debug("Configuration loaded",
		"discord_app_id", cfg.Discord.AppID,
		"discord_guild_id", cfg.Discord.GuildID,
		"bot_token_present", cfg.Discord.BotToken != "",
		"http_port", cfg.HTTP.Port,
		"database_enabled", cfg.Database.Enabled,
		"database_directory", cfg.Database.Directory)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey converts APP_DISCORD_BOT_TOKEN to discord.bot_token. Only the first
// underscore separates the section, so keys may contain underscores.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "APP_"))
	return strings.Replace(s, "_", ".", 1)
}

func unmarshal(k *koanf.Koanf) (*AppConfig, error) {
	var cfg AppConfig
	decoderConfig := koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	}

	if err := k.UnmarshalWithConf("", &cfg, decoderConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks required values.
func (c *AppConfig) Validate() error {
	if c.Discord.BotToken == "" {
		return fmt.Errorf("discord.bot_token is required")
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if c.Presence.Schedule == "" {
		return fmt.Errorf("presence.schedule is required")
	}
	return nil
}
