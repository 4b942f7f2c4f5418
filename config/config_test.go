package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
discord:
  app_id: "111"
  bot_token: file-token
  guild_id: "222"
community:
  name: Redemption RP
http:
  port: 8080
`)
	t.Setenv("APP_DISCORD_BOT_TOKEN", "env-token")
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Discord.BotToken != "env-token" {
		t.Errorf("BotToken = %q, env should win", cfg.Discord.BotToken)
	}
	if cfg.Discord.AppID != "111" || cfg.Discord.GuildID != "222" {
		t.Errorf("Discord = %+v", cfg.Discord)
	}
	if cfg.Community.Name != "Redemption RP" || cfg.HTTP.Port != 8080 {
		t.Errorf("Community = %q, Port = %d", cfg.Community.Name, cfg.HTTP.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Presence.Schedule != "@every 1m" {
		t.Errorf("Presence.Schedule = %q, want default", cfg.Presence.Schedule)
	}
}

func TestLoadLegacyTokenVariable(t *testing.T) {
	t.Setenv("APP_DISCORD_BOT_TOKEN", "")
	t.Setenv("TOKEN", "legacy-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discord.BotToken != "legacy-token" {
		t.Errorf("BotToken = %q", cfg.Discord.BotToken)
	}
	if cfg.HTTP.Port != 3000 || cfg.Community.Name != "REDEMPTION" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("APP_DISCORD_BOT_TOKEN", "")
	t.Setenv("TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without a bot token")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("APP_DISCORD_BOT_TOKEN", "token")
	t.Setenv("APP_HTTP_PORT", "70000")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for out of range port")
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"APP_DISCORD_BOT_TOKEN":  "discord.bot_token",
		"APP_HTTP_PORT":          "http.port",
		"APP_DATABASE_DIRECTORY": "database.directory",
		"APP_COMMUNITY_NAME":     "community.name",
		"APP_PRESENCE_SCHEDULE":  "presence.schedule",
		"APP_DISCORD_GUILD_ID":   "discord.guild_id",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	if !cfg.Database.Enabled || cfg.Database.Directory != "./dbfiles" || cfg.Log.Level != "info" {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("defaults alone should fail validation without a token")
	}
}
