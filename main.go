package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrzappu/LastRpcode/community"
	"github.com/mrzappu/LastRpcode/config"
	"github.com/mrzappu/LastRpcode/db"
	"github.com/mrzappu/LastRpcode/discord"
	"github.com/mrzappu/LastRpcode/keepalive"
	"github.com/mrzappu/LastRpcode/log"
	"github.com/mrzappu/LastRpcode/routing"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Debug until the configured level is known.
	level := new(slog.LevelVar)
	level.Set(slog.LevelDebug)
	handler := log.NewPrettyHandler(os.Stdout, log.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: level},
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("Discord Bot Starting")

	cfg, err := config.Load(config.DefaultLocations...)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	configured, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		slog.Warn("falling back to info logging", "error", err)
	}
	level.Set(configured)
	slog.Info("Configuration loaded successfully", "log_level", configured.String())

	var (
		dbClient *db.Client
		ledger   community.Ledger
	)
	if cfg.Database.Enabled {
		dbClient, err = db.NewClient(cfg.Database.Directory)
		if err != nil {
			slog.Error("failed to create client", "error", err)
			os.Exit(1)
		}
		if err := dbClient.Start(ctx); err != nil {
			slog.Error("failed to start client", "error", err)
			os.Exit(1)
		}
		moderationLog, err := db.NewModerationLog(ctx, dbClient)
		if err != nil {
			slog.Error("failed to prepare moderation log", "error", err)
			os.Exit(1)
		}
		ledger = moderationLog
	} else {
		slog.Info("Database disabled, moderation actions will not be recorded")
	}

	discordCfg := discord.BotConfig{
		AppID:    cfg.Discord.AppID,
		BotToken: cfg.Discord.BotToken,
		GuildID:  cfg.Discord.GuildID,
	}

	session, err := discord.NewSession(discordCfg)
	if err != nil {
		slog.Error("Failed to create session", "error", err)
		os.Exit(1)
	}

	svc := community.NewService(
		community.NewSessionPlatform(session, cfg.Discord.GuildID),
		routing.NewStore(),
		ledger,
		cfg.Community.Name,
	)

	functions := svc.DiscordFunctions()

	schedules := []discord.BotScheduleI{
		svc.DiscordSchedulePresence(cfg.Presence.Schedule),
	}

	slog.Info("Initializing bot", "app_id", discordCfg.AppID, "guild_id", discordCfg.GuildID)

	bot, err := discord.NewBot(session, discordCfg, functions, schedules,
		svc.OnGuildMemberAdd,
		svc.OnGuildMemberRemove,
		svc.OnVoiceStateUpdate,
	)
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	var server *keepalive.Server
	if cfg.HTTP.Port != 0 {
		server = keepalive.NewServer(cfg.HTTP.Port)
		go func() {
			if err := server.Start(); err != nil {
				slog.Error("keep-alive server stopped", "error", err)
			}
		}()
	}

	slog.Info("Bot is now running", "commands", bot.CommandNames())

	// Wait for an interrupt signal to gracefully shut down.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down bot...")

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to stop keep-alive server", "error", err)
		}
		shutdownCancel()
	}

	if err := bot.Close(); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}
	svc.Wait()

	if dbClient != nil {
		if err := dbClient.Stop(); err != nil {
			slog.Error("failed to stop client", "error", err)
		}
	}
}
