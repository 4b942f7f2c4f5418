package discord

import (
	"fmt"
	"strings"

	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Bot encapsulates the discordgo session, configuration, registered functions, and schedules.
type Bot struct {
	session         *discordgo.Session
	config          BotConfig
	functions       []BotFunctionI
	commands        []*discordgo.ApplicationCommand
	scheduleManager *scheduleManager
}

// BotConfig contains configuration for the bot.
type BotConfig struct {
	AppID    string
	BotToken string
	// GuildID scopes command registration to one server. Empty registers globally.
	GuildID string
}

// Intents are the gateway intents the bot needs: guild metadata, member
// joins and leaves (privileged), and voice state updates.
const Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildVoiceStates

// NewSession creates an unopened Discord session with the bot's intents set.
func NewSession(cfg BotConfig) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = Intents
	return dg, nil
}

// NewBot wires the functions, schedules and extra event handlers onto the
// session and opens the websocket connection. Commands are (re)registered
// on every Ready event; schedules start once the connection is open.
func NewBot(session *discordgo.Session, cfg BotConfig, functions []BotFunctionI, schedules []BotScheduleI, handlers ...interface{}) (*Bot, error) {
	bot := &Bot{
		session:   session,
		config:    cfg,
		functions: functions,
	}

	// Build the registry payload up front so malformed request structs fail startup.
	for _, fn := range functions {
		cmd, err := commandFromFunction(fn)
		if err != nil {
			return nil, err
		}
		slog.Debug("initialising function", "name", fn.GetName(), "options", len(cmd.Options))
		bot.commands = append(bot.commands, cmd)
	}

	if len(schedules) > 0 {
		sm, err := newScheduleManager(schedules)
		if err != nil {
			return nil, err
		}
		bot.scheduleManager = sm
	}

	// Register event handlers.
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onInteractionCreate)
	for _, h := range handlers {
		session.AddHandler(h)
	}

	// Open the websocket connection.
	if err := session.Open(); err != nil {
		if bot.scheduleManager != nil {
			bot.scheduleManager.stop()
		}
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	if bot.scheduleManager != nil {
		bot.scheduleManager.start()
	}

	return bot, nil
}

// CommandNames lists the registered command names.
func (b *Bot) CommandNames() []string {
	names := make([]string, 0, len(b.functions))
	for _, fn := range b.functions {
		names = append(names, fn.GetName())
	}
	return names
}

// onReady registers the slash commands and runs each schedule once.
// Registration failures are logged; the bot keeps serving events without commands.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("logged in", "user", r.User.String(), "guilds", len(r.Guilds))

	appID := b.config.AppID
	if appID == "" {
		appID = r.User.ID
	}

	registered, err := s.ApplicationCommandBulkOverwrite(appID, b.config.GuildID, b.commands)
	if err != nil {
		slog.Error("command registration failed", "app_id", appID, "guild", b.config.GuildID, "error", err)
	} else {
		slog.Info("slash commands registered",
			"guild", b.config.GuildID,
			"count", len(registered),
			"commands", strings.Join(b.CommandNames(), ", "))
	}

	if b.scheduleManager != nil {
		b.scheduleManager.executeAll()
	}
}

// function finds the registered function with a matching name.
func (b *Bot) function(name string) BotFunctionI {
	for _, f := range b.functions {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

// invocationFrom extracts the caller context from an interaction.
func invocationFrom(i *discordgo.Interaction) *Invocation {
	inv := &Invocation{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		inv.UserID = i.Member.User.ID
	case i.User != nil:
		inv.UserID = i.User.ID
	}
	return inv
}

// onInteractionCreate routes interactions to the correct BotFunction based on the command name.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	cmdData := i.ApplicationCommandData()
	inv := invocationFrom(i.Interaction)

	slog.Debug("received interaction", "command", cmdData.Name, "guild", inv.GuildID, "user", inv.UserID)

	fn := b.function(cmdData.Name)
	if fn == nil {
		slog.Warn("received unknown command", "command", cmdData.Name)
		b.respond(i.Interaction, cmdData.Name, errorResponse("Unknown command: "+cmdData.Name))
		return
	}

	respData, err := fn.HandleInteraction(inv, &cmdData)
	if err != nil {
		slog.Error("failed to execute command", "command", fn.GetName(), "error", err)
		b.respond(i.Interaction, fn.GetName(), errorResponse(fmt.Sprintf("```%v```", err)))
		return
	}

	b.respond(i.Interaction, fn.GetName(), respData)
}

// Close gracefully closes the Discord session and stops the schedule manager.
func (b *Bot) Close() error {
	slog.Info("shutting down bot")

	if b.scheduleManager != nil {
		b.scheduleManager.stop()
	}

	return b.session.Close()
}
