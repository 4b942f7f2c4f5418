package community

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/mrzappu/LastRpcode/db"
	"github.com/mrzappu/LastRpcode/discord"
	"github.com/mrzappu/LastRpcode/routing"
)

// DefaultReason is recorded for kicks and bans when the moderator gives none.
const DefaultReason = "No reason given"

// SayRequest echoes a message.
type SayRequest struct {
	Message string `discord:"message,description:The message to repeat"`
}

// ChannelRequest selects a text channel for notifications.
type ChannelRequest struct {
	Channel string `discord:"channel,type:channel,channel:text,description:The channel to send the messages in"`
}

// ModerateRequest targets a member with an optional reason.
type ModerateRequest struct {
	Target string `discord:"target,type:user,description:The member"`
	Reason string `discord:"reason,optional,description:Reason,default:No reason given"`
}

// MoveRequest moves a member into a voice channel.
type MoveRequest struct {
	Target  string `discord:"target,type:user,description:The member"`
	Channel string `discord:"channel,type:channel,channel:voice,description:Voice channel"`
}

// DiscordFunctions returns every slash command the service provides.
func (s *Service) DiscordFunctions() []discord.BotFunctionI {
	return []discord.BotFunctionI{
		s.DiscordFunctionSay(),
		s.DiscordFunctionSetWelcome(),
		s.DiscordFunctionSetGoodbye(),
		s.DiscordFunctionSetVoiceLog(),
		s.DiscordFunctionKick(),
		s.DiscordFunctionBan(),
		s.DiscordFunctionMoveUser(),
	}
}

// DiscordFunctionSay returns the /say command, which echoes a message.
func (s *Service) DiscordFunctionSay() discord.BotFunctionI {
	return discord.NewBotFunction(discord.CommandSpec{
		Name:        "say",
		Description: "Make the bot say something",
	}, s.handleSay)
}

// DiscordFunctionSetWelcome returns the /setwelcome command.
func (s *Service) DiscordFunctionSetWelcome() discord.BotFunctionI {
	return discord.NewBotFunction(discord.CommandSpec{
		Name:        "setwelcome",
		Description: "Set the channel for welcome messages",
		Permissions: discordgo.PermissionAdministrator,
	}, s.setDestination(routing.Welcome, "Welcome messages will now be sent in"))
}

// DiscordFunctionSetGoodbye returns the /setgoodbye command.
func (s *Service) DiscordFunctionSetGoodbye() discord.BotFunctionI {
	return discord.NewBotFunction(discord.CommandSpec{
		Name:        "setgoodbye",
		Description: "Set the channel for goodbye messages",
		Permissions: discordgo.PermissionAdministrator,
	}, s.setDestination(routing.Goodbye, "Goodbye messages will now be sent in"))
}

// DiscordFunctionSetVoiceLog returns the /setvoicelog command.
func (s *Service) DiscordFunctionSetVoiceLog() discord.BotFunctionI {
	return discord.NewBotFunction(discord.CommandSpec{
		Name:        "setvoicelog",
		Description: "Set the channel for voice activity logs",
		Permissions: discordgo.PermissionAdministrator,
	}, s.setDestination(routing.VoiceLog, "Voice activity will now be logged in"))
}

// DiscordFunctionKick returns the /kick command.
func (s *Service) DiscordFunctionKick() discord.BotFunctionI {
	return discord.NewBotFunction(discord.CommandSpec{
		Name:        "kick",
		Description: "Kick a member",
		Permissions: discordgo.PermissionKickMembers,
	}, s.handleKick)
}

// DiscordFunctionBan returns the /ban command.
func (s *Service) DiscordFunctionBan() discord.BotFunctionI {
	return discord.NewBotFunction(discord.CommandSpec{
		Name:        "ban",
		Description: "Ban a member",
		Permissions: discordgo.PermissionBanMembers,
	}, s.handleBan)
}

// DiscordFunctionMoveUser returns the /moveuser command, which moves a member between voice channels.
func (s *Service) DiscordFunctionMoveUser() discord.BotFunctionI {
	return discord.NewBotFunction(discord.CommandSpec{
		Name:        "moveuser",
		Description: "Move a member to a voice channel",
		Permissions: discordgo.PermissionVoiceMoveMembers,
	}, s.handleMoveUser)
}

func (s *Service) handleSay(_ *discord.Invocation, req SayRequest) (*discordgo.InteractionResponseData, error) {
	return discord.Reply(req.Message), nil
}

func (s *Service) setDestination(c routing.Category, confirmation string) func(*discord.Invocation, ChannelRequest) (*discordgo.InteractionResponseData, error) {
	return func(inv *discord.Invocation, req ChannelRequest) (*discordgo.InteractionResponseData, error) {
		s.routes.Set(c, req.Channel)
		slog.Info("notification channel set",
			"category", c.String(),
			"channel", req.Channel,
			"guild", inv.GuildID,
			"by", inv.UserID,
			"routes", s.routes.Snapshot())
		return discord.Reply(fmt.Sprintf("✅ %s <#%s>", confirmation, req.Channel)), nil
	}
}

// lookupMember treats every lookup failure as "not found"; unexpected errors are logged.
func (s *Service) lookupMember(guildID, userID string) (*Member, bool) {
	m, err := s.platform.Member(guildID, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("member lookup failed", "guild", guildID, "user", userID, "error", err)
		}
		return nil, false
	}
	return m, true
}

func (s *Service) handleKick(inv *discord.Invocation, req ModerateRequest) (*discordgo.InteractionResponseData, error) {
	member, ok := s.lookupMember(inv.GuildID, req.Target)
	if !ok {
		return discord.Ephemeral("❌ Member not found."), nil
	}

	if err := s.platform.Kick(inv.GuildID, member.UserID, req.Reason); err != nil {
		slog.Error("kick failed", "guild", inv.GuildID, "target", member.UserID, "error", err)
		return discord.Ephemeral("❌ Failed to kick. Check permissions."), nil
	}
	slog.Info("member kicked", "guild", inv.GuildID, "target", member.UserID, "by", inv.UserID, "reason", req.Reason)

	s.record(db.ModerationAction{
		Action:   db.ActionKick,
		GuildID:  inv.GuildID,
		TargetID: member.UserID,
		ActorID:  inv.UserID,
		Reason:   req.Reason,
	})
	return discord.Reply(fmt.Sprintf("✅ Kicked **%s**. Reason: %s", member.Tag, req.Reason)), nil
}

func (s *Service) handleBan(inv *discord.Invocation, req ModerateRequest) (*discordgo.InteractionResponseData, error) {
	member, ok := s.lookupMember(inv.GuildID, req.Target)
	if !ok {
		return discord.Ephemeral("❌ Member not found."), nil
	}

	if err := s.platform.Ban(inv.GuildID, member.UserID, req.Reason); err != nil {
		slog.Error("ban failed", "guild", inv.GuildID, "target", member.UserID, "error", err)
		return discord.Ephemeral("❌ Failed to ban. Check permissions."), nil
	}
	slog.Info("member banned", "guild", inv.GuildID, "target", member.UserID, "by", inv.UserID, "reason", req.Reason)

	s.record(db.ModerationAction{
		Action:   db.ActionBan,
		GuildID:  inv.GuildID,
		TargetID: member.UserID,
		ActorID:  inv.UserID,
		Reason:   req.Reason,
	})
	return discord.Reply(fmt.Sprintf("✅ Banned **%s**. Reason: %s", member.Tag, req.Reason)), nil
}

func (s *Service) handleMoveUser(inv *discord.Invocation, req MoveRequest) (*discordgo.InteractionResponseData, error) {
	channel, err := s.platform.Channel(req.Channel)
	if err != nil {
		slog.Warn("channel lookup failed", "channel", req.Channel, "error", err)
		return discord.Ephemeral("❌ Channel not found."), nil
	}
	if !channel.IsVoice() {
		return discord.Ephemeral("❌ Not a voice channel."), nil
	}

	member, ok := s.lookupMember(inv.GuildID, req.Target)
	if !ok {
		return discord.Ephemeral("❌ Member not found."), nil
	}

	current, err := s.platform.VoiceChannel(inv.GuildID, member.UserID)
	if err != nil {
		slog.Warn("voice state lookup failed", "guild", inv.GuildID, "user", member.UserID, "error", err)
	}
	if current == "" {
		return discord.Ephemeral("❌ Member not in VC."), nil
	}

	if err := s.platform.MoveMember(inv.GuildID, member.UserID, channel.ID); err != nil {
		slog.Error("move failed", "guild", inv.GuildID, "target", member.UserID, "channel", channel.ID, "error", err)
		return discord.Ephemeral("❌ Failed to move. Check permissions."), nil
	}
	slog.Info("member moved", "guild", inv.GuildID, "target", member.UserID, "channel", channel.ID, "by", inv.UserID)

	s.record(db.ModerationAction{
		Action:    db.ActionMove,
		GuildID:   inv.GuildID,
		TargetID:  member.UserID,
		ActorID:   inv.UserID,
		ChannelID: channel.ID,
	})
	return discord.Reply(fmt.Sprintf("✅ Moved **%s** to **%s**", member.Tag, channel.Name)), nil
}
