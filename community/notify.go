package community

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/mrzappu/LastRpcode/routing"
)

const (
	colorGreen   = 0x57F287
	colorRed     = 0xED4245
	colorBlurple = 0x5865F2
)

// VoiceChange is a member's voice channel before and after a voice state update.
// Empty channel IDs mean "not connected".
type VoiceChange struct {
	GuildID  string
	UserID   string
	Previous string
	Current  string
}

// Delivery is the outcome of a best-effort direct message.
type Delivery struct {
	UserID string
	Err    error
}

// OnGuildMemberAdd is the discordgo handler for member joins.
func (s *Service) OnGuildMemberAdd(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
	if e.Member == nil {
		return
	}
	if m := memberFrom(e.GuildID, e.Member); m != nil {
		s.MemberJoined(m)
	}
}

// OnGuildMemberRemove is the discordgo handler for member leaves.
func (s *Service) OnGuildMemberRemove(_ *discordgo.Session, e *discordgo.GuildMemberRemove) {
	if e.Member == nil {
		return
	}
	if m := memberFrom(e.GuildID, e.Member); m != nil {
		s.MemberLeft(m)
	}
}

// OnVoiceStateUpdate is the discordgo handler for voice state changes.
// A missing BeforeUpdate means the member was not connected before.
func (s *Service) OnVoiceStateUpdate(_ *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	if e.VoiceState == nil {
		return
	}
	change := VoiceChange{
		GuildID: e.GuildID,
		UserID:  e.UserID,
		Current: e.ChannelID,
	}
	if e.BeforeUpdate != nil {
		change.Previous = e.BeforeUpdate.ChannelID
	}
	s.VoiceStateChanged(change)
}

// MemberJoined greets a new member in the welcome channel.
func (s *Service) MemberJoined(m *Member) {
	guild, dest, ok := s.destination(routing.Welcome, m.GuildID)
	if !ok {
		return
	}

	msg := &discordgo.MessageSend{
		Content: fmt.Sprintf("Welcome %s!", m.Mention()),
		Embeds: []*discordgo.MessageEmbed{s.announcement(guild, colorGreen,
			"👋 Welcome To "+s.brand,
			"📜 Make Sure To Read RP Rules\n📢 Check Out Server Updates")},
	}
	s.send(routing.Welcome, dest, msg)
}

// MemberLeft says goodbye in the goodbye channel.
func (s *Service) MemberLeft(m *Member) {
	guild, dest, ok := s.destination(routing.Goodbye, m.GuildID)
	if !ok {
		return
	}

	msg := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{s.announcement(guild, colorRed,
			"👋 Goodbye From "+s.brand,
			fmt.Sprintf("😢 %s has left the server.\nWe hope to see you again!", m.Tag))},
	}
	s.send(routing.Goodbye, dest, msg)
}

// VoiceStateChanged logs joins, leaves and moves to the voice log channel and
// tells the member where they ended up. Updates that keep the member in the
// same channel (mute, deafen, stream) are ignored.
func (s *Service) VoiceStateChanged(c VoiceChange) {
	transition := routing.ClassifyVoice(c.Previous, c.Current)
	if transition == routing.VoiceNone {
		return
	}

	dest, ok := s.routes.Resolve(routing.VoiceLog, "")
	if !ok {
		slog.Debug("voice log not configured", "guild", c.GuildID, "user", c.UserID, "transition", transition.String())
		return
	}

	tag := "<@" + c.UserID + ">"
	isBot := false
	if m, err := s.platform.Member(c.GuildID, c.UserID); err == nil {
		tag = m.Tag
		isBot = m.Bot
	} else {
		slog.Warn("voice member lookup failed", "guild", c.GuildID, "user", c.UserID, "error", err)
	}

	embed := &discordgo.MessageEmbed{Timestamp: s.now().Format(time.RFC3339)}
	var dm string
	switch transition {
	case routing.VoiceJoined:
		current := s.channelLabel(c.Current)
		embed.Title = "🔊 Voice Join"
		embed.Color = colorGreen
		embed.Description = fmt.Sprintf("**%s** joined **%s**", tag, current)
		dm = fmt.Sprintf("You joined **%s**%s", current, s.guildSuffix(c.GuildID))
	case routing.VoiceLeft:
		embed.Title = "🔇 Voice Leave"
		embed.Color = colorRed
		embed.Description = fmt.Sprintf("**%s** left **%s**", tag, s.channelLabel(c.Previous))
	case routing.VoiceMoved:
		current := s.channelLabel(c.Current)
		embed.Title = "🔀 Voice Move"
		embed.Color = colorBlurple
		embed.Description = fmt.Sprintf("**%s** moved from **%s** to **%s**", tag, s.channelLabel(c.Previous), current)
		dm = fmt.Sprintf("You were moved to **%s**%s", current, s.guildSuffix(c.GuildID))
	}

	s.send(routing.VoiceLog, dest, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})

	if dm != "" && !isBot {
		s.directMessage(c.UserID, dm)
	}
}

// destination looks up the guild and resolves where a category's message goes.
func (s *Service) destination(c routing.Category, guildID string) (*Guild, string, bool) {
	guild, err := s.platform.Guild(guildID)
	if err != nil {
		slog.Error("failed to look up guild", "guild", guildID, "category", c.String(), "error", err)
		return nil, "", false
	}

	dest, ok := s.routes.Resolve(c, guild.SystemChannelID)
	if !ok {
		slog.Debug("no destination for notification", "guild", guildID, "category", c.String())
		return nil, "", false
	}
	return guild, dest, true
}

func (s *Service) announcement(g *Guild, color int, title, description string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: g.Name, IconURL: g.IconURL},
		Timestamp:   s.now().Format(time.RFC3339),
	}
	if g.IconURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: g.IconURL}
	}
	return embed
}

func (s *Service) send(c routing.Category, channelID string, msg *discordgo.MessageSend) {
	if err := s.platform.SendMessage(channelID, msg); err != nil {
		slog.Error("failed to send notification", "category", c.String(), "channel", channelID, "error", err)
		return
	}
	slog.Info("notification sent", "category", c.String(), "channel", channelID)
}

// channelLabel prefers the channel name and falls back to a channel mention.
func (s *Service) channelLabel(channelID string) string {
	ch, err := s.platform.Channel(channelID)
	if err != nil || ch.Name == "" {
		return "<#" + channelID + ">"
	}
	return ch.Name
}

func (s *Service) guildSuffix(guildID string) string {
	g, err := s.platform.Guild(guildID)
	if err != nil || g.Name == "" {
		return ""
	}
	return " in " + g.Name
}

// directMessage attempts a DM on its own goroutine. The outcome is logged and
// otherwise discarded; members with DMs closed are expected.
func (s *Service) directMessage(userID, content string) {
	s.dms.Add(1)
	go func() {
		defer s.dms.Done()

		d := Delivery{UserID: userID, Err: s.platform.SendDirectMessage(userID, content)}
		if d.Err != nil {
			slog.Warn("direct message undeliverable", "user", d.UserID, "error", d.Err)
			return
		}
		slog.Debug("direct message delivered", "user", d.UserID)
	}()
}
