// Package community implements the server's greetings, voice logging,
// moderation commands and presence status on top of a narrow platform interface.
package community

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/mrzappu/LastRpcode/db"
)

// ErrNotFound is returned by Platform lookups when the member, channel or guild does not exist.
var ErrNotFound = errors.New("not found")

// Guild is the part of a server the bot reads.
type Guild struct {
	ID              string
	Name            string
	IconURL         string
	SystemChannelID string
	MemberCount     int
}

// Member is a user's membership in a guild.
type Member struct {
	GuildID string
	UserID  string
	// Tag is the display form of the user, e.g. "name" or "name#1234".
	Tag string
	Bot bool
}

// Mention returns the markup that pings the member.
func (m *Member) Mention() string {
	return "<@" + m.UserID + ">"
}

// Channel is the part of a guild channel the bot reads.
type Channel struct {
	ID   string
	Name string
	Type discordgo.ChannelType
}

// IsVoice reports whether members can be moved into the channel.
func (c *Channel) IsVoice() bool {
	return c.Type == discordgo.ChannelTypeGuildVoice
}

// Platform is everything the bot asks of the chat platform.
type Platform interface {
	Guild(guildID string) (*Guild, error)
	// PrimaryGuild is the server whose member count is shown in the presence status.
	PrimaryGuild() (*Guild, error)
	Member(guildID, userID string) (*Member, error)
	Channel(channelID string) (*Channel, error)
	// VoiceChannel returns the voice channel the member is connected to, or "".
	VoiceChannel(guildID, userID string) (string, error)

	SendMessage(channelID string, msg *discordgo.MessageSend) error
	SendDirectMessage(userID, content string) error
	SetPresence(text string) error

	Kick(guildID, userID, reason string) error
	Ban(guildID, userID, reason string) error
	MoveMember(guildID, userID, channelID string) error
}

// Ledger records completed moderation actions.
type Ledger interface {
	Record(ctx context.Context, a db.ModerationAction) (string, error)
}
