package community

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/mrzappu/LastRpcode/db"
)

type sentMessage struct {
	ChannelID string
	Msg       *discordgo.MessageSend
}

type directMessage struct {
	UserID  string
	Content string
}

type moderation struct {
	Action    string
	UserID    string
	Reason    string
	ChannelID string
}

// fakePlatform is an in-memory guild. It is safe for concurrent use since
// direct messages are sent from their own goroutines.
type fakePlatform struct {
	mu sync.Mutex

	guild    *Guild
	members  map[string]*Member
	channels map[string]*Channel
	voice    map[string]string

	dmErr     error
	kickErr   error
	banErr    error
	moveErr   error
	sendErr   error
	lookupErr error

	sent     []sentMessage
	dms      []directMessage
	actions  []moderation
	presence []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		guild: &Guild{
			ID:              "guild",
			Name:            "Redemption RP",
			IconURL:         "https://cdn.example/icon.png",
			SystemChannelID: "system",
			MemberCount:     42,
		},
		members: map[string]*Member{
			"alice": {GuildID: "guild", UserID: "alice", Tag: "alice"},
			"bob":   {GuildID: "guild", UserID: "bob", Tag: "bob#0420"},
			"robot": {GuildID: "guild", UserID: "robot", Tag: "robot", Bot: true},
		},
		channels: map[string]*Channel{
			"general": {ID: "general", Name: "general", Type: discordgo.ChannelTypeGuildText},
			"A":       {ID: "A", Name: "Lobby", Type: discordgo.ChannelTypeGuildVoice},
			"B":       {ID: "B", Name: "Patrol", Type: discordgo.ChannelTypeGuildVoice},
		},
		voice: map[string]string{},
	}
}

func (f *fakePlatform) Guild(guildID string) (*Guild, error) {
	if guildID != f.guild.ID {
		return nil, fmt.Errorf("guild %s: %w", guildID, ErrNotFound)
	}
	g := *f.guild
	return &g, nil
}

func (f *fakePlatform) PrimaryGuild() (*Guild, error) {
	if f.guild == nil {
		return nil, ErrNotFound
	}
	return f.Guild(f.guild.ID)
}

func (f *fakePlatform) Member(guildID, userID string) (*Member, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	m, ok := f.members[userID]
	if !ok || guildID != f.guild.ID {
		return nil, fmt.Errorf("member %s: %w", userID, ErrNotFound)
	}
	out := *m
	return &out, nil
}

func (f *fakePlatform) Channel(channelID string) (*Channel, error) {
	c, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}
	out := *c
	return &out, nil
}

func (f *fakePlatform) VoiceChannel(_, userID string) (string, error) {
	return f.voice[userID], nil
}

func (f *fakePlatform) SendMessage(channelID string, msg *discordgo.MessageSend) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Msg: msg})
	return f.sendErr
}

func (f *fakePlatform) SendDirectMessage(userID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms = append(f.dms, directMessage{UserID: userID, Content: content})
	return f.dmErr
}

func (f *fakePlatform) SetPresence(text string) error {
	f.presence = append(f.presence, text)
	return nil
}

func (f *fakePlatform) Kick(_, userID, reason string) error {
	if f.kickErr != nil {
		return f.kickErr
	}
	f.actions = append(f.actions, moderation{Action: "kick", UserID: userID, Reason: reason})
	return nil
}

func (f *fakePlatform) Ban(_, userID, reason string) error {
	if f.banErr != nil {
		return f.banErr
	}
	f.actions = append(f.actions, moderation{Action: "ban", UserID: userID, Reason: reason})
	return nil
}

func (f *fakePlatform) MoveMember(_, userID, channelID string) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.actions = append(f.actions, moderation{Action: "move", UserID: userID, ChannelID: channelID})
	f.voice[userID] = channelID
	return nil
}

func (f *fakePlatform) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, s := range f.sent {
		out = append(out, s.ChannelID)
	}
	return out
}

func (f *fakePlatform) directMessages() []directMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]directMessage(nil), f.dms...)
}

// fakeLedger records actions in memory.
type fakeLedger struct {
	actions []db.ModerationAction
	err     error
}

func (l *fakeLedger) Record(_ context.Context, a db.ModerationAction) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	l.actions = append(l.actions, a)
	return fmt.Sprintf("id-%d", len(l.actions)), nil
}

var errForbidden = errors.New("HTTP 403 Forbidden, Missing Permissions")
