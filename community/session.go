package community

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// SessionPlatform implements Platform with a discordgo session, reading from
// the session state cache first and falling back to the REST API.
type SessionPlatform struct {
	session *discordgo.Session
	guildID string
}

// NewSessionPlatform wraps a session. guildID selects the primary guild; when
// empty the first guild in the session state is used.
func NewSessionPlatform(session *discordgo.Session, guildID string) *SessionPlatform {
	return &SessionPlatform{session: session, guildID: guildID}
}

// restError maps "unknown object" responses to ErrNotFound.
func restError(op string, err error) error {
	var re *discordgo.RESTError
	if errors.As(err, &re) {
		notFound := re.Response != nil && re.Response.StatusCode == http.StatusNotFound
		if re.Message != nil {
			switch re.Message.Code {
			case discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser,
				discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownGuild:
				notFound = true
			}
		}
		if notFound {
			return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func guildFrom(g *discordgo.Guild) *Guild {
	count := g.MemberCount
	if count == 0 {
		count = g.ApproximateMemberCount
	}
	return &Guild{
		ID:              g.ID,
		Name:            g.Name,
		IconURL:         g.IconURL("256"),
		SystemChannelID: g.SystemChannelID,
		MemberCount:     count,
	}
}

func memberFrom(guildID string, m *discordgo.Member) *Member {
	if m == nil || m.User == nil {
		return nil
	}
	if m.GuildID != "" {
		guildID = m.GuildID
	}
	return &Member{
		GuildID: guildID,
		UserID:  m.User.ID,
		Tag:     userTag(m.User),
		Bot:     m.User.Bot,
	}
}

// userTag drops the legacy "#0" discriminator of migrated usernames.
func userTag(u *discordgo.User) string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

// Guild returns a guild from state, or from the API when it is not cached.
func (p *SessionPlatform) Guild(guildID string) (*Guild, error) {
	if g, err := p.session.State.Guild(guildID); err == nil {
		return guildFrom(g), nil
	}
	g, err := p.session.Guild(guildID)
	if err != nil {
		return nil, restError("fetch guild "+guildID, err)
	}
	return guildFrom(g), nil
}

// PrimaryGuild returns the configured guild, or the first one the bot has joined.
func (p *SessionPlatform) PrimaryGuild() (*Guild, error) {
	if p.guildID != "" {
		return p.Guild(p.guildID)
	}

	p.session.State.RLock()
	defer p.session.State.RUnlock()
	if len(p.session.State.Guilds) == 0 {
		return nil, fmt.Errorf("no guild in session state: %w", ErrNotFound)
	}
	return guildFrom(p.session.State.Guilds[0]), nil
}

// Member looks up a guild member, falling back to the API.
func (p *SessionPlatform) Member(guildID, userID string) (*Member, error) {
	if m, err := p.session.State.Member(guildID, userID); err == nil {
		return memberFrom(guildID, m), nil
	}
	m, err := p.session.GuildMember(guildID, userID)
	if err != nil {
		return nil, restError("fetch member "+userID, err)
	}
	member := memberFrom(guildID, m)
	if member == nil {
		return nil, fmt.Errorf("fetch member %s: %w", userID, ErrNotFound)
	}
	return member, nil
}

// Channel looks up a channel, falling back to the API.
func (p *SessionPlatform) Channel(channelID string) (*Channel, error) {
	c, err := p.session.State.Channel(channelID)
	if err != nil {
		c, err = p.session.Channel(channelID)
		if err != nil {
			return nil, restError("fetch channel "+channelID, err)
		}
	}
	return &Channel{ID: c.ID, Name: c.Name, Type: c.Type}, nil
}

// VoiceChannel returns the member's current voice channel, or "" when not connected.
func (p *SessionPlatform) VoiceChannel(guildID, userID string) (string, error) {
	vs, err := p.session.State.VoiceState(guildID, userID)
	if errors.Is(err, discordgo.ErrStateNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("voice state of %s: %w", userID, err)
	}
	return vs.ChannelID, nil
}

// SendMessage posts a message to a channel.
func (p *SessionPlatform) SendMessage(channelID string, msg *discordgo.MessageSend) error {
	if _, err := p.session.ChannelMessageSendComplex(channelID, msg); err != nil {
		return restError("send message to "+channelID, err)
	}
	return nil
}

// SendDirectMessage opens a DM channel with the user and sends content.
func (p *SessionPlatform) SendDirectMessage(userID, content string) error {
	ch, err := p.session.UserChannelCreate(userID)
	if err != nil {
		return restError("open dm with "+userID, err)
	}
	if _, err := p.session.ChannelMessageSend(ch.ID, content); err != nil {
		return restError("send dm to "+userID, err)
	}
	return nil
}

// SetPresence sets a "Watching <text>" activity.
func (p *SessionPlatform) SetPresence(text string) error {
	return p.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{{
			Name: text,
			Type: discordgo.ActivityTypeWatching,
		}},
		Status: string(discordgo.StatusOnline),
	})
}

// Kick removes a member from the guild.
func (p *SessionPlatform) Kick(guildID, userID, reason string) error {
	if err := p.session.GuildMemberDeleteWithReason(guildID, userID, reason); err != nil {
		return restError("kick "+userID, err)
	}
	return nil
}

// Ban bans a member without deleting their messages.
func (p *SessionPlatform) Ban(guildID, userID, reason string) error {
	if err := p.session.GuildBanCreateWithReason(guildID, userID, reason, 0); err != nil {
		return restError("ban "+userID, err)
	}
	return nil
}

// MoveMember moves a connected member into a voice channel.
func (p *SessionPlatform) MoveMember(guildID, userID, channelID string) error {
	if err := p.session.GuildMemberMove(guildID, userID, &channelID); err != nil {
		return restError("move "+userID, err)
	}
	return nil
}
