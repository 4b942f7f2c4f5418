package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Moderation action kinds.
const (
	ActionKick = "kick"
	ActionBan  = "ban"
	ActionMove = "move"
)

// ModerationAction is one completed kick, ban or voice move.
type ModerationAction struct {
	Action    string
	GuildID   string
	TargetID  string
	ActorID   string
	Reason    string
	ChannelID string
	At        time.Time
}

// ModerationLog appends moderation actions to the moderation_actions table.
type ModerationLog struct {
	client *Client
}

// NewModerationLog creates the table if it doesn't exist.
func NewModerationLog(ctx context.Context, client *Client) (*ModerationLog, error) {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS moderation_actions (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		guild_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		reason TEXT,
		channel_id TEXT,
		recorded_at TIMESTAMP NOT NULL
	)
	`
	if _, err := client.Conn().ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create moderation_actions table: %w", err)
	}

	slog.Info("moderation_actions table created or already exists")
	return &ModerationLog{client: client}, nil
}

// Record inserts an action under a fresh id and returns that id.
func (l *ModerationLog) Record(ctx context.Context, a ModerationAction) (string, error) {
	if a.At.IsZero() {
		a.At = time.Now()
	}
	id := uuid.NewString()

	_, err := l.client.Conn().ExecContext(ctx,
		`INSERT INTO moderation_actions (id, action, guild_id, target_id, actor_id, reason, channel_id, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, a.Action, a.GuildID, a.TargetID, a.ActorID, a.Reason, a.ChannelID, a.At.UTC())
	if err != nil {
		return "", fmt.Errorf("failed to record %s of %s: %w", a.Action, a.TargetID, err)
	}
	return id, nil
}
