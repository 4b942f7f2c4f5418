package community

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrzappu/LastRpcode/discord"
)

// DiscordSchedulePresence returns a scheduled task that shows the primary guild's member count.
func (s *Service) DiscordSchedulePresence(cronExpression string) discord.BotScheduleI {
	return discord.NewBotSchedule("presence", cronExpression, s.updatePresence)
}

func (s *Service) updatePresence(_ context.Context) error {
	g, err := s.platform.PrimaryGuild()
	if errors.Is(err, ErrNotFound) {
		slog.Debug("no guild yet, skipping presence update")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up primary guild: %w", err)
	}

	text := fmt.Sprintf("%d Members", g.MemberCount)
	if err := s.platform.SetPresence(text); err != nil {
		return fmt.Errorf("failed to set presence: %w", err)
	}
	slog.Debug("presence updated", "guild", g.ID, "status", text)
	return nil
}
