package discord

import (
	"context"
	"errors"
	"testing"
)

func TestNewScheduleManagerRejectsBadExpression(t *testing.T) {
	schedules := []BotScheduleI{
		NewBotSchedule("presence", "not a cron", func(context.Context) error { return nil }),
	}
	if _, err := newScheduleManager(schedules); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestScheduleManagerExecuteAll(t *testing.T) {
	var ran []string
	schedules := []BotScheduleI{
		NewBotSchedule("every-minute", "@every 1m", func(context.Context) error {
			ran = append(ran, "every-minute")
			return nil
		}),
		NewBotSchedule("hourly", "0 0 * * * *", func(context.Context) error {
			ran = append(ran, "hourly")
			return errors.New("logged, not fatal")
		}),
	}

	sm, err := newScheduleManager(schedules)
	if err != nil {
		t.Fatalf("newScheduleManager: %v", err)
	}
	sm.executeAll()

	if len(ran) != 2 || ran[0] != "every-minute" || ran[1] != "hourly" {
		t.Errorf("ran = %v", ran)
	}

	sm.start()
	sm.stop()

	// Stopped managers no longer execute.
	sm.executeAll()
	if len(ran) != 2 {
		t.Errorf("ran after stop = %v", ran)
	}
}
