package community

import (
	"context"
	"testing"
)

func TestPresenceSchedule(t *testing.T) {
	p := newFakePlatform()
	s, _ := newTestService(p)

	sched := s.DiscordSchedulePresence("@every 1m")
	if sched.GetName() != "presence" || sched.GetCronExpression() != "@every 1m" {
		t.Errorf("schedule = %s (%s)", sched.GetName(), sched.GetCronExpression())
	}

	if err := sched.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(p.presence) != 1 || p.presence[0] != "42 Members" {
		t.Errorf("presence = %v", p.presence)
	}
}

func TestPresenceWithoutGuild(t *testing.T) {
	p := newFakePlatform()
	p.guild = nil
	s, _ := newTestService(p)

	if err := s.updatePresence(context.Background()); err != nil {
		t.Fatalf("updatePresence: %v", err)
	}
	if len(p.presence) != 0 {
		t.Errorf("presence = %v, want untouched", p.presence)
	}
}
