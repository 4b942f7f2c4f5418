package routing

import (
	"encoding/json"
	"testing"
)

var categories = []Category{Welcome, Goodbye, VoiceLog}

func TestResolveAfterSet(t *testing.T) {
	for _, c := range categories {
		s := NewStore()
		s.Set(c, "old")
		s.Set(c, "new")

		got, ok := s.Resolve(c, "system")
		if !ok || got != "new" {
			t.Errorf("%s: Resolve = (%q, %v), want (%q, true)", c, got, ok, "new")
		}
	}
}

func TestResolveUnsetFallback(t *testing.T) {
	tests := []struct {
		category Category
		want     string
		wantOK   bool
	}{
		{Welcome, "system", true},
		{Goodbye, "system", true},
		{VoiceLog, "", false},
	}

	for _, tt := range tests {
		s := NewStore()
		got, ok := s.Resolve(tt.category, "system")
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("%s: Resolve = (%q, %v), want (%q, %v)", tt.category, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestResolveNoSystemChannel(t *testing.T) {
	s := NewStore()
	if got, ok := s.Resolve(Welcome, ""); ok {
		t.Errorf("Resolve = (%q, true), want suppression without a system channel", got)
	}
}

func TestSetIdempotent(t *testing.T) {
	for _, c := range categories {
		once := NewStore()
		once.Set(c, "general")

		twice := NewStore()
		twice.Set(c, "general")
		twice.Set(c, "general")

		a, aok := once.Resolve(c, "system")
		b, bok := twice.Resolve(c, "system")
		if a != b || aok != bok {
			t.Errorf("%s: once = (%q, %v), twice = (%q, %v)", c, a, aok, b, bok)
		}
	}
}

func TestCategoriesIndependent(t *testing.T) {
	s := NewStore()
	s.Set(VoiceLog, "voice-log")

	if got, _ := s.Resolve(Welcome, "system"); got != "system" {
		t.Errorf("welcome = %q, want system fallback", got)
	}
	if got, _ := s.Resolve(Goodbye, "system"); got != "system" {
		t.Errorf("goodbye = %q, want system fallback", got)
	}

	snap := s.Snapshot()
	if len(snap) != 1 || snap[VoiceLog] != "voice-log" {
		t.Errorf("Snapshot = %v", snap)
	}
}

func TestUnknownCategory(t *testing.T) {
	s := NewStore()
	if got, ok := s.Resolve(Category(42), "system"); ok || got != "" {
		t.Errorf("Resolve = (%q, %v), want none", got, ok)
	}
}

func TestSnapshotLogsByName(t *testing.T) {
	s := NewStore()
	s.Set(Welcome, "c1")
	s.Set(VoiceLog, "c2")

	b, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got, want := string(b), `{"voicelog":"c2","welcome":"c1"}`; got != want {
		t.Errorf("snapshot json = %s, want %s", got, want)
	}
}
