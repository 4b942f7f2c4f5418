package routing

import "testing"

func TestClassifyVoiceExhaustive(t *testing.T) {
	want := map[[2]string]VoiceTransition{
		{"", ""}:   VoiceNone,
		{"", "A"}:  VoiceJoined,
		{"", "B"}:  VoiceJoined,
		{"A", ""}:  VoiceLeft,
		{"B", ""}:  VoiceLeft,
		{"A", "A"}: VoiceNone,
		{"B", "B"}: VoiceNone,
		{"A", "B"}: VoiceMoved,
		{"B", "A"}: VoiceMoved,
	}

	values := []string{"", "A", "B"}
	for _, prev := range values {
		for _, next := range values {
			expected, ok := want[[2]string{prev, next}]
			if !ok {
				t.Fatalf("missing expectation for (%q, %q)", prev, next)
			}
			if got := ClassifyVoice(prev, next); got != expected {
				t.Errorf("ClassifyVoice(%q, %q) = %s, want %s", prev, next, got, expected)
			}
		}
	}
}
