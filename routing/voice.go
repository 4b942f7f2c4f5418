package routing

// VoiceTransition describes how a member's voice channel changed.
type VoiceTransition int

const (
	// VoiceNone means nothing worth logging happened, e.g. a mute toggle.
	VoiceNone VoiceTransition = iota
	VoiceJoined
	VoiceLeft
	VoiceMoved
)

func (t VoiceTransition) String() string {
	switch t {
	case VoiceJoined:
		return "joined"
	case VoiceLeft:
		return "left"
	case VoiceMoved:
		return "moved"
	default:
		return "none"
	}
}

// ClassifyVoice compares the previous and current voice channel IDs of a
// member. An empty ID means the member was not in a voice channel.
func ClassifyVoice(previous, current string) VoiceTransition {
	switch {
	case previous == "" && current != "":
		return VoiceJoined
	case previous != "" && current == "":
		return VoiceLeft
	case previous != "" && current != "" && previous != current:
		return VoiceMoved
	default:
		return VoiceNone
	}
}
