// Package routing decides which channel receives each generated notification.
package routing

import "sync"

// Category identifies a kind of notification that can be routed to a channel.
type Category int

const (
	// Welcome messages are sent when a member joins the server.
	Welcome Category = iota
	// Goodbye messages are sent when a member leaves the server.
	Goodbye
	// VoiceLog messages describe voice channel joins, leaves and moves.
	VoiceLog
)

// String returns the command-facing name of the category.
func (c Category) String() string {
	switch c {
	case Welcome:
		return "welcome"
	case Goodbye:
		return "goodbye"
	case VoiceLog:
		return "voicelog"
	default:
		return "unknown"
	}
}

// Store holds the configured destination channel per category.
// The zero value is not usable; create one with NewStore.
type Store struct {
	mu           sync.RWMutex
	destinations map[Category]string
}

// NewStore returns an empty store. Nothing is persisted across restarts.
func NewStore() *Store {
	return &Store{destinations: make(map[Category]string, 3)}
}

// Set overwrites the destination for a category. Channel IDs are not validated.
func (s *Store) Set(c Category, channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destinations[c] = channelID
}

// Resolve returns the destination for a category. Welcome and goodbye fall
// back to serverDefault when unset; voice log has no fallback. The second
// return value is false when there is nowhere to send the notification.
func (s *Store) Resolve(c Category, serverDefault string) (string, bool) {
	s.mu.RLock()
	id, ok := s.destinations[c]
	s.mu.RUnlock()

	if ok && id != "" {
		return id, true
	}

	switch c {
	case Welcome, Goodbye:
		return serverDefault, serverDefault != ""
	default:
		return "", false
	}
}

// MarshalText renders categories by name, so snapshots log as {"welcome": "..."}.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Snapshot returns a copy of the configured destinations.
func (s *Store) Snapshot() map[Category]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Category]string, len(s.destinations))
	for k, v := range s.destinations {
		out[k] = v
	}
	return out
}
