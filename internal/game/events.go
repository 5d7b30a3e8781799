package game

// EventType identifies what happened inside the core.
type EventType int

const (
	EventAssetsReady      EventType = iota // Loading finished; Failed lists assets that did not load
	EventFire                              // The player fired a bullet
	EventScoreChanged                      // Score changed during play
	EventGameOver                          // Lives reached zero
	EventHighScoreUpdated                  // A game ended with a new high score
	EventPhaseChanged                      // Phase transition
)

func (t EventType) String() string {
	switch t {
	case EventAssetsReady:
		return "assets-ready"
	case EventFire:
		return "fire"
	case EventScoreChanged:
		return "score-changed"
	case EventGameOver:
		return "game-over"
	case EventHighScoreUpdated:
		return "high-score-updated"
	case EventPhaseChanged:
		return "phase-changed"
	default:
		return "unknown"
	}
}

// Event is sent to every subscribed Listener.
type Event struct {
	Type      EventType
	Phase     Phase   // Phase after the event
	Score     int     // Current score (final score for EventGameOver)
	HighScore int     // Current high score
	Failed    []error // EventAssetsReady only
}

// Listener receives core events. It is called synchronously from Tick or an
// intent method, so it must not block.
type Listener interface {
	HandleEvent(ev Event)
}

// ListenerFunc adapts a plain function to a Listener.
type ListenerFunc func(ev Event)

// HandleEvent calls f(ev).
func (f ListenerFunc) HandleEvent(ev Event) {
	f(ev)
}
