package client

import (
	"time"

	"github.com/tomz197/skyshooter/internal/draw"
	"github.com/tomz197/skyshooter/internal/game"
	"github.com/tomz197/skyshooter/internal/input"
)

// ClientState holds per-session presentation state. The game itself lives in
// the Client's *game.Game.
type ClientState struct {
	Input         input.Input
	prevInput     input.Input       // Previous frame, for press edges
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	Running       bool              // Client loop running
	delta         time.Duration     // Frame delta time
	shuttingDown  bool              // Server announced shutdown
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state

	// Previous frame's screen, used to clear the terminal on transitions
	prevPhase       game.Phase
	wasInactive     bool
	wasShuttingDown bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running:   true,
		prevPhase: game.PhaseLoading,
	}
}

// pressed reports keys that went down this frame.
func (s *ClientState) pressed() input.Input {
	cur, prev := s.Input, s.prevInput
	return input.Input{
		Quit:    cur.Quit && !prev.Quit,
		Left:    cur.Left,
		Right:   cur.Right,
		Up:      cur.Up,
		Down:    cur.Down,
		Fire:    cur.Fire && !prev.Fire,
		Enter:   cur.Enter && !prev.Enter,
		Menu:    cur.Menu && !prev.Menu,
		Escape:  cur.Escape && !prev.Escape,
		Pointer: cur.Pointer,
	}
}
