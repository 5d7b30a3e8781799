package game

// Phase is the game's position in the Loading/Menu/Countdown/Playing/GameOver cycle.
type Phase int

const (
	PhaseLoading   Phase = iota // Waiting for assets
	PhaseMenu                   // Title screen, waiting for a start intent
	PhaseCountdown              // Short timer before a round
	PhasePlaying                // Active gameplay
	PhaseGameOver               // Round finished, world frozen
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseMenu:
		return "menu"
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}
