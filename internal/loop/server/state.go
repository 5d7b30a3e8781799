package server

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username  string
	Score     int
	sessionID int // Used for deterministic tie-break when scores are equal
}

// Stats is an immutable snapshot of the registry for HUD display.
type Stats struct {
	Players   int
	TopScores []TopScoreEntry // Best first, at most config.TopScoresCount
}
