package game

import "github.com/tomz197/skyshooter/internal/object"

// World is the mutable play state. It is owned by the goroutine calling Tick.
type World struct {
	Player       *object.Player
	Bullets      []*object.Bullet
	Enemies      []*object.Enemy
	EnemyBullets []*object.Bullet
	Score        int
	HighScore    int
	Running      bool
}

// NewWorld returns a world with a fresh player and no entities.
func NewWorld(s Settings) *World {
	w := &World{}
	w.Reset(s)
	w.Running = false
	return w
}

// Lives returns the player's remaining lives.
func (w *World) Lives() int {
	return w.Player.Lives
}

// Reset prepares the world for a new round. The high score is kept.
func (w *World) Reset(s Settings) {
	w.Player = object.NewPlayer(s.Bounds(), s.PlayerWidth, s.PlayerHeight, s.PlayerStartY, s.PlayerSpeed, s.InitialLives)
	w.Bullets = w.Bullets[:0]
	w.Enemies = w.Enemies[:0]
	w.EnemyBullets = w.EnemyBullets[:0]
	w.Score = 0
	w.Running = true
}

// RecordHighScore raises the high score to the current score and reports
// whether it changed.
func (w *World) RecordHighScore() bool {
	if w.Score > w.HighScore {
		w.HighScore = w.Score
		return true
	}
	return false
}
