package game

import "github.com/tomz197/skyshooter/internal/object"

// Snapshot is an immutable copy of the state a renderer needs. Entities are
// value copies, so readers may hold a snapshot across frames.
type Snapshot struct {
	Frame     uint64
	Phase     Phase
	Canvas    object.Bounds
	Countdown int
	Paused    bool // Countdown cancelled and waiting to be re-armed

	Player       object.Player
	Lives        int
	Score        int
	HighScore    int
	Bullets      []object.Bullet
	Enemies      []object.Enemy
	EnemyBullets []object.Bullet

	FailedAssets int
}

// Layer identifies a group of entities drawn together.
type Layer int

const (
	LayerEnemies Layer = iota
	LayerBullets
	LayerEnemyBullets
	LayerPlayer
)

// Draw draws every entity of the snapshot, back to front. before is called
// ahead of each layer so the caller can pick its color.
func (s *Snapshot) Draw(ctx object.DrawContext, before func(Layer)) {
	before(LayerEnemies)
	for i := range s.Enemies {
		s.Enemies[i].Draw(ctx)
	}

	before(LayerBullets)
	for i := range s.Bullets {
		s.Bullets[i].Draw(ctx)
	}

	before(LayerEnemyBullets)
	for i := range s.EnemyBullets {
		s.EnemyBullets[i].Draw(ctx)
	}

	before(LayerPlayer)
	s.Player.Draw(ctx)
}

func copyAll[T any](objs []*T) []T {
	out := make([]T, len(objs))
	for i, o := range objs {
		out[i] = *o
	}
	return out
}

func (g *Game) buildSnapshot() *Snapshot {
	w := g.world
	return &Snapshot{
		Frame:        g.frame,
		Phase:        g.phase,
		Canvas:       g.settings.Bounds(),
		Countdown:    g.countdown.Remaining(),
		Paused:       g.phase == PhaseCountdown && !g.countdown.Active(),
		Player:       *w.Player,
		Lives:        w.Lives(),
		Score:        w.Score,
		HighScore:    w.HighScore,
		Bullets:      copyAll(w.Bullets),
		Enemies:      copyAll(w.Enemies),
		EnemyBullets: copyAll(w.EnemyBullets),
		FailedAssets: len(g.failed),
	}
}

func (g *Game) publish() {
	g.snapshot.Store(g.buildSnapshot())
}

// Snapshot returns the latest published state. Safe for concurrent use.
func (g *Game) Snapshot() *Snapshot {
	return g.snapshot.Load()
}
