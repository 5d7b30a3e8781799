package game

import (
	"math"
	"math/rand"

	"github.com/tomz197/skyshooter/internal/object"
	"github.com/tomz197/skyshooter/internal/physics"
)

// Outcome summarizes one collision pass.
type Outcome struct {
	Kills      int
	ScoreDelta int
	LivesLost  int
}

// Resolver applies collision rules and enemy fire to a world.
type Resolver struct {
	settings Settings
	rng      *rand.Rand
	grid     *physics.SpatialGrid
}

// NewResolver creates a resolver. Enemy fire draws from rng.
func NewResolver(s Settings, rng *rand.Rand) *Resolver {
	cell := math.Max(s.EnemyWidth, s.EnemyHeight)
	return &Resolver{
		settings: s,
		rng:      rng,
		grid:     physics.NewSpatialGrid(s.CanvasWidth, s.CanvasHeight, cell),
	}
}

// ResolveBullets destroys every player bullet that overlaps a live enemy, along
// with that enemy. When a bullet overlaps several enemies the one earliest in
// the collection is hit. Destroyed entities stay in place until Compact.
func (r *Resolver) ResolveBullets(w *World) int {
	if len(w.Bullets) == 0 || len(w.Enemies) == 0 {
		return 0
	}

	r.grid.Clear()
	for i, e := range w.Enemies {
		if !e.IsDestroyed() {
			r.grid.Insert(e.Rect, i)
		}
	}

	kills := 0
	for _, b := range w.Bullets {
		if b.IsDestroyed() {
			continue
		}

		hit := -1
		r.grid.Query(b.Rect, func(i int) bool {
			if hit >= 0 && i >= hit {
				return false
			}
			e := w.Enemies[i]
			if !e.IsDestroyed() && b.Overlaps(e.Rect) {
				hit = i
			}
			return false
		})

		if hit >= 0 {
			b.MarkDestroyed()
			w.Enemies[hit].MarkDestroyed()
			kills++
		}
	}
	return kills
}

// ResolveEnemyContacts removes every live enemy touching the player and costs
// one life per enemy. Returns the lives actually lost.
func (r *Resolver) ResolveEnemyContacts(w *World) int {
	lost := 0
	for _, e := range w.Enemies {
		if e.IsDestroyed() || !w.Player.Overlaps(e.Rect) {
			continue
		}
		e.MarkDestroyed()
		if w.Player.Lives > 0 {
			w.Player.LoseLife()
			lost++
		}
	}
	return lost
}

// ResolveEnemyBullets removes every enemy bullet touching the player and costs
// one life per bullet. Returns the lives actually lost.
func (r *Resolver) ResolveEnemyBullets(w *World) int {
	lost := 0
	for _, b := range w.EnemyBullets {
		if b.IsDestroyed() || !w.Player.Overlaps(b.Rect) {
			continue
		}
		b.MarkDestroyed()
		if w.Player.Lives > 0 {
			w.Player.LoseLife()
			lost++
		}
	}
	return lost
}

// Resolve runs all collision rules, drops destroyed entities and awards score.
func (r *Resolver) Resolve(w *World) Outcome {
	var out Outcome

	out.Kills = r.ResolveBullets(w)
	out.LivesLost += r.ResolveEnemyContacts(w)
	out.LivesLost += r.ResolveEnemyBullets(w)

	w.Bullets = object.Compact(w.Bullets)
	w.Enemies = object.Compact(w.Enemies)
	w.EnemyBullets = object.Compact(w.EnemyBullets)

	out.ScoreDelta = out.Kills * r.settings.KillScore
	w.Score += out.ScoreDelta
	return out
}

// EnemyShoot gives each live enemy an independent chance to fire downward.
// Returns the number of bullets fired.
func (r *Resolver) EnemyShoot(w *World) int {
	if r.settings.ShootChance <= 0 {
		return 0
	}

	s := r.settings
	fired := 0
	for _, e := range w.Enemies {
		if e.IsDestroyed() {
			continue
		}
		if r.rng.Float64() < s.ShootChance {
			w.EnemyBullets = append(w.EnemyBullets, object.NewEnemyBullet(e, s.BulletWidth, s.BulletHeight, s.EnemyBulletSpeed))
			fired++
		}
	}
	return fired
}
