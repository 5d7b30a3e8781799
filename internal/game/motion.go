package game

import "github.com/tomz197/skyshooter/internal/object"

// Advance moves every entity by dt frames, clamps the player to the canvas and
// drops entities that left it. Survivors keep their relative order.
func Advance(w *World, s Settings, dt float64) {
	ctx := object.UpdateContext{Delta: dt, Bounds: s.Bounds()}

	w.Player.Update(ctx)
	w.Bullets = object.UpdateAll(w.Bullets, ctx)
	w.Enemies = object.UpdateAll(w.Enemies, ctx)
	w.EnemyBullets = object.UpdateAll(w.EnemyBullets, ctx)
}
