package object

import "github.com/tomz197/skyshooter/internal/physics"

// Enemy descends at a constant speed until it is shot or leaves the canvas.
type Enemy struct {
	physics.Rect
	Speed     float64
	destroyed bool
}

// NewEnemy creates an enemy at (x, y).
func NewEnemy(x, y, w, h, speed float64) *Enemy {
	return &Enemy{
		Rect:  physics.Rect{X: x, Y: y, W: w, H: h},
		Speed: speed,
	}
}

// MarkDestroyed marks the enemy for removal.
func (e *Enemy) MarkDestroyed() {
	e.destroyed = true
}

// IsDestroyed returns true if the enemy is marked for destruction.
func (e *Enemy) IsDestroyed() bool {
	return e.destroyed
}

// Update moves the enemy down and reports whether it passed the canvas bottom.
func (e *Enemy) Update(ctx UpdateContext) bool {
	if e.destroyed {
		return true
	}

	e.Y += e.Speed * ctx.Delta
	return e.Y > ctx.Bounds.Height
}

// Draw renders the enemy sprite.
func (e *Enemy) Draw(ctx DrawContext) {
	ctx.Canvas.DrawSprite(e.X, e.Y, e.W, e.H, ctx.Sprites.Enemy)
}
