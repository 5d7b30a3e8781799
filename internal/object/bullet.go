package object

import "github.com/tomz197/skyshooter/internal/physics"

// Bullet is a projectile travelling straight up (player) or down (enemy).
type Bullet struct {
	physics.Rect
	Speed     float64
	Dir       Direction
	destroyed bool
}

// NewBullet creates a bullet whose top-left corner is at (x, y).
func NewBullet(x, y, w, h, speed float64, dir Direction) *Bullet {
	return &Bullet{
		Rect:  physics.Rect{X: x, Y: y, W: w, H: h},
		Speed: speed,
		Dir:   dir,
	}
}

// NewPlayerBullet creates a bullet centred on the player's top edge.
func NewPlayerBullet(p *Player, w, h, speed float64) *Bullet {
	return NewBullet(p.X+p.W/2-w/2, p.Y, w, h, speed, Up)
}

// NewEnemyBullet creates a bullet centred just below the enemy.
func NewEnemyBullet(e *Enemy, w, h, speed float64) *Bullet {
	return NewBullet(e.X+e.W/2-w/2, e.Y+e.H, w, h, speed, Down)
}

// MarkDestroyed marks the bullet for removal.
func (b *Bullet) MarkDestroyed() {
	b.destroyed = true
}

// IsDestroyed returns true if the bullet is marked for destruction.
func (b *Bullet) IsDestroyed() bool {
	return b.destroyed
}

// Update moves the bullet and reports whether it left the canvas.
func (b *Bullet) Update(ctx UpdateContext) bool {
	if b.destroyed {
		return true
	}

	b.Y += float64(b.Dir) * b.Speed * ctx.Delta

	if b.Dir == Up {
		return b.Y < 0
	}
	return b.Y > ctx.Bounds.Height
}

// Draw renders the bullet as a solid block.
func (b *Bullet) Draw(ctx DrawContext) {
	ctx.Canvas.FillRect(b.X, b.Y, b.W, b.H)
}
