package object

import "github.com/tomz197/skyshooter/internal/physics"

// Player is the pointer-controlled ship at the bottom of the canvas.
type Player struct {
	physics.Rect
	Speed float64 // Keyboard nudge speed; pointer control sets the position directly
	Lives int
}

// NewPlayer creates a player centred horizontally at the given y.
func NewPlayer(bounds Bounds, w, h, y, speed float64, lives int) *Player {
	return &Player{
		Rect:  physics.Rect{X: bounds.Width/2 - w/2, Y: y, W: w, H: h},
		Speed: speed,
		Lives: lives,
	}
}

// MoveTo centres the player on a pointer position.
func (p *Player) MoveTo(x, y float64) {
	p.X = x - p.W/2
	p.Y = y - p.H/2
}

// Update keeps the player inside the canvas. The player is never removed.
func (p *Player) Update(ctx UpdateContext) bool {
	p.ClampInto(ctx.Bounds.Width, ctx.Bounds.Height)
	return false
}

// LoseLife takes one life, never going below zero.
// Returns true if the player has no lives left.
func (p *Player) LoseLife() bool {
	if p.Lives > 0 {
		p.Lives--
	}
	return p.Lives == 0
}

// Draw renders the player sprite.
func (p *Player) Draw(ctx DrawContext) {
	ctx.Canvas.DrawSprite(p.X, p.Y, p.W, p.H, ctx.Sprites.Player)
}
