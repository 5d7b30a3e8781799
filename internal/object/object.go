// Package object defines the shooter's entities: the player, bullets and enemies.
package object

import "github.com/tomz197/skyshooter/internal/draw"

// Direction is the vertical travel direction of a bullet.
type Direction int

const (
	Up   Direction = -1 // Player bullets
	Down Direction = 1  // Enemy bullets
)

// String returns a readable direction name.
func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Bounds is the size of the play field. The origin is the top-left corner.
type Bounds struct {
	Width  float64
	Height float64
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta  float64 // Elapsed time in frames (1 = one 60 Hz frame)
	Bounds Bounds
}

// Sprites holds the optional sprite masks used when drawing.
// A nil sprite makes the object fall back to a filled rect.
type Sprites struct {
	Player     *draw.Sprite
	Enemy      *draw.Sprite
	Background *draw.Sprite
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas  *draw.Canvas
	Sprites Sprites
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update moves the object. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool)

	// Draw draws the object onto ctx.Canvas.
	Draw(ctx DrawContext)
}

// Destructible is implemented by objects that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the object for removal on the next compaction.
	MarkDestroyed()
	// IsDestroyed returns true if the object is marked for destruction.
	IsDestroyed() bool
}

// UpdateAll updates every object and keeps the ones that did not request removal.
// Order is preserved and the backing array is reused.
func UpdateAll[T Object](objects []T, ctx UpdateContext) []T {
	kept := objects[:0]
	for _, obj := range objects {
		if !obj.Update(ctx) {
			kept = append(kept, obj)
		}
	}
	clearTail(objects, len(kept))
	return kept
}

// Compact drops every destroyed object, preserving order.
func Compact[T Destructible](objects []T) []T {
	kept := objects[:0]
	for _, obj := range objects {
		if !obj.IsDestroyed() {
			kept = append(kept, obj)
		}
	}
	clearTail(objects, len(kept))
	return kept
}

// clearTail zeroes the abandoned tail so removed objects can be collected.
func clearTail[T any](s []T, from int) {
	var zero T
	for i := from; i < len(s); i++ {
		s[i] = zero
	}
}
