package game

import (
	"testing"

	"github.com/tomz197/skyshooter/internal/draw"
	"github.com/tomz197/skyshooter/internal/object"
	"github.com/tomz197/skyshooter/internal/physics"
)

func TestSnapshotDraw(t *testing.T) {
	snap := &Snapshot{
		Player:       object.Player{Rect: physics.Rect{X: 375, Y: 530, W: 50, H: 50}},
		Enemies:      []object.Enemy{*object.NewEnemy(0, 0, 50, 50, 1)},
		Bullets:      []object.Bullet{*object.NewBullet(400, 300, 10, 20, 4, object.Up)},
		EnemyBullets: []object.Bullet{*object.NewBullet(600, 300, 10, 20, 4, object.Down)},
	}

	// 80x30 terminal: one pixel per 10 canvas units on both axes.
	canvas := draw.NewScaledCanvas(80, 30, 800, 600)
	colors := map[Layer]draw.Color{
		LayerEnemies:      draw.ColorRed,
		LayerBullets:      draw.ColorYellow,
		LayerEnemyBullets: draw.ColorGreen,
		LayerPlayer:       draw.ColorCyan,
	}
	var order []Layer
	snap.Draw(object.DrawContext{Canvas: canvas}, func(l Layer) {
		order = append(order, l)
		canvas.SetPen(colors[l])
	})

	if len(order) != 4 || order[3] != LayerPlayer {
		t.Errorf("layer order = %v, want the player last", order)
	}

	tests := []struct {
		x, y int
		want draw.Color
	}{
		{2, 2, draw.ColorRed},
		{40, 31, draw.ColorYellow},
		{60, 31, draw.ColorGreen},
		{40, 55, draw.ColorCyan},
		{20, 20, draw.ColorNone},
	}
	for _, tt := range tests {
		if got := canvas.At(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	g, _ := playingGame(t)
	snap := g.Snapshot()
	x := snap.Player.X

	g.SetPlayerPosition(100, 100)
	if snap.Player.X != x {
		t.Error("published snapshot changed after a later intent")
	}
	if g.Snapshot().Player.X == x {
		t.Error("new snapshot not published")
	}
}
