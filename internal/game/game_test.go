package game

import (
	"errors"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyshooter/internal/object"
)

type recorder struct {
	events []Event
}

func (r *recorder) HandleEvent(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) count(t EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func newTestGame(t *testing.T, s Settings, assets int) (*Game, *recorder) {
	t.Helper()
	g, err := New(Options{
		Settings: s,
		Rand:     rand.New(rand.NewSource(1)),
		Logger:   log.New(io.Discard),
		Assets:   assets,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := &recorder{}
	g.Subscribe(rec)
	return g, rec
}

// playingGame returns a game that has finished its countdown.
func playingGame(t *testing.T) (*Game, *recorder) {
	t.Helper()
	g, rec := newTestGame(t, testSettings(), 0)
	g.Tick(0)
	g.Start()
	for range g.settings.CountdownTicks {
		g.Tick(g.settings.CountdownInterval)
	}
	if g.Phase() != PhasePlaying {
		t.Fatalf("phase = %s, want playing", g.Phase())
	}
	return g, rec
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.WaveMin, s.WaveMax = 10, 5

	_, err := New(Options{Settings: s, Logger: log.New(io.Discard)})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestLoadingWaitsForAllAssets(t *testing.T) {
	g, rec := newTestGame(t, testSettings(), 3)

	g.Tick(0)
	if g.Phase() != PhaseLoading {
		t.Fatalf("phase = %s, want loading", g.Phase())
	}

	g.Latch().Done(nil)
	g.Latch().Done(&AssetLoadError{Name: "enemy", Err: io.ErrUnexpectedEOF})
	g.Tick(0)
	if g.Phase() != PhaseLoading {
		t.Fatalf("phase = %s after 2 of 3 assets, want loading", g.Phase())
	}

	g.Latch().Done(nil)
	g.Tick(0)
	if g.Phase() != PhaseMenu {
		t.Fatalf("phase = %s, want menu", g.Phase())
	}
	if rec.count(EventAssetsReady) != 1 {
		t.Fatalf("assets-ready events = %d, want 1", rec.count(EventAssetsReady))
	}

	var ready Event
	for _, ev := range rec.events {
		if ev.Type == EventAssetsReady {
			ready = ev
		}
	}
	if len(ready.Failed) != 1 {
		t.Fatalf("failed assets = %d, want 1", len(ready.Failed))
	}
	var ae *AssetLoadError
	if !errors.As(ready.Failed[0], &ae) || ae.Name != "enemy" {
		t.Errorf("failed[0] = %v, want enemy AssetLoadError", ready.Failed[0])
	}
	if g.Snapshot().FailedAssets != 1 {
		t.Errorf("snapshot failed assets = %d, want 1", g.Snapshot().FailedAssets)
	}
}

func TestLoadingWithConcurrentAssets(t *testing.T) {
	g, _ := newTestGame(t, testSettings(), 8)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Latch().Done(nil)
		}()
	}
	wg.Wait()

	g.Tick(0)
	if g.Phase() != PhaseMenu {
		t.Fatalf("phase = %s, want menu", g.Phase())
	}
}

func TestIntentsIgnoredBeforeMenu(t *testing.T) {
	g, _ := newTestGame(t, testSettings(), 1)
	g.Start()
	g.Fire()
	g.Restart()
	if g.Phase() != PhaseLoading {
		t.Fatalf("phase = %s, want loading", g.Phase())
	}
}

func TestCountdownToPlaying(t *testing.T) {
	g, rec := newTestGame(t, testSettings(), 0)
	g.Tick(0)
	g.Start()

	if g.Phase() != PhaseCountdown {
		t.Fatalf("phase = %s, want countdown", g.Phase())
	}
	if got := g.Snapshot().Countdown; got != 3 {
		t.Errorf("countdown = %d, want 3", got)
	}
	if n := len(g.world.Enemies); n != g.settings.InitialWave {
		t.Errorf("enemies = %d, want initial wave %d", n, g.settings.InitialWave)
	}

	g.Tick(time.Second)
	g.Tick(time.Second)
	if g.Phase() != PhaseCountdown || g.Snapshot().Countdown != 1 {
		t.Fatalf("phase = %s countdown = %d, want countdown 1", g.Phase(), g.Snapshot().Countdown)
	}

	g.Tick(time.Second)
	if g.Phase() != PhasePlaying {
		t.Fatalf("phase = %s, want playing", g.Phase())
	}
	if rec.count(EventPhaseChanged) != 3 {
		t.Errorf("phase events = %d, want 3 (menu, countdown, playing)", rec.count(EventPhaseChanged))
	}
}

func TestCountdownFreezesWorld(t *testing.T) {
	g, _ := newTestGame(t, testSettings(), 0)
	g.Tick(0)
	g.Start()

	before := g.world.Enemies[0].Y
	g.Tick(500 * time.Millisecond)
	if g.world.Enemies[0].Y != before {
		t.Errorf("enemy moved during countdown")
	}
}

func TestCancelCountdown(t *testing.T) {
	g, _ := newTestGame(t, testSettings(), 0)
	g.Tick(0)
	g.Start()
	g.CancelCountdown()

	for range 10 {
		g.Tick(time.Second)
	}
	if g.Phase() != PhaseCountdown {
		t.Fatalf("phase = %s, want frozen countdown", g.Phase())
	}

	g.Restart()
	for range 3 {
		g.Tick(time.Second)
	}
	if g.Phase() != PhasePlaying {
		t.Fatalf("phase = %s after re-arm, want playing", g.Phase())
	}
}

func TestFireOnlyWhilePlaying(t *testing.T) {
	g, rec := newTestGame(t, testSettings(), 0)
	g.Tick(0)
	g.Fire()
	if len(g.world.Bullets) != 0 || rec.count(EventFire) != 0 {
		t.Fatalf("fired from menu")
	}

	g, rec = playingGame(t)
	g.Fire()
	if len(g.world.Bullets) != 1 || rec.count(EventFire) != 1 {
		t.Fatalf("bullets = %d fire events = %d, want 1 1", len(g.world.Bullets), rec.count(EventFire))
	}
	p := g.world.Player
	b := g.world.Bullets[0]
	if b.X != p.X+p.W/2-2.5 || b.Y != p.Y || b.Dir != object.Up {
		t.Errorf("bullet at (%v,%v) dir %s, want (%v,%v) up", b.X, b.Y, b.Dir, p.X+p.W/2-2.5, p.Y)
	}
}

func TestSetPlayerPosition(t *testing.T) {
	g, _ := playingGame(t)

	g.SetPlayerPosition(400, 300)
	if p := g.world.Player; p.X != 375 || p.Y != 275 {
		t.Errorf("player = (%v,%v), want (375,275)", p.X, p.Y)
	}

	g.SetPlayerPosition(-100, -100)
	if p := g.world.Player; p.X != 0 || p.Y != 0 {
		t.Errorf("player = (%v,%v), want (0,0)", p.X, p.Y)
	}

	g.SetPlayerPosition(5000, 5000)
	g.Tick(time.Second / 60)
	if p := g.world.Player; p.X != 750 || p.Y != 550 {
		t.Errorf("player = (%v,%v), want (750,550)", p.X, p.Y)
	}
}

func TestPointerAppliedWhenPlayBegins(t *testing.T) {
	g, _ := newTestGame(t, testSettings(), 0)
	g.Tick(0)
	g.Start()
	g.SetPlayerPosition(100, 100)
	if g.world.Player.X == 75 {
		t.Fatalf("player moved during countdown")
	}

	for range 3 {
		g.Tick(time.Second)
	}
	if p := g.world.Player; p.X != 75 || p.Y != 75 {
		t.Errorf("player = (%v,%v), want (75,75)", p.X, p.Y)
	}
}

func TestScoreChangedEvent(t *testing.T) {
	g, rec := playingGame(t)
	w := g.world
	w.Enemies = []*object.Enemy{object.NewEnemy(380, 80, 50, 50, 1)}
	w.Bullets = []*object.Bullet{object.NewBullet(400, 104, 5, 10, 4, object.Up)}

	g.Tick(time.Second / 60)

	if w.Score != 10 {
		t.Fatalf("score = %d, want 10", w.Score)
	}
	if rec.count(EventScoreChanged) != 1 {
		t.Errorf("score events = %d, want 1", rec.count(EventScoreChanged))
	}
	if g.Snapshot().Score != 10 {
		t.Errorf("snapshot score = %d, want 10", g.Snapshot().Score)
	}
}

func TestWaveRespawnsWhenCleared(t *testing.T) {
	g, _ := playingGame(t)
	g.world.Enemies = nil

	g.Tick(time.Second / 60)

	n := len(g.world.Enemies)
	if n < g.settings.WaveMin || n > g.settings.WaveMax {
		t.Errorf("enemies after clear = %d, want [%d,%d]", n, g.settings.WaveMin, g.settings.WaveMax)
	}
}

func TestGameOverOnce(t *testing.T) {
	g, rec := playingGame(t)
	w := g.world
	w.Score = 30
	w.Player.Lives = 1
	w.Enemies = []*object.Enemy{object.NewEnemy(w.Player.X, w.Player.Y, 50, 50, 1)}

	g.Tick(time.Second / 60)

	if g.Phase() != PhaseGameOver {
		t.Fatalf("phase = %s, want game over", g.Phase())
	}
	if w.Running {
		t.Errorf("world still running")
	}
	if w.HighScore != 30 {
		t.Errorf("high score = %d, want 30", w.HighScore)
	}

	for range 10 {
		g.Tick(time.Second / 60)
	}
	if rec.count(EventGameOver) != 1 {
		t.Errorf("game over events = %d, want 1", rec.count(EventGameOver))
	}
	if rec.count(EventHighScoreUpdated) != 1 {
		t.Errorf("high score events = %d, want 1", rec.count(EventHighScoreUpdated))
	}

	snap := g.Snapshot()
	if snap.Phase != PhaseGameOver || snap.Score != 30 || snap.HighScore != 30 || snap.Lives != 0 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestGameOverFreezesWorld(t *testing.T) {
	g, _ := playingGame(t)
	w := g.world
	w.Player.Lives = 1
	w.Enemies = []*object.Enemy{
		object.NewEnemy(w.Player.X, w.Player.Y, 50, 50, 1),
		object.NewEnemy(10, 10, 50, 50, 1),
	}
	g.Tick(time.Second / 60)

	y := w.Enemies[0].Y
	g.SetPlayerPosition(10, 10)
	g.Fire()
	for range 5 {
		g.Tick(time.Second / 60)
	}
	if w.Enemies[0].Y != y || len(w.Bullets) != 0 {
		t.Errorf("world changed after game over")
	}
}

func TestHighScoreNotLowered(t *testing.T) {
	g, rec := playingGame(t)
	w := g.world
	w.HighScore = 100
	w.Score = 20
	w.Player.Lives = 1
	w.Enemies = []*object.Enemy{object.NewEnemy(w.Player.X, w.Player.Y, 50, 50, 1)}

	g.Tick(time.Second / 60)

	if w.HighScore != 100 {
		t.Errorf("high score = %d, want 100", w.HighScore)
	}
	if rec.count(EventHighScoreUpdated) != 0 {
		t.Errorf("unexpected high score event")
	}
}

func TestRestartResetsRound(t *testing.T) {
	g, _ := playingGame(t)
	w := g.world
	w.Score = 50
	w.Player.Lives = 1
	w.Bullets = []*object.Bullet{object.NewBullet(10, 300, 5, 10, 4, object.Up)}
	w.Enemies = []*object.Enemy{object.NewEnemy(w.Player.X, w.Player.Y, 50, 50, 1)}
	g.Tick(time.Second / 60)

	g.Restart()

	if g.Phase() != PhaseCountdown {
		t.Fatalf("phase = %s, want countdown", g.Phase())
	}
	if w.Score != 0 || w.Lives() != 5 || w.HighScore != 50 {
		t.Errorf("score=%d lives=%d high=%d, want 0 5 50", w.Score, w.Lives(), w.HighScore)
	}
	if len(w.Bullets) != 0 || len(w.EnemyBullets) != 0 {
		t.Errorf("bullets not cleared")
	}
	if len(w.Enemies) != g.settings.InitialWave {
		t.Errorf("enemies = %d, want %d", len(w.Enemies), g.settings.InitialWave)
	}
	if !w.Running {
		t.Errorf("world not running after restart")
	}
}

func TestReturnToMenu(t *testing.T) {
	g, _ := playingGame(t)
	g.ReturnToMenu()
	if g.Phase() != PhaseMenu {
		t.Fatalf("phase = %s, want menu", g.Phase())
	}

	g.Start()
	if g.Phase() != PhaseCountdown {
		t.Fatalf("phase = %s, want countdown", g.Phase())
	}
}

func TestZeroCountdownStartsImmediately(t *testing.T) {
	s := testSettings()
	s.CountdownTicks = 0
	g, _ := newTestGame(t, s, 0)
	g.Tick(0)
	g.Start()
	if g.Phase() != PhasePlaying {
		t.Fatalf("phase = %s, want playing", g.Phase())
	}
}

func TestLongRunInvariants(t *testing.T) {
	s := DefaultSettings()
	s.ShootChance = 0.05
	g, _ := newTestGame(t, s, 0)
	g.Tick(0)
	g.Start()

	rng := rand.New(rand.NewSource(99))
	for range 20000 {
		switch g.Phase() {
		case PhaseGameOver:
			g.Restart()
		case PhasePlaying:
			g.SetPlayerPosition(rng.Float64()*s.CanvasWidth, rng.Float64()*s.CanvasHeight)
			if rng.Intn(4) == 0 {
				g.Fire()
			}
		}
		g.Tick(time.Second / 60)

		w := g.world
		if w.Lives() < 0 || w.Lives() > s.InitialLives {
			t.Fatalf("lives = %d out of range", w.Lives())
		}
		if w.Score < 0 || w.Score%s.KillScore != 0 {
			t.Fatalf("score = %d not a multiple of %d", w.Score, s.KillScore)
		}
		if w.HighScore < 0 {
			t.Fatalf("high score negative")
		}
		p := w.Player
		if g.Phase() == PhasePlaying && (p.X < 0 || p.Y < 0 || p.Right() > s.CanvasWidth || p.Bottom() > s.CanvasHeight) {
			t.Fatalf("player out of bounds: %+v", p.Rect)
		}
		for _, e := range w.Enemies {
			if e.IsDestroyed() || e.Y > s.CanvasHeight {
				t.Fatalf("stale enemy left in world: %+v", e.Rect)
			}
		}
	}
}

func TestSnapshotConcurrentReads(t *testing.T) {
	g, _ := playingGame(t)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				if snap := g.Snapshot(); snap == nil {
					t.Error("nil snapshot")
					return
				}
			}
		}
	}()

	for range 500 {
		g.Fire()
		g.Tick(time.Second / 60)
	}
	close(done)
	wg.Wait()

	if g.Snapshot().Frame == 0 {
		t.Errorf("snapshot frame not advanced")
	}
}
