// Package game is the rendering-agnostic core: world state, the phase machine,
// collision rules and wave spawning. A host drives it by calling Tick once per
// frame from a single goroutine and by forwarding player intents.
package game

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyshooter/internal/object"
	"github.com/tomz197/skyshooter/internal/physics"
)

// Options configures a new Game.
type Options struct {
	Settings Settings
	Rand     *rand.Rand  // Nil seeds from the clock
	Logger   *log.Logger // Nil uses the default logger
	Assets   int         // Number of Latch().Done calls before leaving Loading
}

// Game owns the world and its phase. All methods except Snapshot and the
// returned Latch must be called from the goroutine that calls Tick.
type Game struct {
	settings Settings
	world    *World
	phase    Phase
	frame    uint64

	rng      *rand.Rand
	spawner  *Spawner
	resolver *Resolver

	countdown Countdown
	latch     *Latch
	inbox     chan []error
	failed    []error

	pointer    physics.Vector2
	hasPointer bool

	listeners []Listener
	logger    *log.Logger
	snapshot  atomic.Pointer[Snapshot]
}

// New validates the settings and returns a game in the Loading phase.
func New(opts Options) (*Game, error) {
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	g := &Game{
		settings: opts.Settings,
		world:    NewWorld(opts.Settings),
		phase:    PhaseLoading,
		rng:      rng,
		spawner:  NewSpawner(opts.Settings, rng),
		resolver: NewResolver(opts.Settings, rng),
		inbox:    make(chan []error, 1),
		logger:   logger,
	}
	g.latch = NewLatch(opts.Assets, g.assetsDone)
	g.publish()
	return g, nil
}

// Latch returns the barrier asset loaders report to.
func (g *Game) Latch() *Latch {
	return g.latch
}

// Settings returns the settings the game was created with.
func (g *Game) Settings() Settings {
	return g.settings
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Subscribe registers l for all future events.
func (g *Game) Subscribe(l Listener) {
	g.listeners = append(g.listeners, l)
}

// assetsDone runs on whichever goroutine completed the latch.
func (g *Game) assetsDone(errs []error) {
	g.inbox <- errs
}

// Tick advances the game by one frame. elapsed drives the countdown timer;
// entity motion is measured in frames.
func (g *Game) Tick(elapsed time.Duration) {
	g.frame++

	select {
	case errs := <-g.inbox:
		g.finishLoading(errs)
	default:
	}

	switch g.phase {
	case PhaseCountdown:
		if g.countdown.Advance(elapsed) {
			g.applyPointer()
			g.setPhase(PhasePlaying)
		}
	case PhasePlaying:
		g.step(1)
	}

	g.publish()
}

func (g *Game) finishLoading(errs []error) {
	if g.phase != PhaseLoading {
		return
	}
	g.failed = errs
	for _, err := range errs {
		g.logger.Warn("asset failed to load", "err", err)
	}
	g.logger.Debug("assets ready", "failed", len(errs))

	g.setPhase(PhaseMenu)
	g.emit(Event{Type: EventAssetsReady, Failed: errs})
}

func (g *Game) step(dt float64) {
	w := g.world

	Advance(w, g.settings, dt)
	w.Enemies = g.spawner.SpawnWaveIfEmpty(w.Enemies)
	g.resolver.EnemyShoot(w)

	out := g.resolver.Resolve(w)
	if out.ScoreDelta != 0 {
		g.emit(Event{Type: EventScoreChanged})
	}
	if out.LivesLost > 0 {
		g.logger.Debug("player hit", "lost", out.LivesLost, "lives", w.Lives())
	}

	if w.Lives() == 0 {
		g.gameOver()
	}
}

func (g *Game) gameOver() {
	w := g.world
	w.Running = false
	raised := w.RecordHighScore()

	g.logger.Info("game over", "score", w.Score, "high", w.HighScore)
	g.setPhase(PhaseGameOver)
	g.emit(Event{Type: EventGameOver})
	if raised {
		g.emit(Event{Type: EventHighScoreUpdated})
	}
}

// SetPlayerPosition records the pointer position in canvas units. The player is
// centred on it during play; outside play it is applied when play begins.
func (g *Game) SetPlayerPosition(x, y float64) {
	g.pointer = physics.Vector2{X: x, Y: y}
	g.hasPointer = true
	if g.phase == PhasePlaying {
		g.applyPointer()
		g.world.Player.ClampInto(g.settings.CanvasWidth, g.settings.CanvasHeight)
		g.publish()
	}
}

// NudgePlayer moves the pointer by (dx, dy) from the player's centre.
func (g *Game) NudgePlayer(dx, dy float64) {
	c := g.world.Player.Center()
	if g.hasPointer && g.phase != PhasePlaying {
		c = g.pointer
	}
	g.SetPlayerPosition(c.X+dx, c.Y+dy)
}

func (g *Game) applyPointer() {
	if g.hasPointer {
		g.world.Player.MoveTo(g.pointer.X, g.pointer.Y)
	}
}

// Fire spawns a player bullet. Ignored outside play.
func (g *Game) Fire() {
	if g.phase != PhasePlaying {
		return
	}
	s := g.settings
	b := object.NewPlayerBullet(g.world.Player, s.BulletWidth, s.BulletHeight, s.BulletSpeed)
	g.world.Bullets = append(g.world.Bullets, b)
	g.emit(Event{Type: EventFire})
	g.publish()
}

// Start leaves the menu and begins the countdown.
func (g *Game) Start() {
	if g.phase != PhaseMenu {
		return
	}
	g.beginRound()
}

// Restart begins a new round after a game over. It also re-arms a cancelled
// countdown.
func (g *Game) Restart() {
	switch {
	case g.phase == PhaseGameOver:
	case g.phase == PhaseCountdown && !g.countdown.Active():
	default:
		return
	}
	g.beginRound()
}

// ReturnToMenu abandons the current round. Ignored while loading.
func (g *Game) ReturnToMenu() {
	if g.phase == PhaseLoading || g.phase == PhaseMenu {
		return
	}
	g.countdown.Cancel()
	g.world.Running = false
	g.setPhase(PhaseMenu)
}

// CancelCountdown stops a pending countdown. The game stays in the countdown
// phase, frozen, until Start or Restart re-arms it or ReturnToMenu leaves.
func (g *Game) CancelCountdown() {
	if g.phase != PhaseCountdown {
		return
	}
	g.countdown.Cancel()
	g.logger.Debug("countdown cancelled")
	g.publish()
}

func (g *Game) beginRound() {
	s := g.settings
	w := g.world

	w.Reset(s)
	w.Enemies = append(w.Enemies, g.spawner.CreateWave(s.InitialWave)...)

	g.countdown.Start(s.CountdownTicks, s.CountdownInterval)
	g.setPhase(PhaseCountdown)

	if s.CountdownTicks == 0 {
		g.countdown.Advance(0)
		g.applyPointer()
		g.setPhase(PhasePlaying)
	}
	g.publish()
}

func (g *Game) setPhase(p Phase) {
	if g.phase == p {
		return
	}
	g.logger.Debug("phase", "from", g.phase, "to", p)
	g.phase = p
	g.emit(Event{Type: EventPhaseChanged})
	g.publish()
}

func (g *Game) emit(ev Event) {
	ev.Phase = g.phase
	ev.Score = g.world.Score
	ev.HighScore = g.world.HighScore
	for _, l := range g.listeners {
		l.HandleEvent(ev)
	}
}

// String implements fmt.Stringer for log output.
func (g *Game) String() string {
	return fmt.Sprintf("game{phase=%s score=%d lives=%d}", g.phase, g.world.Score, g.world.Lives())
}
