// Package tui runs a local game on a tcell screen. Unlike the ANSI client it
// gets native mouse events from tcell instead of parsing escape sequences.
package tui

import (
	"context"
	"fmt"
	"io/fs"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/skyshooter/internal/assets"
	"github.com/tomz197/skyshooter/internal/draw"
	"github.com/tomz197/skyshooter/internal/game"
	"github.com/tomz197/skyshooter/internal/loop/config"
	"github.com/tomz197/skyshooter/internal/object"
)

// palette maps canvas colors to terminal colors.
var palette = [...]tcell.Color{
	draw.ColorNone:   tcell.ColorDefault,
	draw.ColorWhite:  tcell.ColorWhite,
	draw.ColorYellow: tcell.ColorYellow,
	draw.ColorRed:    tcell.ColorRed,
	draw.ColorCyan:   tcell.ColorAqua,
	draw.ColorGreen:  tcell.ColorLime,
	draw.ColorBlue:   tcell.ColorBlue,
	draw.ColorGray:   tcell.ColorGray,
}

var layerColors = [...]draw.Color{
	game.LayerEnemies:      draw.ColorRed,
	game.LayerBullets:      draw.ColorYellow,
	game.LayerEnemyBullets: draw.ColorGreen,
	game.LayerPlayer:       draw.ColorCyan,
}

var textStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)

// Options configures a Frontend.
type Options struct {
	Settings  game.Settings   // Zero value uses game.DefaultSettings
	Assets    fs.FS           // Nil uses the built-in sprites
	Rand      *rand.Rand      // Nil seeds from the clock
	Logger    *log.Logger     // Nil uses the default logger
	Listeners []game.Listener // Extra event listeners, e.g. audio
}

// Frontend drives one game from tcell events and draws it with half blocks.
type Frontend struct {
	screen  tcell.Screen
	game    *game.Game
	library *assets.Library
	assetFS fs.FS
	canvas  *draw.Canvas
	logger  *log.Logger

	running    bool
	buttonDown bool // Primary button held, for click edges
}

// New creates a game drawn on screen. The screen must already be initialized;
// the caller keeps ownership and calls Fini.
func New(screen tcell.Screen, opts Options) (*Frontend, error) {
	settings := opts.Settings
	if settings == (game.Settings{}) {
		settings = game.DefaultSettings()
	}
	assetFS := opts.Assets
	if assetFS == nil {
		assetFS = assets.Builtin()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	g, err := game.New(game.Options{
		Settings: settings,
		Rand:     opts.Rand,
		Logger:   logger,
		Assets:   len(assets.Names),
	})
	if err != nil {
		return nil, err
	}
	for _, l := range opts.Listeners {
		g.Subscribe(l)
	}

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	w, h := screen.Size()

	return &Frontend{
		screen:  screen,
		game:    g,
		library: assets.NewLibrary(),
		assetFS: assetFS,
		canvas:  draw.NewScaledCanvas(w, h, settings.CanvasWidth, settings.CanvasHeight),
		logger:  logger,
		running: true,
	}, nil
}

// Game returns the frontend's game.
func (f *Frontend) Game() *game.Game {
	return f.game
}

// Run loads the sprites and runs the frame loop until the player quits or
// ctx is cancelled.
func (f *Frontend) Run(ctx context.Context) error {
	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	f.library.LoadInto(loadCtx, f.assetFS, f.game.Latch())

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return // Screen finalized
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()
	last := time.Now()

	for f.running {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			f.handleEvent(ev)
		case now := <-ticker.C:
			f.game.Tick(now.Sub(last))
			last = now
			f.draw()
		}
	}
	return nil
}

func (f *Frontend) handleEvent(ev tcell.Event) {
	g := f.game
	speed := g.Settings().PlayerSpeed

	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyCtrlC:
			f.running = false
		case tcell.KeyEscape:
			g.CancelCountdown()
		case tcell.KeyEnter:
			f.activate(false)
		case tcell.KeyLeft:
			g.NudgePlayer(-speed, 0)
		case tcell.KeyRight:
			g.NudgePlayer(speed, 0)
		case tcell.KeyUp:
			g.NudgePlayer(0, -speed)
		case tcell.KeyDown:
			g.NudgePlayer(0, speed)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				f.running = false
			case ' ':
				f.activate(true)
			case 'm':
				g.ReturnToMenu()
			case 'a', 'h':
				g.NudgePlayer(-speed, 0)
			case 'd', 'l':
				g.NudgePlayer(speed, 0)
			case 'w', 'k':
				g.NudgePlayer(0, -speed)
			case 's', 'j':
				g.NudgePlayer(0, speed)
			}
		}

	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := f.canvas.TerminalToLogical(col, row)
		g.SetPlayerPosition(x, y)

		down := ev.Buttons()&tcell.Button1 != 0
		if down && !f.buttonDown {
			f.activate(true)
		}
		f.buttonDown = down

	case *tcell.EventResize:
		w, h := ev.Size()
		f.canvas.Resize(w, h)
		f.screen.Sync()
	}
}

// activate maps the primary action to the current phase. fire is false for
// Enter, which never shoots.
func (f *Frontend) activate(fire bool) {
	g := f.game
	switch g.Phase() {
	case game.PhaseMenu:
		g.Start()
	case game.PhaseCountdown, game.PhaseGameOver:
		g.Restart()
	case game.PhasePlaying:
		if fire {
			g.Fire()
		}
	}
}

// draw rasterizes the snapshot on the canvas and copies it to the screen.
func (f *Frontend) draw() {
	snap := f.game.Snapshot()
	canvas := f.canvas
	canvas.Clear()

	sprites := f.library.Sprites()
	if sprites.Background != nil {
		canvas.SetPen(draw.ColorGray)
		canvas.DrawSprite(0, 0, snap.Canvas.Width, snap.Canvas.Height, sprites.Background)
	}
	switch snap.Phase {
	case game.PhaseCountdown, game.PhasePlaying, game.PhaseGameOver:
		ctx := object.DrawContext{Canvas: canvas, Sprites: sprites}
		snap.Draw(ctx, func(l game.Layer) {
			canvas.SetPen(layerColors[l])
		})
	}

	f.screen.Clear()
	for row := 0; row < canvas.TerminalHeight(); row++ {
		for col := 0; col < canvas.TerminalWidth(); col++ {
			top, bottom := canvas.At(col, row*2), canvas.At(col, row*2+1)
			switch {
			case top == draw.ColorNone && bottom == draw.ColorNone:
				continue
			case bottom == draw.ColorNone:
				f.screen.SetContent(col, row, '▀', nil, tcell.StyleDefault.Foreground(palette[top]))
			case top == draw.ColorNone:
				f.screen.SetContent(col, row, '▄', nil, tcell.StyleDefault.Foreground(palette[bottom]))
			default:
				style := tcell.StyleDefault.Foreground(palette[top]).Background(palette[bottom])
				f.screen.SetContent(col, row, '▀', nil, style)
			}
		}
	}

	f.drawUI(snap)
	f.screen.Show()
}

func (f *Frontend) drawUI(snap *game.Snapshot) {
	w, h := f.screen.Size()
	cx, cy := w/2, h/2

	switch snap.Phase {
	case game.PhaseLoading:
		total := len(assets.Names)
		f.centered(cx, cy, fmt.Sprintf("Loading assets %d/%d", total-f.game.Latch().Remaining(), total))
	case game.PhaseMenu:
		f.centered(cx, cy-2, "SKY SHOOTER")
		f.centered(cx, cy, "Click to Start")
		f.centered(cx, cy+2, "Mouse or arrows to move, click or SPACE to fire, Q to quit")
		if snap.FailedAssets > 0 {
			f.centered(cx, cy+4, fmt.Sprintf("(%d sprites failed to load)", snap.FailedAssets))
		}
	case game.PhaseCountdown:
		f.hud(w, h, snap)
		if snap.Paused {
			f.centered(cx, cy, "PAUSED - click to resume")
		} else {
			f.centered(cx, cy, fmt.Sprintf("%d", snap.Countdown))
		}
	case game.PhasePlaying:
		f.hud(w, h, snap)
	case game.PhaseGameOver:
		f.centered(cx, cy-2, "GAME OVER")
		f.centered(cx, cy, fmt.Sprintf("Score: %d", snap.Score))
		f.centered(cx, cy+1, fmt.Sprintf("High score: %d", snap.HighScore))
		f.centered(cx, cy+3, "ENTER or click to restart, M for menu")
	}
}

func (f *Frontend) hud(w, h int, snap *game.Snapshot) {
	f.text(1, 0, fmt.Sprintf("High: %d", snap.HighScore))
	lives := fmt.Sprintf("Lives: %d", snap.Lives)
	f.text(w-len(lives)-1, 0, lives)
	f.text(1, h-1, fmt.Sprintf("Score: %d", snap.Score))
}

func (f *Frontend) centered(cx, row int, s string) {
	f.text(cx-len([]rune(s))/2, row, s)
}

func (f *Frontend) text(col, row int, s string) {
	for i, r := range []rune(s) {
		f.screen.SetContent(col+i, row, r, nil, textStyle)
	}
}
