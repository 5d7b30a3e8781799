package client

import (
	"bufio"
	"context"
	"io"
	"io/fs"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyshooter/internal/assets"
	"github.com/tomz197/skyshooter/internal/draw"
	"github.com/tomz197/skyshooter/internal/game"
	"github.com/tomz197/skyshooter/internal/input"
	"github.com/tomz197/skyshooter/internal/loop/config"
	"github.com/tomz197/skyshooter/internal/loop/server"
)

// Client runs one game for a single connection: it reads input, ticks the
// game and renders it to an ANSI terminal.
type Client struct {
	registry     server.Registry
	session      *server.Session
	game         *game.Game
	library      *assets.Library
	assetFS      fs.FS
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Settings     game.Settings   // Zero value uses game.DefaultSettings
	Assets       fs.FS           // Nil uses the built-in sprites
	Rand         *rand.Rand      // Nil seeds from the clock
	Logger       *log.Logger     // Nil uses the default logger
	Listeners    []game.Listener // Extra event listeners, e.g. audio
}

// NewClient creates a game for the connection and registers it with the registry.
func NewClient(reg server.Registry, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
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

	session := reg.Register(opts.Username)
	g.Subscribe(game.ListenerFunc(func(ev game.Event) {
		if ev.Type == game.EventGameOver {
			reg.ReportScore(session.ID, ev.Score)
		}
	}))
	for _, l := range opts.Listeners {
		g.Subscribe(l)
	}

	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, settings.CanvasWidth, settings.CanvasHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	return &Client{
		registry:     reg,
		session:      session,
		game:         g,
		library:      assets.NewLibrary(),
		assetFS:      assetFS,
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		logger:       logger.With("session", session.ID),
	}, nil
}

// Game returns the client's game.
func (c *Client) Game() *game.Game {
	return c.game
}

// Run starts the client loop. Blocks until the player quits, the session is
// idle for too long, the server shuts down or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	defer c.registry.Unregister(c.session.ID)

	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.library.LoadInto(loadCtx, c.assetFS, c.game.Latch())

	lastTime := time.Now()

	for c.state.Running {
		select {
		case <-ctx.Done():
			c.state.Running = false
			continue
		default:
		}

		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput()

		// Check for server events
		c.processServerEvents()

		// Handle screen resize
		c.updateScreen()

		// Advance the game
		c.game.Tick(c.state.delta)

		if c.state.shuttingDown {
			c.updateShutdownState()
		}

		// Draw frame
		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and forwards intents to the game.
func (c *Client) processInput() {
	c.state.prevInput = c.state.Input
	c.state.Input = input.ReadInput(c.inputStream)
	c.handleInput(time.Now())
}

func (c *Client) handleInput(now time.Time) {
	in := c.state.Input
	if in.Active() {
		c.lastInput = now
		c.state.isInactive = false
	} else if now.Sub(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting idle session")
		c.state.Running = false
	} else if now.Sub(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	press := c.state.pressed()
	if press.Quit {
		c.state.Running = false
		return
	}
	if c.state.shuttingDown {
		return
	}

	g := c.game
	clicked := false
	if p := in.Pointer; p != nil {
		x, y := c.canvas.TerminalToLogical(p.Col, p.Row)
		g.SetPlayerPosition(x, y)
		clicked = p.Clicked
	}

	speed := g.Settings().PlayerSpeed
	var dx, dy float64
	if in.Left {
		dx -= speed
	}
	if in.Right {
		dx += speed
	}
	if in.Up {
		dy -= speed
	}
	if in.Down {
		dy += speed
	}
	if dx != 0 || dy != 0 {
		g.NudgePlayer(dx, dy)
	}

	switch g.Phase() {
	case game.PhaseMenu:
		if press.Fire || press.Enter || clicked {
			g.Start()
		}
	case game.PhaseCountdown:
		if press.Escape {
			g.CancelCountdown()
		} else if press.Fire || press.Enter || clicked {
			g.Restart() // Only re-arms a cancelled countdown
		} else if press.Menu {
			g.ReturnToMenu()
		}
	case game.PhasePlaying:
		if press.Fire || clicked {
			g.Fire()
		}
		if press.Menu {
			g.ReturnToMenu()
		}
	case game.PhaseGameOver:
		if press.Enter || press.Fire || clicked {
			g.Restart()
		} else if press.Menu {
			g.ReturnToMenu()
		}
	}
}

// processServerEvents handles events from the registry.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.session.EventsCh:
			if !ok {
				// Registry closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.shuttingDown = true
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
