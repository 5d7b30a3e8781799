package client

import (
	"fmt"
	"time"

	"github.com/tomz197/skyshooter/internal/assets"
	"github.com/tomz197/skyshooter/internal/draw"
	"github.com/tomz197/skyshooter/internal/game"
	"github.com/tomz197/skyshooter/internal/loop/config"
	"github.com/tomz197/skyshooter/internal/loop/server"
	"github.com/tomz197/skyshooter/internal/object"
)

var titleArt = []string{
	`  ___ _  ____   __  ___ _  _  ___   ___ _____ ___ ___  `,
	` / __| |/ /\ \ / / / __| || |/ _ \ / _ \_   _| __| _ \ `,
	` \__ \ ' <  \ V /  \__ \ __ | (_) | (_) || | | _||   / `,
	` |___/_|\_\  |_|   |___/_||_|\___/ \___/ |_| |___|_|_\ `,
	`                                                       `,
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	`                                              `,
}

// layerColors maps each snapshot layer to its pen.
var layerColors = [...]draw.Color{
	game.LayerEnemies:      draw.ColorRed,
	game.LayerBullets:      draw.ColorYellow,
	game.LayerEnemyBullets: draw.ColorGreen,
	game.LayerPlayer:       draw.ColorCyan,
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	snap := c.game.Snapshot()

	// On phase or overlay transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	if snap.Phase != c.state.prevPhase ||
		c.state.isInactive != c.state.wasInactive ||
		c.state.shuttingDown != c.state.wasShuttingDown {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevPhase = snap.Phase
		c.state.wasInactive = c.state.isInactive
		c.state.wasShuttingDown = c.state.shuttingDown
	}

	c.canvas.Clear()
	drawWorld(c.canvas, snap, c.library)

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	// Draw UI overlay
	c.drawUI(snap, c.registry.Stats())

	return c.chunkWriter.Flush()
}

// drawWorld draws the background and, outside the title screens, every entity.
func drawWorld(canvas *draw.Canvas, snap *game.Snapshot, library *assets.Library) {
	ctx := object.DrawContext{Canvas: canvas, Sprites: library.Sprites()}

	if bg := ctx.Sprites.Background; bg != nil {
		canvas.SetPen(draw.ColorGray)
		canvas.DrawSprite(0, 0, snap.Canvas.Width, snap.Canvas.Height, bg)
	}

	switch snap.Phase {
	case game.PhaseCountdown, game.PhasePlaying, game.PhaseGameOver:
		snap.Draw(ctx, func(l game.Layer) {
			canvas.SetPen(layerColors[l])
		})
	}
}

// drawUI draws the UI overlay for the current phase.
func (c *Client) drawUI(snap *game.Snapshot, stats *server.Stats) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.shuttingDown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch snap.Phase {
	case game.PhaseLoading:
		c.drawLoadingScreen(centerX, centerY)
	case game.PhaseMenu:
		c.drawStartScreen(centerX, centerY, snap, stats)
	case game.PhaseCountdown:
		c.drawPlayingHUD(termWidth, termHeight, snap, stats)
		c.drawCountdown(centerX, centerY, snap)
	case game.PhasePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snap, stats)
	case game.PhaseGameOver:
		c.drawGameOverScreen(centerX, centerY, snap, stats)
	}
}

// writeCentered writes s centred on column centerX and marks it dirty so the
// canvas repaints the cells once the text goes away.
func (c *Client) writeCentered(centerX, row int, s string) {
	col := centerX - len([]rune(s))/2
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, len([]rune(s)))
}

func (c *Client) drawLines(centerX, startRow int, lines []string) {
	width := 0
	for _, line := range lines {
		width = max(width, len(line))
	}
	for i, line := range lines {
		col := centerX - width/2
		c.chunkWriter.WriteAt(col, startRow+i, line)
		c.canvas.MarkTextDirty(col, startRow+i, len(line))
	}
}

// drawLoadingScreen shows progress while sprites load.
func (c *Client) drawLoadingScreen(centerX, centerY int) {
	total := len(assets.Names)
	done := total - c.game.Latch().Remaining()
	c.writeCentered(centerX, centerY, fmt.Sprintf("Loading assets %d/%d", done, total))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeCentered(centerX, centerY, msg)
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int, snap *game.Snapshot, stats *server.Stats) {
	titleStartY := centerY - 9
	c.drawLines(centerX, titleStartY, titleArt)

	row := titleStartY + len(titleArt) + 1
	c.writeCentered(centerX, row, "~ Shoot them down before they reach you ~")

	controlsY := row + 2
	c.writeCentered(centerX, controlsY, "Controls")
	c.drawLines(centerX, controlsY+1, []string{
		"Mouse / Arrows / WASD . . Move",
		"Click / SPACE . . . . . . Fire",
		"ESC . . . . . . . . . . . Hold",
		"M . . . . . . . . . . . . Menu",
		"Q . . . . . . . . . . . . Quit",
	})

	// Blinking start prompt
	promptY := controlsY + 7
	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, promptY, ">>  Click to Start  <<")
	} else {
		c.writeCentered(centerX, promptY, "                      ")
	}

	if snap.FailedAssets > 0 {
		c.writeCentered(centerX, promptY+2, fmt.Sprintf("(%d sprites failed to load, using blocks)", snap.FailedAssets))
	}

	c.drawLeaderboard(centerX, promptY+4, stats)
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snap *game.Snapshot, stats *server.Stats) {
	cw := c.chunkWriter

	// High score (top left)
	highText := fmt.Sprintf("High: %-8d", snap.HighScore)
	cw.WriteAt(2, 1, highText)

	// Lives display (top right)
	livesText := fmt.Sprintf("Lives: %-3d", snap.Lives)
	cw.WriteAt(termWidth-len(livesText)-1, 1, livesText)

	// Score display (bottom left)
	scoreText := fmt.Sprintf("Score: %-8d", snap.Score)
	cw.WriteAt(2, termHeight, scoreText)

	// Live players (bottom right)
	playersText := fmt.Sprintf("Players: %-4d", stats.Players)
	cw.WriteAt(termWidth-len(playersText)-1, termHeight, playersText)

	c.canvas.MarkTextDirty(2, 1, len(highText))
	c.canvas.MarkTextDirty(termWidth-len(livesText)-1, 1, len(livesText))
	c.canvas.MarkTextDirty(2, termHeight, len(scoreText))
	c.canvas.MarkTextDirty(termWidth-len(playersText)-1, termHeight, len(playersText))
}

// drawCountdown draws the countdown digit, or the resume hint when paused.
func (c *Client) drawCountdown(centerX, centerY int, snap *game.Snapshot) {
	if snap.Paused {
		c.writeCentered(centerX, centerY-1, "PAUSED")
		c.writeCentered(centerX, centerY+1, "Press SPACE or click to resume")
		return
	}
	c.writeCentered(centerX, centerY, fmt.Sprintf("%d", snap.Countdown))
}

// drawGameOverScreen draws the final score and the restart prompt.
func (c *Client) drawGameOverScreen(centerX, centerY int, snap *game.Snapshot, stats *server.Stats) {
	titleStartY := centerY - 8
	c.drawLines(centerX, titleStartY, gameOverArt)

	row := titleStartY + len(gameOverArt) + 1
	c.writeCentered(centerX, row, fmt.Sprintf("Score: %d", snap.Score))
	c.writeCentered(centerX, row+1, fmt.Sprintf("High score: %d", snap.HighScore))

	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, row+3, ">>  Press ENTER or click to Restart  <<")
	} else {
		c.writeCentered(centerX, row+3, "                                       ")
	}
	c.writeCentered(centerX, row+4, "M for menu, Q to quit")

	c.drawLeaderboard(centerX, row+6, stats)
}

// drawLeaderboard lists the best scores across all sessions.
func (c *Client) drawLeaderboard(centerX, row int, stats *server.Stats) {
	if len(stats.TopScores) == 0 {
		return
	}
	lines := []string{"Top scores"}
	for i, e := range stats.TopScores {
		name := e.Username
		if name == "" {
			name = "anonymous"
		}
		if len(name) > 16 {
			name = name[:16]
		}
		lines = append(lines, fmt.Sprintf("%d. %-16s %6d", i+1, name, e.Score))
	}
	c.drawLines(centerX, row, lines)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %2d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}
