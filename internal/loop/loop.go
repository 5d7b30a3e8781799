// Package loop runs a single game on the local terminal with the ANSI renderer.
package loop

import (
	"bufio"
	"context"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyshooter/internal/config"
	"github.com/tomz197/skyshooter/internal/draw"
	"github.com/tomz197/skyshooter/internal/game"
	"github.com/tomz197/skyshooter/internal/loop/client"
	"github.com/tomz197/skyshooter/internal/loop/server"
)

// Options configures a local game.
type Options struct {
	Settings     game.Settings
	Rand         *rand.Rand
	Logger       *log.Logger
	Listeners    []game.Listener
	TermSizeFunc draw.TermSizeFunc // Nil reads the size of stdout
}

// Run starts the Input -> Update -> Draw cycle for one local player.
// The player gets a private registry, so the leaderboard only holds this
// process's games. Blocks until the player quits or ctx is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	reg := server.NewServer(logger)
	c, err := client.NewClient(reg, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     config.GetEnv("USER", "player"),
		Settings:     opts.Settings,
		Rand:         opts.Rand,
		Logger:       logger,
		Listeners:    opts.Listeners,
	})
	if err != nil {
		return err
	}

	return c.Run(ctx)
}
