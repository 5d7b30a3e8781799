package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/tomz197/skyshooter/internal/audio"
	"github.com/tomz197/skyshooter/internal/config"
	"github.com/tomz197/skyshooter/internal/game"
	"github.com/tomz197/skyshooter/internal/loop"
	"github.com/tomz197/skyshooter/internal/tui"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	renderer := flag.String("renderer", config.GetEnv("SHOOTER_RENDERER", "ansi"), "renderer: ansi or tcell")
	presetName := flag.String("preset", config.GetEnv("SHOOTER_PRESET", config.DefaultPreset), "difficulty preset")
	seed := flag.Int64("seed", 0, "random seed, 0 seeds from the clock")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	if err := run(*renderer, *presetName, *seed, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(renderer, presetName string, seed int64, mute bool) error {
	// The terminal belongs to the game, so logs only go to a file.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("SHOOTER_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "game")

	presets, err := config.LoadPresets(config.GetEnv("SHOOTER_PRESETS", ""))
	if err != nil {
		return err
	}
	preset, err := presets.Lookup(presetName)
	if err != nil {
		return err
	}
	settings := game.DefaultSettings().ApplyPreset(preset)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("preset %s: %w", preset.Name, err)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("starting", "renderer", renderer, "preset", preset.Name, "seed", seed)

	sounds := audio.New(logger)
	if !mute {
		if err := sounds.Init(); err != nil {
			// Non-fatal, the game runs without sound
			logger.Warn("audio initialization failed", "err", err)
		}
		defer sounds.Close()
	}
	listeners := []game.Listener{sounds}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch renderer {
	case "ansi":
		return runANSI(ctx, loop.Options{
			Settings:  settings,
			Rand:      rng,
			Logger:    logger,
			Listeners: listeners,
		})
	case "tcell":
		return runTcell(ctx, tui.Options{
			Settings:  settings,
			Rand:      rng,
			Logger:    logger,
			Listeners: listeners,
		})
	default:
		return fmt.Errorf("unknown renderer %q (want ansi or tcell)", renderer)
	}
}

func runANSI(ctx context.Context, opts loop.Options) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	return loop.Run(ctx, reader, os.Stdout, opts)
}

func runTcell(ctx context.Context, opts tui.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	f, err := tui.New(screen, opts)
	if err != nil {
		return err
	}
	return f.Run(ctx)
}
