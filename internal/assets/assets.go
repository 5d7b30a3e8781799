// Package assets loads the sprites used to draw the player, enemies and the
// starfield background.
package assets

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/tomz197/skyshooter/internal/draw"
	"github.com/tomz197/skyshooter/internal/game"
	"github.com/tomz197/skyshooter/internal/object"
)

// Sprite names.
const (
	Player     = "player"
	Enemy      = "enemy"
	Background = "background"
)

// Names lists every sprite the game asks for.
var Names = []string{Enemy, Player, Background}

//go:embed sprites/*.txt
var embedded embed.FS

// Builtin returns the sprites compiled into the binary.
func Builtin() fs.FS {
	sub, err := fs.Sub(embedded, "sprites")
	if err != nil {
		panic(err) // embed paths are fixed at compile time
	}
	return sub
}

// Library holds loaded sprites. Missing sprites are nil, which renderers draw
// as plain rects.
type Library struct {
	mu      sync.RWMutex
	sprites map[string]*draw.Sprite
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{sprites: make(map[string]*draw.Sprite)}
}

// Load reads each named sprite from fsys on its own goroutine and calls done
// once per name, with a *game.AssetLoadError on failure. It returns immediately.
func (l *Library) Load(ctx context.Context, fsys fs.FS, names []string, done func(error)) {
	for _, name := range names {
		go func() {
			done(l.load(ctx, fsys, name))
		}()
	}
}

// LoadInto is Load reporting to a game's loading latch.
func (l *Library) LoadInto(ctx context.Context, fsys fs.FS, latch *game.Latch) {
	l.Load(ctx, fsys, Names, latch.Done)
}

func (l *Library) load(ctx context.Context, fsys fs.FS, name string) error {
	if err := ctx.Err(); err != nil {
		return &game.AssetLoadError{Name: name, Err: err}
	}

	data, err := fs.ReadFile(fsys, name+".txt")
	if err != nil {
		return &game.AssetLoadError{Name: name, Err: err}
	}
	sprite, err := draw.ParseSprite(string(data))
	if err != nil {
		return &game.AssetLoadError{Name: name, Err: fmt.Errorf("parse: %w", err)}
	}

	l.mu.Lock()
	l.sprites[name] = sprite
	l.mu.Unlock()
	return nil
}

// Sprite returns the named sprite, or nil if it has not loaded.
func (l *Library) Sprite(name string) *draw.Sprite {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sprites[name]
}

// Sprites returns the loaded sprites in the form object.Draw expects.
func (l *Library) Sprites() object.Sprites {
	return object.Sprites{
		Player:     l.Sprite(Player),
		Enemy:      l.Sprite(Enemy),
		Background: l.Sprite(Background),
	}
}
