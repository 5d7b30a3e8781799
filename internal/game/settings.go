package game

import (
	"fmt"
	"time"

	"github.com/tomz197/skyshooter/internal/config"
	lc "github.com/tomz197/skyshooter/internal/loop/config"
	"github.com/tomz197/skyshooter/internal/object"
)

// Settings are the tunable inputs of a game. Speeds are in canvas units per frame.
type Settings struct {
	CanvasWidth  float64
	CanvasHeight float64

	PlayerWidth  float64
	PlayerHeight float64
	EnemyWidth   float64
	EnemyHeight  float64
	BulletWidth  float64
	BulletHeight float64

	PlayerSpeed      float64
	PlayerStartY     float64
	BulletSpeed      float64
	EnemyBulletSpeed float64
	EnemySpeed       float64

	InitialLives int
	KillScore    int

	InitialWave int     // Enemies spawned when a round starts
	WaveMin     int     // Inclusive lower bound of a random wave
	WaveMax     int     // Inclusive upper bound of a random wave
	SpawnJitter float64 // Max extra height above the canvas for new enemies
	ShootChance float64 // Probability per enemy per frame of firing

	CountdownTicks    int
	CountdownInterval time.Duration
}

// DefaultSettings returns the standard 800x600 game.
func DefaultSettings() Settings {
	return Settings{
		CanvasWidth:       lc.CanvasWidth,
		CanvasHeight:      lc.CanvasHeight,
		PlayerWidth:       lc.PlayerWidth,
		PlayerHeight:      lc.PlayerHeight,
		EnemyWidth:        lc.EnemyWidth,
		EnemyHeight:       lc.EnemyHeight,
		BulletWidth:       lc.BulletWidth,
		BulletHeight:      lc.BulletHeight,
		PlayerSpeed:       lc.PlayerSpeed,
		PlayerStartY:      lc.PlayerStartY,
		BulletSpeed:       lc.BulletSpeed,
		EnemyBulletSpeed:  lc.EnemyBulletSpeed,
		EnemySpeed:        lc.EnemySpeed,
		InitialLives:      lc.InitialLives,
		KillScore:         lc.KillScore,
		InitialWave:       lc.InitialWave,
		WaveMin:           lc.WaveMin,
		WaveMax:           lc.WaveMax,
		SpawnJitter:       lc.SpawnJitter,
		ShootChance:       lc.ShootChance,
		CountdownTicks:    lc.CountdownTicks,
		CountdownInterval: lc.CountdownInterval,
	}
}

// ApplyPreset overrides the difficulty knobs set in p. Zero fields keep the current value.
func (s Settings) ApplyPreset(p config.Preset) Settings {
	if p.EnemySpeed > 0 {
		s.EnemySpeed = p.EnemySpeed
	}
	if p.ShootChance > 0 {
		s.ShootChance = p.ShootChance
	}
	if p.WaveMin > 0 {
		s.WaveMin = p.WaveMin
	}
	if p.WaveMax > 0 {
		s.WaveMax = p.WaveMax
	}
	return s
}

// Bounds returns the play field size.
func (s Settings) Bounds() object.Bounds {
	return object.Bounds{Width: s.CanvasWidth, Height: s.CanvasHeight}
}

// Validate reports the first setting that makes the game unplayable.
// The returned error wraps ErrInvalidConfiguration.
func (s Settings) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"canvas width", s.CanvasWidth},
		{"canvas height", s.CanvasHeight},
		{"player width", s.PlayerWidth},
		{"player height", s.PlayerHeight},
		{"enemy width", s.EnemyWidth},
		{"enemy height", s.EnemyHeight},
		{"bullet width", s.BulletWidth},
		{"bullet height", s.BulletHeight},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfiguration, p.name, p.value)
		}
	}

	if s.EnemyWidth > s.CanvasWidth {
		return fmt.Errorf("%w: enemy width %v exceeds canvas width %v", ErrInvalidConfiguration, s.EnemyWidth, s.CanvasWidth)
	}
	if s.PlayerSpeed < 0 || s.BulletSpeed < 0 || s.EnemyBulletSpeed < 0 || s.EnemySpeed < 0 {
		return fmt.Errorf("%w: speeds must not be negative", ErrInvalidConfiguration)
	}
	if s.EnemySpeed == 0 || s.BulletSpeed == 0 || s.EnemyBulletSpeed == 0 {
		return fmt.Errorf("%w: enemies and bullets must move", ErrInvalidConfiguration)
	}
	if s.InitialLives <= 0 {
		return fmt.Errorf("%w: initial lives must be positive, got %d", ErrInvalidConfiguration, s.InitialLives)
	}
	if s.KillScore < 0 {
		return fmt.Errorf("%w: kill score must not be negative, got %d", ErrInvalidConfiguration, s.KillScore)
	}
	if s.WaveMin <= 0 || s.WaveMax < s.WaveMin {
		return fmt.Errorf("%w: wave range [%d,%d] is empty", ErrInvalidConfiguration, s.WaveMin, s.WaveMax)
	}
	if s.InitialWave <= 0 {
		return fmt.Errorf("%w: initial wave must be positive, got %d", ErrInvalidConfiguration, s.InitialWave)
	}
	if s.SpawnJitter < 0 {
		return fmt.Errorf("%w: spawn jitter must not be negative, got %v", ErrInvalidConfiguration, s.SpawnJitter)
	}
	if s.ShootChance < 0 || s.ShootChance > 1 {
		return fmt.Errorf("%w: shoot chance %v outside [0,1]", ErrInvalidConfiguration, s.ShootChance)
	}
	if s.CountdownTicks < 0 {
		return fmt.Errorf("%w: countdown ticks must not be negative, got %d", ErrInvalidConfiguration, s.CountdownTicks)
	}
	if s.CountdownTicks > 0 && s.CountdownInterval <= 0 {
		return fmt.Errorf("%w: countdown interval must be positive", ErrInvalidConfiguration)
	}
	return nil
}
