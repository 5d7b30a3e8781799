// Package config centralizes all tunable game parameters.
package config

import "time"

// Canvas resolution - the logical play field in canvas units.
// Actual rendering scales to fit terminal size.
const (
	CanvasWidth  = 800
	CanvasHeight = 600
)

// Entity base sizes
const (
	PlayerWidth  = 50
	PlayerHeight = 50
	EnemyWidth   = 50
	EnemyHeight  = 50
	BulletWidth  = 5
	BulletHeight = 10
)

// Speeds in canvas units per frame (60 Hz)
const (
	PlayerSpeed      = 5.0 // Keyboard movement; the pointer sets the position directly
	BulletSpeed      = 4.0
	EnemyBulletSpeed = 4.0
	EnemySpeed       = 1.0
)

// Player
const (
	InitialLives = 5
	PlayerStartY = CanvasHeight - 70
)

// Scoring
const (
	KillScore = 10
)

// Spawning
const (
	InitialWave = 5
	WaveMin     = 5
	WaveMax     = 10
	SpawnJitter = 100.0 // Max extra distance above the canvas for new enemies
	ShootChance = 0.008 // Per enemy, per frame
)

// Countdown before a round starts
const (
	CountdownTicks    = 3
	CountdownInterval = time.Second
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Terminal render limits
const (
	MaxTermWidth  = 160
	MaxTermHeight = 60
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Leaderboard
const (
	TopScoresCount = 5 // Entries shown on the menu and game-over screens
)
