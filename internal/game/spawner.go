package game

import (
	"math/rand"

	"github.com/tomz197/skyshooter/internal/object"
)

// Spawner creates enemy waves above the visible canvas.
type Spawner struct {
	settings Settings
	rng      *rand.Rand
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(s Settings, rng *rand.Rand) *Spawner {
	return &Spawner{settings: s, rng: rng}
}

// WaveSize draws a wave size uniformly from [WaveMin, WaveMax].
func (sp *Spawner) WaveSize() int {
	return sp.settings.WaveMin + sp.rng.Intn(sp.settings.WaveMax-sp.settings.WaveMin+1)
}

// CreateWave returns n enemies with x in [0, width-enemyWidth) and
// y in (-enemyHeight-jitter, -enemyHeight].
func (sp *Spawner) CreateWave(n int) []*object.Enemy {
	s := sp.settings
	wave := make([]*object.Enemy, 0, n)
	for range n {
		x := sp.rng.Float64() * (s.CanvasWidth - s.EnemyWidth)
		y := -s.EnemyHeight - sp.rng.Float64()*s.SpawnJitter
		wave = append(wave, object.NewEnemy(x, y, s.EnemyWidth, s.EnemyHeight, s.EnemySpeed))
	}
	return wave
}

// SpawnWaveIfEmpty appends a random wave when no enemies are left and returns
// the collection unchanged otherwise.
func (sp *Spawner) SpawnWaveIfEmpty(enemies []*object.Enemy) []*object.Enemy {
	if len(enemies) > 0 {
		return enemies
	}
	return append(enemies, sp.CreateWave(sp.WaveSize())...)
}
