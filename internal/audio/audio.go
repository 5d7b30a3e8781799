// Package audio plays short synthesized effects for game events.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/skyshooter/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// Sounds is a game.Listener that mixes an effect for each interesting event.
// Before Init, or when Init failed, it stays silent.
type Sounds struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	music       *beep.Ctrl // Background loop, nil when stopped
	logger      *log.Logger
}

// New creates a silent sound player.
func New(logger *log.Logger) *Sounds {
	if logger == nil {
		logger = log.Default()
	}
	return &Sounds{mixer: &beep.Mixer{}, logger: logger}
}

// Init opens the speaker. Failure is not fatal: the game runs without sound.
func (s *Sounds) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Close silences everything still playing.
func (s *Sounds) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.music = nil
	s.initialized = false
}

// HandleEvent implements game.Listener. Besides the effects, the background
// track starts once assets are ready or a round counts down, and stops at game
// over.
func (s *Sounds) HandleEvent(ev game.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()
	switch {
	case ev.Type == game.EventAssetsReady,
		ev.Type == game.EventPhaseChanged && ev.Phase == game.PhaseCountdown:
		if s.music == nil {
			s.music = &beep.Ctrl{Streamer: Music()}
			s.mixer.Add(s.music)
		}
	case ev.Type == game.EventGameOver:
		if s.music != nil {
			// The mixer drops a streamer once it reports no more samples
			s.music.Streamer = nil
			s.music = nil
		}
	}
	if st := Effect(ev); st != nil {
		s.mixer.Add(st)
		s.logger.Debug("sound", "event", ev.Type)
	}
}

// Playing reports whether the background track is running.
func (s *Sounds) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.music != nil
}

// Effect returns the finite streamer played for ev, or nil for silent events.
func Effect(ev game.Event) beep.Streamer {
	switch ev.Type {
	case game.EventFire:
		return tone(generators.SquareTone, 880, 40*time.Millisecond, -3)
	case game.EventScoreChanged:
		return tone(generators.SquareTone, 220, 60*time.Millisecond, -2)
	case game.EventAssetsReady:
		return melody(80*time.Millisecond, 660, 880)
	case game.EventGameOver:
		return melody(150*time.Millisecond, 440, 330, 220)
	case game.EventHighScoreUpdated:
		return melody(90*time.Millisecond, 523.25, 659.25, 783.99, 1046.5)
	default:
		return nil
	}
}

// bassline is one bar of the background track.
var bassline = []float64{110, 110, 164.81, 146.83, 110, 110, 130.81, 123.47}

// Music returns the background track, looped forever.
func Music() beep.Streamer {
	bar := melody(200*time.Millisecond, bassline...)
	if bar == nil {
		return nil
	}
	// Loop needs to seek back to the start, generators cannot
	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(&effects.Volume{Streamer: bar, Base: 2, Volume: -2})
	return beep.Loop(-1, buf.Streamer(0, buf.Len()))
}

type toneFunc func(sr beep.SampleRate, freq float64) (beep.Streamer, error)

func tone(gen toneFunc, freq float64, d time.Duration, volume float64) beep.Streamer {
	st, err := gen(sampleRate, freq)
	if err != nil {
		return nil
	}
	return &effects.Volume{
		Streamer: beep.Take(sampleRate.N(d), st),
		Base:     2,
		Volume:   volume,
	}
}

func melody(step time.Duration, freqs ...float64) beep.Streamer {
	notes := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		if st := tone(generators.SineTone, f, step, -1); st != nil {
			notes = append(notes, st)
		}
	}
	if len(notes) == 0 {
		return nil
	}
	return beep.Seq(notes...)
}
