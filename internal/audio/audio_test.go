package audio

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/tomz197/skyshooter/internal/game"
)

// drain streams st to the end and returns the number of samples produced.
func drain(t *testing.T, st beep.Streamer) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for range 10000 {
		n, ok := st.Stream(buf)
		for i := 0; i < n; i++ {
			if buf[i][0] < -1 || buf[i][0] > 1 {
				t.Fatalf("sample %d out of range: %f", total+i, buf[i][0])
			}
		}
		total += n
		if !ok {
			return total
		}
	}
	t.Fatal("streamer never ended")
	return 0
}

func TestEffectLengths(t *testing.T) {
	tests := []struct {
		event game.EventType
		notes int
		step  time.Duration
	}{
		{game.EventFire, 1, 40 * time.Millisecond},
		{game.EventScoreChanged, 1, 60 * time.Millisecond},
		{game.EventAssetsReady, 2, 80 * time.Millisecond},
		{game.EventGameOver, 3, 150 * time.Millisecond},
		{game.EventHighScoreUpdated, 4, 90 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			st := Effect(game.Event{Type: tt.event})
			if st == nil {
				t.Fatal("no effect")
			}
			want := tt.notes * sampleRate.N(tt.step)
			if got := drain(t, st); got != want {
				t.Errorf("samples = %d, want %d", got, want)
			}
		})
	}
}

func TestSilentEvents(t *testing.T) {
	if st := Effect(game.Event{Type: game.EventPhaseChanged}); st != nil {
		t.Error("phase change should be silent")
	}
}

func TestUninitializedIsSilent(t *testing.T) {
	s := New(log.New(io.Discard))
	s.HandleEvent(game.Event{Type: game.EventFire})
	s.Close()
	if s.mixer.Len() != 0 {
		t.Errorf("mixer has %d streamers before Init", s.mixer.Len())
	}
}

func TestMusicLoops(t *testing.T) {
	st := Music()
	if st == nil {
		t.Fatal("no music")
	}
	bar := len(bassline) * sampleRate.N(200*time.Millisecond)
	buf := make([][2]float64, 512)
	for total := 0; total < 3*bar; {
		n, ok := st.Stream(buf)
		if !ok || n != len(buf) {
			t.Fatalf("music stopped after %d samples (n=%d ok=%v)", total, n, ok)
		}
		total += n
	}
}

func TestMusicFollowsPhases(t *testing.T) {
	s := New(log.New(io.Discard))
	s.HandleEvent(game.Event{Type: game.EventAssetsReady})
	if s.Playing() {
		t.Fatal("music before Init")
	}

	// Skip the device, the mixer is only read by the speaker
	s.initialized = true

	s.HandleEvent(game.Event{Type: game.EventAssetsReady})
	if !s.Playing() {
		t.Fatal("assets ready did not start the music")
	}
	if n := s.mixer.Len(); n != 2 {
		t.Fatalf("mixer = %d, want chime and music", n)
	}
	first := s.music

	s.HandleEvent(game.Event{Type: game.EventPhaseChanged, Phase: game.PhaseCountdown})
	if s.music != first || s.mixer.Len() != 2 {
		t.Error("countdown restarted a running track")
	}

	s.HandleEvent(game.Event{Type: game.EventGameOver})
	if s.Playing() || first.Streamer != nil {
		t.Error("game over did not stop the music")
	}

	s.HandleEvent(game.Event{Type: game.EventPhaseChanged, Phase: game.PhaseCountdown})
	if !s.Playing() || s.music == first {
		t.Error("next countdown did not restart the music")
	}

	s.Close()
	if s.Playing() || s.mixer.Len() != 0 {
		t.Errorf("after Close: playing=%v mixer=%d", s.Playing(), s.mixer.Len())
	}
}
