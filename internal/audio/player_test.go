package audio

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/tomz197/pucks/internal/match"
)

func newTestPlayer(now *time.Time) (*Player, *[]beep.Streamer) {
	var played []beep.Streamer
	p := NewPlayer(Options{Volume: 1, Logger: log.New(io.Discard)})
	p.now = func() time.Time { return *now }
	p.play = func(s beep.Streamer) { played = append(played, s) }
	return p, &played
}

func TestPlayThrottlesRepeats(t *testing.T) {
	now := time.Unix(0, 0)
	p, played := newTestPlayer(&now)
	opts := match.SoundOpts{Volume: 1, Throttle: 60 * time.Millisecond}

	p.Play(match.SoundCollision, opts)
	now = now.Add(30 * time.Millisecond)
	p.Play(match.SoundCollision, opts)
	if len(*played) != 1 {
		t.Fatalf("played %d sounds inside the throttle window", len(*played))
	}
	p.Play(match.SoundWall, match.SoundOpts{Volume: 1, Throttle: 60 * time.Millisecond})
	if len(*played) != 2 {
		t.Fatal("throttle leaked across sound names")
	}

	now = now.Add(40 * time.Millisecond)
	p.Play(match.SoundCollision, opts)
	if len(*played) != 3 {
		t.Error("sound still throttled after the window")
	}
}

func TestPlaySkipsSilentAndUnknown(t *testing.T) {
	now := time.Unix(0, 0)
	p, played := newTestPlayer(&now)
	p.Play(match.SoundGoal, match.SoundOpts{Volume: 0})
	p.Play("no-such-sound", match.SoundOpts{Volume: 1})
	if len(*played) != 0 {
		t.Errorf("played %d sounds", len(*played))
	}
}

func TestPlayWithoutSpeakerIsNoop(t *testing.T) {
	p := NewPlayer(Options{Volume: 1, Logger: log.New(io.Discard)})
	p.Play(match.SoundGoal, match.SoundOpts{Volume: 1})
}

func TestCueLength(t *testing.T) {
	for name, notes := range cues {
		s, ok := Cue(name, 1)
		if !ok {
			t.Fatalf("no cue for %s", name)
		}
		want := 0
		for _, n := range notes {
			want += sampleRate.N(n.duration)
		}

		got := 0
		buf := make([][2]float64, 512)
		for {
			n, ok := s.Stream(buf)
			got += n
			for _, smp := range buf[:n] {
				if smp[0] > 1 || smp[0] < -1 {
					t.Fatalf("%s: sample %v out of range", name, smp[0])
				}
			}
			if !ok {
				break
			}
		}
		if got != want {
			t.Errorf("%s: %d samples, want %d", name, got, want)
		}
	}
}

func TestEveryEventSoundHasCue(t *testing.T) {
	for k := match.EventShotFired; k <= match.EventRoundReset; k++ {
		name, _, ok := match.SoundFor(match.Event{Kind: k, Value: 10})
		if !ok {
			continue
		}
		if _, found := cues[name]; !found {
			t.Errorf("event %s maps to %q which has no cue", k, name)
		}
	}
}
