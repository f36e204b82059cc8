// Package audio plays the match's sound cues with synthesized tones.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/tomz197/pucks/internal/match"
)

const sampleRate = beep.SampleRate(44100)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
	WaveSaw
)

// note is one tone of a cue.
type note struct {
	freq     float64
	duration time.Duration
	wave     Wave
}

// cues maps sound names to the notes played in sequence.
var cues = map[string][]note{
	match.SoundShoot:     {{330, 40 * time.Millisecond, WaveTriangle}, {495, 50 * time.Millisecond, WaveTriangle}},
	match.SoundCollision: {{220, 35 * time.Millisecond, WaveSquare}},
	match.SoundWall:      {{140, 45 * time.Millisecond, WaveSaw}},
	match.SoundCross:     {{880, 30 * time.Millisecond, WaveSine}},
	match.SoundCharged:   {{660, 60 * time.Millisecond, WaveSine}, {990, 90 * time.Millisecond, WaveSine}},
	match.SoundOrb:       {{1175, 50 * time.Millisecond, WaveSine}, {1568, 70 * time.Millisecond, WaveSine}},
	match.SoundDestroy:   {{110, 120 * time.Millisecond, WaveSaw}},
	match.SoundFoul:      {{196, 120 * time.Millisecond, WaveSquare}, {147, 160 * time.Millisecond, WaveSquare}},
	match.SoundGoal:      {{523, 100 * time.Millisecond, WaveTriangle}, {659, 100 * time.Millisecond, WaveTriangle}, {784, 220 * time.Millisecond, WaveTriangle}},
	match.SoundTurn:      {{440, 50 * time.Millisecond, WaveSine}},
	match.SoundSpecial:   {{392, 80 * time.Millisecond, WaveSquare}, {784, 120 * time.Millisecond, WaveSquare}},
	match.SoundWin:       {{523, 120 * time.Millisecond, WaveTriangle}, {784, 120 * time.Millisecond, WaveTriangle}, {1047, 320 * time.Millisecond, WaveTriangle}},
}

// Options configures a Player.
type Options struct {
	Volume float64 // Master volume 0..1
	Logger *log.Logger
}

// Player turns sound requests into tones on the speaker. Requests for the
// same name closer together than their throttle are dropped.
type Player struct {
	mu     sync.Mutex
	master float64
	last   map[string]time.Time
	logger *log.Logger

	now  func() time.Time
	play func(beep.Streamer)
}

// NewPlayer creates a player. It stays silent until Init succeeds.
func NewPlayer(opts Options) *Player {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Player{
		master: min(max(opts.Volume, 0), 1),
		last:   make(map[string]time.Time),
		logger: logger.WithPrefix("audio"),
		now:    time.Now,
	}
}

// Init opens the speaker.
func (p *Player) Init() error {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	p.mu.Lock()
	p.play = func(s beep.Streamer) { speaker.Play(s) }
	p.mu.Unlock()
	return nil
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.play == nil {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.play = nil
}

// Play plays the cue called name. It matches match.SoundFunc.
func (p *Player) Play(name string, opts match.SoundOpts) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.play == nil {
		return
	}

	now := p.now()
	if last, ok := p.last[name]; ok && opts.Throttle > 0 && now.Sub(last) < opts.Throttle {
		return
	}

	s, ok := Cue(name, opts.Volume*p.master)
	if !ok {
		p.logger.Debug("no cue", "name", name)
		return
	}
	p.last[name] = now
	p.play(s)
}

// Cue builds the streamer for name at the given volume (0..1). Unknown names
// and zero volume return false.
func Cue(name string, volume float64) (beep.Streamer, bool) {
	notes, ok := cues[name]
	if !ok || volume <= 0 {
		return nil, false
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := oscillator(n)
		if err != nil {
			return nil, false
		}
		parts = append(parts, fade(beep.Take(sampleRate.N(n.duration), tone), sampleRate.N(n.duration)))
	}
	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   math.Log2(volume * toneGain),
	}, true
}

// toneGain keeps full-scale oscillators comfortably below clipping.
const toneGain = 0.3

func oscillator(n note) (beep.Streamer, error) {
	switch n.wave {
	case WaveSquare:
		return generators.SquareTone(sampleRate, n.freq)
	case WaveTriangle:
		return generators.TriangleTone(sampleRate, n.freq)
	case WaveSaw:
		return generators.SawtoothTone(sampleRate, n.freq)
	default:
		return generators.SineTone(sampleRate, n.freq)
	}
}

// fade applies a linear release over the last quarter of a note so tones
// don't click when they stop.
func fade(s beep.Streamer, total int) beep.Streamer {
	release := max(total/4, 1)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			if left := total - pos; left < release {
				g := float64(left) / float64(release)
				samples[i][0] *= g
				samples[i][1] *= g
			}
			pos++
		}
		return n, ok
	})
}
