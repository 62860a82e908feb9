package audio

import (
	"sync"

	"github.com/gopxl/beep"

	"github.com/zeusync/tapwalk/internal/core/observability/log"
)

// Sink receives streamers for playback. Add is always called between Lock
// and Unlock so implementations can guard against a concurrent audio thread.
type Sink interface {
	Lock()
	Unlock()
	Add(s beep.Streamer)
}

// Player is an audio cue backed by a Bank. Playing a clip restarts it: the
// previous cue is detached before the new one starts, so rapid taps never layer.
type Player struct {
	bank *Bank
	sink Sink
	log  log.Log

	mu      sync.Mutex
	current *beep.Ctrl
}

func NewPlayer(bank *Bank, sink Sink, logger log.Log) *Player {
	if logger == nil {
		logger = log.Nop()
	}
	return &Player{bank: bank, sink: sink, log: logger}
}

// Play starts the clip at index, cutting off whatever this player was playing.
func (p *Player) Play(clip int) error {
	s, err := p.bank.Streamer(clip)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ctrl := &beep.Ctrl{Streamer: s}
	p.sink.Lock()
	p.detach()
	p.sink.Add(ctrl)
	p.sink.Unlock()
	p.current = ctrl

	p.log.Debug("audio cue", log.Int("clip", clip))
	return nil
}

// Stop silences and releases the current cue, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return
	}
	p.sink.Lock()
	p.detach()
	p.sink.Unlock()
	p.current = nil
}

// detach silences the current cue and drops its streamer, so the mixer
// removes the Ctrl on its next pass instead of holding it paused forever.
// Callers hold the sink lock.
func (p *Player) detach() {
	if p.current == nil {
		return
	}
	p.current.Paused = true
	p.current.Streamer = nil
}

// MixerSink adapts a bare beep.Mixer, for offline rendering and tests.
type MixerSink struct {
	Mixer *beep.Mixer
}

func (m MixerSink) Lock()               {}
func (m MixerSink) Unlock()             {}
func (m MixerSink) Add(s beep.Streamer) { m.Mixer.Add(s) }

// Silent is a cue that accepts every clip and plays nothing. It stands in when
// audio is disabled or no output device is available.
type Silent struct{}

func (Silent) Play(int) error { return nil }
