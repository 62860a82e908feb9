package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/zeusync/tapwalk/internal/core/observability/log"
)

// Cue plays a clip by index.
type Cue interface {
	Play(clip int) error
}

// Config selects the output device settings and cue set.
type Config struct {
	Enabled    bool          `yaml:"enabled"`
	SampleRate int           `yaml:"sample_rate"`
	Buffer     time.Duration `yaml:"buffer"`
	Clips      []Clip        `yaml:"clips"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		SampleRate: 48000,
		Buffer:     100 * time.Millisecond,
		Clips:      DefaultClips(),
	}
}

// Validate checks the cue set even when audio is disabled, so a bad config
// fails the same way on every machine.
func (c Config) Validate() error {
	if c.Enabled && c.SampleRate <= 0 {
		return ErrInvalidRate
	}
	rate := beep.SampleRate(c.SampleRate)
	if rate <= 0 {
		rate = 48000
	}
	_, err := NewBank(rate, c.Clips)
	return err
}

// Open builds the cue described by cfg. When audio is disabled, or the device
// cannot be opened, it falls back to Silent and logs why. The returned close
// func is never nil.
func Open(cfg Config, logger log.Log) (Cue, func() error, error) {
	noop := func() error { return nil }
	if logger == nil {
		logger = log.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, noop, err
	}
	if !cfg.Enabled {
		logger.Info("audio disabled")
		return Silent{}, noop, nil
	}

	rate := beep.SampleRate(cfg.SampleRate)
	bank, err := NewBank(rate, cfg.Clips)
	if err != nil {
		return nil, noop, err
	}
	spk, err := OpenSpeaker(rate, cfg.Buffer)
	if err != nil {
		logger.Warn("audio device unavailable, continuing without audio", log.Err(err))
		return Silent{}, noop, nil
	}
	logger.Info("audio started", log.Int("sample_rate", cfg.SampleRate), log.Int("clips", bank.Len()))
	return NewPlayer(bank, spk, logger), spk.Close, nil
}

// Speaker is a Sink on the system audio device. Only one may be open per
// process, as beep's speaker is a package-level singleton.
type Speaker struct {
	mixer *beep.Mixer

	mu     sync.Mutex
	closed bool
}

// OpenSpeaker initializes the device and starts an empty mixer on it.
func OpenSpeaker(rate beep.SampleRate, buffer time.Duration) (*Speaker, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return nil, err
	}
	s := &Speaker{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

func (s *Speaker) Lock()                { speaker.Lock() }
func (s *Speaker) Unlock()              { speaker.Unlock() }
func (s *Speaker) Add(st beep.Streamer) { s.mixer.Add(st) }

// Close stops playback and releases the device. Safe to call twice.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	speaker.Clear()
	speaker.Close()
	return nil
}
