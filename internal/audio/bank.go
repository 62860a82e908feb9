package audio

import (
	"errors"
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Tone is one synthesized segment of a clip.
type Tone struct {
	Freq     float64       `yaml:"freq"`
	Duration time.Duration `yaml:"duration"`
}

// Clip is a short cue made of consecutive tones.
type Clip struct {
	Name   string  `yaml:"name"`
	Tones  []Tone  `yaml:"tones"`
	Volume float64 `yaml:"volume"` // exponent on base 2, 0 = unchanged
}

// DefaultClips returns the built-in cue set. Index 0 is the spawn and
// retarget chirp.
func DefaultClips() []Clip {
	return []Clip{
		{
			Name: "chirp",
			Tones: []Tone{
				{Freq: 660, Duration: 90 * time.Millisecond},
				{Freq: 990, Duration: 120 * time.Millisecond},
			},
			Volume: -2,
		},
		{
			Name: "thud",
			Tones: []Tone{
				{Freq: 140, Duration: 80 * time.Millisecond},
			},
			Volume: -1,
		},
	}
}

// Bank turns clip indices into fresh streamers.
type Bank struct {
	rate  beep.SampleRate
	clips []Clip
}

// NewBank validates clips for the given sample rate.
func NewBank(rate beep.SampleRate, clips []Clip) (*Bank, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}
	if len(clips) == 0 {
		return nil, ErrNoClips
	}
	for i, c := range clips {
		if len(c.Tones) == 0 {
			return nil, fmt.Errorf("clip %d %q: %w", i, c.Name, ErrInvalidClip)
		}
		for _, tone := range c.Tones {
			if tone.Freq <= 0 || tone.Duration <= 0 {
				return nil, fmt.Errorf("clip %d %q: %w", i, c.Name, ErrInvalidClip)
			}
		}
	}
	return &Bank{rate: rate, clips: clips}, nil
}

func (b *Bank) Len() int { return len(b.clips) }

// Clip returns the definition at index.
func (b *Bank) Clip(index int) (Clip, error) {
	if index < 0 || index >= len(b.clips) {
		return Clip{}, fmt.Errorf("%w: %d", ErrUnknownClip, index)
	}
	return b.clips[index], nil
}

// Streamer builds a new finite streamer for the clip at index.
func (b *Bank) Streamer(index int) (beep.Streamer, error) {
	clip, err := b.Clip(index)
	if err != nil {
		return nil, err
	}

	parts := make([]beep.Streamer, 0, len(clip.Tones))
	for _, tone := range clip.Tones {
		sine, err := generators.SineTone(b.rate, tone.Freq)
		if err != nil {
			return nil, errors.Join(ErrInvalidClip, err)
		}
		parts = append(parts, beep.Take(b.rate.N(tone.Duration), sine))
	}

	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   clip.Volume,
	}, nil
}
