package audio

import "errors"

var (
	ErrUnknownClip = errors.New("audio: unknown clip")
	ErrInvalidClip = errors.New("audio: clip needs a positive frequency and duration")
	ErrNoClips     = errors.New("audio: bank has no clips")
	ErrInvalidRate = errors.New("audio: sample rate must be positive")
)
