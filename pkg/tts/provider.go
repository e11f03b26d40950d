// Package tts defines the speech synthesis provider interface.
package tts

import "context"

// Clip is a synthesized speech payload: raw signed 16-bit little-endian
// PCM samples plus the rate they were rendered at.
type Clip struct {
	Data       []byte
	SampleRate int
	Channels   int
}

// Provider defines the interface for speech synthesis backends.
type Provider interface {
	// Synthesize renders the given text as speech using the named voice.
	Synthesize(ctx context.Context, text, voice string) (*Clip, error)

	// Close cleans up resources.
	Close()
}
