package repositories

import "context"

// SpeechSynthesizer abstracts a text-to-speech provider.
type SpeechSynthesizer interface {
	// Synthesize converts text to audio and writes the raw bytes to destPath.
	Synthesize(ctx context.Context, text string, destPath string) error
}
