package repositories

import "context"

// CueExtractor abstracts mouth-cue extraction from an audio file.
type CueExtractor interface {
	// Extract analyzes the audio at audioPath and writes timed mouth
	// cues as JSON to destPath.
	Extract(ctx context.Context, audioPath string, destPath string) error
}
