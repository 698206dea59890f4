// Package lipsync turns an audio file into timed mouth cues by chaining
// two external binaries: an audio transcoder and a phoneme analyzer.
package lipsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/kawanbicara/server/domain/entities"
	"github.com/kawanbicara/server/domain/repositories"
)

// ErrInvalidData reports analyzer output that is not well-formed JSON
// even though the process itself exited zero. It usually means a
// binary/version mismatch or a corrupted input file.
var ErrInvalidData = errors.New("lip-sync data is not well-formed")

const defaultMaxConcurrent = 4

// commandRunner executes an external command and returns its stdout.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Extractor produces mouth-cue timing data from an audio file. A
// weighted semaphore bounds how many extractions spawn processes at
// once, so a burst of requests cannot fork without limit.
type Extractor struct {
	runner     commandRunner
	ffmpegBin  string
	rhubarbBin string
	sem        *semaphore.Weighted
	logger     *zap.Logger
}

// Ensure Extractor implements the CueExtractor interface
var _ repositories.CueExtractor = (*Extractor)(nil)

// NewExtractor creates an extractor running ffmpegBin and rhubarbBin
// through the given runner, with at most maxConcurrent extractions in
// flight.
func NewExtractor(runner commandRunner, ffmpegBin, rhubarbBin string, maxConcurrent int, logger *zap.Logger) *Extractor {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	return &Extractor{
		runner:     runner,
		ffmpegBin:  ffmpegBin,
		rhubarbBin: rhubarbBin,
		sem:        semaphore.NewWeighted(int64(maxConcurrent)),
		logger:     logger,
	}
}

// Extract transcodes audioPath to an uncompressed waveform, runs the
// phoneme analyzer in phonetic mode over it, and validates that the
// written cue file parses. The two invocations are strictly sequential;
// the analyzer consumes the transcoder's output file.
func (e *Extractor) Extract(ctx context.Context, audioPath string, destPath string) error {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for extraction slot: %w", err)
	}
	defer e.sem.Release(1)

	wavePath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".wav"

	e.logger.Info("Extracting mouth cues",
		zap.String("audio", audioPath),
		zap.String("dest", destPath))

	if _, err := e.runner.Run(ctx, e.ffmpegBin, "-y", "-i", audioPath, wavePath); err != nil {
		return fmt.Errorf("audio transcode failed: %w", err)
	}

	if _, err := e.runner.Run(ctx, e.rhubarbBin, "-f", "json", "-o", destPath, wavePath, "-r", "phonetic"); err != nil {
		return fmt.Errorf("phoneme analysis failed: %w", err)
	}

	// The analyzer exiting zero is not proof the output is usable;
	// read it back and make sure it parses.
	data, err := os.ReadFile(destPath)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrInvalidData, destPath, err)
	}

	var lipSync entities.LipSync
	if err := json.Unmarshal(data, &lipSync); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	e.logger.Info("Mouth cues extracted",
		zap.String("dest", destPath),
		zap.Int("cues", len(lipSync.MouthCues)))

	return nil
}
