package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kawanbicara/server/domain/entities"
	"github.com/kawanbicara/server/domain/repositories"
	"github.com/kawanbicara/server/internal/artifact"
	"github.com/kawanbicara/server/internal/cleanup"
	"github.com/kawanbicara/server/internal/config"
)

// Validation errors, client-fixable and never retried.
var (
	ErrNoMessage          = errors.New("no message provided")
	ErrMissingCredentials = errors.New("missing API credentials")
)

// Per-stage deadlines so a hanging remote call or binary cannot block a
// request forever.
const (
	replyTimeout      = 30 * time.Second
	synthesisTimeout  = 30 * time.Second
	extractionTimeout = 120 * time.Second
)

// The assembled payload carries these fixed values rather than the
// computed emotion; the computed tag is logged and returned on the
// Result for callers that want it.
const (
	fixedExpression = "smile"
	fixedAnimation  = "Talking_1"
)

// ReplyMessage is the externally visible result of one pipeline run.
// All fields are populated together; partial payloads are never built.
type ReplyMessage struct {
	Text             string            `json:"text"`
	Audio            string            `json:"audio"`
	LipSync          *entities.LipSync `json:"lipsync"`
	FacialExpression string            `json:"facialExpression"`
	Animation        string            `json:"animation"`
}

// Result bundles the reply payload with per-request metadata.
type Result struct {
	RequestID string
	Emotion   entities.Emotion
	Message   ReplyMessage
}

// PipelineService sequences reply generation, speech synthesis,
// mouth-cue extraction, and artifact assembly into one request/response
// cycle, and schedules deferred cleanup of the temporary files.
type PipelineService struct {
	cfg         *config.Config
	replies     repositories.ReplyGenerator
	synthesizer repositories.SpeechSynthesizer
	extractor   repositories.CueExtractor
	cleanup     *cleanup.Scheduler
	logger      *zap.Logger
}

// NewPipelineService creates the pipeline orchestrator.
func NewPipelineService(
	cfg *config.Config,
	replies repositories.ReplyGenerator,
	synthesizer repositories.SpeechSynthesizer,
	extractor repositories.CueExtractor,
	scheduler *cleanup.Scheduler,
	logger *zap.Logger,
) *PipelineService {
	return &PipelineService{
		cfg:         cfg,
		replies:     replies,
		synthesizer: synthesizer,
		extractor:   extractor,
		cleanup:     scheduler,
		logger:      logger,
	}
}

// Process runs the whole pipeline for one user message. Every stage
// failure aborts the remaining stages; whatever artifacts exist by then
// are handed to the cleanup scheduler either way.
func (s *PipelineService) Process(ctx context.Context, message string) (*Result, error) {
	if message == "" {
		return nil, ErrNoMessage
	}

	if !s.cfg.CredentialsPresent() {
		return nil, ErrMissingCredentials
	}

	request := entities.NewRequestContext(message)
	artifacts := entities.NewArtifactSet(s.cfg.AudioDir, request.ID)

	logger := s.logger.With(zap.String("requestID", request.ID))
	logger.Info("Pipeline started", zap.Int("messageLength", len(message)))

	// Scheduled on success and failure alike; the scheduler ignores
	// files that were never written.
	defer s.cleanup.Schedule(s.cfg.CleanupDelay, artifacts.Paths()...)

	reply, err := s.generateReply(ctx, message)
	if err != nil {
		return nil, err
	}

	emotion := entities.ClassifyEmotion(reply)
	animation := entities.AnimationFor(emotion)
	logger.Info("Reply classified",
		zap.String("emotion", string(emotion)),
		zap.String("animation", animation))

	if err := s.synthesize(ctx, reply, artifacts.AudioPath); err != nil {
		return nil, err
	}

	if err := s.extractCues(ctx, artifacts); err != nil {
		return nil, err
	}

	audio, err := artifact.ReadAudioBase64(artifacts.AudioPath)
	if err != nil {
		return nil, err
	}

	lipSync, err := artifact.ReadLipSync(artifacts.LipSyncPath)
	if err != nil {
		return nil, err
	}

	logger.Info("Pipeline completed",
		zap.Int("audioBase64Length", len(audio)),
		zap.Int("mouthCues", len(lipSync.MouthCues)))

	return &Result{
		RequestID: request.ID,
		Emotion:   emotion,
		Message: ReplyMessage{
			Text:             reply,
			Audio:            audio,
			LipSync:          lipSync,
			FacialExpression: fixedExpression,
			Animation:        fixedAnimation,
		},
	}, nil
}

func (s *PipelineService) generateReply(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	reply, err := s.replies.Generate(ctx, message)
	if err != nil {
		return "", fmt.Errorf("reply generation: %w", err)
	}

	return reply, nil
}

func (s *PipelineService) synthesize(ctx context.Context, reply, audioPath string) error {
	ctx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	defer cancel()

	if err := s.synthesizer.Synthesize(ctx, reply, audioPath); err != nil {
		return fmt.Errorf("speech synthesis: %w", err)
	}

	return nil
}

func (s *PipelineService) extractCues(ctx context.Context, artifacts entities.ArtifactSet) error {
	ctx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()

	if err := s.extractor.Extract(ctx, artifacts.AudioPath, artifacts.LipSyncPath); err != nil {
		return fmt.Errorf("lip-sync extraction: %w", err)
	}

	return nil
}
