package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kawanbicara/server/domain/repositories"
)

const (
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = 0.6
	defaultMaxTokens   = 256
)

// systemInstruction is the fixed persona for every reply. The model is
// asked for short, supportive answers so they stay usable as spoken
// lines.
const systemInstruction = "You are Kawan Bicara, an empathetic mental-health support companion. " +
	"Respond with warmth using a cognitive-behavioral-therapy-informed style: acknowledge the " +
	"feeling, then gently reframe or ask one small reflective question. Answer in the user's " +
	"language and keep every reply to one or two short sentences."

// GeminiConfig holds configuration for the Gemini reply generator.
type GeminiConfig struct {
	APIKey          string  // Required for generation to succeed
	Model           string  // Optional: model name
	Temperature     float32 // Optional: sampling temperature between 0 and 1
	MaxOutputTokens int     // Optional: output length cap
}

// GeminiReplyGenerator implements ReplyGenerator using Google's Gemini API.
type GeminiReplyGenerator struct {
	client          *genai.Client
	logger          *zap.Logger
	model           string
	temperature     float32
	maxOutputTokens int
}

// Ensure GeminiReplyGenerator implements the ReplyGenerator interface
var _ repositories.ReplyGenerator = (*GeminiReplyGenerator)(nil)

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 1) {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}

	if config.MaxOutputTokens < 0 {
		return fmt.Errorf("maxOutputTokens must be positive, got %d", config.MaxOutputTokens)
	}

	return nil
}

// NewGeminiReplyGenerator creates a new Gemini reply generator. A
// missing API key is allowed at construction so the server can start
// and report the absence; generation calls will fail until it is set.
func NewGeminiReplyGenerator(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiReplyGenerator, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens == 0 {
		maxOutputTokens = defaultMaxTokens
	}

	generator := &GeminiReplyGenerator{
		logger:          logger,
		model:           model,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
	}

	if config.APIKey == "" {
		logger.Warn("Gemini API key is not set, reply generation will fail")

		return generator, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	generator.client = client

	return generator, nil
}

// Generate sends the user's message as the sole conversational turn and
// returns the reply text. Remote failures propagate unchanged; there is
// no retry and no fallback text.
func (g *GeminiReplyGenerator) Generate(ctx context.Context, userText string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("gemini API key is not configured")
	}

	contents := []*genai.Content{
		genai.NewContentFromText(userText, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
		MaxOutputTokens:   int32(g.maxOutputTokens),
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}

	var reply string
	for _, part := range response.Candidates[0].Content.Parts {
		reply += part.Text
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("model returned empty reply")
	}

	g.logger.Info("Reply generated",
		zap.String("model", g.model),
		zap.Int("replyLength", len(reply)))

	return reply, nil
}
