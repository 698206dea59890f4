package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestValidateElevenLabsConfig(t *testing.T) {
	if err := ValidateElevenLabsConfig(ElevenLabsConfig{Stability: 1.5}); err == nil {
		t.Error("expected error for stability out of range")
	}

	if err := ValidateElevenLabsConfig(ElevenLabsConfig{Clarity: -0.1}); err == nil {
		t.Error("expected error for clarity out of range")
	}

	if err := ValidateElevenLabsConfig(ElevenLabsConfig{Stability: 0.5, Clarity: 0.75}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSynthesizeWritesAudio(t *testing.T) {
	logger := zaptest.NewLogger(t)
	audio := []byte("fake mp3 bytes")

	var gotRequest elevenLabsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Errorf("missing xi-api-key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Write(audio)
	}))
	defer server.Close()

	synth, err := NewElevenLabsSynthesizer(ElevenLabsConfig{
		APIKey:     "test-key",
		APIBaseURL: server.URL,
		VoiceID:    "voice-1",
	}, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	destPath := filepath.Join(t.TempDir(), "message_test.mp3")
	if err := synth.Synthesize(context.Background(), "Halo!", destPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	written, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("audio file not written: %v", err)
	}
	if string(written) != string(audio) {
		t.Errorf("audio bytes not written verbatim")
	}

	if gotRequest.Text != "Halo!" {
		t.Errorf("unexpected text in request: %q", gotRequest.Text)
	}
	if gotRequest.VoiceSettings.Stability != defaultStability {
		t.Errorf("unexpected stability: %f", gotRequest.VoiceSettings.Stability)
	}
	if gotRequest.VoiceSettings.SimilarityBoost != defaultClarity {
		t.Errorf("unexpected similarity boost: %f", gotRequest.VoiceSettings.SimilarityBoost)
	}
}

func TestSynthesizeUpstreamError(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer server.Close()

	synth, err := NewElevenLabsSynthesizer(ElevenLabsConfig{
		APIKey:     "bad-key",
		APIBaseURL: server.URL,
	}, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	destPath := filepath.Join(t.TempDir(), "message_test.mp3")
	err = synth.Synthesize(context.Background(), "Halo!", destPath)
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}

	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("expected *SynthesisError, got %T", err)
	}
	if synthErr.Status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", synthErr.Status)
	}
	if synthErr.Body == "" {
		t.Error("expected upstream body to be carried")
	}

	if _, statErr := os.Stat(destPath); !os.IsNotExist(statErr) {
		t.Error("no audio file should be written on upstream failure")
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	synth, err := NewElevenLabsSynthesizer(ElevenLabsConfig{APIKey: "key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := synth.Synthesize(context.Background(), "  ", "out.mp3"); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestNewElevenLabsConfigFromEnv(t *testing.T) {
	t.Setenv("ELEVEN_LABS_API_KEY", "env-key")
	t.Setenv("ELEVEN_LABS_VOICE_ID", "env-voice")
	t.Setenv("ELEVEN_LABS_STABILITY", "0.3")

	config := NewElevenLabsConfigFromEnv()
	if config.APIKey != "env-key" {
		t.Errorf("unexpected APIKey: %q", config.APIKey)
	}
	if config.VoiceID != "env-voice" {
		t.Errorf("unexpected VoiceID: %q", config.VoiceID)
	}
	if config.Stability != 0.3 {
		t.Errorf("unexpected Stability: %f", config.Stability)
	}
}
