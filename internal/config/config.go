// Package config builds the immutable process configuration from the
// environment at startup. Components receive it by reference and never
// read ambient environment state themselves.
package config

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultPort           = "3000"
	defaultAudioDir       = "audios"
	defaultFFmpegBin      = "ffmpeg"
	defaultRhubarbBin     = "./bin/rhubarb"
	defaultCleanupDelay   = 60 * time.Second
	defaultMaxExtractions = 4
)

// Config is the process-wide configuration, read-only after startup.
type Config struct {
	GeminiAPIKey     string
	ElevenLabsAPIKey string
	VoiceID          string
	Port             string
	Production       bool
	AudioDir         string
	FFmpegBin        string
	RhubarbBin       string
	CleanupDelay     time.Duration
	MaxExtractions   int
}

// Load reads the environment and applies defaults.
func Load() *Config {
	cfg := &Config{
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		ElevenLabsAPIKey: os.Getenv("ELEVEN_LABS_API_KEY"),
		VoiceID:          os.Getenv("ELEVEN_LABS_VOICE_ID"),
		Port:             os.Getenv("PORT"),
		Production:       os.Getenv("APP_ENV") == "production",
		AudioDir:         os.Getenv("AUDIO_DIR"),
		FFmpegBin:        os.Getenv("FFMPEG_BIN"),
		RhubarbBin:       os.Getenv("RHUBARB_BIN"),
		CleanupDelay:     defaultCleanupDelay,
		MaxExtractions:   defaultMaxExtractions,
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.AudioDir == "" {
		cfg.AudioDir = defaultAudioDir
	}

	if cfg.FFmpegBin == "" {
		cfg.FFmpegBin = defaultFFmpegBin
	}

	if cfg.RhubarbBin == "" {
		cfg.RhubarbBin = defaultRhubarbBin
	}

	if delayStr := os.Getenv("CLEANUP_DELAY_SECONDS"); delayStr != "" {
		if seconds, err := strconv.Atoi(delayStr); err == nil && seconds > 0 {
			cfg.CleanupDelay = time.Duration(seconds) * time.Second
		}
	}

	if maxStr := os.Getenv("MAX_EXTRACTIONS"); maxStr != "" {
		if max, err := strconv.Atoi(maxStr); err == nil && max > 0 {
			cfg.MaxExtractions = max
		}
	}

	return cfg
}

// CredentialsPresent reports whether both required API keys are set.
func (c *Config) CredentialsPresent() bool {
	return c.GeminiAPIKey != "" && c.ElevenLabsAPIKey != ""
}
