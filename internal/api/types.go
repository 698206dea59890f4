package api

import "github.com/kawanbicara/server/usecase"

// ChatRequest represents the request payload for the chat endpoint
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse represents the response payload for the chat endpoint
type ChatResponse struct {
	Messages []usecase.ReplyMessage `json:"messages"`
}

// StatusResponse represents the health/status payload
type StatusResponse struct {
	Status               string `json:"status"`
	GeminiKeyPresent     bool   `json:"geminiKeyPresent"`
	ElevenLabsKeyPresent bool   `json:"elevenLabsKeyPresent"`
	RhubarbBin           string `json:"rhubarbBin"`
}

// ErrorResponse represents an error response. Stack is populated only
// outside production mode.
type ErrorResponse struct {
	Error string `json:"error"`
	Stack string `json:"stack,omitempty"`
}
