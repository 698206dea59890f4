package repositories

import "context"

// ReplyGenerator abstracts any chat-completion provider.
type ReplyGenerator interface {
	// Generate takes the user's message and returns the model's reply text.
	Generate(ctx context.Context, userText string) (string, error)
}
