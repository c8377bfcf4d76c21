package repository

import (
	"context"

	"loop/services/loop-service/domain/model"
)

// TextGenerator is the external language model used by the assistant features.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Chat continues a conversation given its history and the new user message
	Chat(ctx context.Context, systemInstruction string, history []model.Turn, message string) (string, error)
	// Stream calls onChunk with each fragment of the answer as it arrives
	Stream(ctx context.Context, prompt string, onChunk func(chunk string) error) error
}
