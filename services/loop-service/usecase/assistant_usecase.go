package usecase

import (
	"context"
	"strings"

	"loop/pkg/logger"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/repository"
)

// AssistantUseCase exposes the text generator to signed-in users
type AssistantUseCase interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Stream relays the answer chunk by chunk to onChunk
	Stream(ctx context.Context, prompt string, onChunk func(chunk string) error) error
}

type assistantUseCase struct {
	generator repository.TextGenerator
	logger    logger.LoggerInterface
}

// NewAssistantUseCase creates a new instance of assistantUseCase
func NewAssistantUseCase(generator repository.TextGenerator, appLogger logger.LoggerInterface) AssistantUseCase {
	return &assistantUseCase{generator: generator, logger: appLogger}
}

func (uc *assistantUseCase) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", domain.ErrEmptyMessage
	}

	answer, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		uc.logger.ErrorContext(ctx, "Assistant generation failed", "error", err)
		return "", unavailable(err)
	}
	return answer, nil
}

func (uc *assistantUseCase) Stream(ctx context.Context, prompt string, onChunk func(chunk string) error) error {
	if strings.TrimSpace(prompt) == "" {
		return domain.ErrEmptyMessage
	}

	if err := uc.generator.Stream(ctx, prompt, onChunk); err != nil {
		uc.logger.ErrorContext(ctx, "Assistant stream failed", "error", err)
		return unavailable(err)
	}
	return nil
}

// unavailable keeps application errors and hides transport details behind
// ErrAssistantUnavailable
func unavailable(err error) error {
	if _, ok := domain.AsAppError(err); ok {
		return err
	}
	return domain.ErrAssistantUnavailable
}
