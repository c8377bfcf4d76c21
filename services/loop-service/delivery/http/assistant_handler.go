package http

import (
	"fmt"
	"net/http"
	"strings"

	"loop/contracts/loop_service"
	"loop/pkg/logger"
	"loop/services/loop-service/usecase"
)

// AssistantHandler exposes the text generation assistant
type AssistantHandler struct {
	handler
	AssistantUseCase usecase.AssistantUseCase
}

// NewAssistantHandler creates a new instance of AssistantHandler
func NewAssistantHandler(assistantUseCase usecase.AssistantUseCase, appLogger logger.LoggerInterface) *AssistantHandler {
	return &AssistantHandler{
		handler:          newHandler(appLogger),
		AssistantUseCase: assistantUseCase,
	}
}

func (h *AssistantHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req loop_service.PromptRequest
	if !h.decode(w, r, &req) {
		return
	}

	text, err := h.AssistantUseCase.Generate(ctx, req.Prompt)
	if err != nil {
		h.fail(ctx, w, err, "Failed to generate text")
		return
	}
	h.API.Success(ctx, w, loop_service.GenerateResponse{Text: text})
}

// StreamHandler answers with server-sent events, one "data:" event per chunk followed by
// an "event: done". Errors before the first chunk get a regular JSON error response;
// later ones end the stream with an "event: error".
func (h *AssistantHandler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req loop_service.PromptRequest
	if !h.decode(w, r, &req) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.API.InternalServerError(ctx, w, "Streaming unsupported")
		return
	}

	started := false
	err := h.AssistantUseCase.Stream(ctx, req.Prompt, func(chunk string) error {
		if !started {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if err := writeEvent(w, "", chunk); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	if !started {
		if err != nil {
			h.fail(ctx, w, err, "Failed to stream text")
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
	}

	if err != nil {
		h.Logger.WarnContext(ctx, "Assistant stream interrupted", "error", err)
		_ = writeEvent(w, "error", err.Error())
	} else {
		_ = writeEvent(w, "done", "")
	}
	flusher.Flush()
}

// writeEvent writes one SSE event; multi-line data is split over several data fields
func writeEvent(w http.ResponseWriter, event, data string) error {
	var b strings.Builder
	if event != "" {
		fmt.Fprintf(&b, "event: %s\n", event)
	}
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	_, err := w.Write([]byte(b.String()))
	return err
}
