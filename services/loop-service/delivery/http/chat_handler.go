package http

import (
	"net/http"

	"loop/contracts/loop_service"
	"loop/pkg/logger"
	"loop/services/loop-service/usecase"
)

// ChatHandler handles HTTP requests for client support chats
type ChatHandler struct {
	handler
	ChatUseCase usecase.ChatUseCase
}

// NewChatHandler creates a new instance of ChatHandler
func NewChatHandler(chatUseCase usecase.ChatUseCase, appLogger logger.LoggerInterface) *ChatHandler {
	return &ChatHandler{
		handler:     newHandler(appLogger),
		ChatUseCase: chatUseCase,
	}
}

func (h *ChatHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	chats := h.ChatUseCase.List(r.Context())
	h.API.List(r.Context(), w, chats, len(chats))
}

func (h *ChatHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	chat, err := h.ChatUseCase.Get(ctx, caller, id)
	if err != nil {
		h.fail(ctx, w, err, "Failed to get chat")
		return
	}
	h.API.Success(ctx, w, chat)
}

// MineHandler returns the signed-in client's own conversation
func (h *ChatHandler) MineHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	chat, err := h.ChatUseCase.Mine(ctx, caller)
	if err != nil {
		h.fail(ctx, w, err, "Failed to get chat")
		return
	}
	h.API.Success(ctx, w, chat)
}

// SendHandler posts a client message and returns the chat including the bot's reply
func (h *ChatHandler) SendHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req loop_service.SendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	chat, err := h.ChatUseCase.SendClientMessage(ctx, caller, req.Text)
	if err != nil {
		h.fail(ctx, w, err, "Failed to send message")
		return
	}
	h.API.Success(ctx, w, chat)
}

func (h *ChatHandler) ReplyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req loop_service.SendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	chat, err := h.ChatUseCase.Reply(ctx, id, req.Text)
	if err != nil {
		h.fail(ctx, w, err, "Failed to send reply")
		return
	}
	h.API.Success(ctx, w, chat)
}

// SimulateHandler feeds a message in as if the given client had sent it
func (h *ChatHandler) SimulateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req loop_service.SimulateMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	chat, err := h.ChatUseCase.ReceiveMessage(ctx, req.ClientID, req.Text)
	if err != nil {
		h.fail(ctx, w, err, "Failed to simulate message")
		return
	}
	h.API.Success(ctx, w, chat)
}
