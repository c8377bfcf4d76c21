package http

import (
	"net/http"

	"loop/contracts/loop_service"
	"loop/pkg/logger"
	"loop/services/loop-service/usecase"
)

// ClientHandler handles HTTP requests for client operations
type ClientHandler struct {
	handler
	ClientUseCase usecase.ClientUseCase
}

// NewClientHandler creates a new instance of ClientHandler
func NewClientHandler(clientUseCase usecase.ClientUseCase, appLogger logger.LoggerInterface) *ClientHandler {
	return &ClientHandler{
		handler:       newHandler(appLogger),
		ClientUseCase: clientUseCase,
	}
}

func (h *ClientHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req loop_service.CreateClientRequest
	if !h.decode(w, r, &req) {
		return
	}

	client, err := h.ClientUseCase.Create(ctx, caller, loop_service.CreateClientRequestToModel(&req))
	if err != nil {
		h.fail(ctx, w, err, "Failed to create client")
		return
	}
	h.API.Created(ctx, w, client)
}

func (h *ClientHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	clients, err := h.ClientUseCase.List(ctx, caller)
	if err != nil {
		h.fail(ctx, w, err, "Failed to list clients")
		return
	}
	h.API.List(ctx, w, clients, len(clients))
}

func (h *ClientHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	client, err := h.ClientUseCase.Get(ctx, caller, id)
	if err != nil {
		h.fail(ctx, w, err, "Failed to get client")
		return
	}
	h.API.Success(ctx, w, client)
}

func (h *ClientHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req loop_service.UpdateClientRequest
	if !h.decode(w, r, &req) {
		return
	}

	client, err := h.ClientUseCase.Update(ctx, caller, id, loop_service.UpdateClientRequestToPatch(&req))
	if err != nil {
		h.fail(ctx, w, err, "Failed to update client")
		return
	}
	h.API.Success(ctx, w, client)
}

func (h *ClientHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.ClientUseCase.Delete(ctx, caller, id); err != nil {
		h.fail(ctx, w, err, "Failed to delete client")
		return
	}
	h.API.NoContent(w)
}

// ScoreLeadHandler asks the assistant for a lead score and returns the updated client
func (h *ClientHandler) ScoreLeadHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	client, err := h.ClientUseCase.ScoreLead(ctx, caller, id)
	if err != nil {
		h.fail(ctx, w, err, "Failed to score lead")
		return
	}
	h.API.Success(ctx, w, client)
}

// StatementHandler returns the contracts of the signed-in client
func (h *ClientHandler) StatementHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	statement, err := h.ClientUseCase.Statement(ctx, caller)
	if err != nil {
		h.fail(ctx, w, err, "Failed to load statement")
		return
	}
	h.API.Success(ctx, w, statement)
}
