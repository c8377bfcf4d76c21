package http

import (
	"net/http"

	"loop/contracts/loop_service"
	"loop/pkg/logger"
	"loop/services/loop-service/usecase"
)

// RepresentativeHandler handles HTTP requests for representative operations
type RepresentativeHandler struct {
	handler
	RepresentativeUseCase usecase.RepresentativeUseCase
}

// NewRepresentativeHandler creates a new instance of RepresentativeHandler
func NewRepresentativeHandler(representativeUseCase usecase.RepresentativeUseCase, appLogger logger.LoggerInterface) *RepresentativeHandler {
	return &RepresentativeHandler{
		handler:               newHandler(appLogger),
		RepresentativeUseCase: representativeUseCase,
	}
}

func (h *RepresentativeHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.Logger.InfoContext(ctx, "Create representative handler called")

	var req loop_service.CreateRepresentativeRequest
	if !h.decode(w, r, &req) {
		return
	}

	rep, err := h.RepresentativeUseCase.Create(ctx, loop_service.CreateRepresentativeRequestToModel(&req))
	if err != nil {
		h.fail(ctx, w, err, "Failed to create representative")
		return
	}
	h.API.Created(ctx, w, rep)
}

func (h *RepresentativeHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	reps := h.RepresentativeUseCase.List(r.Context())
	h.API.List(r.Context(), w, reps, len(reps))
}

func (h *RepresentativeHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	rep, err := h.RepresentativeUseCase.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, err, "Failed to get representative")
		return
	}
	h.API.Success(ctx, w, rep)
}

// UpdateHandler applies a partial update; fields absent from the body are kept
func (h *RepresentativeHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req loop_service.UpdateRepresentativeRequest
	if !h.decode(w, r, &req) {
		return
	}

	rep, err := h.RepresentativeUseCase.Update(ctx, id, loop_service.UpdateRepresentativeRequestToPatch(&req))
	if err != nil {
		h.fail(ctx, w, err, "Failed to update representative")
		return
	}
	h.API.Success(ctx, w, rep)
}

func (h *RepresentativeHandler) ToggleStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	rep, err := h.RepresentativeUseCase.ToggleStatus(ctx, id)
	if err != nil {
		h.fail(ctx, w, err, "Failed to change representative status")
		return
	}
	h.API.Success(ctx, w, rep)
}

func (h *RepresentativeHandler) GoalHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req loop_service.MonthlyGoalRequest
	if !h.decode(w, r, &req) {
		return
	}

	rep, err := h.RepresentativeUseCase.SetMonthlyGoal(ctx, id, req.Goal)
	if err != nil {
		h.fail(ctx, w, err, "Failed to set monthly goal")
		return
	}
	h.API.Success(ctx, w, rep)
}

func (h *RepresentativeHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.RepresentativeUseCase.Delete(ctx, id); err != nil {
		h.fail(ctx, w, err, "Failed to delete representative")
		return
	}
	h.API.NoContent(w)
}

func (h *RepresentativeHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	summary, err := h.RepresentativeUseCase.Summary(ctx, caller, id)
	if err != nil {
		h.fail(ctx, w, err, "Failed to build summary")
		return
	}
	h.API.Success(ctx, w, summary)
}
