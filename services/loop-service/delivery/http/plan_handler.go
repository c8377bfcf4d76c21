package http

import (
	"net/http"

	"loop/contracts/loop_service"
	"loop/pkg/logger"
	"loop/services/loop-service/usecase"
)

// PlanHandler handles HTTP requests for the plan catalog
type PlanHandler struct {
	handler
	PlanUseCase usecase.PlanUseCase
}

// NewPlanHandler creates a new instance of PlanHandler
func NewPlanHandler(planUseCase usecase.PlanUseCase, appLogger logger.LoggerInterface) *PlanHandler {
	return &PlanHandler{
		handler:     newHandler(appLogger),
		PlanUseCase: planUseCase,
	}
}

func (h *PlanHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req loop_service.CreatePlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan, err := h.PlanUseCase.Create(ctx, loop_service.CreatePlanRequestToModel(&req))
	if err != nil {
		h.fail(ctx, w, err, "Failed to create plan")
		return
	}
	h.API.Created(ctx, w, plan)
}

func (h *PlanHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	plans := h.PlanUseCase.List(r.Context())
	h.API.List(r.Context(), w, plans, len(plans))
}

func (h *PlanHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	plan, err := h.PlanUseCase.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, err, "Failed to get plan")
		return
	}
	h.API.Success(ctx, w, plan)
}

func (h *PlanHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req loop_service.UpdatePlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan, err := h.PlanUseCase.Update(ctx, id, loop_service.UpdatePlanRequestToPatch(&req))
	if err != nil {
		h.fail(ctx, w, err, "Failed to update plan")
		return
	}
	h.API.Success(ctx, w, plan)
}

func (h *PlanHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.PlanUseCase.Delete(ctx, id); err != nil {
		h.fail(ctx, w, err, "Failed to delete plan")
		return
	}
	h.API.NoContent(w)
}
