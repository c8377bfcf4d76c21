package http

import (
	"net/http"
	"strconv"

	"loop/contracts/loop_service"
	"loop/pkg/logger"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/usecase"
)

// SaleHandler handles HTTP requests for sales and the commissions derived from them
type SaleHandler struct {
	handler
	SaleUseCase usecase.SaleUseCase
}

// NewSaleHandler creates a new instance of SaleHandler
func NewSaleHandler(saleUseCase usecase.SaleUseCase, appLogger logger.LoggerInterface) *SaleHandler {
	return &SaleHandler{
		handler:     newHandler(appLogger),
		SaleUseCase: saleUseCase,
	}
}

// CreateHandler registers a pending sale. Representatives always register for themselves.
func (h *SaleHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.Logger.InfoContext(ctx, "Create sale handler called")
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req loop_service.CreateSaleRequest
	if !h.decode(w, r, &req) {
		return
	}

	sale, err := h.SaleUseCase.Create(ctx, caller, loop_service.CreateSaleRequestToModel(&req))
	if err != nil {
		h.fail(ctx, w, err, "Failed to create sale")
		return
	}
	h.API.Created(ctx, w, sale)
}

func (h *SaleHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	sales, err := h.SaleUseCase.List(ctx, caller)
	if err != nil {
		h.fail(ctx, w, err, "Failed to list sales")
		return
	}
	h.API.List(ctx, w, sales, len(sales))
}

func (h *SaleHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	sale, err := h.SaleUseCase.Get(ctx, caller, id)
	if err != nil {
		h.fail(ctx, w, err, "Failed to get sale")
		return
	}
	h.API.Success(ctx, w, sale)
}

func (h *SaleHandler) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	sale, err := h.SaleUseCase.Approve(ctx, id)
	if err != nil {
		h.fail(ctx, w, err, "Failed to approve sale")
		return
	}
	h.API.Success(ctx, w, sale)
}

func (h *SaleHandler) RejectHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req loop_service.RejectSaleRequest
	if !h.decode(w, r, &req) {
		return
	}

	sale, err := h.SaleUseCase.Reject(ctx, id, req.Reason)
	if err != nil {
		h.fail(ctx, w, err, "Failed to reject sale")
		return
	}
	h.API.Success(ctx, w, sale)
}

func (h *SaleHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.SaleUseCase.Delete(ctx, id); err != nil {
		h.fail(ctx, w, err, "Failed to delete sale")
		return
	}
	h.API.NoContent(w)
}

// CommissionsHandler lists the commissions of approved sales. Admins may narrow the list
// with ?repId=.
func (h *SaleHandler) CommissionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var repID *int64
	if raw := r.URL.Query().Get("repId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.API.BadRequest(ctx, w, domain.ErrInvalidID.Message)
			return
		}
		repID = &id
	}

	commissions, err := h.SaleUseCase.Commissions(ctx, caller, repID)
	if err != nil {
		h.fail(ctx, w, err, "Failed to list commissions")
		return
	}
	h.API.List(ctx, w, commissions, len(commissions))
}

func (h *SaleHandler) PayCommissionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "saleId")
	if !ok {
		return
	}

	commission, err := h.SaleUseCase.MarkCommissionPaid(ctx, id)
	if err != nil {
		h.fail(ctx, w, err, "Failed to mark commission as paid")
		return
	}
	h.API.Success(ctx, w, commission)
}
