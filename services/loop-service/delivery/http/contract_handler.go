package http

import (
	"net/http"

	"loop/contracts/loop_service"
	"loop/pkg/logger"
	"loop/services/loop-service/usecase"
)

// ContractHandler handles HTTP requests for the contract template and rendered contracts
type ContractHandler struct {
	handler
	ContractUseCase usecase.ContractUseCase
}

// NewContractHandler creates a new instance of ContractHandler
func NewContractHandler(contractUseCase usecase.ContractUseCase, appLogger logger.LoggerInterface) *ContractHandler {
	return &ContractHandler{
		handler:         newHandler(appLogger),
		ContractUseCase: contractUseCase,
	}
}

func (h *ContractHandler) GetTemplateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	template, err := h.ContractUseCase.Template(ctx)
	if err != nil {
		h.fail(ctx, w, err, "Failed to load contract template")
		return
	}
	h.API.Success(ctx, w, loop_service.TemplateResponse{Template: template})
}

func (h *ContractHandler) SetTemplateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req loop_service.TemplateRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.ContractUseCase.SetTemplate(ctx, req.Template); err != nil {
		h.fail(ctx, w, err, "Failed to save contract template")
		return
	}
	h.API.Success(ctx, w, loop_service.TemplateResponse{Template: req.Template})
}

// RenderHandler fills the template in with the data of one sale the caller can see
func (h *ContractHandler) RenderHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	contract, err := h.ContractUseCase.Render(ctx, caller, id)
	if err != nil {
		h.fail(ctx, w, err, "Failed to render contract")
		return
	}
	h.API.Success(ctx, w, loop_service.RenderedContractResponse{SaleID: id, Contract: contract})
}
