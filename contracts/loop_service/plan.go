package loop_service

import (
	"github.com/shopspring/decimal"

	"loop/services/loop-service/domain/model"
)

// CreatePlanRequest represents the request payload for creating a plan
type CreatePlanRequest struct {
	Name       string          `json:"name" validate:"required,min=2,max=120"`
	Type       string          `json:"type" validate:"required,oneof=Imóvel Automóvel Serviços"`
	CreditMin  decimal.Decimal `json:"creditMin" validate:"dgte=0"`
	CreditMax  decimal.Decimal `json:"creditMax" validate:"dgte=0"`
	TermMonths int             `json:"termMonths" validate:"required,gt=0,lte=240"`
	AdminFee   decimal.Decimal `json:"adminFee" validate:"dgte=0,dlte=100"`
}

// UpdatePlanRequest represents a partial update; absent fields are kept
type UpdatePlanRequest struct {
	Name       *string          `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Type       *string          `json:"type,omitempty" validate:"omitempty,oneof=Imóvel Automóvel Serviços"`
	CreditMin  *decimal.Decimal `json:"creditMin,omitempty" validate:"omitempty,dgte=0"`
	CreditMax  *decimal.Decimal `json:"creditMax,omitempty" validate:"omitempty,dgte=0"`
	TermMonths *int             `json:"termMonths,omitempty" validate:"omitempty,gt=0,lte=240"`
	AdminFee   *decimal.Decimal `json:"adminFee,omitempty" validate:"omitempty,dgte=0,dlte=100"`
}

// CreatePlanRequestToModel converts CreatePlanRequest to model.Plan
func CreatePlanRequestToModel(req *CreatePlanRequest) model.Plan {
	return model.Plan{
		Name:       req.Name,
		Type:       model.PlanType(req.Type),
		CreditMin:  req.CreditMin,
		CreditMax:  req.CreditMax,
		TermMonths: req.TermMonths,
		AdminFee:   req.AdminFee,
	}
}

// UpdatePlanRequestToPatch converts UpdatePlanRequest to a patch
func UpdatePlanRequestToPatch(req *UpdatePlanRequest) model.PlanPatch {
	patch := model.PlanPatch{
		Name:       req.Name,
		CreditMin:  req.CreditMin,
		CreditMax:  req.CreditMax,
		TermMonths: req.TermMonths,
		AdminFee:   req.AdminFee,
	}
	if req.Type != nil {
		planType := model.PlanType(*req.Type)
		patch.Type = &planType
	}
	return patch
}
