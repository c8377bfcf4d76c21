package loop_service

import (
	"github.com/shopspring/decimal"

	"loop/services/loop-service/domain/model"
)

// CreateRepresentativeRequest represents the request payload for creating a representative
type CreateRepresentativeRequest struct {
	Name           string           `json:"name" validate:"required,min=2,max=120"`
	Email          string           `json:"email" validate:"required,email"`
	CommissionRate decimal.Decimal  `json:"commissionRate" validate:"dgte=0,dlte=100"`
	Status         string           `json:"status,omitempty" validate:"omitempty,oneof=Ativo Inativo"`
	MonthlyGoal    *decimal.Decimal `json:"monthlyGoal,omitempty" validate:"omitempty,dgte=0"`
	SupervisorID   *int64           `json:"supervisorId,omitempty" validate:"omitempty,gt=0"`
	UserID         *int64           `json:"userId,omitempty" validate:"omitempty,gt=0"`
}

// UpdateRepresentativeRequest represents a partial update; absent fields are kept
type UpdateRepresentativeRequest struct {
	Name           *string          `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Email          *string          `json:"email,omitempty" validate:"omitempty,email"`
	CommissionRate *decimal.Decimal `json:"commissionRate,omitempty" validate:"omitempty,dgte=0,dlte=100"`
	Status         *string          `json:"status,omitempty" validate:"omitempty,oneof=Ativo Inativo"`
	MonthlyGoal    *decimal.Decimal `json:"monthlyGoal,omitempty" validate:"omitempty,dgte=0"`
	SupervisorID   *int64           `json:"supervisorId,omitempty" validate:"omitempty,gt=0"`
	UserID         *int64           `json:"userId,omitempty" validate:"omitempty,gt=0"`
}

// MonthlyGoalRequest represents the request payload for setting a monthly goal
type MonthlyGoalRequest struct {
	Goal decimal.Decimal `json:"goal" validate:"dgte=0"`
}

// CreateRepresentativeRequestToModel converts CreateRepresentativeRequest to model.Representative
func CreateRepresentativeRequestToModel(req *CreateRepresentativeRequest) model.Representative {
	return model.Representative{
		Name:           req.Name,
		Email:          req.Email,
		CommissionRate: req.CommissionRate,
		Status:         model.RepresentativeStatus(req.Status),
		MonthlyGoal:    req.MonthlyGoal,
		SupervisorID:   req.SupervisorID,
		UserID:         req.UserID,
	}
}

// UpdateRepresentativeRequestToPatch converts UpdateRepresentativeRequest to a patch
func UpdateRepresentativeRequestToPatch(req *UpdateRepresentativeRequest) model.RepresentativePatch {
	patch := model.RepresentativePatch{
		Name:           req.Name,
		Email:          req.Email,
		CommissionRate: req.CommissionRate,
		MonthlyGoal:    req.MonthlyGoal,
		SupervisorID:   req.SupervisorID,
		UserID:         req.UserID,
	}
	if req.Status != nil {
		status := model.RepresentativeStatus(*req.Status)
		patch.Status = &status
	}
	return patch
}
