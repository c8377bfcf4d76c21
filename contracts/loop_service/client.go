package loop_service

import (
	"time"

	"loop/services/loop-service/domain/model"
)

// CreateClientRequest represents the request payload for creating a client
type CreateClientRequest struct {
	Name             string     `json:"name" validate:"required,min=2,max=120"`
	Phone            string     `json:"phone" validate:"required,max=30"`
	Email            string     `json:"email,omitempty" validate:"omitempty,email"`
	Document         string     `json:"document,omitempty" validate:"omitempty,max=30"`
	Address          string     `json:"address,omitempty" validate:"omitempty,max=255"`
	Plan             string     `json:"plan,omitempty" validate:"omitempty,max=120"`
	Status           string     `json:"status,omitempty" validate:"omitempty,oneof='Cliente Ativo' Lead Inativo"`
	NextPayment      *time.Time `json:"nextPayment,omitempty"`
	RepresentativeID *int64     `json:"repId,omitempty" validate:"omitempty,gt=0"`
}

// UpdateClientRequest represents a partial update; absent fields are kept
type UpdateClientRequest struct {
	Name             *string    `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Phone            *string    `json:"phone,omitempty" validate:"omitempty,min=1,max=30"`
	Email            *string    `json:"email,omitempty" validate:"omitempty,email"`
	Document         *string    `json:"document,omitempty" validate:"omitempty,max=30"`
	Address          *string    `json:"address,omitempty" validate:"omitempty,max=255"`
	Plan             *string    `json:"plan,omitempty" validate:"omitempty,max=120"`
	Status           *string    `json:"status,omitempty" validate:"omitempty,oneof='Cliente Ativo' Lead Inativo"`
	NextPayment      *time.Time `json:"nextPayment,omitempty"`
	RepresentativeID *int64     `json:"repId,omitempty" validate:"omitempty,gt=0"`
}

// CreateClientRequestToModel converts CreateClientRequest to model.Client
func CreateClientRequestToModel(req *CreateClientRequest) model.Client {
	return model.Client{
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		Document:         req.Document,
		Address:          req.Address,
		Plan:             req.Plan,
		Status:           model.ClientStatus(req.Status),
		NextPayment:      req.NextPayment,
		RepresentativeID: req.RepresentativeID,
	}
}

// UpdateClientRequestToPatch converts UpdateClientRequest to a patch
func UpdateClientRequestToPatch(req *UpdateClientRequest) model.ClientPatch {
	patch := model.ClientPatch{
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		Document:         req.Document,
		Address:          req.Address,
		Plan:             req.Plan,
		NextPayment:      req.NextPayment,
		RepresentativeID: req.RepresentativeID,
	}
	if req.Status != nil {
		status := model.ClientStatus(*req.Status)
		patch.Status = &status
	}
	return patch
}
