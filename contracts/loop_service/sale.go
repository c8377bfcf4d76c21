package loop_service

import (
	"time"

	"github.com/shopspring/decimal"

	"loop/services/loop-service/domain/model"
)

// CreateSaleRequest represents the request payload for registering a sale. Either clientId
// or clientName is required; with clientId the name is taken from the client record.
type CreateSaleRequest struct {
	RepresentativeID int64           `json:"repId" validate:"omitempty,gt=0"`
	ClientID         *int64          `json:"clientId,omitempty" validate:"omitempty,gt=0"`
	ClientName       string          `json:"clientName,omitempty" validate:"required_without=ClientID,max=120"`
	Plan             string          `json:"plan" validate:"required,max=120"`
	Value            decimal.Decimal `json:"value" validate:"dgte=0.01"`
	Date             *time.Time      `json:"date,omitempty"`
}

// RejectSaleRequest represents the request payload for rejecting a sale
type RejectSaleRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// CreateSaleRequestToModel converts CreateSaleRequest to model.Sale
func CreateSaleRequestToModel(req *CreateSaleRequest) model.Sale {
	sale := model.Sale{
		RepresentativeID: req.RepresentativeID,
		ClientID:         req.ClientID,
		ClientName:       req.ClientName,
		Plan:             req.Plan,
		Value:            req.Value,
	}
	if req.Date != nil {
		sale.Date = req.Date.UTC()
	}
	return sale
}
