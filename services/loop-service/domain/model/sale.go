package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SalePending  SaleStatus = "Pendente"
	SaleApproved SaleStatus = "Aprovada"
	SaleRejected SaleStatus = "Rejeitada"
)

// Sale is a consortium contract closed by a representative
type Sale struct {
	ID               int64 `json:"id"`
	RepresentativeID int64 `json:"repId"`
	// ClientID links the client record when known; ClientName is kept for display
	ClientID        *int64          `json:"clientId,omitempty"`
	ClientName      string          `json:"clientName"`
	Plan            string          `json:"plan"`
	Value           decimal.Decimal `json:"value"`
	Date            time.Time       `json:"date"`
	Status          SaleStatus      `json:"status"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	CommissionPaid  bool            `json:"commissionPaid"`
}

type SalePatch struct {
	RepresentativeID *int64           `json:"repId,omitempty"`
	ClientID         *int64           `json:"clientId,omitempty"`
	ClientName       *string          `json:"clientName,omitempty"`
	Plan             *string          `json:"plan,omitempty"`
	Value            *decimal.Decimal `json:"value,omitempty"`
	Date             *time.Time       `json:"date,omitempty"`
	Status           *SaleStatus      `json:"status,omitempty"`
	RejectionReason  *string          `json:"rejectionReason,omitempty"`
	CommissionPaid   *bool            `json:"commissionPaid,omitempty"`
}
