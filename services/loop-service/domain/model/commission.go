package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommissionStatus string

const (
	CommissionPaid    CommissionStatus = "Paga"
	CommissionPending CommissionStatus = "Pendente"
)

// UnknownRepresentativeName is shown when a commission's representative no longer exists
const UnknownRepresentativeName = "N/A"

// Commission is computed from an approved sale and never stored
type Commission struct {
	// ID equals SaleID
	ID                 int64            `json:"id"`
	SaleID             int64            `json:"saleId"`
	RepresentativeID   int64            `json:"repId"`
	RepresentativeName string           `json:"repName"`
	ClientName         string           `json:"clientName"`
	Plan               string           `json:"plan"`
	SalesValue         decimal.Decimal  `json:"salesValue"`
	CommissionRate     decimal.Decimal  `json:"commissionRate"`
	CommissionValue    decimal.Decimal  `json:"commissionValue"`
	Status             CommissionStatus `json:"status"`
	// Period is the first instant of the sale's month
	Period time.Time `json:"period"`
}

// PeriodOf truncates t to the first day of its month in t's location
func PeriodOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
