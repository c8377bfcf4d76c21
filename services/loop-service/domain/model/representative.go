package model

import "github.com/shopspring/decimal"

type RepresentativeStatus string

const (
	RepresentativeActive   RepresentativeStatus = "Ativo"
	RepresentativeInactive RepresentativeStatus = "Inativo"
)

// DefaultCommissionRate is given to representatives created through self-registration
var DefaultCommissionRate = decimal.NewFromInt(5)

// Representative is a salesperson earning a commission on approved sales
type Representative struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// CommissionRate is a percentage, 5 means 5%
	CommissionRate decimal.Decimal `json:"commissionRate"`
	// Sales is a running counter of sales registered for this representative
	Sales  int                  `json:"sales"`
	Status RepresentativeStatus `json:"status"`
	// MonthlyGoal is the sales value targeted per month, when set
	MonthlyGoal *decimal.Decimal `json:"monthlyGoal,omitempty"`
	// SupervisorID is a weak reference to another representative
	SupervisorID *int64 `json:"supervisorId,omitempty"`
	// UserID is a weak reference to the login account
	UserID *int64 `json:"userId,omitempty"`
}

type RepresentativePatch struct {
	Name           *string               `json:"name,omitempty"`
	Email          *string               `json:"email,omitempty"`
	CommissionRate *decimal.Decimal      `json:"commissionRate,omitempty"`
	Sales          *int                  `json:"sales,omitempty"`
	Status         *RepresentativeStatus `json:"status,omitempty"`
	MonthlyGoal    *decimal.Decimal      `json:"monthlyGoal,omitempty"`
	SupervisorID   *int64                `json:"supervisorId,omitempty"`
	UserID         *int64                `json:"userId,omitempty"`
}
