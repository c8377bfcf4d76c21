package model

import "github.com/shopspring/decimal"

type PlanType string

const (
	PlanRealEstate PlanType = "Imóvel"
	PlanAutomobile PlanType = "Automóvel"
	PlanServices   PlanType = "Serviços"
)

// Plan is a consortium product offered to clients
type Plan struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Type       PlanType        `json:"type"`
	CreditMin  decimal.Decimal `json:"creditMin"`
	CreditMax  decimal.Decimal `json:"creditMax"`
	TermMonths int             `json:"termMonths"`
	// AdminFee is a percentage of the credit
	AdminFee decimal.Decimal `json:"adminFee"`
}

type PlanPatch struct {
	Name       *string          `json:"name,omitempty"`
	Type       *PlanType        `json:"type,omitempty"`
	CreditMin  *decimal.Decimal `json:"creditMin,omitempty"`
	CreditMax  *decimal.Decimal `json:"creditMax,omitempty"`
	TermMonths *int             `json:"termMonths,omitempty"`
	AdminFee   *decimal.Decimal `json:"adminFee,omitempty"`
}
