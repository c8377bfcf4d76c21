package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RepresentativeSummary is the dashboard of one representative
type RepresentativeSummary struct {
	RepresentativeID int64 `json:"repId"`
	// ApprovedSalesTotal sums every approved sale
	ApprovedSalesTotal decimal.Decimal `json:"approvedSalesTotal"`
	// MonthSalesTotal sums approved sales of the current month
	MonthSalesTotal      decimal.Decimal  `json:"monthSalesTotal"`
	MonthlyGoal          *decimal.Decimal `json:"monthlyGoal,omitempty"`
	GoalProgress         *decimal.Decimal `json:"goalProgress,omitempty"`
	CommissionsPaid      decimal.Decimal  `json:"commissionsPaid"`
	CommissionsToReceive decimal.Decimal  `json:"commissionsToReceive"`
	PendingSales         int              `json:"pendingSales"`
	ActiveClients        int              `json:"activeClients"`
}

// ClientStatement is what a client sees of their own contracts
type ClientStatement struct {
	Client      Client          `json:"client"`
	Sales       []Sale          `json:"sales"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	NextPayment *time.Time      `json:"nextPayment,omitempty"`
}

// Profile is a user with the profile record linked to its role
type Profile struct {
	User           User            `json:"user"`
	Representative *Representative `json:"representative,omitempty"`
	Client         *Client         `json:"client,omitempty"`
}
