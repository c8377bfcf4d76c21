package model

import "time"

type EventType string

const (
	EventSaleCreated    EventType = "sale.created"
	EventSaleApproved   EventType = "sale.approved"
	EventSaleRejected   EventType = "sale.rejected"
	EventCommissionPaid EventType = "commission.paid"
	EventUserRegistered EventType = "user.registered"
)

// Event notifies other systems of a state change that already happened
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	// Key groups related events, for example all events of one sale
	Key     string `json:"key"`
	Payload any    `json:"payload"`
}
