package model

import "time"

type ClientStatus string

const (
	ClientActive   ClientStatus = "Cliente Ativo"
	ClientLead     ClientStatus = "Lead"
	ClientInactive ClientStatus = "Inativo"
)

// Client is a customer or prospect of a consortium plan
type Client struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Document string `json:"document,omitempty"`
	Address  string `json:"address,omitempty"`
	// Plan is free text naming the plan the client is interested in or holds
	Plan        string       `json:"plan,omitempty"`
	Status      ClientStatus `json:"status"`
	NextPayment *time.Time   `json:"nextPayment,omitempty"`
	// LeadScore ranges 0-100 and is filled by the assistant
	LeadScore         *int   `json:"leadScore,omitempty"`
	LeadJustification string `json:"leadJustification,omitempty"`
	UserID            *int64 `json:"userId,omitempty"`
	// RepresentativeID is a weak reference to the owning representative
	RepresentativeID *int64 `json:"repId,omitempty"`
}

type ClientPatch struct {
	Name              *string       `json:"name,omitempty"`
	Phone             *string       `json:"phone,omitempty"`
	Email             *string       `json:"email,omitempty"`
	Document          *string       `json:"document,omitempty"`
	Address           *string       `json:"address,omitempty"`
	Plan              *string       `json:"plan,omitempty"`
	Status            *ClientStatus `json:"status,omitempty"`
	NextPayment       *time.Time    `json:"nextPayment,omitempty"`
	LeadScore         *int          `json:"leadScore,omitempty"`
	LeadJustification *string       `json:"leadJustification,omitempty"`
	UserID            *int64        `json:"userId,omitempty"`
	RepresentativeID  *int64        `json:"repId,omitempty"`
}
