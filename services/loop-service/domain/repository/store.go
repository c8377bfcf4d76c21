package repository

import (
	"context"

	"loop/services/loop-service/domain/model"
)

// Table is one named collection of records with per-table integer IDs.
// None of its methods report storage failures; reads degrade to empty and writes are dropped.
type Table[T, P any] interface {
	// All returns every record in storage order
	All(ctx context.Context) []T
	Get(ctx context.Context, id int64) (T, bool)
	// Add assigns the next ID (max+1) and stores the record
	Add(ctx context.Context, record T) T
	// Update overwrites the fields set in patch and keeps every other field, including the ID.
	// It reports false when no record has the given ID.
	Update(ctx context.Context, id int64, patch P) (T, bool)
	// Delete removes the record when present; dependants are left untouched
	Delete(ctx context.Context, id int64)
}

// Store is the record store of the application.
type Store interface {
	Users() Table[model.User, model.UserPatch]
	Representatives() Table[model.Representative, model.RepresentativePatch]
	Clients() Table[model.Client, model.ClientPatch]
	Plans() Table[model.Plan, model.PlanPatch]
	// Sales keeps the newest sale first
	Sales() Table[model.Sale, model.SalePatch]

	FindUserByEmail(ctx context.Context, email string) (model.User, bool)
	FindClientByUserID(ctx context.Context, userID int64) (model.Client, bool)
	FindRepresentativeByUserID(ctx context.Context, userID int64) (model.Representative, bool)
	// CountSale increments a representative's sales counter without losing concurrent increments
	CountSale(ctx context.Context, repID int64) (model.Representative, bool)
	// Register creates a user with a hashed password plus the profile its role calls for.
	Register(ctx context.Context, name, email, password string, role model.Role) (model.User, error)

	// Commissions derives one commission per approved sale
	Commissions(ctx context.Context) []model.Commission
	// MarkCommissionPaid reports false when the sale is missing or not approved
	MarkCommissionPaid(ctx context.Context, saleID int64) bool

	Chats(ctx context.Context) []model.Chat
	Chat(ctx context.Context, id int64) (model.Chat, bool)
	ChatByClientID(ctx context.Context, clientID int64) (model.Chat, bool)
	CreateChat(ctx context.Context, chat model.Chat) model.Chat
	// AppendMessage assigns the message ID and timestamp
	AppendMessage(ctx context.Context, chatID int64, message model.Message) (model.Chat, bool)

	ContractTemplate(ctx context.Context) string
	SetContractTemplate(ctx context.Context, template string)

	// Seed writes the demo fixtures once per substrate
	Seed(ctx context.Context) error
}
