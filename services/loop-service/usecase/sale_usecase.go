package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"loop/pkg/logger"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/domain/repository"
)

// SaleUseCase defines business operations on sales and the commissions derived from them
type SaleUseCase interface {
	// Create registers a pending sale and bumps the representative's sales counter
	Create(ctx context.Context, caller model.Caller, sale model.Sale) (model.Sale, error)
	// List returns every sale for an admin, own sales for a representative and own
	// contracts for a client, newest first
	List(ctx context.Context, caller model.Caller) ([]model.Sale, error)
	Get(ctx context.Context, caller model.Caller, id int64) (model.Sale, error)
	Approve(ctx context.Context, id int64) (model.Sale, error)
	Reject(ctx context.Context, id int64, reason string) (model.Sale, error)
	Delete(ctx context.Context, id int64) error

	// Commissions lists commissions, narrowed to one representative when repID is set.
	// Representatives always get only their own.
	Commissions(ctx context.Context, caller model.Caller, repID *int64) ([]model.Commission, error)
	MarkCommissionPaid(ctx context.Context, saleID int64) (model.Commission, error)
}

type saleUseCase struct {
	store  repository.Store
	events repository.EventPublisher
	logger logger.LoggerInterface
	now    func() time.Time
}

// NewSaleUseCase creates a new instance of saleUseCase
func NewSaleUseCase(store repository.Store, events repository.EventPublisher, appLogger logger.LoggerInterface) SaleUseCase {
	return &saleUseCase{
		store:  store,
		events: events,
		logger: appLogger,
		now:    time.Now,
	}
}

func saleKey(id int64) string {
	return "sale-" + strconv.FormatInt(id, 10)
}

func (uc *saleUseCase) Create(ctx context.Context, caller model.Caller, sale model.Sale) (model.Sale, error) {
	uc.logger.InfoContext(ctx, "Creating sale in usecase", "repID", sale.RepresentativeID, "callerRole", caller.Role)

	switch caller.Role {
	case model.RoleAdmin:
	case model.RoleRepresentative:
		rep, err := representativeOf(ctx, uc.store, caller)
		if err != nil {
			return model.Sale{}, err
		}
		sale.RepresentativeID = rep.ID
	default:
		return model.Sale{}, domain.ErrForbidden
	}

	rep, ok := uc.store.Representatives().Get(ctx, sale.RepresentativeID)
	if !ok {
		uc.logger.WarnContext(ctx, "Representative not found for sale", "repID", sale.RepresentativeID)
		return model.Sale{}, domain.ErrRepresentativeNotFound
	}

	if sale.ClientID != nil {
		client, ok := uc.store.Clients().Get(ctx, *sale.ClientID)
		if !ok {
			uc.logger.WarnContext(ctx, "Client not found for sale", "clientID", *sale.ClientID)
			return model.Sale{}, domain.ErrClientNotFound
		}
		sale.ClientName = client.Name
	}
	if strings.TrimSpace(sale.ClientName) == "" {
		return model.Sale{}, domain.ErrClientNotFound
	}

	if sale.Date.IsZero() {
		sale.Date = uc.now().UTC()
	}
	sale.Status = model.SalePending
	sale.RejectionReason = ""
	sale.CommissionPaid = false

	created := uc.store.Sales().Add(ctx, sale)

	// A separate write; a crash in between leaves the counter one short.
	if _, ok := uc.store.CountSale(ctx, rep.ID); !ok {
		uc.logger.WarnContext(ctx, "Representative vanished before its sale was counted", "repID", rep.ID)
	}

	uc.events.Publish(ctx, model.Event{Type: model.EventSaleCreated, Key: saleKey(created.ID), Payload: created})
	uc.logger.InfoContext(ctx, "Sale created", "id", created.ID, "repID", created.RepresentativeID)
	return created, nil
}

func (uc *saleUseCase) List(ctx context.Context, caller model.Caller) ([]model.Sale, error) {
	sales := uc.store.Sales().All(ctx)

	switch caller.Role {
	case model.RoleAdmin:
		return sales, nil
	case model.RoleRepresentative:
		rep, err := representativeOf(ctx, uc.store, caller)
		if err != nil {
			return nil, err
		}
		return filter(sales, func(s model.Sale) bool { return s.RepresentativeID == rep.ID }), nil
	case model.RoleClient:
		client, err := clientOf(ctx, uc.store, caller)
		if err != nil {
			return nil, err
		}
		return filter(sales, salesOf(ctx, uc.store, client)), nil
	}
	return nil, domain.ErrForbidden
}

func (uc *saleUseCase) Get(ctx context.Context, caller model.Caller, id int64) (model.Sale, error) {
	sale, ok := uc.store.Sales().Get(ctx, id)
	if !ok {
		uc.logger.WarnContext(ctx, "Sale not found", "id", id)
		return model.Sale{}, domain.ErrSaleNotFound
	}
	if caller.IsAdmin() {
		return sale, nil
	}

	visible, err := uc.List(ctx, caller)
	if err != nil {
		return model.Sale{}, err
	}
	for _, s := range visible {
		if s.ID == id {
			return sale, nil
		}
	}
	return model.Sale{}, domain.ErrForbidden
}

func (uc *saleUseCase) pending(ctx context.Context, id int64) error {
	sale, ok := uc.store.Sales().Get(ctx, id)
	if !ok {
		uc.logger.WarnContext(ctx, "Sale not found", "id", id)
		return domain.ErrSaleNotFound
	}
	if sale.Status != model.SalePending {
		uc.logger.WarnContext(ctx, "Sale already decided", "id", id, "status", sale.Status)
		return domain.ErrSaleNotPending
	}
	return nil
}

func (uc *saleUseCase) Approve(ctx context.Context, id int64) (model.Sale, error) {
	uc.logger.InfoContext(ctx, "Approving sale", "id", id)
	if err := uc.pending(ctx, id); err != nil {
		return model.Sale{}, err
	}

	status := model.SaleApproved
	sale, ok := uc.store.Sales().Update(ctx, id, model.SalePatch{Status: &status})
	if !ok {
		return model.Sale{}, domain.ErrSaleNotFound
	}

	uc.events.Publish(ctx, model.Event{Type: model.EventSaleApproved, Key: saleKey(id), Payload: sale})
	return sale, nil
}

func (uc *saleUseCase) Reject(ctx context.Context, id int64, reason string) (model.Sale, error) {
	uc.logger.InfoContext(ctx, "Rejecting sale", "id", id)

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return model.Sale{}, domain.ErrRejectionReason
	}
	if err := uc.pending(ctx, id); err != nil {
		return model.Sale{}, err
	}

	status := model.SaleRejected
	sale, ok := uc.store.Sales().Update(ctx, id, model.SalePatch{Status: &status, RejectionReason: &reason})
	if !ok {
		return model.Sale{}, domain.ErrSaleNotFound
	}

	uc.events.Publish(ctx, model.Event{Type: model.EventSaleRejected, Key: saleKey(id), Payload: sale})
	return sale, nil
}

func (uc *saleUseCase) Delete(ctx context.Context, id int64) error {
	if _, ok := uc.store.Sales().Get(ctx, id); !ok {
		return domain.ErrSaleNotFound
	}
	uc.store.Sales().Delete(ctx, id)
	uc.logger.InfoContext(ctx, "Sale deleted", "id", id)
	return nil
}

func (uc *saleUseCase) Commissions(ctx context.Context, caller model.Caller, repID *int64) ([]model.Commission, error) {
	switch caller.Role {
	case model.RoleAdmin:
	case model.RoleRepresentative:
		rep, err := representativeOf(ctx, uc.store, caller)
		if err != nil {
			return nil, err
		}
		repID = &rep.ID
	default:
		return nil, domain.ErrForbidden
	}

	commissions := uc.store.Commissions(ctx)
	if repID == nil {
		return commissions, nil
	}
	return filter(commissions, func(c model.Commission) bool { return c.RepresentativeID == *repID }), nil
}

func (uc *saleUseCase) MarkCommissionPaid(ctx context.Context, saleID int64) (model.Commission, error) {
	uc.logger.InfoContext(ctx, "Marking commission paid", "saleID", saleID)

	sale, ok := uc.store.Sales().Get(ctx, saleID)
	if !ok {
		return model.Commission{}, domain.ErrSaleNotFound
	}
	if sale.Status != model.SaleApproved {
		uc.logger.WarnContext(ctx, "Commission of a sale that is not approved", "saleID", saleID, "status", sale.Status)
		return model.Commission{}, domain.ErrSaleNotApproved
	}

	if !uc.store.MarkCommissionPaid(ctx, saleID) {
		return model.Commission{}, domain.ErrSaleNotApproved
	}

	for _, c := range uc.store.Commissions(ctx) {
		if c.SaleID == saleID {
			uc.events.Publish(ctx, model.Event{Type: model.EventCommissionPaid, Key: saleKey(saleID), Payload: c})
			return c, nil
		}
	}
	// the sale was deleted or changed in between
	return model.Commission{}, domain.ErrSaleNotFound
}
