package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"loop/pkg/logger"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/domain/repository"
)

// RepresentativeUseCase defines business operations on representatives
type RepresentativeUseCase interface {
	Create(ctx context.Context, rep model.Representative) (model.Representative, error)
	List(ctx context.Context) []model.Representative
	Get(ctx context.Context, id int64) (model.Representative, error)
	Update(ctx context.Context, id int64, patch model.RepresentativePatch) (model.Representative, error)
	// ToggleStatus flips between Ativo and Inativo
	ToggleStatus(ctx context.Context, id int64) (model.Representative, error)
	SetMonthlyGoal(ctx context.Context, id int64, goal decimal.Decimal) (model.Representative, error)
	// Delete removes the representative; its clients and sales keep the dangling reference
	Delete(ctx context.Context, id int64) error
	// Summary builds the dashboard of a representative. A Representante caller may only
	// read its own.
	Summary(ctx context.Context, caller model.Caller, id int64) (model.RepresentativeSummary, error)
}

type representativeUseCase struct {
	store  repository.Store
	logger logger.LoggerInterface
	now    func() time.Time
}

// NewRepresentativeUseCase creates a new instance of representativeUseCase
func NewRepresentativeUseCase(store repository.Store, appLogger logger.LoggerInterface) RepresentativeUseCase {
	return &representativeUseCase{
		store:  store,
		logger: appLogger,
		now:    time.Now,
	}
}

func (uc *representativeUseCase) Create(ctx context.Context, rep model.Representative) (model.Representative, error) {
	uc.logger.InfoContext(ctx, "Creating representative in usecase", "name", rep.Name)

	if rep.SupervisorID != nil {
		if _, ok := uc.store.Representatives().Get(ctx, *rep.SupervisorID); !ok {
			uc.logger.WarnContext(ctx, "Supervisor not found", "supervisorID", *rep.SupervisorID)
			return model.Representative{}, domain.ErrInvalidSupervisor
		}
	}
	if rep.Status == "" {
		rep.Status = model.RepresentativeActive
	}
	rep.Sales = 0

	created := uc.store.Representatives().Add(ctx, rep)
	uc.logger.InfoContext(ctx, "Representative created", "id", created.ID)
	return created, nil
}

func (uc *representativeUseCase) List(ctx context.Context) []model.Representative {
	return uc.store.Representatives().All(ctx)
}

func (uc *representativeUseCase) Get(ctx context.Context, id int64) (model.Representative, error) {
	rep, ok := uc.store.Representatives().Get(ctx, id)
	if !ok {
		uc.logger.WarnContext(ctx, "Representative not found", "id", id)
		return model.Representative{}, domain.ErrRepresentativeNotFound
	}
	return rep, nil
}

func (uc *representativeUseCase) Update(ctx context.Context, id int64, patch model.RepresentativePatch) (model.Representative, error) {
	uc.logger.InfoContext(ctx, "Updating representative in usecase", "id", id)

	if patch.SupervisorID != nil {
		if err := uc.checkSupervisor(ctx, id, *patch.SupervisorID); err != nil {
			return model.Representative{}, err
		}
	}

	rep, ok := uc.store.Representatives().Update(ctx, id, patch)
	if !ok {
		uc.logger.WarnContext(ctx, "Representative not found for update", "id", id)
		return model.Representative{}, domain.ErrRepresentativeNotFound
	}
	return rep, nil
}

// checkSupervisor rejects a supervisor that is missing, is the representative itself, or
// is already supervised (directly or not) by the representative.
func (uc *representativeUseCase) checkSupervisor(ctx context.Context, id, supervisorID int64) error {
	reps := uc.store.Representatives().All(ctx)
	byID := make(map[int64]model.Representative, len(reps))
	for _, r := range reps {
		byID[r.ID] = r
	}

	if _, ok := byID[supervisorID]; !ok || supervisorID == id {
		uc.logger.WarnContext(ctx, "Invalid supervisor", "id", id, "supervisorID", supervisorID)
		return domain.ErrInvalidSupervisor
	}

	seen := map[int64]bool{id: true}
	for next := supervisorID; ; {
		if seen[next] {
			uc.logger.WarnContext(ctx, "Supervisor chain would form a cycle", "id", id, "supervisorID", supervisorID)
			return domain.ErrInvalidSupervisor
		}
		seen[next] = true

		r, ok := byID[next]
		if !ok || r.SupervisorID == nil {
			return nil
		}
		next = *r.SupervisorID
	}
}

func (uc *representativeUseCase) ToggleStatus(ctx context.Context, id int64) (model.Representative, error) {
	rep, err := uc.Get(ctx, id)
	if err != nil {
		return model.Representative{}, err
	}

	status := model.RepresentativeInactive
	if rep.Status == model.RepresentativeInactive {
		status = model.RepresentativeActive
	}
	uc.logger.InfoContext(ctx, "Changing representative status", "id", id, "status", status)
	return uc.Update(ctx, id, model.RepresentativePatch{Status: &status})
}

func (uc *representativeUseCase) SetMonthlyGoal(ctx context.Context, id int64, goal decimal.Decimal) (model.Representative, error) {
	uc.logger.InfoContext(ctx, "Setting monthly goal", "id", id, "goal", goal.String())
	return uc.Update(ctx, id, model.RepresentativePatch{MonthlyGoal: &goal})
}

func (uc *representativeUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	uc.store.Representatives().Delete(ctx, id)
	uc.logger.InfoContext(ctx, "Representative deleted", "id", id)
	return nil
}

func (uc *representativeUseCase) Summary(ctx context.Context, caller model.Caller, id int64) (model.RepresentativeSummary, error) {
	if !caller.IsAdmin() {
		own, err := representativeOf(ctx, uc.store, caller)
		if err != nil {
			return model.RepresentativeSummary{}, err
		}
		if own.ID != id {
			uc.logger.WarnContext(ctx, "Summary of another representative requested", "callerRepID", own.ID, "id", id)
			return model.RepresentativeSummary{}, domain.ErrForbidden
		}
	}

	rep, err := uc.Get(ctx, id)
	if err != nil {
		return model.RepresentativeSummary{}, err
	}

	summary := model.RepresentativeSummary{
		RepresentativeID: rep.ID,
		MonthlyGoal:      rep.MonthlyGoal,
	}

	thisMonth := model.PeriodOf(uc.now())
	for _, sale := range uc.store.Sales().All(ctx) {
		if sale.RepresentativeID != rep.ID {
			continue
		}
		switch sale.Status {
		case model.SalePending:
			summary.PendingSales++
		case model.SaleApproved:
			summary.ApprovedSalesTotal = summary.ApprovedSalesTotal.Add(sale.Value)
			if model.PeriodOf(sale.Date.In(thisMonth.Location())).Equal(thisMonth) {
				summary.MonthSalesTotal = summary.MonthSalesTotal.Add(sale.Value)
			}
		}
	}

	for _, c := range uc.store.Commissions(ctx) {
		if c.RepresentativeID != rep.ID {
			continue
		}
		if c.Status == model.CommissionPaid {
			summary.CommissionsPaid = summary.CommissionsPaid.Add(c.CommissionValue)
		} else {
			summary.CommissionsToReceive = summary.CommissionsToReceive.Add(c.CommissionValue)
		}
	}

	for _, client := range uc.store.Clients().All(ctx) {
		if client.RepresentativeID != nil && *client.RepresentativeID == rep.ID && client.Status == model.ClientActive {
			summary.ActiveClients++
		}
	}

	if rep.MonthlyGoal != nil && rep.MonthlyGoal.IsPositive() {
		progress := summary.MonthSalesTotal.Mul(decimal.NewFromInt(100)).Div(*rep.MonthlyGoal).Round(2)
		summary.GoalProgress = &progress
	}
	return summary, nil
}
