package usecase

import (
	"context"

	"loop/pkg/logger"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/domain/repository"
)

// PlanUseCase defines business operations on the plan catalog
type PlanUseCase interface {
	Create(ctx context.Context, plan model.Plan) (model.Plan, error)
	List(ctx context.Context) []model.Plan
	Get(ctx context.Context, id int64) (model.Plan, error)
	Update(ctx context.Context, id int64, patch model.PlanPatch) (model.Plan, error)
	// Delete leaves clients and sales naming the plan as they are
	Delete(ctx context.Context, id int64) error
}

type planUseCase struct {
	store  repository.Store
	logger logger.LoggerInterface
}

// NewPlanUseCase creates a new instance of planUseCase
func NewPlanUseCase(store repository.Store, appLogger logger.LoggerInterface) PlanUseCase {
	return &planUseCase{store: store, logger: appLogger}
}

func (uc *planUseCase) Create(ctx context.Context, plan model.Plan) (model.Plan, error) {
	uc.logger.InfoContext(ctx, "Creating plan in usecase", "name", plan.Name, "type", plan.Type)

	if plan.CreditMin.GreaterThan(plan.CreditMax) {
		uc.logger.WarnContext(ctx, "Invalid credit range", "min", plan.CreditMin.String(), "max", plan.CreditMax.String())
		return model.Plan{}, domain.ErrInvalidCreditRange
	}

	created := uc.store.Plans().Add(ctx, plan)
	uc.logger.InfoContext(ctx, "Plan created", "id", created.ID)
	return created, nil
}

func (uc *planUseCase) List(ctx context.Context) []model.Plan {
	return uc.store.Plans().All(ctx)
}

func (uc *planUseCase) Get(ctx context.Context, id int64) (model.Plan, error) {
	plan, ok := uc.store.Plans().Get(ctx, id)
	if !ok {
		uc.logger.WarnContext(ctx, "Plan not found", "id", id)
		return model.Plan{}, domain.ErrPlanNotFound
	}
	return plan, nil
}

func (uc *planUseCase) Update(ctx context.Context, id int64, patch model.PlanPatch) (model.Plan, error) {
	uc.logger.InfoContext(ctx, "Updating plan in usecase", "id", id)

	current, err := uc.Get(ctx, id)
	if err != nil {
		return model.Plan{}, err
	}

	creditMin, creditMax := current.CreditMin, current.CreditMax
	if patch.CreditMin != nil {
		creditMin = *patch.CreditMin
	}
	if patch.CreditMax != nil {
		creditMax = *patch.CreditMax
	}
	if creditMin.GreaterThan(creditMax) {
		uc.logger.WarnContext(ctx, "Invalid credit range", "id", id, "min", creditMin.String(), "max", creditMax.String())
		return model.Plan{}, domain.ErrInvalidCreditRange
	}

	plan, ok := uc.store.Plans().Update(ctx, id, patch)
	if !ok {
		return model.Plan{}, domain.ErrPlanNotFound
	}
	return plan, nil
}

func (uc *planUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	uc.store.Plans().Delete(ctx, id)
	uc.logger.InfoContext(ctx, "Plan deleted", "id", id)
	return nil
}
