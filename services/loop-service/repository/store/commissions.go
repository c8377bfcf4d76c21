package store

import (
	"context"

	"github.com/shopspring/decimal"

	"loop/services/loop-service/domain/model"
)

var hundred = decimal.NewFromInt(100)

// Commissions lists one commission per approved sale, in sales order (newest first).
// A sale whose representative no longer exists gets rate 0 and the name "N/A".
func (s *Store) Commissions(ctx context.Context) []model.Commission {
	s.mu.Lock()
	sales := s.sales.load(ctx)
	reps := s.representatives.load(ctx)
	s.mu.Unlock()

	return deriveCommissions(sales, reps)
}

func deriveCommissions(sales []model.Sale, reps []model.Representative) []model.Commission {
	byID := make(map[int64]model.Representative, len(reps))
	for _, rep := range reps {
		byID[rep.ID] = rep
	}

	commissions := make([]model.Commission, 0, len(sales))
	for _, sale := range sales {
		if sale.Status != model.SaleApproved {
			continue
		}

		rate, name := decimal.Zero, model.UnknownRepresentativeName
		if rep, ok := byID[sale.RepresentativeID]; ok {
			rate, name = rep.CommissionRate, rep.Name
		}

		status := model.CommissionPending
		if sale.CommissionPaid {
			status = model.CommissionPaid
		}

		commissions = append(commissions, model.Commission{
			ID:                 sale.ID,
			SaleID:             sale.ID,
			RepresentativeID:   sale.RepresentativeID,
			RepresentativeName: name,
			ClientName:         sale.ClientName,
			Plan:               sale.Plan,
			SalesValue:         sale.Value,
			CommissionRate:     rate,
			CommissionValue:    sale.Value.Mul(rate).Div(hundred),
			Status:             status,
			Period:             model.PeriodOf(sale.Date),
		})
	}
	return commissions
}

// MarkCommissionPaid sets commissionPaid on an approved sale. Missing or unapproved sales
// are left alone and reported with false.
func (s *Store) MarkCommissionPaid(ctx context.Context, saleID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sales := s.sales.load(ctx)
	i := s.sales.find(sales, saleID)
	if i < 0 || sales[i].Status != model.SaleApproved {
		s.logger.WarnContext(ctx, "Commission not payable", "sale_id", saleID)
		return false
	}

	paid := true
	_, ok := s.sales.update(ctx, saleID, model.SalePatch{CommissionPaid: &paid})
	return ok
}
